package metrics

import (
	"sort"
	"time"

	"github.com/chatlens/chatlens/internal/chatlog"
	"github.com/chatlens/chatlens/internal/words"
)

// outlier bounds for turn-taking deltas: non-positive deltas are
// out-of-order noise, deltas of a day or more are gaps rather than
// genuine responses.
const maxResponseMinutes = 1440

// gapThreshold is the silence after which a message counts as
// starting a new conversation.
const gapThreshold = 3 * time.Hour

// HourCount is the busiest hour of day with its count and
// display range.
type HourCount struct {
	Hour  int    `json:"hour"`
	Count int    `json:"count"`
	Label string `json:"label"`
}

// WeekendStat is a participant's weekend/weekday activity split.
type WeekendStat struct {
	Percentage   int `json:"percentage"`
	WeekendCount int `json:"weekend_count"`
	WeekdayCount int `json:"weekday_count"`
}

// StarterStat is a participant's share of conversation starts.
type StarterStat struct {
	Percentage int `json:"percentage"`
	Started    int `json:"started"`
}

// EmojiCount is one emoji with its occurrence count.
type EmojiCount struct {
	Emoji string `json:"emoji"`
	Count int    `json:"count"`
}

// ResponseTime computes the mean turn-taking latency. For each
// message by participant whose immediately preceding message (in
// the given sequence) has a different author, the delta counts
// unless it is non-positive or at least 24 hours. An empty
// participant averages every adjacent delta regardless of author.
// Returns the zero Duration ("0 min") when no valid delta exists.
func ResponseTime(log chatlog.Log, participant string) Duration {
	none := Duration{Formatted: "0 min"}
	if len(log) < 2 {
		return none
	}

	var sum float64
	var n int
	for i := 1; i < len(log); i++ {
		cur, prev := log[i], log[i-1]
		if participant != "" {
			if cur.Author != participant {
				continue
			}
			if prev.Author == participant {
				continue
			}
		}
		minutes := cur.Timestamp.Sub(prev.Timestamp).Minutes()
		if minutes <= 0 || minutes >= maxResponseMinutes {
			continue
		}
		sum += minutes
		n++
	}
	if n == 0 {
		return none
	}
	avg := sum / float64(n)
	return Duration{Minutes: avg, Formatted: FormatMinutes(avg)}
}

// ResponseTimes returns one bar per participant with the mean
// response latency in minutes. Labels use first names for display.
func ResponseTimes(log chatlog.Log) Series {
	participants := log.Participants()
	s := Series{
		Labels: make([]string, 0, len(participants)),
		Data:   make([]float64, 0, len(participants)),
	}
	for _, p := range participants {
		s.Labels = append(s.Labels, firstName(p))
		s.Data = append(s.Data, ResponseTime(log, p).Minutes)
	}
	if s.Labels == nil {
		return emptySeries()
	}
	return s
}

func firstName(name string) string {
	for i, r := range name {
		if r == ' ' {
			return name[:i]
		}
	}
	return name
}

// MostActiveHour returns the hour of day with the most messages,
// optionally restricted to one participant. Ties go to the earlier
// hour. Zero-valued for empty input.
func MostActiveHour(log chatlog.Log, participant string) HourCount {
	var counts [24]int
	for _, m := range log {
		if participant != "" && m.Author != participant {
			continue
		}
		counts[m.Timestamp.Hour()]++
	}
	best := HourCount{Label: HourRangeLabel(0)}
	for h, c := range counts {
		if c > best.Count {
			best = HourCount{Hour: h, Count: c, Label: HourRangeLabel(h)}
		}
	}
	return best
}

// AverageWords returns the mean whitespace-word count of non-blank
// messages, optionally restricted to one participant.
func AverageWords(log chatlog.Log, participant string) float64 {
	var sum, n int
	for _, m := range log {
		if participant != "" && m.Author != participant {
			continue
		}
		wc := words.WordCount(m.Text)
		if wc == 0 {
			continue
		}
		sum += wc
		n++
	}
	if n == 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

// WeekendActivity returns the weekend share of a participant's
// messages. Sunday and Saturday count as weekend.
func WeekendActivity(log chatlog.Log, participant string) WeekendStat {
	var stat WeekendStat
	total := 0
	for _, m := range log {
		if m.Author != participant {
			continue
		}
		total++
		if isWeekend(m.Timestamp) {
			stat.WeekendCount++
		} else {
			stat.WeekdayCount++
		}
	}
	if total == 0 {
		return WeekendStat{}
	}
	stat.Percentage = roundPct(stat.WeekendCount, total)
	return stat
}

// starts reports whether log[i] begins a conversation: it is the
// first message, or it follows a silence longer than gapThreshold
// and its author differs from the previous author.
func starts(log chatlog.Log, i int) bool {
	if i == 0 {
		return true
	}
	cur, prev := log[i], log[i-1]
	return cur.Timestamp.Sub(prev.Timestamp) > gapThreshold &&
		prev.Author != cur.Author
}

// ConversationStarts attributes conversation-starting events to a
// participant. The percentage denominator is the total number of
// start events across all authors computed with the same rule, so
// per-participant percentages sum to ~100% (modulo rounding).
// The single-rule denominator is deliberate; per-pair attribution
// variants change the reported percentages silently.
func ConversationStarts(log chatlog.Log, participant string) StarterStat {
	var mine, total int
	for i := range log {
		if !starts(log, i) {
			continue
		}
		total++
		if log[i].Author == participant {
			mine++
		}
	}
	if total == 0 {
		return StarterStat{}
	}
	return StarterStat{
		Percentage: roundPct(mine, total),
		Started:    mine,
	}
}

// ConversationStarters returns one bar per participant with the
// number of conversations they started.
func ConversationStarters(log chatlog.Log) Series {
	participants := log.Participants()
	if len(participants) == 0 {
		return emptySeries()
	}
	counts := make(map[string]int, len(participants))
	for i := range log {
		if starts(log, i) {
			counts[log[i].Author]++
		}
	}
	s := Series{
		Labels: make([]string, len(participants)),
		Data:   make([]float64, len(participants)),
	}
	for i, p := range participants {
		s.Labels[i] = firstName(p)
		s.Data[i] = float64(counts[p])
	}
	return s
}

// TopEmojis returns a participant's k most used emoji in
// descending count order, ties broken by first appearance.
// k defaults to 4 when non-positive.
func TopEmojis(log chatlog.Log, participant string, k int) []EmojiCount {
	if k <= 0 {
		k = 4
	}

	counts := make(map[string]int)
	var order []string
	for _, m := range log {
		if m.Author != participant {
			continue
		}
		for _, e := range words.Emojis(m.Text) {
			if counts[e] == 0 {
				order = append(order, e)
			}
			counts[e]++
		}
	}
	if len(order) == 0 {
		return nil
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > k {
		order = order[:k]
	}

	out := make([]EmojiCount, len(order))
	for i, e := range order {
		out[i] = EmojiCount{Emoji: e, Count: counts[e]}
	}
	return out
}

func roundPct(part, total int) int {
	return int(float64(part)/float64(total)*100 + 0.5)
}
