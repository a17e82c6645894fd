package metrics

import (
	"fmt"
	"sort"
	"time"

	"github.com/chatlens/chatlens/internal/chatlog"
)

// DayCount is a calendar day with its message count.
type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// LongestStreak returns the longest run of consecutive calendar
// days with at least one message. Empty logs yield 0; any non-empty
// log yields at least 1.
func LongestStreak(log chatlog.Log) int {
	if len(log) == 0 {
		return 0
	}

	seen := make(map[string]bool)
	var days []string
	for _, m := range log {
		key := chatlog.DayKey(m.Timestamp)
		if !seen[key] {
			seen[key] = true
			days = append(days, key)
		}
	}
	sort.Strings(days)

	longest, current := 1, 1
	for i := 1; i < len(days); i++ {
		prev, err1 := time.Parse("2006-01-02", days[i-1])
		curr, err2 := time.Parse("2006-01-02", days[i])
		if err1 == nil && err2 == nil &&
			curr.Sub(prev) == 24*time.Hour {
			current++
			if current > longest {
				longest = current
			}
		} else {
			current = 1
		}
	}
	return longest
}

// BusiestDay returns the calendar day with the most messages.
// Ties are broken by the day encountered first scanning the log in
// order; since the log is sorted ascending, that is the earliest
// tied day. The tie-break is a documented contract, not an
// accident of traversal.
func BusiestDay(log chatlog.Log) DayCount {
	if len(log) == 0 {
		return DayCount{}
	}

	counts := make(map[string]int)
	for _, m := range log {
		counts[chatlog.DayKey(m.Timestamp)]++
	}

	var best DayCount
	seen := make(map[string]bool)
	for _, m := range log {
		key := chatlog.DayKey(m.Timestamp)
		if seen[key] {
			continue
		}
		seen[key] = true
		if counts[key] > best.Count {
			best = DayCount{Date: key, Count: counts[key]}
		}
	}
	return best
}

// TopDays returns the n busiest calendar days in descending count
// order (not chronological). Ties rank the earlier day first.
// n defaults to 10 when non-positive.
func TopDays(log chatlog.Log, n int) Series {
	if n <= 0 {
		n = 10
	}
	if len(log) == 0 {
		return emptySeries()
	}

	counts := make(map[string]int)
	for _, m := range log {
		counts[chatlog.DayKey(m.Timestamp)]++
	}

	days := make([]DayCount, 0, len(counts))
	for key, c := range counts {
		days = append(days, DayCount{Date: key, Count: c})
	}
	sort.Slice(days, func(i, j int) bool {
		if days[i].Count != days[j].Count {
			return days[i].Count > days[j].Count
		}
		return days[i].Date < days[j].Date
	})
	if len(days) > n {
		days = days[:n]
	}

	s := Series{
		Labels: make([]string, len(days)),
		Data:   make([]float64, len(days)),
	}
	for i, d := range days {
		s.Labels[i] = dayLabel(d.Date)
		s.Data[i] = float64(d.Count)
	}
	return s
}

// DailyAverage returns the mean messages per active day, rounded
// to the nearest integer.
func DailyAverage(log chatlog.Log) int {
	if len(log) == 0 {
		return 0
	}
	days := make(map[string]bool)
	for _, m := range log {
		days[chatlog.DayKey(m.Timestamp)] = true
	}
	avg := float64(len(log)) / float64(len(days))
	return int(avg + 0.5)
}

// ActivityOverTime returns a zero-filled daily series of `days`
// consecutive calendar days starting at start. Messages outside
// the window are ignored.
func ActivityOverTime(
	log chatlog.Log, start time.Time, days int,
) Series {
	if days <= 0 || start.IsZero() {
		return emptySeries()
	}

	y, m, d := start.Date()
	first := time.Date(y, m, d, 0, 0, 0, 0, start.Location())

	counts := make(map[string]int)
	for _, msg := range log {
		if msg.Timestamp.Before(first) {
			continue
		}
		counts[chatlog.DayKey(msg.Timestamp)]++
	}

	s := Series{
		Labels: make([]string, days),
		Data:   make([]float64, days),
	}
	for i := 0; i < days; i++ {
		day := first.AddDate(0, 0, i)
		key := chatlog.DayKey(day)
		s.Labels[i] = dayLabel(key)
		s.Data[i] = float64(counts[key])
	}
	return s
}

// weekBucket accumulates one Sunday-start week.
type weekBucket struct {
	count int
	days  map[string]bool
}

// AvgDailyByWeek buckets messages by Sunday-start week and reports
// count divided by distinct active days in that week (not by 7:
// only days with at least one message count toward the
// denominator), rounded. The most recent 6 week buckets are
// returned in chronological order; labels keep their absolute
// "Week k" index within the full week sequence.
func AvgDailyByWeek(log chatlog.Log) Series {
	if len(log) == 0 {
		return emptySeries()
	}

	weeks := make(map[string]*weekBucket)
	for _, m := range log {
		key := chatlog.DayKey(chatlog.WeekStart(m.Timestamp))
		b := weeks[key]
		if b == nil {
			b = &weekBucket{days: make(map[string]bool)}
			weeks[key] = b
		}
		b.count++
		b.days[chatlog.DayKey(m.Timestamp)] = true
	}

	keys := make([]string, 0, len(weeks))
	for key := range weeks {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	labels := make([]string, len(keys))
	data := make([]float64, len(keys))
	for i, key := range keys {
		labels[i] = fmt.Sprintf("Week %d", i+1)
		b := weeks[key]
		avg := float64(b.count) / float64(len(b.days))
		data[i] = float64(int(avg + 0.5))
	}

	const recent = 6
	if len(keys) > recent {
		labels = labels[len(labels)-recent:]
		data = data[len(data)-recent:]
	}
	return Series{Labels: labels, Data: data}
}
