// Package chatlog defines the canonical chat message log and the
// derived views the metric layer consumes. A Log is created once
// per uploaded conversation and never mutated afterwards; every
// derivation allocates its own output.
package chatlog

import "time"

// Message is one chat message as supplied by the parser. Author is
// empty for system events (group renames, encryption notices), which
// are excluded from author-based counts but still count toward
// totals. JSON keys match the export document format.
type Message struct {
	Timestamp time.Time `json:"date"`
	Author    string    `json:"author"`
	Text      string    `json:"message"`
}

// Log is an ordered message sequence, assumed sorted ascending by
// timestamp. Adjacency-dependent metrics (response times,
// conversation starts) rely on this order and never re-sort.
type Log []Message

// Participants returns the distinct non-empty authors in
// first-occurrence order. The order is an external contract: it
// assigns stable color/index mappings downstream, so it must not
// be alphabetized.
func (l Log) Participants() []string {
	seen := make(map[string]bool, 4)
	var out []string
	for _, m := range l {
		if m.Author == "" || seen[m.Author] {
			continue
		}
		seen[m.Author] = true
		out = append(out, m.Author)
	}
	return out
}

// ByAuthor returns the subsequence of messages written by author,
// preserving order.
func (l Log) ByAuthor(author string) Log {
	var out Log
	for _, m := range l {
		if m.Author == author {
			out = append(out, m)
		}
	}
	return out
}

// Span returns the timestamps of the first and last message. Zero
// times for an empty log.
func (l Log) Span() (start, end time.Time) {
	if len(l) == 0 {
		return time.Time{}, time.Time{}
	}
	return l[0].Timestamp, l[len(l)-1].Timestamp
}

// DayKey formats a timestamp as its local calendar-day key.
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// MonthKey formats a timestamp as its local year-month key.
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}

// WeekStart returns midnight of the Sunday preceding (or equal to)
// t's calendar day. Week bucketing uses Sunday starts to match the
// rest of the weekday-indexed metrics.
func WeekStart(t time.Time) time.Time {
	y, m, d := t.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	return day.AddDate(0, 0, -int(day.Weekday()))
}
