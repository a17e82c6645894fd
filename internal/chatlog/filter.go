package chatlog

import "time"

// Criteria selects a view of a log by date range and participant
// set. Zero From/To mean unbounded on that side. A nil Participants
// slice means "all participants", which is semantically distinct
// from an explicit slice naming every participant; both yield the
// unfiltered author set.
type Criteria struct {
	From         time.Time
	To           time.Time
	Participants []string
}

// All is the criteria that matches every message.
var All = Criteria{}

// endOfDay returns the last representable millisecond of t's
// calendar day, making To inclusive through 23:59:59.999.
func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, 999_000_000, t.Location())
}

// startOfDay returns midnight of t's calendar day.
func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Matches reports whether a single message satisfies the criteria.
func (c Criteria) Matches(m Message) bool {
	if !c.From.IsZero() && m.Timestamp.Before(startOfDay(c.From)) {
		return false
	}
	if !c.To.IsZero() && m.Timestamp.After(endOfDay(c.To)) {
		return false
	}
	if c.Participants == nil {
		return true
	}
	for _, p := range c.Participants {
		if m.Author == p {
			return true
		}
	}
	return false
}

// Filter returns the messages matching the criteria, preserving
// relative order. The input is never mutated and the result is a
// fresh slice. An inverted date range matches nothing; callers must
// treat the empty result as a renderable "no data" state, not an
// error. Applying the same criteria twice is idempotent.
func Filter(log Log, c Criteria) Log {
	out := make(Log, 0, len(log))
	for _, m := range log {
		if c.Matches(m) {
			out = append(out, m)
		}
	}
	return out
}
