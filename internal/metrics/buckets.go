package metrics

import (
	"sort"
	"time"

	"github.com/chatlens/chatlens/internal/chatlog"
	"github.com/chatlens/chatlens/internal/words"
)

var weekdayLabels = []string{
	"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat",
}

var peakTimeLabels = []string{
	"Morning (6-12)", "Afternoon (12-18)",
	"Evening (18-24)", "Night (0-6)",
}

var lengthLabels = []string{
	"< 10 words", "10-30 words", "30-50 words", "> 50 words",
}

// Hourly returns the 24-entry hour-of-day histogram. The domain is
// always fully populated, zero-filled for empty input.
func Hourly(log chatlog.Log) Series {
	data := make([]float64, 24)
	for _, m := range log {
		data[m.Timestamp.Hour()]++
	}
	labels := make([]string, 24)
	for i := range labels {
		labels[i] = hourLabel(i)
	}
	return Series{Labels: labels, Data: data}
}

// WeeklyPattern returns the 7-entry day-of-week histogram, Sunday
// first. Always fully populated.
func WeeklyPattern(log chatlog.Log) Series {
	data := make([]float64, 7)
	for _, m := range log {
		data[int(m.Timestamp.Weekday())]++
	}
	labels := make([]string, 7)
	copy(labels, weekdayLabels)
	return Series{Labels: labels, Data: data}
}

// Monthly returns per-month counts for the months actually present
// in the log, in ascending calendar order.
func Monthly(log chatlog.Log) Series {
	if len(log) == 0 {
		return emptySeries()
	}
	counts := make(map[string]int)
	for _, m := range log {
		counts[chatlog.MonthKey(m.Timestamp)]++
	}
	keys := make([]string, 0, len(counts))
	for key := range counts {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	s := Series{
		Labels: make([]string, len(keys)),
		Data:   make([]float64, len(keys)),
	}
	for i, key := range keys {
		s.Labels[i] = monthLabel(key)
		s.Data[i] = float64(counts[key])
	}
	return s
}

// peakBucket maps an hour to its time-of-day bucket index in
// peakTimeLabels order. Evening is unbounded above 18 so a
// malformed hour never panics; with valid timestamps hours stay
// in [0,24).
func peakBucket(hour int) int {
	switch {
	case hour >= 6 && hour < 12:
		return 0 // morning
	case hour >= 12 && hour < 18:
		return 1 // afternoon
	case hour >= 18:
		return 2 // evening
	default:
		return 3 // night
	}
}

// PeakTimes returns the four fixed time-of-day buckets:
// Morning [6,12), Afternoon [12,18), Evening [18,24), Night [0,6).
func PeakTimes(log chatlog.Log) Series {
	data := make([]float64, 4)
	for _, m := range log {
		data[peakBucket(m.Timestamp.Hour())]++
	}
	labels := make([]string, 4)
	copy(labels, peakTimeLabels)
	return Series{Labels: labels, Data: data}
}

// WeekendSplit returns the [Weekday, Weekend] binary histogram
// where Sunday and Saturday count as weekend.
func WeekendSplit(log chatlog.Log) Series {
	data := make([]float64, 2)
	for _, m := range log {
		if isWeekend(m.Timestamp) {
			data[1]++
		} else {
			data[0]++
		}
	}
	return Series{Labels: []string{"Weekday", "Weekend"}, Data: data}
}

func isWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Sunday || wd == time.Saturday
}

// lengthBucket maps a word count to its distribution bucket.
// Lower bounds are inclusive: exactly 10 words is "10-30",
// exactly 30 is "30-50", exactly 50 is "> 50".
func lengthBucket(wordCount int) int {
	switch {
	case wordCount < 10:
		return 0
	case wordCount < 30:
		return 1
	case wordCount < 50:
		return 2
	default:
		return 3
	}
}

// LengthDistribution buckets messages by word count. Blank
// messages are excluded entirely rather than counted as length 0.
func LengthDistribution(log chatlog.Log) Series {
	data := make([]float64, 4)
	for _, m := range log {
		wc := words.WordCount(m.Text)
		if wc == 0 {
			continue
		}
		data[lengthBucket(wc)]++
	}
	labels := make([]string, 4)
	copy(labels, lengthLabels)
	return Series{Labels: labels, Data: data}
}
