package metrics

import (
	"fmt"
	"sort"

	"github.com/chatlens/chatlens/internal/chatlog"
)

// grouped builds a MultiSeries by running a fixed-domain series
// metric once per participant over that participant's messages.
// The metric must produce the same label domain for any input
// (hourly, weekly, peak-times, weekend buckets all do).
func grouped(
	log chatlog.Log, participants []string,
	metric func(chatlog.Log) Series,
) MultiSeries {
	if len(participants) == 0 {
		participants = log.Participants()
	}
	out := MultiSeries{
		Labels:   metric(nil).Labels,
		Datasets: make([]Dataset, 0, len(participants)),
	}
	for _, p := range participants {
		s := metric(log.ByAuthor(p))
		out.Datasets = append(out.Datasets, Dataset{
			Participant: p,
			Data:        s.Data,
		})
	}
	return out
}

// WeeklyPatternByParticipant returns the day-of-week histogram
// with one dataset per participant.
func WeeklyPatternByParticipant(
	log chatlog.Log, participants []string,
) MultiSeries {
	return grouped(log, participants, WeeklyPattern)
}

// PeakTimesByParticipant returns the time-of-day buckets with one
// dataset per participant.
func PeakTimesByParticipant(
	log chatlog.Log, participants []string,
) MultiSeries {
	return grouped(log, participants, PeakTimes)
}

// WeekendSplitByParticipant returns the weekday/weekend split with
// one dataset per participant.
func WeekendSplitByParticipant(
	log chatlog.Log, participants []string,
) MultiSeries {
	return grouped(log, participants, WeekendSplit)
}

// MonthlyByParticipant returns per-month counts over the months
// present anywhere in the log, one dataset per participant. The
// shared month domain keeps datasets positionally aligned even
// when a participant was silent for a month.
func MonthlyByParticipant(
	log chatlog.Log, participants []string,
) MultiSeries {
	if len(participants) == 0 {
		participants = log.Participants()
	}
	if len(log) == 0 {
		return MultiSeries{Labels: []string{}, Datasets: []Dataset{}}
	}

	monthSet := make(map[string]bool)
	for _, m := range log {
		monthSet[chatlog.MonthKey(m.Timestamp)] = true
	}
	keys := make([]string, 0, len(monthSet))
	for key := range monthSet {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	labels := make([]string, len(keys))
	index := make(map[string]int, len(keys))
	for i, key := range keys {
		labels[i] = monthLabel(key)
		index[key] = i
	}

	out := MultiSeries{
		Labels:   labels,
		Datasets: make([]Dataset, 0, len(participants)),
	}
	for _, p := range participants {
		data := make([]float64, len(keys))
		for _, m := range log {
			if m.Author != p {
				continue
			}
			data[index[chatlog.MonthKey(m.Timestamp)]]++
		}
		out.Datasets = append(out.Datasets, Dataset{
			Participant: p, Data: data,
		})
	}
	return out
}

// AvgDailyByWeekByParticipant returns the rounded messages per
// active day, one dataset per participant, over the most recent 6
// Sunday-start weeks present anywhere in the log. The shared week
// domain keeps datasets aligned; a week a participant was silent
// reads as zero. Unlike the single-series variant, labels restart
// at "Week 1" within the recent window.
func AvgDailyByWeekByParticipant(
	log chatlog.Log, participants []string,
) MultiSeries {
	if len(participants) == 0 {
		participants = log.Participants()
	}
	if len(log) == 0 {
		return MultiSeries{Labels: []string{}, Datasets: []Dataset{}}
	}

	weekSet := make(map[string]bool)
	for _, m := range log {
		weekSet[chatlog.DayKey(chatlog.WeekStart(m.Timestamp))] = true
	}
	keys := make([]string, 0, len(weekSet))
	for key := range weekSet {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	const recent = 6
	if len(keys) > recent {
		keys = keys[len(keys)-recent:]
	}

	labels := make([]string, len(keys))
	index := make(map[string]int, len(keys))
	for i, key := range keys {
		labels[i] = fmt.Sprintf("Week %d", i+1)
		index[key] = i
	}

	out := MultiSeries{
		Labels:   labels,
		Datasets: make([]Dataset, 0, len(participants)),
	}
	for _, p := range participants {
		buckets := make(map[string]*weekBucket)
		for _, m := range log {
			if m.Author != p {
				continue
			}
			key := chatlog.DayKey(chatlog.WeekStart(m.Timestamp))
			b := buckets[key]
			if b == nil {
				b = &weekBucket{days: make(map[string]bool)}
				buckets[key] = b
			}
			b.count++
			b.days[chatlog.DayKey(m.Timestamp)] = true
		}

		data := make([]float64, len(keys))
		for key, b := range buckets {
			i, ok := index[key]
			if !ok {
				continue // older than the recent window
			}
			avg := float64(b.count) / float64(len(b.days))
			data[i] = float64(int(avg + 0.5))
		}
		out.Datasets = append(out.Datasets, Dataset{
			Participant: p, Data: data,
		})
	}
	return out
}

// RecentDaysByParticipant returns per-day counts over the n most
// recent active calendar days (chronological, unlike TopDays), one
// dataset per participant.
func RecentDaysByParticipant(
	log chatlog.Log, participants []string, n int,
) MultiSeries {
	if n <= 0 {
		n = 10
	}
	if len(participants) == 0 {
		participants = log.Participants()
	}
	if len(log) == 0 {
		return MultiSeries{Labels: []string{}, Datasets: []Dataset{}}
	}

	daySet := make(map[string]bool)
	for _, m := range log {
		daySet[chatlog.DayKey(m.Timestamp)] = true
	}
	keys := make([]string, 0, len(daySet))
	for key := range daySet {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	if len(keys) > n {
		keys = keys[len(keys)-n:]
	}

	labels := make([]string, len(keys))
	index := make(map[string]int, len(keys))
	for i, key := range keys {
		labels[i] = dayLabel(key)
		index[key] = i
	}

	out := MultiSeries{
		Labels:   labels,
		Datasets: make([]Dataset, 0, len(participants)),
	}
	for _, p := range participants {
		data := make([]float64, len(keys))
		for _, m := range log {
			if m.Author != p {
				continue
			}
			if i, ok := index[chatlog.DayKey(m.Timestamp)]; ok {
				data[i]++
			}
		}
		out.Datasets = append(out.Datasets, Dataset{
			Participant: p, Data: data,
		})
	}
	return out
}
