// Package metrics is the metric library: independent pure
// functions mapping a message sequence to one named aggregate.
// Every function accepts an empty log and returns a well-formed
// zero result; dashboards render "no data" instead of crashing.
package metrics

import (
	"fmt"
	"time"
)

// Series is the positional labels/data pair consumed by charting:
// Data[i] belongs to Labels[i]. This is the sole output contract
// chart-producing metrics honor.
type Series struct {
	Labels []string  `json:"labels"`
	Data   []float64 `json:"data"`
}

// emptySeries is the canonical zero result for chart metrics whose
// label domain depends on the input.
func emptySeries() Series {
	return Series{Labels: []string{}, Data: []float64{}}
}

// Dataset is one participant's data vector within a grouped chart.
type Dataset struct {
	Participant string    `json:"participant"`
	Data        []float64 `json:"data"`
}

// MultiSeries is a grouped chart: a shared label domain with one
// dataset per participant.
type MultiSeries struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

// Duration is a scalar latency result with its display form.
type Duration struct {
	Minutes   float64 `json:"minutes"`
	Formatted string  `json:"formatted"`
}

// FormatMinutes renders a duration in minutes as the dashboard
// display string: <60 min as "N min", <1 day as "N.N hr",
// otherwise "N.N days".
func FormatMinutes(minutes float64) string {
	switch {
	case minutes < 60:
		return fmt.Sprintf("%d min", int(minutes+0.5))
	case minutes < 1440:
		return fmt.Sprintf("%.1f hr", minutes/60)
	default:
		return fmt.Sprintf("%.1f days", minutes/1440)
	}
}

// hourLabel renders an hour of day as "12AM".."11PM".
func hourLabel(hour int) string {
	period := "AM"
	if hour >= 12 {
		period = "PM"
	}
	display := hour % 12
	if display == 0 {
		display = 12
	}
	return fmt.Sprintf("%d%s", display, period)
}

// HourRangeLabel renders an hour as its one-hour window,
// e.g. "8PM-9PM".
func HourRangeLabel(hour int) string {
	return hourLabel(hour) + "-" + hourLabel((hour+1)%24)
}

// dayLabel renders a calendar-day key (YYYY-MM-DD) as "Jan 2".
func dayLabel(key string) string {
	t, err := time.Parse("2006-01-02", key)
	if err != nil {
		return key
	}
	return t.Format("Jan 2")
}

// monthLabel renders a year-month key (YYYY-MM) as "Jan 2006".
func monthLabel(key string) string {
	t, err := time.Parse("2006-01", key)
	if err != nil {
		return key
	}
	return t.Format("Jan 2006")
}
