// Package dashboard assembles the metric library into the data
// bundles the presentation layer consumes: one expensive full
// bundle per upload, and cheap single-series rebuilds on every
// filter interaction.
package dashboard

import (
	"fmt"
	"sort"
	"time"

	"github.com/chatlens/chatlens/internal/chatlog"
	"github.com/chatlens/chatlens/internal/metrics"
	"github.com/chatlens/chatlens/internal/words"
)

// activityWindowDays is the length of the activity-over-time
// series in the bundle.
const activityWindowDays = 30

// DateRange is the first/last message span of a log.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Stats are the scalar KPI values shown on the dashboard cards.
type Stats struct {
	TotalMessages  int               `json:"total_messages"`
	Participants   int               `json:"participants"`
	ParticipantsBy []string          `json:"participants_list"`
	DateRange      DateRange         `json:"date_range"`
	LongestStreak  int               `json:"longest_streak"`
	BusiestDay     metrics.DayCount  `json:"busiest_day"`
	MostActiveHour metrics.HourCount `json:"most_active_hour"`
	DailyAverage   int               `json:"daily_average"`
	ResponseSpeed  metrics.Duration  `json:"response_speed"`
	AverageWords   float64           `json:"average_words"`
}

// Profile is one participant's behavioral card.
type Profile struct {
	Name           string               `json:"name"`
	MessageCount   int                  `json:"message_count"`
	Percentage     float64              `json:"percentage"`
	AverageWords   float64              `json:"average_words"`
	MostActiveHour metrics.HourCount    `json:"most_active_hour"`
	ResponseSpeed  metrics.Duration     `json:"response_speed"`
	Weekend        metrics.WeekendStat  `json:"weekend"`
	Starter        metrics.StarterStat  `json:"starter"`
	TopEmojis      []metrics.EmojiCount `json:"top_emojis"`
}

// Charts is the full set of single-series charts in the bundle.
type Charts struct {
	ActivityOverTime     metrics.Series `json:"activity_over_time"`
	Hourly               metrics.Series `json:"hourly_activity"`
	Monthly              metrics.Series `json:"monthly_activity"`
	WeeklyPattern        metrics.Series `json:"weekly_pattern"`
	PeakTimes            metrics.Series `json:"peak_times"`
	WeekendSplit         metrics.Series `json:"weekend_vs_weekday"`
	LengthDistribution   metrics.Series `json:"message_length_distribution"`
	BusiestDays          metrics.Series `json:"busiest_days"`
	AvgDailyByWeek       metrics.Series `json:"average_daily_messages"`
	ResponseTimes        metrics.Series `json:"response_times"`
	ConversationStarters metrics.Series `json:"conversation_starters"`
}

// Bundle is the complete dashboard payload built once per upload.
type Bundle struct {
	Stats         Stats                 `json:"stats"`
	Charts        Charts                `json:"charts"`
	Profiles      []Profile             `json:"profiles"`
	WordFrequency metrics.WordFrequency `json:"word_frequency"`
	Snippets      []chatlog.Log         `json:"conversation_snippets"`
}

// Assembler orchestrates the metric library. It holds only the
// shared stopword set; all log state is passed explicitly, so
// independent analyses never interfere.
type Assembler struct {
	stopwords *words.Stopwords
}

// NewAssembler creates an Assembler around a stopword set. A nil
// set disables stopword filtering (tokens still pass the length
// and numeric rules).
func NewAssembler(stop *words.Stopwords) *Assembler {
	return &Assembler{stopwords: stop}
}

// BuildStats computes the scalar KPI values for a log.
func (a *Assembler) BuildStats(log chatlog.Log) Stats {
	start, end := log.Span()
	return Stats{
		TotalMessages:  len(log),
		Participants:   len(log.Participants()),
		ParticipantsBy: log.Participants(),
		DateRange:      DateRange{Start: start, End: end},
		LongestStreak:  metrics.LongestStreak(log),
		BusiestDay:     metrics.BusiestDay(log),
		MostActiveHour: metrics.MostActiveHour(log, ""),
		DailyAverage:   metrics.DailyAverage(log),
		ResponseSpeed:  metrics.ResponseTime(log, ""),
		AverageWords:   metrics.AverageWords(log, ""),
	}
}

// buildProfiles computes one behavioral card per participant, in
// participant-list order.
func (a *Assembler) buildProfiles(log chatlog.Log) []Profile {
	participants := log.Participants()
	profiles := make([]Profile, 0, len(participants))
	total := len(log)

	for _, p := range participants {
		count := len(log.ByAuthor(p))
		pct := 0.0
		if total > 0 {
			pct = float64(count) / float64(total) * 100
		}
		profiles = append(profiles, Profile{
			Name:           p,
			MessageCount:   count,
			Percentage:     pct,
			AverageWords:   metrics.AverageWords(log, p),
			MostActiveHour: metrics.MostActiveHour(log, p),
			ResponseSpeed:  metrics.ResponseTime(log, p),
			Weekend:        metrics.WeekendActivity(log, p),
			Starter:        metrics.ConversationStarts(log, p),
			TopEmojis:      metrics.TopEmojis(log, p, 4),
		})
	}
	return profiles
}

// activityStart anchors the 30-day activity window at the newest
// message so old exports still produce a populated chart.
func activityStart(log chatlog.Log) time.Time {
	_, end := log.Span()
	if end.IsZero() {
		return time.Time{}
	}
	return end.AddDate(0, 0, -(activityWindowDays - 1))
}

// buildCharts runs every chart metric against the log.
func (a *Assembler) buildCharts(log chatlog.Log) Charts {
	return Charts{
		ActivityOverTime: metrics.ActivityOverTime(
			log, activityStart(log), activityWindowDays,
		),
		Hourly:               metrics.Hourly(log),
		Monthly:              metrics.Monthly(log),
		WeeklyPattern:        metrics.WeeklyPattern(log),
		PeakTimes:            metrics.PeakTimes(log),
		WeekendSplit:         metrics.WeekendSplit(log),
		LengthDistribution:   metrics.LengthDistribution(log),
		BusiestDays:          metrics.TopDays(log, 0),
		AvgDailyByWeek:       metrics.AvgDailyByWeek(log),
		ResponseTimes:        metrics.ResponseTimes(log),
		ConversationStarters: metrics.ConversationStarters(log),
	}
}

// BuildBundle runs the full metric library once against the
// unfiltered log. This is the expensive path, run once per upload.
func (a *Assembler) BuildBundle(log chatlog.Log) Bundle {
	return Bundle{
		Stats:         a.BuildStats(log),
		Charts:        a.buildCharts(log),
		Profiles:      a.buildProfiles(log),
		WordFrequency: metrics.CountWords(log, "", a.stopwords),
		Snippets:      metrics.ConversationSnippets(log, 1),
	}
}

// seriesBuilders is the named-metric registry behind
// RebuildSeries. Keys are the public metric names used by the
// filter API.
var seriesBuilders = map[string]func(*Assembler, chatlog.Log) metrics.Series{
	"activity": func(_ *Assembler, l chatlog.Log) metrics.Series {
		return metrics.ActivityOverTime(
			l, activityStart(l), activityWindowDays,
		)
	},
	"hourly": func(_ *Assembler, l chatlog.Log) metrics.Series {
		return metrics.Hourly(l)
	},
	"monthly": func(_ *Assembler, l chatlog.Log) metrics.Series {
		return metrics.Monthly(l)
	},
	"weekly-pattern": func(_ *Assembler, l chatlog.Log) metrics.Series {
		return metrics.WeeklyPattern(l)
	},
	"peak-times": func(_ *Assembler, l chatlog.Log) metrics.Series {
		return metrics.PeakTimes(l)
	},
	"weekend": func(_ *Assembler, l chatlog.Log) metrics.Series {
		return metrics.WeekendSplit(l)
	},
	"length": func(_ *Assembler, l chatlog.Log) metrics.Series {
		return metrics.LengthDistribution(l)
	},
	"busiest-days": func(_ *Assembler, l chatlog.Log) metrics.Series {
		return metrics.TopDays(l, 0)
	},
	"avg-daily": func(_ *Assembler, l chatlog.Log) metrics.Series {
		return metrics.AvgDailyByWeek(l)
	},
	"response-times": func(_ *Assembler, l chatlog.Log) metrics.Series {
		return metrics.ResponseTimes(l)
	},
	"conversation-starters": func(_ *Assembler, l chatlog.Log) metrics.Series {
		return metrics.ConversationStarters(l)
	},
}

// SeriesNames returns the metric names RebuildSeries accepts,
// sorted for stable display.
func SeriesNames() []string {
	names := make([]string, 0, len(seriesBuilders))
	for name := range seriesBuilders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RebuildSeries recomputes a single named chart against a filtered
// view of the log. This is the cheap interactive path, run on
// every filter-control change. An unknown metric name is the one
// caller error here; empty filter results are valid "no data"
// states, never errors.
func (a *Assembler) RebuildSeries(
	name string, log chatlog.Log, criteria chatlog.Criteria,
) (metrics.Series, error) {
	build, ok := seriesBuilders[name]
	if !ok {
		return metrics.Series{}, fmt.Errorf("unknown metric %q", name)
	}
	return build(a, chatlog.Filter(log, criteria)), nil
}

// groupedBuilders is the registry of per-participant grouped
// charts. The participant list comes from the filter criteria so a
// participant subset yields one dataset per selected participant.
var groupedBuilders = map[string]func(chatlog.Log, []string) metrics.MultiSeries{
	"weekly-pattern": metrics.WeeklyPatternByParticipant,
	"peak-times":     metrics.PeakTimesByParticipant,
	"weekend":        metrics.WeekendSplitByParticipant,
	"monthly":        metrics.MonthlyByParticipant,
	"avg-daily":      metrics.AvgDailyByWeekByParticipant,
	"recent-days": func(l chatlog.Log, ps []string) metrics.MultiSeries {
		return metrics.RecentDaysByParticipant(l, ps, 0)
	},
}

// GroupedNames returns the metric names RebuildGrouped accepts,
// sorted for stable display.
func GroupedNames() []string {
	names := make([]string, 0, len(groupedBuilders))
	for name := range groupedBuilders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RebuildGrouped recomputes a named per-participant chart against a
// date-filtered view of the log. The criteria's participant set
// selects the datasets; the date window filters the messages.
func (a *Assembler) RebuildGrouped(
	name string, log chatlog.Log, criteria chatlog.Criteria,
) (metrics.MultiSeries, error) {
	build, ok := groupedBuilders[name]
	if !ok {
		return metrics.MultiSeries{}, fmt.Errorf(
			"unknown grouped metric %q", name,
		)
	}
	window := chatlog.Filter(log, chatlog.Criteria{
		From: criteria.From, To: criteria.To,
	})
	return build(window, criteria.Participants), nil
}
