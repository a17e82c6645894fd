package metrics

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/chatlens/chatlens/internal/chatlog"
)

func TestResponseTimeIgnoresOutliers(t *testing.T) {
	log := chatlog.Log{
		msg(t, "2024-01-01T09:00:00Z", "Alice", "hi"),
		msg(t, "2024-01-01T09:05:00Z", "Bob", "hello"), // 5 min, counts
		msg(t, "2024-01-03T10:00:00Z", "Alice", "back"), // 2-day gap, ignored
	}

	got := ResponseTime(log, "")
	if got.Minutes != 5 {
		t.Errorf("ResponseTime() = %v min, want 5", got.Minutes)
	}
	if got.Formatted != "5 min" {
		t.Errorf("Formatted = %q, want %q", got.Formatted, "5 min")
	}
}

func TestResponseTimePerParticipant(t *testing.T) {
	log := chatlog.Log{
		msg(t, "2024-01-01T09:00:00Z", "Alice", "hi"),
		msg(t, "2024-01-01T09:10:00Z", "Bob", "hello"),  // Bob answers in 10
		msg(t, "2024-01-01T09:12:00Z", "Bob", "again"),  // self-follow, skipped
		msg(t, "2024-01-01T09:20:00Z", "Alice", "yes"),  // Alice answers in 8
		msg(t, "2024-01-01T09:24:00Z", "Bob", "cool"),   // Bob answers in 4
	}

	if got := ResponseTime(log, "Bob").Minutes; got != 7 {
		t.Errorf("Bob mean = %v, want 7", got)
	}
	if got := ResponseTime(log, "Alice").Minutes; got != 8 {
		t.Errorf("Alice mean = %v, want 8", got)
	}
}

func TestResponseTimeNoValidDeltas(t *testing.T) {
	got := ResponseTime(chatlog.Log{
		msg(t, "2024-01-01T09:00:00Z", "Alice", "only one"),
	}, "")
	if got.Minutes != 0 || got.Formatted != "0 min" {
		t.Errorf("ResponseTime() = %+v, want zero duration", got)
	}
}

func TestResponseTimesSeriesUsesFirstNames(t *testing.T) {
	log := chatlog.Log{
		msg(t, "2024-01-01T09:00:00Z", "Alice Smith", "hi"),
		msg(t, "2024-01-01T09:05:00Z", "Bob Jones", "hello"),
	}
	got := ResponseTimes(log)
	if diff := cmp.Diff([]string{"Alice", "Bob"}, got.Labels); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}
}

func TestFormatMinutes(t *testing.T) {
	tests := []struct {
		minutes float64
		want    string
	}{
		{0, "0 min"},
		{5.4, "5 min"},
		{59.9, "60 min"},
		{60, "1.0 hr"},
		{90, "1.5 hr"},
		{1439, "24.0 hr"},
		{1440, "1.0 days"},
		{2160, "1.5 days"},
	}
	for _, tt := range tests {
		if got := FormatMinutes(tt.minutes); got != tt.want {
			t.Errorf("FormatMinutes(%v) = %q, want %q",
				tt.minutes, got, tt.want)
		}
	}
}

func TestMostActiveHour(t *testing.T) {
	log := chatlog.Log{
		msg(t, "2024-01-01T14:00:00Z", "Alice", "a"),
		msg(t, "2024-01-02T14:30:00Z", "Alice", "b"),
		msg(t, "2024-01-03T09:00:00Z", "Bob", "c"),
		msg(t, "2024-01-04T09:00:00Z", "Bob", "d"),
		msg(t, "2024-01-05T09:00:00Z", "Bob", "e"),
	}

	all := MostActiveHour(log, "")
	if all.Hour != 9 || all.Count != 3 {
		t.Errorf("MostActiveHour(all) = %+v, want hour 9 count 3", all)
	}
	alice := MostActiveHour(log, "Alice")
	if alice.Hour != 14 || alice.Count != 2 {
		t.Errorf("MostActiveHour(Alice) = %+v, want hour 14 count 2", alice)
	}
	if alice.Label != "2PM-3PM" {
		t.Errorf("Label = %q, want %q", alice.Label, "2PM-3PM")
	}
}

func TestAverageWordsSkipsBlanks(t *testing.T) {
	log := chatlog.Log{
		msg(t, "2024-01-01T09:00:00Z", "Alice", "one two three"),
		msg(t, "2024-01-01T09:01:00Z", "Alice", ""),
		msg(t, "2024-01-01T09:02:00Z", "Alice", "one"),
		msg(t, "2024-01-01T09:03:00Z", "Bob", "one two three four five"),
	}
	if got := AverageWords(log, "Alice"); got != 2 {
		t.Errorf("AverageWords(Alice) = %v, want 2", got)
	}
	if got := AverageWords(log, ""); got != 3 {
		t.Errorf("AverageWords(all) = %v, want 3", got)
	}
	if got := AverageWords(nil, ""); got != 0 {
		t.Errorf("AverageWords(nil) = %v, want 0", got)
	}
}

func TestWeekendActivity(t *testing.T) {
	log := chatlog.Log{
		msg(t, "2024-01-06T09:00:00Z", "Alice", "a"), // Saturday
		msg(t, "2024-01-07T09:00:00Z", "Alice", "b"), // Sunday
		msg(t, "2024-01-08T09:00:00Z", "Alice", "c"), // Monday
		msg(t, "2024-01-08T10:00:00Z", "Bob", "d"),
	}
	got := WeekendActivity(log, "Alice")
	want := WeekendStat{Percentage: 67, WeekendCount: 2, WeekdayCount: 1}
	if got != want {
		t.Errorf("WeekendActivity(Alice) = %+v, want %+v", got, want)
	}
	if got := WeekendActivity(log, "Mallory"); got != (WeekendStat{}) {
		t.Errorf("WeekendActivity(unknown) = %+v, want zero", got)
	}
}

func TestConversationStartsPercentagesSum(t *testing.T) {
	log := chatlog.Log{
		msg(t, "2024-01-01T09:00:00Z", "Alice", "first ever"), // start (Alice)
		msg(t, "2024-01-01T09:05:00Z", "Bob", "hey"),
		msg(t, "2024-01-01T14:00:00Z", "Bob", "still me"), // gap but same author
		msg(t, "2024-01-02T09:00:00Z", "Alice", "new day"), // start (Alice)
		msg(t, "2024-01-02T20:00:00Z", "Bob", "evening"),   // start (Bob)
	}

	alice := ConversationStarts(log, "Alice")
	bob := ConversationStarts(log, "Bob")

	if alice.Started != 2 || bob.Started != 1 {
		t.Fatalf("starts = Alice %d / Bob %d, want 2 / 1",
			alice.Started, bob.Started)
	}
	sum := alice.Percentage + bob.Percentage
	if sum < 99 || sum > 101 {
		t.Errorf("percentages sum to %d, want ~100", sum)
	}
}

func TestConversationStartsEmptyLog(t *testing.T) {
	if got := ConversationStarts(nil, "Alice"); got != (StarterStat{}) {
		t.Errorf("ConversationStarts(nil) = %+v, want zero", got)
	}
}

func TestConversationStartersSeries(t *testing.T) {
	log := chatlog.Log{
		msg(t, "2024-01-01T09:00:00Z", "Alice", "first"),
		msg(t, "2024-01-01T09:05:00Z", "Bob", "hey"),
		msg(t, "2024-01-02T09:00:00Z", "Alice", "new day"),
	}
	got := ConversationStarters(log)
	want := Series{
		Labels: []string{"Alice", "Bob"},
		Data:   []float64{2, 0},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ConversationStarters() mismatch (-want +got):\n%s", diff)
	}
}

func TestTopEmojis(t *testing.T) {
	log := chatlog.Log{
		msg(t, "2024-01-01T09:00:00Z", "Alice", "\U0001F602\U0001F602 ok"),
		msg(t, "2024-01-01T09:01:00Z", "Alice", "❤️ and \U0001F602"),
		msg(t, "2024-01-01T09:02:00Z", "Alice", "⭐"),
		msg(t, "2024-01-01T09:03:00Z", "Bob", "\U0001F4A9 not hers"),
	}

	got := TopEmojis(log, "Alice", 2)
	want := []EmojiCount{
		{Emoji: "\U0001F602", Count: 3},
		{Emoji: "❤️", Count: 1}, // ties break by first appearance
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("TopEmojis() mismatch (-want +got):\n%s", diff)
	}
}

func TestTopEmojisNoEmoji(t *testing.T) {
	log := chatlog.Log{
		msg(t, "2024-01-01T09:00:00Z", "Alice", "plain words only"),
	}
	if got := TopEmojis(log, "Alice", 4); got != nil {
		t.Errorf("TopEmojis() = %v, want nil", got)
	}
}
