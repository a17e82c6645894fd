// Package sentiment aggregates polarity labels produced by an
// external classifier. The engine is agnostic to the
// classification algorithm: it batches texts, tolerates failed
// batches, and reports the positive-label ratio per participant.
package sentiment

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/chatlens/chatlens/internal/chatlog"
)

// Label is a polarity label returned by the external classifier.
type Label string

const (
	Positive Label = "POSITIVE"
	Negative Label = "NEGATIVE"
)

// Classifier is the external ML collaborator: given a bounded
// batch of texts it returns one label per text.
type Classifier interface {
	Classify(ctx context.Context, texts []string) ([]Label, error)
}

const (
	// Text length bounds keep inference cost bounded; anything
	// outside (minTextLen, maxTextLen) is skipped.
	minTextLen = 3
	maxTextLen = 256

	maxSampled = 200
	batchSize  = 8
)

// Progress reports incremental aggregation state to an optional
// callback.
type Progress struct {
	Analyzed   int
	Total      int
	Percentage int
}

// Result is the per-participant sentiment aggregate.
type Result struct {
	Score      float64 `json:"score"`
	Label      string  `json:"label"`
	Percentage string  `json:"percentage"`
	Analyzed   int     `json:"analyzed"`
}

// neutral is the "no data" result: rendered as a placeholder, not
// an error.
func neutral() Result {
	return Result{Label: "neutral", Percentage: "0%"}
}

// eligibleTexts selects a participant's classifiable texts,
// evenly downsampled to maxSampled to bound inference cost.
func eligibleTexts(log chatlog.Log, participant string) []string {
	var texts []string
	for _, m := range log {
		if m.Author != participant {
			continue
		}
		// Character bounds, not byte bounds: a short non-ASCII
		// message must not be excluded by its encoding width.
		if n := utf8.RuneCountInString(m.Text); n > minTextLen && n < maxTextLen {
			texts = append(texts, m.Text)
		}
	}
	if len(texts) <= maxSampled {
		return texts
	}
	step := len(texts) / maxSampled
	sampled := make([]string, 0, maxSampled)
	for i := 0; i < len(texts) && len(sampled) < maxSampled; i += step {
		sampled = append(sampled, texts[i])
	}
	return sampled
}

// Analyze classifies a participant's messages in bounded batches
// and aggregates the positive ratio. A failed batch is logged by
// the caller's classifier and contributes zero to both numerator
// and denominator; it never aborts the computation. Returns the
// neutral result when nothing was classified.
func Analyze(
	ctx context.Context, c Classifier, log chatlog.Log,
	participant string, onProgress func(Progress),
) (Result, error) {
	if c == nil {
		return neutral(), fmt.Errorf("nil classifier")
	}

	texts := eligibleTexts(log, participant)
	if len(texts) == 0 {
		return neutral(), nil
	}

	var positive, analyzed int
	for i := 0; i < len(texts); i += batchSize {
		if err := ctx.Err(); err != nil {
			return neutral(), err
		}
		end := min(i+batchSize, len(texts))
		batch := texts[i:end]

		labels, err := c.Classify(ctx, batch)
		if err != nil {
			continue // failed batch: skipped entirely
		}
		for _, l := range labels {
			if l == Positive {
				positive++
			}
		}
		analyzed += len(labels)

		if onProgress != nil {
			onProgress(Progress{
				Analyzed:   analyzed,
				Total:      len(texts),
				Percentage: analyzed * 100 / len(texts),
			})
		}
	}

	if analyzed == 0 {
		return neutral(), nil
	}

	pct := int(float64(positive)/float64(analyzed)*100 + 0.5)
	r := Result{
		Score:    float64(pct) / 100,
		Analyzed: analyzed,
	}
	if pct >= 50 {
		r.Label = "positive"
		r.Percentage = fmt.Sprintf("+%d%%", pct)
	} else {
		r.Label = "negative"
		r.Percentage = fmt.Sprintf("-%d%%", 100-pct)
	}
	return r, nil
}
