package metrics

import (
	"github.com/chatlens/chatlens/internal/chatlog"
	"github.com/chatlens/chatlens/internal/words"
)

// snippetLen is the exchange window size for display snippets.
const snippetLen = 4

// ConversationSnippets returns up to count four-message exchanges
// suitable for display: the window must contain an author change
// in at least one adjacent half, and every message must be
// non-blank with no media placeholder. Returns nil for logs with
// fewer than four messages or fewer than two participants.
func ConversationSnippets(log chatlog.Log, count int) []chatlog.Log {
	if count <= 0 {
		count = 1
	}
	if len(log) < snippetLen || len(log.Participants()) < 2 {
		return nil
	}

	var out []chatlog.Log
	for i := 0; i+snippetLen <= len(log) && len(out) < count; i++ {
		window := log[i : i+snippetLen]
		if !displayable(window) {
			continue
		}
		snippet := make(chatlog.Log, snippetLen)
		copy(snippet, window)
		out = append(out, snippet)
	}
	return out
}

func displayable(window chatlog.Log) bool {
	// Monologues (both halves same-author) make dull samples.
	if window[0].Author == window[1].Author &&
		window[2].Author == window[3].Author {
		return false
	}
	for _, m := range window {
		if m.Text == "" || words.IsMediaPlaceholder(m.Text) {
			return false
		}
	}
	return true
}
