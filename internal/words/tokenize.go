package words

import (
	"strings"
	"unicode"
)

// mediaPlaceholder marks messages whose body was replaced by the
// export tool; they carry no countable words.
const mediaPlaceholder = "<Media omitted>"

// IsMediaPlaceholder reports whether a message body is a media
// stand-in rather than text.
func IsMediaPlaceholder(text string) bool {
	return strings.Contains(text, mediaPlaceholder)
}

// isWordRune keeps letters, digits, and underscore; everything
// else is treated as punctuation and becomes a token boundary.
func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return len(s) > 0
}

// Tokenize lowercases text, strips punctuation to whitespace, and
// returns the tokens that survive filtering: longer than two runes,
// not purely numeric, and not in the stopword set. Media
// placeholder messages yield no tokens.
func Tokenize(text string, stop *Stopwords) []string {
	if text == "" || IsMediaPlaceholder(text) {
		return nil
	}

	lowered := strings.ToLower(text)
	fields := strings.FieldsFunc(lowered, func(r rune) bool {
		return !isWordRune(r)
	})

	var out []string
	for _, w := range fields {
		if len([]rune(w)) <= 2 {
			continue
		}
		if isNumeric(w) {
			continue
		}
		if stop != nil && stop.Has(w) {
			continue
		}
		out = append(out, w)
	}
	return out
}

// WordCount returns the whitespace-separated word count of trimmed
// text, or 0 for blank text. Used by length-distribution and
// average-words metrics, which count every word regardless of
// stopword status.
func WordCount(text string) int {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return 0
	}
	return len(strings.Fields(trimmed))
}
