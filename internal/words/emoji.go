package words

const (
	vs16 = 0xFE0F // variation selector: force emoji presentation
	zwj  = 0x200D // zero-width joiner
)

// emojiPresentation reports whether r renders as emoji by default.
// Covers the pictographic blocks plus the scattered symbols with
// default emoji presentation; the classic dingbat/symbol blocks are
// text-presentation and only count when followed by VS16.
func emojiPresentation(r rune) bool {
	switch {
	case r >= 0x1F300 && r <= 0x1F5FF: // misc symbols & pictographs
		return true
	case r >= 0x1F600 && r <= 0x1F64F: // emoticons
		return true
	case r >= 0x1F680 && r <= 0x1F6FF: // transport & map
		return true
	case r >= 0x1F900 && r <= 0x1F9FF: // supplemental symbols
		return true
	case r >= 0x1FA70 && r <= 0x1FAFF: // symbols extended-A
		return true
	case r >= 0x1F1E6 && r <= 0x1F1FF: // regional indicators
		return true
	case r >= 0x1F3FB && r <= 0x1F3FF: // skin tone modifiers
		return true
	}
	switch r {
	case 0x2614, 0x2615, 0x26A1, 0x26BD, 0x26BE, 0x26C4, 0x26C5,
		0x26CE, 0x26D4, 0x26EA, 0x26F2, 0x26F3, 0x26F5, 0x26FA,
		0x26FD, 0x2705, 0x270A, 0x270B, 0x2728, 0x274C, 0x274E,
		0x2753, 0x2754, 0x2755, 0x2757, 0x2795, 0x2796, 0x2797,
		0x27B0, 0x27BF, 0x2B1B, 0x2B1C, 0x2B50, 0x2B55:
		return true
	}
	return false
}

// textEmoji reports whether r is an emoji with default text
// presentation, countable only when a VS16 follows (the ❤️ case).
func textEmoji(r rune) bool {
	switch {
	case r >= 0x2600 && r <= 0x27BF:
		return true
	case r >= 0x2190 && r <= 0x21FF:
		return true
	case r >= 0x2B00 && r <= 0x2BFF:
		return true
	}
	switch r {
	case 0x00A9, 0x00AE, 0x203C, 0x2049, 0x2122, 0x2139, 0x3030,
		0x303D, 0x3297, 0x3299:
		return true
	}
	return false
}

func toneModifier(r rune) bool {
	return r >= 0x1F3FB && r <= 0x1F3FF
}

func regionalIndicator(r rune) bool {
	return r >= 0x1F1E6 && r <= 0x1F1FF
}

// Emojis extracts emoji clusters from text in order of appearance.
// Presentation-aware: default-emoji code points match alone,
// text-presentation symbols only with a trailing VS16. Skin tones,
// flag pairs, and ZWJ sequences are kept with their base so a
// composed emoji counts once.
func Emojis(text string) []string {
	if text == "" {
		return nil
	}

	runes := []rune(text)
	var out []string

	for i := 0; i < len(runes); {
		r := runes[i]

		startsEmoji := emojiPresentation(r)
		startsText := !startsEmoji && textEmoji(r) &&
			i+1 < len(runes) && runes[i+1] == vs16
		if !startsEmoji && !startsText {
			i++
			continue
		}

		start := i
		i++
		i = consumeTrailers(runes, i)

		if regionalIndicator(r) &&
			i < len(runes) && regionalIndicator(runes[i]) {
			i++ // flag = regional indicator pair
		}

		// ZWJ sequences (families, professions) form one cluster.
		for i+1 < len(runes) && runes[i] == zwj &&
			(emojiPresentation(runes[i+1]) || textEmoji(runes[i+1])) {
			i += 2
			i = consumeTrailers(runes, i)
		}

		out = append(out, string(runes[start:i]))
	}
	return out
}

// consumeTrailers advances past a variation selector and/or skin
// tone modifier following an emoji base.
func consumeTrailers(runes []rune, i int) int {
	if i < len(runes) && runes[i] == vs16 {
		i++
	}
	if i < len(runes) && toneModifier(runes[i]) {
		i++
	}
	return i
}
