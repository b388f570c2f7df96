package views

import (
	"strings"
	"unicode/utf8"
)

// sanitizeForTerminal removes codepoints that break tcell rendering or could
// rewrite the screen: skin tone modifiers, zero width joiners, variation
// selectors, bidi overrides and control characters other than newline and
// tab. Emoji sequences collapse to their base glyph.
func sanitizeForTerminal(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == '\r' {
			i += size
			continue
		}
		if !isProblematicRune(r) {
			b.WriteRune(r)
		}
		i += size
	}
	return b.String()
}

func isProblematicRune(r rune) bool {
	switch {
	case r == utf8.RuneError:
		return true
	case r == '\n' || r == '\t':
		return false
	// C0 controls, DEL and C1 controls.
	case r < 0x20, r >= 0x7F && r <= 0x9F:
		return true
	// Skin tone modifiers.
	case r >= 0x1F3FB && r <= 0x1F3FF:
		return true
	// Zero Width Joiner.
	case r == 0x200D:
		return true
	// Bidi embeddings, overrides and isolates.
	case r >= 0x202A && r <= 0x202E, r >= 0x2066 && r <= 0x2069:
		return true
	// Variation Selectors.
	case r >= 0xFE00 && r <= 0xFE0F:
		return true
	// Variation Selectors Supplement.
	case r >= 0xE0100 && r <= 0xE01EF:
		return true
	default:
		return false
	}
}

// singleLine flattens s for one-line cells.
func singleLine(s string) string {
	return strings.Join(strings.Fields(sanitizeForTerminal(s)), " ")
}

// wrapText splits s into lines of at most width runes, breaking at spaces
// where possible. Existing newlines are kept.
func wrapText(s string, width int) []string {
	var out []string
	for _, para := range strings.Split(s, "\n") {
		if width <= 0 || utf8.RuneCountInString(para) <= width {
			out = append(out, para)
			continue
		}
		var line []rune
		for _, word := range strings.Split(para, " ") {
			w := []rune(word)
			for len(w) > width {
				if len(line) > 0 {
					out = append(out, string(line))
					line = nil
				}
				out = append(out, string(w[:width]))
				w = w[width:]
			}
			switch {
			case len(line) == 0:
				line = w
			case len(line)+1+len(w) <= width:
				line = append(append(line, ' '), w...)
			default:
				out = append(out, string(line))
				line = w
			}
		}
		out = append(out, string(line))
	}
	return out
}
