package utils

import (
	"html"
	"strconv"
	"strings"
)

// Lore text uses a single markup convention: *text* marks emphasis. The
// helpers below are the one place that convention is interpreted, so the
// escaping order is fixed here: plain-text targets strip the span, the HTML
// target escapes the raw text FIRST and converts markers afterwards, so
// record content can never form tags.

// StripEmphasis removes *emphasized* spans (markers and content) from s.
// The original site uses the emphasis span as a title line, so the whole
// span is dropped for plain-text excerpts, along with up to two newlines
// that follow it. An unmatched '*' is kept literally.
func StripEmphasis(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		if s[i] != '*' {
			b.WriteByte(s[i])
			i++
			continue
		}
		end := strings.IndexByte(s[i+1:], '*')
		if end < 0 {
			b.WriteByte('*')
			i++
			continue
		}
		i += end + 2
		for n := 0; n < 2 && i < len(s) && s[i] == '\n'; n++ {
			i++
		}
	}
	return strings.TrimSpace(b.String())
}

// EmphasisHTML converts s to an HTML fragment: the text is HTML-escaped,
// then *text* becomes <em>text</em> and newlines become <br>.
func EmphasisHTML(s string) string {
	esc := html.EscapeString(s)
	var b strings.Builder
	b.Grow(len(esc) + 16)
	for i := 0; i < len(esc); {
		switch esc[i] {
		case '*':
			end := strings.IndexByte(esc[i+1:], '*')
			if end < 0 {
				b.WriteByte('*')
				i++
				continue
			}
			b.WriteString("<em>")
			b.WriteString(esc[i+1 : i+1+end])
			b.WriteString("</em>")
			i += end + 2
		case '\n':
			b.WriteString("<br>")
			i++
		default:
			b.WriteByte(esc[i])
			i++
		}
	}
	return b.String()
}

// Truncate cuts s to at most n runes, appending an ellipsis when it cut.
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return strings.TrimSpace(string(runes[:n])) + "…"
}

// FormatThousands renders n with comma digit grouping (1234 -> "1,234").
func FormatThousands(n int) string {
	s := strconv.Itoa(n)
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	var b strings.Builder
	for i, d := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
