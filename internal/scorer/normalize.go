package scorer

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldAccents strips combining marks so accented text matches plain
// keywords ("café" -> "cafe").
func foldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return result
}

// normalizeText lowercases, strips accents, and replaces every
// non-alphanumeric rune with a space. Word boundaries are therefore exactly
// the space-delimited token edges of the result.
func normalizeText(text string) string {
	text = foldAccents(strings.ToLower(text))

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}
	return b.String()
}

// normalizeKeyword applies the same normalization to a configured keyword
// so keyword and text always compare in the same space.
func normalizeKeyword(kw string) string {
	return strings.TrimSpace(normalizeText(kw))
}

// containsWord reports whether word occurs in text at word boundaries.
// text must already be normalized, so boundaries are spaces or the string
// edges. Prevents "hard" matching inside "hardly".
func containsWord(text, word string) bool {
	if word == "" {
		return false
	}
	for start := 0; ; {
		idx := strings.Index(text[start:], word)
		if idx < 0 {
			return false
		}
		idx += start
		end := idx + len(word)
		leftOK := idx == 0 || text[idx-1] == ' '
		rightOK := end == len(text) || text[end] == ' '
		if leftOK && rightOK {
			return true
		}
		start = idx + 1
	}
}
