// Package lexutil provides the lexical primitives shared by both search
// services: word extraction, word-position extraction, edit distance, and
// highlight insertion.
package lexutil

import (
	"regexp"
	"strings"

	"github.com/translatekit/searchkit/model"
)

// wordRegex matches whole words at word boundaries.
var wordRegex = regexp.MustCompile(`\b\w+\b`)

const (
	markOpen  = "<mark>"
	markClose = "</mark>"
)

// ExtractWords returns every word in text, lowercased, in order of
// occurrence. Duplicates are preserved.
func ExtractWords(text string) []string {
	words := wordRegex.FindAllString(strings.ToLower(text), -1)
	if words == nil {
		return []string{}
	}
	return words
}

// ExtractWordPositions returns every word occurrence in text with its byte
// offset and length. Words are lowercased; offsets refer to the original text.
func ExtractWordPositions(text string) []model.WordPosition {
	indexes := wordRegex.FindAllStringIndex(text, -1)
	positions := make([]model.WordPosition, 0, len(indexes))
	for _, idx := range indexes {
		positions = append(positions, model.WordPosition{
			Word:     strings.ToLower(text[idx[0]:idx[1]]),
			Position: idx[0],
			Length:   idx[1] - idx[0],
		})
	}
	return positions
}

// IsWordBoundary reports whether pos is the start of a word in s: position 0
// always is; otherwise the preceding byte must be a non-word character and the
// byte at pos a word character ([a-zA-Z0-9_]).
func IsWordBoundary(s string, pos int) bool {
	if pos < 0 || pos >= len(s) {
		return false
	}
	if pos == 0 {
		return true
	}
	return !isWordChar(s[pos-1]) && isWordChar(s[pos])
}

func isWordChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_'
}

// Highlight splices <mark> markers around s[position:position+length]. It is
// a no-op when position is negative, length is non-positive, or the range
// falls outside s.
func Highlight(s string, position, length int) string {
	if position < 0 || length <= 0 || position+length > len(s) {
		return s
	}
	return s[:position] + markOpen + s[position:position+length] + markClose + s[position+length:]
}

// HighlightAll wraps every case-insensitive occurrence of query in s. Regex
// metacharacters in the query are matched literally.
func HighlightAll(s, query string) string {
	if query == "" {
		return s
	}
	pattern, err := regexp.Compile(`(?i)` + regexp.QuoteMeta(query))
	if err != nil {
		return s
	}
	return pattern.ReplaceAllString(s, markOpen+"$0"+markClose)
}

// StripHighlights removes all <mark> markers inserted by Highlight or
// HighlightAll.
func StripHighlights(s string) string {
	s = strings.ReplaceAll(s, markOpen, "")
	return strings.ReplaceAll(s, markClose, "")
}
