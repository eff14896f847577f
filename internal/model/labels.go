package model

import "strings"

// DefaultLabeler converts a field name into a display label. Underscores,
// dashes, dots, and camelCase boundaries split words; every word is
// title-cased.
func DefaultLabeler(name string) string {
	words := splitName(strings.TrimSpace(name))
	for i, word := range words {
		words[i] = titleWord(word)
	}
	return strings.Join(words, " ")
}

func splitName(input string) []string {
	var words []string
	var current strings.Builder
	flush := func() {
		if current.Len() > 0 {
			words = append(words, current.String())
			current.Reset()
		}
	}

	var prev rune
	for i, r := range input {
		switch {
		case r == '_' || r == '-' || r == '.' || r == ' ':
			flush()
			continue
		case i > 0 && wordBoundary(prev, r):
			flush()
		}
		current.WriteRune(r)
		prev = r
	}
	flush()
	return words
}

func wordBoundary(prev, r rune) bool {
	return (isLower(prev) && isUpper(r)) ||
		(isLetter(prev) && isDigit(r)) ||
		(isDigit(prev) && isLetter(r))
}

func isUpper(r rune) bool  { return r >= 'A' && r <= 'Z' }
func isLower(r rune) bool  { return r >= 'a' && r <= 'z' }
func isDigit(r rune) bool  { return r >= '0' && r <= '9' }
func isLetter(r rune) bool { return isUpper(r) || isLower(r) }

func titleWord(word string) string {
	if word == "" {
		return ""
	}
	lower := strings.ToLower(word)
	return strings.ToUpper(lower[:1]) + lower[1:]
}
