package exercise

import (
	"strings"
	"unicode"
)

// Normalize lowercases a raw exercise name, maps separator punctuation to
// spaces, drops every other non-alphanumeric rune, and collapses whitespace.
// Machine-generated names arrive as "Jumping_Jacks", "jumping-jacks (30s)"
// and similar; all of them normalize to "jumping jacks".
func Normalize(s string) string {
	var result strings.Builder
	s = strings.ToLower(s)
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ':
			result.WriteRune(r)
		case r == '_' || r == '-' || r == '/':
			result.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(result.String()), " ")
}

// Words splits a normalized name into its word tokens.
func Words(s string) []string {
	return strings.Fields(Normalize(s))
}
