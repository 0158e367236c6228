// Package textnorm cleans raw post and article text before lexicon matching.
package textnorm

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	urlPattern       = regexp.MustCompile(`https?://\S+`)
	userMention      = regexp.MustCompile(`/u/\w+`)
	communityMention = regexp.MustCompile(`/r/\w+`)
	boldPattern      = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	italicPattern    = regexp.MustCompile(`\*([^*]+)\*`)
)

// Normalize lowercases text, removes URLs and /u/ or /r/ references, unwraps
// markdown emphasis and collapses whitespace. It never fails; empty input
// yields an empty string.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	text = strings.ToLower(norm.NFKC.String(text))
	text = urlPattern.ReplaceAllString(text, "")
	text = userMention.ReplaceAllString(text, "")
	text = communityMention.ReplaceAllString(text, "")
	text = boldPattern.ReplaceAllString(text, "$1")
	text = italicPattern.ReplaceAllString(text, "$1")

	return strings.Join(strings.Fields(text), " ")
}

// StripNonWord replaces every rune that is not a letter, digit or underscore
// with a space, lowercases the result and collapses whitespace.
func StripNonWord(text string) string {
	if text == "" {
		return ""
	}

	mapped := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			return unicode.ToLower(r)
		}
		return ' '
	}, norm.NFKC.String(text))

	return strings.Join(strings.Fields(mapped), " ")
}

// Tokens splits normalized text on whitespace
func Tokens(text string) []string {
	return strings.Fields(Normalize(text))
}

// IsAlpha reports whether s is non-empty and made only of letters
func IsAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
