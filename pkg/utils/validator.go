package utils

import (
	"errors"
	"regexp"
	"strings"
	"unicode"
)

const (
	maxNameLength    = 20
	maxMessageLength = 200
)

var (
	// ErrEmptyInput means the input was empty after cleaning
	ErrEmptyInput = errors.New("input is empty")
	// ErrBlockedContent means the moderation filter rejected the input
	ErrBlockedContent = errors.New("content not allowed")
)

var multiSpace = regexp.MustCompile(`\s+`)

// Words rejected by the built-in moderation filter. The real corpus is
// an external collaborator; this covers impersonation handles.
var blockedWords = []string{"admin", "system", "moderator", "server"}

// CleanName validates and cleans a display name.
func CleanName(name string) (string, error) {
	cleaned, err := cleanText(name, maxNameLength)
	if err != nil {
		return "", err
	}
	lower := strings.ToLower(cleaned)
	for _, w := range blockedWords {
		if strings.Contains(lower, w) {
			return "", ErrBlockedContent
		}
	}
	return cleaned, nil
}

// CleanMessage validates and cleans a chat message or guess.
func CleanMessage(msg string) (string, error) {
	return cleanText(msg, maxMessageLength)
}

// cleanText trims, collapses whitespace, strips control characters and
// enforces a maximum length.
func cleanText(s string, max int) (string, error) {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsControl(r) {
			continue
		}
		b.WriteRune(r)
	}
	cleaned := strings.TrimSpace(multiSpace.ReplaceAllString(b.String(), " "))
	if cleaned == "" {
		return "", ErrEmptyInput
	}
	if len(cleaned) > max {
		cleaned = strings.TrimSpace(cleaned[:max])
	}
	return cleaned, nil
}

// NormalizeGuess lowercases a guess and strips all whitespace, the
// canonical form used for word comparison.
func NormalizeGuess(guess string) string {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(guess)))
	return strings.Join(fields, "")
}
