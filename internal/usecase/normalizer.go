package usecase

import (
	"regexp"
	"strings"
)

// Package-level compiled regex patterns for normalization
var (
	dashRegex = regexp.MustCompile(`[-–—]`)

	// Keeps ASCII letters, digits, the Arabic block and whitespace
	nonWordRegex = regexp.MustCompile(`[^a-z0-9\x{0600}-\x{06FF}\s]`)

	multipleSpacesRegex = regexp.MustCompile(`\s+`)
)

// Normalize lowercases text, turns dashes and punctuation into spaces and collapses whitespace.
// Catalog records and candidates must both go through this exact function.
func Normalize(text string) string {
	result := strings.ToLower(text)
	result = dashRegex.ReplaceAllString(result, " ")
	result = nonWordRegex.ReplaceAllString(result, " ")
	result = multipleSpacesRegex.ReplaceAllString(result, " ")
	return strings.TrimSpace(result)
}

// Tokenize splits normalized text into words. Single-letter tokens are kept.
func Tokenize(text string) []string {
	normalized := Normalize(text)
	if normalized == "" {
		return nil
	}

	parts := strings.Split(normalized, " ")
	tokens := make([]string, 0, len(parts))
	for _, part := range parts {
		if len(part) >= 1 {
			tokens = append(tokens, part)
		}
	}
	return tokens
}
