package usecase

import (
	"regexp"
	"strings"
)

// variantKeywords is checked in order. Longer qualifiers come before the shorter ones they contain.
var variantKeywords = []string{"pro max", "pro", "plus", "ultra", "max", "air", "lite", "fe", "mini", "se"}

var (
	// Number right after a product-family prefix, e.g. "iphone 13", "galaxy s21" -> 21
	modelPrefixRegex = regexp.MustCompile(`(?i)(?:iphone|galaxy|redmi|note|ipad|tab|watch|s|a|m|x)\s*(\d+)`)

	standaloneNumberRegex = regexp.MustCompile(`\b(\d{1,2})\b`)
)

// ExtractVariant returns the first product-line qualifier found in text, or "".
// Matching is by substring on the normalized text.
func ExtractVariant(text string) string {
	normalized := Normalize(text)
	for _, keyword := range variantKeywords {
		if strings.Contains(normalized, keyword) {
			return keyword
		}
	}
	return ""
}

// ExtractModelNumber returns the model number of a product name, or "" if none is found
func ExtractModelNumber(text string) string {
	normalized := Normalize(text)
	if m := modelPrefixRegex.FindStringSubmatch(normalized); m != nil {
		return m[1]
	}
	if m := standaloneNumberRegex.FindStringSubmatch(normalized); m != nil {
		return m[1]
	}
	return ""
}
