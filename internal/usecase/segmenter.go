package usecase

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/listmatic/backend/internal/domain"
)

// Compiled regex patterns for product line parsing
var (
	lineBreakRegex = regexp.MustCompile(`[\n\r]+`)

	// Trailing currency marker: EGP, LE or the Arabic word for pound.
	// The marker must stand alone or follow a digit so words ending in "le" survive.
	currencySuffixRegex = regexp.MustCompile(`(?i)(?:^|\s+|(\d))(?:EGP|LE|جنيه)\s*$`)

	// "<name> - <storage> - <price>" with hyphen, en dash or em dash
	structuredLineRegex = regexp.MustCompile(`^(.+?)\s*[-–—]\s*(\d+)\s*[-–—]\s*(\d+)\s*$`)

	// Trailing 3-5 digit price that is not the tail of a longer number
	trailingPriceRegex = regexp.MustCompile(`(?:^|\D)(\d{3,5})\s*$`)

	// First storage-looking number, e.g. "128GB", "256 G", "64g"
	storageRegex = regexp.MustCompile(`(?i)(\d{2,4})\s*GB?`)
)

const (
	// A single line longer than this is treated as a concatenated block
	concatenatedLineMinLength = 50

	// A trailing remainder of a concatenated block must be longer than this to count
	minRemainderLength = 5
)

// SplitProducts splits raw pasted text into one string per product line.
// A single long line without delimiters is cut after each price-looking number.
func SplitProducts(input string) []string {
	var lines []string
	for _, line := range lineBreakRegex.Split(input, -1) {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}

	if len(lines) == 1 && utf8.RuneCountInString(lines[0]) > concatenatedLineMinLength {
		if chunks := splitConcatenated(lines[0]); len(chunks) > 1 {
			return chunks
		}
	}

	return lines
}

// splitConcatenated cuts text after every 3-5 digit run followed by an uppercase letter or end of text
func splitConcatenated(text string) []string {
	var chunks []string
	lastEnd := 0

	for i := 0; i < len(text); {
		end := priceBoundaryAt(text, i)
		if end < 0 {
			i++
			continue
		}
		if chunk := strings.TrimSpace(text[lastEnd:end]); chunk != "" {
			chunks = append(chunks, chunk)
		}
		lastEnd = end
		i = end
	}

	if lastEnd < len(text) {
		remainder := strings.TrimSpace(text[lastEnd:])
		if utf8.RuneCountInString(remainder) > minRemainderLength {
			chunks = append(chunks, remainder)
		}
	}

	return chunks
}

// priceBoundaryAt returns the end offset of a price run starting at i, or -1.
// Runs longer than five digits only match on their last five.
func priceBoundaryAt(text string, i int) int {
	n := 0
	for n < 5 && i+n < len(text) && isASCIIDigit(text[i+n]) {
		n++
	}
	if n < 3 {
		return -1
	}

	end := i + n
	if end == len(text) || isASCIIUpper(text[end]) {
		return end
	}
	return -1
}

func isASCIIDigit(b byte) bool { return b >= '0' && b <= '9' }

func isASCIIUpper(b byte) bool { return b >= 'A' && b <= 'Z' }

// ParseProduct extracts name, storage and price from one product line.
// Missing parts degrade to empty storage and zero price.
func ParseProduct(line string) domain.Candidate {
	original := strings.TrimSpace(line)
	text := strings.TrimSpace(currencySuffixRegex.ReplaceAllString(original, "${1}"))

	if m := structuredLineRegex.FindStringSubmatch(text); m != nil {
		return domain.Candidate{
			Original: original,
			Name:     strings.TrimSpace(m[1]),
			Storage:  m[2] + "GB",
			Price:    parseDigits(m[3]),
		}
	}

	price := 0
	if loc := trailingPriceRegex.FindStringSubmatchIndex(text); loc != nil {
		price = parseDigits(text[loc[2]:loc[3]])
		text = strings.TrimSpace(text[:loc[2]])
	}

	storage := ""
	if m := storageRegex.FindStringSubmatch(text); m != nil {
		storage = m[1] + "GB"
	}

	return domain.Candidate{
		Original: original,
		Name:     text,
		Storage:  storage,
		Price:    price,
	}
}

// parseDigits converts a digit run to an int, returning 0 when it does not fit
func parseDigits(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
