package usecase

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/listmatic/backend/internal/domain"
)

// Placeholders written into unresolved result fields
const (
	unknownBrand   = "?"
	unknownStorage = "-"
)

// exportHeader is the column layout shared with the image generation pipeline
var exportHeader = []string{"Brand", "Model", "Storage", "Price", "Image"}

// SessionConfig holds configuration for a matcher session
type SessionConfig struct {
	Threshold          int
	EnableDebugLogging bool
}

// RunOptions controls pricing and the match threshold of one run
type RunOptions struct {
	Divisor      float64 // Price is divided by this; <= 0 means 1
	ProfitMargin float64 // Percentage added after division; <= 0 means none
	Threshold    int     // Minimum score; <= 0 uses the session threshold
}

// MatcherSession owns the loaded catalog, the correction store and the last run's results.
// Scoring itself is pure; the mutex only serialises callers sharing one session.
type MatcherSession struct {
	mu                 sync.Mutex
	matcher            *MatchingService
	corrections        domain.CorrectionRepository
	catalog            domain.Catalog
	results            []domain.MatchResult
	enableDebugLogging bool
}

// NewMatcherSession creates a session backed by the given correction store
func NewMatcherSession(corrections domain.CorrectionRepository, config SessionConfig) *MatcherSession {
	return &MatcherSession{
		matcher: NewMatchingService(MatchConfig{
			Threshold:          config.Threshold,
			EnableDebugLogging: config.EnableDebugLogging,
		}),
		corrections:        corrections,
		enableDebugLogging: config.EnableDebugLogging,
	}
}

// LoadCatalog replaces the master catalog wholesale with an indexed copy
func (s *MatcherSession) LoadCatalog(catalog domain.Catalog) {
	indexed := IndexCatalog(catalog)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.catalog = indexed
	log.Printf("[SESSION] Catalog loaded: %d records", len(catalog))
}

// IndexCatalog returns a copy of catalog with FullName, Normalized and Tokens derived from brand and model
func IndexCatalog(catalog domain.Catalog) domain.Catalog {
	indexed := make(domain.Catalog, len(catalog))
	for i, record := range catalog {
		record.FullName = strings.TrimSpace(record.Brand + " " + record.Model)
		record.Normalized = Normalize(record.FullName)
		record.Tokens = Tokenize(record.FullName)
		indexed[i] = record
	}
	return indexed
}

// CatalogSize returns the number of loaded master records
func (s *MatcherSession) CatalogSize() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.catalog)
}

// Run segments the input, matches every line and replaces the previous results.
// Flow: split -> parse -> correction lookup -> catalog scoring -> price transform
func (s *MatcherSession) Run(ctx context.Context, input string, opts RunOptions) ([]domain.MatchResult, error) {
	if strings.TrimSpace(input) == "" {
		return nil, domain.ErrEmptyInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.catalog) == 0 {
		return nil, domain.ErrEmptyCatalog
	}

	opts = s.normalizeOptions(opts)
	lines := SplitProducts(input)
	results := make([]domain.MatchResult, 0, len(lines))

	for i, line := range lines {
		candidate := ParseProduct(line)

		match, err := s.resolve(ctx, candidate)
		if err != nil {
			return nil, fmt.Errorf("matching line %d: %w", i+1, err)
		}

		result := buildResult(i, line, candidate, match, s.matcher.IsMatched(match, opts.Threshold))
		result.Price = transformPrice(candidate.Price, opts.Divisor, opts.ProfitMargin)
		results = append(results, result)
	}

	s.results = results

	stats := domain.NewMatchStats(results)
	log.Printf("[SESSION] Run complete: %d lines, %d matched, %d unmatched", stats.Total, stats.Matched, stats.Unmatched)

	return cloneResults(results), nil
}

// resolve checks the correction for the whole original line, then falls back to FindBestMatch on the name
func (s *MatcherSession) resolve(ctx context.Context, candidate domain.Candidate) (domain.BestMatch, error) {
	if s.corrections != nil {
		correction, err := s.corrections.Get(ctx, Normalize(candidate.Original))
		switch {
		case err == nil:
			return domain.BestMatch{Correction: correction, Score: correctionScore, FromCorrection: true}, nil
		case !errors.Is(err, domain.ErrCorrectionNotFound):
			return domain.BestMatch{}, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
		}
	}

	return s.matcher.FindBestMatch(ctx, candidate.Name, candidate.Storage, s.catalog, s.corrections)
}

// normalizeOptions fills defaults for unset run options
func (s *MatcherSession) normalizeOptions(opts RunOptions) RunOptions {
	if opts.Divisor <= 0 {
		opts.Divisor = 1
	}
	if opts.ProfitMargin < 0 {
		opts.ProfitMargin = 0
	}
	if opts.Threshold <= 0 {
		opts.Threshold = s.matcher.Threshold()
	}
	return opts
}

// buildResult maps a resolved match onto the result shape.
// Storage prefers the candidate's own, then the matched entry's, then a placeholder.
func buildResult(idx int, line string, candidate domain.Candidate, match domain.BestMatch, matched bool) domain.MatchResult {
	var brand, model, storage, image string
	switch {
	case match.Correction != nil:
		brand, model, storage, image = match.Correction.Brand, match.Correction.Model, match.Correction.Storage, match.Correction.Image
	case match.Record != nil:
		brand, model, storage, image = match.Record.Brand, match.Record.Model, match.Record.Storage, match.Record.Image
	}

	finalStorage := candidate.Storage
	if finalStorage == "" {
		finalStorage = storage
	}
	if finalStorage == "" {
		finalStorage = unknownStorage
	}

	result := domain.MatchResult{
		Index:          idx,
		Original:       line,
		Storage:        finalStorage,
		Score:          match.Score,
		Matched:        matched,
		FromCorrection: match.FromCorrection,
	}

	if matched {
		result.Brand = brand
		result.Model = model
		result.Image = image
	} else {
		result.Brand = unknownBrand
		result.Model = candidate.Name
	}

	return result
}

// transformPrice applies ceil(price/divisor) and then the optional margin, rounding up each time
func transformPrice(price int, divisor, margin float64) int {
	if divisor <= 0 {
		divisor = 1
	}
	final := math.Ceil(float64(price) / divisor)
	if margin > 0 {
		// Multiply before dividing so whole-number margins stay exact
		final = math.Ceil(final * (100 + margin) / 100)
	}
	return int(final)
}

// Results returns a copy of the last run's results
func (s *MatcherSession) Results() []domain.MatchResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneResults(s.results)
}

// Stats summarises the last run
func (s *MatcherSession) Stats() domain.MatchStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.NewMatchStats(s.results)
}

// EditMatch applies a manual brand/model to one result and remembers it as a correction.
// The correction is stored under the normalized original line.
func (s *MatcherSession) EditMatch(ctx context.Context, idx int, brand, model string) (domain.MatchResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if idx < 0 || idx >= len(s.results) {
		return domain.MatchResult{}, domain.ErrIndexOutOfRange
	}
	if s.corrections == nil {
		return domain.MatchResult{}, domain.ErrStoreUnavailable
	}

	result := &s.results[idx]
	key := Normalize(result.Original)
	if key == "" {
		return domain.MatchResult{}, fmt.Errorf("%w: original text normalizes to nothing", domain.ErrInvalidRequest)
	}

	correction := domain.Correction{
		Brand:   brand,
		Model:   model,
		Storage: result.Storage,
		Image:   result.Image,
	}
	if err := s.corrections.Upsert(ctx, key, correction); err != nil {
		return domain.MatchResult{}, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	result.Brand = brand
	result.Model = model
	result.Matched = true
	result.Score = correctionScore
	result.FromCorrection = true

	if s.enableDebugLogging {
		log.Printf("[SESSION] Correction saved for %q -> %s %s", key, brand, model)
	}

	return *result, nil
}

// ExportCSV writes every result with all fields double-quoted
func (s *MatcherSession) ExportCSV(w io.Writer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var b strings.Builder
	b.WriteString(strings.Join(exportHeader, ","))
	b.WriteString("\n")
	for _, r := range s.results {
		fields := []string{r.Brand, r.Model, r.Storage, strconv.Itoa(r.Price), r.Image}
		for i, field := range fields {
			if i > 0 {
				b.WriteString(",")
			}
			b.WriteString(`"` + strings.ReplaceAll(field, `"`, `""`) + `"`)
		}
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// ExportPipelineCSV writes only matched results in the image pipeline's input shape
func (s *MatcherSession) ExportPipelineCSV(w io.Writer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return err
	}
	for _, r := range s.results {
		if !r.Matched {
			continue
		}
		if err := cw.Write([]string{r.Brand, r.Model, r.Storage, strconv.Itoa(r.Price), r.Image}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func cloneResults(results []domain.MatchResult) []domain.MatchResult {
	if results == nil {
		return nil
	}
	out := make([]domain.MatchResult, len(results))
	copy(out, results)
	return out
}
