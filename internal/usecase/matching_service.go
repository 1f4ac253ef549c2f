package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"regexp"
	"slices"
	"strings"

	"github.com/listmatic/backend/internal/domain"
)

// Package-level compiled regex pattern for storage comparison
var nonDigitRegex = regexp.MustCompile(`[^\d]`)

// Scoring weights
const (
	variantMatchBonus     = 30.0 // Same qualifier on both sides ("pro" and "pro")
	variantMissingPenalty = 10.0 // Master has a qualifier the candidate lacks
	modelNumberBonus      = 40.0 // Same model number on both sides
	exactTokenBonus       = 15.0 // Candidate token is a master token
	partialTokenBonus     = 10.0 // Candidate token is a substring of the master name
	reverseTokenBonus     = 5.0  // Master token appears inside the candidate text
	coverageWeight        = 15.0 // Scales matched/total candidate tokens
	storageMatchBonus     = 5    // Same storage digits
	correctionScore       = 100
	maxScore              = 100
)

// DefaultMatchThreshold is the minimum score for a result to count as matched
const DefaultMatchThreshold = 20

// MatchConfig holds configuration for the matching service
type MatchConfig struct {
	Threshold          int
	EnableDebugLogging bool
}

// MatchingService scores free-text product names against the master catalog
type MatchingService struct {
	threshold          int
	enableDebugLogging bool
}

// NewMatchingService creates a new matching service with the given configuration
func NewMatchingService(config MatchConfig) *MatchingService {
	threshold := config.Threshold
	if threshold <= 0 {
		threshold = DefaultMatchThreshold
	}

	return &MatchingService{
		threshold:          threshold,
		enableDebugLogging: config.EnableDebugLogging,
	}
}

// Threshold returns the configured match threshold
func (s *MatchingService) Threshold() int {
	return s.threshold
}

// FindBestMatch resolves a candidate name against the corrections and then the catalog.
// A correction hit on the normalized name short-circuits scoring with score 100.
// A weak or missing match is a low-score result, not an error.
func (s *MatchingService) FindBestMatch(
	ctx context.Context,
	name, storage string,
	catalog domain.Catalog,
	corrections domain.CorrectionRepository,
) (domain.BestMatch, error) {
	if corrections != nil {
		correction, err := corrections.Get(ctx, Normalize(name))
		switch {
		case err == nil:
			if s.enableDebugLogging {
				log.Printf("[MATCH] Correction hit for %q -> %s %s", name, correction.Brand, correction.Model)
			}
			return domain.BestMatch{Correction: correction, Score: correctionScore, FromCorrection: true}, nil
		case !errors.Is(err, domain.ErrCorrectionNotFound):
			return domain.BestMatch{}, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
		}
	}

	candidateTokens := Tokenize(name)
	if len(candidateTokens) == 0 || len(catalog) == 0 {
		return domain.BestMatch{}, nil
	}

	candidateStorage := nonDigitRegex.ReplaceAllString(storage, "")

	var best *domain.MasterRecord
	bestScore := 0

	for i := range catalog {
		select {
		case <-ctx.Done():
			return domain.BestMatch{}, ctx.Err()
		default:
		}

		record := &catalog[i]
		score := CalculateMatchScore(candidateTokens, record.Tokens, record.Normalized, name, record.FullName)

		// Applies even to pairings the scorer rejected
		if storage != "" && record.Storage != "" {
			if candidateStorage == nonDigitRegex.ReplaceAllString(record.Storage, "") {
				score = min(maxScore, score+storageMatchBonus)
			}
		}

		if s.enableDebugLogging {
			log.Printf("[MATCH] %q vs %q | Score: %d", name, record.FullName, score)
		}

		if score > bestScore {
			bestScore = score
			best = record
		}
	}

	if s.enableDebugLogging && best != nil {
		log.Printf("[MATCH] Best match for %q: %q (score: %d)", name, best.FullName, bestScore)
	}

	return domain.BestMatch{Record: best, Score: bestScore}, nil
}

// IsMatched applies the threshold rule: corrections always count, otherwise score >= threshold
func (s *MatchingService) IsMatched(match domain.BestMatch, threshold int) bool {
	if !match.Found() {
		return false
	}
	if threshold <= 0 {
		threshold = s.threshold
	}
	return match.FromCorrection || match.Score >= threshold
}

// CalculateMatchScore scores one candidate against one master record, 0..100.
// The rules run in order and the variant and model-number gates can reject a pairing outright:
//   - variant: both present and different, or candidate-only, rejects; master-only costs 10; equal adds 30
//   - model number: both present and different rejects; equal adds 40
//   - each candidate token found among master tokens adds 15, found inside the master name adds 10
//   - each master token (2+ chars, not a candidate token) found inside the candidate text adds 5
//   - matched/total candidate tokens times 15
func CalculateMatchScore(candidateTokens, masterTokens []string, masterNormalized, candidateText, masterText string) int {
	if len(candidateTokens) == 0 || len(masterTokens) == 0 {
		return 0
	}

	score := 0.0

	candidateVariant, masterVariant := ExtractVariant(candidateText), ExtractVariant(masterText)
	switch {
	case candidateVariant != "" && masterVariant != "":
		if candidateVariant != masterVariant {
			return 0
		}
		score += variantMatchBonus
	case candidateVariant != "":
		return 0
	case masterVariant != "":
		score -= variantMissingPenalty
	}

	candidateModel, masterModel := ExtractModelNumber(candidateText), ExtractModelNumber(masterText)
	if candidateModel != "" && masterModel != "" {
		if candidateModel != masterModel {
			return 0
		}
		score += modelNumberBonus
	}

	matched := 0
	for _, token := range candidateTokens {
		if slices.Contains(masterTokens, token) {
			score += exactTokenBonus
			matched++
		} else if strings.Contains(masterNormalized, token) {
			score += partialTokenBonus
			matched++
		}
	}

	candidateNormalized := Normalize(candidateText)
	for _, token := range masterTokens {
		if len(token) >= 2 && !slices.Contains(candidateTokens, token) && strings.Contains(candidateNormalized, token) {
			score += reverseTokenBonus
		}
	}

	score += float64(matched) / float64(len(candidateTokens)) * coverageWeight

	return int(math.Max(0, math.Min(maxScore, math.Round(score))))
}
