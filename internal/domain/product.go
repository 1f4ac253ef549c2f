package domain

// MasterRecord is one entry of the master catalog.
// The derived fields are filled once at load time and never change afterwards.
type MasterRecord struct {
	Brand   string `json:"brand"`
	Model   string `json:"model"`
	Storage string `json:"storage"`
	Price   string `json:"price"`
	Image   string `json:"image"`

	FullName   string   `json:"fullName"`
	Normalized string   `json:"-"`
	Tokens     []string `json:"-"`
}

// Catalog is the ordered master product list. Order matters: ties go to the earlier record.
type Catalog []MasterRecord

// Candidate is one parsed input line awaiting a catalog match
type Candidate struct {
	Original string `json:"original"`
	Name     string `json:"name"`
	Storage  string `json:"storage"`
	Price    int    `json:"price"`
}

// Correction is a user-confirmed override for one input text
type Correction struct {
	Brand   string `json:"brand" yaml:"brand"`
	Model   string `json:"model" yaml:"model"`
	Storage string `json:"storage" yaml:"storage"`
	Image   string `json:"image" yaml:"image"`
}

// BestMatch is the outcome of searching the catalog for one candidate name.
// Exactly one of Record or Correction is set when a match was found.
type BestMatch struct {
	Record         *MasterRecord
	Correction     *Correction
	Score          int
	FromCorrection bool
}

// Found reports whether a record or a correction was resolved
func (b BestMatch) Found() bool {
	return b.Record != nil || b.Correction != nil
}

// MatchResult is the resolved listing for one input line
type MatchResult struct {
	Index          int    `json:"index"`
	Original       string `json:"original"`
	Brand          string `json:"brand"`
	Model          string `json:"model"`
	Storage        string `json:"storage"`
	Price          int    `json:"price"`
	Image          string `json:"image"`
	Score          int    `json:"score"`
	Matched        bool   `json:"matched"`
	FromCorrection bool   `json:"fromCorrection"`
}

// ScoreClass buckets a score for display: "high", "medium" or "low"
func (r MatchResult) ScoreClass() string {
	switch {
	case r.Score >= 80:
		return "high"
	case r.Score >= 50:
		return "medium"
	default:
		return "low"
	}
}

// MatchStats summarises a result list
type MatchStats struct {
	Total     int `json:"total"`
	Matched   int `json:"matched"`
	Unmatched int `json:"unmatched"`
}

// NewMatchStats counts matched and unmatched entries of a result list
func NewMatchStats(results []MatchResult) MatchStats {
	stats := MatchStats{Total: len(results)}
	for _, r := range results {
		if r.Matched {
			stats.Matched++
		}
	}
	stats.Unmatched = stats.Total - stats.Matched
	return stats
}
