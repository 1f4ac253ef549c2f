package domain

import "context"

// CorrectionRepository defines the interface for persisted manual corrections.
// Keys are normalized original text.
type CorrectionRepository interface {
	Get(ctx context.Context, key string) (*Correction, error)
	Upsert(ctx context.Context, key string, correction Correction) error
	All(ctx context.Context) (map[string]Correction, error)
	Delete(ctx context.Context, key string) error
}
