package corrections

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/listmatic/backend/internal/domain"
)

// SQLiteStore persists corrections in a single SQLite table
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at path and ensures the schema
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One logical writer; a single connection also keeps :memory: databases shared
	db.SetMaxOpenConns(1)

	store := &SQLiteStore{db: db}
	if err := store.init(); err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

// init creates the schema
func (s *SQLiteStore) init() error {
	schema := `
		CREATE TABLE IF NOT EXISTS corrections (
			key        TEXT PRIMARY KEY,
			brand      TEXT NOT NULL DEFAULT '',
			model      TEXT NOT NULL DEFAULT '',
			storage    TEXT NOT NULL DEFAULT '',
			image      TEXT NOT NULL DEFAULT '',
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Get retrieves the correction stored under key
func (s *SQLiteStore) Get(ctx context.Context, key string) (*domain.Correction, error) {
	var c domain.Correction
	err := s.db.QueryRowContext(ctx,
		`SELECT brand, model, storage, image FROM corrections WHERE key = ?`, key,
	).Scan(&c.Brand, &c.Model, &c.Storage, &c.Image)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrCorrectionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query correction: %w", err)
	}
	return &c, nil
}

// Upsert stores or overwrites the correction for key
func (s *SQLiteStore) Upsert(ctx context.Context, key string, c domain.Correction) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO corrections (key, brand, model, storage, image, updated_at)
		 VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET
			brand = excluded.brand,
			model = excluded.model,
			storage = excluded.storage,
			image = excluded.image,
			updated_at = CURRENT_TIMESTAMP`,
		key, c.Brand, c.Model, c.Storage, c.Image,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert correction: %w", err)
	}
	return nil
}

// All returns every stored correction
func (s *SQLiteStore) All(ctx context.Context) (map[string]domain.Correction, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, brand, model, storage, image FROM corrections`)
	if err != nil {
		return nil, fmt.Errorf("failed to list corrections: %w", err)
	}
	defer rows.Close()

	out := make(map[string]domain.Correction)
	for rows.Next() {
		var key string
		var c domain.Correction
		if err := rows.Scan(&key, &c.Brand, &c.Model, &c.Storage, &c.Image); err != nil {
			return nil, fmt.Errorf("failed to scan correction: %w", err)
		}
		out[key] = c
	}
	return out, rows.Err()
}

// Delete removes a correction
func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM corrections WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("failed to delete correction: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrCorrectionNotFound
	}
	return nil
}

// Close closes the database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
