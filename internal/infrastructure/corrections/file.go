package corrections

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/listmatic/backend/internal/domain"
	"gopkg.in/yaml.v3"
)

// FileStore keeps corrections in memory and rewrites a flat key-value file on every change.
// Paths ending in .yaml or .yml are written as YAML, anything else as JSON.
type FileStore struct {
	*MemoryStore
	path string
}

// NewFileStore loads corrections from path. A missing file starts an empty store;
// an unreadable or corrupt file is an error.
func NewFileStore(path string) (*FileStore, error) {
	store := &FileStore{
		MemoryStore: NewMemoryStore(),
		path:        path,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return store, nil
		}
		return nil, fmt.Errorf("failed to read corrections file: %w", err)
	}

	if len(strings.TrimSpace(string(data))) == 0 {
		return store, nil
	}

	loaded := make(map[string]domain.Correction)
	if store.isYAML() {
		err = yaml.Unmarshal(data, &loaded)
	} else {
		err = json.Unmarshal(data, &loaded)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode corrections file: %w", err)
	}

	store.data = loaded
	log.Printf("[CORRECTIONS] Loaded %d corrections from %s", len(loaded), path)

	return store, nil
}

// Upsert stores the correction and persists the whole table
func (s *FileStore) Upsert(ctx context.Context, key string, correction domain.Correction) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	previous, existed := s.data[key]
	s.data[key] = correction

	if err := s.flush(); err != nil {
		if existed {
			s.data[key] = previous
		} else {
			delete(s.data, key)
		}
		return err
	}
	return nil
}

// Delete removes a correction and persists the whole table
func (s *FileStore) Delete(ctx context.Context, key string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	previous, exists := s.data[key]
	if !exists {
		return domain.ErrCorrectionNotFound
	}
	delete(s.data, key)

	if err := s.flush(); err != nil {
		s.data[key] = previous
		return err
	}
	return nil
}

// flush writes the table to a temp file and renames it over the target. Caller holds the lock.
func (s *FileStore) flush() error {
	var (
		data []byte
		err  error
	)
	if s.isYAML() {
		data, err = yaml.Marshal(s.data)
	} else {
		data, err = json.MarshalIndent(s.data, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to encode corrections: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create corrections directory: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write corrections file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace corrections file: %w", err)
	}
	return nil
}

func (s *FileStore) isYAML() bool {
	ext := strings.ToLower(filepath.Ext(s.path))
	return ext == ".yaml" || ext == ".yml"
}
