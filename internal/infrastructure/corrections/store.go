package corrections

import (
	"fmt"
	"io"

	"github.com/listmatic/backend/internal/domain"
)

// Store types accepted by New
const (
	TypeMemory = "memory"
	TypeFile   = "file"
	TypeSQLite = "sqlite"
)

// New builds the correction store selected by storeType
func New(storeType, path string) (domain.CorrectionRepository, error) {
	switch storeType {
	case TypeMemory, "":
		return NewMemoryStore(), nil
	case TypeFile:
		store, err := NewFileStore(path)
		if err != nil {
			return nil, err
		}
		return store, nil
	case TypeSQLite:
		store, err := NewSQLiteStore(path)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown corrections store type: %s", storeType)
	}
}

// Close releases the store's resources when it holds any, e.g. the sqlite connection
func Close(repo domain.CorrectionRepository) error {
	if closer, ok := repo.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
