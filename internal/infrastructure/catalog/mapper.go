package catalog

import (
	"strings"

	"github.com/listmatic/backend/internal/domain"
)

// NewRecord maps one catalog row to a master record.
// Normalized and Tokens are left empty; the matcher session derives them on load.
func NewRecord(brand, model, storage, price, image string) domain.MasterRecord {
	return domain.MasterRecord{
		Brand:    brand,
		Model:    model,
		Storage:  storage,
		Price:    price,
		Image:    image,
		FullName: strings.TrimSpace(brand + " " + model),
	}
}
