package catalog

import (
	"fmt"
	"io"
	"log"
	"os"
	"regexp"
	"strings"

	"github.com/listmatic/backend/internal/domain"
)

// Recognised header names, compared after uppercasing
const (
	columnBrand   = "BRAND"
	columnModel   = "MODEL"
	columnStorage = "STORAGE"
	columnPrice   = "PRICE"
	columnImage   = "IMAGE"
	columnImg     = "IMG"
)

var lineBreakRegex = regexp.MustCompile(`[\r\n]+`)

// columnIndex holds the position of each recognised column, -1 when absent
type columnIndex struct {
	brand, model, storage, price, image int
}

// LoadFile reads a master catalog from a delimited text file
func LoadFile(path string) (domain.Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	defer f.Close()

	records, err := Load(f)
	if err != nil {
		return nil, err
	}

	log.Printf("[CATALOG] Loaded %d records from %s", len(records), path)
	return records, nil
}

// Load parses a comma-delimited catalog with a header row.
// Quotes are dropped rather than interpreted, so quoted commas still split a field.
// Rows with neither brand nor model are skipped; short rows get empty fields.
func Load(r io.Reader) (domain.Catalog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	var lines []string
	for _, line := range lineBreakRegex.Split(string(data), -1) {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) < 2 {
		return nil, domain.ErrEmptyCatalog
	}

	idx := parseHeader(lines[0])

	records := make(domain.Catalog, 0, len(lines)-1)
	for _, line := range lines[1:] {
		cols := splitRow(line)

		brand := cell(cols, idx.brand)
		model := cell(cols, idx.model)
		if brand == "" && model == "" {
			continue
		}

		records = append(records, NewRecord(
			brand,
			model,
			cell(cols, idx.storage),
			cell(cols, idx.price),
			cell(cols, idx.image),
		))
	}

	return records, nil
}

// parseHeader locates the recognised columns; IMAGE wins over IMG when both exist
func parseHeader(line string) columnIndex {
	headers := splitRow(line)
	for i := range headers {
		headers[i] = strings.ToUpper(headers[i])
	}

	find := func(name string) int {
		for i, h := range headers {
			if h == name {
				return i
			}
		}
		return -1
	}

	image := find(columnImage)
	if image < 0 {
		image = find(columnImg)
	}

	return columnIndex{
		brand:   find(columnBrand),
		model:   find(columnModel),
		storage: find(columnStorage),
		price:   find(columnPrice),
		image:   image,
	}
}

// splitRow splits on commas, strips every quote character and trims each cell
func splitRow(line string) []string {
	cols := strings.Split(line, ",")
	for i, c := range cols {
		cols[i] = strings.TrimSpace(strings.ReplaceAll(c, `"`, ""))
	}
	return cols
}

func cell(cols []string, i int) string {
	if i < 0 || i >= len(cols) {
		return ""
	}
	return cols[i]
}
