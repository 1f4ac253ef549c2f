package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/listmatic/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	input := "\"Brand\",\"Model\",\"Storage\",\"Price\",\"Image\"\r\n" +
		"Apple,iPhone 13,128GB,30000,iphone13.png\r\n" +
		"\r\n" +
		"\"Samsung\", \"Galaxy S21\" ,128GB,20000,s21.png\n"

	records, err := Load(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, domain.MasterRecord{
		Brand:    "Apple",
		Model:    "iPhone 13",
		Storage:  "128GB",
		Price:    "30000",
		Image:    "iphone13.png",
		FullName: "Apple iPhone 13",
	}, records[0])

	assert.Equal(t, "Samsung", records[1].Brand)
	assert.Equal(t, "Galaxy S21", records[1].Model)
	assert.Equal(t, "Samsung Galaxy S21", records[1].FullName)
}

func TestLoad_Columns(t *testing.T) {
	tests := []struct {
		name  string
		input string
		check func(t *testing.T, records domain.Catalog)
	}{
		{
			name:  "reordered lowercase headers",
			input: "image,price,model,brand\nx.png,100,Note 11,Redmi",
			check: func(t *testing.T, records domain.Catalog) {
				require.Len(t, records, 1)
				assert.Equal(t, "Redmi", records[0].Brand)
				assert.Equal(t, "Note 11", records[0].Model)
				assert.Equal(t, "x.png", records[0].Image)
				assert.Equal(t, "", records[0].Storage)
			},
		},
		{
			name:  "IMG column as fallback",
			input: "BRAND,MODEL,IMG\nApple,iPad Air,air.png",
			check: func(t *testing.T, records domain.Catalog) {
				require.Len(t, records, 1)
				assert.Equal(t, "air.png", records[0].Image)
			},
		},
		{
			name:  "IMAGE preferred over IMG",
			input: "BRAND,MODEL,IMG,IMAGE\nApple,iPad Air,old.png,new.png",
			check: func(t *testing.T, records domain.Catalog) {
				require.Len(t, records, 1)
				assert.Equal(t, "new.png", records[0].Image)
			},
		},
		{
			name:  "short rows get empty fields",
			input: "BRAND,MODEL,STORAGE,PRICE,IMAGE\nNokia,3310",
			check: func(t *testing.T, records domain.Catalog) {
				require.Len(t, records, 1)
				assert.Equal(t, "Nokia 3310", records[0].FullName)
				assert.Equal(t, "", records[0].Image)
				assert.Equal(t, "", records[0].Price)
			},
		},
		{
			name:  "rows without brand and model are skipped",
			input: "BRAND,MODEL,STORAGE\n,,128GB\nApple,,\n",
			check: func(t *testing.T, records domain.Catalog) {
				require.Len(t, records, 1)
				assert.Equal(t, "Apple", records[0].FullName)
			},
		},
		{
			name:  "quoted commas still split",
			input: "BRAND,MODEL,STORAGE\nApple,\"iPhone 13, Blue\",128GB",
			check: func(t *testing.T, records domain.Catalog) {
				require.Len(t, records, 1)
				assert.Equal(t, "iPhone 13", records[0].Model)
				assert.Equal(t, "Blue", records[0].Storage)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := Load(strings.NewReader(tt.input))
			require.NoError(t, err)
			tt.check(t, records)
		})
	}
}

func TestLoad_Empty(t *testing.T) {
	inputs := []string{"", "\n\n", "BRAND,MODEL,STORAGE,PRICE,IMAGE\n"}
	for _, input := range inputs {
		_, err := Load(strings.NewReader(input))
		assert.ErrorIs(t, err, domain.ErrEmptyCatalog, "input %q", input)
	}
}

func TestLoadFile(t *testing.T) {
	t.Run("reads from disk", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "master.csv")
		require.NoError(t, os.WriteFile(path, []byte("BRAND,MODEL\nApple,iPhone 13\n"), 0o644))

		records, err := LoadFile(path)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "Apple iPhone 13", records[0].FullName)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(t.TempDir(), "nope.csv"))
		assert.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestNewRecord(t *testing.T) {
	record := NewRecord("", "Galaxy S21 FE", "", "", "")
	assert.Equal(t, "Galaxy S21 FE", record.FullName)
	assert.Empty(t, record.Normalized)
	assert.Empty(t, record.Tokens)
}
