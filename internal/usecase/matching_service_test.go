package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/listmatic/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockCorrectionRepository is an in-memory correction store with an injectable failure
type MockCorrectionRepository struct {
	data map[string]domain.Correction
	err  error
}

func NewMockCorrectionRepository() *MockCorrectionRepository {
	return &MockCorrectionRepository{data: make(map[string]domain.Correction)}
}

func (m *MockCorrectionRepository) Get(ctx context.Context, key string) (*domain.Correction, error) {
	if m.err != nil {
		return nil, m.err
	}
	c, ok := m.data[key]
	if !ok {
		return nil, domain.ErrCorrectionNotFound
	}
	return &c, nil
}

func (m *MockCorrectionRepository) Upsert(ctx context.Context, key string, c domain.Correction) error {
	if m.err != nil {
		return m.err
	}
	m.data[key] = c
	return nil
}

func (m *MockCorrectionRepository) All(ctx context.Context) (map[string]domain.Correction, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make(map[string]domain.Correction, len(m.data))
	for k, v := range m.data {
		out[k] = v
	}
	return out, nil
}

func (m *MockCorrectionRepository) Delete(ctx context.Context, key string) error {
	if _, ok := m.data[key]; !ok {
		return domain.ErrCorrectionNotFound
	}
	delete(m.data, key)
	return nil
}

// testRecord builds a master record the same way the catalog loader does
func testRecord(brand, model, storage, image string) domain.MasterRecord {
	fullName := strings.TrimSpace(brand + " " + model)
	return domain.MasterRecord{
		Brand:      brand,
		Model:      model,
		Storage:    storage,
		Image:      image,
		FullName:   fullName,
		Normalized: Normalize(fullName),
		Tokens:     Tokenize(fullName),
	}
}

func TestExtractVariant(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"iPhone 13 Pro Max", "pro max"},
		{"iPhone 13 Pro", "pro"},
		{"iPhone 14 Plus", "plus"},
		{"Galaxy S22 Ultra", "ultra"},
		{"iPad Air 5", "air"},
		{"Galaxy S21 FE", "fe"},
		{"iPhone 12 mini", "mini"},
		{"Galaxy S21", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ExtractVariant(tt.input); got != tt.want {
				t.Errorf("ExtractVariant(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestExtractModelNumber(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"iPhone 13", "13"},
		{"Galaxy S21", "21"},
		{"Samsung Galaxy A52", "52"},
		{"Redmi Note 11", "11"},
		{"Oppo Reno 8", "8"},
		{"Nokia", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ExtractModelNumber(tt.input); got != tt.want {
				t.Errorf("ExtractModelNumber(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCalculateMatchScore(t *testing.T) {
	tests := []struct {
		name      string
		candidate string
		master    string
		want      int
	}{
		{name: "model and tokens agree", candidate: "iPhone 13", master: "Apple iPhone 13", want: 85},
		{name: "master-only variant costs ten", candidate: "iPhone 13", master: "Apple iPhone 13 Pro", want: 75},
		{name: "different variants reject", candidate: "iPhone 13 Pro", master: "Apple iPhone 13 Pro Max", want: 0},
		{name: "candidate-only variant rejects", candidate: "iPhone 13 Pro", master: "Apple iPhone 13", want: 0},
		{name: "different model numbers reject", candidate: "Galaxy S21", master: "Samsung Galaxy S22", want: 0},
		{name: "partial token credit", candidate: "iphon 13", master: "Apple iPhone 13", want: 80},
		{name: "reverse token credit", candidate: "iphone13", master: "Apple iPhone 13", want: 50},
		{name: "partial coverage", candidate: "Samsung Galaxy A52", master: "Galaxy A52", want: 80},
		{name: "clamped to 100", candidate: "Apple iPhone 13 Pro Max 256", master: "Apple iPhone 13 Pro Max", want: 100},
		{name: "empty candidate", candidate: "!!", master: "Apple iPhone 13", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateMatchScore(Tokenize(tt.candidate), Tokenize(tt.master), Normalize(tt.master), tt.candidate, tt.master)
			if got != tt.want {
				t.Errorf("CalculateMatchScore(%q, %q) = %d, want %d", tt.candidate, tt.master, got, tt.want)
			}
		})
	}
}

func TestCalculateMatchScore_Bounds(t *testing.T) {
	names := []string{"iPhone 13", "iPhone 13 Pro Max", "Galaxy S21 Ultra", "Redmi Note 11", "x", "سامسونج A52"}
	for _, c := range names {
		for _, m := range names {
			score := CalculateMatchScore(Tokenize(c), Tokenize(m), Normalize(m), c, m)
			assert.GreaterOrEqual(t, score, 0, "%q vs %q", c, m)
			assert.LessOrEqual(t, score, 100, "%q vs %q", c, m)
		}
	}
}

func TestMatchingService_FindBestMatch(t *testing.T) {
	ctx := context.Background()
	service := NewMatchingService(MatchConfig{})

	t.Run("empty catalog yields no match", func(t *testing.T) {
		match, err := service.FindBestMatch(ctx, "iPhone 13", "", nil, nil)
		require.NoError(t, err)
		assert.False(t, match.Found())
		assert.Equal(t, 0, match.Score)
	})

	t.Run("empty name yields no match", func(t *testing.T) {
		catalog := domain.Catalog{testRecord("Apple", "iPhone 13", "", "")}
		match, err := service.FindBestMatch(ctx, " -- ", "", catalog, nil)
		require.NoError(t, err)
		assert.False(t, match.Found())
	})

	t.Run("first record wins ties", func(t *testing.T) {
		catalog := domain.Catalog{
			testRecord("Apple", "iPhone 13", "", "first.png"),
			testRecord("Apple", "iPhone 13", "", "second.png"),
		}
		match, err := service.FindBestMatch(ctx, "iPhone 13", "", catalog, nil)
		require.NoError(t, err)
		require.NotNil(t, match.Record)
		assert.Equal(t, "first.png", match.Record.Image)
		assert.Equal(t, 85, match.Score)
	})

	t.Run("storage agreement breaks the tie", func(t *testing.T) {
		catalog := domain.Catalog{
			testRecord("Apple", "iPhone 13", "256GB", "256.png"),
			testRecord("Apple", "iPhone 13", "128GB", "128.png"),
		}
		match, err := service.FindBestMatch(ctx, "iPhone 13", "128GB", catalog, nil)
		require.NoError(t, err)
		require.NotNil(t, match.Record)
		assert.Equal(t, "128.png", match.Record.Image)
		assert.Equal(t, 90, match.Score)
	})

	t.Run("storage bonus applies to a rejected pairing", func(t *testing.T) {
		catalog := domain.Catalog{testRecord("Apple", "iPhone 13 Pro Max", "128GB", "")}
		match, err := service.FindBestMatch(ctx, "iPhone 13 Pro", "128GB", catalog, nil)
		require.NoError(t, err)
		require.True(t, match.Found())
		assert.Equal(t, "iPhone 13 Pro Max", match.Record.Model)
		assert.Equal(t, 5, match.Score)
	})

	t.Run("rejected pairing without storage agreement finds nothing", func(t *testing.T) {
		catalog := domain.Catalog{testRecord("Apple", "iPhone 13 Pro Max", "256GB", "")}
		match, err := service.FindBestMatch(ctx, "iPhone 13 Pro", "128GB", catalog, nil)
		require.NoError(t, err)
		assert.False(t, match.Found())
		assert.Equal(t, 0, match.Score)
	})

	t.Run("correction short-circuits scoring", func(t *testing.T) {
		repo := NewMockCorrectionRepository()
		repo.data[Normalize("Mystery Phone X1")] = domain.Correction{Brand: "Acme", Model: "X1", Storage: "-"}

		match, err := service.FindBestMatch(ctx, "MYSTERY phone x1", "", nil, repo)
		require.NoError(t, err)
		assert.True(t, match.FromCorrection)
		assert.Equal(t, 100, match.Score)
		require.NotNil(t, match.Correction)
		assert.Equal(t, "Acme", match.Correction.Brand)
	})

	t.Run("store failure is surfaced", func(t *testing.T) {
		repo := NewMockCorrectionRepository()
		repo.err = errors.New("disk gone")
		catalog := domain.Catalog{testRecord("Apple", "iPhone 13", "", "")}

		_, err := service.FindBestMatch(ctx, "iPhone 13", "", catalog, repo)
		assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
	})

	t.Run("cancelled context stops the scan", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		catalog := domain.Catalog{testRecord("Apple", "iPhone 13", "", "")}

		_, err := service.FindBestMatch(cancelled, "iPhone 13", "", catalog, nil)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestMatchingService_IsMatched(t *testing.T) {
	service := NewMatchingService(MatchConfig{Threshold: 50})
	record := testRecord("Apple", "iPhone 13", "", "")

	tests := []struct {
		name      string
		match     domain.BestMatch
		threshold int
		want      bool
	}{
		{name: "no record", match: domain.BestMatch{Score: 90}, threshold: 20, want: false},
		{name: "at threshold", match: domain.BestMatch{Record: &record, Score: 20}, threshold: 20, want: true},
		{name: "below threshold", match: domain.BestMatch{Record: &record, Score: 19}, threshold: 20, want: false},
		{name: "service threshold when unset", match: domain.BestMatch{Record: &record, Score: 40}, threshold: 0, want: false},
		{name: "correction always matches", match: domain.BestMatch{Correction: &domain.Correction{}, Score: 100, FromCorrection: true}, threshold: 100, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, service.IsMatched(tt.match, tt.threshold))
		})
	}
}

func TestNewMatchingService_DefaultThreshold(t *testing.T) {
	assert.Equal(t, DefaultMatchThreshold, NewMatchingService(MatchConfig{}).Threshold())
	assert.Equal(t, 35, NewMatchingService(MatchConfig{Threshold: 35}).Threshold())
}
