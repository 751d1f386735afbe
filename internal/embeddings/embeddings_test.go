package embeddings

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/spf13/afero"

	"github.com/pders01/catalog-delta/internal/catalog"
	"github.com/pders01/catalog-delta/internal/models"
)

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name    string
		a, b    []float64
		want    float64
		wantErr bool
	}{
		{"identical", []float64{1, 2, 3}, []float64{1, 2, 3}, 1, false},
		{"orthogonal", []float64{1, 0}, []float64{0, 1}, 0, false},
		{"opposite", []float64{1, 2}, []float64{-1, -2}, -1, false},
		{"length mismatch", []float64{1}, []float64{1, 2}, 0, true},
		{"empty", nil, nil, 0, true},
		{"zero vector", []float64{0, 0}, []float64{1, 1}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CosineSimilarity(tt.a, tt.b)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHybrid(t *testing.T) {
	if got := Hybrid(100, 80, 0.3, 0.7); math.Abs(got-(0.3*50+0.7*80)) > 1e-9 {
		t.Errorf("unexpected hybrid score %v", got)
	}
	// Keyword contribution is capped
	if got := Hybrid(1000, 0, 1, 0); got != 100 {
		t.Errorf("expected capped keyword score 100, got %v", got)
	}
	if Percent(1) != 100 || Percent(-1) != 0 {
		t.Error("unexpected percent mapping")
	}
}

func TestStoreRoundTrip(t *testing.T) {
	store := NewStore(afero.NewMemMapFs(), "/emb", "test-model")
	vec := []float64{0.25, -1.5, 3}

	if err := store.Write(models.VariantOPS, 2024, "5-378.b8", vec); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	got, ok, err := store.Read(models.VariantOPS, 2024, "5-378.b8")
	if err != nil || !ok {
		t.Fatalf("Read failed: %v, %v", ok, err)
	}
	for i := range vec {
		if got[i] != vec[i] {
			t.Fatalf("expected %v, got %v", vec, got)
		}
	}

	if _, ok, err := store.Read(models.VariantOPS, 2023, "5-378.b8"); ok || err != nil {
		t.Errorf("expected no vector for other year, got %v, %v", ok, err)
	}

	if err := store.Write(models.VariantOPS, 2024, "x", []float64{math.NaN()}); err == nil {
		t.Error("expected NaN to be rejected")
	}
	if err := Validate(nil); err == nil {
		t.Error("expected empty vector to be rejected")
	}
}

// keywordEmbedder maps texts onto two axes: infection and surgery
type keywordEmbedder struct {
	calls int
	texts int
}

func (e *keywordEmbedder) Embed(ctx context.Context, texts ...string) ([][]float64, error) {
	e.calls++
	e.texts += len(texts)
	out := make([][]float64, len(texts))
	for i, t := range texts {
		t = strings.ToLower(t)
		switch {
		case strings.Contains(t, "cholera"), strings.Contains(t, "infektion"):
			out[i] = []float64{1, 0.1}
		default:
			out[i] = []float64{0.1, 1}
		}
	}
	return out, nil
}

func TestRerank(t *testing.T) {
	snap := models.NewSnapshot(models.VariantICD, 2024, models.Tables{})
	hits := []catalog.SearchResult{
		{Code: "Z00", Record: models.CodeRecord{Code: "Z00", Description: "Allgemeinuntersuchung"}, Score: 20},
		{Code: "A00", Record: models.CodeRecord{Code: "A00", Description: "Cholera"}, Score: 10},
	}

	embedder := &keywordEmbedder{}
	r := &Reranker{
		Embedder:       embedder,
		Store:          NewStore(afero.NewMemMapFs(), "/emb", "m"),
		KeywordWeight:  0.3,
		SemanticWeight: 0.7,
	}

	ranked, err := r.Rerank(context.Background(), snap, "Infektion", hits)
	if err != nil {
		t.Fatalf("Rerank failed: %v", err)
	}
	if ranked[0].Code != "A00" {
		t.Errorf("expected semantic match A00 first, got %s", ranked[0].Code)
	}
	if ranked[0].Semantic <= ranked[1].Semantic {
		t.Errorf("expected higher semantic score for A00: %v vs %v", ranked[0].Semantic, ranked[1].Semantic)
	}

	// Second run reuses the cached description vectors
	embedder.texts = 0
	if _, err := r.Rerank(context.Background(), snap, "Infektion", hits); err != nil {
		t.Fatalf("Rerank failed: %v", err)
	}
	if embedder.texts != 1 {
		t.Errorf("expected only the query to be embedded, got %d texts", embedder.texts)
	}

	if got, err := r.Rerank(context.Background(), snap, "x", nil); got != nil || err != nil {
		t.Errorf("expected nothing for no hits, got %v, %v", got, err)
	}
}
