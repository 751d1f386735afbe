package embeddings

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/pders01/catalog-delta/internal/catalog"
	"github.com/pders01/catalog-delta/internal/models"
)

// Embedder turns texts into vectors, one per text
type Embedder interface {
	Embed(ctx context.Context, texts ...string) ([][]float64, error)
}

// Ranked is a search hit with its hybrid score
type Ranked struct {
	catalog.SearchResult
	Semantic float64 `json:"semantic"`
	Final    float64 `json:"final"`
}

// Reranker scores keyword hits by description similarity to the query
type Reranker struct {
	Embedder       Embedder
	Store          *Store
	KeywordWeight  float64
	SemanticWeight float64
}

// Rerank embeds the query and every hit description, reusing cached
// vectors, and orders the hits by hybrid score
func (r *Reranker) Rerank(ctx context.Context, snap *models.Snapshot, query string, hits []catalog.SearchResult) ([]Ranked, error) {
	if len(hits) == 0 {
		return nil, nil
	}

	vectors, err := r.vectors(ctx, snap, hits)
	if err != nil {
		return nil, err
	}

	q, err := r.Embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	ranked := make([]Ranked, len(hits))
	for i, hit := range hits {
		sim, err := CosineSimilarity(q[0], vectors[i])
		if err != nil {
			return nil, fmt.Errorf("failed to score %s: %w", hit.Code, err)
		}
		semantic := Percent(sim)
		ranked[i] = Ranked{
			SearchResult: hit,
			Semantic:     semantic,
			Final:        Hybrid(hit.Score, semantic, r.KeywordWeight, r.SemanticWeight),
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Final != ranked[j].Final {
			return ranked[i].Final > ranked[j].Final
		}
		return ranked[i].Code < ranked[j].Code
	})
	return ranked, nil
}

func (r *Reranker) vectors(ctx context.Context, snap *models.Snapshot, hits []catalog.SearchResult) ([][]float64, error) {
	vectors := make([][]float64, len(hits))
	var missing []int

	for i, hit := range hits {
		if r.Store != nil {
			vec, ok, err := r.Store.Read(snap.Variant, snap.Year, hit.Code)
			if err != nil {
				slog.Warn("ignoring unreadable embedding", "code", hit.Code, "error", err)
			}
			if ok {
				vectors[i] = vec
				continue
			}
		}
		missing = append(missing, i)
	}

	if len(missing) == 0 {
		return vectors, nil
	}

	texts := make([]string, len(missing))
	for j, i := range missing {
		texts[j] = hits[i].Record.Description
		if texts[j] == "" {
			texts[j] = hits[i].Code
		}
	}
	embedded, err := r.Embedder.Embed(ctx, texts...)
	if err != nil {
		return nil, fmt.Errorf("failed to embed descriptions: %w", err)
	}

	for j, i := range missing {
		vectors[i] = embedded[j]
		if r.Store != nil {
			if err := r.Store.Write(snap.Variant, snap.Year, hits[i].Code, embedded[j]); err != nil {
				slog.Warn("failed to cache embedding", "code", hits[i].Code, "error", err)
			}
		}
	}
	return vectors, nil
}
