// Package embeddings re-ranks keyword search hits by semantic similarity of
// their descriptions and caches description vectors on disk.
package embeddings

import (
	"fmt"
	"math"
)

// CosineSimilarity returns the cosine of the angle between a and b, in
// [-1, 1]
func CosineSimilarity(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("vectors must have same length: %d vs %d", len(a), len(b))
	}
	if len(a) == 0 {
		return 0, fmt.Errorf("vectors cannot be empty")
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0, fmt.Errorf("vector norm cannot be zero")
	}

	// Clamp rounding overshoot
	return math.Max(-1, math.Min(1, dot/(math.Sqrt(normA)*math.Sqrt(normB)))), nil
}

// Percent maps a cosine similarity onto the 0..100 keyword score scale
func Percent(similarity float64) float64 {
	return (similarity + 1) * 50
}

// Hybrid combines a keyword score and a semantic percentage. The keyword
// score is halved and capped at 100 before weighting.
func Hybrid(keyword int, semantic, keywordWeight, semanticWeight float64) float64 {
	normalized := math.Min(float64(keyword)/2, 100)
	return keywordWeight*normalized + semanticWeight*semantic
}
