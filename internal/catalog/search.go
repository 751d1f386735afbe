package catalog

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/pders01/catalog-delta/internal/models"
)

// SearchResult is one keyword hit
type SearchResult struct {
	Code   string            `json:"code"`
	Record models.CodeRecord `json:"record"`
	Score  int               `json:"score"`
}

// Fold lower-cases s and strips diacritics so "Körper" matches "korper".
// The German sharp s is expanded to "ss".
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, strings.ToLower(s))
	if err != nil {
		folded = strings.ToLower(s)
	}
	return strings.ReplaceAll(folded, "ß", "ss")
}

// Relevance scores a record against the folded query words: ten points per
// occurrence in the description, fifty when the code starts with the word.
func Relevance(words []string, rec models.CodeRecord) int {
	score := 0
	text := Fold(rec.Description)
	code := strings.ToLower(models.CompactKey(rec.Code))

	for _, word := range words {
		score += strings.Count(text, word) * 10

		if strings.HasPrefix(code, strings.NewReplacer(".", "", "-", "").Replace(word)) {
			score += 50
		}
	}

	return score
}

// QueryWords splits and folds a free-text query
func QueryWords(query string) []string {
	return strings.Fields(Fold(query))
}

// Search returns records with a positive relevance score, best first, ties
// broken by code. A limit of zero or less returns all hits.
func (ix *Index) Search(query string, limit int) []SearchResult {
	words := QueryWords(query)
	if len(words) == 0 {
		return nil
	}

	var results []SearchResult
	for _, key := range ix.keys {
		rec := ix.snap.Codes[key]
		if score := Relevance(words, rec); score > 0 {
			results = append(results, SearchResult{Code: key, Record: rec, Score: score})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Code < results[j].Code
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}
