package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pders01/catalog-delta/internal/catalog"
	"github.com/pders01/catalog-delta/internal/config"
	"github.com/pders01/catalog-delta/internal/embeddings"
	"github.com/pders01/catalog-delta/internal/ollama"
)

var (
	searchYear     string
	searchLimit    int
	searchSemantic bool
	searchJSON     bool
	searchToon     bool
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search code descriptions using hybrid keyword and semantic search",
	Long: `Search the descriptions of one catalog year.

Umlauts and accents are folded, so "Grosse" finds "Größe". Query words that
start a code rank that code higher.

Search modes:
  - Keyword only: default, or when Ollama is not running
  - Hybrid: keyword and semantic scores weighted as configured, when
    embeddings are enabled and Ollama is reachable

Examples:
  catdelta search cholera
  catdelta search --variant ops --year 2024 "intensivmedizinische Komplexbehandlung"`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().StringVar(&searchYear, "year", "", "Catalog year (default: latest)")
	searchCmd.Flags().IntVar(&searchLimit, "limit", 0, "Maximum number of results (default from config)")
	searchCmd.Flags().BoolVar(&searchSemantic, "semantic", false, "Re-rank with embeddings even if disabled in config")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "Output as JSON")
	searchCmd.Flags().BoolVar(&searchToon, "toon", false, "Output in LLM-friendly toon format")
}

type searchOutput struct {
	Query   string              `json:"query"`
	Catalog string              `json:"catalog"`
	Mode    string              `json:"mode"`
	Results []embeddings.Ranked `json:"results"`
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	query := args[0]

	variant, err := currentVariant()
	if err != nil {
		return err
	}
	year, err := singleYear(variant, []string{searchYear})
	if err != nil {
		return err
	}
	ix, err := catalogLoader().Index(ctx, variant, year)
	if err != nil {
		return err
	}

	limit := searchLimit
	if limit <= 0 {
		limit = config.GetSearchLimit()
	}

	hits := ix.Search(query, limit)
	result := searchOutput{
		Query:   query,
		Catalog: ix.Snapshot().Name(),
		Mode:    "keyword",
		Results: keywordOnly(hits),
	}

	if len(hits) > 0 && (searchSemantic || config.GetEmbeddingsEnabled()) {
		if ranked, ok := semanticRerank(ctx, ix, query, hits); ok {
			result.Mode = "hybrid"
			result.Results = ranked
		}
	}

	if done, err := writeStructured(result, searchJSON, searchToon); done {
		return err
	}

	if result.Mode == "hybrid" {
		fmt.Fprintln(out, "Using hybrid search (keyword + semantic)")
	} else {
		fmt.Fprintln(out, "Using keyword search only")
	}

	if len(result.Results) == 0 {
		fmt.Fprintf(out, "No codes in %s match the search query\n", result.Catalog)
		return nil
	}

	fmt.Fprintf(out, "\nFound %d matching code(s) in %s:\n\n", len(result.Results), result.Catalog)
	for i, r := range result.Results {
		score := fmt.Sprintf("%.1f", r.Final)
		if result.Mode == "hybrid" {
			score += fmt.Sprintf(" (keyword: %d, semantic: %.1f%%)", r.Score, r.Semantic)
		}
		fmt.Fprintf(out, "%d. %-10s %s [score: %s]\n", i+1, r.Code, truncate(r.Record.Description, 80), score)
	}

	return nil
}

func keywordOnly(hits []catalog.SearchResult) []embeddings.Ranked {
	ranked := make([]embeddings.Ranked, len(hits))
	for i, h := range hits {
		ranked[i] = embeddings.Ranked{SearchResult: h, Final: float64(h.Score)}
	}
	return ranked
}

// semanticRerank falls back to keyword order whenever Ollama cannot serve
func semanticRerank(ctx context.Context, ix *catalog.Index, query string, hits []catalog.SearchResult) ([]embeddings.Ranked, bool) {
	if !ollama.IsAvailable(ctx, config.GetOllamaURL()) {
		return nil, false
	}

	client, err := ollama.NewClient(config.GetOllamaURL(), config.GetEmbeddingModel())
	if err != nil {
		return nil, false
	}

	dir := config.GetEmbeddingsDir()
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(config.GetDataDir(), dir)
	}

	r := &embeddings.Reranker{
		Embedder:       client,
		Store:          embeddings.NewStore(dataFS, dir, client.Model()),
		KeywordWeight:  config.GetKeywordWeight(),
		SemanticWeight: config.GetSemanticWeight(),
	}
	ranked, err := r.Rerank(ctx, ix.Snapshot(), query, hits)
	if err != nil {
		slog.Warn("semantic ranking failed, using keyword order", "error", err)
		return nil, false
	}
	return ranked, true
}
