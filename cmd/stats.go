package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pders01/catalog-delta/internal/diff"
	"github.com/pders01/catalog-delta/internal/hierarchy"
)

var (
	statsJSON bool
	statsToon bool
)

var statsCmd = &cobra.Command{
	Use:   "stats [old-year new-year]",
	Short: "Show change statistics between two catalog years",
	Long: `Display statistics about the changes between two catalog years:
  - Totals per status and sub-status
  - Changes per chapter
  - Most frequently changed fields

Examples:
  catdelta stats
  catdelta stats 2023 2024 --variant ops
  catdelta stats --json`,
	Args: cobra.RangeArgs(0, 2),
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "Output as JSON")
	statsCmd.Flags().BoolVar(&statsToon, "toon", false, "Output in LLM-friendly toon format")
}

type chapterStat struct {
	ID     string      `json:"id"`
	Title  string      `json:"title"`
	Counts diff.Counts `json:"counts"`
}

type changeStats struct {
	Variant  string        `json:"variant"`
	Summary  diff.Summary  `json:"summary"`
	Chapters []chapterStat `json:"chapters"`
}

func runStats(cmd *cobra.Command, args []string) error {
	pair, result, err := compareYears(context.Background(), args)
	if err != nil {
		return err
	}

	stats := changeStats{
		Summary: diff.Summarize(result),
		Variant: string(result.Variant),
	}
	for _, ch := range hierarchy.Build(result.Entries, result.Variant, pair.New, pair.Old) {
		stats.Chapters = append(stats.Chapters, chapterStat{ID: ch.ID, Title: ch.Title, Counts: ch.Counts})
	}

	if done, err := writeStructured(stats, statsJSON, statsToon); done {
		return err
	}

	printHeader(fmt.Sprintf("%s Change Statistics %d → %d", result.Variant.Label(), result.OldYear, result.NewYear))

	sum := stats.Summary
	c := sum.Counts
	fmt.Fprintf(out, "Codes compared: %d\n", sum.Compared)
	fmt.Fprintf(out, "Unchanged:      %d\n", sum.Unchanged)
	fmt.Fprintln(out)

	fmt.Fprintln(out, "By Status:")
	fmt.Fprintf(out, "  %-12s %5d  (%d new, %d replacement)\n", "added", c.Added, c.New, c.Replacement)
	fmt.Fprintf(out, "  %-12s %5d  (%d deprecated, %d redirected)\n", "removed", c.Removed, c.Deprecated, c.Redirected)
	fmt.Fprintf(out, "  %-12s %5d\n", "changed", c.Changed)
	if !sum.Migrations {
		fmt.Fprintln(out, "  no crosswalk available")
	}
	fmt.Fprintln(out)

	if len(stats.Chapters) > 0 {
		fmt.Fprintln(out, "By Chapter:")
		for _, ch := range stats.Chapters {
			fmt.Fprintf(out, "  %-4s %-44s %4d  (+%d -%d ~%d)\n",
				ch.ID, truncate(ch.Title, 44), ch.Counts.Total(), ch.Counts.Added, ch.Counts.Removed, ch.Counts.Changed)
		}
		fmt.Fprintln(out)
	}

	if len(sum.Fields) > 0 {
		fmt.Fprintln(out, "Changed Fields:")
		limit := 10
		if len(sum.Fields) < limit {
			limit = len(sum.Fields)
		}
		for _, fc := range sum.Fields[:limit] {
			fmt.Fprintf(out, "  %-16s %4d  %s\n", fc.Field, fc.Count, bar(fc.Count))
		}
	}

	return nil
}

func bar(n int) string {
	if n > 20 {
		n = 20
	}
	return strings.Repeat("█", n)
}
