package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/pders01/catalog-delta/internal/config"
	"github.com/pders01/catalog-delta/internal/models"
)

var (
	yearsAll  bool
	yearsJSON bool
	yearsToon bool
)

var yearsCmd = &cobra.Command{
	Use:   "years",
	Short: "List available catalog years",
	Long: `List the catalog years found in the data directory, and whether a
crosswalk links each year to the next.

Examples:
  catdelta years
  catdelta years --variant ops
  catdelta years --all --json`,
	Args: cobra.NoArgs,
	RunE: runYears,
}

func init() {
	rootCmd.AddCommand(yearsCmd)

	yearsCmd.Flags().BoolVar(&yearsAll, "all", false, "List years of every variant")
	yearsCmd.Flags().BoolVar(&yearsJSON, "json", false, "Output as JSON")
	yearsCmd.Flags().BoolVar(&yearsToon, "toon", false, "Output in LLM-friendly toon format")
}

type yearInfo struct {
	Variant   models.Variant `json:"variant"`
	Year      int            `json:"year"`
	Crosswalk bool           `json:"crosswalk_to_next"`
}

func runYears(cmd *cobra.Command, args []string) error {
	variants := models.Variants
	if !yearsAll {
		v, err := currentVariant()
		if err != nil {
			return err
		}
		variants = []models.Variant{v}
	}

	l := catalogLoader()
	fs := l.Migrations()

	var infos []yearInfo
	for _, v := range variants {
		years, err := l.Years(v)
		if err != nil {
			return fmt.Errorf("failed to list %s years: %w", v.Label(), err)
		}
		for i, year := range years {
			info := yearInfo{Variant: v, Year: year}
			if i+1 < len(years) && fs != nil {
				_, found, err := fs.ReadMigration(v, year, years[i+1])
				if err != nil {
					slog.Warn("crosswalk unreadable", "variant", v, "old", year, "new", years[i+1], "error", err)
				}
				info.Crosswalk = found && err == nil
			}
			infos = append(infos, info)
		}
	}

	if done, err := writeStructured(infos, yearsJSON, yearsToon); done {
		return err
	}

	if len(infos) == 0 {
		fmt.Fprintf(out, "No catalogs found in %s\n", config.GetDataDir())
		return nil
	}

	var current models.Variant
	for _, info := range infos {
		if info.Variant != current {
			if current != "" {
				fmt.Fprintln(out)
			}
			current = info.Variant
			printHeader(info.Variant.Label())
		}

		marker := ""
		if info.Crosswalk {
			marker = "  ↓ crosswalk"
		}
		fmt.Fprintf(out, "  %d%s\n", info.Year, marker)
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Total: %d year(s) in %s\n", len(infos), config.GetDataDir())
	return nil
}
