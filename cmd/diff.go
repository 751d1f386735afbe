package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pders01/catalog-delta/internal/diff"
	"github.com/pders01/catalog-delta/internal/logging"
	"github.com/pders01/catalog-delta/internal/models"
	"github.com/pders01/catalog-delta/internal/source"
)

var (
	diffStatus []string
	diffCode   string
	diffFields bool
	diffJSON   bool
	diffToon   bool
)

var diffCmd = &cobra.Command{
	Use:   "diff [old-year new-year]",
	Short: "Compare two catalog years",
	Long: `Compare two catalog years and list every code that was:
  - added (new, or a replacement for codes named in the crosswalk)
  - removed (deprecated, or redirected to a successor)
  - changed (description or attributes differ)

Without years the two latest available years are compared.

Examples:
  catdelta diff
  catdelta diff 2023 2024 --status added,removed
  catdelta diff --variant ops --code '5-37*' --fields
  catdelta diff 2023 2024 --json`,
	Args: cobra.RangeArgs(0, 2),
	RunE: runDiff,
}

func init() {
	rootCmd.AddCommand(diffCmd)

	diffCmd.Flags().StringSliceVar(&diffStatus, "status", nil, "Only show these statuses (added, removed, changed, unchanged)")
	diffCmd.Flags().StringVar(&diffCode, "code", "", "Only show codes matching a pattern (* and % are wildcards)")
	diffCmd.Flags().BoolVar(&diffFields, "fields", false, "Show old and new value of every changed field")
	diffCmd.Flags().BoolVar(&diffJSON, "json", false, "Output as JSON")
	diffCmd.Flags().BoolVar(&diffToon, "toon", false, "Output in LLM-friendly toon format")
}

type diffOutput struct {
	RunID            string         `json:"run_id"`
	Variant          models.Variant `json:"variant"`
	OldYear          int            `json:"old_year"`
	NewYear          int            `json:"new_year"`
	HasMigrationData bool           `json:"has_migration_data"`
	Counts           diff.Counts    `json:"counts"`
	Entries          []diff.Entry   `json:"entries"`
}

// compareYears loads the year pair named by args and diffs it
func compareYears(ctx context.Context, args []string) (*source.Pair, *diff.Result, error) {
	variant, err := currentVariant()
	if err != nil {
		return nil, nil, err
	}
	oldYear, newYear, err := yearPair(variant, args)
	if err != nil {
		return nil, nil, err
	}

	pair, err := catalogLoader().LoadPair(ctx, variant, oldYear, newYear)
	if err != nil {
		return nil, nil, err
	}

	result := diff.Compare(pair.Old.Snapshot(), pair.New.Snapshot(), pair.Migration)
	logging.WithFields(logging.WithRunID(ctx, result.RunID),
		"variant", variant,
		"old", oldYear,
		"new", newYear,
	).Info("compared catalogs", "entries", len(result.Entries))

	return pair, result, nil
}

func parseStatuses(raw []string) ([]diff.Status, error) {
	var statuses []diff.Status
	for _, s := range raw {
		st, ok := diff.ParseStatus(strings.TrimSpace(s))
		if !ok {
			return nil, fmt.Errorf("unknown status %q (must be: added, removed, changed, unchanged)", s)
		}
		statuses = append(statuses, st)
	}
	return statuses, nil
}

func runDiff(cmd *cobra.Command, args []string) error {
	statuses, err := parseStatuses(diffStatus)
	if err != nil {
		return err
	}

	_, result, err := compareYears(context.Background(), args)
	if err != nil {
		return err
	}

	entries := diff.Filter{Statuses: statuses, Pattern: diffCode}.Apply(result.Entries)

	var counts diff.Counts
	for _, e := range entries {
		counts.Add(e)
	}

	output := diffOutput{
		RunID:            result.RunID,
		Variant:          result.Variant,
		OldYear:          result.OldYear,
		NewYear:          result.NewYear,
		HasMigrationData: result.HasMigrationData,
		Counts:           counts,
		Entries:          entries,
	}
	if done, err := writeStructured(output, diffJSON, diffToon); done {
		return err
	}

	printHeader(fmt.Sprintf("%s %d → %d", result.Variant.Label(), result.OldYear, result.NewYear))
	fmt.Fprintf(out, "Run:       %s\n", result.RunID)
	if result.HasMigrationData {
		fmt.Fprintln(out, "Crosswalk: yes")
	} else {
		fmt.Fprintln(out, "Crosswalk: none (removed codes count as deprecated)")
	}
	fmt.Fprintln(out)

	if len(entries) == 0 {
		fmt.Fprintln(out, "No differences")
		return nil
	}

	for _, e := range entries {
		printEntry(e, diffFields)
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "%d change(s): %d added, %d removed, %d changed\n",
		counts.Total(), counts.Added, counts.Removed, counts.Changed)
	return nil
}

var statusSymbols = map[diff.Status]string{
	diff.StatusAdded:     "+",
	diff.StatusRemoved:   "-",
	diff.StatusChanged:   "~",
	diff.StatusUnchanged: " ",
}

func printEntry(e diff.Entry, withFields bool) {
	fmt.Fprintf(out, "%s %-10s %-60s %s\n", statusSymbols[e.Status], e.Code, truncate(e.Record().Description, 60), entryNote(e))

	if withFields {
		for _, fd := range e.FieldDiffs {
			fmt.Fprintf(out, "    %s: %s → %s\n", fd.Field, formatValue(fd.Old), formatValue(fd.New))
		}
	}
}

func entryNote(e diff.Entry) string {
	switch e.SubStatus {
	case diff.SubStatusReplacement:
		return fmt.Sprintf("[replacement ← %s]", strings.Join(e.SourceCodes(), ", "))
	case diff.SubStatusRedirected:
		note := "[redirected → " + e.MigrationTarget
		if e.AutoForward {
			note += ", automatic"
		}
		return note + "]"
	case diff.SubStatusNone:
		if len(e.FieldDiffs) == 0 {
			return ""
		}
		names := make([]string, len(e.FieldDiffs))
		for i, fd := range e.FieldDiffs {
			names[i] = fd.Field
		}
		return "(" + strings.Join(names, ", ") + ")"
	default:
		return "[" + string(e.SubStatus) + "]"
	}
}
