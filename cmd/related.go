package cmd

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pders01/catalog-delta/internal/diff"
	cerrors "github.com/pders01/catalog-delta/internal/errors"
	"github.com/pders01/catalog-delta/internal/migration"
	"github.com/pders01/catalog-delta/internal/models"
	"github.com/pders01/catalog-delta/internal/normalize"
)

var (
	relatedJSON bool
	relatedToon bool
)

var relatedCmd = &cobra.Command{
	Use:   "related <code> [old-year new-year]",
	Short: "Show crosswalk predecessors and successors of a code",
	Long: `Show how a code moved between two catalog years:
  - its status in the comparison
  - the code it was redirected to, if removed
  - the old codes merged into it, if added or kept

Examples:
  catdelta related A01
  catdelta related 5-378.b8 2023 2024 --variant ops`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 && len(args) != 3 {
			return fmt.Errorf("expected a code and optionally two years, got %d argument(s)", len(args))
		}
		return nil
	},
	RunE: runRelated,
}

func init() {
	rootCmd.AddCommand(relatedCmd)

	relatedCmd.Flags().BoolVar(&relatedJSON, "json", false, "Output as JSON")
	relatedCmd.Flags().BoolVar(&relatedToon, "toon", false, "Output in LLM-friendly toon format")
}

type relatedOutput struct {
	Code         string             `json:"code"`
	Variant      models.Variant     `json:"variant"`
	OldYear      int                `json:"old_year"`
	NewYear      int                `json:"new_year"`
	Status       diff.Status        `json:"status"`
	SubStatus    diff.SubStatus     `json:"sub_status,omitempty"`
	Description  string             `json:"description"`
	Successor    *migration.Target  `json:"successor,omitempty"`
	Predecessors []migration.Source `json:"predecessors,omitempty"`
	Crosswalk    bool               `json:"crosswalk"`
}

func runRelated(cmd *cobra.Command, args []string) error {
	raw := args[0]
	variant, err := currentVariant()
	if err != nil {
		return err
	}
	if !normalize.Valid(raw, variant) {
		return cerrors.Newf(cerrors.FormatError, "%q is not a valid %s code", raw, variant.Label())
	}

	pair, result, err := compareYears(context.Background(), args[1:])
	if err != nil {
		return err
	}

	key, ok := pair.New.Resolve(raw)
	if !ok {
		key, ok = pair.Old.Resolve(raw)
	}
	if !ok {
		return cerrors.Newf(cerrors.CodeNotFound, "code %s not found in %d or %d", strings.ToUpper(raw), result.OldYear, result.NewYear)
	}

	i := sort.Search(len(result.Entries), func(i int) bool { return result.Entries[i].Code >= key })
	if i == len(result.Entries) || result.Entries[i].Code != key {
		return cerrors.Newf(cerrors.InternalError, "code %s missing from comparison", key)
	}
	entry := result.Entries[i]

	output := relatedOutput{
		Code:         key,
		Variant:      result.Variant,
		OldYear:      result.OldYear,
		NewYear:      result.NewYear,
		Status:       entry.Status,
		SubStatus:    entry.SubStatus,
		Description:  entry.Record().Description,
		Predecessors: pair.Migration.Sources(key),
		Crosswalk:    result.HasMigrationData,
	}
	if target, ok := pair.Migration.Forward(key); ok && target != nil {
		output.Successor = target
	}

	if done, err := writeStructured(output, relatedJSON, relatedToon); done {
		return err
	}

	printHeader(fmt.Sprintf("%s %s (%d → %d)", result.Variant.Label(), key, result.OldYear, result.NewYear))
	fmt.Fprintf(out, "Description: %s\n", output.Description)
	status := string(output.Status)
	if output.SubStatus != diff.SubStatusNone {
		status += " (" + string(output.SubStatus) + ")"
	}
	fmt.Fprintf(out, "Status:      %s\n", status)
	fmt.Fprintln(out)

	if !output.Crosswalk {
		fmt.Fprintf(out, "No crosswalk available for %d → %d\n", result.OldYear, result.NewYear)
		return nil
	}

	if output.Successor != nil {
		fmt.Fprintf(out, "Successor:   %s%s\n", output.Successor.Code, directionLabel(output.Successor.AutoForward, output.Successor.AutoBackward))
	} else if entry.Status == diff.StatusRemoved {
		fmt.Fprintln(out, "Successor:   none (deprecated)")
	}

	if len(output.Predecessors) > 0 {
		fmt.Fprintln(out, "Predecessors:")
		for _, p := range output.Predecessors {
			fmt.Fprintf(out, "  ← %s%s\n", p.Code, directionLabel(p.AutoForward, p.AutoBackward))
		}
	} else if output.Successor == nil && entry.Status != diff.StatusRemoved {
		fmt.Fprintln(out, "No crosswalk entries")
	}

	return nil
}

func directionLabel(forward, backward bool) string {
	var dirs []string
	if forward {
		dirs = append(dirs, "forward")
	}
	if backward {
		dirs = append(dirs, "backward")
	}
	if len(dirs) == 0 {
		return ""
	}
	return "  [automatic " + strings.Join(dirs, "/") + "]"
}
