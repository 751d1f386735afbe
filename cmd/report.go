package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report <template> [old-year new-year]",
	Short: "Generate pre-defined reports",
	Long: `Generate formatted reports using pre-defined templates.

Available templates:
  summary - Change statistics and the collapsed chapter tree
  full    - Statistics, the expanded tree and every changed code

Examples:
  catdelta report summary
  catdelta report full 2023 2024 --variant ops`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 && len(args) != 3 {
			return fmt.Errorf("expected a template and optionally two years, got %d argument(s)", len(args))
		}
		return nil
	},
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	template := args[0]
	years := args[1:]

	switch template {
	case "summary":
		return generateReport(years, false)
	case "full":
		return generateReport(years, true)
	default:
		return fmt.Errorf("unknown report template: %s (available: summary, full)", template)
	}
}

func generateReport(years []string, full bool) error {
	fmt.Fprintln(out, "Catalog Change Report")
	fmt.Fprintln(out, "═════════════════════")
	fmt.Fprintln(out)

	oldStatsJSON, oldStatsToon := statsJSON, statsToon
	oldExpand, oldCodes, oldTreeJSON, oldTreeToon := treeExpand, treeCodes, treeJSON, treeToon
	oldStatus, oldCode, oldFields, oldDiffJSON, oldDiffToon := diffStatus, diffCode, diffFields, diffJSON, diffToon
	defer func() {
		statsJSON, statsToon = oldStatsJSON, oldStatsToon
		treeExpand, treeCodes, treeJSON, treeToon = oldExpand, oldCodes, oldTreeJSON, oldTreeToon
		diffStatus, diffCode, diffFields, diffJSON, diffToon = oldStatus, oldCode, oldFields, oldDiffJSON, oldDiffToon
	}()

	statsJSON, statsToon = false, false
	if err := runStats(&cobra.Command{}, years); err != nil {
		return err
	}

	fmt.Fprintln(out)
	treeExpand, treeCodes, treeJSON, treeToon = nil, false, false, false
	if full {
		treeExpand = []string{"all"}
	}
	if err := runTree(&cobra.Command{}, years); err != nil {
		return err
	}

	if !full {
		return nil
	}

	fmt.Fprintln(out)
	diffStatus, diffCode, diffFields, diffJSON, diffToon = nil, "", true, false, false
	return runDiff(&cobra.Command{}, years)
}
