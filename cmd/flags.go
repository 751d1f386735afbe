package cmd

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

var (
	flagsField string
	flagsJSON  bool
	flagsToon  bool
)

var flagsCmd = &cobra.Command{
	Use:   "flags [year]",
	Short: "Show attribute value usage of one catalog year",
	Long: `Count how often each attribute value occurs across the codes of one
catalog year. Descriptions are not counted.

Examples:
  catdelta flags
  catdelta flags 2024 --field sex
  catdelta flags --variant ops --field laterality --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFlags,
}

func init() {
	rootCmd.AddCommand(flagsCmd)

	flagsCmd.Flags().StringVar(&flagsField, "field", "", "Only show one attribute")
	flagsCmd.Flags().BoolVar(&flagsJSON, "json", false, "Output as JSON")
	flagsCmd.Flags().BoolVar(&flagsToon, "toon", false, "Output in LLM-friendly toon format")
}

type valueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

type fieldUsage struct {
	Field  string       `json:"field"`
	Values []valueCount `json:"values"`
}

func runFlags(cmd *cobra.Command, args []string) error {
	variant, err := currentVariant()
	if err != nil {
		return err
	}
	year, err := singleYear(variant, args)
	if err != nil {
		return err
	}

	snap, err := catalogLoader().Snapshot(context.Background(), variant, year)
	if err != nil {
		return err
	}

	var order []string
	counts := make(map[string]map[string]int)
	for _, key := range snap.Keys() {
		for _, f := range snap.Codes[key].Fields() {
			if f.Name == "description" {
				continue
			}
			if flagsField != "" && f.Name != flagsField {
				continue
			}
			values, ok := counts[f.Name]
			if !ok {
				values = make(map[string]int)
				counts[f.Name] = values
				order = append(order, f.Name)
			}
			values[formatValue(f.Value)]++
		}
	}

	if flagsField != "" && len(order) == 0 {
		return fmt.Errorf("unknown field %q for %s", flagsField, variant.Label())
	}

	usage := make([]fieldUsage, 0, len(order))
	for _, name := range order {
		fu := fieldUsage{Field: name}
		for v, n := range counts[name] {
			fu.Values = append(fu.Values, valueCount{Value: v, Count: n})
		}
		sort.Slice(fu.Values, func(i, j int) bool {
			if fu.Values[i].Count == fu.Values[j].Count {
				return fu.Values[i].Value < fu.Values[j].Value
			}
			return fu.Values[i].Count > fu.Values[j].Count
		})
		usage = append(usage, fu)
	}

	if done, err := writeStructured(usage, flagsJSON, flagsToon); done {
		return err
	}

	printHeader(fmt.Sprintf("%s %d Attribute Usage (%d codes)", variant.Label(), year, len(snap.Codes)))
	for _, fu := range usage {
		fmt.Fprintf(out, "%s:\n", fu.Field)
		for _, vc := range fu.Values {
			fmt.Fprintf(out, "  %-32s %6d\n", truncate(strings.TrimSpace(vc.Value), 32), vc.Count)
		}
		fmt.Fprintln(out)
	}

	return nil
}
