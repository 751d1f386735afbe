package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pders01/catalog-delta/internal/catalog"
	cerrors "github.com/pders01/catalog-delta/internal/errors"
	"github.com/pders01/catalog-delta/internal/models"
	"github.com/pders01/catalog-delta/internal/normalize"
)

var (
	showJSON bool
	showToon bool
)

var showCmd = &cobra.Command{
	Use:   "show <code|pattern> [year]",
	Short: "Show a code of one catalog year",
	Long: `Display a code with its attributes, chapter, group and children.
Codes are matched case-insensitively and may be given without separators.
A pattern with * or % lists every matching code instead.

Examples:
  catdelta show A00.0
  catdelta show a000 2023
  catdelta show --variant ops 5378b8
  catdelta show 'J0*'`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)

	showCmd.Flags().BoolVar(&showJSON, "json", false, "Output as JSON")
	showCmd.Flags().BoolVar(&showToon, "toon", false, "Output in LLM-friendly toon format")
}

type codeDetail struct {
	Variant    models.Variant           `json:"variant"`
	Year       int                      `json:"year"`
	Record     models.CodeRecord        `json:"record"`
	Chapter    *models.ChapterRecord    `json:"chapter,omitempty"`
	Group      *models.GroupRecord      `json:"group,omitempty"`
	ThreeDigit *models.ThreeDigitRecord `json:"three_digit,omitempty"`
	Children   []string                 `json:"children,omitempty"`
}

type codeMatch struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

func runShow(cmd *cobra.Command, args []string) error {
	variant, err := currentVariant()
	if err != nil {
		return err
	}
	year, err := singleYear(variant, args[1:])
	if err != nil {
		return err
	}

	ix, err := catalogLoader().Index(context.Background(), variant, year)
	if err != nil {
		return err
	}

	if catalog.IsWildcard(args[0]) {
		return showMatches(ix, args[0])
	}

	code := args[0]
	if !normalize.Valid(code, variant) {
		return cerrors.Newf(cerrors.FormatError, "invalid %s code format: %q", variant.Label(), code)
	}

	rec, ok := ix.FindExact(code)
	if !ok {
		return cerrors.Newf(cerrors.CodeNotFound, "%s not found in %s", code, ix.Snapshot().Name())
	}

	detail := codeDetail{Variant: variant, Year: year, Record: rec}
	if ch, ok := ix.FindChapter(rec.Code); ok {
		detail.Chapter = &ch
	}
	if g, ok := ix.FindGroup(rec.Code); ok {
		detail.Group = &g
	}
	if td, ok := ix.FindThreeDigitRange(rec.Code); ok {
		detail.ThreeDigit = &td
	}
	for _, child := range ix.FindChildren(rec.Code) {
		if child != rec.Code {
			detail.Children = append(detail.Children, child)
		}
	}

	if done, err := writeStructured(detail, showJSON, showToon); done {
		return err
	}

	fmt.Fprintf(out, "%s  %s\n", rec.Code, rec.Description)
	fmt.Fprintf(out, "Catalog:       %s\n", ix.Snapshot().Name())
	if detail.Chapter != nil {
		fmt.Fprintf(out, "Chapter:       %s  %s\n", detail.Chapter.ID, detail.Chapter.Description)
	}
	if detail.Group != nil {
		fmt.Fprintf(out, "Group:         %s-%s  %s\n", detail.Group.Start, detail.Group.End, detail.Group.Description)
	}
	if detail.ThreeDigit != nil {
		fmt.Fprintf(out, "Three-digit:   %s  %s\n", detail.ThreeDigit.Code, detail.ThreeDigit.Description)
	}
	terminal := "yes"
	if rec.NonTerminal {
		terminal = "no"
	}
	fmt.Fprintf(out, "Terminal:      %s\n", terminal)

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Attributes:")
	for _, f := range rec.Fields() {
		if f.Name == "description" || f.Name == "non_terminal" {
			continue
		}
		fmt.Fprintf(out, "  %-16s %v\n", f.Name, formatValue(f.Value))
	}

	if len(detail.Children) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintf(out, "Children (%d):\n", len(detail.Children))
		for _, child := range detail.Children {
			childRec, _ := ix.FindExact(child)
			fmt.Fprintf(out, "  %-10s %s\n", child, truncate(childRec.Description, 70))
		}
	}

	return nil
}

func showMatches(ix *catalog.Index, pattern string) error {
	keys := ix.FindWildcardMatches(pattern)
	if len(keys) == 0 {
		return cerrors.Newf(cerrors.CodeNotFound, "no code matches %q in %s", pattern, ix.Snapshot().Name())
	}

	matches := make([]codeMatch, 0, len(keys))
	for _, key := range keys {
		rec, _ := ix.FindExact(key)
		matches = append(matches, codeMatch{Code: key, Description: rec.Description})
	}

	if done, err := writeStructured(matches, showJSON, showToon); done {
		return err
	}

	fmt.Fprintf(out, "%d code(s) matching %s in %s:\n\n", len(matches), pattern, ix.Snapshot().Name())
	for _, m := range matches {
		fmt.Fprintf(out, "  %-10s %s\n", m.Code, truncate(m.Description, 70))
	}
	return nil
}

// formatValue renders list attributes compactly
func formatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return models.Missing
	case []string:
		if len(t) == 0 {
			return models.Missing
		}
		return strings.Join(t, ", ")
	case bool:
		if t {
			return "yes"
		}
		return "no"
	default:
		return fmt.Sprint(v)
	}
}
