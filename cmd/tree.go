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
	treeExpand []string
	treeCodes  bool
	treeJSON   bool
	treeToon   bool
)

var treeCmd = &cobra.Command{
	Use:   "tree [old-year new-year]",
	Short: "Show changes rolled up by chapter and group",
	Long: `Show the changes between two catalog years as a chapter tree.

Chapters are collapsed by default. Use --expand with chapter IDs, or
"all", to list the groups of a chapter.

Examples:
  catdelta tree
  catdelta tree --expand 01,10
  catdelta tree --variant ops --expand all --codes`,
	Args: cobra.RangeArgs(0, 2),
	RunE: runTree,
}

func init() {
	rootCmd.AddCommand(treeCmd)

	treeCmd.Flags().StringSliceVar(&treeExpand, "expand", nil, "Chapters to expand (IDs or \"all\")")
	treeCmd.Flags().BoolVar(&treeCodes, "codes", false, "List changed codes under each expanded group")
	treeCmd.Flags().BoolVar(&treeJSON, "json", false, "Output as JSON")
	treeCmd.Flags().BoolVar(&treeToon, "toon", false, "Output in LLM-friendly toon format")
}

type treeGroup struct {
	Start       string      `json:"start,omitempty"`
	End         string      `json:"end,omitempty"`
	Description string      `json:"description,omitempty"`
	Counts      diff.Counts `json:"counts"`
	Codes       []string    `json:"codes,omitempty"`
}

type treeChapter struct {
	ID     string      `json:"id"`
	Title  string      `json:"title"`
	Counts diff.Counts `json:"counts"`
	Groups []treeGroup `json:"groups,omitempty"`
}

func expandSet(ids []string) (all bool, set map[string]bool) {
	set = make(map[string]bool)
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if strings.EqualFold(id, "all") {
			all = true
		}
		set[id] = true
	}
	return all, set
}

func runTree(cmd *cobra.Command, args []string) error {
	pair, result, err := compareYears(context.Background(), args)
	if err != nil {
		return err
	}

	chapters := hierarchy.Build(result.Entries, result.Variant, pair.New, pair.Old)
	all, expand := expandSet(treeExpand)
	if all {
		hierarchy.Expand(chapters)
	}

	var tree []treeChapter
	for _, ch := range chapters {
		node := treeChapter{ID: ch.ID, Title: ch.Title, Counts: ch.Counts}
		if all || expand[ch.ID] {
			for _, g := range ch.Groups() {
				tg := treeGroup{Start: g.Start, End: g.End, Description: g.Description, Counts: g.Counts}
				if treeCodes {
					for _, e := range g.Entries {
						tg.Codes = append(tg.Codes, e.Code)
					}
				}
				node.Groups = append(node.Groups, tg)
			}
		}
		tree = append(tree, node)
	}

	if done, err := writeStructured(tree, treeJSON, treeToon); done {
		return err
	}

	printHeader(fmt.Sprintf("%s Changes by Chapter %d → %d", result.Variant.Label(), result.OldYear, result.NewYear))

	if len(tree) == 0 {
		fmt.Fprintln(out, "No differences")
		return nil
	}

	for i, ch := range chapters {
		node := tree[i]
		marker := "▸"
		if len(node.Groups) > 0 {
			marker = "▾"
		}
		fmt.Fprintf(out, "%s %-4s %-50s %s\n", marker, node.ID, truncate(node.Title, 50), countLabel(node.Counts))

		for j, g := range node.Groups {
			name := "(ungrouped)"
			if g.Start != "" {
				name = g.Start + "-" + g.End
			}
			fmt.Fprintf(out, "    %-9s %-44s %s\n", name, truncate(g.Description, 44), countLabel(g.Counts))

			if treeCodes {
				for _, e := range ch.Groups()[j].Entries {
					fmt.Fprintf(out, "        %s %-10s %s\n", statusSymbols[e.Status], e.Code, truncate(e.Record().Description, 50))
				}
			}
		}
	}

	return nil
}

func countLabel(c diff.Counts) string {
	return fmt.Sprintf("%d (+%d -%d ~%d)", c.Total(), c.Added, c.Removed, c.Changed)
}
