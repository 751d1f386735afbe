// Package hierarchy rolls a flat diff into chapter and group nodes with
// per-node change counts. Group nodes are materialized on first access.
package hierarchy

import (
	"sort"
	"strconv"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/pders01/catalog-delta/internal/diff"
	"github.com/pders01/catalog-delta/internal/models"
	"github.com/pders01/catalog-delta/internal/normalize"
)

// Catalog resolves group and chapter metadata for codes
type Catalog interface {
	GroupIn(chapter, code string) (models.GroupRecord, bool)
	ChapterTitle(id string) (string, bool)
}

// GroupNode is one group of a chapter. A node with an empty Start collects
// codes outside every known group.
type GroupNode struct {
	Start       string       `json:"start,omitempty"`
	End         string       `json:"end,omitempty"`
	Description string       `json:"description,omitempty"`
	Counts      diff.Counts  `json:"counts"`
	Entries     []diff.Entry `json:"entries"`
}

// Ungrouped reports whether the node collects codes without a group
func (g *GroupNode) Ungrouped() bool {
	return g.Start == ""
}

// ChapterNode is one chapter with its rolled-up counts
type ChapterNode struct {
	ID     string      `json:"id"`
	Title  string      `json:"title"`
	Counts diff.Counts `json:"counts"`

	entries  []diff.Entry
	catalogs []Catalog
	once     sync.Once
	groups   []*GroupNode
}

// Groups returns the group nodes of the chapter, computing them on the
// first call. Safe for concurrent use.
func (c *ChapterNode) Groups() []*GroupNode {
	c.once.Do(func() {
		c.groups = buildGroups(c.ID, c.entries, c.catalogs)
	})
	return c.groups
}

// Entries returns the changed entries of the chapter sorted by code
func (c *ChapterNode) Entries() []diff.Entry {
	return c.entries
}

// Build partitions the non-unchanged entries by chapter. Catalogs are
// consulted in order for group ranges and chapter titles, so pass the newer
// year first.
func Build(entries []diff.Entry, variant models.Variant, catalogs ...Catalog) []*ChapterNode {
	byChapter := make(map[string]*ChapterNode)
	for _, e := range entries {
		if e.Status == diff.StatusUnchanged {
			continue
		}

		id := ChapterKey(e, variant)
		node, ok := byChapter[id]
		if !ok {
			node = &ChapterNode{ID: id, Title: chapterTitle(id, catalogs), catalogs: catalogs}
			byChapter[id] = node
		}
		node.entries = append(node.entries, e)
		node.Counts.Add(e)
	}

	chapters := make([]*ChapterNode, 0, len(byChapter))
	for _, node := range byChapter {
		sort.Slice(node.entries, func(i, j int) bool {
			return node.entries[i].Code < node.entries[j].Code
		})
		chapters = append(chapters, node)
	}

	sortChapters(chapters, variant)
	return chapters
}

// ChapterKey derives the chapter of an entry from its code: the chapter
// stored on the ICD record, the leading digit for OPS
func ChapterKey(e diff.Entry, variant models.Variant) string {
	if variant == models.VariantOPS {
		return normalize.ChapterOf(e.Code)
	}
	return e.Record().Chapter
}

func chapterTitle(id string, catalogs []Catalog) string {
	for _, c := range catalogs {
		if title, ok := c.ChapterTitle(id); ok {
			return title
		}
	}
	return id
}

func sortChapters(chapters []*ChapterNode, variant models.Variant) {
	if variant == models.VariantOPS {
		sort.Slice(chapters, func(i, j int) bool {
			a, errA := strconv.Atoi(chapters[i].ID)
			b, errB := strconv.Atoi(chapters[j].ID)
			switch {
			case errA != nil && errB != nil:
				return chapters[i].ID < chapters[j].ID
			case errA != nil:
				return false
			case errB != nil:
				return true
			}
			return a < b
		})
		return
	}

	// Titles are German; a collator is not safe for concurrent use
	col := collate.New(language.German)
	sort.Slice(chapters, func(i, j int) bool {
		if c := col.CompareString(chapters[i].Title, chapters[j].Title); c != 0 {
			return c < 0
		}
		return chapters[i].ID < chapters[j].ID
	})
}

func buildGroups(chapter string, entries []diff.Entry, catalogs []Catalog) []*GroupNode {
	byStart := make(map[string]*GroupNode)
	for _, e := range entries {
		g := lookupGroup(chapter, e.Code, catalogs)
		node, ok := byStart[g.Start]
		if !ok {
			node = &GroupNode{Start: g.Start, End: g.End, Description: g.Description}
			byStart[g.Start] = node
		}
		node.Entries = append(node.Entries, e)
		node.Counts.Add(e)
	}

	groups := make([]*GroupNode, 0, len(byStart))
	for _, node := range byStart {
		groups = append(groups, node)
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Ungrouped() != groups[j].Ungrouped() {
			return !groups[i].Ungrouped()
		}
		return groups[i].Start < groups[j].Start
	})
	return groups
}

func lookupGroup(chapter, code string, catalogs []Catalog) models.GroupRecord {
	for _, c := range catalogs {
		if g, ok := c.GroupIn(chapter, code); ok {
			return g
		}
	}
	return models.GroupRecord{}
}

// Expand materializes every group node of the tree
func Expand(chapters []*ChapterNode) {
	for _, c := range chapters {
		c.Groups()
	}
}
