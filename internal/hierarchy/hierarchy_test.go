package hierarchy

import (
	"reflect"
	"sync"
	"testing"

	"github.com/pders01/catalog-delta/internal/catalog"
	"github.com/pders01/catalog-delta/internal/diff"
	"github.com/pders01/catalog-delta/internal/migration"
	"github.com/pders01/catalog-delta/internal/models"
	"github.com/pders01/catalog-delta/internal/parser"
	"github.com/pders01/catalog-delta/internal/testutil"
)

func index(variant models.Variant, year int, files map[string]string) *catalog.Index {
	return catalog.NewIndex(parser.ParseCatalog(parser.RawFiles{
		Codes:      files["codes"],
		Groups:     files["groups"],
		Chapters:   files["chapters"],
		ThreeDigit: files["threedigit"],
	}, variant, year))
}

func icdTree(t *testing.T) ([]*ChapterNode, *diff.Result) {
	t.Helper()
	oldIx := index(models.VariantICD, 2023, testutil.ICD2023())
	newIx := index(models.VariantICD, 2024, testutil.ICD2024())
	result := diff.Compare(oldIx.Snapshot(), newIx.Snapshot(), migration.Load(testutil.ICDMigration, models.VariantICD))
	return Build(result.Entries, models.VariantICD, newIx, oldIx), result
}

type staticCatalog struct {
	titles map[string]string
	groups []models.GroupRecord
}

func (c staticCatalog) GroupIn(chapter, code string) (models.GroupRecord, bool) {
	for _, g := range c.groups {
		if g.Chapter == chapter && g.Contains(code) {
			return g, true
		}
	}
	return models.GroupRecord{}, false
}

func (c staticCatalog) ChapterTitle(id string) (string, bool) {
	title, ok := c.titles[id]
	return title, ok
}

func TestBuildICD(t *testing.T) {
	chapters, _ := icdTree(t)

	var ids []string
	for _, c := range chapters {
		ids = append(ids, c.ID)
	}
	if !reflect.DeepEqual(ids, []string{"01", "10", "22"}) {
		t.Fatalf("unexpected chapters %v", ids)
	}

	first := chapters[0]
	if first.Title != "Bestimmte infektiöse und parasitäre Krankheiten" {
		t.Errorf("unexpected title %q", first.Title)
	}
	want := diff.Counts{Added: 1, Removed: 2, Changed: 1, Replacement: 1, Deprecated: 1, Redirected: 1}
	if first.Counts != want {
		t.Errorf("expected %+v, got %+v", want, first.Counts)
	}

	groups := first.Groups()
	if len(groups) != 1 || groups[0].Start != "A00" || len(groups[0].Entries) != 4 {
		t.Fatalf("expected one A00 group with 4 entries, got %+v", groups)
	}
	if groups[0].Counts != first.Counts {
		t.Errorf("group counts %+v differ from chapter counts %+v", groups[0].Counts, first.Counts)
	}
}

func TestBuildExcludesUnchanged(t *testing.T) {
	chapters, result := icdTree(t)

	total := 0
	for _, c := range chapters {
		total += len(c.Entries())
		for _, e := range c.Entries() {
			if e.Status == diff.StatusUnchanged {
				t.Errorf("unchanged entry %s in tree", e.Code)
			}
		}
	}
	if total != len(result.Changes()) {
		t.Errorf("expected %d entries in tree, got %d", len(result.Changes()), total)
	}
}

func TestBuildSortsICDChaptersByTitle(t *testing.T) {
	entries := []diff.Entry{
		{Code: "A00", Status: diff.StatusAdded, SubStatus: diff.SubStatusNew, New: &models.CodeRecord{Code: "A00", Chapter: "01"}},
		{Code: "J09", Status: diff.StatusAdded, SubStatus: diff.SubStatusNew, New: &models.CodeRecord{Code: "J09", Chapter: "10"}},
		{Code: "X00", Status: diff.StatusAdded, SubStatus: diff.SubStatusNew, New: &models.CodeRecord{Code: "X00", Chapter: "20"}},
	}
	cat := staticCatalog{titles: map[string]string{"01": "Zeta", "10": "Alpha"}}

	chapters := Build(entries, models.VariantICD, cat)

	var titles []string
	for _, c := range chapters {
		titles = append(titles, c.Title)
	}
	// Chapters without metadata fall back to their id
	if !reflect.DeepEqual(titles, []string{"20", "Alpha", "Zeta"}) {
		t.Errorf("unexpected order %v", titles)
	}
}

func TestBuildSortsGermanTitles(t *testing.T) {
	titles := map[string]string{
		"01": "Bestimmte infektiöse und parasitäre Krankheiten",
		"16": "Bestimmte Zustände, die ihren Ursprung in der Perinatalperiode haben",
		"19": "Verletzungen, Vergiftungen und bestimmte andere Folgen äußerer Ursachen",
		"20": "Äußere Ursachen von Morbidität und Mortalität",
	}
	var entries []diff.Entry
	for _, ch := range []string{"19", "16", "01", "20"} {
		code := "X" + ch
		entries = append(entries, diff.Entry{Code: code, Status: diff.StatusAdded, SubStatus: diff.SubStatusNew, New: &models.CodeRecord{Code: code, Chapter: ch}})
	}

	chapters := Build(entries, models.VariantICD, staticCatalog{titles: titles})

	var ids []string
	for _, c := range chapters {
		ids = append(ids, c.ID)
	}
	if !reflect.DeepEqual(ids, []string{"20", "01", "16", "19"}) {
		t.Errorf("unexpected order %v", ids)
	}
}

func TestBuildSortsOPSChaptersNumerically(t *testing.T) {
	var entries []diff.Entry
	for _, code := range []string{"9-100", "10-100", "1-100"} {
		entries = append(entries, diff.Entry{Code: code, Status: diff.StatusRemoved, SubStatus: diff.SubStatusDeprecated})
	}

	chapters := Build(entries, models.VariantOPS)

	var ids []string
	for _, c := range chapters {
		ids = append(ids, c.ID)
	}
	if !reflect.DeepEqual(ids, []string{"1", "9", "10"}) {
		t.Errorf("unexpected order %v", ids)
	}
}

func TestBuildOPSGroups(t *testing.T) {
	oldIx := index(models.VariantOPS, 2023, testutil.OPS2023())
	newIx := index(models.VariantOPS, 2024, testutil.OPS2024())
	result := diff.Compare(oldIx.Snapshot(), newIx.Snapshot(), migration.Load(testutil.OPSMigration, models.VariantOPS))

	chapters := Build(result.Entries, models.VariantOPS, newIx, oldIx)
	if len(chapters) != 3 {
		t.Fatalf("expected 3 chapters, got %d", len(chapters))
	}

	diagnostics := chapters[0]
	if diagnostics.ID != "1" || diagnostics.Title != "Diagnostische Maßnahmen" {
		t.Errorf("unexpected first chapter %s %q", diagnostics.ID, diagnostics.Title)
	}
	groups := diagnostics.Groups()
	if len(groups) != 1 || groups[0].Description != "Untersuchung einzelner Körpersysteme" {
		t.Fatalf("unexpected groups %+v", groups)
	}
	want := diff.Counts{Added: 1, Removed: 1, Changed: 1, Replacement: 1, Redirected: 1}
	if groups[0].Counts != want {
		t.Errorf("expected %+v, got %+v", want, groups[0].Counts)
	}
}

func TestUngroupedBucketSortsLast(t *testing.T) {
	entries := []diff.Entry{
		{Code: "C00", Status: diff.StatusAdded, SubStatus: diff.SubStatusNew, New: &models.CodeRecord{Code: "C00", Chapter: "01"}},
		{Code: "A05", Status: diff.StatusAdded, SubStatus: diff.SubStatusNew, New: &models.CodeRecord{Code: "A05", Chapter: "01"}},
	}
	cat := staticCatalog{groups: []models.GroupRecord{{Start: "A00", End: "A09", Chapter: "01", Description: "Darm"}}}

	groups := Build(entries, models.VariantICD, cat)[0].Groups()
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if groups[0].Start != "A00" || !groups[1].Ungrouped() {
		t.Errorf("expected ungrouped bucket last, got %+v", groups)
	}
	if groups[1].Entries[0].Code != "C00" {
		t.Errorf("expected C00 ungrouped, got %s", groups[1].Entries[0].Code)
	}
}

func TestLazyGroupsMatchEager(t *testing.T) {
	lazy, _ := icdTree(t)
	eager, _ := icdTree(t)
	Expand(eager)

	for i := range lazy {
		if !reflect.DeepEqual(lazy[i].Groups(), eager[i].Groups()) {
			t.Errorf("chapter %s: lazy groups differ from eager groups", lazy[i].ID)
		}
	}
}

func TestGroupsMemoizedConcurrently(t *testing.T) {
	chapters, _ := icdTree(t)
	chapter := chapters[0]

	var wg sync.WaitGroup
	results := make([][]*GroupNode, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = chapter.Groups()
		}(i)
	}
	wg.Wait()

	for _, r := range results[1:] {
		if len(r) != len(results[0]) || &r[0] != &results[0][0] {
			t.Error("expected every call to return the memoized groups")
		}
	}
}
