// Package catalog provides lookup structures over one parsed catalog year:
// case-insensitive exact lookup, parent/child resolution, wildcard
// matching, chapter/group/three-digit range resolution and keyword search.
package catalog

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/pders01/catalog-delta/internal/models"
	"github.com/pders01/catalog-delta/internal/normalize"
	"github.com/pders01/catalog-delta/internal/parser"
)

// Index wraps an immutable snapshot with derived lookup structures
type Index struct {
	snap            *models.Snapshot
	keys            []string
	groupsByChapter map[string][]models.GroupRecord
	ranges          []threeDigitRange
}

type threeDigitRange struct {
	start, end string
	record     models.ThreeDigitRecord
}

// NewIndex builds the lookup structures for a snapshot
func NewIndex(snap *models.Snapshot) *Index {
	ix := &Index{
		snap:            snap,
		keys:            snap.Keys(),
		groupsByChapter: make(map[string][]models.GroupRecord),
	}

	for _, g := range snap.Groups {
		ix.groupsByChapter[g.Chapter] = append(ix.groupsByChapter[g.Chapter], g)
	}

	for key, rec := range snap.ThreeDigits {
		if start, end, ok := strings.Cut(key, parser.RangeSeparator); ok {
			ix.ranges = append(ix.ranges, threeDigitRange{start: start, end: end, record: rec})
		}
	}
	sort.Slice(ix.ranges, func(i, j int) bool {
		return ix.ranges[i].start < ix.ranges[j].start
	})

	return ix
}

// Snapshot returns the indexed snapshot
func (ix *Index) Snapshot() *models.Snapshot {
	return ix.snap
}

// Variant returns the catalog variant of the index
func (ix *Index) Variant() models.Variant {
	return ix.snap.Variant
}

// Keys returns all canonical keys in sorted order
func (ix *Index) Keys() []string {
	return ix.keys
}

// Resolve maps raw user input to the canonical key present in the snapshot
func (ix *Index) Resolve(raw string) (string, bool) {
	if key, ok := ix.snap.ResolveCode(raw); ok {
		return key, true
	}
	return ix.snap.ResolveCode(normalize.Normalize(raw, ix.snap.Variant))
}

// FindExact looks up a code case-insensitively
func (ix *Index) FindExact(code string) (models.CodeRecord, bool) {
	key, ok := ix.Resolve(code)
	if !ok {
		return models.CodeRecord{}, false
	}
	rec, ok := ix.snap.Codes[key]
	return rec, ok
}

// canonical returns the snapshot key for code or its normalized form when
// the code is not part of the snapshot
func (ix *Index) canonical(code string) string {
	if key, ok := ix.Resolve(code); ok {
		return key
	}
	return normalize.Normalize(code, ix.snap.Variant)
}

// FindChildren returns the sorted keys of codes below parent
func (ix *Index) FindChildren(parentCode string) []string {
	parent := ix.canonical(parentCode)
	if parent == "" {
		return nil
	}

	var children []string
	switch ix.snap.Variant {
	case models.VariantICD:
		root := models.CompactKey(parent)
		for _, key := range ix.keys {
			if key == parent {
				continue
			}
			if strings.HasPrefix(models.CompactKey(key), root) {
				children = append(children, key)
			}
		}

	case models.VariantOPS:
		for _, key := range ix.keys {
			if key == parent {
				if ix.snap.Codes[key].NonTerminal {
					children = append(children, key)
				}
				continue
			}
			if len(key) > len(parent) && strings.HasPrefix(key, parent) && extendsHierarchy(key[len(parent)]) {
				children = append(children, key)
			}
		}
	}

	return children
}

func extendsHierarchy(c byte) bool {
	r := rune(c)
	return c == '.' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// CompileWildcard turns a pattern where '*' and '%' match any run of
// characters into an anchored, case-insensitive expression
func CompileWildcard(pattern string) *regexp.Regexp {
	var b strings.Builder
	b.WriteString("(?i)^")
	for _, r := range strings.TrimSpace(pattern) {
		if r == '*' || r == '%' {
			b.WriteString(".*")
			continue
		}
		b.WriteString(regexp.QuoteMeta(string(r)))
	}
	b.WriteString("$")
	return regexp.MustCompile(b.String())
}

// IsWildcard reports whether s contains a wildcard character
func IsWildcard(s string) bool {
	return strings.ContainsAny(s, "*%")
}

// FindWildcardMatches returns the sorted keys matching pattern
func (ix *Index) FindWildcardMatches(pattern string) []string {
	re := CompileWildcard(pattern)

	var matches []string
	for _, key := range ix.keys {
		if re.MatchString(key) {
			matches = append(matches, key)
		}
	}
	return matches
}

// ChapterKey derives the chapter id of a code: the record's chapter for ICD,
// the leading digit for OPS
func (ix *Index) ChapterKey(code string) string {
	if ix.snap.Variant == models.VariantOPS {
		return normalize.ChapterOf(ix.canonical(code))
	}
	rec, ok := ix.FindExact(code)
	if !ok {
		return ""
	}
	return rec.Chapter
}

// FindChapter resolves the chapter record owning code
func (ix *Index) FindChapter(code string) (models.ChapterRecord, bool) {
	id := ix.ChapterKey(code)
	if id == "" {
		return models.ChapterRecord{}, false
	}
	ch, ok := ix.snap.Chapters[id]
	return ch, ok
}

// FindGroup resolves the group owning code by range containment of its base
// code inside the code's chapter
func (ix *Index) FindGroup(code string) (models.GroupRecord, bool) {
	return ix.GroupIn(ix.ChapterKey(code), code)
}

// GroupIn resolves the group of code among the groups of one chapter.
// Chapters reuse numeric ranges, so the chapter must be known.
func (ix *Index) GroupIn(chapter, code string) (models.GroupRecord, bool) {
	base := normalize.BaseCode(ix.canonical(code), ix.snap.Variant)
	for _, g := range ix.groupsByChapter[chapter] {
		if g.Contains(base) {
			return g, true
		}
	}
	return models.GroupRecord{}, false
}

// ChapterTitle returns the description of chapter id, if known
func (ix *Index) ChapterTitle(id string) (string, bool) {
	ch, ok := ix.snap.Chapters[id]
	return ch.Description, ok
}

// FindThreeDigitRange resolves the OPS three-digit record of code: exact
// match first, then ranged entries
func (ix *Index) FindThreeDigitRange(code string) (models.ThreeDigitRecord, bool) {
	if !ix.snap.Variant.HasThreeDigitLevel() {
		return models.ThreeDigitRecord{}, false
	}

	base := normalize.BaseCode(ix.canonical(code), ix.snap.Variant)
	if key, ok := ix.snap.ResolveThreeDigit(base); ok {
		return ix.snap.ThreeDigits[key], true
	}

	for _, r := range ix.ranges {
		if base >= r.start && base <= r.end {
			return r.record, true
		}
	}
	return models.ThreeDigitRecord{}, false
}
