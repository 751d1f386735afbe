// Package migration loads the yearly crosswalk tables that link codes of
// one catalog year to the codes replacing them in the next.
package migration

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/pders01/catalog-delta/internal/models"
	"github.com/pders01/catalog-delta/internal/normalize"
	"github.com/pders01/catalog-delta/internal/parser"
)

// automatic marks a direction that needs no manual review
const automatic = "A"

// Column positions of the crosswalk layouts
const (
	icdOld, icdNew, icdForward, icdBackward = 0, 1, 2, 3
	opsOld, opsNew, opsForward, opsBackward = 0, 2, 4, 5
)

var htmlPattern = regexp.MustCompile(`(?i)^\s*(<!doctype\s+html|<html|<head|<body)`)

// Target is the forward mapping of an old code
type Target struct {
	Code         string `json:"code"`
	AutoForward  bool   `json:"auto_forward"`
	AutoBackward bool   `json:"auto_backward"`
}

// Source is one old code contributing to a new code
type Source struct {
	Code         string `json:"code"`
	AutoForward  bool   `json:"auto_forward"`
	AutoBackward bool   `json:"auto_backward"`
}

// Map holds both directions of one crosswalk. A nil target in FromOld marks
// a code deprecated without replacement.
type Map struct {
	Variant models.Variant
	FromOld map[string]*Target
	ToNew   map[string][]Source

	hasData bool
}

// Empty returns a map without migration data
func Empty(variant models.Variant) *Map {
	return &Map{
		Variant: variant,
		FromOld: map[string]*Target{},
		ToNew:   map[string][]Source{},
	}
}

// IsHTML reports whether raw looks like an HTML page rather than crosswalk
// data, as served by a web frontend for a missing file
func IsHTML(raw string) bool {
	return htmlPattern.MatchString(strings.TrimPrefix(raw, "\ufeff"))
}

// Load parses crosswalk text. Missing or HTML content yields an empty map
// that reports no migration data.
func Load(raw string, variant models.Variant) *Map {
	m := Empty(variant)
	if strings.TrimSpace(raw) == "" {
		return m
	}
	if IsHTML(raw) {
		slog.Warn("crosswalk content is HTML, ignoring", "variant", variant)
		return m
	}

	oldCol, newCol, fwdCol, backCol := icdOld, icdNew, icdForward, icdBackward
	if variant == models.VariantOPS {
		oldCol, newCol, fwdCol, backCol = opsOld, opsNew, opsForward, opsBackward
	}

	ignored := 0
	for _, f := range parser.Records(raw, parser.KindMigration, parser.MinFields(parser.KindMigration, variant)) {
		m.hasData = true

		oldKey := canonical(f[oldCol], variant)
		if oldKey == "" {
			continue
		}
		forward := strings.EqualFold(f[fwdCol], automatic)
		backward := strings.EqualFold(f[backCol], automatic)

		newRaw := f[newCol]
		if newRaw == "" || strings.EqualFold(newRaw, "UNDEF") {
			if _, seen := m.FromOld[oldKey]; !seen {
				m.FromOld[oldKey] = nil
			}
			continue
		}

		newKey := canonical(newRaw, variant)
		if newKey == oldKey {
			ignored++
			continue
		}

		if _, seen := m.FromOld[oldKey]; !seen || m.FromOld[oldKey] == nil {
			m.FromOld[oldKey] = &Target{Code: newKey, AutoForward: forward, AutoBackward: backward}
		}
		m.ToNew[newKey] = append(m.ToNew[newKey], Source{Code: oldKey, AutoForward: forward, AutoBackward: backward})
	}

	slog.Debug("loaded crosswalk",
		"variant", variant,
		"forward", len(m.FromOld),
		"backward", len(m.ToNew),
		"identity", ignored,
	)
	return m
}

func canonical(raw string, variant models.Variant) string {
	raw = strings.TrimSuffix(strings.TrimSpace(raw), ".")
	if raw == "" {
		return ""
	}
	return normalize.Normalize(raw, variant)
}

// HasMigrationData reports whether the crosswalk carried any data lines
func (m *Map) HasMigrationData() bool {
	return m != nil && m.hasData
}

// Forward returns the mapping of an old code; ok is false when the
// crosswalk does not mention the code
func (m *Map) Forward(oldKey string) (target *Target, ok bool) {
	if m == nil {
		return nil, false
	}
	target, ok = m.FromOld[oldKey]
	return target, ok
}

// Sources returns the old codes merged into newKey
func (m *Map) Sources(newKey string) []Source {
	if m == nil {
		return nil
	}
	return m.ToNew[newKey]
}
