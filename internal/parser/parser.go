// Package parser turns the semicolon-delimited catalog files into typed
// record tables.
//
// Every kind of file has a fixed column layout. Lines with fewer fields
// than the layout requires are skipped silently; published bulk data
// routinely carries blank or truncated lines. Duplicate keys overwrite
// earlier lines.
package parser

import (
	"log/slog"
	"strings"

	"github.com/pders01/catalog-delta/internal/models"
)

// Kind identifies one of the catalog file kinds
type Kind string

const (
	KindCodes      Kind = "codes"
	KindGroups     Kind = "groups"
	KindChapters   Kind = "chapters"
	KindThreeDigit Kind = "threedigit"
	KindMigration  Kind = "migration"
)

// Kinds lists the file kinds a variant publishes
func Kinds(variant models.Variant) []Kind {
	kinds := []Kind{KindCodes, KindGroups, KindChapters}
	if variant.HasThreeDigitLevel() {
		kinds = append(kinds, KindThreeDigit)
	}
	return kinds
}

// MinFields returns the minimum field count for a line of the given kind
func MinFields(kind Kind, variant models.Variant) int {
	switch kind {
	case KindCodes:
		if variant == models.VariantOPS {
			return 9
		}
		return 8
	case KindGroups, KindThreeDigit:
		return 4
	case KindChapters:
		return 2
	case KindMigration:
		if variant == models.VariantOPS {
			return 6
		}
		return 4
	default:
		return 1
	}
}

// RawFiles holds the raw text of one catalog year
type RawFiles struct {
	Codes      string
	Groups     string
	Chapters   string
	ThreeDigit string
}

// ParseCatalog parses all files of one year into an immutable snapshot
func ParseCatalog(files RawFiles, variant models.Variant, year int) *models.Snapshot {
	tables := models.Tables{
		Codes:    ParseCodes(files.Codes, variant),
		Groups:   ParseGroups(files.Groups, variant),
		Chapters: ParseChapters(files.Chapters, variant),
	}
	if variant.HasThreeDigitLevel() {
		tables.ThreeDigits = ParseThreeDigits(files.ThreeDigit)
	}

	slog.Debug("catalog parsed",
		"variant", variant,
		"year", year,
		"codes", len(tables.Codes),
		"groups", len(tables.Groups),
		"chapters", len(tables.Chapters),
		"three_digits", len(tables.ThreeDigits),
	)

	return models.NewSnapshot(variant, year, tables)
}

// Records splits raw text into trimmed field slices, dropping lines that
// have fewer than min fields
func Records(raw string, kind Kind, min int) [][]string {
	raw = strings.TrimPrefix(raw, "\ufeff")
	lines := strings.Split(raw, "\n")

	out := make([][]string, 0, len(lines))
	skipped := 0
	for _, line := range lines {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		fields := strings.Split(line, ";")
		if len(fields) < min {
			skipped++
			continue
		}
		for i := range fields {
			fields[i] = strings.TrimSpace(fields[i])
		}
		out = append(out, fields)
	}

	if skipped > 0 {
		slog.Debug("skipped malformed lines", "kind", kind, "count", skipped)
	}
	return out
}

// field returns fields[i] or the empty string when the line is short
func field(fields []string, i int) string {
	if i < len(fields) {
		return fields[i]
	}
	return ""
}
