package parser

import (
	"strings"

	"github.com/pders01/catalog-delta/internal/models"
)

// RangeSeparator joins the bounds of a ranged three-digit entry
const RangeSeparator = "..."

// ParseGroups parses a groups file. Groups keep file order; a repeated
// (chapter, start) pair replaces the earlier group in place.
func ParseGroups(raw string, variant models.Variant) []models.GroupRecord {
	var groups []models.GroupRecord
	seen := make(map[string]int)

	for _, f := range Records(raw, KindGroups, MinFields(KindGroups, variant)) {
		var g models.GroupRecord
		switch variant {
		case models.VariantOPS:
			g = models.GroupRecord{
				Chapter:     f[0],
				Start:       strings.ToLower(f[1]),
				End:         strings.ToLower(f[2]),
				Description: f[3],
			}
		default:
			g = models.GroupRecord{
				Start:       strings.ToUpper(f[0]),
				End:         strings.ToUpper(f[1]),
				Chapter:     f[2],
				Description: f[3],
			}
		}
		if g.Start == "" {
			continue
		}

		key := g.Chapter + "|" + g.Start
		if i, ok := seen[key]; ok {
			groups[i] = g
			continue
		}
		seen[key] = len(groups)
		groups = append(groups, g)
	}

	return groups
}

// ParseChapters parses a chapters file into id -> record
func ParseChapters(raw string, variant models.Variant) map[string]models.ChapterRecord {
	chapters := make(map[string]models.ChapterRecord)

	for _, f := range Records(raw, KindChapters, MinFields(KindChapters, variant)) {
		if f[0] == "" {
			continue
		}
		chapters[f[0]] = models.ChapterRecord{ID: f[0], Description: f[1]}
	}

	return chapters
}

// ParseThreeDigits parses the OPS three-digit file into code -> record.
// Ranged entries are keyed as "start...end".
func ParseThreeDigits(raw string) map[string]models.ThreeDigitRecord {
	out := make(map[string]models.ThreeDigitRecord)

	for _, f := range Records(raw, KindThreeDigit, MinFields(KindThreeDigit, models.VariantOPS)) {
		code := threeDigitKey(f[2])
		if code == "" {
			continue
		}
		out[code] = models.ThreeDigitRecord{
			Code:        code,
			Description: f[3],
			Chapter:     f[0],
			Group:       strings.ToLower(f[1]),
		}
	}

	return out
}

func threeDigitKey(raw string) string {
	return strings.ToLower(strings.Join(strings.Fields(raw), ""))
}
