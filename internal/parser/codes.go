package parser

import (
	"strings"

	"github.com/pders01/catalog-delta/internal/models"
	"github.com/pders01/catalog-delta/internal/normalize"
)

// ICD code file columns
const (
	icdLevel = iota
	icdPlace
	icdKind
	icdChapter
	icdGroupStart
	icdCode
	icdNormCode
	icdCompact
	icdTitle
	icdUsage295
	icdUsage301
	icdMort1
	icdMort2
	icdMort3
	icdMort4
	icdMorb
	icdSex
	icdSexError
	icdMinAge
	icdMaxAge
	icdAgeError
	icdRare
	icdPopulated
	icdIfSGReport
	icdIfSGLab
)

// OPS code file columns
const (
	opsLevel = iota
	opsPlace
	opsKind
	opsChapter
	opsGroupStart
	opsThreeDigit
	opsCode
	opsCompact
	opsTitle
	opsLaterality
	opsSingleUse
	opsAdditional
	opsValidity
)

// ParseCodes parses a codes file into canonical key -> record
func ParseCodes(raw string, variant models.Variant) map[string]models.CodeRecord {
	codes := make(map[string]models.CodeRecord)

	for _, f := range Records(raw, KindCodes, MinFields(KindCodes, variant)) {
		var rec models.CodeRecord
		var ok bool

		switch variant {
		case models.VariantICD:
			rec, ok = parseICDCode(f)
		case models.VariantOPS:
			rec, ok = parseOPSCode(f)
		}
		if !ok {
			continue
		}
		codes[rec.Code] = rec
	}

	return codes
}

func parseICDCode(f []string) (models.CodeRecord, bool) {
	code := normalize.ICD(f[icdCode])
	if code == "" {
		return models.CodeRecord{}, false
	}

	rec := models.CodeRecord{
		Code:        code,
		Description: field(f, icdTitle),
		NonTerminal: strings.EqualFold(f[icdPlace], "N"),
		Level:       f[icdLevel],
		Chapter:     f[icdChapter],
		GroupStart:  strings.ToUpper(f[icdGroupStart]),
		Notation:    f[icdNormCode],
	}

	rec.ICD = &models.ICDAttributes{
		Kind:          label(icdKindLabels, f[icdKind]),
		Usage295:      label(usageLabels, field(f, icdUsage295)),
		Usage301:      label(usageLabels, field(f, icdUsage301)),
		MorbidityList: optional(field(f, icdMorb)),
		Sex:           label(sexLabels, field(f, icdSex)),
		SexErrorKind:  label(errorKindLabels, field(f, icdSexError)),
		MinAge:        decodeAge(field(f, icdMinAge)),
		MaxAge:        decodeAge(field(f, icdMaxAge)),
		AgeErrorKind:  label(errorKindLabels, field(f, icdAgeError)),
		Rare:          label(yesNoLabels, field(f, icdRare)),
		Populated:     label(yesNoLabels, field(f, icdPopulated)),
		IfSGReport:    label(yesNoLabels, field(f, icdIfSGReport)),
		IfSGLab:       label(yesNoLabels, field(f, icdIfSGLab)),
	}
	rec.ICD.MortalityLists = mortalityLists(f)

	return rec, true
}

// mortalityLists keeps list positions; absent slots become Missing and an
// all-absent block collapses to nil
func mortalityLists(f []string) []string {
	lists := make([]string, 0, 4)
	present := false
	for i := icdMort1; i <= icdMort4; i++ {
		v := optional(field(f, i))
		if v != "" {
			present = true
		}
		lists = append(lists, v.OrDefault())
	}
	if !present {
		return nil
	}
	return lists
}

func parseOPSCode(f []string) (models.CodeRecord, bool) {
	raw := f[opsCode]
	trailingSeparator := strings.HasSuffix(raw, ".")
	code := normalize.OPS(strings.TrimSuffix(raw, "."))
	if code == "" {
		return models.CodeRecord{}, false
	}

	rec := models.CodeRecord{
		Code:        code,
		Description: f[opsTitle],
		NonTerminal: strings.EqualFold(f[opsPlace], "N") || trailingSeparator,
		Level:       f[opsLevel],
		Chapter:     f[opsChapter],
		GroupStart:  strings.ToLower(f[opsGroupStart]),
		Notation:    f[opsCompact],
	}

	rec.OPS = &models.OPSAttributes{
		Kind:       label(opsKindLabels, f[opsKind]),
		ThreeDigit: optional(strings.ToLower(f[opsThreeDigit])),
		Laterality: label(yesNoLabels, field(f, opsLaterality)),
		SingleUse:  label(yesNoLabels, field(f, opsSingleUse)),
		Additional: label(yesNoLabels, field(f, opsAdditional)),
		Validity:   label(yesNoLabels, field(f, opsValidity)),
	}

	return rec, true
}
