package models

import (
	"fmt"
	"strings"
)

// Variant identifies one of the two supported classification systems
type Variant string

const (
	// VariantICD is the letter-prefixed diagnosis classification (ICD-10-GM)
	VariantICD Variant = "icd"
	// VariantOPS is the numeric procedure classification (OPS)
	VariantOPS Variant = "ops"
)

// Variants lists all supported variants in display order
var Variants = []Variant{VariantICD, VariantOPS}

// ParseVariant converts user input into a Variant
func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "icd", "icd10", "icd-10-gm", "a":
		return VariantICD, nil
	case "ops", "b":
		return VariantOPS, nil
	default:
		return "", fmt.Errorf("invalid variant: %s (must be: icd, ops)", s)
	}
}

// Label returns the human-readable catalog name
func (v Variant) Label() string {
	switch v {
	case VariantICD:
		return "ICD-10-GM"
	case VariantOPS:
		return "OPS"
	default:
		return string(v)
	}
}

// HasThreeDigitLevel reports whether the variant publishes a three-digit table
func (v Variant) HasThreeDigitLevel() bool {
	return v == VariantOPS
}
