// Package normalize canonicalizes raw code strings into the single
// comparable form used as identity for each catalog variant.
//
// Normalization never fails. Input that matches no rule is returned
// unchanged and format validity is checked separately with [Valid].
package normalize

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/pders01/catalog-delta/internal/models"
)

// Pre-compiled OPS shape patterns, applied in the order of opsRules
var (
	// 5-378b8: hyphen, three digits, then a letter with trailing characters
	opsHyphenLetter = regexp.MustCompile(`^(\d-\d{3})([a-z][0-9a-z]*)$`)
	// 1-202.00, 1202.00, 1-202, 1202, 8-98f.10
	opsValid = regexp.MustCompile(`^\d-?\d{2}[0-9a-z](\.[0-9a-z]+)?$`)
	// 1-20200: hyphenated without sub-separator
	opsHyphenCompact = regexp.MustCompile(`^(\d)-(\d{2}[0-9a-z])([0-9a-z]+)$`)
	// 5378b8: compact with letter infix after the three-digit part
	opsLetterInfix = regexp.MustCompile(`^(\d)(\d{3})([a-z][0-9a-z]*)$`)
	// 120200: compact digit run longer than four characters
	opsCompact = regexp.MustCompile(`^(\d)(\d{2}[0-9a-z])([0-9a-z]+)$`)

	icdValid = regexp.MustCompile(`^[A-Z]\d{2}(\.[0-9A-Z]{1,2})?$`)
)

// opsRule rewrites one recognized input shape; it reports false when the
// pattern does not apply
type opsRule func(s string) (string, bool)

var opsRules = []opsRule{
	replaceRule(opsHyphenCompact, "$1-$2.$3"),
	replaceRule(opsLetterInfix, "$1-$2.$3"),
	replaceRule(opsCompact, "$1-$2.$3"),
}

func replaceRule(re *regexp.Regexp, tmpl string) opsRule {
	return func(s string) (string, bool) {
		if !re.MatchString(s) {
			return "", false
		}
		return re.ReplaceAllString(s, tmpl), true
	}
}

// Normalize returns the canonical key for raw in the given variant
func Normalize(raw string, variant models.Variant) string {
	switch variant {
	case models.VariantICD:
		return ICD(raw)
	case models.VariantOPS:
		return OPS(raw)
	default:
		return raw
	}
}

// ICD canonicalizes a letter-prefixed code: upper case and a separator
// after the third character when missing
func ICD(raw string) string {
	s := strings.ToUpper(strings.Join(strings.Fields(raw), ""))
	// Dagger, asterisk and exclamation markers are notation, not identity
	s = strings.TrimRight(s, "†*!+")
	s = strings.TrimSuffix(s, ".-")
	s = strings.TrimSuffix(s, "-")
	if s == "" {
		return raw
	}

	if len(s) > 3 && !strings.Contains(s, ".") && isASCII(s[:3]) {
		s = s[:3] + "." + s[3:]
	}
	return s
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// OPS canonicalizes a numeric procedure code into D-DDD[letter].rest.
//
// Rule precedence is fixed: a hyphen+letter shape gets the sub-separator
// before the letter; otherwise an already valid shape only gets its
// hyphen; otherwise the remaining rules are tried in order and the first
// match wins. A lone four-digit run becomes D-DDD without sub-separator.
func OPS(raw string) string {
	s := strings.ToLower(strings.Join(strings.Fields(raw), ""))
	if s == "" {
		return raw
	}

	if opsHyphenLetter.MatchString(s) {
		return opsHyphenLetter.ReplaceAllString(s, "$1.$2")
	}

	if opsValid.MatchString(s) {
		if s[1] != '-' {
			s = s[:1] + "-" + s[1:]
		}
		return s
	}

	for _, rule := range opsRules {
		if out, ok := rule(s); ok {
			return out
		}
	}

	return raw
}

// Valid reports whether raw normalizes to a well-formed code of the variant
func Valid(raw string, variant models.Variant) bool {
	switch variant {
	case models.VariantICD:
		return icdValid.MatchString(ICD(raw))
	case models.VariantOPS:
		return opsValid.MatchString(OPS(raw))
	default:
		return false
	}
}

// BaseCode returns the part of a canonical key used for group lookup:
// the portion before the separator (ICD) or the first hyphen group with
// two digits (OPS), which is also the OPS three-digit code
func BaseCode(key string, variant models.Variant) string {
	switch variant {
	case models.VariantICD:
		if i := strings.IndexByte(key, '.'); i >= 0 {
			return key[:i]
		}
		return key
	case models.VariantOPS:
		if len(key) >= 4 && key[1] == '-' {
			return key[:4]
		}
		return key
	default:
		return key
	}
}

// ChapterOf derives the OPS chapter id: the leading digit before the hyphen
func ChapterOf(key string) string {
	if i := strings.IndexByte(key, '-'); i > 0 {
		return key[:i]
	}
	return ""
}
