package models

import (
	"fmt"
	"sort"
	"strings"
)

// Tables holds the parsed record tables of one catalog year
type Tables struct {
	Codes       map[string]CodeRecord
	Chapters    map[string]ChapterRecord
	Groups      []GroupRecord
	ThreeDigits map[string]ThreeDigitRecord
}

// Snapshot is one immutable catalog year of one variant
type Snapshot struct {
	Variant     Variant
	Year        int
	Codes       map[string]CodeRecord
	Chapters    map[string]ChapterRecord
	Groups      []GroupRecord
	ThreeDigits map[string]ThreeDigitRecord

	codeKeys       map[string]string
	threeDigitKeys map[string]string
}

// NewSnapshot builds a snapshot and its case-insensitive lookup maps
func NewSnapshot(variant Variant, year int, t Tables) *Snapshot {
	s := &Snapshot{
		Variant:        variant,
		Year:           year,
		Codes:          t.Codes,
		Chapters:       t.Chapters,
		Groups:         t.Groups,
		ThreeDigits:    t.ThreeDigits,
		codeKeys:       make(map[string]string, len(t.Codes)*2),
		threeDigitKeys: make(map[string]string, len(t.ThreeDigits)),
	}
	if s.Codes == nil {
		s.Codes = map[string]CodeRecord{}
	}
	if s.Chapters == nil {
		s.Chapters = map[string]ChapterRecord{}
	}
	if s.ThreeDigits == nil {
		s.ThreeDigits = map[string]ThreeDigitRecord{}
	}

	for key := range s.Codes {
		s.codeKeys[FoldKey(key)] = key
	}
	// Compact forms only fill gaps so a dotted key always wins
	for key := range s.Codes {
		compact := CompactKey(key)
		if _, ok := s.codeKeys[compact]; !ok {
			s.codeKeys[compact] = key
		}
	}
	for key := range s.ThreeDigits {
		s.threeDigitKeys[FoldKey(key)] = key
	}

	return s
}

// Name returns the snapshot label, e.g. "ICD-10-GM 2024"
func (s *Snapshot) Name() string {
	return fmt.Sprintf("%s %d", s.Variant.Label(), s.Year)
}

// ResolveCode maps a case-folded or compact key to its canonical key
func (s *Snapshot) ResolveCode(key string) (string, bool) {
	if canonical, ok := s.codeKeys[FoldKey(key)]; ok {
		return canonical, true
	}
	canonical, ok := s.codeKeys[CompactKey(key)]
	return canonical, ok
}

// ResolveThreeDigit maps a case-folded three-digit code to its canonical key
func (s *Snapshot) ResolveThreeDigit(key string) (string, bool) {
	canonical, ok := s.threeDigitKeys[FoldKey(key)]
	return canonical, ok
}

// Keys returns all canonical code keys sorted
func (s *Snapshot) Keys() []string {
	keys := make([]string, 0, len(s.Codes))
	for key := range s.Codes {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// FoldKey returns the case-insensitive comparison form of a key
func FoldKey(key string) string {
	return strings.ToUpper(strings.TrimSpace(key))
}

// CompactKey returns the folded key without hierarchy separators
func CompactKey(key string) string {
	return strings.NewReplacer(".", "", "-", "").Replace(FoldKey(key))
}
