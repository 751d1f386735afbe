// Package diff compares two catalog years of one variant and classifies
// every code as added, removed, changed or unchanged, attributing added and
// removed codes to crosswalk mappings where available.
package diff

import (
	"log/slog"
	"reflect"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/pders01/catalog-delta/internal/catalog"
	"github.com/pders01/catalog-delta/internal/migration"
	"github.com/pders01/catalog-delta/internal/models"
)

// Status is the classification of one code
type Status string

const (
	StatusAdded     Status = "added"
	StatusRemoved   Status = "removed"
	StatusChanged   Status = "changed"
	StatusUnchanged Status = "unchanged"
)

// Statuses lists all statuses in display order
var Statuses = []Status{StatusAdded, StatusRemoved, StatusChanged, StatusUnchanged}

// ParseStatus converts a user supplied status name
func ParseStatus(s string) (Status, bool) {
	for _, st := range Statuses {
		if strings.EqualFold(s, string(st)) {
			return st, true
		}
	}
	return "", false
}

// SubStatus refines added and removed codes
type SubStatus string

const (
	SubStatusNone        SubStatus = ""
	SubStatusNew         SubStatus = "new"
	SubStatusReplacement SubStatus = "replacement"
	SubStatusDeprecated  SubStatus = "deprecated"
	SubStatusRedirected  SubStatus = "redirected"
)

// FieldDiff is one differing field of a changed code
type FieldDiff struct {
	Field string `json:"field"`
	Old   any    `json:"old"`
	New   any    `json:"new"`
}

// Entry is the comparison result for one code
type Entry struct {
	Code       string             `json:"code"`
	Status     Status             `json:"status"`
	SubStatus  SubStatus          `json:"sub_status,omitempty"`
	Old        *models.CodeRecord `json:"old,omitempty"`
	New        *models.CodeRecord `json:"new,omitempty"`
	FieldDiffs []FieldDiff        `json:"field_diffs,omitempty"`

	MigrationTarget  string             `json:"migration_target,omitempty"`
	MigrationSources []migration.Source `json:"migration_sources,omitempty"`
	AutoForward      bool               `json:"auto_forward,omitempty"`
	AutoBackward     bool               `json:"auto_backward,omitempty"`
}

// Record returns the newest record of the entry
func (e Entry) Record() models.CodeRecord {
	if e.New != nil {
		return *e.New
	}
	if e.Old != nil {
		return *e.Old
	}
	return models.CodeRecord{Code: e.Code}
}

// SourceCodes returns the old codes merged into an added code
func (e Entry) SourceCodes() []string {
	codes := make([]string, 0, len(e.MigrationSources))
	for _, s := range e.MigrationSources {
		codes = append(codes, s.Code)
	}
	return codes
}

// Result is the full comparison of two snapshots
type Result struct {
	RunID            string         `json:"run_id"`
	Variant          models.Variant `json:"variant"`
	OldYear          int            `json:"old_year"`
	NewYear          int            `json:"new_year"`
	HasMigrationData bool           `json:"has_migration_data"`
	Entries          []Entry        `json:"entries"`
}

// Compare diffs two snapshots of the same variant. The migration map may be
// nil. Entries are sorted by code.
func Compare(oldSnap, newSnap *models.Snapshot, m *migration.Map) *Result {
	result := &Result{
		RunID:            uuid.NewString(),
		Variant:          newSnap.Variant,
		OldYear:          oldSnap.Year,
		NewYear:          newSnap.Year,
		HasMigrationData: m.HasMigrationData(),
	}

	for _, key := range unionKeys(oldSnap, newSnap) {
		oldRec, inOld := oldSnap.Codes[key]
		newRec, inNew := newSnap.Codes[key]

		entry := Entry{Code: key}
		switch {
		case inNew && !inOld:
			entry.Status = StatusAdded
			entry.New = &newRec
			if sources := m.Sources(key); len(sources) > 0 {
				entry.SubStatus = SubStatusReplacement
				entry.MigrationSources = sources
			} else {
				entry.SubStatus = SubStatusNew
			}

		case inOld && !inNew:
			entry.Status = StatusRemoved
			entry.Old = &oldRec
			if target, ok := m.Forward(key); ok && target != nil {
				entry.SubStatus = SubStatusRedirected
				entry.MigrationTarget = target.Code
				entry.AutoForward = target.AutoForward
				entry.AutoBackward = target.AutoBackward
			} else {
				entry.SubStatus = SubStatusDeprecated
			}

		default:
			entry.Old = &oldRec
			entry.New = &newRec
			entry.FieldDiffs = Fields(oldRec, newRec)
			if len(entry.FieldDiffs) > 0 {
				entry.Status = StatusChanged
			} else {
				entry.Status = StatusUnchanged
			}
		}

		result.Entries = append(result.Entries, entry)
	}

	slog.Debug("compared snapshots",
		"run_id", result.RunID,
		"old", oldSnap.Name(),
		"new", newSnap.Name(),
		"entries", len(result.Entries),
	)
	return result
}

func unionKeys(a, b *models.Snapshot) []string {
	seen := make(map[string]struct{}, len(a.Codes)+len(b.Codes))
	for key := range a.Codes {
		seen[key] = struct{}{}
	}
	for key := range b.Codes {
		seen[key] = struct{}{}
	}

	keys := make([]string, 0, len(seen))
	for key := range seen {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Fields returns the fields whose values differ between two records of the
// same code, in record field order
func Fields(oldRec, newRec models.CodeRecord) []FieldDiff {
	oldValues := make(map[string]any)
	newValues := make(map[string]any)
	var order []string

	for _, f := range oldRec.Fields() {
		oldValues[f.Name] = f.Value
		order = append(order, f.Name)
	}
	for _, f := range newRec.Fields() {
		if _, ok := oldValues[f.Name]; !ok {
			order = append(order, f.Name)
		}
		newValues[f.Name] = f.Value
	}

	var diffs []FieldDiff
	for _, name := range order {
		o, n := oldValues[name], newValues[name]
		if !reflect.DeepEqual(normalizeValue(o), normalizeValue(n)) {
			diffs = append(diffs, FieldDiff{Field: name, Old: o, New: n})
		}
	}
	return diffs
}

// normalizeValue trims strings and folds empty slices to nil so whitespace
// and nil-versus-empty are not reported as changes
func normalizeValue(v any) any {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case []string:
		if len(t) == 0 {
			return nil
		}
		out := make([]string, len(t))
		for i, s := range t {
			out[i] = strings.TrimSpace(s)
		}
		return out
	default:
		return v
	}
}

// Changes returns every entry that is not unchanged
func (r *Result) Changes() []Entry {
	var out []Entry
	for _, e := range r.Entries {
		if e.Status != StatusUnchanged {
			out = append(out, e)
		}
	}
	return out
}

// Filter selects entries for display
type Filter struct {
	Statuses []Status
	Pattern  string
}

// Apply returns the entries matching the filter. Without statuses only
// non-unchanged entries are returned.
func (f Filter) Apply(entries []Entry) []Entry {
	allowed := make(map[Status]bool)
	for _, s := range f.Statuses {
		allowed[s] = true
	}
	if len(allowed) == 0 {
		allowed[StatusAdded] = true
		allowed[StatusRemoved] = true
		allowed[StatusChanged] = true
	}

	var match func(string) bool
	if f.Pattern != "" {
		re := catalog.CompileWildcard(f.Pattern)
		match = re.MatchString
	}

	var out []Entry
	for _, e := range entries {
		if !allowed[e.Status] {
			continue
		}
		if match != nil && !match(e.Code) {
			continue
		}
		out = append(out, e)
	}
	return out
}
