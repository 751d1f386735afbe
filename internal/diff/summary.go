package diff

import "sort"

// Counts holds per-status and per-sub-status totals
type Counts struct {
	Added       int `json:"added"`
	Removed     int `json:"removed"`
	Changed     int `json:"changed"`
	New         int `json:"new"`
	Replacement int `json:"replacement"`
	Deprecated  int `json:"deprecated"`
	Redirected  int `json:"redirected"`
}

// Add counts one entry; unchanged entries are ignored
func (c *Counts) Add(e Entry) {
	switch e.Status {
	case StatusAdded:
		c.Added++
	case StatusRemoved:
		c.Removed++
	case StatusChanged:
		c.Changed++
	}

	switch e.SubStatus {
	case SubStatusNew:
		c.New++
	case SubStatusReplacement:
		c.Replacement++
	case SubStatusDeprecated:
		c.Deprecated++
	case SubStatusRedirected:
		c.Redirected++
	}
}

// Total returns the number of counted changes
func (c Counts) Total() int {
	return c.Added + c.Removed + c.Changed
}

// FieldCount is how often one field changed
type FieldCount struct {
	Field string `json:"field"`
	Count int    `json:"count"`
}

// Summary aggregates a diff result
type Summary struct {
	RunID      string       `json:"run_id"`
	OldYear    int          `json:"old_year"`
	NewYear    int          `json:"new_year"`
	Compared   int          `json:"compared"`
	Unchanged  int          `json:"unchanged"`
	Counts     Counts       `json:"counts"`
	Fields     []FieldCount `json:"fields,omitempty"`
	Migrations bool         `json:"has_migration_data"`
}

// Summarize computes status counts and field change frequencies, most
// frequent field first
func Summarize(r *Result) Summary {
	s := Summary{
		RunID:      r.RunID,
		OldYear:    r.OldYear,
		NewYear:    r.NewYear,
		Compared:   len(r.Entries),
		Migrations: r.HasMigrationData,
	}

	fields := make(map[string]int)
	for _, e := range r.Entries {
		if e.Status == StatusUnchanged {
			s.Unchanged++
			continue
		}
		s.Counts.Add(e)
		for _, fd := range e.FieldDiffs {
			fields[fd.Field]++
		}
	}

	for name, count := range fields {
		s.Fields = append(s.Fields, FieldCount{Field: name, Count: count})
	}
	sort.Slice(s.Fields, func(i, j int) bool {
		if s.Fields[i].Count != s.Fields[j].Count {
			return s.Fields[i].Count > s.Fields[j].Count
		}
		return s.Fields[i].Field < s.Fields[j].Field
	})

	return s
}
