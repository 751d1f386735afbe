package cmd

import (
	"reflect"
	"strings"
	"testing"

	"github.com/pders01/catalog-delta/internal/diff"
	cerrors "github.com/pders01/catalog-delta/internal/errors"
)

func resetDiffFlags() {
	diffStatus = nil
	diffCode = ""
	diffFields = false
	diffJSON = false
	diffToon = false
}

func entryCodes(entries []diff.Entry) []string {
	var codes []string
	for _, e := range entries {
		codes = append(codes, e.Code)
	}
	return codes
}

func TestDiffJSON(t *testing.T) {
	tests := []struct {
		name    string
		variant string
		status  []string
		code    string
		want    []string
	}{
		{"icd default", "", nil, "", []string{"A00.0", "A00.9", "A01", "A02", "J09", "U99.0"}},
		{"icd added", "", []string{"added"}, "", []string{"A02", "U99.0"}},
		{"icd pattern", "", nil, "A0*", []string{"A00.0", "A00.9", "A01", "A02"}},
		{"icd unchanged", "icd", []string{"unchanged"}, "", []string{"A00", "A00.1", "B10"}},
		{"ops default", "ops", nil, "", []string{"1-202", "1-202.1", "1-202.2", "5-378.b8", "8-98f.20"}},
		{"ops removed and added", "ops", []string{"removed", "ADDED"}, "", []string{"1-202.1", "1-202.2", "8-98f.20"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, buf := setupCatalog(t)
			resetDiffFlags()
			variantFlag = tt.variant
			diffStatus = tt.status
			diffCode = tt.code
			diffJSON = true

			if err := runDiff(nil, nil); err != nil {
				t.Fatalf("diff failed: %v", err)
			}

			var got diffOutput
			decodeJSON(t, buf, &got)
			if got.OldYear != 2023 || got.NewYear != 2024 {
				t.Errorf("expected 2023 → 2024, got %d → %d", got.OldYear, got.NewYear)
			}
			if !got.HasMigrationData {
				t.Error("expected crosswalk data")
			}
			if got.RunID == "" {
				t.Error("expected a run id")
			}
			if codes := entryCodes(got.Entries); !reflect.DeepEqual(codes, tt.want) {
				t.Errorf("codes = %v, want %v", codes, tt.want)
			}
		})
	}
}

func TestDiffHumanOutput(t *testing.T) {
	_, buf := setupCatalog(t)
	resetDiffFlags()
	diffFields = true

	if err := runDiff(nil, []string{"2023", "2024"}); err != nil {
		t.Fatalf("diff failed: %v", err)
	}

	output := buf.String()
	for _, want := range []string{
		"ICD-10-GM 2023 → 2024",
		"Crosswalk: yes",
		"[replacement ← A01]",
		"[redirected → A02, automatic]",
		"[deprecated]",
		"[new]",
		"(max_age, age_error_kind)",
		"max_age: - → 99 Jahre",
		"6 change(s): 2 added, 2 removed, 2 changed",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected output to contain %q\n%s", want, output)
		}
	}
}

func TestDiffWithoutCrosswalk(t *testing.T) {
	c, buf := setupCatalog(t)
	resetDiffFlags()
	if err := c.Fs.Remove(c.Root + "/icd/migrations/2023_2024.txt"); err != nil {
		t.Fatalf("failed to remove crosswalk: %v", err)
	}
	diffJSON = true

	if err := runDiff(nil, nil); err != nil {
		t.Fatalf("diff failed: %v", err)
	}

	var got diffOutput
	decodeJSON(t, buf, &got)
	if got.HasMigrationData {
		t.Error("expected no crosswalk data")
	}
	if got.Counts.Deprecated != 2 || got.Counts.Redirected != 0 {
		t.Errorf("expected both removed codes deprecated, got %+v", got.Counts)
	}
	if got.Counts.New != 2 || got.Counts.Replacement != 0 {
		t.Errorf("expected both added codes new, got %+v", got.Counts)
	}
}

func TestDiffErrors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		status  []string
		variant string
		code    cerrors.ErrorCode
	}{
		{"missing year", []string{"2023", "2030"}, nil, "", cerrors.YearNotFound},
		{"same year", []string{"2024", "2024"}, nil, "", cerrors.YearNotFound},
		{"bad year", []string{"20x4", "2024"}, nil, "", cerrors.YearNotFound},
		{"bad variant", nil, nil, "loinc", cerrors.InvalidVariant},
		{"bad status", nil, []string{"moved"}, "", cerrors.InternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupCatalog(t)
			resetDiffFlags()
			diffStatus = tt.status
			variantFlag = tt.variant

			err := runDiff(nil, tt.args)
			if err == nil {
				t.Fatal("expected an error")
			}
			if got := cerrors.CodeOf(err); got != tt.code {
				t.Errorf("error code = %s, want %s (%v)", got, tt.code, err)
			}
		})
	}
}
