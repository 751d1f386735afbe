package cmd

import (
	"reflect"
	"strings"
	"testing"

	"github.com/pders01/catalog-delta/internal/diff"
	cerrors "github.com/pders01/catalog-delta/internal/errors"
	"github.com/pders01/catalog-delta/internal/migration"
)

func TestRelatedJSON(t *testing.T) {
	tests := []struct {
		name         string
		variant      string
		args         []string
		code         string
		status       diff.Status
		sub          diff.SubStatus
		successor    *migration.Target
		predecessors []migration.Source
	}{
		{"redirected", "", []string{"a01"}, "A01", diff.StatusRemoved, diff.SubStatusRedirected,
			&migration.Target{Code: "A02", AutoForward: true}, nil},
		{"replacement", "", []string{"A02", "2023", "2024"}, "A02", diff.StatusAdded, diff.SubStatusReplacement,
			nil, []migration.Source{{Code: "A01", AutoForward: true}}},
		{"deprecated", "", []string{"A00.9"}, "A00.9", diff.StatusRemoved, diff.SubStatusDeprecated, nil, nil},
		{"identity mapping", "", []string{"B10"}, "B10", diff.StatusUnchanged, diff.SubStatusNone, nil, nil},
		{"ops replacement", "ops", []string{"12022"}, "1-202.2", diff.StatusAdded, diff.SubStatusReplacement,
			nil, []migration.Source{{Code: "1-202.1", AutoForward: true, AutoBackward: true}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, buf := setupCatalog(t)
			variantFlag = tt.variant
			relatedJSON, relatedToon = true, false
			t.Cleanup(func() { relatedJSON = false })

			if err := runRelated(nil, tt.args); err != nil {
				t.Fatalf("related failed: %v", err)
			}

			var got relatedOutput
			decodeJSON(t, buf, &got)
			if got.Code != tt.code || got.Status != tt.status || got.SubStatus != tt.sub {
				t.Errorf("got %s %s/%s, want %s %s/%s", got.Code, got.Status, got.SubStatus, tt.code, tt.status, tt.sub)
			}
			if !reflect.DeepEqual(got.Successor, tt.successor) {
				t.Errorf("successor = %+v, want %+v", got.Successor, tt.successor)
			}
			if !reflect.DeepEqual(got.Predecessors, tt.predecessors) {
				t.Errorf("predecessors = %+v, want %+v", got.Predecessors, tt.predecessors)
			}
		})
	}
}

func TestRelatedHumanOutput(t *testing.T) {
	_, buf := setupCatalog(t)
	relatedJSON, relatedToon = false, false

	if err := runRelated(nil, []string{"A01"}); err != nil {
		t.Fatalf("related failed: %v", err)
	}

	output := buf.String()
	for _, want := range []string{
		"ICD-10-GM A01 (2023 → 2024)",
		"Status:      removed (redirected)",
		"Successor:   A02  [automatic forward]",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected output to contain %q\n%s", want, output)
		}
	}
}

func TestRelatedErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code cerrors.ErrorCode
	}{
		{"invalid format", []string{"12"}, cerrors.FormatError},
		{"unknown code", []string{"Z99.9"}, cerrors.CodeNotFound},
		{"missing year", []string{"A01", "2023", "2031"}, cerrors.YearNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupCatalog(t)
			relatedJSON, relatedToon = false, false

			err := runRelated(nil, tt.args)
			if got := cerrors.CodeOf(err); err == nil || got != tt.code {
				t.Errorf("error = %v (%s), want code %s", err, got, tt.code)
			}
		})
	}
}

func TestDirectionLabel(t *testing.T) {
	tests := []struct {
		forward, backward bool
		want              string
	}{
		{false, false, ""},
		{true, false, "  [automatic forward]"},
		{false, true, "  [automatic backward]"},
		{true, true, "  [automatic forward/backward]"},
	}
	for _, tt := range tests {
		if got := directionLabel(tt.forward, tt.backward); got != tt.want {
			t.Errorf("directionLabel(%v, %v) = %q, want %q", tt.forward, tt.backward, got, tt.want)
		}
	}
}
