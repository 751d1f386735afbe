package testutil

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
)

// TempCatalog is an in-memory catalog data directory for testing
type TempCatalog struct {
	Fs   afero.Fs
	Root string
	T    *testing.T
}

// NewTempCatalog creates an empty in-memory data directory
func NewTempCatalog(t *testing.T) *TempCatalog {
	t.Helper()

	fs := afero.NewMemMapFs()
	root := "/data"
	if err := fs.MkdirAll(root, 0755); err != nil {
		t.Fatalf("failed to create data dir: %v", err)
	}

	return &TempCatalog{
		Fs:   fs,
		Root: root,
		T:    t,
	}
}

// NewFixtureCatalog creates a data directory holding both fixture years of
// both variants plus their crosswalks
func NewFixtureCatalog(t *testing.T) *TempCatalog {
	t.Helper()

	c := NewTempCatalog(t)
	c.WriteYear("icd", 2023, ICD2023())
	c.WriteYear("icd", 2024, ICD2024())
	c.WriteYear("ops", 2023, OPS2023())
	c.WriteYear("ops", 2024, OPS2024())
	c.WriteMigration("icd", "2023_2024.txt", ICDMigration)
	c.WriteMigration("ops", "umsteiger_2023_2024.txt", OPSMigration)
	return c
}

// CreateFile writes a file relative to the data directory
func (c *TempCatalog) CreateFile(name, content string) {
	c.T.Helper()
	path := filepath.Join(c.Root, name)
	if err := c.Fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		c.T.Fatalf("failed to create directory: %v", err)
	}
	if err := afero.WriteFile(c.Fs, path, []byte(content), 0644); err != nil {
		c.T.Fatalf("failed to create file: %v", err)
	}
}

// WriteYear writes the files of one catalog year; files maps kind to content
func (c *TempCatalog) WriteYear(variant string, year int, files map[string]string) {
	c.T.Helper()
	for kind, content := range files {
		c.CreateFile(filepath.Join(variant, fmt.Sprint(year), kind+".txt"), content)
	}
}

// WriteMigration writes a crosswalk file under the variant's migrations dir
func (c *TempCatalog) WriteMigration(variant, name, content string) {
	c.T.Helper()
	c.CreateFile(filepath.Join(variant, "migrations", name), content)
}

// FileExists checks if a file exists relative to the data directory
func (c *TempCatalog) FileExists(name string) bool {
	c.T.Helper()
	ok, err := afero.Exists(c.Fs, filepath.Join(c.Root, name))
	return err == nil && ok
}
