// Package source reads raw catalog and crosswalk text from a directory tree
// and turns it into snapshots and migration maps.
//
// Layout:
//
//	<root>/<variant>/<year>/codes.txt
//	<root>/<variant>/<year>/groups.txt
//	<root>/<variant>/<year>/chapters.txt
//	<root>/<variant>/<year>/threedigit.txt   (ops only)
//	<root>/<variant>/migrations/<old>_<new>.txt
package source

import (
	"bytes"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strconv"
	"unicode/utf8"

	"github.com/spf13/afero"
	"golang.org/x/text/encoding/charmap"

	cerrors "github.com/pders01/catalog-delta/internal/errors"
	"github.com/pders01/catalog-delta/internal/migration"
	"github.com/pders01/catalog-delta/internal/models"
	"github.com/pders01/catalog-delta/internal/parser"
)

// MigrationDir is the crosswalk directory below a variant directory
const MigrationDir = "migrations"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CatalogSource supplies the raw files of one catalog year
type CatalogSource interface {
	Years(variant models.Variant) ([]int, error)
	ReadCatalog(variant models.Variant, year int) (parser.RawFiles, error)
}

// MigrationSource supplies raw crosswalk text. Found is false when no
// crosswalk exists for the year pair.
type MigrationSource interface {
	ReadMigration(variant models.Variant, oldYear, newYear int) (raw string, found bool, err error)
}

// FS implements both sources over an afero filesystem
type FS struct {
	fs   afero.Fs
	root string
}

// NewFS returns a source rooted at root
func NewFS(fs afero.Fs, root string) *FS {
	return &FS{fs: fs, root: root}
}

// Years lists the available years of a variant in ascending order
func (s *FS) Years(variant models.Variant) ([]int, error) {
	dir := filepath.Join(s.root, string(variant))
	exists, err := afero.DirExists(s.fs, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", dir, err)
	}
	if !exists {
		return nil, nil
	}

	infos, err := afero.ReadDir(s.fs, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", dir, err)
	}

	var years []int
	for _, info := range infos {
		if !info.IsDir() {
			continue
		}
		year, err := strconv.Atoi(info.Name())
		if err != nil {
			continue
		}
		years = append(years, year)
	}
	sort.Ints(years)
	return years, nil
}

func (s *FS) yearDir(variant models.Variant, year int) string {
	return filepath.Join(s.root, string(variant), strconv.Itoa(year))
}

// ReadCatalog reads all files of one year. The codes, groups and chapters
// files are required; the three-digit file is optional.
func (s *FS) ReadCatalog(variant models.Variant, year int) (parser.RawFiles, error) {
	dir := s.yearDir(variant, year)
	exists, err := afero.DirExists(s.fs, dir)
	if err != nil {
		return parser.RawFiles{}, cerrors.New(cerrors.InternalError, "failed to stat "+dir, err)
	}
	if !exists {
		return parser.RawFiles{}, cerrors.Newf(cerrors.YearNotFound, "no %s catalog for %d", variant.Label(), year)
	}

	var files parser.RawFiles
	for _, kind := range parser.Kinds(variant) {
		path := filepath.Join(dir, string(kind)+".txt")
		raw, err := afero.ReadFile(s.fs, path)
		if err != nil {
			if kind == parser.KindThreeDigit {
				slog.Warn("three-digit file missing", "path", path)
				continue
			}
			return parser.RawFiles{}, cerrors.New(cerrors.CatalogIncomplete,
				fmt.Sprintf("%s %d is missing %s.txt", variant.Label(), year, kind), err)
		}

		text := Decode(raw)
		switch kind {
		case parser.KindCodes:
			files.Codes = text
		case parser.KindGroups:
			files.Groups = text
		case parser.KindChapters:
			files.Chapters = text
		case parser.KindThreeDigit:
			files.ThreeDigit = text
		}
	}
	return files, nil
}

// MigrationNames returns the crosswalk file names tried for a year pair, in
// order
func MigrationNames(variant models.Variant, oldYear, newYear int) []string {
	return []string{
		fmt.Sprintf("%d_%d.txt", oldYear, newYear),
		fmt.Sprintf("umsteiger_%d_%d.txt", oldYear, newYear),
		fmt.Sprintf("%s_%d_%d_umsteiger.txt", variant, oldYear, newYear),
	}
}

// ReadMigration returns the first crosswalk file that exists and holds
// data. HTML content is skipped.
func (s *FS) ReadMigration(variant models.Variant, oldYear, newYear int) (string, bool, error) {
	dir := filepath.Join(s.root, string(variant), MigrationDir)

	for _, name := range MigrationNames(variant, oldYear, newYear) {
		path := filepath.Join(dir, name)
		exists, err := afero.Exists(s.fs, path)
		if err != nil {
			return "", false, fmt.Errorf("failed to stat %s: %w", path, err)
		}
		if !exists {
			continue
		}

		raw, err := afero.ReadFile(s.fs, path)
		if err != nil {
			return "", false, fmt.Errorf("failed to read %s: %w", path, err)
		}
		text := Decode(raw)
		if migration.IsHTML(text) {
			slog.Warn("crosswalk file holds HTML, skipping", "path", path)
			continue
		}
		return text, true, nil
	}

	return "", false, nil
}

// Decode strips a UTF-8 byte order mark and decodes content that is not
// valid UTF-8 as ISO-8859-1
func Decode(raw []byte) string {
	raw = bytes.TrimPrefix(raw, utf8BOM)
	if utf8.Valid(raw) {
		return string(raw)
	}

	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		return string(raw)
	}
	return string(decoded)
}
