package embeddings

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/afero"

	"github.com/pders01/catalog-delta/internal/models"
)

// Store caches description vectors as little-endian float64 files below
// <dir>/<model>/<variant>/<year>/<code>.bin
type Store struct {
	fs    afero.Fs
	dir   string
	model string
}

// NewStore returns a store rooted at dir for one embedding model
func NewStore(fs afero.Fs, dir, model string) *Store {
	return &Store{fs: fs, dir: dir, model: model}
}

// Path returns the vector file of a code
func (s *Store) Path(variant models.Variant, year int, code string) string {
	name := strings.NewReplacer("/", "_", ":", "_").Replace(code) + ".bin"
	return filepath.Join(s.dir, s.model, string(variant), strconv.Itoa(year), name)
}

// Write stores a vector
func (s *Store) Write(variant models.Variant, year int, code string, vec []float64) error {
	if err := Validate(vec); err != nil {
		return err
	}

	path := s.Path(variant, year, code)
	if err := s.fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create embedding dir: %w", err)
	}

	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, vec); err != nil {
		return fmt.Errorf("failed to encode embedding: %w", err)
	}
	if err := afero.WriteFile(s.fs, path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write embedding file: %w", err)
	}
	return nil
}

// Read loads a vector; ok is false when none is cached
func (s *Store) Read(variant models.Variant, year int, code string) (vec []float64, ok bool, err error) {
	path := s.Path(variant, year, code)
	exists, err := afero.Exists(s.fs, path)
	if err != nil || !exists {
		return nil, false, err
	}

	raw, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read embedding file: %w", err)
	}
	if len(raw) == 0 || len(raw)%8 != 0 {
		return nil, false, fmt.Errorf("invalid embedding file size: %d", len(raw))
	}

	vec = make([]float64, len(raw)/8)
	if err := binary.Read(bytes.NewReader(raw), binary.LittleEndian, vec); err != nil {
		return nil, false, fmt.Errorf("failed to decode embedding: %w", err)
	}
	return vec, true, nil
}

// Validate rejects empty vectors and vectors holding NaN or Inf
func Validate(vec []float64) error {
	if len(vec) == 0 {
		return fmt.Errorf("embedding vector is empty")
	}
	for i, v := range vec {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("embedding contains invalid value at index %d: %v", i, v)
		}
	}
	return nil
}
