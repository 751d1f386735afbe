package source

import (
	"context"
	"fmt"

	"github.com/sourcegraph/conc/pool"

	"github.com/pders01/catalog-delta/internal/catalog"
	cerrors "github.com/pders01/catalog-delta/internal/errors"
	"github.com/pders01/catalog-delta/internal/logging"
	"github.com/pders01/catalog-delta/internal/migration"
	"github.com/pders01/catalog-delta/internal/models"
	"github.com/pders01/catalog-delta/internal/parser"
)

// Loader parses catalog years on demand and caches the snapshots
type Loader struct {
	catalogs   CatalogSource
	migrations MigrationSource
	cache      *SnapshotCache
}

// NewLoader wires the sources to a cache
func NewLoader(catalogs CatalogSource, migrations MigrationSource, cache *SnapshotCache) *Loader {
	if cache == nil {
		cache = NewSnapshotCache(0)
	}
	return &Loader{catalogs: catalogs, migrations: migrations, cache: cache}
}

// Years lists the available years of a variant
func (l *Loader) Years(variant models.Variant) ([]int, error) {
	return l.catalogs.Years(variant)
}

// Snapshot returns the parsed catalog year, from cache when possible
func (l *Loader) Snapshot(ctx context.Context, variant models.Variant, year int) (*models.Snapshot, error) {
	key := Key{Variant: variant, Year: year}
	if snap, ok := l.cache.Get(key); ok {
		return snap, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	log := logging.WithFields(ctx, "variant", variant, "year", year)
	log.Debug("loading catalog")

	files, err := l.catalogs.ReadCatalog(variant, year)
	if err != nil {
		return nil, err
	}

	snap := parser.ParseCatalog(files, variant, year)
	if len(snap.Codes) == 0 {
		log.Warn("catalog holds no codes")
	}
	l.cache.Put(key, snap)
	return snap, nil
}

// Index returns a lookup index over the catalog year
func (l *Loader) Index(ctx context.Context, variant models.Variant, year int) (*catalog.Index, error) {
	snap, err := l.Snapshot(ctx, variant, year)
	if err != nil {
		return nil, err
	}
	return catalog.NewIndex(snap), nil
}

// Migration loads the crosswalk of a year pair. A missing or unreadable
// crosswalk yields an empty map that reports no migration data.
func (l *Loader) Migration(ctx context.Context, variant models.Variant, oldYear, newYear int) (*migration.Map, error) {
	if l.migrations == nil {
		return migration.Empty(variant), nil
	}

	raw, found, err := l.migrations.ReadMigration(variant, oldYear, newYear)
	if err != nil {
		logging.WithFields(ctx, "variant", variant, "old", oldYear, "new", newYear).
			Warn("crosswalk unreadable, comparing without it", "error", err)
		return migration.Empty(variant), nil
	}
	if !found {
		logging.WithFields(ctx, "variant", variant, "old", oldYear, "new", newYear).
			Info("no crosswalk for year pair")
		return migration.Empty(variant), nil
	}
	return migration.Load(raw, variant), nil
}

// Pair holds everything a comparison of two years needs
type Pair struct {
	Old       *catalog.Index
	New       *catalog.Index
	Migration *migration.Map
}

// LoadPair loads both years and their crosswalk concurrently
func (l *Loader) LoadPair(ctx context.Context, variant models.Variant, oldYear, newYear int) (*Pair, error) {
	if oldYear == newYear {
		return nil, cerrors.Newf(cerrors.YearNotFound, "cannot compare %d with itself", oldYear).
			WithAction("pass two different years")
	}

	var pair Pair
	p := pool.New().WithErrors().WithContext(ctx)

	p.Go(func(ctx context.Context) error {
		ix, err := l.Index(ctx, variant, oldYear)
		if err != nil {
			return fmt.Errorf("old year: %w", err)
		}
		pair.Old = ix
		return nil
	})
	p.Go(func(ctx context.Context) error {
		ix, err := l.Index(ctx, variant, newYear)
		if err != nil {
			return fmt.Errorf("new year: %w", err)
		}
		pair.New = ix
		return nil
	})
	p.Go(func(ctx context.Context) error {
		m, err := l.Migration(ctx, variant, oldYear, newYear)
		if err != nil {
			return fmt.Errorf("crosswalk: %w", err)
		}
		pair.Migration = m
		return nil
	})

	if err := p.Wait(); err != nil {
		return nil, err
	}
	return &pair, nil
}

// Migrations returns the crosswalk source
func (l *Loader) Migrations() MigrationSource {
	return l.migrations
}
