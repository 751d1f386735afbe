package source

import (
	"sync"

	"github.com/pders01/catalog-delta/internal/models"
)

// Key identifies one catalog year
type Key struct {
	Variant models.Variant
	Year    int
}

// SnapshotCache keeps parsed snapshots in memory. When full, the oldest
// inserted snapshot is evicted. Safe for concurrent use.
type SnapshotCache struct {
	mu    sync.Mutex
	size  int
	order []Key
	items map[Key]*models.Snapshot
}

// NewSnapshotCache returns a cache holding at most size snapshots. A size
// of zero or less disables caching.
func NewSnapshotCache(size int) *SnapshotCache {
	return &SnapshotCache{
		size:  size,
		items: make(map[Key]*models.Snapshot),
	}
}

// Get returns a cached snapshot
func (c *SnapshotCache) Get(k Key) (*models.Snapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.items[k]
	return s, ok
}

// Put stores a snapshot, replacing any previous entry for the key
func (c *SnapshotCache) Put(k Key, s *models.Snapshot) {
	if c.size <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.items[k]; ok {
		c.items[k] = s
		return
	}

	for len(c.order) >= c.size {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.items, oldest)
	}
	c.order = append(c.order, k)
	c.items[k] = s
}

// Invalidate drops one snapshot
func (c *SnapshotCache) Invalidate(k Key) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.items[k]; !ok {
		return
	}
	delete(c.items, k)
	for i, key := range c.order {
		if key == k {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// Purge drops every snapshot
func (c *SnapshotCache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.order = nil
	c.items = make(map[Key]*models.Snapshot)
}

// Len returns the number of cached snapshots
func (c *SnapshotCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.items)
}
