package inventory

import (
	"context"
	"sync"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/lexfrei/plugcheck/pkg/metrics"
	"github.com/lexfrei/plugcheck/pkg/requirement"
)

// cacheEntry represents a cached snapshot with expiration.
type cacheEntry struct {
	snapshot  requirement.MapFinder
	expiresAt time.Time
}

// CachedSource wraps a Source with an in-memory snapshot cache.
type CachedSource struct {
	name     string
	source   Source
	recorder metrics.Recorder
	ttl      time.Duration

	mu    sync.RWMutex
	entry *cacheEntry

	// now is replaceable in tests.
	now func() time.Time
}

// NewCachedSource creates a caching wrapper around source. name labels the
// source in metrics. A nil recorder disables metrics.
func NewCachedSource(name string, source Source, ttl time.Duration, recorder metrics.Recorder) *CachedSource {
	if recorder == nil {
		recorder = &metrics.NoopRecorder{}
	}

	return &CachedSource{
		name:     name,
		source:   source,
		recorder: recorder,
		ttl:      ttl,
		now:      time.Now,
	}
}

// Snapshot returns the cached snapshot or loads a fresh one from the underlying source.
func (c *CachedSource) Snapshot(ctx context.Context) (requirement.MapFinder, error) {
	// Check cache first
	c.mu.RLock()
	entry := c.entry
	c.mu.RUnlock()

	if entry != nil && c.now().Before(entry.expiresAt) {
		return entry.snapshot, nil
	}

	return c.Refresh(ctx)
}

// Refresh loads a fresh snapshot regardless of expiry. On failure the previous
// snapshot, if any, stays cached.
func (c *CachedSource) Refresh(ctx context.Context) (requirement.MapFinder, error) {
	start := c.now()
	snapshot, err := c.source.Snapshot(ctx)
	c.recorder.RecordInventoryLoad(c.name, err, c.now().Sub(start))

	if err != nil {
		return nil, errors.Wrapf(err, "failed to load %s inventory", c.name)
	}

	c.mu.Lock()
	c.entry = &cacheEntry{
		snapshot:  snapshot,
		expiresAt: c.now().Add(c.ttl),
	}
	c.mu.Unlock()

	return snapshot, nil
}

// Invalidate drops the cached snapshot.
func (c *CachedSource) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entry = nil
}
