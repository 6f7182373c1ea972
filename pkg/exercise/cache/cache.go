// Package cache is the in-memory canonical record store. Entries expire
// lazily after a TTL; there is no sweeper. Every record is indexed under two
// keys, its id and its lower-cased name, so either form of a repeat query is
// an O(1) hit.
package cache

import (
	"strings"
	"sync"
	"time"

	"github.com/ripixel/demofit-server/pkg/exercise"
)

// DefaultTTL is how long a cached record is served before it is treated as
// absent and re-resolved from the remote gateway.
const DefaultTTL = 7 * 24 * time.Hour

type entry struct {
	record     exercise.Record
	insertedAt time.Time
}

// Cache is a process-local TTL cache. Concurrent reads and writes are safe;
// writers for the same key compute the same value, so last-writer-wins is
// acceptable.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time
}

// New creates an empty cache with the given TTL. A non-positive TTL uses
// DefaultTTL.
func New(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// TTL reports the configured expiry window.
func (c *Cache) TTL() time.Duration {
	return c.ttl
}

// Seed inserts the guaranteed local records. Called synchronously at startup
// before any other tier is consulted.
func (c *Cache) Seed(records []exercise.Record) {
	for i := range records {
		c.Put(records[i])
	}
}

// Get returns the record for key if present and younger than the TTL.
// Expired entries are reported absent without being swept.
func (c *Cache) Get(key string) (exercise.Record, bool) {
	key = strings.ToLower(key)

	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return exercise.Record{}, false
	}
	if c.now().Sub(e.insertedAt) > c.ttl {
		return exercise.Record{}, false
	}
	return e.record, true
}

// Put inserts the record under both its id and its lower-cased name.
func (c *Cache) Put(rec exercise.Record) {
	c.PutAt(rec, c.now())
}

// PutAt inserts with an explicit timestamp; used by snapshot restore and by
// tests exercising expiry.
func (c *Cache) PutAt(rec exercise.Record, insertedAt time.Time) {
	e := entry{record: rec, insertedAt: insertedAt}

	c.mu.Lock()
	defer c.mu.Unlock()
	if rec.ID != "" {
		c.entries[strings.ToLower(rec.ID)] = e
	}
	if key := rec.Key(); key != "" {
		c.entries[key] = e
	}
}

// PutAlias additionally indexes an already-cached record under the raw query
// that resolved to it, so synonymous repeat queries hit directly.
func (c *Cache) PutAlias(key string, rec exercise.Record) {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" || key == rec.Key() || strings.EqualFold(key, rec.ID) {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{record: rec, insertedAt: c.now()}
}

// Clear drops every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
}

// Len reports the number of live (unexpired) entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	n := 0
	cutoff := c.now().Add(-c.ttl)
	for _, e := range c.entries {
		if e.insertedAt.After(cutoff) {
			n++
		}
	}
	return n
}

// Scan calls fn for every live entry until fn returns false. Used by the
// orchestrator's partial-match tier.
func (c *Cache) Scan(fn func(key string, rec exercise.Record) bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	cutoff := c.now().Add(-c.ttl)
	for key, e := range c.entries {
		if !e.insertedAt.After(cutoff) {
			continue
		}
		if !fn(key, e.record) {
			return
		}
	}
}

// Snapshot exports the live entries for durable persistence.
func (c *Cache) Snapshot() []exercise.SnapshotEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	cutoff := c.now().Add(-c.ttl)
	out := make([]exercise.SnapshotEntry, 0, len(c.entries))
	for key, e := range c.entries {
		if !e.insertedAt.After(cutoff) {
			continue
		}
		out = append(out, exercise.SnapshotEntry{
			Key:        key,
			Record:     e.record,
			InsertedAt: e.insertedAt,
		})
	}
	return out
}

// Restore seeds the cache from a durable snapshot, keeping original insert
// times so TTL expiry carries across restarts.
func (c *Cache) Restore(entries []exercise.SnapshotEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, se := range entries {
		key := strings.ToLower(se.Key)
		if key == "" {
			continue
		}
		c.entries[key] = entry{record: se.Record, insertedAt: se.InsertedAt}
	}
}
