// Package rcache is the shared result cache collaborator (spec §6
// Cache contract): a non-blocking point-lookup result cache that only
// ever stores full tuples or delete markers (never bare upserts).
//
// No caching library appears anywhere in the retrieved example pack
// (see DESIGN.md), so this mirrors the teacher's own hand-rolled,
// mutex-protected maps (LSNTracker, TransactionRegistry) rather than
// reaching for a third-party LRU.
package rcache

import (
	"sync"
	"sync/atomic"

	"github.com/GreeD3X/tarantool/pkg/keyspace"
	"github.com/GreeD3X/tarantool/pkg/wire"
)

type entry struct {
	stmt *wire.Statement // nil means "proven missing"
}

// Cache is the shared, snapshot-agnostic result cache. Entries are
// only ever installed under the "latest" view (spec §4.8 "Cache
// publication rule"), so every cached statement is implicitly visible
// at vlsn == MAX.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry

	hits   int64
	misses int64
}

// New creates an empty cache.
func New() *Cache {
	return &Cache{entries: make(map[string]entry)}
}

func cacheKey(index string, key keyspace.Key) string {
	return index + "\x00" + key.String()
}

// Get probes the cache for (index, key). found=false means "not
// cached"; found=true with a nil statement means "cached as proven
// missing" (spec §9 Open Question: the cache must distinguish the
// two). Non-blocking, as spec §6 requires.
func (c *Cache) Get(index string, key keyspace.Key) (stmt *wire.Statement, found bool) {
	c.mu.RLock()
	e, ok := c.entries[cacheKey(index, key)]
	c.mu.RUnlock()

	if ok {
		atomic.AddInt64(&c.hits, 1)
	} else {
		atomic.AddInt64(&c.misses, 1)
	}
	return e.stmt, ok
}

// Add installs a result under the latest view (spec §6 "Cache.add(stmt_or_none, key, EQ)").
// stmt may be nil to record a proven-absent key.
func (c *Cache) Add(index string, key keyspace.Key, stmt *wire.Statement) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[cacheKey(index, key)] = entry{stmt: stmt}
}

// Invalidate removes any cached entry for (index, key). The CORE
// doesn't call this itself (cache eviction policy is a non-goal), but
// a wired engine uses it when a write commits.
func (c *Cache) Invalidate(index string, key keyspace.Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, cacheKey(index, key))
}

// Stats reports hit/miss counters (test/diagnostics only).
func (c *Cache) Stats() (hits, misses int64) {
	return atomic.LoadInt64(&c.hits), atomic.LoadInt64(&c.misses)
}
