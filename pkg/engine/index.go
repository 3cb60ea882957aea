// Package engine implements the `Index` collaborator spec §3 and §6
// describe as external to the core: the mutable mem-tree list, the
// range tree, the shared cache, stats counters, and the environment
// holding the "too-long" latency threshold. Grounded on the teacher's
// pkg/storage/table.go Index/Table pairing, generalized from a single
// B+Tree to the mem-list + range-tree + cache triple spec §3 requires.
package engine

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/GreeD3X/tarantool/pkg/keyspace"
	"github.com/GreeD3X/tarantool/pkg/memtable"
	"github.com/GreeD3X/tarantool/pkg/rcache"
	"github.com/GreeD3X/tarantool/pkg/rundisk"
)

// Env holds the per-index tunables the orchestrator consults (spec §3
// "an environment holding a too-long latency threshold").
type Env struct {
	TooLong time.Duration
}

// Index is the mutable handle a lookup is run against: everything the
// CORE treats as an external collaborator it reaches through.
type Index struct {
	Name string

	// CmpDef is the full-key ordering comparator; KeyDef is the
	// identity-only comparator (spec §3 "two comparators").
	CmpDef *keyspace.KeyDef
	KeyDef *keyspace.KeyDef

	Cache     *rcache.Cache
	RangeTree *rundisk.RangeTree
	Env       Env

	memTreeArity int
	memMu        sync.RWMutex
	active       *memtable.Tree
	sealed       []*memtable.Tree // index 0 is the most recently sealed
	version      uint32           // mem_list_version

	metrics *Metrics

	lookups int64
	gets    int64
	txwHits int64
	cacheOK int64
}

// NewIndex constructs an index with a fresh empty active mem.
// memTreeArity is the B+Tree branching factor new mems are created
// with (mirrors the teacher's NewTableMenager(t int) parameter).
func NewIndex(name string, cmpDef, keyDef *keyspace.KeyDef, memTreeArity int, env Env, m *Metrics) *Index {
	return &Index{
		Name:         name,
		CmpDef:       cmpDef,
		KeyDef:       keyDef,
		Cache:        rcache.New(),
		RangeTree:    rundisk.NewRangeTree(),
		Env:          env,
		memTreeArity: memTreeArity,
		active:       memtable.NewTree(memTreeArity),
		metrics:      m,
	}
}

// MemListVersion reads the current mem-list generation (spec §6
// "Index.mem_list_version: u32 counter; any change invalidates
// mem-sourced refs").
func (idx *Index) MemListVersion() uint32 { return atomic.LoadUint32(&idx.version) }

// Mems returns a consistent (active, sealed) snapshot paired with the
// version it was taken under, for the lookup orchestrator's restart
// check (spec §4.9 steps 8/10).
func (idx *Index) Mems() (memtable.Mems, uint32) {
	idx.memMu.RLock()
	defer idx.memMu.RUnlock()

	sealedCopy := make([]*memtable.Tree, len(idx.sealed))
	copy(sealedCopy, idx.sealed)
	return memtable.Mems{Active: idx.active, Sealed: sealedCopy}, idx.version
}

// Seal rotates the active mem into the sealed list and starts a fresh
// active mem, bumping mem_list_version (a benign rotation per spec
// §4.9's rationale — it doesn't reclaim memory, but the orchestrator
// conservatively restarts on it anyway).
func (idx *Index) Seal() {
	idx.memMu.Lock()
	defer idx.memMu.Unlock()

	idx.sealed = append([]*memtable.Tree{idx.active}, idx.sealed...)
	idx.active = memtable.NewTree(idx.memTreeArity)
	atomic.AddUint32(&idx.version, 1)
}

// DumpSealed removes the oldest sealed mem (simulating a completed
// dump to a Run) and bumps mem_list_version. This is the case spec
// §4.9's rationale warns about: memory a history may still reference
// can be reclaimed here, which is exactly why any version change
// forces a restart rather than being inspected for "was it benign".
func (idx *Index) DumpSealed() {
	idx.memMu.Lock()
	defer idx.memMu.Unlock()

	if len(idx.sealed) == 0 {
		return
	}
	idx.sealed = idx.sealed[:len(idx.sealed)-1]
	atomic.AddUint32(&idx.version, 1)
}

func (idx *Index) BumpLookup() {
	atomic.AddInt64(&idx.lookups, 1)
	if idx.metrics != nil {
		idx.metrics.Lookups.WithLabelValues(idx.Name).Inc()
	}
}

func (idx *Index) BumpGet() {
	atomic.AddInt64(&idx.gets, 1)
	if idx.metrics != nil {
		idx.metrics.Gets.WithLabelValues(idx.Name).Inc()
	}
}

func (idx *Index) BumpTxW() {
	atomic.AddInt64(&idx.txwHits, 1)
	if idx.metrics != nil {
		idx.metrics.TxWHits.WithLabelValues(idx.Name).Inc()
	}
}

func (idx *Index) BumpCache(hit bool) {
	atomic.AddInt64(&idx.cacheOK, 1)
	if idx.metrics != nil {
		if hit {
			idx.metrics.CacheHits.WithLabelValues(idx.Name).Inc()
		} else {
			idx.metrics.CacheMisses.WithLabelValues(idx.Name).Inc()
		}
	}
}

// BumpRestart records a lookup restart forced by a mem_list_version
// change observed after the slice scan (spec §4.9 step 10).
func (idx *Index) BumpRestart() {
	if idx.metrics != nil {
		idx.metrics.Restarts.WithLabelValues(idx.Name).Inc()
	}
}

// ObserveLatency feeds one call's elapsed seconds to the latency
// collector (spec §6 "Latency collector: collect(seconds)").
func (idx *Index) ObserveLatency(seconds float64) {
	if idx.metrics != nil {
		idx.metrics.Latency.WithLabelValues(idx.Name).Observe(seconds)
	}
}

// BumpTooLong records a lookup whose latency exceeded the index's
// configured threshold (spec §4.9 step 13).
func (idx *Index) BumpTooLong() {
	if idx.metrics != nil {
		idx.metrics.TooLong.WithLabelValues(idx.Name).Inc()
	}
}

// Stats reports the raw counters (test/diagnostics only).
func (idx *Index) Stats() (lookups, gets, txwHits, cacheOK int64) {
	return atomic.LoadInt64(&idx.lookups), atomic.LoadInt64(&idx.gets),
		atomic.LoadInt64(&idx.txwHits), atomic.LoadInt64(&idx.cacheOK)
}
