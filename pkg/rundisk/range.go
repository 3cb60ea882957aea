package rundisk

import (
	"sync"

	"github.com/google/uuid"

	"github.com/GreeD3X/tarantool/pkg/keyspace"
)

// Range owns an ordered list of disk slices covering a contiguous
// keyspace partition (spec §3 "Range"). The list is kept newest-first
// (each new dump or compaction output is prepended), so the slices
// scanner (pkg/lookup §4.7) can walk it in plain array order and still
// get newest-to-oldest precedence.
type Range struct {
	ID     string
	mu     sync.RWMutex
	lo, hi keyspace.Key
	slices []*Slice
}

// NewRange constructs a range covering [lo, hi], identified by a
// fresh V7 UUID the way the teacher's engine.go GenerateKey() mints
// row identity.
func NewRange(lo, hi keyspace.Key) *Range {
	return &Range{ID: newID(), lo: lo, hi: hi}
}

func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		panic(err)
	}
	return id.String()
}

// Append adds a newly-dumped or newly-compacted slice to the range,
// keeping the list newest-first.
func (r *Range) Append(s *Slice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.slices = append([]*Slice{s}, r.slices...)
}

// Slices returns a snapshot copy of the range's slice list, newest
// first.
func (r *Range) Slices() []*Slice {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Slice, len(r.slices))
	copy(out, r.slices)
	return out
}

// SliceCount reports the range's current slice_count (spec §3).
func (r *Range) SliceCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.slices)
}

func (r *Range) covers(key keyspace.Key) bool {
	return r.lo.Compare(key) <= 0 && r.hi.Compare(key) >= 0
}

// RangeTree maps keys to the owning Range. Its total-cover invariant
// (spec §4.7 step 1: "this must succeed") means every key in the
// index's declared domain falls inside exactly one range; callers
// construct it with ranges that partition the full keyspace.
type RangeTree struct {
	mu     sync.RWMutex
	ranges []*Range
}

func NewRangeTree() *RangeTree { return &RangeTree{} }

// AddRange registers a range as part of the tree's coverage.
func (t *RangeTree) AddRange(r *Range) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.ranges = append(t.ranges, r)
}

// FindByKey performs the exact-match owning-range query (spec §6
// "Range tree.find_by_key(EQ, key)").
func (t *RangeTree) FindByKey(key keyspace.Key) (*Range, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, r := range t.ranges {
		if r.covers(key) {
			return r, true
		}
	}
	return nil, false
}
