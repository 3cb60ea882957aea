// Package wire defines the data model shared by every source of the
// point-lookup path: statements (spec §3) and the tuples they
// materialize into.
package wire

import (
	"sync/atomic"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/GreeD3X/tarantool/pkg/keyspace"
)

// StmtType is one of the four statement kinds spec §3 defines.
type StmtType uint8

const (
	// Replace fully determines the tuple at its LSN.
	Replace StmtType = iota
	// Insert fully determines the tuple at its LSN.
	Insert
	// Delete fully determines the tuple's absence at its LSN.
	Delete
	// Upsert is a partial-update delta; it must be composed with a
	// lower-LSN predecessor to yield a concrete tuple.
	Upsert
)

func (t StmtType) String() string {
	switch t {
	case Replace:
		return "REPLACE"
	case Insert:
		return "INSERT"
	case Delete:
		return "DELETE"
	case Upsert:
		return "UPSERT"
	default:
		return "UNKNOWN"
	}
}

// IsTerminal reports whether this statement type fully determines the
// tuple (or its absence) on its own, i.e. anything but UPSERT.
func (t StmtType) IsTerminal() bool { return t != Upsert }

// SourceTag identifies which scanner contributed a history node
// (spec §3 "Source tag").
type SourceTag uint8

const (
	SourceTxW SourceTag = iota
	SourceCache
	SourceMem
	SourceRun
)

func (s SourceTag) String() string {
	switch s {
	case SourceTxW:
		return "TxW"
	case SourceCache:
		return "Cache"
	case SourceMem:
		return "Mem"
	case SourceRun:
		return "Run"
	default:
		return "?"
	}
}

// Tuple is a materialized, reference-countable document value.
// It wraps a bson.D the way the teacher's pkg/storage documents do,
// but carries its own refcount (spec §6 Tuple contract: ref/unref/dup).
type Tuple struct {
	Doc  bson.D
	refs int32
}

// NewTuple wraps doc in a fresh tuple with one reference.
func NewTuple(doc bson.D) *Tuple {
	return &Tuple{Doc: doc, refs: 1}
}

// Ref increments the reference count and returns the same tuple, for
// call sites that want to adopt a tuple without duplicating it.
func (t *Tuple) Ref() *Tuple {
	if t == nil {
		return nil
	}
	atomic.AddInt32(&t.refs, 1)
	return t
}

// Unref decrements the reference count. The teacher's heap/mem
// storage has no GC-visible owner to release here, so Unref is a
// bookkeeping no-op beyond the counter itself; it exists so call
// sites follow the same ref/unref discipline as run statements do.
func (t *Tuple) Unref() {
	if t == nil {
		return
	}
	atomic.AddInt32(&t.refs, -1)
}

// RefCount reports the current reference count (test/debug only).
func (t *Tuple) RefCount() int32 {
	if t == nil {
		return 0
	}
	return atomic.LoadInt32(&t.refs)
}

// Dup returns a copy of t as a brand-new, independently owned tuple
// with one reference. Used when a mem-sourced terminal statement must
// escape the scanning scope (spec §3, §4.8). The top-level field list
// is copied, so fields of the copy can be reassigned without touching
// t; nested documents and arrays held in field values are not copied
// and remain shared with t.
func (t *Tuple) Dup() *Tuple {
	if t == nil {
		return nil
	}
	cp := make(bson.D, len(t.Doc))
	copy(cp, t.Doc)
	return NewTuple(cp)
}

// Statement is an opaque, reference-countable write record (spec §3).
type Statement struct {
	Type  StmtType
	Key   keyspace.Key
	Value *Tuple // nil for Delete; delta fields for Upsert
	LSN   uint64

	// refs is only meaningful (and only ever touched) for
	// SourceRun-tagged history nodes — see spec §3 "Source tag" (a):
	// only Run statements must be explicitly reference-acquired while
	// in the history, because only they live in memory that isn't
	// guaranteed to outlast a yield-safe window.
	refs int32
}

// NewStatement builds a statement with one reference already held by
// its origin (the mem-tree, the cache, or the caller's write set).
func NewStatement(typ StmtType, key keyspace.Key, value *Tuple, lsn uint64) *Statement {
	return &Statement{Type: typ, Key: key, Value: value, LSN: lsn, refs: 1}
}

// Ref acquires an additional reference, used when a Run-sourced
// statement is appended to a history (spec §3 (a)).
func (s *Statement) Ref() *Statement {
	if s == nil {
		return nil
	}
	atomic.AddInt32(&s.refs, 1)
	return s
}

// Unref releases a reference acquired via Ref.
func (s *Statement) Unref() {
	if s == nil {
		return
	}
	atomic.AddInt32(&s.refs, -1)
}

// RefCount reports the current reference count (test/debug only).
func (s *Statement) RefCount() int32 {
	if s == nil {
		return 0
	}
	return atomic.LoadInt32(&s.refs)
}
