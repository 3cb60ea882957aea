// Package rundisk provides the on-disk "run" collaborators spec §1
// names as external, interface-only dependencies: Run, Slice, Range,
// and the equal-key RunIterator. The run *file format* is an explicit
// non-goal, so this package models a run as an immutable, already
// "opened" sorted sequence of entries rather than inventing an on-disk
// byte layout — the teacher's pkg/heap gives segments a real file
// format because its scope includes recovery; ours doesn't.
//
// What IS real here: tuple payloads are bson-marshaled and zstd
// compressed exactly the way a dumped run would store them, so
// opening a record back into a *wire.Statement does real
// decompression/unmarshal work instead of being a bookkeeping shim.
package rundisk

import (
	"sort"
	"sync"

	"github.com/DataDog/zstd"
	"github.com/cockroachdb/errors"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/GreeD3X/tarantool/pkg/keyspace"
	"github.com/GreeD3X/tarantool/pkg/wire"
)

// record is one frozen version of a key inside a run, newest-first
// within a key via the builder's sort.
type record struct {
	key     keyspace.Key
	lsn     uint64
	typ     wire.StmtType
	payload []byte // zstd(bson(doc)); nil for DELETE
}

// Run is an immutable, already-sorted run segment held in memory: (key
// asc, lsn desc), mirroring the mem-tree's composite order so the equal-key
// iterator can reuse the same positioning logic.
type Run struct {
	records []record
	minKey  keyspace.Key
	maxKey  keyspace.Key
}

// Builder accumulates records for one run before it is frozen.
// Grounded on the teacher's heap.HeapManager write path, minus the
// segment-file bookkeeping this package's scope excludes.
type Builder struct {
	recs []record
}

func NewBuilder() *Builder { return &Builder{} }

// Add compresses doc (nil for a delete marker) and appends one version.
func (b *Builder) Add(key keyspace.Key, lsn uint64, typ wire.StmtType, doc bson.D) error {
	var payload []byte
	if doc != nil {
		raw, err := bson.Marshal(doc)
		if err != nil {
			return errors.Wrap(err, "marshal run record payload")
		}
		compressed, err := zstd.Compress(nil, raw)
		if err != nil {
			return errors.Wrap(err, "compress run record payload")
		}
		payload = compressed
	}
	b.recs = append(b.recs, record{key: key, lsn: lsn, typ: typ, payload: payload})
	return nil
}

// Build freezes the accumulated records into a Run, sorted (key asc,
// lsn desc) the way a dump would merge a sealed mem's delta chains.
func (b *Builder) Build() *Run {
	recs := make([]record, len(b.recs))
	copy(recs, b.recs)
	sort.Slice(recs, func(i, j int) bool {
		if c := recs[i].key.Compare(recs[j].key); c != 0 {
			return c < 0
		}
		return recs[i].lsn > recs[j].lsn
	})

	r := &Run{records: recs}
	if len(recs) > 0 {
		r.minKey = recs[0].key
		r.maxKey = recs[len(recs)-1].key
	}
	return r
}

// Covers reports whether key could possibly have an entry in this run,
// via cheap min/max bounds (not an existence check).
func (r *Run) Covers(key keyspace.Key) bool {
	if len(r.records) == 0 {
		return false
	}
	return r.minKey.Compare(key) <= 0 && r.maxKey.Compare(key) >= 0
}

func materialize(rec record) (*wire.Statement, error) {
	var doc bson.D
	if rec.payload != nil {
		raw, err := zstd.Decompress(nil, rec.payload)
		if err != nil {
			return nil, errors.Wrap(err, "decompress run record payload")
		}
		if err := bson.Unmarshal(raw, &doc); err != nil {
			return nil, errors.Wrap(err, "unmarshal run record payload")
		}
	}
	var tup *wire.Tuple
	if doc != nil {
		tup = wire.NewTuple(doc)
	}
	return wire.NewStatement(rec.typ, rec.key, tup, rec.lsn), nil
}

// Slice is a keyrange window over a Run, referenced by a Range. Pin
// prevents compaction from reclaiming the underlying run while a scan
// has it open; Unpin releases that guarantee (spec §4.7 step 3).
type Slice struct {
	ID   string
	run  *Run
	refs int32
	mu   sync.Mutex
}

// NewSlice wraps run in a slice identified by a fresh V7 UUID.
func NewSlice(run *Run) *Slice { return &Slice{ID: newID(), run: run} }

func (s *Slice) Pin() {
	s.mu.Lock()
	s.refs++
	s.mu.Unlock()
}

func (s *Slice) Unpin() {
	s.mu.Lock()
	s.refs--
	s.mu.Unlock()
}

func (s *Slice) RefCount() int32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refs
}

// OpenIterator opens an equal-key run iterator bound to rv (spec §6
// "RunIterator.open(EQ, key, rv)").
func (s *Slice) OpenIterator(key keyspace.Key, rv uint64) *RunIterator {
	return &RunIterator{run: s.run, key: key, rv: rv, pos: -1, started: false}
}
