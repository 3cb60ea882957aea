// Package txmgr is the external Tx collaborator (spec §6): a
// transaction's write set and the registry that tracks read-intent so
// a concurrent commit can force a reader into a safe snapshot rather
// than let it publish a stale cache entry (spec §5 "Cache
// publication policy").
//
// Grounded on the teacher's pkg/storage/transaction_write.go
// (buffered writeOps, committed/aborted guard) and
// pkg/storage/transaction_manager.go (TransactionRegistry's
// min-active-LSN bookkeeping over a mutex-protected map).
package txmgr

import (
	"sync"

	"github.com/google/uuid"

	"github.com/GreeD3X/tarantool/pkg/errs"
	"github.com/GreeD3X/tarantool/pkg/keyspace"
	"github.com/GreeD3X/tarantool/pkg/wire"
)

// WriteEntry is one buffered write in a transaction's write set.
type WriteEntry struct {
	Index string
	Stmt  *wire.Statement
}

// Tx is an in-flight transaction: an identity, its buffered write set,
// and a pointer back to the registry it's tracked read-intent in.
type Tx struct {
	ID       string
	registry *Registry

	mu       sync.Mutex
	writeSet map[string]WriteEntry // key: index + "\x00" + key.String()
}

// NewTx begins a transaction registered with reg.
func NewTx(reg *Registry) *Tx {
	id, err := uuid.NewV7()
	if err != nil {
		// Matches the teacher's engine.go GenerateKey: a V7 UUID
		// failure means the entropy source is broken, a condition we
		// don't try to recover from either.
		panic(err)
	}
	tx := &Tx{ID: id.String(), registry: reg, writeSet: make(map[string]WriteEntry)}
	return tx
}

func writeSetKey(index string, key keyspace.Key) string {
	return index + "\x00" + key.String()
}

// Put buffers a write in this transaction's write set (spec §6
// "write_set.search" contract; this is the writer side of it).
func (tx *Tx) Put(index string, key keyspace.Key, stmt *wire.Statement) {
	tx.mu.Lock()
	defer tx.mu.Unlock()
	tx.writeSet[writeSetKey(index, key)] = WriteEntry{Index: index, Stmt: stmt}
}

// Search returns at most one write-set entry for (index, key)
// (spec §6 "Tx.write_set.search(index, key) -> at most one entry").
func (tx *Tx) Search(index string, key keyspace.Key) (WriteEntry, bool) {
	tx.mu.Lock()
	defer tx.mu.Unlock()
	e, ok := tx.writeSet[writeSetKey(index, key)]
	return e, ok
}

// TrackPoint registers read-intent for (index, key) with the registry
// (spec §4.9 step 3). Returns errs.TxTrackFailure if the registry is
// at capacity.
func (tx *Tx) TrackPoint(index string, key keyspace.Key) error {
	return tx.registry.trackPoint(tx, index, key)
}

// Close unregisters the transaction (teacher's engine.go Transaction.Close).
func (tx *Tx) Close() { tx.registry.unregister(tx) }

type trackedPoint struct {
	index string
	key   string
}

// Registry is the transaction manager: it tracks active transactions'
// read-intent so a concurrent writer knows to force affected readers
// into a safe view. It keeps no snapshot LSNs.
type Registry struct {
	mu sync.Mutex

	capacity int // 0 = unbounded
	points   map[trackedPoint]map[*Tx]struct{}
	total    int
}

// NewRegistry creates a registry. capacity bounds the total number of
// tracked (tx, index, key) read-intent entries; 0 means unbounded.
func NewRegistry(capacity int) *Registry {
	return &Registry{capacity: capacity, points: make(map[trackedPoint]map[*Tx]struct{})}
}

func (r *Registry) trackPoint(tx *Tx, index string, key keyspace.Key) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := trackedPoint{index: index, key: key.String()}
	set, ok := r.points[p]
	if _, already := set[tx]; already {
		return nil
	}

	if r.capacity > 0 && r.total >= r.capacity {
		return errs.TxTrackFailure(errOutOfTrackingSlots)
	}

	if !ok {
		set = make(map[*Tx]struct{})
		r.points[p] = set
	}
	set[tx] = struct{}{}
	r.total++
	return nil
}

// ForceSnapshot reports whether any transaction is tracking read-intent
// on (index, key) right now — a concurrent committer calls this before
// publishing, to know whether affected readers must be invalidated.
// This core doesn't drive invalidation itself (that's the index/tx
// manager's job per spec §1 scope), but exposes the check so callers
// wiring the full engine can implement it.
func (r *Registry) ForceSnapshot(index string, key keyspace.Key) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	set, ok := r.points[trackedPoint{index: index, key: key.String()}]
	return ok && len(set) > 0
}

func (r *Registry) unregister(tx *Tx) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for p, set := range r.points {
		if _, ok := set[tx]; ok {
			delete(set, tx)
			r.total--
			if len(set) == 0 {
				delete(r.points, p)
			}
		}
	}
}

var errOutOfTrackingSlots = trackingCapacityError{}

type trackingCapacityError struct{}

func (trackingCapacityError) Error() string { return "read-intent tracking table is full" }
