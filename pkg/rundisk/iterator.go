package rundisk

import (
	"github.com/GreeD3X/tarantool/pkg/keyspace"
	"github.com/GreeD3X/tarantool/pkg/wire"
)

// RunIterator is the equal-key, read-view-bound iterator spec §6
// describes: NextKey performs the single positioning hop onto the
// search key's newest visible version; NextLSN walks that key's delta
// chain strictly older one version at a time. This is the only
// collaborator in the whole read path permitted to perform real disk
// I/O, hence the only one allowed to yield (spec §5) — here that's
// modeled by nothing more than an ordinary blocking call, since Go's
// scheduler already yields the goroutine across a blocking read.
type RunIterator struct {
	run     *Run
	key     keyspace.Key
	rv      uint64
	pos     int // index into run.records of the current entry, -1 before start
	started bool
	closed  bool
}

// NextKey performs the first positioning hop: find the newest version
// of r.key with lsn <= rv. Equal-key iterators never have a second
// distinct key to advance to, so a second NextKey call always reports
// exhaustion.
func (r *RunIterator) NextKey() (*wire.Statement, bool, error) {
	if r.closed || r.started {
		return nil, false, nil
	}
	r.started = true

	lo := lowerBound(r.run.records, r.key)
	for i := lo; i < len(r.run.records) && r.run.records[i].key.Compare(r.key) == 0; i++ {
		if r.run.records[i].lsn <= r.rv {
			r.pos = i
			stmt, err := materialize(r.run.records[i])
			return stmt, err == nil, err
		}
	}
	return nil, false, nil
}

// NextLSN advances to the next strictly older version of the same
// key (spec §4.6 step 5: "advance to the next LSN, same key, older
// version").
func (r *RunIterator) NextLSN() (*wire.Statement, bool, error) {
	if r.closed || r.pos < 0 {
		return nil, false, nil
	}
	next := r.pos + 1
	if next >= len(r.run.records) {
		r.pos = -1
		return nil, false, nil
	}
	cand := r.run.records[next]
	if cand.key.Compare(r.key) != 0 {
		r.pos = -1
		return nil, false, nil
	}
	r.pos = next
	stmt, err := materialize(cand)
	return stmt, err == nil, err
}

// Close releases the iterator. Runs are immutable in-memory structures
// here, so there is nothing to release beyond dropping the reference;
// kept as an explicit method because spec §6 requires close() on every
// exit path.
func (r *RunIterator) Close() { r.closed = true }

func lowerBound(recs []record, key keyspace.Key) int {
	lo, hi := 0, len(recs)
	for lo < hi {
		mid := (lo + hi) / 2
		if recs[mid].key.Compare(key) < 0 {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}
