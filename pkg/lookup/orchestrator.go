package lookup

import (
	"time"

	"github.com/cockroachdb/errors"

	"github.com/GreeD3X/tarantool/pkg/applier"
	"github.com/GreeD3X/tarantool/pkg/arena"
	"github.com/GreeD3X/tarantool/pkg/engine"
	"github.com/GreeD3X/tarantool/pkg/history"
	"github.com/GreeD3X/tarantool/pkg/keyspace"
	"github.com/GreeD3X/tarantool/pkg/memtable"
	"github.com/GreeD3X/tarantool/pkg/txmgr"
	"github.com/GreeD3X/tarantool/pkg/wire"
)

// Logger is the narrow structured-logging contract this package
// needs. The teacher has no logging library anywhere in its own code
// (errors are returned, never logged in-band), so this mirrors that:
// a caller-supplied sink is the only concession to observability, and
// a nil Logger means "don't warn".
type Logger interface {
	Warn(msg string, keysAndValues ...any)
}

// sliceScanBarrier is a test-only hook invoked just before the slices
// scan begins (see orchestrator_test.go). nil in production.
var sliceScanBarrier func()

// PointLookup is the entry point spec §6 names:
// point_lookup(index, tx_opt, read_view, key) -> Result<Option<OwnedTuple>, Error>.
//
// ar is the caller's scratch arena (spec §3 "per-worker bump
// allocator"); one worker reuses the same arena across many calls,
// saving and restoring its cursor each time.
func PointLookup(ar *arena.Arena, idx *engine.Index, tx *txmgr.Tx, rv wire.ReadView, key keyspace.Key, log Logger) (*wire.Tuple, error) {
	if !idx.CmpDef.Covers(key) {
		return nil, errors.Newf("point_lookup: key has %d parts, need >= %d", len(key), idx.CmpDef.PartCount)
	}

	saved := ar.Save()
	start := time.Now()
	idx.BumpLookup()

	if tx != nil {
		if err := tx.TrackPoint(idx.Name, key); err != nil {
			return nil, err
		}
	}

	for {
		h := history.New(ar)

		if err := scanTxW(tx, idx.Name, key, h); err != nil {
			h.Cleanup(saved)
			return nil, err
		}
		if h.IsTerminal() {
			idx.BumpTxW()
			return finish(idx, ar, saved, h, rv, key, start, log)
		}

		cacheFound, err := scanCacheInto(idx, key, rv, h)
		if err != nil {
			h.Cleanup(saved)
			return nil, err
		}
		if h.IsTerminal() {
			idx.BumpCache(cacheFound)
			return finish(idx, ar, saved, h, rv, key, start, log)
		}
		idx.BumpCache(cacheFound)

		mems, version := idx.Mems()
		if err := memtable.ScanAll(mems, idx.KeyDef, key, rv.VLSN, h); err != nil {
			h.Cleanup(saved)
			return nil, err
		}
		if h.IsTerminal() {
			return finish(idx, ar, saved, h, rv, key, start, log)
		}

		if sliceScanBarrier != nil {
			// Test-only seam: the real suspension point during a slice
			// scan is disk I/O inside the run iterator (spec §5); tests
			// use this hook to simulate a concurrent mem-list mutation
			// landing inside that window without needing real I/O.
			sliceScanBarrier()
		}
		if err := scanSlices(idx.RangeTree, ar, key, rv.VLSN, h); err != nil {
			h.Cleanup(saved)
			return nil, err
		}

		if idx.MemListVersion() != version {
			// A dump may have reclaimed mem memory this history still
			// references; the history is no longer sound (spec §4.9
			// step 10). Clean up and restart from scratch.
			h.Cleanup(saved)
			idx.BumpRestart()
			continue
		}

		return finish(idx, ar, saved, h, rv, key, start, log)
	}
}

func scanCacheInto(idx *engine.Index, key keyspace.Key, rv wire.ReadView, h *history.History) (found bool, err error) {
	lenBefore := h.Len()
	if err := scanCache(idx.Cache, idx.Name, key, rv.VLSN, h); err != nil {
		return false, err
	}
	return h.Len() > lenBefore, nil
}

func finish(idx *engine.Index, ar *arena.Arena, saved arena.Cursor, h *history.History, rv wire.ReadView, key keyspace.Key, start time.Time, log Logger) (*wire.Tuple, error) {
	// The tail's source tag decides cache-publication eligibility
	// below; capture it before Cleanup truncates the history.
	tailFromTxW := false
	if tail, ok := h.Tail(); ok {
		tailFromTxW = tail.Source == wire.SourceTxW
	}

	tup, err := applier.Materialize(h, rv.VLSN)
	h.Cleanup(saved)
	if err != nil {
		return nil, err
	}

	if tup != nil {
		idx.BumpGet()
	}

	// Cache publication rule (spec §4.8 step 5, §5): only under the
	// latest view, which is also the only view under which TxW
	// read-intent tracking (done unconditionally above when a tx is
	// supplied) protects against a racing commit. A terminal sourced
	// from the caller's own write set is never published: it carries
	// no committed LSN yet, and publishing it would leak an
	// uncommitted write into every other transaction's cache-backed
	// reads (spec §8 scenario S6).
	if rv.IsLatest() && !tailFromTxW {
		var cacheStmt *wire.Statement
		if tup != nil {
			cacheStmt = wire.NewStatement(wire.Replace, key, tup.Ref(), wire.MaxVLSN)
		}
		idx.Cache.Add(idx.Name, key, cacheStmt)
	}

	elapsed := time.Since(start)
	idx.ObserveLatency(elapsed.Seconds())
	if idx.Env.TooLong > 0 && elapsed > idx.Env.TooLong {
		idx.BumpTooLong()
		if log != nil {
			log.Warn("point_lookup exceeded too-long threshold",
				"index", idx.Name, "key", key.String(), "result", resultString(tup), "elapsed", elapsed)
		}
	}

	return tup, nil
}

func resultString(tup *wire.Tuple) string {
	if tup == nil {
		return "<absent>"
	}
	return tup.Doc.String()
}
