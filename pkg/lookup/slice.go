package lookup

import (
	"github.com/GreeD3X/tarantool/pkg/errs"
	"github.com/GreeD3X/tarantool/pkg/history"
	"github.com/GreeD3X/tarantool/pkg/keyspace"
	"github.com/GreeD3X/tarantool/pkg/rundisk"
	"github.com/GreeD3X/tarantool/pkg/wire"
)

// scanSlice scans one pinned slice via its equal-key run iterator
// (spec §4.6). Returns whether a terminal statement was found, so the
// slices scanner knows to stop consulting older slices.
func scanSlice(slice *rundisk.Slice, key keyspace.Key, vlsn uint64, h *history.History) (terminal bool, err error) {
	it := slice.OpenIterator(key, vlsn)
	defer it.Close()

	stmt, ok, err := it.NextKey()
	if err != nil {
		return false, errs.IO(err)
	}
	if !ok {
		return false, nil
	}

	for {
		if err := h.Append(wire.SourceRun, stmt.Ref()); err != nil {
			return false, err
		}
		if stmt.Type.IsTerminal() {
			return true, nil
		}

		stmt, ok, err = it.NextLSN()
		if err != nil {
			return false, errs.IO(err)
		}
		if !ok {
			return false, nil
		}
	}
}
