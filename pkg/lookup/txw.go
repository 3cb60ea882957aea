// Package lookup implements the CORE of the point-lookup path: the
// TxW and cache scanners, the slice and slices scanners, and the
// orchestrator that sequences them (spec §4.2-§4.3, §4.6-§4.7, §4.9).
package lookup

import (
	"github.com/GreeD3X/tarantool/pkg/history"
	"github.com/GreeD3X/tarantool/pkg/keyspace"
	"github.com/GreeD3X/tarantool/pkg/txmgr"
	"github.com/GreeD3X/tarantool/pkg/wire"
)

// scanTxW probes the transaction's write set for an exact (index, key)
// match (spec §4.2). No LSN filtering: a transaction always sees its
// own writes. At most one node is produced. tx may be nil (no
// in-flight transaction supplied).
func scanTxW(tx *txmgr.Tx, index string, key keyspace.Key, h *history.History) error {
	if tx == nil {
		return nil
	}
	entry, ok := tx.Search(index, key)
	if !ok {
		return nil
	}
	return h.Append(wire.SourceTxW, entry.Stmt)
}
