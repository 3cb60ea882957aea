package applier

import (
	"github.com/cockroachdb/errors"

	"github.com/GreeD3X/tarantool/pkg/history"
	"github.com/GreeD3X/tarantool/pkg/wire"
)

// Materialize folds a completed history tail-to-head into at most one
// owned result tuple (spec §4.8). vlsn is the read view's visibility
// bound, used only to assert upsert-node visibility (the scanners that
// built the history already enforced it for terminal selection).
func Materialize(h *history.History, vlsn uint64) (*wire.Tuple, error) {
	nodes := h.Nodes()
	if len(nodes) == 0 {
		return nil, nil
	}

	tailIdx := len(nodes) - 1
	tail := nodes[tailIdx]

	var acc *wire.Tuple
	startIdx := tailIdx - 1

	if tail.Stmt.Type.IsTerminal() {
		switch {
		case tail.Stmt.Type == wire.Delete:
			acc = nil
		case tail.Source == wire.SourceMem:
			if tail.Stmt.Value != nil {
				acc = tail.Stmt.Value.Dup()
			}
		default:
			if tail.Stmt.Value != nil {
				acc = tail.Stmt.Value.Ref()
			}
		}
	} else {
		// Chain ran out without ever finding a terminal base; fold the
		// whole chain, including the tail, against an empty base.
		acc = nil
		startIdx = tailIdx
	}

	for i := startIdx; i >= 0; i-- {
		node := nodes[i]
		if node.Stmt.Type != wire.Upsert {
			return nil, errors.New("history apply: non-terminal non-upsert node mid-history")
		}
		if !(node.Stmt.LSN <= vlsn || node.Source == wire.SourceTxW) {
			return nil, errors.New("history apply: upsert visibility violation")
		}

		next, err := Apply(node.Stmt, acc)
		if err != nil {
			if acc != nil {
				acc.Unref()
			}
			return nil, err
		}
		if acc != nil {
			acc.Unref()
		}
		acc = next
	}

	return acc, nil
}
