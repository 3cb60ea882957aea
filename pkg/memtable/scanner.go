package memtable

import (
	"github.com/GreeD3X/tarantool/pkg/history"
	"github.com/GreeD3X/tarantool/pkg/keyspace"
	"github.com/GreeD3X/tarantool/pkg/wire"
)

// ScanOne scans a single mem-tree for key's version chain, newest
// visible downward, appending nodes tagged Mem to h (spec §4.4).
//
// Algorithm: seek to the lower bound of (key, vlsn); if the positioned
// element's identity doesn't match key, contribute nothing. Otherwise
// append it, then keep appending the next statement in the chain as
// long as the history isn't yet terminal, the iterator isn't
// exhausted, the LSN strictly decreased, and the key is unchanged.
func ScanOne(tree *Tree, keyDef *keyspace.KeyDef, key keyspace.Key, vlsn uint64, h *history.History) error {
	s := tree.seek(key, vlsn)
	defer s.close()

	if !s.valid() || !keyDef.Equal(s.key(), key) {
		return nil
	}

	prevLSN := s.lsn()
	for {
		if err := h.Append(wire.SourceMem, s.statement()); err != nil {
			return err
		}
		if h.IsTerminal() {
			return nil
		}
		if !s.advance() || !s.valid() {
			return nil
		}
		if s.lsn() >= prevLSN {
			return nil
		}
		if !keyDef.Equal(s.key(), key) {
			return nil
		}
		prevLSN = s.lsn()
	}
}

// Mems is the ordered collection of mem-trees the mems scanner walks:
// the active mem first, then sealed mems newest-to-oldest (spec §4.5).
type Mems struct {
	Active *Tree
	Sealed []*Tree // index 0 is the most recently sealed
}

// ScanAll scans the active mem, then (if history is not yet terminal)
// each sealed mem in turn, stopping at the first terminal (spec §4.5).
func ScanAll(m Mems, keyDef *keyspace.KeyDef, key keyspace.Key, vlsn uint64, h *history.History) error {
	if err := ScanOne(m.Active, keyDef, key, vlsn, h); err != nil {
		return err
	}
	if h.IsTerminal() {
		return nil
	}
	for _, sealed := range m.Sealed {
		if err := ScanOne(sealed, keyDef, key, vlsn, h); err != nil {
			return err
		}
		if h.IsTerminal() {
			return nil
		}
	}
	return nil
}
