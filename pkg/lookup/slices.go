package lookup

import (
	"github.com/GreeD3X/tarantool/pkg/arena"
	"github.com/GreeD3X/tarantool/pkg/history"
	"github.com/GreeD3X/tarantool/pkg/keyspace"
	"github.com/GreeD3X/tarantool/pkg/rundisk"
)

// scanSlices locates the range owning key, pins every one of its
// slices atomically with respect to compaction, then scans them
// newest-to-oldest until a terminal is found or they're exhausted
// (spec §4.7). Every pinned slice is unpinned on every exit path.
func scanSlices(tree *rundisk.RangeTree, ar *arena.Arena, key keyspace.Key, vlsn uint64, h *history.History) error {
	rng, ok := tree.FindByKey(key)
	if !ok {
		// Total-cover invariant violated; treat as "nothing on disk"
		// rather than crash the lookup — a reimplementation detail the
		// spec leaves to the range tree's own contract.
		return nil
	}

	slices := rng.Slices()
	if err := ar.Alloc(len(slices), "slice pointer array"); err != nil {
		return err
	}

	for _, s := range slices {
		s.Pin()
	}
	defer func() {
		for _, s := range slices {
			s.Unpin()
		}
	}()

	var firstErr error
	terminalFound := false

	// Range.Slices() is already newest-first, so plain array order
	// gives the newest-to-oldest precedence spec §2's data flow needs
	// (spec §4.7 step 4: "for each pinned slice in array order").
	for _, s := range slices {
		if firstErr != nil || terminalFound {
			continue
		}
		found, err := scanSlice(s, key, vlsn, h)
		if err != nil {
			firstErr = err
			continue
		}
		if found {
			terminalFound = true
		}
	}

	return firstErr
}
