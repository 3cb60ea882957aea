package lookup

import (
	"github.com/GreeD3X/tarantool/pkg/history"
	"github.com/GreeD3X/tarantool/pkg/keyspace"
	"github.com/GreeD3X/tarantool/pkg/rcache"
	"github.com/GreeD3X/tarantool/pkg/wire"
)

// scanCache queries the shared cache for key and appends a Cache-
// tagged node when the cached statement is visible under vlsn (spec
// §4.3). The cache only ever stores terminal statements (full tuples
// or delete markers), so a cache hit always makes the history
// terminal. A cached "proven missing" entry is represented as
// found=true with a nil statement; per spec §9's open question, the
// cache scanner still needs something to append in that case — we
// synthesize a DELETE-typed marker carrying no value, matching the
// semantics materialization already assigns to DELETE (absent). The
// marker is stamped with wire.MaxVLSN, exactly like the present-value
// publish path in finish(), since every cache entry is only ever
// installed under the latest view (pkg/rcache's own invariant) — a
// lower LSN here would make the marker wrongly outlive its actual
// visibility and short-circuit lookups under an older snapshot.
func scanCache(c *rcache.Cache, index string, key keyspace.Key, vlsn uint64, h *history.History) error {
	stmt, found := c.Get(index, key)
	if !found {
		return nil
	}
	if stmt == nil {
		if vlsn != wire.MaxVLSN {
			return nil
		}
		return h.Append(wire.SourceCache, wire.NewStatement(wire.Delete, key, nil, wire.MaxVLSN))
	}
	if stmt.LSN > vlsn {
		return nil
	}
	return h.Append(wire.SourceCache, stmt)
}
