package lookup

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/GreeD3X/tarantool/pkg/arena"
	"github.com/GreeD3X/tarantool/pkg/txmgr"
	"github.com/GreeD3X/tarantool/pkg/wire"
)

// TestPrecedenceAndCleanupProperties property-tests spec §8's
// precedence and cleanup-law invariants across randomized
// combinations of which sources are populated.
func TestPrecedenceAndCleanupProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 40
	properties := gopter.NewProperties(parameters)

	properties.Property("a TxW terminal always wins over cache, mem and run", prop.ForAll(
		func(txwValue string, cacheValue string, memValue string, runValue string, vlsnOffset int) bool {
			idx := newTestIndex(t)
			key := k(1)

			// Lower-precedence sources, always populated so a bug that
			// ignores precedence would surface immediately.
			idx.Cache.Add(idx.Name, key, wire.NewStatement(wire.Replace, key, wire.NewTuple(bson.D{{Key: "v", Value: cacheValue}}), 10))
			active, _ := idx.Mems()
			active.Active.Put(key, 20, wire.NewStatement(wire.Replace, key, wire.NewTuple(bson.D{{Key: "v", Value: memValue}}), 20))
			addRunReplace(t, idx, key, 5, bson.D{{Key: "v", Value: runValue}})

			reg := txmgr.NewRegistry(0)
			tx := txmgr.NewTx(reg)
			defer tx.Close()
			tx.Put(idx.Name, key, wire.NewStatement(wire.Replace, key, wire.NewTuple(bson.D{{Key: "v", Value: txwValue}}), 0))

			ar := arena.New(0)
			tup, err := PointLookup(ar, idx, tx, wire.At(uint64(vlsnOffset+100)), key, nil)
			if err != nil {
				return false
			}
			if tup == nil {
				return false
			}
			return fieldValue(t, tup.Doc, "v") == txwValue
		},
		gen.AlphaString(),
		gen.AlphaString(),
		gen.AlphaString(),
		gen.AlphaString(),
		gen.IntRange(0, 1000),
	))

	properties.Property("the arena cursor always returns to its saved value", prop.ForAll(
		func(hasCache, hasMem, hasRun bool, vlsnIsLatest bool) bool {
			idx := newTestIndex(t)
			key := k(1)

			if hasCache {
				idx.Cache.Add(idx.Name, key, wire.NewStatement(wire.Replace, key, wire.NewTuple(bson.D{{Key: "v", Value: "c"}}), 1))
			}
			if hasMem {
				active, _ := idx.Mems()
				active.Active.Put(key, 2, wire.NewStatement(wire.Upsert, key, wire.NewTuple(bson.D{{Key: "counter", Value: int64(1)}}), 2))
			}
			if hasRun {
				addRunReplace(t, idx, key, 1, counterDoc(0))
			}

			rv := wire.At(1000)
			if vlsnIsLatest {
				rv = wire.Latest()
			}

			ar := arena.New(64)
			saved := ar.Save()
			if _, err := PointLookup(ar, idx, nil, rv, key, nil); err != nil {
				return false
			}
			return ar.Save() == saved
		},
		gen.Bool(),
		gen.Bool(),
		gen.Bool(),
		gen.Bool(),
	))

	properties.TestingRun(t)
}
