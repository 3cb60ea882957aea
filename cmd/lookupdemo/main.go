// Command lookupdemo wires every package in this module together and
// runs a handful of point lookups end to end, the way the teacher's
// examples/basic_crud demonstrates its own storage engine.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/GreeD3X/tarantool/pkg/arena"
	"github.com/GreeD3X/tarantool/pkg/engine"
	"github.com/GreeD3X/tarantool/pkg/keyspace"
	"github.com/GreeD3X/tarantool/pkg/lookup"
	"github.com/GreeD3X/tarantool/pkg/rundisk"
	"github.com/GreeD3X/tarantool/pkg/txmgr"
	"github.com/GreeD3X/tarantool/pkg/wire"
)

type stdoutLogger struct{}

func (stdoutLogger) Warn(msg string, kv ...any) {
	fmt.Fprintf(os.Stderr, "WARN %s %v\n", msg, kv)
}

func main() {
	kd := keyspace.NewKeyDef(1)
	metrics := engine.NewMetrics(prometheus.NewRegistry())
	idx := engine.NewIndex("products", kd, kd, 3, engine.Env{TooLong: 50 * time.Millisecond}, metrics)

	// A single range spanning the whole id space, with one dumped run
	// holding product id=1's original row.
	rng := rundisk.NewRange(keyspace.Key{keyspace.IntPart(0)}, keyspace.Key{keyspace.IntPart(1 << 32)})
	idx.RangeTree.AddRange(rng)

	id1 := keyspace.Key{keyspace.IntPart(1)}
	b := rundisk.NewBuilder()
	must(b.Add(id1, 10, wire.Replace, bson.D{{Key: "name", Value: "widget"}, {Key: "stock", Value: int64(100)}}))
	rng.Append(rundisk.NewSlice(b.Build()))

	// A concurrent sale decrements stock via an UPSERT sitting in the
	// active mem, newer than the dumped run.
	active, _ := idx.Mems()
	active.Active.Put(id1, 20, wire.NewStatement(wire.Upsert, id1, wire.NewTuple(bson.D{{Key: "stock", Value: int64(-3)}}), 20))

	ar := arena.New(256)
	log := stdoutLogger{}

	tup, err := lookup.PointLookup(ar, idx, nil, wire.Latest(), id1, log)
	must(err)
	fmt.Printf("id=1 latest -> %v\n", tup.Doc)

	// A transaction writes its own pending update, visible only to
	// itself and never published to the shared cache.
	reg := txmgr.NewRegistry(0)
	tx := txmgr.NewTx(reg)
	defer tx.Close()
	tx.Put(idx.Name, id1, wire.NewStatement(wire.Replace, id1, wire.NewTuple(bson.D{{Key: "name", Value: "widget (pending rename)"}}), 0))

	tup, err = lookup.PointLookup(ar, idx, tx, wire.Latest(), id1, log)
	must(err)
	fmt.Printf("id=1 inside tx -> %v\n", tup.Doc)

	// A miss for a key nothing has ever written.
	id2 := keyspace.Key{keyspace.IntPart(2)}
	tup, err = lookup.PointLookup(ar, idx, nil, wire.Latest(), id2, log)
	must(err)
	if tup == nil {
		fmt.Println("id=2 -> <absent>")
	}
}

func must(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
