package applier

import (
	"testing"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/GreeD3X/tarantool/pkg/keyspace"
	"github.com/GreeD3X/tarantool/pkg/wire"
)

func TestApplyNumericDelta(t *testing.T) {
	base := wire.NewTuple(bson.D{{Key: "counter", Value: int64(10)}})
	delta := wire.NewStatement(wire.Upsert, keyspace.Key{keyspace.IntPart(1)},
		wire.NewTuple(bson.D{{Key: "counter", Value: int64(1)}}), 50)

	result, err := Apply(delta, base)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	got := fieldValue(t, result.Doc, "counter")
	if got != int64(11) {
		t.Fatalf("counter = %v, want 11", got)
	}
}

func TestApplyOnNilBaseTreatsMissingFieldsAsZero(t *testing.T) {
	delta := wire.NewStatement(wire.Upsert, keyspace.Key{keyspace.IntPart(1)},
		wire.NewTuple(bson.D{{Key: "counter", Value: int64(5)}}), 10)

	result, err := Apply(delta, nil)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got := fieldValue(t, result.Doc, "counter"); got != int64(5) {
		t.Fatalf("counter = %v, want 5", got)
	}
}

func TestApplyRejectsNonUpsert(t *testing.T) {
	delta := wire.NewStatement(wire.Replace, keyspace.Key{keyspace.IntPart(1)}, wire.NewTuple(nil), 1)
	if _, err := Apply(delta, nil); err == nil {
		t.Fatalf("expected error applying a non-upsert statement")
	}
}

func TestApplyChainIsSequentiallyConsistent(t *testing.T) {
	base := wire.NewTuple(bson.D{{Key: "counter", Value: int64(0)}})

	var acc *wire.Tuple = base
	for i := 0; i < 5; i++ {
		delta := wire.NewStatement(wire.Upsert, keyspace.Key{keyspace.IntPart(1)},
			wire.NewTuple(bson.D{{Key: "counter", Value: int64(1)}}), uint64(i))
		next, err := Apply(delta, acc)
		if err != nil {
			t.Fatalf("Apply step %d: %v", i, err)
		}
		acc = next
	}

	if got := fieldValue(t, acc.Doc, "counter"); got != int64(5) {
		t.Fatalf("counter after 5 upserts = %v, want 5", got)
	}
}

func fieldValue(t *testing.T, doc bson.D, key string) any {
	t.Helper()
	for _, e := range doc {
		if e.Key == key {
			return e.Value
		}
	}
	t.Fatalf("field %q not found in %v", key, doc)
	return nil
}
