package rundisk

import (
	"testing"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/GreeD3X/tarantool/pkg/keyspace"
	"github.com/GreeD3X/tarantool/pkg/wire"
)

func key(n int64) keyspace.Key { return keyspace.Key{keyspace.IntPart(n)} }

func TestIteratorWalksVersionChainNewestToOldest(t *testing.T) {
	b := NewBuilder()
	if err := b.Add(key(1), 30, wire.Upsert, bson.D{{Key: "d", Value: int64(1)}}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := b.Add(key(1), 20, wire.Upsert, bson.D{{Key: "d", Value: int64(2)}}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := b.Add(key(1), 10, wire.Replace, bson.D{{Key: "base", Value: int64(0)}}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	run := b.Build()
	slice := NewSlice(run)

	it := slice.OpenIterator(key(1), wire.MaxVLSN)
	defer it.Close()

	stmt, ok, err := it.NextKey()
	if err != nil || !ok {
		t.Fatalf("NextKey: stmt=%v ok=%v err=%v", stmt, ok, err)
	}
	if stmt.LSN != 30 {
		t.Fatalf("expected the newest version first, got lsn=%d", stmt.LSN)
	}

	stmt, ok, err = it.NextLSN()
	if err != nil || !ok || stmt.LSN != 20 {
		t.Fatalf("expected lsn=20 next, got stmt=%v ok=%v err=%v", stmt, ok, err)
	}

	stmt, ok, err = it.NextLSN()
	if err != nil || !ok || stmt.LSN != 10 || stmt.Type != wire.Replace {
		t.Fatalf("expected the terminal replace at lsn=10, got stmt=%v ok=%v err=%v", stmt, ok, err)
	}

	stmt, ok, err = it.NextLSN()
	if err != nil || ok {
		t.Fatalf("expected exhaustion after the oldest version, got stmt=%v ok=%v err=%v", stmt, ok, err)
	}
}

func TestIteratorRespectsReadView(t *testing.T) {
	b := NewBuilder()
	if err := b.Add(key(1), 200, wire.Replace, bson.D{{Key: "v", Value: "new"}}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := b.Add(key(1), 100, wire.Replace, bson.D{{Key: "v", Value: "old"}}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	run := b.Build()
	slice := NewSlice(run)

	it := slice.OpenIterator(key(1), 150)
	defer it.Close()

	stmt, ok, err := it.NextKey()
	if err != nil || !ok {
		t.Fatalf("NextKey: %v %v %v", stmt, ok, err)
	}
	if stmt.LSN != 100 {
		t.Fatalf("expected the lsn=100 version visible at vlsn=150, got lsn=%d", stmt.LSN)
	}
}

func TestIteratorNextKeyMissForAbsentKey(t *testing.T) {
	b := NewBuilder()
	if err := b.Add(key(2), 10, wire.Replace, bson.D{{Key: "v", Value: 1}}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	slice := NewSlice(b.Build())

	it := slice.OpenIterator(key(1), wire.MaxVLSN)
	defer it.Close()

	_, ok, err := it.NextKey()
	if err != nil || ok {
		t.Fatalf("expected a miss for an absent key, got ok=%v err=%v", ok, err)
	}
}

func TestSlicePinUnpinRefcount(t *testing.T) {
	slice := NewSlice(NewBuilder().Build())
	if slice.RefCount() != 0 {
		t.Fatalf("expected refcount 0 at rest")
	}
	slice.Pin()
	slice.Pin()
	if slice.RefCount() != 2 {
		t.Fatalf("expected refcount 2 after two pins, got %d", slice.RefCount())
	}
	slice.Unpin()
	if slice.RefCount() != 1 {
		t.Fatalf("expected refcount 1 after one unpin, got %d", slice.RefCount())
	}
}

func TestRangeTreeFindByKey(t *testing.T) {
	tree := NewRangeTree()
	low := NewRange(key(0), key(99))
	high := NewRange(key(100), key(200))
	tree.AddRange(low)
	tree.AddRange(high)

	r, ok := tree.FindByKey(key(50))
	if !ok || r != low {
		t.Fatalf("expected key=50 to resolve to the low range")
	}
	r, ok = tree.FindByKey(key(150))
	if !ok || r != high {
		t.Fatalf("expected key=150 to resolve to the high range")
	}
	if _, ok := tree.FindByKey(key(300)); ok {
		t.Fatalf("expected no range to cover key=300")
	}
}

func TestRangeAppendKeepsNewestFirst(t *testing.T) {
	r := NewRange(key(0), key(100))
	first := NewSlice(NewBuilder().Build())
	second := NewSlice(NewBuilder().Build())

	r.Append(first)
	r.Append(second)

	slices := r.Slices()
	if len(slices) != 2 || slices[0] != second || slices[1] != first {
		t.Fatalf("expected newest-first order [second, first], got %v", slices)
	}
	if r.SliceCount() != 2 {
		t.Fatalf("expected slice_count=2, got %d", r.SliceCount())
	}
}
