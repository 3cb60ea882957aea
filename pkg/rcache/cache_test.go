package rcache

import (
	"testing"

	"github.com/GreeD3X/tarantool/pkg/keyspace"
	"github.com/GreeD3X/tarantool/pkg/wire"
)

func TestGetMissThenHit(t *testing.T) {
	c := New()
	key := keyspace.Key{keyspace.IntPart(1)}

	if _, found := c.Get("idx", key); found {
		t.Fatalf("expected miss on empty cache")
	}

	stmt := wire.NewStatement(wire.Replace, key, wire.NewTuple(nil), wire.MaxVLSN)
	c.Add("idx", key, stmt)

	got, found := c.Get("idx", key)
	if !found || got != stmt {
		t.Fatalf("expected to get back the exact statement added")
	}
}

func TestProvenMissingDistinctFromUncached(t *testing.T) {
	c := New()
	key := keyspace.Key{keyspace.IntPart(2)}

	c.Add("idx", key, nil)

	stmt, found := c.Get("idx", key)
	if !found {
		t.Fatalf("proven-missing entry should report found=true")
	}
	if stmt != nil {
		t.Fatalf("proven-missing entry should carry a nil statement")
	}

	otherKey := keyspace.Key{keyspace.IntPart(3)}
	if _, found := c.Get("idx", otherKey); found {
		t.Fatalf("never-added key should report found=false")
	}
}

func TestInvalidate(t *testing.T) {
	c := New()
	key := keyspace.Key{keyspace.IntPart(4)}
	c.Add("idx", key, wire.NewStatement(wire.Replace, key, wire.NewTuple(nil), 1))

	c.Invalidate("idx", key)
	if _, found := c.Get("idx", key); found {
		t.Fatalf("expected miss after invalidate")
	}
}

func TestStatsCounters(t *testing.T) {
	c := New()
	key := keyspace.Key{keyspace.IntPart(5)}

	c.Get("idx", key) // miss
	c.Add("idx", key, wire.NewStatement(wire.Replace, key, wire.NewTuple(nil), 1))
	c.Get("idx", key) // hit

	hits, misses := c.Stats()
	if hits != 1 || misses != 1 {
		t.Fatalf("hits=%d misses=%d, want 1/1", hits, misses)
	}
}
