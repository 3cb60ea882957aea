package wire

import (
	"testing"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/GreeD3X/tarantool/pkg/keyspace"
)

func TestTupleDupIsIndependentCopy(t *testing.T) {
	orig := NewTuple(bson.D{{Key: "v", Value: int32(1)}})
	dup := orig.Dup()

	dup.Doc[0].Value = int32(2)

	if orig.Doc[0].Value != int32(1) {
		t.Fatalf("mutating the dup mutated the original: %v", orig.Doc)
	}
	if dup.RefCount() != 1 {
		t.Fatalf("dup should start with refcount 1, got %d", dup.RefCount())
	}
}

func TestTupleRefUnref(t *testing.T) {
	tup := NewTuple(bson.D{{Key: "a", Value: 1}})
	tup.Ref()
	if tup.RefCount() != 2 {
		t.Fatalf("refcount = %d, want 2", tup.RefCount())
	}
	tup.Unref()
	if tup.RefCount() != 1 {
		t.Fatalf("refcount = %d, want 1", tup.RefCount())
	}
}

func TestStmtTypeIsTerminal(t *testing.T) {
	for _, typ := range []StmtType{Replace, Insert, Delete} {
		if !typ.IsTerminal() {
			t.Fatalf("%v should be terminal", typ)
		}
	}
	if Upsert.IsTerminal() {
		t.Fatalf("UPSERT should not be terminal")
	}
}

func TestStatementRefcount(t *testing.T) {
	stmt := NewStatement(Replace, keyspace.Key{keyspace.IntPart(1)}, nil, 5)
	if stmt.RefCount() != 1 {
		t.Fatalf("new statement should start at refcount 1")
	}
	stmt.Ref()
	stmt.Ref()
	if stmt.RefCount() != 3 {
		t.Fatalf("refcount = %d, want 3", stmt.RefCount())
	}
	stmt.Unref()
	if stmt.RefCount() != 2 {
		t.Fatalf("refcount = %d, want 2", stmt.RefCount())
	}
}
