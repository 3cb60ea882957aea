package keyspace

import "testing"

func TestKeyCompare(t *testing.T) {
	a := Key{IntPart(1), StringPart("x")}
	b := Key{IntPart(1), StringPart("y")}
	c := Key{IntPart(2)}

	if a.Compare(b) >= 0 {
		t.Fatalf("expected a < b, got compare=%d", a.Compare(b))
	}
	if a.Compare(c) >= 0 {
		t.Fatalf("expected a < c, got compare=%d", a.Compare(c))
	}
	if a.Compare(a) != 0 {
		t.Fatalf("expected a == a")
	}
}

func TestKeyDefCoversAndIdentity(t *testing.T) {
	def := NewKeyDef(2)
	short := Key{IntPart(1)}
	full := Key{IntPart(1), StringPart("a")}
	withTiebreak := Key{IntPart(1), StringPart("a"), IntPart(99)}

	if def.Covers(short) {
		t.Fatalf("expected short key not to cover arity 2")
	}
	if !def.Covers(full) || !def.Covers(withTiebreak) {
		t.Fatalf("expected full-arity keys to cover")
	}
	if !def.Equal(full, withTiebreak) {
		t.Fatalf("expected Equal to ignore trailing tiebreak parts")
	}
}

func TestKeyEqual(t *testing.T) {
	a := Key{IntPart(5), BoolPart(true)}
	b := Key{IntPart(5), BoolPart(true)}
	c := Key{IntPart(5), BoolPart(false)}

	if !a.Equal(b) {
		t.Fatalf("expected equal keys")
	}
	if a.Equal(c) {
		t.Fatalf("expected unequal keys")
	}
}
