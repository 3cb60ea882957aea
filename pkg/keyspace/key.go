// Package keyspace defines the composite search keys and comparators
// the point-lookup path is built on.
package keyspace

import (
	"fmt"
	"time"
)

// Comparable is implemented by every scalar key part. It mirrors the
// teacher's pkg/types.Comparable contract: -1/0/1 for less/equal/greater.
type Comparable interface {
	Compare(other Comparable) int
}

// IntPart is an integer key part.
type IntPart int64

func (p IntPart) Compare(other Comparable) int {
	o := other.(IntPart)
	switch {
	case p < o:
		return -1
	case p > o:
		return 1
	default:
		return 0
	}
}

func (p IntPart) String() string { return fmt.Sprintf("%d", int64(p)) }

// StringPart is a string key part.
type StringPart string

func (p StringPart) Compare(other Comparable) int {
	o := other.(StringPart)
	switch {
	case p < o:
		return -1
	case p > o:
		return 1
	default:
		return 0
	}
}

func (p StringPart) String() string { return string(p) }

// FloatPart is a floating-point key part.
type FloatPart float64

func (p FloatPart) Compare(other Comparable) int {
	o := other.(FloatPart)
	switch {
	case p < o:
		return -1
	case p > o:
		return 1
	default:
		return 0
	}
}

func (p FloatPart) String() string { return fmt.Sprintf("%f", float64(p)) }

// BoolPart is a boolean key part; false sorts before true.
type BoolPart bool

func (p BoolPart) Compare(other Comparable) int {
	o := other.(BoolPart)
	if p == o {
		return 0
	}
	if !bool(p) && bool(o) {
		return -1
	}
	return 1
}

func (p BoolPart) String() string { return fmt.Sprintf("%t", bool(p)) }

// DatePart is a timestamp key part.
type DatePart time.Time

func (p DatePart) Compare(other Comparable) int {
	o := time.Time(other.(DatePart))
	t := time.Time(p)
	switch {
	case t.Before(o):
		return -1
	case t.After(o):
		return 1
	default:
		return 0
	}
}

func (p DatePart) String() string { return time.Time(p).Format(time.RFC3339Nano) }

// Key is an exact-lookup search key: an ordered tuple of scalar parts.
// A comparator's "arity" (KeyDef.PartCount) is the number of leading
// parts that participate in row identity.
type Key []Comparable

// Compare orders two keys lexicographically, part by part. When one
// key is a prefix of the other, the shorter key sorts first; callers
// that want identity-only comparison truncate both keys first (see
// KeyDef.Equal).
func (k Key) Compare(other Key) int {
	n := len(k)
	if len(other) < n {
		n = len(other)
	}
	for i := 0; i < n; i++ {
		if c := k[i].Compare(other[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(k) < len(other):
		return -1
	case len(k) > len(other):
		return 1
	default:
		return 0
	}
}

func (k Key) Equal(other Key) bool { return k.Compare(other) == 0 }

// String renders a key for diagnostics (spec §7: the warning on a
// too-long lookup stringifies the key).
func (k Key) String() string {
	s := "("
	for i, p := range k {
		if i > 0 {
			s += ", "
		}
		if str, ok := p.(fmt.Stringer); ok {
			s += str.String()
		} else {
			s += fmt.Sprintf("%v", p)
		}
	}
	return s + ")"
}

// KeyDef is a comparator definition: how many parts identify a row
// (key_def in spec §3/§6) and the full ordering used when the key
// carries extra trailing parts (cmp_def).
type KeyDef struct {
	// PartCount is the number of leading parts that must be present
	// in a search key (spec §6: "key must have field count >= part_count").
	PartCount int
}

// NewKeyDef constructs a comparator definition for the given arity.
func NewKeyDef(partCount int) *KeyDef {
	return &KeyDef{PartCount: partCount}
}

// Covers reports whether key satisfies this comparator's exact-lookup
// arity precondition.
func (d *KeyDef) Covers(key Key) bool {
	return len(key) >= d.PartCount
}

// Identity truncates a key down to the parts that determine row
// identity (key_def), discarding any trailing ordering-only parts.
func (d *KeyDef) Identity(key Key) Key {
	if len(key) <= d.PartCount {
		return key
	}
	return key[:d.PartCount]
}

// Equal compares two keys' identity parts only (key_def equality,
// used by scanners probing "does this statement belong to our key?").
func (d *KeyDef) Equal(a, b Key) bool {
	return d.Identity(a).Equal(d.Identity(b))
}
