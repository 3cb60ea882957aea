// Package arena implements the per-worker scratch allocator the
// lookup orchestrator saves and rewinds on every exit path (spec §3
// "Scratch arena", §4.1, §4.9).
//
// A real bump allocator hands out raw bytes from a preallocated
// region; Go's GC makes that unnecessary for correctness, but the
// *budget and cursor discipline* spec §4.1/§4.9 depends on (fail with
// OutOfMemory past a cap; unconditionally rewind to the saved cursor
// on every exit, including restart) is real behavior this type must
// still enforce, not something the GC gives us for free. Arena is
// therefore a counting allocator: every "allocation" (a history node,
// the slice-pointer array of §4.7 step 2) consumes budget that Reset
// gives back, LIFO, exactly like a bump pointer would.
package arena

import "github.com/GreeD3X/tarantool/pkg/errs"

// Cursor is an opaque save point returned by Save and consumed by
// Reset.
type Cursor int

// Arena is a single worker's scratch allocator. It is not safe for
// concurrent use by multiple lookups; each cooperative worker owns one
// (spec §5 "Each worker owns its scratch arena").
type Arena struct {
	capacity int
	used     int
}

// New constructs an arena with the given slot capacity. A capacity of
// 0 means unbounded (useful for tests that don't care about exhaustion).
func New(capacity int) *Arena {
	return &Arena{capacity: capacity}
}

// Save returns the current cursor, to be passed to Reset on every exit
// path of the call that is about to start allocating.
func (a *Arena) Save() Cursor { return Cursor(a.used) }

// Reset rewinds the arena to a previously saved cursor, releasing
// every allocation made since. It is idempotent and safe to call even
// when nothing was allocated.
func (a *Arena) Reset(c Cursor) { a.used = int(c) }

// Alloc consumes n slots of budget, failing with errs.OutOfMemory if
// doing so would exceed capacity. what is used only for the error
// message.
func (a *Arena) Alloc(n int, what string) error {
	if a.capacity > 0 && a.used+n > a.capacity {
		return errs.OutOfMemory(what)
	}
	a.used += n
	return nil
}

// Used reports the current cursor position (test/debug only).
func (a *Arena) Used() int { return a.used }
