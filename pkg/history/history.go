// Package history implements the ordered delta history the
// point-lookup path accumulates across sources (spec §4.1).
package history

import (
	"github.com/GreeD3X/tarantool/pkg/arena"
	"github.com/GreeD3X/tarantool/pkg/wire"
)

// Node is one entry in a lookup's history: a statement tagged with the
// source that contributed it (spec §3 "History node").
type Node struct {
	Source wire.SourceTag
	Stmt   *wire.Statement
}

// History is the ordered sequence of nodes one lookup call
// accumulates. Nodes are appended in scan order (spec §3 "History"):
// TxW first, then Cache, then Mem (newest-to-oldest across mems), then
// Run (newest-to-oldest across slices) — so within the slice the LSNs
// are strictly decreasing head to tail.
type History struct {
	nodes []Node
	ar    *arena.Arena
}

// New creates an empty history backed by ar. The arena is consulted
// (and charged) on every Append, so an exhausted arena surfaces as
// errs.OutOfMemory from Append, matching spec §4.1 "new()... fails
// with OutOfMemory if exhausted".
func New(ar *arena.Arena) *History {
	return &History{ar: ar}
}

// Append allocates a node from the arena and appends it to the tail.
func (h *History) Append(source wire.SourceTag, stmt *wire.Statement) error {
	if err := h.ar.Alloc(1, "history node"); err != nil {
		return err
	}
	h.nodes = append(h.nodes, Node{Source: source, Stmt: stmt})
	return nil
}

// Len reports the number of nodes currently in the history.
func (h *History) Len() int { return len(h.nodes) }

// Nodes exposes the accumulated nodes in head-to-tail (scan) order,
// for callers that need to inspect rather than fold the history (e.g.
// tests asserting terminal short-circuit, spec §8 property 3).
func (h *History) Nodes() []Node { return h.nodes }

// Tail returns the last-appended node, or false if the history is
// empty.
func (h *History) Tail() (Node, bool) {
	if len(h.nodes) == 0 {
		return Node{}, false
	}
	return h.nodes[len(h.nodes)-1], true
}

// IsTerminal reports whether the history is non-empty and its tail
// statement's type is not UPSERT (spec §4.1 "is_terminal").
func (h *History) IsTerminal() bool {
	tail, ok := h.Tail()
	if !ok {
		return false
	}
	return tail.Stmt.Type.IsTerminal()
}

// Cleanup releases the reference on every Run-tagged node (spec §3
// "only Run statements must be explicitly reference-acquired"), then
// rewinds the arena to saved. It is unconditional: callers must invoke
// it on every exit path, including restart and error (spec §5, §7).
func (h *History) Cleanup(saved arena.Cursor) {
	for _, n := range h.nodes {
		if n.Source == wire.SourceRun {
			n.Stmt.Unref()
		}
	}
	h.nodes = h.nodes[:0]
	h.ar.Reset(saved)
}
