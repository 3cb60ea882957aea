package memtable

import (
	"sort"
	"sync"

	"github.com/GreeD3X/tarantool/pkg/keyspace"
	"github.com/GreeD3X/tarantool/pkg/wire"
)

// versionKey orders entries by (search key asc, LSN desc) — the
// composite ordering spec §4.4 requires of a mem-tree: within one
// search key, newer (higher-LSN) versions sort first.
type versionKey struct {
	key keyspace.Key
	lsn uint64
}

func (v versionKey) compare(o versionKey) int {
	if c := v.key.Compare(o.key); c != 0 {
		return c
	}
	switch {
	case v.lsn > o.lsn:
		return -1
	case v.lsn < o.lsn:
		return 1
	default:
		return 0
	}
}

// node is a B+Tree node whose leaf payload is a *wire.Statement
// instead of the teacher's int64 heap offset — otherwise a direct
// port of pkg/btree/node.go's latch-crabbing structure.
type node struct {
	t        int
	keys     []versionKey
	stmts    []*wire.Statement
	children []*node
	leaf     bool
	n        int
	next     *node
	mu       sync.RWMutex
}

func newNode(t int, leaf bool) *node {
	return &node{
		t:        t,
		leaf:     leaf,
		keys:     make([]versionKey, 0, 2*t-1),
		stmts:    make([]*wire.Statement, 0, 2*t-1),
		children: make([]*node, 0, 2*t),
	}
}

func (nd *node) Lock()    { nd.mu.Lock() }
func (nd *node) Unlock()  { nd.mu.Unlock() }
func (nd *node) RLock()   { nd.mu.RLock() }
func (nd *node) RUnlock() { nd.mu.RUnlock() }

func (nd *node) isFull() bool { return nd.n == 2*nd.t-1 }

func (nd *node) findLowerBound(k versionKey) (*node, int) {
	i := sort.Search(nd.n, func(i int) bool { return nd.keys[i].compare(k) >= 0 })
	if nd.leaf {
		return nd, i
	}
	return nd.children[i].findLowerBound(k)
}

func (nd *node) insertNonFull(k versionKey, stmt *wire.Statement) {
	if nd.leaf {
		idx := sort.Search(nd.n, func(j int) bool { return nd.keys[j].compare(k) >= 0 })

		if idx < nd.n && nd.keys[idx].compare(k) == 0 {
			nd.stmts[idx] = stmt
			return
		}

		nd.keys = append(nd.keys, versionKey{})
		nd.stmts = append(nd.stmts, nil)
		copy(nd.keys[idx+1:], nd.keys[idx:])
		copy(nd.stmts[idx+1:], nd.stmts[idx:])
		nd.keys[idx] = k
		nd.stmts[idx] = stmt
		nd.n++
		return
	}

	i := nd.n - 1
	for i >= 0 && k.compare(nd.keys[i]) < 0 {
		i--
	}
	i++

	if nd.children[i].isFull() {
		nd.splitChild(i)
		if k.compare(nd.keys[i]) >= 0 {
			i++
		}
	}
	nd.children[i].insertNonFull(k, stmt)
}

func (nd *node) splitChild(i int) {
	t := nd.t
	y := nd.children[i]
	z := newNode(t, y.leaf)

	if y.leaf {
		mid := t - 1
		z.n = y.n - mid
		z.keys = append(z.keys, y.keys[mid:]...)
		z.stmts = append(z.stmts, y.stmts[mid:]...)

		y.keys = y.keys[:mid]
		y.stmts = y.stmts[:mid]
		y.n = mid

		z.next = y.next
		y.next = z
	} else {
		mid := t - 1
		z.n = t - 1
		z.keys = append(z.keys, y.keys[mid+1:]...)
		z.children = append(z.children, y.children[mid+1:]...)

		upKey := y.keys[mid]

		y.keys = y.keys[:mid]
		y.children = y.children[:mid+1]
		y.n = mid

		nd.keys = append(nd.keys, versionKey{})
		copy(nd.keys[i+1:], nd.keys[i:])
		nd.keys[i] = upKey

		nd.children = append(nd.children, nil)
		copy(nd.children[i+2:], nd.children[i+1:])
		nd.children[i+1] = z
		nd.n++
		return
	}

	nd.keys = append(nd.keys, versionKey{})
	copy(nd.keys[i+1:], nd.keys[i:])
	nd.keys[i] = z.keys[0]

	nd.children = append(nd.children, nil)
	copy(nd.children[i+2:], nd.children[i+1:])
	nd.children[i+1] = z
	nd.n++
}
