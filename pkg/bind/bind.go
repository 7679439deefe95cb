// Package bind implements the packed-trie key-chord binder: a fixed-capacity
// arena of nodes mapping translated chord byte sequences to a (backend, id)
// pair, plus a per-session resolver that walks the trie one byte at a time.
//
// The arena never compacts and siblings are inserted at the head of their
// parent's chain, so lookup order is most-recently-bound-first. Re-binding is
// forbidden, so this is observable only through traversal timing, not through
// which binding wins.
package bind

import (
	"golang.org/x/xerrors"

	"github.com/pks-os/clink/pkg/chord"
)

// none is both "no such node" (the sentinel) and "the root", which lives
// outside the arena. The two meanings never collide because a resolver or
// parent that means "root" never also needs to mean "nothing was found".
const none = -1

type usage int

const (
	unused usage = iota
	isParent
	isBound
)

type node struct {
	key       byte
	usage     usage
	idOrChild int // child arena index if isParent; binding id if isBound
	backend   int // backend table index if isBound
	sibling   int
}

// Binder is a fixed-capacity trie mapping translated chord byte sequences to
// a (backend, id) pair. B is the backend handle type; it must be comparable
// so that re-registering the same backend reuses its existing table slot.
type Binder[B comparable] struct {
	capacity int
	nodes    []node
	root     node
	backends []B
}

// Errors returned by Bind. They never escape to the editing session; the
// embedder is expected to surface them at startup.
var (
	ErrEmptyChord     = xerrors.New("bind: chord translates to zero bytes")
	ErrArenaExhausted = xerrors.New("bind: trie node arena exhausted")
	ErrAlreadyBound   = xerrors.New("bind: chord is already bound")
	ErrBoundPrefix    = xerrors.New("bind: chord extends through, or is extended by, an already-bound chord")
)

// New creates a Binder whose node arena holds at most capacity nodes.
func New[B comparable](capacity int) *Binder[B] {
	return &Binder[B]{capacity: capacity, root: node{sibling: none, idOrChild: none}}
}

// NodeCount returns the number of nodes currently allocated in the arena.
func (bd *Binder[B]) NodeCount() int { return len(bd.nodes) }

// Backends returns the backend table in registration order. Indices into
// this slice are stable for the lifetime of the Binder.
func (bd *Binder[B]) Backends() []B { return bd.backends }

// Bind translates chordText and inserts it into the trie, bound to backend
// and id. It fails if the chord does not translate, contains a non-ASCII
// byte, is empty, exhausts the arena, is already bound, or extends through
// (or is extended by) an already-bound chord.
func (bd *Binder[B]) Bind(chordText string, backend B, id byte) error {
	raw, err := chord.Translate(chordText)
	if err != nil {
		return err
	}
	if len(raw) == 0 {
		return ErrEmptyChord
	}

	backendIdx := bd.internBackend(backend)

	parentIdx := none
	for _, by := range raw {
		parent := bd.nodeAt(parentIdx)
		if parent.usage == isBound {
			// A shorter chord already claims this path; no binding may
			// extend through it.
			return ErrBoundPrefix
		}
		childIdx, ok := bd.findChild(parentIdx, by)
		if !ok {
			childIdx, err = bd.addChild(parentIdx, by)
			if err != nil {
				return err
			}
		}
		parentIdx = childIdx
	}

	final := bd.nodeAt(parentIdx)
	switch final.usage {
	case isBound:
		return ErrAlreadyBound
	case isParent:
		return ErrBoundPrefix
	}
	final.usage = isBound
	final.backend = backendIdx
	final.idOrChild = int(id)
	return nil
}

// Advance walks the resolver by one byte. If the resolver was already
// resolved, it is reset first, matching the driver's contract that it only
// calls Advance while !resolver.IsResolved().
func (bd *Binder[B]) Advance(r *Resolver[B], by byte) {
	if r.resolved {
		r.Reset()
	}

	childIdx, ok := bd.findChild(r.nodeIndex, by)
	if !ok {
		r.resolve(zero[B](), false, -1)
		return
	}

	child := bd.nodeAt(childIdx)
	switch child.usage {
	case isParent:
		r.nodeIndex = childIdx
	case isBound:
		r.resolve(bd.backends[child.backend], true, child.idOrChild)
	default:
		r.resolve(zero[B](), false, -1)
	}
}

func (bd *Binder[B]) nodeAt(idx int) *node {
	if idx == none {
		return &bd.root
	}
	return &bd.nodes[idx]
}

// findChild does a linear scan of parent's sibling chain. Only isParent
// nodes have a child chain; any other usage has none.
func (bd *Binder[B]) findChild(parentIdx int, key byte) (int, bool) {
	parent := bd.nodeAt(parentIdx)
	if parent.usage != isParent {
		return none, false
	}
	for idx := parent.idOrChild; idx != none; {
		n := bd.nodeAt(idx)
		if n.key == key {
			return idx, true
		}
		idx = n.sibling
	}
	return none, false
}

// addChild allocates a new node and prepends it to parent's sibling chain.
func (bd *Binder[B]) addChild(parentIdx int, key byte) (int, error) {
	idx := bd.allocNode()
	if idx == none {
		return none, ErrArenaExhausted
	}

	parent := bd.nodeAt(parentIdx)
	sibling := none
	if parent.usage == isParent {
		sibling = parent.idOrChild
	}
	bd.nodes[idx] = node{key: key, sibling: sibling}

	parent.usage = isParent
	parent.idOrChild = idx
	return idx, nil
}

func (bd *Binder[B]) allocNode() int {
	if len(bd.nodes) >= bd.capacity {
		return none
	}
	bd.nodes = append(bd.nodes, node{sibling: none})
	return len(bd.nodes) - 1
}

func (bd *Binder[B]) internBackend(backend B) int {
	for i, b := range bd.backends {
		if b == backend {
			return i
		}
	}
	bd.backends = append(bd.backends, backend)
	return len(bd.backends) - 1
}

func zero[T any]() T {
	var v T
	return v
}

// Resolver is per-edit-session state that walks a Binder's trie one byte at
// a time. It must be reset at the start of each editing session and after
// the driver consumes a resolved chord.
type Resolver[B comparable] struct {
	nodeIndex  int
	resolved   bool
	backend    B
	hasBackend bool
	id         int
}

// NewResolver returns a Resolver ready to walk from the root.
func NewResolver[B comparable]() *Resolver[B] {
	r := &Resolver[B]{}
	r.Reset()
	return r
}

// Reset returns the resolver to its initial, unresolved, at-root state.
func (r *Resolver[B]) Reset() {
	r.nodeIndex = none
	r.resolved = false
	r.hasBackend = false
	r.backend = zero[B]()
	r.id = -1
}

// IsResolved reports whether the resolver has latched onto either a bound
// chord or a synthetic no-binding result.
func (r *Resolver[B]) IsResolved() bool { return r.resolved }

// Backend returns the resolved backend and whether a binding was actually
// found (as opposed to the synthetic "no binding" result).
func (r *Resolver[B]) Backend() (B, bool) { return r.backend, r.hasBackend }

// ID returns the resolved binding id, or -1 if there was no binding.
func (r *Resolver[B]) ID() int { return r.id }

// SetID overrides the resolved id without otherwise disturbing the resolved
// state. It implements the more_input result: a backend may ask to keep the
// resolver latched on itself with a new sub-id, so that the next raw byte is
// routed straight back to it without consulting the trie.
func (r *Resolver[B]) SetID(id int) { r.id = id }

func (r *Resolver[B]) resolve(backend B, ok bool, id int) {
	r.resolved = true
	r.hasBackend = ok
	r.backend = backend
	r.id = id
}
