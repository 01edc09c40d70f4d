// Package avl implements an AVL tree with a pluggable comparator.
//
// Nodes live in an arena owned by the tree and are addressed by Handle.
// Parent links are stored as handles too, so in-order navigation (Next,
// Prev) never needs a search. The comparator may read external mutable
// state; see New for the contract that comes with that.
package avl

import (
	"cmp"
	"iter"
)

// Handle addresses a node inside a Tree's arena.
type Handle int32

// Nil is the handle of an absent node.
const Nil Handle = -1

// Valid reports whether h refers to a node.
func (h Handle) Valid() bool {
	return h != Nil
}

type node[K any] struct {
	key    K
	left   Handle
	right  Handle
	parent Handle
	height int
}

// Tree is an AVL tree over keys of type K.
// The zero value is not usable; construct with New or NewOrdered.
type Tree[K any] struct {
	nodes []node[K]
	free  []Handle
	root  Handle
	size  int
	cmp   func(a, b K) int

	// scratch state for the recursive insert/delete passes
	inserted Handle
	changed  bool
}

// New returns an empty tree ordered by compare, which must return a
// negative number, zero or a positive number when a is less than, equal to
// or greater than b.
//
// compare may depend on state outside the tree (the sweep line does this).
// The tree only guarantees a correct order while the relative order of the
// stored keys under the current comparator state matches their order at
// insertion time. Callers are responsible for restoring that before the
// external state moves past a point where two stored keys could swap.
func New[K any](compare func(a, b K) int) *Tree[K] {
	return &Tree[K]{root: Nil, cmp: compare}
}

// NewOrdered returns an empty tree using the natural order of K.
func NewOrdered[K cmp.Ordered]() *Tree[K] {
	return New[K](cmp.Compare[K])
}

// Len returns the number of keys in the tree.
func (t *Tree[K]) Len() int {
	return t.size
}

// IsEmpty reports whether the tree holds no keys.
func (t *Tree[K]) IsEmpty() bool {
	return t.size == 0
}

// Key returns the key stored at h. It panics if h is Nil.
func (t *Tree[K]) Key(h Handle) K {
	return t.nodes[h].key
}

// Insert adds key to the tree and returns its handle.
// If an equal key is already present the tree is left untouched, the
// existing handle is returned and ok is false.
func (t *Tree[K]) Insert(key K) (h Handle, ok bool) {
	t.inserted = Nil
	t.changed = false
	t.root = t.insert(key, t.root)
	t.nodes[t.root].parent = Nil
	if t.changed {
		t.size++
	}
	return t.inserted, t.changed
}

func (t *Tree[K]) insert(key K, root Handle) Handle {
	if root == Nil {
		t.inserted = t.alloc(key)
		t.changed = true
		return t.inserted
	}

	c := t.cmp(key, t.nodes[root].key)
	switch {
	case c < 0:
		t.linkLeft(root, t.insert(key, t.nodes[root].left))
	case c > 0:
		t.linkRight(root, t.insert(key, t.nodes[root].right))
	default:
		t.inserted = root
		return root
	}

	t.updateHeight(root)
	switch t.balanceState(root) {
	case unbalancedLeft:
		left := t.nodes[root].left
		if t.cmp(key, t.nodes[left].key) < 0 {
			return t.rotateRight(root)
		}
		t.linkLeft(root, t.rotateLeft(left))
		return t.rotateRight(root)
	case unbalancedRight:
		right := t.nodes[root].right
		if t.cmp(key, t.nodes[right].key) > 0 {
			return t.rotateLeft(root)
		}
		t.linkRight(root, t.rotateRight(right))
		return t.rotateLeft(root)
	}
	return root
}

// Delete removes key from the tree and reports whether it was present.
// Deleting an absent key is a no-op returning false.
func (t *Tree[K]) Delete(key K) bool {
	t.changed = false
	t.root = t.delete(key, t.root)
	if t.root != Nil {
		t.nodes[t.root].parent = Nil
	}
	if t.changed {
		t.size--
	}
	return t.changed
}

func (t *Tree[K]) delete(key K, root Handle) Handle {
	if root == Nil {
		return Nil
	}

	c := t.cmp(key, t.nodes[root].key)
	switch {
	case c < 0:
		t.linkLeft(root, t.delete(key, t.nodes[root].left))
	case c > 0:
		t.linkRight(root, t.delete(key, t.nodes[root].right))
	default:
		n := t.nodes[root]
		switch {
		case n.left == Nil && n.right == Nil:
			t.release(root)
			t.changed = true
			return Nil
		case n.left == Nil:
			t.release(root)
			t.changed = true
			t.nodes[n.right].parent = Nil
			return n.right
		case n.right == Nil:
			t.release(root)
			t.changed = true
			t.nodes[n.left].parent = Nil
			return n.left
		default:
			// Two children: take over the in-order successor's key and
			// delete the successor from the right subtree instead.
			succ := t.minFrom(n.right)
			t.nodes[root].key = t.nodes[succ].key
			t.linkRight(root, t.delete(t.nodes[succ].key, n.right))
		}
	}

	t.updateHeight(root)
	switch t.balanceState(root) {
	case unbalancedLeft:
		left := t.nodes[root].left
		switch t.balanceState(left) {
		case balanced, slightlyLeft:
			return t.rotateRight(root)
		case slightlyRight:
			t.linkLeft(root, t.rotateLeft(left))
			return t.rotateRight(root)
		}
	case unbalancedRight:
		right := t.nodes[root].right
		switch t.balanceState(right) {
		case balanced, slightlyRight:
			return t.rotateLeft(root)
		case slightlyLeft:
			t.linkRight(root, t.rotateRight(right))
			return t.rotateLeft(root)
		}
	}
	return root
}

// Get returns the handle holding key, or Nil.
func (t *Tree[K]) Get(key K) Handle {
	h := t.root
	for h != Nil {
		c := t.cmp(key, t.nodes[h].key)
		switch {
		case c < 0:
			h = t.nodes[h].left
		case c > 0:
			h = t.nodes[h].right
		default:
			return h
		}
	}
	return Nil
}

// Contains reports whether key is in the tree.
func (t *Tree[K]) Contains(key K) bool {
	return t.Get(key) != Nil
}

// Next returns the in-order successor of h, or Nil.
func (t *Tree[K]) Next(h Handle) Handle {
	if r := t.nodes[h].right; r != Nil {
		return t.minFrom(r)
	}
	for p := t.nodes[h].parent; p != Nil; p = t.nodes[h].parent {
		if t.nodes[p].left == h {
			return p
		}
		h = p
	}
	return Nil
}

// Prev returns the in-order predecessor of h, or Nil.
func (t *Tree[K]) Prev(h Handle) Handle {
	if l := t.nodes[h].left; l != Nil {
		return t.maxFrom(l)
	}
	for p := t.nodes[h].parent; p != Nil; p = t.nodes[h].parent {
		if t.nodes[p].right == h {
			return p
		}
		h = p
	}
	return Nil
}

// MinNode returns the handle of the smallest key, or Nil when empty.
func (t *Tree[K]) MinNode() Handle {
	if t.root == Nil {
		return Nil
	}
	return t.minFrom(t.root)
}

// MaxNode returns the handle of the largest key, or Nil when empty.
func (t *Tree[K]) MaxNode() Handle {
	if t.root == Nil {
		return Nil
	}
	return t.maxFrom(t.root)
}

// Min returns the smallest key.
func (t *Tree[K]) Min() (K, bool) {
	h := t.MinNode()
	if h == Nil {
		var zero K
		return zero, false
	}
	return t.nodes[h].key, true
}

// Max returns the largest key.
func (t *Tree[K]) Max() (K, bool) {
	h := t.MaxNode()
	if h == Nil {
		var zero K
		return zero, false
	}
	return t.nodes[h].key, true
}

// All iterates over the keys in ascending order. The tree must not be
// modified during iteration.
func (t *Tree[K]) All() iter.Seq[K] {
	return func(yield func(K) bool) {
		for h := t.MinNode(); h != Nil; h = t.Next(h) {
			if !yield(t.nodes[h].key) {
				return
			}
		}
	}
}

// Keys returns the keys in ascending order.
func (t *Tree[K]) Keys() []K {
	keys := make([]K, 0, t.size)
	for k := range t.All() {
		keys = append(keys, k)
	}
	return keys
}

func (t *Tree[K]) minFrom(h Handle) Handle {
	for t.nodes[h].left != Nil {
		h = t.nodes[h].left
	}
	return h
}

func (t *Tree[K]) maxFrom(h Handle) Handle {
	for t.nodes[h].right != Nil {
		h = t.nodes[h].right
	}
	return h
}

// alloc takes a slot from the free list or grows the arena.
func (t *Tree[K]) alloc(key K) Handle {
	n := node[K]{key: key, left: Nil, right: Nil, parent: Nil}
	if k := len(t.free); k > 0 {
		h := t.free[k-1]
		t.free = t.free[:k-1]
		t.nodes[h] = n
		return h
	}
	t.nodes = append(t.nodes, n)
	return Handle(len(t.nodes) - 1)
}

func (t *Tree[K]) release(h Handle) {
	var zero K
	t.nodes[h] = node[K]{key: zero, left: Nil, right: Nil, parent: Nil, height: -1}
	t.free = append(t.free, h)
}
