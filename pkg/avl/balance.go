package avl

import (
	"fmt"

	"github.com/pkg/errors"
)

// balanceState classifies the height difference between a node's
// children (left minus right).
type balanceState int

const (
	unbalancedRight balanceState = iota // -2
	slightlyRight                       // -1
	balanced                            // 0
	slightlyLeft                        // +1
	unbalancedLeft                      // +2
)

func (s balanceState) String() string {
	switch s {
	case unbalancedRight:
		return "unbalanced-right"
	case slightlyRight:
		return "slightly-right"
	case balanced:
		return "balanced"
	case slightlyLeft:
		return "slightly-left"
	case unbalancedLeft:
		return "unbalanced-left"
	default:
		return fmt.Sprintf("balanceState(%d)", int(s))
	}
}

func (t *Tree[K]) height(h Handle) int {
	if h == Nil {
		return -1
	}
	return t.nodes[h].height
}

func (t *Tree[K]) updateHeight(h Handle) {
	t.nodes[h].height = max(t.height(t.nodes[h].left), t.height(t.nodes[h].right)) + 1
}

func (t *Tree[K]) balanceFactor(h Handle) int {
	return t.height(t.nodes[h].left) - t.height(t.nodes[h].right)
}

func (t *Tree[K]) balanceState(h Handle) balanceState {
	switch t.balanceFactor(h) {
	case -2:
		return unbalancedRight
	case -1:
		return slightlyRight
	case 1:
		return slightlyLeft
	case 2:
		return unbalancedLeft
	default:
		return balanced
	}
}

// linkLeft makes child the left child of h, detaching the previous one.
func (t *Tree[K]) linkLeft(h, child Handle) {
	if old := t.nodes[h].left; old != Nil && t.nodes[old].parent == h {
		t.nodes[old].parent = Nil
	}
	t.nodes[h].left = child
	if child != Nil {
		t.nodes[child].parent = h
	}
}

// linkRight makes child the right child of h, detaching the previous one.
func (t *Tree[K]) linkRight(h, child Handle) {
	if old := t.nodes[h].right; old != Nil && t.nodes[old].parent == h {
		t.nodes[old].parent = Nil
	}
	t.nodes[h].right = child
	if child != Nil {
		t.nodes[child].parent = h
	}
}

// rotateRight rotates the subtree rooted at h to the right and returns
// the new subtree root.
//
//	      h                 l
//	     / \               / \
//	    l   e     ->      c   h
//	   / \                   / \
//	  c   d                 d   e
func (t *Tree[K]) rotateRight(h Handle) Handle {
	parent := t.nodes[h].parent
	l := t.nodes[h].left
	t.linkLeft(h, t.nodes[l].right)
	t.linkRight(l, h)
	t.nodes[l].parent = parent
	t.updateHeight(h)
	t.updateHeight(l)
	return l
}

// rotateLeft is the mirror image of rotateRight.
//
//	    h                     r
//	   / \                   / \
//	  c   r       ->        h   e
//	     / \               / \
//	    d   e             c   d
func (t *Tree[K]) rotateLeft(h Handle) Handle {
	parent := t.nodes[h].parent
	r := t.nodes[h].right
	t.linkRight(h, t.nodes[r].left)
	t.linkLeft(r, h)
	t.nodes[r].parent = parent
	t.updateHeight(h)
	t.updateHeight(r)
	return r
}

// Check walks the whole tree and verifies cached heights, balance
// factors, parent/child symmetry, strict key order and the size counter.
func (t *Tree[K]) Check() error {
	if t.root != Nil && t.nodes[t.root].parent != Nil {
		return errors.Errorf("avl: root %d has parent %d", t.root, t.nodes[t.root].parent)
	}
	count, _, err := t.check(t.root)
	if err != nil {
		return err
	}
	if count != t.size {
		return errors.Errorf("avl: size is %d but %d nodes are reachable", t.size, count)
	}

	prev := Nil
	for h := t.MinNode(); h != Nil; h = t.Next(h) {
		if prev != Nil && t.cmp(t.nodes[prev].key, t.nodes[h].key) >= 0 {
			return errors.Errorf("avl: nodes %d and %d out of order", prev, h)
		}
		prev = h
	}
	return nil
}

func (t *Tree[K]) check(h Handle) (count, height int, err error) {
	if h == Nil {
		return 0, -1, nil
	}
	n := t.nodes[h]
	for _, c := range [2]Handle{n.left, n.right} {
		if c != Nil && t.nodes[c].parent != h {
			return 0, 0, errors.Errorf("avl: node %d has parent %d, want %d", c, t.nodes[c].parent, h)
		}
	}
	lc, lh, err := t.check(n.left)
	if err != nil {
		return 0, 0, err
	}
	rc, rh, err := t.check(n.right)
	if err != nil {
		return 0, 0, err
	}
	height = max(lh, rh) + 1
	if height != n.height {
		return 0, 0, errors.Errorf("avl: node %d caches height %d, actual %d", h, n.height, height)
	}
	if bf := lh - rh; bf < -1 || bf > 1 {
		return 0, 0, errors.Errorf("avl: node %d has balance factor %d", h, bf)
	}
	return lc + rc + 1, height, nil
}
