package qptrie

import (
	"bytes"
	"unsafe"
)

// Table is a qp trie: an associative container keyed by opaque byte
// strings, mapping each key to an opaque value reference. The zero
// value is not usable; construct one with New.
type Table struct {
	root  Cell
	count int
	alloc Allocator
}

// New returns an empty Table, optionally configured by opts.
func New(opts ...Option) *Table {
	t := &Table{alloc: DefaultAllocator}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Len returns the number of keys currently stored.
func (t *Table) Len() int { return t.count }

// Get returns the value associated with key, or (nil, false) if key is
// not present. Descent never re-checks the prefix it has already
// committed to; only the leaf reached at the end is compared against
// key, byte for byte.
func (t *Table) Get(key []byte) (val unsafe.Pointer, ok bool) {
	if t.count == 0 {
		return nil, false
	}

	cur := &t.root
	for cur.isBranch() {
		bit := twigbit(cur, key)
		if !cur.hastwig(bit) {
			return nil, false
		}
		cur = &cur.twigsSlice()[cur.twigoff(bit)]
	}

	leaf := leafOf(cur)
	if bytes.Equal(leaf.key, key) {
		return leaf.val, true
	}
	return nil, false
}

// Set associates val with key, returning the previous value if key was
// already present. A nil val is treated as a request to delete key. A
// non-nil val whose low two bits are not both clear is rejected with
// ErrMisalignedValue.
//
// If growing a twig array fails, Set returns the allocator's error
// without having mutated the tree.
func (t *Table) Set(key []byte, val unsafe.Pointer) (prev unsafe.Pointer, err error) {
	if val == nil {
		prev, _ = t.Delete(key)
		return prev, nil
	}
	if !isAligned(val) {
		return nil, ErrMisalignedValue
	}

	if t.count == 0 {
		t.root = newLeafCell(key, val)
		t.count = 1
		return nil, nil
	}

	// First walk: follow key down through existing twigs, stopping at
	// a leaf or at a branch that lacks the twig key would need next.
	cur := &t.root
	for cur.isBranch() {
		bit := twigbit(cur, key)
		if !cur.hastwig(bit) {
			break
		}
		cur = &cur.twigsSlice()[cur.twigoff(bit)]
	}

	var repKey []byte
	if cur.isLeaf() {
		leaf := leafOf(cur)
		if bytes.Equal(leaf.key, key) {
			prev = leaf.val
			leaf.val = val
			return prev, nil
		}
		repKey = leaf.key
	} else {
		repKey = firstLeafKey(cur)
	}

	newIndex, newFlags := criticalPosition(repKey, key)
	newOrder := sortKeyOf(newIndex, newFlags)

	// Second walk: find the shallowest branch whose (index, flags) is
	// greater-or-equal to the critical position - that is where the
	// new leaf belongs, either spliced in as a new branch or added as
	// a twig of an existing one.
	parent := &t.root
	for parent.isBranch() && parent.sortKey() < newOrder {
		bit := twigbit(parent, key)
		parent = &parent.twigsSlice()[parent.twigoff(bit)]
	}

	newLeaf := newLeafCell(key, val)

	if parent.isBranch() && parent.sortKey() == newOrder {
		bit := nibbit(byteAt(key, newIndex), newFlags)
		idx := parent.twigoff(bit)

		grown, growErr := t.alloc.Grow(parent.twigsSlice(), idx)
		if growErr != nil {
			return nil, growErr
		}
		grown[idx] = newLeaf

		parent.setTwigs(grown)
		parent.setBitmap(parent.bitmap() | bit)
		t.count++
		return nil, nil
	}

	oldSubtree := *parent
	bitNew := nibbit(byteAt(key, newIndex), newFlags)
	bitOld := nibbit(byteAt(repKey, newIndex), newFlags)

	twigs, newErr := t.alloc.New(2)
	if newErr != nil {
		return nil, newErr
	}
	if bitNew < bitOld {
		twigs[0], twigs[1] = newLeaf, oldSubtree
	} else {
		twigs[0], twigs[1] = oldSubtree, newLeaf
	}

	parent.setBranch(uint64(newIndex), newFlags, bitNew|bitOld, twigs)
	t.count++
	return nil, nil
}

// Delete removes key, returning its value if it was present. If
// shrinking the parent branch's twig array fails, Delete leaves the
// table unchanged and returns (nil, false) even though key is present.
func (t *Table) Delete(key []byte) (val unsafe.Pointer, ok bool) {
	if t.count == 0 {
		return nil, false
	}

	var parent *Cell
	var parentBit uint32

	cur := &t.root
	for cur.isBranch() {
		bit := twigbit(cur, key)
		if !cur.hastwig(bit) {
			return nil, false
		}
		parent = cur
		parentBit = bit
		cur = &cur.twigsSlice()[cur.twigoff(bit)]
	}

	leaf := leafOf(cur)
	if !bytes.Equal(leaf.key, key) {
		return nil, false
	}
	val = leaf.val

	if parent == nil {
		// the root was a single leaf
		t.root = Cell{}
		t.count = 0
		return val, true
	}

	idx := parent.twigoff(parentBit)
	shrunk, err := t.alloc.Shrink(parent.twigsSlice(), idx)
	if err != nil {
		return nil, false
	}

	parent.setBitmap(parent.bitmap() &^ parentBit)
	parent.setTwigs(shrunk)
	t.count--

	if len(shrunk) == 1 {
		// the PATRICIA invariant forbids a one-child branch: collapse
		// it by replacing the branch with its sole surviving twig.
		*parent = shrunk[0]
	}

	return val, true
}

// firstLeafKey returns the key of some leaf reachable below c, used
// when Set needs a representative key for a subtree it stopped short
// of (any reachable leaf works for computing the critical position).
func firstLeafKey(c *Cell) []byte {
	for c.isBranch() {
		c = &c.twigsSlice()[0]
	}
	return leafOf(c).key
}

// byteAt returns key[i], or 0 if i is out of range - the same "key
// ended" convention twigbit uses.
func byteAt(key []byte, i int) byte {
	if i >= len(key) {
		return 0
	}
	return key[i]
}
