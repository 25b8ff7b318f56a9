package qptrie

import "unsafe"

// Walk calls visit once for every leaf, in the order induced by
// ascending bitmap bits at each branch (increasing nibble value at
// every branch point). This is deterministic and stable for identical
// trees but is not, in general, lexicographic key order. visit must not
// mutate the table; doing so leaves traversal state undefined. Walk
// stops early if visit returns false.
func (t *Table) Walk(visit func(key []byte, val unsafe.Pointer) bool) {
	if t.count == 0 {
		return
	}
	walk(&t.root, visit)
}

func walk(c *Cell, visit func([]byte, unsafe.Pointer) bool) bool {
	if c.isBranch() {
		twigs := c.twigsSlice()
		for i := range twigs {
			if !walk(&twigs[i], visit) {
				return false
			}
		}
		return true
	}

	leaf := leafOf(c)
	return visit(leaf.key, leaf.val)
}

// Keys returns every key currently stored, in Walk order.
func (t *Table) Keys() [][]byte {
	keys := make([][]byte, 0, t.count)
	t.Walk(func(key []byte, _ unsafe.Pointer) bool {
		keys = append(keys, key)
		return true
	})
	return keys
}
