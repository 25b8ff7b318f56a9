package qptrie

import "github.com/hideo55/go-popcount"

// nibbit turns one nibble of a byte into a single-bit mask suitable for
// testing or indexing a branch's bitmap. flags selects which half of b
// is tested: flagUpper for the high nibble, flagLower for the low one.
func nibbit(b byte, flags uint64) uint32 {
	if flags == flagUpper {
		return 1 << (b >> 4)
	}
	return 1 << (b & 0x0F)
}

// twigbit extracts the nibble a branch tests from key and turns it
// into a bitmap mask. A key that ends before the branch's index routes
// through the canonical "key ended" slot, bit 0.
func twigbit(c *Cell, key []byte) uint32 {
	i := c.index()
	if i >= uint64(len(key)) {
		return 1
	}
	return nibbit(key[i], c.flags())
}

// popcountU32 counts the set bits of a 16-bit-wide bitmap using the
// hardware-backed popcount the go-popcount package wraps.
func popcountU32(w uint32) int { return int(popcount.Count(uint64(w))) }

// nibbleValue returns the nibble of key at (index, flags) as a value in
// [0, 15], or 0 if key has already ended - the same "key ended" nibble
// twigbit routes through bit 0.
func nibbleValue(key []byte, index int, flags uint64) byte {
	if index >= len(key) {
		return 0
	}
	if flags == flagUpper {
		return key[index] >> 4
	}
	return key[index] & 0x0F
}

// sortKeyOf returns (index<<2)|flags, matching Cell.sortKey's encoding.
func sortKeyOf(index int, flags uint64) uint64 { return uint64(index)<<flagsBits | flags }

// criticalPosition finds the first (index, flags) position at which a
// and b diverge: the first byte where they differ, then whichever
// nibble of that byte differs first (upper before lower). It panics if
// a and b are equal, which callers must rule out before calling it.
func criticalPosition(a, b []byte) (index int, flags uint64) {
	max := len(a)
	if len(b) > max {
		max = len(b)
	}

	for index := 0; index <= max; index++ {
		if nibbleValue(a, index, flagUpper) != nibbleValue(b, index, flagUpper) {
			return index, flagUpper
		}
		if nibbleValue(a, index, flagLower) != nibbleValue(b, index, flagLower) {
			return index, flagLower
		}
	}

	panic("qptrie: criticalPosition called with identical keys")
}
