package qptrie

import "unsafe"

// Packed layout of a branch Cell's bitpack word, low bit to high bit:
//
//	[ 2:flags ] [ 46:index ] [ 16:bitmap ]
//
// This mirrors struct Tbranch from the original C qp trie, which packs
// the same three fields into one 64-bit word alongside a twigs
// pointer. It assumes a 64-bit build; key offsets above 2^46 bytes
// aren't representable, which is not a concern for any realistic key.
const (
	flagsBits  = 2
	flagsMask  = uint64(1)<<flagsBits - 1
	indexShift = flagsBits
	indexBits  = 46
	indexMask  = uint64(1)<<indexBits - 1

	bitmapShift = indexShift + indexBits // 48
	bitmapBits  = 16
	bitmapMask  = uint64(1)<<bitmapBits - 1

	// sortKeyMask covers the flags and index fields only, i.e. the
	// (index<<2)|flags value that must strictly increase root to leaf.
	sortKeyMask = uint64(1)<<bitmapShift - 1

	flagLeaf  = 0
	flagUpper = 1
	flagLower = 2
)

// Cell is the fundamental storage unit of a Table: either a leaf or a
// branch, distinguished by the low two bits of bitpack.
type Cell struct {
	bitpack uint64
	ptr     unsafe.Pointer
}

// leafData holds the borrowed key and the caller's value reference for
// a leaf Cell. It exists as a separate allocation so that Cell itself
// stays exactly two machine words, the same footprint a branch needs.
type leafData struct {
	key []byte
	val unsafe.Pointer
}

func newLeafCell(key []byte, val unsafe.Pointer) Cell {
	return Cell{bitpack: 0, ptr: unsafe.Pointer(&leafData{key: key, val: val})}
}

func (c *Cell) isBranch() bool { return c.bitpack&flagsMask != flagLeaf }
func (c *Cell) isLeaf() bool   { return !c.isBranch() }

func (c *Cell) flags() uint64  { return c.bitpack & flagsMask }
func (c *Cell) index() uint64  { return (c.bitpack >> indexShift) & indexMask }
func (c *Cell) bitmap() uint32 { return uint32((c.bitpack >> bitmapShift) & bitmapMask) }

// sortKey returns (index<<2)|flags, the value that must strictly
// increase from a branch to any of its children.
func (c *Cell) sortKey() uint64 { return c.bitpack & sortKeyMask }

func packBranch(index uint64, flags uint64, bitmap uint32) uint64 {
	return (flags & flagsMask) |
		((index & indexMask) << indexShift) |
		((uint64(bitmap) & bitmapMask) << bitmapShift)
}

// setBranch overwrites c in place with a branch discriminating on the
// given (index, flags), owning the given twigs.
func (c *Cell) setBranch(index uint64, flags uint64, bitmap uint32, twigs []Cell) {
	c.bitpack = packBranch(index, flags, bitmap)
	c.ptr = unsafe.Pointer(unsafe.SliceData(twigs))
}

func (c *Cell) setBitmap(bitmap uint32) {
	c.bitpack = (c.bitpack &^ (bitmapMask << bitmapShift)) | ((uint64(bitmap) & bitmapMask) << bitmapShift)
}

func (c *Cell) setTwigs(twigs []Cell) { c.ptr = unsafe.Pointer(unsafe.SliceData(twigs)) }

func (c *Cell) hastwig(bit uint32) bool { return c.bitmap()&bit != 0 }

// twigoff returns the packed-array offset of the twig selected by bit,
// which must have hastwig(bit) true unless it is being inserted.
func (c *Cell) twigoff(bit uint32) int { return popcountU32(c.bitmap() & (bit - 1)) }

// twigsSlice reinterprets the branch's pointer plus its bitmap's
// population count as a slice over the packed twig array.
func (c *Cell) twigsSlice() []Cell {
	return unsafe.Slice((*Cell)(c.ptr), popcountU32(c.bitmap()))
}

func leafOf(c *Cell) *leafData { return (*leafData)(c.ptr) }

// isAligned reports whether p's low two bits are clear, the alignment
// every leaf value reference must satisfy.
func isAligned(p unsafe.Pointer) bool { return uintptr(p)&uintptr(flagsMask) == 0 }

// cellSize is the per-cell byte cost Size reports, mirroring
// qp-debug.c's size_rec, which adds sizeof(*t) for every cell visited.
const cellSize = unsafe.Sizeof(Cell{})

// unsafePointerOf returns the address of b's backing array, for the
// address column Dump prints next to a leaf's key.
func unsafePointerOf(b []byte) unsafe.Pointer { return unsafe.Pointer(unsafe.SliceData(b)) }
