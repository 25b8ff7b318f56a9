// Package qptrie implements a quadbit popcount PATRICIA trie ("qp trie"):
// a radix-16 trie keyed by opaque byte strings, in which every branch
// node tests one nibble (half-byte) of the key and stores only the
// children that exist, packed into a dense array indexed by population
// count over a 16-bit presence bitmap.
//
// A Table is built from Cells. Every Cell is either a leaf or a branch;
// the two share the same two-machine-word footprint:
//
//	bitpack uint64          // branch: flags(2) | index(46) | bitmap(16); leaf: always 0
//	ptr     unsafe.Pointer  // branch: *Cell (first of a packed twig array); leaf: *leafData
//
// The low two bits of bitpack are the type tag: 0 means the cell is a
// leaf, 1 means it is a branch testing the upper nibble of the key byte
// at the packed index, 2 means lower nibble. A leaf's bitpack is always
// zero, so the tag test is a single comparison regardless of which kind
// of cell is being examined.
//
// Along any root-to-leaf path the pair (index, flags) - read as
// index<<2|flags - strictly increases from parent to child. Descent
// therefore never needs to re-check the prefix it has already
// committed to; only the leaf found at the end of a walk is compared
// against the search key byte-for-byte.
//
// Example trie holding "abc", "abd" and "abe" (NUL-terminated, so each
// key is 4 bytes):
//
//	[branch idx=2 lower] --+-- [leaf "abc"]
//	                       +-- [leaf "abd"]
//	                       `-- [leaf "abe"]
//
// A Table is not safe for concurrent use; callers needing concurrent
// access must provide their own synchronization. Keys passed to Set are
// borrowed, not copied - the caller must keep the backing array alive
// and unmodified for as long as the key remains in the table.
package qptrie
