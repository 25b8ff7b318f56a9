package qptrie

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Stats reports the structural statistics a single walk of a Table can
// gather: total cell bytes, the sum of every leaf's depth (for
// computing average depth), and the branch/leaf counts.
type Stats struct {
	Kind         string
	TotalBytes   uint64
	LeafDepthSum uint64
	Branches     int
	Leaves       int
}

// Size walks the whole table once and returns its structural stats.
func (t *Table) Size() Stats {
	st := Stats{Kind: "qp"}
	if t.count > 0 {
		sizeRec(&t.root, 0, &st)
	}
	return st
}

func sizeRec(c *Cell, depth uint64, st *Stats) {
	st.TotalBytes += uint64(cellSize)

	if c.isBranch() {
		st.Branches++
		twigs := c.twigsSlice()
		for i := range twigs {
			sizeRec(&twigs[i], depth+1, st)
		}
		return
	}

	st.Leaves++
	st.LeafDepthSum += depth
}

// Dump writes a human-readable structural dump of the table to w: one
// line per branch (address, index, flags), one line per present twig,
// and three lines per leaf (address, key, value).
func (t *Table) Dump(w io.Writer) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "qptrie root %p\n", t)
	if t.count > 0 {
		dumpRec(bw, &t.root, 0)
	}

	return bw.Flush()
}

func dumpRec(w *bufio.Writer, c *Cell, depth int) {
	indent := strings.Repeat("  ", depth)

	if c.isBranch() {
		fmt.Fprintf(w, "%sbranch %p index=%d flags=%d\n", indent, c, c.index(), c.flags())

		bm := c.bitmap()
		twigs := c.twigsSlice()
		for nib := 0; nib < 16; nib++ {
			bit := uint32(1) << nib
			if bm&bit == 0 {
				continue
			}
			fmt.Fprintf(w, "%s  twig %d\n", indent, nib)
			dumpRec(w, &twigs[c.twigoff(bit)], depth+1)
		}
		return
	}

	leaf := leafOf(c)
	fmt.Fprintf(w, "%sleaf %p\n", indent, c)
	fmt.Fprintf(w, "%s  leaf key %p %q\n", indent, unsafePointerOf(leaf.key), leaf.key)
	fmt.Fprintf(w, "%s  leaf val %p\n", indent, leaf.val)
}
