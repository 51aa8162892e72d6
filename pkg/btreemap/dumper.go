package btreemap

import (
	"fmt"
	"io"
	"strings"
)

// DumpString is just a wrapper for Dump.
func (m *BTreeMap[K, V]) DumpString() string {
	w := new(strings.Builder)
	m.Dump(w)

	return w.String()
}

// Dump writes the header and every allocated cell to w, one cell per block.
// Useful during development and debugging.
//
//	Output:
//
//	root=2 len=13 node_count=3 next_vacant=3 max_len=3
//	cell 0: leaf len=6 parent=Some(2)/Some(0)
//	  keys: Some(1) Some(2) Some(3) Some(4) Some(5) Some(6)
//	cell 1: leaf len=6 parent=Some(2)/Some(1)
//	  keys: Some(8) Some(9) Some(10) Some(11) Some(12) Some(13)
//	cell 2: node len=1 parent=None/None
//	  keys: Some(7)
//	  edges: Some(0) Some(1)
func (m *BTreeMap[K, V]) Dump(w io.Writer) {
	hdr := m.header.Get()

	fmt.Fprintf(w, "root=%d len=%d node_count=%d next_vacant=%d max_len=%d\n",
		hdr.Root, hdr.Len, hdr.NodeCount, hdr.NextVacant, hdr.MaxLen)

	for i := uint32(0); i < hdr.MaxLen; i++ {
		cell, ok := m.entries.Get(i)
		if !ok {
			fmt.Fprintf(w, "cell %d: missing\n", i)
			continue
		}

		if cell.IsVacant() {
			fmt.Fprintf(w, "cell %d: vacant next=%d\n", i, cell.Next.Unwrap())
			continue
		}

		node := cell.Node

		kind := "node"
		if node.Leaf() {
			kind = "leaf"
		}

		fmt.Fprintf(w, "cell %d: %s len=%d parent=%s/%s\n",
			i, kind, node.Len, node.Parent, node.ParentIdx)

		fmt.Fprintf(w, "  keys:")
		for j := uint32(0); j < node.Len; j++ {
			fmt.Fprintf(w, " %s", node.Keys[j])
		}
		fmt.Fprintln(w)

		if !node.Leaf() {
			fmt.Fprintf(w, "  edges:")
			for j := range node.Edges {
				if node.Edges[j].IsSome() {
					fmt.Fprintf(w, " %s", node.Edges[j])
				}
			}
			fmt.Fprintln(w)
		}
	}
}
