package btreemap

import (
	"fmt"
)

// checkInvariants walks the whole tree and the vacant chain, verifying the
// structural invariants that must hold after every public operation:
// bookkeeping counts, strict key ordering with subtree bounds, parent-link
// coherence, uniform leaf depth, and vacant-chain well-formedness.
func (m *BTreeMap[K, V]) checkInvariants() error {
	hdr := m.header.Get()

	if hdr.Len > 0 {
		root, err := m.checkCell(hdr.Root)
		if err != nil {
			return err
		}
		if root.Parent.IsSome() || root.ParentIdx.IsSome() {
			return fmt.Errorf("root %d must not carry parent links", hdr.Root)
		}

		seen := make(map[uint32]bool)
		leafDepth := -1

		var pairs uint32

		var walk func(idx uint32, depth int, lower, upper *K) error
		walk = func(idx uint32, depth int, lower, upper *K) error {
			if seen[idx] {
				return fmt.Errorf("cell %d is reachable through two parent chains", idx)
			}
			seen[idx] = true

			node, err := m.checkCell(idx)
			if err != nil {
				return err
			}

			// Keys and values dense to Len, absent beyond, strictly increasing.
			for i := 0; i < Capacity; i++ {
				present := i < int(node.Len)
				if node.Keys[i].IsSome() != present || node.Vals[i].IsSome() != present {
					return fmt.Errorf("cell %d slot %d breaks dense packing at len %d", idx, i, node.Len)
				}
			}
			for i := 1; i < int(node.Len); i++ {
				if m.compare(*node.Keys[i-1].Value, *node.Keys[i].Value) >= 0 {
					return fmt.Errorf("cell %d keys not strictly increasing at slot %d", idx, i)
				}
			}

			// Subtree keys stay inside the parent's surrounding interval.
			if node.Len > 0 {
				if lower != nil && m.compare(*node.Keys[0].Value, *lower) <= 0 {
					return fmt.Errorf("cell %d first key breaks the lower bound", idx)
				}
				if upper != nil && m.compare(*node.Keys[node.Len-1].Value, *upper) >= 0 {
					return fmt.Errorf("cell %d last key breaks the upper bound", idx)
				}
			}

			pairs += node.Len

			if node.Leaf() {
				if leafDepth == -1 {
					leafDepth = depth
				} else if depth != leafDepth {
					return fmt.Errorf("leaf %d at depth %d, expected %d", idx, depth, leafDepth)
				}

				return nil
			}

			// Internal node: edges dense to Len+1, absent beyond.
			for i := 0; i < EdgeCapacity; i++ {
				present := i <= int(node.Len)
				if node.Edges[i].IsSome() != present {
					return fmt.Errorf("cell %d edge %d breaks dense packing at len %d", idx, i, node.Len)
				}
			}

			for i := 0; i <= int(node.Len); i++ {
				child := node.Edges[i].Unwrap()

				cn, err := m.checkCell(child)
				if err != nil {
					return err
				}

				if cn.Parent.UnwrapOr(^uint32(0)) != idx || cn.ParentIdx.UnwrapOr(^uint32(0)) != uint32(i) {
					return fmt.Errorf("cell %d edge %d: child %d parent link %s/%s does not match",
						idx, i, child, cn.Parent, cn.ParentIdx)
				}

				lo, hi := lower, upper
				if i > 0 {
					lo = node.Keys[i-1].Value
				}
				if i < int(node.Len) {
					hi = node.Keys[i].Value
				}

				if err := walk(child, depth+1, lo, hi); err != nil {
					return err
				}
			}

			return nil
		}

		if err := walk(hdr.Root, 0, nil, nil); err != nil {
			return err
		}

		if pairs != hdr.Len {
			return fmt.Errorf("header len %d but %d pairs reachable", hdr.Len, pairs)
		}
		if uint32(len(seen)) != hdr.NodeCount {
			return fmt.Errorf("header node_count %d but %d cells reachable", hdr.NodeCount, len(seen))
		}
	}

	if hdr.MaxLen < hdr.NodeCount {
		return fmt.Errorf("max_len %d below node_count %d", hdr.MaxLen, hdr.NodeCount)
	}

	return m.checkVacantChain()
}

// checkCell returns the node at idx, or an error if the cell is missing or
// vacant.
func (m *BTreeMap[K, V]) checkCell(idx uint32) (*Node[K, V], error) {
	cell, ok := m.entries.Get(idx)
	if !ok {
		return nil, fmt.Errorf("cell %d is missing", idx)
	}
	if cell.IsVacant() {
		return nil, fmt.Errorf("cell %d is vacant but reachable", idx)
	}

	return cell.Node, nil
}

// checkVacantChain walks the vacant chain from the header: only vacant
// cells, no cycles, terminated by the node-count sentinel.
func (m *BTreeMap[K, V]) checkVacantChain() error {
	hdr := m.header.Get()

	visited := make(map[uint32]bool)

	cur := hdr.NextVacant
	for cur != hdr.NodeCount {
		if visited[cur] {
			return fmt.Errorf("vacant chain cycles back to cell %d", cur)
		}
		visited[cur] = true

		if len(visited) > int(hdr.MaxLen) {
			return fmt.Errorf("vacant chain longer than the cell array")
		}

		cell, ok := m.entries.Get(cur)
		if !ok {
			return fmt.Errorf("vacant chain reaches missing cell %d", cur)
		}
		if cell.IsOccupied() {
			return fmt.Errorf("vacant chain reaches occupied cell %d", cur)
		}

		cur = cell.Next.Unwrap()
	}

	return nil
}
