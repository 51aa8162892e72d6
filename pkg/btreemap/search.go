package btreemap

// SearchResult is the outcome of a tree descent.
//
// When Found is true, Handle addresses an existing pair. Otherwise Handle
// addresses the leaf slot where the key would be inserted.
type SearchResult struct {
	Handle KVHandle
	Found  bool
}

// searchTree descends from the cell at root looking for key.
//
// An empty tree yields a synthetic insertion point at the root cell, even
// before any node exists there.
func (m *BTreeMap[K, V]) searchTree(root uint32, key K) SearchResult {
	if m.Len() == 0 {
		return SearchResult{Handle: KVHandle{Node: root, Idx: 0}}
	}

	cur := root
	for {
		node := m.getNode(cur)

		res := searchNode(node, cur, key, m.compare)
		if res.Found {
			return res
		}

		// A node with zero present edges is a leaf; the descent ends here.
		if node.Leaf() {
			return res
		}

		cur = m.descend(res.Handle)
	}
}

// searchNode runs the intra-node search on one node.
func searchNode[K, V any](node *Node[K, V], nodeIndex uint32, key K, compare func(a, b K) int) SearchResult {
	idx, found := searchLinear(node, key, compare)

	return SearchResult{Handle: KVHandle{Node: nodeIndex, Idx: idx}, Found: found}
}

// searchLinear scans the key slots of node from the front.
//
// It returns the slot of a match, or the edge index where the descent
// continues: the first absent slot, the first slot holding a greater key, or
// node.Len when every slot holds a smaller key.
//
// With Capacity = 11 a linear scan beats binary search on typical
// comparators, and the returned edge index is exactly the slot where the key
// would be inserted.
func searchLinear[K, V any](node *Node[K, V], key K, compare func(a, b K) int) (uint32, bool) {
	for i := range node.Keys {
		k := node.Keys[i]
		if k.IsNone() {
			return uint32(i), false
		}

		switch c := compare(key, *k.Value); {
		case c > 0:
			// keep scanning
		case c == 0:
			return uint32(i), true
		default:
			return uint32(i), false
		}
	}

	return node.Len, false
}
