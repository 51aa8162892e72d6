package btreemap

import (
	"github.com/flier/cellmap/internal/debug"
	"github.com/flier/cellmap/pkg/opt"
)

// insertResult is the outcome of placing a pair into one node: either the
// pair fit in place, or the node was split and the median must bubble up.
type insertResult[K, V any] struct {
	fit    bool
	handle KVHandle

	// The median pair and the new right sibling, present after a split.
	key   K
	val   V
	right NodeHandle
}

func fitResult[K, V any](handle KVHandle) insertResult[K, V] {
	return insertResult[K, V]{fit: true, handle: handle}
}

func splitResult[K, V any](handle KVHandle, key K, val V, right NodeHandle) insertResult[K, V] {
	return insertResult[K, V]{handle: handle, key: key, val: val, right: right}
}

// put places node at the next vacant cell and returns its index.
//
// When the vacant chain is empty (NextVacant == NodeCount) the cell array is
// extended; otherwise the chain head is consumed and NextVacant moves to the
// index the vacant cell carried. The package has no deletion, so no operation
// here pushes freed cells onto the chain.
func (m *BTreeMap[K, V]) put(node *Node[K, V]) uint32 {
	hdr := m.header.GetMut()
	current := hdr.NextVacant

	if current == hdr.NodeCount {
		m.entries.Set(current, Occupied(node))
		hdr.NextVacant = current + 1
	} else {
		prev, ok := m.entries.Put(current, Occupied(node))
		if !ok {
			panic("btreemap: expected a vacant entry here, but no entry was found")
		}
		if prev.IsOccupied() {
			panic("btreemap: a next_vacant index can never point to an occupied entry")
		}

		hdr.NextVacant = prev.Next.Unwrap()
	}

	hdr.NodeCount++
	if hdr.NodeCount > hdr.MaxLen {
		hdr.MaxLen = hdr.NodeCount
	}

	m.log("put", "node at cell %d, node_count %d", current, hdr.NodeCount)

	return current
}

// insertIntoNode places a pair into the leaf addressed by handle, splitting
// the leaf when it is full. It returns the outcome together with a pointer
// to the placed value, which stays valid for the rest of the operation:
// splits above a leaf never move that leaf's own slots.
func (m *BTreeMap[K, V]) insertIntoNode(handle KVHandle, key K, val V) (insertResult[K, V], *V) {
	node := m.getNode(handle.Node)

	if node.Len < Capacity {
		idx, _ := searchLinear(node, key, m.compare)
		ptr := m.insertFit(KVHandle{Node: handle.Node, Idx: idx}, key, val)
		m.header.GetMut().Len++

		return fitResult[K, V](handle), ptr
	}

	k, v, right := m.splitLeaf(handle.Node, B)

	var ptr *V
	if handle.Idx <= B {
		// handle is on the left side
		ptr = m.insertFit(handle, key, val)
	} else {
		ptr = m.insertFit(KVHandle{Node: uint32(right), Idx: handle.Idx - (B + 1)}, key, val)
	}

	return splitResult(handle, k, v, right), ptr
}

// insertIntoParent places a bubbled-up median and its right edge into the
// parent addressed by handle, splitting the parent when it is full.
func (m *BTreeMap[K, V]) insertIntoParent(handle KVHandle, key K, val V, edge NodeHandle) insertResult[K, V] {
	node := m.getNode(handle.Node)

	if node.Len < Capacity {
		idx, _ := searchLinear(node, key, m.compare)
		h := KVHandle{Node: handle.Node, Idx: idx}
		m.insertFitEdge(h, key, val, edge)

		return fitResult[K, V](h)
	}

	k, v, right := m.splitInternal(handle.Node, B)

	if handle.Idx <= B {
		// handle is on the left side
		m.insertFitEdge(handle, key, val, edge)
	} else {
		h := KVHandle{Node: uint32(right), Idx: handle.Idx - (B + 1)}
		m.insertFitEdge(h, key, val, edge)
	}

	return splitResult(handle, k, v, right)
}

// insertFit places a pair between the pairs to the left and right of handle.
// The node must have room for it.
//
// The returned pointer addresses the placed value.
func (m *BTreeMap[K, V]) insertFit(handle KVHandle, key K, val V) *V {
	node := m.getNodeMut(handle.Node)
	debug.Assert(node.Len < Capacity, "insert_fit needs a free slot in node %d", handle.Node)

	idx := int(handle.Idx)
	sliceInsert(node.Keys[:], idx, opt.Some(key))
	sliceInsert(node.Vals[:], idx, opt.Some(val))
	node.Len++

	return node.Vals[idx].ExpectRef("value was just inserted")
}

// insertFitEdge is insertFit for internal nodes: it additionally splices the
// new pair's right edge one slot past the pair, and repairs the parent link
// of every child whose edge was shifted.
func (m *BTreeMap[K, V]) insertFitEdge(handle KVHandle, key K, val V, edge NodeHandle) {
	m.insertFit(handle, key, val)

	node := m.getNodeMut(handle.Node)
	sliceInsert(node.Edges[:], int(handle.Idx)+1, opt.Some(uint32(edge)))

	for idx := handle.Idx + 1; idx < node.Len+1; idx++ {
		m.correctParentLink(KVHandle{Node: handle.Node, Idx: idx})
	}
}

// splitLeaf splits the full leaf at nodeIdx three ways: the pair at idx is
// extracted as the median, the pairs to its right move into a freshly
// allocated right sibling, and the leaf keeps the rest.
func (m *BTreeMap[K, V]) splitLeaf(nodeIdx uint32, idx int) (K, V, NodeHandle) {
	node := m.getNodeMut(nodeIdx)

	// splitting starts at leaf nodes only
	debug.Assert(node.Leaf(), "split_leaf on internal node %d", nodeIdx)

	right := NewNode[K, V]()

	k := node.Keys[idx].Take().Expect("split pivot key must exist")
	v := node.Vals[idx].Take().Expect("split pivot value must exist")
	node.Len--

	from := idx + 1
	for i := from; i < Capacity; i++ {
		a := i - from
		right.Keys[a] = node.Keys[i].Take()
		right.Vals[a] = node.Vals[i].Take()

		if right.Keys[a].IsSome() {
			node.Len--
			right.Len++
		}
	}

	rightIndex := m.put(right)

	m.log("split_leaf", "cell %d at %d -> median + right cell %d", nodeIdx, idx, rightIndex)

	return k, v, NodeHandle(rightIndex)
}

// splitInternal splits the full internal node at parent the same way as
// splitLeaf, moving the upper half of the edges along with the pairs and
// re-parenting every moved child onto the new right sibling.
func (m *BTreeMap[K, V]) splitInternal(parent uint32, idx int) (K, V, NodeHandle) {
	node := m.getNodeMut(parent)

	count := int(node.Len)
	newLen := count - idx - 1

	right := NewNode[K, V]()
	right.Parent = node.Parent
	right.ParentIdx = node.ParentIdx

	k := node.Keys[idx].Take().Expect("split pivot key must exist")
	v := node.Vals[idx].Take().Expect("split pivot value must exist")
	node.Len--

	from := idx + 1
	for a := 0; a < newLen; a++ {
		i := from + a
		right.Keys[a] = node.Keys[i].Take()
		right.Vals[a] = node.Vals[i].Take()

		if right.Keys[a].IsSome() {
			node.Len--
			right.Len++
		}
	}
	for a := 0; a < newLen+1; a++ {
		i := from + a
		right.Edges[a] = node.Edges[i].Take()
	}

	rightIndex := m.put(right)

	// Every moved child must point at its new parent exactly once.
	for i := 0; i < newLen+1; i++ {
		m.correctParentLink(KVHandle{Node: rightIndex, Idx: uint32(i)})
	}

	m.log("split_internal", "cell %d at %d -> median + right cell %d", parent, idx, rightIndex)

	return k, v, NodeHandle(rightIndex)
}

// rootPushLevel allocates a new root whose first edge is the old root,
// growing the tree by one level.
func (m *BTreeMap[K, V]) rootPushLevel() NodeHandle {
	hdr := m.header.GetMut()

	newRoot := NewNode[K, V]()
	newRoot.Edges[0] = opt.Some(hdr.Root)

	index := m.put(newRoot)

	oldRoot := m.getNodeMut(hdr.Root)
	oldRoot.Parent = opt.Some(index)
	oldRoot.ParentIdx = opt.Some(uint32(0))

	hdr.Root = index

	m.log("root_push_level", "new root at cell %d", index)

	return NodeHandle(index)
}

// push appends a pair and the edge to go to the right of it to the end of
// the node at dst. The node must have room for both.
func (m *BTreeMap[K, V]) push(dst NodeHandle, key K, val V, edge NodeHandle) {
	m.header.GetMut().Len++

	node := m.getNodeMut(uint32(dst))
	n := int(node.Len)

	node.Keys[n] = opt.Some(key)
	node.Vals[n] = opt.Some(val)
	node.Edges[n+1] = opt.Some(uint32(edge))

	handle := KVHandle{Node: uint32(dst), Idx: uint32(n + 1)}
	node.Len++

	m.correctParentLink(handle)
}

// correctParentLink rewrites the parent link of the child below the edge
// addressed by handle. Must be called after any reordering of edges.
func (m *BTreeMap[K, V]) correctParentLink(handle KVHandle) {
	child := m.descend(handle)

	node := m.getNodeMut(child)
	node.Parent = opt.Some(handle.Node)
	node.ParentIdx = opt.Some(handle.Idx)
}

func (m *BTreeMap[K, V]) log(op, format string, args ...any) {
	debug.Log([]any{"%p", m}, op, format, args...)
}
