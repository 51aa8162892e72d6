package btreemap

import (
	"github.com/flier/cellmap/pkg/opt"
)

const (
	// B is the branching factor of the tree.
	B = 6

	// MinLen is the minimum occupancy of a non-root node, reserved for
	// deletion rebalancing.
	MinLen = B - 1

	// Capacity is the maximum number of key/value pairs per node.
	Capacity = 2*B - 1

	// EdgeCapacity is the maximum number of child edges per node.
	EdgeCapacity = 2 * B
)

// Node is one tree node as it is laid out in its storage cell.
//
// The keys are densely packed at the front of Keys, with Vals positionally
// aligned; Len tracks fullness. A node with no present edges is a leaf.
type Node[K, V any] struct {
	// Parent is the index of the parent node's cell; absent iff this node is
	// the root.
	Parent opt.Option[uint32]

	// ParentIdx is the slot this node occupies in its parent's Edges array.
	ParentIdx opt.Option[uint32]

	// Keys is the array storing the keys in the node.
	Keys [Capacity]opt.Option[K]

	// Vals is the array storing the values in the node.
	Vals [Capacity]opt.Option[V]

	// Edges is the array of child node indices.
	Edges [EdgeCapacity]opt.Option[uint32]

	// Len is the number of key/value pairs present in this node.
	Len uint32
}

// NewNode creates an empty leaf node.
func NewNode[K, V any]() *Node[K, V] {
	return &Node[K, V]{}
}

// Leaf reports whether this node has no present edges.
func (n *Node[K, V]) Leaf() bool {
	for i := range n.Edges {
		if n.Edges[i].IsSome() {
			return false
		}
	}

	return true
}

// Cell is one entry of the backing cell array: either a vacant slot carrying
// the next vacant index, or an occupied slot holding a live node.
type Cell[K, V any] struct {
	// Next is the next vacant index; present iff the cell is vacant.
	Next opt.Option[uint32]

	// Node is the live node; present iff the cell is occupied.
	Node *Node[K, V]
}

// Vacant creates a free cell pointing at the next vacant index.
func Vacant[K, V any](next uint32) Cell[K, V] {
	return Cell[K, V]{Next: opt.Some(next)}
}

// Occupied creates a live cell holding node.
func Occupied[K, V any](node *Node[K, V]) Cell[K, V] {
	return Cell[K, V]{Node: node}
}

// IsVacant reports whether the cell is on the vacant chain.
func (c Cell[K, V]) IsVacant() bool { return c.Node == nil }

// IsOccupied reports whether the cell holds a live node.
func (c Cell[K, V]) IsOccupied() bool { return c.Node != nil }

// NodeHandle addresses one cell of the backing array.
type NodeHandle uint32

// KVHandle addresses a key/value slot within a node. When used as an edge
// handle, Idx names an edge between key positions.
type KVHandle struct {
	// Node is the index of the node's cell.
	Node uint32

	// Idx is the slot within the node.
	Idx uint32
}

// NodeHandle returns the handle of the whole node this slot belongs to.
func (h KVHandle) NodeHandle() NodeHandle { return NodeHandle(h.Node) }

// sliceInsert shifts arr[idx:] one slot right, dropping the last element, and
// writes val at idx. The last slot must be absent.
func sliceInsert[T any](arr []opt.Option[T], idx int, val opt.Option[T]) {
	copy(arr[idx+1:], arr[idx:len(arr)-1])
	arr[idx] = val
}
