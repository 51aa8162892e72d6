// Package btreemap implements an ordered associative map backed by an
// external, indexable cell store.
//
// The map is a B-tree whose nodes live in storage cells addressed by 32-bit
// indices; every inter-node link is an index into the backing store, never a
// pointer. A densely stored header cell carries the root index, the pair
// count, and the free-slot bookkeeping. The design targets deterministic
// execution hosts where the store is the single shared resource: operations
// run to completion, mutate cells through a read-after-write consistent
// cache, and persist only when the host triggers [BTreeMap.Flush].
//
//	be := chunk.NewMemBackend()
//	m := btreemap.New[int, int](be, chunk.NewBumpAlloc(0), chunk.IntCodec{}, chunk.IntCodec{})
//
//	m.Insert(42, 420)
//	if v := m.Get(42); v != nil {
//		...
//	}
//	*m.Entry(77).OrInsert(0) += 1
//
//	m.Flush()
//
// Lookup, insertion with value replacement, and entry-based in-place
// mutation are supported; deletion is not, but the free-slot chain and the
// minimum-occupancy constant leave room for it.
package btreemap

import (
	"cmp"

	"github.com/flier/cellmap/pkg/chunk"
	"github.com/flier/cellmap/pkg/opt"
)

// BTreeMap is an ordered map of K to V stored as a B-tree over a cell array.
type BTreeMap[K, V any] struct {
	// header carries the densely stored tree-wide bookkeeping.
	header *chunk.Value[Header]

	// entries is the cell array holding the nodes and the vacant chain.
	entries *chunk.SyncChunk[Cell[K, V]]

	compare func(a, b K) int
}

// New initializes an empty map on be: zeroed header, root at cell 0. The
// header cell and the cell array are claimed from alloc.
func New[K cmp.Ordered, V any](be chunk.Backend, alloc *chunk.BumpAlloc, kc chunk.Codec[K], vc chunk.Codec[V]) *BTreeMap[K, V] {
	return NewFunc[K, V](be, alloc, cmp.Compare[K], kc, vc)
}

// NewFunc is New with an explicit key comparator.
func NewFunc[K, V any](be chunk.Backend, alloc *chunk.BumpAlloc, compare func(a, b K) int, kc chunk.Codec[K], vc chunk.Codec[V]) *BTreeMap[K, V] {
	m := OpenFunc[K, V](be, alloc, compare, kc, vc)
	m.header.Set(Header{})

	return m
}

// Open attaches to a map that already lives on be, replaying the allocation
// sequence that created it. The header is read lazily on first access.
func Open[K cmp.Ordered, V any](be chunk.Backend, alloc *chunk.BumpAlloc, kc chunk.Codec[K], vc chunk.Codec[V]) *BTreeMap[K, V] {
	return OpenFunc[K, V](be, alloc, cmp.Compare[K], kc, vc)
}

// OpenFunc is Open with an explicit key comparator.
func OpenFunc[K, V any](be chunk.Backend, alloc *chunk.BumpAlloc, compare func(a, b K) int, kc chunk.Codec[K], vc chunk.Codec[V]) *BTreeMap[K, V] {
	return &BTreeMap[K, V]{
		header:  chunk.NewValue[Header](be, alloc, headerCodec{}),
		entries: chunk.NewSyncChunk[Cell[K, V]](be, alloc, cellCodec[K, V]{key: kc, val: vc}),
		compare: compare,
	}
}

// Len returns the number of key/value pairs stored in the map.
func (m *BTreeMap[K, V]) Len() uint32 {
	return m.header.Get().Len
}

// IsEmpty reports whether the map contains no pairs.
func (m *BTreeMap[K, V]) IsEmpty() bool {
	return m.Len() == 0
}

// Get returns a pointer to the value stored for key, or nil if the key is
// absent.
//
// The pointed-to value must not be modified; use [BTreeMap.Entry] for
// in-place mutation.
func (m *BTreeMap[K, V]) Get(key K) *V {
	res := m.searchTree(m.header.Get().Root, key)
	if !res.Found {
		return nil
	}

	node := m.getNode(res.Handle.Node)

	return node.Vals[res.Handle.Idx].ExpectRef("value slot addressed by a match must exist")
}

// Insert inserts a key/value pair into the map.
//
// If the map did not have this key present, nil is returned. If it did, the
// value is replaced and a pointer to the previous value is returned; the
// stored key is not updated.
func (m *BTreeMap[K, V]) Insert(key K, value V) *V {
	switch e := m.Entry(key).(type) {
	case *OccupiedEntry[K, V]:
		return e.Insert(value)
	case *VacantEntry[K, V]:
		e.Insert(value)
		return nil
	default:
		panic("btreemap: unknown entry variant")
	}
}

// Entry returns the position of key in the map for in-place manipulation:
// an [*OccupiedEntry] when the key is present, a [*VacantEntry] otherwise.
func (m *BTreeMap[K, V]) Entry(key K) Entry[K, V] {
	res := m.searchTree(m.header.Get().Root, key)
	if res.Found {
		return &OccupiedEntry[K, V]{m: m, handle: res.Handle}
	}

	return &VacantEntry[K, V]{m: m, key: opt.Some(key), handle: res.Handle}
}

// Flush writes the header and every dirty cell back to the backend. Partial
// flushes are not supported; the host calls this once per transaction.
func (m *BTreeMap[K, V]) Flush() {
	m.header.Flush()
	m.entries.Flush()
}

// getNode returns the node stored at index idx.
//
// Panics if the cell is missing or vacant: every index reached through the
// tree must address a live node.
func (m *BTreeMap[K, V]) getNode(idx uint32) *Node[K, V] {
	cell, ok := m.entries.Get(idx)
	if !ok {
		panic("btreemap: node cell must exist")
	}
	if cell.IsVacant() {
		panic("btreemap: expected an occupied cell, found a vacant one")
	}

	return cell.Node
}

// getNodeMut is getNode, additionally marking the cell dirty.
func (m *BTreeMap[K, V]) getNodeMut(idx uint32) *Node[K, V] {
	cell, ok := m.entries.GetMut(idx)
	if !ok {
		panic("btreemap: node cell must exist")
	}
	if cell.IsVacant() {
		panic("btreemap: expected an occupied cell, found a vacant one")
	}

	return cell.Node
}

// descend returns the index of the child below the edge addressed by handle.
func (m *BTreeMap[K, V]) descend(handle KVHandle) uint32 {
	node := m.getNode(handle.Node)

	return node.Edges[handle.Idx].Expect("descend edge must exist")
}

// ascend returns the edge handle this node occupies in its parent, or None
// for the root.
func (m *BTreeMap[K, V]) ascend(node uint32) opt.Option[KVHandle] {
	n := m.getNode(node)
	if n.Parent.IsNone() {
		return opt.None[KVHandle]()
	}

	return opt.Some(KVHandle{
		Node: n.Parent.Unwrap(),
		Idx:  n.ParentIdx.Expect("non-root node must carry its parent slot"),
	})
}
