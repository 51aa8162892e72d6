package btreemap

import (
	"github.com/flier/cellmap/pkg/opt"
)

// Entry is a view into a single map position, either occupied or vacant.
type Entry[K, V any] interface {
	// Key returns the key this entry addresses.
	Key() K

	// OrInsert ensures a value is in the entry by inserting def when vacant,
	// and returns a pointer to the value.
	OrInsert(def V) *V
}

// OccupiedEntry is a view into a position holding a pair.
type OccupiedEntry[K, V any] struct {
	m      *BTreeMap[K, V]
	handle KVHandle
}

var _ Entry[int, int] = (*OccupiedEntry[int, int])(nil)

// Key returns the key stored in the entry.
func (e *OccupiedEntry[K, V]) Key() K {
	node := e.m.getNode(e.handle.Node)

	return node.Keys[e.handle.Idx].Expect("occupied entry must address a key")
}

// Get returns a pointer to the value in the entry.
//
// The pointed-to value must not be modified through it; use
// [OccupiedEntry.GetMut] instead.
func (e *OccupiedEntry[K, V]) Get() *V {
	node := e.m.getNode(e.handle.Node)

	return node.Vals[e.handle.Idx].ExpectRef("occupied entry must address a value")
}

// GetMut returns a pointer to the value in the entry for in-place mutation.
// The same entry may be used multiple times.
func (e *OccupiedEntry[K, V]) GetMut() *V {
	node := e.m.getNodeMut(e.handle.Node)

	return node.Vals[e.handle.Idx].ExpectRef("occupied entry must address a value")
}

// IntoMut converts the entry into a pointer to its value.
func (e *OccupiedEntry[K, V]) IntoMut() *V { return e.GetMut() }

// Insert replaces the entry's value and returns a pointer to the previous
// one.
func (e *OccupiedEntry[K, V]) Insert(value V) *V {
	node := e.m.getNodeMut(e.handle.Node)
	old := node.Vals[e.handle.Idx].Replace(value)

	return old.ExpectRef("occupied entry must address a value")
}

// OrInsert returns a pointer to the present value; def is discarded.
func (e *OccupiedEntry[K, V]) OrInsert(V) *V { return e.IntoMut() }

// VacantEntry is a view into a position where the key is absent.
type VacantEntry[K, V any] struct {
	m      *BTreeMap[K, V]
	key    opt.Option[K]
	handle KVHandle
}

var _ Entry[int, int] = (*VacantEntry[int, int])(nil)

// Key returns the key that would be used when inserting through the entry.
func (e *VacantEntry[K, V]) Key() K {
	return e.key.Expect("entry does always have a key")
}

// OrInsert inserts def and returns a pointer to it.
func (e *VacantEntry[K, V]) OrInsert(def V) *V { return e.Insert(def) }

// Insert sets the value of the entry with the entry's key and returns a
// pointer to it.
//
// The pointer stays valid for the rest of the operation even when the
// insertion splits nodes higher up: splits above a leaf never move that
// leaf's own slots.
func (e *VacantEntry[K, V]) Insert(value V) *V {
	m := e.m
	hdr := m.header.GetMut()

	if hdr.Len == 0 {
		// First pair: allocate the initial leaf and point the root at it.
		node := NewNode[K, V]()
		node.Keys[0] = opt.Some(e.key.Take().Expect("entry does always have a key"))
		node.Vals[0] = opt.Some(value)
		node.Len = 1

		index := m.put(node)
		hdr.Root = index
		hdr.Len++

		inserted := m.getNode(index)

		return inserted.Vals[0].ExpectRef("value was just inserted")
	}

	key := e.key.Take().Expect("entry does always have a key")

	res, out := m.insertIntoNode(e.handle, key, value)
	if res.fit {
		return out
	}

	insKey, insVal := res.key, res.val
	insEdge := res.right
	curParent := m.ascend(res.handle.Node)

	for {
		if curParent.IsNone() {
			newRoot := m.rootPushLevel()
			m.push(newRoot, insKey, insVal, insEdge)

			return out
		}

		r := m.insertIntoParent(curParent.Unwrap(), insKey, insVal, insEdge)
		if r.fit {
			hdr.Len++

			return out
		}

		insKey, insVal = r.key, r.val
		insEdge = r.right
		curParent = m.ascend(r.handle.Node)
	}
}
