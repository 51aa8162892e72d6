package chunk

import "fmt"

// SyncChunk is a cell array with read-after-write consistency inside one
// transaction.
//
// Cells are decoded on first access and kept in an in-memory cache for the
// rest of the transaction; mutations stay in the cache until Flush writes
// every dirty cell back to the backend. Pointers returned by Get and GetMut
// address the cached record directly; Flush keeps the cache, and the pointer
// stays current until Set or Put replaces the record at that index.
type SyncChunk[T any] struct {
	be     Backend
	origin uint64
	codec  Codec[T]
	cells  *table[uint32, *cellState[T]]
}

// cellState is one cached cell: the decoded record, or nil for a cell known
// to be absent from the backend.
type cellState[T any] struct {
	val   *T
	dirty bool
}

// NewSyncChunk claims a cell region from alloc and attaches a cached view.
func NewSyncChunk[T any](be Backend, alloc *BumpAlloc, codec Codec[T]) *SyncChunk[T] {
	return &SyncChunk[T]{
		be:     be,
		origin: alloc.Alloc(CellRegion),
		codec:  codec,
		cells:  newTable[uint32, *cellState[T]](0),
	}
}

// Get returns the cell at idx, loading and decoding it on first use.
//
// Treat the returned record as read-only; use [SyncChunk.GetMut] for
// mutation.
func (c *SyncChunk[T]) Get(idx uint32) (*T, bool) {
	s := c.load(idx)

	return s.val, s.val != nil
}

// GetMut is Get, additionally marking the cell dirty for the next Flush.
func (c *SyncChunk[T]) GetMut(idx uint32) (*T, bool) {
	s := c.load(idx)
	if s.val != nil {
		s.dirty = true
	}

	return s.val, s.val != nil
}

// Set writes the cell at idx without reading the previous contents.
func (c *SyncChunk[T]) Set(idx uint32, value T) {
	if s, ok := c.cells.get(idx); ok {
		s.val = &value
		s.dirty = true
		return
	}

	c.cells.put(idx, &cellState[T]{val: &value, dirty: true})
}

// Put writes the cell at idx and returns the previous contents, if any.
func (c *SyncChunk[T]) Put(idx uint32, value T) (prev T, ok bool) {
	s := c.load(idx)
	if s.val != nil {
		prev, ok = *s.val, true
	}

	s.val = &value
	s.dirty = true

	return
}

// Flush encodes every dirty cell back to the backend.
func (c *SyncChunk[T]) Flush() {
	c.cells.each(func(idx uint32, s *cellState[T]) bool {
		if s.dirty && s.val != nil {
			c.be.Store(c.origin+uint64(idx), c.codec.Append(nil, *s.val))
			s.dirty = false
		}

		return true
	})
}

func (c *SyncChunk[T]) load(idx uint32) *cellState[T] {
	if s, ok := c.cells.get(idx); ok {
		return s
	}

	s := new(cellState[T])
	if data, ok := c.be.Load(c.origin + uint64(idx)); ok {
		v, _, err := c.codec.Decode(data)
		if err != nil {
			panic(fmt.Sprintf("chunk: cell %d is corrupted: %v", idx, err))
		}

		s.val = &v
	}

	c.cells.put(idx, s)

	return s
}
