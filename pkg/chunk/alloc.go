package chunk

// CellRegion is the key-space extent handed to a cell array: room for one
// cell per 32-bit index.
const CellRegion = uint64(1) << 32

// BumpAlloc hands out disjoint regions of the backend key space by bumping a
// cursor. Allocation is deterministic: replaying the same sequence of Alloc
// calls from the same origin yields the same placement, which is how an
// already-populated store is re-attached.
type BumpAlloc struct {
	next uint64
}

// NewBumpAlloc creates an allocator starting at origin.
func NewBumpAlloc(origin uint64) *BumpAlloc {
	return &BumpAlloc{next: origin}
}

// Alloc claims the next n keys and returns the first of them.
func (a *BumpAlloc) Alloc(n uint64) uint64 {
	key := a.next
	a.next += n

	return key
}
