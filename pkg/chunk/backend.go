// Package chunk implements the cell storage layer: a flat, persistent key
// space of binary cells, addressed by 64-bit keys, with lazily decoded and
// dirty-tracked views on top of it.
//
// A [Backend] is the durable store. [Value] caches a single cell and
// [SyncChunk] caches a whole cell array; both decode on first access, keep
// every mutation in memory, and write dirty cells back only on Flush. Within
// one transaction every read sees the latest write.
package chunk

// Backend is the durable cell store.
//
// Implementations are deterministic: a Load after a Store of the same key
// returns the stored bytes. The chunk layer never retries and treats the
// backend as infallible; a backend with a fallible medium underneath is
// expected to fail its own way.
type Backend interface {
	// Load returns the cell stored under key, if any.
	Load(key uint64) ([]byte, bool)

	// Store writes the cell under key, taking ownership of data.
	Store(key uint64, data []byte)
}

// MemBackend is a deterministic in-memory Backend.
//
// A zero MemBackend is not ready to use; construct it with [NewMemBackend].
type MemBackend struct {
	cells *table[uint64, []byte]
}

var _ Backend = (*MemBackend)(nil)

// NewMemBackend creates an empty in-memory backend.
func NewMemBackend() *MemBackend {
	return &MemBackend{cells: newTable[uint64, []byte](0)}
}

// Load returns the cell stored under key, if any.
func (b *MemBackend) Load(key uint64) ([]byte, bool) {
	return b.cells.get(key)
}

// Store writes the cell under key.
func (b *MemBackend) Store(key uint64, data []byte) {
	b.cells.put(key, data)
}

// Len returns the number of stored cells.
func (b *MemBackend) Len() int { return b.cells.len() }
