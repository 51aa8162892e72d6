package chunk

import "fmt"

// Value is a single cell with a lazily decoded, dirty-tracked cache, used for
// densely stored records that every operation touches, such as a collection
// header.
type Value[T any] struct {
	be    Backend
	key   uint64
	codec Codec[T]

	cell  *T
	dirty bool
}

// NewValue claims one cell from alloc and attaches a cached view to it.
//
// Nothing is read or written until the value is accessed; call [Value.Set] to
// initialize a fresh cell.
func NewValue[T any](be Backend, alloc *BumpAlloc, codec Codec[T]) *Value[T] {
	return &Value[T]{be: be, key: alloc.Alloc(1), codec: codec}
}

// Get returns the cached value, loading and decoding the cell on first use.
//
// The returned pointer addresses the cached record until the next
// [Value.Set] replaces it; treat it as read-only and use [Value.GetMut] for
// mutation.
func (v *Value[T]) Get() *T { return v.load() }

// GetMut is Get, additionally marking the cell dirty for the next Flush.
func (v *Value[T]) GetMut() *T {
	v.dirty = true

	return v.load()
}

// Set replaces the value, marking the cell dirty.
func (v *Value[T]) Set(value T) {
	v.cell = &value
	v.dirty = true
}

// Flush encodes the value back to the backend if it is dirty.
func (v *Value[T]) Flush() {
	if !v.dirty {
		return
	}

	v.be.Store(v.key, v.codec.Append(nil, *v.cell))
	v.dirty = false
}

func (v *Value[T]) load() *T {
	if v.cell == nil {
		data, ok := v.be.Load(v.key)
		if !ok {
			panic(fmt.Sprintf("chunk: value cell %#x must exist", v.key))
		}

		cell, _, err := v.codec.Decode(data)
		if err != nil {
			panic(fmt.Sprintf("chunk: value cell %#x is corrupted: %v", v.key, err))
		}

		v.cell = &cell
	}

	return v.cell
}
