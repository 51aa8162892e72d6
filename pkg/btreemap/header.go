package btreemap

import (
	"github.com/flier/cellmap/internal/encoding"
)

// Header is the densely stored tree-wide bookkeeping record.
//
// The fields live together in a single storage cell so that every operation
// performs one read and one write for all of them.
type Header struct {
	// NextVacant is the head of the vacant-slot chain. When it equals
	// NodeCount the chain is empty and the next allocation extends the
	// array.
	NextVacant uint32

	// Root is the index of the root node's cell. Meaningful only once
	// NodeCount > 0.
	Root uint32

	// Len is the number of key/value pairs stored in the map. This cannot be
	// derived from the cell array since it would include vacant slots as
	// well.
	Len uint32

	// NodeCount is the number of occupied node cells.
	NodeCount uint32

	// MaxLen is the high-water mark of NodeCount.
	MaxLen uint32
}

// headerCodec encodes the header fields as a dense run of varints.
type headerCodec struct{}

func (headerCodec) Append(dst []byte, h Header) []byte {
	dst = encoding.AppendUvarint(dst, uint64(h.NextVacant))
	dst = encoding.AppendUvarint(dst, uint64(h.Root))
	dst = encoding.AppendUvarint(dst, uint64(h.Len))
	dst = encoding.AppendUvarint(dst, uint64(h.NodeCount))
	dst = encoding.AppendUvarint(dst, uint64(h.MaxLen))

	return dst
}

func (headerCodec) Decode(data []byte) (h Header, n int, err error) {
	for _, field := range []*uint32{&h.NextVacant, &h.Root, &h.Len, &h.NodeCount, &h.MaxLen} {
		var v uint64
		var used int

		if v, used, err = encoding.Uvarint(data[n:]); err != nil {
			return
		}

		*field = uint32(v)
		n += used
	}

	return
}
