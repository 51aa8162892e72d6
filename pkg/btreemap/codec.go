package btreemap

import (
	"fmt"

	"github.com/flier/cellmap/internal/encoding"
	"github.com/flier/cellmap/pkg/chunk"
	"github.com/flier/cellmap/pkg/opt"
)

// Cell wire format: a one-byte variant tag, then the payload. A vacant cell
// carries the next vacant index; an occupied cell carries the node record
// with every optional slot behind a presence byte.
const (
	tagVacant   = 0
	tagOccupied = 1
)

// cellCodec encodes cells with the given key and value codecs.
type cellCodec[K, V any] struct {
	key chunk.Codec[K]
	val chunk.Codec[V]
}

func (c cellCodec[K, V]) Append(dst []byte, cell Cell[K, V]) []byte {
	if cell.IsVacant() {
		dst = append(dst, tagVacant)

		return encoding.AppendUvarint(dst, uint64(cell.Next.Expect("vacant cell must carry the next vacant index")))
	}

	node := cell.Node

	dst = append(dst, tagOccupied)
	dst = appendOption(dst, node.Parent, appendU32)
	dst = appendOption(dst, node.ParentIdx, appendU32)
	dst = encoding.AppendUvarint(dst, uint64(node.Len))

	for i := range node.Keys {
		dst = appendOption(dst, node.Keys[i], c.key.Append)
	}
	for i := range node.Vals {
		dst = appendOption(dst, node.Vals[i], c.val.Append)
	}
	for i := range node.Edges {
		dst = appendOption(dst, node.Edges[i], appendU32)
	}

	return dst
}

func (c cellCodec[K, V]) Decode(data []byte) (cell Cell[K, V], n int, err error) {
	if len(data) == 0 {
		return cell, 0, fmt.Errorf("btreemap: empty cell")
	}

	tag := data[0]
	n = 1

	if tag == tagVacant {
		var next uint64
		var used int

		if next, used, err = encoding.Uvarint(data[n:]); err != nil {
			return
		}

		return Vacant[K, V](uint32(next)), n + used, nil
	}

	if tag != tagOccupied {
		return cell, 0, fmt.Errorf("btreemap: invalid cell tag %#x", tag)
	}

	node := NewNode[K, V]()

	var used int

	if node.Parent, used, err = decodeOption(data[n:], decodeU32); err != nil {
		return
	}
	n += used

	if node.ParentIdx, used, err = decodeOption(data[n:], decodeU32); err != nil {
		return
	}
	n += used

	var l uint64
	if l, used, err = encoding.Uvarint(data[n:]); err != nil {
		return
	}
	n += used
	node.Len = uint32(l)

	for i := range node.Keys {
		if node.Keys[i], used, err = decodeOption(data[n:], c.key.Decode); err != nil {
			return
		}
		n += used
	}
	for i := range node.Vals {
		if node.Vals[i], used, err = decodeOption(data[n:], c.val.Decode); err != nil {
			return
		}
		n += used
	}
	for i := range node.Edges {
		if node.Edges[i], used, err = decodeOption(data[n:], decodeU32); err != nil {
			return
		}
		n += used
	}

	return Occupied(node), n, nil
}

func appendOption[T any](dst []byte, o opt.Option[T], enc func([]byte, T) []byte) []byte {
	if o.IsNone() {
		return append(dst, 0)
	}

	return enc(append(dst, 1), *o.Value)
}

func decodeOption[T any](data []byte, dec func([]byte) (T, int, error)) (opt.Option[T], int, error) {
	if len(data) == 0 {
		return opt.None[T](), 0, fmt.Errorf("btreemap: truncated option")
	}

	switch data[0] {
	case 0:
		return opt.None[T](), 1, nil
	case 1:
		v, n, err := dec(data[1:])
		if err != nil {
			return opt.None[T](), 0, err
		}

		return opt.Some(v), n + 1, nil
	default:
		return opt.None[T](), 0, fmt.Errorf("btreemap: invalid option tag %#x", data[0])
	}
}

func appendU32(dst []byte, v uint32) []byte {
	return encoding.AppendUvarint(dst, uint64(v))
}

func decodeU32(data []byte) (uint32, int, error) {
	return chunk.Uint32Codec{}.Decode(data)
}
