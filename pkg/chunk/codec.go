package chunk

import (
	"fmt"

	"github.com/flier/cellmap/internal/encoding"
)

// Codec is the binary encoding contract for one cell type.
type Codec[T any] interface {
	// Append appends the encoding of v to dst and returns the extended slice.
	Append(dst []byte, v T) []byte

	// Decode reads one value from the front of data, returning it together
	// with the number of bytes consumed.
	Decode(data []byte) (T, int, error)
}

// Uint32Codec encodes uint32 values as varints.
type Uint32Codec struct{}

func (Uint32Codec) Append(dst []byte, v uint32) []byte {
	return encoding.AppendUvarint(dst, uint64(v))
}

func (Uint32Codec) Decode(data []byte) (uint32, int, error) {
	v, n, err := encoding.Uvarint(data)
	if err != nil {
		return 0, 0, err
	}
	if v > 0xffff_ffff {
		return 0, 0, fmt.Errorf("chunk: %d overflows uint32", v)
	}

	return uint32(v), n, nil
}

// Uint64Codec encodes uint64 values as varints.
type Uint64Codec struct{}

func (Uint64Codec) Append(dst []byte, v uint64) []byte {
	return encoding.AppendUvarint(dst, v)
}

func (Uint64Codec) Decode(data []byte) (uint64, int, error) {
	return encoding.Uvarint(data)
}

// IntCodec encodes int values as zigzag varints.
type IntCodec struct{}

func (IntCodec) Append(dst []byte, v int) []byte {
	return encoding.AppendVarint(dst, int64(v))
}

func (IntCodec) Decode(data []byte) (int, int, error) {
	v, n, err := encoding.Varint(data)
	if err != nil {
		return 0, 0, err
	}

	return int(v), n, nil
}

// StringCodec encodes strings as a varint length followed by the raw bytes.
type StringCodec struct{}

func (StringCodec) Append(dst []byte, v string) []byte {
	dst = encoding.AppendUvarint(dst, uint64(len(v)))

	return append(dst, v...)
}

func (StringCodec) Decode(data []byte) (string, int, error) {
	l, n, err := encoding.Uvarint(data)
	if err != nil {
		return "", 0, err
	}
	if uint64(len(data)-n) < l {
		return "", 0, fmt.Errorf("chunk: string of %d bytes truncated", l)
	}

	return string(data[n : n+int(l)]), n + int(l), nil
}
