package chunk_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flier/cellmap/pkg/chunk"
)

func TestUint32Codec(t *testing.T) {
	c := chunk.Uint32Codec{}

	for _, v := range []uint32{0, 1, 127, 128, 300, math.MaxUint32} {
		buf := c.Append(nil, v)

		got, n, err := c.Decode(buf)
		require.NoError(t, err, "%d", v)
		assert.Equal(t, v, got)
		assert.Equal(t, len(buf), n)
	}

	// A value wider than 32 bits must be rejected.
	buf := chunk.Uint64Codec{}.Append(nil, math.MaxUint32+1)
	_, _, err := c.Decode(buf)
	assert.Error(t, err)
}

func TestIntCodec(t *testing.T) {
	c := chunk.IntCodec{}

	for _, v := range []int{0, 1, -1, 42, -42, 1337, -13370, math.MaxInt, math.MinInt} {
		buf := c.Append(nil, v)

		got, n, err := c.Decode(buf)
		require.NoError(t, err, "%d", v)
		assert.Equal(t, v, got)
		assert.Equal(t, len(buf), n)
	}
}

func TestStringCodec(t *testing.T) {
	c := chunk.StringCodec{}

	for _, v := range []string{"", "a", "poneyland", string(make([]byte, 1000))} {
		buf := c.Append(nil, v)

		got, n, err := c.Decode(buf)
		require.NoError(t, err, "%q", v)
		assert.Equal(t, v, got)
		assert.Equal(t, len(buf), n)
	}

	// A length running past the buffer must be rejected.
	buf := c.Append(nil, "poneyland")
	_, _, err := c.Decode(buf[:4])
	assert.Error(t, err)
}
