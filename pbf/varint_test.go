package pbf

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/geeknik/vtzero/errs"
)

func TestVarint_RoundTrip(t *testing.T) {
	values := []uint64{0, 1, 127, 128, 300, 16383, 16384, math.MaxUint32, math.MaxUint64}

	for _, v := range values {
		buf := AppendVarint(nil, v)
		require.Equal(t, VarintLen(v), len(buf))

		got, n, err := Varint(buf)
		require.NoError(t, err)
		require.Equal(t, len(buf), n)
		require.Equal(t, v, got)
	}
}

func TestVarint_Truncated(t *testing.T) {
	_, _, err := Varint([]byte{0x80})
	require.ErrorIs(t, err, errs.ErrFormat)

	_, _, err = Varint(nil)
	require.ErrorIs(t, err, errs.ErrFormat)
}

func TestVarint_Overflow(t *testing.T) {
	// Ten continuation bytes put the terminator in an eleventh byte, which a
	// 64-bit varint can never need.
	data := []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x01}
	_, _, err := Varint(data)
	require.ErrorIs(t, err, errs.ErrFormat)
}

func TestZigZag32(t *testing.T) {
	cases := map[int32]uint32{
		0:             0,
		-1:            1,
		1:             2,
		-2:            3,
		2:             4,
		25:            50,
		17:            34,
		math.MaxInt32: math.MaxUint32 - 1,
		math.MinInt32: math.MaxUint32,
	}

	for in, want := range cases {
		require.Equal(t, want, ZigZag32(in))
		require.Equal(t, in, UnZigZag32(want))
	}
}

func TestZigZag64(t *testing.T) {
	values := []int64{0, -1, 1, 42, -42, math.MaxInt64, math.MinInt64}
	for _, v := range values {
		require.Equal(t, v, UnZigZag64(ZigZag64(v)))
	}
}
