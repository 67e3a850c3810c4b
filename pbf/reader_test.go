package pbf

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/geeknik/vtzero/errs"
)

func TestReader_MixedFields(t *testing.T) {
	var buf []byte
	buf = AppendVarintField(buf, 1, 150)
	buf = AppendStringField(buf, 2, "hello")
	buf = AppendDoubleField(buf, 3, 2.5)
	buf = AppendFloatField(buf, 4, 1.5)
	buf = AppendSint64Field(buf, 5, -7)
	buf = AppendBoolField(buf, 6, true)

	r := NewReader(buf)

	ok, err := r.Next()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, uint32(1), r.Field())
	require.Equal(t, WireVarint, r.Wire())
	v, err := r.Varint()
	require.NoError(t, err)
	require.Equal(t, uint64(150), v)

	ok, err = r.Next()
	require.NoError(t, err)
	require.True(t, ok)
	s, err := r.Bytes()
	require.NoError(t, err)
	require.Equal(t, "hello", string(s))

	ok, err = r.Next()
	require.NoError(t, err)
	require.True(t, ok)
	d, err := r.Double()
	require.NoError(t, err)
	require.Equal(t, 2.5, d)

	ok, err = r.Next()
	require.NoError(t, err)
	require.True(t, ok)
	f, err := r.Float()
	require.NoError(t, err)
	require.Equal(t, float32(1.5), f)

	ok, err = r.Next()
	require.NoError(t, err)
	require.True(t, ok)
	i, err := r.Sint64()
	require.NoError(t, err)
	require.Equal(t, int64(-7), i)

	ok, err = r.Next()
	require.NoError(t, err)
	require.True(t, ok)
	b, err := r.Bool()
	require.NoError(t, err)
	require.True(t, b)

	ok, err = r.Next()
	require.NoError(t, err)
	require.False(t, ok)
}

func TestReader_AutoSkipsUnconsumed(t *testing.T) {
	var buf []byte
	buf = AppendStringField(buf, 1, "skipped")
	buf = AppendVarintField(buf, 2, 9)

	r := NewReader(buf)

	ok, err := r.Next()
	require.NoError(t, err)
	require.True(t, ok)

	// The payload of field 1 is never consumed.
	ok, err = r.Next()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, uint32(2), r.Field())
	v, err := r.Varint()
	require.NoError(t, err)
	require.Equal(t, uint64(9), v)
}

func TestReader_WrongWireType(t *testing.T) {
	buf := AppendVarintField(nil, 1, 5)

	r := NewReader(buf)
	ok, err := r.Next()
	require.NoError(t, err)
	require.True(t, ok)

	_, err = r.Bytes()
	require.ErrorIs(t, err, errs.ErrFormat)
}

func TestReader_TruncatedBytesField(t *testing.T) {
	buf := AppendTag(nil, 1, WireBytes)
	buf = AppendVarint(buf, 100) // length prefix exceeds the buffer

	r := NewReader(buf)
	ok, err := r.Next()
	require.NoError(t, err)
	require.True(t, ok)

	_, err = r.Bytes()
	require.ErrorIs(t, err, errs.ErrFormat)
}

func TestReader_FieldNumberZero(t *testing.T) {
	r := NewReader([]byte{0x00})
	_, err := r.Next()
	require.ErrorIs(t, err, errs.ErrFormat)
}

func TestReader_UnknownWireType(t *testing.T) {
	// Field 1, deprecated group wire type 3.
	r := NewReader([]byte{0x0b, 0x00})
	ok, err := r.Next()
	require.NoError(t, err)
	require.True(t, ok)

	err = r.Skip()
	require.ErrorIs(t, err, errs.ErrFormat)
}

func TestReader_Empty(t *testing.T) {
	r := NewReader(nil)
	ok, err := r.Next()
	require.NoError(t, err)
	require.False(t, ok)
}

func TestReader_BytesViewAliasesInput(t *testing.T) {
	buf := AppendStringField(nil, 1, "abcdef")

	r := NewReader(buf)
	ok, err := r.Next()
	require.NoError(t, err)
	require.True(t, ok)

	view, err := r.Bytes()
	require.NoError(t, err)
	require.Equal(t, &buf[len(buf)-6], &view[0])
}

func TestUint32Iter(t *testing.T) {
	var data []byte
	for _, v := range []uint64{9, 4, 4, 300} {
		data = AppendVarint(data, v)
	}

	it := NewUint32Iter(data)
	n, err := it.Count()
	require.NoError(t, err)
	require.Equal(t, 4, n)

	var got []uint32
	for !it.Done() {
		v, err := it.Next()
		require.NoError(t, err)
		got = append(got, v)
	}
	require.Equal(t, []uint32{9, 4, 4, 300}, got)

	_, err = it.Next()
	require.ErrorIs(t, err, errs.ErrFormat)

	it.Reset()
	v, err := it.Next()
	require.NoError(t, err)
	require.Equal(t, uint32(9), v)
}

func TestUint32Iter_Overflow(t *testing.T) {
	data := AppendVarint(nil, 1<<33)
	it := NewUint32Iter(data)
	_, err := it.Next()
	require.ErrorIs(t, err, errs.ErrFormat)
}

func TestFixed64Iter(t *testing.T) {
	var data []byte
	doubles := []float64{0.0, 0.5, 1.0}
	for _, d := range doubles {
		buf := AppendDoubleField(nil, 1, d)
		data = append(data, buf[1:]...) // strip the tag byte, keep the raw fixed64
	}

	it := NewFixed64Iter(data)
	require.Equal(t, 3, it.Count())

	var got []float64
	for !it.Done() {
		v, err := it.NextDouble()
		require.NoError(t, err)
		got = append(got, v)
	}
	require.Equal(t, doubles, got)

	_, err := it.NextDouble()
	require.ErrorIs(t, err, errs.ErrFormat)
}
