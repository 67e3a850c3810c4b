package pool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestByteBuffer_Basics(t *testing.T) {
	bb := NewByteBuffer(16)
	require.Equal(t, 0, bb.Len())
	require.Equal(t, 16, bb.Cap())

	bb.MustWrite([]byte("hello"))
	require.Equal(t, 5, bb.Len())
	require.Equal(t, []byte("hello"), bb.Bytes())

	bb.Truncate(2)
	require.Equal(t, []byte("he"), bb.Bytes())

	require.Panics(t, func() { bb.Truncate(10) })
	require.Panics(t, func() { bb.Truncate(-1) })

	bb.Reset()
	require.Equal(t, 0, bb.Len())
}

func TestByteBuffer_Grow(t *testing.T) {
	bb := NewByteBuffer(8)
	bb.MustWrite([]byte("12345678"))

	bb.Grow(1024)
	require.GreaterOrEqual(t, bb.Cap()-bb.Len(), 1024)
	require.Equal(t, []byte("12345678"), bb.Bytes())
}

func TestByteBufferPool_DiscardsOversized(t *testing.T) {
	p := NewByteBufferPool(8, 64)

	small := p.Get()
	small.MustWrite(make([]byte, 16))
	p.Put(small)

	big := NewByteBuffer(128)
	p.Put(big) // over threshold, dropped

	got := p.Get()
	require.Equal(t, 0, got.Len())

	p.Put(nil) // tolerated
}

func TestDefaultPools(t *testing.T) {
	fb := GetFeatureBuffer()
	require.NotNil(t, fb)
	fb.MustWrite([]byte{1, 2, 3})
	PutFeatureBuffer(fb)

	tb := GetTileBuffer()
	require.NotNil(t, tb)
	PutTileBuffer(tb)
}
