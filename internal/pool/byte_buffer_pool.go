package pool

import "sync"

// Default sizes for the pooled buffers.
//
// Feature buffers hold one in-progress feature record (geometry command
// stream plus tag indexes); tile buffers hold a whole serialized layer or
// tile. The thresholds bound what the pools retain so a single huge tile
// does not pin memory forever.
const (
	FeatureBufferDefaultSize  = 1024            // 1KiB
	FeatureBufferMaxThreshold = 1024 * 64       // 64KiB
	TileBufferDefaultSize     = 1024 * 64       // 64KiB
	TileBufferMaxThreshold    = 1024 * 1024 * 4 // 4MiB
)

// ByteBuffer is a growable byte slice used as builder scratch space.
type ByteBuffer struct {
	// B is the underlying byte slice.
	B []byte
}

// NewByteBuffer creates a new ByteBuffer with the specified default size.
func NewByteBuffer(defaultSize int) *ByteBuffer {
	return &ByteBuffer{
		B: make([]byte, 0, defaultSize),
	}
}

// Bytes returns the underlying byte slice.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// Reset resets the buffer to be empty, but retains the allocated memory for reuse.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// Len returns the length of the buffer.
func (bb *ByteBuffer) Len() int {
	return len(bb.B)
}

// Cap returns the capacity of the buffer.
func (bb *ByteBuffer) Cap() int {
	return cap(bb.B)
}

// MustWrite appends data to the buffer, growing it if necessary.
func (bb *ByteBuffer) MustWrite(data []byte) {
	bb.B = append(bb.B, data...)
}

// Truncate shortens the buffer to n bytes.
// Panics if n is negative or greater than the current length.
func (bb *ByteBuffer) Truncate(n int) {
	if n < 0 || n > len(bb.B) {
		panic("Truncate: invalid length")
	}
	bb.B = bb.B[:n]
}

// Grow grows the buffer to ensure it can hold requiredBytes more bytes
// without reallocating. If the buffer has sufficient capacity, Grow does
// nothing.
//
// Small buffers grow by FeatureBufferDefaultSize; larger buffers grow by
// 25% of current capacity.
func (bb *ByteBuffer) Grow(requiredBytes int) {
	available := cap(bb.B) - len(bb.B)
	if available >= requiredBytes {
		return
	}

	growBy := FeatureBufferDefaultSize
	if cap(bb.B) > 4*FeatureBufferDefaultSize {
		growBy = cap(bb.B) / 4
	}

	if growBy < requiredBytes {
		growBy = requiredBytes
	}

	newBuf := make([]byte, len(bb.B), len(bb.B)+growBy)
	copy(newBuf, bb.B)
	bb.B = newBuf
}

// ByteBufferPool is a pool of ByteBuffers to minimize allocations.
//
// It uses sync.Pool internally. Buffers whose capacity exceeds the
// configured threshold are dropped instead of being returned to the pool.
type ByteBufferPool struct {
	pool         sync.Pool
	maxThreshold int
}

// NewByteBufferPool creates a new ByteBufferPool with buffers of the specified default size.
func NewByteBufferPool(defaultSize int, maxThreshold int) *ByteBufferPool {
	return &ByteBufferPool{
		pool: sync.Pool{
			New: func() any {
				return NewByteBuffer(defaultSize)
			},
		},
		maxThreshold: maxThreshold,
	}
}

// Get retrieves a ByteBuffer from the pool.
func (bbp *ByteBufferPool) Get() *ByteBuffer {
	bb, _ := bbp.pool.Get().(*ByteBuffer)
	return bb
}

// Put returns a ByteBuffer to the pool for reuse.
func (bbp *ByteBufferPool) Put(bb *ByteBuffer) {
	if bb == nil {
		return
	}

	if bbp.maxThreshold > 0 && cap(bb.B) > bbp.maxThreshold {
		return
	}

	bb.Reset()
	bbp.pool.Put(bb)
}

var (
	featureDefaultPool = NewByteBufferPool(FeatureBufferDefaultSize, FeatureBufferMaxThreshold)
	tileDefaultPool    = NewByteBufferPool(TileBufferDefaultSize, TileBufferMaxThreshold)
)

// GetFeatureBuffer retrieves a ByteBuffer sized for a single feature record.
func GetFeatureBuffer() *ByteBuffer {
	return featureDefaultPool.Get()
}

// PutFeatureBuffer returns a feature ByteBuffer to its pool.
func PutFeatureBuffer(bb *ByteBuffer) {
	featureDefaultPool.Put(bb)
}

// GetTileBuffer retrieves a ByteBuffer sized for a serialized layer or tile.
func GetTileBuffer() *ByteBuffer {
	return tileDefaultPool.Get()
}

// PutTileBuffer returns a tile ByteBuffer to its pool.
func PutTileBuffer(bb *ByteBuffer) {
	tileDefaultPool.Put(bb)
}
