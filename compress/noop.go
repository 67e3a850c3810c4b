package compress

// NoOpCodec passes data through unchanged, for tiles stored
// uncompressed.
type NoOpCodec struct{}

var _ Codec = (*NoOpCodec)(nil)

// NewNoOpCodec creates a new pass-through codec.
func NewNoOpCodec() NoOpCodec {
	return NoOpCodec{}
}

// Compress returns the input slice as-is. The result shares the input's
// memory.
func (c NoOpCodec) Compress(data []byte) ([]byte, error) {
	return data, nil
}

// Decompress returns the input slice as-is. The result shares the
// input's memory.
func (c NoOpCodec) Decompress(data []byte) ([]byte, error) {
	return data, nil
}
