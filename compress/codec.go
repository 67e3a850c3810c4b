// Package compress provides the byte codecs used for vector tiles at
// rest. Tile stores (MBTiles, PMTiles and friends) keep tile payloads
// gzip-, zlib- or zstd-compressed; the codecs here lift such blobs into
// buffers the tile decoder can read, and compress freshly built tiles
// for storage.
//
// The package is a plain byte codec utility. It does not read or write
// any store itself.
package compress

import (
	"bytes"
	"fmt"
)

// Type identifies a compression codec.
type Type uint8

// The supported codecs.
const (
	TypeNone Type = iota
	TypeGzip
	TypeZlib
	TypeZstd
	TypeLZ4
	TypeS2
)

var typeNames = [...]string{"none", "gzip", "zlib", "zstd", "lz4", "s2"}

// String returns the codec name.
func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "unknown"
}

// Compressor compresses one payload.
type Compressor interface {
	// Compress compresses the input and returns the result. The returned
	// slice is owned by the caller; the input is not modified.
	Compress(data []byte) ([]byte, error)
}

// Decompressor decompresses one payload.
type Decompressor interface {
	// Decompress decompresses the input and returns the original bytes.
	// The returned slice is owned by the caller; the input is not
	// modified.
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both directions of one compression algorithm.
type Codec interface {
	Compressor
	Decompressor
}

// ForType returns the codec for the given type.
func ForType(t Type) (Codec, error) {
	switch t {
	case TypeNone:
		return NewNoOpCodec(), nil
	case TypeGzip:
		return NewGzipCodec(), nil
	case TypeZlib:
		return NewZlibCodec(), nil
	case TypeZstd:
		return NewZstdCodec(), nil
	case TypeLZ4:
		return NewLZ4Codec(), nil
	case TypeS2:
		return NewS2Codec(), nil
	default:
		return nil, fmt.Errorf("unknown compression type %d", t)
	}
}

// Magic prefixes of the sniffable codecs.
var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	lz4Magic  = []byte{0x04, 0x22, 0x4d, 0x18}
)

// Detect sniffs the codec of a stored tile blob from its leading bytes.
// S2 block streams carry no magic and are reported as TypeNone; an
// uncompressed tile buffer is also TypeNone.
func Detect(data []byte) Type {
	switch {
	case bytes.HasPrefix(data, gzipMagic):
		return TypeGzip
	case bytes.HasPrefix(data, zstdMagic):
		return TypeZstd
	case bytes.HasPrefix(data, lz4Magic):
		return TypeLZ4
	case len(data) >= 2 && data[0] == 0x78 &&
		(data[1] == 0x01 || data[1] == 0x5e || data[1] == 0x9c || data[1] == 0xda):
		return TypeZlib
	default:
		return TypeNone
	}
}

// Auto decompresses a stored tile blob after sniffing its codec. Blobs
// without a recognizable magic pass through unchanged.
func Auto(data []byte) ([]byte, error) {
	codec, err := ForType(Detect(data))
	if err != nil {
		return nil, err
	}

	return codec.Decompress(data)
}
