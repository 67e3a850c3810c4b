package pbf

import (
	"encoding/binary"
	"math"
)

// AppendTag appends a record header for the given field number and wire type.
func AppendTag(buf []byte, field uint32, wire WireType) []byte {
	return AppendVarint(buf, uint64(field)<<3|uint64(wire))
}

// AppendVarintField appends a varint record.
func AppendVarintField(buf []byte, field uint32, v uint64) []byte {
	buf = AppendTag(buf, field, WireVarint)
	return AppendVarint(buf, v)
}

// AppendBoolField appends a varint record encoding a bool.
func AppendBoolField(buf []byte, field uint32, v bool) []byte {
	var b uint64
	if v {
		b = 1
	}
	return AppendVarintField(buf, field, b)
}

// AppendSint64Field appends a zig-zag encoded varint record.
func AppendSint64Field(buf []byte, field uint32, v int64) []byte {
	return AppendVarintField(buf, field, ZigZag64(v))
}

// AppendFixed32 appends a bare little-endian fixed32 value.
func AppendFixed32(buf []byte, v uint32) []byte {
	return binary.LittleEndian.AppendUint32(buf, v)
}

// AppendFixed64 appends a bare little-endian fixed64 value.
func AppendFixed64(buf []byte, v uint64) []byte {
	return binary.LittleEndian.AppendUint64(buf, v)
}

// AppendFloatField appends a fixed32 record encoding a float32.
func AppendFloatField(buf []byte, field uint32, v float32) []byte {
	buf = AppendTag(buf, field, WireFixed32)
	return AppendFixed32(buf, math.Float32bits(v))
}

// AppendDoubleField appends a fixed64 record encoding a float64.
func AppendDoubleField(buf []byte, field uint32, v float64) []byte {
	buf = AppendTag(buf, field, WireFixed64)
	return AppendFixed64(buf, math.Float64bits(v))
}

// AppendBytesField appends a length-delimited record.
func AppendBytesField(buf []byte, field uint32, data []byte) []byte {
	buf = AppendTag(buf, field, WireBytes)
	buf = AppendVarint(buf, uint64(len(data)))
	return append(buf, data...)
}

// AppendStringField appends a length-delimited record holding a string.
func AppendStringField(buf []byte, field uint32, s string) []byte {
	buf = AppendTag(buf, field, WireBytes)
	buf = AppendVarint(buf, uint64(len(s)))
	return append(buf, s...)
}
