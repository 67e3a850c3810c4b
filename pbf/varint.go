package pbf

import "github.com/geeknik/vtzero/errs"

// maxVarintLen is the maximum number of bytes in an encoded 64-bit varint.
const maxVarintLen = 10

// Varint decodes an unsigned varint from the start of data.
// It returns the value and the number of bytes consumed.
// Truncated or over-long varints are format errors.
func Varint(data []byte) (uint64, int, error) {
	var v uint64
	var shift uint
	for i, b := range data {
		if i >= maxVarintLen {
			break
		}
		if b < 0x80 {
			if i == maxVarintLen-1 && b > 1 {
				return 0, 0, errs.Format("varint overflows 64 bits")
			}
			return v | uint64(b)<<shift, i + 1, nil
		}
		v |= uint64(b&0x7f) << shift
		shift += 7
	}
	if len(data) >= maxVarintLen {
		return 0, 0, errs.Format("varint overflows 64 bits")
	}
	return 0, 0, errs.Format("truncated varint")
}

// VarintLen returns the number of bytes AppendVarint will write for v.
func VarintLen(v uint64) int {
	n := 1
	for v >= 0x80 {
		v >>= 7
		n++
	}
	return n
}

// AppendVarint appends the unsigned varint encoding of v to buf.
func AppendVarint(buf []byte, v uint64) []byte {
	for v >= 0x80 {
		buf = append(buf, byte(v)|0x80)
		v >>= 7
	}
	return append(buf, byte(v))
}

// ZigZag32 maps a signed 32-bit integer to an unsigned one so that
// values of small magnitude encode to small varints.
func ZigZag32(v int32) uint32 {
	return uint32(v<<1) ^ uint32(v>>31)
}

// UnZigZag32 is the inverse of ZigZag32.
func UnZigZag32(v uint32) int32 {
	return int32(v>>1) ^ -int32(v&1)
}

// ZigZag64 maps a signed 64-bit integer to an unsigned one so that
// values of small magnitude encode to small varints.
func ZigZag64(v int64) uint64 {
	return uint64(v<<1) ^ uint64(v>>63)
}

// UnZigZag64 is the inverse of ZigZag64.
func UnZigZag64(v uint64) int64 {
	return int64(v>>1) ^ -int64(v&1)
}
