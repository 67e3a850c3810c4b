package pbf

import (
	"encoding/binary"
	"math"

	"github.com/geeknik/vtzero/errs"
)

// Uint32Iter is a lazy cursor over a packed repeated varint field,
// yielding uint32 values. The zero value is an exhausted iterator.
type Uint32Iter struct {
	data []byte
	pos  int
}

// NewUint32Iter creates an iterator over the payload of a packed varint field.
func NewUint32Iter(data []byte) Uint32Iter {
	return Uint32Iter{data: data}
}

// Done reports whether the iterator is exhausted.
func (it *Uint32Iter) Done() bool {
	return it.pos >= len(it.data)
}

// Next decodes the next value. Calling Next on an exhausted iterator or
// over a truncated varint is a format error.
func (it *Uint32Iter) Next() (uint32, error) {
	if it.Done() {
		return 0, errs.Format("packed varint field exhausted")
	}
	v, n, err := Varint(it.data[it.pos:])
	if err != nil {
		return 0, err
	}
	if v > math.MaxUint32 {
		return 0, errs.Format("packed varint overflows 32 bits")
	}
	it.pos += n

	return uint32(v), nil
}

// Count returns the number of values in the field without disturbing the
// cursor. It scans the whole payload, so malformed varints surface here.
func (it Uint32Iter) Count() (int, error) {
	count := 0
	for pos := 0; pos < len(it.data); {
		_, n, err := Varint(it.data[pos:])
		if err != nil {
			return 0, err
		}
		pos += n
		count++
	}

	return count, nil
}

// Reset rewinds the cursor to the start of the field.
func (it *Uint32Iter) Reset() {
	it.pos = 0
}

// Fixed64Iter is a lazy cursor over a packed repeated fixed64 field,
// yielding little-endian doubles. The zero value is an exhausted iterator.
type Fixed64Iter struct {
	data []byte
	pos  int
}

// NewFixed64Iter creates an iterator over the payload of a packed fixed64 field.
func NewFixed64Iter(data []byte) Fixed64Iter {
	return Fixed64Iter{data: data}
}

// Done reports whether the iterator is exhausted.
func (it *Fixed64Iter) Done() bool {
	return len(it.data)-it.pos < 8
}

// Count returns the number of remaining doubles.
func (it *Fixed64Iter) Count() int {
	return (len(it.data) - it.pos) / 8
}

// NextDouble decodes the next double. Calling NextDouble on an exhausted
// iterator is a format error.
func (it *Fixed64Iter) NextDouble() (float64, error) {
	if it.Done() {
		return 0, errs.Format("packed fixed64 field exhausted")
	}
	v := binary.LittleEndian.Uint64(it.data[it.pos:])
	it.pos += 8

	return math.Float64frombits(v), nil
}
