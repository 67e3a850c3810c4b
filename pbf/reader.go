package pbf

import (
	"encoding/binary"
	"math"

	"github.com/geeknik/vtzero/errs"
)

// WireType identifies how a record's payload is encoded on the wire.
type WireType uint32

// The wire types used by the vector tile format. Group wire types (3, 4)
// are deprecated in protobuf and treated as format errors.
const (
	WireVarint  WireType = 0
	WireFixed64 WireType = 1
	WireBytes   WireType = 2
	WireFixed32 WireType = 5
)

// Reader iterates the length-delimited records of a protobuf message.
//
// Next advances to the following record; the typed accessors consume the
// current record's payload and enforce its wire type. A record whose
// payload is never consumed is skipped automatically by the next call to
// Next. Views returned by Bytes alias the input buffer.
//
// The zero Reader is an empty message.
type Reader struct {
	data     []byte
	pos      int
	field    uint32
	wire     WireType
	consumed bool
}

// NewReader creates a Reader over one protobuf message.
func NewReader(data []byte) Reader {
	return Reader{data: data, consumed: true}
}

// Next advances to the next record. It returns false at the end of the
// message and an error if a record header or an unconsumed payload is
// malformed.
func (r *Reader) Next() (bool, error) {
	if !r.consumed {
		if err := r.Skip(); err != nil {
			return false, err
		}
	}

	if r.pos >= len(r.data) {
		return false, nil
	}

	key, n, err := Varint(r.data[r.pos:])
	if err != nil {
		return false, err
	}
	r.pos += n

	r.field = uint32(key >> 3)
	r.wire = WireType(key & 0x7)
	if r.field == 0 {
		return false, errs.Format("invalid field number 0")
	}
	r.consumed = false

	return true, nil
}

// Field returns the field number of the current record.
func (r *Reader) Field() uint32 {
	return r.field
}

// Wire returns the wire type of the current record.
func (r *Reader) Wire() WireType {
	return r.wire
}

// Skip discards the current record's payload.
func (r *Reader) Skip() error {
	r.consumed = true
	switch r.wire {
	case WireVarint:
		_, n, err := Varint(r.data[r.pos:])
		if err != nil {
			return err
		}
		r.pos += n
	case WireFixed64:
		if len(r.data)-r.pos < 8 {
			return errs.Format("truncated fixed64")
		}
		r.pos += 8
	case WireFixed32:
		if len(r.data)-r.pos < 4 {
			return errs.Format("truncated fixed32")
		}
		r.pos += 4
	case WireBytes:
		length, n, err := Varint(r.data[r.pos:])
		if err != nil {
			return err
		}
		if uint64(len(r.data)-r.pos-n) < length {
			return errs.Format("truncated length-delimited record")
		}
		r.pos += n + int(length)
	default:
		return errs.Formatf("unknown wire type %d", r.wire)
	}

	return nil
}

// Varint consumes the current record as an unsigned varint.
func (r *Reader) Varint() (uint64, error) {
	if r.wire != WireVarint {
		return 0, errs.Formatf("expected varint wire type for field %d", r.field)
	}
	v, n, err := Varint(r.data[r.pos:])
	if err != nil {
		return 0, err
	}
	r.pos += n
	r.consumed = true

	return v, nil
}

// Uint32 consumes the current record as a uint32 varint.
func (r *Reader) Uint32() (uint32, error) {
	v, err := r.Varint()
	if err != nil {
		return 0, err
	}
	if v > math.MaxUint32 {
		return 0, errs.Formatf("varint overflows 32 bits in field %d", r.field)
	}

	return uint32(v), nil
}

// Uint64 consumes the current record as a uint64 varint.
func (r *Reader) Uint64() (uint64, error) {
	return r.Varint()
}

// Int64 consumes the current record as a two's-complement int64 varint.
func (r *Reader) Int64() (int64, error) {
	v, err := r.Varint()
	return int64(v), err
}

// Sint64 consumes the current record as a zig-zag encoded int64 varint.
func (r *Reader) Sint64() (int64, error) {
	v, err := r.Varint()
	return UnZigZag64(v), err
}

// Bool consumes the current record as a varint-encoded bool.
func (r *Reader) Bool() (bool, error) {
	v, err := r.Varint()
	return v != 0, err
}

// Fixed64 consumes the current record as a little-endian fixed64.
func (r *Reader) Fixed64() (uint64, error) {
	if r.wire != WireFixed64 {
		return 0, errs.Formatf("expected fixed64 wire type for field %d", r.field)
	}
	if len(r.data)-r.pos < 8 {
		return 0, errs.Format("truncated fixed64")
	}
	v := binary.LittleEndian.Uint64(r.data[r.pos:])
	r.pos += 8
	r.consumed = true

	return v, nil
}

// Double consumes the current record as a little-endian float64.
func (r *Reader) Double() (float64, error) {
	v, err := r.Fixed64()
	return math.Float64frombits(v), err
}

// Fixed32 consumes the current record as a little-endian fixed32.
func (r *Reader) Fixed32() (uint32, error) {
	if r.wire != WireFixed32 {
		return 0, errs.Formatf("expected fixed32 wire type for field %d", r.field)
	}
	if len(r.data)-r.pos < 4 {
		return 0, errs.Format("truncated fixed32")
	}
	v := binary.LittleEndian.Uint32(r.data[r.pos:])
	r.pos += 4
	r.consumed = true

	return v, nil
}

// Float consumes the current record as a little-endian float32.
func (r *Reader) Float() (float32, error) {
	v, err := r.Fixed32()
	return math.Float32frombits(v), err
}

// Bytes consumes the current record as a length-delimited payload and
// returns a view into the input buffer.
func (r *Reader) Bytes() ([]byte, error) {
	if r.wire != WireBytes {
		return nil, errs.Formatf("expected length-delimited wire type for field %d", r.field)
	}
	length, n, err := Varint(r.data[r.pos:])
	if err != nil {
		return nil, err
	}
	if uint64(len(r.data)-r.pos-n) < length {
		return nil, errs.Format("truncated length-delimited record")
	}
	start := r.pos + n
	r.pos = start + int(length)
	r.consumed = true

	return r.data[start:r.pos:r.pos], nil
}
