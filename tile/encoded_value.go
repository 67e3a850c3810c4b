package tile

import "github.com/geeknik/vtzero/pbf"

// EncodedValue is one property value encoded as a complete value record,
// ready to be added to a layer builder's value dictionary. The
// dictionary compares values by these bytes, so numerically equal values
// of different kinds (int 19 and double 19.0) stay distinct.
type EncodedValue struct {
	data []byte
}

// Data returns the encoded value record.
func (ev EncodedValue) Data() []byte {
	return ev.data
}

// NewValueFromData wraps an already encoded value record, typically the
// Data of a PropertyValue read from another tile.
func NewValueFromData(data []byte) EncodedValue {
	return EncodedValue{data: data}
}

// NewStringValue encodes a string value.
func NewStringValue(s string) EncodedValue {
	return EncodedValue{data: pbf.AppendStringField(nil, uint32(ValueString), s)}
}

// NewFloatValue encodes a float value.
func NewFloatValue(v float32) EncodedValue {
	return EncodedValue{data: pbf.AppendFloatField(nil, uint32(ValueFloat), v)}
}

// NewDoubleValue encodes a double value.
func NewDoubleValue(v float64) EncodedValue {
	return EncodedValue{data: pbf.AppendDoubleField(nil, uint32(ValueDouble), v)}
}

// NewIntValue encodes an int value.
func NewIntValue(v int64) EncodedValue {
	return EncodedValue{data: pbf.AppendVarintField(nil, uint32(ValueInt), uint64(v))}
}

// NewUintValue encodes a uint value.
func NewUintValue(v uint64) EncodedValue {
	return EncodedValue{data: pbf.AppendVarintField(nil, uint32(ValueUint), v)}
}

// NewSintValue encodes a zig-zag varint value.
func NewSintValue(v int64) EncodedValue {
	return EncodedValue{data: pbf.AppendSint64Field(nil, uint32(ValueSint), v)}
}

// NewBoolValue encodes a bool value.
func NewBoolValue(v bool) EncodedValue {
	return EncodedValue{data: pbf.AppendBoolField(nil, uint32(ValueBool), v)}
}

// NewMapValue encodes a map value from paired key/value indexes into the
// destination layer's tables.
func NewMapValue(pairs []IndexValuePair) EncodedValue {
	var packed []byte
	for _, p := range pairs {
		packed = pbf.AppendVarint(packed, uint64(p.Key.Value()))
		packed = pbf.AppendVarint(packed, uint64(p.Value.Value()))
	}

	return EncodedValue{data: pbf.AppendBytesField(nil, uint32(ValueMap), packed)}
}

// NewListValue encodes a list value from value indexes into the
// destination layer's value table.
func NewListValue(indexes []IndexValue) EncodedValue {
	var packed []byte
	for _, idx := range indexes {
		packed = pbf.AppendVarint(packed, uint64(idx.Value()))
	}

	return EncodedValue{data: pbf.AppendBytesField(nil, uint32(ValueList), packed)}
}
