package tile

import (
	"bytes"
	"fmt"

	"github.com/geeknik/vtzero/errs"
	"github.com/geeknik/vtzero/pbf"
)

// valueWireTypes maps each value kind to its required wire type.
var valueWireTypes = [...]pbf.WireType{
	ValueString: pbf.WireBytes,
	ValueFloat:  pbf.WireFixed32,
	ValueDouble: pbf.WireFixed64,
	ValueInt:    pbf.WireVarint,
	ValueUint:   pbf.WireVarint,
	ValueSint:   pbf.WireVarint,
	ValueBool:   pbf.WireVarint,
	ValueMap:    pbf.WireBytes,
	ValueList:   pbf.WireBytes,
}

// PropertyValue is a view over one encoded value record. It holds a
// back-reference to its owning layer so that map and list values can
// resolve further table indexes.
//
// The zero PropertyValue is invalid.
type PropertyValue struct {
	data  []byte
	layer *Layer
}

// NewPropertyValue creates a value view over an encoded value record.
// The layer may be nil for values without map or list content.
func NewPropertyValue(data []byte, layer *Layer) PropertyValue {
	return PropertyValue{data: data, layer: layer}
}

// Valid reports whether the view refers to an encoded value record.
func (pv PropertyValue) Valid() bool {
	return pv.data != nil
}

// Data returns the encoded value record. Two values are interchangeable
// exactly when their encoded records are byte-equal.
func (pv PropertyValue) Data() []byte {
	return pv.data
}

// Equal reports whether both values hold byte-equal records.
func (pv PropertyValue) Equal(other PropertyValue) bool {
	return bytes.Equal(pv.data, other.data)
}

// Compare orders two values by their encoded records, for use as a sort
// or map key ordering.
func (pv PropertyValue) Compare(other PropertyValue) int {
	return bytes.Compare(pv.data, other.data)
}

// Type returns the kind of the value: the tag of the single field inside
// the record. A missing field, a tag outside 1..9, or a wire type that
// disagrees with the tag is a format error.
func (pv PropertyValue) Type() (ValueType, error) {
	r := pbf.NewReader(pv.data)
	ok, err := r.Next()
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, errs.Format("missing tag value")
	}

	tag := r.Field()
	if tag < uint32(ValueString) || tag > uint32(ValueList) {
		return 0, errs.Format("illegal property value type")
	}
	if valueWireTypes[tag] != r.Wire() {
		return 0, errs.Format("illegal property value type")
	}

	return ValueType(tag), nil
}

// typeError reports a mismatched accessor.
func typeError(want ValueType) error {
	return fmt.Errorf("%w: not a %s value", errs.ErrType, want)
}

// StringValue returns the string content as a view into the tile buffer.
// It fails with a type error if the value kind is not string.
func (pv PropertyValue) StringValue() ([]byte, error) {
	var res []byte
	found := false
	r := pbf.NewReader(pv.data)
	for {
		ok, err := r.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		if r.Field() == uint32(ValueString) && r.Wire() == pbf.WireBytes {
			v, err := r.Bytes()
			if err != nil {
				return nil, err
			}
			res = v
			found = true
		}
	}
	if !found {
		return nil, typeError(ValueString)
	}

	return res, nil
}

// FloatValue returns the float content. It fails with a type error if
// the value kind is not float.
func (pv PropertyValue) FloatValue() (float32, error) {
	var res float32
	found := false
	r := pbf.NewReader(pv.data)
	for {
		ok, err := r.Next()
		if err != nil {
			return 0, err
		}
		if !ok {
			break
		}
		if r.Field() == uint32(ValueFloat) && r.Wire() == pbf.WireFixed32 {
			v, err := r.Float()
			if err != nil {
				return 0, err
			}
			res = v
			found = true
		}
	}
	if !found {
		return 0, typeError(ValueFloat)
	}

	return res, nil
}

// DoubleValue returns the double content. It fails with a type error if
// the value kind is not double.
func (pv PropertyValue) DoubleValue() (float64, error) {
	var res float64
	found := false
	r := pbf.NewReader(pv.data)
	for {
		ok, err := r.Next()
		if err != nil {
			return 0, err
		}
		if !ok {
			break
		}
		if r.Field() == uint32(ValueDouble) && r.Wire() == pbf.WireFixed64 {
			v, err := r.Double()
			if err != nil {
				return 0, err
			}
			res = v
			found = true
		}
	}
	if !found {
		return 0, typeError(ValueDouble)
	}

	return res, nil
}

// IntValue returns the int content. It fails with a type error if the
// value kind is not int.
func (pv PropertyValue) IntValue() (int64, error) {
	var res int64
	found := false
	r := pbf.NewReader(pv.data)
	for {
		ok, err := r.Next()
		if err != nil {
			return 0, err
		}
		if !ok {
			break
		}
		if r.Field() == uint32(ValueInt) && r.Wire() == pbf.WireVarint {
			v, err := r.Int64()
			if err != nil {
				return 0, err
			}
			res = v
			found = true
		}
	}
	if !found {
		return 0, typeError(ValueInt)
	}

	return res, nil
}

// UintValue returns the uint content. It fails with a type error if the
// value kind is not uint.
func (pv PropertyValue) UintValue() (uint64, error) {
	var res uint64
	found := false
	r := pbf.NewReader(pv.data)
	for {
		ok, err := r.Next()
		if err != nil {
			return 0, err
		}
		if !ok {
			break
		}
		if r.Field() == uint32(ValueUint) && r.Wire() == pbf.WireVarint {
			v, err := r.Uint64()
			if err != nil {
				return 0, err
			}
			res = v
			found = true
		}
	}
	if !found {
		return 0, typeError(ValueUint)
	}

	return res, nil
}

// SintValue returns the zig-zag encoded int content. It fails with a
// type error if the value kind is not sint.
func (pv PropertyValue) SintValue() (int64, error) {
	var res int64
	found := false
	r := pbf.NewReader(pv.data)
	for {
		ok, err := r.Next()
		if err != nil {
			return 0, err
		}
		if !ok {
			break
		}
		if r.Field() == uint32(ValueSint) && r.Wire() == pbf.WireVarint {
			v, err := r.Sint64()
			if err != nil {
				return 0, err
			}
			res = v
			found = true
		}
	}
	if !found {
		return 0, typeError(ValueSint)
	}

	return res, nil
}

// BoolValue returns the bool content. It fails with a type error if the
// value kind is not bool.
func (pv PropertyValue) BoolValue() (bool, error) {
	var res bool
	found := false
	r := pbf.NewReader(pv.data)
	for {
		ok, err := r.Next()
		if err != nil {
			return false, err
		}
		if !ok {
			break
		}
		if r.Field() == uint32(ValueBool) && r.Wire() == pbf.WireVarint {
			v, err := r.Bool()
			if err != nil {
				return false, err
			}
			res = v
			found = true
		}
	}
	if !found {
		return false, typeError(ValueBool)
	}

	return res, nil
}

// MapValue returns the map content: a property cursor resolving paired
// indexes against the owning layer. It fails with a type error if the
// value kind is not map.
func (pv PropertyValue) MapValue() (Properties, error) {
	var res Properties
	found := false
	r := pbf.NewReader(pv.data)
	for {
		ok, err := r.Next()
		if err != nil {
			return Properties{}, err
		}
		if !ok {
			break
		}
		if r.Field() == uint32(ValueMap) && r.Wire() == pbf.WireBytes {
			data, err := r.Bytes()
			if err != nil {
				return Properties{}, err
			}
			res, err = newProperties(pv.layer, data)
			if err != nil {
				return Properties{}, err
			}
			found = true
		}
	}
	if !found {
		return Properties{}, typeError(ValueMap)
	}

	return res, nil
}

// ListValue returns the list content: a value cursor resolving indexes
// against the owning layer. It fails with a type error if the value kind
// is not list.
func (pv PropertyValue) ListValue() (PropertyList, error) {
	var res PropertyList
	found := false
	r := pbf.NewReader(pv.data)
	for {
		ok, err := r.Next()
		if err != nil {
			return PropertyList{}, err
		}
		if !ok {
			break
		}
		if r.Field() == uint32(ValueList) && r.Wire() == pbf.WireBytes {
			data, err := r.Bytes()
			if err != nil {
				return PropertyList{}, err
			}
			res, err = newPropertyList(pv.layer, data)
			if err != nil {
				return PropertyList{}, err
			}
			found = true
		}
	}
	if !found {
		return PropertyList{}, typeError(ValueList)
	}

	return res, nil
}

// Visitor receives a property value dispatched by kind. Int and sint
// values both arrive through Int, matching their shared Go type.
type Visitor interface {
	String(v []byte) error
	Float(v float32) error
	Double(v float64) error
	Int(v int64) error
	Uint(v uint64) error
	Bool(v bool) error
	Map(m Properties) error
	List(l PropertyList) error
}

// ApplyVisitor dispatches the value to the visitor method matching its
// kind and returns whatever that method returns.
func ApplyVisitor(v Visitor, pv PropertyValue) error {
	t, err := pv.Type()
	if err != nil {
		return err
	}

	switch t {
	case ValueString:
		s, err := pv.StringValue()
		if err != nil {
			return err
		}
		return v.String(s)
	case ValueFloat:
		f, err := pv.FloatValue()
		if err != nil {
			return err
		}
		return v.Float(f)
	case ValueDouble:
		d, err := pv.DoubleValue()
		if err != nil {
			return err
		}
		return v.Double(d)
	case ValueInt:
		i, err := pv.IntValue()
		if err != nil {
			return err
		}
		return v.Int(i)
	case ValueSint:
		i, err := pv.SintValue()
		if err != nil {
			return err
		}
		return v.Int(i)
	case ValueUint:
		u, err := pv.UintValue()
		if err != nil {
			return err
		}
		return v.Uint(u)
	case ValueMap:
		m, err := pv.MapValue()
		if err != nil {
			return err
		}
		return v.Map(m)
	case ValueList:
		l, err := pv.ListValue()
		if err != nil {
			return err
		}
		return v.List(l)
	default: // ValueBool
		b, err := pv.BoolValue()
		if err != nil {
			return err
		}
		return v.Bool(b)
	}
}
