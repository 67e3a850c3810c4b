package tile

import (
	"github.com/geeknik/vtzero/errs"
	"github.com/geeknik/vtzero/pbf"
)

// Property is one resolved key/value pair of a feature or map value.
type Property struct {
	key   []byte
	value PropertyValue
}

// Key returns the property key as a view into the tile buffer.
func (p Property) Key() []byte {
	return p.key
}

// KeyString returns the property key as a string.
func (p Property) KeyString() string {
	return string(p.key)
}

// Value returns the property value view.
func (p Property) Value() PropertyValue {
	return p.value
}

// Properties is a cursor over a paired key-index/value-index stream,
// resolving indexes against the owning layer's tables. It backs both the
// tag stream of a feature and the contents of a map value.
type Properties struct {
	layer *Layer
	data  []byte
	it    pbf.Uint32Iter
	count int
}

// newProperties creates a cursor over a packed index stream. A stream
// with an odd number of indexes is a format error.
func newProperties(layer *Layer, data []byte) (Properties, error) {
	it := pbf.NewUint32Iter(data)
	n, err := it.Count()
	if err != nil {
		return Properties{}, err
	}
	if n%2 != 0 {
		return Properties{}, errs.Format("unpaired property key/value indexes")
	}

	return Properties{layer: layer, data: data, it: it, count: n / 2}, nil
}

// Count returns the number of properties in the stream.
func (pm *Properties) Count() int {
	return pm.count
}

// Empty reports whether the stream holds no properties.
func (pm *Properties) Empty() bool {
	return pm.count == 0
}

// NextIndexes advances the cursor and returns the next raw index pair
// without resolving it. It returns ok=false at the end of the stream.
func (pm *Properties) NextIndexes() (IndexValuePair, bool, error) {
	if pm.it.Done() {
		return IndexValuePair{}, false, nil
	}
	ki, err := pm.it.Next()
	if err != nil {
		return IndexValuePair{}, false, err
	}
	vi, err := pm.it.Next()
	if err != nil {
		return IndexValuePair{}, false, err
	}

	return IndexValuePair{Key: NewIndexValue(ki), Value: NewIndexValue(vi)}, true, nil
}

// Next advances the cursor and resolves the next property against the
// layer tables. An index beyond a table is an out-of-range error; the
// cursor has already advanced past the pair, so iteration may continue.
func (pm *Properties) Next() (Property, bool, error) {
	pair, ok, err := pm.NextIndexes()
	if err != nil || !ok {
		return Property{}, ok, err
	}

	key, err := pm.layer.Key(pair.Key.Value())
	if err != nil {
		return Property{}, false, err
	}
	value, err := pm.layer.Value(pair.Value.Value())
	if err != nil {
		return Property{}, false, err
	}

	return Property{key: key, value: value}, true, nil
}

// Reset rewinds the cursor to the first property.
func (pm *Properties) Reset() {
	pm.it = pbf.NewUint32Iter(pm.data)
}

// ForEach calls fn for every property until fn returns false. It runs on
// its own cursor and leaves the receiver's cursor untouched.
func (pm Properties) ForEach(fn func(Property) bool) error {
	pm.Reset()
	for {
		p, ok, err := pm.Next()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if !fn(p) {
			return nil
		}
	}
}

// Layer returns the layer whose tables resolve this stream.
func (pm *Properties) Layer() *Layer {
	return pm.layer
}

// PropertyList is a cursor over a packed value-index stream, the
// contents of a list value.
type PropertyList struct {
	layer *Layer
	data  []byte
	it    pbf.Uint32Iter
	count int
}

// newPropertyList creates a cursor over a packed value-index stream.
func newPropertyList(layer *Layer, data []byte) (PropertyList, error) {
	it := pbf.NewUint32Iter(data)
	n, err := it.Count()
	if err != nil {
		return PropertyList{}, err
	}

	return PropertyList{layer: layer, data: data, it: it, count: n}, nil
}

// Count returns the number of values in the list.
func (pl *PropertyList) Count() int {
	return pl.count
}

// Empty reports whether the list holds no values.
func (pl *PropertyList) Empty() bool {
	return pl.count == 0
}

// NextIndex advances the cursor and returns the next raw value index.
// It returns ok=false at the end of the list.
func (pl *PropertyList) NextIndex() (IndexValue, bool, error) {
	if pl.it.Done() {
		return InvalidIndex, false, nil
	}
	vi, err := pl.it.Next()
	if err != nil {
		return InvalidIndex, false, err
	}

	return NewIndexValue(vi), true, nil
}

// Next advances the cursor and resolves the next value against the
// layer's value table.
func (pl *PropertyList) Next() (PropertyValue, bool, error) {
	idx, ok, err := pl.NextIndex()
	if err != nil || !ok {
		return PropertyValue{}, ok, err
	}

	value, err := pl.layer.Value(idx.Value())
	if err != nil {
		return PropertyValue{}, false, err
	}

	return value, true, nil
}

// Reset rewinds the cursor to the first value.
func (pl *PropertyList) Reset() {
	pl.it = pbf.NewUint32Iter(pl.data)
}

// ForEach calls fn for every value until fn returns false. It runs on
// its own cursor and leaves the receiver's cursor untouched.
func (pl PropertyList) ForEach(fn func(PropertyValue) bool) error {
	pl.Reset()
	for {
		v, ok, err := pl.Next()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if !fn(v) {
			return nil
		}
	}
}

// Layer returns the layer whose value table resolves this list.
func (pl *PropertyList) Layer() *Layer {
	return pl.layer
}
