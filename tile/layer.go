package tile

import (
	"iter"

	"github.com/geeknik/vtzero/errs"
	"github.com/geeknik/vtzero/pbf"
)

// Layer is a view over one layer record. Constructing the view scans the
// record once to populate the key and value tables and collect the
// feature sub-views; all of them alias the tile buffer.
type Layer struct {
	data       []byte
	name       []byte
	version    uint32
	extent     uint32
	dimensions uint32
	keys       [][]byte
	values     [][]byte
	features   [][]byte
	cursor     int
}

// NewLayer creates a layer view over a layer record payload. The name
// field is required, and the version must be 1 or 2.
func NewLayer(data []byte) (*Layer, error) {
	l := &Layer{
		data:       data,
		version:    1,
		extent:     DefaultExtent,
		dimensions: 2,
	}

	r := pbf.NewReader(data)
	for {
		ok, err := r.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}

		switch r.Field() {
		case tagLayerName:
			if r.Wire() != pbf.WireBytes {
				return nil, errs.Format("wrong wire type for layer name")
			}
			v, err := r.Bytes()
			if err != nil {
				return nil, err
			}
			l.name = v
		case tagLayerFeatures:
			if r.Wire() != pbf.WireBytes {
				return nil, errs.Format("wrong wire type for layer features")
			}
			v, err := r.Bytes()
			if err != nil {
				return nil, err
			}
			l.features = append(l.features, v)
		case tagLayerKeys:
			if r.Wire() != pbf.WireBytes {
				return nil, errs.Format("wrong wire type for layer keys")
			}
			v, err := r.Bytes()
			if err != nil {
				return nil, err
			}
			l.keys = append(l.keys, v)
		case tagLayerValues:
			if r.Wire() != pbf.WireBytes {
				return nil, errs.Format("wrong wire type for layer values")
			}
			v, err := r.Bytes()
			if err != nil {
				return nil, err
			}
			l.values = append(l.values, v)
		case tagLayerExtent:
			if r.Wire() != pbf.WireVarint {
				return nil, errs.Format("wrong wire type for layer extent")
			}
			v, err := r.Uint32()
			if err != nil {
				return nil, err
			}
			l.extent = v
		case tagLayerDimensions:
			if r.Wire() != pbf.WireVarint {
				return nil, errs.Format("wrong wire type for layer dimensions")
			}
			v, err := r.Uint32()
			if err != nil {
				return nil, err
			}
			l.dimensions = v
		case tagLayerVersion:
			if r.Wire() != pbf.WireVarint {
				return nil, errs.Format("wrong wire type for layer version")
			}
			v, err := r.Uint32()
			if err != nil {
				return nil, err
			}
			l.version = v
		default:
			if err := r.Skip(); err != nil {
				return nil, err
			}
		}
	}

	if l.version != 1 && l.version != 2 {
		return nil, errs.Version(l.version)
	}
	if l.name == nil {
		return nil, errs.Format("missing name in layer")
	}
	if l.dimensions != 2 && l.dimensions != 3 {
		return nil, errs.Formatf("invalid layer dimensions %d", l.dimensions)
	}

	return l, nil
}

// Data returns the raw layer record payload.
func (l *Layer) Data() []byte {
	return l.data
}

// Name returns the layer name.
func (l *Layer) Name() string {
	return string(l.name)
}

// NameBytes returns the layer name as a view into the tile buffer.
func (l *Layer) NameBytes() []byte {
	return l.name
}

// Version returns the layer version (1 or 2).
func (l *Layer) Version() uint32 {
	return l.version
}

// Extent returns the edge length of the layer's coordinate grid.
func (l *Layer) Extent() uint32 {
	return l.extent
}

// Dimensions returns the number of coordinates per point (2 or 3).
func (l *Layer) Dimensions() uint32 {
	return l.dimensions
}

// NumFeatures returns the number of features in the layer.
func (l *Layer) NumFeatures() int {
	return len(l.features)
}

// Empty reports whether the layer has no features.
func (l *Layer) Empty() bool {
	return len(l.features) == 0
}

// NumKeys returns the size of the key table.
func (l *Layer) NumKeys() int {
	return len(l.keys)
}

// NumValues returns the size of the value table.
func (l *Layer) NumValues() int {
	return len(l.values)
}

// Key returns the key table entry at the given index as a view into the
// tile buffer. An index beyond the table is an out-of-range error.
func (l *Layer) Key(index uint32) ([]byte, error) {
	if uint64(index) >= uint64(len(l.keys)) {
		return nil, errs.OutOfRange(index)
	}
	return l.keys[index], nil
}

// Value returns the value table entry at the given index. An index
// beyond the table is an out-of-range error.
func (l *Layer) Value(index uint32) (PropertyValue, error) {
	if uint64(index) >= uint64(len(l.values)) {
		return PropertyValue{}, errs.OutOfRange(index)
	}
	return PropertyValue{data: l.values[index], layer: l}, nil
}

// NextFeature returns the next feature, or nil at the end of the layer.
func (l *Layer) NextFeature() (*Feature, error) {
	if l.cursor >= len(l.features) {
		return nil, nil
	}
	data := l.features[l.cursor]
	l.cursor++

	return parseFeature(l, data)
}

// Features returns an iterator over all features for use with range.
// It runs on its own cursor; a decoding error is yielded once and ends
// the iteration.
func (l *Layer) Features() iter.Seq2[*Feature, error] {
	return func(yield func(*Feature, error) bool) {
		for _, data := range l.features {
			f, err := parseFeature(l, data)
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(f, nil) {
				return
			}
		}
	}
}

// ResetFeatures rewinds the feature cursor to the first feature.
func (l *Layer) ResetFeatures() {
	l.cursor = 0
}

// GetFeature returns the n-th feature (zero-based), or nil if the layer
// has fewer features. It does not disturb the NextFeature cursor.
func (l *Layer) GetFeature(n int) (*Feature, error) {
	if n < 0 || n >= len(l.features) {
		return nil, nil
	}
	return parseFeature(l, l.features[n])
}
