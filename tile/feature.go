package tile

import (
	"github.com/geeknik/vtzero/errs"
	"github.com/geeknik/vtzero/geom"
	"github.com/geeknik/vtzero/pbf"
)

// Feature is a view over one feature record. The geometry, knots and
// property-index views alias the tile buffer.
type Feature struct {
	layer    *Layer
	id       uint64
	hasID    bool
	geomType geom.GeomType
	geometry []byte
	knots    []byte
	props    Properties
}

// parseFeature decodes one feature record against its layer.
func parseFeature(layer *Layer, data []byte) (*Feature, error) {
	f := &Feature{layer: layer}

	var tags []byte
	var hasTags, hasGeometry bool

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
		case tagFeatureID:
			if r.Wire() != pbf.WireVarint {
				return nil, errs.Format("wrong wire type for feature id")
			}
			v, err := r.Uint64()
			if err != nil {
				return nil, err
			}
			f.id = v
			f.hasID = true
		case tagFeatureTags:
			if r.Wire() != pbf.WireBytes {
				return nil, errs.Format("wrong wire type for feature tags")
			}
			if hasTags {
				return nil, errs.Format("feature has more than one tags field")
			}
			v, err := r.Bytes()
			if err != nil {
				return nil, err
			}
			tags = v
			hasTags = true
		case tagFeatureType:
			if r.Wire() != pbf.WireVarint {
				return nil, errs.Format("wrong wire type for feature type")
			}
			v, err := r.Uint32()
			if err != nil {
				return nil, err
			}
			f.geomType = geom.GeomType(v)
		case tagFeatureGeometry:
			if r.Wire() != pbf.WireBytes {
				return nil, errs.Format("wrong wire type for feature geometry")
			}
			if hasGeometry {
				return nil, errs.Format("feature has more than one geometry field")
			}
			v, err := r.Bytes()
			if err != nil {
				return nil, err
			}
			f.geometry = v
			hasGeometry = true
		case tagFeatureKnots:
			if r.Wire() != pbf.WireBytes {
				return nil, errs.Format("wrong wire type for feature knots")
			}
			v, err := r.Bytes()
			if err != nil {
				return nil, err
			}
			f.knots = v
		default:
			if err := r.Skip(); err != nil {
				return nil, err
			}
		}
	}

	props, err := newProperties(layer, tags)
	if err != nil {
		return nil, err
	}
	f.props = props

	return f, nil
}

// ID returns the feature id, or 0 when the id field is absent.
func (f *Feature) ID() uint64 {
	return f.id
}

// HasID reports whether the feature record carried an id field.
func (f *Feature) HasID() bool {
	return f.hasID
}

// Type returns the geometry type of the feature.
func (f *Feature) Type() geom.GeomType {
	return f.geomType
}

// Geometry returns the raw geometry command stream as a view into the
// tile buffer.
func (f *Feature) Geometry() []byte {
	return f.geometry
}

// Knots returns the raw knot stream of a spline feature, or nil.
func (f *Feature) Knots() []byte {
	return f.knots
}

// Layer returns the layer the feature belongs to.
func (f *Feature) Layer() *Layer {
	return f.layer
}

// NumProperties returns the number of properties of the feature.
func (f *Feature) NumProperties() int {
	return f.props.Count()
}

// EmptyProperties reports whether the feature has no properties.
func (f *Feature) EmptyProperties() bool {
	return f.props.Empty()
}

// NextProperty advances the property cursor and resolves the next
// key/value pair against the layer tables. It returns ok=false at the
// end of the stream. An index beyond a layer table is an out-of-range
// error; the cursor can still be advanced past it or reset.
func (f *Feature) NextProperty() (Property, bool, error) {
	return f.props.Next()
}

// NextPropertyIndexes advances the property cursor and returns the raw
// index pair without resolving it.
func (f *Feature) NextPropertyIndexes() (IndexValuePair, bool, error) {
	return f.props.NextIndexes()
}

// ResetProperties rewinds the property cursor.
func (f *Feature) ResetProperties() {
	f.props.Reset()
}

// ForEachProperty calls fn for every property of the feature until fn
// returns false. It uses its own cursor.
func (f *Feature) ForEachProperty(fn func(Property) bool) error {
	return f.props.ForEach(fn)
}

// DecodeGeometry decodes the feature's geometry through the handler,
// selecting the sub-grammar from the feature's geometry type and the
// dimension count from the layer.
func (f *Feature) DecodeGeometry(h geom.Handler) error {
	return geom.Decode(f.geomType, f.geometry, f.knots, f.layer.Dimensions(), h)
}
