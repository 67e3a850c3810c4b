package tile

// Wire tags of the tile, layer, feature and value records.
const (
	tagTileLayer uint32 = 3

	tagLayerName       uint32 = 1
	tagLayerFeatures   uint32 = 2
	tagLayerKeys       uint32 = 3
	tagLayerValues     uint32 = 4
	tagLayerExtent     uint32 = 5
	tagLayerDimensions uint32 = 6
	tagLayerVersion    uint32 = 15

	tagFeatureID       uint32 = 1
	tagFeatureTags     uint32 = 2
	tagFeatureType     uint32 = 3
	tagFeatureGeometry uint32 = 4
	tagFeatureKnots    uint32 = 5
)

// DefaultExtent is the layer extent assumed when the field is absent.
const DefaultExtent uint32 = 4096

// ValueType is the kind of a property value, determined by the tag of
// the single field inside the value record.
type ValueType uint32

// The property value kinds.
const (
	ValueString ValueType = 1
	ValueFloat  ValueType = 2
	ValueDouble ValueType = 3
	ValueInt    ValueType = 4
	ValueUint   ValueType = 5
	ValueSint   ValueType = 6
	ValueBool   ValueType = 7
	ValueMap    ValueType = 8
	ValueList   ValueType = 9
)

var valueTypeNames = [...]string{"", "string", "float", "double", "int", "uint", "sint", "bool", "map", "list"}

// String returns the name of the value type for debug output.
func (t ValueType) String() string {
	if t >= 1 && int(t) < len(valueTypeNames) {
		return valueTypeNames[t]
	}
	return ""
}

// IndexValue is an index into a layer's key or value table. The zero of
// this type is NOT a valid index; use InvalidIndex or NewIndexValue.
type IndexValue struct {
	value uint32
	valid bool
}

// InvalidIndex is the sentinel for "no index".
var InvalidIndex = IndexValue{}

// NewIndexValue wraps a table index.
func NewIndexValue(v uint32) IndexValue {
	return IndexValue{value: v, valid: true}
}

// Valid reports whether the index holds a value.
func (iv IndexValue) Valid() bool {
	return iv.valid
}

// Value returns the index. It panics on an invalid index.
func (iv IndexValue) Value() uint32 {
	if !iv.valid {
		panic("Value called on invalid IndexValue")
	}
	return iv.value
}

// IndexValuePair holds the key and value indexes of one property.
type IndexValuePair struct {
	Key   IndexValue
	Value IndexValue
}

// Valid reports whether both indexes hold values.
func (p IndexValuePair) Valid() bool {
	return p.Key.Valid() && p.Value.Valid()
}
