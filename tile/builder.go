package tile

import (
	"bytes"
	"slices"

	"github.com/geeknik/vtzero/internal/hash"
	"github.com/geeknik/vtzero/internal/pool"
	"github.com/geeknik/vtzero/pbf"
)

// layerEntry is one layer of a tile under construction: either a layer
// builder or the raw bytes of an existing layer passed through verbatim.
type layerEntry interface {
	estimatedSize() int
	build(buf []byte) []byte
}

// TileBuilder accumulates layers and serializes them into a tile byte
// stream. It is single-writer; neither the tile builder nor the builders
// it owns are safe for concurrent use.
type TileBuilder struct {
	layers []layerEntry
}

// NewTileBuilder creates an empty tile builder.
func NewTileBuilder() *TileBuilder {
	return &TileBuilder{}
}

// AddLayer adds a new layer with the given name, version (1 or 2) and
// extent, and returns its builder. Layers serialize in the order they
// were added.
func (tb *TileBuilder) AddLayer(name string, version, extent uint32) *LayerBuilder {
	assert(version == 1 || version == 2, "layer version must be 1 or 2")

	lb := &LayerBuilder{
		name:       name,
		version:    version,
		extent:     extent,
		dimensions: 2,
		keyIndex:   make(map[uint64][]uint32),
		valueIndex: make(map[uint64][]uint32),
	}
	tb.layers = append(tb.layers, lb)

	return lb
}

// AddLayerFrom adds a new, empty layer with the same name, version,
// extent and dimensions as an existing layer. Handy when copying some
// but not all features of a layer.
func (tb *TileBuilder) AddLayerFrom(l *Layer) *LayerBuilder {
	lb := tb.AddLayer(l.Name(), l.Version(), l.Extent())
	lb.dimensions = l.Dimensions()

	return lb
}

// AddExistingLayer adds an encoded layer record verbatim. The data is
// referenced, not copied, and must stay alive until Serialize.
func (tb *TileBuilder) AddExistingLayer(data []byte) {
	tb.layers = append(tb.layers, existingLayer{data: data})
}

// AddExistingLayerFrom adds the raw bytes of a decoded layer verbatim.
func (tb *TileBuilder) AddExistingLayerFrom(l *Layer) {
	tb.AddExistingLayer(l.Data())
}

// Serialize encodes the accumulated layers into a new tile buffer.
func (tb *TileBuilder) Serialize() []byte {
	return tb.SerializeTo(nil)
}

// SerializeTo appends the encoded tile to buf and returns the extended
// slice. The buffer is grown once up front using the layers' size
// estimates.
func (tb *TileBuilder) SerializeTo(buf []byte) []byte {
	estimated := 0
	for _, l := range tb.layers {
		estimated += l.estimatedSize()
	}

	buf = slices.Grow(buf, estimated)
	for _, l := range tb.layers {
		buf = l.build(buf)
	}

	return buf
}

// existingLayer passes the bytes of an already encoded layer through.
type existingLayer struct {
	data []byte
}

func (e existingLayer) estimatedSize() int {
	return len(e.data) + 8
}

func (e existingLayer) build(buf []byte) []byte {
	return pbf.AppendBytesField(buf, tagTileLayer, e.data)
}

// LayerBuilder accumulates the features and the key/value dictionaries
// of one layer under construction.
//
// Both dictionaries are hash tables keyed by xxHash64 of the entry with
// equality-verified chains, so identical inputs always return the index
// they were first assigned. The value dictionary compares the encoded
// record bytes; numerically equal values of different kinds (int 19,
// double 19.0) therefore receive distinct indices.
type LayerBuilder struct {
	name       string
	version    uint32
	extent     uint32
	dimensions uint32

	features    []byte
	numFeatures int

	keys     []string
	keyIndex map[uint64][]uint32

	values     [][]byte
	valueIndex map[uint64][]uint32
}

// Name returns the layer name.
func (lb *LayerBuilder) Name() string {
	return lb.name
}

// NumFeatures returns the number of committed features.
func (lb *LayerBuilder) NumFeatures() int {
	return lb.numFeatures
}

// SetDimensions sets the number of coordinates per point (2 or 3).
// Three-dimensional geometry is written through GeometryFeatureBuilder
// from an existing command stream; the per-kind builders emit 2-D.
func (lb *LayerBuilder) SetDimensions(dims uint32) {
	assert(dims == 2 || dims == 3, "layer dimensions must be 2 or 3")
	lb.dimensions = dims
}

// AddKey returns the index of the key in the key dictionary, appending
// it if it is not there yet. Identical keys always yield the same index.
func (lb *LayerBuilder) AddKey(key string) IndexValue {
	h := hash.Key(key)
	for _, idx := range lb.keyIndex[h] {
		if lb.keys[idx] == key {
			return NewIndexValue(idx)
		}
	}

	return lb.appendKey(h, key)
}

// AddKeyWithoutDupCheck appends the key to the key dictionary without
// searching for an existing entry. The entry is still registered, so a
// later AddKey of the same key finds it.
func (lb *LayerBuilder) AddKeyWithoutDupCheck(key string) IndexValue {
	return lb.appendKey(hash.Key(key), key)
}

func (lb *LayerBuilder) appendKey(h uint64, key string) IndexValue {
	idx := uint32(len(lb.keys))
	lb.keys = append(lb.keys, key)
	lb.keyIndex[h] = append(lb.keyIndex[h], idx)

	return NewIndexValue(idx)
}

// AddValue returns the index of the encoded value in the value
// dictionary, appending it if it is not there yet. Values are equal only
// if their encoded records are byte-equal.
func (lb *LayerBuilder) AddValue(value EncodedValue) IndexValue {
	h := hash.Value(value.data)
	for _, idx := range lb.valueIndex[h] {
		if bytes.Equal(lb.values[idx], value.data) {
			return NewIndexValue(idx)
		}
	}

	return lb.appendValue(h, value.data)
}

// AddValueWithoutDupCheck appends the encoded value to the value
// dictionary without searching for an existing entry.
func (lb *LayerBuilder) AddValueWithoutDupCheck(value EncodedValue) IndexValue {
	return lb.appendValue(hash.Value(value.data), value.data)
}

func (lb *LayerBuilder) appendValue(h uint64, data []byte) IndexValue {
	idx := uint32(len(lb.values))
	lb.values = append(lb.values, data)
	lb.valueIndex[h] = append(lb.valueIndex[h], idx)

	return NewIndexValue(idx)
}

// AddFeature copies a feature from an existing layer into this layer:
// the geometry and knots pass through unchanged, and every property is
// re-resolved through this layer's dictionaries.
func (lb *LayerBuilder) AddFeature(f *Feature) error {
	fb := lb.NewGeometryFeature(f.Type(), f.Geometry(), f.Knots())
	if f.HasID() {
		fb.SetID(f.ID())
	}

	err := f.ForEachProperty(func(p Property) bool {
		fb.AddProperty(p.KeyString(), NewValueFromData(p.Value().Data()))
		return true
	})
	if err != nil {
		fb.Rollback()
		return err
	}

	fb.Commit()

	return nil
}

func (lb *LayerBuilder) estimatedSize() int {
	size := len(lb.features) + len(lb.name) + 32
	for _, k := range lb.keys {
		size += len(k) + 4
	}
	for _, v := range lb.values {
		size += len(v) + 4
	}

	return size
}

// build frames the layer record into buf: metadata first, then the
// committed feature records, then the dictionaries.
func (lb *LayerBuilder) build(buf []byte) []byte {
	body := pool.GetTileBuffer()
	defer pool.PutTileBuffer(body)

	b := body.B
	b = pbf.AppendVarintField(b, tagLayerVersion, uint64(lb.version))
	b = pbf.AppendStringField(b, tagLayerName, lb.name)
	b = pbf.AppendVarintField(b, tagLayerExtent, uint64(lb.extent))
	if lb.dimensions == 3 {
		b = pbf.AppendVarintField(b, tagLayerDimensions, uint64(lb.dimensions))
	}
	b = append(b, lb.features...)
	for _, k := range lb.keys {
		b = pbf.AppendStringField(b, tagLayerKeys, k)
	}
	for _, v := range lb.values {
		b = pbf.AppendBytesField(b, tagLayerValues, v)
	}
	body.B = b

	return pbf.AppendBytesField(buf, tagTileLayer, b)
}

// assert reports builder mis-sequencing, which is a programmer error
// rather than part of the runtime error taxonomy.
func assert(cond bool, msg string) {
	if !cond {
		panic("vtzero: " + msg)
	}
}
