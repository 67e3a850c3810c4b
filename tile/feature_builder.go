package tile

import (
	"github.com/geeknik/vtzero/geom"
	"github.com/geeknik/vtzero/internal/pool"
	"github.com/geeknik/vtzero/pbf"
)

// featureState tracks the lifecycle of a feature builder:
// open -> geometry active -> tags active -> committed or rolled back.
type featureState int

const (
	stateOpen featureState = iota
	stateGeometry
	stateTags
	stateCommitted
	stateRolledBack
)

// featureBuilderBase carries the state shared by the four feature
// builder kinds: the owning layer, the geometry scratch frame, the tag
// index stream, and the lifecycle state.
type featureBuilderBase struct {
	layer     *LayerBuilder
	id        uint64
	hasID     bool
	geomType  geom.GeomType
	geomBuf   *pool.ByteBuffer
	knots     []byte
	tags      []uint32
	state     featureState
	numPoints uint32
	cursor    geom.Point
}

func newFeatureBuilderBase(layer *LayerBuilder, t geom.GeomType) featureBuilderBase {
	return featureBuilderBase{
		layer:    layer,
		geomType: t,
		geomBuf:  pool.GetFeatureBuffer(),
	}
}

// SetID sets the feature id. Without a call the id field is omitted and
// readers see the default id 0.
func (b *featureBuilderBase) SetID(id uint64) {
	assert(b.state != stateCommitted && b.state != stateRolledBack, "SetID on finished feature")
	b.id = id
	b.hasID = true
}

// appendCommand appends one command integer to the geometry frame.
func (b *featureBuilderBase) appendCommand(ci uint32) {
	b.geomBuf.B = pbf.AppendVarint(b.geomBuf.B, uint64(ci))
}

// appendDelta appends the zig-zag deltas from the cursor to p and moves
// the cursor.
func (b *featureBuilderBase) appendDelta(p geom.Point) {
	b.geomBuf.B = pbf.AppendVarint(b.geomBuf.B, uint64(pbf.ZigZag32(p.X-b.cursor.X)))
	b.geomBuf.B = pbf.AppendVarint(b.geomBuf.B, uint64(pbf.ZigZag32(p.Y-b.cursor.Y)))
	b.cursor = p
}

// sealGeometry closes the geometry frame ahead of the first property.
func (b *featureBuilderBase) sealGeometry() {
	assert(b.state == stateGeometry || b.state == stateTags, "add geometry before properties")
	assert(b.numPoints == 0, "not enough calls to SetPoint")
	b.state = stateTags
}

// AddProperty adds one property: the key goes through the layer's key
// dictionary, the encoded value through its value dictionary. The first
// property call seals the geometry frame; no geometry may follow.
func (b *featureBuilderBase) AddProperty(key string, value EncodedValue) {
	b.sealGeometry()
	ki := b.layer.AddKey(key)
	vi := b.layer.AddValue(value)
	b.tags = append(b.tags, ki.Value(), vi.Value())
}

// AddPropertyIndexes adds one property from raw dictionary indexes,
// bypassing the dictionaries. The caller is responsible for the indexes
// being in range.
func (b *featureBuilderBase) AddPropertyIndexes(pair IndexValuePair) {
	b.sealGeometry()
	b.tags = append(b.tags, pair.Key.Value(), pair.Value.Value())
}

// Commit finalizes the feature record and appends it to the layer.
// It requires a complete geometry and is idempotent; committing a
// rolled-back feature is a programmer error.
func (b *featureBuilderBase) Commit() {
	if b.state == stateCommitted {
		return
	}
	assert(b.state != stateRolledBack, "commit of rolled-back feature")
	assert(b.numPoints == 0, "not enough calls to SetPoint")
	assert(b.geomBuf.Len() > 0, "cannot commit feature without geometry")

	rec := pool.GetFeatureBuffer()
	r := rec.B
	if b.hasID {
		r = pbf.AppendVarintField(r, tagFeatureID, b.id)
	}
	if len(b.tags) > 0 {
		var packed []byte
		for _, idx := range b.tags {
			packed = pbf.AppendVarint(packed, uint64(idx))
		}
		r = pbf.AppendBytesField(r, tagFeatureTags, packed)
	}
	r = pbf.AppendVarintField(r, tagFeatureType, uint64(b.geomType))
	r = pbf.AppendBytesField(r, tagFeatureGeometry, b.geomBuf.Bytes())
	if len(b.knots) > 0 {
		r = pbf.AppendBytesField(r, tagFeatureKnots, b.knots)
	}
	rec.B = r

	b.layer.features = pbf.AppendBytesField(b.layer.features, tagLayerFeatures, r)
	b.layer.numFeatures++

	pool.PutFeatureBuffer(rec)
	pool.PutFeatureBuffer(b.geomBuf)
	b.geomBuf = nil
	b.state = stateCommitted
}

// Rollback discards the in-progress feature record. It is idempotent;
// rolling back a committed feature is a programmer error.
func (b *featureBuilderBase) Rollback() {
	if b.state == stateRolledBack {
		return
	}
	assert(b.state != stateCommitted, "rollback of committed feature")

	pool.PutFeatureBuffer(b.geomBuf)
	b.geomBuf = nil
	b.state = stateRolledBack
}

// GeometryFeatureBuilder writes a feature from an existing geometry
// command stream (and, for splines, its knot stream). The geometry is
// complete on construction; only properties may follow.
type GeometryFeatureBuilder struct {
	featureBuilderBase
}

// NewGeometryFeature creates a feature builder around an existing
// encoded geometry. geometry is copied into the builder's scratch frame;
// knots are referenced, not copied, and must stay alive until the feature
// commits.
func (lb *LayerBuilder) NewGeometryFeature(t geom.GeomType, geometry, knots []byte) *GeometryFeatureBuilder {
	fb := &GeometryFeatureBuilder{newFeatureBuilderBase(lb, t)}
	fb.geomBuf.MustWrite(geometry)
	fb.knots = knots
	fb.state = stateGeometry

	return fb
}

// PointFeatureBuilder writes a point feature: either one AddPoint call
// or an AddPoints batch followed by exactly that many SetPoint calls.
type PointFeatureBuilder struct {
	featureBuilderBase
}

// NewPointFeature creates a builder for a point feature in this layer.
func (lb *LayerBuilder) NewPointFeature() *PointFeatureBuilder {
	return &PointFeatureBuilder{newFeatureBuilderBase(lb, geom.GeomPoint)}
}

// AddPoint writes a single-point geometry. It is the whole geometry; no
// further geometry call is allowed.
func (fb *PointFeatureBuilder) AddPoint(p geom.Point) {
	assert(fb.state == stateOpen, "geometry already written")
	fb.appendCommand(geom.CommandMoveTo(1))
	fb.appendDelta(p)
	fb.state = stateGeometry
}

// AddPoints opens a batch of count points; exactly count SetPoint calls
// must follow.
func (fb *PointFeatureBuilder) AddPoints(count uint32) {
	assert(fb.state == stateOpen, "geometry already written")
	assert(count > 0, "point batch must not be empty")
	assert(count <= geom.MaxCommandCount, "too many points for one command")
	fb.appendCommand(geom.CommandMoveTo(count))
	fb.numPoints = count
	fb.state = stateGeometry
}

// SetPoint writes the next point of an AddPoints batch.
func (fb *PointFeatureBuilder) SetPoint(p geom.Point) {
	assert(fb.state == stateGeometry, "call AddPoints before SetPoint")
	assert(fb.numPoints > 0, "too many calls to SetPoint")
	fb.numPoints--
	fb.appendDelta(p)
}

// LinestringFeatureBuilder writes a linestring feature as one or more
// linestrings, each opened with AddLinestring and filled with exactly
// the announced number of SetPoint calls.
type LinestringFeatureBuilder struct {
	featureBuilderBase
	startLine bool
}

// NewLinestringFeature creates a builder for a linestring feature in
// this layer.
func (lb *LayerBuilder) NewLinestringFeature() *LinestringFeatureBuilder {
	return &LinestringFeatureBuilder{featureBuilderBase: newFeatureBuilderBase(lb, geom.GeomLinestring)}
}

// AddLinestring opens a linestring of count points (count >= 2);
// exactly count SetPoint calls must follow.
func (fb *LinestringFeatureBuilder) AddLinestring(count uint32) {
	assert(fb.state == stateOpen || fb.state == stateGeometry, "add geometry before properties")
	assert(count > 1, "linestring needs at least 2 points")
	assert(count <= geom.MaxCommandCount, "too many points for one command")
	assert(fb.numPoints == 0, "linestring has fewer points than expected")
	fb.numPoints = count
	fb.startLine = true
	fb.state = stateGeometry
}

// SetPoint writes the next point of the open linestring. Consecutive
// equal points would encode a zero-length segment and are rejected.
func (fb *LinestringFeatureBuilder) SetPoint(p geom.Point) {
	assert(fb.state == stateGeometry, "call AddLinestring before SetPoint")
	assert(fb.numPoints > 0, "too many calls to SetPoint")
	fb.numPoints--
	if fb.startLine {
		fb.appendCommand(geom.CommandMoveTo(1))
		fb.appendDelta(p)
		fb.appendCommand(geom.CommandLineTo(fb.numPoints))
		fb.startLine = false
		return
	}

	assert(p != fb.cursor, "zero-length segment in linestring")
	fb.appendDelta(p)
}

// PolygonFeatureBuilder writes a polygon feature as one or more rings,
// each opened with AddRing and filled with exactly the announced number
// of SetPoint calls, the last of which must equal the first (the
// builder emits a ClosePath in its place).
type PolygonFeatureBuilder struct {
	featureBuilderBase
	firstPoint geom.Point
	startRing  bool
}

// NewPolygonFeature creates a builder for a polygon feature in this layer.
func (lb *LayerBuilder) NewPolygonFeature() *PolygonFeatureBuilder {
	return &PolygonFeatureBuilder{featureBuilderBase: newFeatureBuilderBase(lb, geom.GeomPolygon)}
}

// AddRing opens a ring of count points including the closing point
// (count >= 4); exactly count SetPoint calls must follow, or count-1
// followed by CloseRing.
func (fb *PolygonFeatureBuilder) AddRing(count uint32) {
	assert(fb.state == stateOpen || fb.state == stateGeometry, "add geometry before properties")
	assert(count > 3, "ring needs at least 4 points")
	assert(count <= geom.MaxCommandCount, "too many points for one command")
	assert(fb.numPoints == 0, "ring has fewer points than expected")
	fb.numPoints = count
	fb.startRing = true
	fb.state = stateGeometry
}

// SetPoint writes the next point of the open ring. The final point must
// equal the ring's first point and is encoded as a ClosePath command.
func (fb *PolygonFeatureBuilder) SetPoint(p geom.Point) {
	assert(fb.state == stateGeometry, "call AddRing before SetPoint")
	assert(fb.numPoints > 0, "too many calls to SetPoint")
	fb.numPoints--

	switch {
	case fb.startRing:
		fb.firstPoint = p
		fb.appendCommand(geom.CommandMoveTo(1))
		fb.appendDelta(p)
		fb.appendCommand(geom.CommandLineTo(fb.numPoints - 1))
		fb.startRing = false
	case fb.numPoints == 0:
		assert(p == fb.firstPoint, "ring is not closed")
		fb.appendCommand(geom.CommandClosePath(1))
	default:
		assert(p != fb.cursor, "zero-length segment in ring")
		fb.appendDelta(p)
	}
}

// CloseRing closes the open ring in place of the final SetPoint call.
func (fb *PolygonFeatureBuilder) CloseRing() {
	assert(fb.state == stateGeometry, "call AddRing before CloseRing")
	assert(fb.numPoints == 1, "CloseRing before the final point")
	fb.appendCommand(geom.CommandClosePath(1))
	fb.numPoints = 0
}
