package tile

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/geeknik/vtzero/geom"
	"github.com/geeknik/vtzero/pbf"
)

func TestLayerBuilder_KeyDictionary(t *testing.T) {
	tb := NewTileBuilder()
	lb := tb.AddLayer("name", 2, 4096)

	ki1 := lb.AddKeyWithoutDupCheck("key1")
	ki2 := lb.AddKey("key2")
	ki3 := lb.AddKey("key1")

	require.NotEqual(t, ki1.Value(), ki2.Value())
	require.Equal(t, ki1.Value(), ki3.Value())

	// The first key has index 0 and indices are dense.
	require.Equal(t, uint32(0), ki1.Value())
	require.Equal(t, uint32(1), ki2.Value())
	require.Equal(t, uint32(2), lb.AddKey("key3").Value())
}

func TestLayerBuilder_ValueDictionary(t *testing.T) {
	tb := NewTileBuilder()
	lb := tb.AddLayer("name", 2, 4096)

	vi1 := lb.AddValueWithoutDupCheck(NewStringValue("value1"))
	vi2 := lb.AddValueWithoutDupCheck(NewStringValue("value2"))

	vi3 := lb.AddValue(NewStringValue("value1"))
	vi4 := lb.AddValue(NewIntValue(19))
	vi5 := lb.AddValue(NewDoubleValue(19.0))
	vi6 := lb.AddValue(NewIntValue(22))
	vi7 := lb.AddValue(NewValueFromData(NewIntValue(19).Data()))

	require.NotEqual(t, vi1.Value(), vi2.Value())
	require.Equal(t, vi1.Value(), vi3.Value())
	require.NotEqual(t, vi1.Value(), vi4.Value())
	require.NotEqual(t, vi1.Value(), vi5.Value())
	require.NotEqual(t, vi1.Value(), vi6.Value())

	// Values are compared by encoded bytes: int 19 and double 19.0 are
	// distinct entries, while int 19 added twice deduplicates.
	require.NotEqual(t, vi4.Value(), vi5.Value())
	require.NotEqual(t, vi4.Value(), vi6.Value())
	require.Equal(t, vi4.Value(), vi7.Value())
}

func TestPointFeature_RoundTrip(t *testing.T) {
	tb := NewTileBuilder()
	lb := tb.AddLayer("points", 2, 4096)

	fb := lb.NewPointFeature()
	fb.AddPoint(geom.Pt(10, 10))
	fb.AddProperty("foo", NewStringValue("bar"))
	fb.AddProperty("x", NewStringValue("y"))
	fb.AddProperty("abc", NewStringValue("def"))
	fb.Commit()

	require.Equal(t, 1, lb.NumFeatures())

	data := tb.Serialize()
	tl := New(data)

	n, err := tl.CountLayers()
	require.NoError(t, err)
	require.Equal(t, 1, n)

	layer, err := tl.NextLayer()
	require.NoError(t, err)
	require.Equal(t, "points", layer.Name())
	require.Equal(t, uint32(2), layer.Version())
	require.Equal(t, uint32(4096), layer.Extent())
	require.Equal(t, 1, layer.NumFeatures())
	require.GreaterOrEqual(t, layer.NumKeys(), 3)

	f, err := layer.NextFeature()
	require.NoError(t, err)
	require.Equal(t, geom.GeomPoint, f.Type())
	require.Equal(t, 3, f.NumProperties())

	want := map[string]string{"foo": "bar", "x": "y", "abc": "def"}
	got := map[string]string{}
	require.NoError(t, f.ForEachProperty(func(p Property) bool {
		s, err := p.Value().StringValue()
		require.NoError(t, err)
		got[p.KeyString()] = string(s)
		return true
	}))
	require.Equal(t, want, got)

	var rec pointRecorder
	require.NoError(t, f.DecodeGeometry(&rec))
	require.Equal(t, []geom.Point{geom.Pt(10, 10)}, rec.points)
}

func TestPointFeature_GeometryBytes(t *testing.T) {
	tb := NewTileBuilder()
	lb := tb.AddLayer("l", 2, 4096)

	fb := lb.NewPointFeature()
	fb.AddPoint(geom.Pt(25, 17))
	fb.Commit()

	layer, err := New(tb.Serialize()).NextLayer()
	require.NoError(t, err)
	f, err := layer.NextFeature()
	require.NoError(t, err)

	require.Equal(t, packUint32(9, 50, 34), f.Geometry())
}

func TestPointFeature_Batch(t *testing.T) {
	tb := NewTileBuilder()
	lb := tb.AddLayer("l", 2, 4096)

	fb := lb.NewPointFeature()
	fb.AddPoints(2)
	fb.SetPoint(geom.Pt(5, 7))
	fb.SetPoint(geom.Pt(3, 2))
	fb.Commit()

	layer, err := New(tb.Serialize()).NextLayer()
	require.NoError(t, err)
	f, err := layer.NextFeature()
	require.NoError(t, err)

	var rec pointRecorder
	require.NoError(t, f.DecodeGeometry(&rec))
	require.Equal(t, []geom.Point{geom.Pt(5, 7), geom.Pt(3, 2)}, rec.points)
}

func TestLinestringFeature_RoundTrip(t *testing.T) {
	tb := NewTileBuilder()
	lb := tb.AddLayer("lines", 2, 4096)

	fb := lb.NewLinestringFeature()
	fb.SetID(17)
	fb.AddLinestring(3)
	fb.SetPoint(geom.Pt(2, 2))
	fb.SetPoint(geom.Pt(2, 10))
	fb.SetPoint(geom.Pt(10, 10))
	fb.AddLinestring(2)
	fb.SetPoint(geom.Pt(1, 1))
	fb.SetPoint(geom.Pt(2, 2))
	fb.Commit()

	layer, err := New(tb.Serialize()).NextLayer()
	require.NoError(t, err)
	f, err := layer.NextFeature()
	require.NoError(t, err)
	require.True(t, f.HasID())
	require.Equal(t, uint64(17), f.ID())
	require.Equal(t, geom.GeomLinestring, f.Type())

	// The first linestring encodes exactly the canonical command stream.
	require.Equal(t, packUint32(9, 4, 4, 18, 0, 16, 16, 0), f.Geometry()[:8])

	var rec pointRecorder
	require.NoError(t, f.DecodeGeometry(&rec))
	require.Equal(t, []geom.Point{
		geom.Pt(2, 2), geom.Pt(2, 10), geom.Pt(10, 10),
		geom.Pt(1, 1), geom.Pt(2, 2),
	}, rec.points)
}

func TestPolygonFeature_RoundTrip(t *testing.T) {
	tb := NewTileBuilder()
	lb := tb.AddLayer("polygons", 2, 4096)

	fb := lb.NewPolygonFeature()
	fb.AddRing(4)
	fb.SetPoint(geom.Pt(3, 6))
	fb.SetPoint(geom.Pt(8, 12))
	fb.SetPoint(geom.Pt(20, 34))
	fb.SetPoint(geom.Pt(3, 6)) // closing point becomes a ClosePath
	fb.Commit()

	layer, err := New(tb.Serialize()).NextLayer()
	require.NoError(t, err)
	f, err := layer.NextFeature()
	require.NoError(t, err)

	require.Equal(t, packUint32(9, 6, 12, 18, 10, 12, 24, 44, 15), f.Geometry())

	var rec pointRecorder
	require.NoError(t, f.DecodeGeometry(&rec))
	require.Equal(t, []geom.RingType{geom.RingOuter}, rec.rings)
	require.Equal(t, []geom.Point{
		geom.Pt(3, 6), geom.Pt(8, 12), geom.Pt(20, 34), geom.Pt(3, 6),
	}, rec.points)
}

func TestPolygonFeature_CloseRing(t *testing.T) {
	tb := NewTileBuilder()
	lb := tb.AddLayer("polygons", 2, 4096)

	fb := lb.NewPolygonFeature()
	fb.AddRing(4)
	fb.SetPoint(geom.Pt(0, 0))
	fb.SetPoint(geom.Pt(10, 0))
	fb.SetPoint(geom.Pt(10, 10))
	fb.CloseRing()
	fb.Commit()

	layer, err := New(tb.Serialize()).NextLayer()
	require.NoError(t, err)
	f, err := layer.NextFeature()
	require.NoError(t, err)

	var rec pointRecorder
	require.NoError(t, f.DecodeGeometry(&rec))
	require.Equal(t, []geom.RingType{geom.RingOuter}, rec.rings)
}

func TestGeometryFeature_SplinePassThrough(t *testing.T) {
	knots := packKnotsBytes(0.0, 0.5, 1.0)

	tb := NewTileBuilder()
	lb := tb.AddLayer("splines", 2, 4096)

	fb := lb.NewGeometryFeature(geom.GeomSpline, packUint32(9, 4, 4, 18, 0, 16, 16, 0), knots)
	fb.SetID(3)
	fb.Commit()

	layer, err := New(tb.Serialize()).NextLayer()
	require.NoError(t, err)
	f, err := layer.NextFeature()
	require.NoError(t, err)
	require.Equal(t, geom.GeomSpline, f.Type())
	require.Equal(t, knots, f.Knots())

	var rec pointRecorder
	require.NoError(t, f.DecodeGeometry(&rec))
	require.Equal(t, []float64{0.0, 0.5, 1.0}, rec.knots)
	require.Equal(t, []geom.Point{geom.Pt(2, 2), geom.Pt(2, 10), geom.Pt(10, 10)}, rec.points)
}

func TestTileBuilder_PassThroughIdentity(t *testing.T) {
	// Build a tile, then rebuild it from its own decoded layers; the
	// pass-through copy must be byte-identical.
	tb := NewTileBuilder()
	lb := tb.AddLayer("a", 2, 4096)
	fb := lb.NewPointFeature()
	fb.AddPoint(geom.Pt(10, 20))
	fb.AddProperty("kind", NewStringValue("poi"))
	fb.Commit()
	lb2 := tb.AddLayer("b", 1, 512)
	fb2 := lb2.NewPointFeature()
	fb2.AddPoint(geom.Pt(1, 2))
	fb2.Commit()

	original := tb.Serialize()

	rebuilt := NewTileBuilder()
	tl := New(original)
	for {
		layer, err := tl.NextLayer()
		require.NoError(t, err)
		if layer == nil {
			break
		}
		rebuilt.AddExistingLayerFrom(layer)
	}

	require.Equal(t, original, rebuilt.Serialize())
}

func TestTileBuilder_SerializeToAppends(t *testing.T) {
	tb := NewTileBuilder()
	lb := tb.AddLayer("l", 2, 4096)
	fb := lb.NewPointFeature()
	fb.AddPoint(geom.Pt(1, 1))
	fb.Commit()

	prefix := []byte("prefix")
	out := tb.SerializeTo(append([]byte{}, prefix...))
	require.Equal(t, prefix, out[:len(prefix)])
	require.Equal(t, tb.Serialize(), out[len(prefix):])
}

func TestTileBuilder_EmptyTile(t *testing.T) {
	tb := NewTileBuilder()
	data := tb.Serialize()
	require.Empty(t, data)

	n, err := New(data).CountLayers()
	require.NoError(t, err)
	require.Equal(t, 0, n)
}

func TestLayerBuilder_AddFeatureCopies(t *testing.T) {
	tb := NewTileBuilder()
	lb := tb.AddLayer("src", 2, 4096)
	fb := lb.NewPointFeature()
	fb.SetID(42)
	fb.AddPoint(geom.Pt(10, 20))
	fb.AddProperty("foo", NewStringValue("bar"))
	fb.Commit()

	srcLayer, err := New(tb.Serialize()).NextLayer()
	require.NoError(t, err)
	srcFeature, err := srcLayer.NextFeature()
	require.NoError(t, err)

	dst := NewTileBuilder()
	dstLayer := dst.AddLayerFrom(srcLayer)
	require.NoError(t, dstLayer.AddFeature(srcFeature))

	layer, err := New(dst.Serialize()).NextLayer()
	require.NoError(t, err)
	require.Equal(t, "src", layer.Name())
	require.Equal(t, uint32(2), layer.Version())

	f, err := layer.NextFeature()
	require.NoError(t, err)
	require.Equal(t, uint64(42), f.ID())
	require.Equal(t, srcFeature.Geometry(), f.Geometry())

	p, ok, err := f.NextProperty()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "foo", p.KeyString())
	s, err := p.Value().StringValue()
	require.NoError(t, err)
	require.Equal(t, "bar", string(s))
}

func TestFeatureBuilder_CommitIdempotent(t *testing.T) {
	tb := NewTileBuilder()
	lb := tb.AddLayer("l", 2, 4096)

	fb := lb.NewPointFeature()
	fb.AddPoint(geom.Pt(1, 1))
	fb.Commit()
	fb.Commit()

	require.Equal(t, 1, lb.NumFeatures())
}

func TestFeatureBuilder_Rollback(t *testing.T) {
	tb := NewTileBuilder()
	lb := tb.AddLayer("l", 2, 4096)

	fb := lb.NewPointFeature()
	fb.SetID(1)
	fb.AddPoint(geom.Pt(10, 10))
	fb.Commit()

	fb = lb.NewPointFeature()
	fb.SetID(2)
	fb.AddPoint(geom.Pt(20, 20))
	fb.AddProperty("foo", NewStringValue("bar"))
	fb.Rollback()

	fb = lb.NewPointFeature()
	fb.SetID(3)
	fb.AddPoint(geom.Pt(30, 30))
	fb.Commit()

	require.Equal(t, 2, lb.NumFeatures())

	layer, err := New(tb.Serialize()).NextLayer()
	require.NoError(t, err)

	f, err := layer.NextFeature()
	require.NoError(t, err)
	require.Equal(t, uint64(1), f.ID())

	f, err = layer.NextFeature()
	require.NoError(t, err)
	require.Equal(t, uint64(3), f.ID())

	f, err = layer.NextFeature()
	require.NoError(t, err)
	require.Nil(t, f)
}

func TestFeatureBuilder_Panics(t *testing.T) {
	tb := NewTileBuilder()
	lb := tb.AddLayer("l", 2, 4096)

	t.Run("commit without geometry", func(t *testing.T) {
		fb := lb.NewPointFeature()
		require.Panics(t, func() { fb.Commit() })
	})

	t.Run("rollback after commit", func(t *testing.T) {
		fb := lb.NewPointFeature()
		fb.AddPoint(geom.Pt(1, 1))
		fb.Commit()
		require.Panics(t, func() { fb.Rollback() })
	})

	t.Run("commit after rollback", func(t *testing.T) {
		fb := lb.NewPointFeature()
		fb.AddPoint(geom.Pt(1, 1))
		fb.Rollback()
		require.Panics(t, func() { fb.Commit() })
	})

	t.Run("property before geometry", func(t *testing.T) {
		fb := lb.NewPointFeature()
		require.Panics(t, func() { fb.AddProperty("k", NewStringValue("v")) })
	})

	t.Run("geometry after property", func(t *testing.T) {
		fb := lb.NewPointFeature()
		fb.AddPoint(geom.Pt(1, 1))
		fb.AddProperty("k", NewStringValue("v"))
		require.Panics(t, func() { fb.AddPoint(geom.Pt(2, 2)) })
	})

	t.Run("too many SetPoint calls", func(t *testing.T) {
		fb := lb.NewPointFeature()
		fb.AddPoints(1)
		fb.SetPoint(geom.Pt(1, 1))
		require.Panics(t, func() { fb.SetPoint(geom.Pt(2, 2)) })
	})

	t.Run("too few SetPoint calls", func(t *testing.T) {
		fb := lb.NewLinestringFeature()
		fb.AddLinestring(3)
		fb.SetPoint(geom.Pt(1, 1))
		fb.SetPoint(geom.Pt(2, 2))
		require.Panics(t, func() { fb.Commit() })
	})

	t.Run("zero-length segment", func(t *testing.T) {
		fb := lb.NewLinestringFeature()
		fb.AddLinestring(2)
		fb.SetPoint(geom.Pt(1, 1))
		require.Panics(t, func() { fb.SetPoint(geom.Pt(1, 1)) })
	})

	t.Run("unclosed ring", func(t *testing.T) {
		fb := lb.NewPolygonFeature()
		fb.AddRing(4)
		fb.SetPoint(geom.Pt(0, 0))
		fb.SetPoint(geom.Pt(5, 0))
		fb.SetPoint(geom.Pt(5, 5))
		require.Panics(t, func() { fb.SetPoint(geom.Pt(1, 1)) })
	})

	t.Run("short linestring", func(t *testing.T) {
		fb := lb.NewLinestringFeature()
		require.Panics(t, func() { fb.AddLinestring(1) })
	})

	t.Run("short ring", func(t *testing.T) {
		fb := lb.NewPolygonFeature()
		require.Panics(t, func() { fb.AddRing(3) })
	})
}

func TestTileBuilder_InvalidLayerVersionPanics(t *testing.T) {
	tb := NewTileBuilder()
	require.Panics(t, func() { tb.AddLayer("bad", 3, 4096) })
}

// packKnotsBytes encodes doubles as a packed fixed64 payload.
func packKnotsBytes(values ...float64) []byte {
	var buf []byte
	for _, v := range values {
		field := pbf.AppendDoubleField(nil, 1, v)
		buf = append(buf, field[1:]...)
	}
	return buf
}
