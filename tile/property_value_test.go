package tile

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/geeknik/vtzero/errs"
	"github.com/geeknik/vtzero/geom"
	"github.com/geeknik/vtzero/pbf"
)

func TestPropertyValue_ScalarKinds(t *testing.T) {
	cases := []struct {
		name  string
		value EncodedValue
		kind  ValueType
		check func(t *testing.T, pv PropertyValue)
	}{
		{"string", NewStringValue("hi"), ValueString, func(t *testing.T, pv PropertyValue) {
			v, err := pv.StringValue()
			require.NoError(t, err)
			require.Equal(t, "hi", string(v))
		}},
		{"float", NewFloatValue(1.5), ValueFloat, func(t *testing.T, pv PropertyValue) {
			v, err := pv.FloatValue()
			require.NoError(t, err)
			require.Equal(t, float32(1.5), v)
		}},
		{"double", NewDoubleValue(2.25), ValueDouble, func(t *testing.T, pv PropertyValue) {
			v, err := pv.DoubleValue()
			require.NoError(t, err)
			require.Equal(t, 2.25, v)
		}},
		{"int", NewIntValue(-3), ValueInt, func(t *testing.T, pv PropertyValue) {
			v, err := pv.IntValue()
			require.NoError(t, err)
			require.Equal(t, int64(-3), v)
		}},
		{"uint", NewUintValue(7), ValueUint, func(t *testing.T, pv PropertyValue) {
			v, err := pv.UintValue()
			require.NoError(t, err)
			require.Equal(t, uint64(7), v)
		}},
		{"sint", NewSintValue(-9), ValueSint, func(t *testing.T, pv PropertyValue) {
			v, err := pv.SintValue()
			require.NoError(t, err)
			require.Equal(t, int64(-9), v)
		}},
		{"bool", NewBoolValue(true), ValueBool, func(t *testing.T, pv PropertyValue) {
			v, err := pv.BoolValue()
			require.NoError(t, err)
			require.True(t, v)
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pv := NewPropertyValue(tc.value.Data(), nil)
			require.True(t, pv.Valid())

			kind, err := pv.Type()
			require.NoError(t, err)
			require.Equal(t, tc.kind, kind)

			tc.check(t, pv)
		})
	}
}

func TestPropertyValue_WrongAccessor(t *testing.T) {
	pv := NewPropertyValue(NewIntValue(19).Data(), nil)

	_, err := pv.StringValue()
	require.ErrorIs(t, err, errs.ErrType)

	_, err = pv.DoubleValue()
	require.ErrorIs(t, err, errs.ErrType)

	_, err = pv.BoolValue()
	require.ErrorIs(t, err, errs.ErrType)

	v, err := pv.IntValue()
	require.NoError(t, err)
	require.Equal(t, int64(19), v)
}

func TestPropertyValue_TypeErrors(t *testing.T) {
	// Empty record.
	pv := NewPropertyValue([]byte{}, nil)
	_, err := pv.Type()
	require.ErrorIs(t, err, errs.ErrFormat)
	require.ErrorContains(t, err, "missing tag value")

	// Tag outside 1..9.
	pv = NewPropertyValue(pbf.AppendVarintField(nil, 12, 1), nil)
	_, err = pv.Type()
	require.ErrorIs(t, err, errs.ErrFormat)
	require.ErrorContains(t, err, "illegal property value type")

	// String tag with varint wire type.
	pv = NewPropertyValue(pbf.AppendVarintField(nil, uint32(ValueString), 1), nil)
	_, err = pv.Type()
	require.ErrorIs(t, err, errs.ErrFormat)
	require.ErrorContains(t, err, "illegal property value type")
}

func TestPropertyValue_Equal(t *testing.T) {
	a := NewPropertyValue(NewIntValue(19).Data(), nil)
	b := NewPropertyValue(NewIntValue(19).Data(), nil)
	c := NewPropertyValue(NewDoubleValue(19.0).Data(), nil)

	require.True(t, a.Equal(b))
	require.False(t, a.Equal(c))
}

// buildNestedLayer builds a layer whose single feature carries a map
// property {"label":"road","rank":7} and a list property [1,2].
func buildNestedLayer(t *testing.T) *Layer {
	t.Helper()

	tb := NewTileBuilder()
	lb := tb.AddLayer("nested", 2, 4096)

	labelKey := lb.AddKey("label")
	labelVal := lb.AddValue(NewStringValue("road"))
	rankKey := lb.AddKey("rank")
	rankVal := lb.AddValue(NewUintValue(7))
	one := lb.AddValue(NewIntValue(1))
	two := lb.AddValue(NewIntValue(2))

	fb := lb.NewPointFeature()
	fb.AddPoint(geom.Pt(1, 1))
	fb.AddProperty("attrs", NewMapValue([]IndexValuePair{
		{Key: labelKey, Value: labelVal},
		{Key: rankKey, Value: rankVal},
	}))
	fb.AddProperty("measurements", NewListValue([]IndexValue{one, two}))
	fb.Commit()

	layer, err := New(tb.Serialize()).NextLayer()
	require.NoError(t, err)
	require.NotNil(t, layer)

	return layer
}

func TestPropertyValue_MapValue(t *testing.T) {
	layer := buildNestedLayer(t)

	f, err := layer.NextFeature()
	require.NoError(t, err)
	require.Equal(t, 2, f.NumProperties())

	p, ok, err := f.NextProperty()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "attrs", p.KeyString())

	kind, err := p.Value().Type()
	require.NoError(t, err)
	require.Equal(t, ValueMap, kind)

	m, err := p.Value().MapValue()
	require.NoError(t, err)
	require.Equal(t, 2, m.Count())
	require.False(t, m.Empty())

	got := map[string]any{}
	require.NoError(t, m.ForEach(func(p Property) bool {
		switch p.KeyString() {
		case "label":
			s, err := p.Value().StringValue()
			require.NoError(t, err)
			got["label"] = string(s)
		case "rank":
			u, err := p.Value().UintValue()
			require.NoError(t, err)
			got["rank"] = u
		}
		return true
	}))
	require.Equal(t, map[string]any{"label": "road", "rank": uint64(7)}, got)
}

func TestPropertyValue_ListValue(t *testing.T) {
	layer := buildNestedLayer(t)

	f, err := layer.NextFeature()
	require.NoError(t, err)

	_, ok, err := f.NextProperty() // skip the map
	require.NoError(t, err)
	require.True(t, ok)

	p, ok, err := f.NextProperty()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "measurements", p.KeyString())

	l, err := p.Value().ListValue()
	require.NoError(t, err)
	require.Equal(t, 2, l.Count())

	var got []int64
	require.NoError(t, l.ForEach(func(pv PropertyValue) bool {
		v, err := pv.IntValue()
		require.NoError(t, err)
		got = append(got, v)
		return true
	}))
	require.Equal(t, []int64{1, 2}, got)
}

func TestApplyVisitor(t *testing.T) {
	layer := buildNestedLayer(t)

	f, err := layer.NextFeature()
	require.NoError(t, err)

	var kinds []string
	v := &kindVisitor{kinds: &kinds}
	require.NoError(t, f.ForEachProperty(func(p Property) bool {
		require.NoError(t, ApplyVisitor(v, p.Value()))
		return true
	}))
	require.Equal(t, []string{"map", "list"}, kinds)

	require.NoError(t, ApplyVisitor(v, NewPropertyValue(NewSintValue(-2).Data(), nil)))
	require.Equal(t, "int", kinds[len(kinds)-1]) // sint dispatches through Int
}

type kindVisitor struct {
	kinds *[]string
}

func (v *kindVisitor) String([]byte) error     { *v.kinds = append(*v.kinds, "string"); return nil }
func (v *kindVisitor) Float(float32) error     { *v.kinds = append(*v.kinds, "float"); return nil }
func (v *kindVisitor) Double(float64) error    { *v.kinds = append(*v.kinds, "double"); return nil }
func (v *kindVisitor) Int(int64) error         { *v.kinds = append(*v.kinds, "int"); return nil }
func (v *kindVisitor) Uint(uint64) error       { *v.kinds = append(*v.kinds, "uint"); return nil }
func (v *kindVisitor) Bool(bool) error         { *v.kinds = append(*v.kinds, "bool"); return nil }
func (v *kindVisitor) Map(Properties) error    { *v.kinds = append(*v.kinds, "map"); return nil }
func (v *kindVisitor) List(PropertyList) error { *v.kinds = append(*v.kinds, "list"); return nil }

func TestValueTypeNames(t *testing.T) {
	require.Equal(t, "string", ValueString.String())
	require.Equal(t, "float", ValueFloat.String())
	require.Equal(t, "double", ValueDouble.String())
	require.Equal(t, "int", ValueInt.String())
	require.Equal(t, "uint", ValueUint.String())
	require.Equal(t, "sint", ValueSint.String())
	require.Equal(t, "bool", ValueBool.String())
	require.Equal(t, "map", ValueMap.String())
	require.Equal(t, "list", ValueList.String())
}
