// Package orbconvert lifts decoded vector tile content into the
// paulmach/orb geometry types and plain Go property maps, for callers
// who want to hand tiles to code that speaks orb rather than consume
// the decoder callbacks directly.
//
// Coordinates convert to float64 in the layer's local grid; splines
// surface as the line string of their control points, with the knot
// vector available separately.
package orbconvert

import (
	"github.com/paulmach/orb"

	"github.com/geeknik/vtzero/errs"
	"github.com/geeknik/vtzero/geom"
	"github.com/geeknik/vtzero/tile"
)

// collector accumulates decoder callbacks into orb building blocks.
type collector struct {
	points []orb.Point
	line   orb.LineString
	lines  []orb.LineString
	ring   orb.Ring
	rings  []classifiedRing
	knots  []float64
}

type classifiedRing struct {
	ring orb.Ring
	rt   geom.RingType
}

func orbPoint(p geom.Point) orb.Point {
	return orb.Point{float64(p.X), float64(p.Y)}
}

func (c *collector) PointsBegin(count uint32) {
	c.points = make([]orb.Point, 0, count)
}

func (c *collector) PointsPoint(p geom.Point) {
	c.points = append(c.points, orbPoint(p))
}

func (c *collector) PointsEnd() {}

func (c *collector) LinestringBegin(count uint32) {
	c.line = make(orb.LineString, 0, count)
}

func (c *collector) LinestringPoint(p geom.Point) {
	c.line = append(c.line, orbPoint(p))
}

func (c *collector) LinestringEnd() {
	c.lines = append(c.lines, c.line)
	c.line = nil
}

func (c *collector) RingBegin(count uint32) {
	c.ring = make(orb.Ring, 0, count)
}

func (c *collector) RingPoint(p geom.Point) {
	c.ring = append(c.ring, orbPoint(p))
}

func (c *collector) RingEnd(rt geom.RingType) {
	c.rings = append(c.rings, classifiedRing{ring: c.ring, rt: rt})
	c.ring = nil
}

func (c *collector) ControlPointsBegin(count uint32) {
	c.line = make(orb.LineString, 0, count)
}

func (c *collector) ControlPointsPoint(p geom.Point) {
	c.line = append(c.line, orbPoint(p))
}

func (c *collector) ControlPointsEnd() {
	c.lines = append(c.lines, c.line)
	c.line = nil
}

func (c *collector) KnotsBegin(count uint32) {
	c.knots = make([]float64, 0, count)
}

func (c *collector) KnotsValue(v float64) {
	c.knots = append(c.knots, v)
}

func (c *collector) KnotsEnd() {}

// Geometry decodes a feature's geometry into an orb.Geometry.
//
// Point features with one point yield orb.Point, with more orb.MultiPoint.
// Linestring features yield orb.LineString or orb.MultiLineString. Polygon
// features yield orb.Polygon, or orb.MultiPolygon when more than one outer
// ring is present; rings classified invalid attach to the current polygon
// like inner rings. Spline features yield the orb.LineString of their
// control points.
func Geometry(f *tile.Feature) (orb.Geometry, error) {
	var c collector
	if err := f.DecodeGeometry(&c); err != nil {
		return nil, err
	}

	switch f.Type() {
	case geom.GeomPoint:
		if len(c.points) == 1 {
			return c.points[0], nil
		}
		return orb.MultiPoint(c.points), nil

	case geom.GeomLinestring, geom.GeomSpline:
		if len(c.lines) == 1 {
			return c.lines[0], nil
		}
		return orb.MultiLineString(c.lines), nil

	case geom.GeomPolygon:
		var polys orb.MultiPolygon
		for _, r := range c.rings {
			if r.rt == geom.RingOuter || len(polys) == 0 {
				polys = append(polys, orb.Polygon{r.ring})
				continue
			}
			polys[len(polys)-1] = append(polys[len(polys)-1], r.ring)
		}
		if len(polys) == 1 {
			return polys[0], nil
		}
		return polys, nil

	default:
		return nil, errs.Geometry("unknown geometry type")
	}
}

// SplineKnots decodes the knot vector of a spline feature.
func SplineKnots(f *tile.Feature) ([]float64, error) {
	var c collector
	if err := f.DecodeGeometry(&c); err != nil {
		return nil, err
	}

	return c.knots, nil
}

// anyVisitor converts one property value into a plain Go value.
type anyVisitor struct {
	out any
}

func (v *anyVisitor) String(b []byte) error {
	v.out = string(b)
	return nil
}

func (v *anyVisitor) Float(f float32) error {
	v.out = f
	return nil
}

func (v *anyVisitor) Double(d float64) error {
	v.out = d
	return nil
}

func (v *anyVisitor) Int(i int64) error {
	v.out = i
	return nil
}

func (v *anyVisitor) Uint(u uint64) error {
	v.out = u
	return nil
}

func (v *anyVisitor) Bool(b bool) error {
	v.out = b
	return nil
}

func (v *anyVisitor) Map(m tile.Properties) error {
	out, err := propertiesMap(m)
	if err != nil {
		return err
	}
	v.out = out

	return nil
}

func (v *anyVisitor) List(l tile.PropertyList) error {
	out := make([]any, 0, l.Count())
	var convErr error
	err := l.ForEach(func(pv tile.PropertyValue) bool {
		item, err := Value(pv)
		if err != nil {
			convErr = err
			return false
		}
		out = append(out, item)

		return true
	})
	if err == nil {
		err = convErr
	}
	if err != nil {
		return err
	}
	v.out = out

	return nil
}

// Value converts one property value into a plain Go value: string,
// float32, float64, int64, uint64, bool, map[string]any or []any.
// Int and sint values both arrive as int64.
func Value(pv tile.PropertyValue) (any, error) {
	var v anyVisitor
	if err := tile.ApplyVisitor(&v, pv); err != nil {
		return nil, err
	}

	return v.out, nil
}

func propertiesMap(props tile.Properties) (map[string]any, error) {
	out := make(map[string]any, props.Count())
	var convErr error
	err := props.ForEach(func(p tile.Property) bool {
		v, err := Value(p.Value())
		if err != nil {
			convErr = err
			return false
		}
		out[p.KeyString()] = v

		return true
	})
	if err == nil {
		err = convErr
	}
	if err != nil {
		return nil, err
	}

	return out, nil
}

// PropertiesMap resolves all properties of a feature into a plain map.
func PropertiesMap(f *tile.Feature) (map[string]any, error) {
	out := make(map[string]any, f.NumProperties())
	var convErr error
	err := f.ForEachProperty(func(p tile.Property) bool {
		v, err := Value(p.Value())
		if err != nil {
			convErr = err
			return false
		}
		out[p.KeyString()] = v

		return true
	})
	if err == nil {
		err = convErr
	}
	if err != nil {
		return nil, err
	}

	return out, nil
}
