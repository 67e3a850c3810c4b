// Package geom implements the geometry command stream codec of the
// vector tile format.
//
// The decoder is a single-pass state machine over the packed command
// integers of a feature's geometry field. It never rewinds and never
// allocates; decoded points are delivered to a caller-supplied handler
// through the callback interfaces in this package. The write side lives
// with the feature builders in the tile package, which emit command
// streams through the same helpers.
package geom

// GeomType is the geometry type of a feature.
type GeomType uint32

// The geometry types of the vector tile format.
const (
	GeomUnknown    GeomType = 0
	GeomPoint      GeomType = 1
	GeomLinestring GeomType = 2
	GeomPolygon    GeomType = 3
	GeomSpline     GeomType = 4
)

var geomTypeNames = [...]string{"unknown", "point", "linestring", "polygon", "spline"}

// String returns the name of the geometry type for debug output.
func (t GeomType) String() string {
	if int(t) < len(geomTypeNames) {
		return geomTypeNames[t]
	}
	return "unknown"
}

// RingType classifies a polygon ring by the sign of its area: outer rings
// have positive area, inner (hole) rings negative, and rings with zero
// area are invalid.
type RingType int

// The polygon ring classifications.
const (
	RingOuter RingType = iota
	RingInner
	RingInvalid
)

// String returns the name of the ring type for debug output.
func (t RingType) String() string {
	switch t {
	case RingOuter:
		return "outer"
	case RingInner:
		return "inner"
	default:
		return "invalid"
	}
}

// Point is a geometry coordinate in the layer's integer grid. Z is only
// meaningful in layers with three dimensions and stays zero otherwise.
type Point struct {
	X int32
	Y int32
	Z int32
}

// Pt is a shorthand constructor for a 2-D point.
func Pt(x, y int32) Point {
	return Point{X: x, Y: y}
}

// det is one term of the shoelace sum over a ring: the determinant of
// the 2x2 matrix with a and b as columns, in 64-bit arithmetic so that
// full-range 32-bit coordinates cannot overflow.
func det(a, b Point) int64 {
	return int64(a.X)*int64(b.Y) - int64(b.X)*int64(a.Y)
}
