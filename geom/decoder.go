package geom

import (
	"github.com/geeknik/vtzero/errs"
	"github.com/geeknik/vtzero/pbf"
)

// Decoder decodes one geometry command stream. Its state is the running
// cursor, the pending point count of the current command, and the two
// iterators over the command integers and the knot doubles.
//
// A Decoder is single-use and single-pass.
type Decoder struct {
	it       pbf.Uint32Iter
	knots    pbf.Fixed64Iter
	cursor   Point
	dims     uint32
	count    uint32
	maxCount uint32
}

// NewDecoder creates a decoder over a geometry field payload. knots may
// be nil for non-spline geometries. dims is the layer's dimension count
// (2 or 3); each decoded point consumes that many zig-zag varints.
func NewDecoder(data, knots []byte, dims uint32) *Decoder {
	if dims != 3 {
		dims = 2
	}

	// A count can never legitimately exceed the number of remaining
	// varints, and one coordinate takes at least one byte, so half the
	// payload length bounds any valid count.
	maxCount := uint32(MaxCommandCount)
	if half := uint64(len(data)) / 2; half < uint64(maxCount) {
		maxCount = uint32(half)
	}

	return &Decoder{
		it:       pbf.NewUint32Iter(data),
		knots:    pbf.NewFixed64Iter(knots),
		dims:     dims,
		maxCount: maxCount,
	}
}

// done reports whether the command stream is exhausted.
func (d *Decoder) done() bool {
	return d.it.Done()
}

// nextCommand reads the next command integer and checks it against the
// expected command. It returns false on a clean end of stream.
func (d *Decoder) nextCommand(expected uint32) (bool, error) {
	if d.it.Done() {
		return false, nil
	}

	ci, err := d.it.Next()
	if err != nil {
		return false, err
	}

	if id := CommandID(ci); id != expected {
		return false, errs.Geometryf("expected command %d but got %d", expected, id)
	}

	if expected == CmdClosePath {
		// A ClosePath command always carries a count of 1.
		if CommandCount(ci) != 1 {
			return false, errs.Geometry("ClosePath command count is not 1")
		}
	} else {
		d.count = CommandCount(ci)
		if d.count > d.maxCount {
			return false, errs.Geometry("Max count too large")
		}
	}

	return true, nil
}

// nextPoint decodes one coordinate tuple as deltas from the cursor.
func (d *Decoder) nextPoint() (Point, error) {
	coords := [3]int32{d.cursor.X, d.cursor.Y, d.cursor.Z}
	for i := uint32(0); i < d.dims; i++ {
		if d.it.Done() {
			return Point{}, errs.Geometry("too few points in geometry")
		}
		v, err := d.it.Next()
		if err != nil {
			return Point{}, err
		}
		coords[i] = int32(int64(coords[i]) + int64(pbf.UnZigZag32(v)))
	}

	d.count--
	d.cursor = Point{X: coords[0], Y: coords[1], Z: coords[2]}

	return d.cursor, nil
}

// DecodePoint decodes the command stream as a point geometry: a single
// MoveTo with count >= 1 and nothing else.
func (d *Decoder) DecodePoint(h PointHandler) error {
	ok, err := d.nextCommand(CmdMoveTo)
	if err != nil {
		return err
	}
	if !ok {
		return errs.Geometry("expected MoveTo command")
	}
	if d.count == 0 {
		return errs.Geometry("MoveTo command count is zero")
	}

	h.PointsBegin(d.count)
	for d.count > 0 {
		p, err := d.nextPoint()
		if err != nil {
			return err
		}
		h.PointsPoint(p)
	}

	if !d.done() {
		return errs.Geometry("additional data after end of geometry")
	}

	h.PointsEnd()

	return nil
}

// DecodeLinestring decodes the command stream as a linestring geometry:
// one or more (MoveTo count=1)(LineTo count>=1) pairs.
func (d *Decoder) DecodeLinestring(h LinestringHandler) error {
	for {
		ok, err := d.nextCommand(CmdMoveTo)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if d.count != 1 {
			return errs.Geometry("MoveTo command count is not 1")
		}

		first, err := d.nextPoint()
		if err != nil {
			return err
		}

		ok, err = d.nextCommand(CmdLineTo)
		if err != nil {
			return err
		}
		if !ok {
			return errs.Geometry("expected LineTo command")
		}
		if d.count == 0 {
			return errs.Geometry("LineTo command count is zero")
		}

		h.LinestringBegin(d.count + 1)
		h.LinestringPoint(first)
		for d.count > 0 {
			p, err := d.nextPoint()
			if err != nil {
				return err
			}
			h.LinestringPoint(p)
		}
		h.LinestringEnd()
	}
}

// DecodePolygon decodes the command stream as a polygon geometry: one or
// more (MoveTo count=1)(LineTo count>=2)(ClosePath count=1) triples. The
// ring classification passed to RingEnd is derived from the sign of the
// shoelace sum over the ring.
func (d *Decoder) DecodePolygon(h PolygonHandler) error {
	for {
		ok, err := d.nextCommand(CmdMoveTo)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if d.count != 1 {
			return errs.Geometry("MoveTo command count is not 1")
		}

		start, err := d.nextPoint()
		if err != nil {
			return err
		}
		last := start
		var sum int64

		ok, err = d.nextCommand(CmdLineTo)
		if err != nil {
			return err
		}
		if !ok {
			return errs.Geometry("expected LineTo command")
		}
		if d.count < 2 {
			return errs.Geometry("LineTo command count is less than 2")
		}

		h.RingBegin(d.count + 2)
		h.RingPoint(start)

		for d.count > 0 {
			p, err := d.nextPoint()
			if err != nil {
				return err
			}
			sum += det(last, p)
			last = p
			h.RingPoint(p)
		}

		ok, err = d.nextCommand(CmdClosePath)
		if err != nil {
			return err
		}
		if !ok {
			return errs.Geometry("expected ClosePath command")
		}

		sum += det(last, start)

		h.RingPoint(start)

		switch {
		case sum > 0:
			h.RingEnd(RingOuter)
		case sum < 0:
			h.RingEnd(RingInner)
		default:
			h.RingEnd(RingInvalid)
		}
	}
}

// DecodeSpline decodes the command stream as a spline geometry: exactly
// one (MoveTo count=1)(LineTo count>=1) pair of control points followed
// by the knot vector from the accompanying fixed64 stream. An empty
// command stream is not an error and produces no callbacks.
func (d *Decoder) DecodeSpline(h SplineHandler) error {
	ok, err := d.nextCommand(CmdMoveTo)
	if err != nil {
		return err
	}
	if ok {
		if d.count != 1 {
			return errs.Geometry("MoveTo command count is not 1")
		}

		first, err := d.nextPoint()
		if err != nil {
			return err
		}

		ok, err = d.nextCommand(CmdLineTo)
		if err != nil {
			return err
		}
		if !ok {
			return errs.Geometry("expected LineTo command")
		}
		if d.count == 0 {
			return errs.Geometry("LineTo command count is zero")
		}

		h.ControlPointsBegin(d.count + 1)
		h.ControlPointsPoint(first)
		for d.count > 0 {
			p, err := d.nextPoint()
			if err != nil {
				return err
			}
			h.ControlPointsPoint(p)
		}
		h.ControlPointsEnd()

		h.KnotsBegin(uint32(d.knots.Count()))
		for !d.knots.Done() {
			v, err := d.knots.NextDouble()
			if err != nil {
				return err
			}
			h.KnotsValue(v)
		}
		h.KnotsEnd()
	}

	if !d.done() {
		return errs.Geometry("additional data after end of geometry")
	}

	return nil
}

// DecodePoint decodes a point geometry field payload.
func DecodePoint(data []byte, dims uint32, h PointHandler) error {
	return NewDecoder(data, nil, dims).DecodePoint(h)
}

// DecodeLinestring decodes a linestring geometry field payload.
func DecodeLinestring(data []byte, dims uint32, h LinestringHandler) error {
	return NewDecoder(data, nil, dims).DecodeLinestring(h)
}

// DecodePolygon decodes a polygon geometry field payload.
func DecodePolygon(data []byte, dims uint32, h PolygonHandler) error {
	return NewDecoder(data, nil, dims).DecodePolygon(h)
}

// DecodeSpline decodes a spline geometry field payload with its knot stream.
func DecodeSpline(data, knots []byte, dims uint32, h SplineHandler) error {
	return NewDecoder(data, knots, dims).DecodeSpline(h)
}

// Decode decodes a geometry field payload, selecting the sub-grammar
// from the geometry type. A type of GeomUnknown is a geometry error.
func Decode(t GeomType, data, knots []byte, dims uint32, h Handler) error {
	d := NewDecoder(data, knots, dims)
	switch t {
	case GeomPoint:
		return d.DecodePoint(h)
	case GeomLinestring:
		return d.DecodeLinestring(h)
	case GeomPolygon:
		return d.DecodePolygon(h)
	case GeomSpline:
		return d.DecodeSpline(h)
	default:
		return errs.Geometry("unknown geometry type")
	}
}
