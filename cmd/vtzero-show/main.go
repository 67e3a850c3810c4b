// vtzero-show prints the content of a vector tile: the layers, their
// key/value tables, and every feature with its geometry and properties.
// Stored tiles coming straight out of an MBTiles or PMTiles store are
// decompressed transparently.
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"

	"github.com/geeknik/vtzero"
	"github.com/geeknik/vtzero/geom"
	"github.com/geeknik/vtzero/tile"
)

var cli struct {
	Layers     bool   `short:"l" help:"Show layer overview with feature count."`
	Tables     bool   `short:"t" help:"Also print key/value tables."`
	ValueTypes bool   `short:"T" name:"value-types" help:"Also show value types."`
	Tile       string `arg:"" help:"Vector tile file." type:"existingfile"`
	Layer      string `arg:"" optional:"" help:"Layer number or name."`
}

// geomPrinter writes the decoded geometry in a WKT-like form.
type geomPrinter struct {
	out strings.Builder
}

func (h *geomPrinter) PointsBegin(uint32) {}

func (h *geomPrinter) PointsPoint(p geom.Point) {
	fmt.Fprintf(&h.out, "      POINT(%d,%d)\n", p.X, p.Y)
}

func (h *geomPrinter) PointsEnd() {}

func (h *geomPrinter) LinestringBegin(count uint32) {
	fmt.Fprintf(&h.out, "      LINESTRING[count=%d](", count)
}

func (h *geomPrinter) LinestringPoint(p geom.Point) {
	fmt.Fprintf(&h.out, "%d %d,", p.X, p.Y)
}

func (h *geomPrinter) LinestringEnd() {
	h.closeParen()
	h.out.WriteByte('\n')
}

func (h *geomPrinter) RingBegin(count uint32) {
	fmt.Fprintf(&h.out, "      RING[count=%d](", count)
}

func (h *geomPrinter) RingPoint(p geom.Point) {
	fmt.Fprintf(&h.out, "%d %d,", p.X, p.Y)
}

func (h *geomPrinter) RingEnd(rt geom.RingType) {
	h.closeParen()
	fmt.Fprintf(&h.out, "[%s]\n", rt)
}

func (h *geomPrinter) ControlPointsBegin(count uint32) {
	fmt.Fprintf(&h.out, "      SPLINE[count=%d](", count)
}

func (h *geomPrinter) ControlPointsPoint(p geom.Point) {
	fmt.Fprintf(&h.out, "%d %d,", p.X, p.Y)
}

func (h *geomPrinter) ControlPointsEnd() {
	h.closeParen()
	h.out.WriteString(", ")
}

func (h *geomPrinter) KnotsBegin(count uint32) {
	fmt.Fprintf(&h.out, "knots[count=%d](", count)
}

func (h *geomPrinter) KnotsValue(v float64) {
	fmt.Fprintf(&h.out, "%g,", v)
}

func (h *geomPrinter) KnotsEnd() {
	h.closeParen()
	h.out.WriteByte('\n')
}

func (h *geomPrinter) closeParen() {
	s := h.out.String()
	if strings.HasSuffix(s, ",") {
		h.out.Reset()
		h.out.WriteString(s[:len(s)-1])
	}
	h.out.WriteByte(')')
}

// valuePrinter formats one property value.
type valuePrinter struct {
	out       strings.Builder
	withTypes bool
}

func (v *valuePrinter) String(b []byte) error {
	fmt.Fprintf(&v.out, "%q", b)
	v.typeSuffix("string")
	return nil
}

func (v *valuePrinter) Float(f float32) error {
	fmt.Fprintf(&v.out, "%g", f)
	v.typeSuffix("float")
	return nil
}

func (v *valuePrinter) Double(d float64) error {
	fmt.Fprintf(&v.out, "%g", d)
	v.typeSuffix("double")
	return nil
}

func (v *valuePrinter) Int(i int64) error {
	fmt.Fprintf(&v.out, "%d", i)
	v.typeSuffix("int")
	return nil
}

func (v *valuePrinter) Uint(u uint64) error {
	fmt.Fprintf(&v.out, "%d", u)
	v.typeSuffix("uint")
	return nil
}

func (v *valuePrinter) Bool(b bool) error {
	fmt.Fprintf(&v.out, "%t", b)
	v.typeSuffix("bool")
	return nil
}

func (v *valuePrinter) Map(m tile.Properties) error {
	v.out.WriteByte('{')
	err := m.ForEach(func(p tile.Property) bool {
		fmt.Fprintf(&v.out, "%q=", p.Key())
		if err := tile.ApplyVisitor(v, p.Value()); err != nil {
			return false
		}
		v.out.WriteByte(',')
		return true
	})
	v.out.WriteByte('}')
	return err
}

func (v *valuePrinter) List(l tile.PropertyList) error {
	v.out.WriteByte('[')
	err := l.ForEach(func(pv tile.PropertyValue) bool {
		if err := tile.ApplyVisitor(v, pv); err != nil {
			return false
		}
		v.out.WriteByte(',')
		return true
	})
	v.out.WriteByte(']')
	return err
}

func (v *valuePrinter) typeSuffix(name string) {
	if v.withTypes {
		fmt.Fprintf(&v.out, " [%s]", name)
	}
}

func formatValue(pv tile.PropertyValue, withTypes bool) string {
	v := valuePrinter{withTypes: withTypes}
	if err := tile.ApplyVisitor(&v, pv); err != nil {
		return fmt.Sprintf("<error: %v>", err)
	}

	return v.out.String()
}

func printLayerOverview(l *tile.Layer) {
	fmt.Printf("%s %d\n", l.Name(), l.NumFeatures())
}

func printTables(l *tile.Layer) error {
	fmt.Println("  keys:")
	for i := 0; i < l.NumKeys(); i++ {
		key, err := l.Key(uint32(i))
		if err != nil {
			return err
		}
		fmt.Printf("    %d: %s\n", i, key)
	}
	fmt.Println("  values:")
	for i := 0; i < l.NumValues(); i++ {
		value, err := l.Value(uint32(i))
		if err != nil {
			return err
		}
		fmt.Printf("    %d: %s\n", i, formatValue(value, cli.ValueTypes))
	}

	return nil
}

func printLayer(l *tile.Layer) error {
	fmt.Printf("layer: %s\n  version: %d\n  extent: %d\n  features: %d\n",
		l.Name(), l.Version(), l.Extent(), l.NumFeatures())

	if cli.Tables {
		if err := printTables(l); err != nil {
			return err
		}
	}

	for {
		f, err := l.NextFeature()
		if err != nil {
			return err
		}
		if f == nil {
			return nil
		}

		fmt.Printf("  feature: %d\n    geomtype: %s\n", f.ID(), f.Type())

		var gp geomPrinter
		if err := f.DecodeGeometry(&gp); err != nil {
			fmt.Printf("    geometry error: %v\n", err)
		} else {
			fmt.Print(gp.out.String())
		}

		fmt.Println("    properties:")
		if err := f.ForEachProperty(func(p tile.Property) bool {
			fmt.Printf("      %s=%s\n", p.Key(), formatValue(p.Value(), cli.ValueTypes))
			return true
		}); err != nil {
			fmt.Printf("    property error: %v\n", err)
		}
	}
}

func run(logger *zap.Logger) error {
	data, err := os.ReadFile(cli.Tile)
	if err != nil {
		return err
	}

	t, err := vtzero.NewStoredTile(data)
	if err != nil {
		return err
	}

	if cli.Layer != "" {
		var layer *tile.Layer
		if n, convErr := strconv.Atoi(cli.Layer); convErr == nil {
			layer, err = t.GetLayer(n)
		} else {
			layer, err = t.GetLayerByName(cli.Layer)
		}
		if err != nil {
			return err
		}
		if layer == nil {
			return fmt.Errorf("no such layer: %s", cli.Layer)
		}

		if cli.Layers {
			printLayerOverview(layer)
			return nil
		}

		return printLayer(layer)
	}

	for {
		layer, err := t.NextLayer()
		if err != nil {
			return err
		}
		if layer == nil {
			return nil
		}

		if cli.Layers {
			printLayerOverview(layer)
			continue
		}

		if err := printLayer(layer); err != nil {
			logger.Warn("skipping layer", zap.String("layer", layer.Name()), zap.Error(err))
		}
	}
}

func main() {
	kong.Parse(&cli,
		kong.Name("vtzero-show"),
		kong.Description("Show contents of vector tile."),
	)

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	if err := run(logger); err != nil {
		logger.Fatal("failed", zap.Error(err))
	}
}
