package tile

import (
	"iter"

	"github.com/geeknik/vtzero/pbf"
)

// Tile is a forward cursor over the layers of one vector tile buffer.
//
// The tile holds the buffer by reference; every layer, feature and value
// obtained through it is a view into that buffer and must not outlive it.
type Tile struct {
	data   []byte
	reader pbf.Reader
}

// New creates a tile view over a tile buffer. The buffer is not copied
// and must stay alive and unmodified while the tile or any view derived
// from it is in use.
func New(data []byte) *Tile {
	return &Tile{data: data, reader: pbf.NewReader(data)}
}

// Data returns the underlying tile buffer.
func (t *Tile) Data() []byte {
	return t.data
}

// Empty reports whether the tile buffer holds no data at all.
func (t *Tile) Empty() bool {
	return len(t.data) == 0
}

// CountLayers scans the tile and returns the number of layers. The scan
// is independent of the NextLayer cursor.
func (t *Tile) CountLayers() (int, error) {
	count := 0
	r := pbf.NewReader(t.data)
	for {
		ok, err := r.Next()
		if err != nil {
			return 0, err
		}
		if !ok {
			return count, nil
		}
		if r.Field() == tagTileLayer && r.Wire() == pbf.WireBytes {
			count++
		}
	}
}

// NextLayer returns the next layer, or nil at the end of the tile.
// Unknown fields are skipped.
func (t *Tile) NextLayer() (*Layer, error) {
	for {
		ok, err := t.reader.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, nil
		}
		if t.reader.Field() != tagTileLayer || t.reader.Wire() != pbf.WireBytes {
			continue
		}
		data, err := t.reader.Bytes()
		if err != nil {
			return nil, err
		}

		return NewLayer(data)
	}
}

// Layers returns an iterator over all layers for use with range. It
// runs on its own cursor; a decoding error is yielded once and ends the
// iteration.
func (t *Tile) Layers() iter.Seq2[*Layer, error] {
	return func(yield func(*Layer, error) bool) {
		view := New(t.data)
		for {
			layer, err := view.NextLayer()
			if err != nil {
				yield(nil, err)
				return
			}
			if layer == nil {
				return
			}
			if !yield(layer, nil) {
				return
			}
		}
	}
}

// ResetLayers rewinds the layer cursor to the first layer.
func (t *Tile) ResetLayers() {
	t.reader = pbf.NewReader(t.data)
}

// GetLayer returns the n-th layer (zero-based), or nil if the tile has
// fewer layers. It does not disturb the NextLayer cursor.
func (t *Tile) GetLayer(n int) (*Layer, error) {
	r := pbf.NewReader(t.data)
	for {
		ok, err := r.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, nil
		}
		if r.Field() != tagTileLayer || r.Wire() != pbf.WireBytes {
			continue
		}
		data, err := r.Bytes()
		if err != nil {
			return nil, err
		}
		if n == 0 {
			return NewLayer(data)
		}
		n--
	}
}

// GetLayerByName returns the first layer with the given name, or nil if
// no layer matches. Repeated layers under the same name are permitted in
// a tile; the later ones are only reachable by iteration.
func (t *Tile) GetLayerByName(name string) (*Layer, error) {
	r := pbf.NewReader(t.data)
	for {
		ok, err := r.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, nil
		}
		if r.Field() != tagTileLayer || r.Wire() != pbf.WireBytes {
			continue
		}
		data, err := r.Bytes()
		if err != nil {
			return nil, err
		}
		if layerName(data, name) {
			return NewLayer(data)
		}
	}
}

// layerName reports whether the raw layer record carries the given name,
// without building the full layer view.
func layerName(data []byte, name string) bool {
	r := pbf.NewReader(data)
	for {
		ok, err := r.Next()
		if err != nil || !ok {
			return false
		}
		if r.Field() != tagLayerName || r.Wire() != pbf.WireBytes {
			continue
		}
		v, err := r.Bytes()
		if err != nil {
			return false
		}

		return string(v) == name
	}
}
