// Package vtzero reads and writes Mapbox Vector Tiles (MVT), the compact
// binary format carrying layered vector features with per-feature
// attributes.
//
// The decoder exposes a lazy, zero-copy view stack over a tile buffer:
// tiles, layers, features and property values are all views into the
// caller's bytes and never copy payload data. The builder emits a
// conforming tile byte stream with per-layer key/value dictionaries that
// deduplicate on the fly.
//
// # Reading
//
//	t := vtzero.NewTile(buf)
//	for {
//	    layer, err := t.NextLayer()
//	    if err != nil {
//	        return err
//	    }
//	    if layer == nil {
//	        break
//	    }
//	    fmt.Println(layer.Name(), layer.NumFeatures())
//	}
//
// Tiles coming out of an MBTiles or PMTiles store are usually gzip- or
// zstd-compressed; NewStoredTile sniffs and decompresses such blobs
// before opening them.
//
// # Writing
//
//	tb := vtzero.NewTileBuilder()
//	lb := tb.AddLayer("points", 2, 4096)
//	fb := lb.NewPointFeature()
//	fb.AddPoint(geom.Pt(10, 10))
//	fb.AddProperty("name", tile.NewStringValue("somewhere"))
//	fb.Commit()
//	buf := tb.Serialize()
//
// # Package structure
//
// This package provides convenient top-level wrappers around the tile
// package, which holds the full reading and writing API. The geometry
// command codec lives in geom, the wire primitives in pbf, the at-rest
// compression codecs in compress, and the orb adapter in orbconvert.
package vtzero

import (
	"github.com/geeknik/vtzero/compress"
	"github.com/geeknik/vtzero/tile"
)

// NewTile creates a tile view over a tile buffer. The buffer is not
// copied and must stay alive and unmodified while the tile or any view
// derived from it is in use.
func NewTile(data []byte) *tile.Tile {
	return tile.New(data)
}

// NewStoredTile opens a tile blob as it comes out of a tile store:
// gzip-, zlib-, zstd- or lz4-framed blobs are decompressed first, plain
// blobs open directly.
func NewStoredTile(data []byte) (*tile.Tile, error) {
	raw, err := compress.Auto(data)
	if err != nil {
		return nil, err
	}

	return tile.New(raw), nil
}

// NewTileBuilder creates an empty tile builder.
func NewTileBuilder() *tile.TileBuilder {
	return tile.NewTileBuilder()
}
