// Package tile provides lazy, zero-copy views over Mapbox Vector Tile
// buffers and builders that emit conforming tile byte streams.
//
// # Reading
//
// A Tile is a cursor over the layers of one tile buffer. Layers, features
// and property values are lightweight views into that buffer; none of
// them copy payload data, and all of them become invalid when the buffer
// is mutated or released. A typical scan:
//
//	t := tile.New(data)
//	for {
//	    layer, err := t.NextLayer()
//	    if err != nil {
//	        return err
//	    }
//	    if layer == nil {
//	        break
//	    }
//	    for {
//	        feature, err := layer.NextFeature()
//	        if err != nil || feature == nil {
//	            break
//	        }
//	        // feature.DecodeGeometry(...), feature.NextProperty(), ...
//	    }
//	}
//
// Format errors surface from the smallest operation that discovers them;
// the enclosing tile stays usable for unaffected layers, and a feature
// with a bad property index can be skipped while the rest of the layer
// is still iterated.
//
// # Writing
//
// A TileBuilder owns an ordered set of layer builders. Each layer builder
// owns its key and value dictionaries (deduplicated by encoded bytes) and
// the accumulated feature records. Feature builders are transient scoped
// handles over a layer builder: geometry calls must come before property
// calls, and each builder ends in exactly one of Commit or Rollback.
// Mis-sequencing a builder is a programmer error and panics.
//
// Readers may share one immutable buffer across goroutines, each with its
// own view stack. Builders are single-writer and not safe for concurrent
// use.
package tile
