// Package pbf implements the protobuf wire primitives the vector tile
// format is built from: varints, zig-zag mapping, little-endian fixed-width
// scalars, length-delimited record iteration, and packed repeated fields.
//
// Everything on the read path is a lazy cursor over the caller's byte
// slice; views returned by the Reader alias the input buffer and stay
// valid exactly as long as the input does. Nothing here allocates for
// data that is already in the buffer.
//
// The write path is a set of append-style functions in the tradition of
// the strconv.Append* family: each takes a destination slice and returns
// the extended slice.
package pbf
