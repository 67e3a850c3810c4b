package hash

import "github.com/cespare/xxhash/v2"

// Key computes the xxHash64 of a dictionary key string.
func Key(s string) uint64 {
	return xxhash.Sum64String(s)
}

// Value computes the xxHash64 of an encoded property value record.
func Value(data []byte) uint64 {
	return xxhash.Sum64(data)
}
