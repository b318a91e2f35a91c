// Package hash wraps xxHash64 for the two fingerprints the codec needs: a
// stable id derived from a name (filename, region tag), and a content
// fingerprint derived from prepared chunk bytes, used by the dedup package
// to spot byte-identical assets hiding under different filenames.
package hash

import "github.com/cespare/xxhash/v2"

// ID computes the xxHash64 of the given string.
func ID(data string) uint64 {
	return xxhash.Sum64String(data)
}

// Content computes the xxHash64 of a prepared chunk's raw bytes, used as a
// content fingerprint independent of the filename it was produced from.
func Content(data []byte) uint64 {
	return xxhash.Sum64(data)
}
