package compress

// A cgo-backed Zstd implementation (valyala/gozstd) was considered for
// this codec but dropped: nothing in this module needs a second, cgo-only
// Zstd path alongside the pure-Go one in zstd_pure.go, so it would have
// shipped permanently inert behind a build tag that never matches any
// real build configuration. If that ever changes, gate it the same way:
//
//	//go:build nobuild
//
//	package compress
//
//	import "github.com/valyala/gozstd"
//	...

// ZstdCompressor provides Zstandard compression for the bundle archive,
// where ratio matters more than latency since the archive is built once
// and distributed many times to provisioning pipelines.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd compressor with default settings.
//
// Returns:
//   - ZstdCompressor: New Zstd compressor instance
//
// Example:
//
//	compressor := NewZstdCompressor()
//	compressed, err := compressor.Compress(data)
//	if err != nil {
//		return err
//	}
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
