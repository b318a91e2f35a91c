// Package compress provides general-purpose compression codecs for the
// ambient parts of the res-blob pipeline: the bundle archive and the
// build report. The device-RGB chunk's own compressed/raw flag uses LZ4
// block mode directly through the section package, not through this
// package's Codec abstraction, since a chunk header needs exact control
// over the uncompressed length it records.
//
// # Overview
//
// The package supports four algorithms:
//   - None: no compression (fastest, largest)
//   - Zstd: best compression ratio, moderate speed
//   - S2: balanced compression and speed
//   - LZ4: fast decompression, moderate compression
//
// # Architecture
//
// The package defines three core interfaces:
//
//	type Compressor interface {
//	    Compress(data []byte) ([]byte, error)
//	}
//
//	type Decompressor interface {
//	    Decompress(data []byte) ([]byte, error)
//	}
//
//	type Codec interface {
//	    Compressor
//	    Decompressor
//	}
//
// # Supported Algorithms
//
// **NoOp Compression** (format.CompressionNone)
//
//	codec := compress.NewNoOpCompressor()
//	compressed, _ := codec.Compress(data)  // Returns data unchanged
//	original, _ := codec.Decompress(compressed)  // Returns data unchanged
//
// Use when data is already compressed (a bundle of already-LZ4'd res-blob
// files gains nothing from a second pass).
//
// **Zstandard (Zstd)** (format.CompressionZstd)
//
//	codec := compress.NewZstdCompressor()
//	compressed, _ := codec.Compress(manifestJSON)
//
// Used by the bundle archive (blob.Bundle): packs many `Clock*_res`
// files plus a JSON manifest for device-provisioning pipelines, where
// ratio matters more than latency since the archive is built once and
// shipped many times.
//
// **S2 (Snappy Alternative)** (format.CompressionS2)
//
//	codec := compress.NewS2Compressor()
//	compressed, _ := codec.Compress(reportJSON)
//
// Used by the build report: a JSON manifest of clock id, resolution,
// region sizes, per-asset offsets, and dedup decisions regenerated on
// every pack invocation, where speed matters more than ratio.
//
// **LZ4** (format.CompressionLZ4)
//
//	codec := compress.NewLZ4Compressor()
//	compressed, _ := codec.Compress(data)  // Very fast decompression
//
// The algorithm underlying the device-RGB chunk's compressed flag (via
// the section package) and available directly for ad-hoc use.
//
// # Thread Safety
//
// All codec implementations are safe for concurrent use.
package compress
