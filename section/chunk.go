package section

import (
	"fmt"

	"github.com/pierrec/lz4/v4"

	"github.com/dtno1/clockres/errs"
)

// hcLevel is the compression level given to the lz4.CompressorHC that
// Compress creates for each call (the compressor is not reused).
//
// Level9 is the highest compression tier pierrec/lz4/v4 exposes; it is
// the closest available match to LZ4HC's native level-12 maximum that
// the device's own packer used.
var hcLevel = lz4.Level9

// ValidatePayloadLen returns errs.ErrChunkTooLarge if n would not fit in
// the chunk header's 24-bit payload_len field.
func ValidatePayloadLen(n int) error {
	if n < 0 || n > MaxChunkPayloadLen {
		return fmt.Errorf("payload of %d bytes exceeds %d byte limit: %w", n, MaxChunkPayloadLen, errs.ErrChunkTooLarge)
	}

	return nil
}

// Compress wraps a device-RGB chunk's raw payload with LZ4 block
// compression, per §4.2: a chunk already marked compressed passes
// through unchanged; otherwise a zero or out-of-range declared
// payload_len is first repaired to the actual payload size, the payload
// is LZ4-compressed at high-compression level, and the header's
// compressed flag is set. The uncompressed-length field is preserved so
// the unpacker can size its decompression buffer.
func Compress(h ChunkHeader, payload []byte) (ChunkHeader, []byte, error) {
	if h.Compressed {
		return h, payload, nil
	}

	if err := ValidatePayloadLen(len(payload)); err != nil {
		return ChunkHeader{}, nil, err
	}

	actual := uint32(len(payload))
	if h.PayloadLen == 0 || h.PayloadLen > actual {
		h.PayloadLen = actual
	}

	dst := make([]byte, lz4.CompressBlockBound(len(payload)))
	var c lz4.CompressorHC
	c.Level = hcLevel

	n, err := c.CompressBlock(payload, dst)
	if err != nil {
		return ChunkHeader{}, nil, fmt.Errorf("lz4 compress: %w: %w", err, errs.ErrCompressionFailure)
	}
	if n == 0 {
		// CompressBlock reports 0 when the payload would not shrink
		// (e.g. already-dense pixel data); nothing to repair here, the
		// chunk simply stays uncompressed.
		return h, payload, nil
	}

	h.Compressed = true

	return h, dst[:n], nil
}

// Decompress reverses Compress: if the header does not mark the payload
// as compressed it is returned unchanged, otherwise it is LZ4-decoded
// into a buffer sized by the header's preserved payload_len.
func Decompress(h ChunkHeader, payload []byte) ([]byte, error) {
	if !h.Compressed {
		return payload, nil
	}

	dst := make([]byte, h.PayloadLen)
	n, err := lz4.UncompressBlock(payload, dst)
	if err != nil {
		return nil, fmt.Errorf("lz4 decompress: %w: %w", err, errs.ErrCompressionFailure)
	}

	return dst[:n], nil
}
