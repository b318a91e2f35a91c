package section

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dtno1/clockres/errs"
	"github.com/dtno1/clockres/format"
)

func TestCompress_RoundTrip(t *testing.T) {
	payload := bytes.Repeat([]byte{0xAA, 0xBB, 0xCC, 0xDD}, 4096)
	h := ChunkHeader{ImgType: format.ImgTypeRGB565, Width: 128, Height: 128, PayloadLen: uint32(len(payload))}

	compressedHeader, compressed, err := Compress(h, payload)
	require.NoError(t, err)
	require.True(t, compressedHeader.Compressed)
	require.Equal(t, uint32(len(payload)), compressedHeader.PayloadLen, "uncompressed length must be preserved")
	require.Less(t, len(compressed), len(payload), "repetitive payload should shrink")

	decompressed, err := Decompress(compressedHeader, compressed)
	require.NoError(t, err)
	require.Equal(t, payload, decompressed)
}

func TestCompress_AlreadyCompressedPassesThrough(t *testing.T) {
	payload := []byte{0x01, 0x02, 0x03}
	h := ChunkHeader{ImgType: format.ImgTypeRGB565, Compressed: true, PayloadLen: 3}

	outHeader, out, err := Compress(h, payload)
	require.NoError(t, err)
	require.Equal(t, h, outHeader)
	require.Equal(t, payload, out)
}

func TestCompress_RepairsZeroPayloadLen(t *testing.T) {
	payload := bytes.Repeat([]byte{0x42}, 1000)
	h := ChunkHeader{ImgType: format.ImgTypeRGB565, PayloadLen: 0}

	outHeader, _, err := Compress(h, payload)
	require.NoError(t, err)
	require.Equal(t, uint32(len(payload)), outHeader.PayloadLen)
}

func TestCompress_RepairsOutOfRangePayloadLen(t *testing.T) {
	payload := bytes.Repeat([]byte{0x42}, 1000)
	h := ChunkHeader{ImgType: format.ImgTypeRGB565, PayloadLen: 999999}

	outHeader, _, err := Compress(h, payload)
	require.NoError(t, err)
	require.Equal(t, uint32(len(payload)), outHeader.PayloadLen)
}

func TestCompress_TooLarge(t *testing.T) {
	h := ChunkHeader{ImgType: format.ImgTypeRGB565}
	_, _, err := Compress(h, make([]byte, MaxChunkPayloadLen+1))
	require.ErrorIs(t, err, errs.ErrChunkTooLarge)
}

func TestDecompress_NotCompressedPassesThrough(t *testing.T) {
	payload := []byte{0x01, 0x02, 0x03}
	h := ChunkHeader{ImgType: format.ImgTypeRGB565, PayloadLen: 3}

	out, err := Decompress(h, payload)
	require.NoError(t, err)
	require.Equal(t, payload, out)
}

func TestDecompress_CorruptedData(t *testing.T) {
	h := ChunkHeader{ImgType: format.ImgTypeRGB565, Compressed: true, PayloadLen: 1000}
	_, err := Decompress(h, []byte{0xFF, 0xFF, 0xFF})
	require.ErrorIs(t, err, errs.ErrCompressionFailure)
}

func TestValidatePayloadLen(t *testing.T) {
	require.NoError(t, ValidatePayloadLen(0))
	require.NoError(t, ValidatePayloadLen(MaxChunkPayloadLen))
	require.ErrorIs(t, ValidatePayloadLen(MaxChunkPayloadLen+1), errs.ErrChunkTooLarge)
}
