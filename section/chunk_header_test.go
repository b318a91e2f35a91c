package section

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dtno1/clockres/format"
)

func TestChunkHeader_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		h    ChunkHeader
	}{
		{"rgb565 small", ChunkHeader{ImgType: format.ImgTypeRGB565, Width: 360, Height: 360, PayloadLen: 259200}},
		{"argb8888 compressed", ChunkHeader{ImgType: format.ImgTypeARGB8888, Compressed: true, Width: 466, Height: 466, PayloadLen: 869224}},
		{"jpg opaque", ChunkHeader{ImgType: format.ImgTypeJPG, Width: 360, Height: 360, PayloadLen: 1234}},
		{"max 12-bit dims", ChunkHeader{ImgType: format.ImgTypeARGB1555, Width: 4095, Height: 4095, PayloadLen: 100}},
		{"zero dims", ChunkHeader{ImgType: format.ImgTypeGIF, Width: 0, Height: 0, PayloadLen: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded := tt.h.Bytes()
			require.Len(t, encoded, ChunkHeaderSize)

			var decoded ChunkHeader
			require.NoError(t, decoded.Parse(encoded))
			require.Equal(t, tt.h, decoded)
		})
	}
}

func TestChunkHeader_Bytes_PaddingIsZero(t *testing.T) {
	h := ChunkHeader{ImgType: format.ImgTypeRGB565, Width: 100, Height: 100, PayloadLen: 20000}
	buf := h.Bytes()
	for i := 8; i < ChunkHeaderSize; i++ {
		require.Equalf(t, byte(0), buf[i], "byte %d should be zero padding", i)
	}
}

func TestChunkHeader_Parse_TooShort(t *testing.T) {
	var h ChunkHeader
	err := h.Parse(make([]byte, ChunkHeaderSize-1))
	require.Error(t, err)
}

func TestChunkHeader_Parse_InvalidImgType(t *testing.T) {
	buf := make([]byte, ChunkHeaderSize)
	buf[0] = 200 // not one of the six recognized types

	var h ChunkHeader
	err := h.Parse(buf)
	require.Error(t, err)
}

func TestChunkHeader_Parse_PayloadLenLittleEndian(t *testing.T) {
	buf := make([]byte, ChunkHeaderSize)
	buf[0] = byte(format.ImgTypeRGB565)
	buf[2] = 0x01 // low byte
	buf[3] = 0x02
	buf[4] = 0x03 // high byte of the 24-bit field

	var h ChunkHeader
	require.NoError(t, h.Parse(buf))
	require.Equal(t, uint32(0x030201), h.PayloadLen)
}

func TestChunkHeader_WidthHeight_BitPacking(t *testing.T) {
	// width=0xABC (2748), height=0x123 (291): verify the exact nibble
	// split the spec's mix byte describes.
	h := ChunkHeader{ImgType: format.ImgTypeRGB565, Width: 0xABC, Height: 0x123}
	buf := h.Bytes()

	require.Equal(t, byte(0x23), buf[5], "height_lo = height[7:0]")
	require.Equal(t, byte(0xC1), buf[6], "mix: low nibble=height[11:8]=0x1, high nibble=width[3:0]=0xC")
	require.Equal(t, byte(0xAB), buf[7], "width_hi = width[11:4]")
}
