package section

import (
	"fmt"

	"github.com/dtno1/clockres/errs"
	"github.com/dtno1/clockres/format"
)

// ChunkHeader is the 16-byte header prefixing every device-RGB chunk.
// Every multi-byte field is little-endian; this is a fixed device
// convention independent of the big-endian outer container (see the
// endian package's doc comment), and the width/height fields are packed
// across three bytes rather than laid out as plain integers:
//
// | off | field       | meaning                                    |
// |-----|-------------|---------------------------------------------|
// | 0   | img_type    | format.ImgType                               |
// | 1   | compressed  | 0=raw, 1=LZ4                                 |
// | 2-4 | payload_len | little-endian 24-bit uncompressed length     |
// | 5   | height_lo   | height[7:0]                                  |
// | 6   | mix         | low nibble=height[11:8], high nibble=width[3:0] |
// | 7   | width_hi    | width[11:4]                                  |
// | 8-15| padding     | zero                                         |
type ChunkHeader struct {
	ImgType    format.ImgType
	Compressed bool
	PayloadLen uint32 // 24-bit
	Width      uint16 // 12-bit
	Height     uint16 // 12-bit
}

// Parse decodes a ChunkHeader from the first ChunkHeaderSize bytes of data.
func (h *ChunkHeader) Parse(data []byte) error {
	if len(data) < ChunkHeaderSize {
		return fmt.Errorf("chunk header needs %d bytes, got %d: %w", ChunkHeaderSize, len(data), errs.ErrInvalidHeader)
	}

	imgType := format.ImgType(data[0])
	if !imgType.Valid() {
		return fmt.Errorf("img_type %d: %w", data[0], errs.ErrInvalidHeader)
	}

	mix := data[6]

	h.ImgType = imgType
	h.Compressed = data[1] != 0
	h.PayloadLen = uint32(data[2]) | uint32(data[3])<<8 | uint32(data[4])<<16
	h.Height = uint16(data[5]) | uint16(mix&0x0F)<<8
	h.Width = uint16(data[7])<<4 | uint16(mix>>4)

	return nil
}

// Bytes encodes h as a ChunkHeaderSize-byte header.
func (h ChunkHeader) Bytes() []byte {
	buf := make([]byte, ChunkHeaderSize)

	buf[0] = byte(h.ImgType)
	if h.Compressed {
		buf[1] = 1
	}
	buf[2] = byte(h.PayloadLen)
	buf[3] = byte(h.PayloadLen >> 8)
	buf[4] = byte(h.PayloadLen >> 16)
	buf[5] = byte(h.Height)

	heightHi := byte((h.Height >> 8) & 0x0F)
	widthLo := byte(h.Width & 0x0F)
	buf[6] = heightHi | widthLo<<4
	buf[7] = byte(h.Width >> 4)

	return buf
}
