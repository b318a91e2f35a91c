package section

import (
	"fmt"

	"github.com/dtno1/clockres/endian"
	"github.com/dtno1/clockres/errs"
)

var beEngine = endian.GetBigEndianEngine()

// ResHeader is the res-blob container's fixed 32-byte preamble. All
// multi-byte integers are big-endian, the opposite convention from the
// device-RGB ChunkHeader it precedes in the file:
//
//	offset 0  : 8-byte magic string
//	offset 8  : u32 clock_id  = clock_id_base | resolution_prefix
//	offset 12 : u32 thumb_start = 32
//	offset 16 : u32 thumb_length
//	offset 20 : u32 main_start = 32 + thumb_length
//	offset 24 : u32 main_length
//	offset 28 : u32 layer_block_start = main_start + main_length + z_length
type ResHeader struct {
	Magic           [MagicLen]byte
	ClockID         uint32
	ThumbStart      uint32
	ThumbLength     uint32
	MainStart       uint32
	MainLength      uint32
	LayerBlockStart uint32
}

// Parse decodes a ResHeader from the first ResHeaderSize bytes of data.
func (h *ResHeader) Parse(data []byte) error {
	if len(data) < ResHeaderSize {
		return fmt.Errorf("res-blob header needs %d bytes, got %d: %w", ResHeaderSize, len(data), errs.ErrInvalidHeader)
	}

	copy(h.Magic[:], data[0:MagicLen])
	h.ClockID = beEngine.Uint32(data[8:12])
	h.ThumbStart = beEngine.Uint32(data[12:16])
	h.ThumbLength = beEngine.Uint32(data[16:20])
	h.MainStart = beEngine.Uint32(data[20:24])
	h.MainLength = beEngine.Uint32(data[24:28])
	h.LayerBlockStart = beEngine.Uint32(data[28:32])

	return nil
}

// Bytes encodes h as a ResHeaderSize-byte header.
func (h ResHeader) Bytes() []byte {
	buf := make([]byte, 0, ResHeaderSize)
	buf = append(buf, h.Magic[:]...)
	buf = beEngine.AppendUint32(buf, h.ClockID)
	buf = beEngine.AppendUint32(buf, h.ThumbStart)
	buf = beEngine.AppendUint32(buf, h.ThumbLength)
	buf = beEngine.AppendUint32(buf, h.MainStart)
	buf = beEngine.AppendUint32(buf, h.MainLength)
	buf = beEngine.AppendUint32(buf, h.LayerBlockStart)

	return buf
}

// ZRegionStart returns the absolute file offset at which the Z-region
// begins: the base every z_-prefixed file's local offset is added to
// when the Layer Serializer writes its image references (§4.5).
func (h ResHeader) ZRegionStart() uint32 {
	return h.MainStart + h.MainLength
}

// ZLength derives the Z-region's length from LayerBlockStart, which is
// the only field that records it (the header has no direct z_length slot).
func (h ResHeader) ZLength() uint32 {
	return h.LayerBlockStart - h.MainStart - h.MainLength
}
