// Package pixel implements the Pixel Transcoder: decoding a BMP/BMPA
// source image and emitting a device-RGB chunk in one of the four
// target pixel layouts the watch firmware understands.
package pixel

import (
	"encoding/binary"
	"fmt"

	"github.com/dtno1/clockres/errs"
)

const (
	fileHeaderSize = 14
	minInfoHeader  = 40
)

// BMP is the decoded form of a BITMAPFILEHEADER + BITMAPINFOHEADER image,
// normalized to top-down row order regardless of the source's stored
// direction. Pixels holds full stride rows (including any 4-byte padding)
// in BGR/BGRA/raw-565 channel order, exactly as the device format expects
// — the bit mixing happens in the transcoder, not here.
type BMP struct {
	Width  int
	Height int
	BPP    int // 16, 24, or 32
	Stride int
	Pixels []byte
}

// RowAt returns row y's pixel bytes (stride padding stripped).
func (b *BMP) RowAt(y int) []byte {
	rowBytes := b.Width * b.BPP / 8
	start := y * b.Stride

	return b.Pixels[start : start+rowBytes]
}

// DecodeBMP parses a BITMAPFILEHEADER-prefixed BMP byte string. Only
// uncompressed 16/24/32-bit BI_RGB bitmaps are supported, matching the
// bit depths the device transcoder accepts.
func DecodeBMP(data []byte) (*BMP, error) {
	if len(data) < fileHeaderSize+minInfoHeader {
		return nil, fmt.Errorf("bmp shorter than header: %w", errs.ErrInvalidHeader)
	}
	if data[0] != 'B' || data[1] != 'M' {
		return nil, fmt.Errorf("missing BM signature: %w", errs.ErrInvalidHeader)
	}

	dataOffset := binary.LittleEndian.Uint32(data[10:14])
	infoHeaderSize := binary.LittleEndian.Uint32(data[14:18])
	if infoHeaderSize < minInfoHeader {
		return nil, fmt.Errorf("unsupported BITMAPINFOHEADER size %d: %w", infoHeaderSize, errs.ErrInvalidHeader)
	}

	width := int(int32(binary.LittleEndian.Uint32(data[18:22])))
	rawHeight := int32(binary.LittleEndian.Uint32(data[22:26]))
	bpp := int(binary.LittleEndian.Uint16(data[28:30]))
	compression := binary.LittleEndian.Uint32(data[30:34])

	if compression != 0 {
		return nil, fmt.Errorf("compressed BMP not supported: %w", errs.ErrUnsupportedBPP)
	}
	if bpp != 16 && bpp != 24 && bpp != 32 {
		return nil, fmt.Errorf("bpp %d: %w", bpp, errs.ErrUnsupportedBPP)
	}

	topDown := rawHeight < 0
	height := int(rawHeight)
	if height < 0 {
		height = -height
	}

	stride := ((width*bpp/8 + 3) / 4) * 4
	need := int(dataOffset) + stride*height
	if len(data) < need {
		return nil, fmt.Errorf("bmp pixel data truncated: %w", errs.ErrInvalidHeader)
	}

	src := data[dataOffset : int(dataOffset)+stride*height]
	pixels := make([]byte, len(src))

	if topDown {
		copy(pixels, src)
	} else {
		// BMP rows are stored bottom-up by default; normalize to top-down.
		for y := 0; y < height; y++ {
			srcRow := src[(height-1-y)*stride : (height-y)*stride]
			copy(pixels[y*stride:(y+1)*stride], srcRow)
		}
	}

	return &BMP{
		Width:  width,
		Height: height,
		BPP:    bpp,
		Stride: stride,
		Pixels: pixels,
	}, nil
}
