package pixel

import (
	"fmt"
	"strings"

	"github.com/dtno1/clockres/errs"
	"github.com/dtno1/clockres/format"
	"github.com/dtno1/clockres/internal/pool"
	"github.com/dtno1/clockres/section"
)

// SelectFormat chooses the target device-RGB pixel format for a source
// image from its filename stem (no extension) and source bpp, per §4.1's
// suffix table. A suffix that demands 32-bit source but finds a
// different bpp is reported as errs.ErrFormatBPPMismatch rather than
// silently falling back to another layout.
func SelectFormat(stem string, bpp int) (format.PixelFormat, error) {
	lower := strings.ToLower(stem)

	switch {
	case strings.HasSuffix(lower, "8888"):
		if bpp != 32 {
			return 0, fmt.Errorf("stem %q requests ARGB8888 on a %d-bit source: %w", stem, bpp, errs.ErrFormatBPPMismatch)
		}
		return format.PixelFormatARGB8888, nil

	case strings.HasSuffix(lower, "1555"):
		if bpp != 32 {
			return 0, fmt.Errorf("stem %q requests ARGB1555 on a %d-bit source: %w", stem, bpp, errs.ErrFormatBPPMismatch)
		}
		return format.PixelFormatARGB1555, nil

	case strings.HasSuffix(lower, "565"), bpp == 16, bpp == 24:
		return format.PixelFormatRGB565, nil

	default: // bpp == 32, no matching suffix
		return format.PixelFormatARGB8565, nil
	}
}

// Transcode emits a device-RGB chunk (header plus payload) from a decoded
// BMP/BMPA source in the target pixel format. Rows are walked top-down
// regardless of the source's own stored direction — src is already
// normalized by DecodeBMP/DecodePNGToBMP.
func Transcode(src *BMP, pf format.PixelFormat) (section.ChunkHeader, []byte, error) {
	if src.Width > 0xFFF || src.Height > 0xFFF {
		return section.ChunkHeader{}, nil, fmt.Errorf("dimensions %dx%d exceed the 12-bit chunk header fields: %w", src.Width, src.Height, errs.ErrInvalidHeader)
	}

	bb := pool.GetChunkBuffer()
	defer pool.PutChunkBuffer(bb)
	bb.Grow(src.Width * src.Height * pf.BytesPerPixel())
	out := bb.Bytes()

	for y := 0; y < src.Height; y++ {
		row := src.RowAt(y)

		if pf == format.PixelFormatRGB565 && src.BPP == 16 {
			out = append(out, row[:src.Width*2]...)
			continue
		}

		for x := 0; x < src.Width; x++ {
			var r, g, b, a byte
			switch src.BPP {
			case 24:
				b, g, r, a = row[x*3], row[x*3+1], row[x*3+2], 0xFF
			case 32:
				b, g, r, a = row[x*4], row[x*4+1], row[x*4+2], row[x*4+3]
			default:
				return section.ChunkHeader{}, nil, fmt.Errorf("16-bit source only supports RGB565 pass-through: %w", errs.ErrUnsupportedBPP)
			}

			out = appendPixel(out, pf, r, g, b, a)
		}
	}

	if err := section.ValidatePayloadLen(len(out)); err != nil {
		return section.ChunkHeader{}, nil, err
	}

	// out may alias bb's backing array, which is reset and reused by
	// another Transcode call once this one returns (see the deferred
	// pool.PutChunkBuffer above) — copy before handing ownership to the
	// caller.
	payload := make([]byte, len(out))
	copy(payload, out)

	h := section.ChunkHeader{
		ImgType:    pf.ImgType(),
		Width:      uint16(src.Width),
		Height:     uint16(src.Height),
		PayloadLen: uint32(len(payload)),
	}

	return h, payload, nil
}

// appendPixel emits one pixel's output bytes in format pf, per §4.1's
// exact bit math for each layout.
func appendPixel(out []byte, pf format.PixelFormat, r, g, b, a byte) []byte {
	switch pf {
	case format.PixelFormatRGB565:
		v := uint16(r&0xF8)<<8 | uint16(g&0xFC)<<3 | uint16(b&0xF8)>>3
		return append(out, byte(v), byte(v>>8))

	case format.PixelFormatARGB1555:
		v := uint16(r&0xF8)<<7 | uint16(g&0xF8)<<2 | uint16(b&0xF8)>>3
		if a == 255 {
			v |= 0x8000
		}
		return append(out, byte(v), byte(v>>8))

	case format.PixelFormatARGB8888:
		return append(out, b, g, r, a)

	case format.PixelFormatARGB8565:
		v := uint16(r&0xF8)<<8 | uint16(g&0xFC)<<3 | uint16(b&0xF8)>>3
		return append(out, byte(v), byte(v>>8), a)

	default:
		return out
	}
}
