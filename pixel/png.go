package pixel

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/dtno1/clockres/errs"
)

// DecodePNGToBMP decodes a PNG into the same in-memory BMP/BMPA
// intermediate a real .bmp source would produce: 24-bit BGR if the image
// carries no meaningful transparency, 32-bit BGRA otherwise. Rows are
// already in top-down order and packed with no stride padding, since this
// intermediate is never round-tripped through an actual .bmp file.
func DecodePNGToBMP(data []byte) (*BMP, error) {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("png decode: %w: %w", err, errs.ErrInvalidHeader)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	if hasAlpha(img) {
		stride := width * 4
		pixels := make([]byte, stride*height)
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				r, g, b, a := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
				off := y*stride + x*4
				pixels[off] = byte(b >> 8)
				pixels[off+1] = byte(g >> 8)
				pixels[off+2] = byte(r >> 8)
				pixels[off+3] = byte(a >> 8)
			}
		}

		return &BMP{Width: width, Height: height, BPP: 32, Stride: stride, Pixels: pixels}, nil
	}

	stride := width * 3
	pixels := make([]byte, stride*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			off := y*stride + x*3
			pixels[off] = byte(b >> 8)
			pixels[off+1] = byte(g >> 8)
			pixels[off+2] = byte(r >> 8)
		}
	}

	return &BMP{Width: width, Height: height, BPP: 24, Stride: stride, Pixels: pixels}, nil
}

// hasAlpha reports whether img carries any pixel with non-opaque alpha.
// A PNG with a color type that supports alpha but whose pixels are all
// fully opaque is treated as opaque (24-bit), matching the asset
// preparer's "based on presence of alpha/transparency" rule rather than
// color-type alone.
func hasAlpha(img image.Image) bool {
	switch px := img.(type) {
	case *image.NRGBA:
		for i := 3; i < len(px.Pix); i += 4 {
			if px.Pix[i] != 0xFF {
				return true
			}
		}
		return false
	case *image.RGBA:
		for i := 3; i < len(px.Pix); i += 4 {
			if px.Pix[i] != 0xFF {
				return true
			}
		}
		return false
	case *image.Gray, *image.Gray16, *image.CMYK:
		return false
	}

	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			_, _, _, a := img.At(x, y).RGBA()
			if a != 0xFFFF {
				return true
			}
		}
	}

	return false
}
