// Package format defines the small closed enumerations shared across the
// res-blob codec: device-RGB chunk image types, target pixel layouts, and
// the general-purpose compression algorithms used by the ambient bundle
// and report features.
package format

import "fmt"

// ImgType identifies the payload encoding of a device-RGB chunk, stored in
// byte 0 of its 16-byte header.
type ImgType uint8

const (
	ImgTypeGIF      ImgType = 3  // opaque GIF bytes
	ImgTypeJPG      ImgType = 9  // opaque JPEG bytes
	ImgTypeARGB8888 ImgType = 71 // 4 bytes/pixel, BGRA order preserved
	ImgTypeARGB8565 ImgType = 72 // 3 bytes/pixel, RGB565 LE + alpha byte
	ImgTypeRGB565   ImgType = 73 // 2 bytes/pixel, RGB565 LE
	ImgTypeARGB1555 ImgType = 74 // 2 bytes/pixel, ARGB1555 LE
)

// IsOpaqueMedia reports whether the image type embeds raw JPG/GIF bytes
// rather than a device-RGB pixel payload.
func (t ImgType) IsOpaqueMedia() bool {
	return t == ImgTypeJPG || t == ImgTypeGIF
}

// Valid reports whether t is one of the six recognized chunk image types.
func (t ImgType) Valid() bool {
	switch t {
	case ImgTypeGIF, ImgTypeJPG, ImgTypeARGB8888, ImgTypeARGB8565, ImgTypeRGB565, ImgTypeARGB1555:
		return true
	default:
		return false
	}
}

func (t ImgType) String() string {
	switch t {
	case ImgTypeGIF:
		return "GIF"
	case ImgTypeJPG:
		return "JPG"
	case ImgTypeARGB8888:
		return "ARGB8888"
	case ImgTypeARGB8565:
		return "ARGB8565"
	case ImgTypeRGB565:
		return "RGB565"
	case ImgTypeARGB1555:
		return "ARGB1555"
	default:
		return fmt.Sprintf("ImgType(%d)", uint8(t))
	}
}

// FileExt returns the conventional file extension the unpacker should use
// when synthesizing a filename for a chunk of this image type.
func (t ImgType) FileExt() string {
	switch t {
	case ImgTypeGIF:
		return "gif"
	case ImgTypeJPG:
		return "jpg"
	default:
		return "rgb"
	}
}

// PixelFormat identifies one of the four device-RGB pixel layouts the
// transcoder can emit from a decoded BMP/BMPA source image.
type PixelFormat uint8

const (
	PixelFormatRGB565   PixelFormat = iota // 2 bytes/pixel, no alpha
	PixelFormatARGB1555                    // 2 bytes/pixel, 1-bit alpha
	PixelFormatARGB8565                    // 3 bytes/pixel, 8-bit alpha appended
	PixelFormatARGB8888                    // 4 bytes/pixel, full alpha, byte order preserved
)

// ImgType returns the device-RGB chunk image type that corresponds to f.
func (f PixelFormat) ImgType() ImgType {
	switch f {
	case PixelFormatARGB8888:
		return ImgTypeARGB8888
	case PixelFormatARGB1555:
		return ImgTypeARGB1555
	case PixelFormatARGB8565:
		return ImgTypeARGB8565
	default:
		return ImgTypeRGB565
	}
}

// BytesPerPixel returns the number of output bytes this format uses per pixel.
func (f PixelFormat) BytesPerPixel() int {
	switch f {
	case PixelFormatARGB8888:
		return 4
	case PixelFormatARGB8565:
		return 3
	default:
		return 2
	}
}

func (f PixelFormat) String() string {
	return f.ImgType().String()
}

// CompressionType identifies a general-purpose byte compression algorithm.
// It is unrelated to the device-RGB chunk's single compressed/raw flag bit
// (see the section package's Compress function); it governs the ambient
// bundle archive and build report features instead.
type CompressionType uint8

const (
	CompressionNone CompressionType = iota
	CompressionLZ4
	CompressionZstd
	CompressionS2
)

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionLZ4:
		return "LZ4"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	default:
		return "Unknown"
	}
}
