package blob

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dtno1/clockres/asset"
	"github.com/dtno1/clockres/errs"
	"github.com/dtno1/clockres/layer"
	"github.com/dtno1/clockres/section"
)

// buildPNG24 encodes a small fully-opaque NRGBA PNG, for SelectFormat's
// 24bpp path (no "_565"/"_8888"/"_1555" suffix needed).
func buildPNG24(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: byte(x * 10), G: byte(y * 10), B: 0x40, A: 255})
		}
	}
	buf := &bytes.Buffer{}
	require.NoError(t, png.Encode(buf, img))
	return buf.Bytes()
}

func oneLayerDescriptor(filenames ...string) layer.Descriptor {
	elems := make([]layer.Element, len(filenames))
	for i, f := range filenames {
		elems[i] = layer.Element{Kind: layer.KindFilename, Filename: f}
	}
	return layer.Descriptor{
		Layers: []layer.Layer{
			{DrawType: 1, DataType: 1, Num: int32(len(filenames)), ImgArr: elems},
		},
	}
}

func TestPack_SingleAssetProducesValidHeader(t *testing.T) {
	desc := oneLayerDescriptor("bg.png")
	files := []asset.Source{{Filename: "bg.png", Data: buildPNG24(t, 4, 4)}}

	out, report, err := Pack(desc, files, nil, WithClockID(50000), WithFaceSize(454, 454))
	require.NoError(t, err)
	require.Empty(t, report.DuplicateContent)
	require.True(t, len(out) > 32)
}

func TestPack_MissingAssetFailsValidation(t *testing.T) {
	desc := oneLayerDescriptor("missing.png")
	files := []asset.Source{{Filename: "bg.png", Data: buildPNG24(t, 2, 2)}}

	_, _, err := Pack(desc, files, nil, WithClockID(50000), WithFaceSize(454, 454))
	require.Error(t, err)
}

func TestPack_BadClockIDRejected(t *testing.T) {
	desc := oneLayerDescriptor("bg.png")
	files := []asset.Source{{Filename: "bg.png", Data: buildPNG24(t, 2, 2)}}

	_, _, err := Pack(desc, files, nil, WithClockID(1), WithFaceSize(454, 454))
	require.ErrorIs(t, err, errs.ErrBadClockID)
}

func TestPack_UnsupportedResolutionRejected(t *testing.T) {
	desc := oneLayerDescriptor("bg.png")
	files := []asset.Source{{Filename: "bg.png", Data: buildPNG24(t, 2, 2)}}

	_, _, err := Pack(desc, files, nil, WithClockID(50000), WithFaceSize(123, 456))
	require.ErrorIs(t, err, errs.ErrUnsupportedResolution)
}

func TestPack_DuplicateFilenameDedupesOffset(t *testing.T) {
	desc := oneLayerDescriptor("bg.png", "bg.png")
	files := []asset.Source{{Filename: "bg.png", Data: buildPNG24(t, 4, 4)}}

	out, _, err := Pack(desc, files, nil, WithClockID(50000), WithFaceSize(454, 454))
	require.NoError(t, err)
	require.NotEmpty(t, out)
}

func TestPack_ThumbnailByNameConvention(t *testing.T) {
	desc := oneLayerDescriptor("bg.png")
	files := []asset.Source{
		{Filename: "bg.png", Data: buildPNG24(t, 2, 2)},
		{Filename: "thumbnail.png", Data: buildPNG24(t, 2, 2)},
	}

	out, _, err := Pack(desc, files, nil, WithClockID(50000), WithFaceSize(454, 454))
	require.NoError(t, err)

	var header section.ResHeader
	require.NoError(t, header.Parse(out))
	require.NotZero(t, header.ThumbLength)
}

func TestPack_WithoutCompressionStillProducesValidChunks(t *testing.T) {
	desc := oneLayerDescriptor("bg.png")
	files := []asset.Source{{Filename: "bg.png", Data: buildPNG24(t, 4, 4)}}

	out, _, err := Pack(desc, files, nil, WithClockID(50000), WithFaceSize(454, 454), WithoutCompression())
	require.NoError(t, err)
	require.NotEmpty(t, out)
}
