package clockres

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dtno1/clockres/blob"
	"github.com/dtno1/clockres/layer"
)

func buildPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: byte(x), G: byte(y), B: 0x20, A: 255})
		}
	}
	buf := &bytes.Buffer{}
	require.NoError(t, png.Encode(buf, img))
	return buf.Bytes()
}

func writeWatchfaceDir(t *testing.T, desc layer.Descriptor, assets map[string][]byte) string {
	t.Helper()
	dir := t.TempDir()

	configData, err := json.Marshal(desc)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), configData, 0o644))

	for name, data := range assets {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0o644))
	}

	return dir
}

func TestPackDir_UnpackDir_RoundTrip(t *testing.T) {
	desc := layer.Descriptor{
		Layers: []layer.Layer{
			{DrawType: 1, DataType: 1, Num: 1, ImgArr: []layer.Element{
				{Kind: layer.KindFilename, Filename: "bg.png"},
			}},
		},
	}
	srcDir := writeWatchfaceDir(t, desc, map[string][]byte{"bg.png": buildPNG(t, 4, 4)})

	outPath := filepath.Join(t.TempDir(), "out.bin")
	_, err := PackDir(srcDir, outPath, nil, blob.WithClockID(50000), blob.WithFaceSize(454, 454))
	require.NoError(t, err)

	unpackDir := t.TempDir()
	result, err := UnpackDir(outPath, unpackDir, nil)
	require.NoError(t, err)
	require.Len(t, result.Assets, 1)

	_, err = os.Stat(filepath.Join(unpackDir, "config.json"))
	require.NoError(t, err)
}

func TestPackDir_ClockIDDetectedFromFolderName(t *testing.T) {
	desc := layer.Descriptor{
		Layers: []layer.Layer{
			{DrawType: 1, DataType: 1, Num: 1, ImgArr: []layer.Element{
				{Kind: layer.KindFilename, Filename: "bg.png"},
			}},
		},
	}
	parent := t.TempDir()
	srcDir := filepath.Join(parent, "Clock50007_res")
	require.NoError(t, os.Mkdir(srcDir, 0o755))
	configData, err := json.Marshal(desc)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "config.json"), configData, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "bg.png"), buildPNG(t, 4, 4), 0o644))

	outPath := filepath.Join(t.TempDir(), "out.bin")
	report, err := PackDir(srcDir, outPath, nil, blob.WithFaceSize(454, 454))
	require.NoError(t, err)
	require.EqualValues(t, 50007|0x000F0000, report.Report.ClockID)
}

func TestPackDir_ExplicitClockIDOverridesFolderDetection(t *testing.T) {
	desc := layer.Descriptor{
		Layers: []layer.Layer{
			{DrawType: 1, DataType: 1, Num: 1, ImgArr: []layer.Element{
				{Kind: layer.KindFilename, Filename: "bg.png"},
			}},
		},
	}
	parent := t.TempDir()
	srcDir := filepath.Join(parent, "Clock50007_res")
	require.NoError(t, os.Mkdir(srcDir, 0o755))
	configData, err := json.Marshal(desc)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "config.json"), configData, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "bg.png"), buildPNG(t, 4, 4), 0o644))

	outPath := filepath.Join(t.TempDir(), "out.bin")
	report, err := PackDir(srcDir, outPath, nil, blob.WithClockID(60000), blob.WithFaceSize(454, 454))
	require.NoError(t, err)
	require.EqualValues(t, 60000|0x000F0000, report.Report.ClockID)
}

func TestPackDir_MissingAssetFailsValidation(t *testing.T) {
	desc := layer.Descriptor{
		Layers: []layer.Layer{
			{DrawType: 1, DataType: 1, Num: 1, ImgArr: []layer.Element{
				{Kind: layer.KindFilename, Filename: "missing.png"},
			}},
		},
	}
	srcDir := writeWatchfaceDir(t, desc, nil)

	outPath := filepath.Join(t.TempDir(), "out.bin")
	_, err := PackDir(srcDir, outPath, nil, blob.WithClockID(50000), blob.WithFaceSize(454, 454))
	require.Error(t, err)
}

func TestValidate_ReportsAssetMismatchWithoutPacking(t *testing.T) {
	desc := layer.Descriptor{
		Layers: []layer.Layer{
			{DrawType: 1, DataType: 1, Num: 1, ImgArr: []layer.Element{
				{Kind: layer.KindFilename, Filename: "missing.png"},
			}},
		},
	}
	srcDir := writeWatchfaceDir(t, desc, nil)

	err := Validate(srcDir, nil)
	require.Error(t, err)
}

func TestUnpackBatch_WalksMatchingDirectories(t *testing.T) {
	desc := layer.Descriptor{
		Layers: []layer.Layer{
			{DrawType: 1, DataType: 1, Num: 1, ImgArr: []layer.Element{
				{Kind: layer.KindFilename, Filename: "bg.png"},
			}},
		},
	}

	root := t.TempDir()
	srcDir := filepath.Join(root, "Clock50001_res")
	require.NoError(t, os.Mkdir(srcDir, 0o755))
	configData, err := json.Marshal(desc)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "config.json"), configData, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "bg.png"), buildPNG(t, 4, 4), 0o644))

	outPath := filepath.Join(srcDir, "watchface.bin")
	_, err = PackDir(srcDir, outPath, nil, blob.WithFaceSize(454, 454))
	require.NoError(t, err)

	outRoot := t.TempDir()
	unpacked, err := UnpackBatch(context.Background(), root, "Clock*_res", outRoot, nil)
	require.NoError(t, err)
	require.Len(t, unpacked, 1)

	_, err = os.Stat(filepath.Join(unpacked[0], "config.json"))
	require.NoError(t, err)
}

func TestUnpackBatch_CancelledContextStopsEarly(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "Clock50001_res"), 0o755))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	unpacked, err := UnpackBatch(ctx, root, "Clock*_res", "", nil)
	require.Error(t, err)
	require.Empty(t, unpacked)
}
