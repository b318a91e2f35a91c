package blob

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dtno1/clockres/asset"
	"github.com/dtno1/clockres/format"
)

func TestPack_ReportRecordsAssetPlacement(t *testing.T) {
	desc := oneLayerDescriptor("bg.png")
	files := []asset.Source{{Filename: "bg.png", Data: buildPNG24(t, 4, 4)}}

	_, report, err := Pack(desc, files, nil, WithClockID(50000), WithFaceSize(454, 454))
	require.NoError(t, err)

	require.Equal(t, uint32(50000|0x000F0000), report.Report.ClockID)
	require.Len(t, report.Report.MainAssets, 1)
	require.Equal(t, "bg.png", report.Report.MainAssets[0].Filename)
}

func TestBuildReport_MarshalCompressedRoundTrip(t *testing.T) {
	r := BuildReport{
		ClockID:     50001,
		Resolution:  Resolution{Width: 454, Height: 454},
		ThumbLength: 100,
		MainAssets:  []AssetReportEntry{{Filename: "bg.png", Offset: 0, Length: 32}},
	}

	for _, algo := range []format.CompressionType{format.CompressionNone, format.CompressionLZ4, format.CompressionS2, format.CompressionZstd} {
		compressed, err := r.MarshalCompressed(algo)
		require.NoError(t, err)

		got, err := UnmarshalCompressed(compressed)
		require.NoError(t, err)
		require.Equal(t, r, got)
	}
}
