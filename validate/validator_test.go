package validate

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dtno1/clockres/errs"
	"github.com/dtno1/clockres/layer"
)

func TestFiles_AllPresent(t *testing.T) {
	layers := []layer.Layer{
		{Num: 2, ImgArr: []layer.Element{
			{Kind: layer.KindFilename, Filename: "Icon.png"},
			{Kind: layer.KindInteger, Integer: 7},
		}},
	}
	disk := BuildFileSet([]string{"icon.png"})

	require.NoError(t, Files(layers, disk))
}

func TestFiles_MissingFileReportsAssetMissing(t *testing.T) {
	layers := []layer.Layer{
		{Num: 1, ImgArr: []layer.Element{{Kind: layer.KindFilename, Filename: "missing.png"}}},
	}
	disk := BuildFileSet(nil)

	err := Files(layers, disk)
	require.ErrorIs(t, err, errs.ErrAssetMissing)
}

func TestFiles_CountMismatch(t *testing.T) {
	layers := []layer.Layer{
		{Num: 2, ImgArr: []layer.Element{{Kind: layer.KindInteger, Integer: 1}}},
	}
	err := Files(layers, BuildFileSet(nil))
	require.ErrorIs(t, err, errs.ErrCountMismatch)
}

func TestFiles_DrawType55Index2IsTextSlot(t *testing.T) {
	layers := []layer.Layer{
		{DrawType: 55, Num: 3, ImgArr: []layer.Element{
			{Kind: layer.KindInteger, Integer: 0},
			{Kind: layer.KindInteger, Integer: 1},
			{Kind: layer.KindFilename, Filename: "not a real file"},
		}},
	}
	require.NoError(t, Files(layers, BuildFileSet(nil)))
}

func TestFiles_TupleThirdElementMustExist(t *testing.T) {
	layers := []layer.Layer{
		{Num: 1, ImgArr: []layer.Element{{Kind: layer.KindTuple, TupleA: 1, TupleB: 2, TupleName: "frame.png"}}},
	}
	require.Error(t, Files(layers, BuildFileSet(nil)))
	require.NoError(t, Files(layers, BuildFileSet([]string{"frame.png"})))
}

func TestFiles_ReportsAllMismatchesNotJustFirst(t *testing.T) {
	layers := []layer.Layer{
		{Num: 2, ImgArr: []layer.Element{
			{Kind: layer.KindFilename, Filename: "missing1.png"},
			{Kind: layer.KindFilename, Filename: "missing2.png"},
		}},
	}
	err := Files(layers, BuildFileSet(nil))
	require.Error(t, err)

	var agg *errs.ValidationErrors
	require.ErrorAs(t, err, &agg)
	require.Len(t, agg.Errors, 2)
}

func TestFiles_CaseInsensitive(t *testing.T) {
	layers := []layer.Layer{
		{Num: 1, ImgArr: []layer.Element{{Kind: layer.KindFilename, Filename: "ICON.PNG"}}},
	}
	require.NoError(t, Files(layers, BuildFileSet([]string{"icon.png"})))
}
