package layer

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dtno1/clockres/format"
	"github.com/dtno1/clockres/section"
)

// buildRegionWithChunk returns a region byte slice of size regionLen with
// a real, parseable section.ChunkHeader at offset, for ChunkIndex to
// confirm against. payloadLen is the chunk's declared uncompressed length,
// so the chunk's full on-disk size is section.ChunkHeaderSize + payloadLen.
func buildRegionWithChunk(offset uint32, imgType format.ImgType, payloadLen, regionLen uint32) []byte {
	region := make([]byte, regionLen)
	h := section.ChunkHeader{ImgType: imgType, PayloadLen: payloadLen}
	copy(region[offset:], h.Bytes())
	return region
}

func TestElement_UnmarshalJSON_Integer(t *testing.T) {
	var e Element
	require.NoError(t, json.Unmarshal([]byte("7"), &e))
	require.Equal(t, KindInteger, e.Kind)
	require.Equal(t, int32(7), e.Integer)
}

func TestElement_UnmarshalJSON_Filename(t *testing.T) {
	var e Element
	require.NoError(t, json.Unmarshal([]byte(`"icon.png"`), &e))
	require.Equal(t, KindFilename, e.Kind)
	require.Equal(t, "icon.png", e.Filename)
}

func TestElement_UnmarshalJSON_Tuple(t *testing.T) {
	var e Element
	require.NoError(t, json.Unmarshal([]byte(`[1,2,"frame.png"]`), &e))
	require.Equal(t, KindTuple, e.Kind)
	require.Equal(t, int32(1), e.TupleA)
	require.Equal(t, int32(2), e.TupleB)
	require.Equal(t, "frame.png", e.TupleName)
}

func TestElement_MarshalRoundTrip(t *testing.T) {
	cases := []Element{
		{Kind: KindInteger, Integer: 42},
		{Kind: KindFilename, Filename: "bg.bmp"},
		{Kind: KindTuple, TupleA: 3, TupleB: 4, TupleName: "x.png"},
	}
	for _, c := range cases {
		data, err := json.Marshal(c)
		require.NoError(t, err)
		var decoded Element
		require.NoError(t, json.Unmarshal(data, &decoded))
		require.Equal(t, c, decoded)
	}
}

func TestHasInterval(t *testing.T) {
	require.True(t, HasInterval(52))
	require.True(t, HasInterval(59))
	require.True(t, HasInterval(130))
	require.False(t, HasInterval(1))
}

func TestHasAreaNum(t *testing.T) {
	require.True(t, HasAreaNum(112))
	require.False(t, HasAreaNum(1))
}

func TestEncodeDecode_PlainFilenameRoundTrip(t *testing.T) {
	layers := []Layer{
		{DrawType: 1, DataType: 1, AlignType: 0, X: 10, Y: 20, Num: 1,
			ImgArr: []Element{{Kind: KindFilename, Filename: "icon.png"}}},
	}

	lookup := NewLookup()
	lookup.Add("icon.png", RegionEntry{Offset: 100, Length: 32})

	mainRegion := buildRegionWithChunk(100, format.ImgTypeRGB565, 16, 200)
	idx := NewChunkIndex(mainRegion, nil)

	encoded, err := Encode(layers, lookup, 0)
	require.NoError(t, err)

	result := Decode(encoded, idx, 1000, 4)
	require.False(t, result.Truncated)
	require.Empty(t, result.Warnings)
	require.Len(t, result.Layers, 1)
	require.Equal(t, 1, len(result.Layers[0].ImgArr))
	require.Equal(t, KindFilename, result.Layers[0].ImgArr[0].Kind)
}

func TestEncodeDecode_PlainIntegerRoundTrip(t *testing.T) {
	layers := []Layer{
		{DrawType: 1, DataType: 1, Num: 1, ImgArr: []Element{{Kind: KindInteger, Integer: 99}}},
	}
	lookup := NewLookup()
	idx := NewChunkIndex(nil, nil)

	encoded, err := Encode(layers, lookup, 0)
	require.NoError(t, err)

	result := Decode(encoded, idx, 1000, 4)
	require.False(t, result.Truncated)
	require.Len(t, result.Layers, 1)
	require.Equal(t, KindInteger, result.Layers[0].ImgArr[0].Kind)
	require.Equal(t, int32(99), result.Layers[0].ImgArr[0].Integer)
}

func TestEncodeDecode_TupleDrawTypeRoundTrip(t *testing.T) {
	layers := []Layer{
		{DrawType: 10, DataType: 1, Num: 1,
			ImgArr: []Element{{Kind: KindTuple, TupleA: 5, TupleB: 6, TupleName: "frame.png"}}},
	}

	lookup := NewLookup()
	lookup.Add("frame.png", RegionEntry{Offset: 200, Length: 48})
	mainRegion := buildRegionWithChunk(200, format.ImgTypeARGB8888, 32, 400)
	idx := NewChunkIndex(mainRegion, nil)

	encoded, err := Encode(layers, lookup, 0)
	require.NoError(t, err)

	result := Decode(encoded, idx, 1000, 4)
	require.False(t, result.Truncated)
	require.Equal(t, int32(5), result.Layers[0].ImgArr[0].TupleA)
	require.Equal(t, int32(6), result.Layers[0].ImgArr[0].TupleB)
}

func TestEncodeDecode_TextSlotRoundTrip(t *testing.T) {
	layers := []Layer{
		{DrawType: 55, DataType: 1, Num: 3, ImgArr: []Element{
			{Kind: KindInteger, Integer: 0},
			{Kind: KindInteger, Integer: 1},
			{Kind: KindFilename, Filename: "hello world"},
		}},
	}
	lookup := NewLookup()
	idx := NewChunkIndex(nil, nil)

	encoded, err := Encode(layers, lookup, 0)
	require.NoError(t, err)
	// drawType + dataType + alignType+x+y+num (6*4) + 2 ints (8) + 30 text bytes
	require.Len(t, encoded, 6*4+8+textSlotBytes)

	result := Decode(encoded, idx, 1000, 4)
	require.False(t, result.Truncated)
	require.Equal(t, "hello world", result.Layers[0].ImgArr[2].Filename)
}

func TestEncodeDecode_ZRegionFixup(t *testing.T) {
	layers := []Layer{
		{DrawType: 1, DataType: 1, Num: 1, ImgArr: []Element{{Kind: KindFilename, Filename: "z_bg.png"}}},
	}

	lookup := NewLookup()
	lookup.Add("z_bg.png", RegionEntry{Offset: 16, Length: 64, IsZ: true})
	zRegion := buildRegionWithChunk(16, format.ImgTypeRGB565, 48, 200)
	idx := NewChunkIndex(nil, zRegion)

	const zRegionStart = 500
	encoded, err := Encode(layers, lookup, zRegionStart)
	require.NoError(t, err)

	// offset field should read back as zRegionStart+16
	off := readU32(encoded, 6*4)
	require.Equal(t, uint32(zRegionStart+16), off)

	result := Decode(encoded, idx, zRegionStart, 4)
	require.False(t, result.Truncated)
	require.False(t, result.Layers[0].ImgArr[0].Kind == KindInteger)
}

func TestDecode_TruncatedBlockStopsCleanly(t *testing.T) {
	data := make([]byte, 10) // shorter than minLayerPrefix
	result := Decode(data, NewChunkIndex(nil, nil), 0, 4)
	require.True(t, result.Truncated)
	require.Empty(t, result.Layers)
}

func TestEncodeDecode_AreaNumRoundTrip(t *testing.T) {
	layers := []Layer{
		{DrawType: 1, DataType: 112, AreaNum: []int32{1, 2, 3, 4}, Num: 0},
	}
	idx := NewChunkIndex(nil, nil)

	encoded, err := Encode(layers, NewLookup(), 0)
	require.NoError(t, err)

	result := Decode(encoded, idx, 1000, 4)
	require.False(t, result.Truncated)
	require.Equal(t, []int32{1, 2, 3, 4}, result.Layers[0].AreaNum)
}

func TestEncodeDecode_AreaNumRoundTrip_NarrowerCount(t *testing.T) {
	layers := []Layer{
		{DrawType: 1, DataType: 112, AreaNum: []int32{7, 8}, Num: 0},
	}
	idx := NewChunkIndex(nil, nil)

	encoded, err := Encode(layers, NewLookup(), 0)
	require.NoError(t, err)

	result := Decode(encoded, idx, 1000, 2)
	require.False(t, result.Truncated)
	require.Equal(t, []int32{7, 8}, result.Layers[0].AreaNum)
}

func TestEncode_MissingAssetReportsError(t *testing.T) {
	layers := []Layer{
		{DrawType: 1, DataType: 1, Num: 1, ImgArr: []Element{{Kind: KindFilename, Filename: "missing.png"}}},
	}
	_, err := Encode(layers, NewLookup(), 0)
	require.Error(t, err)
}
