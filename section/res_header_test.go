package section

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func magicBytes(s string) [MagicLen]byte {
	var m [MagicLen]byte
	copy(m[:], s)
	return m
}

func TestResHeader_RoundTrip(t *testing.T) {
	h := ResHeader{
		Magic:           magicBytes(MagicDefault),
		ClockID:         0x00070000 | 51234,
		ThumbStart:      32,
		ThumbLength:     0,
		MainStart:       32,
		MainLength:      1250,
		LayerBlockStart: 32 + 1250,
	}

	encoded := h.Bytes()
	require.Len(t, encoded, ResHeaderSize)

	var decoded ResHeader
	require.NoError(t, decoded.Parse(encoded))
	require.Equal(t, h, decoded)
}

func TestResHeader_Parse_TooShort(t *testing.T) {
	var h ResHeader
	require.Error(t, h.Parse(make([]byte, ResHeaderSize-1)))
}

func TestResHeader_Bytes_BigEndian(t *testing.T) {
	h := ResHeader{Magic: magicBytes(MagicDefault), ClockID: 0x00070000 | 51234}
	buf := h.Bytes()

	// clock_id occupies bytes 8..12, most significant byte first.
	require.Equal(t, byte(0x00), buf[8])
	require.Equal(t, byte(0x07), buf[9])
}

func TestResHeader_ZRegionStart(t *testing.T) {
	h := ResHeader{MainStart: 32, MainLength: 1250}
	require.Equal(t, uint32(32+1250), h.ZRegionStart())
}

func TestResHeader_ZLength(t *testing.T) {
	h := ResHeader{MainStart: 32, MainLength: 1250, LayerBlockStart: 32 + 1250 + 500}
	require.Equal(t, uint32(500), h.ZLength())
}

func TestResolutionPrefix(t *testing.T) {
	p, ok := ResolutionPrefix(Resolution{360, 360})
	require.True(t, ok)
	require.Equal(t, uint32(0x00070000), p)

	_, ok = ResolutionPrefix(Resolution{999, 999})
	require.False(t, ok)
}

func TestAutoDetectPrefix(t *testing.T) {
	p, ok := AutoDetectPrefix(Resolution{360, 360})
	require.True(t, ok)
	require.Equal(t, uint32(0x00070000), p)

	// 454x454 has a table entry but is not in the auto-detect subset.
	_, ok = AutoDetectPrefix(Resolution{454, 454})
	require.False(t, ok)
}
