package layer

import (
	"fmt"

	"github.com/dtno1/clockres/format"
	"github.com/dtno1/clockres/section"
)

// ChunkIndex confirms whether a candidate (offset, length) pair read from
// the layer block really addresses a chunk in the main or Z region, by
// parsing a real section.ChunkHeader at that position. There is no
// separate chunk table on disk — the layer block's own (offset, length)
// pairs are the only index, so confirmation means re-parsing the header
// the assembler wrote there and checking it's internally consistent.
type ChunkIndex struct {
	main        []byte
	z           []byte
	minChunkLen uint32
}

// NewChunkIndex wraps the decoded main and Z region bytes for lookup, with
// the default minimum candidate chunk length (section.ChunkHeaderSize).
// Use NewChunkIndexWithMinLen to override it.
func NewChunkIndex(main, z []byte) *ChunkIndex {
	return NewChunkIndexWithMinLen(main, z, section.ChunkHeaderSize)
}

// NewChunkIndexWithMinLen is NewChunkIndex with an explicit floor below
// which a candidate (offset, length) pair is rejected without even
// attempting a header parse.
func NewChunkIndexWithMinLen(main, z []byte, minChunkLen uint32) *ChunkIndex {
	return &ChunkIndex{main: main, z: z, minChunkLen: minChunkLen}
}

// lookup resolves an absolute offset (Z-region chunks already fixed up by
// zRegionStart) and reports the image type found there, if the header at
// that position parses and its declared size is consistent with length.
func (c *ChunkIndex) lookup(absOffset, length, zRegionStart uint32) (format.ImgType, bool) {
	region := c.main
	local := absOffset
	if absOffset >= zRegionStart {
		region = c.z
		local = absOffset - zRegionStart
	}

	if length < c.minChunkLen || uint64(local)+uint64(length) > uint64(len(region)) {
		return 0, false
	}

	var h section.ChunkHeader
	if err := h.Parse(region[local : local+section.ChunkHeaderSize]); err != nil {
		return 0, false
	}

	if !h.Compressed && uint32(section.ChunkHeaderSize)+h.PayloadLen != length {
		return 0, false
	}

	return h.ImgType, true
}

// Warning records a tolerated decode irregularity: a slot whose value did
// not resolve against the chunk index fell back to a plain integer, or a
// layer block ended mid-record.
type Warning struct {
	LayerIndex int
	ElementIndex int
	Message    string
}

// AssetRef is a synthesized filename's resolved chunk placement, letting
// the caller extract and decompress its bytes after Decode returns.
type AssetRef struct {
	Offset uint32
	Length uint32
	IsZ    bool
}

// DecodeResult holds the reconstructed layers plus any tolerated
// irregularities encountered along the way.
type DecodeResult struct {
	Layers   []Layer
	Warnings []Warning
	// Assets maps every synthesized filename to its resolved chunk
	// placement, for the caller to extract actual image bytes.
	Assets map[string]AssetRef
	// Truncated is true if the block ended cleanly mid-layer rather than
	// with a decoding error.
	Truncated bool
}

// minLayerPrefix is drawType+dataType+alignType+x+y+num, the smallest
// possible fixed prefix (no interval, no area_num).
const minLayerPrefix = 6 * 4

// Decode reconstructs layers from a layer block, using idx to confirm
// filename-reference slots and synthesizing "<layerIndex>_<elementIndex>.<ext>"
// filenames for every resolved image reference. areaNumCount is the number
// of i32 entries a dataType==112 layer's area_num field carries (4 by
// default, see blob.WithAreaNumCount).
func Decode(data []byte, idx *ChunkIndex, zRegionStart uint32, areaNumCount int) DecodeResult {
	result := DecodeResult{Assets: make(map[string]AssetRef)}
	pos := 0

	for pos < len(data) {
		if len(data)-pos < minLayerPrefix {
			result.Truncated = true
			break
		}

		l := Layer{}
		l.DrawType = readI32(data, pos)
		pos += 4
		l.DataType = readI32(data, pos)
		pos += 4

		if HasInterval(l.DataType) {
			if len(data)-pos < 4 {
				result.Truncated = true
				break
			}
			l.Interval = readI32(data, pos)
			pos += 4
		}
		if HasAreaNum(l.DataType) {
			if len(data)-pos < areaNumCount*4 {
				result.Truncated = true
				break
			}
			l.AreaNum = make([]int32, areaNumCount)
			for i := range l.AreaNum {
				l.AreaNum[i] = readI32(data, pos)
				pos += 4
			}
		}

		if len(data)-pos < 16 {
			result.Truncated = true
			break
		}
		l.AlignType = readI32(data, pos)
		pos += 4
		l.X = readI32(data, pos)
		pos += 4
		l.Y = readI32(data, pos)
		pos += 4
		l.Num = readI32(data, pos)
		pos += 4

		layerIndex := len(result.Layers)
		elements, newPos, truncated, warnings := decodeImgArr(data, pos, layerIndex, l, idx, zRegionStart, result.Assets)
		result.Warnings = append(result.Warnings, warnings...)
		if truncated {
			result.Truncated = true
			break
		}
		pos = newPos
		l.ImgArr = elements

		result.Layers = append(result.Layers, l)
	}

	return result
}

func decodeImgArr(data []byte, pos, layerIndex int, l Layer, idx *ChunkIndex, zRegionStart uint32, assets map[string]AssetRef) ([]Element, int, bool, []Warning) {
	elements := make([]Element, 0, l.Num)
	var warnings []Warning

	for i := 0; i < int(l.Num); i++ {
		switch {
		case tupleDrawTypes[l.DrawType]:
			if len(data)-pos < 16 {
				return elements, pos, true, warnings
			}
			a := readI32(data, pos)
			b := readI32(data, pos+4)
			offset := readU32(data, pos+8)
			length := readU32(data, pos+12)
			pos += 16
			imgType, _ := idx.lookup(offset, length, zRegionStart)
			ext := imgType.FileExt()
			name := fmt.Sprintf("%d_%d.%s", layerIndex, i, ext)
			assets[name] = AssetRef{Offset: offset, Length: length, IsZ: offset >= zRegionStart}
			elements = append(elements, Element{Kind: KindTuple, TupleA: a, TupleB: b, TupleName: name})

		case l.DrawType == textSlotDrawType && i == textSlotIndex:
			if len(data)-pos < textSlotBytes {
				return elements, pos, true, warnings
			}
			text := decodeFixedWidthText(data[pos : pos+textSlotBytes])
			pos += textSlotBytes
			elements = append(elements, Element{Kind: KindFilename, Filename: text})

		case integerDataTypes[l.DataType] && (i == 10 || i == 11):
			if len(data)-pos < 4 {
				return elements, pos, true, warnings
			}
			elements = append(elements, Element{Kind: KindInteger, Integer: readI32(data, pos)})
			pos += 4

		case l.DrawType == integerLayerDrawType && (i == 0 || i == 1 || i == 2):
			if len(data)-pos < 4 {
				return elements, pos, true, warnings
			}
			elements = append(elements, Element{Kind: KindInteger, Integer: readI32(data, pos)})
			pos += 4

		default:
			if len(data)-pos < 8 {
				if len(data)-pos >= 4 {
					elements = append(elements, Element{Kind: KindInteger, Integer: readI32(data, pos)})
					pos += 4
					continue
				}
				return elements, pos, true, warnings
			}

			offset := readU32(data, pos)
			length := readU32(data, pos+4)
			if imgType, ok := idx.lookup(offset, length, zRegionStart); ok {
				name := fmt.Sprintf("%d_%d.%s", layerIndex, i, imgType.FileExt())
				assets[name] = AssetRef{Offset: offset, Length: length, IsZ: offset >= zRegionStart}
				elements = append(elements, Element{Kind: KindFilename, Filename: name})
				pos += 8
				continue
			}

			// Not a confirmed chunk reference: fall back to a single i32,
			// matching the tolerant unpacker's documented fallback.
			warnings = append(warnings, Warning{LayerIndex: layerIndex, ElementIndex: i, Message: "unrecognized imgArr slot shape, falling back to single i32"})
			elements = append(elements, Element{Kind: KindInteger, Integer: readI32(data, pos)})
			pos += 4
		}
	}

	return elements, pos, false, warnings
}

func decodeFixedWidthText(b []byte) string {
	n := 0
	for n < len(b) && b[n] != 0 {
		n++
	}
	return string(b[:n])
}

func readI32(data []byte, pos int) int32 {
	return int32(readU32(data, pos))
}

func readU32(data []byte, pos int) uint32 {
	return uint32(data[pos])<<24 | uint32(data[pos+1])<<16 | uint32(data[pos+2])<<8 | uint32(data[pos+3])
}
