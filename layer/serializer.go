package layer

import (
	"fmt"
	"strings"

	"github.com/dtno1/clockres/endian"
	"github.com/dtno1/clockres/errs"
)

var beEngine = endian.GetBigEndianEngine()

// textSlotBytes is the fixed width of the drawType==55 index==2 inline
// text slot.
const textSlotBytes = 30

// drawTypes whose imgArr holds (i32, i32, filename) tuples rather than bare
// filenames.
var tupleDrawTypes = map[int32]bool{10: true, 15: true, 21: true}

// dataTypes whose imgArr carries raw integers at indices 10 and 11.
var integerDataTypes = map[int32]bool{64: true, 65: true, 66: true, 67: true}

const textSlotDrawType int32 = 55
const textSlotIndex = 2
const integerLayerDrawType int32 = 8

// RegionEntry is one filename's resolved placement: its offset within its
// own region (main or Z, each starting at 0) and the full chunk length
// (header + payload) stored there.
type RegionEntry struct {
	Offset uint32
	Length uint32
	IsZ    bool
}

// Lookup resolves filenames (case-insensitively) to their region placement,
// built by the caller from dedup-tracked Prepared assets.
type Lookup struct {
	entries map[string]RegionEntry
}

// NewLookup returns an empty Lookup.
func NewLookup() *Lookup {
	return &Lookup{entries: make(map[string]RegionEntry)}
}

// Add records filename's placement. Filenames are folded to lowercase so
// lookups are case-insensitive.
func (l *Lookup) Add(filename string, entry RegionEntry) {
	l.entries[strings.ToLower(filename)] = entry
}

func (l *Lookup) find(name string) (RegionEntry, bool) {
	e, ok := l.entries[strings.ToLower(name)]
	return e, ok
}

// Find reports a tracked filename's resolved region placement, for
// callers outside this package that need to cross-reference offsets
// (e.g. the build report).
func (l *Lookup) Find(name string) (RegionEntry, bool) {
	return l.find(name)
}

// Encode writes layers' layer block, resolving imgArr filename references
// through lookup and fixing up Z-region offsets by zRegionStart.
func Encode(layers []Layer, lookup *Lookup, zRegionStart uint32) ([]byte, error) {
	var buf []byte

	for li, l := range layers {
		buf = beEngine.AppendUint32(buf, uint32(l.DrawType))
		buf = beEngine.AppendUint32(buf, uint32(l.DataType))

		if HasInterval(l.DataType) {
			buf = beEngine.AppendUint32(buf, uint32(l.Interval))
		}
		if HasAreaNum(l.DataType) {
			for _, a := range l.AreaNum {
				buf = beEngine.AppendUint32(buf, uint32(a))
			}
		}

		buf = beEngine.AppendUint32(buf, uint32(l.AlignType))
		buf = beEngine.AppendUint32(buf, uint32(l.X))
		buf = beEngine.AppendUint32(buf, uint32(l.Y))
		buf = beEngine.AppendUint32(buf, uint32(l.Num))

		var err error
		buf, err = encodeImgArr(buf, li, l, lookup, zRegionStart)
		if err != nil {
			return nil, err
		}
	}

	return buf, nil
}

func encodeImgArr(buf []byte, layerIndex int, l Layer, lookup *Lookup, zRegionStart uint32) ([]byte, error) {
	for i, e := range l.ImgArr {
		switch {
		case tupleDrawTypes[l.DrawType]:
			if e.Kind != KindTuple {
				return nil, fmt.Errorf("layer %d imgArr[%d]: drawType %d requires a 3-tuple element: %w", layerIndex, i, l.DrawType, errs.ErrConfigParse)
			}
			entry, ok := lookup.find(e.TupleName)
			if !ok {
				return nil, fmt.Errorf("layer %d imgArr[%d]: file %q: %w", layerIndex, i, e.TupleName, errs.ErrAssetMissing)
			}
			offset := resolveOffset(entry, zRegionStart)
			buf = beEngine.AppendUint32(buf, uint32(e.TupleA))
			buf = beEngine.AppendUint32(buf, uint32(e.TupleB))
			buf = beEngine.AppendUint32(buf, offset)
			buf = beEngine.AppendUint32(buf, entry.Length)

		case l.DrawType == textSlotDrawType && i == textSlotIndex:
			buf = append(buf, fixedWidthText(e.Filename, textSlotBytes)...)

		case integerDataTypes[l.DataType] && (i == 10 || i == 11):
			if e.Kind != KindInteger {
				return nil, fmt.Errorf("layer %d imgArr[%d]: dataType %d index %d requires an integer: %w", layerIndex, i, l.DataType, i, errs.ErrConfigParse)
			}
			buf = beEngine.AppendUint32(buf, uint32(e.Integer))

		case l.DrawType == integerLayerDrawType && (i == 0 || i == 1 || i == 2):
			if e.Kind != KindInteger {
				return nil, fmt.Errorf("layer %d imgArr[%d]: drawType 8 index %d requires an integer: %w", layerIndex, i, i, errs.ErrConfigParse)
			}
			buf = beEngine.AppendUint32(buf, uint32(e.Integer))

		case e.Kind == KindInteger:
			buf = beEngine.AppendUint32(buf, uint32(e.Integer))

		default:
			name := e.Name()
			entry, ok := lookup.find(name)
			if !ok {
				return nil, fmt.Errorf("layer %d imgArr[%d]: file %q: %w", layerIndex, i, name, errs.ErrAssetMissing)
			}
			offset := resolveOffset(entry, zRegionStart)
			buf = beEngine.AppendUint32(buf, offset)
			buf = beEngine.AppendUint32(buf, entry.Length)
		}
	}

	return buf, nil
}

func resolveOffset(entry RegionEntry, zRegionStart uint32) uint32 {
	if entry.IsZ {
		return zRegionStart + entry.Offset
	}
	return entry.Offset
}

// fixedWidthText null-pads or truncates s to exactly n bytes of UTF-8.
func fixedWidthText(s string, n int) []byte {
	b := []byte(s)
	out := make([]byte, n)
	copy(out, b)
	return out
}
