package blob

import (
	"fmt"

	"github.com/dtno1/clockres/diag"
	"github.com/dtno1/clockres/errs"
	"github.com/dtno1/clockres/internal/options"
	"github.com/dtno1/clockres/layer"
	"github.com/dtno1/clockres/section"
)

// UnpackedAsset is one image file recovered from a res-blob: its
// synthesized filename and decompressed pixel/opaque bytes (thumbnail's
// 16-byte chunk header is not included).
type UnpackedAsset struct {
	Filename string
	Header   section.ChunkHeader
	Payload  []byte
}

// UnpackResult is everything Unpack recovers from a res-blob.
type UnpackResult struct {
	Descriptor layer.Descriptor
	Thumbnail  *UnpackedAsset
	Assets     []UnpackedAsset
	Warnings   []layer.Warning
	// Idle reports which magic string was found.
	Idle bool
}

// Unpack disassembles a complete res-blob back into a descriptor and its
// image files. It tolerates truncated layer blocks (stopping cleanly at
// the point of truncation) and unrecognized imgArr slot shapes (falling
// back to a plain integer and recording a Warning), per §7. sink receives
// these tolerated irregularities as warnings; pass diag.Noop() or nil to
// discard them.
func Unpack(data []byte, sink *diag.Sink, opts ...UnpackOption) (UnpackResult, error) {
	cfg := NewUnpackConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return UnpackResult{}, err
	}

	var header section.ResHeader
	if err := header.Parse(data); err != nil {
		return UnpackResult{}, err
	}

	idle, err := magicKind(header.Magic)
	if err != nil {
		return UnpackResult{}, err
	}

	end := uint64(len(data))
	if uint64(header.LayerBlockStart) > end {
		return UnpackResult{}, fmt.Errorf("layer block start %d beyond file length %d: %w", header.LayerBlockStart, end, errs.ErrInvalidHeader)
	}

	thumbBytes := sliceRegion(data, header.ThumbStart, header.ThumbLength)
	mainBytes := sliceRegion(data, header.MainStart, header.MainLength)
	zRegionStart := header.ZRegionStart()
	zLength := header.ZLength()
	zBytes := sliceRegion(data, zRegionStart, zLength)
	layerBlock := data[header.LayerBlockStart:]

	var thumb *UnpackedAsset
	if header.ThumbLength > 0 {
		thumb, err = extractChunk(thumbBytes, 0, header.ThumbLength, "thumbnail")
		if err != nil {
			return UnpackResult{}, err
		}
	}

	idx := layer.NewChunkIndexWithMinLen(mainBytes, zBytes, cfg.MinChunkLen)
	decoded := layer.Decode(layerBlock, idx, zRegionStart, cfg.AreaNumCount)

	for _, w := range decoded.Warnings {
		sink.Warn(w.Message, "layer_index", w.LayerIndex, "element_index", w.ElementIndex)
	}

	assets := make([]UnpackedAsset, 0, len(decoded.Assets))
	for name, ref := range decoded.Assets {
		region := mainBytes
		if ref.IsZ {
			region = zBytes
		}
		local := ref.Offset
		if ref.IsZ {
			local = ref.Offset - zRegionStart
		}
		asset, err := extractChunk(region, local, ref.Length, name)
		if err != nil {
			return UnpackResult{}, err
		}
		assets = append(assets, *asset)
	}

	sink.Info("unpack complete", "assets", len(assets), "warnings", len(decoded.Warnings), "idle", idle)

	return UnpackResult{
		Descriptor: layer.Descriptor{Layers: decoded.Layers},
		Thumbnail:  thumb,
		Assets:     assets,
		Warnings:   decoded.Warnings,
		Idle:       idle,
	}, nil
}

func magicKind(magic [section.MagicLen]byte) (idle bool, err error) {
	s := string(magic[:])
	switch s {
	case section.MagicDefault:
		return false, nil
	case section.MagicIdle:
		return true, nil
	default:
		return false, fmt.Errorf("unrecognized magic %q: %w", s, errs.ErrInvalidHeader)
	}
}

func sliceRegion(data []byte, start, length uint32) []byte {
	if length == 0 {
		return nil
	}
	return data[start : start+length]
}

func extractChunk(region []byte, offset, length uint32, filename string) (*UnpackedAsset, error) {
	if uint64(offset)+uint64(length) > uint64(len(region)) {
		return nil, fmt.Errorf("chunk %q at offset %d length %d out of bounds: %w", filename, offset, length, errs.ErrInvalidHeader)
	}

	var header section.ChunkHeader
	if err := header.Parse(region[offset : offset+section.ChunkHeaderSize]); err != nil {
		return nil, fmt.Errorf("chunk %q: %w", filename, err)
	}

	rawPayload := region[offset+section.ChunkHeaderSize : offset+length]
	payload, err := section.Decompress(header, rawPayload)
	if err != nil {
		return nil, fmt.Errorf("chunk %q: %w", filename, err)
	}

	return &UnpackedAsset{Filename: filename, Header: header, Payload: payload}, nil
}
