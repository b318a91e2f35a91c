package blob

import (
	"encoding/json"
	"fmt"

	"github.com/dtno1/clockres/compress"
	"github.com/dtno1/clockres/format"
	"github.com/dtno1/clockres/internal/dedup"
)

// AssetReportEntry records one prepared asset's placement, for BuildReport.
type AssetReportEntry struct {
	Filename string `json:"filename"`
	Offset   uint32 `json:"offset"`
	Length   uint32 `json:"length"`
	IsZ      bool   `json:"is_z"`
}

// BuildReport is a JSON manifest of a single Pack call's decisions: clock
// id, resolution, region sizes, per-asset offsets, and dedup diagnostics.
// The pack CLI writes it to the path given by its --report flag, so it is
// regenerated on every invocation.
type BuildReport struct {
	ClockID        uint32                   `json:"clock_id"`
	Resolution     Resolution               `json:"resolution"`
	Idle           bool                     `json:"idle"`
	ThumbLength    uint32                   `json:"thumb_length"`
	MainLength     uint32                   `json:"main_length"`
	ZLength        uint32                   `json:"z_length"`
	LayerBlockSize uint32                   `json:"layer_block_size"`
	MainAssets     []AssetReportEntry       `json:"main_assets"`
	ZAssets        []AssetReportEntry       `json:"z_assets"`
	Duplicates     []dedup.DuplicateContent `json:"duplicate_content,omitempty"`
}

// Resolution mirrors section.Resolution for the report's JSON shape,
// avoiding a dependency from this file's public type on the section
// package's field layout.
type Resolution struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// MarshalCompressed serializes r to JSON and compresses it with algo,
// prefixing the result with a one-byte algorithm tag so UnmarshalCompressed
// can recover the right codec without the caller having to remember it.
// S2 is the default the pack CLI's --report flag uses; algo exists so a
// caller writing many reports to a constrained store can pick Zstd for a
// smaller file or None to skip the CPU cost entirely.
func (r BuildReport) MarshalCompressed(algo format.CompressionType) ([]byte, error) {
	raw, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("marshal build report: %w", err)
	}

	codec, err := compress.CreateCodec(algo, "build report")
	if err != nil {
		return nil, err
	}
	compressed, err := codec.Compress(raw)
	if err != nil {
		return nil, fmt.Errorf("compress build report: %w", err)
	}

	return append([]byte{byte(algo)}, compressed...), nil
}

// UnmarshalCompressed reverses MarshalCompressed, reading the algorithm tag
// MarshalCompressed wrote before dispatching to the matching codec.
func UnmarshalCompressed(data []byte) (BuildReport, error) {
	if len(data) < 1 {
		return BuildReport{}, fmt.Errorf("build report: empty data")
	}

	codec, err := compress.GetCodec(format.CompressionType(data[0]))
	if err != nil {
		return BuildReport{}, err
	}
	raw, err := codec.Decompress(data[1:])
	if err != nil {
		return BuildReport{}, fmt.Errorf("decompress build report: %w", err)
	}

	var r BuildReport
	if err := json.Unmarshal(raw, &r); err != nil {
		return BuildReport{}, fmt.Errorf("unmarshal build report: %w", err)
	}

	return r, nil
}
