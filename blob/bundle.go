package blob

import (
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/dtno1/clockres/compress"
	"github.com/dtno1/clockres/errs"
)

// BundleEntry is one packed res-blob file going into a distribution
// archive, keyed by its on-disk name (conventionally "Clock<id>_res").
type BundleEntry struct {
	Name string
	Data []byte
}

// bundleManifestEntry is one entry's JSON record: name, size, and the
// byte offset into the archive's concatenated-entries section where its
// data begins.
type bundleManifestEntry struct {
	Name   string `json:"name"`
	Offset int    `json:"offset"`
	Length int    `json:"length"`
}

type bundleManifest struct {
	Entries []bundleManifestEntry `json:"entries"`
}

// Bundle packs multiple res-blob outputs plus a JSON manifest into one
// zstd-compressed distribution archive, for device-provisioning pipelines
// that ship many watchfaces together (grounded in original_source's batch
// unpack driver, whose pack-side counterpart this supplements).
//
// Archive layout (before compression): 4-byte big-endian manifest length,
// the manifest JSON, then every entry's raw bytes concatenated in order.
func Bundle(entries []BundleEntry) ([]byte, error) {
	manifest := bundleManifest{Entries: make([]bundleManifestEntry, 0, len(entries))}
	var payload []byte

	for _, e := range entries {
		manifest.Entries = append(manifest.Entries, bundleManifestEntry{
			Name:   e.Name,
			Offset: len(payload),
			Length: len(e.Data),
		})
		payload = append(payload, e.Data...)
	}

	manifestJSON, err := json.Marshal(manifest)
	if err != nil {
		return nil, fmt.Errorf("marshal bundle manifest: %w", err)
	}

	raw := make([]byte, 4, 4+len(manifestJSON)+len(payload))
	binary.BigEndian.PutUint32(raw, uint32(len(manifestJSON)))
	raw = append(raw, manifestJSON...)
	raw = append(raw, payload...)

	codec := compress.NewZstdCompressor()
	compressed, err := codec.Compress(raw)
	if err != nil {
		return nil, fmt.Errorf("compress bundle: %w", err)
	}

	return compressed, nil
}

// Unbundle reverses Bundle, returning every entry in manifest order.
func Unbundle(data []byte) ([]BundleEntry, error) {
	codec := compress.NewZstdCompressor()
	raw, err := codec.Decompress(data)
	if err != nil {
		return nil, fmt.Errorf("decompress bundle: %w", err)
	}

	if len(raw) < 4 {
		return nil, fmt.Errorf("bundle archive truncated before manifest length: %w", errs.ErrInvalidHeader)
	}

	manifestLen := binary.BigEndian.Uint32(raw[0:4])
	if uint64(4)+uint64(manifestLen) > uint64(len(raw)) {
		return nil, fmt.Errorf("bundle manifest length %d exceeds archive size: %w", manifestLen, errs.ErrInvalidHeader)
	}

	var manifest bundleManifest
	if err := json.Unmarshal(raw[4:4+manifestLen], &manifest); err != nil {
		return nil, fmt.Errorf("unmarshal bundle manifest: %w", err)
	}

	payload := raw[4+manifestLen:]
	entries := make([]BundleEntry, 0, len(manifest.Entries))
	for _, me := range manifest.Entries {
		if uint64(me.Offset)+uint64(me.Length) > uint64(len(payload)) {
			return nil, fmt.Errorf("bundle entry %q out of bounds: %w", me.Name, errs.ErrInvalidHeader)
		}
		entries = append(entries, BundleEntry{Name: me.Name, Data: payload[me.Offset : me.Offset+me.Length]})
	}

	return entries, nil
}
