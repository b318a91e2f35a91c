package blob

import (
	"fmt"
	"strings"

	"github.com/dtno1/clockres/asset"
	"github.com/dtno1/clockres/diag"
	"github.com/dtno1/clockres/errs"
	"github.com/dtno1/clockres/internal/dedup"
	"github.com/dtno1/clockres/internal/hash"
	"github.com/dtno1/clockres/internal/options"
	"github.com/dtno1/clockres/internal/pool"
	"github.com/dtno1/clockres/layer"
	"github.com/dtno1/clockres/section"
	"github.com/dtno1/clockres/validate"
)

// PackReport carries diagnostics from a successful Pack call that don't
// affect the output bytes: duplicate asset content found under different
// filenames (see internal/dedup).
type PackReport struct {
	DuplicateContent []dedup.DuplicateContent
	// Report is the build-report manifest for this pack; the caller
	// compresses it via Report.MarshalCompressed when --report is set.
	Report BuildReport
}

// Pack assembles a complete res-blob from a watchface's descriptor and its
// image files. files must already be in the directory's traversal order:
// that order, not pixel-transcode completion order, determines first-seen
// payload placement (§5). sink receives non-fatal diagnostics (duplicate
// asset content found under different filenames); pass diag.Noop() or nil
// to discard them.
func Pack(desc layer.Descriptor, files []asset.Source, sink *diag.Sink, opts ...PackOption) ([]byte, PackReport, error) {
	cfg := NewPackConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, PackReport{}, err
	}

	sink.Info("pack starting", "layers", len(desc.Layers), "files", len(files))

	diskNames := make([]string, 0, len(files))
	for _, f := range files {
		diskNames = append(diskNames, f.Filename)
	}
	if err := validate.Files(desc.Layers, validate.BuildFileSet(diskNames)); err != nil {
		return nil, PackReport{}, err
	}

	thumbName, assetFiles, err := splitThumbnail(files, cfg.ThumbnailOverride)
	if err != nil {
		return nil, PackReport{}, err
	}

	mainFiles, zFiles := splitRegions(assetFiles)
	prepOpts := asset.Options{Compress: cfg.Compress}

	var thumbPrepared []asset.Prepared
	if thumbName != "" {
		src := findSource(files, thumbName)
		thumbPrepared, err = asset.Prepare([]asset.Source{*src}, prepOpts)
		if err != nil {
			return nil, PackReport{}, err
		}
	}

	mainPrepared, err := asset.Prepare(mainFiles, prepOpts)
	if err != nil {
		return nil, PackReport{}, err
	}
	zPrepared, err := asset.Prepare(zFiles, prepOpts)
	if err != nil {
		return nil, PackReport{}, err
	}

	lookup := layer.NewLookup()
	mainTracker := dedup.NewTracker()
	zTracker := dedup.NewTracker()

	var thumbBytes []byte
	if len(thumbPrepared) == 1 {
		thumbBytes = append(thumbPrepared[0].Header.Bytes(), thumbPrepared[0].Payload...)
	}

	mainBytes := buildRegion(mainPrepared, false, lookup, mainTracker)
	zBytes := buildRegion(zPrepared, true, lookup, zTracker)

	resolution := cfg.Resolution
	var prefix uint32
	var ok bool
	if resolution == (section.Resolution{}) {
		resolution, err = firstLayerImageDims(desc, mainPrepared, zPrepared, thumbPrepared)
		if err != nil {
			return nil, PackReport{}, err
		}
		prefix, ok = section.AutoDetectPrefix(resolution)
	} else {
		prefix, ok = section.ResolutionPrefix(resolution)
	}
	if !ok {
		return nil, PackReport{}, fmt.Errorf("resolution %dx%d: %w", resolution.Width, resolution.Height, errs.ErrUnsupportedResolution)
	}

	if cfg.ClockIDBase < 50000 || cfg.ClockIDBase > 65535 {
		return nil, PackReport{}, fmt.Errorf("clock id %d: %w", cfg.ClockIDBase, errs.ErrBadClockID)
	}

	magic := section.MagicDefault
	if cfg.Idle {
		magic = section.MagicIdle
	}

	header := section.ResHeader{
		ClockID:    cfg.ClockIDBase | prefix,
		ThumbStart: section.ResHeaderSize,
	}
	copy(header.Magic[:], magic)
	header.ThumbLength = uint32(len(thumbBytes))
	header.MainStart = header.ThumbStart + header.ThumbLength
	header.MainLength = uint32(len(mainBytes))
	zRegionStart := header.MainStart + header.MainLength
	header.LayerBlockStart = zRegionStart + uint32(len(zBytes))

	layerBlock, err := layer.Encode(desc.Layers, lookup, zRegionStart)
	if err != nil {
		return nil, PackReport{}, err
	}

	out := make([]byte, 0, header.LayerBlockStart+uint32(len(layerBlock)))
	out = append(out, header.Bytes()...)
	out = append(out, thumbBytes...)
	out = append(out, mainBytes...)
	out = append(out, zBytes...)
	out = append(out, layerBlock...)

	duplicates := append(mainTracker.Duplicates(), zTracker.Duplicates()...)
	for _, d := range duplicates {
		sink.Info("duplicate asset content under different filename", "first", d.First, "second", d.Second)
	}

	report := PackReport{
		DuplicateContent: duplicates,
		Report: BuildReport{
			ClockID:        header.ClockID,
			Resolution:     Resolution{Width: resolution.Width, Height: resolution.Height},
			Idle:           cfg.Idle,
			ThumbLength:    header.ThumbLength,
			MainLength:     header.MainLength,
			ZLength:        uint32(len(zBytes)),
			LayerBlockSize: uint32(len(layerBlock)),
			MainAssets:     reportEntries(mainTracker, lookup),
			ZAssets:        reportEntries(zTracker, lookup),
			Duplicates:     duplicates,
		},
	}

	sink.Info("pack complete", "total_bytes", len(out), "clock_id", header.ClockID)
	return out, report, nil
}

// reportEntries walks a region tracker's first-seen filename order and
// resolves each one's placement through lookup, for BuildReport.
func reportEntries(tracker *dedup.Tracker, lookup *layer.Lookup) []AssetReportEntry {
	names := tracker.Order()
	entries := make([]AssetReportEntry, 0, len(names))
	for _, name := range names {
		entry, ok := lookup.Find(name)
		if !ok {
			continue
		}
		entries = append(entries, AssetReportEntry{Filename: name, Offset: entry.Offset, Length: entry.Length, IsZ: entry.IsZ})
	}
	return entries
}

// buildRegion concatenates prepared assets' chunks in first-seen order,
// reusing a repeated filename's offset instead of re-embedding its bytes,
// and records each filename's placement in lookup for the layer serializer.
func buildRegion(prepared []asset.Prepared, isZ bool, lookup *layer.Lookup, tracker *dedup.Tracker) []byte {
	bb := pool.GetRegionBuffer()
	defer pool.PutRegionBuffer(bb)

	lengths := make(map[string]uint32)

	for _, p := range prepared {
		key := strings.ToLower(p.Filename)
		offset, isNew := tracker.TrackAsset(key, bb.Len())
		if isNew {
			chunkLen := section.ChunkHeaderSize + len(p.Payload)
			bb.MustWrite(p.Header.Bytes())
			bb.MustWrite(p.Payload)
			lengths[key] = uint32(chunkLen)
			_ = tracker.TrackContent(p.Filename, hash.Content(bb.Bytes()[offset:offset+chunkLen]))
		}
		lookup.Add(p.Filename, layer.RegionEntry{Offset: uint32(offset), Length: lengths[key], IsZ: isZ})
	}

	out := make([]byte, bb.Len())
	copy(out, bb.Bytes())
	return out
}

// splitThumbnail removes the thumbnail (by explicit override, or else
// "contains thumbnail" filename match) from files and returns its name plus
// the remaining asset files.
func splitThumbnail(files []asset.Source, override string) (string, []asset.Source, error) {
	name := override
	if name == "" {
		for _, f := range files {
			if strings.Contains(strings.ToLower(f.Filename), "thumbnail") {
				name = f.Filename
				break
			}
		}
	}
	if name == "" {
		return "", files, nil
	}

	if findSource(files, name) == nil {
		return "", nil, fmt.Errorf("thumbnail %q: %w", name, errs.ErrThumbnailMissing)
	}

	rest := make([]asset.Source, 0, len(files))
	for _, f := range files {
		if strings.EqualFold(f.Filename, name) {
			continue
		}
		rest = append(rest, f)
	}

	return name, rest, nil
}

func splitRegions(files []asset.Source) (main, z []asset.Source) {
	for _, f := range files {
		if strings.HasPrefix(strings.ToLower(f.Filename), "z_") {
			z = append(z, f)
		} else {
			main = append(main, f)
		}
	}
	return main, z
}

func findSource(files []asset.Source, name string) *asset.Source {
	for i := range files {
		if strings.EqualFold(files[i].Filename, name) {
			return &files[i]
		}
	}
	return nil
}

// firstLayerImageDims resolves the dimensions of the first layer's first
// image reference, for resolution autodetection.
func firstLayerImageDims(desc layer.Descriptor, mainPrepared, zPrepared, thumbPrepared []asset.Prepared) (section.Resolution, error) {
	if len(desc.Layers) == 0 {
		return section.Resolution{}, fmt.Errorf("no layers to autodetect resolution from: %w", errs.ErrUnsupportedResolution)
	}

	for _, e := range desc.Layers[0].ImgArr {
		name := e.Name()
		if name == "" {
			continue
		}
		for _, p := range append(append(append([]asset.Prepared{}, mainPrepared...), zPrepared...), thumbPrepared...) {
			if strings.EqualFold(p.Filename, name) {
				return section.Resolution{Width: int(p.Header.Width), Height: int(p.Header.Height)}, nil
			}
		}
	}

	return section.Resolution{}, fmt.Errorf("first layer has no resolvable image reference: %w", errs.ErrUnsupportedResolution)
}
