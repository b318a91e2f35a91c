// Package clockres packs a DT NO.1/ATS3085-S watchface source directory
// (config.json plus layer images) into a single res-blob binary, and
// unpacks a res-blob back into that directory shape. The wire-level
// codec lives in section/layer/blob; this file is the directory-and-file
// layer the original Python gen_clock.py/unpack_all.py tools occupied.
package clockres

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/dtno1/clockres/asset"
	"github.com/dtno1/clockres/blob"
	"github.com/dtno1/clockres/diag"
	"github.com/dtno1/clockres/errs"
	"github.com/dtno1/clockres/layer"
	"github.com/dtno1/clockres/section"
	"github.com/dtno1/clockres/validate"
)

const configFilename = "config.json"

// PackDir reads a watchface source directory (config.json plus every
// image file it references or that sits alongside it) and packs it into
// a res-blob, writing the result to outPath. sink receives non-fatal
// diagnostics; pass diag.Noop() or nil to discard them.
func PackDir(srcDir, outPath string, sink *diag.Sink, opts ...blob.PackOption) (blob.PackReport, error) {
	desc, files, err := loadSourceDir(srcDir)
	if err != nil {
		return blob.PackReport{}, err
	}

	checkFileCountDiagnostic(desc, files, sink)

	// A folder-name-detected clock id is a default, not an override: put it
	// first so an explicit WithClockID later in opts applies afterward and
	// wins (options.Apply runs in order, last write stands).
	if id, ok := clockIDFromFolderName(filepath.Base(srcDir)); ok {
		opts = append([]blob.PackOption{blob.WithClockID(id)}, opts...)
	}

	out, report, err := blob.Pack(desc, files, sink, opts...)
	if err != nil {
		return blob.PackReport{}, err
	}

	if err := os.WriteFile(outPath, out, 0o644); err != nil {
		return blob.PackReport{}, fmt.Errorf("write %s: %w: %w", outPath, err, errs.ErrIO)
	}

	return report, nil
}

// clockIDFromFolderNameRe matches the first run of digits in a folder
// name, e.g. "Clock50001_res" -> "50001".
var clockIDFromFolderNameRe = regexp.MustCompile(`\d+`)

// clockIDFromFolderName scans name for the first embedded integer in
// [50000, 65535], the device's valid clock-id range, ported from
// _extract_clock_id_from_src_folder.
func clockIDFromFolderName(name string) (uint32, bool) {
	for _, m := range clockIDFromFolderNameRe.FindAllString(name, -1) {
		n, err := strconv.ParseUint(m, 10, 32)
		if err != nil {
			continue
		}
		if n >= 50000 && n <= 65535 {
			return uint32(n), true
		}
	}
	return 0, false
}

// checkFileCountDiagnostic compares the on-disk asset count (excluding
// config.json and the first file whose name contains "thumbnail") against the count of distinct
// images config.json's layers reference, logging any mismatch as a
// non-fatal diagnostic. Ported from check_clock's log-only behavior.
func checkFileCountDiagnostic(desc layer.Descriptor, files []asset.Source, sink *diag.Sink) {
	referenced := make(map[string]bool)
	for _, l := range desc.Layers {
		for _, e := range l.ImgArr {
			if e.Kind != layer.KindInteger {
				referenced[strings.ToLower(e.Name())] = true
			}
		}
	}

	onDisk := 0
	thumbSkipped := false
	for _, f := range files {
		if !thumbSkipped && strings.Contains(strings.ToLower(f.Filename), "thumbnail") {
			thumbSkipped = true
			continue
		}
		onDisk++
	}

	if len(referenced) != onDisk {
		sink.Info("on-disk asset count does not match config.json reference count",
			"on_disk", onDisk, "referenced", len(referenced))
	}
}

// loadSourceDir reads config.json and every other file in dir, returning
// the parsed descriptor and the remaining files as asset.Source, in
// directory-listing order (the traversal order blob.Pack's first-seen
// dedup depends on, see §5).
func loadSourceDir(dir string) (layer.Descriptor, []asset.Source, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return layer.Descriptor{}, nil, fmt.Errorf("read source dir %s: %w: %w", dir, err, errs.ErrSourceNotFound)
	}

	configPath := filepath.Join(dir, configFilename)
	configData, err := os.ReadFile(configPath)
	if err != nil {
		return layer.Descriptor{}, nil, fmt.Errorf("read %s: %w: %w", configPath, err, errs.ErrSourceNotFound)
	}

	var desc layer.Descriptor
	if err := json.Unmarshal(configData, &desc); err != nil {
		return layer.Descriptor{}, nil, fmt.Errorf("parse %s: %w: %w", configPath, err, errs.ErrConfigParse)
	}

	files := make([]asset.Source, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || strings.EqualFold(e.Name(), configFilename) {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return layer.Descriptor{}, nil, fmt.Errorf("read %s: %w: %w", e.Name(), err, errs.ErrIO)
		}
		files = append(files, asset.Source{Filename: e.Name(), Data: data})
	}

	return desc, files, nil
}

// UnpackDir reads a res-blob file and writes its recovered config.json
// plus every asset file into outDir (created if absent).
func UnpackDir(blobPath, outDir string, sink *diag.Sink, opts ...blob.UnpackOption) (blob.UnpackResult, error) {
	data, err := os.ReadFile(blobPath)
	if err != nil {
		return blob.UnpackResult{}, fmt.Errorf("read %s: %w: %w", blobPath, err, errs.ErrSourceNotFound)
	}

	result, err := blob.Unpack(data, sink, opts...)
	if err != nil {
		return blob.UnpackResult{}, err
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return blob.UnpackResult{}, fmt.Errorf("create %s: %w: %w", outDir, err, errs.ErrIO)
	}

	configData, err := json.MarshalIndent(result.Descriptor, "", "  ")
	if err != nil {
		return blob.UnpackResult{}, fmt.Errorf("marshal config.json: %w: %w", err, errs.ErrConfigParse)
	}
	if err := os.WriteFile(filepath.Join(outDir, configFilename), configData, 0o644); err != nil {
		return blob.UnpackResult{}, fmt.Errorf("write config.json: %w: %w", err, errs.ErrIO)
	}

	if result.Thumbnail != nil {
		if err := writeUnpackedAsset(outDir, *result.Thumbnail); err != nil {
			return blob.UnpackResult{}, err
		}
	}
	for _, a := range result.Assets {
		if err := writeUnpackedAsset(outDir, a); err != nil {
			return blob.UnpackResult{}, err
		}
	}

	return result, nil
}

func writeUnpackedAsset(outDir string, a blob.UnpackedAsset) error {
	name := a.Filename
	if !strings.Contains(name, ".") {
		name += a.Header.ImgType.FileExt()
	}
	path := filepath.Join(outDir, name)
	if err := os.WriteFile(path, a.Payload, 0o644); err != nil {
		return fmt.Errorf("write %s: %w: %w", path, err, errs.ErrIO)
	}
	return nil
}

// UnpackBatch walks root for directories matching glob (default
// "Clock*_res" when empty) and unpacks the res-blob file found inside
// each one (identified by its magic bytes, see findBatchBlobFile) into
// "<name>_unpacked" under outRoot, ported from unpack_all.py's batch
// driver. ctx is polled between directories (§5's "cancel signal
// propagates by polling between files"); mid-directory cancellation is
// not required, matching the same tolerance the spec grants mid-file.
// ctx must not be nil; pass context.Background() for no cancellation.
func UnpackBatch(ctx context.Context, root, glob, outRoot string, sink *diag.Sink, opts ...blob.UnpackOption) ([]string, error) {
	if glob == "" {
		glob = "Clock*_res"
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read batch root %s: %w: %w", root, err, errs.ErrSourceNotFound)
	}

	var unpacked []string
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			sink.Info("batch unpack cancelled", "completed", len(unpacked))
			return unpacked, err
		}

		if !e.IsDir() {
			continue
		}
		matched, err := filepath.Match(glob, e.Name())
		if err != nil {
			return nil, fmt.Errorf("batch glob %q: %w", glob, err)
		}
		if !matched {
			continue
		}

		blobPath, err := findBatchBlobFile(filepath.Join(root, e.Name()))
		if err != nil {
			sink.Warn("skipping batch entry, no res-blob file found", "dir", e.Name(), "error", err.Error())
			continue
		}

		dest := outRoot
		if dest == "" {
			dest = root
		}
		outDir := filepath.Join(dest, e.Name()+"_unpacked")

		if _, err := UnpackDir(blobPath, outDir, sink, opts...); err != nil {
			return unpacked, fmt.Errorf("unpack batch entry %s: %w", e.Name(), err)
		}
		unpacked = append(unpacked, outDir)
	}

	return unpacked, nil
}

// findBatchBlobFile locates the single res-blob binary inside a batch
// entry directory: any file whose first 8 bytes match a known magic.
func findBatchBlobFile(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		path := filepath.Join(dir, e.Name())
		head := make([]byte, section.MagicLen)
		f, err := os.Open(path)
		if err != nil {
			continue
		}
		_, err = io.ReadFull(f, head)
		f.Close()
		if err != nil {
			continue
		}
		if bytes.Equal(head, []byte(section.MagicDefault)) || bytes.Equal(head, []byte(section.MagicIdle)) {
			return path, nil
		}
	}

	return "", fmt.Errorf("no res-blob file found in %s: %w", dir, errs.ErrSourceNotFound)
}

// Validate runs the Layout Validator against a watchface source
// directory without packing it, reporting the same file-count
// diagnostic PackDir logs and returning every cross-reference mismatch
// validate.Files finds.
func Validate(srcDir string, sink *diag.Sink) error {
	desc, files, err := loadSourceDir(srcDir)
	if err != nil {
		return err
	}

	checkFileCountDiagnostic(desc, files, sink)

	diskNames := make([]string, 0, len(files))
	for _, f := range files {
		diskNames = append(diskNames, f.Filename)
	}

	return validate.Files(desc.Layers, validate.BuildFileSet(diskNames))
}
