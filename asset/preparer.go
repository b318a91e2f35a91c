// Package asset implements the Asset Preparer: turning each source image
// in a watchface directory into an ordered, ready-to-embed device-RGB
// chunk (header + payload).
package asset

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dtno1/clockres/errs"
	"github.com/dtno1/clockres/format"
	"github.com/dtno1/clockres/pixel"
	"github.com/dtno1/clockres/section"
)

// Source is one file read from a watchface directory, already loaded into
// memory by the caller (directory traversal and file I/O are external
// collaborators — see SPEC_FULL.md's ambient stack).
type Source struct {
	// Filename is the on-disk name, including extension.
	Filename string
	Data     []byte
}

// Prepared is one file's fully-encoded chunk, ready to be placed in a
// res-blob region by the assembler.
type Prepared struct {
	Filename string
	Header   section.ChunkHeader
	Payload  []byte
}

// Options configures the preparer.
type Options struct {
	// Compress enables LZ4 compression of device-RGB chunk payloads
	// (ignored for opaque JPG/GIF media, which is never compressed).
	Compress bool
}

// Prepare transcodes every source in order, returning one Prepared per
// input in the same order regardless of which file's transcode finishes
// first — the pixel transcode fans out across goroutines (the only
// data-parallel stage), but the Preparer's own traversal order, not
// completion order, determines payload placement.
func Prepare(sources []Source, opts Options) ([]Prepared, error) {
	results := make([]Prepared, len(sources))
	errsOut := make([]error, len(sources))

	var wg sync.WaitGroup
	for i, src := range sources {
		wg.Add(1)
		go func(i int, src Source) {
			defer wg.Done()
			p, err := prepareOne(src, opts)
			if err != nil {
				errsOut[i] = fmt.Errorf("%s: %w", src.Filename, err)
				return
			}
			results[i] = p
		}(i, src)
	}
	wg.Wait()

	for _, err := range errsOut {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}

func prepareOne(src Source, opts Options) (Prepared, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(src.Filename), "."))
	stem := strings.TrimSuffix(filepath.Base(src.Filename), filepath.Ext(src.Filename))

	switch ext {
	case "png", "bmp":
		return prepareRaster(src, ext, stem, opts)
	case "jpg", "jpeg":
		return prepareOpaque(src, format.ImgTypeJPG)
	case "gif":
		return prepareOpaque(src, format.ImgTypeGIF)
	default:
		return Prepared{}, fmt.Errorf("unrecognized image extension %q: %w", ext, errs.ErrConfigParse)
	}
}

func prepareRaster(src Source, ext, stem string, opts Options) (Prepared, error) {
	var bmp *pixel.BMP
	var err error

	if ext == "png" {
		bmp, err = pixel.DecodePNGToBMP(src.Data)
	} else {
		bmp, err = pixel.DecodeBMP(src.Data)
	}
	if err != nil {
		return Prepared{}, err
	}

	pf, err := pixel.SelectFormat(stem, bmp.BPP)
	if err != nil {
		return Prepared{}, err
	}

	header, payload, err := pixel.Transcode(bmp, pf)
	if err != nil {
		return Prepared{}, err
	}

	if opts.Compress {
		header, payload, err = section.Compress(header, payload)
		if err != nil {
			return Prepared{}, err
		}
	}

	return Prepared{Filename: src.Filename, Header: header, Payload: payload}, nil
}

// prepareOpaque embeds JPG/GIF bytes verbatim behind a synthesized chunk
// header; dimensions come from a header-only decode, never the full image.
func prepareOpaque(src Source, imgType format.ImgType) (Prepared, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(src.Data))
	if err != nil {
		return Prepared{}, fmt.Errorf("decode %s dimensions: %w: %w", imgType, err, errs.ErrInvalidHeader)
	}

	if err := section.ValidatePayloadLen(len(src.Data)); err != nil {
		return Prepared{}, err
	}

	header := section.ChunkHeader{
		ImgType:    imgType,
		Width:      uint16(cfg.Width),
		Height:     uint16(cfg.Height),
		PayloadLen: uint32(len(src.Data)),
	}

	return Prepared{Filename: src.Filename, Header: header, Payload: src.Data}, nil
}
