// Package errs centralizes the sentinel errors returned by the res-blob
// codec, following the same wrap-a-sentinel-with-context convention used
// throughout the encoder/decoder: callers compare with errors.Is against
// the sentinels here, while fmt.Errorf("...: %w", ...) call sites add the
// file/offset/field detail.
package errs

import "errors"

var (
	// ErrSourceNotFound is returned when the watchface source directory,
	// its config.json, or an explicitly named override path does not exist.
	ErrSourceNotFound = errors.New("resblob: source not found")

	// ErrConfigParse is returned when config.json cannot be parsed as a
	// JSON array of layer objects.
	ErrConfigParse = errors.New("resblob: config parse error")

	// ErrAssetMissing is returned when a layer's imgArr references a file
	// that does not exist on disk (case-insensitively).
	ErrAssetMissing = errors.New("resblob: asset missing")

	// ErrCountMismatch is returned when len(imgArr) != num for a layer.
	ErrCountMismatch = errors.New("resblob: image count mismatch")

	// ErrUnsupportedBPP is returned when a BMP's bits-per-pixel is not one
	// of 16, 24, or 32.
	ErrUnsupportedBPP = errors.New("resblob: unsupported BMP bits-per-pixel")

	// ErrFormatBPPMismatch is returned when a filename's suffix requests a
	// pixel format that the source image's bpp cannot produce.
	ErrFormatBPPMismatch = errors.New("resblob: pixel format and bpp mismatch")

	// ErrUnsupportedResolution is returned when a requested or
	// auto-detected watchface resolution has no entry in the clock-id
	// prefix table, or (for auto-detection) is not in the allowed subset.
	ErrUnsupportedResolution = errors.New("resblob: unsupported watchface resolution")

	// ErrBadClockID is returned when a clock id base is outside [50000, 65535].
	ErrBadClockID = errors.New("resblob: clock id out of range")

	// ErrThumbnailMissing is returned when an explicit thumbnail override
	// path does not exist.
	ErrThumbnailMissing = errors.New("resblob: thumbnail missing")

	// ErrCompressionFailure is returned when LZ4 compression or
	// decompression of a device-RGB chunk payload fails.
	ErrCompressionFailure = errors.New("resblob: compression failure")

	// ErrIO wraps an underlying filesystem error encountered while
	// reading or writing watchface assets or the res-blob file.
	ErrIO = errors.New("resblob: io failure")

	// ErrChunkTooLarge is returned when a device-RGB chunk's uncompressed
	// payload would exceed the 24-bit payload_len field's 16 MiB limit.
	ErrChunkTooLarge = errors.New("resblob: chunk payload exceeds 16MiB")

	// ErrInvalidHeader is returned when a res-blob or device-RGB chunk
	// header fails to parse (wrong size, bad magic, invalid img_type).
	ErrInvalidHeader = errors.New("resblob: invalid header")

	// ErrDuplicateAssetContent is a diagnostic-only condition (never
	// aborts a pack): two differently-named source files produced
	// byte-identical prepared chunks.
	ErrDuplicateAssetContent = errors.New("resblob: duplicate asset content under different names")
)

// ValidationErrors aggregates every mismatch the layout validator found,
// so that pack reports all problems in one pass instead of stopping at
// the first (see the validate package).
type ValidationErrors struct {
	Errors []error
}

func (v *ValidationErrors) Error() string {
	if len(v.Errors) == 0 {
		return "resblob: no validation errors"
	}

	msg := v.Errors[0].Error()
	if len(v.Errors) > 1 {
		msg += " (and more issues)"
	}

	return msg
}

// Add appends err to the aggregate. A nil err is ignored.
func (v *ValidationErrors) Add(err error) {
	if err != nil {
		v.Errors = append(v.Errors, err)
	}
}

// HasErrors reports whether any error has been recorded.
func (v *ValidationErrors) HasErrors() bool {
	return len(v.Errors) > 0
}

// Unwrap allows errors.Is/errors.As to see through to each aggregated error.
func (v *ValidationErrors) Unwrap() []error {
	return v.Errors
}

// ErrOrNil returns v as an error if it holds at least one entry, or nil.
func ErrOrNil(v *ValidationErrors) error {
	if v == nil || !v.HasErrors() {
		return nil
	}

	return v
}
