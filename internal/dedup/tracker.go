// Package dedup tracks two independent kinds of duplication the Res-Blob
// Assembler needs while building a single region (main or Z):
// the spec-mandated filename dedup (two imgArr entries naming the same
// file must resolve to one stored chunk), and a diagnostic-only
// content-fingerprint dedup that flags byte-identical chunks hiding under
// different filenames, which the filename-keyed rule alone would miss.
package dedup

import (
	"fmt"

	"github.com/dtno1/clockres/errs"
)

// DuplicateContent records one content collision: two different filenames
// whose prepared chunk bytes hashed identically.
type DuplicateContent struct {
	Fingerprint uint64
	First       string
	Second      string
}

// Tracker accumulates dedup state for a single region. A fresh Tracker
// must be used per region since offsets are region-relative.
type Tracker struct {
	offsets      map[string]int    // filename -> offset already claimed in this region
	order        []string          // first-seen filename order, for payload traversal
	contentNames map[uint64]string // content fingerprint -> first filename producing it
	duplicates   []DuplicateContent
}

// NewTracker creates a new dedup tracker for one region.
func NewTracker() *Tracker {
	return &Tracker{
		offsets:      make(map[string]int),
		contentNames: make(map[uint64]string),
	}
}

// TrackAsset registers filename at offset if this is the first time it is
// seen in the region. If filename was already tracked, the previously
// claimed offset is returned unchanged and isNew is false, so the caller
// reuses the existing stored chunk instead of writing a second copy.
func (t *Tracker) TrackAsset(filename string, offset int) (usedOffset int, isNew bool) {
	if existing, ok := t.offsets[filename]; ok {
		return existing, false
	}

	t.offsets[filename] = offset
	t.order = append(t.order, filename)

	return offset, true
}

// TrackContent records a prepared chunk's content fingerprint. It returns
// a non-nil, non-aborting error wrapping errs.ErrDuplicateAssetContent the
// first time a fingerprint recurs under a different filename than the one
// that first produced it; callers log this rather than fail the pack.
func (t *Tracker) TrackContent(filename string, fingerprint uint64) error {
	existing, ok := t.contentNames[fingerprint]
	if !ok {
		t.contentNames[fingerprint] = filename
		return nil
	}

	if existing == filename {
		return nil
	}

	t.duplicates = append(t.duplicates, DuplicateContent{
		Fingerprint: fingerprint,
		First:       existing,
		Second:      filename,
	})

	return fmt.Errorf("%s duplicates %s: %w", filename, existing, errs.ErrDuplicateAssetContent)
}

// Duplicates returns every content collision recorded so far.
func (t *Tracker) Duplicates() []DuplicateContent {
	return t.duplicates
}

// Order returns the first-seen filename order, matching the order in
// which TrackAsset introduced each distinct filename.
func (t *Tracker) Order() []string {
	return t.order
}

// Count returns the number of distinct filenames tracked.
func (t *Tracker) Count() int {
	return len(t.order)
}

// Reset clears all tracked state, allowing reuse across regions.
func (t *Tracker) Reset() {
	for k := range t.offsets {
		delete(t.offsets, k)
	}
	for k := range t.contentNames {
		delete(t.contentNames, k)
	}
	t.order = t.order[:0]
	t.duplicates = t.duplicates[:0]
}
