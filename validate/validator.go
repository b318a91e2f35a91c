// Package validate implements the Layout Validator: cross-checking a
// descriptor's image references against the files actually present in a
// watchface source directory.
package validate

import (
	"fmt"
	"strings"

	"github.com/dtno1/clockres/errs"
	"github.com/dtno1/clockres/layer"
)

// textSlotDrawType and textSlotIndex identify the one imgArr slot that
// holds inline text rather than a filename reference (§4.5's drawType==55
// index==2 rule), which the validator must not mistake for a missing file.
const (
	textSlotDrawType = 55
	textSlotIndex    = 2
)

// Files cross-checks every layer's imgArr against the given case-folded
// set of filenames actually present on disk, returning every mismatch
// found rather than stopping at the first.
func Files(layers []layer.Layer, diskFiles map[string]bool) error {
	var agg errs.ValidationErrors

	for li, l := range layers {
		if len(l.ImgArr) != int(l.Num) {
			agg.Add(fmt.Errorf("layer %d: imgArr has %d elements, num declares %d: %w", li, len(l.ImgArr), l.Num, errs.ErrCountMismatch))
		}

		for ei, e := range l.ImgArr {
			if e.Kind == layer.KindInteger {
				continue
			}
			if l.DrawType == textSlotDrawType && ei == textSlotIndex {
				continue
			}

			name := e.Name()
			if !diskFiles[strings.ToLower(name)] {
				agg.Add(fmt.Errorf("layer %d imgArr[%d]: file %q: %w", li, ei, name, errs.ErrAssetMissing))
			}
		}
	}

	return errs.ErrOrNil(&agg)
}

// BuildFileSet lowercases a directory's filenames for case-insensitive
// lookup by Files.
func BuildFileSet(filenames []string) map[string]bool {
	set := make(map[string]bool, len(filenames))
	for _, f := range filenames {
		set[strings.ToLower(f)] = true
	}
	return set
}
