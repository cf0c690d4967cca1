// Package quirks reproduces irregularities seen in real scanner exports so
// that generated sessions exercise the tolerant paths of the scanner.
package quirks

import (
	"fmt"
	"strings"
)

// Type names one irregularity.
type Type string

const (
	// MissingSeriesUID omits SeriesInstanceUID; files group by directory.
	MissingSeriesUID Type = "missing-series-uid"
	// PaddedStrings pads text values with trailing spaces and UIDs with NUL.
	PaddedStrings Type = "padded-strings"
	// VendorPrivate adds a ParaVision private block.
	VendorPrivate Type = "vendor-private"
	// OddPixelLength patches the PixelData value length to an odd number.
	OddPixelLength Type = "odd-pixel-length"
	// StrayFiles drops non-DICOM files next to the series directories.
	StrayFiles Type = "stray-files"
)

// All returns every known quirk type.
func All() []Type {
	return []Type{MissingSeriesUID, PaddedStrings, VendorPrivate, OddPixelLength, StrayFiles}
}

// Config selects the quirks to apply.
type Config struct {
	Types []Type
}

// ParseTypes parses a comma-separated list. "all" enables every type.
func ParseTypes(input string) ([]Type, error) {
	if strings.TrimSpace(input) == "" {
		return nil, nil
	}

	valid := make(map[Type]bool)
	for _, t := range All() {
		valid[t] = true
	}

	parts := strings.Split(input, ",")
	result := make([]Type, 0, len(parts))
	seen := make(map[Type]bool)
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "all" {
			return All(), nil
		}
		t := Type(p)
		if !valid[t] {
			return nil, fmt.Errorf("unknown quirk %q, valid types: %v (or 'all')", p, All())
		}
		if !seen[t] {
			result = append(result, t)
			seen[t] = true
		}
	}
	return result, nil
}

// IsEnabled reports whether any quirk is selected.
func (c Config) IsEnabled() bool {
	return len(c.Types) > 0
}

// Has reports whether t is selected.
func (c Config) Has(t Type) bool {
	for _, ct := range c.Types {
		if ct == t {
			return true
		}
	}
	return false
}
