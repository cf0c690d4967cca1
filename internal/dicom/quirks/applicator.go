package quirks

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"
)

// Applicator applies the configured quirks to generated files.
type Applicator struct {
	config Config
}

// NewApplicator creates an applicator for config.
func NewApplicator(config Config) *Applicator {
	return &Applicator{config: config}
}

// paddedTags are rewritten with trailing padding by PaddedStrings.
var paddedTags = map[tag.Tag]string{
	tag.ProtocolName:      "   ",
	tag.SeriesDescription: " ",
	tag.SequenceName:      " ",
	tag.SeriesInstanceUID: "\x00",
	tag.StudyInstanceUID:  "\x00",
}

// Apply returns the metadata of one file with element-level quirks applied.
// The input slice is not modified.
func (a *Applicator) Apply(elements []*dicom.Element) ([]*dicom.Element, error) {
	out := make([]*dicom.Element, 0, len(elements)+len(brukerPrivateElements()))
	for _, elem := range elements {
		if a.config.Has(MissingSeriesUID) && elem.Tag == tag.SeriesInstanceUID {
			continue
		}
		if pad, ok := paddedTags[elem.Tag]; ok && a.config.Has(PaddedStrings) {
			padded, err := padElement(elem, pad)
			if err != nil {
				return nil, err
			}
			elem = padded
		}
		out = append(out, elem)
	}
	if a.config.Has(VendorPrivate) {
		out = append(out, brukerPrivateElements()...)
	}
	return out, nil
}

func padElement(elem *dicom.Element, pad string) (*dicom.Element, error) {
	values, ok := elem.Value.GetValue().([]string)
	if !ok {
		return elem, nil
	}
	padded := make([]string, len(values))
	for i, v := range values {
		padded[i] = v + pad
	}
	value, err := dicom.NewValue(padded)
	if err != nil {
		return nil, fmt.Errorf("pad %v: %w", elem.Tag, err)
	}
	clone := *elem
	clone.Value = value
	return &clone, nil
}

// WriteOptions returns the writer options the selected quirks need.
func (a *Applicator) WriteOptions() []dicom.WriteOption {
	if a.config.Has(VendorPrivate) || a.config.Has(PaddedStrings) {
		return []dicom.WriteOption{dicom.SkipVRVerification(), dicom.SkipValueTypeVerification()}
	}
	return nil
}

// PatchFile applies byte-level quirks to a written file.
func (a *Applicator) PatchFile(path string) error {
	if !a.config.Has(OddPixelLength) {
		return nil
	}
	return PatchOddPixelLength(path)
}

// strayFiles are written into the session directory by StrayFiles.
var strayFiles = map[string]string{
	"README.txt": "ParaVision export\n",
	"DICOMDIR":   "not a real index\n",
	".DS_Store":  "\x00\x00\x00\x01Bud1",
	"subject":    "##TITLE=Parameter List, ParaVision 6.0.1\n",
}

// WriteStrayFiles drops non-DICOM files into dir when StrayFiles is on.
func (a *Applicator) WriteStrayFiles(dir string) error {
	if !a.config.Has(StrayFiles) {
		return nil
	}
	for name, content := range strayFiles {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			return fmt.Errorf("write stray file: %w", err)
		}
	}
	return nil
}
