package heuristic

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingField is returned when a record lacks a field a rule needs.
	ErrMissingField = errors.New("missing required field")
	// ErrInvalidDirFlag is returned when the last character of the
	// directory name is not a decimal digit.
	ErrInvalidDirFlag = errors.New("directory name does not end in a digit")
)

// SeqInfo is the metadata of one acquisition series.
type SeqInfo struct {
	SeriesID          string `json:"series_id" yaml:"series_id"`
	ProtocolName      string `json:"protocol_name" yaml:"protocol_name"`
	SeriesDescription string `json:"series_description" yaml:"series_description"`
	DcmDirName        string `json:"dcm_dir_name" yaml:"dcm_dir_name"`

	SeriesNumber     int    `json:"series_number,omitempty" yaml:"series_number,omitempty"`
	SeriesUID        string `json:"series_uid,omitempty" yaml:"series_uid,omitempty"`
	SequenceName     string `json:"sequence_name,omitempty" yaml:"sequence_name,omitempty"`
	Modality         string `json:"modality,omitempty" yaml:"modality,omitempty"`
	PatientID        string `json:"patient_id,omitempty" yaml:"patient_id,omitempty"`
	StudyDescription string `json:"study_description,omitempty" yaml:"study_description,omitempty"`
	NumFiles         int    `json:"num_files,omitempty" yaml:"num_files,omitempty"`
	ExampleFile      string `json:"example_file,omitempty" yaml:"example_file,omitempty"`
}

// Validate checks that the series can be referenced from a bucket. Text
// fields may be empty: ProtocolName is optional in DICOM, and an empty value
// simply matches no contains condition.
func (s SeqInfo) Validate() error {
	if s.SeriesID == "" {
		return fmt.Errorf("%w: series_id", ErrMissingField)
	}
	return nil
}

// DirFlag returns the digit at the end of DcmDirName. Bruker exports put
// magnitude images in "...1" directories and phase images in "...2".
func (s SeqInfo) DirFlag() (int, error) {
	if s.DcmDirName == "" {
		return 0, fmt.Errorf("%w: dcm_dir_name", ErrMissingField)
	}
	last := s.DcmDirName[len(s.DcmDirName)-1]
	if last < '0' || last > '9' {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDirFlag, s.DcmDirName)
	}
	return int(last - '0'), nil
}
