package dicom

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"math"
	randv2 "math/rand/v2"
	"os"
	"path/filepath"
	"strconv"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/frame"
	"github.com/suyashkumar/dicom/pkg/tag"

	"github.com/mrsinham/bidsheur/internal/bids"
	"github.com/mrsinham/bidsheur/internal/dicom/quirks"
)

const (
	mrImageStorage   = "1.2.840.10008.5.1.4.1.1.4"
	explicitVRLittle = "1.2.840.10008.1.2.1"
	bitsStored       = 12
	maxPixelValue    = 1<<bitsStored - 1
	defaultFrameSize = 64
)

// SampleSeries describes one acquisition of a synthetic session.
type SampleSeries struct {
	Dir          string
	Protocol     string
	Description  string
	SequenceName string
}

// RestAwakeSession lists the series a 9.4T rest-awake export contains, in
// acquisition order. EPI runs are split into magnitude (...1) and phase
// (...2) directories.
var RestAwakeSession = []SampleSeries{
	{Dir: "10001", Protocol: "1_Localizer", Description: "1_Localizer", SequenceName: "FLASH"},
	{Dir: "20001", Protocol: "T1_FLASH_3D", Description: "T1_FLASH_3D", SequenceName: "FLASH"},
	{Dir: "30001", Protocol: "T2_TurboRARE", Description: "T2_TurboRARE", SequenceName: "RARE"},
	{Dir: "40001", Protocol: "B0MAP", Description: "B0MAP", SequenceName: "FieldMap"},
	{Dir: "50001", Protocol: "T2star_FID_EPI_sat", Description: "T2star_FID_EPI_sat_R_40avg", SequenceName: "EPI"},
	{Dir: "50002", Protocol: "T2star_FID_EPI_sat", Description: "T2star_FID_EPI_sat_R_40avg", SequenceName: "EPI"},
	{Dir: "60001", Protocol: "T2star_FID_EPI_sat", Description: "T2star_FID_EPI_sat_RV_40avg", SequenceName: "EPI"},
	{Dir: "60002", Protocol: "T2star_FID_EPI_sat", Description: "T2star_FID_EPI_sat_RV_40avg", SequenceName: "EPI"},
}

// SampleOptions configures GenerateSession.
type SampleOptions struct {
	Output          string
	Subject         string
	Session         string
	ImagesPerSeries int
	Width           int
	Height          int
	Workers         int
	// Series overrides RestAwakeSession when set.
	Series []SampleSeries
	// Quirks reproduces export irregularities in the written files.
	Quirks quirks.Config
}

// GeneratedFile contains information about a generated DICOM file
type GeneratedFile struct {
	Path           string
	SeriesUID      string
	SOPInstanceUID string
	SeriesNumber   int
	InstanceNumber int
}

type imageTask struct {
	file      GeneratedFile
	width     int
	height    int
	label     string
	pixelSeed uint64
	metadata  []*dicom.Element
	writeOpts []dicom.WriteOption
	patch     func(path string) error
}

// GenerateSession writes <Output>/<Subject>_<Session>/<dir>/IM%04d.dcm for
// every series. UIDs and pixels derive from the output path and subject,
// so the same options produce the same files.
func GenerateSession(ctx context.Context, opts SampleOptions) ([]GeneratedFile, error) {
	if opts.Output == "" {
		return nil, errors.New("sample output directory is required")
	}
	subject := bids.NormalizeSubject(opts.Subject)
	if subject == "" {
		return nil, errors.New("sample subject is required")
	}
	if opts.ImagesPerSeries <= 0 {
		opts.ImagesPerSeries = 1
	}
	if opts.Width <= 0 {
		opts.Width = defaultFrameSize
	}
	if opts.Height <= 0 {
		opts.Height = defaultFrameSize
	}
	series := opts.Series
	if len(series) == 0 {
		series = RestAwakeSession
	}

	sessionDir := subject
	if opts.Session != "" {
		sessionDir += "_" + opts.Session
	}
	base := filepath.Join(opts.Output, sessionDir)
	seed := fmt.Sprintf("%s/%s", base, subject)

	applicator := quirks.NewApplicator(opts.Quirks)
	if err := os.MkdirAll(base, 0o755); err != nil {
		return nil, fmt.Errorf("create session directory: %w", err)
	}
	if err := applicator.WriteStrayFiles(base); err != nil {
		return nil, err
	}

	studyUID := deterministicUID(seed + "_study")
	frameOfReferenceUID := deterministicUID(seed + "_frame")

	var tasks []imageTask
	for _, s := range series {
		seriesNumber, err := strconv.Atoi(s.Dir)
		if err != nil {
			return nil, fmt.Errorf("series directory %q is not numeric: %w", s.Dir, err)
		}
		dir := filepath.Join(base, s.Dir)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create series directory: %w", err)
		}
		seriesUID := deterministicUID(fmt.Sprintf("%s_series_%s", seed, s.Dir))
		recordedUID := seriesUID
		if opts.Quirks.Has(quirks.MissingSeriesUID) {
			recordedUID = ""
		}

		for n := 1; n <= opts.ImagesPerSeries; n++ {
			sopUID := deterministicUID(fmt.Sprintf("%s_series_%s_instance_%d", seed, s.Dir, n))
			metadata := []*dicom.Element{
				mustNewElement(tag.TransferSyntaxUID, []string{explicitVRLittle}),
				mustNewElement(tag.MediaStorageSOPClassUID, []string{mrImageStorage}),
				mustNewElement(tag.MediaStorageSOPInstanceUID, []string{sopUID}),
				mustNewElement(tag.SOPClassUID, []string{mrImageStorage}),
				mustNewElement(tag.SOPInstanceUID, []string{sopUID}),
				mustNewElement(tag.Modality, []string{"MR"}),
				mustNewElement(tag.Manufacturer, []string{"Bruker BioSpin MRI GmbH"}),
				mustNewElement(tag.StudyDescription, []string{"rest_awake"}),
				mustNewElement(tag.SeriesDescription, []string{s.Description}),
				mustNewElement(tag.PatientName, []string{subject}),
				mustNewElement(tag.PatientID, []string{subject}),
				mustNewElement(tag.SequenceName, []string{s.SequenceName}),
				mustNewElement(tag.ProtocolName, []string{s.Protocol}),
				mustNewElement(tag.MagneticFieldStrength, []string{"9.4"}),
				mustNewElement(tag.StudyInstanceUID, []string{studyUID}),
				mustNewElement(tag.SeriesInstanceUID, []string{seriesUID}),
				mustNewElement(tag.SeriesNumber, []string{strconv.Itoa(seriesNumber)}),
				mustNewElement(tag.InstanceNumber, []string{strconv.Itoa(n)}),
				mustNewElement(tag.FrameOfReferenceUID, []string{frameOfReferenceUID}),
				mustNewElement(tag.SamplesPerPixel, []int{1}),
				mustNewElement(tag.PhotometricInterpretation, []string{"MONOCHROME2"}),
				mustNewElement(tag.Rows, []int{opts.Height}),
				mustNewElement(tag.Columns, []int{opts.Width}),
				mustNewElement(tag.BitsAllocated, []int{16}),
				mustNewElement(tag.BitsStored, []int{bitsStored}),
				mustNewElement(tag.HighBit, []int{bitsStored - 1}),
				mustNewElement(tag.PixelRepresentation, []int{0}),
			}
			metadata, err = applicator.Apply(metadata)
			if err != nil {
				return nil, err
			}

			h := fnv.New64a()
			_, _ = fmt.Fprintf(h, "%s_pixel_%s_%d", seed, s.Dir, n)

			tasks = append(tasks, imageTask{
				file: GeneratedFile{
					Path:           filepath.Join(dir, fmt.Sprintf("IM%04d.dcm", n)),
					SeriesUID:      recordedUID,
					SOPInstanceUID: sopUID,
					SeriesNumber:   seriesNumber,
					InstanceNumber: n,
				},
				width:     opts.Width,
				height:    opts.Height,
				label:     fmt.Sprintf("File %d/%d", n, opts.ImagesPerSeries),
				pixelSeed: h.Sum64(),
				metadata:  metadata,
				writeOpts: applicator.WriteOptions(),
				patch:     applicator.PatchFile,
			})
		}
	}

	err := runPool(ctx, opts.Workers, len(tasks), func(i int) error {
		return writeImage(tasks[i])
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("generate session: %w", err)
	}

	files := make([]GeneratedFile, len(tasks))
	for i, t := range tasks {
		files[i] = t.file
	}
	return files, nil
}

// writeImage renders a radial gradient with noise, labels it and writes the file.
func writeImage(task imageTask) error {
	width, height := task.width, task.height
	rng := randv2.New(randv2.NewPCG(task.pixelSeed, task.pixelSeed))

	nativeFrame := frame.NewNativeFrame[uint16](16, height, width, width*height, 1)
	centerX, centerY := float64(width)/2, float64(height)/2
	maxDist := math.Sqrt(centerX*centerX + centerY*centerY)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			dx, dy := float64(x)-centerX, float64(y)-centerY
			intensity := 2048 + (1-math.Sqrt(dx*dx+dy*dy)/maxDist)*1200 + (rng.Float64()-0.5)*600
			nativeFrame.RawData[y*width+x] = uint16(math.Max(0, math.Min(maxPixelValue, intensity)))
		}
	}
	if err := drawLabel(nativeFrame.RawData, width, height, task.label, maxPixelValue); err != nil {
		return err
	}

	elements := make([]*dicom.Element, 0, len(task.metadata)+1)
	elements = append(elements, task.metadata...)
	elements = append(elements, mustNewElement(tag.PixelData, dicom.PixelDataInfo{
		Frames: []*frame.Frame{{Encapsulated: false, NativeData: nativeFrame}},
	}))
	sortElements(elements)

	if err := writeDatasetToFile(task.file.Path, dicom.Dataset{Elements: elements}, task.writeOpts...); err != nil {
		return fmt.Errorf("write %s: %w", task.file.Path, err)
	}
	if task.patch != nil {
		if err := task.patch(task.file.Path); err != nil {
			return fmt.Errorf("patch %s: %w", task.file.Path, err)
		}
	}
	return nil
}
