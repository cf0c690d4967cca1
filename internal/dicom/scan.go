package dicom

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"

	"github.com/mrsinham/bidsheur/internal/heuristic"
	"github.com/mrsinham/bidsheur/internal/logging"
)

// ErrNoSeries is returned when a scan finds no readable DICOM file.
var ErrNoSeries = errors.New("no DICOM series found")

// ScanOptions configures ScanSeries.
type ScanOptions struct {
	// Workers is the number of parsing goroutines; 0 means one per CPU.
	Workers int
	// Logger receives skipped-file and summary records. Nil discards them.
	Logger *slog.Logger
	// ProgressCallback is called after each file is parsed.
	ProgressCallback func(done, total int)
}

// fileHeader is the subset of a parsed file that identifies its series.
type fileHeader struct {
	path              string
	ok                bool
	seriesUID         string
	seriesNumber      int
	protocolName      string
	seriesDescription string
	sequenceName      string
	modality          string
	patientID         string
	studyDescription  string
}

// ScanSeries parses every regular file under root and groups the readable
// DICOM files into one SeqInfo per series, sorted by series number then
// directory name.
func ScanSeries(ctx context.Context, root string, opts ScanOptions) ([]heuristic.SeqInfo, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logger.With(logging.FieldComponent, "scanner")

	paths, err := listFiles(root)
	if err != nil {
		return nil, err
	}

	headers := make([]fileHeader, len(paths))
	err = runPool(ctx, opts.Workers, len(paths), func(i int) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		h, err := readHeader(paths[i])
		if err != nil {
			logger.Debug("skipping unreadable file", logging.FieldPath, paths[i], "error", err)
			headers[i] = fileHeader{path: paths[i]}
			return nil
		}
		headers[i] = h
		return nil
	}, opts.ProgressCallback)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}

	series := groupSeries(headers)
	if len(series) == 0 {
		return nil, fmt.Errorf("%w under %s", ErrNoSeries, root)
	}
	logger.Info("scan complete", "files", len(paths), "series", len(series))
	return series, nil
}

// listFiles walks root in lexical order, skipping hidden entries and
// DICOMDIR index files.
func listFiles(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat scan root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("scan root %s is not a directory", root)
	}

	var paths []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if path != root && strings.HasPrefix(name, ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() || strings.EqualFold(name, "DICOMDIR") {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	return paths, nil
}

// readHeader parses a file element by element without pixel data, keeping
// whatever parsed before the first error.
func readHeader(path string) (fileHeader, error) {
	ds, err := parseDICOMTolerant(path)
	if err != nil {
		return fileHeader{}, err
	}
	return fileHeader{
		path:              path,
		ok:                true,
		seriesUID:         stringValue(ds, tag.SeriesInstanceUID),
		seriesNumber:      intValue(ds, tag.SeriesNumber),
		protocolName:      stringValue(ds, tag.ProtocolName),
		seriesDescription: stringValue(ds, tag.SeriesDescription),
		sequenceName:      stringValue(ds, tag.SequenceName),
		modality:          stringValue(ds, tag.Modality),
		patientID:         stringValue(ds, tag.PatientID),
		studyDescription:  stringValue(ds, tag.StudyDescription),
	}, nil
}

func parseDICOMTolerant(path string) (dicom.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return dicom.Dataset{}, err
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return dicom.Dataset{}, err
	}

	p, err := dicom.NewParser(f, info.Size(), nil, dicom.SkipPixelData())
	if err != nil {
		return dicom.Dataset{}, err
	}

	var elements []*dicom.Element
	for {
		elem, err := p.Next()
		if err != nil {
			break
		}
		elements = append(elements, elem)
	}
	if len(elements) == 0 {
		return dicom.Dataset{}, errors.New("no elements parsed")
	}

	meta := p.GetMetadata()
	return dicom.Dataset{Elements: append(meta.Elements, elements...)}, nil
}

// groupSeries folds file headers into series records in first-seen order,
// then sorts them and assigns series IDs.
func groupSeries(headers []fileHeader) []heuristic.SeqInfo {
	index := make(map[string]int)
	var out []heuristic.SeqInfo

	for _, h := range headers {
		if !h.ok {
			continue
		}
		dir := filepath.Dir(h.path)
		key := h.seriesUID
		if key == "" {
			key = "dir:" + dir
		}
		if i, ok := index[key]; ok {
			out[i].NumFiles++
			continue
		}
		index[key] = len(out)
		out = append(out, heuristic.SeqInfo{
			ProtocolName:      h.protocolName,
			SeriesDescription: h.seriesDescription,
			DcmDirName:        filepath.Base(dir),
			SeriesNumber:      h.seriesNumber,
			SeriesUID:         h.seriesUID,
			SequenceName:      h.sequenceName,
			Modality:          h.modality,
			PatientID:         h.patientID,
			StudyDescription:  h.studyDescription,
			NumFiles:          1,
			ExampleFile:       h.path,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].SeriesNumber != out[j].SeriesNumber {
			return out[i].SeriesNumber < out[j].SeriesNumber
		}
		return out[i].DcmDirName < out[j].DcmDirName
	})

	seen := make(map[string]int, len(out))
	for _, s := range out {
		seen[baseSeriesID(s)]++
	}
	for i := range out {
		id := baseSeriesID(out[i])
		if seen[id] > 1 {
			id += "-" + out[i].DcmDirName
		}
		out[i].SeriesID = id
	}
	return out
}

func baseSeriesID(s heuristic.SeqInfo) string {
	return fmt.Sprintf("%d-%s", s.SeriesNumber, s.ProtocolName)
}
