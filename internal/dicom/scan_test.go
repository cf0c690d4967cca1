package dicom

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/mrsinham/bidsheur/internal/dicom/quirks"
	"github.com/mrsinham/bidsheur/internal/heuristic"
)

func TestScanSeries_SampleSession(t *testing.T) {
	out := t.TempDir()
	if _, err := GenerateSession(t.Context(), SampleOptions{Output: out, Subject: "rat01", Session: "01", ImagesPerSeries: 3}); err != nil {
		t.Fatalf("GenerateSession returned error: %v", err)
	}

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	series, err := ScanSeries(t.Context(), out, ScanOptions{Workers: 3, Logger: logger})
	if err != nil {
		t.Fatalf("ScanSeries returned error: %v", err)
	}
	if len(series) != 8 {
		t.Fatalf("got %d series, want 8", len(series))
	}

	var ids, dirs []string
	for _, s := range series {
		ids = append(ids, s.SeriesID)
		dirs = append(dirs, s.DcmDirName)
		if s.NumFiles != 3 {
			t.Errorf("series %s has %d files, want 3", s.SeriesID, s.NumFiles)
		}
	}
	wantDirs := []string{"10001", "20001", "30001", "40001", "50001", "50002", "60001", "60002"}
	if !reflect.DeepEqual(dirs, wantDirs) {
		t.Errorf("dirs = %v, want %v", dirs, wantDirs)
	}
	if ids[3] != "40001-B0MAP" {
		t.Errorf("series ID = %q, want 40001-B0MAP", ids[3])
	}
	if !strings.Contains(logs.String(), "scan complete") {
		t.Errorf("expected summary log, got %q", logs.String())
	}
}

func TestScanSeries_ClassifiesSampleSession(t *testing.T) {
	out := t.TempDir()
	if _, err := GenerateSession(t.Context(), SampleOptions{Output: out, Subject: "rat01", Session: "01"}); err != nil {
		t.Fatalf("GenerateSession returned error: %v", err)
	}
	series, err := ScanSeries(t.Context(), out, ScanOptions{})
	if err != nil {
		t.Fatalf("ScanSeries returned error: %v", err)
	}
	rs, err := heuristic.RestAwake9T()
	if err != nil {
		t.Fatalf("RestAwake9T returned error: %v", err)
	}
	info, err := heuristic.Classify(rs, series)
	if err != nil {
		t.Fatalf("Classify returned error: %v", err)
	}

	want := map[string][]string{
		"t2w":                    {"30001-T2_TurboRARE"},
		"t1w":                    {"20001-T1_FLASH_3D"},
		"func_rest_magnitude_R":  {"50001-T2star_FID_EPI_sat"},
		"func_rest_phase_R":      {"50002-T2star_FID_EPI_sat"},
		"func_rest_magnitude_RV": {"60001-T2star_FID_EPI_sat"},
		"func_rest_phase_RV":     {"60002-T2star_FID_EPI_sat"},
		"func_rest_40avg_R":      {"50001-T2star_FID_EPI_sat"},
		"func_rest_40avg_RV":     {"60002-T2star_FID_EPI_sat"},
		"func_rest_20avg_R":      {"50001-T2star_FID_EPI_sat"},
		"func_rest_20avg_RV":     {"60002-T2star_FID_EPI_sat"},
		"fmap":                   {"40001-B0MAP"},
	}
	for _, b := range info.Buckets() {
		if !reflect.DeepEqual(b.SeriesIDs, want[b.Name]) {
			t.Errorf("bucket %s = %v, want %v", b.Name, b.SeriesIDs, want[b.Name])
		}
	}
}

func TestScanSeries_SkipsNonDICOM(t *testing.T) {
	out := t.TempDir()
	if _, err := GenerateSession(t.Context(), SampleOptions{
		Output:  out,
		Subject: "rat01",
		Series:  []SampleSeries{{Dir: "20001", Protocol: "T1_FLASH_3D", Description: "T1"}},
	}); err != nil {
		t.Fatalf("GenerateSession returned error: %v", err)
	}
	seriesDir := filepath.Join(out, "rat01", "20001")
	for name, content := range map[string]string{
		"notes.txt": "acquisition notes",
		"DICOMDIR":  "index",
		".hidden":   "x",
	} {
		if err := os.WriteFile(filepath.Join(seriesDir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	series, err := ScanSeries(t.Context(), out, ScanOptions{})
	if err != nil {
		t.Fatalf("ScanSeries returned error: %v", err)
	}
	if len(series) != 1 || series[0].NumFiles != 1 {
		t.Fatalf("unexpected series %+v", series)
	}
}

func TestScanSeries_NoSeries(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("nothing here"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	_, err := ScanSeries(t.Context(), dir, ScanOptions{})
	if !errors.Is(err, ErrNoSeries) {
		t.Errorf("ScanSeries error = %v, want ErrNoSeries", err)
	}
}

func TestScanSeries_Canceled(t *testing.T) {
	out := t.TempDir()
	if _, err := GenerateSession(t.Context(), SampleOptions{Output: out, Subject: "rat01"}); err != nil {
		t.Fatalf("GenerateSession returned error: %v", err)
	}
	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	if _, err := ScanSeries(ctx, out, ScanOptions{}); !errors.Is(err, context.Canceled) {
		t.Errorf("ScanSeries error = %v, want context.Canceled", err)
	}
}

func TestGroupSeries_IDCollision(t *testing.T) {
	headers := []fileHeader{
		{path: "/s/b/1.dcm", ok: true, seriesUID: "u2", seriesNumber: 5, protocolName: "EPI"},
		{path: "/s/a/1.dcm", ok: true, seriesUID: "u1", seriesNumber: 5, protocolName: "EPI"},
		{path: "/s/c/1.dcm", ok: true, seriesNumber: 3, protocolName: "T2"},
		{path: "/s/c/2.dcm", ok: true, seriesNumber: 3, protocolName: "T2"},
		{path: "/s/c/junk", ok: false},
	}
	got := groupSeries(headers)

	var ids []string
	for _, s := range got {
		ids = append(ids, s.SeriesID)
	}
	want := []string{"3-T2", "5-EPI-a", "5-EPI-b"}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("series IDs = %v, want %v", ids, want)
	}
	if got[0].NumFiles != 2 {
		t.Errorf("directory-grouped series has %d files, want 2", got[0].NumFiles)
	}
}

func TestRunPool_FirstErrorWins(t *testing.T) {
	boom := errors.New("boom")
	var progress int
	err := runPool(t.Context(), 2, 10, func(i int) error {
		if i == 3 {
			return boom
		}
		return nil
	}, func(done, total int) { progress = done })
	if !errors.Is(err, boom) {
		t.Errorf("runPool error = %v, want boom", err)
	}
	if progress == 0 {
		t.Error("expected progress callbacks")
	}
}

func TestScanSeries_ToleratesExportQuirks(t *testing.T) {
	out := t.TempDir()
	files, err := GenerateSession(t.Context(), SampleOptions{
		Output:          out,
		Subject:         "rat01",
		Session:         "01",
		ImagesPerSeries: 2,
		Quirks:          quirks.Config{Types: quirks.All()},
	})
	if err != nil {
		t.Fatalf("GenerateSession returned error: %v", err)
	}
	for _, f := range files {
		if f.SeriesUID != "" {
			t.Fatalf("expected no recorded series UID, got %q", f.SeriesUID)
		}
	}
	if _, err := os.Stat(filepath.Join(out, "rat01_01", "README.txt")); err != nil {
		t.Fatalf("expected stray files in the session directory: %v", err)
	}

	series, err := ScanSeries(t.Context(), out, ScanOptions{Workers: 2})
	if err != nil {
		t.Fatalf("ScanSeries returned error: %v", err)
	}
	if len(series) != 8 {
		t.Fatalf("got %d series, want 8", len(series))
	}
	for _, s := range series {
		if s.SeriesUID != "" {
			t.Errorf("series %s should have been grouped by directory, UID %q", s.SeriesID, s.SeriesUID)
		}
		if s.NumFiles != 2 {
			t.Errorf("series %s has %d files, want 2", s.SeriesID, s.NumFiles)
		}
	}
	if got := series[2].SeriesID; got != "30001-T2_TurboRARE" {
		t.Errorf("padded protocol should be trimmed, got series ID %q", got)
	}

	rs, err := heuristic.RestAwake9T()
	if err != nil {
		t.Fatalf("RestAwake9T returned error: %v", err)
	}
	info, err := rs.InfoToDict(series)
	if err != nil {
		t.Fatalf("InfoToDict returned error: %v", err)
	}
	if ids, _ := info.ByName("fmap"); !reflect.DeepEqual(ids, []string{"40001-B0MAP"}) {
		t.Errorf("fmap = %v", ids)
	}
}
