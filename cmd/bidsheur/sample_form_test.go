package main

import (
	"slices"
	"testing"

	"github.com/mrsinham/bidsheur/internal/dicom/quirks"
)

func TestSampleAnswersDefaults(t *testing.T) {
	a := newSampleAnswers("", "rat01", "01", 3, "stray-files,padded-strings")
	if a.output != "rest_awake_sample" {
		t.Errorf("output = %q, want default", a.output)
	}
	if a.images != "3" {
		t.Errorf("images = %q", a.images)
	}
	if !slices.Equal(a.quirks, []string{"stray-files", "padded-strings"}) {
		t.Errorf("quirks = %v", a.quirks)
	}
	if a.form() == nil {
		t.Fatal("form should be built")
	}
}

func TestSampleAnswersRequest(t *testing.T) {
	a := &sampleAnswers{output: " out ", subject: "sub-rat02", session: "", images: " 4 ", quirks: []string{"vendor-private"}}
	req, err := a.request()
	if err != nil {
		t.Fatalf("request returned error: %v", err)
	}
	want := sampleRequest{output: "out", subject: "sub-rat02", images: 4, quirks: []quirks.Type{quirks.VendorPrivate}}
	if req.output != want.output || req.subject != want.subject || req.session != "" || req.images != want.images || !slices.Equal(req.quirks, want.quirks) {
		t.Errorf("request() = %+v, want %+v", req, want)
	}
	if err := req.validate(); err != nil {
		t.Errorf("validate returned error: %v", err)
	}

	a.images = "many"
	if _, err := a.request(); err == nil {
		t.Error("expected non-numeric images to fail")
	}
}

func TestSampleValidators(t *testing.T) {
	if err := validateRequired("subject")("  "); err == nil {
		t.Error("expected blank value to fail")
	}
	if err := validateRequired("subject")("rat01"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	for _, bad := range []string{"", "x", "0", "-2"} {
		if err := validatePositiveInt(bad); err == nil {
			t.Errorf("validatePositiveInt(%q) should fail", bad)
		}
	}
	if err := validatePositiveInt(" 12 "); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := (sampleRequest{output: "o", subject: "s", images: 0}).validate(); err == nil {
		t.Error("expected zero images to fail")
	}
}
