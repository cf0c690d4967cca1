package heuristic

import (
	"errors"
	"testing"

	"github.com/mrsinham/bidsheur/internal/bids"
)

func TestCreateKey_RoundTrip(t *testing.T) {
	tests := []struct {
		name        string
		template    string
		opts        []KeyOption
		wantOutType string
		wantClasses string
	}{
		{
			name:        "defaults",
			template:    "sub-{subject}/{session}/anat/sub-{subject}_{session}_run-00{item:01d}_T1w",
			wantOutType: DefaultOutType,
		},
		{
			name:        "custom outtype",
			template:    "sub-{subject}/func/sub-{subject}_bold",
			opts:        []KeyOption{WithOutType("dicom")},
			wantOutType: "dicom",
		},
		{
			name:        "annotation classes",
			template:    "sub-{subject}/anat/sub-{subject}_T2w",
			opts:        []KeyOption{WithAnnotationClasses("lesion")},
			wantOutType: DefaultOutType,
			wantClasses: "lesion",
		},
		{
			name:        "empty outtype keeps default",
			template:    "plain",
			opts:        []KeyOption{WithOutType("")},
			wantOutType: DefaultOutType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := CreateKey(tt.template, tt.opts...)
			if err != nil {
				t.Fatalf("CreateKey(%q) returned error: %v", tt.template, err)
			}
			if key.Template != tt.template {
				t.Errorf("Template = %q, want %q", key.Template, tt.template)
			}
			if key.OutType != tt.wantOutType {
				t.Errorf("OutType = %q, want %q", key.OutType, tt.wantOutType)
			}
			if key.AnnotationClasses != tt.wantClasses {
				t.Errorf("AnnotationClasses = %q, want %q", key.AnnotationClasses, tt.wantClasses)
			}
		})
	}
}

func TestCreateKey_Empty(t *testing.T) {
	_, err := CreateKey("")
	if !errors.Is(err, ErrEmptyTemplate) {
		t.Fatalf("CreateKey(\"\") error = %v, want ErrEmptyTemplate", err)
	}
	if err.Error() != "template must be a valid format string" {
		t.Errorf("unexpected message: %q", err.Error())
	}
}

func TestCreateKey_Malformed(t *testing.T) {
	_, err := CreateKey("sub-{subject/anat")
	if !errors.Is(err, bids.ErrMalformedTemplate) {
		t.Fatalf("error = %v, want ErrMalformedTemplate", err)
	}
}

func TestTemplateKey_Comparable(t *testing.T) {
	a, _ := CreateKey("sub-{subject}_T1w")
	b, _ := CreateKey("sub-{subject}_T1w")
	c, _ := CreateKey("sub-{subject}_T1w", WithOutType("dicom"))

	m := map[TemplateKey]int{a: 1}
	if _, ok := m[b]; !ok {
		t.Error("keys built from the same arguments should be equal")
	}
	if _, ok := m[c]; ok {
		t.Error("keys with different outtype should differ")
	}
}

func TestTemplateKey_Path(t *testing.T) {
	key, err := CreateKey("sub-{subject}/{session}/fmap/sub-{subject}_{session}_b0map")
	if err != nil {
		t.Fatalf("CreateKey returned error: %v", err)
	}
	got, err := key.Path(bids.Values{Subject: "rat7", Session: "ses-1"})
	if err != nil {
		t.Fatalf("Path returned error: %v", err)
	}
	if want := "sub-rat7/ses-1/fmap/sub-rat7_ses-1_b0map"; got != want {
		t.Errorf("Path() = %q, want %q", got, want)
	}
}
