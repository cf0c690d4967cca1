package bids

import (
	"errors"
	"reflect"
	"testing"
)

func TestParse_Render(t *testing.T) {
	tests := []struct {
		name     string
		template string
		values   Values
		want     string
	}{
		{
			name:     "anat",
			template: "sub-{subject}/{session}/anat/sub-{subject}_{session}_run-00{item:01d}_T2w",
			values:   Values{Subject: "01", Session: "ses-02", Item: 3},
			want:     "sub-01/ses-02/anat/sub-01_ses-02_run-003_T2w",
		},
		{
			name:     "zero padded width",
			template: "run-{item:03d}",
			values:   Values{Item: 7},
			want:     "run-007",
		},
		{
			name:     "space padded width",
			template: "[{item:3d}]",
			values:   Values{Item: 7},
			want:     "[  7]",
		},
		{
			name:     "no spec",
			template: "{seqitem}-{subindex}",
			values:   Values{SeqItem: 12, SubIndex: 4},
			want:     "12-4",
		},
		{
			name:     "escaped braces",
			template: "{{literal}}_{subject:s}",
			values:   Values{Subject: "x"},
			want:     "{literal}_x",
		},
		{
			name:     "no placeholders",
			template: "plain/path",
			want:     "plain/path",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tpl, err := Parse(tt.template)
			if err != nil {
				t.Fatalf("Parse(%q) returned error: %v", tt.template, err)
			}
			if got := tpl.Render(tt.values); got != tt.want {
				t.Errorf("Render() = %q, want %q", got, tt.want)
			}
			if tpl.String() != tt.template {
				t.Errorf("String() = %q, want %q", tpl.String(), tt.template)
			}
		})
	}
}

func TestParse_Malformed(t *testing.T) {
	tests := []string{
		"sub-{subject",
		"sub-subject}",
		"{}",
		"{unknown}",
		"{item:01x}",
		"{subject:02d}",
		"{item:0ad}",
	}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			_, err := Parse(input)
			if err == nil {
				t.Fatalf("Parse(%q) should fail", input)
			}
			if !errors.Is(err, ErrMalformedTemplate) {
				t.Errorf("Parse(%q) error = %v, want ErrMalformedTemplate", input, err)
			}
		})
	}
}

func TestTemplate_Fields(t *testing.T) {
	tpl, err := Parse("sub-{subject}/{session}/sub-{subject}_{item:01d}")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	want := []string{"subject", "session", "subject", "item"}
	if got := tpl.Fields(); !reflect.DeepEqual(got, want) {
		t.Errorf("Fields() = %v, want %v", got, want)
	}
}

func TestNormalizeSession(t *testing.T) {
	tests := map[string]string{
		"01":     "ses-01",
		"ses-01": "ses-01",
		" 02 ":   "ses-02",
		"":       "",
	}
	for in, want := range tests {
		if got := NormalizeSession(in); got != want {
			t.Errorf("NormalizeSession(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizeSubject(t *testing.T) {
	if got := NormalizeSubject("sub-rat01"); got != "rat01" {
		t.Errorf("NormalizeSubject(sub-rat01) = %q, want rat01", got)
	}
	if got := NormalizeSubject("rat01"); got != "rat01" {
		t.Errorf("NormalizeSubject(rat01) = %q, want rat01", got)
	}
}
