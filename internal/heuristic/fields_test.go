package heuristic

import (
	"strings"
	"testing"
)

func TestGetField_Valid(t *testing.T) {
	s := SeqInfo{ProtocolName: "B0MAP", DcmDirName: "40001", SeriesDescription: "desc"}

	tests := []struct {
		input string
		want  string
	}{
		{"protocol_name", "B0MAP"},
		{"PROTOCOL_NAME", "B0MAP"},
		{" dcm_dir_name ", "40001"},
		{"series_description", "desc"},
	}

	for _, tt := range tests {
		info, err := GetField(tt.input)
		if err != nil {
			t.Errorf("GetField(%q) returned error: %v", tt.input, err)
			continue
		}
		if got := info.Get(s); got != tt.want {
			t.Errorf("GetField(%q).Get() = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestGetField_Suggestion(t *testing.T) {
	_, err := GetField("protocol_nam")
	if err == nil {
		t.Fatal("expected error for misspelled field")
	}
	if !strings.Contains(err.Error(), `did you mean "protocol_name"`) {
		t.Errorf("error should suggest protocol_name, got: %v", err)
	}
}

func TestGetField_NoSuggestion(t *testing.T) {
	_, err := GetField("echo_time_in_milliseconds")
	if err == nil {
		t.Fatal("expected error for unknown field")
	}
	if strings.Contains(err.Error(), "did you mean") {
		t.Errorf("no suggestion expected for a distant name, got: %v", err)
	}
}

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"kitten", "sitting", 3},
		{"modality", "modality", 0},
		{"modalty", "modality", 1},
	}
	for _, tt := range tests {
		if got := levenshteinDistance(tt.a, tt.b); got != tt.want {
			t.Errorf("levenshteinDistance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestFieldNames_Sorted(t *testing.T) {
	names := FieldNames()
	if len(names) != len(fieldRegistry) {
		t.Fatalf("FieldNames() returned %d names, want %d", len(names), len(fieldRegistry))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Errorf("FieldNames() not sorted at %d: %q > %q", i, names[i-1], names[i])
		}
	}
}
