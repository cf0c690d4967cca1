package heuristic

import (
	"fmt"
	"sort"
	"strings"
)

// FieldInfo describes a SeqInfo field that rule conditions can read.
type FieldInfo struct {
	Name string
	Get  func(SeqInfo) string
}

// fieldRegistry maps rule-file field names to their accessors.
var fieldRegistry = map[string]FieldInfo{
	"series_id":          {Name: "series_id", Get: func(s SeqInfo) string { return s.SeriesID }},
	"protocol_name":      {Name: "protocol_name", Get: func(s SeqInfo) string { return s.ProtocolName }},
	"series_description": {Name: "series_description", Get: func(s SeqInfo) string { return s.SeriesDescription }},
	"dcm_dir_name":       {Name: "dcm_dir_name", Get: func(s SeqInfo) string { return s.DcmDirName }},
	"sequence_name":      {Name: "sequence_name", Get: func(s SeqInfo) string { return s.SequenceName }},
	"modality":           {Name: "modality", Get: func(s SeqInfo) string { return s.Modality }},
	"patient_id":         {Name: "patient_id", Get: func(s SeqInfo) string { return s.PatientID }},
	"study_description":  {Name: "study_description", Get: func(s SeqInfo) string { return s.StudyDescription }},
}

// GetField returns the accessor for a field name. The lookup is
// case-insensitive; unknown names get a suggestion when one is close.
func GetField(name string) (FieldInfo, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))

	if info, ok := fieldRegistry[normalized]; ok {
		return info, nil
	}

	if suggestion := closestFieldName(normalized); suggestion != "" {
		return FieldInfo{}, fmt.Errorf("unknown field %q, did you mean %q?", name, suggestion)
	}
	return FieldInfo{}, fmt.Errorf("unknown field %q", name)
}

// FieldNames returns the known field names, sorted.
func FieldNames() []string {
	names := make([]string, 0, len(fieldRegistry))
	for name := range fieldRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// closestFieldName returns "" when nothing is within three edits.
func closestFieldName(input string) string {
	const maxDistance = 3
	bestDistance := maxDistance + 1
	var bestMatch string

	// sorted so ties resolve the same way every run
	for _, name := range FieldNames() {
		distance := levenshteinDistance(input, name)
		if distance < bestDistance {
			bestDistance = distance
			bestMatch = name
		}
	}
	return bestMatch
}

func levenshteinDistance(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = 1
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}
