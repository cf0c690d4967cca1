package heuristic

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

const tomlRules = `
name = "anat_only"

[[keys]]
name = "t1w"
template = "sub-{subject}/anat/sub-{subject}_run-{item:02d}_T1w"

[[keys]]
name = "t1w_dicom"
template = "sub-{subject}/sourcedata/sub-{subject}_run-{item:02d}_T1w"
outtype = "dicom"

[[rules]]
key = "t1w"
when = [{ field = "protocol_name", op = "contains", value = "T1_FLASH_3D" }]

[[rules]]
key = "t1w_dicom"
same_as = "t1w"
when = [{ field = "protocol_name", op = "contains", value = "T1_FLASH_3D" }]
`

func TestRestAwake9T_Loads(t *testing.T) {
	rs := mustRestAwake(t)
	if rs.Name != "rest_awake_9t" {
		t.Errorf("Name = %q, want rest_awake_9t", rs.Name)
	}
	if n := len(rs.Keys()); n != 11 {
		t.Errorf("got %d keys, want 11", n)
	}
	if n := len(rs.Rules()); n != 11 {
		t.Errorf("got %d rules, want 11", n)
	}
	for _, k := range rs.Keys() {
		if k.Key.OutType != DefaultOutType {
			t.Errorf("key %s outtype = %q, want %q", k.Name, k.Key.OutType, DefaultOutType)
		}
	}
}

func TestLoadRuleSet_TOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.toml")
	if err := os.WriteFile(path, []byte(tomlRules), 0o644); err != nil {
		t.Fatalf("write rules: %v", err)
	}

	rs, err := LoadRuleSet(path)
	if err != nil {
		t.Fatalf("LoadRuleSet returned error: %v", err)
	}
	if rs.Name != "anat_only" {
		t.Errorf("Name = %q, want anat_only", rs.Name)
	}
	keys := rs.Keys()
	if keys[1].Key.OutType != "dicom" {
		t.Errorf("t1w_dicom outtype = %q, want dicom", keys[1].Key.OutType)
	}

	info, err := Classify(rs, []SeqInfo{{SeriesID: "2-T1", ProtocolName: "T1_FLASH_3D"}})
	if err != nil {
		t.Fatalf("Classify returned error: %v", err)
	}
	if got := info.BucketsFor("2-T1"); !reflect.DeepEqual(got, []string{"t1w", "t1w_dicom"}) {
		t.Errorf("BucketsFor(2-T1) = %v", got)
	}
}

func TestLoadRuleSet_Errors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		file    string
		content string
		want    string
	}{
		{"extension", "rules.json", "{}", "unsupported rule file extension"},
		{"unknown yaml key", "rules.yaml", "name: x\nkeyz: []\n", "parse yaml rules"},
		{"empty template", "rules.yaml", "name: x\nkeys:\n  - name: a\n    template: \"\"\n", "template must be a valid format string"},
		{"bad field", "rules.yml", "name: x\nkeys:\n  - {name: a, template: a}\nrules:\n  - key: a\n    when:\n      - {field: protocl_name, op: contains, value: X}\n", `did you mean "protocol_name"`},
		{"unknown toml key", "rules.toml", "name = \"x\"\nbogus = 1\n", "parse toml rules"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.file)
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatalf("write rules: %v", err)
			}
			_, err := LoadRuleSet(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should contain %q", err, tt.want)
			}
		})
	}
}

func TestLoadRuleSet_MissingFile(t *testing.T) {
	_, err := LoadRuleSet(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil || !strings.Contains(err.Error(), "read rule file") {
		t.Errorf("LoadRuleSet on a missing file error = %v", err)
	}
}

func TestRuleSet_FileReparses(t *testing.T) {
	rs := mustRestAwake(t)

	data, err := yaml.Marshal(rs.File())
	if err != nil {
		t.Fatalf("marshal rule file: %v", err)
	}
	again, err := ParseRuleSet(data, FormatYAML)
	if err != nil {
		t.Fatalf("ParseRuleSet returned error: %v", err)
	}
	if !reflect.DeepEqual(again.Duplicates(), rs.Duplicates()) {
		t.Error("re-parsed table should report the same duplicate groups")
	}
	for i, r := range again.Rules() {
		if r.Signature() != rs.Rules()[i].Signature() || r.Key != rs.Rules()[i].Key {
			t.Errorf("rule %d differs after re-parse: %s", i, r.Name)
		}
	}
}
