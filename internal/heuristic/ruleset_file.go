package heuristic

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

//go:embed rules/rest_awake_9t.yaml
var restAwake9T []byte

// Format is a rule file encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// RuleFile is the on-disk form of a rule set.
type RuleFile struct {
	Name  string        `json:"name" yaml:"name" toml:"name"`
	Keys  []KeyFile     `json:"keys" yaml:"keys" toml:"keys"`
	Rules []RuleFileRow `json:"rules" yaml:"rules" toml:"rules"`
}

// KeyFile describes one template key.
type KeyFile struct {
	Name              string `json:"name" yaml:"name" toml:"name"`
	Template          string `json:"template" yaml:"template" toml:"template"`
	OutType           string `json:"outtype,omitempty" yaml:"outtype,omitempty" toml:"outtype,omitempty"`
	AnnotationClasses string `json:"annotation_classes,omitempty" yaml:"annotation_classes,omitempty" toml:"annotation_classes,omitempty"`
}

// RuleFileRow describes one rule.
type RuleFileRow struct {
	Name   string          `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
	Key    string          `json:"key" yaml:"key" toml:"key"`
	SameAs string          `json:"same_as,omitempty" yaml:"same_as,omitempty" toml:"same_as,omitempty"`
	When   []ConditionFile `json:"when" yaml:"when" toml:"when"`
}

// ConditionFile describes one condition.
type ConditionFile struct {
	Field string `json:"field" yaml:"field" toml:"field"`
	Op    string `json:"op" yaml:"op" toml:"op"`
	Value string `json:"value" yaml:"value" toml:"value"`
}

// FormatFromPath picks the encoding from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("unsupported rule file extension %q (use .yaml, .yml or .toml)", filepath.Ext(path))
	}
}

// LoadRuleSet reads and builds a rule set from a YAML or TOML file.
func LoadRuleSet(path string) (*RuleSet, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rule file: %w", err)
	}
	rs, err := ParseRuleSet(data, format)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return rs, nil
}

// ParseRuleSet decodes data and builds the rule set. Unknown keys in the
// file are rejected.
func ParseRuleSet(data []byte, format Format) (*RuleSet, error) {
	var rf RuleFile
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&rf); err != nil {
			return nil, fmt.Errorf("parse yaml rules: %w", err)
		}
	case FormatTOML:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&rf); err != nil {
			return nil, fmt.Errorf("parse toml rules: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported rule format %q", format)
	}
	return rf.Build()
}

// Build validates the file contents and returns the rule set.
func (rf RuleFile) Build() (*RuleSet, error) {
	keys := make([]KeyDef, 0, len(rf.Keys))
	for _, k := range rf.Keys {
		key, err := CreateKey(k.Template, WithOutType(k.OutType), WithAnnotationClasses(k.AnnotationClasses))
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", k.Name, err)
		}
		keys = append(keys, KeyDef{Name: k.Name, Key: key})
	}

	rules := make([]Rule, 0, len(rf.Rules))
	for i, row := range rf.Rules {
		name := row.Name
		if name == "" {
			name = row.Key
		}
		conds := make([]Condition, 0, len(row.When))
		for _, cf := range row.When {
			c, err := NewCondition(cf.Field, Op(cf.Op), cf.Value)
			if err != nil {
				return nil, fmt.Errorf("rule %d (%s): %w", i, name, err)
			}
			conds = append(conds, c)
		}
		rules = append(rules, Rule{Name: name, KeyName: row.Key, SameAs: row.SameAs, When: conds})
	}

	return NewRuleSet(rf.Name, keys, rules)
}

// File converts the rule set back to its on-disk form.
func (rs *RuleSet) File() RuleFile {
	rf := RuleFile{Name: rs.Name}
	for _, k := range rs.keys {
		kf := KeyFile{Name: k.Name, Template: k.Key.Template, AnnotationClasses: k.Key.AnnotationClasses}
		if k.Key.OutType != DefaultOutType {
			kf.OutType = k.Key.OutType
		}
		rf.Keys = append(rf.Keys, kf)
	}
	for _, r := range rs.rules {
		row := RuleFileRow{Key: r.KeyName, SameAs: r.SameAs}
		if r.Name != r.KeyName {
			row.Name = r.Name
		}
		for _, c := range r.When {
			row.When = append(row.When, ConditionFile{Field: c.Field, Op: string(c.Op), Value: c.Value})
		}
		rf.Rules = append(rf.Rules, row)
	}
	return rf
}

var restAwake9TOnce = sync.OnceValues(func() (*RuleSet, error) {
	return ParseRuleSet(restAwake9T, FormatYAML)
})

// RestAwake9T returns the built-in rule table for the 9.4T rest-awake
// protocol.
func RestAwake9T() (*RuleSet, error) {
	return restAwake9TOnce()
}
