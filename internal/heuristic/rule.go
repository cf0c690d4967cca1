package heuristic

import (
	"fmt"
	"strconv"
	"strings"
)

// Op is a condition operator.
type Op string

const (
	OpContains    Op = "contains"
	OpNotContains Op = "not_contains"
	OpEquals      Op = "equals"
	// OpDirFlag compares the digit at the end of dcm_dir_name.
	OpDirFlag Op = "dir_flag"
)

// Condition is one predicate of a rule.
type Condition struct {
	Field string
	Op    Op
	Value string

	get  func(SeqInfo) string
	flag int
}

// NewCondition validates the field and operator and returns the condition.
func NewCondition(field string, op Op, value string) (Condition, error) {
	info, err := GetField(field)
	if err != nil {
		return Condition{}, err
	}
	c := Condition{Field: info.Name, Op: op, Value: value, get: info.Get}

	switch op {
	case OpContains, OpNotContains, OpEquals:
		if value == "" && op != OpEquals {
			return Condition{}, fmt.Errorf("%s %s: empty value", info.Name, op)
		}
	case OpDirFlag:
		if info.Name != "dcm_dir_name" {
			return Condition{}, fmt.Errorf("%s applies to dcm_dir_name, not %s", op, info.Name)
		}
		flag, err := strconv.Atoi(value)
		if err != nil || flag < 0 || flag > 9 {
			return Condition{}, fmt.Errorf("%s: value %q is not a single digit", op, value)
		}
		c.flag = flag
	default:
		return Condition{}, fmt.Errorf("unknown operator %q (valid: %s, %s, %s, %s)",
			op, OpContains, OpNotContains, OpEquals, OpDirFlag)
	}
	return c, nil
}

// Eval reports whether s satisfies the condition.
func (c Condition) Eval(s SeqInfo) (bool, error) {
	switch c.Op {
	case OpContains:
		return strings.Contains(c.get(s), c.Value), nil
	case OpNotContains:
		return !strings.Contains(c.get(s), c.Value), nil
	case OpEquals:
		return c.get(s) == c.Value, nil
	case OpDirFlag:
		flag, err := s.DirFlag()
		if err != nil {
			return false, err
		}
		return flag == c.flag, nil
	}
	return false, fmt.Errorf("unknown operator %q", c.Op)
}

func (c Condition) String() string {
	return fmt.Sprintf("%s %s %q", c.Field, c.Op, c.Value)
}

// Rule appends a series to the bucket of Key when every condition holds.
type Rule struct {
	Name    string
	KeyName string
	Key     TemplateKey
	// SameAs names an earlier rule with identical conditions. It documents a
	// duplicate that is kept on purpose.
	SameAs string
	When   []Condition
}

// Match evaluates the conditions in order and stops at the first false one,
// so later conditions never read fields of a series that already failed.
func (r Rule) Match(s SeqInfo) (bool, error) {
	for _, c := range r.When {
		ok, err := c.Eval(s)
		if err != nil {
			return false, fmt.Errorf("%s: %w", c.Field, err)
		}
		if !ok {
			return false, nil
		}
	}
	return len(r.When) > 0, nil
}

// Signature is the textual form of the conditions; equal signatures match
// exactly the same series.
func (r Rule) Signature() string {
	parts := make([]string, len(r.When))
	for i, c := range r.When {
		parts[i] = c.String()
	}
	return strings.Join(parts, " && ")
}

// KeyDef names a destination bucket.
type KeyDef struct {
	Name string
	Key  TemplateKey
}

// DuplicateGroup lists rules sharing one signature.
type DuplicateGroup struct {
	Signature string   `json:"signature"`
	Rules     []string `json:"rules"`
	// Declared is true when every rule after the first carries SameAs.
	Declared bool `json:"declared"`
}

// RuleSet is an ordered rule table. Keys keep declaration order; rules are
// evaluated in table order.
type RuleSet struct {
	Name  string
	keys  []KeyDef
	rules []Rule
}

// NewRuleSet checks the table and resolves each rule's key.
func NewRuleSet(name string, keys []KeyDef, rules []Rule) (*RuleSet, error) {
	if len(keys) == 0 {
		return nil, fmt.Errorf("rule set %q: no keys", name)
	}

	byName := make(map[string]TemplateKey, len(keys))
	seenKeys := make(map[TemplateKey]string, len(keys))
	for _, k := range keys {
		if k.Name == "" {
			return nil, fmt.Errorf("rule set %q: key with empty name", name)
		}
		if k.Key.Template == "" {
			return nil, fmt.Errorf("rule set %q: key %q: %w", name, k.Name, ErrEmptyTemplate)
		}
		if _, dup := byName[k.Name]; dup {
			return nil, fmt.Errorf("rule set %q: duplicate key name %q", name, k.Name)
		}
		if other, dup := seenKeys[k.Key]; dup {
			return nil, fmt.Errorf("rule set %q: keys %q and %q have the same template", name, other, k.Name)
		}
		byName[k.Name] = k.Key
		seenKeys[k.Key] = k.Name
	}

	resolved := make([]Rule, len(rules))
	ruleIndex := make(map[string]int, len(rules))
	for i, r := range rules {
		if r.Name == "" {
			r.Name = r.KeyName
		}
		if _, dup := ruleIndex[r.Name]; dup {
			return nil, fmt.Errorf("rule set %q: duplicate rule name %q", name, r.Name)
		}
		key, ok := byName[r.KeyName]
		if !ok {
			return nil, fmt.Errorf("rule set %q: rule %q targets unknown key %q", name, r.Name, r.KeyName)
		}
		if len(r.When) == 0 {
			return nil, fmt.Errorf("rule set %q: rule %q has no conditions", name, r.Name)
		}
		r.Key = key
		r.When = append([]Condition(nil), r.When...)

		if r.SameAs != "" {
			j, ok := ruleIndex[r.SameAs]
			if !ok {
				return nil, fmt.Errorf("rule set %q: rule %q: same_as %q is not an earlier rule", name, r.Name, r.SameAs)
			}
			if resolved[j].Signature() != r.Signature() {
				return nil, fmt.Errorf("rule set %q: rule %q declares same_as %q but conditions differ", name, r.Name, r.SameAs)
			}
		}

		ruleIndex[r.Name] = i
		resolved[i] = r
	}

	return &RuleSet{
		Name:  name,
		keys:  append([]KeyDef(nil), keys...),
		rules: resolved,
	}, nil
}

// Keys returns the bucket definitions in declaration order.
func (rs *RuleSet) Keys() []KeyDef {
	return append([]KeyDef(nil), rs.keys...)
}

// Rules returns the rules in evaluation order.
func (rs *RuleSet) Rules() []Rule {
	return append([]Rule(nil), rs.rules...)
}

// Duplicates groups rules whose conditions are identical, in table order.
func (rs *RuleSet) Duplicates() []DuplicateGroup {
	var groups []DuplicateGroup
	index := make(map[string]int)

	for _, r := range rs.rules {
		sig := r.Signature()
		if i, ok := index[sig]; ok {
			groups[i].Rules = append(groups[i].Rules, r.Name)
			if r.SameAs == "" {
				groups[i].Declared = false
			}
			continue
		}
		index[sig] = len(groups)
		groups = append(groups, DuplicateGroup{Signature: sig, Rules: []string{r.Name}, Declared: true})
	}

	out := groups[:0]
	for _, g := range groups {
		if len(g.Rules) > 1 {
			out = append(out, g)
		}
	}
	return out
}

// InfoToDict classifies seqinfo with this rule set.
func (rs *RuleSet) InfoToDict(seqinfo []SeqInfo) (*Info, error) {
	return Classify(rs, seqinfo)
}
