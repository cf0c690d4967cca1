// Package bids parses and renders the placeholder syntax used by BIDS output
// path templates, e.g. "sub-{subject}/{session}/anat/sub-{subject}_run-{item:02d}_T1w".
package bids

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformedTemplate is returned when a template string cannot be parsed.
var ErrMalformedTemplate = errors.New("malformed template")

type fieldKind int

const (
	kindString fieldKind = iota
	kindInt
)

// knownFields lists the placeholders a conversion framework substitutes.
var knownFields = map[string]fieldKind{
	"subject":  kindString,
	"session":  kindString,
	"item":     kindInt,
	"seqitem":  kindInt,
	"subindex": kindInt,
}

// Values holds the substitutions for a single rendered path.
type Values struct {
	Subject  string
	Session  string
	Item     int
	SeqItem  int
	SubIndex int
}

func (v Values) stringField(name string) string {
	switch name {
	case "subject":
		return v.Subject
	case "session":
		return v.Session
	}
	return ""
}

func (v Values) intField(name string) int {
	switch name {
	case "item":
		return v.Item
	case "seqitem":
		return v.SeqItem
	case "subindex":
		return v.SubIndex
	}
	return 0
}

type segment struct {
	literal string
	field   string
	kind    fieldKind
	width   int
	zeroPad bool
}

// Template is a parsed path template.
type Template struct {
	raw      string
	segments []segment
}

// Parse parses a template string. Braces are escaped by doubling them.
func Parse(raw string) (*Template, error) {
	t := &Template{raw: raw}
	var lit strings.Builder

	flush := func() {
		if lit.Len() > 0 {
			t.segments = append(t.segments, segment{literal: lit.String()})
			lit.Reset()
		}
	}

	for i := 0; i < len(raw); i++ {
		c := raw[i]
		switch c {
		case '{':
			if i+1 < len(raw) && raw[i+1] == '{' {
				lit.WriteByte('{')
				i++
				continue
			}
			end := strings.IndexByte(raw[i+1:], '}')
			if end < 0 {
				return nil, fmt.Errorf("%w: unclosed '{' at offset %d in %q", ErrMalformedTemplate, i, raw)
			}
			body := raw[i+1 : i+1+end]
			seg, err := parseField(body)
			if err != nil {
				return nil, fmt.Errorf("%w: %v in %q", ErrMalformedTemplate, err, raw)
			}
			flush()
			t.segments = append(t.segments, seg)
			i += end + 1
		case '}':
			if i+1 < len(raw) && raw[i+1] == '}' {
				lit.WriteByte('}')
				i++
				continue
			}
			return nil, fmt.Errorf("%w: single '}' at offset %d in %q", ErrMalformedTemplate, i, raw)
		default:
			lit.WriteByte(c)
		}
	}
	flush()

	return t, nil
}

func parseField(body string) (segment, error) {
	name, spec, _ := strings.Cut(body, ":")
	if strings.ContainsAny(name, "{") {
		return segment{}, fmt.Errorf("nested '{' in field %q", body)
	}
	kind, ok := knownFields[name]
	if !ok {
		return segment{}, fmt.Errorf("unknown field %q", name)
	}
	seg := segment{field: name, kind: kind}

	if spec == "" {
		return seg, nil
	}

	switch kind {
	case kindString:
		if spec != "s" {
			return segment{}, fmt.Errorf("invalid format %q for string field %q", spec, name)
		}
	case kindInt:
		if !strings.HasSuffix(spec, "d") {
			return segment{}, fmt.Errorf("invalid format %q for integer field %q", spec, name)
		}
		digits := strings.TrimSuffix(spec, "d")
		if strings.HasPrefix(digits, "0") {
			seg.zeroPad = true
			digits = digits[1:]
		}
		if digits != "" {
			w, err := strconv.Atoi(digits)
			if err != nil || w < 0 {
				return segment{}, fmt.Errorf("invalid width in format %q for field %q", spec, name)
			}
			seg.width = w
		}
	}
	return seg, nil
}

// Render substitutes v into the template.
func (t *Template) Render(v Values) string {
	var b strings.Builder
	for _, seg := range t.segments {
		switch {
		case seg.field == "":
			b.WriteString(seg.literal)
		case seg.kind == kindString:
			b.WriteString(v.stringField(seg.field))
		case seg.zeroPad:
			fmt.Fprintf(&b, "%0*d", seg.width, v.intField(seg.field))
		default:
			fmt.Fprintf(&b, "%*d", seg.width, v.intField(seg.field))
		}
	}
	return b.String()
}

// Fields returns the placeholder names in order of appearance, with repeats.
func (t *Template) Fields() []string {
	var fields []string
	for _, seg := range t.segments {
		if seg.field != "" {
			fields = append(fields, seg.field)
		}
	}
	return fields
}

// String returns the raw template.
func (t *Template) String() string {
	return t.raw
}

// NormalizeSession prefixes a bare session label with "ses-".
// An empty label stays empty.
func NormalizeSession(session string) string {
	session = strings.TrimSpace(session)
	if session == "" || strings.HasPrefix(session, "ses-") {
		return session
	}
	return "ses-" + session
}

// NormalizeSubject strips a leading "sub-" since templates already carry it.
func NormalizeSubject(subject string) string {
	return strings.TrimPrefix(strings.TrimSpace(subject), "sub-")
}
