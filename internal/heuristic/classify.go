// Package heuristic classifies scanned acquisition series into BIDS
// destination templates.
package heuristic

import (
	"fmt"
	"path"

	"github.com/mrsinham/bidsheur/internal/bids"
)

// Heuristic is what a conversion framework calls to map series to
// destination templates.
type Heuristic interface {
	InfoToDict(seqinfo []SeqInfo) (*Info, error)
}

// Bucket holds the series assigned to one template key.
type Bucket struct {
	Name      string
	Key       TemplateKey
	SeriesIDs []string
}

// Info is the classification table. Every key of the rule set has a
// bucket, even when nothing matched it.
type Info struct {
	buckets []Bucket
	index   map[TemplateKey]int
}

func newInfo(keys []KeyDef) *Info {
	info := &Info{
		buckets: make([]Bucket, len(keys)),
		index:   make(map[TemplateKey]int, len(keys)),
	}
	for i, k := range keys {
		info.buckets[i] = Bucket{Name: k.Name, Key: k.Key, SeriesIDs: []string{}}
		info.index[k.Key] = i
	}
	return info
}

// Classify scans every series against every rule in table order. Rules are
// not exclusive: a series is appended to each bucket whose rule matches.
func Classify(rs *RuleSet, seqinfo []SeqInfo) (*Info, error) {
	info := newInfo(rs.keys)

	for idx, s := range seqinfo {
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("series %d: %w", idx, err)
		}
		for _, r := range rs.rules {
			ok, err := r.Match(s)
			if err != nil {
				return nil, fmt.Errorf("series %d (%s): rule %s: %w", idx, s.SeriesID, r.Name, err)
			}
			if ok {
				i := info.index[r.Key]
				info.buckets[i].SeriesIDs = append(info.buckets[i].SeriesIDs, s.SeriesID)
			}
		}
	}

	return info, nil
}

// Len returns the number of buckets.
func (in *Info) Len() int {
	return len(in.buckets)
}

// Buckets returns the buckets in key declaration order.
func (in *Info) Buckets() []Bucket {
	out := make([]Bucket, len(in.buckets))
	for i, b := range in.buckets {
		b.SeriesIDs = append([]string{}, b.SeriesIDs...)
		out[i] = b
	}
	return out
}

// Get returns the series IDs assigned to key.
func (in *Info) Get(key TemplateKey) ([]string, bool) {
	i, ok := in.index[key]
	if !ok {
		return nil, false
	}
	return append([]string{}, in.buckets[i].SeriesIDs...), true
}

// ByName returns the series IDs of the bucket with the given key name.
func (in *Info) ByName(name string) ([]string, bool) {
	for _, b := range in.buckets {
		if b.Name == name {
			return append([]string{}, b.SeriesIDs...), true
		}
	}
	return nil, false
}

// Map returns the table keyed by template key, the shape a conversion
// framework consumes.
func (in *Info) Map() map[TemplateKey][]string {
	m := make(map[TemplateKey][]string, len(in.buckets))
	for _, b := range in.buckets {
		m[b.Key] = append([]string{}, b.SeriesIDs...)
	}
	return m
}

// BucketsFor returns the names of every bucket holding seriesID.
func (in *Info) BucketsFor(seriesID string) []string {
	var names []string
	for _, b := range in.buckets {
		for _, id := range b.SeriesIDs {
			if id == seriesID {
				names = append(names, b.Name)
				break
			}
		}
	}
	return names
}

// Assignment is a preview of where one series would be written.
type Assignment struct {
	SeriesID string `json:"series_id"`
	Bucket   string `json:"bucket"`
	Path     string `json:"path"`
}

// Plan renders the destination path of every assignment. Items are numbered
// from 1 within each bucket, in scan order.
func (in *Info) Plan(subject, session string) ([]Assignment, error) {
	subject = bids.NormalizeSubject(subject)
	if subject == "" {
		return nil, fmt.Errorf("plan: %w: subject", ErrMissingField)
	}
	session = bids.NormalizeSession(session)

	var out []Assignment
	for _, b := range in.buckets {
		tpl, err := bids.Parse(b.Key.Template)
		if err != nil {
			return nil, fmt.Errorf("plan %s: %w", b.Name, err)
		}
		for i, id := range b.SeriesIDs {
			p := tpl.Render(bids.Values{Subject: subject, Session: session, Item: i + 1})
			if b.Key.OutType != "" {
				p += "." + b.Key.OutType
			}
			out = append(out, Assignment{SeriesID: id, Bucket: b.Name, Path: path.Clean(p)})
		}
	}
	return out, nil
}
