// Package filter implements the shareable-URL filter codec.
//
// A Selection is carried in a single query parameter as a compact
// `|`-delimited string of key=value segments:
//
//	jt=Cleaning:Housekeeping,Laundry;Repair:Plumbing|sr=range10to20|el=entry|pg=male|st=pending,locked
//
// Segment keys: jt (job type:subtype pairs, `;`-separated), sr (salary
// buckets), el (experience levels), pg (gender preferences), st (status
// flags, applied-jobs view only). Multi-valued facets join members with `,`.
// Decode is total: nil input, unknown keys and malformed segments all degrade
// to the default (empty) facet instead of failing.
package filter

import (
	"sort"
	"strings"
)

// Salary bucket keys. At most one bucket is honoured by the query builder;
// BucketCustom is selectable but maps to no price range.
const (
	BucketUnder5000   = "under5000"
	BucketRange10to20 = "range10to20"
	BucketAbove20000  = "above20000"
	BucketCustom      = "custom"
)

// BucketOrder fixes the precedence used when several buckets are selected at
// once: the first active bucket wins, the rest are ignored.
var BucketOrder = []string{BucketUnder5000, BucketRange10to20, BucketAbove20000, BucketCustom}

// Status facet values recognised in the st segment. The first three are
// application statuses; locked and deleted are post lifecycle flags.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
	StatusLocked   = "locked"
	StatusDeleted  = "deleted"
)

// Selection is one structured filter choice across all facets. An empty set
// or map for a facet means "no filter on that facet", never "exclude all".
type Selection struct {
	JobTypes         map[string][]string // top-level type -> selected subtypes
	SalaryBuckets    []string
	ExperienceLevels []string
	Genders          []string
	Statuses         []string
}

// NewSelection returns the all-empty default Selection.
func NewSelection() Selection {
	return Selection{JobTypes: make(map[string][]string)}
}

// IsEmpty reports whether no facet is set.
func (s Selection) IsEmpty() bool {
	return len(s.JobTypes) == 0 && len(s.SalaryBuckets) == 0 &&
		len(s.ExperienceLevels) == 0 && len(s.Genders) == 0 && len(s.Statuses) == 0
}

// Encode serialises the selection into the compact query-param string.
// Empty facets are omitted entirely, so the default selection encodes to "".
// Map iteration order is normalised by sorting type keys, keeping encoded
// URLs stable for the same selection.
func Encode(s Selection) string {
	var segments []string

	if len(s.JobTypes) > 0 {
		types := make([]string, 0, len(s.JobTypes))
		for t := range s.JobTypes {
			types = append(types, t)
		}
		sort.Strings(types)

		pairs := make([]string, 0, len(types))
		for _, t := range types {
			subs := s.JobTypes[t]
			if len(subs) == 0 {
				continue
			}
			pairs = append(pairs, t+":"+strings.Join(subs, ","))
		}
		if len(pairs) > 0 {
			segments = append(segments, "jt="+strings.Join(pairs, ";"))
		}
	}
	if len(s.SalaryBuckets) > 0 {
		segments = append(segments, "sr="+strings.Join(s.SalaryBuckets, ","))
	}
	if len(s.ExperienceLevels) > 0 {
		segments = append(segments, "el="+strings.Join(s.ExperienceLevels, ","))
	}
	if len(s.Genders) > 0 {
		segments = append(segments, "pg="+strings.Join(s.Genders, ","))
	}
	if len(s.Statuses) > 0 {
		segments = append(segments, "st="+strings.Join(s.Statuses, ","))
	}

	return strings.Join(segments, "|")
}

// Decode parses an encoded filter string back into a Selection. It never
// fails: an empty string yields the default selection, segments may appear
// in any order, segments without a '=' are skipped, and unknown segment keys
// are ignored.
func Decode(encoded string) Selection {
	sel := NewSelection()
	if encoded == "" {
		return sel
	}

	for _, segment := range strings.Split(encoded, "|") {
		key, value, ok := strings.Cut(segment, "=")
		if !ok || value == "" {
			continue
		}
		switch key {
		case "jt":
			for _, pair := range strings.Split(value, ";") {
				typ, subs, ok := strings.Cut(pair, ":")
				if !ok || typ == "" || subs == "" {
					continue
				}
				sel.JobTypes[typ] = splitList(subs)
			}
		case "sr":
			sel.SalaryBuckets = splitList(value)
		case "el":
			sel.ExperienceLevels = splitList(value)
		case "pg":
			sel.Genders = splitList(value)
		case "st":
			sel.Statuses = splitList(value)
		}
	}
	return sel
}

// splitList splits a comma-joined facet value, dropping empty members so
// stray commas cannot produce "" entries.
func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
