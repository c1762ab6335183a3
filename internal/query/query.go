// Package query translates a filter selection plus search, sort and paging
// state into the parameter set consumed by the application store.
package query

import (
	"github.com/SeesonLau/hanapbuhay-sub000/internal/catalog"
	"github.com/SeesonLau/hanapbuhay-sub000/internal/filter"
)

// SortField selects which timestamp the store orders by.
type SortField string

const (
	SortByCreatedAt SortField = "createdAt"
	SortByUpdatedAt SortField = "updatedAt"
)

// SortOrder is the requested direction.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// MatchMode tells the store how to combine the jobType and subType predicate
// groups. MatchMixed means OR across the two groups instead of ANDing them;
// it is set only when both groups are non-empty.
type MatchMode string

const (
	MatchDefault MatchMode = ""
	MatchMixed   MatchMode = "mixed"
)

// PriceRange is an inclusive price predicate.
type PriceRange struct {
	Min float64
	Max float64
}

// priceUnbounded stands in for "no upper limit" on the open-ended bucket.
const priceUnbounded = 100_000_000

// PostFlags are post lifecycle predicates applied against the joined post.
type PostFlags struct {
	Locked  bool
	Deleted bool
}

// Params is the full parameter set for one store query. Built fresh per
// fetch, never persisted. Empty slices and nil PriceRange mean "no predicate
// on that dimension".
type Params struct {
	Page     int
	PageSize int

	SortBy    SortField
	SortOrder SortOrder

	SearchTerm string
	Location   string

	JobTypes         []string
	SubTypes         []string
	MatchMode        MatchMode
	PriceRange       *PriceRange
	ExperienceLevels []string
	Genders          []string

	Statuses  []string
	PostFlags PostFlags
}

// experienceParam maps UI facet keys to the catalog's experience labels.
// Unrecognised keys pass through unchanged so new UI values keep working
// against a catalog that already knows them.
var experienceParam = map[string]string{
	"entry":        "Entry-level",
	"intermediate": "Intermediate",
	"experienced":  "Experienced",
}

// genderParam maps UI facet keys to the catalog's gender labels.
var genderParam = map[string]string{
	"male":   "Male",
	"female": "Female",
	"any":    "Any",
}

// Build derives store query parameters from the current view state. It never
// fails: empty facets simply omit the corresponding predicate fields.
func Build(sel filter.Selection, searchTerm, location string, sortBy SortField, sortOrder SortOrder, page, pageSize int) Params {
	p := Params{
		Page:       page,
		PageSize:   pageSize,
		SortBy:     sortBy,
		SortOrder:  sortOrder,
		SearchTerm: searchTerm,
		Location:   location,
	}

	// Job types: a type whose selection includes the "Other" sentinel is
	// matched at the category level; every concrete subtype (across all
	// types) is matched at the leaf level. When both groups end up
	// non-empty the store must OR them, signalled by MatchMixed.
	for typ, subs := range sel.JobTypes {
		for _, sub := range subs {
			if sub == catalog.SubtypeOther {
				p.JobTypes = append(p.JobTypes, typ)
			} else {
				p.SubTypes = append(p.SubTypes, sub)
			}
		}
	}
	if len(p.JobTypes) > 0 && len(p.SubTypes) > 0 {
		p.MatchMode = MatchMixed
	}

	// Salary: only the first active bucket (in BucketOrder) fires; custom
	// is selectable but deliberately produces no range.
	p.PriceRange = bucketRange(sel.SalaryBuckets)

	for _, key := range sel.ExperienceLevels {
		p.ExperienceLevels = append(p.ExperienceLevels, mapKey(experienceParam, key))
	}
	for _, key := range sel.Genders {
		p.Genders = append(p.Genders, mapKey(genderParam, key))
	}

	// Status facet: application statuses become an IN filter, locked and
	// deleted pass through as post flags.
	for _, st := range sel.Statuses {
		switch st {
		case filter.StatusPending, filter.StatusApproved, filter.StatusRejected:
			p.Statuses = append(p.Statuses, st)
		case filter.StatusLocked:
			p.PostFlags.Locked = true
		case filter.StatusDeleted:
			p.PostFlags.Deleted = true
		}
	}

	return p
}

// bucketRange resolves the selected salary buckets to at most one price
// range. Multi-bucket selections are not merged into an OR of ranges; the
// first bucket in the fixed order wins, matching the existing single-branch
// behaviour.
func bucketRange(buckets []string) *PriceRange {
	active := make(map[string]bool, len(buckets))
	for _, b := range buckets {
		active[b] = true
	}
	for _, b := range filter.BucketOrder {
		if !active[b] {
			continue
		}
		switch b {
		case filter.BucketUnder5000:
			return &PriceRange{Min: 0, Max: 4999}
		case filter.BucketRange10to20:
			return &PriceRange{Min: 10000, Max: 20000}
		case filter.BucketAbove20000:
			return &PriceRange{Min: 20001, Max: priceUnbounded}
		case filter.BucketCustom:
			// TODO: custom range needs min/max inputs from the UI before
			// it can narrow anything; until then it is a no-op.
			return nil
		}
	}
	return nil
}

func mapKey(table map[string]string, key string) string {
	if v, ok := table[key]; ok {
		return v
	}
	return key
}
