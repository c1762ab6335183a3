package applied

import (
	"net/url"
	"strings"

	"github.com/SeesonLau/hanapbuhay-sub000/internal/filter"
	"github.com/SeesonLau/hanapbuhay-sub000/internal/query"
)

// ViewState is the filter/sort/search state of the applied-jobs view,
// derived from the page URL so filtered views stay shareable.
//
// Recognised query parameters:
//
//	q             free-text search
//	location      location search
//	sort          field_direction, e.g. "createdAt_desc" (the default, kept
//	              out of the URL when unchanged)
//	filters       the filter codec's encoded string
//	applicationId selected-item deep link
type ViewState struct {
	Search        string
	Location      string
	SortBy        query.SortField
	SortOrder     query.SortOrder
	Filters       filter.Selection
	SelectedAppID string
}

// DefaultViewState returns the state an unparameterised URL implies.
func DefaultViewState() ViewState {
	return ViewState{
		SortBy:    query.SortByCreatedAt,
		SortOrder: query.SortDesc,
		Filters:   filter.NewSelection(),
	}
}

// ParseViewState reads view state out of URL query values. It is total:
// missing parameters fall back to defaults and a malformed sort value is
// replaced by the default rather than rejected.
func ParseViewState(values url.Values) ViewState {
	vs := DefaultViewState()
	vs.Search = values.Get("q")
	vs.Location = values.Get("location")
	vs.SelectedAppID = values.Get("applicationId")
	vs.Filters = filter.Decode(values.Get("filters"))

	if s := values.Get("sort"); s != "" {
		field, dir, ok := strings.Cut(s, "_")
		if ok {
			switch query.SortField(field) {
			case query.SortByCreatedAt, query.SortByUpdatedAt:
				switch query.SortOrder(dir) {
				case query.SortAsc, query.SortDesc:
					vs.SortBy = query.SortField(field)
					vs.SortOrder = query.SortOrder(dir)
				}
			}
		}
	}
	return vs
}

// QueryValues serialises the state back to URL query values. Defaults are
// omitted so an unfiltered view keeps a clean URL; in particular the default
// createdAt_desc sort is never written out.
func (vs ViewState) QueryValues() url.Values {
	values := url.Values{}
	if vs.Search != "" {
		values.Set("q", vs.Search)
	}
	if vs.Location != "" {
		values.Set("location", vs.Location)
	}
	if encoded := filter.Encode(vs.Filters); encoded != "" {
		values.Set("filters", encoded)
	}
	if vs.SortBy != query.SortByCreatedAt || vs.SortOrder != query.SortDesc {
		values.Set("sort", string(vs.SortBy)+"_"+string(vs.SortOrder))
	}
	if vs.SelectedAppID != "" {
		values.Set("applicationId", vs.SelectedAppID)
	}
	return values
}

// Params builds the store query parameters for one page of this view.
func (vs ViewState) Params(page, pageSize int) query.Params {
	return query.Build(vs.Filters, vs.Search, vs.Location, vs.SortBy, vs.SortOrder, page, pageSize)
}
