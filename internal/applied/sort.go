package applied

import (
	"slices"
	"time"

	"github.com/SeesonLau/hanapbuhay-sub000/internal/query"
)

// tierScore buckets a job by its post's lifecycle state: active posts sort
// before locked ones, which sort before deleted ones, regardless of the
// requested direction.
func tierScore(j *DisplayJob) int {
	if j.Raw == nil || j.Raw.Post == nil {
		return 0
	}
	if j.Raw.Post.Deleted() {
		return 2
	}
	if j.Raw.Post.IsLocked {
		return 1
	}
	return 0
}

// appliedAt parses the application's creation timestamp for comparison.
// Unparsable timestamps collapse to the epoch instead of failing the sort.
func appliedAt(j *DisplayJob) time.Time {
	if j.Raw == nil {
		return time.Unix(0, 0)
	}
	t, err := time.Parse(time.RFC3339, j.Raw.CreatedAt)
	if err != nil {
		return time.Unix(0, 0)
	}
	return t
}

// Sort stably reorders jobs in place: lifecycle tier first (always
// ascending), then creation timestamp in the requested direction. Ties keep
// their original relative order. The server only orders by timestamp, so
// this runs from scratch after every fetch and every load-more append to
// keep the tier invariant across pages.
func Sort(jobs []DisplayJob, direction query.SortOrder) {
	slices.SortStableFunc(jobs, func(a, b DisplayJob) int {
		if d := tierScore(&a) - tierScore(&b); d != 0 {
			return d
		}
		ta, tb := appliedAt(&a), appliedAt(&b)
		switch {
		case ta.Equal(tb):
			return 0
		case ta.Before(tb):
			if direction == query.SortAsc {
				return -1
			}
			return 1
		default:
			if direction == query.SortAsc {
				return 1
			}
			return -1
		}
	})
}
