// Package applied implements the applied-jobs pipeline: filter/sort/search
// view state, store querying, result normalisation, lifecycle-aware sorting,
// load-more pagination and the confirm flows for creating and withdrawing
// applications.
//
// Application status graph:
//
//	pending ──► approved
//	    │
//	    └─────► rejected
//
// approved and rejected are terminal. Soft deletion is independent of
// status: a withdrawn application keeps whatever status it had.
package applied

import "fmt"

// Status values mirror the applications.status column.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// validTransitions lists every allowed (from → to) pair.
var validTransitions = map[Status][]Status{
	StatusPending: {StatusApproved, StatusRejected},
	// approved and rejected are terminal, no outgoing transitions
}

// ParseStatus converts a raw string to a Status, returning an error for
// unknown values.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	switch st {
	case StatusPending, StatusApproved, StatusRejected:
		return st, nil
	}
	return "", fmt.Errorf("unknown application status %q", s)
}

// IsTransitionAllowed returns true when moving from → to is permitted.
func IsTransitionAllowed(from, to Status) bool {
	for _, s := range validTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// IsApproved returns true when status is approved (triggers the applicant
// notification).
func IsApproved(s Status) bool { return s == StatusApproved }
