// Package store implements the data-access layer over PostgreSQL.
//
// All deletes are soft: a deleted_at marker gates visibility, rows are never
// physically removed. Timestamps cross the package boundary as RFC 3339
// strings, matching the wire shape the presentation layer consumes.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/SeesonLau/hanapbuhay-sub000/internal/query"
)

// Sentinel errors shared by all stores.
var (
	// ErrNotFound is returned when a record is missing or not visible to
	// the caller.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateApplication is returned when a user already has a live
	// application for the post.
	ErrDuplicateApplication = errors.New("application already exists for this post")
)

// PostRecord is the job listing joined into application records. Read-only
// to the core pipeline.
type PostRecord struct {
	ID          string   `json:"id"`
	OwnerID     string   `json:"ownerId"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Location    string   `json:"location"`
	Price       float64  `json:"price"`
	PricePeriod string   `json:"pricePeriod"`
	Type        string   `json:"type"`
	SubTypes    []string `json:"subType"`
	IsLocked    bool     `json:"isLocked"`
	DeletedAt   string   `json:"deletedAt,omitempty"`
}

// Deleted reports whether the post carries a soft-delete marker.
func (p *PostRecord) Deleted() bool { return p != nil && p.DeletedAt != "" }

// ApplicationRecord is the backend-joined application row. Post is nil when
// the joined post row is gone entirely.
type ApplicationRecord struct {
	ID        string      `json:"applicationId"`
	UserID    string      `json:"userId"`
	PostID    string      `json:"postId"`
	Status    string      `json:"status"`
	CreatedAt string      `json:"createdAt"`
	UpdatedAt string      `json:"updatedAt"`
	Post      *PostRecord `json:"post,omitempty"`
}

// ApplicationPage is one page of joined records plus the total matching the
// query across all pages, which drives the load-more cursor.
type ApplicationPage struct {
	Records    []ApplicationRecord
	TotalCount int
}

// Profile holds the applicant-editable identity fields. Completeness of
// these gates application creation.
type Profile struct {
	UserID    string
	FirstName string
	LastName  string
	Phone     string
	Birthdate string
	Sex       string
	Address   string
	AvatarURL string
}

// ApplicationStore is the application collaborator interface.
type ApplicationStore interface {
	// ListByApplicant returns the caller's applications matching params,
	// joined with their posts, plus the total count.
	ListByApplicant(ctx context.Context, userID string, params query.Params) (*ApplicationPage, error)
	// ListByPost returns the live applications for one post, for the post
	// owner's applicant view.
	ListByPost(ctx context.Context, postID string) ([]ApplicationRecord, error)
	// Get returns one application by id regardless of owner.
	Get(ctx context.Context, applicationID string) (*ApplicationRecord, error)
	// Create inserts a pending application, or ErrDuplicateApplication if
	// the user already has a live one for the post.
	Create(ctx context.Context, postID, userID string) (*ApplicationRecord, error)
	// UpdateStatus sets a new status; the actor must own the joined post.
	UpdateStatus(ctx context.Context, applicationID, status, actorID string) (*ApplicationRecord, error)
	// SoftDelete marks the caller's application deleted. Returns false
	// when nothing was live to delete.
	SoftDelete(ctx context.Context, applicationID, actorID string) (bool, error)
}

// PostStore is the read-only post catalog interface.
type PostStore interface {
	Get(ctx context.Context, postID string) (*PostRecord, error)
}

// ProfileStore exposes profile lookups.
type ProfileStore interface {
	Get(ctx context.Context, userID string) (*Profile, error)
	DisplayName(ctx context.Context, userID string) (string, error)
	AvatarURL(ctx context.Context, userID string) (string, error)
}

// ReviewStore exposes rating aggregates.
type ReviewStore interface {
	AverageRating(ctx context.Context, userID string) (float64, error)
	ReviewCount(ctx context.Context, userID string) (int, error)
	HasReviewed(ctx context.Context, reviewerID, targetID, postID string) (bool, error)
}

// wireTime renders a database timestamp in the RFC 3339 wire shape.
func wireTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// wireTimePtr renders a nullable timestamp, empty when absent.
func wireTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return wireTime(*t)
}
