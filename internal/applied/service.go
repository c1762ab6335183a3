package applied

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/SeesonLau/hanapbuhay-sub000/internal/notify"
	"github.com/SeesonLau/hanapbuhay-sub000/internal/store"
)

// ValidationError wraps a user-facing validation message. It is recovered
// locally: surfaced to the user, never retried, never fatal.
type ValidationError struct{ Msg string }

func (e *ValidationError) Error() string { return e.Msg }

// IncompleteProfileError aborts application creation before the store is
// called. Missing lists the profile fields still to be filled in; the UI
// flow reacts by navigating to the profile editor.
type IncompleteProfileError struct{ Missing []string }

func (e *IncompleteProfileError) Error() string {
	return "profile incomplete: missing " + strings.Join(e.Missing, ", ")
}

// MissingProfileFields returns which of the fields required for applying are
// still empty. An application may only be created when the result is empty.
func MissingProfileFields(p *store.Profile) []string {
	var missing []string
	check := func(name, value string) {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}
	check("first name", p.FirstName)
	check("last name", p.LastName)
	check("phone number", p.Phone)
	check("birthdate", p.Birthdate)
	check("sex", p.Sex)
	check("address", p.Address)
	return missing
}

// Page is one fetched page of the applied-jobs view.
type Page struct {
	Jobs       []DisplayJob `json:"jobs"`
	TotalCount int          `json:"totalCount"`
}

// DisplayApplicant is the enriched applicant card shown to a post owner.
type DisplayApplicant struct {
	ApplicationID string  `json:"applicationId"`
	UserID        string  `json:"userId"`
	Status        string  `json:"status"`
	AppliedOn     string  `json:"appliedOn"`
	DisplayName   string  `json:"displayName"`
	AvatarURL     string  `json:"avatarUrl"`
	AverageRating float64 `json:"averageRating"`
	ReviewCount   int     `json:"reviewCount"`
	Reviewed      bool    `json:"reviewed"`
}

// Service encapsulates the applied-jobs business logic. It is
// transport-agnostic: the HTTP handler, the feed controller and the action
// flows all sit on top of it.
type Service struct {
	apps     store.ApplicationStore
	posts    store.PostStore
	profiles store.ProfileStore
	reviews  store.ReviewStore
	notifier *notify.Notifier
}

// NewService returns a configured Service.
func NewService(apps store.ApplicationStore, posts store.PostStore, profiles store.ProfileStore, reviews store.ReviewStore, notifier *notify.Notifier) *Service {
	return &Service{apps: apps, posts: posts, profiles: profiles, reviews: reviews, notifier: notifier}
}

// ListApplied fetches one page of the caller's applications for the given
// view state, normalises the joined records and applies the lifecycle-aware
// sort.
func (s *Service) ListApplied(ctx context.Context, userID string, vs ViewState, page, pageSize int) (*Page, error) {
	result, err := s.apps.ListByApplicant(ctx, userID, vs.Params(page, pageSize))
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	jobs := Normalize(result.Records)
	Sort(jobs, vs.SortOrder)
	return &Page{Jobs: jobs, TotalCount: result.TotalCount}, nil
}

// ListApplicants returns the enriched applicant cards for one of the
// caller's posts. The five profile/review lookups per applicant run
// concurrently; the whole set is awaited before anything is returned, and
// ordering across applicants' lookups is not significant.
func (s *Service) ListApplicants(ctx context.Context, ownerID, postID string) ([]DisplayApplicant, error) {
	post, err := s.posts.Get(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.OwnerID != ownerID {
		return nil, store.ErrNotFound
	}

	records, err := s.apps.ListByPost(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("list applicants: %w", err)
	}

	applicants := make([]DisplayApplicant, len(records))
	g, gctx := errgroup.WithContext(ctx)
	for i := range records {
		rec := &records[i]
		applicants[i] = DisplayApplicant{
			ApplicationID: rec.ID,
			UserID:        rec.UserID,
			Status:        rec.Status,
			AppliedOn:     formatDate(rec.CreatedAt),
		}
		card := &applicants[i]

		g.Go(func() error {
			name, err := s.profiles.DisplayName(gctx, rec.UserID)
			card.DisplayName = name
			return err
		})
		g.Go(func() error {
			avatar, err := s.profiles.AvatarURL(gctx, rec.UserID)
			card.AvatarURL = avatar
			return err
		})
		g.Go(func() error {
			avg, err := s.reviews.AverageRating(gctx, rec.UserID)
			card.AverageRating = avg
			return err
		})
		g.Go(func() error {
			count, err := s.reviews.ReviewCount(gctx, rec.UserID)
			card.ReviewCount = count
			return err
		})
		g.Go(func() error {
			reviewed, err := s.reviews.HasReviewed(gctx, ownerID, rec.UserID, postID)
			card.Reviewed = reviewed
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("enrich applicants: %w", err)
	}
	return applicants, nil
}

// CreateApplication creates a pending application for the caller. The
// profile-completeness precondition runs first: an incomplete profile aborts
// with IncompleteProfileError and the store's create is never called. On
// success the post owner is notified (fire-and-forget).
func (s *Service) CreateApplication(ctx context.Context, userID, postID string) (*store.ApplicationRecord, error) {
	if userID == "" {
		return nil, &ValidationError{Msg: "you must be signed in to apply"}
	}

	profile, err := s.profiles.Get(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, &IncompleteProfileError{Missing: MissingProfileFields(&store.Profile{})}
	}
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	if missing := MissingProfileFields(profile); len(missing) > 0 {
		return nil, &IncompleteProfileError{Missing: missing}
	}

	rec, err := s.apps.Create(ctx, postID, userID)
	if err != nil {
		return nil, err
	}

	if rec.Post != nil {
		s.notifier.ApplicationCreated(ctx, rec.ID, rec.PostID, rec.Post.OwnerID, userID)
	}
	return rec, nil
}

// UpdateStatus transitions an application through the status machine. The
// actor must own the joined post. An approval notifies the applicant
// (fire-and-forget).
func (s *Service) UpdateStatus(ctx context.Context, actorID, applicationID, newStatusStr string) (*store.ApplicationRecord, error) {
	newStatus, err := ParseStatus(newStatusStr)
	if err != nil {
		return nil, &ValidationError{Msg: err.Error()}
	}

	current, err := s.apps.Get(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	currentStatus, _ := ParseStatus(current.Status)
	if !IsTransitionAllowed(currentStatus, newStatus) {
		return nil, &ValidationError{
			Msg: fmt.Sprintf("cannot change status from %s to %s", currentStatus, newStatus),
		}
	}

	rec, err := s.apps.UpdateStatus(ctx, applicationID, string(newStatus), actorID)
	if err != nil {
		return nil, err
	}

	if IsApproved(newStatus) {
		s.notifier.ApplicationApproved(ctx, rec.ID, rec.PostID, rec.UserID, actorID)
	}
	return rec, nil
}

// DeleteApplication soft-deletes the caller's application.
func (s *Service) DeleteApplication(ctx context.Context, userID, applicationID string) error {
	if userID == "" {
		return &ValidationError{Msg: "you must be signed in"}
	}
	ok, err := s.apps.SoftDelete(ctx, applicationID, userID)
	if err != nil {
		return fmt.Errorf("delete application: %w", err)
	}
	if !ok {
		return store.ErrNotFound
	}
	return nil
}
