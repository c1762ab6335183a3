package applied_test

import (
	"context"
	"errors"
	"testing"

	"github.com/SeesonLau/hanapbuhay-sub000/internal/applied"
	"github.com/SeesonLau/hanapbuhay-sub000/internal/store"
)

func newService(apps *fakeApps, posts *fakePosts, profiles *fakeProfiles, reviews *fakeReviews) *applied.Service {
	if posts == nil {
		posts = &fakePosts{}
	}
	if profiles == nil {
		profiles = &fakeProfiles{profiles: map[string]*store.Profile{}}
	}
	if reviews == nil {
		reviews = &fakeReviews{}
	}
	return applied.NewService(apps, posts, profiles, reviews, nil)
}

// ── UpdateStatus ───────────────────────────────────────────────────────────

func TestService_UpdateStatusApprovesPending(t *testing.T) {
	apps := newFakeApps()
	apps.records["app-1"] = &store.ApplicationRecord{ID: "app-1", UserID: "worker-1", PostID: "post-1", Status: "pending"}
	svc := newService(apps, nil, nil, nil)

	rec, err := svc.UpdateStatus(context.Background(), "owner-1", "app-1", "approved")
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if rec.Status != "approved" {
		t.Errorf("status = %q, want approved", rec.Status)
	}
}

func TestService_UpdateStatusRejectsIllegalTransition(t *testing.T) {
	apps := newFakeApps()
	apps.records["app-1"] = &store.ApplicationRecord{ID: "app-1", Status: "approved"}
	svc := newService(apps, nil, nil, nil)

	_, err := svc.UpdateStatus(context.Background(), "owner-1", "app-1", "rejected")
	var validation *applied.ValidationError
	if !errors.As(err, &validation) {
		t.Errorf("err = %v, want ValidationError (approved is terminal)", err)
	}
	if apps.records["app-1"].Status != "approved" {
		t.Error("illegal transition must not touch the record")
	}
}

func TestService_UpdateStatusRejectsUnknownStatus(t *testing.T) {
	apps := newFakeApps()
	apps.records["app-1"] = &store.ApplicationRecord{ID: "app-1", Status: "pending"}
	svc := newService(apps, nil, nil, nil)

	_, err := svc.UpdateStatus(context.Background(), "owner-1", "app-1", "maybe")
	var validation *applied.ValidationError
	if !errors.As(err, &validation) {
		t.Errorf("err = %v, want ValidationError", err)
	}
}

func TestService_UpdateStatusMissingApplication(t *testing.T) {
	svc := newService(newFakeApps(), nil, nil, nil)
	_, err := svc.UpdateStatus(context.Background(), "owner-1", "app-404", "approved")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

// ── CreateApplication ──────────────────────────────────────────────────────

func TestService_CreateRequiresIdentity(t *testing.T) {
	svc := newService(newFakeApps(), nil, nil, nil)
	_, err := svc.CreateApplication(context.Background(), "", "post-1")
	var validation *applied.ValidationError
	if !errors.As(err, &validation) {
		t.Errorf("err = %v, want ValidationError", err)
	}
}

func TestService_CreateChecksProfileBeforeStore(t *testing.T) {
	apps := newFakeApps()
	profile := completeProfile("user-1")
	profile.Address = " " // whitespace-only counts as missing
	profiles := &fakeProfiles{profiles: map[string]*store.Profile{"user-1": profile}}
	svc := newService(apps, nil, profiles, nil)

	_, err := svc.CreateApplication(context.Background(), "user-1", "post-1")
	var incomplete *applied.IncompleteProfileError
	if !errors.As(err, &incomplete) {
		t.Fatalf("err = %v, want IncompleteProfileError", err)
	}
	if apps.createCalls != 0 {
		t.Error("incomplete profile must abort before the store create")
	}
}

// ── ListApplicants ─────────────────────────────────────────────────────────

func TestService_ListApplicantsEnrichesConcurrently(t *testing.T) {
	apps := newFakeApps()
	apps.byPost = []store.ApplicationRecord{
		{ID: "app-1", UserID: "worker-1", Status: "pending", CreatedAt: "2025-02-01T00:00:00Z"},
		{ID: "app-2", UserID: "worker-2", Status: "approved", CreatedAt: "2025-02-02T00:00:00Z"},
	}
	posts := &fakePosts{posts: map[string]*store.PostRecord{
		"post-1": {ID: "post-1", OwnerID: "owner-1"},
	}}
	profiles := &fakeProfiles{profiles: map[string]*store.Profile{
		"worker-1": completeProfile("worker-1"),
	}}
	reviews := &fakeReviews{avg: 4.5, count: 12, reviewed: true}
	svc := newService(apps, posts, profiles, reviews)

	applicants, err := svc.ListApplicants(context.Background(), "owner-1", "post-1")
	if err != nil {
		t.Fatalf("ListApplicants: %v", err)
	}
	if len(applicants) != 2 {
		t.Fatalf("got %d applicants, want 2", len(applicants))
	}

	first := applicants[0]
	if first.ApplicationID != "app-1" || first.UserID != "worker-1" {
		t.Errorf("applicant order must follow the store result: %+v", first)
	}
	if first.DisplayName != "Maria Santos" {
		t.Errorf("DisplayName = %q, want Maria Santos", first.DisplayName)
	}
	if first.AverageRating != 4.5 || first.ReviewCount != 12 || !first.Reviewed {
		t.Errorf("review enrichment missing: %+v", first)
	}
	if first.AppliedOn != "February 1, 2025" {
		t.Errorf("AppliedOn = %q", first.AppliedOn)
	}
}

func TestService_ListApplicantsOwnershipEnforced(t *testing.T) {
	posts := &fakePosts{posts: map[string]*store.PostRecord{
		"post-1": {ID: "post-1", OwnerID: "owner-1"},
	}}
	svc := newService(newFakeApps(), posts, nil, nil)

	_, err := svc.ListApplicants(context.Background(), "intruder", "post-1")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound for non-owner", err)
	}
}
