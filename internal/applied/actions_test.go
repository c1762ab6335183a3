package applied_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/SeesonLau/hanapbuhay-sub000/internal/applied"
	"github.com/SeesonLau/hanapbuhay-sub000/internal/query"
	"github.com/SeesonLau/hanapbuhay-sub000/internal/store"
)

// ── Fakes shared with service_test.go ──────────────────────────────────────

type fakeApps struct {
	mu          sync.Mutex
	createCalls int
	deleteCalls int
	records     map[string]*store.ApplicationRecord
	byPost      []store.ApplicationRecord
}

func newFakeApps() *fakeApps {
	return &fakeApps{records: map[string]*store.ApplicationRecord{}}
}

func (f *fakeApps) ListByApplicant(ctx context.Context, userID string, params query.Params) (*store.ApplicationPage, error) {
	return &store.ApplicationPage{Records: []store.ApplicationRecord{}}, nil
}

func (f *fakeApps) ListByPost(ctx context.Context, postID string) ([]store.ApplicationRecord, error) {
	return f.byPost, nil
}

func (f *fakeApps) Get(ctx context.Context, id string) (*store.ApplicationRecord, error) {
	if rec, ok := f.records[id]; ok {
		return rec, nil
	}
	return nil, store.ErrNotFound
}

func (f *fakeApps) Create(ctx context.Context, postID, userID string) (*store.ApplicationRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	rec := &store.ApplicationRecord{
		ID:     "app-new",
		UserID: userID,
		PostID: postID,
		Status: "pending",
		Post:   &store.PostRecord{ID: postID, OwnerID: "owner-1", Title: "job"},
	}
	f.records[rec.ID] = rec
	return rec, nil
}

func (f *fakeApps) UpdateStatus(ctx context.Context, id, status, actorID string) (*store.ApplicationRecord, error) {
	rec, ok := f.records[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	rec.Status = status
	return rec, nil
}

func (f *fakeApps) SoftDelete(ctx context.Context, id, actorID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls++
	_, ok := f.records[id]
	delete(f.records, id)
	return ok, nil
}

type fakePosts struct{ posts map[string]*store.PostRecord }

func (f *fakePosts) Get(ctx context.Context, id string) (*store.PostRecord, error) {
	if p, ok := f.posts[id]; ok {
		return p, nil
	}
	return nil, store.ErrNotFound
}

type fakeProfiles struct{ profiles map[string]*store.Profile }

func (f *fakeProfiles) Get(ctx context.Context, userID string) (*store.Profile, error) {
	if p, ok := f.profiles[userID]; ok {
		return p, nil
	}
	return nil, store.ErrNotFound
}

func (f *fakeProfiles) DisplayName(ctx context.Context, userID string) (string, error) {
	if p, ok := f.profiles[userID]; ok {
		return p.FirstName + " " + p.LastName, nil
	}
	return "", nil
}

func (f *fakeProfiles) AvatarURL(ctx context.Context, userID string) (string, error) {
	if p, ok := f.profiles[userID]; ok {
		return p.AvatarURL, nil
	}
	return "", nil
}

type fakeReviews struct {
	avg      float64
	count    int
	reviewed bool
}

func (f *fakeReviews) AverageRating(ctx context.Context, userID string) (float64, error) {
	return f.avg, nil
}
func (f *fakeReviews) ReviewCount(ctx context.Context, userID string) (int, error) {
	return f.count, nil
}
func (f *fakeReviews) HasReviewed(ctx context.Context, reviewerID, targetID, postID string) (bool, error) {
	return f.reviewed, nil
}

type fakeNav struct{ paths []string }

func (f *fakeNav) To(path string) { f.paths = append(f.paths, path) }

type fakeRefresher struct{ reloads int }

func (f *fakeRefresher) Reload(ctx context.Context) error {
	f.reloads++
	return nil
}

func completeProfile(userID string) *store.Profile {
	return &store.Profile{
		UserID:    userID,
		FirstName: "Maria",
		LastName:  "Santos",
		Phone:     "09170000000",
		Birthdate: "1995-04-12T00:00:00Z",
		Sex:       "Female",
		Address:   "Cebu City",
	}
}

type actorDeps struct {
	apps     *fakeApps
	profiles *fakeProfiles
	nav      *fakeNav
	refresh  *fakeRefresher
	actor    *applied.Actor
}

func newActor(t *testing.T, userID string, profile *store.Profile) actorDeps {
	t.Helper()
	apps := newFakeApps()
	profiles := &fakeProfiles{profiles: map[string]*store.Profile{}}
	if profile != nil {
		profiles.profiles[profile.UserID] = profile
	}
	svc := applied.NewService(apps, &fakePosts{}, profiles, &fakeReviews{}, nil)
	nav := &fakeNav{}
	refresh := &fakeRefresher{}
	return actorDeps{
		apps:     apps,
		profiles: profiles,
		nav:      nav,
		refresh:  refresh,
		actor:    applied.NewActor(svc, nav, refresh, userID),
	}
}

// ── Identity guard ─────────────────────────────────────────────────────────

func TestActor_BeginRequiresIdentity(t *testing.T) {
	d := newActor(t, "", nil)

	var validation *applied.ValidationError
	if err := d.actor.BeginCreate("post-1"); !errors.As(err, &validation) {
		t.Errorf("BeginCreate without identity: err = %v, want ValidationError", err)
	}
	if err := d.actor.BeginDelete("app-1"); !errors.As(err, &validation) {
		t.Errorf("BeginDelete without identity: err = %v, want ValidationError", err)
	}
	if d.actor.Pending() != nil {
		t.Error("guard failure must not leave a pending action")
	}
}

// ── Create flow ────────────────────────────────────────────────────────────

func TestActor_CreateFlowHappyPath(t *testing.T) {
	d := newActor(t, "user-1", completeProfile("user-1"))

	if err := d.actor.BeginCreate("post-1"); err != nil {
		t.Fatalf("BeginCreate: %v", err)
	}
	p := d.actor.Pending()
	if p == nil || p.Kind != applied.ActionCreate || !p.Confirming {
		t.Fatalf("pending = %+v, want confirming create", p)
	}

	if err := d.actor.Confirm(context.Background()); err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if d.apps.createCalls != 1 {
		t.Errorf("createCalls = %d, want 1", d.apps.createCalls)
	}
	if d.actor.Pending() != nil {
		t.Error("actor must return to idle after confirm")
	}
}

func TestActor_IncompleteProfileAbortsBeforeStore(t *testing.T) {
	profile := completeProfile("user-1")
	profile.Birthdate = ""
	d := newActor(t, "user-1", profile)

	if err := d.actor.BeginCreate("post-1"); err != nil {
		t.Fatalf("BeginCreate: %v", err)
	}
	err := d.actor.Confirm(context.Background())

	var incomplete *applied.IncompleteProfileError
	if !errors.As(err, &incomplete) {
		t.Fatalf("err = %v, want IncompleteProfileError", err)
	}
	if len(incomplete.Missing) != 1 || incomplete.Missing[0] != "birthdate" {
		t.Errorf("Missing = %v, want [birthdate]", incomplete.Missing)
	}
	if d.apps.createCalls != 0 {
		t.Errorf("store create must not be called, got %d calls", d.apps.createCalls)
	}
	if len(d.nav.paths) != 1 || d.nav.paths[0] != applied.ProfileEditPath {
		t.Errorf("nav = %v, want redirect to %s", d.nav.paths, applied.ProfileEditPath)
	}
	if d.actor.Pending() != nil {
		t.Error("actor must return to idle after the aborted flow")
	}
}

func TestActor_MissingProfileRowCountsAsIncomplete(t *testing.T) {
	d := newActor(t, "user-1", nil)

	d.actor.BeginCreate("post-1")
	err := d.actor.Confirm(context.Background())

	var incomplete *applied.IncompleteProfileError
	if !errors.As(err, &incomplete) {
		t.Fatalf("err = %v, want IncompleteProfileError", err)
	}
	if len(incomplete.Missing) != 6 {
		t.Errorf("Missing = %v, want all six fields", incomplete.Missing)
	}
	if d.apps.createCalls != 0 {
		t.Error("store create must not be called")
	}
}

// ── Cancel ─────────────────────────────────────────────────────────────────

func TestActor_CancelDropsPendingAction(t *testing.T) {
	d := newActor(t, "user-1", completeProfile("user-1"))

	d.actor.BeginCreate("post-1")
	d.actor.Cancel()

	if d.actor.Pending() != nil {
		t.Error("Cancel must clear the pending action")
	}
	if err := d.actor.Confirm(context.Background()); err == nil {
		t.Error("Confirm after Cancel should fail")
	}
	if d.apps.createCalls != 0 {
		t.Error("cancelled flow must not reach the store")
	}
}

// ── Delete flow ────────────────────────────────────────────────────────────

func TestActor_DeleteFlowRefreshesList(t *testing.T) {
	d := newActor(t, "user-1", completeProfile("user-1"))
	d.apps.records["app-7"] = &store.ApplicationRecord{ID: "app-7", UserID: "user-1", Status: "pending"}

	if err := d.actor.BeginDelete("app-7"); err != nil {
		t.Fatalf("BeginDelete: %v", err)
	}
	if err := d.actor.Confirm(context.Background()); err != nil {
		t.Fatalf("Confirm: %v", err)
	}

	if d.apps.deleteCalls != 1 {
		t.Errorf("deleteCalls = %d, want 1", d.apps.deleteCalls)
	}
	if d.refresh.reloads != 1 {
		t.Errorf("reloads = %d, want 1 (successful delete refreshes the list)", d.refresh.reloads)
	}
}

func TestActor_DeleteFailureSurfacesAndSkipsRefresh(t *testing.T) {
	d := newActor(t, "user-1", completeProfile("user-1"))
	// No record: SoftDelete reports nothing live to delete.

	d.actor.BeginDelete("app-404")
	err := d.actor.Confirm(context.Background())
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	if d.refresh.reloads != 0 {
		t.Error("failed delete must not trigger a refresh")
	}
}

// ── Only one pending action at a time ──────────────────────────────────────

func TestActor_SecondBeginWhilePendingRejected(t *testing.T) {
	d := newActor(t, "user-1", completeProfile("user-1"))

	d.actor.BeginCreate("post-1")
	if err := d.actor.BeginDelete("app-1"); err == nil {
		t.Error("second Begin while one action is pending should fail")
	}
	if p := d.actor.Pending(); p == nil || p.Kind != applied.ActionCreate {
		t.Errorf("original pending action must survive, got %+v", p)
	}
}
