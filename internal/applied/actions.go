package applied

import (
	"context"
	"errors"
)

// ActionKind identifies a two-step confirm flow.
type ActionKind string

const (
	ActionCreate ActionKind = "createApplication"
	ActionDelete ActionKind = "deleteApplication"
)

// PendingAction is the transient state of a confirm flow in progress.
type PendingAction struct {
	Kind       ActionKind
	TargetID   string
	Confirming bool
	Processing bool
}

// Navigator performs the navigation side-effects of action flows (e.g.
// sending a user with an incomplete profile to the profile editor).
type Navigator interface {
	To(path string)
}

// Refresher invalidates and reloads the applied-jobs list after a mutating
// action. *Feed satisfies it.
type Refresher interface {
	Reload(ctx context.Context) error
}

// ProfileEditPath is where users with incomplete profiles are sent.
const ProfileEditPath = "/profile/edit"

// Actor drives the confirm/cancel flows for creating and withdrawing
// applications on behalf of one signed-in user.
//
// Both flows share the same shape: Begin* records the pending action and
// asks for confirmation, Confirm runs the action, Cancel drops it. Either
// way the actor always returns to idle.
type Actor struct {
	svc     *Service
	nav     Navigator
	refresh Refresher
	userID  string

	pending *PendingAction
}

// NewActor returns an Actor for the given user identity. userID may be
// empty; every Begin* call will then short-circuit with a validation error.
func NewActor(svc *Service, nav Navigator, refresh Refresher, userID string) *Actor {
	return &Actor{svc: svc, nav: nav, refresh: refresh, userID: userID}
}

// Pending returns the action awaiting confirmation, or nil when idle.
func (a *Actor) Pending() *PendingAction {
	if a.pending == nil {
		return nil
	}
	p := *a.pending
	return &p
}

// BeginCreate starts the create-application confirm flow for a post.
func (a *Actor) BeginCreate(postID string) error {
	return a.begin(ActionCreate, postID)
}

// BeginDelete starts the withdraw confirm flow for an application.
func (a *Actor) BeginDelete(applicationID string) error {
	return a.begin(ActionDelete, applicationID)
}

func (a *Actor) begin(kind ActionKind, targetID string) error {
	if a.userID == "" {
		return &ValidationError{Msg: "you must be signed in"}
	}
	if a.pending != nil {
		return &ValidationError{Msg: "another action is awaiting confirmation"}
	}
	a.pending = &PendingAction{Kind: kind, TargetID: targetID, Confirming: true}
	return nil
}

// Cancel drops the pending action without running it.
func (a *Actor) Cancel() {
	a.pending = nil
}

// Confirm runs the pending action. Whatever the outcome, the actor is idle
// afterwards. An incomplete profile aborts the create flow before the store
// is reached and navigates to the profile editor; a successful delete
// reloads the list.
func (a *Actor) Confirm(ctx context.Context) error {
	if a.pending == nil || !a.pending.Confirming {
		return &ValidationError{Msg: "nothing to confirm"}
	}
	pending := a.pending
	pending.Confirming = false
	pending.Processing = true
	defer func() { a.pending = nil }()

	switch pending.Kind {
	case ActionCreate:
		_, err := a.svc.CreateApplication(ctx, a.userID, pending.TargetID)
		var incomplete *IncompleteProfileError
		if errors.As(err, &incomplete) {
			if a.nav != nil {
				a.nav.To(ProfileEditPath)
			}
			return err
		}
		return err

	case ActionDelete:
		if err := a.svc.DeleteApplication(ctx, a.userID, pending.TargetID); err != nil {
			return err
		}
		if a.refresh != nil {
			return a.refresh.Reload(ctx)
		}
		return nil
	}
	return &ValidationError{Msg: "unknown action"}
}
