// Package domain holds the login session types: the verification session
// state machine and the routing decision it resolves to.
package domain

import (
	"sync/atomic"

	authndomain "constituent-connect/backend/internal/authn/domain"
)

// Route names the destination a finished login resolves to.
type Route string

const (
	RouteAdminArea         Route = "admin_area"
	RouteMainArea          Route = "main_area"
	RouteProfileCompletion Route = "profile_completion"
)

// RoutingDecision is the sole output of a resolved login. AccountID is set
// only for RouteProfileCompletion, where the destination needs to know which
// account to complete.
type RoutingDecision struct {
	Route     Route
	AccountID string
}

// State is the verification session's position in the login flow.
type State string

const (
	// StateIdle means no phone has been submitted yet.
	StateIdle State = "idle"
	// StateChallengeRequested is the transient state while a code is being dispatched.
	StateChallengeRequested State = "challenge_requested"
	// StateAwaitingCode means a live challenge is held and a code can be submitted.
	StateAwaitingCode State = "awaiting_code"
	// StateVerified means phone ownership is proven. Terminal for the challenge;
	// the routing decision may still be pending a record read.
	StateVerified State = "verified"
	// StateFailed means the last code was rejected. The challenge stays valid
	// and another code may be submitted.
	StateFailed State = "failed"
)

// Session is the single mutable value threaded through one login attempt.
// It owns the in-flight challenge exclusively; submitting a new phone
// discards the previous challenge.
type Session struct {
	State     State
	Phone     string
	Challenge *authndomain.Challenge
	// AccountID is set once verification succeeds, before the routing
	// decision is resolved.
	AccountID string
	Decision  *RoutingDecision

	inFlight atomic.Bool
}

// NewSession returns an idle session.
func NewSession() *Session {
	return &Session{State: StateIdle}
}

// TryAcquire marks the session busy for one outstanding call. It returns
// false if a call is already in flight; overlapping calls are rejected, not
// queued.
func (s *Session) TryAcquire() bool {
	return s.inFlight.CompareAndSwap(false, true)
}

// Release clears the in-flight mark.
func (s *Session) Release() {
	s.inFlight.Store(false)
}

// Cancel abandons the session, releasing any held challenge. Cancelling is a
// normal exit, never an error, and is valid in any state.
func (s *Session) Cancel() {
	s.State = StateIdle
	s.Phone = ""
	s.Challenge = nil
	s.AccountID = ""
	s.Decision = nil
}
