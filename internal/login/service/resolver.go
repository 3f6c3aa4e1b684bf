package service

import (
	"context"
	"errors"
	"strings"

	accountdomain "constituent-connect/backend/internal/account/domain"
	admindomain "constituent-connect/backend/internal/admin/domain"
	authndomain "constituent-connect/backend/internal/authn/domain"
	authnservice "constituent-connect/backend/internal/authn/service"
	logindomain "constituent-connect/backend/internal/login/domain"
)

// Sentinel errors for the login resolver; the handler maps them to HTTP codes.
var (
	ErrInvalidInput            = errors.New("invalid phone number or code")
	ErrLookupFailed            = errors.New("account lookup failed")
	ErrChallengeDispatchFailed = errors.New("could not dispatch verification code")
	ErrVerificationFailed      = errors.New("wrong or expired verification code")
	ErrBusy                    = errors.New("another call is in flight on this session")
	ErrNotAwaitingCode         = errors.New("session has no pending challenge")
)

const minPhoneLength = 10

// Outcome is the result of a resolver step: either a routing decision to act
// on now, or an issued challenge whose code must be submitted next.
type Outcome struct {
	Decision  *logindomain.RoutingDecision
	Challenge *authndomain.Challenge
}

// ChallengeProvider issues and confirms OTP challenges.
type ChallengeProvider interface {
	SendChallenge(ctx context.Context, phone string) (*authndomain.Challenge, error)
	Confirm(ctx context.Context, challengeID, code string) (accountID string, err error)
}

// AdminDirectory is the minimal admin lookup needed by the resolver.
type AdminDirectory interface {
	GetByPhone(ctx context.Context, phone string) (*admindomain.Admin, error)
}

// AccountReader is the minimal account lookup needed by the resolver.
type AccountReader interface {
	GetByPhone(ctx context.Context, phone string) (*accountdomain.Account, error)
	GetByID(ctx context.Context, id string) (*accountdomain.Account, error)
}

// Resolver decides, from a phone number or a pending verification, whether
// the caller lands in the admin area, the main area, or profile completion.
// Known phones are routed without a challenge so returning users never wait
// on an SMS.
type Resolver struct {
	admins    AdminDirectory
	accounts  AccountReader
	challenge ChallengeProvider
}

// NewResolver returns a Resolver with the given dependencies.
func NewResolver(admins AdminDirectory, accounts AccountReader, challenge ChallengeProvider) *Resolver {
	return &Resolver{admins: admins, accounts: accounts, challenge: challenge}
}

// BeginLogin starts a login attempt for phone on sess. Admin and known user
// phones resolve immediately; unknown phones get an OTP challenge. Submitting
// a new phone discards any challenge held from a previous attempt. On any
// failure the session returns to idle with no partial state.
func (r *Resolver) BeginLogin(ctx context.Context, sess *logindomain.Session, phone string) (*Outcome, error) {
	if !sess.TryAcquire() {
		return nil, ErrBusy
	}
	defer sess.Release()

	phone = strings.TrimSpace(phone)
	if err := validatePhone(phone); err != nil {
		return nil, err
	}

	sess.Cancel()
	sess.State = logindomain.StateChallengeRequested
	sess.Phone = phone

	admin, err := r.admins.GetByPhone(ctx, phone)
	if err != nil {
		sess.Cancel()
		return nil, errors.Join(ErrLookupFailed, err)
	}
	if admin != nil {
		decision := &logindomain.RoutingDecision{Route: logindomain.RouteAdminArea}
		sess.State = logindomain.StateVerified
		sess.AccountID = admin.ID
		sess.Decision = decision
		return &Outcome{Decision: decision}, nil
	}

	account, err := r.accounts.GetByPhone(ctx, phone)
	if err != nil {
		sess.Cancel()
		return nil, errors.Join(ErrLookupFailed, err)
	}
	if account != nil {
		decision := &logindomain.RoutingDecision{Route: logindomain.RouteMainArea}
		sess.State = logindomain.StateVerified
		sess.AccountID = account.ID
		sess.Decision = decision
		return &Outcome{Decision: decision}, nil
	}

	ch, err := r.challenge.SendChallenge(ctx, phone)
	if err != nil {
		sess.Cancel()
		if errors.Is(err, authnservice.ErrSendFailed) {
			return nil, errors.Join(ErrChallengeDispatchFailed, err)
		}
		return nil, errors.Join(ErrLookupFailed, err)
	}
	sess.State = logindomain.StateAwaitingCode
	sess.Challenge = ch
	return &Outcome{Challenge: ch}, nil
}

// SubmitCode submits code against the session's pending challenge. A rejected
// code moves the session to failed but keeps the challenge valid for another
// attempt. On acceptance the challenge is consumed, the session becomes
// verified, and the account record decides the route. If the record read
// fails after acceptance the session stays verified; call ResolveVerified to
// retry the read without restarting verification.
func (r *Resolver) SubmitCode(ctx context.Context, sess *logindomain.Session, code string) (*Outcome, error) {
	if !sess.TryAcquire() {
		return nil, ErrBusy
	}
	defer sess.Release()

	if sess.State != logindomain.StateAwaitingCode && sess.State != logindomain.StateFailed {
		return nil, ErrNotAwaitingCode
	}
	if strings.TrimSpace(code) == "" {
		return nil, ErrInvalidInput
	}

	accountID, err := r.challenge.Confirm(ctx, sess.Challenge.ID, code)
	if err != nil {
		if errors.Is(err, authnservice.ErrCodeRejected) {
			sess.State = logindomain.StateFailed
			return nil, ErrVerificationFailed
		}
		return nil, errors.Join(ErrLookupFailed, err)
	}

	sess.State = logindomain.StateVerified
	sess.Challenge = nil
	sess.AccountID = accountID
	return r.resolveRoute(ctx, sess)
}

// ResolveVerified retries the routing decision for an already-verified
// session whose record read previously failed.
func (r *Resolver) ResolveVerified(ctx context.Context, sess *logindomain.Session) (*Outcome, error) {
	if !sess.TryAcquire() {
		return nil, ErrBusy
	}
	defer sess.Release()

	if sess.State != logindomain.StateVerified || sess.AccountID == "" {
		return nil, ErrNotAwaitingCode
	}
	if sess.Decision != nil {
		return &Outcome{Decision: sess.Decision}, nil
	}
	return r.resolveRoute(ctx, sess)
}

func (r *Resolver) resolveRoute(ctx context.Context, sess *logindomain.Session) (*Outcome, error) {
	account, err := r.accounts.GetByID(ctx, sess.AccountID)
	if err != nil {
		// verification already succeeded; the session stays verified so the
		// caller can retry the read instead of restarting the challenge.
		return nil, errors.Join(ErrLookupFailed, err)
	}
	var decision *logindomain.RoutingDecision
	switch {
	case account == nil:
		decision = &logindomain.RoutingDecision{Route: logindomain.RouteProfileCompletion, AccountID: sess.AccountID}
	case account.IsAdmin():
		decision = &logindomain.RoutingDecision{Route: logindomain.RouteAdminArea}
	default:
		decision = &logindomain.RoutingDecision{Route: logindomain.RouteMainArea}
	}
	sess.Decision = decision
	return &Outcome{Decision: decision}, nil
}

func validatePhone(phone string) error {
	if len(phone) < minPhoneLength || !strings.HasPrefix(phone, "+") {
		return ErrInvalidInput
	}
	for _, r := range phone[1:] {
		if r < '0' || r > '9' {
			return ErrInvalidInput
		}
	}
	return nil
}
