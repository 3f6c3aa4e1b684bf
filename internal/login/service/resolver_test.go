package service

import (
	"context"
	"errors"
	"testing"

	accountdomain "constituent-connect/backend/internal/account/domain"
	admindomain "constituent-connect/backend/internal/admin/domain"
	authndomain "constituent-connect/backend/internal/authn/domain"
	authnservice "constituent-connect/backend/internal/authn/service"
	logindomain "constituent-connect/backend/internal/login/domain"
)

type fakeAdminDirectory struct {
	admins map[string]*admindomain.Admin
	calls  int
	err    error
}

func (f *fakeAdminDirectory) GetByPhone(_ context.Context, phone string) (*admindomain.Admin, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.admins[phone], nil
}

type fakeAccountReader struct {
	byPhone     map[string]*accountdomain.Account
	byID        map[string]*accountdomain.Account
	phoneCalls  int
	idCalls     int
	errByPhone  error
	errByID     error
}

func (f *fakeAccountReader) GetByPhone(_ context.Context, phone string) (*accountdomain.Account, error) {
	f.phoneCalls++
	if f.errByPhone != nil {
		return nil, f.errByPhone
	}
	return f.byPhone[phone], nil
}

func (f *fakeAccountReader) GetByID(_ context.Context, id string) (*accountdomain.Account, error) {
	f.idCalls++
	if f.errByID != nil {
		return nil, f.errByID
	}
	return f.byID[id], nil
}

type fakeChallengeProvider struct {
	sendCalls    int
	confirmCalls int
	sendErr      error
	confirmErr   error
	accountID    string
	block        chan struct{}
	started      chan struct{}
}

func (f *fakeChallengeProvider) SendChallenge(_ context.Context, phone string) (*authndomain.Challenge, error) {
	f.sendCalls++
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	return &authndomain.Challenge{ID: "ch-1", Phone: phone}, nil
}

func (f *fakeChallengeProvider) Confirm(_ context.Context, _, _ string) (string, error) {
	f.confirmCalls++
	if f.started != nil {
		close(f.started)
		f.started = nil
	}
	if f.block != nil {
		<-f.block
	}
	if f.confirmErr != nil {
		return "", f.confirmErr
	}
	return f.accountID, nil
}

func newResolverFixture() (*Resolver, *fakeAdminDirectory, *fakeAccountReader, *fakeChallengeProvider) {
	admins := &fakeAdminDirectory{admins: map[string]*admindomain.Admin{}}
	accounts := &fakeAccountReader{
		byPhone: map[string]*accountdomain.Account{},
		byID:    map[string]*accountdomain.Account{},
	}
	challenge := &fakeChallengeProvider{accountID: "acct-1"}
	return NewResolver(admins, accounts, challenge), admins, accounts, challenge
}

func TestBeginLogin_InvalidPhone(t *testing.T) {
	r, admins, accounts, challenge := newResolverFixture()
	ctx := context.Background()

	for _, phone := range []string{"", "12345", "+1555", "short", "+1555abc9999"} {
		sess := logindomain.NewSession()
		_, err := r.BeginLogin(ctx, sess, phone)
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("phone %q: err = %v, want ErrInvalidInput", phone, err)
		}
	}
	if admins.calls != 0 || accounts.phoneCalls != 0 || challenge.sendCalls != 0 {
		t.Errorf("invalid input must not reach the network: admin=%d account=%d send=%d",
			admins.calls, accounts.phoneCalls, challenge.sendCalls)
	}
}

func TestBeginLogin_AdminPhoneRoutesWithoutChallenge(t *testing.T) {
	r, admins, _, challenge := newResolverFixture()
	admins.admins["+15551112222"] = &admindomain.Admin{ID: "adm-1", Phone: "+15551112222"}
	sess := logindomain.NewSession()

	out, err := r.BeginLogin(context.Background(), sess, "+15551112222")
	if err != nil {
		t.Fatalf("BeginLogin: %v", err)
	}
	if out.Decision == nil || out.Decision.Route != logindomain.RouteAdminArea {
		t.Fatalf("decision = %+v, want admin area", out.Decision)
	}
	if challenge.sendCalls != 0 {
		t.Errorf("sendCalls = %d, want 0", challenge.sendCalls)
	}
	if sess.State != logindomain.StateVerified {
		t.Errorf("state = %v, want verified", sess.State)
	}
}

func TestBeginLogin_KnownUserRoutesWithoutChallenge(t *testing.T) {
	r, _, accounts, challenge := newResolverFixture()
	accounts.byPhone["+15553334444"] = &accountdomain.Account{ID: "acct-7", Phone: "+15553334444"}
	sess := logindomain.NewSession()

	out, err := r.BeginLogin(context.Background(), sess, "+15553334444")
	if err != nil {
		t.Fatalf("BeginLogin: %v", err)
	}
	if out.Decision == nil || out.Decision.Route != logindomain.RouteMainArea {
		t.Fatalf("decision = %+v, want main area", out.Decision)
	}
	if challenge.sendCalls != 0 {
		t.Errorf("sendCalls = %d, want 0", challenge.sendCalls)
	}
	if sess.AccountID != "acct-7" {
		t.Errorf("session account = %q, want acct-7", sess.AccountID)
	}
}

func TestBeginLogin_UnknownPhoneIssuesOneChallenge(t *testing.T) {
	r, _, _, challenge := newResolverFixture()
	sess := logindomain.NewSession()

	out, err := r.BeginLogin(context.Background(), sess, "+15550009999")
	if err != nil {
		t.Fatalf("BeginLogin: %v", err)
	}
	if out.Challenge == nil {
		t.Fatal("expected an issued challenge")
	}
	if challenge.sendCalls != 1 {
		t.Errorf("sendCalls = %d, want 1", challenge.sendCalls)
	}
	if sess.State != logindomain.StateAwaitingCode {
		t.Errorf("state = %v, want awaiting code", sess.State)
	}
	if sess.Challenge == nil || sess.Challenge.ID != "ch-1" {
		t.Errorf("session challenge = %+v", sess.Challenge)
	}
}

func TestBeginLogin_LookupFailureReturnsToIdle(t *testing.T) {
	r, admins, _, _ := newResolverFixture()
	admins.err = errors.New("directory down")
	sess := logindomain.NewSession()

	_, err := r.BeginLogin(context.Background(), sess, "+15550009999")
	if !errors.Is(err, ErrLookupFailed) {
		t.Fatalf("err = %v, want ErrLookupFailed", err)
	}
	if sess.State != logindomain.StateIdle {
		t.Errorf("state = %v, want idle", sess.State)
	}
	if sess.Challenge != nil {
		t.Error("no partial challenge may be retained")
	}
}

func TestBeginLogin_DispatchFailure(t *testing.T) {
	r, _, _, challenge := newResolverFixture()
	challenge.sendErr = errors.Join(authnservice.ErrSendFailed, errors.New("sms down"))
	sess := logindomain.NewSession()

	_, err := r.BeginLogin(context.Background(), sess, "+15550009999")
	if !errors.Is(err, ErrChallengeDispatchFailed) {
		t.Fatalf("err = %v, want ErrChallengeDispatchFailed", err)
	}
	if sess.State != logindomain.StateIdle {
		t.Errorf("state = %v, want idle", sess.State)
	}
}

func TestBeginLogin_NewPhoneDiscardsStaleChallenge(t *testing.T) {
	r, _, _, _ := newResolverFixture()
	sess := logindomain.NewSession()
	ctx := context.Background()

	if _, err := r.BeginLogin(ctx, sess, "+15550009999"); err != nil {
		t.Fatalf("first BeginLogin: %v", err)
	}
	first := sess.Challenge
	if _, err := r.BeginLogin(ctx, sess, "+15550008888"); err != nil {
		t.Fatalf("second BeginLogin: %v", err)
	}
	if sess.Challenge == first {
		t.Error("stale challenge should have been discarded")
	}
	if sess.Phone != "+15550008888" {
		t.Errorf("phone = %q", sess.Phone)
	}
}

func TestSubmitCode_WrongCodeKeepsChallenge(t *testing.T) {
	r, _, _, challenge := newResolverFixture()
	sess := logindomain.NewSession()
	ctx := context.Background()

	if _, err := r.BeginLogin(ctx, sess, "+15550009999"); err != nil {
		t.Fatalf("BeginLogin: %v", err)
	}
	challenge.confirmErr = authnservice.ErrCodeRejected

	_, err := r.SubmitCode(ctx, sess, "000000")
	if !errors.Is(err, ErrVerificationFailed) {
		t.Fatalf("err = %v, want ErrVerificationFailed", err)
	}
	if sess.State != logindomain.StateFailed {
		t.Errorf("state = %v, want failed", sess.State)
	}
	if sess.Challenge == nil {
		t.Fatal("challenge must remain valid for a retry")
	}
	if challenge.sendCalls != 1 {
		t.Errorf("sendCalls = %d, want 1 (no re-dispatch on wrong code)", challenge.sendCalls)
	}

	// the failed session accepts another attempt with the same challenge
	challenge.confirmErr = nil
	out, err := r.SubmitCode(ctx, sess, "123456")
	if err != nil {
		t.Fatalf("retry SubmitCode: %v", err)
	}
	if out.Decision == nil {
		t.Fatal("expected a routing decision after retry")
	}
}

func TestSubmitCode_EmptyCode(t *testing.T) {
	r, _, _, challenge := newResolverFixture()
	sess := logindomain.NewSession()
	ctx := context.Background()

	if _, err := r.BeginLogin(ctx, sess, "+15550009999"); err != nil {
		t.Fatalf("BeginLogin: %v", err)
	}
	if _, err := r.SubmitCode(ctx, sess, "  "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
	if challenge.confirmCalls != 0 {
		t.Errorf("confirmCalls = %d, want 0", challenge.confirmCalls)
	}
}

func TestSubmitCode_NoPendingChallenge(t *testing.T) {
	r, _, _, _ := newResolverFixture()
	sess := logindomain.NewSession()
	if _, err := r.SubmitCode(context.Background(), sess, "123456"); !errors.Is(err, ErrNotAwaitingCode) {
		t.Fatalf("err = %v, want ErrNotAwaitingCode", err)
	}
}

func TestSubmitCode_RouteResolution(t *testing.T) {
	tests := []struct {
		name    string
		account *accountdomain.Account
		want    logindomain.Route
	}{
		{"no record routes to profile completion", nil, logindomain.RouteProfileCompletion},
		{"admin role routes to admin area", &accountdomain.Account{ID: "acct-1", Role: accountdomain.RoleAdmin}, logindomain.RouteAdminArea},
		{"user role routes to main area", &accountdomain.Account{ID: "acct-1", Role: accountdomain.RoleUser}, logindomain.RouteMainArea},
		{"unset role routes to main area", &accountdomain.Account{ID: "acct-1"}, logindomain.RouteMainArea},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _, accounts, _ := newResolverFixture()
			if tt.account != nil {
				accounts.byID["acct-1"] = tt.account
			}
			sess := logindomain.NewSession()
			ctx := context.Background()
			if _, err := r.BeginLogin(ctx, sess, "+15550009999"); err != nil {
				t.Fatalf("BeginLogin: %v", err)
			}
			out, err := r.SubmitCode(ctx, sess, "123456")
			if err != nil {
				t.Fatalf("SubmitCode: %v", err)
			}
			if out.Decision == nil || out.Decision.Route != tt.want {
				t.Fatalf("decision = %+v, want route %v", out.Decision, tt.want)
			}
			if tt.want == logindomain.RouteProfileCompletion && out.Decision.AccountID != "acct-1" {
				t.Errorf("decision account = %q, want acct-1", out.Decision.AccountID)
			}
			if sess.Challenge != nil {
				t.Error("challenge must be discarded after acceptance")
			}
		})
	}
}

func TestSubmitCode_RecordReadFailureKeepsVerified(t *testing.T) {
	r, _, accounts, _ := newResolverFixture()
	sess := logindomain.NewSession()
	ctx := context.Background()

	if _, err := r.BeginLogin(ctx, sess, "+15550009999"); err != nil {
		t.Fatalf("BeginLogin: %v", err)
	}
	accounts.errByID = errors.New("store down")

	_, err := r.SubmitCode(ctx, sess, "123456")
	if !errors.Is(err, ErrLookupFailed) {
		t.Fatalf("err = %v, want ErrLookupFailed", err)
	}
	if sess.State != logindomain.StateVerified {
		t.Fatalf("state = %v, want verified (do not restart verification)", sess.State)
	}

	// the record read can be retried without a new challenge
	accounts.errByID = nil
	out, err := r.ResolveVerified(ctx, sess)
	if err != nil {
		t.Fatalf("ResolveVerified: %v", err)
	}
	if out.Decision == nil || out.Decision.Route != logindomain.RouteProfileCompletion {
		t.Fatalf("decision = %+v, want profile completion", out.Decision)
	}
}

func TestSubmitCode_RejectsOverlappingCall(t *testing.T) {
	r, _, _, challenge := newResolverFixture()
	sess := logindomain.NewSession()
	ctx := context.Background()

	if _, err := r.BeginLogin(ctx, sess, "+15550009999"); err != nil {
		t.Fatalf("BeginLogin: %v", err)
	}

	challenge.block = make(chan struct{})
	started := make(chan struct{})
	challenge.started = started
	done := make(chan error, 1)
	go func() {
		_, err := r.SubmitCode(ctx, sess, "123456")
		done <- err
	}()
	// wait until the first submit is inside the provider call
	<-started

	if _, err := r.SubmitCode(ctx, sess, "654321"); !errors.Is(err, ErrBusy) {
		t.Fatalf("err = %v, want ErrBusy", err)
	}
	if challenge.confirmCalls != 1 {
		t.Errorf("confirmCalls = %d, want 1 (second call must not reach provider)", challenge.confirmCalls)
	}

	close(challenge.block)
	if err := <-done; err != nil {
		t.Fatalf("first SubmitCode: %v", err)
	}
}

func TestCancel_ReleasesChallengeWithoutError(t *testing.T) {
	r, _, _, _ := newResolverFixture()
	sess := logindomain.NewSession()
	ctx := context.Background()

	if _, err := r.BeginLogin(ctx, sess, "+15550009999"); err != nil {
		t.Fatalf("BeginLogin: %v", err)
	}
	sess.Cancel()
	if sess.State != logindomain.StateIdle {
		t.Errorf("state = %v, want idle", sess.State)
	}
	if sess.Challenge != nil {
		t.Error("challenge must be released on cancel")
	}
}


func TestResolveVerified_RepeatedReadsAreFreshAndEqual(t *testing.T) {
	r, _, accounts, _ := newResolverFixture()
	stored := &accountdomain.Account{ID: "acct-1", Phone: "+15551234567", Role: accountdomain.RoleUser}
	accounts.byID["acct-1"] = stored
	ctx := context.Background()

	resolve := func() *logindomain.RoutingDecision {
		sess := logindomain.NewSession()
		sess.State = logindomain.StateVerified
		sess.AccountID = "acct-1"
		out, err := r.ResolveVerified(ctx, sess)
		if err != nil {
			t.Fatalf("ResolveVerified: %v", err)
		}
		return out.Decision
	}

	first := resolve()
	second := resolve()

	if *first != *second {
		t.Errorf("repeated reads resolved differently: %+v vs %+v", first, second)
	}
	if accounts.idCalls != 2 {
		t.Errorf("idCalls = %d, want 2 (each resolve is a fresh round trip)", accounts.idCalls)
	}
	// reading never mutates the record
	if stored.Role != accountdomain.RoleUser || stored.Phone != "+15551234567" {
		t.Errorf("stored record changed by reads: %+v", stored)
	}
}
