package security

import (
	"testing"
	"time"
)

func TestIssueAndValidateAccess(t *testing.T) {
	p, err := NewTestTokenProvider()
	if err != nil {
		t.Fatalf("NewTestTokenProvider: %v", err)
	}

	token, jti, expiresAt, err := p.IssueAccess("sess-1", "acct-1", "admin")
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	if token == "" || jti == "" {
		t.Fatal("IssueAccess returned empty token or jti")
	}
	if !expiresAt.After(time.Now()) {
		t.Error("access token should expire in the future")
	}

	sessionID, accountID, role, err := p.ValidateAccess(token)
	if err != nil {
		t.Fatalf("ValidateAccess: %v", err)
	}
	if sessionID != "sess-1" || accountID != "acct-1" || role != "admin" {
		t.Errorf("claims = (%q, %q, %q), want (sess-1, acct-1, admin)", sessionID, accountID, role)
	}
}

func TestIssueAndValidateRefresh(t *testing.T) {
	p, err := NewTestTokenProvider()
	if err != nil {
		t.Fatalf("NewTestTokenProvider: %v", err)
	}

	token, jti, _, err := p.IssueRefresh("sess-2", "acct-2", "user")
	if err != nil {
		t.Fatalf("IssueRefresh: %v", err)
	}

	sessionID, gotJti, accountID, role, err := p.ValidateRefresh(token)
	if err != nil {
		t.Fatalf("ValidateRefresh: %v", err)
	}
	if sessionID != "sess-2" || accountID != "acct-2" || role != "user" {
		t.Errorf("claims = (%q, %q, %q), want (sess-2, acct-2, user)", sessionID, accountID, role)
	}
	if gotJti != jti {
		t.Errorf("jti = %q, want %q", gotJti, jti)
	}
}

func TestValidate_Garbage(t *testing.T) {
	p, err := NewTestTokenProvider()
	if err != nil {
		t.Fatalf("NewTestTokenProvider: %v", err)
	}
	if _, _, _, err := p.ValidateAccess("not-a-token"); err == nil {
		t.Error("ValidateAccess should reject garbage")
	}
	if _, _, _, _, err := p.ValidateRefresh(""); err == nil {
		t.Error("ValidateRefresh should reject empty string")
	}
}

func TestValidate_WrongIssuer(t *testing.T) {
	signer, err := ParsePrivateKey(testPrivateKeyPEM)
	if err != nil {
		t.Fatalf("ParsePrivateKey: %v", err)
	}
	pub, err := ParsePublicKey(testPublicKeyPEM)
	if err != nil {
		t.Fatalf("ParsePublicKey: %v", err)
	}
	issuerA := NewTokenProvider(signer, pub, "issuer-a", "aud", time.Minute, time.Hour)
	issuerB := NewTokenProvider(signer, pub, "issuer-b", "aud", time.Minute, time.Hour)

	token, _, _, err := issuerA.IssueAccess("s", "a", "user")
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	if _, _, _, err := issuerB.ValidateAccess(token); err == nil {
		t.Error("ValidateAccess should reject token from a different issuer")
	}
}

func TestResolveTokenIsSinglePurpose(t *testing.T) {
	p, err := NewTestTokenProvider()
	if err != nil {
		t.Fatalf("NewTestTokenProvider: %v", err)
	}

	resolveToken, expiresAt, err := p.IssueResolve("acct-9")
	if err != nil {
		t.Fatalf("IssueResolve: %v", err)
	}
	if !expiresAt.After(time.Now()) {
		t.Error("resolve token should expire in the future")
	}

	accountID, err := p.ValidateResolve(resolveToken)
	if err != nil {
		t.Fatalf("ValidateResolve: %v", err)
	}
	if accountID != "acct-9" {
		t.Errorf("accountID = %q, want acct-9", accountID)
	}

	if _, _, _, err := p.ValidateAccess(resolveToken); err == nil {
		t.Error("ValidateAccess should reject a resolve token")
	}
	if _, _, _, _, err := p.ValidateRefresh(resolveToken); err == nil {
		t.Error("ValidateRefresh should reject a resolve token")
	}

	accessToken, _, _, err := p.IssueAccess("sess-9", "acct-9", "user")
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	if _, err := p.ValidateResolve(accessToken); err == nil {
		t.Error("ValidateResolve should reject an access token")
	}

	refreshToken, _, _, err := p.IssueRefresh("sess-9", "acct-9", "user")
	if err != nil {
		t.Fatalf("IssueRefresh: %v", err)
	}
	if _, err := p.ValidateResolve(refreshToken); err == nil {
		t.Error("ValidateResolve should reject a refresh token")
	}
	if _, _, _, err := p.ValidateAccess(refreshToken); err == nil {
		t.Error("ValidateAccess should reject a refresh token")
	}
}
