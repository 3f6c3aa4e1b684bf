package security

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/rand"
	"crypto/rsa"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken is returned when a token is malformed or invalid.
	ErrInvalidToken = errors.New("invalid token")
)

// Token use markers. Every token carries one and every validator requires its
// own, so a token issued for one purpose never passes as another.
const (
	tokenUseAccess  = "access"
	tokenUseRefresh = "refresh"
	tokenUseResolve = "resolve"
)

// AccessClaims holds JWT claims for the access token. Subject is the account id.
type AccessClaims struct {
	jwt.RegisteredClaims
	Role      string `json:"role"`
	SessionID string `json:"session_id"`
	TokenUse  string `json:"token_use"`
}

// RefreshClaims holds JWT claims for the refresh token (includes jti for rotation).
type RefreshClaims struct {
	jwt.RegisteredClaims
	SessionID string `json:"session_id"`
	Role      string `json:"role"`
	TokenUse  string `json:"token_use"`
}

// ResolveClaims holds JWT claims for the resolve token: a short-lived proof
// that phone ownership was verified for Subject, usable only to retry the
// account record read. It grants no API access.
type ResolveClaims struct {
	jwt.RegisteredClaims
	TokenUse string `json:"token_use"`
}

// TokenProvider issues and validates JWT access and refresh tokens using RS256 or ES256 (private/public key).
type TokenProvider struct {
	privateKey crypto.Signer
	publicKey  crypto.PublicKey
	issuer     string
	audience   string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenProvider returns a TokenProvider that signs with the given private key (RS256 or ES256).
// issuer and audience are set on claims and validated on parse.
func NewTokenProvider(privateKey crypto.Signer, publicKey crypto.PublicKey, issuer, audience string, accessTTL, refreshTTL time.Duration) *TokenProvider {
	return &TokenProvider{
		privateKey: privateKey,
		publicKey:  publicKey,
		issuer:     issuer,
		audience:   audience,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// IssueAccess issues a short-lived access JWT for the given session, account, and role.
// Returns the token string, its jti, and expiration time.
func (p *TokenProvider) IssueAccess(sessionID, accountID, role string) (token string, jti string, expiresAt time.Time, err error) {
	jti, err = generateJTI()
	if err != nil {
		return "", "", time.Time{}, err
	}
	now := time.Now().UTC()
	expiresAt = now.Add(p.accessTTL)
	claims := AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   accountID,
			Issuer:    p.issuer,
			Audience:  jwt.ClaimStrings{p.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Role:      role,
		SessionID: sessionID,
		TokenUse:  tokenUseAccess,
	}
	token, err = p.sign(claims)
	return token, jti, expiresAt, err
}

// IssueRefresh issues a long-lived refresh JWT and returns the token, its jti
// (for rotation binding), and expiration time. Caller should store jti on the session.
func (p *TokenProvider) IssueRefresh(sessionID, accountID, role string) (token, jti string, expiresAt time.Time, err error) {
	jti, err = generateJTI()
	if err != nil {
		return "", "", time.Time{}, err
	}
	now := time.Now().UTC()
	expiresAt = now.Add(p.refreshTTL)
	claims := RefreshClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   accountID,
			Issuer:    p.issuer,
			Audience:  jwt.ClaimStrings{p.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		SessionID: sessionID,
		Role:      role,
		TokenUse:  tokenUseRefresh,
	}
	token, err = p.sign(claims)
	return token, jti, expiresAt, err
}

// IssueResolve issues a short-lived resolve JWT for the given account. It is
// handed out only after a successful code confirmation, so holding one proves
// phone ownership. TTL follows the access token TTL.
func (p *TokenProvider) IssueResolve(accountID string) (token string, expiresAt time.Time, err error) {
	jti, err := generateJTI()
	if err != nil {
		return "", time.Time{}, err
	}
	now := time.Now().UTC()
	expiresAt = now.Add(p.accessTTL)
	claims := ResolveClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   accountID,
			Issuer:    p.issuer,
			Audience:  jwt.ClaimStrings{p.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		TokenUse: tokenUseResolve,
	}
	token, err = p.sign(claims)
	return token, expiresAt, err
}

func (p *TokenProvider) sign(claims jwt.Claims) (string, error) {
	var method jwt.SigningMethod
	switch p.privateKey.Public().(type) {
	case *rsa.PublicKey:
		method = jwt.SigningMethodRS256
	case *ecdsa.PublicKey:
		method = jwt.SigningMethodES256
	default:
		return "", ErrInvalidToken
	}
	t := jwt.NewWithClaims(method, claims)
	return t.SignedString(p.privateKey)
}

func (p *TokenProvider) keyFunc(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodRSA); ok {
		return p.publicKey, nil
	}
	if _, ok := token.Method.(*jwt.SigningMethodECDSA); ok {
		return p.publicKey, nil
	}
	return nil, ErrInvalidToken
}

func (p *TokenProvider) checkIssuerAudience(issuer string, audience jwt.ClaimStrings) bool {
	if issuer != p.issuer {
		return false
	}
	for _, a := range audience {
		if a == p.audience {
			return true
		}
	}
	return false
}

// ValidateRefresh parses and validates the refresh token (signature, exp, iss, aud).
// Returns sessionID, jti, accountID, role, or error.
func (p *TokenProvider) ValidateRefresh(tokenString string) (sessionID, jti, accountID, role string, err error) {
	token, err := jwt.ParseWithClaims(tokenString, &RefreshClaims{}, p.keyFunc)
	if err != nil {
		return "", "", "", "", ErrInvalidToken
	}
	claims, ok := token.Claims.(*RefreshClaims)
	if !ok || !token.Valid {
		return "", "", "", "", ErrInvalidToken
	}
	if !p.checkIssuerAudience(claims.Issuer, claims.Audience) {
		return "", "", "", "", ErrInvalidToken
	}
	if claims.TokenUse != tokenUseRefresh {
		return "", "", "", "", ErrInvalidToken
	}
	return claims.SessionID, claims.ID, claims.Subject, claims.Role, nil
}

// ValidateAccess parses and validates the access token (signature, exp, iss, aud).
// Returns sessionID, accountID, role, or error.
func (p *TokenProvider) ValidateAccess(tokenString string) (sessionID, accountID, role string, err error) {
	token, err := jwt.ParseWithClaims(tokenString, &AccessClaims{}, p.keyFunc)
	if err != nil {
		return "", "", "", ErrInvalidToken
	}
	claims, ok := token.Claims.(*AccessClaims)
	if !ok || !token.Valid {
		return "", "", "", ErrInvalidToken
	}
	if !p.checkIssuerAudience(claims.Issuer, claims.Audience) {
		return "", "", "", ErrInvalidToken
	}
	if claims.TokenUse != tokenUseAccess {
		return "", "", "", ErrInvalidToken
	}
	return claims.SessionID, claims.Subject, claims.Role, nil
}

// ValidateResolve parses and validates a resolve token and returns the account
// id it was issued for. Access and refresh tokens are rejected here, as resolve
// tokens are everywhere else.
func (p *TokenProvider) ValidateResolve(tokenString string) (accountID string, err error) {
	token, err := jwt.ParseWithClaims(tokenString, &ResolveClaims{}, p.keyFunc)
	if err != nil {
		return "", ErrInvalidToken
	}
	claims, ok := token.Claims.(*ResolveClaims)
	if !ok || !token.Valid {
		return "", ErrInvalidToken
	}
	if !p.checkIssuerAudience(claims.Issuer, claims.Audience) {
		return "", ErrInvalidToken
	}
	if claims.TokenUse != tokenUseResolve {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

func generateJTI() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
