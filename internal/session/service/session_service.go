package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"constituent-connect/backend/internal/security"
	"constituent-connect/backend/internal/session/domain"
	"constituent-connect/backend/internal/session/repository"
)

// Sentinel errors for the session service; the handler maps them to HTTP codes.
var (
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
	ErrRefreshTokenReuse   = errors.New("refresh token reuse detected; all sessions revoked")
)

// TokenPair holds the outcome of Issue or Refresh.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
	SessionID    string
	AccountID    string
	Role         string
}

// SessionService issues, refreshes, and revokes API sessions. Refresh tokens
// rotate on every use; presenting a superseded token revokes all of the
// account's sessions.
type SessionService struct {
	sessions   repository.Repository
	tokens     *security.TokenProvider
	refreshTTL time.Duration
}

// NewSessionService returns a SessionService with the given dependencies.
func NewSessionService(sessions repository.Repository, tokens *security.TokenProvider, refreshTTL time.Duration) *SessionService {
	return &SessionService{sessions: sessions, tokens: tokens, refreshTTL: refreshTTL}
}

// Issue creates a session for the given account and role and returns its token pair.
func (s *SessionService) Issue(ctx context.Context, accountID, role string) (*TokenPair, error) {
	sessionID := uuid.New().String()
	refreshToken, jti, _, err := s.tokens.IssueRefresh(sessionID, accountID, role)
	if err != nil {
		return nil, err
	}
	accessToken, _, accessExp, err := s.tokens.IssueAccess(sessionID, accountID, role)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	sess := &domain.Session{
		ID:               sessionID,
		AccountID:        accountID,
		Role:             role,
		ExpiresAt:        now.Add(s.refreshTTL),
		RefreshJti:       jti,
		RefreshTokenHash: security.HashRefreshToken(refreshToken),
		CreatedAt:        now,
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    accessExp,
		SessionID:    sessionID,
		AccountID:    accountID,
		Role:         role,
	}, nil
}

// Refresh validates the refresh token, rotates it, and returns new tokens.
func (s *SessionService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	if refreshToken == "" {
		return nil, ErrInvalidRefreshToken
	}
	sessionID, jti, accountID, role, err := s.tokens.ValidateRefresh(refreshToken)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}
	sess, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess == nil || sess.RevokedAt != nil || !sess.ExpiresAt.After(time.Now().UTC()) {
		return nil, ErrInvalidRefreshToken
	}
	if sess.RefreshJti != jti {
		_ = s.sessions.RevokeAllByAccount(ctx, accountID)
		return nil, ErrRefreshTokenReuse
	}
	if sess.RefreshTokenHash != "" && !security.RefreshTokenHashEqual(refreshToken, sess.RefreshTokenHash) {
		return nil, ErrInvalidRefreshToken
	}
	now := time.Now().UTC()
	_ = s.sessions.UpdateLastSeen(ctx, sessionID, now)
	newRefresh, newJti, _, err := s.tokens.IssueRefresh(sessionID, accountID, role)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.UpdateRefreshToken(ctx, sessionID, newJti, security.HashRefreshToken(newRefresh)); err != nil {
		return nil, err
	}
	accessToken, _, accessExp, err := s.tokens.IssueAccess(sessionID, accountID, role)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: newRefresh,
		ExpiresAt:    accessExp,
		SessionID:    sessionID,
		AccountID:    accountID,
		Role:         role,
	}, nil
}

// Logout revokes the session identified by the refresh token, or by
// sessionID when no refresh token is presented. An unparseable token is a
// no-op: the caller is logging out either way.
func (s *SessionService) Logout(ctx context.Context, refreshToken, sessionID string) error {
	if refreshToken != "" {
		id, _, _, _, err := s.tokens.ValidateRefresh(refreshToken)
		if err != nil {
			return nil
		}
		return s.sessions.Revoke(ctx, id)
	}
	if sessionID == "" {
		return nil
	}
	return s.sessions.Revoke(ctx, sessionID)
}
