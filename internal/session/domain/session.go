package domain

import "time"

// Session represents an issued API session for one signed-in account.
type Session struct {
	ID               string
	AccountID        string
	Role             string
	ExpiresAt        time.Time
	RevokedAt        *time.Time // nil when not revoked
	LastSeenAt       *time.Time
	RefreshJti       string // current refresh token jti for rotation; empty if not set
	RefreshTokenHash string // SHA-256 hash of current refresh token
	CreatedAt        time.Time
}
