package repository

import (
	"context"

	"constituent-connect/backend/internal/authn/domain"
)

// ChallengeStore defines persistence for pending OTP challenges.
// Implementations: Postgres (default) and Redis (TTL-evicted).
type ChallengeStore interface {
	// Create persists the challenge. The challenge must have ID set.
	Create(ctx context.Context, c *domain.Challenge) error
	// GetByID returns the challenge for id, or nil if not found (or expired
	// out of a TTL-evicting store).
	GetByID(ctx context.Context, id string) (*domain.Challenge, error)
	// Delete removes the challenge by id. Deleting a missing challenge is not an error.
	Delete(ctx context.Context, id string) error
}

// IdentityRepository maps verified phone numbers to stable account identifiers.
// An identifier is minted on the first successful confirmation for a phone and
// never changes afterwards.
type IdentityRepository interface {
	// GetAccountID returns the account id bound to phone, or "" if none exists.
	GetAccountID(ctx context.Context, phone string) (string, error)
	// Bind records accountID as the identifier for phone. Binding an
	// already-bound phone keeps the existing identifier.
	Bind(ctx context.Context, phone, accountID string) error
	// GetPhone returns the phone bound to accountID, or "" if none exists.
	GetPhone(ctx context.Context, accountID string) (string, error)
}
