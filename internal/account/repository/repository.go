package repository

import (
	"context"

	"constituent-connect/backend/internal/account/domain"
)

// Repository defines persistence for constituent accounts. Every call is a
// fresh round trip; implementations must not cache records.
type Repository interface {
	// GetByID returns the account for id, or nil if not found.
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	// GetByPhone returns the account with the given phone number, or nil if not found.
	GetByPhone(ctx context.Context, phone string) (*domain.Account, error)
	// Create persists a new account. The account must have ID set.
	Create(ctx context.Context, a *domain.Account) error
	// Update overwrites the mutable profile fields of an existing account.
	// Phone and role are not updatable through this method.
	Update(ctx context.Context, a *domain.Account) error
	// List returns all accounts ordered by creation time, newest first.
	// Used by the admin dashboard.
	List(ctx context.Context, limit, offset int) ([]*domain.Account, error)
}
