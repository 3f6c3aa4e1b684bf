package repository

import (
	"context"

	"constituent-connect/backend/internal/admin/domain"
)

// Repository defines read access to the admin directory.
type Repository interface {
	// GetByPhone returns the admin entry with the given phone number, or nil if not found.
	GetByPhone(ctx context.Context, phone string) (*domain.Admin, error)
	// Create persists a new admin directory entry. Used by the seed tool only.
	Create(ctx context.Context, a *domain.Admin) error
}
