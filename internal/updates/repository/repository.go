package repository

import (
	"context"

	"constituent-connect/backend/internal/updates/domain"
)

// Repository persists news updates.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.Update, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Update, error)
	Create(ctx context.Context, u *domain.Update) error
}
