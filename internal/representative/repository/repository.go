package repository

import (
	"context"

	"constituent-connect/backend/internal/representative/domain"
)

// Repository persists the representative bio record.
type Repository interface {
	Get(ctx context.Context) (*domain.Representative, error)
	Put(ctx context.Context, rep *domain.Representative) error
}
