package repository

import (
	"context"

	"constituent-connect/backend/internal/concerns/domain"
)

// Repository persists constituent concerns.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.Concern, error)
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Concern, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Concern, error)
	Create(ctx context.Context, c *domain.Concern) error
	SetStatus(ctx context.Context, id, status string) error
}
