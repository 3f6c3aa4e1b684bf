package repository

import (
	"context"

	"constituent-connect/backend/internal/projects/domain"
)

// Repository persists public-works projects.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Project, error)
	Create(ctx context.Context, p *domain.Project) error
	Update(ctx context.Context, p *domain.Project) error
}
