package repository

import (
	"context"

	"constituent-connect/backend/internal/bills/domain"
)

// Repository persists bills.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.Bill, error)
	GetByNumber(ctx context.Context, billNumber string) (*domain.Bill, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Bill, error)
	Create(ctx context.Context, b *domain.Bill) error
	Update(ctx context.Context, b *domain.Bill) error
}
