package repository

import (
	"context"

	"constituent-connect/backend/internal/audit/domain"
)

// Repository persists audit log entries.
type Repository interface {
	Create(ctx context.Context, a *domain.AuditLog) error
	GetByID(ctx context.Context, id string) (*domain.AuditLog, error)
	List(ctx context.Context, limit, offset int) ([]*domain.AuditLog, error)
}
