package repository

import (
	"context"
	"database/sql"
	"errors"

	"constituent-connect/backend/internal/admin/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns an admin directory repository backed by the given db.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetByPhone returns the admin entry for phone, or nil if not found.
func (r *PostgresRepository) GetByPhone(ctx context.Context, phone string) (*domain.Admin, error) {
	var a domain.Admin
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, phone, created_at FROM admins WHERE phone = $1`, phone).
		Scan(&a.ID, &a.Name, &a.Phone, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

// Create persists the admin entry. The entry must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, a *domain.Admin) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO admins (id, name, phone, created_at) VALUES ($1, $2, $3, $4)`,
		a.ID, a.Name, a.Phone, a.CreatedAt)
	return err
}
