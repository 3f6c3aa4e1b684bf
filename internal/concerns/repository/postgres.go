package repository

import (
	"context"
	"database/sql"
	"errors"

	"constituent-connect/backend/internal/concerns/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a concern repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const concernColumns = `id, account_id, title, description, status, created_at`

// GetByID returns the concern for id, or nil if not found.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Concern, error) {
	var c domain.Concern
	err := r.db.QueryRowContext(ctx, `SELECT `+concernColumns+` FROM concerns WHERE id = $1`, id).
		Scan(&c.ID, &c.AccountID, &c.Title, &c.Description, &c.Status, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

// ListByAccount returns the account's concerns newest first.
func (r *PostgresRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Concern, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+concernColumns+` FROM concerns
		WHERE account_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`, accountID, limit, offset)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

// List returns all concerns newest first, paginated by limit and offset.
func (r *PostgresRepository) List(ctx context.Context, limit, offset int) ([]*domain.Concern, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+concernColumns+` FROM concerns
		ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

// Create persists the concern. The concern must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, c *domain.Concern) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO concerns (`+concernColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		c.ID, c.AccountID, c.Title, c.Description, c.Status, c.CreatedAt)
	return err
}

// SetStatus updates the concern's status by id.
func (r *PostgresRepository) SetStatus(ctx context.Context, id, status string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE concerns SET status = $2 WHERE id = $1`, id, status)
	return err
}

func collect(rows *sql.Rows) ([]*domain.Concern, error) {
	defer rows.Close()
	var out []*domain.Concern
	for rows.Next() {
		var c domain.Concern
		if err := rows.Scan(&c.ID, &c.AccountID, &c.Title, &c.Description, &c.Status, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}
