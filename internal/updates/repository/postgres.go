package repository

import (
	"context"
	"database/sql"
	"errors"

	"constituent-connect/backend/internal/updates/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns an update repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const updateColumns = `id, title, description, published_on, created_at`

// GetByID returns the update for id, or nil if not found.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Update, error) {
	var u domain.Update
	err := r.db.QueryRowContext(ctx, `SELECT `+updateColumns+` FROM updates WHERE id = $1`, id).
		Scan(&u.ID, &u.Title, &u.Description, &u.PublishedOn, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// List returns updates newest first, paginated by limit and offset.
func (r *PostgresRepository) List(ctx context.Context, limit, offset int) ([]*domain.Update, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+updateColumns+` FROM updates
		ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.Update
	for rows.Next() {
		var u domain.Update
		if err := rows.Scan(&u.ID, &u.Title, &u.Description, &u.PublishedOn, &u.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &u)
	}
	return out, rows.Err()
}

// Create persists the update. The update must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, u *domain.Update) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO updates (`+updateColumns+`)
		VALUES ($1, $2, $3, $4, $5)`,
		u.ID, u.Title, u.Description, u.PublishedOn, u.CreatedAt)
	return err
}
