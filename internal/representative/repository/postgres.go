package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"constituent-connect/backend/internal/representative/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a representative repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Get returns the representative record, or nil if it has not been seeded.
func (r *PostgresRepository) Get(ctx context.Context) (*domain.Representative, error) {
	var (
		rep        domain.Representative
		committees []byte
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, biography, committees, updated_at
		FROM representative WHERE id = $1`, domain.SingletonID).
		Scan(&rep.ID, &rep.Name, &rep.Biography, &committees, &rep.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(committees, &rep.Committees); err != nil {
		return nil, err
	}
	return &rep, nil
}

// Put creates or replaces the representative record.
func (r *PostgresRepository) Put(ctx context.Context, rep *domain.Representative) error {
	committees := rep.Committees
	if committees == nil {
		committees = []string{}
	}
	cj, err := json.Marshal(committees)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO representative (id, name, biography, committees, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name, biography = EXCLUDED.biography,
			committees = EXCLUDED.committees, updated_at = EXCLUDED.updated_at`,
		domain.SingletonID, rep.Name, rep.Biography, cj, rep.UpdatedAt)
	return err
}
