package repository

import (
	"context"
	"database/sql"
	"errors"

	"constituent-connect/backend/internal/projects/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a project repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const projectColumns = `id, title, description, barangay, status, started_on, completed_on, created_at, updated_at`

// GetByID returns the project for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	var p domain.Project
	err := r.db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = $1`, id).
		Scan(&p.ID, &p.Title, &p.Description, &p.Barangay, &p.Status, &p.StartedOn, &p.CompletedOn, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// List returns projects newest first, paginated by limit and offset.
func (r *PostgresRepository) List(ctx context.Context, limit, offset int) ([]*domain.Project, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+projectColumns+` FROM projects
		ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.Project
	for rows.Next() {
		var p domain.Project
		if err := rows.Scan(&p.ID, &p.Title, &p.Description, &p.Barangay, &p.Status, &p.StartedOn, &p.CompletedOn, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}

// Create persists the project. The project must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, p *domain.Project) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO projects (`+projectColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		p.ID, p.Title, p.Description, p.Barangay, p.Status, p.StartedOn, p.CompletedOn, p.CreatedAt, p.UpdatedAt)
	return err
}

// Update rewrites the project's mutable fields by id.
func (r *PostgresRepository) Update(ctx context.Context, p *domain.Project) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE projects SET title = $2, description = $3, barangay = $4, status = $5,
			started_on = $6, completed_on = $7, updated_at = $8
		WHERE id = $1`,
		p.ID, p.Title, p.Description, p.Barangay, p.Status, p.StartedOn, p.CompletedOn, p.UpdatedAt)
	return err
}
