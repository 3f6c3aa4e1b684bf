package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"constituent-connect/backend/internal/account/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns an account repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const accountColumns = `id, phone, name, dob, gender, address, barangay, email,
	occupation, nationality, emergency_contact_name, emergency_contact_phone,
	emergency_contact_relation, role, created_at, updated_at`

// GetByID returns the account for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id)
	return scanAccount(row)
}

// GetByPhone returns the account with the given phone number, or nil if not found.
func (r *PostgresRepository) GetByPhone(ctx context.Context, phone string) (*domain.Account, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE phone = $1`, phone)
	return scanAccount(row)
}

// Create persists the account. The account must have ID set; it is not assigned by this method.
func (r *PostgresRepository) Create(ctx context.Context, a *domain.Account) error {
	email := sql.NullString{String: a.Email, Valid: a.Email != ""}
	role := sql.NullString{String: string(a.Role), Valid: a.Role != ""}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO accounts (id, phone, name, dob, gender, address, barangay, email,
			occupation, nationality, emergency_contact_name, emergency_contact_phone,
			emergency_contact_relation, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		a.ID, a.Phone, a.Name, a.DOB, a.Gender, a.Address, a.Barangay, email,
		a.Occupation, a.Nationality, a.Emergency.Name, a.Emergency.Phone,
		a.Emergency.Relation, role, a.CreatedAt, a.UpdatedAt)
	return err
}

// Update overwrites the mutable profile fields of the account. Phone and role
// are preserved; only the owner-editable fields change. No-op if the account
// does not exist.
func (r *PostgresRepository) Update(ctx context.Context, a *domain.Account) error {
	email := sql.NullString{String: a.Email, Valid: a.Email != ""}
	_, err := r.db.ExecContext(ctx, `
		UPDATE accounts SET name = $2, dob = $3, gender = $4, address = $5,
			barangay = $6, email = $7, occupation = $8, nationality = $9,
			emergency_contact_name = $10, emergency_contact_phone = $11,
			emergency_contact_relation = $12, updated_at = $13
		WHERE id = $1`,
		a.ID, a.Name, a.DOB, a.Gender, a.Address, a.Barangay, email,
		a.Occupation, a.Nationality, a.Emergency.Name, a.Emergency.Phone,
		a.Emergency.Relation, time.Now().UTC())
	return err
}

// List returns accounts ordered by creation time, newest first.
func (r *PostgresRepository) List(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+accountColumns+` FROM accounts ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*domain.Account, error) {
	var a domain.Account
	var email, role sql.NullString
	err := row.Scan(&a.ID, &a.Phone, &a.Name, &a.DOB, &a.Gender, &a.Address,
		&a.Barangay, &email, &a.Occupation, &a.Nationality,
		&a.Emergency.Name, &a.Emergency.Phone, &a.Emergency.Relation,
		&role, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if email.Valid {
		a.Email = email.String
	}
	if role.Valid {
		a.Role = domain.Role(role.String)
	}
	return &a, nil
}
