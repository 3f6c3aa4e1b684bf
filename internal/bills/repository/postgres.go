package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"constituent-connect/backend/internal/bills/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a bill repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const billColumns = `id, bill_number, title, significance, date_filed, principal_authors,
	date_read, primary_referral, date_approved_second_reading, date_transmitted,
	status, co_authored, committees, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBill(row rowScanner) (*domain.Bill, error) {
	var (
		b          domain.Bill
		authors    []byte
		committees []byte
	)
	err := row.Scan(&b.ID, &b.BillNumber, &b.Title, &b.Significance, &b.DateFiled, &authors,
		&b.DateRead, &b.PrimaryReferral, &b.DateApprovedSecondReading, &b.DateTransmitted,
		&b.Status, &b.CoAuthored, &committees, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(authors, &b.PrincipalAuthors); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(committees, &b.Committees); err != nil {
		return nil, err
	}
	return &b, nil
}

// GetByID returns the bill for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Bill, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+billColumns+` FROM bills WHERE id = $1`, id)
	return scanBill(row)
}

// GetByNumber returns the bill with the given chamber bill number, or nil if not found.
func (r *PostgresRepository) GetByNumber(ctx context.Context, billNumber string) (*domain.Bill, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+billColumns+` FROM bills WHERE bill_number = $1`, billNumber)
	return scanBill(row)
}

// List returns bills ordered by bill number, paginated by limit and offset.
func (r *PostgresRepository) List(ctx context.Context, limit, offset int) ([]*domain.Bill, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+billColumns+` FROM bills
		ORDER BY bill_number LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.Bill
	for rows.Next() {
		b, err := scanBill(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// Create persists the bill. The bill must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, b *domain.Bill) error {
	authors, committees, err := marshalLists(b)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO bills (`+billColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		b.ID, b.BillNumber, b.Title, b.Significance, b.DateFiled, authors,
		b.DateRead, b.PrimaryReferral, b.DateApprovedSecondReading, b.DateTransmitted,
		b.Status, b.CoAuthored, committees, b.CreatedAt, b.UpdatedAt)
	return err
}

// Update rewrites the bill's mutable fields by id.
func (r *PostgresRepository) Update(ctx context.Context, b *domain.Bill) error {
	authors, committees, err := marshalLists(b)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		UPDATE bills SET bill_number = $2, title = $3, significance = $4, date_filed = $5,
			principal_authors = $6, date_read = $7, primary_referral = $8,
			date_approved_second_reading = $9, date_transmitted = $10, status = $11,
			co_authored = $12, committees = $13, updated_at = $14
		WHERE id = $1`,
		b.ID, b.BillNumber, b.Title, b.Significance, b.DateFiled, authors,
		b.DateRead, b.PrimaryReferral, b.DateApprovedSecondReading, b.DateTransmitted,
		b.Status, b.CoAuthored, committees, b.UpdatedAt)
	return err
}

func marshalLists(b *domain.Bill) ([]byte, []byte, error) {
	authors := b.PrincipalAuthors
	if authors == nil {
		authors = []string{}
	}
	committees := b.Committees
	if committees == nil {
		committees = []string{}
	}
	aj, err := json.Marshal(authors)
	if err != nil {
		return nil, nil, err
	}
	cj, err := json.Marshal(committees)
	if err != nil {
		return nil, nil, err
	}
	return aj, cj, nil
}
