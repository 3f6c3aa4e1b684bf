package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"constituent-connect/backend/internal/authn/domain"
)

type PostgresChallengeStore struct {
	db *sql.DB
}

// NewPostgresChallengeStore returns a challenge store that uses the given db.
func NewPostgresChallengeStore(db *sql.DB) *PostgresChallengeStore {
	return &PostgresChallengeStore{db: db}
}

// Create persists the OTP challenge. The challenge must have ID set.
func (s *PostgresChallengeStore) Create(ctx context.Context, c *domain.Challenge) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO otp_challenges (id, phone, code_hash, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		c.ID, c.Phone, c.CodeHash, c.ExpiresAt, c.CreatedAt)
	return err
}

// GetByID returns the OTP challenge for id, or nil if not found.
func (s *PostgresChallengeStore) GetByID(ctx context.Context, id string) (*domain.Challenge, error) {
	var c domain.Challenge
	err := s.db.QueryRowContext(ctx, `
		SELECT id, phone, code_hash, expires_at, created_at
		FROM otp_challenges WHERE id = $1`, id).
		Scan(&c.ID, &c.Phone, &c.CodeHash, &c.ExpiresAt, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

// Delete removes the OTP challenge by id.
func (s *PostgresChallengeStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM otp_challenges WHERE id = $1`, id)
	return err
}

// PurgeExpired removes challenges whose validity window passed before now.
// Called periodically by the server; Postgres has no TTL eviction.
func (s *PostgresChallengeStore) PurgeExpired(ctx context.Context, now time.Time) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM otp_challenges WHERE expires_at <= $1`, now)
	return err
}

type PostgresIdentityRepository struct {
	db *sql.DB
}

// NewPostgresIdentityRepository returns a phone-identity repository backed by the given db.
func NewPostgresIdentityRepository(db *sql.DB) *PostgresIdentityRepository {
	return &PostgresIdentityRepository{db: db}
}

// GetAccountID returns the account id bound to phone, or "" if none exists.
func (r *PostgresIdentityRepository) GetAccountID(ctx context.Context, phone string) (string, error) {
	var id string
	err := r.db.QueryRowContext(ctx,
		`SELECT account_id FROM phone_identities WHERE phone = $1`, phone).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", err
	}
	return id, nil
}

// Bind records accountID as the identifier for phone. An already-bound phone
// keeps its existing identifier.
func (r *PostgresIdentityRepository) Bind(ctx context.Context, phone, accountID string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO phone_identities (phone, account_id, verified_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (phone) DO NOTHING`,
		phone, accountID, time.Now().UTC())
	return err
}

// GetPhone returns the phone bound to accountID, or "" if none exists.
func (r *PostgresIdentityRepository) GetPhone(ctx context.Context, accountID string) (string, error) {
	var phone string
	err := r.db.QueryRowContext(ctx,
		`SELECT phone FROM phone_identities WHERE account_id = $1`, accountID).Scan(&phone)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", err
	}
	return phone, nil
}
