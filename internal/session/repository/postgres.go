package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"constituent-connect/backend/internal/session/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a session repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const sessionColumns = `id, account_id, role, expires_at, revoked_at, last_seen_at,
	refresh_jti, refresh_token_hash, created_at`

// GetByID returns the session for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+sessionColumns+` FROM api_sessions WHERE id = $1`, id)
	var (
		s         domain.Session
		revokedAt sql.NullTime
		lastSeen  sql.NullTime
	)
	err := row.Scan(&s.ID, &s.AccountID, &s.Role, &s.ExpiresAt, &revokedAt, &lastSeen,
		&s.RefreshJti, &s.RefreshTokenHash, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if revokedAt.Valid {
		s.RevokedAt = &revokedAt.Time
	}
	if lastSeen.Valid {
		s.LastSeenAt = &lastSeen.Time
	}
	return &s, nil
}

// Create persists the session. The session must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, s *domain.Session) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO api_sessions (id, account_id, role, expires_at, revoked_at, last_seen_at,
			refresh_jti, refresh_token_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		s.ID, s.AccountID, s.Role, s.ExpiresAt, timeToNullTime(s.RevokedAt),
		timeToNullTime(s.LastSeenAt), s.RefreshJti, s.RefreshTokenHash, s.CreatedAt)
	return err
}

// Revoke marks the session with the given id as revoked.
func (r *PostgresRepository) Revoke(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE api_sessions SET revoked_at = $2 WHERE id = $1 AND revoked_at IS NULL`,
		id, time.Now().UTC())
	return err
}

// RevokeAllByAccount revokes every live session for the given account.
func (r *PostgresRepository) RevokeAllByAccount(ctx context.Context, accountID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE api_sessions SET revoked_at = $2 WHERE account_id = $1 AND revoked_at IS NULL`,
		accountID, time.Now().UTC())
	return err
}

// UpdateRefreshToken sets the session's current refresh token jti and hash for rotation.
func (r *PostgresRepository) UpdateRefreshToken(ctx context.Context, sessionID, jti, refreshTokenHash string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE api_sessions SET refresh_jti = $2, refresh_token_hash = $3 WHERE id = $1`,
		sessionID, jti, refreshTokenHash)
	return err
}

// UpdateLastSeen sets the session's last-seen timestamp for the given id.
func (r *PostgresRepository) UpdateLastSeen(ctx context.Context, id string, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE api_sessions SET last_seen_at = $2 WHERE id = $1`, id, at)
	return err
}

func timeToNullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
