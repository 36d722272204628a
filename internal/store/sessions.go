package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// Session mirrors a refresh token session row. Tokens are stored hashed.
type Session struct {
	ID        pgtype.UUID
	UserID    pgtype.UUID
	TokenHash string
	UserAgent pgtype.Text
	IP        pgtype.Text
	ExpiresAt pgtype.Timestamptz
	RevokedAt pgtype.Timestamptz
	CreatedAt time.Time
}

// CreateSessionParams captures the fields required to persist a session.
type CreateSessionParams struct {
	UserID    pgtype.UUID
	TokenHash string
	UserAgent pgtype.Text
	IP        pgtype.Text
	ExpiresAt pgtype.Timestamptz
}

const createSessionSQL = `
INSERT INTO sessions (user_id, token_hash, user_agent, ip, expires_at)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, user_id, token_hash, user_agent, ip, expires_at, revoked_at, created_at`

// CreateSession persists a refresh session.
func (s *Store) CreateSession(ctx context.Context, arg CreateSessionParams) (Session, error) {
	var sess Session
	err := s.pool.QueryRow(ctx, createSessionSQL,
		arg.UserID, arg.TokenHash, arg.UserAgent, arg.IP, arg.ExpiresAt).
		Scan(&sess.ID, &sess.UserID, &sess.TokenHash, &sess.UserAgent, &sess.IP,
			&sess.ExpiresAt, &sess.RevokedAt, &sess.CreatedAt)
	return sess, err
}

const getSessionByTokenHashSQL = `
SELECT id, user_id, token_hash, user_agent, ip, expires_at, revoked_at, created_at
FROM sessions WHERE token_hash = $1`

// GetSessionByTokenHash resolves a session by refresh token hash.
func (s *Store) GetSessionByTokenHash(ctx context.Context, hash string) (Session, error) {
	var sess Session
	err := s.pool.QueryRow(ctx, getSessionByTokenHashSQL, hash).
		Scan(&sess.ID, &sess.UserID, &sess.TokenHash, &sess.UserAgent, &sess.IP,
			&sess.ExpiresAt, &sess.RevokedAt, &sess.CreatedAt)
	return sess, err
}

// RotateSessionParams carries the replacement token material for a session.
type RotateSessionParams struct {
	ID        pgtype.UUID
	TokenHash string
	ExpiresAt pgtype.Timestamptz
}

const rotateSessionTokenSQL = `
UPDATE sessions SET token_hash = $2, expires_at = $3
WHERE id = $1 AND revoked_at IS NULL
RETURNING id, user_id, token_hash, user_agent, ip, expires_at, revoked_at, created_at`

// RotateSessionToken swaps in a fresh refresh token hash for an active session.
func (s *Store) RotateSessionToken(ctx context.Context, arg RotateSessionParams) (Session, error) {
	var sess Session
	err := s.pool.QueryRow(ctx, rotateSessionTokenSQL, arg.ID, arg.TokenHash, arg.ExpiresAt).
		Scan(&sess.ID, &sess.UserID, &sess.TokenHash, &sess.UserAgent, &sess.IP,
			&sess.ExpiresAt, &sess.RevokedAt, &sess.CreatedAt)
	return sess, err
}

const revokeSessionByTokenHashSQL = `
UPDATE sessions SET revoked_at = now() WHERE token_hash = $1 AND revoked_at IS NULL`

// RevokeSessionByTokenHash revokes the session carrying the given token hash.
func (s *Store) RevokeSessionByTokenHash(ctx context.Context, hash string) error {
	_, err := s.pool.Exec(ctx, revokeSessionByTokenHashSQL, hash)
	return err
}

const revokeSessionSQL = `
UPDATE sessions SET revoked_at = now() WHERE id = $1 AND revoked_at IS NULL`

// RevokeSession marks a single session as revoked.
func (s *Store) RevokeSession(ctx context.Context, id pgtype.UUID) error {
	_, err := s.pool.Exec(ctx, revokeSessionSQL, id)
	return err
}

const revokeUserSessionsSQL = `
UPDATE sessions SET revoked_at = now() WHERE user_id = $1 AND revoked_at IS NULL`

// RevokeUserSessions revokes every active session owned by the user.
func (s *Store) RevokeUserSessions(ctx context.Context, userID pgtype.UUID) error {
	_, err := s.pool.Exec(ctx, revokeUserSessionsSQL, userID)
	return err
}
