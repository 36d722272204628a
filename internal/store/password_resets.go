package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// PasswordReset mirrors a single-use password reset token row.
type PasswordReset struct {
	ID        pgtype.UUID
	UserID    pgtype.UUID
	Token     string
	ExpiresAt pgtype.Timestamptz
	UsedAt    pgtype.Timestamptz
	CreatedAt time.Time
}

// CreatePasswordResetParams captures the fields required to mint a reset token.
type CreatePasswordResetParams struct {
	UserID    pgtype.UUID
	Token     string
	ExpiresAt pgtype.Timestamptz
}

const createPasswordResetSQL = `
INSERT INTO password_resets (user_id, token, expires_at)
VALUES ($1, $2, $3)
RETURNING id, user_id, token, expires_at, used_at, created_at`

// CreatePasswordReset persists a reset token for the user.
func (s *Store) CreatePasswordReset(ctx context.Context, arg CreatePasswordResetParams) (PasswordReset, error) {
	var pr PasswordReset
	err := s.pool.QueryRow(ctx, createPasswordResetSQL, arg.UserID, arg.Token, arg.ExpiresAt).
		Scan(&pr.ID, &pr.UserID, &pr.Token, &pr.ExpiresAt, &pr.UsedAt, &pr.CreatedAt)
	return pr, err
}

const getPasswordResetByTokenSQL = `
SELECT id, user_id, token, expires_at, used_at, created_at
FROM password_resets WHERE token = $1`

// GetPasswordResetByToken resolves a reset token.
func (s *Store) GetPasswordResetByToken(ctx context.Context, token string) (PasswordReset, error) {
	var pr PasswordReset
	err := s.pool.QueryRow(ctx, getPasswordResetByTokenSQL, token).
		Scan(&pr.ID, &pr.UserID, &pr.Token, &pr.ExpiresAt, &pr.UsedAt, &pr.CreatedAt)
	return pr, err
}

const usePasswordResetSQL = `
UPDATE password_resets SET used_at = now() WHERE token = $1 AND used_at IS NULL`

// UsePasswordReset marks the token as consumed.
func (s *Store) UsePasswordReset(ctx context.Context, token string) error {
	_, err := s.pool.Exec(ctx, usePasswordResetSQL, token)
	return err
}

const deletePasswordResetsByUserSQL = `DELETE FROM password_resets WHERE user_id = $1`

// DeletePasswordResetsByUser drops every reset token owned by the user.
func (s *Store) DeletePasswordResetsByUser(ctx context.Context, userID pgtype.UUID) error {
	_, err := s.pool.Exec(ctx, deletePasswordResetsByUserSQL, userID)
	return err
}
