package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// User mirrors a row of the users table.
type User struct {
	ID           pgtype.UUID
	Name         string
	Email        string
	PasswordHash string
	Roles        []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CreateUserParams captures the fields required to insert a user.
type CreateUserParams struct {
	Name         string
	Email        string
	PasswordHash string
}

const createUserSQL = `
INSERT INTO users (name, email, password_hash, roles)
VALUES ($1, $2, $3, '{user}')
RETURNING id, name, email, password_hash, roles, created_at, updated_at`

// CreateUser inserts a new user with the default role.
func (s *Store) CreateUser(ctx context.Context, arg CreateUserParams) (User, error) {
	var u User
	err := s.pool.QueryRow(ctx, createUserSQL, arg.Name, arg.Email, arg.PasswordHash).
		Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Roles, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

const getUserByEmailSQL = `
SELECT id, name, email, password_hash, roles, created_at, updated_at
FROM users WHERE email = $1`

// GetUserByEmail loads a user by normalised email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (User, error) {
	var u User
	err := s.pool.QueryRow(ctx, getUserByEmailSQL, email).
		Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Roles, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

const getUserByIDSQL = `
SELECT id, name, email, password_hash, roles, created_at, updated_at
FROM users WHERE id = $1`

// GetUserByID loads a user by primary key.
func (s *Store) GetUserByID(ctx context.Context, id pgtype.UUID) (User, error) {
	var u User
	err := s.pool.QueryRow(ctx, getUserByIDSQL, id).
		Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Roles, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// UpdateUserProfileParams lists the mutable profile fields.
type UpdateUserProfileParams struct {
	ID    pgtype.UUID
	Name  string
	Email string
}

const updateUserProfileSQL = `
UPDATE users SET name = $2, email = $3, updated_at = now()
WHERE id = $1
RETURNING id, name, email, password_hash, roles, created_at, updated_at`

// UpdateUserProfile applies profile changes and returns the updated row.
func (s *Store) UpdateUserProfile(ctx context.Context, arg UpdateUserProfileParams) (User, error) {
	var u User
	err := s.pool.QueryRow(ctx, updateUserProfileSQL, arg.ID, arg.Name, arg.Email).
		Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Roles, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

const updateUserPasswordSQL = `
UPDATE users SET password_hash = $2, updated_at = now() WHERE id = $1`

// UpdateUserPassword replaces the stored password hash.
func (s *Store) UpdateUserPassword(ctx context.Context, id pgtype.UUID, passwordHash string) error {
	_, err := s.pool.Exec(ctx, updateUserPasswordSQL, id, passwordHash)
	return err
}
