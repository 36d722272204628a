package user

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/noah-isme/backend-academy/internal/common"
	"github.com/noah-isme/backend-academy/internal/store"
)

type querier interface {
	GetUserByID(ctx context.Context, id pgtype.UUID) (store.User, error)
	UpdateUserProfile(ctx context.Context, arg store.UpdateUserProfileParams) (store.User, error)
	UpdateUserPassword(ctx context.Context, id pgtype.UUID, passwordHash string) error
	RevokeUserSessions(ctx context.Context, userID pgtype.UUID) error
}

// Service manages the authenticated user's profile.
type Service struct {
	Q querier
}

// Profile is the API payload for the account owner's data.
type Profile struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Roles     []string  `json:"roles"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UpdateInput carries the mutable profile fields.
type UpdateInput struct {
	Name  string `json:"name" validate:"required,min=2,max=100"`
	Email string `json:"email" validate:"required,email"`
}

// ChangePasswordInput carries a password rotation request.
type ChangePasswordInput struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

// Get loads the profile for the given user id.
func (s *Service) Get(ctx context.Context, userID string) (Profile, error) {
	id, err := store.ToUUID(userID)
	if err != nil {
		return Profile{}, unauthorized(err)
	}
	row, err := s.Q.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Profile{}, unauthorized(err)
		}
		return Profile{}, fmt.Errorf("get user: %w", err)
	}
	return toProfile(row), nil
}

// Update applies name and email changes.
func (s *Service) Update(ctx context.Context, userID string, in UpdateInput) (Profile, error) {
	if err := common.ValidateStruct(in); err != nil {
		return Profile{}, &common.AppError{
			Code:       "VALIDATION_ERROR",
			Message:    "invalid profile payload",
			HTTPStatus: http.StatusBadRequest,
			Err:        err,
			Details:    map[string]any{"fields": common.ValidationDetails(err)},
		}
	}
	id, err := store.ToUUID(userID)
	if err != nil {
		return Profile{}, unauthorized(err)
	}
	row, err := s.Q.UpdateUserProfile(ctx, store.UpdateUserProfileParams{
		ID:    id,
		Name:  strings.TrimSpace(in.Name),
		Email: strings.TrimSpace(strings.ToLower(in.Email)),
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Profile{}, &common.AppError{
				Code:       "EMAIL_ALREADY_USED",
				Message:    "email is already registered",
				HTTPStatus: http.StatusConflict,
				Err:        err,
			}
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return Profile{}, unauthorized(err)
		}
		return Profile{}, fmt.Errorf("update profile: %w", err)
	}
	return toProfile(row), nil
}

// ChangePassword verifies the current password and stores a new hash.
// Every other session is revoked afterwards.
func (s *Service) ChangePassword(ctx context.Context, userID string, in ChangePasswordInput) error {
	if err := common.ValidateStruct(in); err != nil {
		return &common.AppError{
			Code:       "VALIDATION_ERROR",
			Message:    "invalid password payload",
			HTTPStatus: http.StatusBadRequest,
			Err:        err,
			Details:    map[string]any{"fields": common.ValidationDetails(err)},
		}
	}
	id, err := store.ToUUID(userID)
	if err != nil {
		return unauthorized(err)
	}
	row, err := s.Q.GetUserByID(ctx, id)
	if err != nil {
		return unauthorized(err)
	}
	ok, err := argon2id.ComparePasswordAndHash(in.CurrentPassword, row.PasswordHash)
	if err != nil || !ok {
		return &common.AppError{
			Code:       "INVALID_CREDENTIALS",
			Message:    "current password does not match",
			HTTPStatus: http.StatusUnauthorized,
		}
	}
	hash, err := argon2id.CreateHash(in.NewPassword, argon2id.DefaultParams)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.Q.UpdateUserPassword(ctx, id, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if err := s.Q.RevokeUserSessions(ctx, id); err != nil {
		return fmt.Errorf("revoke sessions: %w", err)
	}
	return nil
}

func toProfile(row store.User) Profile {
	return Profile{
		ID:        store.UUIDString(row.ID),
		Name:      row.Name,
		Email:     row.Email,
		Roles:     row.Roles,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

func unauthorized(err error) *common.AppError {
	return &common.AppError{Code: "UNAUTHORIZED", Message: "unauthorized", HTTPStatus: http.StatusUnauthorized, Err: err}
}
