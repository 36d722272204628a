package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-academy/internal/common"
)

// Handler processes notification tasks pulled off the asynq queue.
type Handler struct {
	Mail   common.EmailSender
	Logger *zerolog.Logger
}

// Register attaches the task handlers to the mux.
func (h *Handler) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(TypeWelcomeEmail, h.HandleWelcomeEmail)
	mux.HandleFunc(TypePasswordResetEmail, h.HandlePasswordResetEmail)
}

// HandleWelcomeEmail sends the post-registration email.
func (h *Handler) HandleWelcomeEmail(_ context.Context, t *asynq.Task) error {
	var payload WelcomePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("decode welcome payload: %w: %w", err, asynq.SkipRetry)
	}
	to := strings.TrimSpace(payload.Email)
	if to == "" {
		return fmt.Errorf("welcome email without recipient: %w", asynq.SkipRetry)
	}
	name := strings.TrimSpace(payload.Name)
	if name == "" {
		name = "there"
	}
	body := fmt.Sprintf("Hi %s, welcome aboard. Your account is ready.", name)
	if err := h.Mail.Send(to, "Welcome to the academy", body); err != nil {
		return fmt.Errorf("send welcome email: %w", err)
	}
	if h.Logger != nil {
		h.Logger.Info().Str("to", to).Msg("welcome email sent")
	}
	return nil
}

// HandlePasswordResetEmail sends the reset link email.
func (h *Handler) HandlePasswordResetEmail(_ context.Context, t *asynq.Task) error {
	var payload ResetPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("decode reset payload: %w: %w", err, asynq.SkipRetry)
	}
	to := strings.TrimSpace(payload.Email)
	if to == "" {
		return fmt.Errorf("reset email without recipient: %w", asynq.SkipRetry)
	}
	body := "Use this link to reset your password: " + payload.Link
	if err := h.Mail.Send(to, "Reset Password", body); err != nil {
		return fmt.Errorf("send reset email: %w", err)
	}
	return nil
}
