package notify

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

// Task type names routed through the asynq queue.
const (
	TypeWelcomeEmail       = "email:welcome"
	TypePasswordResetEmail = "email:password_reset"
)

// WelcomePayload carries the data for a post-registration email.
type WelcomePayload struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// ResetPayload carries the data for a password reset email.
type ResetPayload struct {
	Email string `json:"email"`
	Link  string `json:"link"`
}

// NewWelcomeEmailTask builds the asynq task for a welcome email.
func NewWelcomeEmailTask(email, name string) (*asynq.Task, error) {
	payload, err := json.Marshal(WelcomePayload{Email: email, Name: name})
	if err != nil {
		return nil, fmt.Errorf("marshal welcome payload: %w", err)
	}
	return asynq.NewTask(TypeWelcomeEmail, payload, asynq.MaxRetry(3)), nil
}

// NewPasswordResetEmailTask builds the asynq task for a reset email.
func NewPasswordResetEmailTask(email, link string) (*asynq.Task, error) {
	payload, err := json.Marshal(ResetPayload{Email: email, Link: link})
	if err != nil {
		return nil, fmt.Errorf("marshal reset payload: %w", err)
	}
	return asynq.NewTask(TypePasswordResetEmail, payload, asynq.MaxRetry(3)), nil
}
