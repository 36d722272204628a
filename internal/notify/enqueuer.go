package notify

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// Enqueuer pushes notification tasks onto the asynq queue.
type Enqueuer struct {
	Client *asynq.Client
	Logger *zerolog.Logger
}

// EnqueueWelcome schedules a welcome email for a freshly registered user.
func (e *Enqueuer) EnqueueWelcome(ctx context.Context, email, name string) error {
	if e == nil || e.Client == nil {
		return nil
	}
	task, err := NewWelcomeEmailTask(email, name)
	if err != nil {
		return err
	}
	info, err := e.Client.EnqueueContext(ctx, task)
	if err != nil {
		return fmt.Errorf("enqueue welcome email: %w", err)
	}
	if e.Logger != nil {
		e.Logger.Debug().Str("task_id", info.ID).Str("type", task.Type()).Msg("notification enqueued")
	}
	return nil
}

// EnqueuePasswordReset schedules a password reset email.
func (e *Enqueuer) EnqueuePasswordReset(ctx context.Context, email, link string) error {
	if e == nil || e.Client == nil {
		return nil
	}
	task, err := NewPasswordResetEmailTask(email, link)
	if err != nil {
		return err
	}
	if _, err := e.Client.EnqueueContext(ctx, task); err != nil {
		return fmt.Errorf("enqueue reset email: %w", err)
	}
	return nil
}
