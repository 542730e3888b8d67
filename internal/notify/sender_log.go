package notify

import (
	"context"

	"interviewhub/internal/shared/telemetry"
)

// LogSender writes emails to the log instead of sending them. Used in dev.
type LogSender struct{}

func (LogSender) Send(ctx context.Context, email Email) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	telemetry.Info("notify.email.logged", map[string]any{
		"to":         email.To,
		"from":       email.From,
		"subject":    email.Subject,
		"body_bytes": len(email.HTML),
	})
	return nil
}
