package notify

import (
	"context"
	"fmt"
)

// Sender delivers a rendered email.
type Sender interface {
	Send(ctx context.Context, email Email) error
}

// Mailer renders messages and passes them to a Sender.
type Mailer struct {
	Sender Sender
	From   string
}

func (m *Mailer) Deliver(ctx context.Context, msg Message) error {
	email, err := Render(msg)
	if err != nil {
		return err
	}
	email.From = m.From
	if err := m.Sender.Send(ctx, email); err != nil {
		return fmt.Errorf("send %s to %s: %w", msg.Template, email.To, err)
	}
	return nil
}

var _ Transport = (*Mailer)(nil)
