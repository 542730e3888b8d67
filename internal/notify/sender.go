package notify

import (
	"context"
	"fmt"
)

// SenderConfig selects and configures an email Sender.
type SenderConfig struct {
	Kind      string // log, smtp or ses
	AWSRegion string
	SMTP      SMTPConfig
}

// NewSender builds the Sender named by cfg.Kind.
func NewSender(ctx context.Context, cfg SenderConfig) (Sender, error) {
	switch cfg.Kind {
	case "", "log":
		return LogSender{}, nil
	case "smtp":
		return NewSMTPSender(cfg.SMTP)
	case "ses":
		return NewSESSender(ctx, cfg.AWSRegion)
	default:
		return nil, fmt.Errorf("unknown email sender %q", cfg.Kind)
	}
}
