package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ENV", "")
	t.Setenv("MAIL_TRANSPORT", "")
	t.Setenv("JWT_EXPIRE", "")

	cfg := Load()
	if cfg.Env != "dev" {
		t.Fatalf("expected dev env, got %q", cfg.Env)
	}
	if cfg.MailTransport != "log" {
		t.Fatalf("expected log transport, got %q", cfg.MailTransport)
	}
	if cfg.MaxResumeBytes != 5<<20 {
		t.Fatalf("expected 5MB resume limit, got %d", cfg.MaxResumeBytes)
	}
	if cfg.OTPTTL != 10*time.Minute {
		t.Fatalf("expected 10m otp ttl, got %s", cfg.OTPTTL)
	}
}

func TestLoadDayDurations(t *testing.T) {
	t.Setenv("JWT_EXPIRE", "7d")
	t.Setenv("REFRESH_TOKEN_EXPIRE", "36h")
	t.Setenv("MAIL_TRANSPORT", "SES")
	t.Setenv("ENV", "prod")

	cfg := Load()
	if cfg.AccessTokenTTL != 7*24*time.Hour {
		t.Fatalf("expected 7 days, got %s", cfg.AccessTokenTTL)
	}
	if cfg.RefreshTokenTTL != 36*time.Hour {
		t.Fatalf("expected 36h, got %s", cfg.RefreshTokenTTL)
	}
	if cfg.MailTransport != "ses" {
		t.Fatalf("expected ses, got %q", cfg.MailTransport)
	}
	if cfg.Env != "production" {
		t.Fatalf("expected production, got %q", cfg.Env)
	}
}
