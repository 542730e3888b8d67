package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

var (
	errMissingSecret = errors.New("jwt secret not configured")
	ErrInvalidToken  = errors.New("invalid token")
)

// Claims represents the identity contained in a JWT.
type Claims struct {
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	Role  Role   `json:"role"`
	Type  string `json:"typ"`
	jwt.RegisteredClaims
}

// Subject is the identity a token pair is issued for.
type Subject struct {
	ID    string
	Email string
	Name  string
	Role  Role
}

// TokenPair is what login, OTP verification and refresh hand back to clients.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// TokenConfig configures a Tokens manager.
type TokenConfig struct {
	Env           string
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

// Tokens signs and verifies HS256 access and refresh tokens.
type Tokens struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

// NewTokens builds a token manager. Outside production missing secrets fall back to dev values.
func NewTokens(cfg TokenConfig) (*Tokens, error) {
	access, err := resolveSecret(cfg.Env, "JWT_SECRET", cfg.AccessSecret, "dev-secret")
	if err != nil {
		return nil, err
	}
	refresh, err := resolveSecret(cfg.Env, "REFRESH_TOKEN_SECRET", cfg.RefreshSecret, "dev-refresh-secret")
	if err != nil {
		return nil, err
	}
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = 24 * time.Hour
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = 30 * 24 * time.Hour
	}
	return &Tokens{
		accessSecret:  access,
		refreshSecret: refresh,
		accessTTL:     cfg.AccessTTL,
		refreshTTL:    cfg.RefreshTTL,
		now:           time.Now,
	}, nil
}

// Issue signs a fresh access/refresh pair for the subject.
func (t *Tokens) Issue(sub Subject) (TokenPair, error) {
	if strings.TrimSpace(sub.ID) == "" {
		return TokenPair{}, errors.New("sub is required")
	}
	access, err := t.sign(sub, tokenTypeAccess, t.accessSecret, t.accessTTL)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := t.sign(sub, tokenTypeRefresh, t.refreshSecret, t.refreshTTL)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// VerifyAccess validates an access token and returns its claims.
func (t *Tokens) VerifyAccess(token string) (Claims, error) {
	return t.verify(token, tokenTypeAccess, t.accessSecret)
}

// VerifyRefresh validates a refresh token and returns its claims.
func (t *Tokens) VerifyRefresh(token string) (Claims, error) {
	return t.verify(token, tokenTypeRefresh, t.refreshSecret)
}

func (t *Tokens) sign(sub Subject, typ string, secret []byte, ttl time.Duration) (string, error) {
	now := t.now().UTC()
	claims := Claims{
		Email: sub.Email,
		Name:  sub.Name,
		Role:  sub.Role,
		Type:  typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", typ, err)
	}
	return signed, nil
}

func (t *Tokens) verify(raw, typ string, secret []byte) (Claims, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Claims{}, ErrInvalidToken
	}
	var claims Claims
	parsed, err := jwt.ParseWithClaims(raw, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return secret, nil
	}, jwt.WithTimeFunc(t.now))
	if err != nil || !parsed.Valid {
		return Claims{}, ErrInvalidToken
	}
	if claims.Type != typ || claims.Subject == "" {
		return Claims{}, ErrInvalidToken
	}
	return claims, nil
}

func resolveSecret(env, name, value, fallback string) ([]byte, error) {
	value = strings.TrimSpace(value)
	if value != "" {
		return []byte(value), nil
	}
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "production", "prod":
		return nil, fmt.Errorf("%w: %s required in production", errMissingSecret, name)
	}
	return []byte(fallback), nil
}
