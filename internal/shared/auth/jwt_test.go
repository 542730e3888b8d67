package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"interviewhub/internal/shared/errs"
)

func newTestTokens(t *testing.T) *Tokens {
	t.Helper()
	tokens, err := NewTokens(TokenConfig{Env: "test", AccessSecret: "a", RefreshSecret: "r", AccessTTL: time.Hour, RefreshTTL: 2 * time.Hour})
	require.NoError(t, err)
	return tokens
}

func TestIssueAndVerify(t *testing.T) {
	tokens := newTestTokens(t)
	pair, err := tokens.Issue(Subject{ID: "u-1", Email: "hr@example.com", Name: "Hana", Role: RoleHR})
	require.NoError(t, err)

	claims, err := tokens.VerifyAccess(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.Subject)
	assert.Equal(t, RoleHR, claims.Role)

	refresh, err := tokens.VerifyRefresh(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "u-1", refresh.Subject)
}

func TestTokenTypesAreNotInterchangeable(t *testing.T) {
	tokens := newTestTokens(t)
	pair, err := tokens.Issue(Subject{ID: "u-1", Role: RoleStudent})
	require.NoError(t, err)

	_, err = tokens.VerifyAccess(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = tokens.VerifyRefresh(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExpiredTokenRejected(t *testing.T) {
	tokens := newTestTokens(t)
	issued := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	tokens.now = func() time.Time { return issued }
	pair, err := tokens.Issue(Subject{ID: "u-1", Role: RoleStudent})
	require.NoError(t, err)

	tokens.now = func() time.Time { return issued.Add(2 * time.Hour) }
	_, err = tokens.VerifyAccess(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestProductionRequiresSecrets(t *testing.T) {
	_, err := NewTokens(TokenConfig{Env: "production"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errMissingSecret))
}

func TestActorRequire(t *testing.T) {
	hr := Actor{ID: "h", Role: RoleHR}
	assert.NoError(t, hr.Require(RoleHR, RoleInterviewer))
	assert.ErrorIs(t, hr.Require(RoleStudent), errs.ErrForbidden)
	assert.ErrorIs(t, Actor{}.Require(RoleHR), errs.ErrUnauthorized)

	role, ok := ParseRole("interviewer")
	assert.True(t, ok)
	assert.Equal(t, RoleInterviewer, role)
}
