package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"interviewhub/internal/shared/auth"
	"interviewhub/internal/shared/server/respond"
)

const (
	userIDKey    = "userId"
	userRoleKey  = "userRole"
	userEmailKey = "userEmail"
	userNameKey  = "userName"
)

// publicPaths are reachable without a bearer token.
var publicPaths = map[string]struct{}{
	"/api/v1/health":             {},
	"/metrics":                   {},
	"/api/v1/auth/register":      {},
	"/api/v1/auth/verify-otp":    {},
	"/api/v1/auth/resend-otp":    {},
	"/api/v1/auth/login":         {},
	"/api/v1/auth/refresh-token": {},
}

// TokenVerifier validates access tokens.
type TokenVerifier interface {
	VerifyAccess(token string) (auth.Claims, error)
}

// Auth validates bearer JWTs and stores identity in context.
func Auth(tokens TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		path := c.Request.URL.Path
		if _, ok := publicPaths[path]; ok || strings.HasPrefix(path, "/api/v1/auth/google/") {
			c.Next()
			return
		}

		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if !strings.HasPrefix(authHeader, "Bearer ") {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "Not authorized, no token", nil)
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer"))
		if token == "" || tokens == nil {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "Not authorized, no token", nil)
			return
		}

		claims, err := tokens.VerifyAccess(token)
		if err != nil {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "Not authorized, token failed", nil)
			return
		}

		c.Set(userIDKey, claims.Subject)
		c.Set(userRoleKey, string(claims.Role))
		if claims.Email != "" {
			c.Set(userEmailKey, claims.Email)
		}
		if claims.Name != "" {
			c.Set(userNameKey, claims.Name)
		}
		c.Next()
	}
}

// RequireRole rejects callers whose role is not listed.
func RequireRole(roles ...auth.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := ActorFromContext(c)
		if actor.ID == "" {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "Not authorized, no token", nil)
			return
		}
		if err := actor.Require(roles...); err != nil {
			respond.Error(c, http.StatusForbidden, "forbidden", err.Error(), nil)
			return
		}
		c.Next()
	}
}

// ActorFromContext returns the authenticated caller, or a zero Actor.
func ActorFromContext(c *gin.Context) auth.Actor {
	if c == nil {
		return auth.Actor{}
	}
	return auth.Actor{
		ID:   c.GetString(userIDKey),
		Role: auth.Role(c.GetString(userRoleKey)),
	}
}

// UserIDFromContext fetches the user ID set by the auth middleware.
func UserIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	return c.GetString(userIDKey)
}
