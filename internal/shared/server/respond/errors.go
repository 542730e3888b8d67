package respond

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"interviewhub/internal/shared/errs"
	"interviewhub/internal/shared/telemetry"
)

// ErrorResponse is the envelope for every failed request.
type ErrorResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Code    string      `json:"code"`
	Details interface{} `json:"details,omitempty"`
}

// Error sends a standardized error response.
func Error(c *gin.Context, status int, code, message string, details interface{}) {
	fields := map[string]any{
		"status":     status,
		"code":       code,
		"message":    message,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	}
	if userID := c.GetString("userId"); userID != "" {
		fields["user_id"] = userID
	}
	if role := c.GetString("userRole"); role != "" {
		fields["role"] = role
	}
	if status >= http.StatusInternalServerError {
		telemetry.Error("http.error", fields)
	} else {
		telemetry.Warn("http.error", fields)
	}

	c.AbortWithStatusJSON(status, ErrorResponse{
		Message: message,
		Code:    code,
		Details: details,
	})
}

// Err maps a service error onto the response envelope. Conflicts are reported
// as 400 to stay compatible with existing clients.
func Err(c *gin.Context, err error) {
	if err == nil {
		return
	}
	switch kind := errs.Kind(err); {
	case errors.Is(kind, errs.ErrNotFound):
		Error(c, http.StatusNotFound, "not_found", err.Error(), nil)
	case errors.Is(kind, errs.ErrConflict):
		Error(c, http.StatusBadRequest, "conflict", err.Error(), nil)
	case errors.Is(kind, errs.ErrInvalidInput):
		Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(kind, errs.ErrForbidden):
		Error(c, http.StatusForbidden, "forbidden", err.Error(), nil)
	case errors.Is(kind, errs.ErrUnauthorized):
		Error(c, http.StatusUnauthorized, "unauthorized", err.Error(), nil)
	default:
		c.Set("internalError", err.Error())
		Error(c, http.StatusInternalServerError, "internal", "Unexpected server error", nil)
	}
}

// BadRequest reports a request that failed binding or basic validation.
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, "validation_error", message, nil)
}
