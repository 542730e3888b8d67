package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"interviewhub/internal/shared/telemetry"
)

// Context keys handlers set so request logs carry the touched resources.
const (
	JobIDKey            = "jobId"
	ApplicationIDKey    = "applicationId"
	InterviewIDKey      = "interviewId"
	StatusTransitionKey = "statusTransition"
)

// Logging emits a structured log per request.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.EqualFold(c.Request.Method, "OPTIONS") {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		fields := map[string]any{
			"request_id":        RequestIDFromContext(c),
			"method":            c.Request.Method,
			"path":              c.Request.URL.Path,
			"route":             c.FullPath(),
			"status":            c.Writer.Status(),
			"status_transition": c.GetString(StatusTransitionKey),
			"duration_ms":       float64(latency.Microseconds()) / 1000.0,
			"user_id":           c.GetString(userIDKey),
			"role":              c.GetString(userRoleKey),
			"client_ip":         c.ClientIP(),
			"user_agent":        c.Request.UserAgent(),
		}
		for key, field := range map[string]string{
			JobIDKey:         "job_id",
			ApplicationIDKey: "application_id",
			InterviewIDKey:   "interview_id",
		} {
			if v := c.GetString(key); v != "" {
				fields[field] = v
			}
		}
		if internal := c.GetString("internalError"); internal != "" {
			fields["error"] = internal
		}
		telemetry.Info("request.complete", fields)
	}
}
