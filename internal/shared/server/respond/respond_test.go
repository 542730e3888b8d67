package respond

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"interviewhub/internal/shared/errs"
)

func TestErrMapsKinds(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", errs.NotFound("job not found"), http.StatusNotFound, "not_found"},
		{"conflict", fmt.Errorf("submit: %w", errs.Conflict("already applied")), http.StatusBadRequest, "conflict"},
		{"invalid", errs.Invalid("bad status"), http.StatusBadRequest, "validation_error"},
		{"forbidden", errs.Forbidden("not yours"), http.StatusForbidden, "forbidden"},
		{"unauthorized", errs.Unauthorized("login"), http.StatusUnauthorized, "unauthorized"},
		{"internal", fmt.Errorf("db down"), http.StatusInternalServerError, "internal"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)
			c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)

			Err(c, tc.err)

			if rec.Code != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, rec.Code)
			}
			var body ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Success || body.Code != tc.code {
				t.Fatalf("unexpected body: %+v", body)
			}
			if tc.status == http.StatusInternalServerError && body.Message != "Unexpected server error" {
				t.Fatalf("internal message leaked: %q", body.Message)
			}
		})
	}
}

func TestOKAddsSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	OK(c, gin.H{"count": 2})

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["success"] != true || body["count"] != float64(2) {
		t.Fatalf("unexpected body: %v", body)
	}
}
