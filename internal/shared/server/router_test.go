package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"interviewhub/internal/shared/auth"
	"interviewhub/internal/shared/config"
)

func TestRateGroup(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		method, path, want string
	}{
		{http.MethodPost, "/api/v1/auth/login", rateGroupAuth},
		{http.MethodPost, "/api/v1/applications", rateGroupUpload},
		{http.MethodPost, "/api/v1/resumes/presign", rateGroupUpload},
		{http.MethodPut, "/api/v1/applications/a1/status", rateGroupWrite},
		{http.MethodGet, "/api/v1/jobs", ""},
	}
	for _, tc := range cases {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(tc.method, tc.path, nil)
		if got := rateGroup(c); got != tc.want {
			t.Fatalf("%s %s: expected %q, got %q", tc.method, tc.path, tc.want, got)
		}
	}
}

func TestRouterServesHealthAndMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tokens, err := auth.NewTokens(auth.TokenConfig{Env: "test"})
	if err != nil {
		t.Fatalf("tokens: %v", err)
	}
	r := NewRouter(RouterDeps{Config: config.Config{Env: "test"}, Tokens: tokens})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"database":"memory"`) {
		t.Fatalf("unexpected health response %d: %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected metrics 200, got %d", rec.Code)
	}
}

func TestAddr(t *testing.T) {
	for in, want := range map[string]string{"": ":8080", "9000": ":9000", ":7000": ":7000"} {
		if got := Addr(in); got != want {
			t.Fatalf("Addr(%q) = %q, want %q", in, got, want)
		}
	}
}
