package jobs

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"interviewhub/internal/shared/auth"
	"interviewhub/internal/shared/server/middleware"
)

func newTestRouter(t *testing.T, svc *Service) (*gin.Engine, *auth.Tokens) {
	t.Helper()
	tokens, err := auth.NewTokens(auth.TokenConfig{Env: "test"})
	if err != nil {
		t.Fatalf("tokens: %v", err)
	}
	gin.SetMode(gin.TestMode)
	router := gin.New()
	api := router.Group("/api/v1")
	api.Use(middleware.Auth(tokens))
	NewHandler(svc).RegisterRoutes(api)
	return router, tokens
}

func bearer(t *testing.T, tokens *auth.Tokens, actor auth.Actor) string {
	t.Helper()
	pair, err := tokens.Issue(auth.Subject{ID: actor.ID, Role: actor.Role})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	return "Bearer " + pair.AccessToken
}

func TestHandlerCreateAndFetch(t *testing.T) {
	svc := newTestService()
	router, tokens := newTestRouter(t, svc)

	body, _ := json.Marshal(gin.H{"title": "Engineer", "description": "Go", "company": "Acme"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/jobs", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearer(t, tokens, hrActor))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var created struct {
		Success bool `json:"success"`
		Job     Job  `json:"job"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !created.Success || created.Job.ID == "" {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/jobs/"+created.Job.ID, nil)
	req.Header.Set("Authorization", bearer(t, tokens, studentActor))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestHandlerStudentCannotCreate(t *testing.T) {
	svc := newTestService()
	router, tokens := newTestRouter(t, svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/jobs", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Authorization", bearer(t, tokens, studentActor))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestHandlerUpdateByOtherHRIsForbidden(t *testing.T) {
	svc := newTestService()
	router, tokens := newTestRouter(t, svc)
	job := createJob(t, svc, hrActor, "Engineer", "Acme", "", "")

	req := httptest.NewRequest(http.MethodPut, "/api/v1/jobs/"+job.ID, bytes.NewReader([]byte(`{"title":"New"}`)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearer(t, tokens, otherHR))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestHandlerMissingJob(t *testing.T) {
	svc := newTestService()
	router, tokens := newTestRouter(t, svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs/nope", nil)
	req.Header.Set("Authorization", bearer(t, tokens, studentActor))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
