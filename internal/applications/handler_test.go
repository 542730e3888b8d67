package applications

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"interviewhub/internal/resumes"
	"interviewhub/internal/shared/auth"
	"interviewhub/internal/shared/server/middleware"
	"interviewhub/internal/shared/storage/object/local"
)

func newTestRouter(t *testing.T, f fixture) (*gin.Engine, *auth.Tokens) {
	t.Helper()
	tokens, err := auth.NewTokens(auth.TokenConfig{Env: "test"})
	if err != nil {
		t.Fatalf("tokens: %v", err)
	}
	resumeSvc := resumes.NewService(local.New(t.TempDir()), 0)
	f.svc.Resumes = resumeSvc

	gin.SetMode(gin.TestMode)
	router := gin.New()
	api := router.Group("/api/v1")
	api.Use(middleware.Auth(tokens))
	NewHandler(f.svc, resumeSvc).RegisterRoutes(api)
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

func docxBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("zip: %v", err)
	}
	_, _ = w.Write([]byte(`<w:document><w:body><w:p><w:r><w:t>Ana</w:t></w:r></w:p></w:body></w:document>`))
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return buf.Bytes()
}

func applicationForm(t *testing.T, jobID string, resume []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	_ = mw.WriteField("job", jobID)
	_ = mw.WriteField("coverLetter", "I like Go")
	if resume != nil {
		fw, err := mw.CreateFormFile("resume", "ana.docx")
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		_, _ = fw.Write(resume)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("multipart close: %v", err)
	}
	return body, mw.FormDataContentType()
}

func TestHandlerSubmitAndDownloadResume(t *testing.T) {
	f := newFixture()
	router, tokens := newTestRouter(t, f)
	resume := docxBytes(t)

	body, contentType := applicationForm(t, "job-1", resume)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/applications", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", bearer(t, tokens, studentA))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var created struct {
		Success     bool        `json:"success"`
		Application Application `json:"application"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !created.Success || created.Application.Status != StatusApplied {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
	if created.Application.Resume.ContentType != resumes.MimeDOCX {
		t.Fatalf("unexpected resume: %+v", created.Application.Resume)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/applications/"+created.Application.ID+"/resume", nil)
	req.Header.Set("Authorization", bearer(t, tokens, hrActor))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if cd := rec.Header().Get("Content-Disposition"); cd != `attachment; filename="ana.docx"` {
		t.Fatalf("unexpected content disposition %q", cd)
	}
	if !bytes.Equal(rec.Body.Bytes(), resume) {
		t.Fatalf("downloaded resume differs")
	}
}

func TestHandlerSubmitWithoutResume(t *testing.T) {
	f := newFixture()
	router, tokens := newTestRouter(t, f)

	body, contentType := applicationForm(t, "job-1", nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/applications", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", bearer(t, tokens, studentA))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "Please upload a resume") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestHandlerSubmitTwiceIsRejected(t *testing.T) {
	f := newFixture()
	router, tokens := newTestRouter(t, f)
	resume := docxBytes(t)

	codes := []int{}
	for i := 0; i < 2; i++ {
		body, contentType := applicationForm(t, "job-1", resume)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/applications", body)
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Authorization", bearer(t, tokens, studentA))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	if codes[0] != http.StatusCreated || codes[1] != http.StatusBadRequest {
		t.Fatalf("unexpected status codes: %v", codes)
	}
}

func TestHandlerUpdateStatusRequiresHR(t *testing.T) {
	f := newFixture()
	router, tokens := newTestRouter(t, f)
	app := f.submit(t, studentA, "job-1")

	req := httptest.NewRequest(http.MethodPut, "/api/v1/applications/"+app.ID+"/status", strings.NewReader(`{"status":"Selected"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearer(t, tokens, studentA))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPut, "/api/v1/applications/"+app.ID+"/status", strings.NewReader(`{"status":"Selected"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearer(t, tokens, hrActor))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestHandlerInterviewApplicants(t *testing.T) {
	f := newFixture()
	router, tokens := newTestRouter(t, f)
	f.submit(t, studentA, "job-1")
	iv := f.schedule(t, "job-1", "iv-x")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/interviews/"+iv.ID+"/applicants", nil)
	req.Header.Set("Authorization", bearer(t, tokens, ivActor))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var payload struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Count != 1 {
		t.Fatalf("expected 1 applicant, got %d", payload.Count)
	}
}

func TestHandlerRetriedClaimKeepsResume(t *testing.T) {
	f := newFixture()
	router, tokens := newTestRouter(t, f)
	store := f.svc.Resumes.(*resumes.Service).Store
	content := "%PDF-1.4\n%%EOF\n"
	obj, err := store.Save(context.Background(), studentA.ID, "cv.pdf", resumes.MimePDF, strings.NewReader(content))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	payload := `{"job":"job-1","resumeKey":"` + obj.Key + `","resumeFileName":"cv.pdf"}`

	var firstID string
	for i, want := range []int{http.StatusCreated, http.StatusBadRequest} {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/applications", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", bearer(t, tokens, studentA))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != want {
			t.Fatalf("submit %d: expected %d, got %d: %s", i, want, rec.Code, rec.Body.String())
		}
		if i == 0 {
			var created struct {
				Application Application `json:"application"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
				t.Fatalf("decode: %v", err)
			}
			firstID = created.Application.ID
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/applications/"+firstID+"/resume", nil)
	req.Header.Set("Authorization", bearer(t, tokens, hrActor))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected resume to survive the retry, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec.Body.String() != content {
		t.Fatalf("downloaded resume differs")
	}
}
