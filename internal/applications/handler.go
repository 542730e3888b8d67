package applications

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"interviewhub/internal/resumes"
	"interviewhub/internal/shared/auth"
	"interviewhub/internal/shared/server/middleware"
	"interviewhub/internal/shared/server/respond"
)

// multipart overhead allowed on top of the resume size limit
const formSlack = 1 << 20

type Handler struct {
	Svc     *Service
	Resumes *resumes.Service
}

func NewHandler(svc *Service, resumeSvc *resumes.Service) *Handler {
	return &Handler{Svc: svc, Resumes: resumeSvc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	hr := middleware.RequireRole(auth.RoleHR)
	student := middleware.RequireRole(auth.RoleStudent)
	rg.POST("/applications", student, h.submit)
	rg.GET("/applications/my-applications", student, h.mine)
	rg.GET("/applications/job/:jobId", hr, h.forJob)
	rg.GET("/applications/:id", h.get)
	rg.GET("/applications/:id/resume", middleware.RequireRole(auth.RoleHR, auth.RoleStudent), h.resume)
	rg.PUT("/applications/:id/status", hr, h.updateStatus)
	rg.PUT("/applications/:id/assign-interview", hr, h.assignInterview)
	rg.GET("/interviews/:id/applicants", middleware.RequireRole(auth.RoleHR, auth.RoleInterviewer), h.forInterview)
}

func (h *Handler) submit(c *gin.Context) {
	actor := middleware.ActorFromContext(c)
	ctx := c.Request.Context()

	var req submitRequest
	var artifact *resumes.Artifact
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.Resumes.MaxBytes+formSlack)
		if err := c.ShouldBind(&req); err != nil {
			formError(c, err)
			return
		}
		fileHeader, err := c.FormFile("resume")
		switch {
		case err == nil:
			file, err := fileHeader.Open()
			if err != nil {
				respond.BadRequest(c, "unable to read resume")
				return
			}
			defer file.Close()
			uploaded, err := h.Resumes.Upload(ctx, actor, fileHeader.Filename, fileHeader.Header.Get("Content-Type"), file)
			if err != nil {
				respond.Err(c, err)
				return
			}
			artifact = &uploaded
		case errors.Is(err, http.ErrMissingFile):
		default:
			formError(c, err)
			return
		}
	} else if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "invalid application payload")
		return
	}

	if artifact == nil && strings.TrimSpace(req.ResumeKey) != "" {
		claimed, err := h.Resumes.Claim(ctx, actor, req.ResumeKey, req.ResumeFileName)
		if err != nil {
			respond.Err(c, err)
			return
		}
		artifact = &claimed
	}

	c.Set(middleware.JobIDKey, req.Job)
	app, err := h.Svc.Submit(ctx, actor, SubmitInput{
		JobID:       req.Job,
		Resume:      artifact,
		CoverLetter: req.CoverLetter,
	})
	if err != nil {
		respond.Err(c, err)
		return
	}
	c.Set(middleware.ApplicationIDKey, app.ID)
	respond.Created(c, gin.H{"message": "Application submitted successfully", "application": app})
}

func (h *Handler) mine(c *gin.Context) {
	list, err := h.Svc.Mine(c.Request.Context(), middleware.ActorFromContext(c))
	if err != nil {
		respond.Err(c, err)
		return
	}
	respond.OK(c, gin.H{"count": len(list), "applications": list})
}

func (h *Handler) forJob(c *gin.Context) {
	c.Set(middleware.JobIDKey, c.Param("jobId"))
	list, err := h.Svc.ForJob(c.Request.Context(), middleware.ActorFromContext(c), c.Param("jobId"), c.Query("status"))
	if err != nil {
		respond.Err(c, err)
		return
	}
	respond.OK(c, gin.H{"count": len(list), "applications": list})
}

func (h *Handler) get(c *gin.Context) {
	c.Set(middleware.ApplicationIDKey, c.Param("id"))
	app, err := h.Svc.Get(c.Request.Context(), middleware.ActorFromContext(c), c.Param("id"))
	if err != nil {
		respond.Err(c, err)
		return
	}
	respond.OK(c, gin.H{"application": app})
}

func (h *Handler) resume(c *gin.Context) {
	c.Set(middleware.ApplicationIDKey, c.Param("id"))
	artifact, err := h.Svc.Resume(c.Request.Context(), middleware.ActorFromContext(c), c.Param("id"))
	if err != nil {
		respond.Err(c, err)
		return
	}
	reader, err := h.Resumes.Open(c.Request.Context(), artifact.Key)
	if err != nil {
		respond.Err(c, err)
		return
	}
	defer reader.Close()

	c.Header("Content-Type", artifact.ContentType)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", artifact.FileName))
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, reader)
}

func (h *Handler) updateStatus(c *gin.Context) {
	c.Set(middleware.ApplicationIDKey, c.Param("id"))
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "invalid status payload")
		return
	}
	change, err := h.Svc.UpdateStatus(c.Request.Context(), middleware.ActorFromContext(c), c.Param("id"), StatusInput(req))
	if err != nil {
		respond.Err(c, err)
		return
	}
	h.transitioned(c, change)
	respond.OK(c, gin.H{"message": "Application status updated successfully", "application": change.Application})
}

func (h *Handler) assignInterview(c *gin.Context) {
	c.Set(middleware.ApplicationIDKey, c.Param("id"))
	var req assignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "invalid assignment payload")
		return
	}
	change, err := h.Svc.AssignInterview(c.Request.Context(), middleware.ActorFromContext(c), c.Param("id"), req.InterviewID)
	if err != nil {
		respond.Err(c, err)
		return
	}
	h.transitioned(c, change)
	respond.OK(c, gin.H{"message": "Interview assigned successfully", "application": change.Application})
}

func (h *Handler) forInterview(c *gin.Context) {
	c.Set(middleware.InterviewIDKey, c.Param("id"))
	iv, list, err := h.Svc.ForInterview(c.Request.Context(), middleware.ActorFromContext(c), c.Param("id"))
	if err != nil {
		respond.Err(c, err)
		return
	}
	respond.OK(c, gin.H{"count": len(list), "applications": list, "interview": iv})
}

func (h *Handler) transitioned(c *gin.Context, change StatusChange) {
	c.Set(middleware.StatusTransitionKey, fmt.Sprintf("%s->%s", change.From, change.Application.Status))
	if change.Application.InterviewID != "" {
		c.Set(middleware.InterviewIDKey, change.Application.InterviewID)
	}
}

func formError(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		respond.Err(c, resumes.ErrTooLarge)
		return
	}
	respond.BadRequest(c, "invalid application payload")
}
