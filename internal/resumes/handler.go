package resumes

import (
	"github.com/gin-gonic/gin"

	"interviewhub/internal/shared/auth"
	"interviewhub/internal/shared/server/middleware"
	"interviewhub/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/resumes/presign", middleware.RequireRole(auth.RoleStudent), h.presign)
}

type presignRequest struct {
	FileName    string `json:"fileName" binding:"required"`
	ContentType string `json:"contentType"`
	SizeBytes   int64  `json:"sizeBytes"`
}

func (h *Handler) presign(c *gin.Context) {
	var req presignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "fileName is required")
		return
	}
	upload, err := h.Svc.Presign(c.Request.Context(), middleware.ActorFromContext(c), req.FileName, req.ContentType, req.SizeBytes)
	if err != nil {
		respond.Err(c, err)
		return
	}
	respond.OK(c, gin.H{
		"uploadUrl":        upload.URL,
		"resumeKey":        upload.Key,
		"expiresInSeconds": int64(upload.ExpiresIn.Seconds()),
	})
}
