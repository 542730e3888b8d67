package interviews

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

// RegisterRoutes attaches interview routes. The applicants listing lives with
// the application ledger.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	hr := middleware.RequireRole(auth.RoleHR)
	rg.POST("/interviews", hr, h.create)
	rg.GET("/interviews", h.list)
	rg.GET("/interviews/my-interviews", middleware.RequireRole(auth.RoleInterviewer), h.mine)
	rg.GET("/interviews/:id", h.get)
	rg.PUT("/interviews/:id", hr, h.update)
	rg.DELETE("/interviews/:id", hr, h.delete)
}

func (h *Handler) create(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "job is required")
		return
	}
	c.Set(middleware.JobIDKey, req.Job)
	iv, err := h.Svc.Create(c.Request.Context(), middleware.ActorFromContext(c), CreateInput{
		JobID:        req.Job,
		Interviewers: req.Interviewers,
		Date:         req.Date,
		Time:         req.Time,
		Mode:         req.Mode,
		MeetingLink:  req.MeetingLink,
		Location:     req.Location,
		Notes:        req.Notes,
	})
	if err != nil {
		respond.Err(c, err)
		return
	}
	c.Set(middleware.InterviewIDKey, iv.ID)
	respond.Created(c, gin.H{"message": "Interview scheduled successfully", "interview": iv})
}

func (h *Handler) list(c *gin.Context) {
	list, err := h.Svc.List(c.Request.Context(), middleware.ActorFromContext(c))
	if err != nil {
		respond.Err(c, err)
		return
	}
	respond.OK(c, gin.H{"count": len(list), "interviews": list})
}

func (h *Handler) mine(c *gin.Context) {
	list, err := h.Svc.Mine(c.Request.Context(), middleware.ActorFromContext(c))
	if err != nil {
		respond.Err(c, err)
		return
	}
	respond.OK(c, gin.H{"count": len(list), "interviews": list})
}

func (h *Handler) get(c *gin.Context) {
	c.Set(middleware.InterviewIDKey, c.Param("id"))
	iv, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respond.Err(c, err)
		return
	}
	respond.OK(c, gin.H{"interview": iv})
}

func (h *Handler) update(c *gin.Context) {
	c.Set(middleware.InterviewIDKey, c.Param("id"))
	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "invalid interview payload")
		return
	}
	iv, err := h.Svc.Update(c.Request.Context(), middleware.ActorFromContext(c), c.Param("id"), UpdateInput(req))
	if err != nil {
		respond.Err(c, err)
		return
	}
	respond.OK(c, gin.H{"message": "Interview updated successfully", "interview": iv})
}

func (h *Handler) delete(c *gin.Context) {
	c.Set(middleware.InterviewIDKey, c.Param("id"))
	if err := h.Svc.Delete(c.Request.Context(), middleware.ActorFromContext(c), c.Param("id")); err != nil {
		respond.Err(c, err)
		return
	}
	respond.OK(c, gin.H{"message": "Interview cancelled successfully"})
}
