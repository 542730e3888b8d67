package jobs

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
	hr := middleware.RequireRole(auth.RoleHR)
	rg.GET("/jobs", h.search)
	rg.POST("/jobs", hr, h.create)
	rg.GET("/jobs/my-jobs", hr, h.mine)
	rg.GET("/jobs/:id", h.get)
	rg.PUT("/jobs/:id", hr, h.update)
	rg.DELETE("/jobs/:id", hr, h.delete)
}

func (h *Handler) create(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "invalid job payload")
		return
	}
	job, err := h.Svc.Create(c.Request.Context(), middleware.ActorFromContext(c), CreateInput(req))
	if err != nil {
		respond.Err(c, err)
		return
	}
	c.Set(middleware.JobIDKey, job.ID)
	respond.Created(c, gin.H{"message": "Job created successfully", "job": job})
}

func (h *Handler) search(c *gin.Context) {
	list, err := h.Svc.Search(c.Request.Context(), SearchInput{
		Search:   c.Query("search"),
		Type:     c.Query("type"),
		Location: c.Query("location"),
	})
	if err != nil {
		respond.Err(c, err)
		return
	}
	respond.OK(c, gin.H{"count": len(list), "jobs": list})
}

func (h *Handler) mine(c *gin.Context) {
	list, err := h.Svc.Mine(c.Request.Context(), middleware.ActorFromContext(c))
	if err != nil {
		respond.Err(c, err)
		return
	}
	respond.OK(c, gin.H{"count": len(list), "jobs": list})
}

func (h *Handler) get(c *gin.Context) {
	c.Set(middleware.JobIDKey, c.Param("id"))
	job, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respond.Err(c, err)
		return
	}
	respond.OK(c, gin.H{"job": job})
}

func (h *Handler) update(c *gin.Context) {
	c.Set(middleware.JobIDKey, c.Param("id"))
	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "invalid job payload")
		return
	}
	job, err := h.Svc.Update(c.Request.Context(), middleware.ActorFromContext(c), c.Param("id"), UpdateInput(req))
	if err != nil {
		respond.Err(c, err)
		return
	}
	respond.OK(c, gin.H{"message": "Job updated successfully", "job": job})
}

func (h *Handler) delete(c *gin.Context) {
	c.Set(middleware.JobIDKey, c.Param("id"))
	if err := h.Svc.Delete(c.Request.Context(), middleware.ActorFromContext(c), c.Param("id")); err != nil {
		respond.Err(c, err)
		return
	}
	respond.OK(c, gin.H{"message": "Job deleted successfully"})
}
