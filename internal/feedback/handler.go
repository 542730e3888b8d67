package feedback

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
	interviewer := middleware.RequireRole(auth.RoleInterviewer)
	rg.POST("/feedback", interviewer, h.submit)
	rg.GET("/feedback/my-feedback", interviewer, h.mine)
	rg.GET("/feedback/application/:applicationId", h.forApplication)
}

func (h *Handler) submit(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "invalid feedback payload")
		return
	}
	c.Set(middleware.ApplicationIDKey, req.Application)
	c.Set(middleware.InterviewIDKey, req.Interview)
	fb, err := h.Svc.Submit(c.Request.Context(), middleware.ActorFromContext(c), SubmitInput{
		ApplicationID:       req.Application,
		InterviewID:         req.Interview,
		TechnicalSkills:     req.TechnicalSkills,
		CommunicationSkills: req.CommunicationSkills,
		ProblemSolving:      req.ProblemSolving,
		CultureFit:          req.CultureFit,
		OverallRating:       req.OverallRating,
		Comments:            req.Comments,
		Recommendation:      req.Recommendation,
	})
	if err != nil {
		respond.Err(c, err)
		return
	}
	respond.Created(c, gin.H{"message": "Feedback submitted successfully", "feedback": fb})
}

func (h *Handler) forApplication(c *gin.Context) {
	c.Set(middleware.ApplicationIDKey, c.Param("applicationId"))
	list, err := h.Svc.ForApplication(c.Request.Context(), middleware.ActorFromContext(c), c.Param("applicationId"))
	if err != nil {
		respond.Err(c, err)
		return
	}
	respond.OK(c, gin.H{"count": len(list), "feedback": list})
}

func (h *Handler) mine(c *gin.Context) {
	list, err := h.Svc.Mine(c.Request.Context(), middleware.ActorFromContext(c))
	if err != nil {
		respond.Err(c, err)
		return
	}
	respond.OK(c, gin.H{"count": len(list), "feedback": list})
}
