package users

import (
	"errors"
	"net/http"

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
	g := rg.Group("/auth")
	g.POST("/register", h.register)
	g.POST("/verify-otp", h.verifyOTP)
	g.POST("/resend-otp", h.resendOTP)
	g.POST("/login", h.login)
	g.POST("/refresh-token", h.refresh)
	g.GET("/me", h.me)
	g.PUT("/profile", h.updateProfile)
	g.GET("/users", middleware.RequireRole(auth.RoleHR), h.listUsers)
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "name, email, password and role are required")
		return
	}
	user, err := h.Svc.Register(c.Request.Context(), RegisterInput(req))
	if err != nil {
		respond.Err(c, err)
		return
	}
	respond.Created(c, gin.H{
		"message": "Registration successful. Please check your email for the verification code.",
		"userId":  user.ID,
		"email":   user.Email,
	})
}

func (h *Handler) verifyOTP(c *gin.Context) {
	var req verifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "email and otp are required")
		return
	}
	user, pair, err := h.Svc.VerifyOTP(c.Request.Context(), req.Email, req.OTP)
	if err != nil {
		respond.Err(c, err)
		return
	}
	respond.OK(c, gin.H{
		"message":      "Email verified successfully",
		"user":         user,
		"token":        pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	})
}

func (h *Handler) resendOTP(c *gin.Context) {
	var req emailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "email is required")
		return
	}
	if err := h.Svc.ResendOTP(c.Request.Context(), req.Email); err != nil {
		respond.Err(c, err)
		return
	}
	respond.OK(c, gin.H{"message": "Verification code sent"})
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "email and password are required")
		return
	}
	user, pair, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if errors.Is(err, ErrEmailNotVerified) {
		respond.Error(c, http.StatusForbidden, "email_not_verified", err.Error(), gin.H{
			"requiresVerification": true,
			"email":                user.Email,
		})
		return
	}
	if err != nil {
		respond.Err(c, err)
		return
	}
	respond.OK(c, gin.H{
		"user":         user,
		"token":        pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	})
}

func (h *Handler) refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "refreshToken is required")
		return
	}
	pair, err := h.Svc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respond.Err(c, err)
		return
	}
	respond.OK(c, gin.H{
		"token":        pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	})
}

func (h *Handler) me(c *gin.Context) {
	user, err := h.Svc.GetByID(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		respond.Err(c, err)
		return
	}
	respond.OK(c, gin.H{"user": user})
}

func (h *Handler) updateProfile(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "invalid profile payload")
		return
	}
	user, err := h.Svc.UpdateProfile(c.Request.Context(), middleware.ActorFromContext(c), ProfileUpdate(req))
	if err != nil {
		respond.Err(c, err)
		return
	}
	respond.OK(c, gin.H{"user": user})
}

func (h *Handler) listUsers(c *gin.Context) {
	list, err := h.Svc.ListByRole(c.Request.Context(), middleware.ActorFromContext(c), c.Query("role"))
	if err != nil {
		respond.Err(c, err)
		return
	}
	respond.OK(c, gin.H{"count": len(list), "users": list})
}
