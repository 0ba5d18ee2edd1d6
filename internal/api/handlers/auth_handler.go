package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/swiftride/backend/internal/api/dto"
	"github.com/swiftride/backend/internal/service/auth"
)

// Register handles POST /v1/auth/register
func (h *Handlers) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	u, err := h.Auth.Register(c.Request.Context(), auth.RegisterParams{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.Monitoring.RecordOTPSent()

	c.JSON(http.StatusCreated, dto.SuccessResponse{
		Message: "Registered. Check your email for the verification code.",
		Data:    gin.H{"user_id": u.ID, "email": u.Email},
	})
}

// SendOTP handles POST /v1/auth/otp/send
func (h *Handlers) SendOTP(c *gin.Context) {
	var req dto.SendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	if err := h.Auth.SendOTP(c.Request.Context(), req.Email); err != nil {
		h.respondError(c, err)
		return
	}

	h.Monitoring.RecordOTPSent()

	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "OTP sent"})
}

// VerifyOTP handles POST /v1/auth/otp/verify
func (h *Handlers) VerifyOTP(c *gin.Context) {
	var req dto.VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	if err := h.Auth.VerifyOTP(c.Request.Context(), req.Email, req.OTP); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "Email verified"})
}

// Login handles POST /v1/auth/login
func (h *Handlers) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	session, err := h.Auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":      session.Token,
		"expires_at": session.ExpiresAt,
		"user": gin.H{
			"id":    session.User.ID,
			"name":  session.User.Name,
			"email": session.User.Email,
		},
	})
}
