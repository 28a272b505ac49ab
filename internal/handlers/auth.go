package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/chytanka/chytanka-backend/internal/logger"
	"github.com/chytanka/chytanka-backend/internal/services"
)

type AuthHandler struct {
	auth services.AuthService
	log  *logger.Logger
}

func NewAuthHandler(auth services.AuthService, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		auth: auth,
		log:  log.With("handler", "AuthHandler"),
	}
}

type loginRequest struct {
	PIN string `json:"pin" binding:"required"`
}

// Login exchanges the parent PIN for a session token. The client IP keys
// the attempt limiter.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "pin is required")
		return
	}
	token, err := h.auth.LoginWithPIN(req.PIN, c.ClientIP())
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTooManyAttempts):
			RespondError(c, http.StatusTooManyRequests, "too many attempts, try again later")
		case errors.Is(err, services.ErrInvalidPIN):
			RespondError(c, http.StatusUnauthorized, "invalid pin")
		default:
			h.log.Error("Login failed", "error", err)
			RespondError(c, http.StatusInternalServerError, "login failed")
		}
		return
	}
	RespondOK(c, http.StatusOK, gin.H{"token": token})
}

// CreateDiagnosticLink mints a single-use token for a diagnostic run on
// another device. Parent-gated.
func (h *AuthHandler) CreateDiagnosticLink(c *gin.Context) {
	token, expiresAt := h.auth.CreateDiagnosticLink()
	RespondOK(c, http.StatusOK, gin.H{
		"token":      token,
		"expires_at": expiresAt.UTC().Format(time.RFC3339),
	})
}
