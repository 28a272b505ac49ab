package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chytanka/chytanka-backend/internal/logger"
	"github.com/chytanka/chytanka-backend/internal/services"
)

type SessionHandler struct {
	sessions services.SessionService
	log      *logger.Logger
}

func NewSessionHandler(sessions services.SessionService, log *logger.Logger) *SessionHandler {
	return &SessionHandler{
		sessions: sessions,
		log:      log.With("handler", "SessionHandler"),
	}
}

// Start opens a reading session. Safe to retry with the same
// client_session_id.
func (h *SessionHandler) Start(c *gin.Context) {
	var req services.StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "client_session_id and language are required")
		return
	}
	if _, ok := parseLanguage(string(req.Language)); !ok {
		RespondError(c, http.StatusBadRequest, "language must be ru or uk")
		return
	}
	row, err := h.sessions.Start(c.Request.Context(), req)
	if err != nil {
		h.log.Error("Session start failed", "error", err)
		RespondError(c, http.StatusInternalServerError, "could not start session")
		return
	}
	RespondOK(c, http.StatusOK, gin.H{
		"session_id": row.ID,
		"start_ts":   row.StartTS,
	})
}

// End closes a session with the client's telemetry summary and returns
// the updated public profile.
func (h *SessionHandler) End(c *gin.Context) {
	var req services.EndSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "client_session_id and language are required")
		return
	}
	if _, ok := parseLanguage(string(req.Language)); !ok {
		RespondError(c, http.StatusBadRequest, "language must be ru or uk")
		return
	}
	profile, err := h.sessions.End(c.Request.Context(), req)
	if err != nil {
		h.log.Error("Session end failed", "error", err)
		RespondError(c, http.StatusInternalServerError, "could not end session")
		return
	}
	RespondOK(c, http.StatusOK, gin.H{"profile": profile})
}
