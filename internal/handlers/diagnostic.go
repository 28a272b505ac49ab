package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/chytanka/chytanka-backend/internal/logger"
	"github.com/chytanka/chytanka-backend/internal/services"
)

type DiagnosticHandler struct {
	diagnostics services.DiagnosticService
	log         *logger.Logger
}

func NewDiagnosticHandler(diagnostics services.DiagnosticService, log *logger.Logger) *DiagnosticHandler {
	return &DiagnosticHandler{
		diagnostics: diagnostics,
		log:         log.With("handler", "DiagnosticHandler"),
	}
}

type startRunRequest struct {
	Token string `json:"token" binding:"required"`
}

// Start redeems a diagnostic link token and opens a run.
func (h *DiagnosticHandler) Start(c *gin.Context) {
	var req startRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "token is required")
		return
	}
	resp, err := h.diagnostics.StartRun(c.Request.Context(), req.Token)
	if err != nil {
		if errors.Is(err, services.ErrInvalidToken) {
			RespondError(c, http.StatusUnauthorized, "invalid or expired diagnostic link")
			return
		}
		h.log.Error("Diagnostic start failed", "error", err)
		RespondError(c, http.StatusInternalServerError, "could not start diagnostic")
		return
	}
	RespondOK(c, http.StatusOK, resp)
}

// Texts serves the next passage for a pending run: nearest unused text
// to the target difficulty, quiz truncated to the diagnostic length.
func (h *DiagnosticHandler) Texts(c *gin.Context) {
	runID, err := uuid.Parse(c.Query("run_id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "run_id must be a uuid")
		return
	}
	language, ok := parseLanguage(c.Query("language"))
	if !ok {
		RespondError(c, http.StatusBadRequest, "language must be ru or uk")
		return
	}
	target := queryFloat(c, "target", 25)
	var usedIDs []string
	if raw := c.Query("used"); raw != "" {
		usedIDs = strings.Split(raw, ",")
	}

	text, err := h.diagnostics.TextForRun(c.Request.Context(), runID, language, target, usedIDs)
	if err != nil {
		if errors.Is(err, services.ErrInvalidToken) {
			RespondError(c, http.StatusUnauthorized, "run is not active")
			return
		}
		h.log.Error("Diagnostic text failed", "run_id", runID, "error", err)
		RespondError(c, http.StatusInternalServerError, "could not pick text")
		return
	}
	if text == nil {
		RespondError(c, http.StatusNotFound, "no texts available")
		return
	}
	RespondOK(c, http.StatusOK, text)
}

// Complete closes a run with the full per-language passage reports.
func (h *DiagnosticHandler) Complete(c *gin.Context) {
	var req services.CompleteRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "run_id and passages are required")
		return
	}
	resp, err := h.diagnostics.CompleteRun(c.Request.Context(), req)
	if err != nil {
		h.log.Error("Diagnostic complete failed", "run_id", req.RunID, "error", err)
		RespondError(c, http.StatusInternalServerError, "could not complete diagnostic")
		return
	}
	RespondOK(c, http.StatusOK, resp)
}
