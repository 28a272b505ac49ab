package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chytanka/chytanka-backend/internal/logger"
	"github.com/chytanka/chytanka-backend/internal/services"
)

type ProfileHandler struct {
	profiles services.ProfileService
	log      *logger.Logger
}

func NewProfileHandler(profiles services.ProfileService, log *logger.Logger) *ProfileHandler {
	return &ProfileHandler{
		profiles: profiles,
		log:      log.With("handler", "ProfileHandler"),
	}
}

// GetProfile returns the public profile for one language, creating it
// with defaults on first access.
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	language, ok := parseLanguage(c.Param("language"))
	if !ok {
		RespondError(c, http.StatusBadRequest, "language must be ru or uk")
		return
	}
	profile, err := h.profiles.GetProfile(c.Request.Context(), language)
	if err != nil {
		h.log.Error("Profile load failed", "language", language, "error", err)
		RespondError(c, http.StatusInternalServerError, "could not load profile")
		return
	}
	RespondOK(c, http.StatusOK, profile.Public())
}

// Export returns both language profiles in one parent-facing snapshot.
func (h *ProfileHandler) Export(c *gin.Context) {
	export, err := h.profiles.Export(c.Request.Context())
	if err != nil {
		h.log.Error("Profile export failed", "error", err)
		RespondError(c, http.StatusInternalServerError, "could not export profiles")
		return
	}
	RespondOK(c, http.StatusOK, export)
}
