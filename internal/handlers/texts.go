package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/chytanka/chytanka-backend/internal/logger"
	"github.com/chytanka/chytanka-backend/internal/services"
)

type TextHandler struct {
	texts services.TextService
	log   *logger.Logger
}

func NewTextHandler(texts services.TextService, log *logger.Logger) *TextHandler {
	return &TextHandler{
		texts: texts,
		log:   log.With("handler", "TextHandler"),
	}
}

// List returns texts for a language within an optional difficulty range.
func (h *TextHandler) List(c *gin.Context) {
	language, ok := parseLanguage(c.Query("language"))
	if !ok {
		RespondError(c, http.StatusBadRequest, "language must be ru or uk")
		return
	}
	min := queryFloat(c, "min", 0)
	max := queryFloat(c, "max", 100)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	texts, err := h.texts.List(c.Request.Context(), language, min, max, limit)
	if err != nil {
		h.log.Error("Text list failed", "language", language, "error", err)
		RespondError(c, http.StatusInternalServerError, "could not list texts")
		return
	}
	RespondOK(c, http.StatusOK, gin.H{"texts": texts})
}

// Next returns the selector's pick for the learner's next session.
func (h *TextHandler) Next(c *gin.Context) {
	language, ok := parseLanguage(c.Query("language"))
	if !ok {
		RespondError(c, http.StatusBadRequest, "language must be ru or uk")
		return
	}
	text, err := h.texts.NextForSession(c.Request.Context(), language)
	if err != nil {
		h.log.Error("Next text failed", "language", language, "error", err)
		RespondError(c, http.StatusInternalServerError, "could not pick text")
		return
	}
	if text == nil {
		RespondError(c, http.StatusNotFound, "no texts available")
		return
	}
	RespondOK(c, http.StatusOK, text)
}

func queryFloat(c *gin.Context, key string, def float64) float64 {
	raw := c.Query(key)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return def
	}
	return v
}
