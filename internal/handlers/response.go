package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/chytanka/chytanka-backend/internal/adaptive"
)

// RespondOK writes the success envelope.
func RespondOK(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{"data": data})
}

// RespondError writes the error envelope.
func RespondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// parseLanguage validates a client-supplied language code.
func parseLanguage(raw string) (adaptive.Language, bool) {
	switch adaptive.Language(raw) {
	case adaptive.LanguageRU:
		return adaptive.LanguageRU, true
	case adaptive.LanguageUK:
		return adaptive.LanguageUK, true
	}
	return "", false
}
