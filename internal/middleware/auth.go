package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/chytanka/chytanka-backend/internal/logger"
	"github.com/chytanka/chytanka-backend/internal/services"
)

// ParentAuth guards parent-only routes with the JWT issued at PIN login.
// Expects "Authorization: Bearer <token>".
func ParentAuth(auth services.AuthService, log *logger.Logger) gin.HandlerFunc {
	scoped := log.With("middleware", "ParentAuth")
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		if err := auth.ValidateParentToken(token); err != nil {
			scoped.Debug("Rejected parent token", "path", c.FullPath())
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Next()
	}
}
