package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/chytanka/chytanka-backend/internal/handlers"
	"github.com/chytanka/chytanka-backend/internal/logger"
	"github.com/chytanka/chytanka-backend/internal/middleware"
	"github.com/chytanka/chytanka-backend/internal/services"
	"github.com/chytanka/chytanka-backend/internal/utils"
)

// RouterConfig carries everything the route table needs.
type RouterConfig struct {
	Log               *logger.Logger
	Auth              services.AuthService
	AuthHandler       *handlers.AuthHandler
	ProfileHandler    *handlers.ProfileHandler
	SessionHandler    *handlers.SessionHandler
	TextHandler       *handlers.TextHandler
	DiagnosticHandler *handlers.DiagnosticHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	allowedOrigins := utils.GetEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173", cfg.Log)
	router.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Split(allowedOrigins, ","),
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/healthcheck", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	{
		api.POST("/auth/login", cfg.AuthHandler.Login)

		api.POST("/session/start", cfg.SessionHandler.Start)
		api.POST("/session/end", cfg.SessionHandler.End)

		api.GET("/profile/:language", cfg.ProfileHandler.GetProfile)

		api.GET("/texts", cfg.TextHandler.List)
		api.GET("/texts/next", cfg.TextHandler.Next)

		api.POST("/diagnostic/start", cfg.DiagnosticHandler.Start)
		api.GET("/diagnostic/texts", cfg.DiagnosticHandler.Texts)
		api.POST("/diagnostic/complete", cfg.DiagnosticHandler.Complete)

		parent := api.Group("")
		parent.Use(middleware.ParentAuth(cfg.Auth, cfg.Log))
		{
			parent.GET("/profile/export", cfg.ProfileHandler.Export)
			parent.POST("/diagnostic/link", cfg.AuthHandler.CreateDiagnosticLink)
		}
	}

	return router
}
