package api

import (
	"github.com/gin-gonic/gin"

	"github.com/playsnooker/backend/internal/api/handlers"
	"github.com/playsnooker/backend/internal/config"
	"github.com/playsnooker/backend/internal/middleware"
	"github.com/playsnooker/backend/internal/ws"
)

// SetupRoutes configures all API routes.
func SetupRoutes(router *gin.Engine, cfg *config.Config) {
	router.Use(middleware.CORSMiddleware(cfg))
	router.Use(middleware.WebSocketCORSCheck(cfg))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", handlers.HealthCheck)

		session := v1.Group("/session")
		{
			session.POST("", handlers.CreateSession(cfg))
			session.GET("/:token", handlers.GetSessionState)
			session.DELETE("/:token", handlers.CloseSession)
			session.GET("/:token/ws", ws.HandleWebSocket)
		}
	}
}
