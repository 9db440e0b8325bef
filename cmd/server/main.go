package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/playsnooker/backend/internal/api"
	"github.com/playsnooker/backend/internal/config"
	"github.com/playsnooker/backend/internal/game"
	"github.com/playsnooker/backend/internal/physics"
	"github.com/playsnooker/backend/internal/ws"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Initialize configuration
	cfg := config.Load()

	// Initialize the session manager with the Chipmunk-backed physics engine
	game.InitializeManager(cfg, func(geom *game.Geometry) game.Physics {
		return physics.NewSpace(geom)
	})
	game.Manager.StartJanitor(context.Background())

	// Wire config into the WS layer
	ws.SetConfig(cfg)

	// Set up Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	api.SetupRoutes(router, cfg)

	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting PlaySnooker server on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
