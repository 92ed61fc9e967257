package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"sumaichat/internal/config"
	"sumaichat/internal/handler"
	"sumaichat/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Print version info
	log.Printf("Sumai Chat Engine")
	log.Printf("Version: %s", Version)
	log.Printf("Build Time: %s", BuildTime)
	log.Printf("Git Commit: %s", GitCommit)
	log.Println("")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set Gin mode
	gin.SetMode(cfg.Server.GinMode)

	// Initialize outbound clients
	countClient := service.NewCountClient(&cfg.Count)
	assistantClient := service.NewAssistantClient(&cfg.Assistant)
	log.Printf("✅ Count service: %s", cfg.Count.BaseURL)
	log.Printf("✅ Assistant service: %s", cfg.Assistant.BaseURL)

	// Initialize services
	sessions := service.NewSessionStore()
	files := service.NewFileStore()
	orchestrator := service.NewOrchestrator(sessions, countClient, assistantClient)

	log.Println("✅ Services initialized")

	// Initialize handlers
	chatHandler := handler.NewChatHandler(orchestrator)
	sessionHandler := handler.NewSessionHandler(sessions)
	uploadHandler := handler.NewUploadHandler(files, sessions)

	// Setup Gin router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Server.AllowedOrigins}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Authorization"}
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":     "healthy",
			"service":    "sumai-chat-engine",
			"version":    Version,
			"build_time": BuildTime,
			"git_commit": GitCommit,
		})
	})

	// Version endpoint
	router.GET("/version", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"version":    Version,
			"build_time": BuildTime,
			"git_commit": GitCommit,
		})
	})

	// API routes
	apiV1 := router.Group("/api/v1")
	{
		// Turn processing
		apiV1.POST("/chat", chatHandler.Chat)

		// Session inspection
		apiV1.GET("/chat/:session_id/messages", sessionHandler.Messages)
		apiV1.GET("/chat/:session_id/state", sessionHandler.State)
		apiV1.PUT("/chat/:session_id/filters", sessionHandler.UpdateConstraints)
		apiV1.GET("/sessions", sessionHandler.List)

		// File upload
		apiV1.POST("/upload", uploadHandler.Upload)
	}

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("🚀 Starting server on %s", addr)
	log.Printf("📝 API base: http://localhost:%d/api/v1", cfg.Server.Port)

	// Graceful shutdown
	go func() {
		if err := router.Run(addr); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	log.Println("✅ Server stopped")
}
