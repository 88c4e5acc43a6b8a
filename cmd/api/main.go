// main.go
package main

import (
	"log"
	"os"

	"github.com/GhazanSubz/fypstudio-api/auth"
	"github.com/GhazanSubz/fypstudio-api/generation"
	"github.com/GhazanSubz/fypstudio-api/internal/platform"
	"github.com/GhazanSubz/fypstudio-api/processing"
	"github.com/GhazanSubz/fypstudio-api/storage"
	"github.com/GhazanSubz/fypstudio-api/videos"
	"github.com/GhazanSubz/fypstudio-api/worker"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

type Server struct {
	DB      *gorm.DB
	Redis   *redis.Client
	Objects storage.ObjectStore
	Router  *gin.Engine
}

func NewServer() (*Server, error) {
	// Use the shared connection initializers
	db := platform.NewDBConnection()
	rdb := platform.NewRedisClient()
	objects := storage.NewMinioStore(platform.NewObjectStoreClient())

	router := gin.Default()

	// Add database to context middleware
	router.Use(func(c *gin.Context) {
		c.Set("db", db)
		c.Next()
	})

	// CORS middleware for the frontend
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", os.Getenv("FRONTEND_URL"))
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	server := &Server{
		DB:      db,
		Redis:   rdb,
		Objects: objects,
		Router:  router,
	}

	server.setupRoutes()

	return server, nil
}

func (s *Server) setupRoutes() {
	// Health check (no auth required)
	s.Router.GET("/health", func(c *gin.Context) {
		sqlDB, err := s.DB.DB()
		if err != nil {
			c.JSON(500, gin.H{"status": "unhealthy", "error": err.Error()})
			return
		}

		if err := sqlDB.Ping(); err != nil {
			c.JSON(500, gin.H{"status": "unhealthy", "error": err.Error()})
			return
		}

		c.JSON(200, gin.H{
			"status":   "healthy",
			"database": "connected",
		})
	})

	store := videos.NewGormStore(s.DB)

	// The API enqueues, the worker binary listens.
	queue := worker.NewProcessor(store, s.Objects, s.Redis)

	authHandler := auth.NewHandler(s.DB)
	videoHandler := videos.NewHandler(store, s.Objects, queue)

	generationHandler := generation.NewHandler(store, s.Objects, generation.NewInferenceClient(), queue, s.Redis)
	if os.Getenv("OPENAI_API_KEY") != "" {
		generationHandler.Enhancer = processing.OpenAIEnhancer{}
	}

	// Root route - no auth needed
	s.Router.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "FYP Studio API v1"})
	})

	// Auth routes (public - no auth middleware)
	authRoutes := s.Router.Group("/auth")
	{
		authRoutes.GET("/google", authHandler.InitiateGoogleLogin)
		authRoutes.GET("/google/callback", authHandler.GoogleCallback)
		authRoutes.POST("/logout", authHandler.Logout)

		// Protected auth routes - require auth middleware
		authRoutes.GET("/me", auth.AuthMiddleware(), authHandler.GetCurrentUser)
		authRoutes.GET("/token", auth.AuthMiddleware(), authHandler.GetAPIToken)
	}

	// Protected routes that require authentication
	protected := s.Router.Group("")
	protected.Use(auth.AuthMiddleware())
	{
		// Generation proxy
		protected.POST("/generate-video", generationHandler.GenerateVideo)

		// Video library
		videoRoutes := protected.Group("/videos")
		{
			videoRoutes.GET("", videoHandler.ListVideos)
			videoRoutes.GET("/recent", videoHandler.GetRecent)
			videoRoutes.GET("/exports", videoHandler.GetExports)
			videoRoutes.DELETE("/:id", videoHandler.DeleteVideo)
			videoRoutes.POST("/:id/download", videoHandler.DownloadVideo)
		}
	}
}

func (s *Server) Run() error {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	return s.Router.Run(":" + port)
}

func main() {
	server, err := NewServer()
	if err != nil {
		log.Fatal("Failed to create server:", err)
	}

	if err := server.Run(); err != nil {
		log.Fatal("Failed to run server:", err)
	}
}
