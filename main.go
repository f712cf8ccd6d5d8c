package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lms-backoffice/config"
	"lms-backoffice/handlers"
	"lms-backoffice/middleware"
	"lms-backoffice/redis"
	"lms-backoffice/repositories"
	"lms-backoffice/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("no .env file found")
	}

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("APP_ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Initialize database
	db := config.InitDB()

	// Initialize cache (no-op when redis is unreachable)
	cache := redis.InitCache(getEnv("REDIS_ADDR", "localhost:6379"))

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	documentRepo := repositories.NewDocumentRepository(db)
	versionRepo := repositories.NewDocumentVersionRepository(db)
	courseRepo := repositories.NewCourseRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo)
	documentService := services.NewDocumentService(db, documentRepo, versionRepo, courseRepo, cache)
	courseService := services.NewCourseService(courseRepo)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	documentHandler := handlers.NewDocumentHandler(documentService)
	courseHandler := handlers.NewCourseHandler(courseService)

	// Setup router
	router := gin.Default()

	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: false,
	}
	if origins := os.Getenv("CORS_ALLOW_ORIGINS"); origins != "" {
		corsConfig.AllowOrigins = []string{origins}
	} else {
		corsConfig.AllowAllOrigins = true
	}
	router.Use(cors.New(corsConfig))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	// API routes
	v1 := router.Group("/api/v1")
	{
		// Auth routes (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		// Protected routes
		protected := v1.Group("/")
		protected.Use(middleware.AuthMiddleware())
		{
			// Profile
			protected.GET("/profile", authHandler.GetProfile)

			// Documents
			documents := protected.Group("/documents")
			{
				documents.POST("", documentHandler.CreateDocument)
				documents.GET("", documentHandler.GetDocuments)
				documents.GET("/:id", documentHandler.GetDocument)
				documents.PUT("/:id", documentHandler.UpdateDocument)
				documents.DELETE("/:id", documentHandler.DeleteDocument)
				documents.POST("/:id/duplicate", documentHandler.DuplicateDocument)
				documents.PUT("/:id/status", documentHandler.UpdateStatus)
				documents.GET("/:id/versions", documentHandler.GetVersions)
				documents.GET("/:id/versions/:version_id", documentHandler.GetVersion)
				documents.DELETE("/:id/versions/:version_id", documentHandler.DeleteVersion)
				documents.POST("/:id/versions/:version_id/rollback", documentHandler.RollbackVersion)
				documents.GET("/:id/versions/:version_id/verify", documentHandler.VerifyVersion)
				documents.GET("/:id/compare", documentHandler.CompareVersions)
				documents.GET("/:id/export", documentHandler.ExportDocument)
			}

			// Courses
			courses := protected.Group("/courses")
			{
				courses.POST("", middleware.RequireRole("admin", "editor"), courseHandler.CreateCourse)
				courses.GET("", courseHandler.GetCourses)
				courses.GET("/:id", courseHandler.GetCourse)
			}
		}

		// Public document routes (published only)
		public := v1.Group("/public")
		{
			public.GET("/documents", documentHandler.GetPublicDocuments)
			public.GET("/documents/:id", documentHandler.GetPublicDocument)
		}
	}

	// Server configuration
	port := getEnv("PORT", "8080")
	server := &http.Server{
		Addr:    ":" + port,
		Handler: router.Handler(),
	}

	// Start server
	go func() {
		log.Info().Str("port", port).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server shutdown error")
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
