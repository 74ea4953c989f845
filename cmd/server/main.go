package main

import (
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/tarostudio/portal-api/internal/config"
	"github.com/tarostudio/portal-api/internal/constants"
	"github.com/tarostudio/portal-api/internal/database"
	"github.com/tarostudio/portal-api/internal/entitlement"
	"github.com/tarostudio/portal-api/internal/handlers"
	"github.com/tarostudio/portal-api/internal/jobs"
	"github.com/tarostudio/portal-api/internal/middleware"
	"github.com/tarostudio/portal-api/internal/notifications"
	"github.com/tarostudio/portal-api/internal/repository"
	"github.com/tarostudio/portal-api/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize Gin router
	r := gin.Default()

	// Setup session middleware with Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,        // Redis pool size
		"tcp",     // network type
		redisAddr, // Redis address from config
		"",        // password (empty = no password)
		[]byte(cfg.SessionSecret), // authentication key
	)
	if err != nil {
		log.Fatalf("Failed to create Redis store: %v", err)
	}
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: 2, // SameSite=Lax
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	// Repositories
	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	teamRepo := repository.NewTeamRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	leadRepo := repository.NewLeadRepository(db)

	// Email sender: Postmark when configured, local files otherwise.
	var sender notifications.EmailSender
	if cfg.PostmarkServerToken != "" {
		sender, err = notifications.NewPostmarkClient(cfg.PostmarkServerToken, cfg.PostmarkAccountToken, cfg.EmailSender)
		if err != nil {
			log.Fatalf("Failed to create Postmark client: %v", err)
		}
	} else {
		sender = notifications.NewDevSender(cfg.EmailDevDir)
		logger.Warn("POSTMARK_SERVER_TOKEN not set, writing emails to local directory", "dir", cfg.EmailDevDir)
	}
	notifier := notifications.NewNotifier(sender, cfg.PortalBaseURL, logger)

	// Seat entitlements from the configured Stripe price IDs.
	resolver := entitlement.NewResolver(entitlement.NewSeatTable(entitlement.TierPriceIDs{
		LiteBrew:       cfg.StripePriceLiteBrew,
		SignatureBlend: cfg.StripePriceSignatureBlend,
		TaroCloud:      cfg.StripePriceTaroCloud,
	}))

	// Initialize AI service
	var aiService *services.AIService
	if cfg.OpenAIAPIKey != "" {
		aiService = services.NewAIService(cfg.OpenAIAPIKey)
	}

	// Services
	authService := services.NewAuthService(userRepo)
	teamService := services.NewTeamService(userRepo, teamRepo, resolver, notifier)
	projectService := services.NewProjectService(projectRepo, userRepo)
	chatService := services.NewChatService(leadRepo, aiService)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	teamHandler := handlers.NewTeamHandler(teamService)
	projectHandler := handlers.NewProjectHandler(projectService)
	chatHandler := handlers.NewChatHandler(chatService)

	// Background jobs: stale invite cleanup and task due reminders.
	runner := jobs.NewRunner(teamRepo, projectRepo, notifier, logger)
	stop := make(chan struct{})
	defer close(stop)
	runner.Start(time.Hour, stop)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Taro Studio portal API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
		}

		// Lead-capture chat (public)
		api.POST("/chat", chatHandler.Message)

		// Client portal routes (protected)
		portal := api.Group("/portal")
		portal.Use(middleware.RequireAuth())
		{
			team := portal.Group("/team")
			{
				team.POST("/invite", teamHandler.InviteTeamMember)
				team.GET("/invite", teamHandler.ListInvites)
				team.POST("/accept", teamHandler.AcceptInvite)
			}

			projects := portal.Group("/projects")
			{
				projects.POST("", projectHandler.CreateProject)
				projects.GET("", projectHandler.ListProjects)
				projects.GET("/:id", projectHandler.GetProject)
				projects.PUT("/:id", projectHandler.UpdateProject)
				projects.DELETE("/:id", projectHandler.DeleteProject)
				projects.POST("/:id/tasks", projectHandler.CreateTask)
				projects.PATCH("/:id/tasks/:task_id", projectHandler.UpdateTaskStatus)
			}
		}
	}

	// Start server
	log.Println("Server starting on :8080")
	if err := r.Run(":8080"); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
