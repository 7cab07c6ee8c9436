package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/quotedesk/quotedesk-backend/internal/data/db"
	"github.com/quotedesk/quotedesk-backend/internal/data/repos"
	"github.com/quotedesk/quotedesk-backend/internal/data/seed"
	"github.com/quotedesk/quotedesk-backend/internal/http/handlers"
	"github.com/quotedesk/quotedesk-backend/internal/http/middleware"
	"github.com/quotedesk/quotedesk-backend/internal/modules/estimation"
	"github.com/quotedesk/quotedesk-backend/internal/platform/envutil"
	"github.com/quotedesk/quotedesk-backend/internal/platform/logger"
	"github.com/quotedesk/quotedesk-backend/internal/platform/openai"
	"github.com/quotedesk/quotedesk-backend/internal/realtime/bus"
	"github.com/quotedesk/quotedesk-backend/internal/server"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	log.Info("Loading environment variables from main...")
	jwtSecret := envutil.String("JWT_SECRET_KEY", "defaultsecret")
	defaultsPath := envutil.String("PLATFORM_DEFAULTS_PATH", "configs/platform_defaults.yaml")
	graceAPIKey := os.Getenv("PLATFORM_GRACE_API_KEY")
	providerBaseURL := os.Getenv("OPENAI_BASE_URL")

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err := postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	quoteRepo := repos.NewQuoteRepo(thePG, log)
	versionRepo := repos.NewQuoteVersionRepo(thePG, log)
	noteRepo := repos.NewQuoteNoteRepo(thePG, log)
	tenantRepo := repos.NewTenantRepo(thePG, log)
	tenantSettingsRepo := repos.NewTenantSettingsRepo(thePG, log)
	platformConfigRepo := repos.NewPlatformConfigRepo(thePG, log)
	industryPackRepo := repos.NewIndustryPackRepo(thePG, log)

	// Platform defaults
	seedCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := seed.EnsurePlatformConfig(seedCtx, log, platformConfigRepo, defaultsPath, graceAPIKey); err != nil {
		cancel()
		log.Error("Platform defaults seed failed", "error", err)
		os.Exit(1)
	}
	cancel()

	// Event bus
	log.Info("Setting up event bus from main...")
	eventBus, err := bus.NewRedisBus(log)
	if err != nil {
		log.Warn("Redis bus unavailable, version events disabled", "error", err)
		eventBus = bus.NewNoopBus()
	}
	defer eventBus.Close()

	// Estimation pipeline dependencies
	estimationDeps := estimation.Deps{
		DB:  thePG,
		Log: log,

		Quotes:         quoteRepo,
		Versions:       versionRepo,
		Notes:          noteRepo,
		Tenants:        tenantRepo,
		TenantSettings: tenantSettingsRepo,
		PlatformConfig: platformConfigRepo,
		IndustryPacks:  industryPackRepo,

		HTTPClient:      &http.Client{Timeout: 30 * time.Second},
		NewAI:           openai.NewClient,
		ProviderBaseURL: providerBaseURL,
	}

	// Handlers
	log.Info("Setting up handlers from main...")
	healthHandler := handlers.NewHealthHandler()
	quoteHandler := handlers.NewQuoteHandler(log, estimationDeps, quoteRepo, versionRepo, eventBus)

	// Middleware
	log.Info("Setting up middleware from main...")
	authMiddleware := middleware.NewAuthMiddleware(log, jwtSecret)

	// Router
	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		Log:            log,
		AuthMiddleware: authMiddleware,
		HealthHandler:  healthHandler,
		QuoteHandler:   quoteHandler,
	})

	port := envutil.String("PORT", "8080")
	fmt.Printf("Server listening on :%s\n", port)
	if err := router.Run(":" + port); err != nil {
		log.Warn("Server failed", "error", err)
	}
}
