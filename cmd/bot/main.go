package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	coreport "github.com/ardiansyah-dev/gamestore-bot/internal/domain/port/core"
	depositUseCase "github.com/ardiansyah-dev/gamestore-bot/internal/domain/usecase/deposit"
	"github.com/ardiansyah-dev/gamestore-bot/internal/domain/usecase/scheduler"
	userUseCase "github.com/ardiansyah-dev/gamestore-bot/internal/domain/usecase/user"

	"github.com/ardiansyah-dev/gamestore-bot/internal/infrastructure/adapter/alerting"
	"github.com/ardiansyah-dev/gamestore-bot/internal/infrastructure/adapter/api/handler"
	"github.com/ardiansyah-dev/gamestore-bot/internal/infrastructure/adapter/api/routes"
	"github.com/ardiansyah-dev/gamestore-bot/internal/infrastructure/adapter/database"
	"github.com/ardiansyah-dev/gamestore-bot/internal/infrastructure/adapter/database/migration"
	"github.com/ardiansyah-dev/gamestore-bot/internal/infrastructure/adapter/gateway/atlantic"
	"github.com/ardiansyah-dev/gamestore-bot/internal/infrastructure/adapter/logger"
	"github.com/ardiansyah-dev/gamestore-bot/internal/infrastructure/adapter/presentation"
	"github.com/ardiansyah-dev/gamestore-bot/internal/infrastructure/adapter/repository"
	"github.com/ardiansyah-dev/gamestore-bot/internal/infrastructure/adapter/telegram"
	timeProvider "github.com/ardiansyah-dev/gamestore-bot/internal/infrastructure/adapter/time"
	"github.com/ardiansyah-dev/gamestore-bot/internal/infrastructure/config"
)

// trackerPruneInterval spaces out the stale-UI sweep; retention comes from config
const trackerPruneInterval = 10 * time.Minute

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Validate essential configuration
	if err := validateConfig(cfg); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	// Set Gin mode based on environment
	if cfg.Environment == config.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create logger
	appLogger := logger.NewZapLogger(cfg.Environment == config.Production)
	appLogger.SetLevel(parseLogLevel(cfg.Logger.Level))
	defer func() { _ = appLogger.Flush() }()

	// Initialize time provider
	tp := timeProvider.NewRealTimeProvider()

	// Connect to the database
	dbConfig := database.CreateConfigFromAppConfig(cfg)
	conn, err := database.NewConnection(dbConfig, appLogger)
	if err != nil {
		appLogger.Error("Failed to connect to database", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}
	defer func() { _ = conn.Close() }()

	// Run migrations
	migrationMgr := migration.NewMigrationManager(conn.DB, appLogger, tp)
	if err := migrationMgr.MigrateAll(); err != nil {
		appLogger.Error("Failed to run migrations", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}

	// Initialize repositories
	depositRepo := repository.NewDepositRepository(conn.DB, tp, appLogger)
	userRepo := repository.NewUserRepository(conn.DB, tp, appLogger)
	settingsRepo := repository.NewSettingsRepository(conn.DB, appLogger)

	// Unit of work for the credit transaction
	uow := database.NewUnitOfWork(conn.DB, appLogger, tp)

	// Payment gateway client
	gatewayClient, err := atlantic.NewClient(atlantic.Config{
		BaseURL: cfg.Gateway.BaseURL,
		APIKey:  cfg.Gateway.APIKey,
		Timeout: cfg.Gateway.Timeout,
	}, appLogger)
	if err != nil {
		appLogger.Error("Failed to create gateway client", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}

	// Telegram transport
	botAPI, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		appLogger.Error("Failed to connect to Telegram", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}
	botAPI.Debug = cfg.Telegram.Debug

	botMessenger := telegram.NewBotMessenger(botAPI, appLogger)
	tracker := presentation.NewMessageTracker(botMessenger, tp, appLogger)
	notifier := presentation.NewDepositNotifier(botMessenger, tracker, appLogger)
	alerter := alerting.NewCreditAlerter(botMessenger, tp, appLogger, cfg.Telegram.OwnerID)

	// Domain services
	reconciler := depositUseCase.NewReconciler(uow, tp, appLogger, alerter)
	depositSvc := depositUseCase.NewService(depositRepo, settingsRepo, gatewayClient, reconciler, tp, appLogger)
	userSvc := userUseCase.NewUseCase(userRepo, tp, appLogger)

	// Polling schedulers
	fastPoller := scheduler.NewFastPoller(
		scheduler.FastPollConfig{
			Interval: cfg.Scheduler.FastPollInterval,
			Lifetime: cfg.Scheduler.FastPollLifetime,
		},
		gatewayClient, reconciler, depositRepo, notifier, tp, appLogger,
	)
	sweeper := scheduler.NewSweeper(
		scheduler.SweepConfig{
			Interval:  cfg.Scheduler.SweepInterval,
			Window:    cfg.Scheduler.SweepWindow,
			ItemDelay: cfg.Scheduler.SweepItemDelay,
		},
		gatewayClient, reconciler, depositRepo, settingsRepo, fastPoller, notifier, tp, appLogger,
	)

	// Startup credential check gates the deposit entry point
	checkCtx, cancelCheck := context.WithTimeout(context.Background(), 10*time.Second)
	gatewayReady := gatewayClient.ValidateCredentials(checkCtx)
	cancelCheck()
	if !gatewayReady {
		appLogger.Warn("Gateway credential check failed, deposit flow disabled", nil)
	}

	// Bot front end
	bot := telegram.NewBot(
		botAPI, botMessenger, depositSvc, userSvc, fastPoller,
		presentation.NewQRRenderer(), tracker, notifier, settingsRepo,
		appLogger, cfg.Telegram.OwnerID,
	)
	bot.SetGatewayReady(gatewayReady)

	// Operator API
	opsHandler := handler.NewOpsHandler(
		depositRepo, userSvc, alerter, fastPoller,
		func() bool { return gatewayReady }, appLogger,
	)

	router := gin.New()
	routes.SetupMiddlewares(router, appLogger)
	routes.SetupRoutes(router, opsHandler)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	// Background loops share one lifecycle context
	runCtx, cancelRun := context.WithCancel(context.Background())

	go bot.Run(runCtx)
	go sweeper.Run(runCtx)
	go tracker.RunPruner(runCtx, trackerPruneInterval, cfg.Scheduler.TrackerRetention)

	go func() {
		appLogger.Info("Starting operator API", map[string]any{
			"port": cfg.Server.Port,
			"env":  cfg.Environment,
		})

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("Failed to start operator API", map[string]any{
				"error": err.Error(),
			})
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shut down
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down...", nil)

	// Stop update and polling loops first so no new reconciliation starts
	cancelRun()
	fastPoller.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		appLogger.Error("Operator API forced to shutdown", map[string]any{
			"error": err.Error(),
		})
	}

	appLogger.Info("Exited gracefully", nil)
}

// parseLogLevel maps the configured level string to the logger's level type
func parseLogLevel(level string) coreport.LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return coreport.LogLevelDebug
	case "warn":
		return coreport.LogLevelWarn
	case "error":
		return coreport.LogLevelError
	default:
		return coreport.LogLevelInfo
	}
}

// validateConfig ensures all required configuration values are present
func validateConfig(cfg *config.Config) error {
	var missingConfigs []string

	// Validate server configuration
	if cfg.Server.Port == 0 {
		missingConfigs = append(missingConfigs, "server.port")
	}
	if cfg.Server.ShutdownTimeout == 0 {
		missingConfigs = append(missingConfigs, "server.shutdownTimeout")
	}

	// Validate database configuration
	if cfg.Database.Host == "" && os.Getenv("GS_DB_HOST") == "" {
		missingConfigs = append(missingConfigs, "database.host (or GS_DB_HOST environment variable)")
	}
	if cfg.Database.Username == "" && os.Getenv("GS_DB_USERNAME") == "" {
		missingConfigs = append(missingConfigs, "database.username (or GS_DB_USERNAME environment variable)")
	}
	if cfg.Database.Password == "" && os.Getenv("GS_DB_PASSWORD") == "" {
		missingConfigs = append(missingConfigs, "database.password (or GS_DB_PASSWORD environment variable)")
	}
	if cfg.Database.Database == "" && os.Getenv("GS_DB_NAME") == "" {
		missingConfigs = append(missingConfigs, "database.database (or GS_DB_NAME environment variable)")
	}

	// Telegram credentials
	if cfg.Telegram.Token == "" && os.Getenv("GS_TELEGRAM_TOKEN") == "" {
		missingConfigs = append(missingConfigs, "telegram.token (or GS_TELEGRAM_TOKEN environment variable)")
	}
	if cfg.Telegram.OwnerID == 0 {
		missingConfigs = append(missingConfigs, "telegram.ownerId (or GS_TELEGRAM_OWNER_ID environment variable)")
	}

	// Gateway credentials
	if cfg.Gateway.BaseURL == "" && os.Getenv("GS_GATEWAY_BASE_URL") == "" {
		missingConfigs = append(missingConfigs, "gateway.baseUrl (or GS_GATEWAY_BASE_URL environment variable)")
	}
	if cfg.Gateway.APIKey == "" && os.Getenv("GS_GATEWAY_API_KEY") == "" {
		missingConfigs = append(missingConfigs, "gateway.apiKey (or GS_GATEWAY_API_KEY environment variable)")
	}

	// Environment should be set with a valid value
	if cfg.Environment == "" {
		missingConfigs = append(missingConfigs, "environment")
	} else if cfg.Environment != config.Development &&
		cfg.Environment != config.Production &&
		cfg.Environment != config.Test {
		return fmt.Errorf("invalid environment value: %s, must be one of: %s, %s, or %s",
			cfg.Environment, config.Development, config.Production, config.Test)
	}

	if len(missingConfigs) > 0 {
		return fmt.Errorf("missing required configurations: %v", missingConfigs)
	}

	// If we're in production, warn about weak settings
	if cfg.Environment == config.Production {
		var warnings []string

		if mode := strings.ToLower(cfg.Database.SSLMode); mode != "require" && mode != "verify-ca" && mode != "verify-full" {
			warnings = append(warnings, "database.sslMode should be set to 'require', 'verify-ca', or 'verify-full' in production")
		}

		if len(warnings) > 0 {
			log.Printf("Warning: potential security issues in production configuration: %v", warnings)
		}
	}

	return nil
}
