package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"market-daily/internal/config"
	delivery "market-daily/internal/delivery/http"
	"market-daily/internal/repository"
	"market-daily/internal/service"
	"market-daily/pkg/logger"
	"market-daily/pkg/mailer"
	"market-daily/pkg/sqlite"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
	"google.golang.org/genai"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the market daily service",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	appLogger.Info("Starting Market Daily", logger.Field("name", cfg.App.Name))

	db, err := sqlite.NewDB(sqlite.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		LogLevel:        cfg.Database.LogLevel,
	})
	if err != nil {
		appLogger.Fatal("Failed to initialize database", logger.ErrorField(err))
	}
	if sqlDB, err := db.DB.DB(); err == nil {
		defer sqlDB.Close()
	}

	// Repositories
	newsRepo := repository.NewNewsRepository(db.DB)
	portfolioRepo := repository.NewPortfolioRepository(db.DB)
	subscriptionRepo := repository.NewSubscriptionRepository(db.DB)
	reportRepo := repository.NewReportRepository(db.DB)
	emailLogRepo := repository.NewEmailLogRepository(db.DB)

	aiRepo := buildAIRepository(ctx, cfg, appLogger)
	providers := buildNewsProviders(cfg, appLogger)

	notifier := buildNotifier(cfg, appLogger)

	// Services
	analyzer := service.NewAnalyzerService(aiRepo, appLogger)
	gateway := service.NewNewsGateway(providers, appLogger)
	reportSvc := service.NewReportService(newsRepo, portfolioRepo, reportRepo, gateway, analyzer, appLogger)
	emailSvc := service.NewEmailService(notifier, subscriptionRepo, emailLogRepo, reportRepo, reportSvc,
		cfg.Email.AdminEmail, cfg.Email.UseEnhanced, appLogger)
	newsSvc := service.NewNewsService(&cfg.News, newsRepo, portfolioRepo, analyzer, appLogger)

	schedulerSvc := service.NewSchedulerService(&cfg.Scheduler, newsSvc, emailSvc, appLogger)
	if err := schedulerSvc.Start(ctx); err != nil {
		appLogger.Fatal("Failed to start scheduler", logger.ErrorField(err))
	}

	// HTTP server
	e := echo.New()
	e.HideBanner = true

	api := e.Group("/api")
	reportHandler := delivery.NewReportHandler(reportSvc, emailSvc, appLogger)
	reportHandler.RegisterRoutes(api.Group("/reports"))
	subscriptionHandler := delivery.NewSubscriptionHandler(subscriptionRepo, appLogger)
	subscriptionHandler.RegisterRoutes(api.Group("/subscriptions"))

	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		appLogger.Info("HTTP server starting", logger.Field("address", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			appLogger.Error("HTTP server failed to start", logger.ErrorField(err))
			stop()
		}
	}()

	<-ctx.Done()

	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Fatal("Server forced to shutdown", logger.ErrorField(err))
	}

	appLogger.Info("Server exiting")
}

// buildAIRepository selects the narrative provider from configuration. A
// missing credential yields nil, which the analyzer treats as permanently
// degraded rather than an error.
func buildAIRepository(ctx context.Context, cfg *config.Config, appLogger *logger.Logger) repository.AIRepository {
	switch cfg.AI.Provider {
	case "gemini":
		if cfg.Gemini.APIKey == "" {
			appLogger.Warn("gemini api key missing, narrative analysis disabled")
			return nil
		}
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  cfg.Gemini.APIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			appLogger.Error("failed to create gemini client, narrative analysis disabled", logger.ErrorField(err))
			return nil
		}
		repo, err := repository.NewGeminiAIRepository(cfg, appLogger, client)
		if err != nil {
			appLogger.Error("failed to create gemini repository, narrative analysis disabled", logger.ErrorField(err))
			return nil
		}
		return repo
	case "openai", "":
		if cfg.OpenAI.APIKey == "" {
			appLogger.Warn("openai api key missing, narrative analysis disabled")
			return nil
		}
		return repository.NewOpenAIRepository(cfg, appLogger)
	default:
		appLogger.Warn("unknown ai provider, narrative analysis disabled",
			logger.StringField("provider", cfg.AI.Provider))
		return nil
	}
}

// buildNewsProviders enables each external provider purely by the
// presence of its API key.
func buildNewsProviders(cfg *config.Config, appLogger *logger.Logger) []repository.NewsProvider {
	var providers []repository.NewsProvider
	if cfg.NewsAPI.APIKey != "" {
		providers = append(providers, repository.NewNewsAPIRepository(&cfg.NewsAPI))
	}
	if cfg.Finnhub.APIKey != "" {
		providers = append(providers, repository.NewFinnhubRepository(&cfg.Finnhub))
	}
	appLogger.Info("external news providers configured", logger.IntField("count", len(providers)))
	return providers
}

func buildNotifier(cfg *config.Config, appLogger *logger.Logger) mailer.Notifier {
	notifier, err := mailer.NewClient(cfg.Email.Config)
	if err != nil {
		appLogger.Warn("smtp not configured, email dispatch disabled", logger.ErrorField(err))
		return mailer.NewDisabled()
	}
	return notifier
}

func main() {
	rootCmd := &cobra.Command{Use: "market-daily"}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing market-daily CLI: %s\n", err)
		os.Exit(1)
	}
}
