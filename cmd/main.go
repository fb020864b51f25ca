package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-news-agent/internal/agent/classifier"
	"go-news-agent/internal/agent/config"
	delivery "go-news-agent/internal/agent/delivery/http"
	"go-news-agent/internal/agent/repository"
	"go-news-agent/internal/agent/scheduler"
	"go-news-agent/internal/agent/service"
	"go-news-agent/internal/agent/tasks"
	"go-news-agent/internal/migrations"
	"go-news-agent/pkg/logger"
	"go-news-agent/pkg/sqlite"
	"go-news-agent/pkg/telegram"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the news agent service",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	// Create a context that is canceled on interrupt signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := newApp(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	defer app.Close()

	appLogger := app.logger
	appLogger.Info("Starting News Agent", logger.Field("name", app.cfg.App.Name))

	tracker := tasks.NewTracker(appLogger)

	// Initialize Echo server
	e := echo.New()
	e.HideBanner = true

	handler := delivery.NewAgentHandler(
		app.collector, app.enricher, app.analyzer, app.stats,
		app.articleRepo, tracker, appLogger,
	)
	handler.RegisterRoutes(e.Group("/api"))

	// Start scheduler
	var sched *scheduler.Scheduler
	if app.cfg.Scheduler.Enabled {
		sched = scheduler.New(app.cfg, app.collector, app.enricher, tracker, appLogger)
		if err := sched.Start(ctx); err != nil {
			appLogger.Fatal("Failed to start scheduler", logger.ErrorField(err))
		}
	}

	// Start server
	go func() {
		addr := fmt.Sprintf(":%d", app.cfg.API.Port)
		appLogger.Info("HTTP server starting", logger.Field("address", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			appLogger.Error("HTTP server failed to start", logger.ErrorField(err))
			stop() // trigger shutdown
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()

	appLogger.Info("Shutting down server...")

	if sched != nil {
		sched.Stop()
	}

	// Gracefully shutdown the server
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Fatal("Server forced to shutdown", logger.ErrorField(err))
	}

	appLogger.Info("Server exiting")
}

// app bundles the wired components shared by serve and the one-shot
// commands.
type app struct {
	cfg         *config.Config
	logger      *logger.Logger
	db          *sqlite.DB
	articleRepo repository.ArticleRepository
	collector   service.CollectorService
	enricher    service.EnrichmentService
	analyzer    service.AnalyzerService
	stats       service.StatsService
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	// Initialize database
	db, err := sqlite.NewDB(sqlite.Config{
		Path:          cfg.Database.Path,
		BusyTimeoutMS: cfg.Database.BusyTimeoutMS,
		LogLevel:      cfg.Database.LogLevel,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := runEmbeddedMigrations(cfg.Database.Path); err != nil {
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	// Initialize repositories
	articleRepo := repository.NewArticleRepository(db.DB)
	analysisRepo := repository.NewAnalysisRepository(db.DB)
	statRepo := repository.NewDailyStatRepository(db.DB)
	settingRepo := repository.NewSettingRepository(db.DB)

	aiRepo, err := newAIRepository(ctx, cfg, appLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize AI provider: %w", err)
	}
	if err := settingRepo.Set(ctx, repository.SettingKeyModelName, aiRepo.ModelName()); err != nil {
		appLogger.Warn("Failed to persist active model name", logger.ErrorField(err))
	}

	var notifier telegram.Notifier
	if cfg.Telegram.Enabled {
		notifier, err = telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Telegram notifier: %w", err)
		}
	}

	// Initialize services
	cls := classifier.New(cfg.Classifier)
	collector := service.NewCollectorService(cfg, articleRepo, statRepo, cls, appLogger)
	enricher := service.NewEnrichmentService(cfg, articleRepo, statRepo, aiRepo, appLogger)
	analyzer := service.NewAnalyzerService(cfg, articleRepo, analysisRepo, statRepo, aiRepo, notifier, appLogger)
	stats := service.NewStatsService(cfg, articleRepo, analysisRepo, settingRepo, appLogger)

	return &app{
		cfg:         cfg,
		logger:      appLogger,
		db:          db,
		articleRepo: articleRepo,
		collector:   collector,
		enricher:    enricher,
		analyzer:    analyzer,
		stats:       stats,
	}, nil
}

func (a *app) Close() {
	if sqlDB, err := a.db.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
	_ = a.logger.Sync()
}

func newAIRepository(ctx context.Context, cfg *config.Config, log *logger.Logger) (repository.AIRepository, error) {
	switch cfg.AI.Provider {
	case "gemini":
		return repository.NewGeminiAIRepository(ctx, cfg, log)
	case "ollama":
		return repository.NewOllamaRepository(cfg, log)
	default:
		return nil, fmt.Errorf("unknown AI provider %q", cfg.AI.Provider)
	}
}

func runEmbeddedMigrations(dbPath string) error {
	src, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return err
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, "sqlite3://"+dbPath)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	srcErr, dbErr := m.Close()
	if srcErr != nil {
		return srcErr
	}
	return dbErr
}

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Runs one feed collection pass and exits",
	Run: func(cmd *cobra.Command, args []string) {
		runOneShot(func(ctx context.Context, a *app) (interface{}, error) {
			n, err := a.collector.Collect(ctx, 0)
			return map[string]int{"collected": n}, err
		})
	},
}

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Runs one enrichment pass and exits",
	Run: func(cmd *cobra.Command, args []string) {
		runOneShot(func(ctx context.Context, a *app) (interface{}, error) {
			n, err := a.enricher.Enrich(ctx, 0)
			return map[string]int{"enriched": n}, err
		})
	},
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze [topic]",
	Short: "Analyzes a topic against the stored articles and exits",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runOneShot(func(ctx context.Context, a *app) (interface{}, error) {
			return a.analyzer.AnalyzeTopic(ctx, args[0]), nil
		})
	},
}

func runOneShot(fn func(ctx context.Context, a *app) (interface{}, error)) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := newApp(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	defer app.Close()

	result, err := fn(ctx, app)
	if err != nil {
		app.logger.Fatal("Command failed", logger.ErrorField(err))
	}

	out, _ := json.MarshalIndent(result, "", "  ")
	fmt.Println(string(out))
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "news-agent",
		Short: "A news collection, enrichment and analysis pipeline",
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "configs/config.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd, collectCmd, enrichCmd, analyzeCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing news-agent CLI: %s\n", err)
		os.Exit(1)
	}
}
