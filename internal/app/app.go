// Package app provides application initialization and lifecycle management.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/dkotenko/stock-sentry/internal/bot"
	"github.com/dkotenko/stock-sentry/internal/catalog"
	catalogpostgres "github.com/dkotenko/stock-sentry/internal/catalog/postgres"
	"github.com/dkotenko/stock-sentry/internal/config"
	"github.com/dkotenko/stock-sentry/internal/identity"
	identitypostgres "github.com/dkotenko/stock-sentry/internal/identity/postgres"
	"github.com/dkotenko/stock-sentry/internal/notify"
	"github.com/dkotenko/stock-sentry/internal/notify/telegram"
	"github.com/dkotenko/stock-sentry/internal/pkg/httputil"
	"github.com/dkotenko/stock-sentry/internal/pkg/metrics"
	"github.com/dkotenko/stock-sentry/internal/pkg/postgres"
	"github.com/dkotenko/stock-sentry/internal/subscription"
	subscriptionpostgres "github.com/dkotenko/stock-sentry/internal/subscription/postgres"
	"github.com/dkotenko/stock-sentry/internal/version"
	"github.com/dkotenko/stock-sentry/internal/watcher"
	"github.com/dkotenko/stock-sentry/migrations"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// App represents the application instance.
type App struct {
	config        *config.Config
	logger        *slog.Logger
	db            *pgxpool.Pool
	server        *http.Server
	metricsServer *http.Server
	jobsCancel    context.CancelFunc
	watcher       *watcher.Watcher
	sweeper       *subscription.Sweeper
}

// New creates a new application instance: connects to the store, applies
// migrations, wires the bot and starts the periodic jobs.
func New(cfg *config.Config) (*App, error) {
	logger := initLogger(cfg.Log)

	connectCtx, connectCancel := context.WithTimeout(context.Background(), cfg.Database.ConnectTimeout)
	defer connectCancel()

	db, err := postgres.Connect(connectCtx, postgres.Config{
		URL:             cfg.Database.URL,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnectAttempts: cfg.Database.ConnectAttempts,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := postgres.Migrate(cfg.Database.URL, migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	jobsCtx, jobsCancel := context.WithCancel(context.Background())

	app := &App{
		config:     cfg,
		logger:     logger,
		db:         db,
		jobsCancel: jobsCancel,
	}

	go app.collectDBMetrics(jobsCtx)

	router, err := app.setup(jobsCtx)
	if err != nil {
		db.Close()
		jobsCancel()
		return nil, fmt.Errorf("setup: %w", err)
	}

	app.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	// Metrics server on separate port
	metricsRouter := chi.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.Handler())

	app.metricsServer = &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.MetricsPort),
		Handler:           metricsRouter,
		ReadTimeout:       5 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return app, nil
}

// Run starts the HTTP servers.
func (a *App) Run() error {
	go func() {
		a.logger.Info("starting metrics server",
			"host", a.config.Server.Host,
			"port", a.config.Server.MetricsPort,
		)
		if err := a.metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.logger.Error("metrics server error", "error", err)
		}
	}()

	a.logger.Info("starting server",
		"host", a.config.Server.Host,
		"port", a.config.Server.Port,
	)

	if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the application.
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("shutting down")

	a.jobsCancel()

	// Stop the periodic jobs before the store goes away
	if a.watcher != nil {
		a.watcher.Stop()
	}
	if a.sweeper != nil {
		a.sweeper.Stop()
	}

	// Shutdown both servers in parallel
	var wg sync.WaitGroup
	var errs []error
	var mu sync.Mutex

	wg.Add(2)

	go func() {
		defer wg.Done()
		if err := a.server.Shutdown(ctx); err != nil {
			mu.Lock()
			errs = append(errs, fmt.Errorf("shutdown server: %w", err))
			mu.Unlock()
		}
	}()

	go func() {
		defer wg.Done()
		if err := a.metricsServer.Shutdown(ctx); err != nil {
			mu.Lock()
			errs = append(errs, fmt.Errorf("shutdown metrics server: %w", err))
			mu.Unlock()
		}
	}()

	wg.Wait()

	a.db.Close()

	return errors.Join(errs...)
}

// Router returns the HTTP handler for testing.
func (a *App) Router() http.Handler {
	return a.server.Handler
}

func (a *App) collectDBMetrics(ctx context.Context) {
	// Collect immediately on start
	metrics.RecordDBPoolMetrics(a.db)

	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			metrics.RecordDBPoolMetrics(a.db)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) setup(jobsCtx context.Context) (*chi.Mux, error) {
	r := chi.NewRouter()

	// Metrics middleware must be first to measure full request time
	r.Use(httputil.MetricsMiddleware)
	r.Use(middleware.RequestID)
	r.Use(httputil.RequestLoggerMiddleware(a.logger))
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", a.healthzHandler)
	r.Get("/readyz", a.readyzHandler)
	r.Get("/version", a.versionHandler)

	sender, err := telegram.NewSender(telegram.Config{
		Enabled:   a.config.Telegram.Enabled,
		BotToken:  a.config.Telegram.BotToken,
		RateLimit: a.config.Telegram.RateLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("create telegram sender: %w", err)
	}

	if !a.config.Telegram.Enabled {
		slog.Warn("telegram sender is disabled: replies and alerts will not be sent")
	}

	renderer, err := notify.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("create renderer: %w", err)
	}

	identityRepo := identitypostgres.NewRepository(a.db)
	identityService := identity.NewService(identityRepo)

	subscriptionRepo := subscriptionpostgres.NewRepository(a.db)
	subscriptionService := subscription.NewService(subscriptionRepo, a.config.Telegram.AdminID)

	var productRepo catalog.Repository = catalogpostgres.NewRepository(a.db)
	fetcher := catalog.NewHTTPFetcher(a.config.Watcher.CatalogURL, a.config.Watcher.HTTPTimeout)

	notifier := notify.NewNotifier(
		notify.Config{NumWorkers: a.config.Notify.NumWorkers},
		subscriptionService,
		sender,
		renderer,
		a.config.Telegram.AdminID,
	)

	a.watcher = watcher.New(a.config.Watcher.Interval, fetcher, productRepo, notifier)
	a.watcher.Start(jobsCtx)

	a.sweeper = subscription.NewSweeper(a.config.Sweeper.Interval, subscriptionService)
	a.sweeper.Start(jobsCtx)

	router := bot.NewRouter(
		identityService,
		subscriptionService,
		productRepo,
		sender,
		renderer,
		a.config.Telegram.AdminID,
		a.config.Telegram.AdminContact,
	)
	webhook := bot.NewWebhookHandler(router, a.config.Telegram.WebhookSecret)
	webhook.RegisterRoutes(r)

	return r, nil
}

func (a *App) healthzHandler(w http.ResponseWriter, _ *http.Request) {
	httputil.Text(w, http.StatusOK, "OK")
}

func (a *App) readyzHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := a.db.Ping(ctx); err != nil {
		a.logger.Error("readiness check failed", "error", err)
		httputil.Text(w, http.StatusServiceUnavailable, "Database unavailable")
		return
	}

	httputil.Text(w, http.StatusOK, "OK")
}

func (a *App) versionHandler(w http.ResponseWriter, _ *http.Request) {
	httputil.JSON(w, http.StatusOK, map[string]string{
		"version":    version.Version,
		"commit":     version.GitCommit,
		"build_date": version.BuildDate,
	})
}

func initLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	var handler slog.Handler
	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}
