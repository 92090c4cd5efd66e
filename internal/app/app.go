package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dominik-olsz/insta-cal-scheduler/internal/auth"
	"github.com/dominik-olsz/insta-cal-scheduler/internal/calendar"
	"github.com/dominik-olsz/insta-cal-scheduler/internal/config"
	httpcontroller "github.com/dominik-olsz/insta-cal-scheduler/internal/controller/http"
	"github.com/dominik-olsz/insta-cal-scheduler/internal/database"
	accountdao "github.com/dominik-olsz/insta-cal-scheduler/internal/domain/account/dao"
	accountservice "github.com/dominik-olsz/insta-cal-scheduler/internal/domain/account/service"
	"github.com/dominik-olsz/insta-cal-scheduler/internal/domain/account/sweeper"
	mediadao "github.com/dominik-olsz/insta-cal-scheduler/internal/domain/media/dao"
	mediaservice "github.com/dominik-olsz/insta-cal-scheduler/internal/domain/media/service"
	postdao "github.com/dominik-olsz/insta-cal-scheduler/internal/domain/post/dao"
	"github.com/dominik-olsz/insta-cal-scheduler/internal/domain/post/policy"
	postservice "github.com/dominik-olsz/insta-cal-scheduler/internal/domain/post/service"
	profiledao "github.com/dominik-olsz/insta-cal-scheduler/internal/domain/profile/dao"
	profileservice "github.com/dominik-olsz/insta-cal-scheduler/internal/domain/profile/service"
	"github.com/dominik-olsz/insta-cal-scheduler/internal/metrics"
	"github.com/dominik-olsz/insta-cal-scheduler/internal/storage"
)

// App is the main application container
type App struct {
	cfg        config.Config
	httpServer *http.Server
	router     *chi.Mux
	logger     *slog.Logger

	pool           *pgxpool.Pool
	metrics        *metrics.Metrics
	metricsHandler http.Handler

	verifier       auth.Verifier
	postPolicy     *policy.Policy
	accountService *accountservice.Service
	profileService *profileservice.Service
	mediaService   *mediaservice.Service

	// Deactivates accounts whose demo credential expired
	sweeper *sweeper.Sweeper
}

// NewApp creates and initializes the application
func NewApp(ctx context.Context, cfg config.Config) (*App, error) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.Log.SlogLevel(),
	}))
	slog.SetDefault(logger)

	app := &App{
		cfg:    cfg,
		logger: logger,
	}

	if err := app.initInfrastructure(ctx); err != nil {
		return nil, fmt.Errorf("initializing infrastructure: %w", err)
	}

	if err := app.initDomains(); err != nil {
		app.pool.Close()
		return nil, fmt.Errorf("initializing domains: %w", err)
	}

	app.router = app.newRouter()

	app.httpServer = &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      app.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	if cfg.Sweeper.Enabled {
		app.sweeper = sweeper.New(&countingSweep{svc: app.accountService, metrics: app.metrics}, cfg.Sweeper.Schedule, logger)
	}

	return app, nil
}

// initInfrastructure connects to Postgres, applies migrations and sets up metrics
func (a *App) initInfrastructure(ctx context.Context) error {
	m, handler, err := metrics.Setup("insta-cal-scheduler")
	if err != nil {
		return fmt.Errorf("setting up metrics: %w", err)
	}
	a.metrics = m
	a.metricsHandler = handler

	pool, err := database.NewPostgresPool(ctx, a.cfg.Database.PostgresDSN, database.PoolOptions{
		MaxConns:     a.cfg.Database.MaxConns,
		MinConns:     a.cfg.Database.MinConns,
		ConnLifetime: a.cfg.Database.ConnLifetime,
	})
	if err != nil {
		return fmt.Errorf("connecting to postgres: %w", err)
	}
	a.pool = pool

	if a.cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, pool); err != nil {
			pool.Close()
			return fmt.Errorf("migrating database: %w", err)
		}
		a.logger.Info("database migrations applied")
	}

	return nil
}

// initDomains initializes domain layers (DAO, Service, Policy)
func (a *App) initDomains() error {
	loc, err := calendar.ResolveLocation(a.cfg.Calendar.TimeZone)
	if err != nil {
		return fmt.Errorf("calendar time zone: %w", err)
	}
	locator := calendar.NewLocator(loc, a.cfg.Calendar.UseProfileTimeZone)

	a.verifier = auth.NewSessionPostgres(a.pool)

	a.accountService = accountservice.New(accountdao.NewAccountPostgres(a.pool), a.cfg.Functions.DemoTokenTTL)
	a.profileService = profileservice.New(profiledao.NewProfilePostgres(a.pool))

	postService := postservice.New(postdao.NewPostPostgres(a.pool))
	a.postPolicy = policy.New(postService, a.accountService, a.profileService, locator, policy.UpcomingOptions{
		Window: a.cfg.Calendar.UpcomingWindow,
		Limit:  a.cfg.Calendar.UpcomingLimit,
	})

	store := storage.NewS3Storage(storage.S3Config{
		Endpoint:        a.cfg.S3.Endpoint,
		AccessKeyID:     a.cfg.S3.AccessKeyID,
		SecretAccessKey: a.cfg.S3.SecretAccessKey,
		Bucket:          a.cfg.S3.Bucket,
		Region:          a.cfg.S3.Region,
		PublicURL:       a.cfg.S3.PublicURL,
	})
	a.mediaService = mediaservice.New(store, mediadao.NewUploadPostgres(a.pool))

	return nil
}

// newRouter builds the router with middleware and all routes
func (a *App) newRouter() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(accessLog(a.logger, a.metrics))
	r.Use(middleware.Recoverer)
	r.Use(corsHandler(a.cfg.Security.CORSAllowedOrigins))
	r.Use(middleware.Timeout(a.cfg.Server.RequestTimeout))

	// Health check
	r.Get("/healthz", a.healthHandler)
	r.Get("/readyz", a.readyHandler)
	r.Handle("/metrics", a.metricsHandler)

	// Swagger UI documentation
	httpcontroller.NewSwaggerHandler("Insta Calendar Scheduler API", OpenAPISpec).RegisterRoutes(r)

	// One limiter set covers both the functions and the data API
	limit := rateLimit(a.cfg.Security.RateLimitRPM)

	// Backend functions
	r.Route("/functions/v1", func(r chi.Router) {
		r.Use(limit)
		r.Use(auth.Middleware(a.verifier))

		httpcontroller.NewFunctionsHandler(a.postPolicy, a.accountService, a.metrics).RegisterRoutes(r)
	})

	// Data API v1
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(limit)
		r.Use(auth.Middleware(a.verifier))

		httpcontroller.NewPostHandler(a.postPolicy, a.metrics).RegisterRoutes(r)
		httpcontroller.NewCalendarHandler(a.postPolicy).RegisterRoutes(r)
		httpcontroller.NewAccountHandler(a.accountService).RegisterRoutes(r)
		httpcontroller.NewProfileHandler(a.profileService).RegisterRoutes(r)
		httpcontroller.NewMediaHandler(a.mediaService).RegisterRoutes(r)
	})

	return r
}

// healthHandler handles health check requests
func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// readyHandler reports ready once the database answers
func (a *App) readyHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	w.Header().Set("Content-Type", "application/json")
	if err := a.pool.Ping(ctx); err != nil {
		a.logger.Warn("readiness check failed", "error", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"status":"unavailable"}`))
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ready"}`))
}

// Run starts the application and blocks until shutdown signal
func (a *App) Run(ctx context.Context) error {
	if a.sweeper != nil {
		if err := a.sweeper.Start(ctx); err != nil {
			return fmt.Errorf("starting account sweeper: %w", err)
		}
	}

	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server", "addr", a.cfg.Server.Address())
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		_ = a.Shutdown(context.Background())
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		a.logger.Info("received shutdown signal", "signal", sig.String())
	case <-ctx.Done():
		a.logger.Info("context cancelled")
	}

	return a.Shutdown(context.Background())
}

// Shutdown gracefully shuts down the application
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("shutting down...")

	if a.sweeper != nil {
		a.sweeper.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down HTTP server: %w", err)
	}

	if a.pool != nil {
		a.pool.Close()
	}

	a.logger.Info("shutdown complete")
	return nil
}

// countingSweep adapts the account service to the sweeper and counts deactivations
type countingSweep struct {
	svc     *accountservice.Service
	metrics *metrics.Metrics
}

func (c *countingSweep) SweepExpired(ctx context.Context) (int64, error) {
	n, err := c.svc.SweepExpired(ctx)
	if err != nil {
		return 0, err
	}
	c.metrics.AccountsSwept(ctx, n)
	return n, nil
}
