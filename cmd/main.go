package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/okian/hobbyseeds/internal/adapters/http/api"
	"github.com/okian/hobbyseeds/internal/adapters/http/swagger"
	app "github.com/okian/hobbyseeds/internal/app"
	"github.com/okian/hobbyseeds/internal/config"
	"github.com/okian/hobbyseeds/internal/domain/catalog"
	"github.com/okian/hobbyseeds/pkg/logger"
	"github.com/okian/hobbyseeds/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout           = 10 * time.Second
	writeTimeout          = 10 * time.Second
	idleTimeout           = 60 * time.Second
	readHeaderTimeout     = 5 * time.Second
	systemMetricsInterval = 10 * time.Second
)

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() { _ = logger.Sync() }()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	if err := logger.InitWith(os.Stdout, cfg.LogFormat); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	// log_level is validated by config.Load.
	_ = logger.SetLevelString(cfg.LogLevel)
	log := logger.Get()

	opts, err := serviceOptions(cfg, log)
	if err != nil {
		log.Error(ctx, "failed to load catalog", logger.String("dir", cfg.CatalogDir), logger.Error(err))
		return
	}

	svc := app.New(opts...)
	if err := svc.Start(ctx); err != nil {
		log.Error(ctx, "failed to start service", logger.Error(err))
		return
	}

	go startSystemMetricsUpdater(ctx)

	srv := newHTTPServer(cfg.Addr, newRouter(ctx, svc, cfg.ResultsPerPage))

	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "HTTP server failed", logger.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.ShutdownTimeoutMS)*time.Millisecond)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(shutdownCtx, "server shutdown failed", logger.Error(err))
	}
	// Queued log mutations are applied before the store closes.
	if err := svc.Stop(shutdownCtx); err != nil {
		log.Error(shutdownCtx, "service shutdown failed", logger.Error(err))
	}

	log.Info(shutdownCtx, "server stopped")
}

// serviceOptions maps configuration onto service options, loading the
// catalog override when one is configured.
func serviceOptions(cfg *config.Config, log logger.Logger) ([]app.Option, error) {
	opts := []app.Option{
		app.WithLogger(log.Named("service")),
		app.WithStoreConfig(cfg.LogStore()),
		app.WithQueueSize(cfg.QueueSize),
		app.WithDedupeSize(cfg.DedupeSize),
		app.WithRandomSeed(cfg.RandomSeed),
	}
	if cfg.CatalogDir != "" {
		c, err := catalog.LoadDir(cfg.CatalogDir)
		if err != nil {
			return nil, err
		}
		opts = append(opts, app.WithCatalog(c))
	}
	return opts, nil
}

// newRouter mounts the API and its documentation on one router.
func newRouter(ctx context.Context, deps api.Dependencies, perPage int) chi.Router {
	r := api.NewServer(deps, api.WithPerPage(perPage)).Router()
	swagger.Register(ctx, r)
	return r
}

func newHTTPServer(addr string, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}
}

// startSystemMetricsUpdater refreshes the system gauges until ctx is done.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			metrics.UpdateSystemMetrics()
		}
	}
}
