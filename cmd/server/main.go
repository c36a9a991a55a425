package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"beneficios/internal/catalog"
	"beneficios/internal/eligibility/cache"
	"beneficios/internal/eligibility/metrics"
	"beneficios/internal/eligibility/service"
	"beneficios/internal/platform/config"
	"beneficios/internal/platform/health"
	"beneficios/internal/platform/logger"
	"beneficios/internal/platform/redis"
	"beneficios/pkg/platform/middleware/request"
)

const poolStatsInterval = 15 * time.Second

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.IsProduction())

	if err := run(cfg, log); err != nil {
		log.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Server, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("initializing beneficios",
		"addr", cfg.Addr,
		"environment", cfg.Environment,
		"catalog_dir", cfg.CatalogDir,
		"eval_workers", cfg.EvalWorkers,
	)

	cat, err := catalog.LoadDir(cfg.CatalogDir)
	if err != nil {
		return err
	}
	log.Info("catalog loaded", "benefits", cat.Len(), "version", cat.Version())

	opts := []service.Option{
		service.WithLogger(log),
		service.WithMetrics(metrics.New()),
		service.WithWorkers(cfg.EvalWorkers),
	}

	healthHandler := health.New(cfg.Environment, func() health.CatalogInfo {
		return health.CatalogInfo{Version: cat.Version(), Benefits: cat.Len()}
	})

	redisClient, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		// The cache is an optimisation; evaluate without it.
		log.Warn("redis unavailable, summary cache disabled", "error", err)
	}
	if redisClient != nil {
		defer redisClient.Close() //nolint:errcheck // shutdown path
		opts = append(opts, service.WithCache(cache.NewSummaryCache(redisClient.Client, cfg.Redis.SummaryTTL)))
		healthHandler.RegisterCheck("redis", redisClient.Health)
		go recordPoolStats(ctx, redisClient)
		log.Info("summary cache enabled", "ttl", cfg.Redis.SummaryTTL)
	}

	router := newRouter(routerDeps{
		logger:      log,
		eligibility: service.New(cat, opts...),
		health:      healthHandler,
		gatherer:    prometheus.DefaultGatherer,
		latency:     request.NewMetrics(prometheus.DefaultRegisterer),
		timeout:     cfg.RequestTimeout,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting http server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down server gracefully")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info("server stopped")
	return nil
}

func recordPoolStats(ctx context.Context, client *redis.Client) {
	ticker := time.NewTicker(poolStatsInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			client.RecordPoolStats()
		}
	}
}
