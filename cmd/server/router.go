package main

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"beneficios/internal/eligibility/handler"
	"beneficios/internal/platform/health"
	"beneficios/pkg/platform/middleware/request"
)

// routerDeps is everything the router needs; main builds it, tests fake it.
type routerDeps struct {
	logger      *slog.Logger
	eligibility handler.Service
	health      *health.Handler
	gatherer    prometheus.Gatherer
	latency     *request.Metrics
	timeout     time.Duration
}

// newRouter wires all public endpoints with middleware.
func newRouter(d routerDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(request.RequestID)
	r.Use(request.RequestTime)
	r.Use(request.ClientIP)
	r.Use(request.Logger(d.logger))
	r.Use(request.Recovery(d.logger))
	r.Use(request.LatencyMiddleware(d.latency))

	d.health.Register(r)
	r.Handle("/metrics", promhttp.HandlerFor(d.gatherer, promhttp.HandlerOpts{}))

	r.Group(func(r chi.Router) {
		r.Use(request.BodyLimit(request.DefaultBodyLimit))
		r.Use(request.ContentTypeJSON)
		r.Use(request.Timeout(d.timeout))
		handler.New(d.eligibility, d.logger).Register(r)
	})

	return r
}
