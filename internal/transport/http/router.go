// Package httptransport assembles the service router from feature
// handlers and the shared middleware chain.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"muster/internal/platform/metrics"
	"muster/internal/platform/middleware"
	"muster/internal/transport/http/shared"
)

const requestTimeout = 30 * time.Second

// Registrar is implemented by feature handlers that mount their own
// routes.
type Registrar interface {
	Register(r chi.Router)
}

// HealthCheck probes one dependency for the readiness endpoint.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// NewRouter builds the chi router: middleware chain, health and metrics
// endpoints, then every feature handler.
func NewRouter(log *slog.Logger, m *metrics.Metrics, checks []HealthCheck, registrars ...Registrar) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(log))
	r.Use(middleware.Logger(log))
	r.Use(middleware.Latency(m))
	r.Use(middleware.Timeout(requestTimeout))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		shared.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/readyz", func(w http.ResponseWriter, req *http.Request) {
		status := http.StatusOK
		result := make(map[string]string, len(checks))
		for _, check := range checks {
			if err := check.Check(req.Context()); err != nil {
				status = http.StatusServiceUnavailable
				result[check.Name] = err.Error()
				continue
			}
			result[check.Name] = "ok"
		}
		shared.WriteJSON(w, status, result)
	})
	r.Handle("/metrics", promhttp.Handler())

	for _, reg := range registrars {
		reg.Register(r)
	}
	return r
}
