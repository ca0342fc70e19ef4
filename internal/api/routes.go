package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/ignite/formrelay/internal/config"
	"github.com/ignite/formrelay/internal/observability/metrics"
)

// SetupRoutes configures the submission, health and metrics routes.
// hc may be nil, in which case no health routes are mounted.
func SetupRoutes(forms []config.Form, h *Handlers, hc *HealthChecker, log *zap.Logger) *chi.Mux {
	if log == nil {
		log = zap.NewNop()
	}
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(accessLog(log))
	r.Use(metrics.Middleware)
	r.Use(recoverer(log))

	// The forms are embedded on third-party sites, so any origin may post.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Requested-With"},
		MaxAge:         300,
	}))

	for _, form := range forms {
		r.Post(form.Path, h.Submit(form))
	}

	if hc != nil {
		r.Get("/health", hc.HandleHealth)
		r.Get("/health/live", hc.HandleLiveness)
		r.Get("/health/ready", hc.HandleReadiness)
	}
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}
