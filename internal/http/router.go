// Package httpapi assembles the full HTTP surface: middleware chain, auth,
// claims endpoints, health, and metrics.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"byggekrav/internal/auth"
	claimshandler "byggekrav/internal/claims/handler"
	"byggekrav/internal/platform/metrics"
	"byggekrav/internal/platform/middleware"
	"byggekrav/pkg/platform/httputil"
)

// HealthChecker reports whether a backing dependency is reachable.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Deps collects everything the router mounts. Auth may be nil when token
// issuance is disabled; HealthChecks may be empty.
type Deps struct {
	Logger         *slog.Logger
	Metrics        *metrics.Metrics
	Claims         claimshandler.Service
	Auth           *auth.Handler
	JWTValidator   middleware.JWTValidator
	RequestTimeout time.Duration
	HealthChecks   map[string]HealthChecker
}

// NewRouter builds the chi router with the standard middleware chain. The
// token endpoint, health, and metrics sit outside RequireAuth; every claims
// endpoint sits inside it.
func NewRouter(d Deps) http.Handler {
	timeout := d.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	r := chi.NewRouter()
	r.Use(middleware.Recovery(d.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.Device)
	r.Use(middleware.Logger(d.Logger))
	r.Use(middleware.Timeout(timeout))
	r.Use(middleware.ContentTypeJSON)
	r.Use(middleware.LatencyMiddleware(d.Metrics))

	r.Get("/healthz", healthHandler(d.HealthChecks))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	if d.Auth != nil {
		d.Auth.Register(r)
	}

	r.Group(func(pr chi.Router) {
		pr.Use(middleware.RequireAuth(d.JWTValidator, d.Logger))
		claimshandler.New(d.Claims, d.Logger).Register(pr)
	})

	return r
}

// healthHandler reports the health of each registered dependency. The
// endpoint stays 200 while every check passes and flips to 503 otherwise.
func healthHandler(checks map[string]HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		body := map[string]string{"status": "ok"}
		for name, check := range checks {
			if err := check.Health(ctx); err != nil {
				status = http.StatusServiceUnavailable
				body["status"] = "degraded"
				body[name] = err.Error()
			} else {
				body[name] = "ok"
			}
		}
		httputil.WriteJSON(w, status, body)
	}
}
