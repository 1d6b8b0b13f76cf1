package chi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog"
	"github.com/marcelsud/webhook-gateway/config"
	"github.com/marcelsud/webhook-gateway/metrics"
	"github.com/marcelsud/webhook-gateway/providers"
	"github.com/marcelsud/webhook-gateway/webhook"
)

// Handlers assembles the gateway's HTTP surface: the per-provider
// intake routes plus health, info and metrics
func Handlers(ctx context.Context, svc webhook.UseCase, health webhook.HealthChecker, prov *providers.Loader, rec *metrics.Recorder, cfg *config.Config) *chi.Mux {
	// Logger
	logger := httplog.NewLogger("webhook-gateway", httplog.Options{
		JSON:     true,
		LogLevel: cfg.LogLevel,
	})

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httplog.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(requestDeadline(cfg.RequestTimeout))

	r.Get("/", getInfo().ServeHTTP)
	r.Get("/health", getHealth(health).ServeHTTP)
	if rec != nil {
		r.Handle("/metrics", rec.ServeHTTP())
	}

	r.Route("/webhooks", func(r chi.Router) {
		r.Use(middleware.RequestSize(cfg.MaxPayloadBytes()))
		r.Use(requireJSON)
		r.Method(http.MethodPost, "/github", postWebhook(svc, prov, rec, webhook.GitHub))
		r.Method(http.MethodPost, "/gitlab", postWebhook(svc, prov, rec, webhook.GitLab))
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusNotFound, "Not found")
	})

	return r
}

// getInfo handles GET / - liveness only, no dependency checks
func getInfo() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, infoResponse{
			Service: "webhook-gateway",
			Status:  "ok",
		})
	})
}

// getHealth handles GET /health, reporting broker connectivity
func getHealth(hc webhook.HealthChecker) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hc != nil && hc.IsConnected() {
			respondJSON(w, http.StatusOK, healthResponse{Status: "OK", NATS: "connected"})
			return
		}
		respondJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "UNHEALTHY", NATS: "disconnected"})
	})
}
