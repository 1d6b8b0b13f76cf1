package chi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/httplog"
	"github.com/marcelsud/webhook-gateway/metrics"
	"github.com/marcelsud/webhook-gateway/providers"
	"github.com/marcelsud/webhook-gateway/webhook"
)

/* HTTP layer DTOs for the gateway API
 * Separate from domain entities to avoid leaking internal structure
 */

// statusResponse acknowledges a processed delivery
type statusResponse struct {
	Status string `json:"status"`
}

// errorResponse carries a generic client-facing message; rejection
// detail stays in the logs
type errorResponse struct {
	Error string `json:"error"`
}

// healthResponse reports service and broker state
type healthResponse struct {
	Status string `json:"status"`
	NATS   string `json:"nats"`
}

// infoResponse identifies the service on the root route
type infoResponse struct {
	Service string `json:"service"`
	Status  string `json:"status"`
}

// postWebhook handles POST /webhooks/{provider}
func postWebhook(svc webhook.UseCase, prov *providers.Loader, rec *metrics.Recorder, provider webhook.Provider) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if prov != nil && !prov.Enabled(provider) {
			respondError(w, http.StatusNotFound, "Not found")
			return
		}

		rec.WebhookReceived(r.Context(), provider.String())

		// The raw bytes are what the provider signed; buffer them
		// untouched before anything else looks at the request
		body, err := io.ReadAll(r.Body)
		if err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				respondError(w, http.StatusRequestEntityTooLarge, "Payload too large")
				return
			}
			respondError(w, http.StatusBadRequest, "Failed to read request body")
			return
		}
		defer r.Body.Close()

		start := time.Now()
		receipt, err := svc.Ingest(r.Context(), webhook.Request{
			Provider: provider,
			Body:     body,
			Headers:  r.Header,
		})
		if err != nil {
			respondIngestError(w, r, rec, provider, err)
			return
		}

		if receipt.Pong {
			respondJSON(w, http.StatusOK, statusResponse{Status: "pong"})
			return
		}

		rec.WebhookPublished(r.Context(), provider.String(), receipt.Event, time.Since(start))
		respondJSON(w, http.StatusOK, statusResponse{Status: "ok"})
	})
}

/* respondIngestError is the single place that maps the domain's
 * failure taxonomy to HTTP statuses. Clients get a generic message;
 * the structured log entry carries the real reason with the request id
 */
func respondIngestError(w http.ResponseWriter, r *http.Request, rec *metrics.Recorder, provider webhook.Provider, err error) {
	oplog := httplog.LogEntry(r.Context())

	switch {
	// Per-attempt publish timeouts also surface DeadlineExceeded; only
	// an expired request context is the client-facing timeout
	case errors.Is(err, context.DeadlineExceeded) && r.Context().Err() != nil:
		oplog.Warn().Err(err).Str("provider", provider.String()).Msg("webhook request timed out")
		respondError(w, http.StatusRequestTimeout, "Request timeout")
	case errors.Is(err, webhook.ErrInvalidSignature):
		rec.AuthFailed(r.Context(), provider.String())
		oplog.Warn().Err(err).Str("provider", provider.String()).Msg("webhook rejected")
		respondError(w, http.StatusUnauthorized, "Invalid signature")
	case errors.Is(err, webhook.ErrMissingHeader):
		oplog.Warn().Err(err).Str("provider", provider.String()).Msg("webhook rejected")
		respondError(w, http.StatusBadRequest, "Missing required header")
	case errors.Is(err, webhook.ErrInvalidPayload):
		oplog.Warn().Err(err).Str("provider", provider.String()).Msg("webhook rejected")
		respondError(w, http.StatusBadRequest, "Invalid JSON payload")
	case errors.Is(err, webhook.ErrPublishFailed):
		rec.PublishFailed(r.Context(), provider.String())
		oplog.Error().Err(err).Str("provider", provider.String()).Msg("webhook publish failed")
		respondError(w, http.StatusServiceUnavailable, "Failed to publish webhook")
	default:
		oplog.Error().Err(err).Str("provider", provider.String()).Msg("webhook ingestion failed")
		respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{Error: message})
}
