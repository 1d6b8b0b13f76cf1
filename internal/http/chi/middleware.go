package chi

import (
	"context"
	"net/http"
	"strings"
	"time"
)

/* Gateway-specific middleware; everything generic comes from
 * chi/middleware
 */

// requireJSON rejects POSTs whose Content-Type is not application/json.
// Same shape as chi's AllowContentType, but with the gateway's JSON
// error body.
func requireJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ct := r.Header.Get("Content-Type")
		if i := strings.Index(ct, ";"); i >= 0 {
			ct = ct[:i]
		}
		if strings.ToLower(strings.TrimSpace(ct)) != "application/json" {
			respondError(w, http.StatusUnsupportedMediaType, "Unsupported content type")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requestDeadline bounds whole-request latency. Handlers observe the
// deadline through the context and map its expiry to 408; this stays
// independent of, and larger than, the per-publish-attempt timeout
// nested inside it.
func requestDeadline(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
