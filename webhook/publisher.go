package webhook

import "context"

/* Small, focused interfaces following "The Go Way"
 * Interfaces abstract behavior, not things
 * Written for users of the API, not just for testing
 */

// Publisher delivers an ingested webhook to the message broker.
// Implementations own retry and timeout policy; a returned error means
// the message could not be published after the policy was exhausted.
type Publisher interface {
	/* Context is always the first parameter in functions that do I/O
	 * This allows for cancellation, timeouts, and shared values
	 */
	Publish(ctx context.Context, subject string, payload []byte, headers map[string]string) error
}

// HealthChecker reports live broker transport state for health checks
type HealthChecker interface {
	IsConnected() bool
}

// SecretSource resolves the shared secret used to authenticate a
// provider's deliveries
type SecretSource interface {
	Secret(provider Provider) string
}

// StaticSecrets is a SecretSource backed by a fixed map, used when no
// provider overrides file is configured
type StaticSecrets map[Provider]string

func (s StaticSecrets) Secret(provider Provider) string {
	return s[provider]
}
