package webhook

import (
	"errors"
	"fmt"
	"net/http"
)

/* Provider represents a supported webhook source
 * The set is closed: a provider is selected by route, never by
 * inspecting the payload
 */
type Provider int

const (
	GitHub Provider = iota + 1
	GitLab
)

// String returns the string representation of the provider
func (p Provider) String() string {
	switch p {
	case GitHub:
		return "github"
	case GitLab:
		return "gitlab"
	default:
		return "unknown"
	}
}

// NewProvider creates a Provider from a string
func NewProvider(s string) Provider {
	switch s {
	case "github":
		return GitHub
	case "gitlab":
		return GitLab
	default:
		return 0
	}
}

// Validate checks if the provider is valid
func (p Provider) Validate() error {
	if p != GitHub && p != GitLab {
		return fmt.Errorf("invalid provider: %d", p)
	}
	return nil
}

// Transport header names attached to every published message
const (
	HeaderMsgID              = "Nats-Msg-Id"
	HeaderAction             = "X-Webhook-Action"
	HeaderGitHubEvent        = "X-GitHub-Event"
	HeaderGitHubDelivery     = "X-GitHub-Delivery"
	HeaderGitHubSignature256 = "X-Hub-Signature-256"
	HeaderGitHubSignature    = "X-Hub-Signature"
	HeaderGitLabToken        = "X-GitLab-Token"
	HeaderGitLabEvent        = "X-GitLab-Event"
	HeaderGitLabEventUUID    = "X-Gitlab-Event-UUID"
	HeaderGitLabWebhookUUID  = "X-Gitlab-Webhook-UUID"
	HeaderIdempotencyKey     = "Idempotency-Key"
)

/* Request represents one inbound webhook delivery
 * Value semantics: built once from the HTTP request, never mutated
 */
type Request struct {
	Provider Provider
	Body     []byte
	Headers  http.Header
}

// Receipt is what a successful ingestion hands back to the HTTP layer
type Receipt struct {
	Subject   string
	DedupeKey string
	Event     string
	// Pong is set for a GitHub ping, which is acknowledged without publishing
	Pong bool
}

/* Expected failure modes are sentinel errors, not panics
 * The HTTP layer maps them to status codes in one place
 */
var (
	ErrInvalidSignature = errors.New("invalid signature")
	ErrMissingHeader    = errors.New("missing required header")
	ErrInvalidPayload   = errors.New("invalid payload")
	ErrPublishFailed    = errors.New("failed to publish webhook")
)
