package providers

import (
	"fmt"

	"github.com/marcelsud/webhook-gateway/webhook"
)

/* Provider represents the intake configuration for one webhook source
 * Overrides from providers.yaml layer on top of the global secret
 */
type Provider struct {
	Name    string
	Secret  string // shared secret for this provider's deliveries
	Enabled bool
}

// Validate checks if the provider configuration is valid
func (p *Provider) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("provider name cannot be empty")
	}
	if webhook.NewProvider(p.Name).Validate() != nil {
		return fmt.Errorf("unsupported provider: %s", p.Name)
	}
	if p.Enabled && p.Secret == "" {
		return fmt.Errorf("provider %s is enabled but has no secret", p.Name)
	}
	return nil
}
