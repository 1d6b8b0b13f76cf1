package providers

import (
	"fmt"
	"os"

	"github.com/marcelsud/webhook-gateway/webhook"
	"gopkg.in/yaml.v3"
)

/* Loader manages provider configuration from providers.yaml
 * Provides in-memory lookup for fast access
 */

// Config represents the structure of providers.yaml
type Config struct {
	Providers []ProviderConfig `yaml:"providers"`
}

// ProviderConfig represents a single provider in the YAML file
type ProviderConfig struct {
	Name    string `yaml:"name"`
	Secret  string `yaml:"secret"`  // Optional: overrides the global secret
	Enabled *bool  `yaml:"enabled"` // Optional: defaults to true
}

// Loader holds the effective per-provider configuration
type Loader struct {
	providers map[webhook.Provider]*Provider
}

// NewLoader creates a loader with both providers enabled on the global
// secret; an overrides file layered on top with Load is optional
func NewLoader(globalSecret string) *Loader {
	l := &Loader{providers: make(map[webhook.Provider]*Provider)}
	for _, p := range []webhook.Provider{webhook.GitHub, webhook.GitLab} {
		l.providers[p] = &Provider{
			Name:    p.String(),
			Secret:  globalSecret,
			Enabled: true,
		}
	}
	return l
}

// Load reads and applies the providers.yaml overrides file
func (l *Loader) Load(filePath string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("reading providers file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return fmt.Errorf("parsing providers YAML: %w", err)
	}

	for _, pc := range config.Providers {
		key := webhook.NewProvider(pc.Name)

		provider := &Provider{
			Name:    pc.Name,
			Enabled: true,
		}
		if pc.Enabled != nil {
			provider.Enabled = *pc.Enabled
		}
		provider.Secret = pc.Secret
		if provider.Secret == "" {
			if existing, ok := l.providers[key]; ok {
				provider.Secret = existing.Secret
			}
		}

		if err := provider.Validate(); err != nil {
			return fmt.Errorf("validating provider: %w", err)
		}

		l.providers[key] = provider
	}

	return nil
}

// Secret implements webhook.SecretSource
func (l *Loader) Secret(provider webhook.Provider) string {
	p, exists := l.providers[provider]
	if !exists {
		return ""
	}
	return p.Secret
}

// Enabled reports whether the provider accepts deliveries
func (l *Loader) Enabled(provider webhook.Provider) bool {
	p, exists := l.providers[provider]
	return exists && p.Enabled
}

// List returns the effective configuration for all providers
func (l *Loader) List() []*Provider {
	providers := make([]*Provider, 0, len(l.providers))
	for _, p := range l.providers {
		providers = append(providers, p)
	}
	return providers
}
