package webhook

import (
	"context"
	"fmt"
)

/* Service represents the business logic layer
 * Uses pointer semantics as it's an API, not data
 */

// UseCase defines the ingestion operation for inbound webhooks
type UseCase interface {
	/* Ingest authenticates one delivery against the raw body bytes,
	 * derives the routing subject and idempotency key, and publishes
	 * the payload. Expected failures come back as the package's
	 * sentinel errors.
	 */
	Ingest(ctx context.Context, req Request) (Receipt, error)
}

type Service struct {
	Pub     Publisher
	Secrets SecretSource
}

// NewService creates a new ingestion service with dependency injection
func NewService(pub Publisher, secrets SecretSource) *Service {
	return &Service{
		Pub:     pub,
		Secrets: secrets,
	}
}

// Ingest dispatches to the provider's ingestion flow
func (s *Service) Ingest(ctx context.Context, req Request) (Receipt, error) {
	if err := req.Provider.Validate(); err != nil {
		return Receipt{}, fmt.Errorf("validating provider: %w", err)
	}

	switch req.Provider {
	case GitHub:
		return s.ingestGitHub(ctx, req)
	default:
		return s.ingestGitLab(ctx, req)
	}
}
