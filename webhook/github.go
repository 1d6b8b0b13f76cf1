package webhook

import (
	"context"
	"errors"
	"fmt"

	"github.com/marcelsud/webhook-gateway/webhook/signature"
	"github.com/marcelsud/webhook-gateway/webhook/subject"
)

// gitHubPingEvent is sent by GitHub when a webhook is registered.
// It is acknowledged after authentication without being published.
const gitHubPingEvent = "ping"

/* ingestGitHub: verify -> parse -> derive -> publish
 * The signature is always checked against the untouched raw bytes
 * before any JSON parsing happens; a parsed-but-unauthenticated payload
 * must never influence behavior
 */
func (s *Service) ingestGitHub(ctx context.Context, req Request) (Receipt, error) {
	// SHA-256 header preferred, legacy SHA-1 only when it is absent
	sig := req.Headers.Get(HeaderGitHubSignature256)
	if sig == "" {
		sig = req.Headers.Get(HeaderGitHubSignature)
	}
	if sig == "" {
		return Receipt{}, errors.Join(ErrInvalidSignature, errors.New("no signature header"))
	}
	if err := signature.VerifyGitHub(sig, s.Secrets.Secret(GitHub), req.Body); err != nil {
		return Receipt{}, errors.Join(ErrInvalidSignature, err)
	}

	event := req.Headers.Get(HeaderGitHubEvent)
	if event == "" {
		return Receipt{}, fmt.Errorf("%w: %s", ErrMissingHeader, HeaderGitHubEvent)
	}

	if event == gitHubPingEvent {
		return Receipt{Event: event, Pong: true}, nil
	}

	payload, err := subject.ParseGitHub(req.Body)
	if err != nil {
		return Receipt{}, errors.Join(ErrInvalidPayload, err)
	}

	subj := subject.GitHub(payload, event)
	deliveryID := req.Headers.Get(HeaderGitHubDelivery)
	key := DedupeKey(GitHub, deliveryID, req.Body, event)

	headers := map[string]string{
		HeaderMsgID:       key,
		HeaderGitHubEvent: event,
	}
	if deliveryID != "" {
		headers[HeaderGitHubDelivery] = deliveryID
	}
	if payload.Action != "" {
		headers[HeaderAction] = payload.Action
	}

	if err := s.Pub.Publish(ctx, subj, req.Body, headers); err != nil {
		return Receipt{}, errors.Join(ErrPublishFailed, err)
	}

	return Receipt{Subject: subj, DedupeKey: key, Event: event}, nil
}
