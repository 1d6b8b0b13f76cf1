package webhook

import (
	"context"
	"errors"

	"github.com/marcelsud/webhook-gateway/webhook/signature"
	"github.com/marcelsud/webhook-gateway/webhook/subject"
)

/* ingestGitLab: verify token -> parse -> derive -> publish
 * Token equality is checked before parsing for the same reason the
 * GitHub flow verifies first: unauthenticated bytes stay opaque
 */
func (s *Service) ingestGitLab(ctx context.Context, req Request) (Receipt, error) {
	token := req.Headers.Get(HeaderGitLabToken)
	if err := signature.VerifyGitLabToken(token, s.Secrets.Secret(GitLab)); err != nil {
		return Receipt{}, errors.Join(ErrInvalidSignature, err)
	}

	payload, err := subject.ParseGitLab(req.Body)
	if err != nil {
		return Receipt{}, errors.Join(ErrInvalidPayload, err)
	}

	subj := subject.GitLab(payload)
	event := subject.GitLabEvent(payload)
	key := DedupeKey(GitLab, gitLabDeliveryID(req), req.Body, event)

	headers := map[string]string{
		HeaderMsgID: key,
	}
	if evh := req.Headers.Get(HeaderGitLabEvent); evh != "" {
		headers[HeaderGitLabEvent] = evh
	} else {
		headers[HeaderGitLabEvent] = event
	}
	for _, name := range []string{HeaderIdempotencyKey, HeaderGitLabEventUUID, HeaderGitLabWebhookUUID} {
		if v := req.Headers.Get(name); v != "" {
			headers[name] = v
		}
	}

	if err := s.Pub.Publish(ctx, subj, req.Body, headers); err != nil {
		return Receipt{}, errors.Join(ErrPublishFailed, err)
	}

	return Receipt{Subject: subj, DedupeKey: key, Event: event}, nil
}

/* gitLabDeliveryID picks the delivery identifier for the dedupe key.
 * An idempotency-style header wins over the event UUID, which wins over
 * the webhook UUID; with none present the key falls back to the
 * content hash.
 */
func gitLabDeliveryID(req Request) string {
	for _, name := range []string{HeaderIdempotencyKey, HeaderGitLabEventUUID, HeaderGitLabWebhookUUID} {
		if v := req.Headers.Get(name); v != "" {
			return v
		}
	}
	return ""
}
