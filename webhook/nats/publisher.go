package nats

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
)

/* JetStream implementation of webhook.Publisher
 * Owns the single process-scoped broker connection; safe for use by
 * many concurrent requests (the nats client serializes internally)
 * Deduplication is delegated to the stream's duplicate window keyed by
 * the Nats-Msg-Id header; the publisher never tracks published keys
 */

// Subject roots the stream captures; one per supported provider
var streamSubjects = []string{"github.>", "gitlab.>"}

// duplicateWindow is how long JetStream remembers message ids for
// dedupe. Provider redeliveries arrive within minutes.
const duplicateWindow = 2 * time.Minute

// Options configures the publisher connection and retry policy
type Options struct {
	URL        string
	Stream     string
	MaxRetries int
	Timeout    time.Duration
	BaseDelay  time.Duration
}

type Publisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext

	maxRetries int
	timeout    time.Duration
	baseDelay  time.Duration
}

// NewPublisher connects to the broker and makes sure the target stream
// exists. Connection loss after startup is handled by the client's own
// unlimited reconnects.
func NewPublisher(opts Options) (*Publisher, error) {
	conn, err := nats.Connect(opts.URL,
		nats.Name("webhook-gateway-"+uuid.New().String()),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("getting JetStream context: %w", err)
	}

	p := &Publisher{
		conn:       conn,
		js:         js,
		maxRetries: opts.MaxRetries,
		timeout:    opts.Timeout,
		baseDelay:  opts.BaseDelay,
	}

	if opts.Stream != "" {
		if err := p.ensureStream(opts.Stream); err != nil {
			conn.Close()
			return nil, err
		}
	}

	return p, nil
}

// ensureStream creates the webhook stream on first boot against a
// fresh broker; an existing stream is left untouched
func (p *Publisher) ensureStream(name string) error {
	_, err := p.js.StreamInfo(name)
	if err == nil {
		return nil
	}
	if !errors.Is(err, nats.ErrStreamNotFound) {
		return fmt.Errorf("looking up stream %s: %w", name, err)
	}

	_, err = p.js.AddStream(&nats.StreamConfig{
		Name:       name,
		Subjects:   streamSubjects,
		Storage:    nats.FileStorage,
		Duplicates: duplicateWindow,
	})
	if err != nil {
		return fmt.Errorf("creating stream %s: %w", name, err)
	}
	return nil
}

/* Publish sends one message with bounded retry. Each attempt is capped
 * by the per-attempt timeout; attempts are separated by exponential
 * backoff. Retrying the same logical message is safe because the
 * broker collapses duplicates on the idempotency header.
 */
func (p *Publisher) Publish(ctx context.Context, subject string, payload []byte, headers map[string]string) error {
	msg := nats.NewMsg(subject)
	msg.Data = payload
	for k, v := range headers {
		msg.Header.Set(k, v)
	}

	return retryWithBackoff(ctx, p.maxRetries, p.baseDelay, func(ctx context.Context) error {
		attemptCtx, cancel := context.WithTimeout(ctx, p.timeout)
		defer cancel()

		_, err := p.js.PublishMsg(msg, nats.Context(attemptCtx))
		return err
	})
}

// IsConnected reflects live transport state, consumed by health checks
func (p *Publisher) IsConnected() bool {
	return p.conn.IsConnected()
}

// Close flushes buffered messages and tears down the connection
func (p *Publisher) Close(ctx context.Context) error {
	err := p.conn.FlushWithContext(ctx)
	p.conn.Close()
	if err != nil && !errors.Is(err, nats.ErrConnectionClosed) {
		return fmt.Errorf("flushing connection: %w", err)
	}
	return nil
}
