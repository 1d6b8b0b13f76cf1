package nats

import (
	"context"
	"fmt"
	"time"
)

/* Bounded retry with exponential backoff, kept separate from the
 * broker client so the policy is testable without a running server
 */

// retryWithBackoff runs fn up to attempts times. Any error triggers
// another attempt after the backoff delay; once attempts are exhausted
// the last error is returned. A cancelled context stops the loop
// between attempts.
func retryWithBackoff(ctx context.Context, attempts int, base time.Duration, fn func(context.Context) error) error {
	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoffDelay(base, attempt-1)):
			}
		}

		err := fn(ctx)
		if err == nil {
			return nil
		}
		lastErr = err
	}
	return fmt.Errorf("after %d attempts: %w", attempts, lastErr)
}

// backoffDelay computes base * 2^attempt
func backoffDelay(base time.Duration, attempt int) time.Duration {
	return base << attempt
}
