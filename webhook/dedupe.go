package webhook

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

/* DedupeKey derives the broker idempotency key for one delivery
 * A provider-issued delivery identifier dominates; without one the key
 * is a content digest so byte-identical redeliveries collapse to the
 * same key
 */
func DedupeKey(provider Provider, deliveryID string, body []byte, eventType string) string {
	if deliveryID != "" {
		return fmt.Sprintf("%s-%s", provider, deliveryID)
	}

	h := sha256.New()
	h.Write(body)
	h.Write([]byte(eventType))
	return fmt.Sprintf("%s-%s", provider, hex.EncodeToString(h.Sum(nil)))
}
