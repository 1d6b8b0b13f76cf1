package signature

import (
	"crypto/hmac"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"hash"
	"strings"
)

/* Provider-specific webhook authentication
 * GitHub signs the raw body with HMAC and sends "<alg>=<hex>"
 * GitLab sends a static bearer token compared for equality
 * Pure functions: no I/O, failure is the returned error
 */

// Algorithm prefixes accepted in GitHub signature headers
const (
	PrefixSHA256 = "sha256="
	PrefixSHA1   = "sha1="
)

/* VerifyGitHub checks a GitHub signature header value against the raw
 * request body. The header carries "<alg>=<hex digest>"; the HMAC is
 * computed over the untouched bytes with the shared secret.
 *
 * The provided digest is length-gated before the constant-time compare:
 * a truncated or padded value is rejected without touching the HMAC
 * result. The gate leaks digest length via timing, which is accepted
 * here since the expected length is public for both algorithms.
 *
 * Returns nil when verified; the error carries the rejection reason for
 * logging, never for the HTTP response body.
 */
func VerifyGitHub(sig, secret string, body []byte) error {
	if secret == "" {
		return fmt.Errorf("empty secret")
	}
	if sig == "" {
		return fmt.Errorf("empty signature")
	}
	if sig != strings.TrimSpace(sig) {
		return fmt.Errorf("signature has surrounding whitespace")
	}

	var newHash func() hash.Hash
	var provided string
	switch {
	case strings.HasPrefix(sig, PrefixSHA256):
		newHash = sha256.New
		provided = strings.TrimPrefix(sig, PrefixSHA256)
	case strings.HasPrefix(sig, PrefixSHA1):
		newHash = sha1.New
		provided = strings.TrimPrefix(sig, PrefixSHA1)
	default:
		return fmt.Errorf("unknown signature algorithm")
	}

	mac := hmac.New(newHash, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	// Length gate before the constant-time compare
	if len(provided) != len(expected) {
		return fmt.Errorf("signature length mismatch")
	}
	if subtle.ConstantTimeCompare([]byte(provided), []byte(expected)) != 1 {
		return fmt.Errorf("signature mismatch")
	}
	return nil
}

/* VerifyGitLabToken checks the X-GitLab-Token header against the shared
 * secret. GitLab's webhook auth model is bearer-token equality, not
 * HMAC, so no hashing is involved.
 */
func VerifyGitLabToken(token, secret string) error {
	if secret == "" {
		return fmt.Errorf("empty secret")
	}
	if token == "" {
		return fmt.Errorf("empty token")
	}
	if token != strings.TrimSpace(token) {
		return fmt.Errorf("token has surrounding whitespace")
	}
	if len(token) != len(secret) {
		return fmt.Errorf("token length mismatch")
	}
	if subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
		return fmt.Errorf("token mismatch")
	}
	return nil
}
