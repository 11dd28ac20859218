package verify

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"strings"
)

// ErrSignatureMismatch is the only error surfaced by webhook verification.
// It is deliberately generic so responses never leak which check failed.
var ErrSignatureMismatch = errors.New("signature verification failed")

// Policy decides whether GitHub webhook signatures are verified.
//
// The weak "no secret configured, accept everything" mode is modeled as an
// explicit Disabled policy rather than an empty-string check, so callers can
// see and test which mode they are running in.
type Policy struct {
	enforced bool
	secret   string
}

// Enforced returns a policy that requires a valid HMAC-SHA256 signature
// computed with secret over the raw request body.
func Enforced(secret string) Policy {
	return Policy{enforced: true, secret: secret}
}

// Disabled returns a policy that accepts every request regardless of
// signature header presence.
func Disabled() Policy {
	return Policy{}
}

// Enforcing reports whether this policy verifies signatures.
func (p Policy) Enforcing() bool {
	return p.enforced
}

// VerifyGitHub checks the X-Hub-Signature-256 style header value against the
// raw body. A disabled policy accepts anything. An enforcing policy treats a
// missing header as a mismatch, never as a skip.
//
// Comparison is constant-time (crypto/subtle) to prevent timing attacks.
func (p Policy) VerifyGitHub(body []byte, signature string) error {
	if !p.enforced {
		return nil
	}
	if signature == "" {
		return ErrSignatureMismatch
	}

	actualMAC, err := parseSignature(signature)
	if err != nil {
		return ErrSignatureMismatch
	}

	mac := hmac.New(sha256.New, []byte(p.secret))
	mac.Write(body)
	expectedMAC := mac.Sum(nil)

	if subtle.ConstantTimeCompare(expectedMAC, actualMAC) != 1 {
		return ErrSignatureMismatch
	}
	return nil
}

// parseSignature decodes a signature header in GitHub's "sha256=<hex>"
// format or as plain hex.
func parseSignature(signature string) ([]byte, error) {
	if strings.HasPrefix(signature, "sha256=") {
		return hex.DecodeString(strings.TrimPrefix(signature, "sha256="))
	}
	return hex.DecodeString(signature)
}

// GitHubSignature computes the X-Hub-Signature-256 header value for a body.
// Used by tests and by senders that need to sign outbound callbacks.
func GitHubSignature(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}
