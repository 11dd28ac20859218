package verify

import (
	"crypto/ed25519"
	"encoding/hex"
	"fmt"
)

// Discord interaction signature headers.
const (
	HeaderSignature = "X-Signature-Ed25519"
	HeaderTimestamp = "X-Signature-Timestamp"
)

// InteractionVerifier validates ed25519 signatures on Discord interaction
// callbacks. The signed input is the timestamp header concatenated with the
// exact raw body bytes as received, so verification must run before any
// JSON decoding; a re-serialized body is not guaranteed to match what the
// gateway signed.
type InteractionVerifier struct {
	publicKey ed25519.PublicKey
}

// NewInteractionVerifier builds a verifier from a hex-encoded public key, as
// shown on the Discord application page.
func NewInteractionVerifier(publicKeyHex string) (*InteractionVerifier, error) {
	key, err := hex.DecodeString(publicKeyHex)
	if err != nil {
		return nil, fmt.Errorf("decode public key: %w", err)
	}
	if len(key) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("public key must be %d bytes, got %d", ed25519.PublicKeySize, len(key))
	}
	return &InteractionVerifier{publicKey: ed25519.PublicKey(key)}, nil
}

// Verify checks the signature and timestamp headers against the raw body.
// Returns ErrSignatureMismatch on any failure so callers respond with a
// uniform 401.
func (v *InteractionVerifier) Verify(body []byte, signatureHex, timestamp string) error {
	if signatureHex == "" || timestamp == "" {
		return ErrSignatureMismatch
	}

	sig, err := hex.DecodeString(signatureHex)
	if err != nil || len(sig) != ed25519.SignatureSize {
		return ErrSignatureMismatch
	}

	msg := make([]byte, 0, len(timestamp)+len(body))
	msg = append(msg, timestamp...)
	msg = append(msg, body...)

	if !ed25519.Verify(v.publicKey, msg, sig) {
		return ErrSignatureMismatch
	}
	return nil
}
