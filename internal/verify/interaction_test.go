package verify

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"testing"
)

func newTestKeypair(t *testing.T) (string, ed25519.PrivateKey) {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate keypair: %v", err)
	}
	return hex.EncodeToString(pub), priv
}

func signInteraction(priv ed25519.PrivateKey, timestamp string, body []byte) string {
	msg := append([]byte(timestamp), body...)
	return hex.EncodeToString(ed25519.Sign(priv, msg))
}

func TestNewInteractionVerifier(t *testing.T) {
	pubHex, _ := newTestKeypair(t)

	if _, err := NewInteractionVerifier(pubHex); err != nil {
		t.Errorf("valid key rejected: %v", err)
	}
	if _, err := NewInteractionVerifier("zzzz"); err == nil {
		t.Error("non-hex key accepted")
	}
	if _, err := NewInteractionVerifier("abcd"); err == nil {
		t.Error("short key accepted")
	}
}

func TestInteractionVerify(t *testing.T) {
	pubHex, priv := newTestKeypair(t)
	verifier, err := NewInteractionVerifier(pubHex)
	if err != nil {
		t.Fatalf("NewInteractionVerifier: %v", err)
	}

	body := []byte(`{"id":"1","type":1}`)
	timestamp := "1700000000"
	sig := signInteraction(priv, timestamp, body)

	tests := []struct {
		name      string
		body      []byte
		signature string
		timestamp string
		wantErr   bool
	}{
		{"valid", body, sig, timestamp, false},
		{"tampered body", []byte(`{"id":"2","type":1}`), sig, timestamp, true},
		{"wrong timestamp", body, sig, "1700000001", true},
		{"missing signature", body, "", timestamp, true},
		{"missing timestamp", body, sig, "", true},
		{"malformed signature", body, "not-hex", timestamp, true},
		{"truncated signature", body, sig[:64], timestamp, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := verifier.Verify(tt.body, tt.signature, tt.timestamp)
			if (err != nil) != tt.wantErr {
				t.Errorf("Verify() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && err != ErrSignatureMismatch {
				t.Errorf("error should be ErrSignatureMismatch, got: %v", err)
			}
		})
	}
}

func TestInteractionVerifyWrongKey(t *testing.T) {
	pubHex, _ := newTestKeypair(t)
	_, otherPriv := newTestKeypair(t)

	verifier, err := NewInteractionVerifier(pubHex)
	if err != nil {
		t.Fatalf("NewInteractionVerifier: %v", err)
	}

	body := []byte(`{"id":"1","type":1}`)
	timestamp := "1700000000"
	sig := signInteraction(otherPriv, timestamp, body)

	if err := verifier.Verify(body, sig, timestamp); err == nil {
		t.Error("signature from a different key accepted")
	}
}
