// Package identity mints and verifies invocation tokens: the credential
// proving a tool call originates from an authorized script evaluation.
package identity

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"github.com/wardenlabs/tradewarden/internal/model"
)

// NewToken generates a fresh invocation token.
func NewToken() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("identity: generate token: %w", err)
	}
	return "tok-" + hex.EncodeToString(b), nil
}

// Verifier checks candidate tokens against the expected one in constant
// time.
type Verifier struct {
	token []byte
}

// NewVerifier wraps the expected token. An empty token is fatal
// configuration: it would let every caller through.
func NewVerifier(token string) (*Verifier, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: invocation token must not be empty", model.ErrFatalConfiguration)
	}
	return &Verifier{token: []byte(token)}, nil
}

// Verify reports whether candidate matches the expected token.
func (v *Verifier) Verify(candidate string) bool {
	return subtle.ConstantTimeCompare(v.token, []byte(candidate)) == 1
}
