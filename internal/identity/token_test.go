package identity

import (
	"errors"
	"strings"
	"testing"

	"github.com/wardenlabs/tradewarden/internal/model"
)

func TestNewTokenShape(t *testing.T) {
	token, err := NewToken()
	if err != nil {
		t.Fatalf("NewToken: %v", err)
	}
	if !strings.HasPrefix(token, "tok-") {
		t.Errorf("expected tok- prefix, got %q", token)
	}
	if len(token) != len("tok-")+32 {
		t.Errorf("unexpected token length %d", len(token))
	}
}

func TestNewTokenUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token, err := NewToken()
		if err != nil {
			t.Fatalf("NewToken: %v", err)
		}
		if seen[token] {
			t.Fatalf("duplicate token %q", token)
		}
		seen[token] = true
	}
}

func TestVerifier(t *testing.T) {
	v, err := NewVerifier("tok-secret")
	if err != nil {
		t.Fatalf("NewVerifier: %v", err)
	}
	if !v.Verify("tok-secret") {
		t.Error("expected matching token accepted")
	}
	for _, bad := range []string{"", "tok-secre", "tok-secrets", "tok-public"} {
		if v.Verify(bad) {
			t.Errorf("expected token %q rejected", bad)
		}
	}
}

func TestEmptyTokenIsFatal(t *testing.T) {
	_, err := NewVerifier("")
	if !errors.Is(err, model.ErrFatalConfiguration) {
		t.Errorf("expected ErrFatalConfiguration, got %v", err)
	}
}
