package token

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/opsdeck/console-server/internal/session"
)

func TestMinterMint(t *testing.T) {
	minter := NewMinter("test-secret", 5*time.Minute, "console-server")
	ses := &session.Session{
		ID:     "session-1",
		UserID: "user-1",
		Claims: map[string]string{"display_name": "Test"},
	}

	credential, err := minter.Mint(ses)
	if err != nil {
		t.Fatalf("failed to mint a credential: %v", err)
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(credential, claims, func(_ *jwt.Token) (any, error) {
		return []byte("test-secret"), nil
	})
	if err != nil {
		t.Fatalf("failed to parse the minted credential: %v", err)
	}
	if !parsed.Valid {
		t.Fatal("expected the minted credential to be valid")
	}

	if claims.Subject != "user-1" {
		t.Errorf("expected subject 'user-1', got %q", claims.Subject)
	}
	if claims.Issuer != "console-server" {
		t.Errorf("expected issuer 'console-server', got %q", claims.Issuer)
	}
	if claims.ExpiresAt == nil {
		t.Fatal("expected an expiry to be set")
	}
	lifetime := claims.ExpiresAt.Sub(claims.IssuedAt.Time)
	if lifetime != 5*time.Minute {
		t.Errorf("expected a 5m lifetime, got %v", lifetime)
	}
	if claims.SessionClaims["display_name"] != "Test" {
		t.Errorf("expected session claim 'display_name' to be carried, got %q", claims.SessionClaims["display_name"])
	}
}

func TestMinterMintRejectedByWrongSecret(t *testing.T) {
	minter := NewMinter("test-secret", 5*time.Minute, "console-server")

	credential, err := minter.Mint(&session.Session{UserID: "user-1"})
	if err != nil {
		t.Fatalf("failed to mint a credential: %v", err)
	}

	_, err = jwt.ParseWithClaims(credential, &Claims{}, func(_ *jwt.Token) (any, error) {
		return []byte("other-secret"), nil
	})
	if err == nil {
		t.Fatal("expected verification with a different secret to fail")
	}
}

func TestMinterMintWithoutSecret(t *testing.T) {
	minter := NewMinter("", 5*time.Minute, "console-server")

	_, err := minter.Mint(&session.Session{UserID: "user-1"})
	if !errors.Is(err, ErrNoSigningSecret) {
		t.Fatalf("expected ErrNoSigningSecret, got %v", err)
	}
}
