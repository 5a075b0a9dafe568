package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/opsdeck/console-server/internal/session"
)

// ErrNoSigningSecret is returned when minting is attempted without a configured signing secret
var ErrNoSigningSecret = errors.New("no service credential signing secret is configured")

// Claims represents the claims encoded into a minted service credential
type Claims struct {
	jwt.RegisteredClaims
	SessionClaims map[string]string `json:"session_claims,omitempty"`
}

// Minter mints short-lived signed service credentials bound to a user session.
// A credential is minted freshly for every relay invocation and never cached.
type Minter struct {
	secret []byte
	ttl    time.Duration
	issuer string
}

// NewMinter creates a new service credential minter
func NewMinter(secret string, ttl time.Duration, issuer string) *Minter {
	return &Minter{
		secret: []byte(secret),
		ttl:    ttl,
		issuer: issuer,
	}
}

// Mint mints a signed service credential from the given session.
// The credential carries the session's user ID as its subject, the session's claims and
// an expiry of now plus the configured TTL.
func (minter *Minter) Mint(ses *session.Session) (string, error) {
	if len(minter.secret) == 0 {
		return "", ErrNoSigningSecret
	}

	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   ses.UserID,
			Issuer:    minter.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(minter.ttl)),
		},
		SessionClaims: ses.Claims,
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(minter.secret)
}
