package session

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Session represents a validated end-user session of the console.
// A session is identified by the hash of its raw token; the raw token itself only ever
// lives in the client's cookie and is never persisted.
type Session struct {
	Token    string
	ID       string
	UserID   string
	IssuedAt int64
	Expires  int64
	Claims   map[string]string
}

// Expired returns whether the session is expired at the given point in time
func (ses *Session) Expired(at time.Time) bool {
	return ses.Expires <= at.Unix()
}

// HashToken hashes a raw session token into its storage representation
func HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
