package utils // package utils provides helper functions for session token handling

import (
	"crypto/rand"   // secure random number generation
	"crypto/sha256" // SHA-256 hashing for session tokens
	"encoding/hex"  // hex encoding of tokens and digests
	"time"          // expiration timestamps
)

// SessionToken represents a freshly issued session token. The Raw field is
// the value delivered to the browser in the http-only cookie; only its
// SHA-256 hash is ever stored server side. Exp records when it expires.
type SessionToken struct {
	Raw string    // raw token string set in the cookie
	Exp time.Time // UTC expiration time
}

// NewSessionToken returns a cryptographically secure random token and its
// expiration time. Tokens carry 256 bits of entropy (32 random bytes, 64
// hex characters). The ttl parameter controls how long the session lives;
// the TTL is fixed, not sliding.
func NewSessionToken(ttl time.Duration) (SessionToken, error) {
	raw, err := randomHex(32)
	if err != nil {
		return SessionToken{}, err
	}
	return SessionToken{
		Raw: raw,
		Exp: time.Now().UTC().Add(ttl),
	}, nil
}

// HashToken returns the SHA-256 hash of a raw token as a hex string.
// Storing only the hash means a leaked database dump cannot be replayed
// as live sessions.
func HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// randomHex returns a hex-encoded string generated from n bytes of
// cryptographically secure random data.
func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
