package model

import "time"

// Session models an entry in the `sessions` table. The raw token is an
// opaque 256-bit random value delivered to the browser only via an
// http-only cookie; the database stores its SHA-256 hash.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the session.
//  TokenHash – SHA-256 hex digest of the raw token.
//  ExpiresAt – expiration timestamp (fixed TTL from creation).
//  RevokedAt – when the session was revoked (null while active).
//  CreatedAt – timestamp of creation.
type Session struct {
	ID        uint64
	UserID    string
	TokenHash string
	ExpiresAt time.Time
	RevokedAt *time.Time
	CreatedAt time.Time
}
