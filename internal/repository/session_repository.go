package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/socialchessevents/events-api/internal/utils"
)

// SessionRepo persists and validates session tokens. Only the SHA-256 of
// a token is stored (single 'token_hash' column); the raw value lives in
// the browser's http-only cookie and nowhere else.
type SessionRepo struct{ DB *sql.DB }

func NewSessionRepo(db *sql.DB) *SessionRepo { return &SessionRepo{DB: db} }

// Create issues a fresh session for userID with a fixed TTL and inserts
// its hash. The raw token is returned to be set as a cookie.
func (r *SessionRepo) Create(ctx context.Context, userID string, ttl time.Duration) (utils.SessionToken, error) {
	tok, err := utils.NewSessionToken(ttl)
	if err != nil {
		return utils.SessionToken{}, err
	}
	_, err = r.DB.ExecContext(ctx,
		"INSERT INTO sessions (user_id, token_hash, expires_at) VALUES (?,?,?)",
		userID, utils.HashToken(tok.Raw), tok.Exp)
	if err != nil {
		return utils.SessionToken{}, err
	}
	return tok, nil
}

// Validate returns the owning user id for a raw token. Unknown, expired
// and revoked tokens all surface as ErrSessionInvalid; the distinction is
// not observable by callers. This runs on every authenticated request, so
// it is a single indexed select with no writes.
func (r *SessionRepo) Validate(ctx context.Context, raw string) (string, error) {
	var (
		userID    string
		expiresAt time.Time
		revokedAt sql.NullTime
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT user_id, expires_at, revoked_at FROM sessions WHERE token_hash=? LIMIT 1",
		utils.HashToken(raw)).Scan(&userID, &expiresAt, &revokedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrSessionInvalid
		}
		return "", err
	}
	if revokedAt.Valid {
		return "", ErrSessionInvalid
	}
	if time.Now().UTC().After(expiresAt) {
		return "", ErrSessionInvalid
	}
	return userID, nil
}

// Revoke marks the session for a raw token as revoked. Revoking an
// unknown or already revoked token is not an error.
func (r *SessionRepo) Revoke(ctx context.Context, raw string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE sessions SET revoked_at=NOW() WHERE token_hash=? AND revoked_at IS NULL",
		utils.HashToken(raw))
	return err
}

// RevokeAllForUser revokes every active session a user holds.
func (r *SessionRepo) RevokeAllForUser(ctx context.Context, userID string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE sessions SET revoked_at=NOW() WHERE user_id=? AND revoked_at IS NULL",
		userID)
	return err
}
