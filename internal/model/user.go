package model

import "time"

// User represents an application user as stored in the `users` table.
// Users are provisioned on the first successful identity exchange and the
// identity fields are immutable afterwards. The json tags match the shape
// the front-end receives from /api/auth/me and /api/auth/session.
//
// Fields:
//  ID         – primary key (UUID string).
//  ExternalID – identifier assigned by the external identity provider.
//  Email      – unique email address.
//  Name       – display name.
//  Picture    – avatar URL (may be empty).
//  CreatedAt  – timestamp of provisioning.
type User struct {
	ID         string    `json:"id"`
	ExternalID string    `json:"-"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	Picture    string    `json:"picture"`
	CreatedAt  time.Time `json:"created_at"`
}
