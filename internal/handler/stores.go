package handler

import (
	"context"
	"time"

	"github.com/socialchessevents/events-api/internal/identity"
	"github.com/socialchessevents/events-api/internal/model"
	"github.com/socialchessevents/events-api/internal/repository"
	"github.com/socialchessevents/events-api/internal/utils"
)

// Handlers consume these small interfaces instead of the concrete
// repositories so tests can run against in-memory fakes. The repository
// package provides the MySQL implementations.

// UserStore provisions and looks up user identities.
type UserStore interface {
	UpsertByExternalID(ctx context.Context, externalID, email, name, picture string) (model.User, error)
	GetByID(ctx context.Context, id string) (model.User, error)
}

// SessionStore issues and revokes session tokens.
type SessionStore interface {
	Create(ctx context.Context, userID string, ttl time.Duration) (utils.SessionToken, error)
	Revoke(ctx context.Context, raw string) error
}

// ExchangeStore tracks one-time consumption of external session ids.
type ExchangeStore interface {
	Claim(ctx context.Context, externalIDHash string) error
	Bind(ctx context.Context, externalIDHash, userID string) error
	Release(ctx context.Context, externalIDHash string) error
}

// IdentityResolver exchanges a one-time session id for the user profile.
type IdentityResolver interface {
	Resolve(ctx context.Context, sessionID string) (identity.Profile, error)
}

// EventStore persists and queries events.
type EventStore interface {
	Create(ctx context.Context, ev *model.Event) error
	GetByID(ctx context.Context, id string) (model.Event, error)
	GetSummary(ctx context.Context, id, viewerID string) (repository.EventSummary, error)
	List(ctx context.Context, f repository.EventFilter, viewerID string) ([]repository.EventSummary, error)
	Update(ctx context.Context, callerID string, ev *model.Event) error
}

// RegistrationLedger is the seat ledger: atomic join, idempotent leave,
// ordered attendee listing.
type RegistrationLedger interface {
	Join(ctx context.Context, eventID, userID string) error
	Leave(ctx context.Context, eventID, userID string) error
	ListAttendees(ctx context.Context, eventID string) ([]model.Attendee, error)
}
