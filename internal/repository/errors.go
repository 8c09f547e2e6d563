// Package repository implements data access against MySQL. This file
// defines sentinel error values shared across repositories so handlers
// can translate failures into HTTP statuses with errors.Is instead of
// inspecting driver errors.
package repository

import "errors"

// ErrEventNotFound is returned when the referenced event does not exist.
var ErrEventNotFound = errors.New("event not found")

// ErrUserNotFound is returned when the referenced user does not exist.
var ErrUserNotFound = errors.New("user not found")

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own, such as editing somebody else's event.
var ErrForbidden = errors.New("forbidden")

// ErrOrganizerSelfJoin is returned when an event's organizer tries to
// register for their own event. Organizers are implicitly attending.
var ErrOrganizerSelfJoin = errors.New("organizer cannot join own event")

// ErrAlreadyRegistered is returned when a live registration already exists
// for the (event, user) pair. Callers can distinguish "already in" from
// "just joined"; retrying is pointless but harmless.
var ErrAlreadyRegistered = errors.New("already registered")

// ErrEventFull is returned when the capacity check fails: every seat is
// taken at the instant the atomic check-and-insert runs.
var ErrEventFull = errors.New("event is full")

// ErrNotRegistered is returned by leave when no live registration exists.
var ErrNotRegistered = errors.New("not registered")

// ErrSessionInvalid is returned for unknown, expired and revoked session
// tokens alike; callers cannot tell which case occurred.
var ErrSessionInvalid = errors.New("session invalid")

// ErrExchangeReplayed is returned when an external session identifier has
// already been consumed by a successful exchange.
var ErrExchangeReplayed = errors.New("identity exchange already consumed")
