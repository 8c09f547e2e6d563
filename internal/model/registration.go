package model

import "time"

// Registration records one held seat: a (event, user) pair unique for as
// long as the row lives. Created by join, deleted by leave.
type Registration struct {
	ID        uint64
	EventID   string
	UserID    string
	CreatedAt time.Time
}

// Attendee is a registration joined with the registrant's public identity,
// as returned by the attendee listing (ordered by join time ascending).
type Attendee struct {
	UserID   string    `json:"user_id"`
	Name     string    `json:"name"`
	Picture  string    `json:"picture"`
	JoinedAt time.Time `json:"joined_at"`
}
