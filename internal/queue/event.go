// Package queue defines message payloads exchanged over the message broker.
package queue

// RegistrationConfirmedEvent is published after a join commits. It carries
// enough for downstream consumers (audit log, future notification senders)
// without querying the primary database.
type RegistrationConfirmedEvent struct {
	EventID     string `json:"event_id"`
	UserID      string `json:"user_id"`
	Title       string `json:"title"`
	City        string `json:"city"`
	Date        string `json:"date"`
	SeatsTaken  int    `json:"seats_taken"`
	MaxSeats    int    `json:"max_seats"`
	ConfirmedAt string `json:"confirmed_at"`
}
