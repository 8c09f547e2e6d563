package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/socialchessevents/events-api/internal/model"
)

// RegistrationRepo is the ledger of held seats. Join is the only operation
// in the service that needs mutual exclusion: the capacity check and the
// insert must be one atomic unit with respect to concurrent joins for the
// same event, or two requests racing for the last seat can both succeed.
//
// The atomicity unit is the InnoDB row lock taken by SELECT ... FOR UPDATE
// on the event row. Every join for event E serializes on E's row until the
// holding transaction commits or rolls back; joins for different events
// never block each other. The naive read-then-write (count, compare,
// insert in separate statements) reads the same snapshot in both racing
// transactions and overbooks, which is exactly what the lock prevents.
type RegistrationRepo struct{ db *sql.DB }

func NewRegistrationRepo(db *sql.DB) *RegistrationRepo { return &RegistrationRepo{db: db} }

// Join registers userID for eventID, enforcing in order: event existence,
// the organizer-exclusion rule, idempotent duplicate rejection and the
// capacity bound. The whole sequence runs inside one transaction; on any
// failure nothing is written.
func (r *RegistrationRepo) Join(ctx context.Context, eventID, userID string) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin join tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	// Lock the event row. Concurrent joins for the same event queue here.
	var organizerID string
	var maxSeats int
	err = tx.QueryRowContext(ctx,
		"SELECT organizer_id, max_seats FROM events WHERE id = ? FOR UPDATE",
		eventID).Scan(&organizerID, &maxSeats)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrEventNotFound
		}
		return fmt.Errorf("lock event row: %w", err)
	}

	if userID == organizerID {
		return ErrOrganizerSelfJoin
	}

	var dup int
	err = tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM registrations WHERE event_id = ? AND user_id = ?",
		eventID, userID).Scan(&dup)
	if err != nil {
		return fmt.Errorf("check duplicate: %w", err)
	}
	if dup > 0 {
		return ErrAlreadyRegistered
	}

	var taken int
	err = tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM registrations WHERE event_id = ?",
		eventID).Scan(&taken)
	if err != nil {
		return fmt.Errorf("count registrations: %w", err)
	}
	if taken >= maxSeats {
		return ErrEventFull
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO registrations (event_id, user_id) VALUES (?, ?)",
		eventID, userID)
	if err != nil {
		// The compound unique key catches a duplicate slipping past the
		// count under a weaker isolation level.
		if isDuplicateKey(err) {
			return ErrAlreadyRegistered
		}
		return fmt.Errorf("insert registration: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit join: %w", err)
	}
	return nil
}

// Leave removes the live registration for (eventID, userID). When no row
// exists it returns ErrNotRegistered, which makes a blind retry after a
// timeout safe: the second attempt reports the seat already released.
func (r *RegistrationRepo) Leave(ctx context.Context, eventID, userID string) error {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM registrations WHERE event_id = ? AND user_id = ?",
		eventID, userID)
	if err != nil {
		return fmt.Errorf("delete registration: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotRegistered
	}
	return nil
}

// ListAttendees returns the registrants of an event joined with their
// public identity, ordered by join time ascending (first come, first
// listed). The id tiebreak keeps the order stable when timestamps collide.
func (r *RegistrationRepo) ListAttendees(ctx context.Context, eventID string) ([]model.Attendee, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT g.user_id, u.name, u.picture, g.created_at
		 FROM registrations g
		 JOIN users u ON u.id = g.user_id
		 WHERE g.event_id = ?
		 ORDER BY g.created_at ASC, g.id ASC`,
		eventID)
	if err != nil {
		return nil, fmt.Errorf("list attendees: %w", err)
	}
	defer rows.Close()

	out := []model.Attendee{}
	for rows.Next() {
		var a model.Attendee
		if err := rows.Scan(&a.UserID, &a.Name, &a.Picture, &a.JoinedAt); err != nil {
			return nil, fmt.Errorf("scan attendee: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// CountForEvent returns the number of live registrations for an event.
func (r *RegistrationRepo) CountForEvent(ctx context.Context, eventID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM registrations WHERE event_id = ?", eventID).Scan(&n)
	return n, err
}
