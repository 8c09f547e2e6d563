package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/socialchessevents/events-api/internal/model"
)

// EventRepo provides persistence for events. seats_taken is never stored:
// every read derives it from a COUNT over live registrations so the value
// cannot drift from ground truth.
type EventRepo struct{ db *sql.DB }

func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{db: db} }

// DB exposes the underlying handle so callers can open transactions that
// span events and registrations.
func (r *EventRepo) DB() *sql.DB { return r.db }

// EventFilter holds the independently optional listing filters. Filters
// compose with AND; the zero value matches everything.
type EventFilter struct {
	City       string // substring match on city
	DateFilter string // "today" | "this-week" | "this-month"
	SkillLevel string
	EventType  string
}

// EventSummary is an event row enriched with the derived seat count and,
// for authenticated viewers, whether the viewer holds a registration.
type EventSummary struct {
	model.Event
	SeatsTaken int   `json:"seats_taken"`
	UserJoined *bool `json:"user_joined,omitempty"`
}

const eventColumns = `e.id, e.organizer_id, e.organizer_kind, e.title, e.description,
	e.city, e.address, DATE_FORMAT(e.date, '%Y-%m-%d'), e.time, e.event_type,
	e.skill_level, e.max_seats, e.image_url, e.created_at`

// Create inserts a new event with a generated UUID. Field validation is
// the handler's concern; the database still rejects max_seats < 1.
func (r *EventRepo) Create(ctx context.Context, ev *model.Event) error {
	ev.ID = uuid.New().String()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO events (id, organizer_id, organizer_kind, title, description,
			city, address, date, time, event_type, skill_level, max_seats, image_url)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		ev.ID, ev.OrganizerID, ev.OrganizerKind, ev.Title, ev.Description,
		ev.City, ev.Address, ev.Date, ev.Time, ev.EventType, ev.SkillLevel,
		ev.MaxSeats, ev.ImageURL)
	return err
}

// GetByID returns the bare event row or ErrEventNotFound.
func (r *EventRepo) GetByID(ctx context.Context, id string) (model.Event, error) {
	var ev model.Event
	err := r.db.QueryRowContext(ctx,
		"SELECT "+eventColumns+" FROM events e WHERE e.id=?", id).Scan(
		&ev.ID, &ev.OrganizerID, &ev.OrganizerKind, &ev.Title, &ev.Description,
		&ev.City, &ev.Address, &ev.Date, &ev.Time, &ev.EventType,
		&ev.SkillLevel, &ev.MaxSeats, &ev.ImageURL, &ev.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Event{}, ErrEventNotFound
	}
	return ev, err
}

// GetSummary returns one event with seats_taken derived and, when viewerID
// is non-empty, the viewer's user_joined flag.
func (r *EventRepo) GetSummary(ctx context.Context, id, viewerID string) (EventSummary, error) {
	rows, err := r.query(ctx, viewerID, "e.id = ?", []any{id})
	if err != nil {
		return EventSummary{}, err
	}
	if len(rows) == 0 {
		return EventSummary{}, ErrEventNotFound
	}
	return rows[0], nil
}

// List returns event summaries matching the filter, soonest first. An
// unmatched filter combination yields an empty slice, never an error.
func (r *EventRepo) List(ctx context.Context, f EventFilter, viewerID string) ([]EventSummary, error) {
	where := []string{}
	args := []any{}

	if f.City != "" {
		where = append(where, "LOWER(e.city) LIKE ?")
		args = append(args, "%"+escapeLike(strings.ToLower(f.City))+"%")
	}
	switch f.DateFilter {
	case "today":
		where = append(where, "e.date = CURDATE()")
	case "this-week":
		where = append(where, "e.date >= CURDATE() AND e.date < DATE_ADD(CURDATE(), INTERVAL 7 DAY)")
	case "this-month":
		where = append(where, "e.date >= CURDATE() AND e.date < DATE_ADD(CURDATE(), INTERVAL 1 MONTH)")
	}
	if f.SkillLevel != "" {
		where = append(where, "e.skill_level = ?")
		args = append(args, f.SkillLevel)
	}
	if f.EventType != "" {
		where = append(where, "e.event_type = ?")
		args = append(args, f.EventType)
	}

	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}
	return r.query(ctx, viewerID, cond, args)
}

// escapeLike neutralizes LIKE metacharacters so the city filter matches
// the user input as a literal substring.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}

func (r *EventRepo) query(ctx context.Context, viewerID, cond string, args []any) ([]EventSummary, error) {
	q := `SELECT ` + eventColumns + `,
		(SELECT COUNT(*) FROM registrations g WHERE g.event_id = e.id) AS seats_taken,
		EXISTS(SELECT 1 FROM registrations j WHERE j.event_id = e.id AND j.user_id = ?) AS user_joined
	FROM events e
	WHERE ` + cond + `
	ORDER BY e.date ASC, e.time ASC, e.created_at ASC`

	rows, err := r.db.QueryContext(ctx, q, append([]any{viewerID}, args...)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []EventSummary{}
	for rows.Next() {
		var s EventSummary
		var joined bool
		if err := rows.Scan(
			&s.ID, &s.OrganizerID, &s.OrganizerKind, &s.Title, &s.Description,
			&s.City, &s.Address, &s.Date, &s.Time, &s.EventType,
			&s.SkillLevel, &s.MaxSeats, &s.ImageURL, &s.CreatedAt,
			&s.SeatsTaken, &joined); err != nil {
			return nil, err
		}
		if viewerID != "" {
			s.UserJoined = &joined
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Update rewrites the mutable fields of an event on behalf of its
// organizer. It returns ErrEventNotFound for unknown ids and ErrForbidden
// when callerID is not the organizer. Ownership is checked inside the
// update statement itself rather than read-then-write.
func (r *EventRepo) Update(ctx context.Context, callerID string, ev *model.Event) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE events SET title=?, description=?, city=?, address=?, date=?, time=?,
			event_type=?, skill_level=?, max_seats=?, image_url=?
		 WHERE id=? AND organizer_id=?`,
		ev.Title, ev.Description, ev.City, ev.Address, ev.Date, ev.Time,
		ev.EventType, ev.SkillLevel, ev.MaxSeats, ev.ImageURL,
		ev.ID, callerID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}
	// Zero rows updated: either the event does not exist, the caller does
	// not own it, or the values were already identical. Disambiguate.
	existing, err := r.GetByID(ctx, ev.ID)
	if err != nil {
		return err
	}
	if existing.OrganizerID != callerID {
		return ErrForbidden
	}
	return nil
}
