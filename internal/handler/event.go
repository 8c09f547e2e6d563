package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/socialchessevents/events-api/internal/middleware"
	"github.com/socialchessevents/events-api/internal/model"
	"github.com/socialchessevents/events-api/internal/repository"
)

// EventHandler serves the event catalog: listing, detail, creation and
// organizer-restricted edits.
type EventHandler struct {
	Events EventStore
	Ledger RegistrationLedger
}

func NewEventHandler(events EventStore, ledger RegistrationLedger) *EventHandler {
	return &EventHandler{Events: events, Ledger: ledger}
}

// eventReq carries the client-supplied event fields. MaxSeats is untyped
// because the form may submit it as a number or a numeric string; it is
// coerced to a positive integer during validation.
type eventReq struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	City          string `json:"city"`
	Address       string `json:"address"`
	Date          string `json:"date"`
	Time          string `json:"time"`
	EventType     string `json:"event_type"`
	SkillLevel    string `json:"skill_level"`
	MaxSeats      any    `json:"max_seats"`
	ImageURL      string `json:"image_url"`
	OrganizerKind string `json:"organizer_kind"`
}

// validate normalizes the request and reports the first offending field.
func (r *eventReq) validate() (model.Event, error) {
	required := []struct{ name, value string }{
		{"title", r.Title},
		{"description", r.Description},
		{"city", r.City},
		{"address", r.Address},
		{"date", r.Date},
		{"time", r.Time},
		{"event_type", r.EventType},
		{"skill_level", r.SkillLevel},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return model.Event{}, fmt.Errorf("missing required field: %s", f.name)
		}
	}
	if _, err := time.Parse("2006-01-02", r.Date); err != nil {
		return model.Event{}, fmt.Errorf("invalid field: date")
	}
	if _, err := time.Parse("15:04", r.Time); err != nil {
		return model.Event{}, fmt.Errorf("invalid field: time")
	}
	if !model.ValidEventType(r.EventType) {
		return model.Event{}, fmt.Errorf("invalid field: event_type")
	}
	if !model.ValidSkillLevel(r.SkillLevel) {
		return model.Event{}, fmt.Errorf("invalid field: skill_level")
	}

	seats, err := coerceSeats(r.MaxSeats)
	if err != nil {
		return model.Event{}, err
	}

	kind := r.OrganizerKind
	if kind != model.OrganizerClub {
		kind = model.OrganizerIndividual
	}

	return model.Event{
		OrganizerKind: kind,
		Title:         strings.TrimSpace(r.Title),
		Description:   strings.TrimSpace(r.Description),
		City:          strings.TrimSpace(r.City),
		Address:       strings.TrimSpace(r.Address),
		Date:          r.Date,
		Time:          r.Time,
		EventType:     r.EventType,
		SkillLevel:    r.SkillLevel,
		MaxSeats:      seats,
		ImageURL:      strings.TrimSpace(r.ImageURL),
	}, nil
}

// maxSeatsBound caps max_seats well below the column's range so an
// oversized value fails validation instead of erroring at insert time.
const maxSeatsBound = 100000

// coerceSeats accepts a JSON number or numeric string and enforces the
// positive-integer rule.
func coerceSeats(v any) (int, error) {
	var seats int
	switch t := v.(type) {
	case float64:
		if t < 1 || t > maxSeatsBound || t != float64(int(t)) {
			return 0, errors.New("invalid field: max_seats")
		}
		seats = int(t)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return 0, errors.New("invalid field: max_seats")
		}
		seats = n
	default:
		return 0, errors.New("missing required field: max_seats")
	}
	if seats < 1 || seats > maxSeatsBound {
		return 0, errors.New("invalid field: max_seats")
	}
	return seats, nil
}

// List handles GET /api/events. Filters are independently optional and
// compose with AND; authenticated viewers additionally get user_joined.
func (h *EventHandler) List(c echo.Context) error {
	viewerID, _ := middleware.UserID(c)
	filter := repository.EventFilter{
		City:       c.QueryParam("city"),
		DateFilter: c.QueryParam("date_filter"),
		SkillLevel: c.QueryParam("skill_level"),
		EventType:  c.QueryParam("event_type"),
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	events, err := h.Events.List(ctx, filter, viewerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "internal error"})
	}
	return c.JSON(http.StatusOK, events)
}

// eventDetail extends the summary with the ordered attendee list.
type eventDetail struct {
	repository.EventSummary
	Attendees []model.Attendee `json:"attendees"`
}

// Get handles GET /api/events/:id.
func (h *EventHandler) Get(c echo.Context) error {
	viewerID, _ := middleware.UserID(c)
	eventID := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	summary, err := h.Events.GetSummary(ctx, eventID, viewerID)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"detail": "event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "internal error"})
	}
	attendees, err := h.Ledger.ListAttendees(ctx, eventID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "internal error"})
	}
	return c.JSON(http.StatusOK, eventDetail{EventSummary: summary, Attendees: attendees})
}

// Create handles POST /api/events on behalf of the authenticated organizer.
func (h *EventHandler) Create(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"detail": "not authenticated"})
	}

	var req eventReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "invalid body"})
	}
	ev, err := req.validate()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": err.Error()})
	}
	ev.OrganizerID = userID

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	if err := h.Events.Create(ctx, &ev); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "internal error"})
	}
	return c.JSON(http.StatusCreated, ev)
}

// Update handles PUT /api/events/:id. Only the organizer may edit; the
// ownership check lives in the store and surfaces as 403.
func (h *EventHandler) Update(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"detail": "not authenticated"})
	}

	var req eventReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "invalid body"})
	}
	ev, err := req.validate()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": err.Error()})
	}
	ev.ID = c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	if err := h.Events.Update(ctx, userID, &ev); err != nil {
		switch {
		case errors.Is(err, repository.ErrEventNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"detail": "event not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"detail": "only the organizer can edit this event"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "internal error"})
	}

	updated, err := h.Events.GetSummary(ctx, ev.ID, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "internal error"})
	}
	return c.JSON(http.StatusOK, updated)
}
