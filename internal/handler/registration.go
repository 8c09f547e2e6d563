package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/socialchessevents/events-api/internal/middleware"
	"github.com/socialchessevents/events-api/internal/queue"
	"github.com/socialchessevents/events-api/internal/repository"
	queue_publisher "github.com/socialchessevents/events-api/internal/service"
)

// RegistrationHandler serves join and leave. All authorization happened in
// middleware; the ledger enforces the capacity invariant and the handler
// only translates its sentinel errors into HTTP outcomes.
type RegistrationHandler struct {
	Events EventStore
	Ledger RegistrationLedger

	// Publish is called after a committed join, best effort. Overridable
	// in tests; defaults to the RabbitMQ publisher.
	Publish func(ctx context.Context, ev queue.RegistrationConfirmedEvent) error
}

func NewRegistrationHandler(events EventStore, ledger RegistrationLedger) *RegistrationHandler {
	return &RegistrationHandler{
		Events:  events,
		Ledger:  ledger,
		Publish: queue_publisher.PublishRegistrationConfirmed,
	}
}

// Join handles POST /api/events/:id/join.
//
// Outcomes: 200 on success, 404 unknown event, 403 organizer self-join,
// 409 already registered, 409 event full. The full and already-registered
// cases are states of the world, not faults; the front-end shows them as
// informative messages.
func (h *RegistrationHandler) Join(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"detail": "not authenticated"})
	}
	eventID := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	if err := h.Ledger.Join(ctx, eventID, userID); err != nil {
		switch {
		case errors.Is(err, repository.ErrEventNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"detail": "event not found"})
		case errors.Is(err, repository.ErrOrganizerSelfJoin):
			return c.JSON(http.StatusForbidden, echo.Map{"detail": "organizers are already part of their own event"})
		case errors.Is(err, repository.ErrAlreadyRegistered):
			return c.JSON(http.StatusConflict, echo.Map{"detail": "you are already registered for this event"})
		case errors.Is(err, repository.ErrEventFull):
			return c.JSON(http.StatusConflict, echo.Map{"detail": "event is full"})
		}
		c.Logger().Errorf("join event %s: %v", eventID, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "internal error"})
	}

	h.publishConfirmed(eventID, userID)
	return c.JSON(http.StatusOK, echo.Map{"detail": "joined"})
}

// Leave handles DELETE /api/events/:id/leave. Safe to retry: once the
// registration is gone a second call reports 404 NotRegistered.
func (h *RegistrationHandler) Leave(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"detail": "not authenticated"})
	}
	eventID := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	if err := h.Ledger.Leave(ctx, eventID, userID); err != nil {
		if errors.Is(err, repository.ErrNotRegistered) {
			return c.JSON(http.StatusNotFound, echo.Map{"detail": "not registered for this event"})
		}
		c.Logger().Errorf("leave event %s: %v", eventID, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"detail": "left"})
}

// publishConfirmed emits the registration.confirmed message in the
// background. Publishing is fire-and-forget: the seat is already
// committed and a broker outage must not fail the request.
func (h *RegistrationHandler) publishConfirmed(eventID, userID string) {
	if h.Publish == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		payload := queue.RegistrationConfirmedEvent{
			EventID:     eventID,
			UserID:      userID,
			ConfirmedAt: time.Now().UTC().Format(time.RFC3339),
		}
		if ev, err := h.Events.GetSummary(ctx, eventID, userID); err == nil {
			payload.Title = ev.Title
			payload.City = ev.City
			payload.Date = ev.Date
			payload.SeatsTaken = ev.SeatsTaken
			payload.MaxSeats = ev.MaxSeats
		}
		_ = h.Publish(ctx, payload)
	}()
}
