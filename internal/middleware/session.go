package middleware // middleware provides shared request processing for handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
)

// SessionValidator resolves a raw session token to a user id. It is
// implemented by repository.SessionRepo; the interface keeps handlers and
// middleware testable without a database.
type SessionValidator interface {
	Validate(ctx context.Context, raw string) (string, error)
}

// RequireSession returns middleware that authenticates the request from
// the session cookie and injects the resolved user id into the context
// under "user_id". Missing, unknown, expired and revoked tokens are all
// answered with the same 401 body so the caller cannot tell which case
// occurred, and the wrapped handler never runs.
func RequireSession(v SessionValidator, cookieName string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(cookieName)
			if err != nil || cookie.Value == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"detail": "not authenticated"})
			}
			userID, err := v.Validate(c.Request().Context(), cookie.Value)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"detail": "not authenticated"})
			}
			c.Set("user_id", userID)
			return next(c)
		}
	}
}

// OptionalSession resolves the session cookie when present and valid but
// never rejects the request. Listing endpoints use it to personalize
// output (the user_joined flag) for logged-in visitors while staying
// public for everyone else.
func OptionalSession(v SessionValidator, cookieName string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if cookie, err := c.Cookie(cookieName); err == nil && cookie.Value != "" {
				if userID, err := v.Validate(c.Request().Context(), cookie.Value); err == nil {
					c.Set("user_id", userID)
				}
			}
			return next(c)
		}
	}
}

// UserID extracts the authenticated user id from the echo context. The
// second return is false for guests.
func UserID(c echo.Context) (string, bool) {
	if v, ok := c.Get("user_id").(string); ok && v != "" {
		return v, true
	}
	return "", false
}
