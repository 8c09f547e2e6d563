package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/socialchessevents/events-api/internal/repository"
)

type staticValidator struct {
	tokens map[string]string
}

func (v staticValidator) Validate(_ context.Context, raw string) (string, error) {
	if uid, ok := v.tokens[raw]; ok {
		return uid, nil
	}
	return "", repository.ErrSessionInvalid
}

func invoke(mw echo.MiddlewareFunc, cookie *http.Cookie) (echo.Context, *httptest.ResponseRecorder, error) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	err := mw(func(c echo.Context) error {
		return c.String(http.StatusOK, "reached")
	})(c)
	return c, rec, err
}

func TestRequireSession(t *testing.T) {
	v := staticValidator{tokens: map[string]string{"good": "u-1"}}
	mw := RequireSession(v, "session_token")

	t.Run("no cookie", func(t *testing.T) {
		_, rec, err := invoke(mw, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "not authenticated") {
			t.Fatalf("body = %s", rec.Body)
		}
	})

	t.Run("invalid token", func(t *testing.T) {
		_, rec, _ := invoke(mw, &http.Cookie{Name: "session_token", Value: "stale"})
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("valid token", func(t *testing.T) {
		c, rec, err := invoke(mw, &http.Cookie{Name: "session_token", Value: "good"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		uid, ok := UserID(c)
		if !ok || uid != "u-1" {
			t.Fatalf("UserID = %q, %v; want u-1, true", uid, ok)
		}
	})
}

func TestOptionalSession(t *testing.T) {
	v := staticValidator{tokens: map[string]string{"good": "u-1"}}
	mw := OptionalSession(v, "session_token")

	t.Run("no cookie passes through anonymously", func(t *testing.T) {
		c, rec, err := invoke(mw, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if _, ok := UserID(c); ok {
			t.Fatal("anonymous request resolved to a user")
		}
	})

	t.Run("invalid cookie passes through anonymously", func(t *testing.T) {
		c, rec, _ := invoke(mw, &http.Cookie{Name: "session_token", Value: "stale"})
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if _, ok := UserID(c); ok {
			t.Fatal("stale cookie resolved to a user")
		}
	})

	t.Run("valid cookie resolves the user", func(t *testing.T) {
		c, _, _ := invoke(mw, &http.Cookie{Name: "session_token", Value: "good"})
		if uid, ok := UserID(c); !ok || uid != "u-1" {
			t.Fatalf("UserID = %q, %v; want u-1, true", uid, ok)
		}
	})
}
