package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/socialchessevents/events-api/internal/config"
	"github.com/socialchessevents/events-api/internal/identity"
	"github.com/socialchessevents/events-api/internal/middleware"
	"github.com/socialchessevents/events-api/internal/repository"
	"github.com/socialchessevents/events-api/internal/utils"
)

// AuthHandler bundles dependencies for the identity exchange and session
// endpoints. The session token is delivered exclusively through a secure
// http-only cookie; it never appears in a response body or URL.
type AuthHandler struct {
	Cfg       config.Config
	Users     UserStore
	Sessions  SessionStore
	Exchanges ExchangeStore
	Identity  IdentityResolver
}

func NewAuthHandler(cfg config.Config, users UserStore, sessions SessionStore, exchanges ExchangeStore, idp IdentityResolver) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: users, Sessions: sessions, Exchanges: exchanges, Identity: idp}
}

type exchangeReq struct {
	SessionID string `json:"session_id"`
}

// ExchangeSession handles POST /api/auth/session. It consumes the
// one-time session id the identity provider put in the redirect fragment:
// claim it, resolve it upstream, provision the user on first sight, issue
// a session and set the cookie. The claim is taken before the upstream
// call so a concurrent replay of the same id fails on the claim, not
// after a second valid session exists. Every failure mode answers 401
// with the same body.
func (h *AuthHandler) ExchangeSession(c echo.Context) error {
	var req exchangeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "invalid body"})
	}
	req.SessionID = strings.TrimSpace(req.SessionID)
	if req.SessionID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "session_id is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	idHash := utils.HashToken(req.SessionID)
	if err := h.Exchanges.Claim(ctx, idHash); err != nil {
		if errors.Is(err, repository.ErrExchangeReplayed) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"detail": "authentication failed"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "internal error"})
	}

	profile, err := h.Identity.Resolve(ctx, req.SessionID)
	if err != nil {
		// Only a successful exchange burns the identifier; release the
		// claim so a transient upstream error stays retryable.
		_ = h.Exchanges.Release(ctx, idHash)
		if errors.Is(err, identity.ErrInvalidSession) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"detail": "authentication failed"})
		}
		c.Logger().Errorf("identity exchange: %v", err)
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"detail": "authentication temporarily unavailable"})
	}

	user, err := h.Users.UpsertByExternalID(ctx, profile.ID, profile.Email, profile.Name, profile.Picture)
	if err != nil {
		_ = h.Exchanges.Release(ctx, idHash)
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "internal error"})
	}
	_ = h.Exchanges.Bind(ctx, idHash, user.ID)

	ttl := time.Duration(h.Cfg.SessionTTLHours) * time.Hour
	tok, err := h.Sessions.Create(ctx, user.ID, ttl)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "internal error"})
	}

	c.SetCookie(h.sessionCookie(tok.Raw, tok.Exp))
	return c.JSON(http.StatusOK, user)
}

// Me handles GET /api/auth/me. RequireSession already resolved the cookie.
func (h *AuthHandler) Me(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"detail": "not authenticated"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	user, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"detail": "not authenticated"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "internal error"})
	}
	return c.JSON(http.StatusOK, user)
}

// Logout handles POST /api/auth/logout. Revocation is idempotent: logging
// out with a stale or missing cookie still clears it and answers 200.
func (h *AuthHandler) Logout(c echo.Context) error {
	if cookie, err := c.Cookie(h.Cfg.CookieName); err == nil && cookie.Value != "" {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
		defer cancel()
		if err := h.Sessions.Revoke(ctx, cookie.Value); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "internal error"})
		}
	}
	c.SetCookie(h.sessionCookie("", time.Unix(0, 0)))
	return c.JSON(http.StatusOK, echo.Map{"detail": "logged out"})
}

// sessionCookie builds the session cookie. SameSite=None because the
// front-end is served from a different origin and sends the cookie with
// credentialed fetches; None requires Secure on modern browsers.
func (h *AuthHandler) sessionCookie(value string, expires time.Time) *http.Cookie {
	cookie := &http.Cookie{
		Name:     h.Cfg.CookieName,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   h.Cfg.CookieSecure,
		SameSite: http.SameSiteNoneMode,
	}
	if value == "" {
		cookie.MaxAge = -1
	}
	return cookie
}
