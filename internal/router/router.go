// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/socialchessevents/events-api/internal/config"
	"github.com/socialchessevents/events-api/internal/handler"
	"github.com/socialchessevents/events-api/internal/middleware"
)

// Handlers groups everything the router wires to routes.
type Handlers struct {
	Auth         *handler.AuthHandler
	Events       *handler.EventHandler
	Registration *handler.RegistrationHandler
	Sessions     middleware.SessionValidator
}

// RegisterRoutes wires all endpoints under /api.
//
// Read endpoints are public but pass through OptionalSession so output is
// personalized for logged-in visitors; the response cache sits after it
// and only serves guests. Mutating endpoints require a session and are
// rate limited per user.
func RegisterRoutes(e *echo.Echo, cfg config.Config, h Handlers, rdb *redis.Client) {
	e.GET("/api/health", handler.Health)

	required := middleware.RequireSession(h.Sessions, cfg.CookieName)
	optional := middleware.OptionalSession(h.Sessions, cfg.CookieName)
	limited := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cached := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	// Identity exchange and session lifecycle.
	auth := e.Group("/api/auth")
	auth.POST("/session", h.Auth.ExchangeSession, limited)
	auth.GET("/me", h.Auth.Me, required)
	auth.POST("/logout", h.Auth.Logout)

	// Public catalog reads, personalized when a session cookie is present.
	e.GET("/api/events", h.Events.List, optional, cached)
	e.GET("/api/events/:id", h.Events.Get, optional)

	// Mutations: session required, then rate limited so the limiter can
	// key on the resolved user.
	e.POST("/api/events", h.Events.Create, required, limited)
	e.PUT("/api/events/:id", h.Events.Update, required, limited)
	e.POST("/api/events/:id/join", h.Registration.Join, required, limited)
	e.DELETE("/api/events/:id/leave", h.Registration.Leave, required, limited)
}
