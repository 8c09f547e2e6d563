package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/socialchessevents/events-api/internal/config"
	"github.com/socialchessevents/events-api/internal/database"
	"github.com/socialchessevents/events-api/internal/handler"
	"github.com/socialchessevents/events-api/internal/identity"
	"github.com/socialchessevents/events-api/internal/queue"
	"github.com/socialchessevents/events-api/internal/repository"
	"github.com/socialchessevents/events-api/internal/router"
)

func main() {
	// .env is optional when variables come from the environment.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	dsn := database.DSN(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err := database.RunMigrations(dsn, cfg.MigrationsPath); err != nil {
		log.Fatalf("migrations: %v", err)
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; rate limiting and response caching disabled")
	}

	users := repository.NewUserRepo(db)
	sessions := repository.NewSessionRepo(db)
	exchanges := repository.NewExchangeRepo(db)
	events := repository.NewEventRepo(db)
	registrations := repository.NewRegistrationRepo(db)

	idp := identity.NewClient(cfg.IdentityBaseURL)

	h := router.Handlers{
		Auth:         handler.NewAuthHandler(cfg, users, sessions, exchanges, idp),
		Events:       handler.NewEventHandler(events, registrations),
		Registration: handler.NewRegistrationHandler(events, registrations),
		Sessions:     sessions,
	}

	e := echo.New()
	e.HideBanner = true
	router.RegisterRoutes(e, cfg, h, rdb)

	// Background audit consumer; reconnects on its own.
	go func() {
		if err := queue.StartRegistrationConsumer(); err != nil {
			log.Printf("registration consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
