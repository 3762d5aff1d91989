package main // Entry point package

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/clubsync/club-events/internal/config"
	"github.com/clubsync/club-events/internal/database"
	"github.com/clubsync/club-events/internal/handler"
	"github.com/clubsync/club-events/internal/lifecycle"
	"github.com/clubsync/club-events/internal/queue"
	"github.com/clubsync/club-events/internal/repository"
	"github.com/clubsync/club-events/internal/router"
	"github.com/clubsync/club-events/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments set the vars
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient() // nil disables caching and rate limiting
	if rdb == nil {
		log.Printf("redis unavailable, response cache and rate limiting disabled")
	}

	eventRepo := repository.NewEventRepo(db)
	clubRepo := repository.NewClubRepo(db)
	userRepo := repository.NewUserRepo(db)
	publisher := queue.NewPublisher()

	// Startup reconciliation runs inside Start, so stale statuses left by
	// downtime are corrected before the listener accepts traffic.
	sched := lifecycle.New(eventRepo, publisher, cfg.SweepInterval, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := sched.Start(ctx); err != nil {
		log.Fatalf("scheduler: %v", err)
	}
	defer sched.Stop()

	go func() {
		if err := queue.StartLifecycleConsumer(); err != nil {
			log.Printf("lifecycle consumer stopped: %v", err)
		}
	}()

	ledger := service.NewSeatLedger(eventRepo, cfg.SeatRetryMax, cfg.AllowLateUnregister)
	svc := service.NewEventService(eventRepo, clubRepo, userRepo, ledger, sched, publisher, cfg.SeatRetryMax)

	e := echo.New()
	router.Register(e,
		handler.NewEventHandler(svc),
		handler.NewBrowseHandler(svc),
		handler.NewRegistrationHandler(svc),
		cfg.JWTSecret, rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s, sweep=%s)", addr, cfg.Env, cfg.SweepInterval)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
