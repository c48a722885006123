package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/concert-reservation/internal/config"
	"github.com/iliyamo/concert-reservation/internal/database"
	"github.com/iliyamo/concert-reservation/internal/handler"
	"github.com/iliyamo/concert-reservation/internal/middleware"
	"github.com/iliyamo/concert-reservation/internal/queue"
	"github.com/iliyamo/concert-reservation/internal/repository"
	"github.com/iliyamo/concert-reservation/internal/router"
	"github.com/iliyamo/concert-reservation/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional; cache and rate limiting degrade to no-ops
	// when the client is nil.
	rdb := config.NewRedisClient()

	concerts := repository.NewConcertRepo(db)
	actions := repository.NewActionRepo(db)
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)

	booking := service.NewBooking(concerts, actions, cfg.CapacityCheck)
	resolver := service.NewResolver(concerts, actions)
	reporter := service.NewReporter(concerts, actions)
	catalog := service.NewCatalog(concerts)

	e := echo.New()
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	e.Use(middleware.NewRedisCache(config.LoadCacheConfig(), rdb))

	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, tokens), cfg.JWTSecret)
	router.RegisterUser(e, handler.NewUserHandler(booking, resolver, concerts), cfg.JWTSecret)
	router.RegisterAdmin(e, handler.NewAdminHandler(catalog, reporter, booking, actions), cfg.JWTSecret)

	// Audit trail consumer; reconnects on its own until the process exits.
	go func() {
		if err := queue.StartReservationConsumer(); err != nil {
			log.Printf("reservation consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
