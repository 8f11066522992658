package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-reservation/internal/catalog"
	"github.com/iliyamo/hotel-reservation/internal/config"
	"github.com/iliyamo/hotel-reservation/internal/database"
	"github.com/iliyamo/hotel-reservation/internal/handler"
	"github.com/iliyamo/hotel-reservation/internal/middleware"
	"github.com/iliyamo/hotel-reservation/internal/queue"
	"github.com/iliyamo/hotel-reservation/internal/repository"
	"github.com/iliyamo/hotel-reservation/internal/router"
	"github.com/iliyamo/hotel-reservation/internal/service"
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

	// The counter store is load-bearing: without it no availability can
	// be checked or reserved, so a missing client is fatal here unlike
	// the optional cache/limiter uses.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Fatal("redis: connection failed, availability counters unavailable")
	}

	catalogClient := catalog.NewHTTPClient(cfg.CatalogBaseURL)
	publisher := queue.NewPublisher(cfg.AMQPURL)

	reservationRepo := repository.NewReservationRepo(db)
	stayRepo := repository.NewStayRecordRepo(db)
	roomRepo := repository.NewRoomRepo(db)
	allocationRepo := repository.NewRoomAllocationRepo(db)
	availabilityRepo := repository.NewAvailabilityRepo(rdb, catalogClient)

	bookingSvc := service.NewBookingService(reservationRepo, stayRepo, availabilityRepo, allocationRepo, catalogClient, publisher)
	roomSvc := service.NewRoomService(roomRepo)
	availabilitySvc := service.NewAvailabilityService(availabilityRepo, catalogClient)
	reminderSvc := service.NewReminderService(reservationRepo, catalogClient, publisher)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := queue.StartNotificationConsumer(cfg.AMQPURL); err != nil {
			log.Printf("consumer: %v", err)
		}
	}()
	if cfg.ReminderInterval > 0 {
		go reminderSvc.Run(ctx, cfg.ReminderInterval)
	}

	// With a JWT secret configured the service verifies tokens itself;
	// otherwise it trusts the gateway's identity headers.
	var identity echo.MiddlewareFunc
	if cfg.JWTSecret != "" {
		identity = middleware.JWTAuth(cfg.JWTSecret)
	} else {
		identity = middleware.GatewayIdentity()
	}

	e := echo.New()
	e.HideBanner = true

	router.RegisterRoutes(e, handler.NewAvailabilityHandler(availabilitySvc), config.LoadCacheConfig(), rdb)
	router.RegisterBookings(e, handler.NewBookingHandler(bookingSvc), identity, config.LoadRateLimitConfig(), rdb)
	router.RegisterRooms(e, handler.NewRoomHandler(roomSvc), identity)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
