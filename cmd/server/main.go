package main

import (
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/meeting-room-reservation/internal/availability"
	"github.com/iliyamo/meeting-room-reservation/internal/config"
	"github.com/iliyamo/meeting-room-reservation/internal/database"
	"github.com/iliyamo/meeting-room-reservation/internal/handler"
	"github.com/iliyamo/meeting-room-reservation/internal/middleware"
	"github.com/iliyamo/meeting-room-reservation/internal/queue"
	"github.com/iliyamo/meeting-room-reservation/internal/repository"
	"github.com/iliyamo/meeting-room-reservation/internal/router"
	queuepublisher "github.com/iliyamo/meeting-room-reservation/internal/service"
)

func main() {
	cfg := config.Load()
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Store selection: durable MySQL or the in-memory driver for
	// single-node deployments and local development.
	var (
		roomStore        repository.RoomStore
		teamStore        repository.TeamStore
		reservationStore repository.ReservationStore
		authHandler      *handler.AuthHandler
	)
	switch cfg.StoreDriver {
	case config.StoreDriverMySQL:
		db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
		if err != nil {
			logrus.WithError(err).Fatal("database connection failed")
		}
		if err := database.Migrate(db, cfg.MigrationsDir); err != nil {
			logrus.WithError(err).Fatal("database migration failed")
		}
		roomStore = repository.NewRoomRepo(db)
		teamStore = repository.NewTeamRepo(db)
		reservationStore = repository.NewReservationRepo(db)
		authHandler = handler.NewAuthHandler(cfg, repository.NewUserRepo(db), repository.NewTokenRepo(db))
	case config.StoreDriverMemory:
		mem := repository.NewMemoryStore()
		roomStore = mem.Rooms()
		teamStore = mem.Teams()
		reservationStore = mem.Reservations()
		logrus.Warn("memory store selected; data will not survive restarts and auth endpoints are unavailable")
	}

	engine := availability.NewEngine(roomStore, reservationStore)

	roomHandler := handler.NewRoomHandler(roomStore)
	availHandler := handler.NewAvailabilityHandler(engine)
	teamHandler := handler.NewTeamHandler(teamStore)
	reservationHandler := handler.NewReservationHandler(
		reservationStore, roomStore, teamStore, queuepublisher.PublishReservationCreated)

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewRequestValidator()

	// Redis-backed rate limiting and response caching; both degrade to
	// pass-through when Redis is unreachable.
	rdb := config.NewRedisClient()
	if rdb == nil {
		logrus.Warn("redis unavailable; rate limiting and response cache disabled")
	}
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	e.Use(middleware.NewRedisCache(config.LoadCacheConfig(), rdb))

	router.RegisterRoutes(e)
	if authHandler != nil {
		router.RegisterAuth(e, authHandler, cfg.JWTSecret)
	}
	router.RegisterMember(e, cfg.JWTSecret, roomHandler, availHandler, reservationHandler, teamHandler)
	router.RegisterManager(e, cfg.JWTSecret, roomHandler, reservationHandler)

	// Reminder pipeline: consume reservation.created events in the
	// background.  The consumer reconnects on broker failures.
	go func() {
		if err := queue.StartReservationConsumer(); err != nil {
			logrus.WithError(err).Error("reservation consumer stopped")
		}
	}()

	addr := ":" + cfg.Port
	logrus.WithFields(logrus.Fields{"addr": addr, "env": cfg.Env, "store": cfg.StoreDriver}).
		Info("server listening")
	if err := e.Start(addr); err != nil {
		logrus.WithError(err).Fatal("server stopped")
	}
}
