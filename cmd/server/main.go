package main // Entry point package

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/covoiturage-api/internal/config"
	"github.com/iliyamo/covoiturage-api/internal/database"
	"github.com/iliyamo/covoiturage-api/internal/handler"
	"github.com/iliyamo/covoiturage-api/internal/middleware"
	"github.com/iliyamo/covoiturage-api/internal/queue"
	"github.com/iliyamo/covoiturage-api/internal/relay"
	"github.com/iliyamo/covoiturage-api/internal/repository"
	"github.com/iliyamo/covoiturage-api/internal/router"
	queue_publisher "github.com/iliyamo/covoiturage-api/internal/service"
	"github.com/iliyamo/covoiturage-api/internal/session"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments export vars

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Sessions live in Redis when it answers; otherwise fall back to the
	// in-process store so the API stays usable on a dev machine.
	rdb := config.NewRedisClient()
	var sessions session.Store
	if rdb != nil {
		sessions = session.NewRedisStore(rdb)
		log.Printf("sessions: redis store")
	} else {
		sessions = session.NewMemoryStore(10 * time.Minute)
		log.Printf("sessions: redis unavailable, using in-memory store")
	}

	users := repository.NewUserRepo(db)
	trips := repository.NewTripRepo(db)
	favorites := repository.NewFavoriteRepo(db)
	resets := repository.NewPasswordResetRepo(db)

	// The relay hands accepted rides to the queue; publishing is
	// fire-and-forget so a broker outage never stalls the hub loop.
	hub := relay.NewHub(func(ev relay.DriverAccept) {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = queue_publisher.PublishRideAccepted(ctx, queue.RideAcceptedEvent{
				DriverID:   ev.DriverID,
				Client:     ev.Client,
				AcceptedAt: time.Now().UTC().Format(time.RFC3339),
			})
		}()
	})
	go hub.Run()

	// Background audit consumer for ride.accepted.
	go func() {
		if err := queue.StartRideConsumer(); err != nil {
			log.Printf("ride-consumer: %v", err)
		}
	}()

	e := echo.New()
	e.HideBanner = true

	limit := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	router.RegisterRoutes(e, handler.NewHealthHandler(db, cfg.DBName))
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, resets, sessions), sessions, limit)
	router.RegisterClient(e, handler.NewTripHandler(trips, favorites), sessions)
	router.RegisterRelay(e, relay.NewHandler(hub))

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
