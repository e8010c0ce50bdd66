package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // Load .env files in development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/movie-booking/internal/config"
	"github.com/iliyamo/movie-booking/internal/database"
	"github.com/iliyamo/movie-booking/internal/handler"
	"github.com/iliyamo/movie-booking/internal/middleware"
	"github.com/iliyamo/movie-booking/internal/queue"
	"github.com/iliyamo/movie-booking/internal/repository"
	"github.com/iliyamo/movie-booking/internal/router"
	queue_publisher "github.com/iliyamo/movie-booking/internal/service"
)

func main() {
	// .env is optional; in production everything comes from the real
	// environment.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	movieRepo := repository.NewMovieRepo(db)
	theatreRepo := repository.NewTheatreRepo(db)
	showtimeRepo := repository.NewShowtimeRepo(db)
	seatRepo := repository.NewSeatRepo(db)
	bookingRepo := repository.NewBookingRepo(db)

	publicHandler := handler.NewPublicHandler(movieRepo, showtimeRepo)
	bookingHandler := handler.NewBookingHandler(showtimeRepo, seatRepo, bookingRepo)
	bookingHandler.Publish = queue_publisher.PublishBookingConfirmed
	adminHandler := handler.NewAdminHandler(movieRepo, theatreRepo, showtimeRepo, seatRepo, bookingRepo)

	// Redis backs the rate limiter and the browse cache.  A nil client
	// turns both middlewares into pass-throughs.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; rate limiting and response cache disabled")
	}
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterPublic(e, publicHandler, cache)
	router.RegisterBooking(e, bookingHandler, limiter)
	router.RegisterAdmin(e, adminHandler, cfg.AdminKeyHash)

	// Background consumer writes confirmed bookings to logs/booking.log.
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
