package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-booking/internal/handler"
	"github.com/iliyamo/movie-booking/internal/middleware"
)

// RegisterRoutes registers routes that carry no middleware at all.
// Currently it exposes only a health check, used by load balancers to
// verify the service is up.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterPublic registers the unauthenticated browse endpoints.  The
// cache middleware (possibly a pass-through) applies to this group
// only; these listings tolerate a few seconds of staleness.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, cache echo.MiddlewareFunc) {
	g := e.Group("/v1", cache)
	// List currently active movies.
	g.GET("/movies", p.ListMovies)
	// List showtimes for one movie, with derived booking status.
	g.GET("/movies/:id/showtimes", p.ListShowtimesByMovie)
	// Showtime details by id.
	g.GET("/showtimes/:id", p.GetShowtime)
}

// RegisterBooking registers the seat map and the two mutating booking
// endpoints.  These routes run behind the rate limiter but NEVER behind
// the response cache: seat status is derived per request and holds and
// bookings must always hit the database.
func RegisterBooking(e *echo.Echo, b *handler.BookingHandler, limiter echo.MiddlewareFunc) {
	g := e.Group("/v1", limiter)
	// Seat map with per-seat derived status for one showtime.
	g.GET("/showtimes/:id/seats", b.ListSeats)
	// Place or renew an all-or-nothing hold on a set of seats.
	g.POST("/seats/hold", b.HoldSeats)
	// Finalize a booking for held seats.
	g.POST("/bookings", b.CreateBooking)
}

// RegisterAdmin registers the management surface under /v1/admin.  Every
// route requires the shared admin key; there are no per-user roles.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, adminKeyHash string) {
	g := e.Group("/v1/admin")
	g.Use(middleware.AdminKey(adminKeyHash))

	g.POST("/movies", a.CreateMovie)
	g.DELETE("/movies/:id", a.DeleteMovie)

	g.POST("/theatres", a.CreateTheatre)
	g.GET("/theatres", a.ListTheatres)
	g.DELETE("/theatres/:id", a.DeleteTheatre)

	g.POST("/showtimes", a.CreateShowtime)
	g.GET("/showtimes", a.ListShowtimes)
	g.DELETE("/showtimes/:id", a.DeleteShowtime)

	g.GET("/bookings", a.ListBookings)
}
