package handler // handler defines http handlers

import (
	"github.com/iliyamo/movie-booking/internal/repository" // repository holds the data access layer
)

// AdminHandler bundles repositories for catalog management.  Every route
// served by this handler sits behind the admin key middleware; the
// handlers themselves perform no authentication.
type AdminHandler struct {
	MovieRepo    *repository.MovieRepo    // MovieRepo provides movie persistence
	TheatreRepo  *repository.TheatreRepo  // TheatreRepo provides theatre persistence
	ShowtimeRepo *repository.ShowtimeRepo // ShowtimeRepo provides showtime persistence
	SeatRepo     *repository.SeatRepo     // SeatRepo provisions seats for new showtimes
	BookingRepo  *repository.BookingRepo  // BookingRepo provides the booking dashboard view
}

// NewAdminHandler constructs a new AdminHandler and panics if any
// dependency is nil.
func NewAdminHandler(movieRepo *repository.MovieRepo, theatreRepo *repository.TheatreRepo, showtimeRepo *repository.ShowtimeRepo, seatRepo *repository.SeatRepo, bookingRepo *repository.BookingRepo) *AdminHandler {
	if movieRepo == nil || theatreRepo == nil || showtimeRepo == nil || seatRepo == nil || bookingRepo == nil {
		panic("nil repository passed to NewAdminHandler")
	}
	return &AdminHandler{
		MovieRepo:    movieRepo,
		TheatreRepo:  theatreRepo,
		ShowtimeRepo: showtimeRepo,
		SeatRepo:     seatRepo,
		BookingRepo:  bookingRepo,
	}
}
