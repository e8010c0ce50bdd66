package handler

import (
	"net/http"

	"github.com/iliyamo/movie-booking/internal/repository"
	"github.com/labstack/echo/v4"
)

// ListBookings handles GET /v1/admin/bookings.  Each booking is joined
// with its movie, theatre and showtime and carries the aggregated seat
// labels (e.g. "A1, A2"), newest booking first.
func (h *AdminHandler) ListBookings(c echo.Context) error {
	bookings, err := h.BookingRepo.ListAllDetailed(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if bookings == nil {
		bookings = []repository.AdminBookingDetail{}
	}
	return c.JSON(http.StatusOK, echo.Map{"items": bookings})
}
