package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/iliyamo/movie-booking/internal/repository"
	"github.com/labstack/echo/v4"
)

// generateSeats builds the deterministic seat grid for a new showtime
// from the theatre layout.  Row index r (zero-based) maps to a base-26
// letter label (A..Z, AA, ...); seats are numbered 1-based within the
// row, and the last row is truncated when totalSeats is not an exact
// multiple of seatsPerRow.
func generateSeats(showtimeID uint64, totalSeats, seatsPerRow uint32) []repository.Seat {
	if totalSeats == 0 || seatsPerRow == 0 {
		return nil
	}
	seats := make([]repository.Seat, 0, totalSeats)
	remaining := totalSeats
	for row := 0; remaining > 0; row++ {
		inRow := seatsPerRow
		if remaining < inRow {
			inRow = remaining
		}
		label := indexToRowLabel(row)
		for n := uint32(1); n <= inRow; n++ {
			seats = append(seats, repository.Seat{
				ShowtimeID: showtimeID,
				RowLabel:   label,
				SeatNumber: n,
			})
		}
		remaining -= inRow
	}
	return seats
}

// CreateShowtime handles POST /v1/admin/showtimes.  It creates the
// showtime and bulk-inserts its seat grid in one transaction; a failure
// anywhere leaves neither the showtime nor any seats behind.  The grid
// is fixed from that point on: showtimes are immutable once seats exist.
func (h *AdminHandler) CreateShowtime(c echo.Context) error {
	var body struct {
		MovieID    uint64    `json:"movie_id"`
		TheatreID  uint64    `json:"theatre_id"`
		StartsAt   time.Time `json:"starts_at"`
		PriceCents uint32    `json:"price_cents"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.MovieID == 0 || body.TheatreID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "movie_id and theatre_id are required"})
	}
	if body.StartsAt.IsZero() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "starts_at is required"})
	}
	ctx := c.Request().Context()
	if _, err := h.MovieRepo.GetByID(ctx, body.MovieID); err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	tx, err := h.ShowtimeRepo.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	theatre, err := h.TheatreRepo.GetByIDTx(ctx, tx, body.TheatreID)
	if err != nil {
		if errors.Is(err, repository.ErrTheatreNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "theatre not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	showtime := &repository.Showtime{
		MovieID:    body.MovieID,
		TheatreID:  body.TheatreID,
		StartsAt:   body.StartsAt.UTC(),
		PriceCents: body.PriceCents,
	}
	if err := h.ShowtimeRepo.CreateTx(ctx, tx, showtime); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create showtime"})
	}
	seats := generateSeats(showtime.ID, theatre.TotalSeats, theatre.SeatsPerRow)
	if err := h.SeatRepo.CreateBulkTx(ctx, tx, seats); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create seats"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true
	return c.JSON(http.StatusCreated, echo.Map{
		"item":        showtime,
		"total_seats": len(seats),
	})
}

// ListShowtimes handles GET /v1/admin/showtimes.
func (h *AdminHandler) ListShowtimes(c echo.Context) error {
	showtimes, err := h.ShowtimeRepo.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if showtimes == nil {
		showtimes = []repository.ShowtimeDetail{}
	}
	return c.JSON(http.StatusOK, echo.Map{"items": showtimes})
}

// DeleteShowtime handles DELETE /v1/admin/showtimes/:id.  Seats and
// bookings of the showtime are removed in the same transaction.
func (h *AdminHandler) DeleteShowtime(c echo.Context) error {
	showtimeID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid showtime id"})
	}
	if err := h.ShowtimeRepo.DeleteCascade(c.Request().Context(), showtimeID); err != nil {
		if errors.Is(err, repository.ErrShowtimeNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "showtime not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete showtime"})
	}
	return c.NoContent(http.StatusNoContent)
}
