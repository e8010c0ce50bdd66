package handler

import (
	"context"  // context for publishing after the request transaction
	"errors"   // errors.Is comparisons against repository sentinels
	"log"      // best-effort event publish failures are logged, not fatal
	"net/http" // HTTP status codes
	"strconv"  // seat label formatting for events
	"strings"  // customer field validation
	"time"     // hold expiry arithmetic

	"github.com/iliyamo/movie-booking/internal/queue"      // event payloads
	"github.com/iliyamo/movie-booking/internal/repository" // repository layer
	"github.com/labstack/echo/v4"                          // Echo web framework
)

// holdDuration is the fixed lifetime of a seat hold.  It is not
// configurable and not extendable except by re-holding, which silently
// renews it for the same session.
const holdDuration = 5 * time.Minute

// maxSessionIDLen bounds the opaque client-generated session identifier.
const maxSessionIDLen = 128

// BookingHandler groups the repositories required to read seat maps,
// place holds and finalize bookings.  All state-changing methods run
// their critical section inside one database transaction with the
// affected seat rows locked, so concurrent requests for the same seats
// serialize on the row locks and the second one observes the first's
// writes at its availability re-check.
type BookingHandler struct {
	ShowtimeRepo *repository.ShowtimeRepo // showtime lookups for 404s and event payloads
	SeatRepo     *repository.SeatRepo     // seat state: sweep, lock, hold, book
	BookingRepo  *repository.BookingRepo  // booking inserts

	// Publish sends the booking-confirmed event after a successful
	// commit.  Injected so tests can run without a broker; nil disables
	// publishing entirely.
	Publish func(ctx context.Context, ev queue.BookingConfirmedEvent) error
}

// NewBookingHandler constructs a BookingHandler with the provided
// repositories.  All repositories must be non-nil.
func NewBookingHandler(showtimeRepo *repository.ShowtimeRepo, seatRepo *repository.SeatRepo, bookingRepo *repository.BookingRepo) *BookingHandler {
	if showtimeRepo == nil || seatRepo == nil || bookingRepo == nil {
		panic("nil repository passed to NewBookingHandler")
	}
	return &BookingHandler{
		ShowtimeRepo: showtimeRepo,
		SeatRepo:     seatRepo,
		BookingRepo:  bookingRepo,
	}
}

// seatView is the per-seat element of the seat map response.  Status is
// derived; hold internals are only exposed as the expiry timestamp on
// held seats so a client can show a countdown.
type seatView struct {
	ID            uint64  `json:"id"`
	RowLabel      string  `json:"row_label"`
	SeatNumber    uint32  `json:"seat_number"`
	Status        string  `json:"status"`
	HoldExpiresAt *string `json:"hold_expires_at,omitempty"`
}

// ListSeats handles GET /v1/showtimes/:id/seats.  Lapsed holds are swept
// inside the same transaction as the read, so a hold placed five minutes
// ago shows up as available here without any background process.  Seats
// are ordered by row then seat number.
func (h *BookingHandler) ListSeats(c echo.Context) error {
	showtimeID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid showtime id"})
	}
	ctx := c.Request().Context()
	exists, err := h.ShowtimeRepo.Exists(ctx, showtimeID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if !exists {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "showtime not found"})
	}
	seats, err := h.SeatRepo.ListByShowtime(ctx, showtimeID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load seats"})
	}
	now := time.Now().UTC()
	items := make([]seatView, 0, len(seats))
	for i := range seats {
		s := &seats[i]
		v := seatView{
			ID:         s.ID,
			RowLabel:   s.RowLabel,
			SeatNumber: s.SeatNumber,
			Status:     string(s.StatusAt(now)),
		}
		if v.Status == string(repository.SeatHeld) {
			iso := s.HoldExpiresAt.Format(time.RFC3339)
			v.HoldExpiresAt = &iso
		}
		items = append(items, v)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"showtime_id": showtimeID,
		"items":       items,
	})
}

// HoldSeats handles POST /v1/seats/hold.  It places a five-minute hold
// on the requested seats for the caller's session, all-or-nothing: if
// any seat is booked or live-held by a different session, nothing is
// written and the response lists the unavailable seat IDs.  Re-holding
// seats the session already holds simply refreshes the expiry.
func (h *BookingHandler) HoldSeats(c echo.Context) error {
	var body struct {
		SeatIDs   []uint64 `json:"seat_ids"`
		SessionID string   `json:"session_id"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	sessionID := strings.TrimSpace(body.SessionID)
	if sessionID == "" || len(sessionID) > maxSessionIDLen {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "session_id is required"})
	}
	seatIDs := dedupeIDs(body.SeatIDs)
	if len(seatIDs) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat_ids is required"})
	}

	ctx := c.Request().Context()
	tx, err := h.SeatRepo.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// Lock the seat rows first; everything after this point is isolated
	// from concurrent hold/booking transactions on the same seats.
	seats, err := h.SeatRepo.LockSeatsTx(ctx, tx, 0, seatIDs)
	if err != nil {
		if errors.Is(err, repository.ErrSeatNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "seat not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load seats"})
	}
	// Reclaim lapsed holds on the locked rows before checking.
	if _, err := h.SeatRepo.SweepExpiredSeatsTx(ctx, tx, seatIDs); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to cleanup expired holds"})
	}
	now := time.Now().UTC()
	if unavailable := repository.UnavailableSeats(seats, sessionID, now); len(unavailable) > 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":       "some seats are no longer available",
			"unavailable": unavailable,
		})
	}
	expiresAt := now.Add(holdDuration)
	if err := h.SeatRepo.PlaceHoldTx(ctx, tx, seatIDs, sessionID, expiresAt); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to place hold"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true
	return c.JSON(http.StatusOK, echo.Map{
		"expires_at":            expiresAt.Format(time.RFC3339),
		"hold_duration_seconds": int(holdDuration / time.Second),
	})
}

// CreateBooking handles POST /v1/bookings.  It converts the caller's
// hold into a permanent booking in one transaction: lock, sweep,
// re-check, insert the booking, mark the seats booked with the hold
// fields cleared.  A seat held live by a different session or already
// booked fails the whole request; a seat with no hold at all is
// accepted, tolerating a caller whose hold lapsed seconds ago while
// nobody else grabbed the seat.
func (h *BookingHandler) CreateBooking(c echo.Context) error {
	var body struct {
		ShowtimeID    uint64   `json:"showtime_id"`
		SeatIDs       []uint64 `json:"seat_ids"`
		SessionID     string   `json:"session_id"`
		CustomerName  string   `json:"customer_name"`
		CustomerEmail string   `json:"customer_email"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	sessionID := strings.TrimSpace(body.SessionID)
	if sessionID == "" || len(sessionID) > maxSessionIDLen {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "session_id is required"})
	}
	name := strings.TrimSpace(body.CustomerName)
	email := strings.TrimSpace(body.CustomerEmail)
	if name == "" || email == "" || !strings.Contains(email, "@") {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "customer_name and customer_email are required"})
	}
	seatIDs := dedupeIDs(body.SeatIDs)
	if len(seatIDs) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat_ids is required"})
	}
	if body.ShowtimeID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "showtime_id is required"})
	}

	ctx := c.Request().Context()
	showtime, err := h.ShowtimeRepo.GetByID(ctx, body.ShowtimeID)
	if err != nil {
		if errors.Is(err, repository.ErrShowtimeNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "showtime not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	tx, err := h.SeatRepo.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// Locking with the showtime filter also rejects seat IDs that do not
	// belong to the showtime being booked.
	seats, err := h.SeatRepo.LockSeatsTx(ctx, tx, body.ShowtimeID, seatIDs)
	if err != nil {
		if errors.Is(err, repository.ErrSeatNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "seat not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load seats"})
	}
	if _, err := h.SeatRepo.SweepExpiredSeatsTx(ctx, tx, seatIDs); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to cleanup expired holds"})
	}
	now := time.Now().UTC()
	if unavailable := repository.UnavailableSeats(seats, sessionID, now); len(unavailable) > 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":       "some seats are no longer available or not held by your session",
			"unavailable": unavailable,
		})
	}
	booking := &repository.BookingRecord{
		ShowtimeID:    body.ShowtimeID,
		CustomerName:  name,
		CustomerEmail: email,
		TotalSeats:    uint32(len(seatIDs)),
	}
	if err := h.BookingRepo.CreateTx(ctx, tx, booking); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create booking"})
	}
	if err := h.SeatRepo.MarkBookedTx(ctx, tx, seatIDs, booking.ID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update seats"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	if h.Publish != nil {
		labels := make([]string, 0, len(seats))
		for _, s := range seats {
			labels = append(labels, s.RowLabel+strconv.Itoa(int(s.SeatNumber)))
		}
		ev := queue.BookingConfirmedEvent{
			BookingID:     booking.ID,
			ShowtimeID:    body.ShowtimeID,
			MovieTitle:    showtime.MovieTitle,
			TheatreName:   showtime.TheatreName,
			StartsAt:      showtime.StartsAt.Format(time.RFC3339),
			CustomerName:  name,
			CustomerEmail: email,
			SeatLabels:    labels,
			TotalSeats:    uint32(len(seatIDs)),
			ConfirmedAt:   now.Format(time.RFC3339),
		}
		if err := h.Publish(context.WithoutCancel(ctx), ev); err != nil {
			log.Printf("booking %d: publish confirmed event failed: %v", booking.ID, err)
		}
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"booking_id": booking.ID,
	})
}
