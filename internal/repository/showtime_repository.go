package repository // repository defines data access for showtimes

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Showtime represents one screening of a movie in a theatre at a fixed
// start time and price.  It is immutable once its seats have been
// generated; the only way to change a showtime is to delete and recreate
// it, which cascades to its seats and bookings.
type Showtime struct {
	ID         uint64    `json:"id"`
	MovieID    uint64    `json:"movie_id"`
	TheatreID  uint64    `json:"theatre_id"`
	StartsAt   time.Time `json:"starts_at"`
	PriceCents uint32    `json:"price_cents"`
	CreatedAt  time.Time `json:"created_at"`
}

// ShowtimeDetail is a showtime joined with its movie and theatre names
// for list and detail responses.  BookingStatus is derived from the
// start time at read time; it is not stored.
type ShowtimeDetail struct {
	Showtime
	MovieTitle      string `json:"movie_title"`
	TheatreName     string `json:"theatre_name"`
	TheatreLocation string `json:"theatre_location"`
	BookingStatus   string `json:"booking_status"`
}

// BookingStatusAt derives whether a showtime can still be booked at the
// given instant.  Bookings close five minutes before the start time.
func (s *Showtime) BookingStatusAt(now time.Time) string {
	switch {
	case !s.StartsAt.After(now):
		return "completed"
	case !s.StartsAt.After(now.Add(5 * time.Minute)):
		return "unavailable"
	default:
		return "available"
	}
}

// ShowtimeRepo provides methods to work with showtimes in the database.
type ShowtimeRepo struct {
	db *sql.DB
}

// NewShowtimeRepo constructs a ShowtimeRepo with the given DB handle.
func NewShowtimeRepo(db *sql.DB) *ShowtimeRepo { return &ShowtimeRepo{db: db} }

// DB exposes the underlying handle so handlers can begin transactions
// spanning showtime creation and seat provisioning.
func (r *ShowtimeRepo) DB() *sql.DB { return r.db }

// CreateTx inserts a showtime within the provided transaction and
// populates the generated ID.  Seat provisioning happens in the same
// transaction via SeatRepo.CreateBulkTx.
func (r *ShowtimeRepo) CreateTx(ctx context.Context, tx *sql.Tx, s *Showtime) error {
	const q = `INSERT INTO showtimes (movie_id, theatre_id, starts_at, price_cents)
	           VALUES (?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, s.MovieID, s.TheatreID, s.StartsAt.UTC(), s.PriceCents)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	return nil
}

// GetByID retrieves a showtime joined with its movie and theatre.
func (r *ShowtimeRepo) GetByID(ctx context.Context, id uint64) (*ShowtimeDetail, error) {
	const q = `SELECT s.id, s.movie_id, s.theatre_id, s.starts_at, s.price_cents, s.created_at,
	                  m.title, t.name, t.location
	           FROM showtimes s
	           JOIN movies m ON m.id = s.movie_id
	           JOIN theatres t ON t.id = s.theatre_id
	           WHERE s.id = ?`
	var d ShowtimeDetail
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&d.ID, &d.MovieID, &d.TheatreID, &d.StartsAt, &d.PriceCents, &d.CreatedAt,
		&d.MovieTitle, &d.TheatreName, &d.TheatreLocation,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrShowtimeNotFound
		}
		return nil, err
	}
	d.StartsAt = d.StartsAt.UTC()
	d.BookingStatus = d.BookingStatusAt(time.Now().UTC())
	return &d, nil
}

// Exists reports whether a showtime with the given id is present.  The
// seat map and booking handlers use it for a cheap 404 check before
// starting the transactional work.
func (r *ShowtimeRepo) Exists(ctx context.Context, id uint64) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM showtimes WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ListByMovie returns all showtimes of a movie joined with theatre info,
// ordered by start time, with the derived booking status for each.
func (r *ShowtimeRepo) ListByMovie(ctx context.Context, movieID uint64) ([]ShowtimeDetail, error) {
	const q = `SELECT s.id, s.movie_id, s.theatre_id, s.starts_at, s.price_cents, s.created_at,
	                  m.title, t.name, t.location
	           FROM showtimes s
	           JOIN movies m ON m.id = s.movie_id
	           JOIN theatres t ON t.id = s.theatre_id
	           WHERE s.movie_id = ?
	           ORDER BY s.starts_at`
	return r.listDetails(ctx, q, movieID)
}

// ListAll returns every showtime joined with movie and theatre info,
// ordered by start time.  Used by the admin dashboard.
func (r *ShowtimeRepo) ListAll(ctx context.Context) ([]ShowtimeDetail, error) {
	const q = `SELECT s.id, s.movie_id, s.theatre_id, s.starts_at, s.price_cents, s.created_at,
	                  m.title, t.name, t.location
	           FROM showtimes s
	           JOIN movies m ON m.id = s.movie_id
	           JOIN theatres t ON t.id = s.theatre_id
	           ORDER BY s.starts_at`
	return r.listDetails(ctx, q)
}

func (r *ShowtimeRepo) listDetails(ctx context.Context, query string, args ...interface{}) ([]ShowtimeDetail, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	now := time.Now().UTC()
	var details []ShowtimeDetail
	for rows.Next() {
		var d ShowtimeDetail
		if err := rows.Scan(
			&d.ID, &d.MovieID, &d.TheatreID, &d.StartsAt, &d.PriceCents, &d.CreatedAt,
			&d.MovieTitle, &d.TheatreName, &d.TheatreLocation,
		); err != nil {
			return nil, err
		}
		d.StartsAt = d.StartsAt.UTC()
		d.BookingStatus = d.BookingStatusAt(now)
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return details, nil
}

// DeleteCascade removes a showtime with its seats and bookings in one
// transaction.  Returns ErrShowtimeNotFound when no showtime row was
// deleted.
func (r *ShowtimeRepo) DeleteCascade(ctx context.Context, id uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if _, err := tx.ExecContext(ctx, `DELETE FROM seats WHERE showtime_id = ?`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM bookings WHERE showtime_id = ?`, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM showtimes WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrShowtimeNotFound
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
