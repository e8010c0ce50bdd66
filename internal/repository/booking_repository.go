package repository // repository defines data access for bookings

import (
	"context"
	"database/sql"
	"time"
)

// BookingRecord mirrors the bookings table.  A booking is created once
// by the finalize flow and is immutable afterwards; it disappears only
// through the cascading deletes of its showtime, movie or theatre.
type BookingRecord struct {
	ID            uint64    `json:"id"`
	ShowtimeID    uint64    `json:"showtime_id"`
	CustomerName  string    `json:"customer_name"`
	CustomerEmail string    `json:"customer_email"`
	TotalSeats    uint32    `json:"total_seats"`
	CreatedAt     time.Time `json:"created_at"`
}

// AdminBookingDetail is a booking joined with show, movie and theatre
// info plus the aggregated seat labels, for the admin dashboard.
type AdminBookingDetail struct {
	BookingRecord
	MovieTitle  string    `json:"movie_title"`
	TheatreName string    `json:"theatre_name"`
	StartsAt    time.Time `json:"starts_at"`
	SeatLabels  *string   `json:"seat_labels,omitempty"`
}

// BookingRepo provides data access to the bookings table.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo constructs a BookingRepo with the given DB handle.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// CreateTx inserts a booking within the provided transaction and
// populates the generated ID.  The caller marks the seats booked in the
// same transaction; either everything commits or nothing does.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *BookingRecord) error {
	const q = `INSERT INTO bookings (showtime_id, customer_name, customer_email, total_seats)
	           VALUES (?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, b.ShowtimeID, b.CustomerName, b.CustomerEmail, b.TotalSeats)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	return nil
}

// ListAllDetailed returns every booking joined with movie, theatre and
// showtime info plus the comma-separated seat labels, newest first.
func (r *BookingRepo) ListAllDetailed(ctx context.Context) ([]AdminBookingDetail, error) {
	const q = `SELECT b.id, b.showtime_id, b.customer_name, b.customer_email, b.total_seats, b.created_at,
	                  m.title, t.name, s.starts_at,
	                  GROUP_CONCAT(CONCAT(se.row_label, se.seat_number)
	                               ORDER BY LENGTH(se.row_label), se.row_label, se.seat_number
	                               SEPARATOR ', ')
	           FROM bookings b
	           JOIN showtimes s ON s.id = b.showtime_id
	           JOIN movies m ON m.id = s.movie_id
	           JOIN theatres t ON t.id = s.theatre_id
	           LEFT JOIN seats se ON se.booking_id = b.id
	           GROUP BY b.id, b.showtime_id, b.customer_name, b.customer_email, b.total_seats, b.created_at,
	                    m.title, t.name, s.starts_at
	           ORDER BY b.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var details []AdminBookingDetail
	for rows.Next() {
		var d AdminBookingDetail
		var seats sql.NullString
		if err := rows.Scan(
			&d.ID, &d.ShowtimeID, &d.CustomerName, &d.CustomerEmail, &d.TotalSeats, &d.CreatedAt,
			&d.MovieTitle, &d.TheatreName, &d.StartsAt, &seats,
		); err != nil {
			return nil, err
		}
		d.StartsAt = d.StartsAt.UTC()
		if seats.Valid {
			v := seats.String
			d.SeatLabels = &v
		}
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return details, nil
}
