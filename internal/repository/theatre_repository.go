package repository // repository defines data access for theatres

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Theatre represents one auditorium.  TotalSeats and SeatsPerRow define
// the deterministic seat grid generated for every showtime scheduled in
// this theatre; the last row is truncated when TotalSeats is not an
// exact multiple of SeatsPerRow.
type Theatre struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	Location    string    `json:"location"`
	TotalSeats  uint32    `json:"total_seats"`
	SeatsPerRow uint32    `json:"seats_per_row"`
	CreatedAt   time.Time `json:"created_at"`
}

// TheatreRepo provides methods to work with theatres in the database.
type TheatreRepo struct {
	db *sql.DB
}

// NewTheatreRepo constructs a TheatreRepo with the given DB handle.
func NewTheatreRepo(db *sql.DB) *TheatreRepo { return &TheatreRepo{db: db} }

// Create inserts a theatre record. On success the theatre's ID is populated.
func (r *TheatreRepo) Create(ctx context.Context, t *Theatre) error {
	const q = `INSERT INTO theatres (name, location, total_seats, seats_per_row)
	           VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, t.Name, t.Location, t.TotalSeats, t.SeatsPerRow)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	return nil
}

// ListAll retrieves all theatres ordered by name.
func (r *TheatreRepo) ListAll(ctx context.Context) ([]Theatre, error) {
	const q = `SELECT id, name, location, total_seats, seats_per_row, created_at
	           FROM theatres ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var theatres []Theatre
	for rows.Next() {
		var t Theatre
		if err := rows.Scan(&t.ID, &t.Name, &t.Location, &t.TotalSeats, &t.SeatsPerRow, &t.CreatedAt); err != nil {
			return nil, err
		}
		theatres = append(theatres, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return theatres, nil
}

// GetByID retrieves a theatre by its id.
func (r *TheatreRepo) GetByID(ctx context.Context, id uint64) (*Theatre, error) {
	const q = `SELECT id, name, location, total_seats, seats_per_row, created_at
	           FROM theatres WHERE id = ?`
	var t Theatre
	err := r.db.QueryRowContext(ctx, q, id).
		Scan(&t.ID, &t.Name, &t.Location, &t.TotalSeats, &t.SeatsPerRow, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTheatreNotFound
		}
		return nil, err
	}
	return &t, nil
}

// GetByIDTx is the transactional variant of GetByID, used while
// provisioning seats for a new showtime so the layout read and the seat
// insert share one transaction.
func (r *TheatreRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (*Theatre, error) {
	const q = `SELECT id, name, location, total_seats, seats_per_row, created_at
	           FROM theatres WHERE id = ?`
	var t Theatre
	err := tx.QueryRowContext(ctx, q, id).
		Scan(&t.ID, &t.Name, &t.Location, &t.TotalSeats, &t.SeatsPerRow, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTheatreNotFound
		}
		return nil, err
	}
	return &t, nil
}

// DeleteCascade removes a theatre with all of its showtimes, their seats
// and their bookings in one transaction.  Returns ErrTheatreNotFound when
// no theatre row was deleted.
func (r *TheatreRepo) DeleteCascade(ctx context.Context, id uint64) error {
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
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM seats WHERE showtime_id IN (SELECT id FROM showtimes WHERE theatre_id = ?)`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM bookings WHERE showtime_id IN (SELECT id FROM showtimes WHERE theatre_id = ?)`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM showtimes WHERE theatre_id = ?`, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM theatres WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrTheatreNotFound
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
