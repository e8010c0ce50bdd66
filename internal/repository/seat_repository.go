package repository // repository defines data access for seats

import (
	"context"      // context allows query cancellation and timeouts
	"database/sql" // sql provides DB primitives
	"strings"      // strings builds IN (...) placeholder lists
	"time"         // time is used for hold expiry comparisons
)

// SeatStatus is the derived state of a seat at a given instant.  It is
// never stored; it is computed from is_booked and the hold fields so the
// three states can never contradict each other.
type SeatStatus string

const (
	SeatAvailable SeatStatus = "available"
	SeatHeld      SeatStatus = "held"
	SeatBooked    SeatStatus = "booked"
)

// Seat mirrors the seats table.  A seat belongs to exactly one showtime.
// The hold is the (HeldBySession, HoldExpiresAt) pair on the row itself;
// there is no separate holds table, so releasing a hold means clearing
// these two columns.  All timestamps are UTC.
type Seat struct {
	ID            uint64     `json:"id"`
	ShowtimeID    uint64     `json:"showtime_id"`
	RowLabel      string     `json:"row_label"`
	SeatNumber    uint32     `json:"seat_number"`
	IsBooked      bool       `json:"is_booked"`
	BookingID     *uint64    `json:"booking_id,omitempty"`
	HeldBySession *string    `json:"-"`
	HoldExpiresAt *time.Time `json:"hold_expires_at,omitempty"`
}

// StatusAt derives the seat state at the given instant.  A hold whose
// expiry has passed counts as no hold at all, even if the sweeper has not
// cleared the columns yet.
func (s *Seat) StatusAt(now time.Time) SeatStatus {
	if s.IsBooked {
		return SeatBooked
	}
	if s.HeldBySession != nil && s.HoldExpiresAt != nil && s.HoldExpiresAt.After(now) {
		return SeatHeld
	}
	return SeatAvailable
}

// UnavailableSeats returns the IDs of seats that block a hold or booking
// request from sessionID: seats already booked, or covered by a live hold
// belonging to a different session.  The caller's own live hold never
// blocks (that is the renewal / finalize path), and a lapsed hold from
// anyone is ignored.  The same rule applies to holding and to booking.
func UnavailableSeats(seats []Seat, sessionID string, now time.Time) []uint64 {
	var blocked []uint64
	for _, s := range seats {
		if s.IsBooked {
			blocked = append(blocked, s.ID)
			continue
		}
		if s.HeldBySession != nil && *s.HeldBySession != sessionID &&
			s.HoldExpiresAt != nil && s.HoldExpiresAt.After(now) {
			blocked = append(blocked, s.ID)
		}
	}
	return blocked
}

// SeatRepo provides data access to the seats table.  All methods compare
// expirations in UTC; the connection is opened with loc=UTC so DATETIME
// values scan into UTC time.Time values.
type SeatRepo struct {
	db *sql.DB
}

// NewSeatRepo constructs a SeatRepo with the given DB handle.
func NewSeatRepo(db *sql.DB) *SeatRepo { return &SeatRepo{db: db} }

// DB exposes the underlying handle so handlers can begin transactions
// that span this and other repositories.
func (r *SeatRepo) DB() *sql.DB { return r.db }

// placeholders returns "?, ?, ..." for n arguments.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func idArgs(ids []uint64) []interface{} {
	args := make([]interface{}, 0, len(ids))
	for _, id := range ids {
		args = append(args, id)
	}
	return args
}

// CreateBulkTx inserts the seats generated for a new showtime in a single
// statement within the provided transaction.  Only showtime_id, row_label
// and seat_number are written; the hold and booking columns start NULL.
// Passing an empty slice has no effect and returns nil.
func (r *SeatRepo) CreateBulkTx(ctx context.Context, tx *sql.Tx, seats []Seat) error {
	if len(seats) == 0 {
		return nil
	}
	query := `INSERT INTO seats (showtime_id, row_label, seat_number) VALUES `
	args := make([]interface{}, 0, len(seats)*3)
	for i, s := range seats {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?)"
		args = append(args, s.ShowtimeID, s.RowLabel, s.SeatNumber)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// SweepExpiredTx clears every lapsed hold in the given showtime: seats
// whose hold_expires_at is in the past and that are not booked get their
// hold columns reset to NULL.  It is idempotent and a no-op when nothing
// has expired.  It must run inside the same transaction as the read or
// write it guards, so a hold cannot be seen as live by one statement and
// expired by the next within one logical operation.
func (r *SeatRepo) SweepExpiredTx(ctx context.Context, tx *sql.Tx, showtimeID uint64) (int64, error) {
	res, err := tx.ExecContext(ctx,
		`UPDATE seats
		 SET held_by_session = NULL, hold_expires_at = NULL
		 WHERE showtime_id = ? AND is_booked = FALSE AND hold_expires_at <= UTC_TIMESTAMP(3)`,
		showtimeID,
	)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// SweepExpiredSeatsTx is the seat-scoped variant of SweepExpiredTx used by
// the hold and booking paths, which already lock exactly the rows they
// touch.  Sweeping only the locked IDs keeps the reclaim race-free without
// writing to unrelated rows.
func (r *SeatRepo) SweepExpiredSeatsTx(ctx context.Context, tx *sql.Tx, seatIDs []uint64) (int64, error) {
	if len(seatIDs) == 0 {
		return 0, nil
	}
	query := `UPDATE seats
	          SET held_by_session = NULL, hold_expires_at = NULL
	          WHERE id IN (` + placeholders(len(seatIDs)) + `)
	          AND is_booked = FALSE AND hold_expires_at <= UTC_TIMESTAMP(3)`
	res, err := tx.ExecContext(ctx, query, idArgs(seatIDs)...)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// LockSeatsTx loads the requested seats with SELECT ... FOR UPDATE so the
// caller's sweep/check/mutate sequence is isolated from concurrent
// transactions touching the same rows.  Rows are locked in ascending ID
// order, which gives every competing transaction the same acquisition
// order and avoids deadlocks between overlapping seat sets.  It returns
// ErrSeatNotFound when any requested ID does not exist or, when
// showtimeID is non-zero, does not belong to that showtime.
func (r *SeatRepo) LockSeatsTx(ctx context.Context, tx *sql.Tx, showtimeID uint64, seatIDs []uint64) ([]Seat, error) {
	if len(seatIDs) == 0 {
		return []Seat{}, nil
	}
	query := `SELECT id, showtime_id, row_label, seat_number, is_booked, booking_id, held_by_session, hold_expires_at
	          FROM seats
	          WHERE id IN (` + placeholders(len(seatIDs)) + `)`
	args := idArgs(seatIDs)
	if showtimeID != 0 {
		query += ` AND showtime_id = ?`
		args = append(args, showtimeID)
	}
	query += ` ORDER BY id FOR UPDATE`
	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var seats []Seat
	for rows.Next() {
		s, err := scanSeat(rows)
		if err != nil {
			return nil, err
		}
		seats = append(seats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(seats) != len(seatIDs) {
		return nil, ErrSeatNotFound
	}
	return seats, nil
}

// PlaceHoldTx writes the hold onto every seat in seatIDs, overwriting any
// previous hold fields.  The caller must have validated availability on
// locked rows first; this method performs no checks of its own.
func (r *SeatRepo) PlaceHoldTx(ctx context.Context, tx *sql.Tx, seatIDs []uint64, sessionID string, expiresAt time.Time) error {
	if len(seatIDs) == 0 {
		return nil
	}
	query := `UPDATE seats
	          SET held_by_session = ?, hold_expires_at = ?
	          WHERE id IN (` + placeholders(len(seatIDs)) + `)`
	args := append([]interface{}{sessionID, expiresAt.UTC()}, idArgs(seatIDs)...)
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// MarkBookedTx flips the seats to their terminal booked state: is_booked
// set, booking_id attached, hold columns cleared.  This is the only write
// that sets is_booked, and it always clears the hold in the same
// statement so the row can never show a booked seat with a live hold.
func (r *SeatRepo) MarkBookedTx(ctx context.Context, tx *sql.Tx, seatIDs []uint64, bookingID uint64) error {
	if len(seatIDs) == 0 {
		return nil
	}
	query := `UPDATE seats
	          SET is_booked = TRUE, booking_id = ?, held_by_session = NULL, hold_expires_at = NULL
	          WHERE id IN (` + placeholders(len(seatIDs)) + `)`
	args := append([]interface{}{bookingID}, idArgs(seatIDs)...)
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// ListByShowtime returns the full seat map of a showtime ordered by row
// then seat number (multi-letter rows like AA sort after Z).  It sweeps
// lapsed holds first, inside the same transaction as the read, so a
// client polling the map sees an expired hold as available immediately.
func (r *SeatRepo) ListByShowtime(ctx context.Context, showtimeID uint64) ([]Seat, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if _, err := r.SweepExpiredTx(ctx, tx, showtimeID); err != nil {
		return nil, err
	}
	const q = `SELECT id, showtime_id, row_label, seat_number, is_booked, booking_id, held_by_session, hold_expires_at
	           FROM seats
	           WHERE showtime_id = ?
	           ORDER BY LENGTH(row_label), row_label, seat_number`
	rows, err := tx.QueryContext(ctx, q, showtimeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var seats []Seat
	for rows.Next() {
		s, scanErr := scanSeat(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		seats = append(seats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return seats, nil
}

// scanSeat reads one seat row, converting the nullable hold and booking
// columns into pointers.
func scanSeat(rows *sql.Rows) (Seat, error) {
	var s Seat
	var bookingID sql.NullInt64
	var heldBy sql.NullString
	var expires sql.NullTime
	if err := rows.Scan(
		&s.ID, &s.ShowtimeID, &s.RowLabel, &s.SeatNumber, &s.IsBooked,
		&bookingID, &heldBy, &expires,
	); err != nil {
		return Seat{}, err
	}
	if bookingID.Valid {
		id := uint64(bookingID.Int64)
		s.BookingID = &id
	}
	if heldBy.Valid {
		v := heldBy.String
		s.HeldBySession = &v
	}
	if expires.Valid {
		t := expires.Time.UTC()
		s.HoldExpiresAt = &t
	}
	return s, nil
}
