package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func strPtr(s string) *string       { return &s }
func timePtr(t time.Time) *time.Time { return &t }

func TestSeatStatusAt(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	booked := Seat{IsBooked: true, HeldBySession: strPtr("s1"), HoldExpiresAt: timePtr(now.Add(time.Minute))}
	if got := booked.StatusAt(now); got != SeatBooked {
		t.Fatalf("booked seat status = %s, want booked", got)
	}

	held := Seat{HeldBySession: strPtr("s1"), HoldExpiresAt: timePtr(now.Add(time.Second))}
	if got := held.StatusAt(now); got != SeatHeld {
		t.Fatalf("live hold status = %s, want held", got)
	}

	// A hold expiring exactly now is no longer live.
	atExpiry := Seat{HeldBySession: strPtr("s1"), HoldExpiresAt: timePtr(now)}
	if got := atExpiry.StatusAt(now); got != SeatAvailable {
		t.Fatalf("hold at exact expiry status = %s, want available", got)
	}

	lapsed := Seat{HeldBySession: strPtr("s1"), HoldExpiresAt: timePtr(now.Add(-time.Second))}
	if got := lapsed.StatusAt(now); got != SeatAvailable {
		t.Fatalf("lapsed hold status = %s, want available", got)
	}

	free := Seat{}
	if got := free.StatusAt(now); got != SeatAvailable {
		t.Fatalf("free seat status = %s, want available", got)
	}
}

func TestUnavailableSeats(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	live := timePtr(now.Add(2 * time.Minute))
	lapsed := timePtr(now.Add(-2 * time.Minute))

	seats := []Seat{
		{ID: 1},                                                        // free
		{ID: 2, IsBooked: true},                                        // booked
		{ID: 3, HeldBySession: strPtr("me"), HoldExpiresAt: live},      // my own live hold
		{ID: 4, HeldBySession: strPtr("other"), HoldExpiresAt: live},   // foreign live hold
		{ID: 5, HeldBySession: strPtr("other"), HoldExpiresAt: lapsed}, // foreign lapsed hold
	}

	blocked := UnavailableSeats(seats, "me", now)
	if len(blocked) != 2 || blocked[0] != 2 || blocked[1] != 4 {
		t.Fatalf("blocked = %v, want [2 4]", blocked)
	}
}

func TestUnavailableSeats_NoHoldAccepted(t *testing.T) {
	// A seat with no hold at all never blocks; this is what makes the
	// finalize path tolerate a hold that lapsed moments earlier.
	now := time.Now().UTC()
	seats := []Seat{{ID: 9}}
	if blocked := UnavailableSeats(seats, "me", now); len(blocked) != 0 {
		t.Fatalf("free seat reported unavailable: %v", blocked)
	}
}

func seatRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "showtime_id", "row_label", "seat_number", "is_booked",
		"booking_id", "held_by_session", "hold_expires_at",
	})
}

func TestLockSeatsTx_ReturnsRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	expires := time.Date(2026, 3, 1, 12, 5, 0, 0, time.UTC)
	mock.ExpectBegin()
	mock.ExpectQuery("(?s)SELECT (.+) FROM seats(.+)FOR UPDATE").
		WithArgs(uint64(1), uint64(2)).
		WillReturnRows(seatRows().
			AddRow(1, 10, "A", 1, false, nil, nil, nil).
			AddRow(2, 10, "A", 2, false, nil, "sess-1", expires))
	mock.ExpectRollback()

	repo := NewSeatRepo(db)
	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	defer tx.Rollback()

	seats, err := repo.LockSeatsTx(context.Background(), tx, 0, []uint64{1, 2})
	if err != nil {
		t.Fatalf("LockSeatsTx error: %v", err)
	}
	if len(seats) != 2 {
		t.Fatalf("expected 2 seats, got %d", len(seats))
	}
	if seats[0].HeldBySession != nil {
		t.Fatalf("seat 1 should have no hold")
	}
	if seats[1].HeldBySession == nil || *seats[1].HeldBySession != "sess-1" {
		t.Fatalf("seat 2 hold session not scanned")
	}
	if seats[1].HoldExpiresAt == nil || !seats[1].HoldExpiresAt.Equal(expires) {
		t.Fatalf("seat 2 hold expiry not scanned")
	}
	tx.Rollback()
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestLockSeatsTx_MissingSeat(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("(?s)SELECT (.+) FROM seats(.+)FOR UPDATE").
		WithArgs(uint64(1), uint64(99)).
		WillReturnRows(seatRows().AddRow(1, 10, "A", 1, false, nil, nil, nil))
	mock.ExpectRollback()

	repo := NewSeatRepo(db)
	tx, _ := db.Begin()
	defer tx.Rollback()

	if _, err := repo.LockSeatsTx(context.Background(), tx, 0, []uint64{1, 99}); err != ErrSeatNotFound {
		t.Fatalf("expected ErrSeatNotFound, got %v", err)
	}
}

func TestLockSeatsTx_ShowtimeFilterAddsArg(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("(?s)SELECT (.+) FROM seats(.+)showtime_id = (.+)FOR UPDATE").
		WithArgs(uint64(5), uint64(10)).
		WillReturnRows(seatRows().AddRow(5, 10, "B", 1, false, nil, nil, nil))
	mock.ExpectRollback()

	repo := NewSeatRepo(db)
	tx, _ := db.Begin()
	defer tx.Rollback()

	seats, err := repo.LockSeatsTx(context.Background(), tx, 10, []uint64{5})
	if err != nil {
		t.Fatalf("LockSeatsTx error: %v", err)
	}
	if len(seats) != 1 || seats[0].ShowtimeID != 10 {
		t.Fatalf("unexpected seats: %+v", seats)
	}
}

func TestSweepExpiredSeatsTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("(?s)UPDATE seats(.+)held_by_session = NULL(.+)UTC_TIMESTAMP").
		WithArgs(uint64(1), uint64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectRollback()

	repo := NewSeatRepo(db)
	tx, _ := db.Begin()
	defer tx.Rollback()

	n, err := repo.SweepExpiredSeatsTx(context.Background(), tx, []uint64{1, 2})
	if err != nil {
		t.Fatalf("SweepExpiredSeatsTx error: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 swept row, got %d", n)
	}
}

func TestSweepExpiredSeatsTx_EmptyIDs(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectRollback()

	repo := NewSeatRepo(db)
	tx, _ := db.Begin()
	defer tx.Rollback()

	n, err := repo.SweepExpiredSeatsTx(context.Background(), tx, nil)
	if err != nil || n != 0 {
		t.Fatalf("empty sweep should be a no-op, got n=%d err=%v", n, err)
	}
	tx.Rollback()
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unexpected database activity: %v", err)
	}
}

func TestPlaceHoldTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	expires := time.Date(2026, 3, 1, 12, 5, 0, 0, time.UTC)
	mock.ExpectBegin()
	mock.ExpectExec("(?s)UPDATE seats(.+)SET held_by_session = (.+), hold_expires_at = ").
		WithArgs("sess-1", expires, uint64(1), uint64(2)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectRollback()

	repo := NewSeatRepo(db)
	tx, _ := db.Begin()
	defer tx.Rollback()

	if err := repo.PlaceHoldTx(context.Background(), tx, []uint64{1, 2}, "sess-1", expires); err != nil {
		t.Fatalf("PlaceHoldTx error: %v", err)
	}
}

func TestMarkBookedTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("(?s)UPDATE seats(.+)SET is_booked = TRUE, booking_id = (.+)held_by_session = NULL").
		WithArgs(uint64(42), uint64(1), uint64(2)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectRollback()

	repo := NewSeatRepo(db)
	tx, _ := db.Begin()
	defer tx.Rollback()

	if err := repo.MarkBookedTx(context.Background(), tx, []uint64{1, 2}, 42); err != nil {
		t.Fatalf("MarkBookedTx error: %v", err)
	}
}

func TestListByShowtime_SweepsBeforeRead(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("(?s)UPDATE seats(.+)showtime_id = (.+)UTC_TIMESTAMP").
		WithArgs(uint64(10)).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectQuery("(?s)SELECT (.+) FROM seats(.+)ORDER BY LENGTH").
		WithArgs(uint64(10)).
		WillReturnRows(seatRows().
			AddRow(1, 10, "A", 1, false, nil, nil, nil).
			AddRow(2, 10, "A", 2, true, 7, nil, nil))
	mock.ExpectCommit()

	repo := NewSeatRepo(db)
	seats, err := repo.ListByShowtime(context.Background(), 10)
	if err != nil {
		t.Fatalf("ListByShowtime error: %v", err)
	}
	if len(seats) != 2 {
		t.Fatalf("expected 2 seats, got %d", len(seats))
	}
	if seats[1].BookingID == nil || *seats[1].BookingID != 7 {
		t.Fatalf("booking_id not scanned: %+v", seats[1])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateBulkTx_BuildsMultiRowInsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO seats \\(showtime_id, row_label, seat_number\\)").
		WithArgs(uint64(10), "A", uint32(1), uint64(10), "A", uint32(2)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectRollback()

	repo := NewSeatRepo(db)
	tx, _ := db.Begin()
	defer tx.Rollback()

	seats := []Seat{
		{ShowtimeID: 10, RowLabel: "A", SeatNumber: 1},
		{ShowtimeID: 10, RowLabel: "A", SeatNumber: 2},
	}
	if err := repo.CreateBulkTx(context.Background(), tx, seats); err != nil {
		t.Fatalf("CreateBulkTx error: %v", err)
	}
}
