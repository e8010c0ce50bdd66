package handler

import "testing"

func TestGenerateSeats_TruncatedLastRow(t *testing.T) {
	seats := generateSeats(7, 10, 4)
	if len(seats) != 10 {
		t.Fatalf("expected 10 seats, got %d", len(seats))
	}
	want := []struct {
		row string
		num uint32
	}{
		{"A", 1}, {"A", 2}, {"A", 3}, {"A", 4},
		{"B", 1}, {"B", 2}, {"B", 3}, {"B", 4},
		{"C", 1}, {"C", 2},
	}
	for i, w := range want {
		if seats[i].RowLabel != w.row || seats[i].SeatNumber != w.num {
			t.Fatalf("seat %d = %s%d, want %s%d", i, seats[i].RowLabel, seats[i].SeatNumber, w.row, w.num)
		}
		if seats[i].ShowtimeID != 7 {
			t.Fatalf("seat %d has showtime_id %d, want 7", i, seats[i].ShowtimeID)
		}
	}
}

func TestGenerateSeats_ExactMultiple(t *testing.T) {
	seats := generateSeats(1, 8, 4)
	if len(seats) != 8 {
		t.Fatalf("expected 8 seats, got %d", len(seats))
	}
	last := seats[len(seats)-1]
	if last.RowLabel != "B" || last.SeatNumber != 4 {
		t.Fatalf("last seat = %s%d, want B4", last.RowLabel, last.SeatNumber)
	}
}

func TestGenerateSeats_ManyRowsUseDoubleLetters(t *testing.T) {
	// 27 rows of 1 seat each; the 27th row must be labelled AA.
	seats := generateSeats(1, 27, 1)
	if len(seats) != 27 {
		t.Fatalf("expected 27 seats, got %d", len(seats))
	}
	if seats[26].RowLabel != "AA" {
		t.Fatalf("row 27 labelled %q, want AA", seats[26].RowLabel)
	}
}

func TestGenerateSeats_ZeroInputs(t *testing.T) {
	if seats := generateSeats(1, 0, 10); seats != nil {
		t.Fatalf("expected nil for zero total seats, got %d seats", len(seats))
	}
	if seats := generateSeats(1, 10, 0); seats != nil {
		t.Fatalf("expected nil for zero seats per row, got %d seats", len(seats))
	}
}
