// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingConfirmedEvent is published after a booking transaction
// commits.  It carries enough context for downstream consumers to log
// or notify without querying the primary database.
type BookingConfirmedEvent struct {
	BookingID     uint64   `json:"booking_id"`
	ShowtimeID    uint64   `json:"showtime_id"`
	MovieTitle    string   `json:"movie_title"`
	TheatreName   string   `json:"theatre_name"`
	StartsAt      string   `json:"starts_at"`
	CustomerName  string   `json:"customer_name"`
	CustomerEmail string   `json:"customer_email"`
	SeatLabels    []string `json:"seats"`
	TotalSeats    uint32   `json:"total_seats"`
	ConfirmedAt   string   `json:"confirmed_at"`
}
