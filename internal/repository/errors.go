// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios and map
// them to HTTP status codes.
package repository

import "errors"

// ErrSeatNotFound is returned when a referenced seat id does not exist,
// or when seats from the request do not all belong to the expected
// showtime.
var ErrSeatNotFound = errors.New("seat not found")

// ErrMovieNotFound is returned when a movie lookup yields no rows.
var ErrMovieNotFound = errors.New("movie not found")

// ErrTheatreNotFound is returned when a theatre lookup yields no rows.
var ErrTheatreNotFound = errors.New("theatre not found")

// ErrShowtimeNotFound is returned when a showtime lookup yields no rows.
var ErrShowtimeNotFound = errors.New("showtime not found")
