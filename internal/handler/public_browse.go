// This file defines handlers for the public browsing API. These routes
// allow anyone to browse movies and showtimes without authentication.

package handler

import (
	"errors"
	"net/http"

	"github.com/iliyamo/movie-booking/internal/repository"
	"github.com/labstack/echo/v4"
)

// PublicHandler aggregates repositories needed for unauthenticated
// browsing of the catalog.
type PublicHandler struct {
	MovieRepo    *repository.MovieRepo    // provides access to movie data
	ShowtimeRepo *repository.ShowtimeRepo // provides access to showtime data
}

// NewPublicHandler constructs a PublicHandler. Both repositories must be
// non-nil.
func NewPublicHandler(movieRepo *repository.MovieRepo, showtimeRepo *repository.ShowtimeRepo) *PublicHandler {
	if movieRepo == nil || showtimeRepo == nil {
		panic("nil repository passed to NewPublicHandler")
	}
	return &PublicHandler{MovieRepo: movieRepo, ShowtimeRepo: showtimeRepo}
}

// ListMovies handles GET /v1/movies. It returns all active movies.
func (h *PublicHandler) ListMovies(c echo.Context) error {
	movies, err := h.MovieRepo.ListActive(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if movies == nil {
		movies = []repository.Movie{}
	}
	return c.JSON(http.StatusOK, echo.Map{"items": movies})
}

// ListShowtimesByMovie handles GET /v1/movies/:id/showtimes. It verifies
// the movie exists, then returns its showtimes with theatre info and the
// derived booking status (available / unavailable / completed).
func (h *PublicHandler) ListShowtimesByMovie(c echo.Context) error {
	movieID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
	}
	ctx := c.Request().Context()
	if _, err := h.MovieRepo.GetByID(ctx, movieID); err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	showtimes, err := h.ShowtimeRepo.ListByMovie(ctx, movieID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if showtimes == nil {
		showtimes = []repository.ShowtimeDetail{}
	}
	return c.JSON(http.StatusOK, echo.Map{"items": showtimes})
}

// GetShowtime handles GET /v1/showtimes/:id. It returns the showtime
// joined with its movie title and theatre name/location.
func (h *PublicHandler) GetShowtime(c echo.Context) error {
	showtimeID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid showtime id"})
	}
	detail, err := h.ShowtimeRepo.GetByID(c.Request().Context(), showtimeID)
	if err != nil {
		if errors.Is(err, repository.ErrShowtimeNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "showtime not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": detail})
}
