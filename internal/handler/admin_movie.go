package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/iliyamo/movie-booking/internal/repository"
	"github.com/labstack/echo/v4"
)

// CreateMovie handles POST /v1/admin/movies.  Title and duration are
// required; description, genre and poster URL are optional.
func (h *AdminHandler) CreateMovie(c echo.Context) error {
	var body struct {
		Title       string  `json:"title"`
		Description *string `json:"description"`
		Duration    uint32  `json:"duration"`
		Genre       *string `json:"genre"`
		PosterURL   *string `json:"poster_url"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	title := strings.TrimSpace(body.Title)
	if title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title is required"})
	}
	if body.Duration == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "duration must be positive"})
	}
	m := &repository.Movie{
		Title:       title,
		Description: body.Description,
		Duration:    body.Duration,
		Genre:       body.Genre,
		PosterURL:   body.PosterURL,
	}
	if err := h.MovieRepo.Create(c.Request().Context(), m); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create movie"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"item": m})
}

// DeleteMovie handles DELETE /v1/admin/movies/:id.  The delete cascades
// to the movie's showtimes, their seats and their bookings.
func (h *AdminHandler) DeleteMovie(c echo.Context) error {
	movieID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
	}
	if err := h.MovieRepo.DeleteCascade(c.Request().Context(), movieID); err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete movie"})
	}
	return c.NoContent(http.StatusNoContent)
}
