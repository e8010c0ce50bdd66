package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/iliyamo/movie-booking/internal/repository"
	"github.com/labstack/echo/v4"
)

// CreateTheatre handles POST /v1/admin/theatres.  seats_per_row defaults
// to 10 when omitted, matching the grid most auditoriums use.
func (h *AdminHandler) CreateTheatre(c echo.Context) error {
	var body struct {
		Name        string `json:"name"`
		Location    string `json:"location"`
		TotalSeats  uint32 `json:"total_seats"`
		SeatsPerRow uint32 `json:"seats_per_row"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	name := strings.TrimSpace(body.Name)
	location := strings.TrimSpace(body.Location)
	if name == "" || location == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and location are required"})
	}
	if body.TotalSeats == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "total_seats must be positive"})
	}
	if body.SeatsPerRow == 0 {
		body.SeatsPerRow = 10
	}
	t := &repository.Theatre{
		Name:        name,
		Location:    location,
		TotalSeats:  body.TotalSeats,
		SeatsPerRow: body.SeatsPerRow,
	}
	if err := h.TheatreRepo.Create(c.Request().Context(), t); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create theatre"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"item": t})
}

// ListTheatres handles GET /v1/admin/theatres.
func (h *AdminHandler) ListTheatres(c echo.Context) error {
	theatres, err := h.TheatreRepo.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if theatres == nil {
		theatres = []repository.Theatre{}
	}
	return c.JSON(http.StatusOK, echo.Map{"items": theatres})
}

// DeleteTheatre handles DELETE /v1/admin/theatres/:id with the same
// cascade as movie deletion.
func (h *AdminHandler) DeleteTheatre(c echo.Context) error {
	theatreID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid theatre id"})
	}
	if err := h.TheatreRepo.DeleteCascade(c.Request().Context(), theatreID); err != nil {
		if errors.Is(err, repository.ErrTheatreNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "theatre not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete theatre"})
	}
	return c.NoContent(http.StatusNoContent)
}
