package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/meeting-room-reservation/internal/availability"
	"github.com/iliyamo/meeting-room-reservation/internal/interval"
)

// AvailabilityHandler answers point-in-time occupancy queries over all
// rooms.
type AvailabilityHandler struct {
	Engine *availability.Engine
}

// NewAvailabilityHandler constructs an AvailabilityHandler.
func NewAvailabilityHandler(engine *availability.Engine) *AvailabilityHandler {
	if engine == nil {
		panic("nil engine passed to NewAvailabilityHandler")
	}
	return &AvailabilityHandler{Engine: engine}
}

// RoomStatus handles GET /v1/rooms/availability?time=...  The instant
// is accepted as "YYYY-MM-DD HH:MM:SS" (or RFC3339) and the response
// maps every room number to "Occupied" or "Empty".
func (h *AvailabilityHandler) RoomStatus(c echo.Context) error {
	raw := c.QueryParam("time")
	if raw == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Please provide the 'time' parameter in the query string.",
		})
	}
	at, err := interval.ParseTime(raw)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid time format. Please provide time in the format 'YYYY-MM-DD HH:MM:SS'.",
		})
	}
	report, err := h.Engine.StatusAt(c.Request().Context(), at)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "availability query failed"})
	}
	return c.JSON(http.StatusOK, report)
}
