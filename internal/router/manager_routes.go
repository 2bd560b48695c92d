package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/meeting-room-reservation/internal/handler"
	"github.com/iliyamo/meeting-room-reservation/internal/middleware"
	"github.com/iliyamo/meeting-room-reservation/internal/model"
)

// RegisterManager registers the manager-only endpoints: room
// registration and editing, and reservation deletion.
func RegisterManager(e *echo.Echo, jwtSecret string,
	rooms *handler.RoomHandler,
	reservations *handler.ReservationHandler,
) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(model.RoleManager))

	g.POST("/rooms", rooms.CreateRoom)
	g.PUT("/rooms/:id", rooms.UpdateRoom)
	g.DELETE("/reservations/:id", reservations.DeleteReservation)
}
