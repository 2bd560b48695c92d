package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/meeting-room-reservation/internal/handler"
	"github.com/iliyamo/meeting-room-reservation/internal/middleware"
	"github.com/iliyamo/meeting-room-reservation/internal/model"
)

// RegisterMember registers the endpoints available to every
// authenticated user: room browsing, the availability snapshot, team
// creation/lookup and the reservation lifecycle short of deletion.
func RegisterMember(e *echo.Echo, jwtSecret string,
	rooms *handler.RoomHandler,
	avail *handler.AvailabilityHandler,
	reservations *handler.ReservationHandler,
	teams *handler.TeamHandler,
) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(model.RoleManager, model.RoleMember))

	// Static room paths are registered before /rooms/:id.
	g.GET("/rooms/active", rooms.ListActiveRooms)
	g.GET("/rooms/availability", avail.RoomStatus)
	g.GET("/rooms/:id", rooms.GetRoom)

	g.POST("/reservations", reservations.CreateReservation)
	g.GET("/reservations", reservations.ListMyReservations)
	g.GET("/reservations/:id", reservations.GetReservation)

	g.POST("/teams", teams.CreateTeam)
	g.GET("/teams/:id", teams.GetTeam)
}
