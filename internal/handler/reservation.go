package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/meeting-room-reservation/internal/interval"
	"github.com/iliyamo/meeting-room-reservation/internal/model"
	"github.com/iliyamo/meeting-room-reservation/internal/queue"
	"github.com/iliyamo/meeting-room-reservation/internal/repository"
)

// ReservationHandler implements the reservation acceptance protocol:
// structural validation, interval validation, then the store's atomic
// conflict-checked insert.  Accepted reservations are echoed back with
// normalized UTC timestamps and announced on the message broker.
type ReservationHandler struct {
	Reservations repository.ReservationStore
	Rooms        repository.RoomStore
	Teams        repository.TeamStore
	// Publish announces accepted reservations.  Nil disables publishing
	// (tests, broker-less deployments).
	Publish func(ctx context.Context, ev queue.ReservationCreatedEvent) error
}

// NewReservationHandler constructs a ReservationHandler.
func NewReservationHandler(
	reservations repository.ReservationStore,
	rooms repository.RoomStore,
	teams repository.TeamStore,
	publish func(ctx context.Context, ev queue.ReservationCreatedEvent) error,
) *ReservationHandler {
	if reservations == nil || rooms == nil || teams == nil {
		panic("nil store passed to NewReservationHandler")
	}
	return &ReservationHandler{Reservations: reservations, Rooms: rooms, Teams: teams, Publish: publish}
}

type createReservationReq struct {
	RoomID    uint64 `json:"room_id" validate:"required"`
	TeamID    uint64 `json:"team_id" validate:"required"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
}

type reservationResp struct {
	ID        uint64 `json:"id"`
	RoomID    uint64 `json:"room_id"`
	TeamID    uint64 `json:"team_id"`
	UserID    uint64 `json:"user_id"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	CreatedAt string `json:"created_at"`
}

func toReservationResp(r *model.Reservation) reservationResp {
	return reservationResp{
		ID:        r.ID,
		RoomID:    r.RoomID,
		TeamID:    r.TeamID,
		UserID:    r.UserID,
		StartTime: r.StartTime.UTC().Format(time.RFC3339),
		EndTime:   r.EndTime.UTC().Format(time.RFC3339),
		CreatedAt: r.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// CreateReservation handles POST /v1/reservations.  The booking window
// is half-open: a reservation ending exactly when another starts does
// not conflict.
func (h *ReservationHandler) CreateReservation(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req createReservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "room_id, team_id, start_time and end_time are required"})
	}

	start, err := interval.ParseTime(req.StartTime)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid time format. Please provide time in the format 'YYYY-MM-DD HH:MM:SS'.",
		})
	}
	end, err := interval.ParseTime(req.EndTime)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid time format. Please provide time in the format 'YYYY-MM-DD HH:MM:SS'.",
		})
	}
	iv := interval.New(start, end)
	if !iv.IsValid() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "The start time must be before the end time."})
	}

	ctx := c.Request().Context()
	if _, err := h.Teams.GetByID(ctx, req.TeamID); err != nil {
		if errors.Is(err, repository.ErrTeamNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Team not found."})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load team failed"})
	}

	res := &model.Reservation{
		RoomID:    req.RoomID,
		TeamID:    req.TeamID,
		UserID:    userID,
		StartTime: iv.Start,
		EndTime:   iv.End,
	}
	if err := h.Reservations.Create(ctx, res); err != nil {
		switch {
		case errors.Is(err, repository.ErrRoomNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Meeting Room not found."})
		case errors.Is(err, repository.ErrReservationConflict):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "The meeting room is already reserved for this time."})
		case errors.Is(err, repository.ErrInvalidInterval):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "The start time must be before the end time."})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create reservation failed"})
	}

	h.announce(ctx, res)
	return c.JSON(http.StatusCreated, toReservationResp(res))
}

// announce publishes the created event without blocking the response.
func (h *ReservationHandler) announce(ctx context.Context, res *model.Reservation) {
	if h.Publish == nil {
		return
	}
	room, err := h.Rooms.GetByID(ctx, res.RoomID)
	if err != nil {
		logrus.WithError(err).Warn("reservation event: room lookup failed")
		return
	}
	ev := queue.ReservationCreatedEvent{
		ReservationID: res.ID,
		RoomID:        res.RoomID,
		RoomNumber:    room.RoomNumber,
		TeamID:        res.TeamID,
		UserID:        res.UserID,
		StartsAt:      res.StartTime.UTC().Format(time.RFC3339),
		EndsAt:        res.EndTime.UTC().Format(time.RFC3339),
		CreatedAt:     res.CreatedAt.UTC().Format(time.RFC3339),
	}
	go func() {
		pubCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := h.Publish(pubCtx, ev); err != nil {
			logrus.WithError(err).Warn("reservation event: publish failed")
		}
	}()
}

// GetReservation handles GET /v1/reservations/:id.
func (h *ReservationHandler) GetReservation(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	res, err := h.Reservations.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Reservation not found."})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load reservation failed"})
	}
	return c.JSON(http.StatusOK, toReservationResp(res))
}

// DeleteReservation handles DELETE /v1/reservations/:id (MANAGER only).
// Deleting twice reports not found on the second call.
func (h *ReservationHandler) DeleteReservation(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	if err := h.Reservations.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Reservation not found."})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete reservation failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ListMyReservations handles GET /v1/reservations, returning the
// caller's reservations newest first.
func (h *ReservationHandler) ListMyReservations(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.Reservations.ListForUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load reservations failed"})
	}
	out := make([]reservationResp, 0, len(items))
	for _, r := range items {
		out = append(out, toReservationResp(r))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}
