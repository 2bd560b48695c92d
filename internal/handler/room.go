package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/meeting-room-reservation/internal/model"
	"github.com/iliyamo/meeting-room-reservation/internal/repository"
)

// RoomHandler exposes room registration, editing and browsing.  Create
// and Update are wired behind the MANAGER role gate; browsing is open to
// every authenticated user.
type RoomHandler struct {
	Rooms repository.RoomStore
}

// NewRoomHandler constructs a RoomHandler.
func NewRoomHandler(rooms repository.RoomStore) *RoomHandler {
	if rooms == nil {
		panic("nil store passed to NewRoomHandler")
	}
	return &RoomHandler{Rooms: rooms}
}

type roomReq struct {
	RoomNumber uint32 `json:"room_number" validate:"required,gt=0"`
	IsActive   *bool  `json:"is_active"`
}

type roomResp struct {
	ID         uint64    `json:"id"`
	RoomNumber uint32    `json:"room_number"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func toRoomResp(r *model.Room) roomResp {
	return roomResp{
		ID:         r.ID,
		RoomNumber: r.RoomNumber,
		IsActive:   r.IsActive,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

// CreateRoom handles POST /v1/rooms.  Room numbers are unique; a
// duplicate registration is rejected with 400.
func (h *RoomHandler) CreateRoom(c echo.Context) error {
	var req roomReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "room_number is required"})
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	room := &model.Room{RoomNumber: req.RoomNumber, IsActive: active}
	if err := h.Rooms.Create(c.Request().Context(), room); err != nil {
		if errors.Is(err, repository.ErrRoomNumberExists) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "This room number is registered already"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create room failed"})
	}
	return c.JSON(http.StatusCreated, toRoomResp(room))
}

// GetRoom handles GET /v1/rooms/:id.
func (h *RoomHandler) GetRoom(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	room, err := h.Rooms.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Meeting Room not found."})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load room failed"})
	}
	return c.JSON(http.StatusOK, toRoomResp(room))
}

// UpdateRoom handles PUT /v1/rooms/:id.  The room number and active
// flag are replaced together; renumbering onto a taken number fails.
func (h *RoomHandler) UpdateRoom(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	var req roomReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "room_number is required"})
	}

	ctx := c.Request().Context()
	current, err := h.Rooms.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Meeting Room not found."})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load room failed"})
	}

	current.RoomNumber = req.RoomNumber
	if req.IsActive != nil {
		current.IsActive = *req.IsActive
	}
	if err := h.Rooms.Update(ctx, current); err != nil {
		switch {
		case errors.Is(err, repository.ErrRoomNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Meeting Room not found."})
		case errors.Is(err, repository.ErrRoomNumberExists):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "This room number is registered already"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update room failed"})
	}
	return c.JSON(http.StatusOK, toRoomResp(current))
}

// ListActiveRooms handles GET /v1/rooms/active.  An empty result is
// reported as 404 to match the bookable-room browse contract.
func (h *RoomHandler) ListActiveRooms(c echo.Context) error {
	rooms, err := h.Rooms.ListActive(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load rooms failed"})
	}
	if len(rooms) == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "No active rooms available."})
	}
	items := make([]roomResp, 0, len(rooms))
	for _, r := range rooms {
		items = append(items, toRoomResp(r))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}
