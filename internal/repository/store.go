package repository

import (
	"context"
	"time"

	"github.com/iliyamo/meeting-room-reservation/internal/interval"
	"github.com/iliyamo/meeting-room-reservation/internal/model"
)

// RoomStore is the contract shared by the MySQL and in-memory room
// drivers.  Handlers and the availability engine depend on it rather
// than on a concrete driver so that the store backend can be selected
// at startup (STORE_DRIVER) and swapped in tests.
type RoomStore interface {
	// Create inserts a room.  ErrRoomNumberExists is returned when the
	// room number is already registered; on success the generated ID
	// and timestamps are populated on the given room.
	Create(ctx context.Context, room *model.Room) error
	// GetByID returns the room or ErrRoomNotFound.
	GetByID(ctx context.Context, id uint64) (*model.Room, error)
	// Update replaces the room number and active flag.  It returns
	// ErrRoomNotFound when the id does not resolve and
	// ErrRoomNumberExists when renumbering collides with another room.
	Update(ctx context.Context, room *model.Room) error
	// ListActive returns rooms with is_active set, ordered by number.
	ListActive(ctx context.Context) ([]*model.Room, error)
	// ListAll returns every known room, active or not, ordered by number.
	ListAll(ctx context.Context) ([]*model.Room, error)
}

// TeamStore is the contract for team persistence.  The reservation core
// only creates teams and resolves them for ownership attribution.
type TeamStore interface {
	// Create inserts a team together with its member references.
	Create(ctx context.Context, team *model.Team) error
	// GetByID returns the team with members or ErrTeamNotFound.
	GetByID(ctx context.Context, id uint64) (*model.Team, error)
}

// ReservationStore is the contract for the conflict-checked reservation
// keeper.  Create must behave as a single indivisible check-and-insert
// with respect to all other inserts for the same room: two concurrent
// requests with overlapping intervals on one room must never both
// succeed.
type ReservationStore interface {
	// Create validates that the room resolves (ErrRoomNotFound), that no
	// live reservation for the room overlaps the interval
	// (ErrReservationConflict) and inserts, all as one atomic unit.  On
	// success the generated ID and creation timestamp are populated.
	// It never partially inserts.
	Create(ctx context.Context, res *model.Reservation) error
	// Get returns the reservation or ErrReservationNotFound.
	Get(ctx context.Context, id uint64) (*model.Reservation, error)
	// Delete removes a live reservation.  ErrReservationNotFound is
	// returned when the id does not resolve (including repeat deletes).
	Delete(ctx context.Context, id uint64) error
	// ListForRoom returns all live reservations for a room ordered by
	// start time.
	ListForRoom(ctx context.Context, roomID uint64) ([]*model.Reservation, error)
	// ListForUser returns the user's reservations, newest first.
	ListForUser(ctx context.Context, userID uint64) ([]*model.Reservation, error)
	// HasConflict reports whether any live reservation for the room
	// overlaps the interval.  Advisory only; Create re-checks at commit.
	HasConflict(ctx context.Context, roomID uint64, iv interval.Interval) (bool, error)
	// OccupiedRoomIDs returns the ids of rooms having a reservation
	// whose interval contains the instant (start <= t < end).
	OccupiedRoomIDs(ctx context.Context, at time.Time) (map[uint64]bool, error)
}

// Both drivers must satisfy the store contracts.
var (
	_ RoomStore        = (*RoomRepo)(nil)
	_ TeamStore        = (*TeamRepo)(nil)
	_ ReservationStore = (*ReservationRepo)(nil)
	_ RoomStore        = (*memoryRooms)(nil)
	_ TeamStore        = (*memoryTeams)(nil)
	_ ReservationStore = (*memoryReservations)(nil)
)
