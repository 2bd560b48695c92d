// Package availability computes point-in-time occupancy snapshots over
// the reservation store.  The report covers every known room, active or
// not, keyed by the human-facing room number, and each room is always
// one of exactly two states.
package availability

import (
	"context"
	"strconv"
	"time"

	"github.com/iliyamo/meeting-room-reservation/internal/repository"
)

// Status is the occupancy state of a room at an instant.
type Status string

const (
	// Occupied means a live reservation's interval contains the instant.
	Occupied Status = "Occupied"
	// Empty means no live reservation covers the instant.
	Empty Status = "Empty"
)

// Engine answers room-status queries.  It only reads; the snapshot is
// advisory and may be stale by one write relative to in-flight inserts.
type Engine struct {
	rooms        repository.RoomStore
	reservations repository.ReservationStore
}

// NewEngine returns an Engine over the given stores.
func NewEngine(rooms repository.RoomStore, reservations repository.ReservationStore) *Engine {
	return &Engine{rooms: rooms, reservations: reservations}
}

// StatusAt returns the occupancy of every known room at the given
// instant, keyed by room number rendered as a string.  A room is
// Occupied when some reservation satisfies start <= at < end.  The
// caller must pass an already validated instant; parsing the wire
// format is the HTTP layer's concern.
func (e *Engine) StatusAt(ctx context.Context, at time.Time) (map[string]Status, error) {
	rooms, err := e.rooms.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	occupied, err := e.reservations.OccupiedRoomIDs(ctx, at.UTC())
	if err != nil {
		return nil, err
	}

	report := make(map[string]Status, len(rooms))
	for _, room := range rooms {
		key := strconv.FormatUint(uint64(room.RoomNumber), 10)
		if occupied[room.ID] {
			report[key] = Occupied
		} else {
			report[key] = Empty
		}
	}
	return report, nil
}
