package model

import (
	"time"

	"github.com/iliyamo/meeting-room-reservation/internal/interval"
)

// Reservation is a live booking of one room by one team for a half-open
// time window [StartTime, EndTime).  Rows exist only for accepted
// reservations: a request either becomes a row through the store's
// atomic conflict-checked insert or it is rejected, and a row only ever
// leaves the table through a manager-authorized delete.  Reservations
// are never updated in place.
//
// Fields:
//  ID        – primary key identifier.
//  RoomID    – room being reserved.
//  TeamID    – team the reservation is made for.
//  UserID    – user who submitted the request.
//  StartTime – inclusive start of the window (UTC).
//  EndTime   – exclusive end of the window (UTC).
//  CreatedAt – creation timestamp.
type Reservation struct {
	ID        uint64    // reservations.id
	RoomID    uint64    // reservations.room_id
	TeamID    uint64    // reservations.team_id
	UserID    uint64    // reservations.user_id
	StartTime time.Time // reservations.start_time
	EndTime   time.Time // reservations.end_time
	CreatedAt time.Time // reservations.created_at
}

// Interval returns the reservation's booking window as an interval
// value, the single currency for all conflict checks.
func (r *Reservation) Interval() interval.Interval {
	return interval.New(r.StartTime, r.EndTime)
}
