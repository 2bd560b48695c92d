package model

import "time"

// Room represents a bookable meeting room as stored in the `rooms`
// table.  Rooms are registered and edited by managers only; members can
// browse them and reserve them for their teams.
//
// Fields:
//  ID         – primary key identifier.
//  RoomNumber – human-facing room number, unique across all rooms.
//  IsActive   – whether the room is currently available for booking.
//               Deactivation is the deletion proxy; rooms are never
//               hard-deleted.
//  CreatedAt  – creation timestamp.
//  UpdatedAt  – last update timestamp.
type Room struct {
	ID         uint64    // rooms.id
	RoomNumber uint32    // rooms.room_number (unique)
	IsActive   bool      // rooms.is_active
	CreatedAt  time.Time // rooms.created_at
	UpdatedAt  time.Time // rooms.updated_at
}
