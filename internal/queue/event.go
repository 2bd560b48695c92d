// Package queue defines message payloads exchanged over the message
// broker and the background consumer that turns them into reminder log
// entries.
package queue

// ReservationCreatedEvent is published after a reservation is accepted
// by the store.  It carries enough information for downstream consumers
// to schedule reminders or feed analytics without querying the primary
// database.
type ReservationCreatedEvent struct {
	ReservationID uint64 `json:"reservation_id"`
	RoomID        uint64 `json:"room_id"`
	RoomNumber    uint32 `json:"room_number"`
	TeamID        uint64 `json:"team_id"`
	UserID        uint64 `json:"user_id"`
	StartsAt      string `json:"starts_at"`
	EndsAt        string `json:"ends_at"`
	CreatedAt     string `json:"created_at"`
}
