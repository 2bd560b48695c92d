// Package repository contains the data access layer: the MySQL-backed
// stores used in production and an in-memory driver sharing the same
// contracts.  Sentinel errors defined here let handlers distinguish
// failure modes with errors.Is and translate them deterministically to
// transport status codes.
package repository

import "errors"

// ErrRoomNotFound is returned when a room id does not resolve.
var ErrRoomNotFound = errors.New("room not found")

// ErrRoomNumberExists is returned when creating or renumbering a room
// would violate the room-number uniqueness invariant.
var ErrRoomNumberExists = errors.New("room number already registered")

// ErrTeamNotFound is returned when a team id does not resolve.
var ErrTeamNotFound = errors.New("team not found")

// ErrReservationNotFound is returned when a reservation id does not
// resolve among live reservations.
var ErrReservationNotFound = errors.New("reservation not found")

// ErrReservationConflict is returned by the atomic insert when the
// requested interval overlaps a live reservation for the same room.
// It is terminal for that request; the caller may resubmit with a
// different interval.
var ErrReservationConflict = errors.New("reservation conflict")

// ErrInvalidInterval is returned when a reservation interval is empty
// or backwards (start_time >= end_time).  It is detected before any
// store access.
var ErrInvalidInterval = errors.New("invalid interval")

// ErrEmailExists is returned when registering a user with an email
// already present in the users table.
var ErrEmailExists = errors.New("email already exists")
