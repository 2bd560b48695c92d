package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/meeting-room-reservation/internal/interval"
	"github.com/iliyamo/meeting-room-reservation/internal/model"
)

func ts(t *testing.T, s string) time.Time {
	t.Helper()
	v, err := interval.ParseTime(s)
	require.NoError(t, err)
	return v
}

func newStoreWithRoom(t *testing.T) (*MemoryStore, *model.Room) {
	t.Helper()
	store := NewMemoryStore()
	room := &model.Room{RoomNumber: 111, IsActive: true}
	require.NoError(t, store.Rooms().Create(context.Background(), room))
	return store, room
}

func TestRoomNumberUniqueness(t *testing.T) {
	ctx := context.Background()
	store, room := newStoreWithRoom(t)

	dup := &model.Room{RoomNumber: 111, IsActive: false}
	assert.ErrorIs(t, store.Rooms().Create(ctx, dup), ErrRoomNumberExists)

	other := &model.Room{RoomNumber: 112, IsActive: true}
	require.NoError(t, store.Rooms().Create(ctx, other))

	// Renumbering onto a taken number must fail; keeping your own number must not.
	other.RoomNumber = 111
	assert.ErrorIs(t, store.Rooms().Update(ctx, other), ErrRoomNumberExists)
	room.IsActive = false
	require.NoError(t, store.Rooms().Update(ctx, room))
	assert.False(t, room.IsActive)
}

func TestReservationLifecycle(t *testing.T) {
	ctx := context.Background()
	store, room := newStoreWithRoom(t)
	rs := store.Reservations()

	res := &model.Reservation{
		RoomID:    room.ID,
		TeamID:    1,
		UserID:    1,
		StartTime: ts(t, "2023-08-07 10:00:00"),
		EndTime:   ts(t, "2023-08-07 12:00:00"),
	}
	require.NoError(t, rs.Create(ctx, res))
	require.NotZero(t, res.ID)

	got, err := rs.Get(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, res.RoomID, got.RoomID)
	assert.Equal(t, res.StartTime, got.StartTime)

	require.NoError(t, rs.Delete(ctx, res.ID))
	assert.ErrorIs(t, rs.Delete(ctx, res.ID), ErrReservationNotFound, "second delete reports not found")
	_, err = rs.Get(ctx, res.ID)
	assert.ErrorIs(t, err, ErrReservationNotFound)
}

func TestReservationValidation(t *testing.T) {
	ctx := context.Background()
	store, room := newStoreWithRoom(t)
	rs := store.Reservations()

	backwards := &model.Reservation{
		RoomID:    room.ID,
		StartTime: ts(t, "2023-08-07 12:00:00"),
		EndTime:   ts(t, "2023-08-07 10:00:00"),
	}
	assert.ErrorIs(t, rs.Create(ctx, backwards), ErrInvalidInterval)

	empty := &model.Reservation{
		RoomID:    room.ID,
		StartTime: ts(t, "2023-08-07 10:00:00"),
		EndTime:   ts(t, "2023-08-07 10:00:00"),
	}
	assert.ErrorIs(t, rs.Create(ctx, empty), ErrInvalidInterval)

	unknownRoom := &model.Reservation{
		RoomID:    room.ID + 99,
		StartTime: ts(t, "2023-08-07 10:00:00"),
		EndTime:   ts(t, "2023-08-07 12:00:00"),
	}
	assert.ErrorIs(t, rs.Create(ctx, unknownRoom), ErrRoomNotFound)
}

func TestReservationConflicts(t *testing.T) {
	ctx := context.Background()
	store, room := newStoreWithRoom(t)
	rs := store.Reservations()

	first := &model.Reservation{
		RoomID:    room.ID,
		StartTime: ts(t, "2023-08-07 09:00:00"),
		EndTime:   ts(t, "2023-08-07 11:00:00"),
	}
	require.NoError(t, rs.Create(ctx, first))

	overlapping := &model.Reservation{
		RoomID:    room.ID,
		StartTime: ts(t, "2023-08-07 10:00:00"),
		EndTime:   ts(t, "2023-08-07 12:00:00"),
	}
	assert.ErrorIs(t, rs.Create(ctx, overlapping), ErrReservationConflict)

	// Touching endpoints are not a conflict.
	touching := &model.Reservation{
		RoomID:    room.ID,
		StartTime: ts(t, "2023-08-07 11:00:00"),
		EndTime:   ts(t, "2023-08-07 13:00:00"),
	}
	require.NoError(t, rs.Create(ctx, touching))

	// Same window on another room is fine.
	other := &model.Room{RoomNumber: 112, IsActive: true}
	require.NoError(t, store.Rooms().Create(ctx, other))
	elsewhere := &model.Reservation{
		RoomID:    other.ID,
		StartTime: ts(t, "2023-08-07 10:00:00"),
		EndTime:   ts(t, "2023-08-07 12:00:00"),
	}
	require.NoError(t, rs.Create(ctx, elsewhere))

	has, err := rs.HasConflict(ctx, room.ID, interval.New(ts(t, "2023-08-07 10:30:00"), ts(t, "2023-08-07 10:45:00")))
	require.NoError(t, err)
	assert.True(t, has)
	has, err = rs.HasConflict(ctx, room.ID, interval.New(ts(t, "2023-08-07 13:00:00"), ts(t, "2023-08-07 14:00:00")))
	require.NoError(t, err)
	assert.False(t, has)

	listed, err := rs.ListForRoom(ctx, room.ID)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.True(t, listed[0].StartTime.Before(listed[1].StartTime), "sorted by start time")
}

// TestConcurrentOverlappingCreates drives N goroutines at the same room
// with pairwise-overlapping windows; exactly one insert may win.
func TestConcurrentOverlappingCreates(t *testing.T) {
	ctx := context.Background()
	store, room := newStoreWithRoom(t)
	rs := store.Reservations()

	const n = 32
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			// Every window covers 10:30-11:00, so all pairs overlap.
			res := &model.Reservation{
				RoomID:    room.ID,
				UserID:    uint64(i + 1),
				StartTime: ts(t, "2023-08-07 10:00:00").Add(time.Duration(i) * time.Minute),
				EndTime:   ts(t, "2023-08-07 11:00:00").Add(time.Duration(i) * time.Minute),
			}
			errs[i] = rs.Create(ctx, res)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, ErrReservationConflict)
		}
	}
	assert.Equal(t, 1, succeeded, "exactly one concurrent writer may win")

	listed, err := rs.ListForRoom(ctx, room.ID)
	require.NoError(t, err)
	assert.Len(t, listed, 1)
}

func TestOccupiedRoomIDs(t *testing.T) {
	ctx := context.Background()
	store, room := newStoreWithRoom(t)
	rs := store.Reservations()

	res := &model.Reservation{
		RoomID:    room.ID,
		StartTime: ts(t, "2023-08-07 10:00:00"),
		EndTime:   ts(t, "2023-08-07 12:00:00"),
	}
	require.NoError(t, rs.Create(ctx, res))

	occupied, err := rs.OccupiedRoomIDs(ctx, ts(t, "2023-08-07 11:00:00"))
	require.NoError(t, err)
	assert.True(t, occupied[room.ID])

	occupied, err = rs.OccupiedRoomIDs(ctx, ts(t, "2023-08-07 12:00:00"))
	require.NoError(t, err)
	assert.False(t, occupied[room.ID], "half-open: empty at the end instant")

	occupied, err = rs.OccupiedRoomIDs(ctx, ts(t, "2023-08-07 10:00:00"))
	require.NoError(t, err)
	assert.True(t, occupied[room.ID], "half-open: occupied at the start instant")
}
