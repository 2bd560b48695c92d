package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/iliyamo/meeting-room-reservation/internal/interval"
	"github.com/iliyamo/meeting-room-reservation/internal/model"
)

// MemoryStore is the in-process store driver.  It backs the
// STORE_DRIVER=memory deployment mode and the test suite.  A single
// RWMutex guards all maps, so the conflict check and the insert run
// under one critical section and the no-overlap invariant holds under
// any interleaving of writers.  Reads take the shared lock and may be
// stale by one write relative to an in-flight insert, which matches
// the read-committed contract of the MySQL driver.
type MemoryStore struct {
	mu sync.RWMutex

	rooms        map[uint64]*model.Room
	roomNumbers  map[uint32]uint64 // room_number -> room id, uniqueness index
	teams        map[uint64]*model.Team
	reservations map[uint64]*model.Reservation

	nextRoomID uint64
	nextTeamID uint64
	nextResID  uint64
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		rooms:        make(map[uint64]*model.Room),
		roomNumbers:  make(map[uint32]uint64),
		teams:        make(map[uint64]*model.Team),
		reservations: make(map[uint64]*model.Reservation),
	}
}

// Rooms returns the store's RoomStore view.
func (s *MemoryStore) Rooms() RoomStore { return (*memoryRooms)(s) }

// Teams returns the store's TeamStore view.
func (s *MemoryStore) Teams() TeamStore { return (*memoryTeams)(s) }

// Reservations returns the store's ReservationStore view.
func (s *MemoryStore) Reservations() ReservationStore { return (*memoryReservations)(s) }

type memoryRooms MemoryStore

func (s *memoryRooms) Create(ctx context.Context, room *model.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.roomNumbers[room.RoomNumber]; taken {
		return ErrRoomNumberExists
	}
	s.nextRoomID++
	room.ID = s.nextRoomID
	now := time.Now().UTC().Truncate(time.Second)
	room.CreatedAt = now
	room.UpdatedAt = now
	cp := *room
	s.rooms[room.ID] = &cp
	s.roomNumbers[room.RoomNumber] = room.ID
	return nil
}

func (s *memoryRooms) GetByID(ctx context.Context, id uint64) (*model.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.rooms[id]
	if !ok {
		return nil, ErrRoomNotFound
	}
	cp := *room
	return &cp, nil
}

func (s *memoryRooms) Update(ctx context.Context, room *model.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.rooms[room.ID]
	if !ok {
		return ErrRoomNotFound
	}
	if other, taken := s.roomNumbers[room.RoomNumber]; taken && other != room.ID {
		return ErrRoomNumberExists
	}
	delete(s.roomNumbers, cur.RoomNumber)
	cur.RoomNumber = room.RoomNumber
	cur.IsActive = room.IsActive
	cur.UpdatedAt = time.Now().UTC().Truncate(time.Second)
	s.roomNumbers[cur.RoomNumber] = cur.ID
	*room = *cur
	return nil
}

func (s *memoryRooms) ListActive(ctx context.Context) ([]*model.Room, error) {
	return s.list(func(r *model.Room) bool { return r.IsActive })
}

func (s *memoryRooms) ListAll(ctx context.Context) ([]*model.Room, error) {
	return s.list(func(*model.Room) bool { return true })
}

func (s *memoryRooms) list(keep func(*model.Room) bool) ([]*model.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*model.Room, 0, len(s.rooms))
	for _, room := range s.rooms {
		if keep(room) {
			cp := *room
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RoomNumber < out[j].RoomNumber })
	return out, nil
}

type memoryTeams MemoryStore

func (s *memoryTeams) Create(ctx context.Context, team *model.Team) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextTeamID++
	team.ID = s.nextTeamID
	team.CreatedAt = time.Now().UTC().Truncate(time.Second)
	cp := *team
	cp.MemberIDs = append([]uint64(nil), team.MemberIDs...)
	s.teams[team.ID] = &cp
	return nil
}

func (s *memoryTeams) GetByID(ctx context.Context, id uint64) (*model.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	team, ok := s.teams[id]
	if !ok {
		return nil, ErrTeamNotFound
	}
	cp := *team
	cp.MemberIDs = append([]uint64(nil), team.MemberIDs...)
	return &cp, nil
}

type memoryReservations MemoryStore

func (s *memoryReservations) Create(ctx context.Context, res *model.Reservation) error {
	iv := res.Interval()
	if !iv.IsValid() {
		return ErrInvalidInterval
	}

	// Check and insert under one write lock: concurrent overlapping
	// requests serialize here and exactly one of them wins.
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[res.RoomID]; !ok {
		return ErrRoomNotFound
	}
	for _, existing := range s.reservations {
		if existing.RoomID == res.RoomID && existing.Interval().Overlaps(iv) {
			return ErrReservationConflict
		}
	}
	s.nextResID++
	res.ID = s.nextResID
	res.StartTime = iv.Start
	res.EndTime = iv.End
	res.CreatedAt = time.Now().UTC().Truncate(time.Second)
	cp := *res
	s.reservations[res.ID] = &cp
	return nil
}

func (s *memoryReservations) Get(ctx context.Context, id uint64) (*model.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res, ok := s.reservations[id]
	if !ok {
		return nil, ErrReservationNotFound
	}
	cp := *res
	return &cp, nil
}

func (s *memoryReservations) Delete(ctx context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.reservations[id]; !ok {
		return ErrReservationNotFound
	}
	delete(s.reservations, id)
	return nil
}

func (s *memoryReservations) ListForRoom(ctx context.Context, roomID uint64) ([]*model.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*model.Reservation, 0)
	for _, res := range s.reservations {
		if res.RoomID == roomID {
			cp := *res
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (s *memoryReservations) ListForUser(ctx context.Context, userID uint64) ([]*model.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*model.Reservation, 0)
	for _, res := range s.reservations {
		if res.UserID == userID {
			cp := *res
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *memoryReservations) HasConflict(ctx context.Context, roomID uint64, iv interval.Interval) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, existing := range s.reservations {
		if existing.RoomID == roomID && existing.Interval().Overlaps(iv) {
			return true, nil
		}
	}
	return false, nil
}

func (s *memoryReservations) OccupiedRoomIDs(ctx context.Context, at time.Time) (map[uint64]bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	occupied := make(map[uint64]bool)
	for _, res := range s.reservations {
		if res.Interval().Contains(at) {
			occupied[res.RoomID] = true
		}
	}
	return occupied, nil
}
