package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/meeting-room-reservation/internal/model"
)

// RoomRepo manages persistence for meeting rooms in the `rooms` table.
// Room numbers carry a UNIQUE index; duplicate-key failures surface as
// ErrRoomNumberExists so that handlers can answer with the original
// "already registered" message.
type RoomRepo struct {
	db *sql.DB
}

// NewRoomRepo constructs a RoomRepo with the given DB handle.
func NewRoomRepo(db *sql.DB) *RoomRepo { return &RoomRepo{db: db} }

// DB exposes the underlying sql.DB so callers can begin transactions
// spanning multiple repositories.
func (r *RoomRepo) DB() *sql.DB { return r.db }

// isDuplicateKey reports whether the error is a MySQL duplicate-entry
// violation (error 1062).
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}

// Create inserts a new room and populates the generated ID and the
// DB-default fields (is_active, timestamps) on the given model.
func (r *RoomRepo) Create(ctx context.Context, room *model.Room) error {
	const qInsert = `INSERT INTO rooms (room_number, is_active) VALUES (?, ?)`
	res, err := r.db.ExecContext(ctx, qInsert, room.RoomNumber, room.IsActive)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrRoomNumberExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	room.ID = uint64(id)

	const qSelect = `SELECT id, room_number, is_active, created_at, updated_at FROM rooms WHERE id = ?`
	return r.db.QueryRowContext(ctx, qSelect, room.ID).
		Scan(&room.ID, &room.RoomNumber, &room.IsActive, &room.CreatedAt, &room.UpdatedAt)
}

// GetByID retrieves a room by its ID.  It returns ErrRoomNotFound when
// no matching row exists.
func (r *RoomRepo) GetByID(ctx context.Context, id uint64) (*model.Room, error) {
	const q = `SELECT id, room_number, is_active, created_at, updated_at FROM rooms WHERE id = ?`
	var room model.Room
	err := r.db.QueryRowContext(ctx, q, id).
		Scan(&room.ID, &room.RoomNumber, &room.IsActive, &room.CreatedAt, &room.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return &room, nil
}

// Update replaces the room number and active flag of an existing room.
// ErrRoomNotFound is returned when the id does not resolve and
// ErrRoomNumberExists when the new number collides with another room.
func (r *RoomRepo) Update(ctx context.Context, room *model.Room) error {
	const q = `UPDATE rooms
	           SET room_number = ?, is_active = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, room.RoomNumber, room.IsActive, room.ID)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrRoomNumberExists
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Zero rows affected is either "not found" or "no change"; tell
		// them apart with an existence probe.
		var one int
		if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM rooms WHERE id = ? LIMIT 1`, room.ID).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrRoomNotFound
			}
			return err
		}
	}
	const qSelect = `SELECT id, room_number, is_active, created_at, updated_at FROM rooms WHERE id = ?`
	return r.db.QueryRowContext(ctx, qSelect, room.ID).
		Scan(&room.ID, &room.RoomNumber, &room.IsActive, &room.CreatedAt, &room.UpdatedAt)
}

// ListActive returns all rooms currently open for booking, ordered by
// room number.  When none exist an empty slice is returned.
func (r *RoomRepo) ListActive(ctx context.Context) ([]*model.Room, error) {
	const q = `SELECT id, room_number, is_active, created_at, updated_at
	           FROM rooms WHERE is_active = TRUE ORDER BY room_number`
	return r.list(ctx, q)
}

// ListAll returns every room regardless of the active flag, ordered by
// room number.  The availability engine reports over this full set.
func (r *RoomRepo) ListAll(ctx context.Context) ([]*model.Room, error) {
	const q = `SELECT id, room_number, is_active, created_at, updated_at
	           FROM rooms ORDER BY room_number`
	return r.list(ctx, q)
}

func (r *RoomRepo) list(ctx context.Context, q string) ([]*model.Room, error) {
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*model.Room, 0)
	for rows.Next() {
		room := new(model.Room)
		if err := rows.Scan(&room.ID, &room.RoomNumber, &room.IsActive, &room.CreatedAt, &room.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, room)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
