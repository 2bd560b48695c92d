package repository

import (
	"context"
	"database/sql"
	"errors"

	"time"

	"github.com/iliyamo/meeting-room-reservation/internal/interval"
	"github.com/iliyamo/meeting-room-reservation/internal/model"
)

// ReservationRepo is the MySQL-backed reservation store.  It owns the
// set of live reservations per room and guarantees that the conflict
// check and the insert are observed as one atomic unit: Create locks
// the room row with SELECT ... FOR UPDATE, which serializes all writers
// for that room for the duration of the check-and-insert transaction.
// Writers for different rooms do not block each other, and reads run
// outside any lock at read-committed consistency.  All timestamps are
// stored as UTC DATETIME values.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// DB exposes the underlying sql.DB.
func (r *ReservationRepo) DB() *sql.DB { return r.db }

// overlapPredicate selects live reservations whose interval overlaps
// [start, end) on half-open semantics: existing.start < end AND
// existing.end > start.  This is the SQL rendering of
// interval.Overlaps and must stay in lockstep with it.
const overlapPredicate = `room_id = ? AND start_time < ? AND end_time > ?`

// Create atomically checks for conflicts and inserts the reservation.
// The caller must have validated the interval already; Create still
// refuses empty or backwards intervals with ErrInvalidInterval as a
// last line of defense.  ErrRoomNotFound is returned when the room id
// does not resolve and ErrReservationConflict when a live reservation
// overlaps the requested window at commit time.  On success the
// generated ID, normalized times and creation timestamp are populated
// on the given model.  Nothing is ever partially inserted.
func (r *ReservationRepo) Create(ctx context.Context, res *model.Reservation) error {
	iv := res.Interval()
	if !iv.IsValid() {
		return ErrInvalidInterval
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// Lock the room row.  Concurrent Creates for the same room queue up
	// here, so the overlap check below always sees every committed
	// insert that preceded it.
	var roomID uint64
	err = tx.QueryRowContext(ctx, `SELECT id FROM rooms WHERE id = ? FOR UPDATE`, res.RoomID).Scan(&roomID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrRoomNotFound
		}
		return err
	}

	start := interval.FormatDB(iv.Start)
	end := interval.FormatDB(iv.End)

	var conflicts int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reservations WHERE `+overlapPredicate, res.RoomID, end, start,
	).Scan(&conflicts)
	if err != nil {
		return err
	}
	if conflicts > 0 {
		return ErrReservationConflict
	}

	result, err := tx.ExecContext(ctx,
		`INSERT INTO reservations (room_id, team_id, user_id, start_time, end_time) VALUES (?, ?, ?, ?, ?)`,
		res.RoomID, res.TeamID, res.UserID, start, end,
	)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)

	// Read the row back so the caller echoes persisted values, not input.
	err = tx.QueryRowContext(ctx,
		`SELECT room_id, team_id, user_id, start_time, end_time, created_at FROM reservations WHERE id = ?`, res.ID,
	).Scan(&res.RoomID, &res.TeamID, &res.UserID, &res.StartTime, &res.EndTime, &res.CreatedAt)
	if err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// Get performs a point lookup of a live reservation.  It returns
// ErrReservationNotFound when the id does not resolve.
func (r *ReservationRepo) Get(ctx context.Context, id uint64) (*model.Reservation, error) {
	const q = `SELECT id, room_id, team_id, user_id, start_time, end_time, created_at
	           FROM reservations WHERE id = ?`
	var res model.Reservation
	err := r.db.QueryRowContext(ctx, q, id).
		Scan(&res.ID, &res.RoomID, &res.TeamID, &res.UserID, &res.StartTime, &res.EndTime, &res.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	return &res, nil
}

// Delete hard-deletes a live reservation.  The single DELETE statement
// is atomic on its own; it can only remove a conflict source, never
// create an overlap, so no room lock is taken.  A second delete of the
// same id reports ErrReservationNotFound.
func (r *ReservationRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reservations WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrReservationNotFound
	}
	return nil
}

// ListForRoom returns all live reservations for a room ordered by start
// time for deterministic output.
func (r *ReservationRepo) ListForRoom(ctx context.Context, roomID uint64) ([]*model.Reservation, error) {
	const q = `SELECT id, room_id, team_id, user_id, start_time, end_time, created_at
	           FROM reservations WHERE room_id = ? ORDER BY start_time`
	return r.list(ctx, q, roomID)
}

// ListForUser returns the reservations submitted by a user, newest first.
func (r *ReservationRepo) ListForUser(ctx context.Context, userID uint64) ([]*model.Reservation, error) {
	const q = `SELECT id, room_id, team_id, user_id, start_time, end_time, created_at
	           FROM reservations WHERE user_id = ? ORDER BY created_at DESC, id DESC`
	return r.list(ctx, q, userID)
}

// HasConflict reports whether any live reservation for the room
// overlaps the interval.  The answer is advisory: it may be stale by
// one write, and Create re-validates under the room lock at commit.
func (r *ReservationRepo) HasConflict(ctx context.Context, roomID uint64, iv interval.Interval) (bool, error) {
	var conflicts int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reservations WHERE `+overlapPredicate,
		roomID, interval.FormatDB(iv.End), interval.FormatDB(iv.Start),
	).Scan(&conflicts)
	if err != nil {
		return false, err
	}
	return conflicts > 0, nil
}

// OccupiedRoomIDs returns the ids of rooms occupied at the instant:
// rooms with a reservation satisfying start_time <= t < end_time.
func (r *ReservationRepo) OccupiedRoomIDs(ctx context.Context, at time.Time) (map[uint64]bool, error) {
	const q = `SELECT DISTINCT room_id FROM reservations WHERE start_time <= ? AND end_time > ?`
	ts := interval.FormatDB(at)
	rows, err := r.db.QueryContext(ctx, q, ts, ts)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	occupied := make(map[uint64]bool)
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		occupied[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return occupied, nil
}

func (r *ReservationRepo) list(ctx context.Context, q string, arg any) ([]*model.Reservation, error) {
	rows, err := r.db.QueryContext(ctx, q, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*model.Reservation, 0)
	for rows.Next() {
		res := new(model.Reservation)
		if err := rows.Scan(&res.ID, &res.RoomID, &res.TeamID, &res.UserID, &res.StartTime, &res.EndTime, &res.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
