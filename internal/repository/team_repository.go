package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/meeting-room-reservation/internal/model"
)

// TeamRepo manages persistence for teams and their memberships.  The
// reservation core treats teams as opaque ownership references; only
// create and lookup are needed here.
type TeamRepo struct {
	db *sql.DB
}

// NewTeamRepo constructs a TeamRepo with the given DB handle.
func NewTeamRepo(db *sql.DB) *TeamRepo { return &TeamRepo{db: db} }

// Create inserts a team and its member rows inside one transaction so
// that a team never appears without its memberships.  The generated ID
// and creation timestamp are populated on the given model.
func (r *TeamRepo) Create(ctx context.Context, team *model.Team) error {
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

	res, err := tx.ExecContext(ctx, `INSERT INTO teams (name) VALUES (?)`, team.Name)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	team.ID = uint64(id)

	for _, uid := range team.MemberIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO team_members (team_id, user_id) VALUES (?, ?)`, team.ID, uid); err != nil {
			return err
		}
	}

	if err := tx.QueryRowContext(ctx,
		`SELECT created_at FROM teams WHERE id = ?`, team.ID).Scan(&team.CreatedAt); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// GetByID retrieves a team with its member IDs.  ErrTeamNotFound is
// returned when the id does not resolve.
func (r *TeamRepo) GetByID(ctx context.Context, id uint64) (*model.Team, error) {
	const q = `SELECT id, name, created_at FROM teams WHERE id = ?`
	var team model.Team
	err := r.db.QueryRowContext(ctx, q, id).Scan(&team.ID, &team.Name, &team.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}

	const qMembers = `SELECT user_id FROM team_members WHERE team_id = ? ORDER BY user_id`
	rows, err := r.db.QueryContext(ctx, qMembers, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var uid uint64
		if err := rows.Scan(&uid); err != nil {
			return nil, err
		}
		team.MemberIDs = append(team.MemberIDs, uid)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &team, nil
}
