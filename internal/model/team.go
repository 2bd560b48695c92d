package model

import "time"

// Team groups the users a reservation is made on behalf of.  The
// reservation core never mutates teams; it only resolves them as the
// owning side of a booking.  Membership lives in the `team_members`
// join table.
//
// Fields:
//  ID        – primary key identifier.
//  Name      – human readable team name.
//  MemberIDs – user IDs belonging to the team.
//  CreatedAt – creation timestamp.
type Team struct {
	ID        uint64    // teams.id
	Name      string    // teams.name
	MemberIDs []uint64  // team_members.user_id rows for this team
	CreatedAt time.Time // teams.created_at
}
