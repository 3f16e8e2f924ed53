package model

import "time"

// Position is the role label a referee holds within one assignment.
type Position string

// Referee positions recognized by the assignment service.
const (
	PositionCenter Position = "Center"
	PositionAR1    Position = "AR1"
	PositionAR2    Position = "AR2"
	PositionFourth Position = "Fourth"
	PositionVAR    Position = "VAR"
	PositionAVAR   Position = "AVAR"
	PositionAAR1   Position = "AAR1"
	PositionAAR2   Position = "AAR2"
)

// Valid reports whether p is a known position label.
func (p Position) Valid() bool {
	switch p {
	case PositionCenter, PositionAR1, PositionAR2, PositionFourth,
		PositionVAR, PositionAVAR, PositionAAR1, PositionAAR2:
		return true
	}
	return false
}

// RefereeSlot pairs a weak reference to a user-service record with the
// position that referee holds in the assignment.
type RefereeSlot struct {
	RefereeID string   `json:"referee_id"`
	Position  Position `json:"position"`
}

// Assignment represents an assignment record owned by the assignment
// service. GameID and the referee IDs are identifiers only; the referenced
// records live in the peer services and are re-validated on every mutation.
type Assignment struct {
	ID         string        `json:"id"`
	Referees   []RefereeSlot `json:"referees"`
	GameID     string        `json:"game_id"`
	AssignedAt time.Time     `json:"assigned_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

// EnrichedReferee is a referee snapshot fetched at enrichment time, tagged
// with the position recorded on the assignment.
type EnrichedReferee struct {
	User
	Position Position `json:"position"`
}

// EnrichedAssignment is the denormalized full-details view of one
// assignment. It is derived fresh on each request and never persisted.
type EnrichedAssignment struct {
	AssignmentID string            `json:"assignment_id"`
	Game         Game              `json:"game"`
	Referees     []EnrichedReferee `json:"referees"`
}
