package entity

import (
	"time"

	"github.com/google/uuid"
)

// ParticipantStatus is the state of a roster membership. Leaving deletes
// the row, so "joined" is currently the only live status.
type ParticipantStatus string

const (
	ParticipantStatusJoined ParticipantStatus = "joined"
)

// MeetupParticipant is one roster row. (meetup_id, user_id) is the
// primary key, so a user can hold at most one membership per meetup.
type MeetupParticipant struct {
	MeetupID uuid.UUID         `db:"meetup_id" json:"meetup_id"`
	UserID   uuid.UUID         `db:"user_id" json:"user_id"`
	Status   ParticipantStatus `db:"status" json:"status"`
	Notes    *string           `db:"notes" json:"notes,omitempty"`
	JoinedAt time.Time         `db:"joined_at" json:"joined_at"`
}
