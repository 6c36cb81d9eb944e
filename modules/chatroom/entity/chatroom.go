package entity

import (
	"time"

	"github.com/google/uuid"
)

// Chatroom is the single ephemeral group chat bound 1:1 to a meetup. The
// meetup_id column carries a unique constraint, which is what makes
// concurrent first-access creation safe. Its lifetime is derived from the
// meetup's: it is deactivated when the meetup expires, with a short grace
// window for wrap-up.
type Chatroom struct {
	ID        uuid.UUID `db:"id" json:"id"`
	MeetupID  uuid.UUID `db:"meetup_id" json:"meetup_id"`
	Name      string    `db:"name" json:"name"`
	City      string    `db:"city" json:"city"`
	State     string    `db:"state" json:"state"`
	Country   string    `db:"country" json:"country"`
	IsActive  bool      `db:"is_active" json:"is_active"`
	ExpiresAt time.Time `db:"expires_at" json:"expires_at"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ChatMessage is one append-only message row, ordered by sent_at.
// Messages are retained read-only after the chatroom is deactivated.
type ChatMessage struct {
	ID         uuid.UUID `db:"id" json:"id"`
	ChatroomID uuid.UUID `db:"chatroom_id" json:"chatroom_id"`
	SenderID   uuid.UUID `db:"sender_id" json:"sender_id"`
	Content    string    `db:"content" json:"content"`
	SentAt     time.Time `db:"sent_at" json:"sent_at"`
}
