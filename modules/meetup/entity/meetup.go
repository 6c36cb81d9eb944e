package entity

import (
	"time"

	"github.com/google/uuid"
)

// ResponseTime is the enumerated duration bucket a meetup stays open for.
// It fixes the expiry offset from the moment the meetup becomes available.
type ResponseTime string

const (
	ResponseTime1Hour   ResponseTime = "1hour"
	ResponseTime2Hours  ResponseTime = "2hours"
	ResponseTime3Hours  ResponseTime = "3hours"
	ResponseTime6Hours  ResponseTime = "6hours"
	ResponseTime12Hours ResponseTime = "12hours"
)

// Duration maps the response-time class to its expiry offset. Unknown
// classes fall back to one hour.
func (r ResponseTime) Duration() time.Duration {
	switch r {
	case ResponseTime2Hours:
		return 2 * time.Hour
	case ResponseTime3Hours:
		return 3 * time.Hour
	case ResponseTime6Hours:
		return 6 * time.Hour
	case ResponseTime12Hours:
		return 12 * time.Hour
	case ResponseTime1Hour:
		return time.Hour
	default:
		return time.Hour
	}
}

// Meetup is a short-lived, spontaneous meetup proposal. It is created
// active, expires when now passes ExpiresAt (observed lazily at read time
// and flipped persistently by the sweep), and once expired becomes the
// organizer's archived record and a possible reinstatement template.
type Meetup struct {
	ID               uuid.UUID    `db:"id" json:"id"`
	OrganizerID      uuid.UUID    `db:"organizer_id" json:"organizer_id"`
	Title            string       `db:"title" json:"title"`
	Description      *string      `db:"description" json:"description,omitempty"`
	Category         *string      `db:"category" json:"category,omitempty"`
	MeetingPoint     string       `db:"meeting_point" json:"meeting_point"`
	City             string       `db:"city" json:"city"`
	State            string       `db:"state" json:"state"`
	Country          string       `db:"country" json:"country"`
	Zip              *string      `db:"zip" json:"zip,omitempty"`
	StreetAddress    *string      `db:"street_address" json:"street_address,omitempty"`
	ResponseTime     ResponseTime `db:"response_time" json:"response_time"`
	AvailableAt      time.Time    `db:"available_at" json:"available_at"`
	ExpiresAt        time.Time    `db:"expires_at" json:"expires_at"`
	MaxParticipants  int          `db:"max_participants" json:"max_participants"`
	MinParticipants  int          `db:"min_participants" json:"min_participants"`
	CostEstimate     *string      `db:"cost_estimate" json:"cost_estimate,omitempty"`
	IsActive         bool         `db:"is_active" json:"is_active"`
	ParticipantCount int          `db:"participant_count" json:"participant_count"`
	CreatedAt        time.Time    `db:"created_at" json:"created_at"`
}

// Expired reports whether the meetup is past its expiry at the given
// moment, independent of the persisted is_active flag.
func (m *Meetup) Expired(now time.Time) bool {
	return now.After(m.ExpiresAt)
}
