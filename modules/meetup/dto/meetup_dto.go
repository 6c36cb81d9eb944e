package dto

import (
	"time"

	"quickmeet-api/modules/meetup/entity"
)

// ===================== Request DTOs =====================

// CreateMeetupRequest for creating a new meetup
type CreateMeetupRequest struct {
	Title           string `json:"title" validate:"required"`
	Description     string `json:"description"`
	Category        string `json:"category"`
	MeetingPoint    string `json:"meeting_point" validate:"required"`
	City            string `json:"city" validate:"required"`
	State           string `json:"state"`
	Country         string `json:"country"`
	Zip             string `json:"zip"`
	StreetAddress   string `json:"street_address"`
	ResponseTime    string `json:"response_time"` // 1hour/2hours/3hours/6hours/12hours
	MaxParticipants int    `json:"max_participants"`
	MinParticipants int    `json:"min_participants"`
	CostEstimate    string `json:"cost_estimate"`
}

// JoinMeetupRequest for joining an active meetup
type JoinMeetupRequest struct {
	Notes string `json:"notes"`
}

// ReinstateMeetupRequest for cloning an archived meetup
type ReinstateMeetupRequest struct {
	ResponseTime string `json:"response_time"`
}

// ===================== Response DTOs =====================

// MeetupResponse for meetup details
type MeetupResponse struct {
	ID               string    `json:"id"`
	OrganizerID      string    `json:"organizer_id"`
	Title            string    `json:"title"`
	Description      string    `json:"description,omitempty"`
	Category         string    `json:"category,omitempty"`
	MeetingPoint     string    `json:"meeting_point"`
	City             string    `json:"city"`
	State            string    `json:"state"`
	Country          string    `json:"country"`
	Zip              string    `json:"zip,omitempty"`
	StreetAddress    string    `json:"street_address,omitempty"`
	ResponseTime     string    `json:"response_time"`
	AvailableAt      time.Time `json:"available_at"`
	ExpiresAt        time.Time `json:"expires_at"`
	MaxParticipants  int       `json:"max_participants"`
	MinParticipants  int       `json:"min_participants"`
	CostEstimate     string    `json:"cost_estimate,omitempty"`
	Status           string    `json:"status"` // active | expired
	ParticipantCount int       `json:"participant_count"`
	CreatedAt        time.Time `json:"created_at"`
}

// ParticipantResponse for one roster row
type ParticipantResponse struct {
	MeetupID string    `json:"meetup_id"`
	UserID   string    `json:"user_id"`
	Status   string    `json:"status"`
	Notes    string    `json:"notes,omitempty"`
	JoinedAt time.Time `json:"joined_at"`
}

// PaginatedMeetupResponse for meetup lists
type PaginatedMeetupResponse struct {
	Items      []MeetupResponse `json:"items"`
	PageNumber int              `json:"page_number"`
	PageSize   int              `json:"page_size"`
}

// ===================== Mapper Functions =====================

// ToMeetupResponse maps entity to DTO. Status is computed lazily from
// ExpiresAt so correctness never waits on the sweep.
func ToMeetupResponse(m *entity.Meetup, now time.Time) *MeetupResponse {
	resp := &MeetupResponse{
		ID:               m.ID.String(),
		OrganizerID:      m.OrganizerID.String(),
		Title:            m.Title,
		MeetingPoint:     m.MeetingPoint,
		City:             m.City,
		State:            m.State,
		Country:          m.Country,
		ResponseTime:     string(m.ResponseTime),
		AvailableAt:      m.AvailableAt,
		ExpiresAt:        m.ExpiresAt,
		MaxParticipants:  m.MaxParticipants,
		MinParticipants:  m.MinParticipants,
		Status:           "active",
		ParticipantCount: m.ParticipantCount,
		CreatedAt:        m.CreatedAt,
	}

	if !m.IsActive || m.Expired(now) {
		resp.Status = "expired"
	}

	if m.Description != nil {
		resp.Description = *m.Description
	}
	if m.Category != nil {
		resp.Category = *m.Category
	}
	if m.Zip != nil {
		resp.Zip = *m.Zip
	}
	if m.StreetAddress != nil {
		resp.StreetAddress = *m.StreetAddress
	}
	if m.CostEstimate != nil {
		resp.CostEstimate = *m.CostEstimate
	}

	return resp
}

// ToParticipantResponse maps a roster row to DTO
func ToParticipantResponse(p *entity.MeetupParticipant) *ParticipantResponse {
	resp := &ParticipantResponse{
		MeetupID: p.MeetupID.String(),
		UserID:   p.UserID.String(),
		Status:   string(p.Status),
		JoinedAt: p.JoinedAt,
	}
	if p.Notes != nil {
		resp.Notes = *p.Notes
	}
	return resp
}
