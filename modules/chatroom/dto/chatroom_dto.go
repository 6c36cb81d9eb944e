package dto

import (
	"time"

	"quickmeet-api/modules/chatroom/entity"
)

// ===================== Request DTOs =====================

// PostMessageRequest for appending a message
type PostMessageRequest struct {
	Content string `json:"content" validate:"required"`
}

// ===================== Response DTOs =====================

// ChatroomResponse for chatroom details
type ChatroomResponse struct {
	ID        string    `json:"id"`
	MeetupID  string    `json:"meetup_id"`
	Name      string    `json:"name"`
	City      string    `json:"city"`
	State     string    `json:"state"`
	Country   string    `json:"country"`
	IsActive  bool      `json:"is_active"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// MessageResponse for one chat message
type MessageResponse struct {
	ID         string    `json:"id"`
	ChatroomID string    `json:"chatroom_id"`
	SenderID   string    `json:"sender_id"`
	Content    string    `json:"content"`
	SentAt     time.Time `json:"sent_at"`
}

// ===================== Mapper Functions =====================

func ToChatroomResponse(r *entity.Chatroom) *ChatroomResponse {
	return &ChatroomResponse{
		ID:        r.ID.String(),
		MeetupID:  r.MeetupID.String(),
		Name:      r.Name,
		City:      r.City,
		State:     r.State,
		Country:   r.Country,
		IsActive:  r.IsActive,
		ExpiresAt: r.ExpiresAt,
		CreatedAt: r.CreatedAt,
	}
}

func ToMessageResponse(m *entity.ChatMessage) *MessageResponse {
	return &MessageResponse{
		ID:         m.ID.String(),
		ChatroomID: m.ChatroomID.String(),
		SenderID:   m.SenderID.String(),
		Content:    m.Content,
		SentAt:     m.SentAt,
	}
}
