package repository

import (
	"context"
	"database/sql"

	"quickmeet-api/core/database"
	"quickmeet-api/core/logger"
	"quickmeet-api/modules/chatroom/entity"

	"github.com/google/uuid"
)

const chatroomColumns = `
	id, meetup_id, name, city, state, country, is_active, expires_at, created_at`

// ChatroomRepository owns the chatrooms and chat_messages tables.
type ChatroomRepository struct {
	DB database.IDatabase
}

func NewChatroomRepository(db database.IDatabase) *ChatroomRepository {
	return &ChatroomRepository{DB: db}
}

// ChatroomRepositoryInterface defines the repository contract
type ChatroomRepositoryInterface interface {
	CreateForMeetup(ctx context.Context, room *entity.Chatroom) (*entity.Chatroom, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Chatroom, error)
	GetByMeetupID(ctx context.Context, meetupID uuid.UUID) (*entity.Chatroom, error)
	Deactivate(ctx context.Context, id uuid.UUID) error

	InsertMessage(ctx context.Context, msg *entity.ChatMessage) (*entity.ChatMessage, error)
	ListMessages(ctx context.Context, chatroomID uuid.UUID) ([]entity.ChatMessage, error)
}

// CreateForMeetup inserts the chatroom bound to a meetup. The unique
// constraint on meetup_id resolves concurrent first-access races: the
// loser's insert is a no-op and the winner's row is returned instead.
func (r *ChatroomRepository) CreateForMeetup(ctx context.Context, room *entity.Chatroom) (*entity.Chatroom, error) {
	query := `
		INSERT INTO chatrooms (meetup_id, name, city, state, country, is_active, expires_at)
		VALUES ($1, $2, $3, $4, $5, true, $6)
		ON CONFLICT (meetup_id) DO NOTHING
		RETURNING ` + chatroomColumns

	var created entity.Chatroom
	err := r.DB.GetContext(ctx, &created, query,
		room.MeetupID, room.Name, room.City, room.State, room.Country, room.ExpiresAt)
	if err == sql.ErrNoRows {
		// lost the race; the bound room already exists
		return r.GetByMeetupID(ctx, room.MeetupID)
	}
	if err != nil {
		logger.Error("ChatroomRepository:CreateForMeetup", err)
		return nil, err
	}

	return &created, nil
}

func (r *ChatroomRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Chatroom, error) {
	query := `SELECT ` + chatroomColumns + ` FROM chatrooms WHERE id = $1`

	var room entity.Chatroom
	err := r.DB.GetContext(ctx, &room, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("ChatroomRepository:GetByID", err)
		return nil, err
	}

	return &room, nil
}

func (r *ChatroomRepository) GetByMeetupID(ctx context.Context, meetupID uuid.UUID) (*entity.Chatroom, error) {
	query := `SELECT ` + chatroomColumns + ` FROM chatrooms WHERE meetup_id = $1`

	var room entity.Chatroom
	err := r.DB.GetContext(ctx, &room, query, meetupID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("ChatroomRepository:GetByMeetupID", err)
		return nil, err
	}

	return &room, nil
}

// Deactivate tombstones the chatroom. Messages stay in place, read-only.
// Idempotent.
func (r *ChatroomRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE chatrooms SET is_active = false WHERE id = $1`
	if err := r.DB.ExecContext(ctx, query, id); err != nil {
		logger.Error("ChatroomRepository:Deactivate", err)
		return err
	}
	return nil
}

func (r *ChatroomRepository) InsertMessage(ctx context.Context, msg *entity.ChatMessage) (*entity.ChatMessage, error) {
	query := `
		INSERT INTO chat_messages (chatroom_id, sender_id, content, sent_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, chatroom_id, sender_id, content, sent_at
	`

	var created entity.ChatMessage
	err := r.DB.GetContext(ctx, &created, query, msg.ChatroomID, msg.SenderID, msg.Content)
	if err != nil {
		logger.Error("ChatroomRepository:InsertMessage", err)
		return nil, err
	}

	return &created, nil
}

func (r *ChatroomRepository) ListMessages(ctx context.Context, chatroomID uuid.UUID) ([]entity.ChatMessage, error) {
	query := `
		SELECT id, chatroom_id, sender_id, content, sent_at
		FROM chat_messages
		WHERE chatroom_id = $1
		ORDER BY sent_at ASC, id ASC
	`

	var messages []entity.ChatMessage
	err := r.DB.SelectContext(ctx, &messages, query, chatroomID)
	if err != nil {
		logger.Error("ChatroomRepository:ListMessages", err)
		return nil, err
	}

	return messages, nil
}
