package service

import (
	"context"
	"strings"
	"time"

	"quickmeet-api/core/constants"
	"quickmeet-api/core/errors"
	"quickmeet-api/core/logger"
	"quickmeet-api/modules/chatroom/dto"
	"quickmeet-api/modules/chatroom/entity"
	"quickmeet-api/modules/chatroom/repository"
	meetupEntity "quickmeet-api/modules/meetup/entity"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// MeetupDirectory is the slice of the meetup service the binder needs:
// meetup lookup plus live roster checks.
type MeetupDirectory interface {
	GetMeetup(ctx context.Context, id uuid.UUID) (*meetupEntity.Meetup, *errors.AppError)
	IsParticipant(ctx context.Context, meetupID, userID uuid.UUID) (bool, *errors.AppError)
}

// ChatroomService binds each meetup to its single ephemeral chatroom and
// gates message writes by the meetup's live roster. The room is created
// lazily on first access; the unique constraint on meetup_id guarantees
// one room even under concurrent first-access.
type ChatroomService struct {
	repo    repository.ChatroomRepositoryInterface
	meetups MeetupDirectory
	grace   time.Duration
	now     func() time.Time
}

// ChatroomServiceInterface defines the service contract
type ChatroomServiceInterface interface {
	GetOrCreate(ctx context.Context, meetupID, userID uuid.UUID) (*dto.ChatroomResponse, *errors.AppError)
	PostMessage(ctx context.Context, chatroomID, userID uuid.UUID, req *dto.PostMessageRequest) (*dto.MessageResponse, *errors.AppError)
	ListMessages(ctx context.Context, chatroomID, userID uuid.UUID) ([]dto.MessageResponse, *errors.AppError)
	Deactivate(ctx context.Context, chatroomID uuid.UUID) *errors.AppError
	DeactivateForMeetup(ctx context.Context, meetupID uuid.UUID) *errors.AppError
}

// NewChatroomService creates a new chatroom service
func NewChatroomService(repo repository.ChatroomRepositoryInterface, meetups MeetupDirectory, grace time.Duration) ChatroomServiceInterface {
	if grace <= 0 {
		grace = constants.ChatroomGracePeriod
	}
	return &ChatroomService{
		repo:    repo,
		meetups: meetups,
		grace:   grace,
		now:     time.Now,
	}
}

// GetOrCreate returns the chatroom bound to the meetup, creating it on
// first access. Only current participants may open the room.
func (s *ChatroomService) GetOrCreate(ctx context.Context, meetupID, userID uuid.UUID) (*dto.ChatroomResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	meetup, appErr := s.meetups.GetMeetup(ctx, meetupID)
	if appErr != nil {
		return nil, appErr
	}

	isMember, appErr := s.meetups.IsParticipant(ctx, meetupID, userID)
	if appErr != nil {
		return nil, appErr
	}
	if !isMember {
		return nil, errors.NewAppError(errors.ErrForbidden, "only participants can access the chatroom", nil)
	}

	existing, err := s.repo.GetByMeetupID(ctx, meetupID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "failed to get chatroom", err)
	}
	if existing != nil {
		return dto.ToChatroomResponse(existing), nil
	}

	room := &entity.Chatroom{
		MeetupID:  meetupID,
		Name:      chatroomName(meetup.Title),
		City:      meetup.City,
		State:     meetup.State,
		Country:   meetup.Country,
		ExpiresAt: meetup.ExpiresAt.Add(s.grace),
	}

	created, err := s.repo.CreateForMeetup(ctx, room)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCreateFailed, "failed to create chatroom", err)
	}

	logger.Info("ChatroomService:GetOrCreate:Created",
		"chatroom_id", created.ID.String(),
		"meetup_id", meetupID.String(),
	)

	return dto.ToChatroomResponse(created), nil
}

// PostMessage appends a message. Writable only while the room is active
// and only by current participants of the bound meetup; membership is
// checked against the meetup roster at write time, never cached.
func (s *ChatroomService) PostMessage(ctx context.Context, chatroomID, userID uuid.UUID, req *dto.PostMessageRequest) (*dto.MessageResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	if req == nil || strings.TrimSpace(req.Content) == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "message content is required", nil)
	}

	room, appErr := s.getRoom(ctx, chatroomID)
	if appErr != nil {
		return nil, appErr
	}

	if !room.IsActive || s.now().After(room.ExpiresAt) {
		return nil, errors.NewAppError(errors.ErrExpired, "chatroom is closed", nil)
	}

	isMember, appErr := s.meetups.IsParticipant(ctx, room.MeetupID, userID)
	if appErr != nil {
		return nil, appErr
	}
	if !isMember {
		return nil, errors.NewAppError(errors.ErrForbidden, "only participants can post to the chatroom", nil)
	}

	msg := &entity.ChatMessage{
		ChatroomID: chatroomID,
		SenderID:   userID,
		Content:    strings.TrimSpace(req.Content),
	}

	created, err := s.repo.InsertMessage(ctx, msg)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCreateFailed, "failed to post message", err)
	}

	return dto.ToMessageResponse(created), nil
}

// ListMessages returns the room's messages ascending by sent_at. Readable
// by current participants; deactivated rooms stay readable (retention is
// read-only archive, never purge).
func (s *ChatroomService) ListMessages(ctx context.Context, chatroomID, userID uuid.UUID) ([]dto.MessageResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	room, appErr := s.getRoom(ctx, chatroomID)
	if appErr != nil {
		return nil, appErr
	}

	isMember, appErr := s.meetups.IsParticipant(ctx, room.MeetupID, userID)
	if appErr != nil {
		return nil, appErr
	}
	if !isMember {
		return nil, errors.NewAppError(errors.ErrForbidden, "only participants can read the chatroom", nil)
	}

	messages, err := s.repo.ListMessages(ctx, chatroomID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "failed to list messages", err)
	}

	result := make([]dto.MessageResponse, 0, len(messages))
	for i := range messages {
		result = append(result, *dto.ToMessageResponse(&messages[i]))
	}

	return result, nil
}

// Deactivate tombstones the chatroom. Idempotent.
func (s *ChatroomService) Deactivate(ctx context.Context, chatroomID uuid.UUID) *errors.AppError {
	if _, appErr := s.getRoom(ctx, chatroomID); appErr != nil {
		return appErr
	}

	if err := s.repo.Deactivate(ctx, chatroomID); err != nil {
		return errors.NewAppError(errors.ErrUpdateFailed, "failed to deactivate chatroom", err)
	}

	return nil
}

// DeactivateForMeetup tombstones the chatroom bound to a meetup, if one
// was ever created. Used by the expiry sweep; a missing room is a no-op.
func (s *ChatroomService) DeactivateForMeetup(ctx context.Context, meetupID uuid.UUID) *errors.AppError {
	room, err := s.repo.GetByMeetupID(ctx, meetupID)
	if err != nil {
		return errors.NewAppError(errors.ErrGetFailed, "failed to get chatroom", err)
	}
	if room == nil {
		return nil
	}

	if err := s.repo.Deactivate(ctx, room.ID); err != nil {
		return errors.NewAppError(errors.ErrUpdateFailed, "failed to deactivate chatroom", err)
	}

	return nil
}

func (s *ChatroomService) getRoom(ctx context.Context, chatroomID uuid.UUID) (*entity.Chatroom, *errors.AppError) {
	room, err := s.repo.GetByID(ctx, chatroomID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "failed to get chatroom", err)
	}
	if room == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "chatroom not found", nil)
	}
	return room, nil
}

// chatroomName derives the deterministic display name from the meetup
// title. Uniqueness comes from the meetup binding, not the name.
func chatroomName(title string) string {
	base := slug.Make(title)
	if base == "" {
		base = "meetup"
	}
	return base
}
