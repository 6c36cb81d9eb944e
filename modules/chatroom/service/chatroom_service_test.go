package service

import (
	"context"
	"testing"
	"time"

	"quickmeet-api/core/errors"
	"quickmeet-api/modules/chatroom/dto"
	"quickmeet-api/modules/chatroom/entity"
	meetupEntity "quickmeet-api/modules/meetup/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// fakeChatroomRepo keeps rooms and messages in memory, enforcing the
// one-room-per-meetup shape the unique constraint gives the real table.
type fakeChatroomRepo struct {
	byMeetup map[uuid.UUID]*entity.Chatroom
	byID     map[uuid.UUID]*entity.Chatroom
	messages map[uuid.UUID][]entity.ChatMessage
	creates  int
}

func newFakeChatroomRepo() *fakeChatroomRepo {
	return &fakeChatroomRepo{
		byMeetup: make(map[uuid.UUID]*entity.Chatroom),
		byID:     make(map[uuid.UUID]*entity.Chatroom),
		messages: make(map[uuid.UUID][]entity.ChatMessage),
	}
}

func (f *fakeChatroomRepo) CreateForMeetup(ctx context.Context, room *entity.Chatroom) (*entity.Chatroom, error) {
	f.creates++
	if existing, ok := f.byMeetup[room.MeetupID]; ok {
		return existing, nil
	}
	created := *room
	created.ID = uuid.New()
	created.IsActive = true
	created.CreatedAt = time.Now()
	f.byMeetup[created.MeetupID] = &created
	f.byID[created.ID] = &created
	return &created, nil
}

func (f *fakeChatroomRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Chatroom, error) {
	return f.byID[id], nil
}

func (f *fakeChatroomRepo) GetByMeetupID(ctx context.Context, meetupID uuid.UUID) (*entity.Chatroom, error) {
	return f.byMeetup[meetupID], nil
}

func (f *fakeChatroomRepo) Deactivate(ctx context.Context, id uuid.UUID) error {
	if room, ok := f.byID[id]; ok {
		room.IsActive = false
	}
	return nil
}

func (f *fakeChatroomRepo) InsertMessage(ctx context.Context, msg *entity.ChatMessage) (*entity.ChatMessage, error) {
	created := *msg
	created.ID = uuid.New()
	created.SentAt = time.Now()
	f.messages[created.ChatroomID] = append(f.messages[created.ChatroomID], created)
	return &created, nil
}

func (f *fakeChatroomRepo) ListMessages(ctx context.Context, chatroomID uuid.UUID) ([]entity.ChatMessage, error) {
	return f.messages[chatroomID], nil
}

// fakeMeetupDirectory serves one meetup and a mutable member set.
type fakeMeetupDirectory struct {
	meetup  *meetupEntity.Meetup
	members map[uuid.UUID]bool
}

func (f *fakeMeetupDirectory) GetMeetup(ctx context.Context, id uuid.UUID) (*meetupEntity.Meetup, *errors.AppError) {
	if f.meetup == nil || f.meetup.ID != id {
		return nil, errors.NewAppError(errors.ErrNotFound, "meetup not found", nil)
	}
	return f.meetup, nil
}

func (f *fakeMeetupDirectory) IsParticipant(ctx context.Context, meetupID, userID uuid.UUID) (bool, *errors.AppError) {
	return f.members[userID], nil
}

func chatroomFixture(t *testing.T) (*ChatroomService, *fakeChatroomRepo, *fakeMeetupDirectory, uuid.UUID, uuid.UUID) {
	t.Helper()

	now := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	member := uuid.New()
	meetup := &meetupEntity.Meetup{
		ID:           uuid.New(),
		OrganizerID:  member,
		Title:        "Sunset Picnic!",
		City:         "Los Angeles Metro",
		State:        "California",
		Country:      "United States",
		ResponseTime: meetupEntity.ResponseTime2Hours,
		AvailableAt:  now,
		ExpiresAt:    now.Add(2 * time.Hour),
		IsActive:     true,
	}

	repo := newFakeChatroomRepo()
	directory := &fakeMeetupDirectory{
		meetup:  meetup,
		members: map[uuid.UUID]bool{member: true},
	}
	svc := &ChatroomService{
		repo:    repo,
		meetups: directory,
		grace:   30 * time.Minute,
		now:     func() time.Time { return now },
	}
	return svc, repo, directory, meetup.ID, member
}

func TestChatroomService_GetOrCreate(t *testing.T) {
	ctx := context.Background()
	svc, repo, _, meetupID, member := chatroomFixture(t)

	room, appErr := svc.GetOrCreate(ctx, meetupID, member)
	require.Nil(t, appErr)
	require.Equal(t, meetupID.String(), room.MeetupID)
	require.Equal(t, "sunset-picnic", room.Name)
	require.True(t, room.IsActive)

	// 30 minute wrap-up window past the meetup's expiry
	require.Equal(t,
		time.Date(2026, 8, 20, 12, 30, 0, 0, time.UTC), room.ExpiresAt)

	// second access returns the same room without another create
	again, appErr := svc.GetOrCreate(ctx, meetupID, member)
	require.Nil(t, appErr)
	require.Equal(t, room.ID, again.ID)
	require.Equal(t, 1, repo.creates)
}

func TestChatroomService_GetOrCreateGating(t *testing.T) {
	ctx := context.Background()
	svc, _, _, meetupID, _ := chatroomFixture(t)

	t.Run("non-participant is rejected", func(t *testing.T) {
		_, appErr := svc.GetOrCreate(ctx, meetupID, uuid.New())
		require.NotNil(t, appErr)
		require.Equal(t, errors.ErrForbidden, appErr.Code)
	})

	t.Run("unknown meetup", func(t *testing.T) {
		_, appErr := svc.GetOrCreate(ctx, uuid.New(), uuid.New())
		require.NotNil(t, appErr)
		require.Equal(t, errors.ErrNotFound, appErr.Code)
	})
}

func TestChatroomService_PostMessage(t *testing.T) {
	ctx := context.Background()
	svc, _, directory, meetupID, member := chatroomFixture(t)

	room, appErr := svc.GetOrCreate(ctx, meetupID, member)
	require.Nil(t, appErr)
	roomID := uuid.MustParse(room.ID)

	t.Run("participant posts", func(t *testing.T) {
		msg, appErr := svc.PostMessage(ctx, roomID, member, &dto.PostMessageRequest{Content: "  omw!  "})
		require.Nil(t, appErr)
		require.Equal(t, "omw!", msg.Content)
		require.Equal(t, member.String(), msg.SenderID)
	})

	t.Run("empty content rejected", func(t *testing.T) {
		_, appErr := svc.PostMessage(ctx, roomID, member, &dto.PostMessageRequest{Content: "   "})
		require.NotNil(t, appErr)
		require.Equal(t, errors.ErrInvalidInput, appErr.Code)
	})

	t.Run("membership is checked at write time", func(t *testing.T) {
		left := uuid.New()
		directory.members[left] = true
		_, appErr := svc.PostMessage(ctx, roomID, left, &dto.PostMessageRequest{Content: "hi"})
		require.Nil(t, appErr)

		// leaving the meetup revokes posting immediately
		directory.members[left] = false
		_, appErr = svc.PostMessage(ctx, roomID, left, &dto.PostMessageRequest{Content: "hi again"})
		require.NotNil(t, appErr)
		require.Equal(t, errors.ErrForbidden, appErr.Code)

		// and rejoining restores it
		directory.members[left] = true
		_, appErr = svc.PostMessage(ctx, roomID, left, &dto.PostMessageRequest{Content: "back"})
		require.Nil(t, appErr)
	})

	t.Run("unknown room", func(t *testing.T) {
		_, appErr := svc.PostMessage(ctx, uuid.New(), member, &dto.PostMessageRequest{Content: "hi"})
		require.NotNil(t, appErr)
		require.Equal(t, errors.ErrNotFound, appErr.Code)
	})
}

func TestChatroomService_ClosedRoomRejectsWritesKeepsReads(t *testing.T) {
	ctx := context.Background()
	svc, _, _, meetupID, member := chatroomFixture(t)

	room, appErr := svc.GetOrCreate(ctx, meetupID, member)
	require.Nil(t, appErr)
	roomID := uuid.MustParse(room.ID)

	_, appErr = svc.PostMessage(ctx, roomID, member, &dto.PostMessageRequest{Content: "before close"})
	require.Nil(t, appErr)

	require.Nil(t, svc.Deactivate(ctx, roomID))

	_, appErr = svc.PostMessage(ctx, roomID, member, &dto.PostMessageRequest{Content: "too late"})
	require.NotNil(t, appErr)
	require.Equal(t, errors.ErrExpired, appErr.Code)

	// history stays readable for participants after deactivation
	messages, appErr := svc.ListMessages(ctx, roomID, member)
	require.Nil(t, appErr)
	require.Len(t, messages, 1)
	require.Equal(t, "before close", messages[0].Content)
}

func TestChatroomService_ExpiryWindowRejectsWrites(t *testing.T) {
	ctx := context.Background()
	svc, _, _, meetupID, member := chatroomFixture(t)

	room, appErr := svc.GetOrCreate(ctx, meetupID, member)
	require.Nil(t, appErr)
	roomID := uuid.MustParse(room.ID)

	// past expires_at the still-active room rejects writes on its own,
	// without waiting for the sweep to tombstone it
	svc.now = func() time.Time { return room.ExpiresAt.Add(time.Minute) }

	_, appErr = svc.PostMessage(ctx, roomID, member, &dto.PostMessageRequest{Content: "late"})
	require.NotNil(t, appErr)
	require.Equal(t, errors.ErrExpired, appErr.Code)
}

func TestChatroomService_ListMessagesGating(t *testing.T) {
	ctx := context.Background()
	svc, _, _, meetupID, member := chatroomFixture(t)

	room, appErr := svc.GetOrCreate(ctx, meetupID, member)
	require.Nil(t, appErr)

	_, appErr = svc.ListMessages(ctx, uuid.MustParse(room.ID), uuid.New())
	require.NotNil(t, appErr)
	require.Equal(t, errors.ErrForbidden, appErr.Code)
}

func TestChatroomService_DeactivateForMeetup(t *testing.T) {
	ctx := context.Background()
	svc, repo, _, meetupID, member := chatroomFixture(t)

	// no room was ever created: the sweep's call is a no-op
	require.Nil(t, svc.DeactivateForMeetup(ctx, meetupID))
	require.Equal(t, 0, repo.creates)

	room, appErr := svc.GetOrCreate(ctx, meetupID, member)
	require.Nil(t, appErr)

	require.Nil(t, svc.DeactivateForMeetup(ctx, meetupID))
	require.False(t, repo.byID[uuid.MustParse(room.ID)].IsActive)

	// idempotent
	require.Nil(t, svc.DeactivateForMeetup(ctx, meetupID))
}
