package service

import (
	"context"

	"quickmeet-api/core/constants"
	"quickmeet-api/core/errors"
	"quickmeet-api/core/logger"
	"quickmeet-api/modules/meetup/dto"
	"quickmeet-api/modules/meetup/entity"

	"github.com/google/uuid"
)

// Reinstate clones an expired meetup's descriptive attributes into a
// brand-new meetup with a fresh expiry anchored at now. Only the original
// organizer may reinstate. The original stays archived untouched; its id,
// chatroom and message history are never reused.
func (s *MeetupService) Reinstate(ctx context.Context, organizerID, originalID uuid.UUID, req *dto.ReinstateMeetupRequest) (*dto.MeetupResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	original, appErr := s.GetMeetup(ctx, originalID)
	if appErr != nil {
		return nil, appErr
	}

	if original.OrganizerID != organizerID {
		return nil, errors.NewAppError(errors.ErrForbidden, "only the organizer can reinstate a meetup", nil)
	}

	responseTime := entity.ResponseTime(req.ResponseTime)
	now := s.now()

	clone := &entity.Meetup{
		OrganizerID:     organizerID,
		Title:           original.Title,
		Description:     original.Description,
		Category:        original.Category,
		MeetingPoint:    original.MeetingPoint,
		City:            original.City,
		State:           original.State,
		Country:         original.Country,
		Zip:             original.Zip,
		StreetAddress:   original.StreetAddress,
		ResponseTime:    responseTime,
		AvailableAt:     now,
		ExpiresAt:       now.Add(responseTime.Duration()),
		MaxParticipants: original.MaxParticipants,
		MinParticipants: original.MinParticipants,
		CostEstimate:    original.CostEstimate,
	}

	created, err := s.repo.Create(ctx, clone)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCreateFailed, "failed to reinstate meetup", err)
	}

	logger.Info("MeetupService:Reinstate",
		"original_id", originalID.String(),
		"new_id", created.ID.String(),
		"response_time", string(responseTime),
	)

	s.invalidateDiscovery(ctx, s.resolver.Resolve(created.City, created.State, created.Country))

	return dto.ToMeetupResponse(created, now), nil
}
