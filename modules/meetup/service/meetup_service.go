package service

import (
	"context"
	"encoding/json"
	"time"

	"quickmeet-api/core/cache"
	"quickmeet-api/core/constants"
	"quickmeet-api/core/errors"
	"quickmeet-api/core/logger"
	"quickmeet-api/core/params"
	locationEntity "quickmeet-api/modules/location/entity"
	locationService "quickmeet-api/modules/location/service"
	"quickmeet-api/modules/meetup/dto"
	"quickmeet-api/modules/meetup/entity"
	"quickmeet-api/modules/meetup/repository"

	"github.com/google/uuid"
)

// discoveryCache is the slice of the redis cache the discovery pages
// use.
type discoveryCache interface {
	GetActiveMeetups(ctx context.Context, locationKey string) (string, error)
	SetActiveMeetups(ctx context.Context, locationKey, payload string) error
	InvalidateActiveMeetups(ctx context.Context, locationKey string) error
}

// MeetupService handles the meetup lifecycle: creation, discovery,
// roster membership, expiry and reinstatement.
type MeetupService struct {
	repo     repository.MeetupRepositoryInterface
	resolver *locationService.Resolver
	bucketer *locationService.Bucketer
	cache    discoveryCache
	now      func() time.Time
}

// MeetupServiceInterface defines the service contract
type MeetupServiceInterface interface {
	Create(ctx context.Context, organizerID uuid.UUID, req *dto.CreateMeetupRequest) (*dto.MeetupResponse, *errors.AppError)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.MeetupResponse, *errors.AppError)
	Join(ctx context.Context, meetupID, userID uuid.UUID, req *dto.JoinMeetupRequest) (*dto.ParticipantResponse, *errors.AppError)
	Leave(ctx context.Context, meetupID, userID uuid.UUID) (bool, *errors.AppError)
	ListParticipants(ctx context.Context, meetupID, viewerID uuid.UUID) ([]dto.ParticipantResponse, *errors.AppError)
	ListActive(ctx context.Context, city, state, country string, p params.Pagination) ([]dto.MeetupResponse, *errors.AppError)
	ListActiveForViewer(ctx context.Context, viewerID uuid.UUID, p params.Pagination) ([]dto.MeetupResponse, *errors.AppError)
	ListArchived(ctx context.Context, organizerID uuid.UUID, p params.Pagination) ([]dto.MeetupResponse, *errors.AppError)
	Expire(ctx context.Context, id uuid.UUID) *errors.AppError
	Reinstate(ctx context.Context, organizerID, originalID uuid.UUID, req *dto.ReinstateMeetupRequest) (*dto.MeetupResponse, *errors.AppError)

	// internal collaborators (chatroom gating, sweeper)
	GetMeetup(ctx context.Context, id uuid.UUID) (*entity.Meetup, *errors.AppError)
	IsParticipant(ctx context.Context, meetupID, userID uuid.UUID) (bool, *errors.AppError)
}

// NewMeetupService creates a new meetup service
func NewMeetupService(repo repository.MeetupRepositoryInterface, resolver *locationService.Resolver, bucketer *locationService.Bucketer, c *cache.Cache) MeetupServiceInterface {
	s := &MeetupService{
		repo:     repo,
		resolver: resolver,
		bucketer: bucketer,
		now:      time.Now,
	}
	if c != nil {
		s.cache = c
	}
	return s
}

// Create validates the request, canonicalizes the location and persists
// the meetup with the organizer auto-joined.
func (s *MeetupService) Create(ctx context.Context, organizerID uuid.UUID, req *dto.CreateMeetupRequest) (*dto.MeetupResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	if req.Title == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "title is required", nil)
	}
	if req.MeetingPoint == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "meeting point is required", nil)
	}
	if req.City == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "city is required", nil)
	}

	loc := s.resolver.Resolve(req.City, req.State, req.Country)

	responseTime := entity.ResponseTime(req.ResponseTime)
	now := s.now()

	meetup := &entity.Meetup{
		OrganizerID:     organizerID,
		Title:           req.Title,
		MeetingPoint:    req.MeetingPoint,
		City:            loc.City,
		State:           loc.State,
		Country:         loc.Country,
		ResponseTime:    responseTime,
		AvailableAt:     now,
		ExpiresAt:       now.Add(responseTime.Duration()),
		MaxParticipants: req.MaxParticipants,
		MinParticipants: req.MinParticipants,
	}

	if req.Description != "" {
		meetup.Description = &req.Description
	}
	if req.Category != "" {
		meetup.Category = &req.Category
	}
	if req.Zip != "" {
		meetup.Zip = &req.Zip
	}
	if req.StreetAddress != "" {
		meetup.StreetAddress = &req.StreetAddress
	}
	if req.CostEstimate != "" {
		meetup.CostEstimate = &req.CostEstimate
	}

	created, err := s.repo.Create(ctx, meetup)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCreateFailed, "failed to create meetup", err)
	}

	s.invalidateDiscovery(ctx, loc)

	return dto.ToMeetupResponse(created, now), nil
}

// GetByID retrieves a meetup by ID
func (s *MeetupService) GetByID(ctx context.Context, id uuid.UUID) (*dto.MeetupResponse, *errors.AppError) {
	meetup, appErr := s.GetMeetup(ctx, id)
	if appErr != nil {
		return nil, appErr
	}
	return dto.ToMeetupResponse(meetup, s.now()), nil
}

// GetMeetup returns the raw entity for internal collaborators.
func (s *MeetupService) GetMeetup(ctx context.Context, id uuid.UUID) (*entity.Meetup, *errors.AppError) {
	meetup, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "failed to get meetup", err)
	}
	if meetup == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "meetup not found", nil)
	}
	return meetup, nil
}

// Join adds the user to the roster. Idempotent for repeat joins; rejects
// joins to expired meetups. Conflicting concurrent joins are retried a
// bounded number of times before surfacing.
func (s *MeetupService) Join(ctx context.Context, meetupID, userID uuid.UUID, req *dto.JoinMeetupRequest) (*dto.ParticipantResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	meetup, appErr := s.GetMeetup(ctx, meetupID)
	if appErr != nil {
		return nil, appErr
	}

	if meetup.Expired(s.now()) {
		return nil, errors.NewAppError(errors.ErrExpired, "meetup has expired", nil)
	}

	var notes *string
	if req != nil && req.Notes != "" {
		notes = &req.Notes
	}

	for attempt := 1; attempt <= constants.JoinRetryAttempts; attempt++ {
		participant, err := s.repo.Join(ctx, meetupID, userID, notes)
		if err == nil {
			return dto.ToParticipantResponse(participant), nil
		}
		if err == repository.ErrMeetupFull {
			return nil, errors.NewAppError(errors.ErrConflict, "meetup is full", err)
		}
		if err == repository.ErrJoinRace {
			logger.Warn("MeetupService:Join:Retry", "meetup_id", meetupID.String(), "attempt", attempt)
			continue
		}
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to join meetup", err)
	}

	return nil, errors.NewAppError(errors.ErrConflict, "failed to join meetup after retries", nil)
}

// Leave removes the user from the roster. The organizer leaving does not
// delete or deactivate the meetup.
func (s *MeetupService) Leave(ctx context.Context, meetupID, userID uuid.UUID) (bool, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	if _, appErr := s.GetMeetup(ctx, meetupID); appErr != nil {
		return false, appErr
	}

	removed, err := s.repo.Leave(ctx, meetupID, userID)
	if err != nil {
		return false, errors.NewAppError(errors.ErrInternalServer, "failed to leave meetup", err)
	}

	return removed, nil
}

// ListActive returns active, unexpired meetups in the canonical location
// resolved from the given triple, newest first. Default first pages are
// answered from the cache when possible.
func (s *MeetupService) ListActive(ctx context.Context, city, state, country string, p params.Pagination) ([]dto.MeetupResponse, *errors.AppError) {
	loc := s.resolver.Resolve(city, state, country)
	return s.listActiveAt(ctx, loc, p)
}

// ListActiveForViewer merges the active lists of every bucket the viewer
// currently belongs to (hometown plus active travel destination).
func (s *MeetupService) ListActiveForViewer(ctx context.Context, viewerID uuid.UUID, p params.Pagination) ([]dto.MeetupResponse, *errors.AppError) {
	buckets, appErr := s.bucketer.BucketsFor(ctx, viewerID)
	if appErr != nil {
		return nil, appErr
	}

	var result []dto.MeetupResponse
	for _, loc := range buckets {
		items, appErr := s.listActiveAt(ctx, loc, p)
		if appErr != nil {
			return nil, appErr
		}
		result = append(result, items...)
	}

	return result, nil
}

func (s *MeetupService) listActiveAt(ctx context.Context, loc locationEntity.CanonicalLocation, p params.Pagination) ([]dto.MeetupResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	now := s.now()
	cacheable := s.cache != nil && p.PageNumber == params.DefaultPageNumber && p.PageSize == params.DefaultPageSize && p.Search == ""

	if cacheable {
		if payload, err := s.cache.GetActiveMeetups(ctx, loc.Key()); err != nil {
			logger.Warn("MeetupService:listActiveAt:CacheGet", "error", err)
		} else if payload != "" {
			var cached []dto.MeetupResponse
			if err := json.Unmarshal([]byte(payload), &cached); err == nil {
				// the page was rendered at fill time; entries whose
				// expiry has since passed must not outlive the TTL
				return dropExpired(cached, now), nil
			}
		}
	}

	meetups, err := s.repo.ListActive(ctx, loc.City, loc.State, loc.Country, now, p)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "failed to list meetups", err)
	}

	result := make([]dto.MeetupResponse, 0, len(meetups))
	for i := range meetups {
		result = append(result, *dto.ToMeetupResponse(&meetups[i], now))
	}

	if cacheable {
		if payload, err := json.Marshal(result); err == nil {
			if err := s.cache.SetActiveMeetups(ctx, loc.Key(), string(payload)); err != nil {
				logger.Warn("MeetupService:listActiveAt:CacheSet", "error", err)
			}
		}
	}

	return result, nil
}

// ListArchived returns the caller's expired meetups, newest first.
func (s *MeetupService) ListArchived(ctx context.Context, organizerID uuid.UUID, p params.Pagination) ([]dto.MeetupResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	now := s.now()
	meetups, err := s.repo.ListArchivedByOrganizer(ctx, organizerID, now, p)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "failed to list archived meetups", err)
	}

	result := make([]dto.MeetupResponse, 0, len(meetups))
	for i := range meetups {
		result = append(result, *dto.ToMeetupResponse(&meetups[i], now))
	}

	return result, nil
}

// Expire flips the persisted flag and invalidates discovery caches.
// Idempotent; used by the sweep.
func (s *MeetupService) Expire(ctx context.Context, id uuid.UUID) *errors.AppError {
	meetup, appErr := s.GetMeetup(ctx, id)
	if appErr != nil {
		return appErr
	}

	if err := s.repo.Expire(ctx, id); err != nil {
		return errors.NewAppError(errors.ErrUpdateFailed, "failed to expire meetup", err)
	}

	s.invalidateDiscovery(ctx, locationEntity.CanonicalLocation{
		City: meetup.City, State: meetup.State, Country: meetup.Country,
	})

	return nil
}

// ListParticipants returns the meetup's roster in join order. The roster
// is visible to current participants only, same gate as the chatroom.
func (s *MeetupService) ListParticipants(ctx context.Context, meetupID, viewerID uuid.UUID) ([]dto.ParticipantResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	if _, appErr := s.GetMeetup(ctx, meetupID); appErr != nil {
		return nil, appErr
	}

	isMember, appErr := s.IsParticipant(ctx, meetupID, viewerID)
	if appErr != nil {
		return nil, appErr
	}
	if !isMember {
		return nil, errors.NewAppError(errors.ErrForbidden, "only participants can view the roster", nil)
	}

	rows, err := s.repo.ListParticipants(ctx, meetupID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "failed to list participants", err)
	}

	result := make([]dto.ParticipantResponse, 0, len(rows))
	for i := range rows {
		result = append(result, *dto.ToParticipantResponse(&rows[i]))
	}

	return result, nil
}

// IsParticipant reports live roster membership for chatroom gating.
func (s *MeetupService) IsParticipant(ctx context.Context, meetupID, userID uuid.UUID) (bool, *errors.AppError) {
	ok, err := s.repo.IsParticipant(ctx, meetupID, userID)
	if err != nil {
		return false, errors.NewAppError(errors.ErrInternalServer, "failed to check membership", err)
	}
	return ok, nil
}

func dropExpired(items []dto.MeetupResponse, now time.Time) []dto.MeetupResponse {
	fresh := make([]dto.MeetupResponse, 0, len(items))
	for _, item := range items {
		if now.After(item.ExpiresAt) {
			continue
		}
		fresh = append(fresh, item)
	}
	return fresh
}

func (s *MeetupService) invalidateDiscovery(ctx context.Context, loc locationEntity.CanonicalLocation) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateActiveMeetups(ctx, loc.Key()); err != nil {
		logger.Warn("MeetupService:invalidateDiscovery", "error", err)
	}
}
