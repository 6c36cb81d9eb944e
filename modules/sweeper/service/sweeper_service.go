package service

import (
	"context"
	"time"

	"quickmeet-api/core/cache"
	"quickmeet-api/core/constants"
	"quickmeet-api/core/errors"
	"quickmeet-api/core/logger"
	meetupEntity "quickmeet-api/modules/meetup/entity"

	"github.com/google/uuid"
)

// MeetupExpirer is the slice of the meetup service the sweep drives.
type MeetupExpirer interface {
	Expire(ctx context.Context, id uuid.UUID) *errors.AppError
}

// MeetupScanner is the slice of the meetup repository the sweep reads:
// candidate discovery and counter reconciliation.
type MeetupScanner interface {
	ListExpiredActive(ctx context.Context, now time.Time, limit int) ([]meetupEntity.Meetup, error)
	ReconcileParticipantCounts(ctx context.Context) (int64, error)
}

// ChatroomTombstoner deactivates the chatroom bound to a meetup.
type ChatroomTombstoner interface {
	DeactivateForMeetup(ctx context.Context, meetupID uuid.UUID) *errors.AppError
}

// SweeperService runs the periodic expiry pass: flip overdue meetups to
// inactive and tombstone their chatrooms. Each tick is idempotent and
// restart-safe: meetups already swept drop out of the candidate query, so
// a crashed batch simply resumes on the next tick.
type SweeperService struct {
	meetups   MeetupExpirer
	scanner   MeetupScanner
	chatrooms ChatroomTombstoner
	cache     *cache.Cache
	lockTTL   time.Duration
	now       func() time.Time
}

// SweeperServiceInterface defines the service contract
type SweeperServiceInterface interface {
	Sweep(ctx context.Context) (int, error)
	ReconcileCounters(ctx context.Context) (int64, error)
}

// NewSweeperService creates a new sweeper service
func NewSweeperService(meetups MeetupExpirer, scanner MeetupScanner, chatrooms ChatroomTombstoner, c *cache.Cache, lockTTL time.Duration) SweeperServiceInterface {
	if lockTTL <= 0 {
		lockTTL = constants.DefaultSweepInterval
	}
	return &SweeperService{
		meetups:   meetups,
		scanner:   scanner,
		chatrooms: chatrooms,
		cache:     c,
		lockTTL:   lockTTL,
		now:       time.Now,
	}
}

// Sweep runs one expiry pass and returns how many meetups it expired.
// A failure on one meetup is logged and skipped; the rest of the batch
// proceeds. Partial progress self-heals on the next tick.
func (s *SweeperService) Sweep(ctx context.Context) (int, error) {
	if s.cache != nil {
		acquired, err := s.cache.AcquireSweepLock(ctx, s.lockTTL)
		if err != nil {
			// the lock is an optimization; the sweep itself is idempotent
			logger.Warn("SweeperService:Sweep:LockError", "error", err)
		} else if !acquired {
			logger.Debug("SweeperService:Sweep:Skipped", "reason", "lock held by another instance")
			return 0, nil
		} else {
			defer func() {
				if err := s.cache.ReleaseSweepLock(context.WithoutCancel(ctx)); err != nil {
					logger.Warn("SweeperService:Sweep:UnlockError", "error", err)
				}
			}()
		}
	}

	overdue, err := s.scanner.ListExpiredActive(ctx, s.now(), constants.SweepBatchSize)
	if err != nil {
		return 0, err
	}

	swept := 0
	for i := range overdue {
		meetup := &overdue[i]

		// Tombstone the room before flipping the meetup: once is_active
		// drops, the meetup leaves the candidate set and no later tick
		// would revisit its chatroom.
		if appErr := s.chatrooms.DeactivateForMeetup(ctx, meetup.ID); appErr != nil {
			logger.Error("SweeperService:Sweep:DeactivateChatroom",
				"meetup_id", meetup.ID.String(),
				"error", appErr,
			)
			continue
		}

		if appErr := s.meetups.Expire(ctx, meetup.ID); appErr != nil {
			logger.Error("SweeperService:Sweep:Expire",
				"meetup_id", meetup.ID.String(),
				"error", appErr,
			)
			continue
		}

		swept++
	}

	if swept > 0 {
		logger.Info("SweeperService:Sweep:Done", "swept", swept, "candidates", len(overdue))
	}

	return swept, nil
}

// ReconcileCounters recomputes drifted participant counters from the
// roster. Runs on the same schedule as the sweep.
func (s *SweeperService) ReconcileCounters(ctx context.Context) (int64, error) {
	fixed, err := s.scanner.ReconcileParticipantCounts(ctx)
	if err != nil {
		return 0, err
	}
	if fixed > 0 {
		logger.Warn("SweeperService:ReconcileCounters:Drift", "fixed", fixed)
	}
	return fixed, nil
}
