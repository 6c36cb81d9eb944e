package service

import (
	"context"
	"errors"
	"testing"
	"time"

	apperrors "quickmeet-api/core/errors"
	meetupEntity "quickmeet-api/modules/meetup/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type fakeExpirer struct {
	expired []uuid.UUID
	failOn  map[uuid.UUID]bool
}

func (f *fakeExpirer) Expire(ctx context.Context, id uuid.UUID) *apperrors.AppError {
	if f.failOn[id] {
		return apperrors.NewAppError(apperrors.ErrUpdateFailed, "failed to expire meetup", nil)
	}
	f.expired = append(f.expired, id)
	return nil
}

type fakeScanner struct {
	overdue   []meetupEntity.Meetup
	listErr   error
	reconcile int64
}

func (f *fakeScanner) ListExpiredActive(ctx context.Context, now time.Time, limit int) ([]meetupEntity.Meetup, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.overdue, nil
}

func (f *fakeScanner) ReconcileParticipantCounts(ctx context.Context) (int64, error) {
	return f.reconcile, nil
}

type fakeTombstoner struct {
	deactivated []uuid.UUID
	failOn      map[uuid.UUID]bool
}

func (f *fakeTombstoner) DeactivateForMeetup(ctx context.Context, meetupID uuid.UUID) *apperrors.AppError {
	if f.failOn[meetupID] {
		return apperrors.NewAppError(apperrors.ErrUpdateFailed, "failed to deactivate chatroom", nil)
	}
	f.deactivated = append(f.deactivated, meetupID)
	return nil
}

func overdueMeetup(id uuid.UUID) meetupEntity.Meetup {
	return meetupEntity.Meetup{
		ID:        id,
		IsActive:  true,
		ExpiresAt: time.Now().Add(-time.Hour),
	}
}

func TestSweeperService_Sweep(t *testing.T) {
	ctx := context.Background()
	a, b := uuid.New(), uuid.New()

	expirer := &fakeExpirer{}
	tombstoner := &fakeTombstoner{}
	svc := &SweeperService{
		meetups:   expirer,
		scanner:   &fakeScanner{overdue: []meetupEntity.Meetup{overdueMeetup(a), overdueMeetup(b)}},
		chatrooms: tombstoner,
		now:       time.Now,
	}

	swept, err := svc.Sweep(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, swept)
	require.Equal(t, []uuid.UUID{a, b}, expirer.expired)
	require.Equal(t, []uuid.UUID{a, b}, tombstoner.deactivated)
}

func TestSweeperService_SweepEmptyBatch(t *testing.T) {
	ctx := context.Background()
	svc := &SweeperService{
		meetups:   &fakeExpirer{},
		scanner:   &fakeScanner{},
		chatrooms: &fakeTombstoner{},
		now:       time.Now,
	}

	swept, err := svc.Sweep(ctx)
	require.NoError(t, err)
	require.Zero(t, swept)
}

func TestSweeperService_SweepListError(t *testing.T) {
	ctx := context.Background()
	svc := &SweeperService{
		meetups:   &fakeExpirer{},
		scanner:   &fakeScanner{listErr: errors.New("db down")},
		chatrooms: &fakeTombstoner{},
		now:       time.Now,
	}

	_, err := svc.Sweep(ctx)
	require.Error(t, err)
}

func TestSweeperService_SweepIsolatesPerMeetupFailures(t *testing.T) {
	ctx := context.Background()
	a, b, c := uuid.New(), uuid.New(), uuid.New()

	// b fails at the expire step, c at the chatroom step; a is unaffected
	expirer := &fakeExpirer{failOn: map[uuid.UUID]bool{b: true}}
	tombstoner := &fakeTombstoner{failOn: map[uuid.UUID]bool{c: true}}
	svc := &SweeperService{
		meetups: expirer,
		scanner: &fakeScanner{overdue: []meetupEntity.Meetup{
			overdueMeetup(a), overdueMeetup(b), overdueMeetup(c),
		}},
		chatrooms: tombstoner,
		now:       time.Now,
	}

	swept, err := svc.Sweep(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, swept)
	require.Equal(t, []uuid.UUID{a, b}, tombstoner.deactivated)
	require.Equal(t, []uuid.UUID{a}, expirer.expired)
	require.NotContains(t, expirer.expired, b)
}

func TestSweeperService_ChatroomFailureKeepsMeetupInCandidateSet(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	// the room must be tombstoned before the meetup is flipped inactive:
	// otherwise the meetup drops out of the candidate query and no later
	// tick would revisit its chatroom
	expirer := &fakeExpirer{}
	tombstoner := &fakeTombstoner{failOn: map[uuid.UUID]bool{id: true}}
	svc := &SweeperService{
		meetups:   expirer,
		scanner:   &fakeScanner{overdue: []meetupEntity.Meetup{overdueMeetup(id)}},
		chatrooms: tombstoner,
		now:       time.Now,
	}

	swept, err := svc.Sweep(ctx)
	require.NoError(t, err)
	require.Zero(t, swept)
	require.Empty(t, expirer.expired)

	// next tick the tombstone succeeds and the pair completes
	tombstoner.failOn = nil
	swept, err = svc.Sweep(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, swept)
	require.Equal(t, []uuid.UUID{id}, expirer.expired)
	require.Equal(t, []uuid.UUID{id}, tombstoner.deactivated)
}

func TestSweeperService_ReconcileCounters(t *testing.T) {
	ctx := context.Background()
	svc := &SweeperService{
		meetups:   &fakeExpirer{},
		scanner:   &fakeScanner{reconcile: 4},
		chatrooms: &fakeTombstoner{},
		now:       time.Now,
	}

	fixed, err := svc.ReconcileCounters(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(4), fixed)
}
