package service

import (
	"context"
	"time"

	"quickmeet-api/core/errors"
	"quickmeet-api/modules/location/entity"
	"quickmeet-api/modules/location/repository"

	"github.com/google/uuid"
)

// Bucketer computes the set of canonical locations a user currently
// belongs to: always the hometown, plus the travel destination while a
// trip is active. Recomputed on every call since travel windows move
// with wall-clock time.
type Bucketer struct {
	resolver *Resolver
	repo     repository.UserLocationRepositoryInterface
	now      func() time.Time
}

func NewBucketer(resolver *Resolver, repo repository.UserLocationRepositoryInterface) *Bucketer {
	return &Bucketer{
		resolver: resolver,
		repo:     repo,
		now:      time.Now,
	}
}

// BucketsFor loads the user's location row and computes their buckets.
func (b *Bucketer) BucketsFor(ctx context.Context, userID uuid.UUID) ([]entity.CanonicalLocation, *errors.AppError) {
	loc, err := b.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load user location", err)
	}
	if loc == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "user not found", nil)
	}

	return b.BucketsForLocation(*loc), nil
}

// BucketsForLocation is the pure core of BucketsFor.
func (b *Bucketer) BucketsForLocation(loc entity.UserLocation) []entity.CanonicalLocation {
	buckets := []entity.CanonicalLocation{
		b.resolver.Resolve(loc.City, loc.State, loc.Country),
	}

	if b.travelActive(loc) {
		dest := b.resolver.Resolve(*loc.TravelCity, deref(loc.TravelState), deref(loc.TravelCountry))
		// hometown and destination can resolve to the same metro
		if dest.Key() != buckets[0].Key() {
			buckets = append(buckets, dest)
		}
	}

	return buckets
}

// travelActive reports whether the user's trip covers the current
// moment. Whole-day boundaries: a trip counts from the start of its
// first day through the end of its last day.
func (b *Bucketer) travelActive(loc entity.UserLocation) bool {
	if loc.TravelCity == nil || *loc.TravelCity == "" {
		return false
	}
	if loc.TravelStart == nil || loc.TravelEnd == nil {
		return false
	}

	now := b.now()
	start := startOfDay(*loc.TravelStart)
	end := startOfDay(*loc.TravelEnd).AddDate(0, 0, 1)

	return !now.Before(start) && now.Before(end)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
