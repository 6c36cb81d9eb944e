package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"quickmeet-api/core/database"
	"quickmeet-api/core/logger"
	"quickmeet-api/core/params"
	"quickmeet-api/modules/meetup/entity"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Sentinel errors surfaced by the roster operations. The service layer
// maps them onto AppError codes.
var (
	ErrMeetupFull = errors.New("meetup is at max participants")
	ErrJoinRace   = errors.New("concurrent join conflict")
)

const meetupColumns = `
	id, organizer_id, title, description, category, meeting_point,
	city, state, country, zip, street_address, response_time,
	available_at, expires_at, max_participants, min_participants,
	cost_estimate, is_active, participant_count, created_at`

// MeetupRepository owns the meetups and meetup_participants tables. The
// denormalized participant_count is only ever touched here, inside the
// same transaction as the roster row it mirrors.
type MeetupRepository struct {
	DB database.IDatabase
}

func NewMeetupRepository(db database.IDatabase) *MeetupRepository {
	return &MeetupRepository{DB: db}
}

// MeetupRepositoryInterface defines the repository contract
type MeetupRepositoryInterface interface {
	Create(ctx context.Context, meetup *entity.Meetup) (*entity.Meetup, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Meetup, error)
	ListActive(ctx context.Context, city, state, country string, now time.Time, p params.Pagination) ([]entity.Meetup, error)
	ListArchivedByOrganizer(ctx context.Context, organizerID uuid.UUID, now time.Time, p params.Pagination) ([]entity.Meetup, error)
	Expire(ctx context.Context, id uuid.UUID) error
	ListExpiredActive(ctx context.Context, now time.Time, limit int) ([]entity.Meetup, error)

	Join(ctx context.Context, meetupID, userID uuid.UUID, notes *string) (*entity.MeetupParticipant, error)
	Leave(ctx context.Context, meetupID, userID uuid.UUID) (bool, error)
	ListParticipants(ctx context.Context, meetupID uuid.UUID) ([]entity.MeetupParticipant, error)
	IsParticipant(ctx context.Context, meetupID, userID uuid.UUID) (bool, error)
	ReconcileParticipantCounts(ctx context.Context) (int64, error)
}

// ===================== Meetup CRUD =====================

// Create inserts the meetup and its organizer's roster row in one
// transaction, so a meetup is never observed without its first member.
func (r *MeetupRepository) Create(ctx context.Context, meetup *entity.Meetup) (*entity.Meetup, error) {
	var created entity.Meetup

	err := r.DB.WithinTx(ctx, func(tx *sqlx.Tx) error {
		insertMeetup := `
			INSERT INTO meetups (organizer_id, title, description, category, meeting_point,
			                     city, state, country, zip, street_address, response_time,
			                     available_at, expires_at, max_participants, min_participants,
			                     cost_estimate, is_active, participant_count)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, true, 1)
			RETURNING ` + meetupColumns

		if err := tx.GetContext(ctx, &created, insertMeetup,
			meetup.OrganizerID, meetup.Title, meetup.Description, meetup.Category,
			meetup.MeetingPoint, meetup.City, meetup.State, meetup.Country,
			meetup.Zip, meetup.StreetAddress, meetup.ResponseTime,
			meetup.AvailableAt, meetup.ExpiresAt,
			meetup.MaxParticipants, meetup.MinParticipants, meetup.CostEstimate); err != nil {
			return err
		}

		insertOrganizer := `
			INSERT INTO meetup_participants (meetup_id, user_id, status, joined_at)
			VALUES ($1, $2, $3, NOW())
		`
		_, err := tx.ExecContext(ctx, insertOrganizer,
			created.ID, created.OrganizerID, entity.ParticipantStatusJoined)
		return err
	})
	if err != nil {
		logger.Error("MeetupRepository:Create", err)
		return nil, err
	}

	return &created, nil
}

func (r *MeetupRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Meetup, error) {
	query := `SELECT ` + meetupColumns + ` FROM meetups WHERE id = $1`

	var meetup entity.Meetup
	err := r.DB.GetContext(ctx, &meetup, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("MeetupRepository:GetByID", err)
		return nil, err
	}

	return &meetup, nil
}

// ListActive returns undeleted, unexpired meetups in a canonical
// location, newest first with id as the deterministic tie-break.
func (r *MeetupRepository) ListActive(ctx context.Context, city, state, country string, now time.Time, p params.Pagination) ([]entity.Meetup, error) {
	query := `
		SELECT ` + meetupColumns + `
		FROM meetups
		WHERE LOWER(city) = LOWER($1)
		  AND LOWER(state) = LOWER($2)
		  AND LOWER(country) = LOWER($3)
		  AND is_active = true
		  AND expires_at >= $4
		ORDER BY created_at DESC, id DESC
		LIMIT $5 OFFSET $6
	`

	var meetups []entity.Meetup
	err := r.DB.SelectContext(ctx, &meetups, query,
		city, state, country, now, p.PageSize, p.Offset())
	if err != nil {
		logger.Error("MeetupRepository:ListActive", err)
		return nil, err
	}

	return meetups, nil
}

// ListArchivedByOrganizer returns the organizer's expired meetups,
// regardless of whether the sweep has flipped is_active yet.
func (r *MeetupRepository) ListArchivedByOrganizer(ctx context.Context, organizerID uuid.UUID, now time.Time, p params.Pagination) ([]entity.Meetup, error) {
	query := `
		SELECT ` + meetupColumns + `
		FROM meetups
		WHERE organizer_id = $1
		  AND expires_at < $2
		ORDER BY created_at DESC, id DESC
		LIMIT $3 OFFSET $4
	`

	var meetups []entity.Meetup
	err := r.DB.SelectContext(ctx, &meetups, query,
		organizerID, now, p.PageSize, p.Offset())
	if err != nil {
		logger.Error("MeetupRepository:ListArchivedByOrganizer", err)
		return nil, err
	}

	return meetups, nil
}

// Expire flips the persisted flag. Idempotent.
func (r *MeetupRepository) Expire(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE meetups SET is_active = false WHERE id = $1`
	if err := r.DB.ExecContext(ctx, query, id); err != nil {
		logger.Error("MeetupRepository:Expire", err)
		return err
	}
	return nil
}

// ListExpiredActive feeds the sweep: meetups still flagged active whose
// expiry has passed.
func (r *MeetupRepository) ListExpiredActive(ctx context.Context, now time.Time, limit int) ([]entity.Meetup, error) {
	query := `
		SELECT ` + meetupColumns + `
		FROM meetups
		WHERE is_active = true AND expires_at < $1
		ORDER BY expires_at ASC
		LIMIT $2
	`

	var meetups []entity.Meetup
	err := r.DB.SelectContext(ctx, &meetups, query, now, limit)
	if err != nil {
		logger.Error("MeetupRepository:ListExpiredActive", err)
		return nil, err
	}

	return meetups, nil
}

// ===================== Roster =====================

// Join adds a roster row and bumps participant_count in one transaction.
// Idempotent: an existing membership is returned unchanged. Returns
// ErrMeetupFull when the capacity guard rejects the increment and
// ErrJoinRace when a concurrent join won the primary key; callers retry
// on the latter.
func (r *MeetupRepository) Join(ctx context.Context, meetupID, userID uuid.UUID, notes *string) (*entity.MeetupParticipant, error) {
	var participant entity.MeetupParticipant

	err := r.DB.WithinTx(ctx, func(tx *sqlx.Tx) error {
		existing := `
			SELECT meetup_id, user_id, status, notes, joined_at
			FROM meetup_participants
			WHERE meetup_id = $1 AND user_id = $2
		`
		err := tx.GetContext(ctx, &participant, existing, meetupID, userID)
		if err == nil {
			return nil // already joined, nothing to do
		}
		if err != sql.ErrNoRows {
			return err
		}

		// The guarded update locks the meetup row, serializing the
		// counter against concurrent joins and leaves.
		bump := `
			UPDATE meetups
			SET participant_count = participant_count + 1
			WHERE id = $1
			  AND (max_participants <= 0 OR participant_count < max_participants)
		`
		res, err := tx.ExecContext(ctx, bump, meetupID)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrMeetupFull
		}

		insert := `
			INSERT INTO meetup_participants (meetup_id, user_id, status, notes, joined_at)
			VALUES ($1, $2, $3, $4, NOW())
			RETURNING meetup_id, user_id, status, notes, joined_at
		`
		err = tx.GetContext(ctx, &participant, insert,
			meetupID, userID, entity.ParticipantStatusJoined, notes)
		if err != nil {
			if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
				return ErrJoinRace
			}
			return err
		}

		return nil
	})
	if err != nil {
		if err != ErrMeetupFull && err != ErrJoinRace {
			logger.Error("MeetupRepository:Join", err)
		}
		return nil, err
	}

	return &participant, nil
}

// Leave removes the roster row and decrements participant_count in one
// transaction. Returns whether a row was actually removed.
func (r *MeetupRepository) Leave(ctx context.Context, meetupID, userID uuid.UUID) (bool, error) {
	var removed bool

	err := r.DB.WithinTx(ctx, func(tx *sqlx.Tx) error {
		del := `DELETE FROM meetup_participants WHERE meetup_id = $1 AND user_id = $2`
		res, err := tx.ExecContext(ctx, del, meetupID, userID)
		if err != nil {
			return err
		}

		n, _ := res.RowsAffected()
		if n == 0 {
			return nil
		}
		removed = true

		dec := `
			UPDATE meetups
			SET participant_count = GREATEST(participant_count - 1, 0)
			WHERE id = $1
		`
		_, err = tx.ExecContext(ctx, dec, meetupID)
		return err
	})
	if err != nil {
		logger.Error("MeetupRepository:Leave", err)
		return false, err
	}

	return removed, nil
}

func (r *MeetupRepository) ListParticipants(ctx context.Context, meetupID uuid.UUID) ([]entity.MeetupParticipant, error) {
	query := `
		SELECT meetup_id, user_id, status, notes, joined_at
		FROM meetup_participants
		WHERE meetup_id = $1
		ORDER BY joined_at
	`

	var participants []entity.MeetupParticipant
	err := r.DB.SelectContext(ctx, &participants, query, meetupID)
	if err != nil {
		logger.Error("MeetupRepository:ListParticipants", err)
		return nil, err
	}

	return participants, nil
}

func (r *MeetupRepository) IsParticipant(ctx context.Context, meetupID, userID uuid.UUID) (bool, error) {
	var exists bool
	query := `
		SELECT EXISTS (
			SELECT 1 FROM meetup_participants
			WHERE meetup_id = $1 AND user_id = $2
		)
	`
	err := r.DB.GetContext(ctx, &exists, query, meetupID, userID)
	if err != nil {
		logger.Error("MeetupRepository:IsParticipant", err)
		return false, err
	}
	return exists, nil
}

// ReconcileParticipantCounts resets any drifted participant_count to the
// roster size. The counter is a materialized view of the roster; this is
// the periodic recomputation pass that makes drift self-healing. The LEFT
// JOIN keeps meetups with an empty roster in scope so a nonzero counter
// over zero rows is healed too.
func (r *MeetupRepository) ReconcileParticipantCounts(ctx context.Context) (int64, error) {
	query := `
		UPDATE meetups m
		SET participant_count = c.cnt
		FROM (
			SELECT m2.id, COUNT(p.user_id) AS cnt
			FROM meetups m2
			LEFT JOIN meetup_participants p ON p.meetup_id = m2.id
			GROUP BY m2.id
		) c
		WHERE m.id = c.id AND m.participant_count <> c.cnt
	`

	res, err := r.DB.SQLx().ExecContext(ctx, query)
	if err != nil {
		logger.Error("MeetupRepository:ReconcileParticipantCounts", err)
		return 0, err
	}

	fixed, _ := res.RowsAffected()
	return fixed, nil
}
