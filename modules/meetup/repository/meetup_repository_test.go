package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"quickmeet-api/core/database"
	"quickmeet-api/modules/meetup/entity"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

var meetupTestColumns = []string{
	"id", "organizer_id", "title", "description", "category", "meeting_point",
	"city", "state", "country", "zip", "street_address", "response_time",
	"available_at", "expires_at", "max_participants", "min_participants",
	"cost_estimate", "is_active", "participant_count", "created_at",
}

var participantTestColumns = []string{"meetup_id", "user_id", "status", "notes", "joined_at"}

func meetupRow(id, organizerID uuid.UUID, now time.Time) *sqlmock.Rows {
	return sqlmock.NewRows(meetupTestColumns).AddRow(
		id, organizerID, "Coffee at the pier", nil, nil, "Pier 39 entrance",
		"San Francisco Bay Area", "California", "United States", nil, nil, "2hours",
		now, now.Add(2*time.Hour), 6, 2,
		nil, true, 1, now,
	)
}

func newMockRepo(t *testing.T) (*MeetupRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	wrapped := database.NewFromSQL(db, "sqlmock")
	return NewMeetupRepository(&wrapped), mock, func() { db.Close() }
}

func TestMeetupRepository_Create(t *testing.T) {
	ctx := context.Background()
	repo, mock, closeDB := newMockRepo(t)
	defer closeDB()

	organizerID := uuid.New()
	meetupID := uuid.New()
	now := time.Now().UTC().Truncate(time.Second)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO meetups`).
		WillReturnRows(meetupRow(meetupID, organizerID, now))
	mock.ExpectExec(`INSERT INTO meetup_participants`).
		WithArgs(meetupID, organizerID, entity.ParticipantStatusJoined).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	created, err := repo.Create(ctx, &entity.Meetup{
		OrganizerID:  organizerID,
		Title:        "Coffee at the pier",
		MeetingPoint: "Pier 39 entrance",
		City:         "San Francisco Bay Area",
		State:        "California",
		Country:      "United States",
		ResponseTime: entity.ResponseTime2Hours,
		AvailableAt:  now,
		ExpiresAt:    now.Add(2 * time.Hour),
	})

	require.NoError(t, err)
	require.Equal(t, meetupID, created.ID)
	require.True(t, created.IsActive)
	require.Equal(t, 1, created.ParticipantCount)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMeetupRepository_CreateRollsBackOnRosterFailure(t *testing.T) {
	ctx := context.Background()
	repo, mock, closeDB := newMockRepo(t)
	defer closeDB()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO meetups`).
		WillReturnRows(meetupRow(uuid.New(), uuid.New(), time.Now()))
	mock.ExpectExec(`INSERT INTO meetup_participants`).
		WillReturnError(sql.ErrConnDone)
	mock.ExpectRollback()

	created, err := repo.Create(ctx, &entity.Meetup{OrganizerID: uuid.New(), Title: "t"})

	require.Error(t, err)
	require.Nil(t, created)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMeetupRepository_GetByID(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock, id uuid.UUID)
		wantNil bool
		wantErr bool
	}{
		{
			name: "found",
			mock: func(mock sqlmock.Sqlmock, id uuid.UUID) {
				mock.ExpectQuery(`SELECT .* FROM meetups WHERE id = \$1`).
					WithArgs(id).
					WillReturnRows(meetupRow(id, uuid.New(), time.Now()))
			},
		},
		{
			name: "not found returns nil without error",
			mock: func(mock sqlmock.Sqlmock, id uuid.UUID) {
				mock.ExpectQuery(`SELECT .* FROM meetups WHERE id = \$1`).
					WithArgs(id).
					WillReturnError(sql.ErrNoRows)
			},
			wantNil: true,
		},
		{
			name: "db error",
			mock: func(mock sqlmock.Sqlmock, id uuid.UUID) {
				mock.ExpectQuery(`SELECT .* FROM meetups WHERE id = \$1`).
					WithArgs(id).
					WillReturnError(sql.ErrConnDone)
			},
			wantNil: true,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, closeDB := newMockRepo(t)
			defer closeDB()

			id := uuid.New()
			tt.mock(mock, id)

			meetup, err := repo.GetByID(ctx, id)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			if tt.wantNil {
				require.Nil(t, meetup)
			} else {
				require.Equal(t, id, meetup.ID)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestMeetupRepository_Join(t *testing.T) {
	ctx := context.Background()
	meetupID := uuid.New()
	userID := uuid.New()
	now := time.Now()

	existingRow := func() *sqlmock.Rows {
		return sqlmock.NewRows(participantTestColumns).
			AddRow(meetupID, userID, "joined", nil, now)
	}

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "fresh join bumps counter and inserts",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`SELECT .* FROM meetup_participants`).
					WithArgs(meetupID, userID).
					WillReturnError(sql.ErrNoRows)
				mock.ExpectExec(`UPDATE meetups`).
					WithArgs(meetupID).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectQuery(`INSERT INTO meetup_participants`).
					WillReturnRows(existingRow())
				mock.ExpectCommit()
			},
		},
		{
			name: "repeat join returns existing membership",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`SELECT .* FROM meetup_participants`).
					WithArgs(meetupID, userID).
					WillReturnRows(existingRow())
				mock.ExpectCommit()
			},
		},
		{
			name: "capacity guard rejects increment",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`SELECT .* FROM meetup_participants`).
					WithArgs(meetupID, userID).
					WillReturnError(sql.ErrNoRows)
				mock.ExpectExec(`UPDATE meetups`).
					WithArgs(meetupID).
					WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectRollback()
			},
			wantErr: ErrMeetupFull,
		},
		{
			name: "unique violation maps to join race",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`SELECT .* FROM meetup_participants`).
					WithArgs(meetupID, userID).
					WillReturnError(sql.ErrNoRows)
				mock.ExpectExec(`UPDATE meetups`).
					WithArgs(meetupID).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectQuery(`INSERT INTO meetup_participants`).
					WillReturnError(&pq.Error{Code: "23505"})
				mock.ExpectRollback()
			},
			wantErr: ErrJoinRace,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, closeDB := newMockRepo(t)
			defer closeDB()
			tt.mock(mock)

			participant, err := repo.Join(ctx, meetupID, userID, nil)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				require.Nil(t, participant)
			} else {
				require.NoError(t, err)
				require.Equal(t, userID, participant.UserID)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestMeetupRepository_Leave(t *testing.T) {
	ctx := context.Background()
	meetupID := uuid.New()
	userID := uuid.New()

	tests := []struct {
		name        string
		mock        func(mock sqlmock.Sqlmock)
		wantRemoved bool
	}{
		{
			name: "member removed and counter decremented",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(`DELETE FROM meetup_participants`).
					WithArgs(meetupID, userID).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectExec(`UPDATE meetups`).
					WithArgs(meetupID).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			},
			wantRemoved: true,
		},
		{
			name: "non-member leaves counter untouched",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(`DELETE FROM meetup_participants`).
					WithArgs(meetupID, userID).
					WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectCommit()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, closeDB := newMockRepo(t)
			defer closeDB()
			tt.mock(mock)

			removed, err := repo.Leave(ctx, meetupID, userID)
			require.NoError(t, err)
			require.Equal(t, tt.wantRemoved, removed)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestMeetupRepository_Expire(t *testing.T) {
	ctx := context.Background()
	repo, mock, closeDB := newMockRepo(t)
	defer closeDB()

	id := uuid.New()
	mock.ExpectExec(`UPDATE meetups SET is_active = false`).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Expire(ctx, id))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMeetupRepository_ListExpiredActive(t *testing.T) {
	ctx := context.Background()
	repo, mock, closeDB := newMockRepo(t)
	defer closeDB()

	now := time.Now()
	mock.ExpectQuery(`SELECT .* FROM meetups`).
		WithArgs(now, 200).
		WillReturnRows(meetupRow(uuid.New(), uuid.New(), now.Add(-3*time.Hour)))

	meetups, err := repo.ListExpiredActive(ctx, now, 200)
	require.NoError(t, err)
	require.Len(t, meetups, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMeetupRepository_ReconcileParticipantCounts(t *testing.T) {
	ctx := context.Background()
	repo, mock, closeDB := newMockRepo(t)
	defer closeDB()

	// the LEFT JOIN keeps empty-roster meetups in scope, so a drifted
	// nonzero counter over zero rows is healed too
	mock.ExpectExec(`(?s)UPDATE meetups m.*LEFT JOIN meetup_participants`).
		WillReturnResult(sqlmock.NewResult(0, 3))

	fixed, err := repo.ReconcileParticipantCounts(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(3), fixed)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMeetupRepository_ListParticipants(t *testing.T) {
	ctx := context.Background()
	repo, mock, closeDB := newMockRepo(t)
	defer closeDB()

	meetupID := uuid.New()
	first, second := uuid.New(), uuid.New()
	now := time.Now()

	mock.ExpectQuery(`SELECT .* FROM meetup_participants`).
		WithArgs(meetupID).
		WillReturnRows(sqlmock.NewRows(participantTestColumns).
			AddRow(meetupID, first, "joined", nil, now.Add(-time.Hour)).
			AddRow(meetupID, second, "joined", nil, now))

	participants, err := repo.ListParticipants(ctx, meetupID)
	require.NoError(t, err)
	require.Len(t, participants, 2)
	require.Equal(t, first, participants[0].UserID)
	require.Equal(t, second, participants[1].UserID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMeetupRepository_IsParticipant(t *testing.T) {
	ctx := context.Background()
	repo, mock, closeDB := newMockRepo(t)
	defer closeDB()

	meetupID := uuid.New()
	userID := uuid.New()
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(meetupID, userID).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := repo.IsParticipant(ctx, meetupID, userID)
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}
