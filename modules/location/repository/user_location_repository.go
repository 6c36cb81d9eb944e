package repository

import (
	"context"
	"database/sql"

	"quickmeet-api/core/database"
	"quickmeet-api/core/logger"
	"quickmeet-api/modules/location/entity"

	"github.com/google/uuid"
)

// UserLocationRepository reads the location columns of the users table.
// The users table itself is owned by the surrounding application; this
// service only consults it.
type UserLocationRepository struct {
	db database.IDatabase
}

func NewUserLocationRepository(db database.IDatabase) *UserLocationRepository {
	return &UserLocationRepository{db: db}
}

type UserLocationRepositoryInterface interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*entity.UserLocation, error)
}

func (r *UserLocationRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*entity.UserLocation, error) {
	query := `
		SELECT id, city, state, country,
		       travel_city, travel_state, travel_country,
		       travel_start, travel_end
		FROM users WHERE id = $1
	`

	var loc entity.UserLocation
	err := r.db.GetContext(ctx, &loc, query, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("UserLocationRepository:GetByUserID", err)
		return nil, err
	}

	return &loc, nil
}
