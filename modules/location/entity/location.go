package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// CanonicalLocation is the normalized (city, state, country) identity a
// meetup or a user bucket is grouped under, after metro-area aliasing.
type CanonicalLocation struct {
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country"`
}

// Key returns the normalized lookup/cache key for the location.
func (l CanonicalLocation) Key() string {
	return strings.ToLower(strings.TrimSpace(l.City)) + "|" +
		strings.ToLower(strings.TrimSpace(l.State)) + "|" +
		strings.ToLower(strings.TrimSpace(l.Country))
}

// MetroArea maps a set of member cities onto one canonical metro name,
// scoped by state and/or country so that identically named cities in
// different regions stay distinct.
type MetroArea struct {
	Name    string   `mapstructure:"name" json:"name"`
	State   string   `mapstructure:"state" json:"state"`
	Country string   `mapstructure:"country" json:"country"`
	Cities  []string `mapstructure:"cities" json:"cities"`
}

// UserLocation is the slice of the users table the bucketer consults:
// hometown plus an optional date-bounded travel destination.
type UserLocation struct {
	UserID        uuid.UUID  `db:"id"`
	City          string     `db:"city"`
	State         string     `db:"state"`
	Country       string     `db:"country"`
	TravelCity    *string    `db:"travel_city"`
	TravelState   *string    `db:"travel_state"`
	TravelCountry *string    `db:"travel_country"`
	TravelStart   *time.Time `db:"travel_start"`
	TravelEnd     *time.Time `db:"travel_end"`
}
