package service

import (
	"fmt"

	"quickmeet-api/core/logger"
	"quickmeet-api/modules/location/entity"

	"github.com/spf13/viper"
)

// LoadMetroTable reads the metro-area alias table from a YAML file. An
// empty path selects the built-in table.
func LoadMetroTable(path string) ([]entity.MetroArea, error) {
	if path == "" {
		return DefaultMetroTable(), nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read metro table: %w", err)
	}

	var metros []entity.MetroArea
	if err := v.UnmarshalKey("metros", &metros); err != nil {
		return nil, fmt.Errorf("parse metro table: %w", err)
	}

	logger.Info("Metro table loaded", "path", path, "metros", len(metros))
	return metros, nil
}

// DefaultMetroTable is the alias table shipped with the service. Member
// lists intentionally include the anchor city so that e.g. plain
// "Los Angeles" lands in the metro bucket too.
func DefaultMetroTable() []entity.MetroArea {
	return []entity.MetroArea{
		{
			Name:    "Los Angeles Metro",
			State:   "California",
			Country: "United States",
			Cities: []string{
				"Los Angeles", "Santa Monica", "Venice", "Pasadena",
				"Long Beach", "Burbank", "Glendale", "Culver City",
				"West Hollywood", "Beverly Hills", "Inglewood",
			},
		},
		{
			Name:    "New York Metro",
			State:   "New York",
			Country: "United States",
			Cities: []string{
				"New York", "Brooklyn", "Queens", "Bronx",
				"Staten Island", "Manhattan", "Jersey City", "Hoboken",
			},
		},
		{
			Name:    "San Francisco Bay Area",
			State:   "California",
			Country: "United States",
			Cities: []string{
				"San Francisco", "Oakland", "Berkeley", "Daly City",
				"San Jose", "Palo Alto", "Mountain View",
			},
		},
		{
			Name:    "Dallas-Fort Worth Metro",
			State:   "Texas",
			Country: "United States",
			Cities: []string{
				"Dallas", "Fort Worth", "Arlington", "Plano", "Irving",
			},
		},
		// Country-scoped entries disambiguate city names that collide
		// across regions.
		{
			Name:    "Greater London",
			Country: "United Kingdom",
			Cities:  []string{"London", "Croydon", "Wembley", "Richmond"},
		},
		{
			Name:    "Greater Toronto Area",
			State:   "Ontario",
			Country: "Canada",
			Cities:  []string{"Toronto", "Mississauga", "Brampton", "Markham"},
		},
	}
}
