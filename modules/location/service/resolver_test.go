package service

import (
	"testing"

	"quickmeet-api/modules/location/entity"

	"github.com/stretchr/testify/require"
)

func fixtureResolver() *Resolver {
	return NewResolver([]entity.MetroArea{
		{
			Name:    "Los Angeles Metro",
			State:   "California",
			Country: "United States",
			Cities:  []string{"Los Angeles", "Santa Monica", "Venice"},
		},
		{
			Name:    "Greater London",
			Country: "United Kingdom",
			Cities:  []string{"London"},
		},
	})
}

func TestResolver_Resolve(t *testing.T) {
	r := fixtureResolver()

	tests := []struct {
		name    string
		city    string
		state   string
		country string
		want    entity.CanonicalLocation
	}{
		{
			name:    "metro alias",
			city:    "Santa Monica",
			state:   "California",
			country: "United States",
			want:    entity.CanonicalLocation{City: "Los Angeles Metro", State: "California", Country: "United States"},
		},
		{
			name:    "case insensitive with whitespace",
			city:    "  venice ",
			state:   "CALIFORNIA",
			country: "united states",
			want:    entity.CanonicalLocation{City: "Los Angeles Metro", State: "California", Country: "United States"},
		},
		{
			name:    "country scoped alias",
			city:    "london",
			state:   "",
			country: "United Kingdom",
			want:    entity.CanonicalLocation{City: "Greater London", State: "", Country: "United Kingdom"},
		},
		{
			name:    "same city name different country falls through",
			city:    "London",
			state:   "Ontario",
			country: "Canada",
			want:    entity.CanonicalLocation{City: "London", State: "Ontario", Country: "Canada"},
		},
		{
			name:    "no alias capitalizes each word",
			city:    "fort collins",
			state:   "colorado",
			country: "united states",
			want:    entity.CanonicalLocation{City: "Fort Collins", State: "Colorado", Country: "United States"},
		},
		{
			name:    "empty city stays empty",
			city:    "",
			state:   "California",
			country: "United States",
			want:    entity.CanonicalLocation{City: "", State: "California", Country: "United States"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Resolve(tt.city, tt.state, tt.country)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestResolver_ResolveIdempotent(t *testing.T) {
	r := fixtureResolver()

	inputs := [][3]string{
		{"Santa Monica", "California", "United States"},
		{"london", "", "United Kingdom"},
		{"austin", "texas", "united states"},
		{"", "", ""},
	}

	for _, in := range inputs {
		first := r.Resolve(in[0], in[1], in[2])
		second := r.Resolve(first.City, first.State, first.Country)
		require.Equal(t, first, second)
	}
}

func TestResolver_KeyNormalization(t *testing.T) {
	a := entity.CanonicalLocation{City: "Los Angeles Metro", State: "California", Country: "United States"}
	b := entity.CanonicalLocation{City: " los angeles metro", State: "CALIFORNIA ", Country: "united states"}
	require.Equal(t, a.Key(), b.Key())
}

func TestDefaultMetroTable_FeedsResolver(t *testing.T) {
	r := NewResolver(DefaultMetroTable())

	got := r.Resolve("Brooklyn", "New York", "United States")
	require.Equal(t, "New York Metro", got.City)

	got = r.Resolve("Toronto", "Ontario", "Canada")
	require.Equal(t, "Greater Toronto Area", got.City)
}
