package service

import (
	"strings"
	"unicode"

	"quickmeet-api/modules/location/entity"
)

// Resolver normalizes raw (city, state, country) triples into canonical
// metro-area identities. It is a pure function over an immutable alias
// table injected at construction time.
type Resolver struct {
	// exact state+country scope, then country-only scope
	byStateCountry map[string]entity.MetroArea
	byCountry      map[string]entity.MetroArea
}

func NewResolver(metros []entity.MetroArea) *Resolver {
	r := &Resolver{
		byStateCountry: make(map[string]entity.MetroArea),
		byCountry:      make(map[string]entity.MetroArea),
	}

	for _, m := range metros {
		for _, city := range m.Cities {
			if m.State != "" {
				r.byStateCountry[aliasKey(city, m.State, m.Country)] = m
			} else {
				r.byCountry[aliasKey(city, "", m.Country)] = m
			}
		}
	}

	return r
}

// Resolve maps a raw triple to its canonical location. Matching is
// case-insensitive and whitespace-trimmed; when no metro alias applies
// the input comes back with each word capitalized. Total: every input
// yields exactly one output.
func (r *Resolver) Resolve(city, state, country string) entity.CanonicalLocation {
	city = strings.TrimSpace(city)
	state = strings.TrimSpace(state)
	country = strings.TrimSpace(country)

	if m, ok := r.byStateCountry[aliasKey(city, state, country)]; ok {
		return entity.CanonicalLocation{City: m.Name, State: capitalizeWords(state), Country: capitalizeWords(country)}
	}
	if m, ok := r.byCountry[aliasKey(city, "", country)]; ok {
		st := m.State
		if st == "" {
			st = capitalizeWords(state)
		}
		return entity.CanonicalLocation{City: m.Name, State: st, Country: capitalizeWords(country)}
	}

	return entity.CanonicalLocation{
		City:    capitalizeWords(city),
		State:   capitalizeWords(state),
		Country: capitalizeWords(country),
	}
}

func aliasKey(city, state, country string) string {
	return strings.ToLower(strings.TrimSpace(city)) + "|" +
		strings.ToLower(strings.TrimSpace(state)) + "|" +
		strings.ToLower(strings.TrimSpace(country))
}

// capitalizeWords upper-cases the first rune of each whitespace-separated
// word and lower-cases the rest.
func capitalizeWords(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		runes := []rune(strings.ToLower(w))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
