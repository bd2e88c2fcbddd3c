// Package geocode turns GPS coordinates into a short human-readable place name.
package geocode

import (
	"context"
	"errors"
	"strings"
)

// ErrNoAddress is returned when the service answers but has no usable place
// components for the coordinates (open sea, unmapped land).
var ErrNoAddress = errors.New("no address for coordinates")

type Reverser interface {
	Reverse(ctx context.Context, lat, lon float64) (Address, error)
}

// Address holds the components the gallery cares about.
type Address struct {
	City     string
	Town     string
	Village  string
	County   string
	Province string
	State    string
	Country  string
}

// Place returns the most specific settlement-level name available.
func (a Address) Place() string {
	for _, v := range []string{a.City, a.Town, a.Village, a.County, a.Province, a.State} {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// Format renders "Place, Country", or whichever half exists.
func (a Address) Format() (string, error) {
	place := a.Place()
	country := strings.TrimSpace(a.Country)
	switch {
	case place != "" && country != "":
		return place + ", " + country, nil
	case place != "":
		return place, nil
	case country != "":
		return country, nil
	}
	return "", ErrNoAddress
}
