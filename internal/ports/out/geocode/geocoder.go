package geocode

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("location not found")

// Point is a resolved coordinate pair.
type Point struct {
	Latitude  float64
	Longitude float64
}

// Geocoder resolves free-text locations to coordinates.
// An unresolvable location reports ErrNotFound.
type Geocoder interface {
	Geocode(ctx context.Context, location string) (Point, error)
}
