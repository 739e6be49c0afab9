package domain

import "context"

// Geocoder resolves points and free-text queries to place candidates.
// Implementations own the upstream fetch; validation itself is pure.
type Geocoder interface {
	// ReverseGeocode converts coordinates to a place candidate.
	ReverseGeocode(ctx context.Context, point GeoPoint) (PlaceCandidate, error)

	// ForwardGeocode converts a free-text query to a place candidate.
	ForwardGeocode(ctx context.Context, query string) (PlaceCandidate, error)
}
