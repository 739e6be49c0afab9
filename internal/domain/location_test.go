package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	point := GeoPoint{Latitude: 20.59, Longitude: 78.96}

	t.Run("village with clean name is valid", func(t *testing.T) {
		loc := Validate(PlaceCandidate{
			Point:       point,
			DisplayName: "Pimpri, Wardha, Maharashtra, India",
			Address:     map[string]string{"village": "Pimpri", "state": "Maharashtra"},
		})

		assert.True(t, loc.Valid)
		assert.Equal(t, "Pimpri, Wardha, Maharashtra, India", loc.Name)
		assert.Equal(t, point, loc.Point)
	})

	t.Run("restricted keyword rejects despite settlement tag", func(t *testing.T) {
		loc := Validate(PlaceCandidate{
			Point:       point,
			DisplayName: "Hospital Road, Nagpur, Maharashtra, India",
			Address:     map[string]string{"city": "Nagpur"},
		})

		assert.False(t, loc.Valid)
	})

	t.Run("keyword matching is case-insensitive", func(t *testing.T) {
		loc := Validate(PlaceCandidate{
			Point:       point,
			DisplayName: "GOVERNMENT SCHOOL, Amravati",
			Address:     map[string]string{"town": "Amravati"},
		})

		assert.False(t, loc.Valid)
	})

	t.Run("keyword matches inside longer words", func(t *testing.T) {
		// Substring policy: "railway" inside "Railways Colony" still rejects.
		loc := Validate(PlaceCandidate{
			Point:       point,
			DisplayName: "Railways Colony, Bhopal",
			Address:     map[string]string{"city": "Bhopal"},
		})

		assert.False(t, loc.Valid)
	})

	t.Run("no settlement tag rejects regardless of name", func(t *testing.T) {
		loc := Validate(PlaceCandidate{
			Point:       point,
			DisplayName: "Open Farmland, Vidarbha",
			Address:     map[string]string{"state": "Maharashtra", "county": "Wardha"},
		})

		assert.False(t, loc.Valid)
	})

	t.Run("every settlement tag qualifies", func(t *testing.T) {
		for _, tag := range []string{"city", "town", "village", "hamlet"} {
			loc := Validate(PlaceCandidate{
				Point:       point,
				DisplayName: "Greenfield Area",
				Address:     map[string]string{tag: "Somewhere"},
			})
			assert.True(t, loc.Valid, "tag %q should qualify", tag)
		}
	})

	t.Run("empty display name degrades to rejection", func(t *testing.T) {
		loc := Validate(PlaceCandidate{Point: point, Address: map[string]string{"city": "Pune"}})

		assert.False(t, loc.Valid)
		assert.Equal(t, "Unknown Location", loc.Name)
	})

	t.Run("nil address map rejects", func(t *testing.T) {
		loc := Validate(PlaceCandidate{Point: point, DisplayName: "Somewhere Rural"})

		assert.False(t, loc.Valid)
	})
}

func TestRejectedLocation(t *testing.T) {
	point := GeoPoint{Latitude: 1.5, Longitude: 2.5}
	loc := RejectedLocation(point)

	assert.False(t, loc.Valid)
	assert.Equal(t, "Unknown Location", loc.Name)
	assert.Equal(t, point, loc.Point)
}
