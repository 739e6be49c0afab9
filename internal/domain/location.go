package domain

import "strings"

// GeoPoint is a WGS-84 latitude/longitude coordinate pair.
type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// PlaceCandidate is a raw reverse-geocode result before validation.
type PlaceCandidate struct {
	Point       GeoPoint          `json:"point"`
	DisplayName string            `json:"display_name"`
	Address     map[string]string `json:"address,omitempty"`
}

// ValidatedLocation is the durable unit passed downstream. Valid=false
// forces an empty crop set and no weather snapshot; no partial
// recommendation is ever emitted for an invalid location.
type ValidatedLocation struct {
	Point GeoPoint `json:"point"`
	Name  string   `json:"name"`
	Valid bool     `json:"valid"`

	// Token is a monotonically increasing sequence number assigned by the
	// advisor engine. A forecast result is discarded when its token no
	// longer matches the current location's token.
	Token uint64 `json:"-"`
}

// unknownLocationName is the fail-closed placeholder for failed lookups.
const unknownLocationName = "Unknown Location"

// restrictedKeywords is the closed list of display-name tokens marking
// non-agricultural land use. Matched case-insensitively as substrings.
var restrictedKeywords = []string{
	"hospital", "clinic", "pharmacy",
	"school", "college", "university",
	"temple", "church", "mosque", "shrine",
	"mall", "market", "shop", "hotel",
	"railway", "station", "airport", "bus stand",
	"bank", "atm",
}

// settlementTags are the address fields signaling a recognized populated
// place. At least one must be present for a point to be valid farmland.
var settlementTags = []string{"city", "town", "village", "hamlet"}

// Validate classifies a reverse-geocode result as a valid farmland site or
// a restricted/non-agricultural site. Pure function over its inputs.
func Validate(candidate PlaceCandidate) ValidatedLocation {
	name := strings.TrimSpace(candidate.DisplayName)
	if name == "" {
		return RejectedLocation(candidate.Point)
	}

	return ValidatedLocation{
		Point: candidate.Point,
		Name:  name,
		Valid: hasSettlementTag(candidate.Address) && !hasRestrictedKeyword(name),
	}
}

// RejectedLocation is the deterministic result for a failed or empty
// geocode lookup. A lookup error is never conflated with "valid, no
// restrictions found".
func RejectedLocation(point GeoPoint) ValidatedLocation {
	return ValidatedLocation{
		Point: point,
		Name:  unknownLocationName,
		Valid: false,
	}
}

func hasRestrictedKeyword(displayName string) bool {
	lower := strings.ToLower(displayName)
	for _, keyword := range restrictedKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

func hasSettlementTag(address map[string]string) bool {
	for _, tag := range settlementTags {
		if address[tag] != "" {
			return true
		}
	}
	return false
}
