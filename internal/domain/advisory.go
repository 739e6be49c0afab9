package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// Advisory is the complete recommendation recomputed from scratch on every
// location or sensor change. For an invalid location the crop set is empty
// and Series/Latest are absent.
type Advisory struct {
	ID            string              `json:"id"`
	Location      ValidatedLocation   `json:"location"`
	Series        []DailyWeather      `json:"series,omitempty"`
	Latest        *WeatherSnapshot    `json:"latest,omitempty"`
	Crops         CropSet             `json:"crops"`
	Agrochemicals []AgrochemicalEntry `json:"agrochemicals,omitempty"`
	Readings      SensorReadings      `json:"readings"`
	GeneratedAt   time.Time           `json:"generated_at"`
}

// AdvisoryNotification is a fire-once deferred alert summarizing an
// advisory outcome.
type AdvisoryNotification struct {
	Title  string    `json:"title"`
	Body   string    `json:"body"`
	FireAt time.Time `json:"fire_at"`
}

// NewAdvisory assembles an advisory from the pipeline stage outputs and
// stamps it with a deterministic ID and the generation time.
func NewAdvisory(loc ValidatedLocation, series []DailyWeather, latest *WeatherSnapshot, crops CropSet, entries []AgrochemicalEntry, readings SensorReadings) Advisory {
	return Advisory{
		ID:            generateAdvisoryID(loc, readings),
		Location:      loc,
		Series:        series,
		Latest:        latest,
		Crops:         crops,
		Agrochemicals: entries,
		Readings:      readings,
		GeneratedAt:   clock.Now().UTC(),
	}
}

// RejectedAdvisory is the terminal state for an invalid location: empty
// crop set, no weather, no agrochemicals.
func RejectedAdvisory(loc ValidatedLocation, readings SensorReadings) Advisory {
	return NewAdvisory(loc, nil, nil, CropSet{}, nil, readings)
}

// generateAdvisoryID produces a deterministic ID from the advisory's key
// inputs. Replaying identical inputs yields the same ID, which keeps
// downstream consumers idempotent.
func generateAdvisoryID(loc ValidatedLocation, readings SensorReadings) string {
	input := fmt.Sprintf("%.4f|%.4f|%s|%t|%g|%g|%g",
		loc.Point.Latitude, loc.Point.Longitude, loc.Name, loc.Valid,
		readings.SoilMoisturePct, readings.SoilPH, readings.WindSpeedMs)
	hash := sha256.Sum256([]byte(input))
	return "adv-" + hex.EncodeToString(hash[:8])
}
