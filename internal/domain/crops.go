package domain

import (
	"encoding/json"
	"math"
)

// SensorReadings are the live field readings supplied by the
// device-integration collaborator. SoilPH of 0 means unset/unknown.
type SensorReadings struct {
	SoilMoisturePct float64 `json:"soil_moisture_pct"`
	SoilPH          float64 `json:"soil_ph"`
	WindSpeedMs     float64 `json:"wind_speed_ms"`
}

// CropSet is a deduplicated set of crop names that preserves insertion
// order, so downstream output (agrochemical entries, notification text)
// is deterministic. The zero value is an empty set.
type CropSet struct {
	names []string
	index map[string]struct{}
}

// NewCropSet builds a set from the given names, dropping duplicates.
func NewCropSet(names ...string) CropSet {
	var s CropSet
	for _, name := range names {
		s.Add(name)
	}
	return s
}

// Add inserts a crop; a no-op if already present.
func (s *CropSet) Add(name string) {
	if s.index == nil {
		s.index = make(map[string]struct{})
	}
	if _, ok := s.index[name]; ok {
		return
	}
	s.index[name] = struct{}{}
	s.names = append(s.names, name)
}

// Remove deletes a crop; a no-op if absent.
func (s *CropSet) Remove(name string) {
	if _, ok := s.index[name]; !ok {
		return
	}
	delete(s.index, name)
	for i, n := range s.names {
		if n == name {
			s.names = append(s.names[:i], s.names[i+1:]...)
			break
		}
	}
}

// Contains reports membership.
func (s CropSet) Contains(name string) bool {
	_, ok := s.index[name]
	return ok
}

// Names returns the crops in insertion order.
func (s CropSet) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Len returns the number of crops in the set.
func (s CropSet) Len() int {
	return len(s.names)
}

// Clone returns an independent copy.
func (s CropSet) Clone() CropSet {
	return NewCropSet(s.names...)
}

// MarshalJSON serializes the set as an ordered array of names.
func (s CropSet) MarshalJSON() ([]byte, error) {
	if s.names == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s.names)
}

// UnmarshalJSON restores the set from an array of names.
func (s *CropSet) UnmarshalJSON(data []byte) error {
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return err
	}
	*s = NewCropSet(names...)
	return nil
}

// climateRule is one row of the decision list: a conjunction of inclusive
// range tests mapping a weather snapshot to a crop list.
type climateRule struct {
	minTempC      float64
	maxTempC      float64
	minHumidity   float64
	minRainfallMm float64
	maxRainfallMm float64
	crops         []string
}

func (r climateRule) matches(tempC, humidityPct, rainfallMm float64) bool {
	return tempC >= r.minTempC && tempC <= r.maxTempC &&
		humidityPct >= r.minHumidity &&
		rainfallMm >= r.minRainfallMm && rainfallMm <= r.maxRainfallMm
}

// climateRules is evaluated top to bottom; the first satisfied rule wins.
// Rule order is a deliberate tie-break for overlapping ranges.
var climateRules = []climateRule{
	{minTempC: 10, maxTempC: 25, minHumidity: 60, minRainfallMm: 80, maxRainfallMm: math.Inf(1),
		crops: []string{"Wheat", "Barley", "Peas"}},
	{minTempC: 20, maxTempC: 35, minHumidity: 50, minRainfallMm: 100, maxRainfallMm: math.Inf(1),
		crops: []string{"Rice", "Sugarcane", "Jute"}},
	{minTempC: 25, maxTempC: 40, minHumidity: 30, minRainfallMm: 0, maxRainfallMm: 50,
		crops: []string{"Cotton", "Millets", "Sorghum"}},
	{minTempC: 15, maxTempC: 30, minHumidity: 40, minRainfallMm: 60, maxRainfallMm: math.Inf(1),
		crops: []string{"Maize", "Soybean", "Groundnut"}},
	{minTempC: 18, maxTempC: 28, minHumidity: 50, minRainfallMm: 70, maxRainfallMm: math.Inf(1),
		crops: []string{"Mustard", "Chickpea", "Lentil"}},
}

// defaultCrops is returned when no climate rule matches.
var defaultCrops = []string{"General Vegetables", "Pulses", "Fruits"}

// SelectByClimate maps a weather snapshot to a base crop set via the
// ordered rule table. The first matching rule's crop list is returned
// verbatim; rules are never merged.
func SelectByClimate(tempC, humidityPct, rainfallMm float64) CropSet {
	for _, rule := range climateRules {
		if rule.matches(tempC, humidityPct, rainfallMm) {
			return NewCropSet(rule.crops...)
		}
	}
	return NewCropSet(defaultCrops...)
}

// Adjust applies the sensor heuristics on top of the base crop set. The
// four steps run in a fixed order and the wind removal observes the
// unioned state of the earlier additions. The base set is not mutated;
// repeated application with unchanged readings is idempotent.
func Adjust(base CropSet, readings SensorReadings) CropSet {
	crops := base.Clone()

	if readings.SoilMoisturePct < 20 {
		crops.Add("Millets")
		crops.Add("Sorghum")
		crops.Add("Cotton")
	}
	if readings.SoilPH != 0 && readings.SoilPH < 6 {
		crops.Add("Rice")
		crops.Add("Jute")
	}
	if readings.SoilPH > 7.5 {
		crops.Add("Barley")
		crops.Add("Cotton")
	}
	if readings.WindSpeedMs > 20 {
		crops.Remove("Sugarcane")
	}

	return crops
}
