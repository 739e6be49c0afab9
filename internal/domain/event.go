package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// SensorEvent is an unprocessed sensor message from the source topic.
type SensorEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// ParseSensorEvent deserializes a SensorEvent's value into sensor readings
// and rejects physically impossible values. A soil pH of 0 passes through
// as the unset sentinel.
func ParseSensorEvent(raw SensorEvent) (SensorReadings, error) {
	var readings SensorReadings
	if err := json.Unmarshal(raw.Value, &readings); err != nil {
		return SensorReadings{}, fmt.Errorf("parse sensor event: %w", err)
	}

	if readings.SoilMoisturePct < 0 || readings.SoilMoisturePct > 100 {
		return SensorReadings{}, fmt.Errorf("parse sensor event: soil moisture %.1f%% out of range", readings.SoilMoisturePct)
	}
	if readings.SoilPH < 0 || readings.SoilPH > 14 {
		return SensorReadings{}, fmt.Errorf("parse sensor event: soil pH %.1f out of range", readings.SoilPH)
	}
	if readings.WindSpeedMs < 0 {
		return SensorReadings{}, fmt.Errorf("parse sensor event: wind speed %.1f m/s out of range", readings.WindSpeedMs)
	}

	return readings, nil
}
