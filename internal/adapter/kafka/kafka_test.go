package kafka

import (
	"encoding/json"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NikhilGolait/KisanMitra/internal/domain"
)

func TestMapMessageToSensorEvent(t *testing.T) {
	r := &Reader{}
	msg := kafkago.Message{
		Topic:     "field-sensor-readings",
		Partition: 2,
		Offset:    41,
		Key:       []byte("plot-7"),
		Value:     []byte(`{"soil_moisture_pct":15,"soil_ph":5.5,"wind_speed_ms":3}`),
		Time:      time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		Headers: []kafkago.Header{
			{Key: "source", Value: []byte("gateway-1")},
		},
	}

	event := r.mapMessageToSensorEvent(msg)

	assert.Equal(t, "field-sensor-readings", event.Topic)
	assert.Equal(t, 2, event.Partition)
	assert.Equal(t, int64(41), event.Offset)
	assert.Equal(t, []byte("plot-7"), event.Key)
	assert.Equal(t, msg.Time, event.Timestamp)
	assert.Equal(t, map[string]string{"source": "gateway-1"}, event.Headers)
	require.NotNil(t, event.Commit)

	readings, err := domain.ParseSensorEvent(event)
	require.NoError(t, err)
	assert.Equal(t, 15.0, readings.SoilMoisturePct)
	assert.Equal(t, 5.5, readings.SoilPH)
	assert.Equal(t, 3.0, readings.WindSpeedMs)
}

func TestSerializeToMessage(t *testing.T) {
	generated := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	advisory := domain.Advisory{
		ID: "adv-0011aabb",
		Location: domain.ValidatedLocation{
			Point: domain.GeoPoint{Latitude: 21.1458, Longitude: 79.0882},
			Name:  "Nagpur",
			Valid: true,
		},
		Crops:       domain.NewCropSet("Rice", "Jute"),
		GeneratedAt: generated,
	}

	msg, err := serializeToMessage(advisory)
	require.NoError(t, err)

	assert.Equal(t, []byte("adv-0011aabb"), msg.Key)

	var decoded domain.Advisory
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, advisory.ID, decoded.ID)
	assert.Equal(t, "Nagpur", decoded.Location.Name)
	assert.Equal(t, []string{"Rice", "Jute"}, decoded.Crops.Names())

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, "true", headers["location_valid"])
	assert.Equal(t, generated.Format(time.RFC3339), headers["generated_at"])
}
