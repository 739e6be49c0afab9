package domain

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeForecast(t *testing.T) {
	t.Run("zips parallel arrays in order", func(t *testing.T) {
		payload := ForecastPayload{Daily: DailyArrays{
			Time:             []string{"2026-08-28", "2026-08-29", "2026-08-30"},
			TemperatureMax:   []float64{31.2, 29.8, 30.5},
			HumidityMax:      []float64{70, 65, 55},
			PrecipitationSum: []float64{12.5, 0, 120},
		}}

		series, latest, err := NormalizeForecast(payload)
		require.NoError(t, err)

		want := []DailyWeather{
			{Date: "2026-08-28", TemperatureC: 31.2, HumidityPct: 70, RainfallMm: 12.5},
			{Date: "2026-08-29", TemperatureC: 29.8, HumidityPct: 65, RainfallMm: 0},
			{Date: "2026-08-30", TemperatureC: 30.5, HumidityPct: 55, RainfallMm: 120},
		}
		if diff := cmp.Diff(want, series); diff != "" {
			t.Errorf("series mismatch (-want +got):\n%s", diff)
		}
		assert.Equal(t, WeatherSnapshot{TemperatureC: 30.5, HumidityPct: 55, RainfallMm: 120}, latest)
	})

	t.Run("single day series", func(t *testing.T) {
		payload := ForecastPayload{Daily: DailyArrays{
			Time:             []string{"2026-08-30"},
			TemperatureMax:   []float64{22},
			HumidityMax:      []float64{65},
			PrecipitationSum: []float64{110},
		}}

		series, latest, err := NormalizeForecast(payload)
		require.NoError(t, err)
		assert.Len(t, series, 1)
		assert.Equal(t, WeatherSnapshot{TemperatureC: 22, HumidityPct: 65, RainfallMm: 110}, latest)
	})

	t.Run("missing time axis", func(t *testing.T) {
		payload := ForecastPayload{Daily: DailyArrays{
			TemperatureMax:   []float64{22},
			HumidityMax:      []float64{65},
			PrecipitationSum: []float64{110},
		}}

		_, _, err := NormalizeForecast(payload)
		assert.ErrorIs(t, err, ErrForecastUnavailable)
	})

	t.Run("missing metric array", func(t *testing.T) {
		payload := ForecastPayload{Daily: DailyArrays{
			Time:             []string{"2026-08-30"},
			TemperatureMax:   []float64{22},
			PrecipitationSum: []float64{110},
		}}

		_, _, err := NormalizeForecast(payload)
		assert.ErrorIs(t, err, ErrForecastUnavailable)
	})

	t.Run("inconsistent array lengths", func(t *testing.T) {
		payload := ForecastPayload{Daily: DailyArrays{
			Time:             []string{"2026-08-29", "2026-08-30"},
			TemperatureMax:   []float64{22, 23},
			HumidityMax:      []float64{65},
			PrecipitationSum: []float64{110, 90},
		}}

		_, _, err := NormalizeForecast(payload)
		assert.ErrorIs(t, err, ErrForecastUnavailable)
	})

	t.Run("empty payload", func(t *testing.T) {
		_, _, err := NormalizeForecast(ForecastPayload{})
		assert.ErrorIs(t, err, ErrForecastUnavailable)
	})
}
