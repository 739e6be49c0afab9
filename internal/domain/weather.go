package domain

import "errors"

// ErrForecastUnavailable is returned when the forecast payload lacks a
// daily time axis or any of the three metric arrays, or when the array
// lengths are inconsistent. Surfaced to the user as a failed weather
// fetch; no partial series is ever produced.
var ErrForecastUnavailable = errors.New("forecast data unavailable")

// ForecastPayload is the raw multi-day forecast as delivered by the
// provider: parallel daily arrays sharing one time axis.
type ForecastPayload struct {
	Daily DailyArrays `json:"daily"`
}

// DailyArrays holds the parallel per-day metric arrays. Field names follow
// the Open-Meteo daily variable names.
type DailyArrays struct {
	Time             []string  `json:"time"` // ISO dates, chronological
	TemperatureMax   []float64 `json:"temperature_2m_max"`
	HumidityMax      []float64 `json:"relative_humidity_2m_max"`
	PrecipitationSum []float64 `json:"precipitation_sum"`
}

// DailyWeather is one element of the normalized forecast series.
type DailyWeather struct {
	Date         string  `json:"date"`
	TemperatureC float64 `json:"temperature_c"`
	HumidityPct  float64 `json:"humidity_pct"`
	RainfallMm   float64 `json:"rainfall_mm"`
}

// WeatherSnapshot is the latest element of the series, the input to crop
// selection.
type WeatherSnapshot struct {
	TemperatureC float64 `json:"temperature_c"`
	HumidityPct  float64 `json:"humidity_pct"`
	RainfallMm   float64 `json:"rainfall_mm"`
}

// NormalizeForecast zips the parallel daily arrays into a chronological
// series and returns the final element as the latest snapshot. The source
// is trusted to be time-ordered; no re-sorting happens here.
func NormalizeForecast(payload ForecastPayload) ([]DailyWeather, WeatherSnapshot, error) {
	daily := payload.Daily
	n := len(daily.Time)
	if n == 0 {
		return nil, WeatherSnapshot{}, ErrForecastUnavailable
	}
	if len(daily.TemperatureMax) != n || len(daily.HumidityMax) != n || len(daily.PrecipitationSum) != n {
		return nil, WeatherSnapshot{}, ErrForecastUnavailable
	}

	series := make([]DailyWeather, n)
	for i := 0; i < n; i++ {
		series[i] = DailyWeather{
			Date:         daily.Time[i],
			TemperatureC: daily.TemperatureMax[i],
			HumidityPct:  daily.HumidityMax[i],
			RainfallMm:   daily.PrecipitationSum[i],
		}
	}

	last := series[n-1]
	latest := WeatherSnapshot{
		TemperatureC: last.TemperatureC,
		HumidityPct:  last.HumidityPct,
		RainfallMm:   last.RainfallMm,
	}
	return series, latest, nil
}
