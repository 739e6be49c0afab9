// Package advisor orchestrates the advisory pipeline: location validation
// gates forecast normalization, whose snapshot feeds climate crop
// selection, sensor adjustment, and agrochemical resolution.
package advisor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/NikhilGolait/KisanMitra/internal/domain"
	"github.com/NikhilGolait/KisanMitra/internal/observability"
)

// ErrStaleLocation is returned by Recompute when the current location was
// replaced while the forecast fetch was in flight. The caller discards the
// result instead of persisting a new-location/stale-weather mix.
var ErrStaleLocation = errors.New("location changed during recompute")

// ErrNoLocation is returned by Recompute before any location has been set.
var ErrNoLocation = errors.New("no location set")

// ForecastProvider fetches the raw daily forecast for a point.
type ForecastProvider interface {
	FetchDaily(ctx context.Context, point domain.GeoPoint) (domain.ForecastPayload, error)
}

// Engine runs the decision pipeline. It keeps the current location and
// sensor readings; every change fully replaces the prior state and the
// advisory is recomputed from scratch, never patched.
type Engine struct {
	geocoder domain.Geocoder
	forecast ForecastProvider
	logger   *slog.Logger
	metrics  *observability.Metrics

	mu          sync.Mutex
	seq         uint64
	location    domain.ValidatedLocation
	readings    domain.SensorReadings
	hasLocation bool
}

// New creates an Engine with the given collaborators.
func New(geocoder domain.Geocoder, forecast ForecastProvider, logger *slog.Logger, metrics *observability.Metrics) *Engine {
	return &Engine{
		geocoder: geocoder,
		forecast: forecast,
		logger:   logger,
		metrics:  metrics,
	}
}

// Advise runs the full one-shot pipeline for a point and readings without
// touching the engine's tracked state. An invalid location yields a
// rejection advisory, not an error; only forecast failures are surfaced.
func (e *Engine) Advise(ctx context.Context, point domain.GeoPoint, readings domain.SensorReadings) (domain.Advisory, error) {
	return e.compute(ctx, e.locate(ctx, point), readings)
}

// SetLocation reverse-geocodes and validates a point, then replaces the
// current location wholesale under a fresh sequence token.
func (e *Engine) SetLocation(ctx context.Context, point domain.GeoPoint) domain.ValidatedLocation {
	return e.store(e.locate(ctx, point))
}

// SetLocationByQuery resolves a free-text search to a location. The search
// path is fail-closed like every other entry path: a failed or empty
// lookup yields an invalid "Unknown Location".
func (e *Engine) SetLocationByQuery(ctx context.Context, query string) domain.ValidatedLocation {
	candidate, err := e.geocoder.ForwardGeocode(ctx, query)
	if err != nil {
		e.logger.Warn("forward geocoding failed", "query", query, "error", err)
		return e.store(domain.RejectedLocation(domain.GeoPoint{}))
	}
	return e.store(domain.Validate(candidate))
}

// UpdateReadings replaces the current sensor readings. No history is kept.
func (e *Engine) UpdateReadings(readings domain.SensorReadings) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.readings = readings
}

// Location returns the current validated location, if one has been set.
func (e *Engine) Location() (domain.ValidatedLocation, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.location, e.hasLocation
}

// Recompute rebuilds the advisory for the current location and readings.
// The location token is captured before the forecast fetch; if another
// location replaced it mid-fetch the result is discarded with
// ErrStaleLocation rather than relying on call-order luck.
func (e *Engine) Recompute(ctx context.Context) (domain.Advisory, error) {
	e.mu.Lock()
	if !e.hasLocation {
		e.mu.Unlock()
		return domain.Advisory{}, ErrNoLocation
	}
	loc := e.location
	readings := e.readings
	e.mu.Unlock()

	advisory, err := e.compute(ctx, loc, readings)
	if err != nil {
		return domain.Advisory{}, err
	}

	e.mu.Lock()
	current := e.location.Token
	e.mu.Unlock()
	if current != loc.Token {
		e.metrics.StaleRecomputes.Inc()
		return domain.Advisory{}, ErrStaleLocation
	}
	return advisory, nil
}

// locate reverse-geocodes and validates a point, degrading lookup failures
// to a rejected location.
func (e *Engine) locate(ctx context.Context, point domain.GeoPoint) domain.ValidatedLocation {
	candidate, err := e.geocoder.ReverseGeocode(ctx, point)
	if err != nil {
		e.logger.Warn("reverse geocoding failed",
			"lat", point.Latitude,
			"lon", point.Longitude,
			"error", err,
		)
		return domain.RejectedLocation(point)
	}
	return domain.Validate(candidate)
}

func (e *Engine) store(loc domain.ValidatedLocation) domain.ValidatedLocation {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.seq++
	loc.Token = e.seq
	e.location = loc
	e.hasLocation = true
	return loc
}

func (e *Engine) compute(ctx context.Context, loc domain.ValidatedLocation, readings domain.SensorReadings) (domain.Advisory, error) {
	e.metrics.AdvisoriesComputed.Inc()

	if !loc.Valid {
		e.metrics.LocationsRejected.Inc()
		e.logger.Info("location rejected", "name", loc.Name,
			"lat", loc.Point.Latitude, "lon", loc.Point.Longitude)
		return domain.RejectedAdvisory(loc, readings), nil
	}

	payload, err := e.forecast.FetchDaily(ctx, loc.Point)
	if err != nil {
		return domain.Advisory{}, fmt.Errorf("fetch forecast: %w", errors.Join(domain.ErrForecastUnavailable, err))
	}

	series, latest, err := domain.NormalizeForecast(payload)
	if err != nil {
		e.metrics.ForecastErrors.Inc()
		return domain.Advisory{}, fmt.Errorf("normalize forecast: %w", err)
	}

	base := domain.SelectByClimate(latest.TemperatureC, latest.HumidityPct, latest.RainfallMm)
	crops := domain.Adjust(base, readings)
	entries := domain.Resolve(crops)

	advisory := domain.NewAdvisory(loc, series, &latest, crops, entries, readings)
	e.logger.Debug("advisory computed",
		"advisory_id", advisory.ID,
		"location", loc.Name,
		"crops", crops.Names(),
	)
	return advisory, nil
}
