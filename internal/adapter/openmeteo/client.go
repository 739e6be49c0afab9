package openmeteo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/NikhilGolait/KisanMitra/internal/domain"
	"github.com/NikhilGolait/KisanMitra/internal/observability"
)

// dailyVariables are the forecast metrics the advisory pipeline consumes.
const dailyVariables = "temperature_2m_max,relative_humidity_2m_max,precipitation_sum"

// Client fetches daily forecasts from the Open-Meteo API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	days       int
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates an Open-Meteo forecast client requesting the given
// number of forecast days.
func NewClient(baseURL string, timeout time.Duration, days int, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		days:       days,
		metrics:    metrics,
		logger:     logger,
	}
}

// FetchDaily retrieves the raw daily forecast payload for a point. The
// payload is returned unnormalized; shape validation belongs to
// domain.NormalizeForecast.
func (c *Client) FetchDaily(ctx context.Context, point domain.GeoPoint) (domain.ForecastPayload, error) {
	params := url.Values{
		"latitude":      {strconv.FormatFloat(point.Latitude, 'f', 4, 64)},
		"longitude":     {strconv.FormatFloat(point.Longitude, 'f', 4, 64)},
		"daily":         {dailyVariables},
		"forecast_days": {strconv.Itoa(c.days)},
		"timezone":      {"auto"},
	}
	fullURL := c.baseURL + "/v1/forecast?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return domain.ForecastPayload{}, fmt.Errorf("create request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.ForecastFetchDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.ForecastErrors.Inc()
		return domain.ForecastPayload{}, fmt.Errorf("forecast request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.metrics.ForecastErrors.Inc()
		body, _ := io.ReadAll(resp.Body)
		return domain.ForecastPayload{}, fmt.Errorf("open-meteo API error: status %d: %s", resp.StatusCode, body)
	}

	var payload domain.ForecastPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		c.metrics.ForecastErrors.Inc()
		return domain.ForecastPayload{}, fmt.Errorf("decode response: %w", err)
	}

	return payload, nil
}
