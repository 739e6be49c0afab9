package nominatim

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

const userAgent = "kisanmitra-advisor/1.0"

// Client implements domain.Geocoder using the OpenStreetMap Nominatim API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a Nominatim geocoding client.
func NewClient(baseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		metrics:    metrics,
		logger:     logger,
	}
}

// ReverseGeocode converts coordinates to a place candidate.
func (c *Client) ReverseGeocode(ctx context.Context, point domain.GeoPoint) (domain.PlaceCandidate, error) {
	params := url.Values{
		"format":         {"jsonv2"},
		"lat":            {strconv.FormatFloat(point.Latitude, 'f', 6, 64)},
		"lon":            {strconv.FormatFloat(point.Longitude, 'f', 6, 64)},
		"addressdetails": {"1"},
	}

	var place placeResponse
	if err := c.doRequest(ctx, c.baseURL+"/reverse?"+params.Encode(), "reverse", &place); err != nil {
		return domain.PlaceCandidate{}, err
	}
	return place.toCandidate(point), nil
}

// ForwardGeocode converts a free-text query to a place candidate.
func (c *Client) ForwardGeocode(ctx context.Context, query string) (domain.PlaceCandidate, error) {
	params := url.Values{
		"format":         {"jsonv2"},
		"q":              {query},
		"addressdetails": {"1"},
		"limit":          {"1"},
	}

	var places []placeResponse
	if err := c.doRequest(ctx, c.baseURL+"/search?"+params.Encode(), "forward", &places); err != nil {
		return domain.PlaceCandidate{}, err
	}
	if len(places) == 0 {
		c.metrics.GeocodeRequests.WithLabelValues("forward", "empty").Inc()
		return domain.PlaceCandidate{}, nil
	}

	place := places[0]
	return place.toCandidate(place.point()), nil
}

func (c *Client) doRequest(ctx context.Context, fullURL, method string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	// Nominatim's usage policy requires an identifying User-Agent.
	req.Header.Set("User-Agent", userAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.GeocodeAPIDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.GeocodeRequests.WithLabelValues(method, "error").Inc()
		return fmt.Errorf("%s geocode request: %w", method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.metrics.GeocodeRequests.WithLabelValues(method, "error").Inc()
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("nominatim API error: status %d: %s", resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.metrics.GeocodeRequests.WithLabelValues(method, "error").Inc()
		return fmt.Errorf("decode response: %w", err)
	}

	c.metrics.GeocodeRequests.WithLabelValues(method, "success").Inc()
	return nil
}

// Nominatim API response types.

type placeResponse struct {
	Lat         string            `json:"lat"`
	Lon         string            `json:"lon"`
	DisplayName string            `json:"display_name"`
	Address     map[string]string `json:"address"`
}

func (p placeResponse) point() domain.GeoPoint {
	lat, _ := strconv.ParseFloat(p.Lat, 64)
	lon, _ := strconv.ParseFloat(p.Lon, 64)
	return domain.GeoPoint{Latitude: lat, Longitude: lon}
}

func (p placeResponse) toCandidate(point domain.GeoPoint) domain.PlaceCandidate {
	return domain.PlaceCandidate{
		Point:       point,
		DisplayName: p.DisplayName,
		Address:     p.Address,
	}
}
