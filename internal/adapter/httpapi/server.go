package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/NikhilGolait/KisanMitra/internal/domain"
)

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// AdvisoryService is the engine surface the HTTP API exposes.
type AdvisoryService interface {
	Advise(ctx context.Context, point domain.GeoPoint, readings domain.SensorReadings) (domain.Advisory, error)
	SetLocation(ctx context.Context, point domain.GeoPoint) domain.ValidatedLocation
	SetLocationByQuery(ctx context.Context, query string) domain.ValidatedLocation
	Location() (domain.ValidatedLocation, bool)
}

// Server exposes health, readiness, metrics, and advisory HTTP endpoints.
type Server struct {
	httpServer *http.Server
	service    AdvisoryService
	logger     *slog.Logger
}

// NewServer creates an HTTP server with operational and advisory routes.
func NewServer(addr string, service AdvisoryService, ready ReadinessChecker, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		service: service,
		logger:  logger,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", handleReady(ready))
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("POST /v1/advisories", s.handleAdvise)
	mux.HandleFunc("PUT /v1/location", s.handleSetLocation)
	mux.HandleFunc("POST /v1/location/search", s.handleSearchLocation)
	mux.HandleFunc("GET /v1/location", s.handleGetLocation)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

type adviseRequest struct {
	Latitude  float64                `json:"latitude"`
	Longitude float64                `json:"longitude"`
	Readings  *domain.SensorReadings `json:"readings,omitempty"`
}

type pointRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type searchRequest struct {
	Query string `json:"query"`
}

// handleAdvise runs the one-shot advisory flow for a point. An invalid
// location still yields a 200 with the rejection advisory; only a failed
// weather fetch degrades to 502.
func (s *Server) handleAdvise(w http.ResponseWriter, r *http.Request) {
	var req adviseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	point := domain.GeoPoint{Latitude: req.Latitude, Longitude: req.Longitude}
	if err := validatePoint(point); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var readings domain.SensorReadings
	if req.Readings != nil {
		readings = *req.Readings
	}

	advisory, err := s.service.Advise(r.Context(), point, readings)
	if err != nil {
		if errors.Is(err, domain.ErrForecastUnavailable) {
			writeError(w, http.StatusBadGateway, "weather forecast unavailable")
			return
		}
		s.logger.Error("advise failed", "error", err,
			"lat", point.Latitude, "lon", point.Longitude)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, advisory)
}

func (s *Server) handleSetLocation(w http.ResponseWriter, r *http.Request) {
	var req pointRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	point := domain.GeoPoint{Latitude: req.Latitude, Longitude: req.Longitude}
	if err := validatePoint(point); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.service.SetLocation(r.Context(), point))
}

func (s *Server) handleSearchLocation(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, "query must not be empty")
		return
	}
	writeJSON(w, http.StatusOK, s.service.SetLocationByQuery(r.Context(), req.Query))
}

func (s *Server) handleGetLocation(w http.ResponseWriter, _ *http.Request) {
	loc, ok := s.service.Location()
	if !ok {
		writeError(w, http.StatusNotFound, "no location selected")
		return
	}
	writeJSON(w, http.StatusOK, loc)
}

func validatePoint(p domain.GeoPoint) error {
	if p.Latitude < -90 || p.Latitude > 90 {
		return errors.New("latitude must be between -90 and 90")
	}
	if p.Longitude < -180 || p.Longitude > 180 {
		return errors.New("longitude must be between -180 and 180")
	}
	return nil
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
