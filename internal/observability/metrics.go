package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// advisory service.
type Metrics struct {
	AdvisoriesComputed  prometheus.Counter
	AdvisoriesPublished prometheus.Counter
	LocationsRejected   prometheus.Counter
	StaleRecomputes     prometheus.Counter
	SensorReadings      prometheus.Counter
	PipelineRunning     prometheus.Gauge

	// Geocoding metrics.
	GeocodeRequests    *prometheus.CounterVec   // labels: method={forward,reverse}, outcome={success,error,empty}
	GeocodeCache       *prometheus.CounterVec   // labels: method={forward,reverse}, result={hit,miss}
	GeocodeAPIDuration *prometheus.HistogramVec // labels: method={forward,reverse}

	// Forecast metrics.
	ForecastFetchDuration prometheus.Histogram
	ForecastErrors        prometheus.Counter

	// Notification metrics.
	NotificationsScheduled  prometheus.Counter
	NotificationsCancelled  prometheus.Counter
	NotificationsDelivered  prometheus.Counter
	NotificationsSuppressed prometheus.Counter
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.AdvisoriesComputed,
		m.AdvisoriesPublished,
		m.LocationsRejected,
		m.StaleRecomputes,
		m.SensorReadings,
		m.PipelineRunning,
		m.GeocodeRequests,
		m.GeocodeCache,
		m.GeocodeAPIDuration,
		m.ForecastFetchDuration,
		m.ForecastErrors,
		m.NotificationsScheduled,
		m.NotificationsCancelled,
		m.NotificationsDelivered,
		m.NotificationsSuppressed,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		AdvisoriesComputed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "kisanmitra",
			Name:      "advisories_computed_total",
			Help:      "Total advisories computed, including rejections.",
		}),
		AdvisoriesPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "kisanmitra",
			Name:      "advisories_published_total",
			Help:      "Total advisories written to the sink topic.",
		}),
		LocationsRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "kisanmitra",
			Name:      "locations_rejected_total",
			Help:      "Total locations classified as restricted or non-agricultural.",
		}),
		StaleRecomputes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "kisanmitra",
			Name:      "stale_recomputes_total",
			Help:      "Recomputations discarded because the location changed mid-fetch.",
		}),
		SensorReadings: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "kisanmitra",
			Name:      "sensor_readings_total",
			Help:      "Total sensor readings consumed from the source topic.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "kisanmitra",
			Name:      "pipeline_running",
			Help:      "1 when the sensor pipeline is active, 0 when shut down.",
		}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kisanmitra",
			Name:      "geocode_requests_total",
			Help:      "Geocoding API requests by method and outcome.",
		}, []string{"method", "outcome"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kisanmitra",
			Name:      "geocode_cache_total",
			Help:      "Geocoding cache lookups by method and result.",
		}, []string{"method", "result"}),
		GeocodeAPIDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "kisanmitra",
			Name:      "geocode_api_duration_seconds",
			Help:      "Nominatim API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"method"}),
		ForecastFetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "kisanmitra",
			Name:      "forecast_fetch_duration_seconds",
			Help:      "Open-Meteo forecast request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		ForecastErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "kisanmitra",
			Name:      "forecast_errors_total",
			Help:      "Forecast fetch or normalization failures.",
		}),
		NotificationsScheduled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "kisanmitra",
			Name:      "notifications_scheduled_total",
			Help:      "Advisory notifications scheduled.",
		}),
		NotificationsCancelled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "kisanmitra",
			Name:      "notifications_cancelled_total",
			Help:      "Advisory notifications cancelled before firing.",
		}),
		NotificationsDelivered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "kisanmitra",
			Name:      "notifications_delivered_total",
			Help:      "Advisory notifications delivered.",
		}),
		NotificationsSuppressed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "kisanmitra",
			Name:      "notifications_suppressed_total",
			Help:      "Advisory notifications suppressed by denied permission or delivery failure.",
		}),
	}
}
