package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all service settings, populated from environment variables.
// A .env file in the working directory is loaded first when present.
type Config struct {
	HTTPAddr        string        `envconfig:"HTTP_ADDR" default:":8080"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat       string        `envconfig:"LOG_FORMAT" default:"json"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`

	// Kafka transport for sensor readings and published advisories.
	KafkaBrokers     []string `envconfig:"KAFKA_BROKERS" default:"localhost:9092"`
	KafkaSensorTopic string   `envconfig:"KAFKA_SENSOR_TOPIC" default:"field-sensor-readings"`
	KafkaSinkTopic   string   `envconfig:"KAFKA_SINK_TOPIC" default:"crop-advisories"`
	KafkaGroupID     string   `envconfig:"KAFKA_GROUP_ID" default:"kisanmitra-advisor"`

	// Nominatim geocoding.
	NominatimBaseURL   string        `envconfig:"NOMINATIM_BASE_URL" default:"https://nominatim.openstreetmap.org"`
	NominatimTimeout   time.Duration `envconfig:"NOMINATIM_TIMEOUT" default:"5s"`
	NominatimCacheSize int           `envconfig:"NOMINATIM_CACHE_SIZE" default:"1000"`

	// Open-Meteo forecast.
	OpenMeteoBaseURL string        `envconfig:"OPENMETEO_BASE_URL" default:"https://api.open-meteo.com"`
	OpenMeteoTimeout time.Duration `envconfig:"OPENMETEO_TIMEOUT" default:"10s"`
	ForecastDays     int           `envconfig:"FORECAST_DAYS" default:"7"`

	// Deferred advisory notifications.
	NotifyEnabled bool          `envconfig:"NOTIFY_ENABLED" default:"true"`
	NotifyDelay   time.Duration `envconfig:"NOTIFY_DELAY" default:"120s"`
}

// Load reads configuration from the environment, applying defaults where
// unset, and validates it.
func Load() (*Config, error) {
	// Missing .env is fine; environment variables still apply.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if len(c.KafkaBrokers) == 0 {
		return errors.New("KAFKA_BROKERS is required")
	}
	if c.KafkaSensorTopic == "" {
		return errors.New("KAFKA_SENSOR_TOPIC is required")
	}
	if c.KafkaSinkTopic == "" {
		return errors.New("KAFKA_SINK_TOPIC is required")
	}
	if c.NominatimBaseURL == "" {
		return errors.New("NOMINATIM_BASE_URL is required")
	}
	if c.OpenMeteoBaseURL == "" {
		return errors.New("OPENMETEO_BASE_URL is required")
	}
	if c.NominatimTimeout <= 0 {
		return errors.New("NOMINATIM_TIMEOUT must be positive")
	}
	if c.OpenMeteoTimeout <= 0 {
		return errors.New("OPENMETEO_TIMEOUT must be positive")
	}
	if c.NominatimCacheSize <= 0 {
		return errors.New("NOMINATIM_CACHE_SIZE must be positive")
	}
	if c.ForecastDays <= 0 || c.ForecastDays > 16 {
		return fmt.Errorf("FORECAST_DAYS must be between 1 and 16, got %d", c.ForecastDays)
	}
	if c.NotifyDelay <= 0 {
		return errors.New("NOTIFY_DELAY must be positive")
	}
	return nil
}
