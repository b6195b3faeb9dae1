package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/lerban/gw-data-viz/internal/nwis"
)

// Config holds all service settings, populated from environment variables.
// Survey-level settings (study area, parameters, windows) live in the
// survey file, not here.
type Config struct {
	SurveyFile string
	OutputDir  string

	SiteURL         string
	WaterQualityURL string
	LevelsURL       string
	NWISTimeout     time.Duration

	// Kafka export of the enriched observation stream, off unless
	// KAFKA_ENABLED=true.
	KafkaBrokers []string
	KafkaTopic   string
	KafkaEnabled bool

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	WatchInterval   time.Duration
	ShutdownTimeout time.Duration
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parsePositiveDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	nwisTimeout, err := parsePositiveDuration("NWIS_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}

	watchInterval, err := parseWatchInterval()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		SurveyFile: os.Getenv("SURVEY_FILE"),
		OutputDir:  envOrDefault("OUTPUT_DIR", "out"),

		SiteURL:         envOrDefault("NWIS_SITE_URL", nwis.DefaultSitesURL),
		WaterQualityURL: envOrDefault("NWIS_QW_URL", nwis.DefaultWaterQualityURL),
		LevelsURL:       envOrDefault("NWIS_GWLEVELS_URL", nwis.DefaultLevelsURL),
		NWISTimeout:     nwisTimeout,

		KafkaBrokers: parseBrokers(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:   envOrDefault("KAFKA_TOPIC", "water-observations"),
		KafkaEnabled: os.Getenv("KAFKA_ENABLED") == "true",

		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		WatchInterval:   watchInterval,
		ShutdownTimeout: shutdownTimeout,
	}

	if cfg.OutputDir == "" {
		return nil, errors.New("OUTPUT_DIR is required")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}
	if cfg.KafkaEnabled && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_TOPIC is not set")
	}

	return cfg, nil
}

// Endpoints assembles the NWIS service URLs for the fetch client.
func (c *Config) Endpoints() nwis.Endpoints {
	return nwis.Endpoints{
		Sites:        c.SiteURL,
		WaterQuality: c.WaterQualityURL,
		Levels:       c.LevelsURL,
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parsePositiveDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

// parseWatchInterval reads WATCH_INTERVAL; zero means run once and exit.
func parseWatchInterval() (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault("WATCH_INTERVAL", "0"))
	if err != nil || d < 0 {
		return 0, errors.New("invalid WATCH_INTERVAL")
	}
	return d, nil
}

func parseBrokers(s string) []string {
	parts := strings.Split(s, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}
