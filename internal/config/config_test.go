package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lerban/gw-data-viz/internal/nwis"
)

const defaultBroker = "localhost:9092"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Empty(t, cfg.SurveyFile)
	assert.Equal(t, "out", cfg.OutputDir)
	assert.Equal(t, nwis.DefaultSitesURL, cfg.SiteURL)
	assert.Equal(t, nwis.DefaultWaterQualityURL, cfg.WaterQualityURL)
	assert.Equal(t, nwis.DefaultLevelsURL, cfg.LevelsURL)
	assert.Equal(t, 30*time.Second, cfg.NWISTimeout)
	assert.Equal(t, []string{defaultBroker}, cfg.KafkaBrokers)
	assert.Equal(t, "water-observations", cfg.KafkaTopic)
	assert.False(t, cfg.KafkaEnabled)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, time.Duration(0), cfg.WatchInterval)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("SURVEY_FILE", "survey.yaml")
	t.Setenv("OUTPUT_DIR", "/var/reports")
	t.Setenv("NWIS_SITE_URL", "http://localhost:8000/site/")
	t.Setenv("NWIS_QW_URL", "http://localhost:8000/qwdata")
	t.Setenv("NWIS_GWLEVELS_URL", "http://localhost:8000/gwlevels/")
	t.Setenv("NWIS_TIMEOUT", "5s")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_TOPIC", "custom-observations")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "pretty")
	t.Setenv("WATCH_INTERVAL", "15m")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "survey.yaml", cfg.SurveyFile)
	assert.Equal(t, "/var/reports", cfg.OutputDir)
	assert.Equal(t, "http://localhost:8000/site/", cfg.SiteURL)
	assert.Equal(t, "http://localhost:8000/qwdata", cfg.WaterQualityURL)
	assert.Equal(t, "http://localhost:8000/gwlevels/", cfg.LevelsURL)
	assert.Equal(t, 5*time.Second, cfg.NWISTimeout)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "custom-observations", cfg.KafkaTopic)
	assert.True(t, cfg.KafkaEnabled)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "pretty", cfg.LogFormat)
	assert.Equal(t, 15*time.Minute, cfg.WatchInterval)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
}

func TestLoad_Endpoints(t *testing.T) {
	t.Setenv("NWIS_SITE_URL", "http://localhost:8000/site/")

	cfg, err := Load()
	require.NoError(t, err)

	endpoints := cfg.Endpoints()
	assert.Equal(t, "http://localhost:8000/site/", endpoints.Sites)
	assert.Equal(t, nwis.DefaultWaterQualityURL, endpoints.WaterQuality)
	assert.Equal(t, nwis.DefaultLevelsURL, endpoints.Levels)
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_NegativeShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "-1s")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_InvalidNWISTimeout(t *testing.T) {
	t.Setenv("NWIS_TIMEOUT", "0")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NWIS_TIMEOUT")
}

func TestLoad_InvalidWatchInterval(t *testing.T) {
	t.Setenv("WATCH_INTERVAL", "-5m")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "WATCH_INTERVAL")
}

func TestLoad_ZeroWatchIntervalMeansOneShot(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Zero(t, cfg.WatchInterval)
}

func TestLoad_KafkaEnabledWithoutBrokers(t *testing.T) {
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", " , ")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "KAFKA_BROKERS")
}
