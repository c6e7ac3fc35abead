package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "obelisk.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 60, cfg.Game.RefreshRate)
	assert.Equal(t, "Obelisk", cfg.Window.Title)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.False(t, cfg.Debug.Overlay)
	assert.Empty(t, cfg.Metrics.StatsdAddress)
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, time.Second/60, cfg.TickInterval())
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[game]
refresh_rate = 30

[window]
title = "Demo"

[logging]
level = "debug"
format = "json"

[metrics]
statsd_address = "127.0.0.1:8125"
tags = ["env:test"]
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 30, cfg.Game.RefreshRate)
	assert.Equal(t, "Demo", cfg.Window.Title)
	assert.Equal(t, 1280, cfg.Window.Width, "unset keys keep their defaults")
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "127.0.0.1:8125", cfg.Metrics.StatsdAddress)
	assert.Equal(t, "obelisk", cfg.Metrics.Namespace)
	assert.Equal(t, []string{"env:test"}, cfg.Metrics.Tags)
}

func TestLoadWithoutFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().Game, cfg.Game)
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
		assert.ErrorContains(t, err, "read config")
	})

	t.Run("malformed toml", func(t *testing.T) {
		_, err := Load(writeConfig(t, "[game\nrefresh_rate = "))
		assert.ErrorContains(t, err, "parse config")
	})

	t.Run("invalid values", func(t *testing.T) {
		_, err := Load(writeConfig(t, "[game]\nrefresh_rate = 0\n"))
		assert.ErrorContains(t, err, "refresh_rate")

		_, err = Load(writeConfig(t, "[window]\nwidth = -1\n"))
		assert.ErrorContains(t, err, "window size")

		_, err = Load(writeConfig(t, "[logging]\nformat = \"xml\"\n"))
		assert.ErrorContains(t, err, "logging.format")
	})
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("OBELISK_REFRESH_RATE", "144")
	t.Setenv("OBELISK_LOG_LEVEL", "warn")
	t.Setenv("OBELISK_DEBUG_OVERLAY", "true")
	t.Setenv("OBELISK_STATSD_ADDRESS", "localhost:8125")

	path := writeConfig(t, "[game]\nrefresh_rate = 30\n[logging]\nformat = \"json\"\n")
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 144, cfg.Game.RefreshRate, "environment wins over the file")
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format, "unset variables keep file values")
	assert.True(t, cfg.Debug.Overlay)
	assert.Equal(t, "localhost:8125", cfg.Metrics.StatsdAddress)
}

func TestLoadFromEnvInvalid(t *testing.T) {
	t.Setenv("OBELISK_REFRESH_RATE", "fast")

	_, err := Load("")
	assert.Error(t, err)
}
