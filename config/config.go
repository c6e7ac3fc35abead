// Package config loads runtime settings from a TOML file with environment
// overrides.
package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"
	envconfig "github.com/JeremyLoy/config"
	"github.com/rotisserie/eris"
)

type Config struct {
	Game    GameConfig    `toml:"game"`
	Window  WindowConfig  `toml:"window"`
	Logging LoggingConfig `toml:"logging"`
	Debug   DebugConfig   `toml:"debug"`
	Metrics MetricsConfig `toml:"metrics"`
}

type GameConfig struct {
	RefreshRate int `toml:"refresh_rate"` // ticks per second
}

type WindowConfig struct {
	Title  string `toml:"title"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

type DebugConfig struct {
	Overlay      bool `toml:"overlay"`
	StatsHistory int  `toml:"stats_history"` // samples kept by the performance window
}

type MetricsConfig struct {
	StatsdAddress string   `toml:"statsd_address"` // empty disables statsd
	Namespace     string   `toml:"namespace"`
	Tags          []string `toml:"tags"`
}

// envOverrides holds the settings that can be overridden from the environment.
type envOverrides struct {
	RefreshRate   int    `config:"OBELISK_REFRESH_RATE"`
	LogLevel      string `config:"OBELISK_LOG_LEVEL"`
	LogFormat     string `config:"OBELISK_LOG_FORMAT"`
	DebugOverlay  bool   `config:"OBELISK_DEBUG_OVERLAY"`
	StatsdAddress string `config:"OBELISK_STATSD_ADDRESS"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Game: GameConfig{
			RefreshRate: 60,
		},
		Window: WindowConfig{
			Title:  "Obelisk",
			Width:  1280,
			Height: 720,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Debug: DebugConfig{
			Overlay:      false,
			StatsHistory: 120,
		},
		Metrics: MetricsConfig{
			Namespace: "obelisk",
		},
	}
}

// Load reads path over the defaults, applies environment overrides and
// validates the result. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, eris.Wrapf(err, "read config %s", path)
		}
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, eris.Wrapf(err, "parse config %s", path)
		}
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from OBELISK_* environment variables. Unset
// variables leave the current value alone.
func (c *Config) ApplyEnv() error {
	env := envOverrides{
		RefreshRate:   c.Game.RefreshRate,
		LogLevel:      c.Logging.Level,
		LogFormat:     c.Logging.Format,
		DebugOverlay:  c.Debug.Overlay,
		StatsdAddress: c.Metrics.StatsdAddress,
	}
	if err := envconfig.FromEnv().To(&env); err != nil {
		return eris.Wrap(err, "read environment overrides")
	}

	c.Game.RefreshRate = env.RefreshRate
	c.Logging.Level = env.LogLevel
	c.Logging.Format = env.LogFormat
	c.Debug.Overlay = env.DebugOverlay
	c.Metrics.StatsdAddress = env.StatsdAddress
	return nil
}

// Validate rejects settings the runtime cannot start with.
func (c *Config) Validate() error {
	if c.Game.RefreshRate <= 0 {
		return eris.Errorf("game.refresh_rate must be positive, got %d", c.Game.RefreshRate)
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return eris.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return eris.Errorf("logging.format must be \"json\" or \"console\", got %q", c.Logging.Format)
	}
	if c.Debug.StatsHistory < 0 {
		return eris.Errorf("debug.stats_history must not be negative, got %d", c.Debug.StatsHistory)
	}
	return nil
}

// TickInterval is the wall-clock duration of one tick.
func (c *Config) TickInterval() time.Duration {
	return time.Second / time.Duration(c.Game.RefreshRate)
}
