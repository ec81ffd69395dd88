// Package config handles loading, defaulting, and validation of the Orbit
// Tracker TOML configuration file. Every section maps to a typed struct so
// the rest of the codebase gets strong typing without manual key lookups.
package config

import (
	"errors"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Config is the top-level configuration, mirroring the TOML sections.
type Config struct {
	Data     DataConfig     `toml:"data"     json:"data"`
	Logging  LoggingConfig  `toml:"logging"  json:"logging"`
	Server   ServerConfig   `toml:"server"   json:"server"`
	Demo     DemoConfig     `toml:"demo"     json:"demo"`
	Tracking TrackingConfig `toml:"tracking" json:"tracking"`
	Elements ElementsConfig `toml:"elements" json:"elements"`
	Catalog  CatalogConfig  `toml:"catalog"  json:"catalog"`
}

type DataConfig struct {
	Root string `toml:"root" json:"root"`
}

type LoggingConfig struct {
	Level string `toml:"level" json:"level"`
}

type ServerConfig struct {
	Bind string `toml:"bind" json:"bind"`
}

type DemoConfig struct {
	Enabled bool `toml:"enabled" json:"enabled"`
}

type TrackingConfig struct {
	CycleSeconds        int     `toml:"cycle_seconds"         json:"cycle_seconds"`
	Workers             int     `toml:"workers"               json:"workers"`
	TrackHorizonMinutes float64 `toml:"track_horizon_minutes" json:"track_horizon_minutes"`
	TrackStepMinutes    float64 `toml:"track_step_minutes"    json:"track_step_minutes"`
}

type ElementsConfig struct {
	URL          string `toml:"url"           json:"url"`
	RefreshHours int    `toml:"refresh_hours" json:"refresh_hours"`
}

type CatalogConfig struct {
	Path string `toml:"path" json:"path"`
}

// Default returns a Config populated with sane defaults. Values here are
// used whenever the TOML file omits a field.
func Default() Config {
	return Config{
		Data: DataConfig{
			Root: "/var/lib/orbit-tracker",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Server: ServerConfig{
			Bind: "0.0.0.0:8080",
		},
		Demo: DemoConfig{
			Enabled: true,
		},
		Tracking: TrackingConfig{
			CycleSeconds:        10,
			Workers:             0, // 0 means one worker per CPU
			TrackHorizonMinutes: 100,
			TrackStepMinutes:    4,
		},
		Elements: ElementsConfig{
			URL:          "https://celestrak.org/NORAD/elements/gp.php?GROUP=active&FORMAT=tle",
			RefreshHours: 12,
		},
		Catalog: CatalogConfig{
			Path: "",
		},
	}
}

// Load reads the TOML file at path, layers it on top of the defaults, and
// validates the result. An error is returned if the file can't be read,
// parsed, or if any constraint is violated.
func Load(path string) (Config, error) {
	cfg := Default()

	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := toml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}

	if err := validate(cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func validate(cfg Config) error {
	if cfg.Data.Root == "" {
		return errors.New("data.root must not be empty")
	}
	if cfg.Tracking.CycleSeconds < 1 {
		return errors.New("tracking.cycle_seconds must be >= 1")
	}
	if cfg.Tracking.Workers < 0 {
		return errors.New("tracking.workers must be >= 0")
	}
	if cfg.Tracking.TrackStepMinutes <= 0 {
		return errors.New("tracking.track_step_minutes must be > 0")
	}
	if cfg.Tracking.TrackHorizonMinutes < 0 {
		return errors.New("tracking.track_horizon_minutes must be >= 0")
	}
	if cfg.Elements.RefreshHours < 1 {
		return errors.New("elements.refresh_hours must be >= 1")
	}
	if !cfg.Demo.Enabled && cfg.Catalog.Path == "" {
		return errors.New("catalog.path is required unless demo.enabled is true")
	}
	return nil
}
