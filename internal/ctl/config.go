package ctl

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Config fetches and displays the daemon's running configuration.
func Config(baseURL string, jsonOutput bool) error {
	baseURL = strings.TrimRight(baseURL, "/")

	// Decode into a generic map to preserve all fields for both display modes.
	var raw json.RawMessage
	if err := getJSON(baseURL, "/api/config", &raw); err != nil {
		return err
	}

	if jsonOutput {
		var v any
		_ = json.Unmarshal(raw, &v)
		return printJSON(v)
	}

	// Decode into ordered sections for human-readable output.
	var cfg struct {
		Data struct {
			Root string `json:"root"`
		} `json:"data"`
		Logging struct {
			Level string `json:"level"`
		} `json:"logging"`
		Server struct {
			Bind string `json:"bind"`
		} `json:"server"`
		Demo struct {
			Enabled bool `json:"enabled"`
		} `json:"demo"`
		Tracking struct {
			CycleSeconds        int     `json:"cycle_seconds"`
			Workers             int     `json:"workers"`
			TrackHorizonMinutes float64 `json:"track_horizon_minutes"`
			TrackStepMinutes    float64 `json:"track_step_minutes"`
		} `json:"tracking"`
		Elements struct {
			URL          string `json:"url"`
			RefreshHours int    `json:"refresh_hours"`
		} `json:"elements"`
		Catalog struct {
			Path string `json:"path"`
		} `json:"catalog"`
	}
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(header("  DAEMON CONFIGURATION"))
	fmt.Println(colorize(dim, "  "+strings.Repeat("─", 50)))

	section := func(name string) {
		fmt.Printf("\n  %s\n", colorize(bold, "["+name+"]"))
	}
	field := func(key string, val any) {
		fmt.Printf("    %-22s %v\n", colorize(dim, key+":"), val)
	}

	section("data")
	field("root", cfg.Data.Root)

	section("logging")
	field("level", cfg.Logging.Level)

	section("server")
	field("bind", cfg.Server.Bind)

	section("demo")
	field("enabled", cfg.Demo.Enabled)

	section("tracking")
	field("cycle_seconds", cfg.Tracking.CycleSeconds)
	field("workers", cfg.Tracking.Workers)
	field("track_horizon_minutes", cfg.Tracking.TrackHorizonMinutes)
	field("track_step_minutes", cfg.Tracking.TrackStepMinutes)

	section("elements")
	field("url", cfg.Elements.URL)
	field("refresh_hours", cfg.Elements.RefreshHours)

	section("catalog")
	field("path", cfg.Catalog.Path)

	fmt.Println()

	return nil
}

// ConfigList shows the named configuration profiles available on the daemon.
func ConfigList(baseURL string, jsonOutput bool) error {
	baseURL = strings.TrimRight(baseURL, "/")

	var resp struct {
		ConfigDir string `json:"config_dir"`
		Profiles  []struct {
			Name  string `json:"name"`
			Path  string `json:"path"`
			Valid bool   `json:"valid"`
			Error string `json:"error"`
		} `json:"profiles"`
	}
	if err := getJSON(baseURL, "/api/config-profiles", &resp); err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(resp)
	}

	fmt.Println()
	fmt.Println(header("  CONFIG PROFILES"))
	fmt.Printf("  %s %s\n", colorize(dim, "Directory:"), resp.ConfigDir)

	if len(resp.Profiles) == 0 {
		fmt.Println(colorize(dim, "  ────────────────────────"))
		fmt.Println("  No profiles found.")
		fmt.Println()
		return nil
	}

	t := newTable("  ", "Name", "Valid", "Detail")
	for _, p := range resp.Profiles {
		valid := "yes"
		detail := p.Path
		if !p.Valid {
			valid = "no"
			detail = p.Error
		}
		t.row(p.Name, valid, detail)
	}
	t.flush()
	fmt.Println()

	return nil
}
