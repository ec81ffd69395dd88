package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	if err := validate(Default()); err != nil {
		t.Fatalf("default config does not validate: %v", err)
	}
}

func TestLoadLayersOverDefaults(t *testing.T) {
	path := writeFile(t, t.TempDir(), "trackd.toml", `
[server]
bind = "127.0.0.1:9090"

[tracking]
cycle_seconds = 5
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Bind != "127.0.0.1:9090" {
		t.Errorf("server.bind = %q, want override", cfg.Server.Bind)
	}
	if cfg.Tracking.CycleSeconds != 5 {
		t.Errorf("tracking.cycle_seconds = %d, want 5", cfg.Tracking.CycleSeconds)
	}
	// Untouched sections keep their defaults.
	if cfg.Tracking.TrackHorizonMinutes != 100 || cfg.Tracking.TrackStepMinutes != 4 {
		t.Errorf("track window defaults lost: %+v", cfg.Tracking)
	}
	if cfg.Elements.RefreshHours != 12 {
		t.Errorf("elements.refresh_hours default lost: %d", cfg.Elements.RefreshHours)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"zero cycle", "[tracking]\ncycle_seconds = 0\n", "cycle_seconds"},
		{"negative workers", "[tracking]\nworkers = -1\n", "workers"},
		{"zero step", "[tracking]\ntrack_step_minutes = 0\n", "track_step_minutes"},
		{"negative horizon", "[tracking]\ntrack_horizon_minutes = -10\n", "track_horizon_minutes"},
		{"zero refresh", "[elements]\nrefresh_hours = 0\n", "refresh_hours"},
		{"no catalog outside demo", "[demo]\nenabled = false\n", "catalog.path"},
		{"empty data root", "[data]\nroot = \"\"\n", "data.root"},
	}

	dir := t.TempDir()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, strings.ReplaceAll(tt.name, " ", "_")+".toml", tt.content)
			if _, err := Load(path); err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Load error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Fatal("Load of a missing file should fail")
	}
}

func TestListProfiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "prod.toml", "[server]\nbind = \"0.0.0.0:80\"\n")
	writeFile(t, dir, "broken.toml", "[tracking]\ncycle_seconds = 0\n")
	writeFile(t, dir, "notes.txt", "not a profile")

	profiles, err := ListProfiles(dir)
	if err != nil {
		t.Fatalf("ListProfiles: %v", err)
	}
	if len(profiles) != 2 {
		t.Fatalf("found %d profiles, want 2", len(profiles))
	}
	if profiles[0].Name != "broken" || profiles[0].Valid {
		t.Errorf("broken profile = %+v, want invalid", profiles[0])
	}
	if profiles[1].Name != "prod" || !profiles[1].Valid {
		t.Errorf("prod profile = %+v, want valid", profiles[1])
	}
}

func TestListProfilesMissingDir(t *testing.T) {
	profiles, err := ListProfiles(filepath.Join(t.TempDir(), "nope"))
	if err != nil || profiles != nil {
		t.Fatalf("missing dir = (%v, %v), want (nil, nil)", profiles, err)
	}
}

func TestProfilePathRejectsTraversal(t *testing.T) {
	for _, name := range []string{"", "../etc", "a/b", `a\b`} {
		if _, err := ProfilePath("/etc/orbit-tracker", name); err == nil {
			t.Errorf("ProfilePath accepted %q", name)
		}
	}
	path, err := ProfilePath("/etc/orbit-tracker", "prod")
	if err != nil || path != "/etc/orbit-tracker/prod.toml" {
		t.Errorf("ProfilePath = (%q, %v)", path, err)
	}
}
