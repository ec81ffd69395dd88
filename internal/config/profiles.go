package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultConfigDir is the directory scanned for named config profiles.
// Overridable through ORBIT_TRACKER_CONFIG_DIR for development setups.
func DefaultConfigDir() string {
	if dir := os.Getenv("ORBIT_TRACKER_CONFIG_DIR"); dir != "" {
		return dir
	}
	return "/etc/orbit-tracker"
}

// Profile describes one TOML file found in the config directory. Invalid
// files are listed rather than hidden, with the load error attached, so
// a reload attempt can explain why a profile is unusable.
type Profile struct {
	Name  string `json:"name"`
	Path  string `json:"path"`
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

// ListProfiles scans dir for *.toml files and reports each one's
// loadability. A missing directory is not an error; it just means no
// profiles exist yet.
func ListProfiles(dir string) ([]Profile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var profiles []Profile
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".toml") {
			continue
		}
		p := Profile{
			Name: strings.TrimSuffix(e.Name(), ".toml"),
			Path: filepath.Join(dir, e.Name()),
		}
		if _, err := Load(p.Path); err != nil {
			p.Error = err.Error()
		} else {
			p.Valid = true
		}
		profiles = append(profiles, p)
	}

	sort.Slice(profiles, func(i, j int) bool { return profiles[i].Name < profiles[j].Name })
	return profiles, nil
}

// ProfilePath resolves a profile name to its file path inside dir. The
// name must be a bare file name, not a path.
func ProfilePath(dir, name string) (string, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || name != filepath.Base(name) {
		return "", fmt.Errorf("invalid profile name %q", name)
	}
	return filepath.Join(dir, name+".toml"), nil
}
