package elements

import (
	_ "embed"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

//go:embed builtin_tle.txt
var builtinTLE string

const cacheFile = "fleet_tle.txt"

// Fetcher downloads bulk element sets and caches them on disk. It uses a
// tiered fallback strategy: fresh disk cache, network fetch, stale disk
// cache, and finally element data baked into the binary.
type Fetcher struct {
	url      string
	dataRoot string
	maxAge   time.Duration
	logger   *log.Logger
}

// NewFetcher returns a fetcher that pulls element sets from the given URL
// and caches them under dataRoot.
func NewFetcher(url, dataRoot string, refreshHours int, logger *log.Logger) *Fetcher {
	return &Fetcher{
		url:      url,
		dataRoot: dataRoot,
		maxAge:   time.Duration(refreshHours) * time.Hour,
		logger:   logger,
	}
}

// Fetch returns the current element sets along with the source tier that
// supplied them ("cache", "network", "stale-cache", "builtin").
func (f *Fetcher) Fetch() ([]*Set, string, error) {
	cachePath := filepath.Join(f.dataRoot, cacheFile)

	raw, source, err := f.loadOrFetch(cachePath)
	if err != nil {
		return nil, "", err
	}

	sets := ParseSets(raw, f.logger)
	if len(sets) == 0 {
		return nil, "", fmt.Errorf("no element sets parsed from %s data", source)
	}
	return sets, source, nil
}

// ForceRefresh bypasses the fresh-cache tier and goes straight to the
// network, falling back to cache and builtin data on failure.
func (f *Fetcher) ForceRefresh() ([]*Set, string, error) {
	cachePath := filepath.Join(f.dataRoot, cacheFile)

	body, err := f.fetchFromNetwork()
	if err == nil {
		_ = f.writeCache(cachePath, body)
		sets := ParseSets(body, f.logger)
		if len(sets) > 0 {
			return sets, "network", nil
		}
		err = fmt.Errorf("network response contained no parseable element sets")
	}

	if f.logger != nil {
		f.logger.Printf("elements: forced refresh failed, falling back: %v", err)
	}
	return f.Fetch()
}

// CacheInfo reports the cache file's age, or ok=false when no cache
// exists yet.
func (f *Fetcher) CacheInfo() (age time.Duration, ok bool) {
	info, err := os.Stat(filepath.Join(f.dataRoot, cacheFile))
	if err != nil {
		return 0, false
	}
	return time.Since(info.ModTime()), true
}

// loadOrFetch walks the four-tier fallback chain for raw TLE text.
func (f *Fetcher) loadOrFetch(cachePath string) (raw, source string, err error) {
	// Tier 1: fresh disk cache
	info, statErr := os.Stat(cachePath)
	if statErr == nil && time.Since(info.ModTime()) < f.maxAge {
		if b, readErr := os.ReadFile(cachePath); readErr == nil && len(b) > 0 {
			return string(b), "cache", nil
		}
	}

	// Tier 2: network fetch
	body, fetchErr := f.fetchFromNetwork()
	if fetchErr == nil {
		// Cache write failure is non-fatal; we already have the data in memory.
		_ = f.writeCache(cachePath, body)
		return body, "network", nil
	}
	if f.logger != nil {
		f.logger.Printf("elements: network fetch failed: %v", fetchErr)
	}

	// Tier 3: stale disk cache
	if b, readErr := os.ReadFile(cachePath); readErr == nil && len(b) > 0 {
		return string(b), "stale-cache", nil
	}

	// Tier 4: embedded fallback baked into the binary
	if builtinTLE != "" {
		return builtinTLE, "builtin", nil
	}

	return "", "", fmt.Errorf("all element sources exhausted: %w", fetchErr)
}

// fetchFromNetwork downloads the bulk element data from CelesTrak (or
// whatever URL is configured). Times out after 30 seconds.
func (f *Fetcher) fetchFromNetwork() (string, error) {
	if f.url == "" {
		return "", fmt.Errorf("no element source URL configured")
	}

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Get(f.url)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("element fetch returned HTTP %d", resp.StatusCode)
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// writeCache atomically writes data to cachePath via a temp file and
// rename so readers never see a half-written file.
func (f *Fetcher) writeCache(cachePath, data string) error {
	dir := filepath.Dir(cachePath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "tle-*.tmp")
	if err != nil {
		return err
	}

	if _, err := tmp.WriteString(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	return os.Rename(tmp.Name(), cachePath)
}

// BuiltinSets parses the element data embedded in the binary. Used by
// demo mode and as the last fallback tier.
func BuiltinSets() []*Set {
	return ParseSets(builtinTLE, nil)
}
