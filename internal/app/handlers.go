package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"github.com/skywatch-labs/orbit-tracker/internal/config"
	"github.com/skywatch-labs/orbit-tracker/internal/scheduler"
	"github.com/skywatch-labs/orbit-tracker/internal/track"
)

// ---------------------------------------------------------------------------
// Core handlers
// ---------------------------------------------------------------------------

func (a *App) handleHealthz(w http.ResponseWriter, r *http.Request) {
	// If the client asks for JSON, return component-level health checks.
	if r.Header.Get("Accept") == "application/json" {
		a.handleHealthDetailed(w, r)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

func (a *App) handleStatus(w http.ResponseWriter, _ *http.Request) {
	cfg := a.getConfig()

	resp := map[string]any{
		"name":           "orbit-tracker",
		"state":          a.state.Load().(string),
		"uptime_seconds": int64(time.Since(a.startedAt).Seconds()),
		"data_root":      cfg.Data.Root,
		"demo_enabled":   cfg.Demo.Enabled,
	}

	if cfg.Demo.Enabled {
		resp["mode"] = "demo"
	} else {
		resp["mode"] = "live"
	}

	if snap := a.fleet.Load(); snap != nil {
		resp["fleet_size"] = snap.cycle.FleetSize
		resp["last_cycle"] = snap.cycle
	}

	if du := diskUsage(cfg.Data.Root); du != nil {
		resp["disk"] = du
	}

	if a.scheduler != nil {
		resp["paused"] = a.scheduler.IsPaused()
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func (a *App) handleVersion(w http.ResponseWriter, _ *http.Request) {
	resp := map[string]any{
		"version":    Version,
		"go_version": GoVersion,
		"built_at":   BuiltAt,
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

// ---------------------------------------------------------------------------
// Fleet + tracking handlers
// ---------------------------------------------------------------------------

func (a *App) handleFleet(w http.ResponseWriter, _ *http.Request) {
	resp := map[string]any{
		"objects":    []track.LiveState{},
		"fleet_size": 0,
	}
	if snap := a.fleet.Load(); snap != nil {
		resp["objects"] = snap.table
		resp["fleet_size"] = len(snap.table)
		resp["as_of"] = snap.cycle.AsOf.Format(time.RFC3339Nano)
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func (a *App) handleTrack(w http.ResponseWriter, r *http.Request) {
	cfg := a.getConfig()

	noradID, err := strconv.Atoi(r.URL.Query().Get("norad_id"))
	if err != nil {
		jsonError(w, "norad_id parameter required", http.StatusBadRequest)
		return
	}

	horizon := cfg.Tracking.TrackHorizonMinutes
	if s := r.URL.Query().Get("horizon"); s != "" {
		if horizon, err = strconv.ParseFloat(s, 64); err != nil {
			jsonError(w, "invalid horizon: "+s, http.StatusBadRequest)
			return
		}
	}
	step := cfg.Tracking.TrackStepMinutes
	if s := r.URL.Query().Get("step"); s != "" {
		if step, err = strconv.ParseFloat(s, 64); err != nil {
			jsonError(w, "invalid step: "+s, http.StatusBadRequest)
			return
		}
	}

	// Tracking requires the object in both stores, same as the fused table.
	set := a.elements.Get(noradID)
	rec, inCatalog := a.catalog.Get(noradID)
	if set == nil || !inCatalog {
		jsonError(w, fmt.Sprintf("NORAD %d is not tracked (present in catalog: %t, elements: %t)", noradID, inCatalog, set != nil), http.StatusNotFound)
		return
	}

	start := time.Now().UTC()
	points, err := track.SampleTrack(r.Context(), set, start, horizon, step)
	if err != nil {
		var badWindow *track.InvalidSamplingWindowError
		var degen *track.DegenerateElementSetError
		switch {
		case errors.As(err, &badWindow):
			jsonError(w, err.Error(), http.StatusBadRequest)
		case errors.As(err, &degen):
			jsonError(w, err.Error(), http.StatusUnprocessableEntity)
		default:
			jsonError(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"norad_id":        noradID,
		"name":            rec.Name,
		"mission":         track.Classify(rec),
		"start":           start.Format(time.RFC3339Nano),
		"horizon_minutes": horizon,
		"step_minutes":    step,
		"points":          points,
	})
}

func (a *App) handleObjects(w http.ResponseWriter, _ *http.Request) {
	sets := a.elements.Snapshot()
	inElements := make(map[int]bool, len(sets))
	for _, s := range sets {
		inElements[s.NoradID] = true
	}

	type objectInfo struct {
		NoradID    int    `json:"norad_id"`
		Name       string `json:"name"`
		InCatalog  bool   `json:"in_catalog"`
		InElements bool   `json:"in_elements"`
	}

	seen := make(map[int]bool)
	var objects []objectInfo
	for _, rec := range a.catalog.All() {
		seen[rec.NoradID] = true
		objects = append(objects, objectInfo{
			NoradID:    rec.NoradID,
			Name:       rec.Name,
			InCatalog:  true,
			InElements: inElements[rec.NoradID],
		})
	}
	for _, s := range sets {
		if seen[s.NoradID] {
			continue
		}
		objects = append(objects, objectInfo{
			NoradID:    s.NoradID,
			Name:       s.Name,
			InElements: true,
		})
	}

	intersection := 0
	for _, o := range objects {
		if o.InCatalog && o.InElements {
			intersection++
		}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"catalog_count":  a.catalog.Len(),
		"element_count":  len(sets),
		"tracked_count":  intersection,
		"objects":        objects,
	})
}

func (a *App) handleCatalog(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"count":   a.catalog.Len(),
		"records": a.catalog.All(),
	})
}

func (a *App) handleElementsInfo(w http.ResponseWriter, _ *http.Request) {
	loadedAt, source := a.elements.LoadedAt()

	resp := map[string]any{
		"count":  a.elements.Len(),
		"source": source,
	}
	if !loadedAt.IsZero() {
		resp["loaded_at"] = loadedAt.Format(time.RFC3339)
	}
	if oldest, newest, ok := a.elements.EpochRange(); ok {
		resp["oldest_epoch"] = oldest.Format(time.RFC3339)
		resp["newest_epoch"] = newest.Format(time.RFC3339)
	}
	if a.fetcher != nil {
		if age, ok := a.fetcher.CacheInfo(); ok {
			resp["cache_age_s"] = int(age.Seconds())
		} else {
			resp["cache_age_s"] = nil
		}
		resp["url"] = a.getConfig().Elements.URL
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

// ---------------------------------------------------------------------------
// Introspection handlers
// ---------------------------------------------------------------------------

func (a *App) handleLogs(w http.ResponseWriter, r *http.Request) {
	a.logBufMu.Lock()
	entries := make([]logEntry, len(a.logBuf))
	copy(entries, a.logBuf)
	a.logBufMu.Unlock()

	levelFilter := r.URL.Query().Get("level")
	if levelFilter != "" {
		var filtered []logEntry
		for _, e := range entries {
			if e.Level == levelFilter {
				filtered = append(filtered, e)
			}
		}
		entries = filtered
	}

	limitStr := r.URL.Query().Get("limit")
	if limitStr != "" {
		if n, err := strconv.Atoi(limitStr); err == nil && n > 0 && n < len(entries) {
			entries = entries[len(entries)-n:]
		}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"logs": entries})
}

func (a *App) handleStats(w http.ResponseWriter, _ *http.Request) {
	a.stats.mu.Lock()
	resp := map[string]any{
		"total_cycles":     a.stats.TotalCycles,
		"total_degenerate": a.stats.TotalDegenerate,
		"uptime_seconds":   int64(time.Since(a.startedAt).Seconds()),
		"ws_clients":       a.wsHub.ClientCount(),
	}
	if a.stats.TotalCycles > 0 {
		resp["avg_cycle_ms"] = a.stats.TotalDurationMS / a.stats.TotalCycles
	}
	if a.stats.LastCycle != nil {
		resp["last_cycle"] = a.stats.LastCycle
	}
	a.stats.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func (a *App) handleConfig(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(a.getConfig())
}

func (a *App) handleConfigProfiles(w http.ResponseWriter, _ *http.Request) {
	profiles, err := config.ListProfiles(config.DefaultConfigDir())
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if profiles == nil {
		profiles = []config.Profile{}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"config_dir": config.DefaultConfigDir(),
		"profiles":   profiles,
	})
}

func (a *App) handleSystem(w http.ResponseWriter, _ *http.Request) {
	cfg := a.getConfig()

	resp := map[string]any{
		"go_version":    runtime.Version(),
		"os":            runtime.GOOS,
		"arch":          runtime.GOARCH,
		"num_cpu":       runtime.NumCPU(),
		"num_goroutine": runtime.NumGoroutine(),
		"data_root":     cfg.Data.Root,
		"config_dir":    config.DefaultConfigDir(),
	}

	if du := diskUsage(cfg.Data.Root); du != nil {
		resp["disk"] = du
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func (a *App) handleHealthDetailed(w http.ResponseWriter, _ *http.Request) {
	cfg := a.getConfig()

	checks := map[string]any{}
	allOK := true

	// Data directory writable.
	tmpPath := filepath.Join(cfg.Data.Root, ".healthcheck")
	if err := os.WriteFile(tmpPath, []byte("ok"), 0o644); err != nil {
		checks["data_dir"] = map[string]any{"ok": false, "error": err.Error()}
		allOK = false
	} else {
		os.Remove(tmpPath)
		checks["data_dir"] = map[string]any{"ok": true, "path": cfg.Data.Root}
	}

	// Element data loaded and reasonably fresh.
	loadedAt, source := a.elements.LoadedAt()
	if a.elements.Len() == 0 {
		checks["elements"] = map[string]any{"ok": false, "error": "no element sets loaded"}
		allOK = false
	} else if a.fetcher != nil {
		age, hasCache := a.fetcher.CacheInfo()
		maxAge := time.Duration(cfg.Elements.RefreshHours) * time.Hour
		fresh := hasCache && age < maxAge
		if !fresh {
			allOK = false
		}
		checks["elements"] = map[string]any{
			"ok":     fresh,
			"count":  a.elements.Len(),
			"source": source,
			"fresh":  fresh,
		}
	} else {
		checks["elements"] = map[string]any{
			"ok":        true,
			"count":     a.elements.Len(),
			"source":    source,
			"loaded_at": loadedAt.Format(time.RFC3339),
		}
	}

	// Catalog loaded.
	if a.catalog == nil || a.catalog.Len() == 0 {
		checks["catalog"] = map[string]any{"ok": false, "error": "catalog empty"}
		allOK = false
	} else {
		checks["catalog"] = map[string]any{"ok": true, "count": a.catalog.Len()}
	}

	// Config file readable.
	if a.configPath != "" {
		if _, err := os.Stat(a.configPath); err != nil {
			checks["config_file"] = map[string]any{"ok": false, "error": err.Error()}
			allOK = false
		} else {
			checks["config_file"] = map[string]any{"ok": true, "path": a.configPath}
		}
	}

	status := http.StatusOK
	if !allOK {
		status = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"healthy": allOK,
		"checks":  checks,
	})
}

// ---------------------------------------------------------------------------
// Control handlers
// ---------------------------------------------------------------------------

func (a *App) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	result := a.sendSchedulerCommand("refresh", nil)
	writeCommandResult(w, result)
}

func (a *App) handleCycle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	result := a.sendSchedulerCommand("cycle", nil)
	writeCommandResult(w, result)
}

func (a *App) handlePause(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	result := a.sendSchedulerCommand("pause", nil)
	writeCommandResult(w, result)
}

func (a *App) handleResume(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	result := a.sendSchedulerCommand("resume", nil)
	writeCommandResult(w, result)
}

func (a *App) handleReload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Accept optional profile name in body: {"profile": "prod"}
	var body struct {
		Profile string `json:"profile"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)

	loadPath := a.configPath
	if body.Profile != "" {
		candidate, err := config.ProfilePath(config.DefaultConfigDir(), body.Profile)
		if err != nil {
			jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
		if _, err := os.Stat(candidate); err != nil {
			jsonError(w, fmt.Sprintf("profile %q not found at %s", body.Profile, candidate), http.StatusNotFound)
			return
		}
		loadPath = candidate
	}

	if loadPath == "" {
		jsonError(w, "no config file path set", http.StatusInternalServerError)
		return
	}

	newCfg, err := config.Load(loadPath)
	if err != nil {
		jsonError(w, "config reload failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	a.cfgMu.Lock()
	a.cfg = newCfg
	a.configPath = loadPath
	a.cfgMu.Unlock()

	a.appendLog("info", "config reloaded from "+loadPath)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"ok":      true,
		"message": "configuration reloaded from " + loadPath + " (data sources and cycle cadence apply after restart)",
	})
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// sendSchedulerCommand sends a command to the scheduler and waits for the reply.
func (a *App) sendSchedulerCommand(cmdType string, payload json.RawMessage) scheduler.CommandResult {
	reply := make(chan scheduler.CommandResult, 1)
	a.scheduler.Commands <- scheduler.Command{
		Type:    cmdType,
		Payload: payload,
		Reply:   reply,
	}
	return <-reply
}

// jsonError writes a JSON error response.
func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"ok":    false,
		"error": msg,
	})
}

// writeCommandResult writes a scheduler.CommandResult as JSON.
func writeCommandResult(w http.ResponseWriter, result scheduler.CommandResult) {
	w.Header().Set("Content-Type", "application/json")
	if !result.OK {
		w.WriteHeader(http.StatusInternalServerError)
	}
	_ = json.NewEncoder(w).Encode(result)
}
