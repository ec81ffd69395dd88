package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/skywatch-labs/orbit-tracker/internal/config"
	"github.com/skywatch-labs/orbit-tracker/internal/demo"
	"github.com/skywatch-labs/orbit-tracker/internal/elements"
	"github.com/skywatch-labs/orbit-tracker/internal/observability"
	"github.com/skywatch-labs/orbit-tracker/internal/scheduler"
	"github.com/skywatch-labs/orbit-tracker/internal/track"
)

// newTestApp builds an App loaded with the builtin demo fleet, without
// starting the HTTP server or the scheduler loop.
func newTestApp(t *testing.T) *App {
	t.Helper()

	cfg := config.Default()
	cfg.Data.Root = t.TempDir()

	a := New(Options{
		Logger: log.New(io.Discard, "", 0),
		Cfg:    cfg,
	})
	a.elements = elements.NewStore()
	a.elements.Replace(demo.ElementSets(), "builtin")
	a.catalog = demo.Catalog()
	a.state.Store("IDLE")
	return a
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v\nbody: %s", err, rec.Body.String())
	}
	return body
}

func TestHealthzPlain(t *testing.T) {
	a := newTestApp(t)

	rec := httptest.NewRecorder()
	a.handleHealthz(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Body.String(); got != "ok\n" {
		t.Fatalf("body = %q, want %q", got, "ok\n")
	}
}

func TestHealthzDetailed(t *testing.T) {
	a := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	a.handleHealthz(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200\nbody: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["healthy"] != true {
		t.Fatalf("healthy = %v, want true", body["healthy"])
	}
	checks, ok := body["checks"].(map[string]any)
	if !ok {
		t.Fatalf("checks missing: %v", body)
	}
	for _, name := range []string{"data_dir", "elements", "catalog"} {
		if _, ok := checks[name]; !ok {
			t.Errorf("check %q missing", name)
		}
	}
}

func TestHealthzDetailedUnhealthyWithoutElements(t *testing.T) {
	a := newTestApp(t)
	a.elements = elements.NewStore() // empty

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	a.handleHealthz(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["healthy"] != false {
		t.Fatalf("healthy = %v, want false", body["healthy"])
	}
}

func TestStatusReportsDemoMode(t *testing.T) {
	a := newTestApp(t)

	rec := httptest.NewRecorder()
	a.handleStatus(rec, httptest.NewRequest(http.MethodGet, "/api/status", nil))

	body := decodeBody(t, rec)
	if body["name"] != "orbit-tracker" {
		t.Errorf("name = %v", body["name"])
	}
	if body["state"] != "IDLE" {
		t.Errorf("state = %v, want IDLE", body["state"])
	}
	if body["mode"] != "demo" {
		t.Errorf("mode = %v, want demo", body["mode"])
	}
}

func TestVersionEndpoint(t *testing.T) {
	a := newTestApp(t)

	rec := httptest.NewRecorder()
	a.handleVersion(rec, httptest.NewRequest(http.MethodGet, "/api/version", nil))

	body := decodeBody(t, rec)
	if body["version"] != Version {
		t.Errorf("version = %v, want %v", body["version"], Version)
	}
}

func TestFleetEmptyBeforeFirstCycle(t *testing.T) {
	a := newTestApp(t)

	rec := httptest.NewRecorder()
	a.handleFleet(rec, httptest.NewRequest(http.MethodGet, "/api/fleet", nil))

	body := decodeBody(t, rec)
	if body["fleet_size"] != float64(0) {
		t.Fatalf("fleet_size = %v, want 0", body["fleet_size"])
	}
}

func TestFleetAfterPublishedCycle(t *testing.T) {
	a := newTestApp(t)

	sets := a.elements.Snapshot()
	fleet := track.Fuse(context.Background(), sets, a.catalog, sets[0].Epoch, track.FuseOptions{})
	a.publishCycle(scheduler.CycleInfo{
		AsOf:      sets[0].Epoch,
		FleetSize: len(fleet),
	}, fleet)

	rec := httptest.NewRecorder()
	a.handleFleet(rec, httptest.NewRequest(http.MethodGet, "/api/fleet", nil))

	body := decodeBody(t, rec)
	if body["fleet_size"] != float64(len(fleet)) {
		t.Fatalf("fleet_size = %v, want %d", body["fleet_size"], len(fleet))
	}
	objects, ok := body["objects"].([]any)
	if !ok || len(objects) != len(fleet) {
		t.Fatalf("objects = %v", body["objects"])
	}
}

func TestTrackEndpoint(t *testing.T) {
	a := newTestApp(t)

	rec := httptest.NewRecorder()
	a.handleTrack(rec, httptest.NewRequest(http.MethodGet, "/api/track?norad_id=25544&horizon=20&step=4", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d\nbody: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["norad_id"] != float64(25544) {
		t.Errorf("norad_id = %v", body["norad_id"])
	}
	points, ok := body["points"].([]any)
	if !ok {
		t.Fatalf("points missing: %v", body)
	}
	if len(points) != 5 {
		t.Errorf("len(points) = %d, want 5", len(points))
	}
	if body["mission"] != "LEO" {
		t.Errorf("mission = %v, want LEO", body["mission"])
	}
}

func TestTrackEndpointErrors(t *testing.T) {
	a := newTestApp(t)

	cases := []struct {
		name  string
		query string
		want  int
	}{
		{"missing id", "", http.StatusBadRequest},
		{"non-numeric id", "norad_id=iss", http.StatusBadRequest},
		{"unknown id", "norad_id=99999", http.StatusNotFound},
		{"catalog only id", "norad_id=20580", http.StatusNotFound},
		{"zero step", "norad_id=25544&step=0", http.StatusBadRequest},
		{"negative horizon", "norad_id=25544&horizon=-5", http.StatusBadRequest},
		{"non-numeric step", "norad_id=25544&step=fast", http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			a.handleTrack(rec, httptest.NewRequest(http.MethodGet, "/api/track?"+tc.query, nil))
			if rec.Code != tc.want {
				t.Fatalf("status = %d, want %d\nbody: %s", rec.Code, tc.want, rec.Body.String())
			}
		})
	}
}

func TestObjectsMergesBothStores(t *testing.T) {
	a := newTestApp(t)

	rec := httptest.NewRecorder()
	a.handleObjects(rec, httptest.NewRequest(http.MethodGet, "/api/objects", nil))

	body := decodeBody(t, rec)
	if body["catalog_count"] != float64(5) {
		t.Errorf("catalog_count = %v, want 5", body["catalog_count"])
	}
	if body["element_count"] != float64(4) {
		t.Errorf("element_count = %v, want 4", body["element_count"])
	}
	if body["tracked_count"] != float64(4) {
		t.Errorf("tracked_count = %v, want 4", body["tracked_count"])
	}

	objects := body["objects"].([]any)
	var hubble map[string]any
	for _, o := range objects {
		obj := o.(map[string]any)
		if obj["norad_id"] == float64(20580) {
			hubble = obj
		}
	}
	if hubble == nil {
		t.Fatal("NORAD 20580 missing from objects")
	}
	if hubble["in_catalog"] != true || hubble["in_elements"] != false {
		t.Errorf("20580 presence = %v", hubble)
	}
}

func TestLogsLevelAndLimitFilters(t *testing.T) {
	a := newTestApp(t)
	a.appendLog("info", "first")
	a.appendLog("warn", "second")
	a.appendLog("info", "third")

	rec := httptest.NewRecorder()
	a.handleLogs(rec, httptest.NewRequest(http.MethodGet, "/api/logs?level=info&limit=1", nil))

	body := decodeBody(t, rec)
	logs := body["logs"].([]any)
	if len(logs) != 1 {
		t.Fatalf("len(logs) = %d, want 1", len(logs))
	}
	entry := logs[0].(map[string]any)
	if entry["message"] != "third" {
		t.Errorf("message = %v, want third", entry["message"])
	}
}

func TestStatsAccumulate(t *testing.T) {
	a := newTestApp(t)
	a.publishCycle(scheduler.CycleInfo{FleetSize: 4, Degenerate: 1, DurationMS: 10}, nil)
	a.publishCycle(scheduler.CycleInfo{FleetSize: 4, Degenerate: 0, DurationMS: 30}, nil)

	rec := httptest.NewRecorder()
	a.handleStats(rec, httptest.NewRequest(http.MethodGet, "/api/stats", nil))

	body := decodeBody(t, rec)
	if body["total_cycles"] != float64(2) {
		t.Errorf("total_cycles = %v, want 2", body["total_cycles"])
	}
	if body["total_degenerate"] != float64(1) {
		t.Errorf("total_degenerate = %v, want 1", body["total_degenerate"])
	}
	if body["avg_cycle_ms"] != float64(20) {
		t.Errorf("avg_cycle_ms = %v, want 20", body["avg_cycle_ms"])
	}
}

func TestConfigProfilesEndpoint(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("ORBIT_TRACKER_CONFIG_DIR", dir)

	if err := os.WriteFile(filepath.Join(dir, "demo.toml"), []byte("[demo]\nenabled = true\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	a := newTestApp(t)
	rec := httptest.NewRecorder()
	a.handleConfigProfiles(rec, httptest.NewRequest(http.MethodGet, "/api/config-profiles", nil))

	body := decodeBody(t, rec)
	profiles := body["profiles"].([]any)
	if len(profiles) != 1 {
		t.Fatalf("len(profiles) = %d, want 1", len(profiles))
	}
	p := profiles[0].(map[string]any)
	if p["name"] != "demo" || p["valid"] != true {
		t.Errorf("profile = %v", p)
	}
}

func TestControlEndpointsRequirePost(t *testing.T) {
	a := newTestApp(t)

	handlers := map[string]http.HandlerFunc{
		"/api/refresh": a.handleRefresh,
		"/api/cycle":   a.handleCycle,
		"/api/pause":   a.handlePause,
		"/api/resume":  a.handleResume,
		"/api/reload":  a.handleReload,
	}
	for path, h := range handlers {
		rec := httptest.NewRecorder()
		h(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("%s GET status = %d, want 405", path, rec.Code)
		}
	}
}

func TestPauseCommandRoundTrip(t *testing.T) {
	a := newTestApp(t)
	metrics, err := observability.NewCycleCollector(prometheus.NewRegistry())
	if err != nil {
		t.Fatal(err)
	}
	a.scheduler = scheduler.New(a.wsHub, a.getConfig(), a.log, a.elements, a.catalog, nil, metrics)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		a.scheduler.Run(ctx, func(string) {})
		close(done)
	}()

	rec := httptest.NewRecorder()
	a.handlePause(rec, httptest.NewRequest(http.MethodPost, "/api/pause", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d\nbody: %s", rec.Code, rec.Body.String())
	}
	if !a.scheduler.IsPaused() {
		t.Fatal("scheduler not paused after /api/pause")
	}

	rec = httptest.NewRecorder()
	a.handleResume(rec, httptest.NewRequest(http.MethodPost, "/api/resume", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d\nbody: %s", rec.Code, rec.Body.String())
	}
	if a.scheduler.IsPaused() {
		t.Fatal("scheduler still paused after /api/resume")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop after cancel")
	}
}

func TestReloadSwapsConfig(t *testing.T) {
	a := newTestApp(t)

	path := filepath.Join(t.TempDir(), "trackd.toml")
	content := "[demo]\nenabled = true\n\n[tracking]\ncycle_seconds = 42\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	a.configPath = path

	rec := httptest.NewRecorder()
	a.handleReload(rec, httptest.NewRequest(http.MethodPost, "/api/reload", bytes.NewReader(nil)))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d\nbody: %s", rec.Code, rec.Body.String())
	}
	if got := a.getConfig().Tracking.CycleSeconds; got != 42 {
		t.Fatalf("cycle_seconds after reload = %d, want 42", got)
	}
}

func TestReloadRejectsBadProfileName(t *testing.T) {
	a := newTestApp(t)

	body := bytes.NewReader([]byte(`{"profile": "../etc/passwd"}`))
	rec := httptest.NewRecorder()
	a.handleReload(rec, httptest.NewRequest(http.MethodPost, "/api/reload", body))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400\nbody: %s", rec.Code, rec.Body.String())
	}
}
