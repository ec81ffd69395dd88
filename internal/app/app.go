// Package app wires together the HTTP server, WebSocket hub, and the
// tracking scheduler. It owns the daemon's lifecycle, the fused fleet
// snapshot served to clients, and is the single source of truth for the
// current operating state.
package app

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/skywatch-labs/orbit-tracker/internal/catalog"
	"github.com/skywatch-labs/orbit-tracker/internal/config"
	"github.com/skywatch-labs/orbit-tracker/internal/demo"
	"github.com/skywatch-labs/orbit-tracker/internal/elements"
	"github.com/skywatch-labs/orbit-tracker/internal/observability"
	"github.com/skywatch-labs/orbit-tracker/internal/scheduler"
	"github.com/skywatch-labs/orbit-tracker/internal/telemetry"
	"github.com/skywatch-labs/orbit-tracker/internal/track"
	"github.com/skywatch-labs/orbit-tracker/internal/ws"
)

// Options holds everything the App needs from the caller.
type Options struct {
	Logger     *log.Logger
	Cfg        config.Config
	ConfigPath string
	Bind       string
}

// fleetSnapshot is one cycle's published result. Swapped atomically so
// HTTP reads never block the tracking loop.
type fleetSnapshot struct {
	cycle scheduler.CycleInfo
	table []track.LiveState
}

// logEntry is one line of the in-memory log ring served at /api/logs.
type logEntry struct {
	TS      string `json:"ts"`
	Level   string `json:"level"`
	Message string `json:"message"`
}

const logBufMax = 500

// cycleStats accumulates tracking totals for /api/stats.
type cycleStats struct {
	mu              sync.Mutex
	TotalCycles     int64
	TotalDegenerate int64
	TotalDurationMS int64
	LastCycle       *scheduler.CycleInfo
}

// App is the top-level daemon process. It manages the HTTP server, the
// WebSocket event hub, and the tracking scheduler.
type App struct {
	log        *log.Logger
	bind       string
	server     *http.Server
	configPath string

	cfgMu sync.RWMutex
	cfg   config.Config

	startedAt time.Time
	state     atomic.Value // current state string (BOOTING, IDLE, TRACKING)

	wsHub     *ws.Hub
	scheduler *scheduler.Runner
	metrics   *observability.CycleCollector

	elements *elements.Store
	catalog  *catalog.Store
	fetcher  *elements.Fetcher

	fleet atomic.Pointer[fleetSnapshot]

	logBufMu sync.Mutex
	logBuf   []logEntry

	stats cycleStats
}

// New creates an App in the BOOTING state. Call Run to start serving.
func New(opts Options) *App {
	a := &App{
		log:        opts.Logger,
		cfg:        opts.Cfg,
		bind:       opts.Bind,
		configPath: opts.ConfigPath,
		startedAt:  time.Now(),
		wsHub:      ws.NewHub(),
	}
	a.state.Store("BOOTING")
	return a
}

// Run loads the data sources, starts the HTTP server, WebSocket hub,
// heartbeat ticker, and the tracking scheduler. It blocks until the
// context is cancelled or the server returns an error.
func (a *App) Run(ctx context.Context) error {
	cfg := a.getConfig()

	bind := a.bind
	if bind == "" && cfg.Server.Bind != "" {
		bind = cfg.Server.Bind
	}
	if bind == "" {
		bind = "0.0.0.0:8080"
	}

	metrics, err := observability.NewCycleCollector(nil)
	if err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}
	a.metrics = metrics

	a.elements = elements.NewStore()

	var fetch scheduler.FetchFunc
	if cfg.Demo.Enabled {
		a.catalog = demo.Catalog()
		a.elements.Replace(demo.ElementSets(), "builtin")
		a.appendLog("info", "demo mode active, tracking the builtin fleet")
		// A demo refresh re-anchors the builtin orbits at the current time
		// rather than hitting the network.
		fetch = func(bool) ([]*elements.Set, string, error) {
			return demo.ElementSets(), "builtin", nil
		}
	} else {
		cat, err := catalog.Load(cfg.Catalog.Path)
		if err != nil {
			return fmt.Errorf("load catalog %s: %w", cfg.Catalog.Path, err)
		}
		a.catalog = cat
		a.appendLog("info", fmt.Sprintf("catalog loaded: %d records from %s", cat.Len(), cfg.Catalog.Path))

		a.fetcher = elements.NewFetcher(cfg.Elements.URL, cfg.Data.Root, cfg.Elements.RefreshHours, a.log)
		fetch = func(force bool) ([]*elements.Set, string, error) {
			if force {
				return a.fetcher.ForceRefresh()
			}
			return a.fetcher.Fetch()
		}
	}

	a.scheduler = scheduler.New(a.wsHub, cfg, a.log, a.elements, a.catalog, fetch, metrics)
	a.scheduler.SetCycleCallback(a.publishCycle)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", a.handleHealthz)
	mux.HandleFunc("/api/status", a.handleStatus)
	mux.HandleFunc("/api/version", a.handleVersion)
	mux.HandleFunc("/api/fleet", a.handleFleet)
	mux.HandleFunc("/api/track", a.handleTrack)
	mux.HandleFunc("/api/objects", a.handleObjects)
	mux.HandleFunc("/api/catalog", a.handleCatalog)
	mux.HandleFunc("/api/elements-info", a.handleElementsInfo)
	mux.HandleFunc("/api/logs", a.handleLogs)
	mux.HandleFunc("/api/stats", a.handleStats)
	mux.HandleFunc("/api/config", a.handleConfig)
	mux.HandleFunc("/api/config-profiles", a.handleConfigProfiles)
	mux.HandleFunc("/api/system-info", a.handleSystem)
	mux.HandleFunc("/api/refresh", a.handleRefresh)
	mux.HandleFunc("/api/cycle", a.handleCycle)
	mux.HandleFunc("/api/pause", a.handlePause)
	mux.HandleFunc("/api/resume", a.handleResume)
	mux.HandleFunc("/api/reload", a.handleReload)
	mux.Handle("/metrics", metrics.Handler())
	mux.Handle("/ws", a.wsHub.Handler())

	a.server = &http.Server{
		Addr:              bind,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ln, err := net.Listen("tcp", bind)
	if err != nil {
		return err
	}

	a.log.Printf("listening on http://%s", bind)

	go a.wsHub.Run(ctx)
	a.transition("IDLE")
	go a.heartbeatLoop(ctx)
	go a.scheduler.Run(ctx, a.transition)

	go func() {
		<-ctx.Done()
		a.log.Printf("shutdown requested")
		_ = a.server.Shutdown(context.Background())
	}()

	return a.server.Serve(ln)
}

// publishCycle is the scheduler's cycle callback: it swaps in the new
// fleet snapshot and folds the cycle into the running stats.
func (a *App) publishCycle(info scheduler.CycleInfo, fleet []track.LiveState) {
	a.fleet.Store(&fleetSnapshot{cycle: info, table: fleet})

	a.stats.mu.Lock()
	a.stats.TotalCycles++
	a.stats.TotalDegenerate += int64(info.Degenerate)
	a.stats.TotalDurationMS += info.DurationMS
	a.stats.LastCycle = &info
	a.stats.mu.Unlock()
}

// getConfig returns the current config under the read lock; reload may
// swap it at any time.
func (a *App) getConfig() config.Config {
	a.cfgMu.RLock()
	defer a.cfgMu.RUnlock()
	return a.cfg
}

// transition atomically updates the daemon state and broadcasts the change
// to all connected WebSocket clients.
func (a *App) transition(newState string) {
	old := a.state.Load().(string)
	if old == newState {
		return
	}
	a.state.Store(newState)

	a.wsHub.BroadcastJSON(telemetry.StateTransition{
		Event: telemetry.Event{Type: telemetry.EventState, TS: telemetry.NowTS(), Component: "trackd"},
		From:  old,
		To:    newState,
	})
}

// heartbeatLoop sends a periodic heartbeat event so clients can detect
// connectivity and track uptime without polling.
func (a *App) heartbeatLoop(ctx context.Context) {
	t := time.NewTicker(10 * time.Second)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			a.wsHub.BroadcastJSON(telemetry.Heartbeat{
				Event:         telemetry.Event{Type: telemetry.EventHeartbeat, TS: telemetry.NowTS()},
				State:         a.state.Load().(string),
				UptimeSeconds: int64(time.Since(a.startedAt).Seconds()),
			})
		}
	}
}

// appendLog records a line in the log ring, writes it to the process log,
// and broadcasts it to WebSocket clients.
func (a *App) appendLog(level, message string) {
	entry := logEntry{
		TS:      time.Now().UTC().Format(time.RFC3339Nano),
		Level:   level,
		Message: message,
	}

	a.logBufMu.Lock()
	a.logBuf = append(a.logBuf, entry)
	if len(a.logBuf) > logBufMax {
		a.logBuf = a.logBuf[len(a.logBuf)-logBufMax:]
	}
	a.logBufMu.Unlock()

	a.log.Printf("%s: %s", level, message)
	a.wsHub.BroadcastJSON(telemetry.LogLine{
		Event:   telemetry.Event{Type: telemetry.EventLog, TS: entry.TS, Component: "trackd"},
		Level:   level,
		Message: message,
	})
}
