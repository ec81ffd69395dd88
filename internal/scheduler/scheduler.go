// Package scheduler orchestrates the fetch-fuse-publish loop that drives
// the Orbit Tracker daemon. Every cycle it snapshots the element and
// catalog stores, fuses them into the live fleet table, and publishes the
// result to the app layer and the WebSocket hub.
package scheduler

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/skywatch-labs/orbit-tracker/internal/catalog"
	"github.com/skywatch-labs/orbit-tracker/internal/config"
	"github.com/skywatch-labs/orbit-tracker/internal/elements"
	"github.com/skywatch-labs/orbit-tracker/internal/observability"
	"github.com/skywatch-labs/orbit-tracker/internal/telemetry"
	"github.com/skywatch-labs/orbit-tracker/internal/track"
	"github.com/skywatch-labs/orbit-tracker/internal/ws"
)

// CycleInfo summarizes one completed tracking cycle for the app layer.
type CycleInfo struct {
	AsOf       time.Time     `json:"as_of"`
	FleetSize  int           `json:"fleet_size"`
	Degenerate int           `json:"degenerate"`
	Duration   time.Duration `json:"-"`
	DurationMS int64         `json:"duration_ms"`
}

// Command represents an external command sent to the scheduler via its
// Commands channel. The Reply channel receives exactly one result.
type Command struct {
	Type    string
	Payload json.RawMessage
	Reply   chan<- CommandResult
}

// CommandResult is the response sent back through a Command's Reply channel.
type CommandResult struct {
	OK          bool   `json:"ok"`
	Message     string `json:"message,omitempty"`
	Error       string `json:"error,omitempty"`
	SetsUpdated int    `json:"sets_updated,omitempty"`
}

// FetchFunc supplies element sets on demand. force requests a network
// refetch regardless of cache age; the returned string names the source
// tier that served the data.
type FetchFunc func(force bool) ([]*elements.Set, string, error)

// Runner owns the main tracking loop.
type Runner struct {
	Hub *ws.Hub
	Cfg config.Config
	Log *log.Logger

	// Commands receives external commands from HTTP handlers.
	// The scheduler checks this channel during wait periods.
	Commands chan Command

	Elements *elements.Store
	Catalog  *catalog.Store
	Fetch    FetchFunc
	Metrics  *observability.CycleCollector

	paused      atomic.Bool
	lastRefresh time.Time

	// Callback into the app layer with each cycle's results.
	cycleCallback func(CycleInfo, []track.LiveState)
}

// New creates a scheduler over the given stores. fetch may be nil when the
// element store is populated out of band (demo mode refreshes re-anchor
// the builtin fleet instead).
func New(hub *ws.Hub, cfg config.Config, logger *log.Logger, elemStore *elements.Store, cat *catalog.Store, fetch FetchFunc, metrics *observability.CycleCollector) *Runner {
	return &Runner{
		Hub:      hub,
		Cfg:      cfg,
		Log:      logger,
		Commands: make(chan Command, 4),
		Elements: elemStore,
		Catalog:  cat,
		Fetch:    fetch,
		Metrics:  metrics,
	}
}

// SetCycleCallback registers a function called after every tracking cycle
// with the cycle summary and the fused fleet table.
func (r *Runner) SetCycleCallback(fn func(CycleInfo, []track.LiveState)) {
	r.cycleCallback = fn
}

// IsPaused reports whether the cycle loop is paused.
func (r *Runner) IsPaused() bool {
	return r.paused.Load()
}

// Run is the main scheduler loop.
//
// Lifecycle:
//  1. Load element sets (initial fetch, falling through the cache tiers)
//  2. Run one tracking cycle (TRACKING state)
//  3. Refresh element sets when the refresh interval has elapsed
//  4. Sleep for tracking.cycle_seconds, servicing commands, then repeat
func (r *Runner) Run(ctx context.Context, setState func(string)) {
	r.logEvent("info", "scheduler started")

	if r.Elements.Len() == 0 {
		if err := r.refreshElements(false); err != nil {
			r.logEvent("error", "initial element load failed: "+err.Error())
		}
	} else {
		r.lastRefresh = time.Now().UTC()
	}

	cycleDur := time.Duration(r.Cfg.Tracking.CycleSeconds) * time.Second
	refreshDur := time.Duration(r.Cfg.Elements.RefreshHours) * time.Hour

	for {
		if ctx.Err() != nil {
			return
		}

		// If paused, wait until resumed or a command arrives.
		if r.paused.Load() {
			setState("IDLE")
			// Sleep for a very long time; a resume command will interrupt.
			if r.sleepOrCommand(ctx, 24*365*time.Hour, setState) == sleepCancelled {
				return
			}
			continue
		}

		r.runCycle(ctx, setState)

		if r.Fetch != nil && time.Since(r.lastRefresh) >= refreshDur {
			if err := r.refreshElements(false); err != nil {
				r.logEvent("error", "element refresh failed: "+err.Error())
			}
		}

		if r.sleepOrCommand(ctx, cycleDur, setState) == sleepCancelled {
			return
		}
	}
}

// runCycle performs one snapshot-fuse-publish pass.
func (r *Runner) runCycle(ctx context.Context, setState func(string)) {
	setState("TRACKING")
	start := time.Now()
	asOf := start.UTC()

	sets := r.Elements.Snapshot()

	var degenerate atomic.Int64
	fleet := track.Fuse(ctx, sets, r.Catalog, asOf, track.FuseOptions{
		Workers: r.workers(),
		Logf:    r.Log.Printf,
		OnDegenerate: func(*track.DegenerateElementSetError) {
			degenerate.Add(1)
		},
	})

	info := CycleInfo{
		AsOf:       asOf,
		FleetSize:  len(fleet),
		Degenerate: int(degenerate.Load()),
		Duration:   time.Since(start),
		DurationMS: time.Since(start).Milliseconds(),
	}

	r.Metrics.ObserveCycle(info.FleetSize, info.Degenerate, info.Duration)
	r.Metrics.SetStoreSizes(r.Elements.Len(), r.Catalog.Len())

	if r.cycleCallback != nil {
		r.cycleCallback(info, fleet)
	}

	r.Hub.BroadcastJSON(telemetry.CycleSummary{
		Event:      telemetry.Event{Type: telemetry.EventCycle, TS: telemetry.NowTS()},
		AsOf:       asOf.Format(time.RFC3339Nano),
		FleetSize:  info.FleetSize,
		Degenerate: info.Degenerate,
		DurationMS: info.DurationMS,
	})

	objects := make([]telemetry.FleetPosition, len(fleet))
	for i, ls := range fleet {
		objects[i] = telemetry.FleetPosition{
			NoradID: ls.NoradID,
			Name:    ls.Name,
			Lat:     ls.Position.LatDeg,
			Lon:     ls.Position.LonDeg,
			AltKm:   ls.Position.AltKm,
		}
	}
	r.Hub.BroadcastRetainedJSON(telemetry.Fleet{
		Event:   telemetry.Event{Type: telemetry.EventFleet, TS: telemetry.NowTS()},
		Objects: objects,
	})

	setState("IDLE")
}

// refreshElements pulls a new element generation through the fetch chain
// and swaps it into the store.
func (r *Runner) refreshElements(force bool) error {
	if r.Fetch == nil {
		return fmt.Errorf("no element source configured")
	}

	r.Hub.BroadcastJSON(telemetry.Progress{
		Event:   telemetry.Event{Type: telemetry.EventProgress, TS: telemetry.NowTS()},
		Stage:   "refresh",
		Percent: 0,
		Detail:  "fetching element sets",
	})

	sets, source, err := r.Fetch(force)
	if err != nil {
		return err
	}
	r.Elements.Replace(sets, source)
	r.lastRefresh = time.Now().UTC()

	r.Hub.BroadcastJSON(telemetry.Progress{
		Event:   telemetry.Event{Type: telemetry.EventProgress, TS: telemetry.NowTS()},
		Stage:   "refresh",
		Percent: 100,
		Detail:  fmt.Sprintf("%d sets from %s", len(sets), source),
	})

	r.logEvent("info", fmt.Sprintf("loaded %d element sets from %s", len(sets), source))
	return nil
}

func (r *Runner) workers() int {
	if r.Cfg.Tracking.Workers > 0 {
		return r.Cfg.Tracking.Workers
	}
	return runtime.NumCPU()
}

// sleepResult indicates what ended a sleep period.
type sleepResult int

const (
	sleepCompleted   sleepResult = iota // timer expired normally
	sleepCancelled                      // context was cancelled
	sleepInterrupted                    // a command was received and handled
)

// sleepOrCommand blocks for duration d, until ctx is cancelled, or until a
// command arrives on r.Commands. Commands are handled inline. Returns what
// ended the sleep.
func (r *Runner) sleepOrCommand(ctx context.Context, d time.Duration, setState func(string)) sleepResult {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return sleepCancelled
	case <-t.C:
		return sleepCompleted
	case cmd := <-r.Commands:
		r.handleCommand(ctx, cmd, setState)
		return sleepInterrupted
	}
}

// handleCommand dispatches an incoming command to the appropriate handler.
func (r *Runner) handleCommand(ctx context.Context, cmd Command, setState func(string)) {
	switch cmd.Type {
	case "refresh":
		r.handleRefreshCommand(cmd)
	case "cycle":
		r.handleCycleCommand(ctx, cmd, setState)
	case "pause":
		r.handlePauseCommand(cmd)
	case "resume":
		r.handleResumeCommand(cmd)
	default:
		cmd.Reply <- CommandResult{OK: false, Error: "unknown command: " + cmd.Type}
	}
}

// handleRefreshCommand forces an immediate element set refetch.
func (r *Runner) handleRefreshCommand(cmd Command) {
	if err := r.refreshElements(true); err != nil {
		cmd.Reply <- CommandResult{OK: false, Error: "element refresh failed: " + err.Error()}
		return
	}
	n := r.Elements.Len()
	cmd.Reply <- CommandResult{
		OK:          true,
		Message:     fmt.Sprintf("element data refreshed, %d sets loaded", n),
		SetsUpdated: n,
	}
}

// handleCycleCommand runs a tracking cycle immediately, outside the
// regular cadence.
func (r *Runner) handleCycleCommand(ctx context.Context, cmd Command, setState func(string)) {
	r.runCycle(ctx, setState)
	cmd.Reply <- CommandResult{OK: true, Message: "tracking cycle completed"}
}

func (r *Runner) handlePauseCommand(cmd Command) {
	if r.paused.Load() {
		cmd.Reply <- CommandResult{OK: true, Message: "scheduler already paused"}
		return
	}
	r.paused.Store(true)
	r.logEvent("info", "scheduler paused by user")
	cmd.Reply <- CommandResult{OK: true, Message: "scheduler paused"}
}

func (r *Runner) handleResumeCommand(cmd Command) {
	if !r.paused.Load() {
		cmd.Reply <- CommandResult{OK: true, Message: "scheduler already running"}
		return
	}
	r.paused.Store(false)
	r.logEvent("info", "scheduler resumed by user")
	cmd.Reply <- CommandResult{OK: true, Message: "scheduler resumed"}
}

func (r *Runner) logEvent(level, message string) {
	r.Hub.BroadcastJSON(telemetry.LogLine{
		Event:   telemetry.Event{Type: telemetry.EventLog, TS: telemetry.NowTS(), Component: "scheduler"},
		Level:   level,
		Message: message,
	})
}
