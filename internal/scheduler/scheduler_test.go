package scheduler

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/skywatch-labs/orbit-tracker/internal/config"
	"github.com/skywatch-labs/orbit-tracker/internal/demo"
	"github.com/skywatch-labs/orbit-tracker/internal/elements"
	"github.com/skywatch-labs/orbit-tracker/internal/observability"
	"github.com/skywatch-labs/orbit-tracker/internal/track"
	"github.com/skywatch-labs/orbit-tracker/internal/ws"
)

func newTestRunner(t *testing.T, fetch FetchFunc) *Runner {
	t.Helper()
	metrics, err := observability.NewCycleCollector(prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("NewCycleCollector: %v", err)
	}
	store := elements.NewStore()
	store.Replace(demo.ElementSets(), "builtin")
	logger := log.New(os.Stderr, "", 0)
	return New(ws.NewHub(), config.Default(), logger, store, demo.Catalog(), fetch, metrics)
}

func TestRunCyclePublishesFleet(t *testing.T) {
	r := newTestRunner(t, nil)

	var gotInfo CycleInfo
	var gotFleet []track.LiveState
	r.SetCycleCallback(func(info CycleInfo, fleet []track.LiveState) {
		gotInfo = info
		gotFleet = fleet
	})

	var states []string
	r.runCycle(context.Background(), func(s string) { states = append(states, s) })

	if len(gotFleet) != 4 {
		t.Fatalf("cycle fused %d objects, want 4", len(gotFleet))
	}
	if gotInfo.FleetSize != 4 || gotInfo.Degenerate != 0 {
		t.Errorf("cycle info = %+v, want fleet 4, degenerate 0", gotInfo)
	}
	if len(states) != 2 || states[0] != "TRACKING" || states[1] != "IDLE" {
		t.Errorf("state transitions = %v, want [TRACKING IDLE]", states)
	}
}

func TestRefreshCommand(t *testing.T) {
	var forced bool
	fetch := func(force bool) ([]*elements.Set, string, error) {
		forced = force
		return demo.ElementSets()[:2], "network", nil
	}
	r := newTestRunner(t, fetch)

	reply := make(chan CommandResult, 1)
	r.handleCommand(context.Background(), Command{Type: "refresh", Reply: reply}, func(string) {})

	res := <-reply
	if !res.OK || res.SetsUpdated != 2 {
		t.Fatalf("refresh result = %+v, want ok with 2 sets", res)
	}
	if !forced {
		t.Error("refresh command should force a network fetch")
	}
	if r.Elements.Len() != 2 {
		t.Errorf("store holds %d sets after refresh, want 2", r.Elements.Len())
	}
}

func TestRefreshCommandWithoutSource(t *testing.T) {
	r := newTestRunner(t, nil)
	reply := make(chan CommandResult, 1)
	r.handleCommand(context.Background(), Command{Type: "refresh", Reply: reply}, func(string) {})
	if res := <-reply; res.OK {
		t.Fatalf("refresh without a fetch source should fail, got %+v", res)
	}
}

func TestCycleCommand(t *testing.T) {
	r := newTestRunner(t, nil)
	var ran bool
	r.SetCycleCallback(func(CycleInfo, []track.LiveState) { ran = true })

	reply := make(chan CommandResult, 1)
	r.handleCommand(context.Background(), Command{Type: "cycle", Reply: reply}, func(string) {})
	if res := <-reply; !res.OK {
		t.Fatalf("cycle command failed: %+v", res)
	}
	if !ran {
		t.Error("cycle command did not run a tracking cycle")
	}
}

func TestPauseResumeCommands(t *testing.T) {
	r := newTestRunner(t, nil)

	reply := make(chan CommandResult, 1)
	r.handleCommand(context.Background(), Command{Type: "pause", Reply: reply}, func(string) {})
	if res := <-reply; !res.OK {
		t.Fatalf("pause failed: %+v", res)
	}
	if !r.IsPaused() {
		t.Fatal("runner not paused after pause command")
	}

	// Pausing twice is not an error.
	r.handleCommand(context.Background(), Command{Type: "pause", Reply: reply}, func(string) {})
	<-reply

	r.handleCommand(context.Background(), Command{Type: "resume", Reply: reply}, func(string) {})
	if res := <-reply; !res.OK {
		t.Fatalf("resume failed: %+v", res)
	}
	if r.IsPaused() {
		t.Fatal("runner still paused after resume command")
	}
}

func TestUnknownCommand(t *testing.T) {
	r := newTestRunner(t, nil)
	reply := make(chan CommandResult, 1)
	r.handleCommand(context.Background(), Command{Type: "selfdestruct", Reply: reply}, func(string) {})
	if res := <-reply; res.OK || res.Error == "" {
		t.Fatalf("unknown command result = %+v, want error", res)
	}
}

func TestRunRespectsCancellation(t *testing.T) {
	r := newTestRunner(t, nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		r.Run(ctx, func(string) {})
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not exit after context cancellation")
	}
}
