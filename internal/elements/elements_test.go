package elements

import (
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

const issName = "ISS (ZARYA)"
const issLine1 = "1 25544U 98067A   25138.37048074  .00007749  00000+0  14567-3 0  9994"
const issLine2 = "2 25544  51.6369  94.7823 0002558 120.7586  15.7840 15.49587957510533"

const ssoName = "FLOCK 3P-3"
const ssoLine1 = "1 43744U 18096AB  19115.19815699  .00002003  00000-0  78676-4 0  9994"
const ssoLine2 = "2 43744  97.4641 185.2907 0018688 163.4737 196.7173 15.26755683 22421"

func TestParseSetsBulk(t *testing.T) {
	raw := issName + "\n" + issLine1 + "\n" + issLine2 + "\n" +
		ssoName + "\n" + ssoLine1 + "\n" + ssoLine2 + "\n"

	sets := ParseSets(raw, nil)
	if len(sets) != 2 {
		t.Fatalf("ParseSets returned %d sets, want 2", len(sets))
	}
	if sets[0].NoradID != 25544 || sets[0].Name != issName {
		t.Errorf("first set = %d %q, want 25544 %q", sets[0].NoradID, sets[0].Name, issName)
	}
	if sets[1].NoradID != 43744 {
		t.Errorf("second set NORAD ID = %d, want 43744", sets[1].NoradID)
	}
	if math.Abs(sets[0].InclinationDeg()-51.6369) > 1e-4 {
		t.Errorf("ISS inclination = %v, want 51.6369", sets[0].InclinationDeg())
	}
}

func TestParseSetsSkipsBadEntries(t *testing.T) {
	// Second entry has a truncated line 2 and must be dropped.
	raw := issName + "\n" + issLine1 + "\n" + issLine2 + "\n" +
		"BROKEN SAT\n" + ssoLine1 + "\n" + ssoLine2[:40] + "\n"

	sets := ParseSets(raw, nil)
	if len(sets) != 1 {
		t.Fatalf("ParseSets returned %d sets, want 1", len(sets))
	}
	if sets[0].NoradID != 25544 {
		t.Errorf("surviving set NORAD ID = %d, want 25544", sets[0].NoradID)
	}
}

func TestParseSetsBareTwoLine(t *testing.T) {
	sets := ParseSets(issLine1+"\n"+issLine2+"\n", nil)
	if len(sets) != 1 {
		t.Fatalf("ParseSets returned %d sets, want 1", len(sets))
	}
	if sets[0].Name != "" {
		t.Errorf("bare entry name = %q, want empty", sets[0].Name)
	}
}

func TestParseSetsWindowsLineEndings(t *testing.T) {
	raw := issName + "\r\n" + issLine1 + "\r\n" + issLine2 + "\r\n"
	sets := ParseSets(raw, nil)
	if len(sets) != 1 {
		t.Fatalf("ParseSets returned %d sets, want 1", len(sets))
	}
}

func TestFormatSetsRoundTrip(t *testing.T) {
	raw := issName + "\n" + issLine1 + "\n" + issLine2 + "\n"
	first := ParseSets(raw, nil)
	second := ParseSets(FormatSets(first), nil)
	if len(second) != 1 || second[0].NoradID != 25544 || second[0].Name != issName {
		t.Fatalf("round trip lost data: %+v", second)
	}
}

func TestSetEpoch(t *testing.T) {
	sets := ParseSets(issLine1+"\n"+issLine2, nil)
	if len(sets) != 1 {
		t.Fatal("parse failed")
	}
	// Epoch day 138.37048074 of 2025.
	want := time.Date(2025, 5, 18, 0, 0, 0, 0, time.UTC).
		Add(time.Duration(0.37048074 * 24 * float64(time.Hour)))
	if d := sets[0].Epoch.Sub(want); d > time.Second || d < -time.Second {
		t.Errorf("epoch = %v, want within 1s of %v", sets[0].Epoch, want)
	}
}

func TestNewSetEpochRoundTrip(t *testing.T) {
	epoch := time.Date(2025, 3, 15, 12, 30, 0, 0, time.UTC)
	s := New(90001, "SYNTH", epoch, Elements{
		MeanMotionRevPerDay: 15.0,
		Eccentricity:        0.001,
		InclinationDeg:      51.6,
	})
	if d := s.Epoch.Sub(epoch); d > time.Millisecond || d < -time.Millisecond {
		t.Errorf("constructed epoch = %v, want %v", s.Epoch, epoch)
	}
}

func TestPeriodMinutes(t *testing.T) {
	tests := []struct {
		meanMotion float64
		want       float64
	}{
		{15.0, 96.0},
		{1.0027, 1440.0 / 1.0027},
		{0, math.NaN()},
	}
	for _, tt := range tests {
		s := New(1, "X", time.Now(), Elements{MeanMotionRevPerDay: tt.meanMotion})
		got := s.PeriodMinutes()
		if math.IsNaN(tt.want) {
			if !math.IsNaN(got) {
				t.Errorf("PeriodMinutes(%v) = %v, want NaN", tt.meanMotion, got)
			}
			continue
		}
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("PeriodMinutes(%v) = %v, want %v", tt.meanMotion, got, tt.want)
		}
	}
}

func TestStoreReplaceDedupesAndSorts(t *testing.T) {
	st := NewStore()
	a := New(300, "A", time.Now(), Elements{MeanMotionRevPerDay: 15})
	b := New(100, "B", time.Now(), Elements{MeanMotionRevPerDay: 15})
	b2 := New(100, "B-NEWER", time.Now(), Elements{MeanMotionRevPerDay: 15})
	st.Replace([]*Set{a, b, b2}, "test")

	snap := st.Snapshot()
	if len(snap) != 2 {
		t.Fatalf("snapshot has %d sets, want 2", len(snap))
	}
	if snap[0].NoradID != 100 || snap[1].NoradID != 300 {
		t.Errorf("snapshot order = [%d %d], want [100 300]", snap[0].NoradID, snap[1].NoradID)
	}
	if got := st.Get(100); got == nil || got.Name != "B-NEWER" {
		t.Errorf("Get(100) = %+v, want last duplicate to win", got)
	}
	if st.Get(999) != nil {
		t.Error("Get(999) should be nil for an absent ID")
	}
}

func TestStoreEpochRange(t *testing.T) {
	st := NewStore()
	if _, _, ok := st.EpochRange(); ok {
		t.Error("EpochRange on empty store should report ok=false")
	}

	t1 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	t2 := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	st.Replace([]*Set{
		New(1, "OLD", t1, Elements{MeanMotionRevPerDay: 15}),
		New(2, "NEW", t2, Elements{MeanMotionRevPerDay: 15}),
	}, "test")

	oldest, newest, ok := st.EpochRange()
	if !ok {
		t.Fatal("EpochRange reported ok=false on populated store")
	}
	if !oldest.Before(newest) {
		t.Errorf("oldest %v should precede newest %v", oldest, newest)
	}
}

func TestFetcherTiers(t *testing.T) {
	body := issName + "\n" + issLine1 + "\n" + issLine2 + "\n"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, body)
	}))

	dir := t.TempDir()
	f := NewFetcher(srv.URL, dir, 24, nil)

	sets, source, err := f.Fetch()
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if source != "network" || len(sets) != 1 {
		t.Fatalf("first fetch = %d sets from %q, want 1 from network", len(sets), source)
	}
	if _, err := os.Stat(filepath.Join(dir, cacheFile)); err != nil {
		t.Fatalf("cache file not written: %v", err)
	}

	// Server gone, cache still fresh.
	srv.Close()
	if _, source, err = f.Fetch(); err != nil || source != "cache" {
		t.Fatalf("second fetch = source %q err %v, want fresh cache", source, err)
	}

	// Cache considered stale, network down: stale cache still serves.
	stale := NewFetcher(srv.URL, dir, 0, nil)
	if _, source, err = stale.Fetch(); err != nil || source != "stale-cache" {
		t.Fatalf("stale fetch = source %q err %v, want stale-cache", source, err)
	}

	// No cache at all and no network: builtin data is the last resort.
	last := NewFetcher("http://127.0.0.1:0/elements", t.TempDir(), 1, nil)
	sets, source, err = last.Fetch()
	if err != nil {
		t.Fatalf("builtin fetch: %v", err)
	}
	if source != "builtin" || len(sets) == 0 {
		t.Fatalf("builtin fetch = %d sets from %q, want builtin data", len(sets), source)
	}
}

func TestBuiltinSets(t *testing.T) {
	sets := BuiltinSets()
	if len(sets) != 4 {
		t.Fatalf("BuiltinSets returned %d sets, want 4", len(sets))
	}
	ids := map[int]bool{}
	for _, s := range sets {
		ids[s.NoradID] = true
	}
	for _, want := range []int{25544, 43744, 43774, 41866} {
		if !ids[want] {
			t.Errorf("builtin data missing NORAD ID %d", want)
		}
	}
}
