package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveCycleRecordsMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewCycleCollector(reg)
	if err != nil {
		t.Fatalf("NewCycleCollector: %v", err)
	}

	collector.ObserveCycle(12, 2, 35*time.Millisecond)
	collector.ObserveCycle(11, 0, 20*time.Millisecond)

	if got := testutil.ToFloat64(collector.CyclesTotal); got != 2 {
		t.Errorf("tracking_cycles_total = %v, want 2", got)
	}
	if got := testutil.ToFloat64(collector.FleetSize); got != 11 {
		t.Errorf("tracking_fleet_size = %v, want 11 (last cycle wins)", got)
	}
	if got := testutil.ToFloat64(collector.DegenerateTotal); got != 2 {
		t.Errorf("tracking_degenerate_sets_total = %v, want 2", got)
	}
}

func TestSetStoreSizes(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewCycleCollector(reg)
	if err != nil {
		t.Fatalf("NewCycleCollector: %v", err)
	}

	collector.SetStoreSizes(150, 90)
	if got := testutil.ToFloat64(collector.ElementSets); got != 150 {
		t.Errorf("element_sets_loaded = %v, want 150", got)
	}
	if got := testutil.ToFloat64(collector.CatalogRecords); got != 90 {
		t.Errorf("catalog_records = %v, want 90", got)
	}
}

func TestRegistrationIsIdempotent(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewCycleCollector(reg)
	if err != nil {
		t.Fatalf("first NewCycleCollector: %v", err)
	}
	second, err := NewCycleCollector(reg)
	if err != nil {
		t.Fatalf("second NewCycleCollector: %v", err)
	}

	first.CyclesTotal.Inc()
	second.CyclesTotal.Inc()
	if got := testutil.ToFloat64(first.CyclesTotal); got != 2 {
		t.Errorf("re-registered counter not shared: got %v, want 2", got)
	}
}

func TestMetricsHandlerExposesTrackingMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewCycleCollector(reg)
	if err != nil {
		t.Fatalf("NewCycleCollector: %v", err)
	}
	collector.ObserveCycle(7, 1, 15*time.Millisecond)
	collector.SetStoreSizes(42, 19)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	collector.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("/metrics status = %d, want 200", rr.Code)
	}
	body := rr.Body.String()
	for _, metric := range []string{
		"tracking_cycles_total",
		"tracking_cycle_duration_seconds",
		"tracking_fleet_size",
		"tracking_degenerate_sets_total",
		"element_sets_loaded",
		"catalog_records",
	} {
		if !strings.Contains(body, metric) {
			t.Errorf("expected %q in /metrics output", metric)
		}
	}
}
