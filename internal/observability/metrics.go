// Package observability exposes Prometheus metrics for the tracking loop.
package observability

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// CycleCollector bundles the Prometheus metrics updated after every
// tracking cycle and element refresh.
type CycleCollector struct {
	gatherer prometheus.Gatherer

	CyclesTotal     prometheus.Counter
	CycleDuration   prometheus.Histogram
	FleetSize       prometheus.Gauge
	DegenerateTotal prometheus.Counter
	ElementSets     prometheus.Gauge
	CatalogRecords  prometheus.Gauge
}

// NewCycleCollector registers the tracking metrics against the provided
// registerer, defaulting to the global Prometheus registry when nil.
// Registration is idempotent: an already-registered compatible collector
// is reused rather than treated as an error.
func NewCycleCollector(reg prometheus.Registerer) (*CycleCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	cycles, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tracking_cycles_total",
		Help: "Total number of completed tracking cycles.",
	}), "tracking_cycles_total")
	if err != nil {
		return nil, err
	}

	duration, err := registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "tracking_cycle_duration_seconds",
		Help:    "Wall-clock duration of one tracking cycle.",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5},
	}), "tracking_cycle_duration_seconds")
	if err != nil {
		return nil, err
	}

	fleet, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "tracking_fleet_size",
		Help: "Number of objects in the last fused fleet table.",
	}), "tracking_fleet_size")
	if err != nil {
		return nil, err
	}

	degenerate, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tracking_degenerate_sets_total",
		Help: "Total element sets skipped because their parameters cannot describe a bound orbit.",
	}), "tracking_degenerate_sets_total")
	if err != nil {
		return nil, err
	}

	elementSets, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "element_sets_loaded",
		Help: "Element sets in the current store snapshot.",
	}), "element_sets_loaded")
	if err != nil {
		return nil, err
	}

	catalogRecords, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "catalog_records",
		Help: "Records in the loaded catalog.",
	}), "catalog_records")
	if err != nil {
		return nil, err
	}

	return &CycleCollector{
		gatherer:        gatherer,
		CyclesTotal:     cycles,
		CycleDuration:   duration,
		FleetSize:       fleet,
		DegenerateTotal: degenerate,
		ElementSets:     elementSets,
		CatalogRecords:  catalogRecords,
	}, nil
}

// ObserveCycle records one completed tracking cycle.
func (c *CycleCollector) ObserveCycle(fleetSize, degenerate int, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.CyclesTotal.Inc()
	c.CycleDuration.Observe(elapsed.Seconds())
	c.FleetSize.Set(float64(fleetSize))
	c.DegenerateTotal.Add(float64(degenerate))
}

// SetStoreSizes records the sizes of the two input stores.
func (c *CycleCollector) SetStoreSizes(elementSets, catalogRecords int) {
	if c == nil {
		return
	}
	c.ElementSets.Set(float64(elementSets))
	c.CatalogRecords.Set(float64(catalogRecords))
}

// Handler exposes a ready-to-use /metrics handler.
func (c *CycleCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}

func registerHistogram(reg prometheus.Registerer, hist prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(hist); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return hist, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
