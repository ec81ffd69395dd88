// Package telemetry defines the typed event structs that flow over the
// WebSocket connection between trackd and its clients.
package telemetry

import "time"

// EventType identifies the kind of WebSocket event.
type EventType string

const (
	EventHeartbeat EventType = "heartbeat"
	EventState     EventType = "state"
	EventProgress  EventType = "progress"
	EventLog       EventType = "log"
	EventCycle     EventType = "cycle"
	EventFleet     EventType = "fleet"
)

// Event is the base envelope shared by every event type. Component names
// the subsystem that produced the event.
type Event struct {
	Type      EventType `json:"type"`
	TS        string    `json:"ts"`
	Component string    `json:"component,omitempty"`
}

// NowTS returns the current UTC time as an RFC 3339 nano string, matching the
// timestamp format used across all events.
func NowTS() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// Heartbeat is sent periodically so clients can detect connectivity and
// monitor daemon uptime.
type Heartbeat struct {
	Event
	State         string `json:"state"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

// StateTransition is emitted whenever the daemon moves between operating
// states (e.g. IDLE -> TRACKING).
type StateTransition struct {
	Event
	From string `json:"from"`
	To   string `json:"to"`
}

// Progress reports incremental completion of a long-running phase like an
// element refresh or a large fusion batch.
type Progress struct {
	Event
	Stage   string  `json:"stage"`
	Percent float64 `json:"percent"`
	Detail  string  `json:"detail"`
}

// LogLine carries a human-readable log message at a severity level.
type LogLine struct {
	Event
	Level   string `json:"level"`
	Message string `json:"message"`
}

// CycleSummary is emitted after every tracking cycle.
type CycleSummary struct {
	Event
	AsOf       string `json:"as_of"`
	FleetSize  int    `json:"fleet_size"`
	Degenerate int    `json:"degenerate"`
	DurationMS int64  `json:"duration_ms"`
}

// FleetPosition is one entry of the compact fleet event, sized for map
// rendering rather than completeness.
type FleetPosition struct {
	NoradID int     `json:"norad_id"`
	Name    string  `json:"name"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	AltKm   float64 `json:"alt_km"`
}

// Fleet carries the whole fused table in compact form.
type Fleet struct {
	Event
	Objects []FleetPosition `json:"objects"`
}
