package ctl

import (
	"fmt"
	"strings"
	"time"
)

// StatusResponse mirrors the JSON returned by GET /api/status.
type StatusResponse struct {
	Name          string `json:"name"`
	State         string `json:"state"`
	Mode          string `json:"mode"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	DataRoot      string `json:"data_root"`
	Paused        bool   `json:"paused"`
	FleetSize     *int   `json:"fleet_size"`
	LastCycle     *struct {
		AsOf       string `json:"as_of"`
		FleetSize  int    `json:"fleet_size"`
		Degenerate int    `json:"degenerate"`
		DurationMS int64  `json:"duration_ms"`
	} `json:"last_cycle"`
}

// Status fetches the daemon status and prints a formatted summary.
func Status(baseURL string, jsonOutput bool) error {
	baseURL = strings.TrimRight(baseURL, "/")

	var s StatusResponse
	if err := getJSON(baseURL, "/api/status", &s); err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(s)
	}

	uptime := formatDuration(time.Duration(s.UptimeSeconds) * time.Second)
	stateStr := colorize(stateColor(s.State), s.State)
	if s.Paused {
		stateStr += " " + colorize(yellow, "(paused)")
	}

	fmt.Println()
	fmt.Println(header("  ORBIT TRACKER STATUS"))
	fmt.Println(colorize(dim, "  "+strings.Repeat("─", 38)))
	fmt.Printf("  %-12s %s\n", colorize(dim, "Daemon:"), s.Name)
	fmt.Printf("  %-12s %s\n", colorize(dim, "State:"), stateStr)
	fmt.Printf("  %-12s %s\n", colorize(dim, "Mode:"), s.Mode)
	fmt.Printf("  %-12s %s\n", colorize(dim, "Uptime:"), uptime)
	fmt.Printf("  %-12s %s\n", colorize(dim, "Data:"), s.DataRoot)
	fmt.Printf("  %-12s %s\n", colorize(dim, "Host:"), baseURL)

	if s.FleetSize != nil {
		fmt.Printf("  %-12s %d objects\n", colorize(dim, "Fleet:"), *s.FleetSize)
	}
	if s.LastCycle != nil {
		fmt.Printf("  %-12s %s (%d objects, %d degenerate, %dms)\n",
			colorize(dim, "Last cycle:"),
			s.LastCycle.AsOf,
			s.LastCycle.FleetSize,
			s.LastCycle.Degenerate,
			s.LastCycle.DurationMS,
		)
	}
	fmt.Println()

	return nil
}
