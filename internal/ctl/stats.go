package ctl

import (
	"fmt"
	"strings"
	"time"
)

// Stats shows aggregate tracking statistics from the daemon.
func Stats(baseURL string, jsonOutput bool) error {
	baseURL = strings.TrimRight(baseURL, "/")

	var resp struct {
		TotalCycles     int64 `json:"total_cycles"`
		TotalDegenerate int64 `json:"total_degenerate"`
		AvgCycleMS      int64 `json:"avg_cycle_ms"`
		UptimeSeconds   int64 `json:"uptime_seconds"`
		WSClients       int   `json:"ws_clients"`
		LastCycle       *struct {
			AsOf       string `json:"as_of"`
			FleetSize  int    `json:"fleet_size"`
			Degenerate int    `json:"degenerate"`
			DurationMS int64  `json:"duration_ms"`
		} `json:"last_cycle"`
	}
	if err := getJSON(baseURL, "/api/stats", &resp); err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(resp)
	}

	fmt.Println()
	fmt.Println(header("  TRACKING STATISTICS"))
	fmt.Println("  " + strings.Repeat("─", 42))
	fmt.Printf("  Uptime:            %s\n", formatDuration(time.Duration(resp.UptimeSeconds)*time.Second))
	fmt.Printf("  Total cycles:      %d\n", resp.TotalCycles)
	fmt.Printf("  Degenerate sets:   %d\n", resp.TotalDegenerate)
	if resp.TotalCycles > 0 {
		fmt.Printf("  Avg cycle:         %dms\n", resp.AvgCycleMS)
	}
	fmt.Printf("  WS clients:        %d\n", resp.WSClients)

	if resp.LastCycle != nil {
		fmt.Println()
		fmt.Println(header("  LAST CYCLE"))
		fmt.Printf("  As of:             %s\n", resp.LastCycle.AsOf)
		fmt.Printf("  Fleet size:        %d\n", resp.LastCycle.FleetSize)
		fmt.Printf("  Degenerate:        %d\n", resp.LastCycle.Degenerate)
		fmt.Printf("  Duration:          %dms\n", resp.LastCycle.DurationMS)
	}

	fmt.Println()
	return nil
}
