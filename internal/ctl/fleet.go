package ctl

import (
	"fmt"
	"strings"
	"time"
)

// Fleet lists the live fleet table from the daemon's last tracking cycle.
func Fleet(baseURL string, jsonOutput bool) error {
	baseURL = strings.TrimRight(baseURL, "/")

	var resp struct {
		AsOf      string `json:"as_of"`
		FleetSize int    `json:"fleet_size"`
		Objects   []struct {
			NoradID  int    `json:"norad_id"`
			Name     string `json:"name"`
			Position struct {
				Lat   float64 `json:"lat"`
				Lon   float64 `json:"lon"`
				AltKm float64 `json:"alt_km"`
			} `json:"position"`
			Mission string `json:"mission"`
			Catalog *struct {
				RCS float64 `json:"rcs"`
			} `json:"catalog"`
		} `json:"objects"`
	}
	if err := getJSON(baseURL, "/api/fleet", &resp); err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(resp)
	}

	fmt.Println()
	fmt.Println(header("  LIVE FLEET"))
	if resp.AsOf != "" {
		asOf := resp.AsOf
		if t, err := time.Parse(time.RFC3339Nano, resp.AsOf); err == nil {
			asOf = t.Local().Format("2006-01-02 15:04:05 MST")
		}
		fmt.Printf("  %s %s\n", colorize(dim, "As of:"), asOf)
	}

	if len(resp.Objects) == 0 {
		fmt.Println(colorize(dim, "  ────────────────────────"))
		fmt.Println("  No objects in the fleet yet. Waiting for the first tracking cycle?")
		fmt.Println()
		return nil
	}

	t := newTable("  ", "NORAD", "Name", "Lat", "Lon", "Alt", "Mission", "RCS")
	t.alignRight(2)
	t.alignRight(3)
	t.alignRight(4)
	t.alignRight(7)
	for _, o := range resp.Objects {
		rcs := ""
		if o.Catalog != nil {
			rcs = fmt.Sprintf("%.2f", o.Catalog.RCS)
		}
		t.row(
			fmt.Sprintf("%d", o.NoradID),
			o.Name,
			fmt.Sprintf("%+.3f°", o.Position.Lat),
			fmt.Sprintf("%+.3f°", o.Position.Lon),
			fmt.Sprintf("%.0f km", o.Position.AltKm),
			o.Mission,
			rcs,
		)
	}
	t.flush()
	fmt.Println()

	return nil
}
