package ctl

import (
	"fmt"
	"strings"
)

// Catalog lists the mission catalog records from the daemon.
func Catalog(baseURL string, jsonOutput bool) error {
	baseURL = strings.TrimRight(baseURL, "/")

	var resp struct {
		Count   int `json:"count"`
		Records []struct {
			NoradID        int      `json:"norad_id"`
			Name           string   `json:"name"`
			RCS            float64  `json:"rcs"`
			InclinationDeg *float64 `json:"inclination_deg"`
			PeriodMinutes  *float64 `json:"period_minutes"`
		} `json:"records"`
	}
	if err := getJSON(baseURL, "/api/catalog", &resp); err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(resp)
	}

	fmt.Println()
	fmt.Println(header("  MISSION CATALOG"))

	t := newTable("  ", "NORAD", "Name", "RCS", "Inclination", "Period")
	t.alignRight(2)
	t.alignRight(3)
	t.alignRight(4)
	for _, rec := range resp.Records {
		incl := "-"
		if rec.InclinationDeg != nil {
			incl = fmt.Sprintf("%.2f°", *rec.InclinationDeg)
		}
		period := "-"
		if rec.PeriodMinutes != nil {
			period = fmt.Sprintf("%.1f min", *rec.PeriodMinutes)
		}
		t.row(fmt.Sprintf("%d", rec.NoradID), rec.Name, fmt.Sprintf("%.2f", rec.RCS), incl, period)
	}
	t.flush()
	fmt.Println()

	return nil
}
