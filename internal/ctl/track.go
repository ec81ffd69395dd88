package ctl

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// TrackOptions configures the track command.
type TrackOptions struct {
	NoradID        int
	HorizonMinutes float64
	StepMinutes    float64
	JSON           bool
}

// Track fetches the predicted ground track for one object and prints it.
func Track(baseURL string, opts TrackOptions) error {
	baseURL = strings.TrimRight(baseURL, "/")

	params := url.Values{}
	params.Set("norad_id", strconv.Itoa(opts.NoradID))
	if opts.HorizonMinutes > 0 {
		params.Set("horizon", strconv.FormatFloat(opts.HorizonMinutes, 'f', -1, 64))
	}
	if opts.StepMinutes > 0 {
		params.Set("step", strconv.FormatFloat(opts.StepMinutes, 'f', -1, 64))
	}
	path := "/api/track?" + params.Encode()

	var resp struct {
		NoradID        int     `json:"norad_id"`
		Name           string  `json:"name"`
		Mission        string  `json:"mission"`
		Start          string  `json:"start"`
		HorizonMinutes float64 `json:"horizon_minutes"`
		StepMinutes    float64 `json:"step_minutes"`
		Points         []struct {
			Lat float64 `json:"lat"`
			Lon float64 `json:"lon"`
		} `json:"points"`
	}

	// Ground track sampling propagates the orbit point by point, so give
	// the daemon more time than the default client.
	if err := getJSONSlow(baseURL, path, &resp); err != nil {
		return err
	}

	if opts.JSON {
		return printJSON(resp)
	}

	start := resp.Start
	if t, err := time.Parse(time.RFC3339Nano, resp.Start); err == nil {
		start = t.Local().Format("2006-01-02 15:04:05 MST")
	}

	fmt.Println()
	fmt.Println(header("  GROUND TRACK"))
	fmt.Println(colorize(dim, "  "+strings.Repeat("─", 46)))
	fmt.Printf("  %-10s %s (NORAD %d)\n", colorize(dim, "Object:"), colorize(bold, resp.Name), resp.NoradID)
	fmt.Printf("  %-10s %s\n", colorize(dim, "Mission:"), resp.Mission)
	fmt.Printf("  %-10s %s\n", colorize(dim, "Start:"), start)
	fmt.Printf("  %-10s %.0f min, every %.0f min (%d points)\n",
		colorize(dim, "Window:"), resp.HorizonMinutes, resp.StepMinutes, len(resp.Points))
	fmt.Println()

	if len(resp.Points) == 0 {
		fmt.Println(colorize(dim, "  No sample points in this window."))
		fmt.Println()
		return nil
	}

	t := newTable("  ", "T+min", "Lat", "Lon")
	t.alignRight(0)
	t.alignRight(1)
	t.alignRight(2)
	for i, p := range resp.Points {
		t.row(
			fmt.Sprintf("%.0f", float64(i)*resp.StepMinutes),
			fmt.Sprintf("%+.3f°", p.Lat),
			fmt.Sprintf("%+.3f°", p.Lon),
		)
	}
	t.flush()
	fmt.Println()

	return nil
}
