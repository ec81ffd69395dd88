package ctl

import (
	"fmt"
	"strings"
)

// Refresh forces the daemon to refetch its element sets from upstream.
func Refresh(baseURL string, jsonOutput bool) error {
	baseURL = strings.TrimRight(baseURL, "/")

	var result struct {
		OK          bool   `json:"ok"`
		Message     string `json:"message"`
		Error       string `json:"error"`
		SetsUpdated int    `json:"sets_updated"`
	}
	if err := postJSON(baseURL, "/api/refresh", nil, &result); err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(result)
	}

	if result.OK {
		fmt.Printf("\n  %s  %s\n\n", colorize(green, "REFRESHED"), result.Message)
	} else {
		fmt.Printf("\n  %s  %s\n\n", colorize(red, "ERROR"), result.Error)
	}
	return nil
}

// Cycle runs one tracking cycle immediately, outside the regular cadence.
func Cycle(baseURL string, jsonOutput bool) error {
	return schedulerControl(baseURL, "/api/cycle", "CYCLED", jsonOutput)
}

// Pause pauses the automatic tracking loop on the daemon.
func Pause(baseURL string, jsonOutput bool) error {
	return schedulerControl(baseURL, "/api/pause", "PAUSED", jsonOutput)
}

// Resume resumes the automatic tracking loop on the daemon.
func Resume(baseURL string, jsonOutput bool) error {
	return schedulerControl(baseURL, "/api/resume", "RESUMED", jsonOutput)
}

func schedulerControl(baseURL, path, label string, jsonOutput bool) error {
	baseURL = strings.TrimRight(baseURL, "/")

	var result struct {
		OK      bool   `json:"ok"`
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := postJSON(baseURL, path, nil, &result); err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(result)
	}

	if result.OK {
		fmt.Printf("\n  %s  %s\n\n", colorize(green, label), result.Message)
	} else {
		fmt.Printf("\n  %s  %s\n\n", colorize(red, "ERROR"), result.Error)
	}
	return nil
}
