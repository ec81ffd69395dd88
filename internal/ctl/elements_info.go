package ctl

import (
	"fmt"
	"strings"
	"time"
)

// ElementsInfo shows element store status and cache freshness.
func ElementsInfo(baseURL string, jsonOutput bool) error {
	baseURL = strings.TrimRight(baseURL, "/")

	var resp struct {
		Count       int    `json:"count"`
		Source      string `json:"source"`
		LoadedAt    string `json:"loaded_at"`
		OldestEpoch string `json:"oldest_epoch"`
		NewestEpoch string `json:"newest_epoch"`
		CacheAgeS   *int   `json:"cache_age_s"`
		URL         string `json:"url"`
	}
	if err := getJSON(baseURL, "/api/elements-info", &resp); err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(resp)
	}

	fmt.Println()
	fmt.Println(header("  ELEMENT SETS"))
	fmt.Println("  " + strings.Repeat("─", 50))
	fmt.Printf("  Loaded:      %d sets\n", resp.Count)

	source := resp.Source
	switch resp.Source {
	case "network":
		source = colorize(green, "network")
	case "cache":
		source = colorize(green, "cache")
	case "stale-cache":
		source = colorize(yellow, "stale-cache")
	case "builtin":
		source = colorize(yellow, "builtin")
	}
	fmt.Printf("  Source:      %s\n", source)

	if resp.LoadedAt != "" {
		fmt.Printf("  Loaded at:   %s\n", resp.LoadedAt)
	}
	if resp.OldestEpoch != "" {
		fmt.Printf("  Epochs:      %s .. %s\n", resp.OldestEpoch, resp.NewestEpoch)
	}
	if resp.CacheAgeS != nil {
		age := time.Duration(*resp.CacheAgeS) * time.Second
		fmt.Printf("  Cache age:   %s\n", formatDuration(age))
	}
	if resp.URL != "" {
		fmt.Printf("  Upstream:    %s\n", resp.URL)
	}
	fmt.Println()

	return nil
}
