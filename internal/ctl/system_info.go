package ctl

import (
	"fmt"
	"strings"
)

// SystemInfo shows runtime and host information from the daemon.
func SystemInfo(baseURL string, jsonOutput bool) error {
	baseURL = strings.TrimRight(baseURL, "/")

	var resp struct {
		GoVersion    string `json:"go_version"`
		OS           string `json:"os"`
		Arch         string `json:"arch"`
		NumCPU       int    `json:"num_cpu"`
		NumGoroutine int    `json:"num_goroutine"`
		DataRoot     string `json:"data_root"`
		ConfigDir    string `json:"config_dir"`
		Disk         *struct {
			TotalBytes     uint64 `json:"total_bytes"`
			UsedBytes      uint64 `json:"used_bytes"`
			AvailableBytes uint64 `json:"available_bytes"`
		} `json:"disk"`
	}
	if err := getJSON(baseURL, "/api/system-info", &resp); err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(resp)
	}

	fmt.Println()
	fmt.Println(header("  SYSTEM INFO"))
	fmt.Println("  " + strings.Repeat("─", 50))
	fmt.Printf("  Go version:  %s\n", resp.GoVersion)
	fmt.Printf("  OS/Arch:     %s/%s\n", resp.OS, resp.Arch)
	fmt.Printf("  CPUs:        %d\n", resp.NumCPU)
	fmt.Printf("  Goroutines:  %d\n", resp.NumGoroutine)
	fmt.Printf("  Data root:   %s\n", resp.DataRoot)
	fmt.Printf("  Config dir:  %s\n", resp.ConfigDir)

	if resp.Disk != nil {
		fmt.Printf("  Disk total:  %s\n", formatBytes(int64(resp.Disk.TotalBytes)))
		fmt.Printf("  Disk used:   %s\n", formatBytes(int64(resp.Disk.UsedBytes)))
		fmt.Printf("  Disk avail:  %s\n", formatBytes(int64(resp.Disk.AvailableBytes)))
	}

	fmt.Println()
	return nil
}
