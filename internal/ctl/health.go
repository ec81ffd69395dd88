package ctl

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Health checks daemon liveness via GET /healthz and renders the
// component-level health checks.
func Health(baseURL string, jsonOutput bool) error {
	baseURL = strings.TrimRight(baseURL, "/")

	req, err := http.NewRequest(http.MethodGet, baseURL+"/healthz", nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := httpClient.Do(req)
	if err != nil {
		if jsonOutput {
			return printJSON(map[string]any{"healthy": false, "url": baseURL, "error": err.Error()})
		}
		fmt.Printf("\n  %s  trackd is unreachable at %s: %v\n\n", colorize(red, "UNHEALTHY"), colorize(dim, baseURL), err)
		return nil
	}
	defer resp.Body.Close()

	var body struct {
		Healthy bool                       `json:"healthy"`
		Checks  map[string]json.RawMessage `json:"checks"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(map[string]any{"healthy": body.Healthy, "url": baseURL, "checks": body.Checks})
	}

	fmt.Println()
	if body.Healthy {
		fmt.Printf("  %s  trackd is healthy at %s\n", colorize(green, "HEALTHY"), colorize(dim, baseURL))
	} else {
		fmt.Printf("  %s  trackd returned HTTP %d at %s\n", colorize(red, "UNHEALTHY"), resp.StatusCode, colorize(dim, baseURL))
	}

	names := make([]string, 0, len(body.Checks))
	for name := range body.Checks {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		var check struct {
			OK    bool   `json:"ok"`
			Error string `json:"error"`
		}
		if err := json.Unmarshal(body.Checks[name], &check); err != nil {
			continue
		}
		mark := colorize(green, "ok")
		detail := ""
		if !check.OK {
			mark = colorize(red, "fail")
			detail = "  " + colorize(dim, check.Error)
		}
		fmt.Printf("    %-14s %s%s\n", name+":", mark, detail)
	}
	fmt.Println()

	return nil
}
