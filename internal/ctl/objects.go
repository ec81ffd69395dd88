package ctl

import (
	"fmt"
	"strings"
)

// Objects lists every known object and which data stores it appears in.
func Objects(baseURL string, jsonOutput bool) error {
	baseURL = strings.TrimRight(baseURL, "/")

	var resp struct {
		CatalogCount int `json:"catalog_count"`
		ElementCount int `json:"element_count"`
		TrackedCount int `json:"tracked_count"`
		Objects      []struct {
			NoradID    int    `json:"norad_id"`
			Name       string `json:"name"`
			InCatalog  bool   `json:"in_catalog"`
			InElements bool   `json:"in_elements"`
		} `json:"objects"`
	}
	if err := getJSON(baseURL, "/api/objects", &resp); err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(resp)
	}

	fmt.Println()
	fmt.Println(header("  KNOWN OBJECTS"))
	fmt.Printf("  %s %d catalog, %d element sets, %d tracked\n",
		colorize(dim, "Counts:"), resp.CatalogCount, resp.ElementCount, resp.TrackedCount)

	yn := func(b bool) string {
		if b {
			return "yes"
		}
		return "no"
	}
	t := newTable("  ", "NORAD", "Name", "Catalog", "Elements", "Tracked")
	for _, o := range resp.Objects {
		t.row(fmt.Sprintf("%d", o.NoradID), o.Name, yn(o.InCatalog), yn(o.InElements), yn(o.InCatalog && o.InElements))
	}
	t.flush()
	fmt.Println()

	return nil
}
