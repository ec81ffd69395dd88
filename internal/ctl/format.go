// Package ctl implements the client-side commands for trackctl.
// It talks to a running trackd over HTTP and WebSocket and renders the results to the terminal.
package ctl

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// ANSI escape codes for terminal formatting.
const (
	reset  = "\033[0m"
	bold   = "\033[1m"
	dim    = "\033[2m"
	red    = "\033[31m"
	green  = "\033[32m"
	yellow = "\033[33m"
	blue   = "\033[34m"
	cyan   = "\033[36m"
	white  = "\033[37m"
)

// colorEnabled reports whether stdout is a terminal. When output is piped
// or redirected, ANSI escape codes are suppressed.
func colorEnabled() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

// stateColor returns the ANSI color code appropriate for a daemon state.
func stateColor(state string) string {
	if !colorEnabled() {
		return ""
	}
	switch state {
	case "IDLE":
		return green
	case "TRACKING":
		return blue
	case "BOOTING":
		return dim
	default:
		return white
	}
}

// colorize wraps text with an ANSI color sequence.
// Returns the text unchanged when color output is disabled.
func colorize(color, text string) string {
	if !colorEnabled() {
		return text
	}
	return color + text + reset
}

// header returns a bold section header, or plain text when color is off.
func header(title string) string {
	if colorEnabled() {
		return bold + title + reset
	}
	return title
}

// padRight pads s with spaces to reach the given width.
func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// padLeft pads s with spaces on the left to reach the given width.
func padLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}

// formatDuration renders a time.
// Duration as a compact human string like "2h 14m 8s" or "45s".
func formatDuration(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm %ds", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%dm %ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}

// formatBytes renders a byte count as a human-readable string.
func formatBytes(b int64) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/float64(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/float64(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

// progressBar builds a simple ASCII bar of the given width.
// The filled portion is colored green when color output is enabled.
func progressBar(pct, width int) string {
	filled := (pct * width) / 100
	if filled > width {
		filled = width
	}
	empty := width - filled
	if colorEnabled() {
		return green + strings.Repeat("=", filled) + reset + strings.Repeat(" ", empty)
	}
	return strings.Repeat("=", filled) + strings.Repeat(" ", empty)
}

// table accumulates rows and prints them with aligned columns.
// Column widths are computed at flush time from the widest cell.
type table struct {
	indent     string
	headers    []string
	rows       [][]string
	rightAlign map[int]bool
}

// newTable creates a table with the given indent prefix and column headers.
func newTable(indent string, headers ...string) *table {
	return &table{
		indent:     indent,
		headers:    headers,
		rightAlign: make(map[int]bool),
	}
}

// alignRight marks column i as right-aligned.
func (t *table) alignRight(i int) {
	t.rightAlign[i] = true
}

// row appends one row of cells. Missing cells render empty.
func (t *table) row(cells ...string) {
	t.rows = append(t.rows, cells)
}

// flush prints headers, a separator, and all accumulated rows.
func (t *table) flush() {
	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = len(h)
	}
	for _, r := range t.rows {
		for i, c := range r {
			if i < len(widths) && len(c) > widths[i] {
				widths[i] = len(c)
			}
		}
	}

	var head strings.Builder
	head.WriteString(t.indent)
	for i, h := range t.headers {
		if i > 0 {
			head.WriteString("  ")
		}
		head.WriteString(padRight(h, widths[i]))
	}
	fmt.Println(colorize(dim, head.String()))

	total := 0
	for _, w := range widths {
		total += w
	}
	total += 2 * (len(widths) - 1)
	fmt.Println(colorize(dim, t.indent+strings.Repeat("─", total)))

	for _, r := range t.rows {
		var line strings.Builder
		line.WriteString(t.indent)
		for i := range t.headers {
			if i > 0 {
				line.WriteString("  ")
			}
			cell := ""
			if i < len(r) {
				cell = r[i]
			}
			if t.rightAlign[i] {
				line.WriteString(padLeft(cell, widths[i]))
			} else {
				line.WriteString(padRight(cell, widths[i]))
			}
		}
		fmt.Println(strings.TrimRight(line.String(), " "))
	}
}
