// Formatting helpers shared by the probes and the renderer.
package sysinfo

import (
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
)

// FormatBytes converts a byte count to a binary-unit string with two
// decimals.
//
// Example: FormatBytes(1536) returns "1.50 KiB"
func FormatBytes(bytes uint64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}

	div, exp := uint64(unit), 0
	for n := bytes / unit; n >= unit && exp < 3; n /= unit {
		div *= unit
		exp++
	}

	units := []string{"KiB", "MiB", "GiB", "TiB"}
	return fmt.Sprintf("%.2f %s", float64(bytes)/float64(div), units[exp])
}

// formatUsage renders used/total in GiB with the rounded percentage, e.g.
// "3.20 GiB / 15.50 GiB (21%)".
func formatUsage(used, total uint64) string {
	const gib = 1024 * 1024 * 1024
	pct := 0.0
	if total > 0 {
		pct = float64(used) / float64(total) * 100
	}
	return fmt.Sprintf("%.2f GiB / %.2f GiB (%.0f%%)",
		float64(used)/gib, float64(total)/gib, pct)
}

// FormatUptime converts a duration into a human-readable uptime string.
//
// Example: "2 days, 5 hours, 30 mins". Minutes are always shown when no
// larger unit is.
func FormatUptime(uptime time.Duration) string {
	days := int(uptime.Hours() / 24)
	hours := int(uptime.Hours()) % 24
	mins := int(uptime.Minutes()) % 60

	var parts []string
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%d day%s", days, plural(days)))
	}
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%d hour%s", hours, plural(hours)))
	}
	if mins > 0 || len(parts) == 0 {
		parts = append(parts, fmt.Sprintf("%d min%s", mins, plural(mins)))
	}

	return strings.Join(parts, ", ")
}

// plural returns "s" if count is not 1.
func plural(count int) string {
	if count != 1 {
		return "s"
	}
	return ""
}

// TruncateString shortens s to at most maxWidth terminal cells, ending in
// "..." when it had to cut.
//
// Example: TruncateString("Hello World", 8) returns "Hello..."
func TruncateString(s string, maxWidth int) string {
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth <= 3 {
		return runewidth.Truncate(s, maxWidth, "")
	}
	return runewidth.Truncate(s, maxWidth, "...")
}
