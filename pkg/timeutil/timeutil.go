// Package timeutil normalizes the heterogeneous timestamp strings reported by
// the detection engine into canonical instants and classifies their recency.
package timeutil

import (
	"fmt"
	"time"
)

// RecentWindow is the window within which a check counts as "recent" for
// dashboard summaries.
const RecentWindow = 30 * 24 * time.Hour

// Accepted timestamp layouts, tried in order. A trailing literal Z is treated
// as UTC offset zero; strings without an offset are interpreted as UTC.
var layouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// Parse converts an ISO-8601 timestamp string into an instant.
// Returns false for empty or unparseable input; it never panics.
func Parse(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}

	for _, layout := range layouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// ParsePtr is Parse for optional fields: it returns nil instead of a zero
// value so absent timestamps stay absent in rendered payloads.
func ParsePtr(raw string) *time.Time {
	t, ok := Parse(raw)
	if !ok {
		return nil
	}
	return &t
}

// IsRecent reports whether the instant falls within RecentWindow of now.
// Instants at or after now are trivially recent.
func IsRecent(t, now time.Time) bool {
	return now.Sub(t) <= RecentWindow
}

// TimeAgo produces a coarse relative label for the instant using the largest
// applicable unit: days, else hours, else minutes, else "just now".
// The zero instant (an unparsed or missing timestamp) yields "unknown".
func TimeAgo(t, now time.Time) string {
	if t.IsZero() {
		return "unknown"
	}

	delta := now.Sub(t)
	switch {
	case delta >= 24*time.Hour:
		return plural(int(delta.Hours())/24, "day")
	case delta >= time.Hour:
		return plural(int(delta.Hours()), "hour")
	case delta >= time.Minute:
		return plural(int(delta.Minutes()), "minute")
	default:
		return "just now"
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
