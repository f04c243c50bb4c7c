package logging

import "time"

// consoleTimeLayout is local wall-clock time; the JSON file keeps RFC 3339.
const consoleTimeLayout = "2006-01-02 15:04:05"

func formatTimestamp(ts time.Time) string {
	if ts.IsZero() {
		return ""
	}
	return ts.Local().Format(consoleTimeLayout)
}
