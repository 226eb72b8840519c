package monitor

import (
	"fmt"
	"math"
	"time"
)

// FormatBytes renders a byte count with two decimals in the largest unit
// that keeps the value under 1024, e.g. "1.50 KB".
func FormatBytes(n float64) string {
	for _, unit := range []string{"B", "KB", "MB", "GB"} {
		if n < 1024 {
			return fmt.Sprintf("%.2f %s", n, unit)
		}
		n /= 1024
	}
	return fmt.Sprintf("%.2f TB", n)
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// parseTimestamp accepts RFC 3339 as well as zone-less ISO timestamps,
// which are read as local time.
func parseTimestamp(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range timestampLayouts {
		t, err := time.ParseInLocation(layout, s, time.Local)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
