// Package prefetch parses Windows Prefetch (.pf) files into normalized
// execution-history records. Parsing is best-effort: every field falls back
// to a documented default instead of failing the file.
package prefetch

import "time"

// FILETIME counts 100-nanosecond ticks since 1601-01-01 UTC.
const (
	filetimeTicksPerMilli = 10_000
	filetimeEpochDeltaMs  = 11_644_473_600_000

	minPlausibleYear = 1970
	maxPlausibleYear = 2050
)

// FiletimeToTime converts a FILETIME tick count to a wall-clock time.
// Zero ticks, pre-epoch values, and results outside [1970, 2050] are
// rejected as implausible.
func FiletimeToTime(ticks uint64) (time.Time, bool) {
	if ticks == 0 {
		return time.Time{}, false
	}
	ms := int64(ticks/filetimeTicksPerMilli) - filetimeEpochDeltaMs
	if ms < 0 {
		return time.Time{}, false
	}
	t := time.UnixMilli(ms).UTC()
	if y := t.Year(); y < minPlausibleYear || y > maxPlausibleYear {
		return time.Time{}, false
	}
	return t, true
}

// TimeToFiletime converts a wall-clock time to FILETIME ticks, truncated to
// millisecond precision.
func TimeToFiletime(t time.Time) uint64 {
	return uint64(t.UnixMilli()+filetimeEpochDeltaMs) * filetimeTicksPerMilli
}
