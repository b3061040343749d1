// Package domain contains core business entities and interfaces.
// This is the innermost layer in Clean Architecture - no external dependencies.
package domain

import "time"

// PrefetchRecord is the normalized execution history extracted from a single
// Windows Prefetch (.pf) file. Constructed once per file read and immutable
// afterwards.
type PrefetchRecord struct {
	ExecutableName string
	RunCount       uint32      // always in (0, 10000]
	LastRunTimes   []time.Time // most-recent-first, never empty
	FilePaths      []string    // up to 20 heuristically extracted paths
	VolumeInfo     []VolumeInfo
	Size           uint64
	PrefetchPath   string // source .pf filename
	Hash           string // 8 hex chars from filename, or "Unknown"
	FileCreated    time.Time
	FileModified   time.Time
	Version        uint32 // 17/23/26/30 expected, others accepted with a warning
	Running        bool   // best-effort live process probe
}

// LastRun returns the most recent run time.
func (r *PrefetchRecord) LastRun() time.Time {
	return r.LastRunTimes[0]
}

// VolumeInfo describes a volume referenced by a prefetch file.
type VolumeInfo struct {
	VolumePath   string
	VolumeSerial string // 8 hex digits, or "Unknown"
	CreationTime time.Time
}

// ScanResult is the outcome of scanning a prefetch directory.
type ScanResult struct {
	Records         []PrefetchRecord
	TotalFilesFound int
	ProcessedCount  int
	Note            string // informational, e.g. "no prefetch files found"
}

// BlockDuration is a symbolic study-mode duration.
type BlockDuration string

const (
	Duration10Sec BlockDuration = "10sec"
	Duration12Hr  BlockDuration = "12hr"
	Duration1Day  BlockDuration = "1d"
	Duration2Day  BlockDuration = "2d"
	Duration3Day  BlockDuration = "3d"
	Duration7Day  BlockDuration = "7d"
)

var blockDurations = map[BlockDuration]time.Duration{
	Duration10Sec: 10 * time.Second,
	Duration12Hr:  12 * time.Hour,
	Duration1Day:  24 * time.Hour,
	Duration2Day:  48 * time.Hour,
	Duration3Day:  72 * time.Hour,
	Duration7Day:  7 * 24 * time.Hour,
}

// Interval maps a symbolic duration to its fixed length.
// ok is false for unrecognized symbols.
func (d BlockDuration) Interval() (time.Duration, bool) {
	iv, ok := blockDurations[d]
	return iv, ok
}

// BlockDurations lists the recognized symbolic durations.
func BlockDurations() []BlockDuration {
	return []BlockDuration{
		Duration10Sec, Duration12Hr, Duration1Day,
		Duration2Day, Duration3Day, Duration7Day,
	}
}

// BlockTimer is an active study-mode block. At most one exists per canonical
// domain; the record itself is immutable, it is only added to and removed
// from the registry.
type BlockTimer struct {
	WebsiteURL string // canonical: lowercase, no scheme/www./path
	Duration   BlockDuration
	StartTime  time.Time
	EndTime    time.Time
}

// TimerSnapshot is a point-in-time view of an active timer.
type TimerSnapshot struct {
	BlockTimer
	Remaining      time.Duration
	RemainingHuman string // "{d}d {h}h {m}m {s}s", leading zero units collapsed
}

// ExpiryEvent is broadcast when a study-mode timer fires and the domain is
// automatically unblocked.
type ExpiryEvent struct {
	WebsiteURL string
	EndTime    time.Time
}
