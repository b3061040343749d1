package blocker

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/quietdesk/studyguard/internal/domain"
)

// timerEntry pairs an active timer with its cancellable expiry handle.
type timerEntry struct {
	timer  domain.BlockTimer
	handle domain.TimerHandle
}

// TimerRegistry holds the active study-mode timers, keyed by canonical
// domain. At most one entry per domain. Owned by the Service; tests create
// independent registries instead of sharing a package-level singleton.
// Timer callbacks fire on their own goroutines, hence the mutex.
type TimerRegistry struct {
	mu      sync.Mutex
	entries map[string]timerEntry
}

// NewTimerRegistry creates an empty registry.
func NewTimerRegistry() *TimerRegistry {
	return &TimerRegistry{entries: make(map[string]timerEntry)}
}

// Get returns the timer for host, if one is active.
func (r *TimerRegistry) Get(host string) (domain.BlockTimer, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[host]
	return e.timer, ok
}

// Replace installs a timer for host, stopping any previous entry's handle.
// Last call wins.
func (r *TimerRegistry) Replace(host string, timer domain.BlockTimer, handle domain.TimerHandle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if prev, ok := r.entries[host]; ok {
		prev.handle.Stop()
	}
	r.entries[host] = timerEntry{timer: timer, handle: handle}
}

// RemoveIfCurrent deletes the entry for host only if it still holds the
// given timer. A replaced timer's callback can already be in flight when
// Replace stops its handle; that stale expiry must not evict its successor.
func (r *TimerRegistry) RemoveIfCurrent(host string, timer domain.BlockTimer) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[host]
	if !ok ||
		!e.timer.StartTime.Equal(timer.StartTime) ||
		!e.timer.EndTime.Equal(timer.EndTime) {
		return false
	}
	delete(r.entries, host)
	return true
}

// Remove deletes the entry for host and returns its handle, or false if no
// entry exists.
func (r *TimerRegistry) Remove(host string) (domain.TimerHandle, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[host]
	if !ok {
		return nil, false
	}
	delete(r.entries, host)
	return e.handle, true
}

// Snapshot returns the active timers as of now, purging stale entries whose
// end time has already passed (their handles are stopped as a side effect).
// Results are sorted by domain for deterministic output.
func (r *TimerRegistry) Snapshot(now time.Time) []domain.TimerSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]domain.TimerSnapshot, 0, len(r.entries))
	for host, e := range r.entries {
		remaining := e.timer.EndTime.Sub(now)
		if remaining <= 0 {
			e.handle.Stop()
			delete(r.entries, host)
			continue
		}
		out = append(out, domain.TimerSnapshot{
			BlockTimer:     e.timer,
			Remaining:      remaining,
			RemainingHuman: formatRemaining(remaining),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].WebsiteURL < out[j].WebsiteURL
	})
	return out
}

// formatRemaining renders a duration as "{d}d {h}h {m}m {s}s", dropping
// leading zero units: 90 seconds is "1m 30s", not "0d 0h 1m 30s".
func formatRemaining(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d.Seconds())
	days := total / 86400
	hours := (total % 86400) / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60

	parts := []string{
		fmt.Sprintf("%dd", days),
		fmt.Sprintf("%dh", hours),
		fmt.Sprintf("%dm", minutes),
		fmt.Sprintf("%ds", seconds),
	}
	for len(parts) > 1 && strings.HasPrefix(parts[0], "0") {
		parts = parts[1:]
	}
	return strings.Join(parts, " ")
}
