package domain

import (
	"context"
	"time"
)

// ProcessManager handles OS process queries.
// Implementation: uses gopsutil for cross-platform support.
type ProcessManager interface {
	// FindByName returns PIDs of processes matching the pattern.
	FindByName(pattern string) ([]int, error)

	// IsProcessRunning reports whether a process with the given executable
	// base name is currently running. Failures resolve to false.
	IsProcessRunning(name string) bool
}

// PrivilegeChecker reports whether the current process is elevated.
// Implementation: token elevation on Windows, euid on everything else.
type PrivilegeChecker interface {
	IsElevated() bool
}

// CommandRunner abstracts command execution for testing.
// Callers bound each invocation with a context deadline; a timeout surfaces
// as an ExternalToolFailure error, never a hang.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) error
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
}

// HostsFile is line-oriented access to the OS hosts file. The
// read-modify-write cycle built on top of it is not transactionally
// isolated; the app assumes a single operator.
type HostsFile interface {
	// ReadLines returns the hosts file as ordered lines, without trailing
	// line terminators.
	ReadLines() ([]string, error)

	// WriteLines replaces the hosts file content in place.
	WriteLines(lines []string) error

	// Path returns the underlying file path (for diagnostics).
	Path() string
}

// DNSControl wraps the DNS-related OS commands the blocker issues.
// All of these are best-effort: callers log failures and continue.
type DNSControl interface {
	FlushCache(ctx context.Context) error
	RegisterDNS(ctx context.Context) error
	ReleaseIP(ctx context.Context) error
	RenewIP(ctx context.Context) error
}

// FirewallCleaner removes legacy firewall rules left behind by older
// versions of the app. Best-effort; failures are ignored by callers.
type FirewallCleaner interface {
	// RemoveRulesMatching deletes every rule whose name contains host.
	RemoveRulesMatching(ctx context.Context, host string) error
}

// TimerHandle is a cancellable deferred action.
type TimerHandle interface {
	// Stop cancels the pending action. Returns false if it already fired.
	Stop() bool
}

// Scheduler schedules cancellable delayed tasks and supplies the current
// time, so tests can substitute a deterministic fake clock.
type Scheduler interface {
	Now() time.Time
	AfterFunc(d time.Duration, fn func()) TimerHandle
}

// Notifier broadcasts blocker events to all active UI surfaces.
type Notifier interface {
	// TimerExpired is emitted exactly once per natural timer expiry.
	TimerExpired(ev ExpiryEvent)
}
