package infra

import (
	"time"

	"github.com/quietdesk/studyguard/internal/domain"
)

// RealScheduler implements domain.Scheduler with wall-clock timers.
type RealScheduler struct{}

// NewScheduler creates the real scheduler.
func NewScheduler() domain.Scheduler {
	return &RealScheduler{}
}

// Now returns the current wall-clock time.
func (RealScheduler) Now() time.Time {
	return time.Now()
}

// AfterFunc schedules fn to run on its own goroutine after d.
func (RealScheduler) AfterFunc(d time.Duration, fn func()) domain.TimerHandle {
	return timerHandle{t: time.AfterFunc(d, fn)}
}

type timerHandle struct {
	t *time.Timer
}

// Stop cancels the pending action; false if it already fired.
func (h timerHandle) Stop() bool {
	return h.t.Stop()
}

// Ensure RealScheduler implements domain.Scheduler.
var _ domain.Scheduler = (*RealScheduler)(nil)
