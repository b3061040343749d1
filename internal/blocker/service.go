package blocker

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/quietdesk/studyguard/internal/domain"
)

// Service owns the hosts-file mutations and the study-mode timer registry.
// The hosts read-modify-write cycle is not transactionally isolated; the
// app assumes a single operator per machine.
type Service struct {
	hosts    domain.HostsFile
	dns      domain.DNSControl
	privs    domain.PrivilegeChecker
	firewall domain.FirewallCleaner
	sched    domain.Scheduler
	notifier domain.Notifier
	registry *TimerRegistry
	logger   *zap.Logger
}

// NewService creates a blocker service with its own timer registry.
func NewService(
	hosts domain.HostsFile,
	dns domain.DNSControl,
	privs domain.PrivilegeChecker,
	firewall domain.FirewallCleaner,
	sched domain.Scheduler,
	notifier domain.Notifier,
	logger *zap.Logger,
) *Service {
	return &Service{
		hosts:    hosts,
		dns:      dns,
		privs:    privs,
		firewall: firewall,
		sched:    sched,
		notifier: notifier,
		registry: NewTimerRegistry(),
		logger:   logger,
	}
}

// BlockDomain adds the standard hosts bindings for a domain. Idempotent:
// blocking an already-blocked domain is a no-op success.
func (s *Service) BlockDomain(ctx context.Context, raw string) error {
	if !s.privs.IsElevated() {
		return fmt.Errorf("administrator privileges required to block websites: %w", domain.ErrPermissionDenied)
	}
	host, err := CanonicalizeDomain(raw)
	if err != nil {
		return err
	}

	lines, err := s.hosts.ReadLines()
	if err != nil {
		return fmt.Errorf("read hosts file %s: %w", s.hosts.Path(), err)
	}
	if isHostBlocked(lines, host) {
		s.logger.Info("domain already blocked", zap.String("domain", host))
		return nil
	}

	if err := s.hosts.WriteLines(appendBlock(lines, host)); err != nil {
		return fmt.Errorf("write hosts file %s: %w", s.hosts.Path(), err)
	}
	s.logger.Info("blocked domain", zap.String("domain", host))

	// Flush is cosmetic; run it off the request path and only log failures.
	go func() {
		if err := s.dns.FlushCache(context.Background()); err != nil {
			s.logger.Warn("dns flush failed", zap.Error(err))
		}
	}()
	return nil
}

// BlockDomainDeep layers wildcard bindings and an aggressive DNS command
// sequence on top of the standard block. Whether the wildcard entries
// actually bind depends on the resolver; behavior is preserved as-is from
// the original heuristic.
func (s *Service) BlockDomainDeep(ctx context.Context, raw string) error {
	if !s.privs.IsElevated() {
		return fmt.Errorf("administrator privileges required to block websites: %w", domain.ErrPermissionDenied)
	}
	host, err := CanonicalizeDomain(raw)
	if err != nil {
		return err
	}

	lines, err := s.hosts.ReadLines()
	if err != nil {
		return fmt.Errorf("read hosts file %s: %w", s.hosts.Path(), err)
	}

	changed := false
	if !isHostBlocked(lines, host) {
		lines = appendBlock(lines, host)
		changed = true
	}
	if !isHostDeepBlocked(lines, host) {
		lines = appendDeepBlock(lines, host)
		changed = true
	}
	if changed {
		if err := s.hosts.WriteLines(lines); err != nil {
			return fmt.Errorf("write hosts file %s: %w", s.hosts.Path(), err)
		}
		s.logger.Info("deep blocked domain", zap.String("domain", host))
	} else {
		s.logger.Info("domain already deep blocked", zap.String("domain", host))
	}

	// Fixed order, fire-and-continue: one command failing never blocks the
	// rest of the sequence.
	steps := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"flush dns", s.dns.FlushCache},
		{"register dns", s.dns.RegisterDNS},
		{"release ip", s.dns.ReleaseIP},
		{"renew ip", s.dns.RenewIP},
	}
	for _, step := range steps {
		if err := step.fn(ctx); err != nil {
			s.logger.Warn("deep block dns step failed",
				zap.String("step", step.name),
				zap.Error(err))
		}
	}
	return nil
}

// BlockDomainTimed deep-blocks a domain and schedules its automatic
// unblock. A duplicate in-flight timer for the same domain is replaced
// (last call wins).
func (s *Service) BlockDomainTimed(ctx context.Context, raw string, dur domain.BlockDuration) (*domain.BlockTimer, error) {
	interval, ok := dur.Interval()
	if !ok {
		return nil, fmt.Errorf("unknown duration %q (valid: %v): %w",
			dur, domain.BlockDurations(), domain.ErrInvalidArgument)
	}
	host, err := CanonicalizeDomain(raw)
	if err != nil {
		return nil, err
	}

	if err := s.BlockDomainDeep(ctx, host); err != nil {
		return nil, err
	}

	now := s.sched.Now()
	timer := domain.BlockTimer{
		WebsiteURL: host,
		Duration:   dur,
		StartTime:  now,
		EndTime:    now.Add(interval),
	}
	handle := s.sched.AfterFunc(interval, func() { s.expire(timer) })
	s.registry.Replace(host, timer, handle)

	s.logger.Info("study mode timer started",
		zap.String("domain", host),
		zap.String("duration", string(dur)),
		zap.Time("endTime", timer.EndTime))
	return &timer, nil
}

// expire is the scheduled auto-unblock. Single-shot, best-effort: failures
// are logged but not retried, and the expiry event is emitted exactly once
// for the timer that actually governs the block.
func (s *Service) expire(timer domain.BlockTimer) {
	host := timer.WebsiteURL
	// A callback racing Replace may belong to a timer that has already
	// been superseded; only the current registry entry gets to unblock.
	if !s.registry.RemoveIfCurrent(host, timer) {
		s.logger.Debug("ignoring stale timer expiry", zap.String("domain", host))
		return
	}

	if err := s.unblock(context.Background(), host); err != nil {
		s.logger.Error("auto-unblock failed",
			zap.String("domain", host),
			zap.Error(err))
	} else {
		s.logger.Info("study mode timer expired, domain unblocked",
			zap.String("domain", host))
	}
	s.notifier.TimerExpired(domain.ExpiryEvent{WebsiteURL: host, EndTime: timer.EndTime})
}

// UnblockDomain removes every hosts binding for a domain. Rejected with
// Forbidden while a study-mode timer is active: a running timer cannot be
// bypassed by the manual unblock path.
func (s *Service) UnblockDomain(ctx context.Context, raw string) error {
	if !s.privs.IsElevated() {
		return fmt.Errorf("administrator privileges required to unblock websites: %w", domain.ErrPermissionDenied)
	}
	host, err := CanonicalizeDomain(raw)
	if err != nil {
		return err
	}

	if timer, active := s.registry.Get(host); active {
		remaining := formatRemaining(timer.EndTime.Sub(s.sched.Now()))
		return fmt.Errorf("cannot unblock %s: study mode timer active, %s remaining: %w",
			host, remaining, domain.ErrForbidden)
	}

	return s.unblock(ctx, host)
}

func (s *Service) unblock(ctx context.Context, host string) error {
	lines, err := s.hosts.ReadLines()
	if err != nil {
		return fmt.Errorf("read hosts file %s: %w", s.hosts.Path(), err)
	}

	remaining, removed := removeHostLines(lines, host)
	if removed > 0 {
		if err := s.hosts.WriteLines(remaining); err != nil {
			return fmt.Errorf("write hosts file %s: %w", s.hosts.Path(), err)
		}
		s.logger.Info("unblocked domain",
			zap.String("domain", host),
			zap.Int("linesRemoved", removed))
	} else {
		s.logger.Info("domain not blocked, nothing to remove", zap.String("domain", host))
	}

	// Legacy rule cleanup is cosmetic; ignore failures.
	if err := s.firewall.RemoveRulesMatching(ctx, host); err != nil {
		s.logger.Debug("legacy firewall cleanup skipped",
			zap.String("domain", host),
			zap.Error(err))
	}
	return nil
}

// CancelTimer explicitly ends a study-mode block early: cancels the pending
// expiry, removes the registry entry, then unblocks the domain.
func (s *Service) CancelTimer(ctx context.Context, raw string) error {
	host, err := CanonicalizeDomain(raw)
	if err != nil {
		return err
	}

	handle, ok := s.registry.Remove(host)
	if !ok {
		return fmt.Errorf("no active study mode timer for %s: %w", host, domain.ErrNotFound)
	}
	handle.Stop()
	s.logger.Info("study mode timer cancelled", zap.String("domain", host))

	return s.UnblockDomain(ctx, host)
}

// ActiveTimers returns the live timers annotated with remaining time.
// Entries whose end time has already passed are purged as a side effect.
func (s *Service) ActiveTimers() []domain.TimerSnapshot {
	return s.registry.Snapshot(s.sched.Now())
}
