//go:build integration

package integration

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/quietdesk/studyguard/internal/blocker"
	"github.com/quietdesk/studyguard/internal/domain"
	"github.com/quietdesk/studyguard/internal/infra"
)

// alwaysElevated bypasses the OS privilege check so the suite runs
// unprivileged against a temp hosts file.
type alwaysElevated struct{}

func (alwaysElevated) IsElevated() bool { return true }

// noopDNS stands in for ipconfig, which is pointless to invoke here.
type noopDNS struct{}

func (noopDNS) FlushCache(context.Context) error  { return nil }
func (noopDNS) RegisterDNS(context.Context) error { return nil }
func (noopDNS) ReleaseIP(context.Context) error   { return nil }
func (noopDNS) RenewIP(context.Context) error     { return nil }

type noopFirewall struct{}

func (noopFirewall) RemoveRulesMatching(context.Context, string) error { return nil }

// countingNotifier tracks expiry broadcasts.
type countingNotifier struct{ expiries atomic.Int32 }

func (n *countingNotifier) TimerExpired(domain.ExpiryEvent) { n.expiries.Add(1) }

var _ = Describe("Study mode lifecycle", func() {
	var (
		hostsPath string
		hosts     *infra.OSHostsFile
		notifier  *countingNotifier
		svc       *blocker.Service
		ctx       context.Context
	)

	hostsContains := func(needle string) bool {
		data, err := os.ReadFile(hostsPath)
		Expect(err).NotTo(HaveOccurred())
		return strings.Contains(string(data), needle)
	}

	BeforeEach(func() {
		dir, err := os.MkdirTemp("", "studyguard-integration-*")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(func() { os.RemoveAll(dir) })

		hostsPath = filepath.Join(dir, "hosts")
		Expect(os.WriteFile(hostsPath, []byte("127.0.0.1 localhost\n"), 0644)).To(Succeed())

		hosts = infra.NewHostsFile(hostsPath)
		notifier = &countingNotifier{}
		svc = blocker.NewService(
			hosts, noopDNS{}, alwaysElevated{}, noopFirewall{},
			infra.NewScheduler(), notifier, zap.NewNop())
		ctx = context.Background()
	})

	It("writes and removes hosts bindings for a manual block", func() {
		Expect(svc.BlockDomain(ctx, "https://www.example.com/feed")).To(Succeed())
		Expect(hostsContains("0.0.0.0 example.com")).To(BeTrue())
		Expect(hostsContains("127.0.0.1 www.example.com")).To(BeTrue())

		Expect(svc.UnblockDomain(ctx, "example.com")).To(Succeed())
		Expect(hostsContains("example.com")).To(BeFalse())
		Expect(hostsContains("localhost")).To(BeTrue())
	})

	It("refuses manual unblock while a timer runs, then expires on its own", func() {
		timer, err := svc.BlockDomainTimed(ctx, "y.com", domain.Duration10Sec)
		Expect(err).NotTo(HaveOccurred())
		Expect(timer.EndTime.Sub(timer.StartTime)).To(Equal(10 * time.Second))
		Expect(hostsContains("0.0.0.0 y.com")).To(BeTrue())
		Expect(hostsContains("*.y.com")).To(BeTrue())

		err = svc.UnblockDomain(ctx, "y.com")
		Expect(err).To(MatchError(domain.ErrForbidden))
		Expect(err.Error()).To(ContainSubstring("remaining"))

		Eventually(func() bool {
			return hostsContains("y.com")
		}, 15*time.Second, 200*time.Millisecond).Should(BeFalse())
		Eventually(func() int32 {
			return notifier.expiries.Load()
		}, 5*time.Second, 100*time.Millisecond).Should(Equal(int32(1)))
		Expect(svc.ActiveTimers()).To(BeEmpty())
	})

	It("cancelling a timer unblocks immediately", func() {
		_, err := svc.BlockDomainTimed(ctx, "z.com", domain.Duration1Day)
		Expect(err).NotTo(HaveOccurred())
		Expect(svc.ActiveTimers()).To(HaveLen(1))

		Expect(svc.CancelTimer(ctx, "z.com")).To(Succeed())
		Expect(svc.ActiveTimers()).To(BeEmpty())
		Expect(hostsContains("z.com")).To(BeFalse())

		// The cancelled timer must never fire a broadcast.
		Consistently(func() int32 {
			return notifier.expiries.Load()
		}, time.Second, 100*time.Millisecond).Should(BeZero())
	})
})
