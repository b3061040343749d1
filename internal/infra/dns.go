package infra

import (
	"context"

	"github.com/quietdesk/studyguard/internal/domain"
)

// IpconfigDNSControl implements domain.DNSControl via the ipconfig command.
// Every call is bounded by DNSCommandTimeout; callers treat failures as
// best-effort.
type IpconfigDNSControl struct {
	runner domain.CommandRunner
}

// NewDNSControl creates a DNS control backed by runner.
func NewDNSControl(runner domain.CommandRunner) domain.DNSControl {
	return &IpconfigDNSControl{runner: runner}
}

func (d *IpconfigDNSControl) run(ctx context.Context, arg string) error {
	ctx, cancel := context.WithTimeout(ctx, DNSCommandTimeout)
	defer cancel()
	return d.runner.Run(ctx, "ipconfig", arg)
}

// FlushCache clears the OS DNS resolver cache.
func (d *IpconfigDNSControl) FlushCache(ctx context.Context) error {
	return d.run(ctx, "/flushdns")
}

// RegisterDNS refreshes DHCP leases and re-registers DNS names.
func (d *IpconfigDNSControl) RegisterDNS(ctx context.Context) error {
	return d.run(ctx, "/registerdns")
}

// ReleaseIP releases the DHCP-assigned address.
func (d *IpconfigDNSControl) ReleaseIP(ctx context.Context) error {
	return d.run(ctx, "/release")
}

// RenewIP re-acquires a DHCP address.
func (d *IpconfigDNSControl) RenewIP(ctx context.Context) error {
	return d.run(ctx, "/renew")
}

// Ensure IpconfigDNSControl implements domain.DNSControl.
var _ domain.DNSControl = (*IpconfigDNSControl)(nil)
