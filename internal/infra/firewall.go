package infra

import (
	"bufio"
	"bytes"
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/quietdesk/studyguard/internal/domain"
)

// NetshFirewallCleaner removes leftover Windows Firewall rules created by
// older app versions, identified by the blocked domain appearing in the
// rule name. All operations are best-effort.
type NetshFirewallCleaner struct {
	runner domain.CommandRunner
	logger *zap.Logger
}

// NewFirewallCleaner creates a netsh-backed cleaner.
func NewFirewallCleaner(runner domain.CommandRunner, logger *zap.Logger) domain.FirewallCleaner {
	return &NetshFirewallCleaner{runner: runner, logger: logger}
}

// RemoveRulesMatching enumerates firewall rules and deletes every rule
// whose name contains host. Individual delete failures are logged and
// skipped.
func (c *NetshFirewallCleaner) RemoveRulesMatching(ctx context.Context, host string) error {
	listCtx, cancel := context.WithTimeout(ctx, FirewallCommandTimeout)
	defer cancel()

	out, err := c.runner.Output(listCtx, "netsh", "advfirewall", "firewall", "show", "rule", "name=all")
	if err != nil {
		return err
	}

	for _, name := range ruleNamesContaining(out, host) {
		delCtx, cancelDel := context.WithTimeout(ctx, FirewallCommandTimeout)
		err := c.runner.Run(delCtx, "netsh", "advfirewall", "firewall", "delete", "rule", "name="+name)
		cancelDel()
		if err != nil {
			c.logger.Debug("failed to delete legacy firewall rule",
				zap.String("rule", name),
				zap.Error(err))
			continue
		}
		c.logger.Info("removed legacy firewall rule", zap.String("rule", name))
	}
	return nil
}

// ruleNamesContaining parses `netsh advfirewall firewall show rule` output
// and collects rule names mentioning host.
func ruleNamesContaining(out []byte, host string) []string {
	var names []string
	hostLower := strings.ToLower(host)

	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "Rule Name:") {
			continue
		}
		name := strings.TrimSpace(strings.TrimPrefix(line, "Rule Name:"))
		if name != "" && strings.Contains(strings.ToLower(name), hostLower) {
			names = append(names, name)
		}
	}
	return names
}

// Ensure NetshFirewallCleaner implements domain.FirewallCleaner.
var _ domain.FirewallCleaner = (*NetshFirewallCleaner)(nil)
