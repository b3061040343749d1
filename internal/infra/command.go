// Package infra implements infrastructure concerns (commands, hosts file,
// process queries, privileges, scheduling).
package infra

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/quietdesk/studyguard/internal/domain"
)

// Fixed per-command timeouts. A timeout surfaces as an ExternalToolFailure
// error, not a hang.
const (
	FirewallCommandTimeout = 30 * time.Second
	DNSCommandTimeout      = 10 * time.Second
)

// ExecCommandRunner executes real system commands with captured output.
type ExecCommandRunner struct{}

// NewCommandRunner creates the real command runner.
func NewCommandRunner() domain.CommandRunner {
	return &ExecCommandRunner{}
}

// Run executes a command and waits for it to complete.
func (r *ExecCommandRunner) Run(ctx context.Context, name string, args ...string) error {
	_, err := r.Output(ctx, name, args...)
	return err
}

// Output executes a command and returns its stdout. Failures and timeouts
// are wrapped as ExternalToolFailure with the captured streams attached.
func (r *ExecCommandRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%s timed out: %w", name, domain.ErrExternalTool)
		}
		return nil, fmt.Errorf("%s: %v (stdout: %s, stderr: %s): %w",
			name, err,
			strings.TrimSpace(stdout.String()),
			strings.TrimSpace(stderr.String()),
			domain.ErrExternalTool)
	}
	return stdout.Bytes(), nil
}

// Ensure ExecCommandRunner implements domain.CommandRunner.
var _ domain.CommandRunner = (*ExecCommandRunner)(nil)
