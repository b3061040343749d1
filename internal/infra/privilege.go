//go:build !windows

package infra

import (
	"os"

	"github.com/quietdesk/studyguard/internal/domain"
)

// OSPrivilegeChecker implements domain.PrivilegeChecker via the effective
// uid on non-Windows systems.
type OSPrivilegeChecker struct{}

// NewPrivilegeChecker creates the platform privilege checker.
func NewPrivilegeChecker() domain.PrivilegeChecker {
	return &OSPrivilegeChecker{}
}

// IsElevated reports whether the process runs as root.
func (c *OSPrivilegeChecker) IsElevated() bool {
	return os.Geteuid() == 0
}

// Ensure OSPrivilegeChecker implements domain.PrivilegeChecker.
var _ domain.PrivilegeChecker = (*OSPrivilegeChecker)(nil)
