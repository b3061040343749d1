//go:build windows

package infra

import (
	"golang.org/x/sys/windows"

	"github.com/quietdesk/studyguard/internal/domain"
)

// OSPrivilegeChecker implements domain.PrivilegeChecker via the process
// token on Windows.
type OSPrivilegeChecker struct{}

// NewPrivilegeChecker creates the platform privilege checker.
func NewPrivilegeChecker() domain.PrivilegeChecker {
	return &OSPrivilegeChecker{}
}

// IsElevated reports whether the process token is elevated, falling back
// to a BUILTIN\Administrators membership check when the elevation bit is
// unavailable (pre-UAC style tokens).
func (c *OSPrivilegeChecker) IsElevated() bool {
	token := windows.GetCurrentProcessToken()
	if token.IsElevated() {
		return true
	}

	sid, err := windows.CreateWellKnownSid(windows.WinBuiltinAdministratorsSid)
	if err != nil {
		return false
	}
	member, err := token.IsMember(sid)
	return err == nil && member
}

// Ensure OSPrivilegeChecker implements domain.PrivilegeChecker.
var _ domain.PrivilegeChecker = (*OSPrivilegeChecker)(nil)
