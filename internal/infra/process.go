package infra

import (
	"strings"

	"github.com/shirou/gopsutil/v3/process"

	"github.com/quietdesk/studyguard/internal/domain"
)

// ProcessManagerImpl implements domain.ProcessManager using gopsutil.
type ProcessManagerImpl struct{}

// NewProcessManager creates a new process manager.
func NewProcessManager() domain.ProcessManager {
	return &ProcessManagerImpl{}
}

// FindByName returns PIDs of processes matching the pattern (case-insensitive).
func (pm *ProcessManagerImpl) FindByName(pattern string) ([]int, error) {
	procs, err := process.Processes()
	if err != nil {
		return nil, err
	}

	var found []int
	patternLower := strings.ToLower(pattern)

	for _, p := range procs {
		name, err := p.Name()
		if err != nil {
			continue // Process may have exited
		}

		if strings.EqualFold(name, pattern) || strings.Contains(strings.ToLower(name), patternLower) {
			found = append(found, int(p.Pid))
		}
	}

	return found, nil
}

// IsProcessRunning reports whether a process with the given executable base
// name is running. Best-effort: query failures resolve to false, never an
// error, since this only feeds an informational flag.
func (pm *ProcessManagerImpl) IsProcessRunning(name string) bool {
	if name == "" {
		return false
	}
	// Prefetch names carry the .exe suffix; live process names may not.
	bare := strings.TrimSuffix(strings.ToLower(name), ".exe")

	procs, err := process.Processes()
	if err != nil {
		return false
	}
	for _, p := range procs {
		procName, err := p.Name()
		if err != nil {
			continue
		}
		if strings.TrimSuffix(strings.ToLower(procName), ".exe") == bare {
			return true
		}
	}
	return false
}

// Ensure ProcessManagerImpl implements domain.ProcessManager.
var _ domain.ProcessManager = (*ProcessManagerImpl)(nil)
