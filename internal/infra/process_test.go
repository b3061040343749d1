package infra

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindByName_MatchesOwnProcess(t *testing.T) {
	exe, err := os.Executable()
	require.NoError(t, err)

	name := filepath.Base(exe)
	// Linux reports process names via comm, truncated to 15 chars.
	if len(name) > 15 {
		name = name[:15]
	}

	pids, err := NewProcessManager().FindByName(name)
	require.NoError(t, err)
	assert.Contains(t, pids, os.Getpid())
}

func TestFindByName_NoMatches(t *testing.T) {
	pids, err := NewProcessManager().FindByName("no-such-process-zzqy")
	require.NoError(t, err)
	assert.Empty(t, pids)
}
