package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_EmptyPathGivesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.NotEmpty(t, cfg.HostsPath)
	assert.NotEmpty(t, cfg.PrefetchDir)
	assert.Equal(t, 100, cfg.MaxPrefetchFiles)
}

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte("hostsPath: /tmp/test-hosts\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/test-hosts", cfg.HostsPath)
	assert.Equal(t, Default().PrefetchDir, cfg.PrefetchDir)
	assert.Equal(t, 100, cfg.MaxPrefetchFiles)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte(":\n\t- nope"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_FullFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	body := `hostsPath: /tmp/hosts
prefetchDir: /tmp/prefetch
logPath: /tmp/sg.log
maxPrefetchFiles: 25
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 25, cfg.MaxPrefetchFiles)
	assert.Equal(t, "/tmp/prefetch", cfg.PrefetchDir)
	assert.Equal(t, "/tmp/sg.log", cfg.LogPath)
}
