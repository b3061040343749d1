package infra

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHostsFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hosts")
	h := NewHostsFile(path)

	lines := []string{"127.0.0.1 localhost", "", "# comment", "0.0.0.0 blocked.com"}
	require.NoError(t, h.WriteLines(lines))

	got, err := h.ReadLines()
	require.NoError(t, err)
	assert.Equal(t, lines, got)
}

func TestHostsFile_ReadStripsCRLF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hosts")
	require.NoError(t, os.WriteFile(path, []byte("127.0.0.1 localhost\r\n0.0.0.0 x.com\r\n"), 0644))

	got, err := NewHostsFile(path).ReadLines()
	require.NoError(t, err)
	assert.Equal(t, []string{"127.0.0.1 localhost", "0.0.0.0 x.com"}, got)
}

func TestHostsFile_ReadMissingFile(t *testing.T) {
	_, err := NewHostsFile(filepath.Join(t.TempDir(), "nope")).ReadLines()
	assert.Error(t, err)
}
