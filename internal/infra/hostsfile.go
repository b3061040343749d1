package infra

import (
	"os"
	"strings"

	"github.com/quietdesk/studyguard/internal/domain"
)

// OSHostsFile implements domain.HostsFile over the real hosts file.
// Read-modify-write cycles built on it are deliberately not locked; the
// app assumes a single operator per machine.
type OSHostsFile struct {
	path string
}

// NewHostsFile creates a hosts file accessor at path.
func NewHostsFile(path string) *OSHostsFile {
	return &OSHostsFile{path: path}
}

// Path returns the underlying file path.
func (h *OSHostsFile) Path() string {
	return h.path
}

// ReadLines returns the file as ordered lines. CR line terminators (the
// Windows hosts file uses CRLF) are stripped so callers compare plain text.
func (h *OSHostsFile) ReadLines() ([]string, error) {
	data, err := os.ReadFile(h.path)
	if err != nil {
		return nil, err
	}
	raw := strings.Split(string(data), "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		lines = append(lines, strings.TrimRight(l, "\r"))
	}
	// os.ReadFile of a trailing-newline file yields one empty final element.
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines, nil
}

// WriteLines replaces the file content in place, with a trailing newline.
func (h *OSHostsFile) WriteLines(lines []string) error {
	return os.WriteFile(h.path, []byte(strings.Join(lines, "\n")+"\n"), 0644)
}

// Ensure OSHostsFile implements domain.HostsFile.
var _ domain.HostsFile = (*OSHostsFile)(nil)
