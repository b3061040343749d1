// Package blocker implements website blocking on top of the OS hosts file,
// including the timed "study mode" variant with guaranteed auto-expiry.
package blocker

import (
	"fmt"
	"strings"

	"github.com/quietdesk/studyguard/internal/domain"
)

// Marker comments tag this app's write-sites in the hosts file so removal
// never touches lines written by anything else.
const (
	blockMarkerPrefix     = "# studyguard block:"
	deepBlockMarkerPrefix = "# studyguard deep block:"
)

// CanonicalizeDomain normalizes user input to a bare lowercase hostname:
// scheme, www. prefix, path, query, and port are stripped.
func CanonicalizeDomain(raw string) (string, error) {
	host := strings.TrimSpace(strings.ToLower(raw))
	if i := strings.Index(host, "://"); i >= 0 {
		host = host[i+3:]
	}
	if i := strings.IndexAny(host, "/?#"); i >= 0 {
		host = host[:i]
	}
	if i := strings.IndexByte(host, ':'); i >= 0 {
		host = host[:i]
	}
	host = strings.TrimPrefix(host, "www.")

	if host == "" || !strings.Contains(host, ".") ||
		strings.ContainsAny(host, " \t\\") {
		return "", fmt.Errorf("invalid domain %q: %w", raw, domain.ErrInvalidArgument)
	}
	return host, nil
}

// blockLines are the four standard bindings written for a plain block.
func blockLines(host string) []string {
	return []string{
		"127.0.0.1 " + host,
		"127.0.0.1 www." + host,
		"0.0.0.0 " + host,
		"0.0.0.0 www." + host,
	}
}

// deepBlockLines adds wildcard-style bindings on top of the standard four.
func deepBlockLines(host string) []string {
	return []string{
		"127.0.0.1 *." + host,
		"0.0.0.0 *." + host,
	}
}

// isHostBlocked reports whether any active binding line references host.
func isHostBlocked(lines []string, host string) bool {
	for _, line := range lines {
		if lineReferencesHost(line, host) {
			return true
		}
	}
	return false
}

// isHostDeepBlocked reports whether host carries a deep-block marker.
func isHostDeepBlocked(lines []string, host string) bool {
	marker := deepBlockMarkerPrefix + " " + host
	for _, line := range lines {
		if strings.TrimSpace(line) == marker {
			return true
		}
	}
	return false
}

// appendBlock adds the standard bindings under a marker comment.
func appendBlock(lines []string, host string) []string {
	out := append(lines, blockMarkerPrefix+" "+host)
	return append(out, blockLines(host)...)
}

// appendDeepBlock adds wildcard bindings under the deep-block marker.
func appendDeepBlock(lines []string, host string) []string {
	out := append(lines, deepBlockMarkerPrefix+" "+host)
	return append(out, deepBlockLines(host)...)
}

// removeHostLines drops every line referencing host: bare, www., and
// wildcard bindings plus both marker comments. Returns the surviving lines
// and how many were removed; zero removed is success, not an error.
func removeHostLines(lines []string, host string) ([]string, int) {
	out := make([]string, 0, len(lines))
	removed := 0
	for _, line := range lines {
		if lineReferencesHost(line, host) || isMarkerFor(line, host) {
			removed++
			continue
		}
		out = append(out, line)
	}
	return out, removed
}

// lineReferencesHost checks whether an uncommented binding line maps host
// (or its www./wildcard forms) to an address.
func lineReferencesHost(line, host string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return false
	}
	fields := strings.Fields(trimmed)
	if len(fields) < 2 {
		return false
	}
	for _, name := range fields[1:] {
		name = strings.ToLower(name)
		if name == host || name == "www."+host || name == "*."+host {
			return true
		}
	}
	return false
}

func isMarkerFor(line, host string) bool {
	trimmed := strings.TrimSpace(line)
	return trimmed == blockMarkerPrefix+" "+host ||
		trimmed == deepBlockMarkerPrefix+" "+host
}
