package blocker

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quietdesk/studyguard/internal/domain"
)

func TestCanonicalizeDomain(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"example.com", "example.com"},
		{"EXAMPLE.COM", "example.com"},
		{"www.example.com", "example.com"},
		{"https://www.example.com/watch?v=abc", "example.com"},
		{"http://example.com:8080/path", "example.com"},
		{"  hub.docs.example.co.uk/a/b#frag  ", "hub.docs.example.co.uk"},
	}
	for _, tc := range cases {
		got, err := CanonicalizeDomain(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestCanonicalizeDomain_Invalid(t *testing.T) {
	for _, in := range []string{"", "   ", "localhost", "https://", "bad domain.com"} {
		_, err := CanonicalizeDomain(in)
		require.Error(t, err, in)
		assert.True(t, errors.Is(err, domain.ErrInvalidArgument), in)
	}
}

func TestAppendBlock_WritesFourBindingsUnderMarker(t *testing.T) {
	lines := appendBlock([]string{"127.0.0.1 localhost"}, "example.com")

	require.Len(t, lines, 6)
	assert.Equal(t, "# studyguard block: example.com", lines[1])
	assert.Contains(t, lines, "127.0.0.1 example.com")
	assert.Contains(t, lines, "127.0.0.1 www.example.com")
	assert.Contains(t, lines, "0.0.0.0 example.com")
	assert.Contains(t, lines, "0.0.0.0 www.example.com")
}

func TestRemoveHostLines_RemovesAllFormsAndMarkers(t *testing.T) {
	lines := []string{"127.0.0.1 localhost"}
	lines = appendBlock(lines, "example.com")
	lines = appendDeepBlock(lines, "example.com")

	out, removed := removeHostLines(lines, "example.com")

	assert.Equal(t, 8, removed)
	require.Len(t, out, 1)
	assert.Equal(t, "127.0.0.1 localhost", out[0])
}

func TestRemoveHostLines_LeavesOtherDomainsAlone(t *testing.T) {
	lines := appendBlock([]string{"127.0.0.1 localhost"}, "keep.com")
	lines = appendBlock(lines, "drop.com")

	out, removed := removeHostLines(lines, "drop.com")

	assert.Equal(t, 5, removed)
	assert.True(t, isHostBlocked(out, "keep.com"))
	assert.False(t, isHostBlocked(out, "drop.com"))
}

func TestRemoveHostLines_NothingToRemove(t *testing.T) {
	lines := []string{"127.0.0.1 localhost", "# a comment"}
	out, removed := removeHostLines(lines, "missing.com")
	assert.Zero(t, removed)
	assert.Equal(t, lines, out)
}

func TestIsHostBlocked_IgnoresComments(t *testing.T) {
	lines := []string{"# 127.0.0.1 example.com"}
	assert.False(t, isHostBlocked(lines, "example.com"))
}

func TestFormatRemaining(t *testing.T) {
	cases := []struct {
		d    time.Duration
		want string
	}{
		{90 * time.Second, "1m 30s"},
		{45 * time.Second, "45s"},
		{26*time.Hour + 5*time.Minute, "1d 2h 5m 0s"},
		{3 * time.Hour, "3h 0m 0s"},
		{0, "0s"},
		{-time.Minute, "0s"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, formatRemaining(tc.d), tc.d.String())
	}
}
