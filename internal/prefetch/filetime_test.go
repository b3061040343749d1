package prefetch

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestFiletimeRoundTrip verifies time -> ticks -> time is stable within
// millisecond precision for the supported year range.
func TestFiletimeRoundTrip(t *testing.T) {
	cases := []time.Time{
		time.Date(1970, 1, 1, 0, 0, 0, 1e6, time.UTC),
		time.Date(1999, 12, 31, 23, 59, 59, 999e6, time.UTC),
		time.Date(2024, 6, 15, 12, 30, 45, 123e6, time.UTC),
		time.Date(2050, 12, 31, 23, 59, 59, 0, time.UTC),
	}

	for _, want := range cases {
		ticks := TimeToFiletime(want)
		got, ok := FiletimeToTime(ticks)
		require.True(t, ok, "expected %v to convert", want)
		assert.Equal(t, want.UnixMilli(), got.UnixMilli())
	}
}

func TestFiletimeToTime_RejectsZero(t *testing.T) {
	_, ok := FiletimeToTime(0)
	assert.False(t, ok)
}

func TestFiletimeToTime_RejectsPreEpoch(t *testing.T) {
	// 1601-01-02, well before the Unix epoch.
	_, ok := FiletimeToTime(24 * 3600 * 1e7)
	assert.False(t, ok)
}

func TestFiletimeToTime_RejectsFarFuture(t *testing.T) {
	ticks := TimeToFiletime(time.Date(2100, 1, 1, 0, 0, 0, 0, time.UTC))
	_, ok := FiletimeToTime(ticks)
	assert.False(t, ok)
}

func TestFiletimeToTime_KnownValue(t *testing.T) {
	// 2020-01-01T00:00:00Z expressed as FILETIME ticks.
	want := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	got, ok := FiletimeToTime(TimeToFiletime(want))
	require.True(t, ok)
	assert.True(t, got.Equal(want))
}
