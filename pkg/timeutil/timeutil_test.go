package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want time.Time
		ok   bool
	}{
		{
			name: "rfc3339 with trailing Z",
			raw:  "2026-07-15T10:30:00Z",
			want: time.Date(2026, 7, 15, 10, 30, 0, 0, time.UTC),
			ok:   true,
		},
		{
			name: "rfc3339 with offset",
			raw:  "2026-07-15T18:30:00+08:00",
			want: time.Date(2026, 7, 15, 10, 30, 0, 0, time.UTC),
			ok:   true,
		},
		{
			name: "fractional seconds",
			raw:  "2026-07-15T10:30:00.123456Z",
			want: time.Date(2026, 7, 15, 10, 30, 0, 123456000, time.UTC),
			ok:   true,
		},
		{
			name: "naive timestamp treated as UTC",
			raw:  "2026-07-15T10:30:00",
			want: time.Date(2026, 7, 15, 10, 30, 0, 0, time.UTC),
			ok:   true,
		},
		{
			name: "space separated",
			raw:  "2026-07-15 10:30:00",
			want: time.Date(2026, 7, 15, 10, 30, 0, 0, time.UTC),
			ok:   true,
		},
		{name: "empty", raw: "", ok: false},
		{name: "garbage", raw: "not-a-timestamp", ok: false},
		{name: "date only digits", raw: "20260715", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Parse(tt.raw)
			require.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, got.Equal(tt.want), "got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParsePtr(t *testing.T) {
	assert.Nil(t, ParsePtr(""))
	assert.Nil(t, ParsePtr("bogus"))

	got := ParsePtr("2026-07-15T10:30:00Z")
	require.NotNil(t, got)
	assert.Equal(t, 2026, got.Year())
}

func TestIsRecent(t *testing.T) {
	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		t    time.Time
		want bool
	}{
		{"twenty days ago", now.Add(-20 * 24 * time.Hour), true},
		{"exactly thirty days ago", now.Add(-RecentWindow), true},
		{"just over thirty days ago", now.Add(-RecentWindow - time.Second), false},
		{"ninety days ago", now.Add(-90 * 24 * time.Hour), false},
		{"now", now, true},
		{"in the future", now.Add(time.Hour), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRecent(tt.t, now))
		})
	}
}

// TestIsRecent_Monotonic verifies that moving an instant closer to now never
// flips recency from true to false.
func TestIsRecent_Monotonic(t *testing.T) {
	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)

	for days := 60; days >= 0; days-- {
		earlier := now.Add(-time.Duration(days+1) * 24 * time.Hour)
		later := now.Add(-time.Duration(days) * 24 * time.Hour)
		if IsRecent(earlier, now) {
			assert.True(t, IsRecent(later, now), "recency lost moving from %d+1 to %d days ago", days, days)
		}
	}
}

func TestTimeAgo(t *testing.T) {
	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		t    time.Time
		want string
	}{
		{"days", now.Add(-3 * 24 * time.Hour), "3 days ago"},
		{"single day", now.Add(-25 * time.Hour), "1 day ago"},
		{"hours", now.Add(-5 * time.Hour), "5 hours ago"},
		{"single hour", now.Add(-90 * time.Minute), "1 hour ago"},
		{"minutes", now.Add(-10 * time.Minute), "10 minutes ago"},
		{"just now", now.Add(-30 * time.Second), "just now"},
		{"zero instant", time.Time{}, "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TimeAgo(tt.t, now))
		})
	}
}
