package models

import (
	"testing"
	"time"
)

func TestTimeAgo(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		ago  time.Duration
		want string
	}{
		{"seconds", 24 * time.Second, "24 seconds ago"},
		{"a minute", 90 * time.Second, "a minute ago"},
		{"minutes", 5 * time.Minute, "5 minutes ago"},
		{"an hour", 90 * time.Minute, "an hour ago"},
		{"hours", 7 * time.Hour, "7 hours ago"},
		{"a day", 30 * time.Hour, "a day ago"},
		{"days", 3 * 24 * time.Hour, "3 days ago"},
		{"a week", 10 * 24 * time.Hour, "a week ago"},
		{"weeks", 20 * 24 * time.Hour, "2 weeks ago"},
		{"a month", 45 * 24 * time.Hour, "a month ago"},
		{"months", 120 * 24 * time.Hour, "4 months ago"},
		{"a year", 400 * 24 * time.Hour, "a year ago"},
		{"years", 1100 * 24 * time.Hour, "3 years ago"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TimeAgo(now.Add(-tt.ago), now); got != tt.want {
				t.Errorf("TimeAgo(-%v) = %q, want %q", tt.ago, got, tt.want)
			}
		})
	}
}

func TestTimeAgo_FutureClampsToZero(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	if got := TimeAgo(now.Add(time.Minute), now); got != "0 seconds ago" {
		t.Errorf("TimeAgo(future) = %q, want %q", got, "0 seconds ago")
	}
}
