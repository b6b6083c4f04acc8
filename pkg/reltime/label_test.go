package reltime

import (
	"testing"
	"time"

	"tableflip.dev/shelf/pkg/i18n"
)

func TestLabelBuckets(t *testing.T) {
	now := time.Date(2024, 10, 17, 12, 0, 0, 0, time.UTC)
	day := 24 * time.Hour
	cases := []struct {
		name    string
		elapsed time.Duration
		want    string
	}{
		{"zero clamps to one second", 0, "1 second ago"},
		{"sub-second clamps", 999 * time.Millisecond, "1 second ago"},
		{"future clamps", -time.Hour, "1 second ago"},
		{"seconds plural", 59 * time.Second, "59 seconds ago"},
		{"minute singular", 61 * time.Second, "1 minute ago"},
		{"minute boundary", 119 * time.Second, "1 minute ago"},
		{"minutes plural at two", 120 * time.Second, "2 minutes ago"},
		{"hour wins over minutes", 3661 * time.Second, "1 hour ago"},
		{"hours", 23 * time.Hour, "23 hours ago"},
		{"one day", day, "1 day ago"},
		{"thirty days stays in days", 30 * day, "30 days ago"},
		{"thirty one days is a month", 31 * day, "1 month ago"},
		{"months", 95 * day, "3 months ago"},
		{"359 days", 359 * day, "11 months ago"},
		{"360 days is a year", 360 * day, "1 year ago"},
		{"years", 800 * day, "2 years ago"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Label(now, now.Add(-tc.elapsed), nil); got != tc.want {
				t.Fatalf("Label(%v) = %q, want %q", tc.elapsed, got, tc.want)
			}
		})
	}
}

func TestLabelLocale(t *testing.T) {
	now := time.Now()
	got := Label(now, now.Add(-72*time.Hour), i18n.For("es"))
	if got != "Hace 3 días" {
		t.Fatalf("unexpected label %q", got)
	}
}

func TestBucketPrecedence(t *testing.T) {
	now := time.Now()
	unit, n := Bucket(now, now.Add(-(24*time.Hour + 5*time.Minute)))
	if unit != "day" || n != 1 {
		t.Fatalf("expected 1 day, got %d %s", n, unit)
	}
}
