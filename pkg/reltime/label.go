// Package reltime renders "N units ago" labels and keeps them fresh on a
// per-widget schedule.
package reltime

import (
	"time"

	"tableflip.dev/shelf/pkg/i18n"
)

// Phrases formats a magnitude for a unit ("year", "month", "day", "hour",
// "minute", "second"). *i18n.Bundle satisfies it.
type Phrases interface {
	Plural(unit string, n int) string
}

// Bucket picks the unit and magnitude for the elapsed time between then and
// now. Buckets are tried from years down to seconds; the first one that fits
// wins. Future instants are treated as zero elapsed and the seconds bucket
// never reports less than 1.
func Bucket(now, then time.Time) (string, int) {
	diff := now.Sub(then)
	if diff < 0 {
		diff = 0
	}
	seconds := int(diff / time.Second)
	minutes := int(diff / time.Minute)
	hours := int(diff / time.Hour)
	days := hours / 24

	switch {
	case days >= 360:
		return "year", days / 30 / 12
	case days > 30:
		return "month", days / 30
	case days >= 1:
		return "day", days
	case hours >= 1:
		return "hour", hours
	case minutes >= 1:
		return "minute", minutes
	}
	if seconds < 1 {
		seconds = 1
	}
	return "second", seconds
}

// Label renders the elapsed time between then and now. A nil p uses the
// default locale.
func Label(now, then time.Time, p Phrases) string {
	if p == nil {
		p = i18n.Default()
	}
	unit, n := Bucket(now, then)
	return p.Plural(unit, n)
}
