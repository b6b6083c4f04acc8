// Package timeutil parses the age windows accepted by `shelf search --within`.
package timeutil

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	Day = 24 * time.Hour
	// Month and Year follow the relative-time label buckets: 30 and 360 days.
	Month = 30 * Day
	Year  = 12 * Month
)

var (
	windowPattern = regexp.MustCompile(`^\s*(\d+)\s*([a-z]+)`)
	units         = []struct {
		label   string
		value   time.Duration
		aliases []string
	}{
		{"y", Year, []string{"y", "yr", "yrs", "year", "years"}},
		{"mo", Month, []string{"mo", "mon", "month", "months"}},
		{"w", 7 * Day, []string{"w", "wk", "wks", "week", "weeks"}},
		{"d", Day, []string{"d", "day", "days"}},
		{"h", time.Hour, []string{"h", "hr", "hrs", "hour", "hours"}},
		{"m", time.Minute, []string{"m", "min", "mins", "minute", "minutes"}},
		{"s", time.Second, []string{"s", "sec", "secs", "second", "seconds"}},
	}
	unitMap = func() map[string]time.Duration {
		m := make(map[string]time.Duration)
		for _, u := range units {
			for _, a := range u.aliases {
				m[a] = u.value
			}
		}
		return m
	}()
)

// ParseWindow parses a compact age window such as "1w", "3d" or "1mo2w" and
// returns the duration with its canonical spelling. An empty input yields a
// zero window, meaning "no age limit".
func ParseWindow(input string) (time.Duration, string, error) {
	remaining := strings.ToLower(strings.TrimSpace(input))
	if remaining == "" {
		return 0, "", nil
	}

	total := time.Duration(0)
	for len(remaining) > 0 {
		matches := windowPattern.FindStringSubmatch(remaining)
		if len(matches) != 3 {
			return 0, "", fmt.Errorf("invalid window segment %q", strings.TrimSpace(remaining))
		}
		value, err := strconv.ParseInt(matches[1], 10, 64)
		if err != nil {
			return 0, "", fmt.Errorf("invalid window value %q: %w", matches[1], err)
		}
		base, ok := unitMap[matches[2]]
		if !ok {
			return 0, "", fmt.Errorf("unsupported window unit %q", matches[2])
		}
		total += time.Duration(value) * base
		remaining = remaining[len(matches[0]):]
	}

	if total <= 0 {
		return 0, "", fmt.Errorf("window must be greater than zero")
	}
	return total, FormatWindow(total), nil
}

// FormatWindow renders d with the largest units first, e.g. "1mo2w".
func FormatWindow(d time.Duration) string {
	if d <= 0 {
		return "0s"
	}
	var b strings.Builder
	remaining := d
	for _, u := range units {
		if remaining < u.value {
			continue
		}
		count := remaining / u.value
		remaining -= count * u.value
		fmt.Fprintf(&b, "%d%s", count, u.label)
	}
	if b.Len() == 0 {
		return "0s"
	}
	return b.String()
}
