// Package timefmt formats message timestamps for list and thread views.
package timefmt

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Layouts used for display.
const (
	LayoutClock    = "3:04 PM"
	LayoutWeekday  = "Mon"
	LayoutDate     = "Jan 2"
	LayoutDateYear = "Jan 2, 2006"
	LayoutFull     = "January 2, 2006 at 3:04 PM"
)

// Thresholds for picking a list layout.
const (
	day  = 24 * time.Hour
	week = 7 * day
	year = 365 * day
)

// Formatter renders timestamps in a resolved zone. Safe for concurrent use.
type Formatter struct {
	mu  sync.RWMutex
	loc *time.Location
	now func() time.Time
}

// New creates a Formatter rendering in loc. A nil loc means UTC.
func New(loc *time.Location) *Formatter {
	if loc == nil {
		loc = time.UTC
	}
	return &Formatter{loc: loc, now: time.Now}
}

// WithClock replaces the clock; used by tests.
func (f *Formatter) WithClock(now func() time.Time) *Formatter {
	f.mu.Lock()
	f.now = now
	f.mu.Unlock()
	return f
}

// SetLocation switches the display zone.
func (f *Formatter) SetLocation(loc *time.Location) {
	if loc == nil {
		return
	}
	f.mu.Lock()
	f.loc = loc
	f.mu.Unlock()
}

// Location returns the display zone.
func (f *Formatter) Location() *time.Location {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.loc
}

func (f *Formatter) snapshot() (*time.Location, time.Time) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.loc, f.now()
}

// FormatTime is the compact list/bubble format: clock time under a day,
// weekday under a week, otherwise a date that carries the year once the
// timestamp is more than a year old.
func (f *Formatter) FormatTime(ts time.Time) string {
	loc, now := f.snapshot()
	return formatList(ts, now, loc)
}

func formatList(ts, now time.Time, loc *time.Location) string {
	age := now.Sub(ts)
	local := ts.In(loc)
	switch {
	case age < day:
		return local.Format(LayoutClock)
	case age < week:
		return local.Format(LayoutWeekday)
	case age > year:
		return local.Format(LayoutDateYear)
	default:
		return local.Format(LayoutDate)
	}
}

// FullDateTime renders e.g. "March 4, 2026 at 9:15 AM".
func (f *Formatter) FullDateTime(ts time.Time) string {
	loc, _ := f.snapshot()
	return ts.In(loc).Format(LayoutFull)
}

// Relative renders "Just now", "5 minutes ago" and so on, falling back to
// the list format after a week.
func (f *Formatter) Relative(ts time.Time) string {
	loc, now := f.snapshot()
	minutes := int(now.Sub(ts) / time.Minute)
	if minutes < 1 {
		return "Just now"
	}
	if minutes < 60 {
		return plural(minutes, "minute") + " ago"
	}
	hours := minutes / 60
	if hours < 24 {
		return plural(hours, "hour") + " ago"
	}
	days := hours / 24
	if days < 7 {
		return plural(days, "day") + " ago"
	}
	return formatList(ts, now, loc)
}

// Tooltip combines the full and relative forms: "full (relative)".
func (f *Formatter) Tooltip(ts time.Time) string {
	return f.FullDateTime(ts) + " (" + f.Relative(ts) + ")"
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

var parseLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
}

// Parse reads a backend timestamp. Offsets are honoured; naive timestamps
// are taken as UTC, which is how the backend stores them.
func Parse(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	for _, layout := range parseLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}
