package duty

import (
	"fmt"
	"strings"
	"time"
)

// NightWindow is the recurring night period as offsets from midnight.
// An End at or before Start means the window runs into the next day.
type NightWindow struct {
	Start time.Duration
	End   time.Duration
}

// DefaultNight is the 22:00-06:00 window.
var DefaultNight = NightWindow{Start: 22 * time.Hour, End: 6 * time.Hour}

// NewNightWindow builds a window from two HH:MM strings.
func NewNightWindow(start, end string) (NightWindow, error) {
	s, err := ParseClock(start)
	if err != nil {
		return NightWindow{}, fmt.Errorf("night start %q: %w", start, err)
	}
	e, err := ParseClock(end)
	if err != nil {
		return NightWindow{}, fmt.Errorf("night end %q: %w", end, err)
	}
	if s == e {
		return NightWindow{}, fmt.Errorf("night window %s-%s is empty", start, end)
	}
	return NightWindow{Start: s, End: e}, nil
}

func (w NightWindow) String() string {
	return fmt.Sprintf("%s-%s", formatClock(w.Start), formatClock(w.End))
}

func (w NightWindow) StartClock() string { return formatClock(w.Start) }
func (w NightWindow) EndClock() string   { return formatClock(w.End) }

// Derive computes duty and night hours with the default night window.
func Derive(date, signOn, signOff string) (dutyHours, nightHours float64) {
	return DefaultNight.Derive(date, signOn, signOff)
}

// Derive returns the duty and night hours of a shift logged on date. A
// missing or unreadable time yields zero for both. A sign-off that is not
// after the sign-on is taken to fall on the next day.
func (w NightWindow) Derive(date, signOn, signOff string) (dutyHours, nightHours float64) {
	start, ok := combine(date, signOn)
	if !ok {
		return 0, 0
	}
	end, ok := combine(date, signOff)
	if !ok {
		return 0, 0
	}
	if !end.After(start) {
		end = end.Add(24 * time.Hour)
	}
	return Round2(end.Sub(start).Hours()), Round2(w.Overlap(start, end).Hours())
}

// Overlap sums the time between start and end that falls inside the night
// window. Iteration begins with the window opened the evening before
// start's day so that early-morning sign-ons are counted.
func (w NightWindow) Overlap(start, end time.Time) time.Duration {
	if !end.After(start) {
		return 0
	}
	var total time.Duration
	day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location()).AddDate(0, 0, -1)
	for {
		nightStart := day.Add(w.Start)
		if !nightStart.Before(end) {
			break
		}
		nightEnd := day.Add(w.End)
		if w.End <= w.Start {
			nightEnd = day.AddDate(0, 0, 1).Add(w.End)
		}

		lo, hi := start, end
		if nightStart.After(lo) {
			lo = nightStart
		}
		if nightEnd.Before(hi) {
			hi = nightEnd
		}
		if hi.After(lo) {
			total += hi.Sub(lo)
		}
		day = day.AddDate(0, 0, 1)
	}
	return total
}

// ParseClock reads HH:MM into an offset from midnight.
func ParseClock(s string) (time.Duration, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

func formatClock(d time.Duration) string {
	return fmt.Sprintf("%02d:%02d", int(d.Hours()), int(d.Minutes())%60)
}

// combine joins a date and a clock time into one instant. Times are kept in
// UTC so the arithmetic is plain wall-clock time.
func combine(date, clock string) (time.Time, bool) {
	if strings.TrimSpace(date) == "" || strings.TrimSpace(clock) == "" {
		return time.Time{}, false
	}
	day, err := time.Parse(dateLayout, strings.TrimSpace(date))
	if err != nil {
		return time.Time{}, false
	}
	offset, err := ParseClock(clock)
	if err != nil {
		return time.Time{}, false
	}
	return day.Add(offset), true
}
