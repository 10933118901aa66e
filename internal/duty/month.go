package duty

import (
	"fmt"
	"strings"
	"time"
)

// Month identifies a calendar month, rendered as YYYY-MM.
type Month struct {
	Year  int
	Month time.Month
}

func CurrentMonth(now time.Time) Month {
	return Month{Year: now.Year(), Month: now.Month()}
}

func ParseMonth(s string) (Month, error) {
	t, err := time.Parse("2006-01", strings.TrimSpace(s))
	if err != nil {
		return Month{}, fmt.Errorf("month must be YYYY-MM: %q", s)
	}
	return Month{Year: t.Year(), Month: t.Month()}, nil
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// Label is the human form, e.g. "June 2024".
func (m Month) Label() string {
	return m.first().Format("January 2006")
}

func (m Month) Next() Month { return CurrentMonth(m.first().AddDate(0, 1, 0)) }
func (m Month) Prev() Month { return CurrentMonth(m.first().AddDate(0, -1, 0)) }

// Days returns the number of days in the month.
func (m Month) Days() int {
	return m.first().AddDate(0, 1, -1).Day()
}

// Contains reports whether a YYYY-MM-DD date falls in the month.
func (m Month) Contains(date string) bool {
	return date != "" && strings.HasPrefix(date, m.String())
}

func (m Month) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Month) UnmarshalText(b []byte) error {
	parsed, err := ParseMonth(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

func (m Month) first() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}
