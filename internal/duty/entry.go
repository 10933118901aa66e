package duty

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// PRCodes lists the accepted shift status codes. The empty code means "none".
var PRCodes = []string{"", "PR", "CNF", "WAIT", "LEAVE"}

var (
	ErrDateRequired = errors.New("please select date")
	ErrInvalidDate  = errors.New("date must be YYYY-MM-DD")
	ErrInvalidClock = errors.New("time must be HH:MM")
	ErrUnknownPR    = errors.New("unknown PR code")
)

// Entry is one logged duty shift. DutyHours and NightHours are derived
// when the entry is created and never edited afterwards.
type Entry struct {
	ID         int64   `json:"id"`
	Date       string  `json:"date"`
	TrainNo    string  `json:"trainNo"`
	From       string  `json:"from"`
	To         string  `json:"to"`
	SignOn     string  `json:"signOn"`
	SignOff    string  `json:"signOff"`
	Km         float64 `json:"km"`
	PR         string  `json:"pr"`
	Remarks    string  `json:"remarks"`
	DutyHours  float64 `json:"dutyHours"`
	NightHours float64 `json:"nightHours"`
}

// Draft holds the raw form values of an entry that has not been added yet.
type Draft struct {
	Date    string
	TrainNo string
	From    string
	To      string
	SignOn  string
	SignOff string
	Km      string
	PR      string
	Remarks string
}

// Validate performs the checks a submit needs: a date must be present and
// well formed, times (when given) must read HH:MM and the PR code must be known.
func (d Draft) Validate() error {
	if err := ValidateDate(d.Date); err != nil {
		return err
	}
	if err := ValidateClock(d.SignOn); err != nil {
		return fmt.Errorf("sign on: %w", err)
	}
	if err := ValidateClock(d.SignOff); err != nil {
		return fmt.Errorf("sign off: %w", err)
	}
	if !ValidPR(strings.TrimSpace(d.PR)) {
		return fmt.Errorf("%w %q", ErrUnknownPR, d.PR)
	}
	return nil
}

// NewEntry validates d and builds the entry with its derived hours.
func NewEntry(id int64, d Draft, w NightWindow) (Entry, error) {
	if err := d.Validate(); err != nil {
		return Entry{}, err
	}
	e := Entry{
		ID:      id,
		Date:    strings.TrimSpace(d.Date),
		TrainNo: strings.TrimSpace(d.TrainNo),
		From:    strings.TrimSpace(d.From),
		To:      strings.TrimSpace(d.To),
		SignOn:  strings.TrimSpace(d.SignOn),
		SignOff: strings.TrimSpace(d.SignOff),
		Km:      ParseKm(d.Km),
		PR:      strings.TrimSpace(d.PR),
		Remarks: strings.TrimSpace(d.Remarks),
	}
	e.DutyHours, e.NightHours = w.Derive(e.Date, e.SignOn, e.SignOff)
	return e, nil
}

// ValidateDate accepts YYYY-MM-DD and reports ErrDateRequired for blanks.
func ValidateDate(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return ErrDateRequired
	}
	if _, err := time.Parse(dateLayout, s); err != nil {
		return ErrInvalidDate
	}
	return nil
}

// ValidateClock accepts an empty string or HH:MM.
func ValidateClock(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if _, err := ParseClock(s); err != nil {
		return ErrInvalidClock
	}
	return nil
}

func ValidPR(code string) bool {
	for _, c := range PRCodes {
		if c == code {
			return true
		}
	}
	return false
}

// ParseKm coerces the typed distance to a non-negative number; anything
// that is not a finite, non-negative number becomes 0.
func ParseKm(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// FormatNumber renders v in its shortest decimal form: 450, 6.75, 0.5.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
