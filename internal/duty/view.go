package duty

import (
	"fmt"
	"sort"
	"time"
)

// Row is an entry enriched with the running sums of its month.
type Row struct {
	Entry
	ProgressiveKm   float64 `json:"progressiveKm"`
	ProgressiveDuty float64 `json:"progressiveDuty"`
}

// Totals are the month sums. Km is left unrounded.
type Totals struct {
	Count      int     `json:"count"`
	Km         float64 `json:"km"`
	DutyHours  float64 `json:"dutyHours"`
	NightHours float64 `json:"nightHours"`
}

func (t Totals) String() string {
	return fmt.Sprintf("Total Km: %s | Duty Hrs: %.2f | Night Hrs: %.2f",
		FormatNumber(t.Km), t.DutyHours, t.NightHours)
}

// View is the selected month's rows in display order plus its totals.
type View struct {
	Month  Month  `json:"month"`
	Rows   []Row  `json:"rows"`
	Totals Totals `json:"totals"`
}

// DaySummary aggregates the rows of one calendar day.
type DaySummary struct {
	Day        int
	Date       string
	Count      int
	Km         float64
	DutyHours  float64
	NightHours float64
}

// SortByDate orders entries by date, keeping insertion order for ties.
func SortByDate(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date < entries[j].Date
	})
}

// MonthView filters entries to m, sorts them and computes the running sums
// and totals. It never modifies entries.
func MonthView(entries []Entry, m Month) View {
	var subset []Entry
	for _, e := range entries {
		if m.Contains(e.Date) {
			subset = append(subset, e)
		}
	}
	SortByDate(subset)

	v := View{Month: m}
	var progKm, progDuty, night float64
	for _, e := range subset {
		progKm += e.Km
		progDuty += e.DutyHours
		night += e.NightHours
		v.Rows = append(v.Rows, Row{
			Entry:           e,
			ProgressiveKm:   progKm,
			ProgressiveDuty: Round2(progDuty),
		})
	}
	v.Totals = Totals{
		Count:      len(subset),
		Km:         progKm,
		DutyHours:  Round2(progDuty),
		NightHours: Round2(night),
	}
	return v
}

// Days returns one summary per calendar day of the month, empty days
// included, for charting.
func (v View) Days() []DaySummary {
	n := v.Month.Days()
	days := make([]DaySummary, n)
	for i := range days {
		days[i].Day = i + 1
		days[i].Date = fmt.Sprintf("%s-%02d", v.Month, i+1)
	}
	for _, r := range v.Rows {
		t, err := time.Parse(dateLayout, r.Date)
		if err != nil || t.Day() > n {
			continue
		}
		d := &days[t.Day()-1]
		d.Count++
		d.Km += r.Km
		d.DutyHours = Round2(d.DutyHours + r.DutyHours)
		d.NightHours = Round2(d.NightHours + r.NightHours)
	}
	return days
}
