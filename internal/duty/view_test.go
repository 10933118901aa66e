package duty

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func mustEntry(t *testing.T, id int64, d Draft) Entry {
	t.Helper()
	e, err := NewEntry(id, d, DefaultNight)
	if err != nil {
		t.Fatalf("NewEntry(%+v): %v", d, err)
	}
	return e
}

func sampleEntries(t *testing.T) []Entry {
	t.Helper()
	return []Entry{
		mustEntry(t, 1, Draft{Date: "2024-06-12", SignOn: "08:00", SignOff: "16:00", Km: "120"}),
		mustEntry(t, 2, Draft{Date: "2024-05-31", SignOn: "22:00", SignOff: "06:00", Km: "300"}),
		mustEntry(t, 3, Draft{Date: "2024-06-10", SignOn: "22:30", SignOff: "05:15", Km: "450"}),
		mustEntry(t, 4, Draft{Date: "2024-06-12", SignOn: "18:00", SignOff: "23:30", Km: "80.5"}),
		mustEntry(t, 5, Draft{Date: "2024-07-01", SignOn: "10:00", SignOff: "12:00", Km: "10"}),
		mustEntry(t, 6, Draft{Date: "2024-06-20", Km: "abc"}),
	}
}

// ============================================================
// MonthView
// ============================================================

func TestMonthViewFiltersAndSorts(t *testing.T) {
	v := MonthView(sampleEntries(t), Month{Year: 2024, Month: time.June})

	var ids []int64
	for _, r := range v.Rows {
		ids = append(ids, r.ID)
	}
	want := []int64{3, 1, 4, 6}
	if len(ids) != len(want) {
		t.Fatalf("ids = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("ids = %v, want %v", ids, want)
		}
	}
}

func TestMonthViewProgressive(t *testing.T) {
	v := MonthView(sampleEntries(t), Month{Year: 2024, Month: time.June})

	wantKm := []float64{450, 570, 650.5, 650.5}
	wantDuty := []float64{6.75, 14.75, 20.25, 20.25}
	for i, r := range v.Rows {
		if r.ProgressiveKm != wantKm[i] {
			t.Errorf("row %d progressiveKm = %v, want %v", i, r.ProgressiveKm, wantKm[i])
		}
		if r.ProgressiveDuty != wantDuty[i] {
			t.Errorf("row %d progressiveDuty = %v, want %v", i, r.ProgressiveDuty, wantDuty[i])
		}
	}
}

func TestMonthViewTotals(t *testing.T) {
	v := MonthView(sampleEntries(t), Month{Year: 2024, Month: time.June})

	want := Totals{Count: 4, Km: 650.5, DutyHours: 20.25, NightHours: 8.25}
	if v.Totals != want {
		t.Fatalf("totals = %+v, want %+v", v.Totals, want)
	}
}

func TestMonthViewProgressiveMatchesTotals(t *testing.T) {
	var entries []Entry
	for i := 1; i <= 28; i++ {
		entries = append(entries, mustEntry(t, int64(i), Draft{
			Date:    "2024-02-" + twoDigits(i),
			SignOn:  clock(i%24, 10),
			SignOff: clock((i*7)%24, 35),
			Km:      FormatNumber(float64(i) * 12.3),
		}))
	}
	v := MonthView(entries, Month{Year: 2024, Month: time.February})

	var prevKm, prevDuty float64
	for i, r := range v.Rows {
		if r.ProgressiveKm < prevKm || r.ProgressiveDuty < prevDuty {
			t.Fatalf("row %d decreased: km %v -> %v, duty %v -> %v", i, prevKm, r.ProgressiveKm, prevDuty, r.ProgressiveDuty)
		}
		prevKm, prevDuty = r.ProgressiveKm, r.ProgressiveDuty
	}
	last := v.Rows[len(v.Rows)-1]
	if last.ProgressiveKm != v.Totals.Km {
		t.Fatalf("final progressive km %v != total %v", last.ProgressiveKm, v.Totals.Km)
	}
	if last.ProgressiveDuty != v.Totals.DutyHours {
		t.Fatalf("final progressive duty %v != total %v", last.ProgressiveDuty, v.Totals.DutyHours)
	}
}

func TestMonthViewTiesKeepInsertionOrder(t *testing.T) {
	entries := []Entry{
		{ID: 10, Date: "2024-06-05"},
		{ID: 11, Date: "2024-06-01"},
		{ID: 12, Date: "2024-06-05"},
		{ID: 13, Date: "2024-06-05"},
	}
	v := MonthView(entries, Month{Year: 2024, Month: time.June})
	want := []int64{11, 10, 12, 13}
	for i, r := range v.Rows {
		if r.ID != want[i] {
			t.Fatalf("row %d id = %d, want %d", i, r.ID, want[i])
		}
	}
}

func TestMonthViewEmpty(t *testing.T) {
	v := MonthView(sampleEntries(t), Month{Year: 2023, Month: time.January})
	if len(v.Rows) != 0 {
		t.Fatalf("expected no rows, got %d", len(v.Rows))
	}
	if v.Totals != (Totals{}) {
		t.Fatalf("expected zero totals, got %+v", v.Totals)
	}
}

func TestMonthViewDoesNotModifyInput(t *testing.T) {
	entries := sampleEntries(t)
	before := make([]int64, len(entries))
	for i, e := range entries {
		before[i] = e.ID
	}
	MonthView(entries, Month{Year: 2024, Month: time.June})
	for i, e := range entries {
		if e.ID != before[i] {
			t.Fatalf("input reordered at %d", i)
		}
	}
}

func TestTotalsString(t *testing.T) {
	got := Totals{Km: 650.5, DutyHours: 20.25, NightHours: 8}.String()
	want := "Total Km: 650.5 | Duty Hrs: 20.25 | Night Hrs: 8.00"
	if got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}

// ============================================================
// Days
// ============================================================

func TestViewDays(t *testing.T) {
	v := MonthView(sampleEntries(t), Month{Year: 2024, Month: time.June})
	days := v.Days()
	if len(days) != 30 {
		t.Fatalf("expected 30 days, got %d", len(days))
	}
	d12 := days[11]
	if d12.Date != "2024-06-12" || d12.Count != 2 {
		t.Fatalf("day 12 = %+v", d12)
	}
	if d12.DutyHours != 13.5 || d12.NightHours != 1.5 || d12.Km != 200.5 {
		t.Fatalf("day 12 sums = %+v", d12)
	}
	if days[0].Count != 0 || days[0].DutyHours != 0 {
		t.Fatalf("day 1 should be empty, got %+v", days[0])
	}
}

func TestViewJSON(t *testing.T) {
	v := MonthView(sampleEntries(t)[2:3], Month{Year: 2024, Month: time.June})
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	s := string(data)
	for _, want := range []string{`"month":"2024-06"`, `"progressiveKm":450`, `"dutyHours":6.75`, `"trainNo":""`} {
		if !strings.Contains(s, want) {
			t.Errorf("JSON missing %s: %s", want, s)
		}
	}
}

func twoDigits(n int) string {
	if n < 10 {
		return "0" + FormatNumber(float64(n))
	}
	return FormatNumber(float64(n))
}
