package web

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/sadopc/dutyreg/internal/duty"
	"github.com/sadopc/dutyreg/internal/register"
	"github.com/sadopc/dutyreg/internal/store"
)

func newTestServer(t *testing.T) (*Server, *register.Register) {
	t.Helper()
	s, err := store.NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	reg, err := register.Open(store.NewSlot(s, store.DefaultKey))
	if err != nil {
		t.Fatalf("open register: %v", err)
	}
	clock := func() time.Time { return time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC) }
	return New(reg, WithClock(clock)), reg
}

func addSample(t *testing.T, reg *register.Register) duty.Entry {
	t.Helper()
	e, err := reg.Add(duty.Draft{
		Date: "2024-06-10", TrainNo: "12051", From: "MAO", To: "CBE",
		SignOn: "22:30", SignOff: "05:15", Km: "450", PR: "PR",
	})
	if err != nil {
		t.Fatal(err)
	}
	return e
}

func do(t *testing.T, h http.Handler, method, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// ============================================================
// Page
// ============================================================

func TestIndexShowsMonth(t *testing.T) {
	srv, reg := newTestServer(t)
	addSample(t, reg)

	rec := do(t, srv.Handler(), "GET", "/?month=2024-06", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"June 2024", "12051", "Total Km: 450 | Duty Hrs: 6.75 | Night Hrs: 6.75", "window.print()"} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}
}

func TestIndexDefaultsToCurrentMonth(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := do(t, srv.Handler(), "GET", "/", nil)
	body := rec.Body.String()
	if !strings.Contains(body, "June 2024") {
		t.Fatal("expected the clock's month")
	}
	if !strings.Contains(body, "No entries") {
		t.Fatal("expected empty table message")
	}
}

func TestIndexOtherMonthEmpty(t *testing.T) {
	srv, reg := newTestServer(t)
	addSample(t, reg)
	body := do(t, srv.Handler(), "GET", "/?month=2024-07", nil).Body.String()
	if strings.Contains(body, "12051") {
		t.Fatal("June entry shown in July")
	}
	if !strings.Contains(body, "Total Km: 0 | Duty Hrs: 0.00 | Night Hrs: 0.00") {
		t.Fatal("expected zero totals")
	}
}

func TestUnknownPath(t *testing.T) {
	srv, _ := newTestServer(t)
	if rec := do(t, srv.Handler(), "GET", "/nope", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

// ============================================================
// Add / Delete
// ============================================================

func TestAddRedirects(t *testing.T) {
	srv, reg := newTestServer(t)
	rec := do(t, srv.Handler(), "POST", "/entries", url.Values{
		"month": {"2024-06"}, "date": {"2024-06-10"}, "trainNo": {"12051"},
		"signOn": {"22:30"}, "signOff": {"05:15"}, "km": {"450"}, "pr": {"PR"},
	})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/?month=2024-06" {
		t.Fatalf("location = %q", loc)
	}
	entries := reg.Entries()
	if len(entries) != 1 || entries[0].DutyHours != 6.75 || entries[0].NightHours != 6.75 {
		t.Fatalf("entries = %+v", entries)
	}
}

func TestAddWithoutDate(t *testing.T) {
	srv, reg := newTestServer(t)
	rec := do(t, srv.Handler(), "POST", "/entries", url.Values{"month": {"2024-06"}, "trainNo": {"12051"}})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Please select date") {
		t.Fatal("missing date message")
	}
	// the typed values are kept in the form
	if !strings.Contains(body, `value="12051"`) {
		t.Fatal("draft not echoed back")
	}
	if len(reg.Entries()) != 0 {
		t.Fatal("no entry should be created")
	}
}

func TestAddBadTime(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := do(t, srv.Handler(), "POST", "/entries", url.Values{"date": {"2024-06-10"}, "signOn": {"25:99"}})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestDelete(t *testing.T) {
	srv, reg := newTestServer(t)
	e := addSample(t, reg)

	target := "/entries/" + strconv.FormatInt(e.ID, 10) + "/delete"
	rec := do(t, srv.Handler(), "POST", target, url.Values{"month": {"2024-06"}})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if len(reg.Entries()) != 0 {
		t.Fatal("entry not deleted")
	}
}

func TestDeleteUnknown(t *testing.T) {
	srv, reg := newTestServer(t)
	addSample(t, reg)
	if rec := do(t, srv.Handler(), "POST", "/entries/42/delete", url.Values{}); rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if rec := do(t, srv.Handler(), "POST", "/entries/abc/delete", url.Values{}); rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if len(reg.Entries()) != 1 {
		t.Fatal("entry should survive")
	}
}

// ============================================================
// Export
// ============================================================

func TestExportCSV(t *testing.T) {
	srv, reg := newTestServer(t)
	addSample(t, reg)

	rec := do(t, srv.Handler(), "GET", "/export.csv?month=2024-06", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Fatalf("content type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "duty_2024-06.csv") {
		t.Fatalf("content disposition = %q", cd)
	}
	want := "Date,Train No,From,To,Sign On,Sign Off,Duty Hours,Night Hours,PR,KM,Prog KM,Prog Duty,Remarks\n" +
		"2024-06-10,12051,MAO,CBE,22:30,05:15,6.75,6.75,PR,450,450,6.75,\n"
	if got := rec.Body.String(); got != want {
		t.Fatalf("csv:\n got %q\nwant %q", got, want)
	}
}

// ============================================================
// Serve
// ============================================================

func TestServeStopsOnCancel(t *testing.T) {
	srv, _ := newTestServer(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("serve returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
