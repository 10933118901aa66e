package store

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/sadopc/dutyreg/internal/duty"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func newTestFileKV(t *testing.T) *FileKV {
	t.Helper()
	f, err := NewFileKV(filepath.Join(t.TempDir(), "data"))
	if err != nil {
		t.Fatalf("new file kv: %v", err)
	}
	return f
}

func sampleEntries() []duty.Entry {
	return []duty.Entry{
		{
			ID: 1718040000000, Date: "2024-06-10", TrainNo: "12051", From: "MAO", To: "CBE",
			SignOn: "22:30", SignOff: "05:15", Km: 450, PR: "PR", DutyHours: 6.75, NightHours: 6.75,
		},
		{
			ID: 1718040000001, Date: "2024-06-11", TrainNo: "10103", From: "CBE", To: "MAO",
			SignOn: "08:00", SignOff: "16:00", Km: 80.5, PR: "WAIT", Remarks: "late, \"spare\"", DutyHours: 8,
		},
	}
}

// ============================================================
// Store initialization
// ============================================================

func TestNewMemory(t *testing.T) {
	s, err := NewMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	var version int
	s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if version != 1 {
		t.Fatalf("expected user_version 1, got %d", version)
	}
}

func TestNewWithPath(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/sub/dutyreg.db"
	s, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Set("k", "v"); err != nil {
		t.Fatal(err)
	}
	s.Close()

	// Reopen, should keep data and not re-migrate.
	s2, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()
	v, found, err := s2.Get("k")
	if err != nil || !found || v != "v" {
		t.Fatalf("Get after reopen = %q, %v, %v", v, found, err)
	}
}

func TestDefaultDBPath(t *testing.T) {
	path, err := DefaultDBPath()
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(path) != "dutyreg.db" {
		t.Fatalf("unexpected path %q", path)
	}
}

func TestMigrationIdempotent(t *testing.T) {
	s := newTestStore(t)
	if err := s.migrate(); err != nil {
		t.Fatalf("second migration failed: %v", err)
	}
}

// ============================================================
// Key/value backends
// ============================================================

func testKV(t *testing.T, kv KV) {
	t.Helper()

	if _, found, err := kv.Get("missing"); err != nil || found {
		t.Fatalf("Get(missing) found=%v err=%v", found, err)
	}

	if err := kv.Set("a", "1"); err != nil {
		t.Fatal(err)
	}
	if err := kv.Set("a", "2"); err != nil {
		t.Fatal(err)
	}
	v, found, err := kv.Get("a")
	if err != nil || !found || v != "2" {
		t.Fatalf("Get(a) = %q, %v, %v; want 2", v, found, err)
	}

	if err := kv.Delete("a"); err != nil {
		t.Fatal(err)
	}
	if _, found, _ := kv.Get("a"); found {
		t.Fatal("a should be gone after Delete")
	}
	if err := kv.Delete("a"); err != nil {
		t.Fatalf("deleting a missing key should not fail: %v", err)
	}
}

func TestSQLiteKV(t *testing.T) {
	testKV(t, newTestStore(t))
}

func TestFileKV(t *testing.T) {
	testKV(t, newTestFileKV(t))
}

func TestSQLiteKeys(t *testing.T) {
	s := newTestStore(t)
	s.Set("b", "2")
	s.Set("a", "1")
	keys, err := s.Keys()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(keys, []string{"a", "b"}) {
		t.Fatalf("keys = %v", keys)
	}
}

func TestFileKVRejectsPathKeys(t *testing.T) {
	f := newTestFileKV(t)
	for _, k := range []string{"", "../escape", "a/b", `a\b`, ".."} {
		if err := f.Set(k, "x"); err == nil {
			t.Errorf("Set(%q) should fail", k)
		}
	}
}

func TestFileKVLeavesNoTempFile(t *testing.T) {
	f := newTestFileKV(t)
	if err := f.Set(DefaultKey, "[]"); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(f.Dir(), DefaultKey+".json.tmp")); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind: %v", err)
	}
	if _, err := os.Stat(filepath.Join(f.Dir(), DefaultKey+".json")); err != nil {
		t.Fatalf("value file missing: %v", err)
	}
}

// ============================================================
// Slot
// ============================================================

func TestSlotEmpty(t *testing.T) {
	slot := NewSlot(newTestStore(t), "")
	if slot.Key() != DefaultKey {
		t.Fatalf("key = %q, want %q", slot.Key(), DefaultKey)
	}
	entries, err := slot.Load()
	if err != nil {
		t.Fatal(err)
	}
	if entries == nil || len(entries) != 0 {
		t.Fatalf("expected empty non-nil collection, got %v", entries)
	}
}

func TestSlotRoundTrip(t *testing.T) {
	backends := map[string]KV{
		"sqlite": newTestStore(t),
		"file":   newTestFileKV(t),
	}
	for name, kv := range backends {
		t.Run(name, func(t *testing.T) {
			slot := NewSlot(kv, DefaultKey)
			want := sampleEntries()
			if err := slot.Save(want); err != nil {
				t.Fatal(err)
			}
			got, err := NewSlot(kv, DefaultKey).Load()
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(got, want) {
				t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, want)
			}
		})
	}
}

func TestSlotSaveOverwrites(t *testing.T) {
	slot := NewSlot(newTestStore(t), DefaultKey)
	slot.Save(sampleEntries())
	if err := slot.Save(sampleEntries()[:1]); err != nil {
		t.Fatal(err)
	}
	got, _ := slot.Load()
	if len(got) != 1 {
		t.Fatalf("expected 1 entry after overwrite, got %d", len(got))
	}
}

func TestSlotSaveNil(t *testing.T) {
	s := newTestStore(t)
	slot := NewSlot(s, DefaultKey)
	if err := slot.Save(nil); err != nil {
		t.Fatal(err)
	}
	raw, _, _ := s.Get(DefaultKey)
	if raw != "[]" {
		t.Fatalf("stored %q, want []", raw)
	}
}

func TestSlotStorageFormat(t *testing.T) {
	s := newTestStore(t)
	slot := NewSlot(s, DefaultKey)
	slot.Save(sampleEntries()[:1])

	raw, _, _ := s.Get(DefaultKey)
	want := `[{"id":1718040000000,"date":"2024-06-10","trainNo":"12051","from":"MAO","to":"CBE",` +
		`"signOn":"22:30","signOff":"05:15","km":450,"pr":"PR","remarks":"","dutyHours":6.75,"nightHours":6.75}]`
	if raw != want {
		t.Fatalf("stored value:\n got %s\nwant %s", raw, want)
	}
}

func TestSlotReadsBrowserExport(t *testing.T) {
	s := newTestStore(t)
	s.Set(DefaultKey, `[{"id":1718040000000,"date":"2024-06-10","trainNo":"12051","from":"MAO","to":"CBE",`+
		`"signOn":"22:30","signOff":"05:15","km":450,"pr":"PR","remarks":"","dutyHours":6.75,"nightHours":6.75}]`)

	entries, err := NewSlot(s, DefaultKey).Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].TrainNo != "12051" || entries[0].NightHours != 6.75 {
		t.Fatalf("unexpected entries %+v", entries)
	}
}

func TestSlotCorrupt(t *testing.T) {
	s := newTestStore(t)
	s.Set(DefaultKey, "{not json")

	entries, err := NewSlot(s, DefaultKey).Load()
	if !errors.Is(err, ErrCorrupt) {
		t.Fatalf("err = %v, want ErrCorrupt", err)
	}
	if entries == nil || len(entries) != 0 {
		t.Fatalf("corrupt slot should load as empty, got %v", entries)
	}

	backup, found, _ := s.Get(DefaultKey + ".corrupt")
	if !found || backup != "{not json" {
		t.Fatalf("backup = %q, found %v", backup, found)
	}
}

func TestSlotNullValue(t *testing.T) {
	s := newTestStore(t)
	s.Set(DefaultKey, "null")
	entries, err := NewSlot(s, DefaultKey).Load()
	if err != nil {
		t.Fatal(err)
	}
	if entries == nil || len(entries) != 0 {
		t.Fatalf("null should load as empty, got %v", entries)
	}
}

func TestCloseStore(t *testing.T) {
	s, _ := NewMemory()
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if err := s.Set("k", "v"); err == nil {
		t.Fatal("expected error after close")
	}
}
