// Package register owns the duty entry collection. Every mutation is
// persisted through the injected Storage before it becomes visible.
package register

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/sadopc/dutyreg/internal/duty"
	"github.com/sadopc/dutyreg/internal/store"
)

var ErrNotFound = errors.New("entry not found")

// Storage loads and saves the full collection.
type Storage interface {
	Load() ([]duty.Entry, error)
	Save([]duty.Entry) error
}

type Register struct {
	mu      sync.Mutex
	storage Storage
	night   duty.NightWindow
	now     func() time.Time

	entries []duty.Entry
	lastID  int64
	warning string
}

type Option func(*Register)

// WithNightWindow overrides the 22:00-06:00 window used for new entries.
func WithNightWindow(w duty.NightWindow) Option {
	return func(r *Register) { r.night = w }
}

// WithClock sets the time source used for entry ids.
func WithClock(now func() time.Time) Option {
	return func(r *Register) { r.now = now }
}

// Open loads the collection from s. Unreadable stored data is not fatal:
// the register starts empty and Warning reports what happened.
func Open(s Storage, opts ...Option) (*Register, error) {
	r := &Register{
		storage: s,
		night:   duty.DefaultNight,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}

	entries, err := s.Load()
	switch {
	case errors.Is(err, store.ErrCorrupt):
		r.warning = fmt.Sprintf("Stored register was unreadable and has been reset: %v", err)
		log.Printf("warn: %v", err)
		entries = nil
	case err != nil:
		return nil, fmt.Errorf("load register: %w", err)
	}

	r.entries = append([]duty.Entry(nil), entries...)
	duty.SortByDate(r.entries)
	for _, e := range r.entries {
		if e.ID > r.lastID {
			r.lastID = e.ID
		}
	}
	return r, nil
}

// Warning returns the load problem, if any, once.
func (r *Register) Warning() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	w := r.warning
	r.warning = ""
	return w
}

// Add creates an entry from d, keeps the collection sorted by date and
// saves it. Nothing changes when validation or the save fails.
func (r *Register) Add(d duty.Draft) (duty.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, err := duty.NewEntry(r.nextID(), d, r.night)
	if err != nil {
		return duty.Entry{}, err
	}

	next := make([]duty.Entry, 0, len(r.entries)+1)
	next = append(next, r.entries...)
	next = append(next, e)
	duty.SortByDate(next)

	if err := r.storage.Save(next); err != nil {
		return duty.Entry{}, fmt.Errorf("save after add: %w", err)
	}
	r.entries = next
	log.Printf("added entry %d on %s (%s %s-%s, duty %.2f, night %.2f)",
		e.ID, e.Date, e.TrainNo, e.From, e.To, e.DutyHours, e.NightHours)
	return e, nil
}

// Delete removes the entry with the given id and saves the collection.
func (r *Register) Delete(id int64) (duty.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := -1
	for i, e := range r.entries {
		if e.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return duty.Entry{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}

	removed := r.entries[idx]
	next := make([]duty.Entry, 0, len(r.entries)-1)
	next = append(next, r.entries[:idx]...)
	next = append(next, r.entries[idx+1:]...)

	if err := r.storage.Save(next); err != nil {
		return duty.Entry{}, fmt.Errorf("save after delete: %w", err)
	}
	r.entries = next
	log.Printf("deleted entry %d on %s", removed.ID, removed.Date)
	return removed, nil
}

// Entries returns a copy of the whole collection in date order.
func (r *Register) Entries() []duty.Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]duty.Entry(nil), r.entries...)
}

// Month computes the view of one month from the current collection.
func (r *Register) Month(m duty.Month) duty.View {
	r.mu.Lock()
	defer r.mu.Unlock()
	return duty.MonthView(r.entries, m)
}

func (r *Register) NightWindow() duty.NightWindow {
	return r.night
}

// nextID hands out creation timestamps in milliseconds, bumped past the
// last id when the clock has not moved on.
func (r *Register) nextID() int64 {
	id := r.now().UnixMilli()
	if id <= r.lastID {
		id = r.lastID + 1
	}
	r.lastID = id
	return id
}
