package store

import (
	"encoding/json"
	"fmt"

	"github.com/sadopc/dutyreg/internal/duty"
)

// Slot stores the whole entry collection as one JSON array under a key.
type Slot struct {
	kv  KV
	key string
}

func NewSlot(kv KV, key string) *Slot {
	if key == "" {
		key = DefaultKey
	}
	return &Slot{kv: kv, key: key}
}

func (s *Slot) Key() string { return s.key }

// Load returns the stored entries, or none when the slot is empty. A value
// that does not decode is copied to "<key>.corrupt" and reported as
// ErrCorrupt together with an empty collection.
func (s *Slot) Load() ([]duty.Entry, error) {
	raw, found, err := s.kv.Get(s.key)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", s.key, err)
	}
	if !found || raw == "" {
		return []duty.Entry{}, nil
	}

	var entries []duty.Entry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		backup := s.key + ".corrupt"
		if berr := s.kv.Set(backup, raw); berr != nil {
			return []duty.Entry{}, fmt.Errorf("%w in %s (backup failed: %v): %v", ErrCorrupt, s.key, berr, err)
		}
		return []duty.Entry{}, fmt.Errorf("%w in %s (copied to %s): %v", ErrCorrupt, s.key, backup, err)
	}
	if entries == nil {
		entries = []duty.Entry{}
	}
	return entries, nil
}

// Save overwrites the slot with the full collection.
func (s *Slot) Save(entries []duty.Entry) error {
	if entries == nil {
		entries = []duty.Entry{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshal entries: %w", err)
	}
	if err := s.kv.Set(s.key, string(data)); err != nil {
		return fmt.Errorf("save %s: %w", s.key, err)
	}
	return nil
}
