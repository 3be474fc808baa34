package calendar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	applog "github.com/sandeepkv93/lifecal/internal/log"
	"github.com/sandeepkv93/lifecal/internal/model"
	"github.com/sandeepkv93/lifecal/internal/storage"
)

const DefaultKey = "calendarEvents"

var (
	ErrEventNotFound   = errors.New("calendar: event not found")
	ErrCorruptSnapshot = errors.New("calendar: stored snapshot is malformed")
	ErrNotPersisted    = errors.New("calendar: snapshot not persisted")
)

// Snapshot maps a date string to the events filed under it, in insertion order.
type Snapshot map[string][]model.Event

// Clone returns a deep copy.
func (s Snapshot) Clone() Snapshot {
	out := make(Snapshot, len(s))
	for date, events := range s {
		out[date] = append([]model.Event(nil), events...)
	}
	return out
}

// Len counts events across all dates.
func (s Snapshot) Len() int {
	n := 0
	for _, events := range s {
		n += len(events)
	}
	return n
}

// Store is the date-keyed event collection backed by a storage.KV. It is
// owned by a single caller and is not safe for concurrent use.
type Store struct {
	kv     storage.KV
	key    string
	now    func() time.Time
	days   Snapshot
	lastID int64
}

type Option func(*Store)

func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

func NewStore(kv storage.KV, opts ...Option) *Store {
	s := &Store{
		kv:   kv,
		key:  DefaultKey,
		now:  time.Now,
		days: make(Snapshot),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Key() string { return s.key }

// Load replaces the in-memory collection with the persisted snapshot. A
// missing snapshot yields an empty store. A malformed one also yields an
// empty store; its raw value is copied to <key>.corrupt and the returned
// error wraps ErrCorruptSnapshot.
func (s *Store) Load(ctx context.Context) error {
	s.days = make(Snapshot)
	s.lastID = 0

	raw, err := s.kv.Get(ctx, s.key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			applog.Debug("calendar snapshot absent", "key", s.key)
			return nil
		}
		return fmt.Errorf("calendar: read snapshot: %w", err)
	}

	var loaded Snapshot
	if err := json.Unmarshal([]byte(raw), &loaded); err != nil {
		backupKey := s.key + ".corrupt"
		if putErr := s.kv.Put(ctx, backupKey, raw); putErr != nil {
			applog.Error("calendar corrupt snapshot backup failed", putErr, "key", backupKey)
		}
		applog.Error("calendar snapshot malformed", err, "key", s.key, "backup", backupKey)
		return fmt.Errorf("%w: %w", ErrCorruptSnapshot, err)
	}
	if loaded == nil {
		loaded = make(Snapshot)
	}
	s.days = dropDuplicateIDs(loaded)
	for _, events := range s.days {
		for _, ev := range events {
			if ev.ID > s.lastID {
				s.lastID = ev.ID
			}
		}
	}
	applog.Info("calendar snapshot loaded", "key", s.key, "dates", len(s.days), "events", s.days.Len())
	return nil
}

// Save writes the full collection, replacing the previous snapshot.
func (s *Store) Save(ctx context.Context) error {
	payload, err := json.Marshal(s.days)
	if err != nil {
		return fmt.Errorf("calendar: encode snapshot: %w", err)
	}
	if err := s.kv.Put(ctx, s.key, string(payload)); err != nil {
		return fmt.Errorf("%w: %w", ErrNotPersisted, err)
	}
	return nil
}

// Upsert validates draft and files it under draft.Date. A draft with ID 0 is
// appended with a fresh id. A known id is replaced in place when it already
// lives under draft.Date, and moved there from its old date otherwise.
//
// On validation failure the store is unchanged. When the write-through fails
// the in-memory change is kept and the error wraps ErrNotPersisted.
func (s *Store) Upsert(ctx context.Context, draft model.Event) (model.Event, error) {
	if err := draft.Validate(); err != nil {
		return model.Event{}, err
	}

	next := s.days.Clone()
	if draft.IsNew() {
		draft.ID = s.nextID()
		next[draft.Date] = append(next[draft.Date], draft)
	} else {
		oldDate, idx := draft.Date, indexOf(next[draft.Date], draft.ID)
		if idx < 0 {
			var ok bool
			if oldDate, idx, ok = s.locate(draft.ID); !ok {
				return model.Event{}, fmt.Errorf("%w: %d", ErrEventNotFound, draft.ID)
			}
		}
		if oldDate == draft.Date {
			next[draft.Date][idx] = draft
		} else {
			bucket := next[oldDate]
			next[oldDate] = append(bucket[:idx:idx], bucket[idx+1:]...)
			next[draft.Date] = append(next[draft.Date], draft)
			applog.Debug("calendar event moved", "id", draft.ID, "from", oldDate, "to", draft.Date)
		}
	}
	s.days = next
	return draft, s.Save(ctx)
}

// AddAll upserts drafts one by one. Drafts that fail validation are counted
// as rejected and skipped. A persistence failure does not stop the batch; the
// last one is returned once every draft has been applied.
func (s *Store) AddAll(ctx context.Context, drafts []model.Event) (added, rejected int, err error) {
	for _, draft := range drafts {
		_, upErr := s.Upsert(ctx, draft)
		switch {
		case upErr == nil:
			added++
		case errors.Is(upErr, ErrNotPersisted):
			added++
			err = upErr
		default:
			applog.Debug("calendar draft rejected", "title", draft.Title, "reason", upErr.Error())
			rejected++
		}
	}
	return added, rejected, err
}

// Remove deletes the event with id from the bucket for date. It reports
// whether an event was removed; a missing id is a no-op. An emptied bucket
// stays as an empty list.
func (s *Store) Remove(ctx context.Context, date string, id int64) (bool, error) {
	bucket := s.days[date]
	idx := indexOf(bucket, id)
	if idx < 0 {
		return false, nil
	}
	next := s.days.Clone()
	next[date] = append(next[date][:idx:idx], next[date][idx+1:]...)
	s.days = next
	return true, s.Save(ctx)
}

// EventsOn returns a copy of the events filed under date.
func (s *Store) EventsOn(date string) []model.Event {
	return append([]model.Event{}, s.days[date]...)
}

func (s *Store) ColorOf(e model.Event) string {
	return model.ColorOf(e)
}

// Find looks an event up by id across all dates.
func (s *Store) Find(id int64) (model.Event, bool) {
	date, idx, ok := s.locate(id)
	if !ok {
		return model.Event{}, false
	}
	return s.days[date][idx], true
}

// Dates returns the dates that hold at least one event, ascending.
func (s *Store) Dates() []string {
	out := make([]string, 0, len(s.days))
	for date, events := range s.days {
		if len(events) > 0 {
			out = append(out, date)
		}
	}
	sort.Strings(out)
	return out
}

// Between returns events dated from..to inclusive, ordered by date then
// bucket order. Empty bounds are open.
func (s *Store) Between(from, to string) []model.Event {
	out := make([]model.Event, 0)
	for _, date := range s.Dates() {
		if from != "" && date < from {
			continue
		}
		if to != "" && date > to {
			continue
		}
		out = append(out, s.days[date]...)
	}
	return out
}

func (s *Store) Snapshot() Snapshot {
	return s.days.Clone()
}

func (s *Store) Len() int {
	return s.days.Len()
}

// nextID hands out millisecond timestamps, bumped past the largest id seen so
// ids stay unique even when the clock stalls or goes backwards.
func (s *Store) nextID() int64 {
	id := s.now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

func (s *Store) locate(id int64) (string, int, bool) {
	for date, events := range s.days {
		if idx := indexOf(events, id); idx >= 0 {
			return date, idx, true
		}
	}
	return "", -1, false
}

// dropDuplicateIDs keeps the first event for each id, walking dates in
// ascending order, so an id lives in exactly one bucket.
func dropDuplicateIDs(days Snapshot) Snapshot {
	dates := make([]string, 0, len(days))
	for date := range days {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	seen := make(map[int64]string)
	for _, date := range dates {
		events := days[date]
		kept := events[:0:0]
		for _, ev := range events {
			if first, dup := seen[ev.ID]; dup {
				applog.Error("calendar duplicate event id dropped", ErrCorruptSnapshot, "id", ev.ID, "kept", first, "dropped", date)
				continue
			}
			seen[ev.ID] = date
			kept = append(kept, ev)
		}
		days[date] = kept
	}
	return days
}

func indexOf(events []model.Event, id int64) int {
	for i, ev := range events {
		if ev.ID == id {
			return i
		}
	}
	return -1
}
