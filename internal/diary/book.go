package diary

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

const DefaultKey = "diaries"

var (
	ErrCorruptSnapshot = errors.New("diary: stored snapshot is malformed")
	ErrNotPersisted    = errors.New("diary: snapshot not persisted")
)

// Book holds one diary entry per date. Like calendar.Store it has a single
// owner and is not safe for concurrent use.
type Book struct {
	kv      storage.KV
	key     string
	entries map[string]string
}

func NewBook(kv storage.KV, key string) *Book {
	if key == "" {
		key = DefaultKey
	}
	return &Book{kv: kv, key: key, entries: make(map[string]string)}
}

func (b *Book) Key() string { return b.key }

// Load reads the persisted entries. A malformed snapshot leaves the book
// empty, is copied to <key>.corrupt, and returns an error wrapping
// ErrCorruptSnapshot.
func (b *Book) Load(ctx context.Context) error {
	b.entries = make(map[string]string)

	raw, err := b.kv.Get(ctx, b.key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("diary: read snapshot: %w", err)
	}

	var loaded map[string]string
	if err := json.Unmarshal([]byte(raw), &loaded); err != nil {
		backupKey := b.key + ".corrupt"
		if putErr := b.kv.Put(ctx, backupKey, raw); putErr != nil {
			applog.Error("diary corrupt snapshot backup failed", putErr, "key", backupKey)
		}
		applog.Error("diary snapshot malformed", err, "key", b.key)
		return fmt.Errorf("%w: %w", ErrCorruptSnapshot, err)
	}
	if loaded != nil {
		b.entries = loaded
	}
	applog.Info("diary snapshot loaded", "key", b.key, "entries", len(b.entries))
	return nil
}

func (b *Book) save(ctx context.Context) error {
	payload, err := json.Marshal(b.entries)
	if err != nil {
		return fmt.Errorf("diary: encode snapshot: %w", err)
	}
	if err := b.kv.Put(ctx, b.key, string(payload)); err != nil {
		return fmt.Errorf("%w: %w", ErrNotPersisted, err)
	}
	return nil
}

func (b *Book) Get(date string) (model.DiaryEntry, bool) {
	content, ok := b.entries[date]
	if !ok {
		return model.DiaryEntry{}, false
	}
	return model.DiaryEntry{Date: date, Content: content}, true
}

// Put validates entry against now and replaces whatever was written for its
// date. On validation failure the book is unchanged.
func (b *Book) Put(ctx context.Context, entry model.DiaryEntry, now time.Time) error {
	if err := entry.Validate(now); err != nil {
		return err
	}
	next := make(map[string]string, len(b.entries)+1)
	for date, content := range b.entries {
		next[date] = content
	}
	next[entry.Date] = entry.Content
	b.entries = next
	return b.save(ctx)
}

// Delete removes the entry for date and reports whether one existed.
func (b *Book) Delete(ctx context.Context, date string) (bool, error) {
	if _, ok := b.entries[date]; !ok {
		return false, nil
	}
	next := make(map[string]string, len(b.entries))
	for d, content := range b.entries {
		if d != date {
			next[d] = content
		}
	}
	b.entries = next
	return true, b.save(ctx)
}

// Entries lists every entry by date ascending.
func (b *Book) Entries() []model.DiaryEntry {
	out := make([]model.DiaryEntry, 0, len(b.entries))
	for date, content := range b.entries {
		out = append(out, model.DiaryEntry{Date: date, Content: content})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

func (b *Book) Len() int { return len(b.entries) }
