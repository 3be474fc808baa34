package calendar

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/sandeepkv93/lifecal/internal/model"
	"github.com/sandeepkv93/lifecal/internal/storage"
)

type failingKV struct {
	*storage.MemoryStore
	putErr error
}

func (f *failingKV) Put(ctx context.Context, key, value string) error {
	if f.putErr != nil {
		return f.putErr
	}
	return f.MemoryStore.Put(ctx, key, value)
}

func fixedClock(ms int64) func() time.Time {
	return func() time.Time { return time.UnixMilli(ms) }
}

func newTestStore(t *testing.T) (*Store, *storage.MemoryStore) {
	t.Helper()
	kv := storage.NewMemoryStore()
	store := NewStore(kv, WithClock(fixedClock(1714521600000)))
	if err := store.Load(t.Context()); err != nil {
		t.Fatalf("load empty store: %v", err)
	}
	return store, kv
}

func readDraft(date, title string) model.Event {
	d := EmptyDraft(date)
	d.Title = title
	return d
}

func TestUpsertNewEventIntoEmptyStore(t *testing.T) {
	store, kv := newTestStore(t)

	saved, err := store.Upsert(t.Context(), readDraft("2024-05-01", "Read"))
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if saved.ID == 0 {
		t.Fatal("expected a freshly assigned id")
	}

	got := store.EventsOn("2024-05-01")
	if len(got) != 1 {
		t.Fatalf("expected 1 event, got %d", len(got))
	}
	want := model.Event{
		ID:         saved.ID,
		Date:       "2024-05-01",
		Category:   model.CategoryStudy,
		Title:      "Read",
		Importance: model.ImportanceMedium,
	}
	if got[0] != want {
		t.Fatalf("unexpected event: %+v", got[0])
	}

	if _, err := kv.Get(t.Context(), DefaultKey); err != nil {
		t.Fatalf("expected snapshot to be persisted: %v", err)
	}
}

func TestUpsertAssignsUniqueIDsWhenClockStalls(t *testing.T) {
	store, _ := newTestStore(t)
	seen := make(map[int64]bool)
	for i := 0; i < 5; i++ {
		ev, err := store.Upsert(t.Context(), readDraft("2024-05-01", "same millisecond"))
		if err != nil {
			t.Fatalf("upsert %d: %v", i, err)
		}
		if seen[ev.ID] {
			t.Fatalf("duplicate id %d", ev.ID)
		}
		seen[ev.ID] = true
	}
	if n := len(store.EventsOn("2024-05-01")); n != 5 {
		t.Fatalf("expected 5 events, got %d", n)
	}
}

func TestUpsertEmptyTitleLeavesStoreUnchanged(t *testing.T) {
	store, _ := newTestStore(t)
	if _, err := store.Upsert(t.Context(), readDraft("2024-05-01", "Read")); err != nil {
		t.Fatalf("seed: %v", err)
	}
	before := store.Snapshot()

	_, err := store.Upsert(t.Context(), readDraft("2024-05-01", "   "))
	if !errors.Is(err, model.ErrEmptyTitle) {
		t.Fatalf("expected ErrEmptyTitle, got %v", err)
	}
	if !reflect.DeepEqual(before, store.Snapshot()) {
		t.Fatalf("store changed after rejected upsert: %+v", store.Snapshot())
	}
}

func TestUpsertExistingReplacesInPlace(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := t.Context()
	first, _ := store.Upsert(ctx, readDraft("2024-05-01", "one"))
	second, _ := store.Upsert(ctx, readDraft("2024-05-01", "two"))
	_, _ = store.Upsert(ctx, readDraft("2024-05-01", "three"))

	second.Title = "two (edited)"
	second.Importance = model.ImportanceHigh
	if _, err := store.Upsert(ctx, second); err != nil {
		t.Fatalf("edit: %v", err)
	}

	got := store.EventsOn("2024-05-01")
	if len(got) != 3 {
		t.Fatalf("bucket length changed: %d", len(got))
	}
	if got[0].ID != first.ID || got[1].ID != second.ID || got[1].Title != "two (edited)" {
		t.Fatalf("event not replaced in place: %+v", got)
	}
}

func TestUpsertChangedDateMovesEvent(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := t.Context()
	ev, _ := store.Upsert(ctx, readDraft("2024-05-01", "dentist"))
	_, _ = store.Upsert(ctx, readDraft("2024-05-01", "gym"))

	ev.Date = "2024-05-03"
	if _, err := store.Upsert(ctx, ev); err != nil {
		t.Fatalf("move: %v", err)
	}

	if store.Len() != 2 {
		t.Fatalf("expected 2 events total after move, got %d", store.Len())
	}
	for _, old := range store.EventsOn("2024-05-01") {
		if old.ID == ev.ID {
			t.Fatal("event still present under its old date")
		}
	}
	moved := store.EventsOn("2024-05-03")
	if len(moved) != 1 || moved[0].ID != ev.ID {
		t.Fatalf("event not filed under new date: %+v", moved)
	}
}

func TestUpsertUnknownIDFails(t *testing.T) {
	store, _ := newTestStore(t)
	ghost := readDraft("2024-05-01", "ghost")
	ghost.ID = 42
	if _, err := store.Upsert(t.Context(), ghost); !errors.Is(err, ErrEventNotFound) {
		t.Fatalf("expected ErrEventNotFound, got %v", err)
	}
	if store.Len() != 0 {
		t.Fatalf("store should stay empty, has %d", store.Len())
	}
}

func TestRemoveByID(t *testing.T) {
	kv := storage.NewMemoryStore()
	ctx := t.Context()
	seed := `{"2024-05-01":[` +
		`{"id":1,"date":"2024-05-01","category":"Study","title":"a","importance":"Medium","summary":"","time":""},` +
		`{"id":2,"date":"2024-05-01","category":"Leisure","title":"b","importance":"Low","summary":"","time":""}]}`
	if err := kv.Put(ctx, DefaultKey, seed); err != nil {
		t.Fatalf("seed: %v", err)
	}
	store := NewStore(kv)
	if err := store.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}

	removed, err := store.Remove(ctx, "2024-05-01", 1)
	if err != nil || !removed {
		t.Fatalf("remove: %v, %v", removed, err)
	}
	got := store.EventsOn("2024-05-01")
	if len(got) != 1 || got[0].ID != 2 {
		t.Fatalf("expected only id 2, got %+v", got)
	}

	removed, err = store.Remove(ctx, "2024-05-01", 99)
	if err != nil || removed {
		t.Fatalf("removing a missing id should be a no-op: %v, %v", removed, err)
	}

	if _, err := store.Remove(ctx, "2024-05-01", 2); err != nil {
		t.Fatalf("remove last: %v", err)
	}
	if got := store.EventsOn("2024-05-01"); len(got) != 0 {
		t.Fatalf("expected empty bucket, got %+v", got)
	}
	if dates := store.Dates(); len(dates) != 0 {
		t.Fatalf("empty bucket should not be listed: %v", dates)
	}
}

func TestSaveLoadRoundTripSQLite(t *testing.T) {
	kv, err := storage.Open(storage.BackendSQLite, filepath.Join(t.TempDir(), "lifecal.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = kv.Close() })
	ctx := t.Context()

	store := NewStore(kv, WithClock(fixedClock(1000)))
	if err := store.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	custom := readDraft("2024-05-02", "Piano")
	custom.Category = model.CategoryCustom
	custom.CustomCategoryName = "Music"
	custom.CustomColor = "#aa00ff"
	custom.Time = "18:30"
	custom.Summary = "scales, then Bach"
	for _, d := range []model.Event{readDraft("2024-05-01", "Read"), custom, readDraft("2024-05-01", "Write")} {
		if _, err := store.Upsert(ctx, d); err != nil {
			t.Fatalf("upsert: %v", err)
		}
	}

	reloaded := NewStore(kv, WithClock(fixedClock(1000)))
	if err := reloaded.Load(ctx); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !reflect.DeepEqual(store.Snapshot(), reloaded.Snapshot()) {
		t.Fatalf("round trip mismatch:\nsaved:  %+v\nloaded: %+v", store.Snapshot(), reloaded.Snapshot())
	}

	next, err := reloaded.Upsert(ctx, readDraft("2024-05-04", "after reload"))
	if err != nil {
		t.Fatalf("upsert after reload: %v", err)
	}
	if next.ID != 1003 {
		t.Fatalf("expected id past the stored maximum, got %d", next.ID)
	}
}

func TestLoadCorruptSnapshotFallsBackToEmpty(t *testing.T) {
	kv := storage.NewMemoryStore()
	ctx := t.Context()
	if err := kv.Put(ctx, DefaultKey, "{not json"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	store := NewStore(kv)
	err := store.Load(ctx)
	if !errors.Is(err, ErrCorruptSnapshot) {
		t.Fatalf("expected ErrCorruptSnapshot, got %v", err)
	}
	if store.Len() != 0 {
		t.Fatalf("expected empty store, got %d events", store.Len())
	}
	backup, err := kv.Get(ctx, DefaultKey+".corrupt")
	if err != nil || backup != "{not json" {
		t.Fatalf("corrupt snapshot not preserved: %q, %v", backup, err)
	}

	if _, err := store.Upsert(ctx, readDraft("2024-05-01", "fresh start")); err != nil {
		t.Fatalf("store unusable after corrupt load: %v", err)
	}
}

func TestLoadDropsDuplicateIDs(t *testing.T) {
	kv := storage.NewMemoryStore()
	ctx := t.Context()
	raw := `{"2024-05-02":[{"id":5,"date":"2024-05-02","category":"Study","title":"copy","importance":"Medium"}],` +
		`"2024-05-01":[{"id":5,"date":"2024-05-01","category":"Study","title":"first","importance":"Medium"}]}`
	if err := kv.Put(ctx, DefaultKey, raw); err != nil {
		t.Fatalf("seed: %v", err)
	}
	store := NewStore(kv, WithClock(fixedClock(1000)))
	if err := store.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	if store.Len() != 1 || len(store.EventsOn("2024-05-01")) != 1 || len(store.EventsOn("2024-05-02")) != 0 {
		t.Fatalf("expected only the earliest copy kept: %+v", store.Snapshot())
	}

	kept := store.EventsOn("2024-05-01")[0]
	kept.Title = "renamed"
	if _, err := store.Upsert(ctx, kept); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if store.Len() != 1 || store.EventsOn("2024-05-01")[0].Title != "renamed" {
		t.Fatalf("edit should replace in place: %+v", store.Snapshot())
	}
}

func TestUpsertPrefersBucketOfDraftDate(t *testing.T) {
	store, _ := newTestStore(t)
	ev := model.Event{ID: 5, Category: model.CategoryStudy, Title: "copy", Importance: model.ImportanceMedium}
	first, second := ev, ev
	first.Date, second.Date = "2024-05-01", "2024-05-02"
	store.days = Snapshot{"2024-05-01": {first}, "2024-05-02": {second}}

	for i := 0; i < 20; i++ {
		edit := store.EventsOn("2024-05-02")[0]
		edit.Title = "edited"
		if _, err := store.Upsert(t.Context(), edit); err != nil {
			t.Fatalf("upsert: %v", err)
		}
		if len(store.EventsOn("2024-05-01")) != 1 || len(store.EventsOn("2024-05-02")) != 1 {
			t.Fatalf("run %d: edit with unchanged date changed bucket sizes: %+v", i, store.Snapshot())
		}
	}
	if store.EventsOn("2024-05-01")[0].Title != "copy" || store.EventsOn("2024-05-02")[0].Title != "edited" {
		t.Fatalf("wrong copy edited: %+v", store.Snapshot())
	}
}

func TestUpsertPersistFailureKeepsChange(t *testing.T) {
	kv := &failingKV{MemoryStore: storage.NewMemoryStore(), putErr: errors.New("disk full")}
	store := NewStore(kv)
	if err := store.Load(t.Context()); err != nil {
		t.Fatalf("load: %v", err)
	}
	_, err := store.Upsert(t.Context(), readDraft("2024-05-01", "Read"))
	if !errors.Is(err, ErrNotPersisted) {
		t.Fatalf("expected ErrNotPersisted, got %v", err)
	}
	if len(store.EventsOn("2024-05-01")) != 1 {
		t.Fatal("in-memory change should be kept")
	}
}

func TestBetweenAndDates(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := t.Context()
	for _, date := range []string{"2024-05-03", "2024-04-30", "2024-05-01"} {
		if _, err := store.Upsert(ctx, readDraft(date, "e "+date)); err != nil {
			t.Fatalf("upsert: %v", err)
		}
	}
	dates := store.Dates()
	if !reflect.DeepEqual(dates, []string{"2024-04-30", "2024-05-01", "2024-05-03"}) {
		t.Fatalf("unexpected dates: %v", dates)
	}
	may := store.Between("2024-05-01", "2024-05-31")
	if len(may) != 2 || may[0].Date != "2024-05-01" || may[1].Date != "2024-05-03" {
		t.Fatalf("unexpected range: %+v", may)
	}
	if all := store.Between("", ""); len(all) != 3 {
		t.Fatalf("open range should return all, got %d", len(all))
	}
}

func TestAddAllCountsRejected(t *testing.T) {
	store, _ := newTestStore(t)
	drafts := []model.Event{
		readDraft("2024-05-01", "ok"),
		readDraft("2024-05-01", ""),
		readDraft("not-a-date", "bad date"),
		readDraft("2024-05-02", "also ok"),
	}
	added, rejected, err := store.AddAll(t.Context(), drafts)
	if err != nil {
		t.Fatalf("add all: %v", err)
	}
	if added != 2 || rejected != 2 || store.Len() != 2 {
		t.Fatalf("added=%d rejected=%d len=%d", added, rejected, store.Len())
	}
}
