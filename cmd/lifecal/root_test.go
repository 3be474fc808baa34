package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sandeepkv93/lifecal/internal/calendar"
	"github.com/sandeepkv93/lifecal/internal/config"
	"github.com/sandeepkv93/lifecal/internal/diary"
	"github.com/sandeepkv93/lifecal/internal/storage"
)

const sampleICS = "BEGIN:VCALENDAR\r\n" +
	"VERSION:2.0\r\n" +
	"PRODID:-//example//other app//EN\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:a1\r\n" +
	"DTSTAMP:20240101T000000Z\r\n" +
	"DTSTART;VALUE=DATE:20240601\r\n" +
	"SUMMARY:Swim\r\n" +
	"CATEGORIES:Exercise\r\n" +
	"END:VEVENT\r\n" +
	"END:VCALENDAR\r\n"

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(t.Context())
	return out.String(), err
}

func TestImportThenListAndExport(t *testing.T) {
	dir := t.TempDir()
	icsPath := filepath.Join(t.TempDir(), "in.ics")
	if err := os.WriteFile(icsPath, []byte(sampleICS), 0o644); err != nil {
		t.Fatalf("write ics: %v", err)
	}
	backend := []string{"--storage", "file", "--data", dir}

	out, err := execute(t, append([]string{"import", icsPath}, backend...)...)
	if err != nil {
		t.Fatalf("import: %v\n%s", err, out)
	}
	if !strings.Contains(out, "imported 1 event(s), skipped 0") {
		t.Fatalf("unexpected import output: %q", out)
	}

	out, err = execute(t, append([]string{"events", "2024-06-01"}, backend...)...)
	if err != nil {
		t.Fatalf("events: %v", err)
	}
	if !strings.Contains(out, "Swim") || !strings.Contains(out, "Exercise") {
		t.Fatalf("event missing from listing: %q", out)
	}

	out, err = execute(t, append([]string{"export", "--from", "2024-06-01", "--to", "2024-06-30"}, backend...)...)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.Contains(out, "SUMMARY:Swim") {
		t.Fatalf("export missing event: %q", out)
	}
}

func TestEventsRejectsBadDate(t *testing.T) {
	_, err := execute(t, "events", "June 1st", "--storage", "memory")
	if err == nil {
		t.Fatal("expected an error for a malformed date")
	}
}

func TestDiaryIndexEmpty(t *testing.T) {
	out, err := execute(t, "diary", "--storage", "file", "--data", t.TempDir())
	if err != nil {
		t.Fatalf("diary: %v", err)
	}
	if !strings.Contains(out, "no diary entries") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestOpenStoresReportsCorruptSnapshots(t *testing.T) {
	dir := t.TempDir()
	kv, err := storage.NewFileStore(dir)
	if err != nil {
		t.Fatalf("file store: %v", err)
	}
	if err := kv.Put(t.Context(), calendar.DefaultKey, "{not json"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := kv.Put(t.Context(), diary.DefaultKey, "[]"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	cfg := config.Config{Storage: config.StorageConfig{Backend: storage.BackendFile, Path: dir}}
	if err := cfg.Normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	a, err := openStores(t.Context(), cfg)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer a.Close()

	if len(a.notices) != 2 {
		t.Fatalf("expected two notices, got %q", a.notices)
	}
	if !strings.Contains(a.notice(), "calendarEvents.corrupt") {
		t.Fatalf("notice should name the backup key: %q", a.notice())
	}
	if a.store.Len() != 0 || a.book.Len() != 0 {
		t.Fatal("corrupt snapshots should load as empty")
	}
	if _, err := kv.Get(t.Context(), calendar.DefaultKey+".corrupt"); err != nil {
		t.Fatalf("backup missing: %v", err)
	}
}

func TestWriteEventsCountsPrinted(t *testing.T) {
	store := calendar.NewStore(storage.NewMemoryStore())
	draft := calendar.EmptyDraft("2024-05-01")
	draft.Title = "Read"
	if _, err := store.Upsert(t.Context(), draft); err != nil {
		t.Fatalf("seed: %v", err)
	}

	var buf bytes.Buffer
	if n := writeEvents(&buf, store, ""); n != 1 {
		t.Fatalf("expected 1 printed event, got %d", n)
	}
	if !strings.Contains(buf.String(), "2024-05-01") || !strings.Contains(buf.String(), "--:-- Study") {
		t.Fatalf("unexpected listing: %q", buf.String())
	}
	if n := writeEvents(&buf, store, "2024-05-02"); n != 0 {
		t.Fatalf("expected nothing on an empty day, got %d", n)
	}
}

func TestEventsYAML(t *testing.T) {
	dir := t.TempDir()
	kv, err := storage.NewFileStore(dir)
	if err != nil {
		t.Fatalf("file store: %v", err)
	}
	store := calendar.NewStore(kv)
	draft := calendar.EmptyDraft("2024-05-01")
	draft.Title = "Read"
	draft.Time = "07:30"
	if _, err := store.Upsert(t.Context(), draft); err != nil {
		t.Fatalf("seed: %v", err)
	}

	out, err := execute(t, "events", "--yaml", "--storage", "file", "--data", dir)
	if err != nil {
		t.Fatalf("events: %v", err)
	}
	for _, want := range []string{"title: Read", "2024-05-01", "category: Study", "07:30"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in:\n%s", want, out)
		}
	}
}

func TestListAndPurgeBackups(t *testing.T) {
	kv := storage.NewMemoryStore()
	ctx := t.Context()
	for key, value := range map[string]string{
		calendar.DefaultKey:              "{}",
		calendar.DefaultKey + ".corrupt": "{not json",
		diary.DefaultKey + ".corrupt":    "[]",
	} {
		if err := kv.Put(ctx, key, value); err != nil {
			t.Fatalf("seed %s: %v", key, err)
		}
	}

	var buf bytes.Buffer
	if err := listBackups(ctx, &buf, kv, false); err != nil {
		t.Fatalf("list: %v", err)
	}
	if out := buf.String(); !strings.Contains(out, "calendarEvents.corrupt") || !strings.Contains(out, "diaries.corrupt") || strings.Contains(out, "calendarEvents\n") {
		t.Fatalf("unexpected listing: %q", out)
	}

	buf.Reset()
	if err := listBackups(ctx, &buf, kv, true); err != nil {
		t.Fatalf("purge: %v", err)
	}
	keys, err := kv.Keys(ctx)
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	if len(keys) != 1 || keys[0] != calendar.DefaultKey {
		t.Fatalf("expected only the live snapshot left, got %v", keys)
	}

	buf.Reset()
	if err := listBackups(ctx, &buf, kv, false); err != nil || !strings.Contains(buf.String(), "no backups") {
		t.Fatalf("expected no backups, got %q (%v)", buf.String(), err)
	}
}
