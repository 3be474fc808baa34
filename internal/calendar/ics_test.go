package calendar

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/sandeepkv93/lifecal/internal/model"
)

func TestExportImportRoundTrip(t *testing.T) {
	events := []model.Event{
		{ID: 1, Date: "2024-05-01", Category: model.CategoryStudy, Title: "Read", Importance: model.ImportanceMedium},
		{ID: 2, Date: "2024-05-02", Category: model.CategoryCustom, CustomCategoryName: "Music", CustomColor: "#aa00ff",
			Title: "Piano", Importance: model.ImportanceHigh, Summary: "practice scales", Time: "18:30"},
		{ID: 3, Date: "2024-05-03", Category: model.CategoryLeisure, Title: "Hike", Importance: model.ImportanceLow},
	}

	var buf bytes.Buffer
	if err := ExportICS(&buf, events, time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("export: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"BEGIN:VCALENDAR", "UID:2@lifecal", "DTSTART;VALUE=DATE:20240501", "DTSTART:20240502T183000", "PRIORITY:1"} {
		if !strings.Contains(out, want) {
			t.Fatalf("export missing %q:\n%s", want, out)
		}
	}

	result, err := ImportICS(strings.NewReader(out))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if result.Skipped != 0 || len(result.Drafts) != len(events) {
		t.Fatalf("unexpected import result: %+v", result)
	}
	for i, got := range result.Drafts {
		want := events[i]
		want.ID = 0
		if got != want {
			t.Fatalf("draft %d mismatch:\n got %+v\nwant %+v", i, got, want)
		}
	}
}

func TestImportForeignCalendar(t *testing.T) {
	raw := strings.Join([]string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//example//other app//EN",
		"BEGIN:VEVENT",
		"UID:a1",
		"DTSTAMP:20240101T000000Z",
		"DTSTART;VALUE=DATE:20240601",
		"SUMMARY:Swim",
		"CATEGORIES:Exercise",
		"PRIORITY:2",
		"END:VEVENT",
		"BEGIN:VEVENT",
		"UID:a2",
		"DTSTAMP:20240101T000000Z",
		"DTSTART:20240602T101500",
		"SUMMARY:Pottery",
		"CATEGORIES:Crafts",
		"PRIORITY:8",
		"END:VEVENT",
		"BEGIN:VEVENT",
		"UID:a3",
		"DTSTAMP:20240101T000000Z",
		"DTSTART;VALUE=DATE:20240603",
		"END:VEVENT",
		"END:VCALENDAR",
		"",
	}, "\r\n")

	result, err := ImportICS(strings.NewReader(raw))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if result.Skipped != 1 || len(result.Drafts) != 2 {
		t.Fatalf("unexpected result: %+v", result)
	}

	swim := result.Drafts[0]
	if swim.Date != "2024-06-01" || swim.Time != "" || swim.Category != model.CategoryExercise || swim.Importance != model.ImportanceHigh {
		t.Fatalf("unexpected swim draft: %+v", swim)
	}
	pottery := result.Drafts[1]
	if pottery.Time != "10:15" || pottery.Category != model.CategoryCustom || pottery.CustomCategoryName != "Crafts" || pottery.Importance != model.ImportanceLow {
		t.Fatalf("unexpected pottery draft: %+v", pottery)
	}
	if model.ColorOf(pottery) != model.DefaultCustomColor {
		t.Fatalf("custom import without color should use the default, got %q", model.ColorOf(pottery))
	}
	for _, d := range result.Drafts {
		if err := d.Validate(); err != nil {
			t.Fatalf("imported draft should be valid: %v", err)
		}
	}
}

func TestImportRejectsGarbage(t *testing.T) {
	if _, err := ImportICS(strings.NewReader("hello")); err == nil {
		t.Fatal("expected a parse error")
	}
}
