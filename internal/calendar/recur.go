package calendar

import (
	"fmt"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"

	applog "github.com/sandeepkv93/lifecal/internal/log"
	"github.com/sandeepkv93/lifecal/internal/model"
)

// Stored events never repeat, so a recurring VEVENT is imported as one event
// per occurrence, bounded by a year from its first date.
const (
	recurrenceHorizonYears = 1
	maxImportOccurrences   = 366
)

// expandRecurrence returns draft once per RRULE occurrence, skipping EXDATE
// days. A VEVENT without an RRULE yields just draft.
func expandRecurrence(draft model.Event, ve *ical.VEvent) ([]model.Event, error) {
	prop := ve.GetProperty(ical.ComponentPropertyRrule)
	if prop == nil || strings.TrimSpace(prop.Value) == "" {
		return []model.Event{draft}, nil
	}

	rule, err := rrule.StrToRRule(strings.TrimSpace(prop.Value))
	if err != nil {
		return nil, fmt.Errorf("bad RRULE %q: %w", prop.Value, err)
	}
	start, err := model.ParseDate(draft.Date)
	if err != nil {
		return nil, err
	}
	rule.DTStart(start)

	excluded := exceptionDates(ve)
	occurrences := rule.Between(start, start.AddDate(recurrenceHorizonYears, 0, 0), true)
	out := make([]model.Event, 0, len(occurrences))
	for _, at := range occurrences {
		date := model.FormatDate(at)
		if excluded[date] {
			continue
		}
		if len(out) == maxImportOccurrences {
			applog.Debug("ics recurrence truncated", "title", draft.Title, "limit", maxImportOccurrences)
			break
		}
		occ := draft
		occ.Date = date
		out = append(out, occ)
	}
	return out, nil
}

// exceptionDates collects EXDATE values as calendar dates. Times and zones
// are dropped since occurrences are matched by day.
func exceptionDates(ve *ical.VEvent) map[string]bool {
	out := make(map[string]bool)
	for _, p := range ve.GetProperties(ical.ComponentPropertyExdate) {
		for _, part := range strings.Split(p.Value, ",") {
			part = strings.TrimSpace(part)
			if len(part) < len(icsDateLayout) {
				continue
			}
			if d, err := time.Parse(icsDateLayout, part[:len(icsDateLayout)]); err == nil {
				out[model.FormatDate(d)] = true
			}
		}
	}
	return out
}
