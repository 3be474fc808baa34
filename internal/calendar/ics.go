package calendar

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	applog "github.com/sandeepkv93/lifecal/internal/log"
	"github.com/sandeepkv93/lifecal/internal/model"
)

const (
	icsProductID = "-//lifecal//calendar export//EN"
	icsUIDSuffix = "@lifecal"

	icsDateLayout      = "20060102"
	icsLocalLayout     = "20060102T150405"
	icsUTCLayout       = "20060102T150405Z"
	icsPriorityHigh    = 1
	icsPriorityMedium  = 5
	icsPriorityLow     = 9
	icsPriorityUnknown = 0
)

// Extension properties that let an export re-import without loss.
const (
	propCategoryTag ical.ComponentProperty = "X-LIFECAL-CATEGORY"
	propColor       ical.ComponentProperty = "X-LIFECAL-COLOR"
	propImportance  ical.ComponentProperty = "X-LIFECAL-IMPORTANCE"
)

// ExportICS writes events as an iCalendar document. Events without a time
// become all-day events; timed events use floating local time.
func ExportICS(w io.Writer, events []model.Event, now time.Time) error {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(icsProductID)

	for _, ev := range events {
		day, err := model.ParseDate(ev.Date)
		if err != nil {
			return fmt.Errorf("calendar: export event %d: %w", ev.ID, err)
		}
		vevent := cal.AddEvent(strconv.FormatInt(ev.ID, 10) + icsUIDSuffix)
		vevent.SetDtStampTime(now)

		if strings.TrimSpace(ev.Time) == "" {
			vevent.SetProperty(ical.ComponentPropertyDtStart, day.Format(icsDateLayout), ical.WithValue(string(ical.ValueDataTypeDate)))
			vevent.SetProperty(ical.ComponentPropertyDtEnd, day.AddDate(0, 0, 1).Format(icsDateLayout), ical.WithValue(string(ical.ValueDataTypeDate)))
		} else {
			clock, err := time.Parse(model.TimeLayout, ev.Time)
			if err != nil {
				return fmt.Errorf("calendar: export event %d: %w", ev.ID, model.ErrInvalidTime)
			}
			start := time.Date(day.Year(), day.Month(), day.Day(), clock.Hour(), clock.Minute(), 0, 0, time.UTC)
			vevent.SetProperty(ical.ComponentPropertyDtStart, start.Format(icsLocalLayout))
		}

		vevent.SetSummary(ev.Title)
		if strings.TrimSpace(ev.Summary) != "" {
			vevent.SetDescription(ev.Summary)
		}
		vevent.SetProperty(ical.ComponentPropertyCategories, model.CategoryLabel(ev))
		vevent.SetProperty(ical.ComponentPropertyPriority, strconv.Itoa(priorityOf(ev.Importance)))
		vevent.SetProperty(propCategoryTag, string(ev.Category))
		vevent.SetProperty(propImportance, string(ev.Importance))
		if ev.Category == model.CategoryCustom {
			vevent.SetProperty(propColor, model.ColorOf(ev))
		}
	}

	if err := cal.SerializeTo(w); err != nil {
		return fmt.Errorf("calendar: write ics: %w", err)
	}
	return nil
}

type ImportResult struct {
	// Drafts are new events (ID 0) ready for Store.Upsert.
	Drafts  []model.Event
	Skipped int
}

// ImportICS reads VEVENTs into drafts. Events without a summary or a
// readable start date are skipped and counted. Recurring events become one
// draft per occurrence.
func ImportICS(r io.Reader) (ImportResult, error) {
	var result ImportResult
	cal, err := ical.ParseCalendar(r)
	if err != nil {
		return result, fmt.Errorf("calendar: parse ics: %w", err)
	}
	for _, ve := range cal.Events() {
		draft, derr := draftFromVEvent(ve)
		if derr != nil {
			applog.Debug("ics vevent skipped", "reason", derr.Error())
			result.Skipped++
			continue
		}
		occurrences, rerr := expandRecurrence(draft, ve)
		if rerr != nil {
			applog.Debug("ics vevent skipped", "title", draft.Title, "reason", rerr.Error())
			result.Skipped++
			continue
		}
		result.Drafts = append(result.Drafts, occurrences...)
	}
	return result, nil
}

func draftFromVEvent(ve *ical.VEvent) (model.Event, error) {
	draft := EmptyDraft("")

	draft.Title = unescapeText(propValue(ve, ical.ComponentPropertySummary))
	if strings.TrimSpace(draft.Title) == "" {
		return model.Event{}, errors.New("missing SUMMARY")
	}
	draft.Summary = unescapeText(propValue(ve, ical.ComponentPropertyDescription))

	date, clock, err := parseStart(ve.GetProperty(ical.ComponentPropertyDtStart))
	if err != nil {
		return model.Event{}, err
	}
	draft.Date = date
	draft.Time = clock

	label := unescapeText(propValue(ve, ical.ComponentPropertyCategories))
	if tag, perr := model.ParseCategory(propValue(ve, propCategoryTag)); perr == nil {
		draft.Category = tag
	} else if label != "" {
		if tag, perr := model.ParseCategory(label); perr == nil {
			draft.Category = tag
		} else {
			draft.Category = model.CategoryCustom
		}
	}
	if draft.Category == model.CategoryCustom {
		if _, perr := model.ParseCategory(label); perr != nil {
			draft.CustomCategoryName = label
		}
		draft.CustomColor = propValue(ve, propColor)
	}

	if imp, perr := model.ParseImportance(propValue(ve, propImportance)); perr == nil {
		draft.Importance = imp
	} else if raw := propValue(ve, ical.ComponentPropertyPriority); raw != "" {
		if n, aerr := strconv.Atoi(raw); aerr == nil {
			draft.Importance = importanceOf(n)
		}
	}
	return draft, nil
}

func parseStart(prop *ical.IANAProperty) (string, string, error) {
	if prop == nil || strings.TrimSpace(prop.Value) == "" {
		return "", "", errors.New("missing DTSTART")
	}
	raw := strings.TrimSpace(prop.Value)
	if t, err := time.Parse(icsDateLayout, raw); err == nil {
		return model.FormatDate(t), "", nil
	}
	if t, err := time.Parse(icsUTCLayout, raw); err == nil {
		local := t.In(time.Local)
		return model.FormatDate(local), local.Format(model.TimeLayout), nil
	}
	if t, err := time.Parse(icsLocalLayout, raw); err == nil {
		return model.FormatDate(t), t.Format(model.TimeLayout), nil
	}
	return "", "", fmt.Errorf("unreadable DTSTART %q", raw)
}

func propValue(ve *ical.VEvent, name ical.ComponentProperty) string {
	if p := ve.GetProperty(name); p != nil {
		return strings.TrimSpace(p.Value)
	}
	return ""
}

var textUnescaper = strings.NewReplacer(`\\`, `\`, `\,`, `,`, `\;`, `;`, `\n`, "\n", `\N`, "\n")

func unescapeText(s string) string {
	return textUnescaper.Replace(s)
}

func priorityOf(i model.Importance) int {
	switch i {
	case model.ImportanceHigh:
		return icsPriorityHigh
	case model.ImportanceMedium:
		return icsPriorityMedium
	case model.ImportanceLow:
		return icsPriorityLow
	default:
		return icsPriorityUnknown
	}
}

// importanceOf follows RFC 5545: 1-4 high, 5 medium, 6-9 low, 0 undefined.
func importanceOf(priority int) model.Importance {
	switch {
	case priority >= 1 && priority <= 4:
		return model.ImportanceHigh
	case priority >= 6 && priority <= 9:
		return model.ImportanceLow
	default:
		return model.ImportanceMedium
	}
}
