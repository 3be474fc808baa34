package calendar

import (
	"strings"
	"time"

	"github.com/sandeepkv93/lifecal/internal/model"
)

// Day is one cell of a month grid. Blank cells pad the first week and have
// an empty Date.
type Day struct {
	Date     string
	Number   int
	Selected bool
	Today    bool
	Colors   []string
}

func (d Day) Blank() bool { return d.Date == "" }

type MonthGrid struct {
	Month     time.Time
	WeekStart time.Weekday
	Weeks     [][]Day
}

// Title renders as "2024-05".
func (g MonthGrid) Title() string {
	return g.Month.Format("2006-01")
}

// WeekdayHeaders returns two-letter weekday names starting at WeekStart.
func (g MonthGrid) WeekdayHeaders() []string {
	out := make([]string, 0, 7)
	for i := 0; i < 7; i++ {
		wd := time.Weekday((int(g.WeekStart) + i) % 7)
		out = append(out, wd.String()[:2])
	}
	return out
}

// EventLister is the part of the Store the grid reads.
type EventLister interface {
	EventsOn(date string) []model.Event
}

// StartOfMonth truncates t to the first day of its month.
func StartOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

// BuildMonthGrid lays out the month containing month. The first week is
// padded with blank cells up to the weekday of the 1st; the last week is
// padded to seven cells.
func BuildMonthGrid(month time.Time, weekStart time.Weekday, events EventLister, selected, today string) MonthGrid {
	first := StartOfMonth(month)
	daysInMonth := first.AddDate(0, 1, -1).Day()
	lead := (int(first.Weekday()) - int(weekStart) + 7) % 7

	cells := make([]Day, 0, lead+daysInMonth+6)
	for i := 0; i < lead; i++ {
		cells = append(cells, Day{})
	}
	for d := 1; d <= daysInMonth; d++ {
		date := model.FormatDate(first.AddDate(0, 0, d-1))
		cell := Day{
			Date:     date,
			Number:   d,
			Selected: date == selected,
			Today:    date == today,
		}
		if events != nil {
			for _, ev := range events.EventsOn(date) {
				cell.Colors = append(cell.Colors, model.ColorOf(ev))
			}
		}
		cells = append(cells, cell)
	}
	for len(cells)%7 != 0 {
		cells = append(cells, Day{})
	}

	weeks := make([][]Day, 0, len(cells)/7)
	for i := 0; i < len(cells); i += 7 {
		weeks = append(weeks, cells[i:i+7])
	}
	return MonthGrid{Month: first, WeekStart: weekStart, Weeks: weeks}
}

// ParseWeekStart accepts "sunday" or "monday"; anything else is Sunday.
func ParseWeekStart(raw string) time.Weekday {
	if strings.EqualFold(strings.TrimSpace(raw), "monday") {
		return time.Monday
	}
	return time.Sunday
}

// ShiftDate moves a date string by days, returning the input unchanged when
// it does not parse.
func ShiftDate(date string, days int) string {
	d, err := model.ParseDate(date)
	if err != nil {
		return date
	}
	return model.FormatDate(d.AddDate(0, 0, days))
}

// ShiftMonth moves date by whole months, clamping the day to the target
// month's length.
func ShiftMonth(date string, months int) string {
	d, err := model.ParseDate(date)
	if err != nil {
		return date
	}
	target := StartOfMonth(d).AddDate(0, months, 0)
	last := target.AddDate(0, 1, -1).Day()
	day := d.Day()
	if day > last {
		day = last
	}
	return model.FormatDate(time.Date(target.Year(), target.Month(), day, 0, 0, 0, 0, time.UTC))
}
