package update

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/lifecal/internal/calendar"
	applog "github.com/sandeepkv93/lifecal/internal/log"
	"github.com/sandeepkv93/lifecal/internal/model"
	"github.com/sandeepkv93/lifecal/internal/views"
)

func (m Model) handleCalendarKey(msg tea.KeyMsg) Model {
	if m.Calendar.Form.ConfirmingDelete {
		return m.handleCalendarConfirmKey(msg)
	}

	switch msg.String() {
	case "h", "left":
		m.selectDate(calendar.ShiftDate(m.Calendar.Form.SelectedDate, -1))
	case "l", "right":
		m.selectDate(calendar.ShiftDate(m.Calendar.Form.SelectedDate, 1))
	case "k", "up":
		m.selectDate(calendar.ShiftDate(m.Calendar.Form.SelectedDate, -7))
	case "j", "down":
		m.selectDate(calendar.ShiftDate(m.Calendar.Form.SelectedDate, 7))
	case "[":
		m.selectDate(calendar.ShiftMonth(m.Calendar.Form.SelectedDate, -1))
	case "]":
		m.selectDate(calendar.ShiftMonth(m.Calendar.Form.SelectedDate, 1))
	case "t":
		m.selectDate(m.today())
	case "tab":
		m.Calendar.Typing = true
		m.Calendar.Field = 0
	case "enter":
		m.saveDraft()
	case "J":
		if m.Calendar.Cursor < len(m.dayEvents())-1 {
			m.Calendar.Cursor++
		}
	case "K":
		if m.Calendar.Cursor > 0 {
			m.Calendar.Cursor--
		}
	case "e":
		ev, ok := m.currentDayEvent()
		if !ok {
			m.Status = StatusBar{Text: "no event to edit on " + m.Calendar.Form.SelectedDate, IsError: true}
			return m
		}
		m.Calendar.Form = m.Calendar.Form.Edit(ev)
		m.Status = StatusBar{Text: fmt.Sprintf("editing %q", ev.Title)}
	case "c":
		m.Calendar.Form = m.Calendar.Form.SelectCategory(m.Calendar.Form.Draft.Category.Next())
		m.Status = StatusBar{Text: "category: " + model.CategoryLabel(m.Calendar.Form.Draft)}
	case "i":
		form, err := m.Calendar.Form.SetField(calendar.FieldImportance, string(m.Calendar.Form.Draft.Importance.Next()))
		if err == nil {
			m.Calendar.Form = form
			m.Status = StatusBar{Text: "importance: " + string(form.Draft.Importance)}
		}
	case "x":
		form, err := m.Calendar.Form.RequestDelete()
		if err != nil {
			m.Status = StatusBar{Text: "open an event with e before deleting", IsError: true}
			return m
		}
		m.Calendar.Form = form
		m.Status = StatusBar{Text: fmt.Sprintf("delete %q? y/n", form.Draft.Title)}
	case "esc":
		m.Calendar.Form = m.Calendar.Form.Reset()
		m.Status = StatusBar{Text: "draft cleared"}
	}
	return m
}

func (m Model) handleCalendarConfirmKey(msg tea.KeyMsg) Model {
	key := msg.String()
	switch key {
	case "y", "n", "esc":
		title := m.Calendar.Form.Draft.Title
		confirmed := key == "y"
		form, err := m.Calendar.Form.Delete(m.ctx, m.store, confirmed)
		m.Calendar.Form = form
		switch {
		case err == nil && !confirmed:
			m.Status = StatusBar{Text: "delete cancelled"}
		case err == nil:
			m.Calendar.Cursor = 0
			m.Status = StatusBar{Text: fmt.Sprintf("deleted %q", title)}
		case errors.Is(err, calendar.ErrNotPersisted):
			applog.Error("event delete not persisted", err)
			m.Calendar.Cursor = 0
			m.Status = StatusBar{Text: form.Warning, IsError: true}
		default:
			applog.Error("event delete failed", err)
			text := form.Warning
			if text == "" {
				text = err.Error()
			}
			m.Status = StatusBar{Text: text, IsError: true}
		}
	default:
		m.Status = StatusBar{Text: "press y to delete or n to keep the event"}
	}
	return m
}

func (m Model) handleCalendarInputKey(msg tea.KeyMsg) Model {
	fields := m.activeFields()
	if m.Calendar.Field >= len(fields) {
		m.Calendar.Field = 0
	}

	switch msg.String() {
	case "esc":
		m.Calendar.Typing = false
		return m
	case "tab":
		m.Calendar.Field = (m.Calendar.Field + 1) % len(fields)
		return m
	case "shift+tab":
		m.Calendar.Field = (m.Calendar.Field - 1 + len(fields)) % len(fields)
		return m
	case "enter":
		m.saveDraft()
		return m
	}

	idx := m.Calendar.Field
	input := m.fieldInputs[idx]
	if msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace {
		input.SetValue(input.Value() + string(msg.Runes))
	} else {
		input.Focus()
		input, _ = input.Update(msg)
	}
	m.fieldInputs[idx] = input

	form, err := m.Calendar.Form.SetField(fields[idx], input.Value())
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m
	}
	m.Calendar.Form = form
	return m
}

// selectDate moves the selection, which also starts a fresh draft on that day.
func (m *Model) selectDate(date string) {
	if date == m.Calendar.Form.SelectedDate {
		return
	}
	m.Calendar.Form = m.Calendar.Form.SelectDate(date)
	m.Calendar.Cursor = 0
	m.followSelectedMonth()
}

func (m *Model) followSelectedMonth() {
	if d, err := model.ParseDate(m.Calendar.Form.SelectedDate); err == nil {
		m.Calendar.Month = calendar.StartOfMonth(d)
	}
}

func (m *Model) saveDraft() {
	title := m.Calendar.Form.Draft.Title
	form, err := m.Calendar.Form.Save(m.ctx, m.store)
	m.Calendar.Form = form
	switch {
	case err == nil:
		m.Calendar.Typing = false
		m.Calendar.Cursor = 0
		m.followSelectedMonth()
		m.Status = StatusBar{Text: fmt.Sprintf("saved %q on %s", title, form.SelectedDate)}
	case errors.Is(err, calendar.ErrNotPersisted):
		applog.Error("event save not persisted", err)
		m.Calendar.Typing = false
		m.followSelectedMonth()
		m.Status = StatusBar{Text: form.Warning, IsError: true}
	default:
		m.Status = StatusBar{Text: form.Warning, IsError: true}
	}
}

func (m Model) activeFields() []string {
	if m.Calendar.Form.Draft.Category == model.CategoryCustom {
		return textFields[:]
	}
	return textFields[:len(textFields)-customFieldCount]
}

func (m Model) dayEvents() []model.Event {
	if m.store == nil {
		return nil
	}
	return m.Calendar.Form.EventsForSelectedDate(m.store)
}

func (m Model) currentDayEvent() (model.Event, bool) {
	events := m.dayEvents()
	if m.Calendar.Cursor < 0 || m.Calendar.Cursor >= len(events) {
		return model.Event{}, false
	}
	return events[m.Calendar.Cursor], true
}

func draftValue(d model.Event, field string) string {
	switch field {
	case calendar.FieldTitle:
		return d.Title
	case calendar.FieldDate:
		return d.Date
	case calendar.FieldTime:
		return d.Time
	case calendar.FieldSummary:
		return d.Summary
	case calendar.FieldCustomCategoryName:
		return d.CustomCategoryName
	case calendar.FieldCustomColor:
		return d.CustomColor
	default:
		return ""
	}
}

func (m Model) renderMonthGrid() string {
	var lister calendar.EventLister
	if m.store != nil {
		lister = m.store
	}
	grid := calendar.BuildMonthGrid(m.Calendar.Month, m.weekStart, lister, m.Calendar.Form.SelectedDate, m.today())
	weeks := make([][]views.DayCellData, 0, len(grid.Weeks))
	for _, week := range grid.Weeks {
		cells := make([]views.DayCellData, 0, len(week))
		for _, d := range week {
			cells = append(cells, views.DayCellData{
				Number:   d.Number,
				Blank:    d.Blank(),
				Selected: d.Selected,
				Today:    d.Today,
				Colors:   d.Colors,
			})
		}
		weeks = append(weeks, cells)
	}
	return views.RenderMonthGrid(views.MonthGridData{
		Title:   grid.Title(),
		Headers: grid.WeekdayHeaders(),
		Weeks:   weeks,
	})
}

func (m Model) renderDayEvents() string {
	return views.RenderDayEvents(views.DayEventsData{
		Date:      m.Calendar.Form.SelectedDate,
		Count:     len(m.dayEvents()),
		TableView: m.dayTable.View(),
	})
}

func (m Model) renderEventForm() string {
	form := m.Calendar.Form
	fields := m.activeFields()
	data := make([]views.FormFieldData, 0, len(fields))
	for i, name := range fields {
		data = append(data, views.FormFieldData{
			Label:   name,
			View:    m.fieldInputs[i].View(),
			Focused: m.Calendar.Typing && m.Calendar.Field == i,
		})
	}
	return views.RenderEventForm(views.EventFormData{
		Mode:             string(form.Mode()),
		CategoryLabel:    model.CategoryLabel(form.Draft),
		CategoryColor:    form.ColorFor(form.Draft),
		Importance:       string(form.Draft.Importance),
		Fields:           data,
		Warning:          form.Warning,
		ConfirmingDelete: form.ConfirmingDelete,
	})
}
