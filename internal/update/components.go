package update

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"

	"github.com/sandeepkv93/lifecal/internal/calendar"
	"github.com/sandeepkv93/lifecal/internal/model"
)

var fieldPlaceholders = map[string]string{
	calendar.FieldTitle:              "what is happening",
	calendar.FieldDate:               "2006-01-02",
	calendar.FieldTime:               "15:04 (optional)",
	calendar.FieldSummary:            "notes (optional)",
	calendar.FieldCustomCategoryName: "category name",
	calendar.FieldCustomColor:        model.DefaultCustomColor,
}

func (m *Model) initBubbleComponents() {
	for i, name := range textFields {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = fieldPlaceholders[name]
		in.CharLimit = 256
		in.Width = 36
		m.fieldInputs[i] = in
	}

	cols := []table.Column{
		{Title: "Time", Width: 6},
		{Title: "Title", Width: 22},
		{Title: "Category", Width: 10},
		{Title: "Imp.", Width: 6},
	}
	m.dayTable = table.New(table.WithColumns(cols), table.WithRows([]table.Row{}), table.WithFocused(true), table.WithHeight(6))

	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.CharLimit = 256
	m.commandInput.Width = 48

	m.diaryArea = textarea.New()
	m.diaryArea.SetWidth(54)
	m.diaryArea.SetHeight(10)
	m.diaryArea.CharLimit = 4000
	m.diaryArea.ShowLineNumbers = false
	m.diaryArea.Placeholder = "How was today? (markdown)"

	m.helpModel = help.New()
}

func (m *Model) syncBubbleData() {
	tableHeight, areaHeight := densityDimensions(m.compact)
	m.dayTable.SetHeight(tableHeight)
	m.diaryArea.SetHeight(areaHeight)

	for i, name := range textFields {
		in := m.fieldInputs[i]
		in.SetValue(draftValue(m.Calendar.Form.Draft, name))
		if m.CurrentView == ViewCalendar && m.Calendar.Typing && m.Calendar.Field == i {
			in.Focus()
		} else {
			in.Blur()
		}
		m.fieldInputs[i] = in
	}

	events := m.dayEvents()
	rows := make([]table.Row, 0, len(events))
	for _, ev := range events {
		rows = append(rows, table.Row{ev.Time, ev.Title, model.CategoryLabel(ev), importanceMarks(ev.Importance)})
	}
	m.dayTable.SetRows(rows)
	if m.Calendar.Cursor >= len(rows) {
		m.Calendar.Cursor = 0
	}
	if len(rows) > 0 {
		m.dayTable.SetCursor(m.Calendar.Cursor)
	}

	m.commandInput.SetValue(m.Palette.Input)
	if m.Palette.Active {
		m.commandInput.Focus()
	} else {
		m.commandInput.Blur()
	}

	if m.Diary.Writing {
		m.diaryArea.Focus()
	} else {
		m.diaryArea.Blur()
		m.diaryArea.SetValue(m.Diary.Content)
	}
}

// importanceMarks shows one "!" per importance rank in the day list.
func importanceMarks(i model.Importance) string {
	return strings.Repeat("!", i.Rank())
}

func densityDimensions(compact bool) (tableHeight int, areaHeight int) {
	if compact {
		return 4, 6
	}
	return 6, 10
}
