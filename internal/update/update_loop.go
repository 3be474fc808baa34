package update

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	applog "github.com/sandeepkv93/lifecal/internal/log"
	"github.com/sandeepkv93/lifecal/internal/model"
	"github.com/sandeepkv93/lifecal/internal/views"
)

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(msg)
	next.syncBubbleData()
	return next, cmd
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		keyStr := typed.String()
		if keyStr == "ctrl+c" {
			return m.quit()
		}

		if m.Palette.Active {
			return m.handlePaletteKey(typed), nil
		}

		// Text entry swallows the global keys until esc.
		if m.CurrentView == ViewCalendar && m.Calendar.Typing {
			return m.handleCalendarInputKey(typed), nil
		}
		if m.CurrentView == ViewDiary && m.Diary.Writing {
			return m.handleDiaryWritingKey(typed), nil
		}

		switch keyStr {
		case m.Keys.Palette:
			m.Palette.Active = true
			m.Palette.Input = ""
			m.commandInput.SetValue("")
			m.Status = StatusBar{Text: "command palette active"}
			return m, nil
		case m.Keys.Calendar:
			m.CurrentView = ViewCalendar
			return m, nil
		case m.Keys.Diary:
			m.CurrentView = ViewDiary
			return m, nil
		case m.Keys.Help:
			m.HelpVisible = !m.HelpVisible
			if m.HelpVisible {
				m.Status = StatusBar{Text: "help shown"}
			} else {
				m.Status = StatusBar{Text: "help hidden"}
			}
			return m, nil
		case m.Keys.Quit:
			return m.quit()
		}

		switch m.CurrentView {
		case ViewCalendar:
			return m.handleCalendarKey(typed), nil
		case ViewDiary:
			return m.handleDiaryKey(typed), nil
		}
	case SwitchViewMsg:
		if isKnownView(typed.View) {
			m.CurrentView = typed.View
		}
		return m, nil
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		m.LastError = typed.Err
		if typed.Err != nil {
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
			applog.Error("app error", typed.Err)
		}
		return m, nil
	}
	return m, nil
}

func (m Model) quit() (Model, tea.Cmd) {
	m.Quitting = true
	if err := m.persistSession(); err != nil {
		applog.Error("session save failed", err)
	}
	return m, tea.Quit
}

func (m Model) View() string {
	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = fmt.Sprintf("status: error: %s", m.Status.Text)
		} else {
			status = fmt.Sprintf("status: %s", m.Status.Text)
		}
	}

	leftPane := ""
	rightPane := ""
	switch m.CurrentView {
	case ViewCalendar:
		leftPane = m.renderMonthGrid() + "\n\n" + m.renderDayEvents()
		rightPane = m.renderEventForm()
	case ViewDiary:
		leftPane = m.renderDiaryPanel()
		rightPane = m.renderDiaryPreview()
	}
	if extra := m.renderCommandPalette() + m.renderHelpIfVisible(); extra != "" {
		rightPane += "\n\n" + extra
	}

	return views.RenderApp(views.AppData{
		Header:      fmt.Sprintf("lifecal | view: %s | date: %s", m.CurrentView, m.selectedDate()),
		LeftPane:    leftPane,
		RightPane:   rightPane,
		StatusLine:  status,
		StatusError: m.Status.IsError,
		Legend:      categoryLegend(),
		Compact:     m.compact,
		Footer:      fmt.Sprintf("keys: %s calendar | %s diary | %s cmd | %s help | %s quit", m.Keys.Calendar, m.Keys.Diary, m.Keys.Palette, m.Keys.Help, m.Keys.Quit),
	})
}

func (m Model) selectedDate() string {
	if m.CurrentView == ViewDiary {
		return m.Diary.Date
	}
	return m.Calendar.Form.SelectedDate
}

func isKnownView(v View) bool {
	switch v {
	case ViewCalendar, ViewDiary:
		return true
	default:
		return false
	}
}

// categoryLegend lists every selectable category with its color; Custom shows
// the fallback since each custom event carries its own.
func categoryLegend() []views.LegendItem {
	items := make([]views.LegendItem, 0, len(model.Categories()))
	for _, c := range model.Categories() {
		items = append(items, views.LegendItem{Label: string(c), Color: model.ColorOf(model.Event{Category: c})})
	}
	return items
}
