package update

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/lifecal/internal/calendar"
	"github.com/sandeepkv93/lifecal/internal/diary"
	applog "github.com/sandeepkv93/lifecal/internal/log"
	"github.com/sandeepkv93/lifecal/internal/model"
	"github.com/sandeepkv93/lifecal/internal/views"
)

const diaryPreviewLen = 24

func (m Model) handleDiaryKey(msg tea.KeyMsg) Model {
	if m.Diary.ConfirmingDelete {
		return m.handleDiaryConfirmKey(msg)
	}

	switch msg.String() {
	case "w", "enter":
		m.Diary.Writing = true
		m.Diary.Warning = ""
	case "ctrl+s":
		m.saveDiary()
	case "h", "left":
		m.loadDiaryDate(calendar.ShiftDate(m.Diary.Date, -1))
	case "l", "right":
		next := calendar.ShiftDate(m.Diary.Date, 1)
		if next > m.today() {
			m.Status = StatusBar{Text: "diary dates cannot be in the future", IsError: true}
			return m
		}
		m.loadDiaryDate(next)
	case "n":
		m.loadDiaryDate(m.today())
	case "j", "down":
		m.moveDiaryCursor(1)
	case "k", "up":
		m.moveDiaryCursor(-1)
	case "x":
		if _, ok := m.book.Get(m.Diary.Date); !ok {
			m.Status = StatusBar{Text: "nothing saved for " + m.Diary.Date, IsError: true}
			return m
		}
		m.Diary.ConfirmingDelete = true
		m.Status = StatusBar{Text: fmt.Sprintf("delete diary entry for %s? y/n", m.Diary.Date)}
	}
	return m
}

func (m Model) handleDiaryWritingKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "esc":
		m.Diary.Writing = false
		return m
	case "ctrl+s":
		m.saveDiary()
		return m
	}
	m.diaryArea.Focus()
	m.diaryArea, _ = m.diaryArea.Update(msg)
	m.Diary.Content = m.diaryArea.Value()
	return m
}

func (m Model) handleDiaryConfirmKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "y":
		m.Diary.ConfirmingDelete = false
		date := m.Diary.Date
		if _, err := m.book.Delete(m.ctx, date); err != nil {
			applog.Error("diary delete not persisted", err, "date", date)
			m.Status = StatusBar{Text: "deleted, but changes could not be written to disk", IsError: true}
		} else {
			m.Status = StatusBar{Text: "deleted diary entry for " + date}
		}
		m.loadDiaryDate(date)
	case "n", "esc":
		m.Diary.ConfirmingDelete = false
		m.Status = StatusBar{Text: "delete cancelled"}
	default:
		m.Status = StatusBar{Text: "press y to delete or n to keep the entry"}
	}
	return m
}

func (m *Model) saveDiary() {
	entry := model.DiaryEntry{Date: m.Diary.Date, Content: m.Diary.Content}
	err := m.book.Put(m.ctx, entry, m.now())
	switch {
	case err == nil:
		m.Diary.Writing = false
		m.Diary.Warning = ""
		m.syncDiaryCursor()
		m.Status = StatusBar{Text: "diary saved for " + entry.Date}
	case errors.Is(err, diary.ErrNotPersisted):
		applog.Error("diary save not persisted", err, "date", entry.Date)
		m.Diary.Writing = false
		m.syncDiaryCursor()
		m.Status = StatusBar{Text: "saved, but changes could not be written to disk", IsError: true}
	default:
		m.Diary.Warning = diaryWarningFor(err)
		m.Status = StatusBar{Text: m.Diary.Warning, IsError: true}
	}
}

// loadDiaryDate switches the editor to date, discarding unsaved text.
func (m *Model) loadDiaryDate(date string) {
	m.Diary.Date = date
	m.Diary.Content = ""
	m.Diary.Writing = false
	m.Diary.Warning = ""
	if m.book == nil {
		return
	}
	if entry, ok := m.book.Get(date); ok {
		m.Diary.Content = entry.Content
	}
	m.syncDiaryCursor()
}

func (m *Model) moveDiaryCursor(delta int) {
	entries := m.book.Entries()
	if len(entries) == 0 {
		return
	}
	next := m.Diary.Cursor + delta
	if next < 0 {
		next = 0
	}
	if next >= len(entries) {
		next = len(entries) - 1
	}
	m.loadDiaryDate(entries[next].Date)
	m.Diary.Cursor = next
}

// syncDiaryCursor points the entry list at the open date when it has an entry.
func (m *Model) syncDiaryCursor() {
	for i, entry := range m.book.Entries() {
		if entry.Date == m.Diary.Date {
			m.Diary.Cursor = i
			return
		}
	}
}

func diaryWarningFor(err error) string {
	switch {
	case errors.Is(err, model.ErrEmptyContent):
		return "write something before saving"
	case errors.Is(err, model.ErrFutureDate):
		return "diary dates cannot be in the future"
	case errors.Is(err, model.ErrInvalidDate):
		return "date must look like 2006-01-02"
	default:
		return err.Error()
	}
}

func (m Model) renderDiaryPanel() string {
	var entries []views.DiaryEntryData
	if m.book != nil {
		for _, entry := range m.book.Entries() {
			entries = append(entries, views.DiaryEntryData{Date: entry.Date, Preview: previewLine(entry.Content)})
		}
	}
	return views.RenderDiaryPanel(views.DiaryPanelData{
		Entries:          entries,
		Cursor:           m.Diary.Cursor,
		Date:             m.Diary.Date,
		Writing:          m.Diary.Writing,
		EditorView:       m.diaryArea.View(),
		Warning:          m.Diary.Warning,
		ConfirmingDelete: m.Diary.ConfirmingDelete,
	})
}

func (m Model) renderDiaryPreview() string {
	return views.RenderDiaryPreview(views.RenderMarkdown(m.Diary.Content, views.PanelWidth(m.compact)-4))
}

func previewLine(content string) string {
	line := strings.TrimSpace(strings.SplitN(strings.TrimSpace(content), "\n", 2)[0])
	runes := []rune(line)
	if len(runes) > diaryPreviewLen {
		return string(runes[:diaryPreviewLen-1]) + "…"
	}
	return line
}
