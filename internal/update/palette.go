package update

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/lifecal/internal/calendar"
	"github.com/sandeepkv93/lifecal/internal/commands"
	applog "github.com/sandeepkv93/lifecal/internal/log"
	"github.com/sandeepkv93/lifecal/internal/model"
	"github.com/sandeepkv93/lifecal/internal/views"
)

func (m Model) handlePaletteKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "esc":
		m.Palette.Active = false
		m.Palette.Input = ""
		m.commandInput.SetValue("")
		m.commandInput.Blur()
		m.Status = StatusBar{Text: "command palette closed"}
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		m = m.executePaletteCommand()
	default:
		if msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace {
			m.commandInput.SetValue(m.commandInput.Value() + string(msg.Runes))
			m.Palette.Input = m.commandInput.Value()
			return m
		}
		m.commandInput.Focus()
		m.commandInput, _ = m.commandInput.Update(msg)
		m.Palette.Input = m.commandInput.Value()
	}
	return m
}

func (m Model) executePaletteCommand() Model {
	raw := strings.TrimSpace(m.Palette.Input)
	cmd, err := commands.Parse(raw)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		m.Palette.Active = false
		m.Palette.Input = ""
		return m
	}

	res, err := commands.Execute(cmd, commands.Handlers{
		Goto: func(a commands.GotoArgs) (commands.Result, error) {
			date := a.Date
			if date == "" {
				date = m.today()
			}
			m.CurrentView = ViewCalendar
			m.selectDate(date)
			return commands.Result{Message: "selected " + date}, nil
		},
		Add: func(a commands.AddArgs) (commands.Result, error) {
			draft := calendar.EmptyDraft(m.Calendar.Form.SelectedDate)
			draft.Title = a.Title
			saved, err := m.store.Upsert(m.ctx, draft)
			if err != nil {
				return commands.Result{}, err
			}
			m.CurrentView = ViewCalendar
			return commands.Result{Message: fmt.Sprintf("added %q on %s", saved.Title, saved.Date)}, nil
		},
		Month: func(a commands.MonthArgs) (commands.Result, error) {
			m.CurrentView = ViewCalendar
			m.selectDate(calendar.ShiftMonth(m.Calendar.Form.SelectedDate, a.Delta))
			return commands.Result{Message: "month " + m.Calendar.Month.Format("2006-01")}, nil
		},
		Export: func(a commands.PathArgs) (commands.Result, error) {
			n, err := m.exportICS(a.Path)
			if err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("exported %d event(s) to %s", n, a.Path)}, nil
		},
		Import: func(a commands.PathArgs) (commands.Result, error) {
			added, skipped, err := m.importICS(a.Path)
			if err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("imported %d event(s), skipped %d", added, skipped)}, nil
		},
		Category: func(a commands.CategoryArgs) (commands.Result, error) {
			m.CurrentView = ViewCalendar
			form := m.Calendar.Form.SelectCategory(a.Category)
			if a.Category == model.CategoryCustom && a.Name != "" {
				form, _ = form.SetField(calendar.FieldCustomCategoryName, a.Name)
			}
			m.Calendar.Form = form
			return commands.Result{Message: "category: " + model.CategoryLabel(form.Draft)}, nil
		},
	})
	if err != nil {
		applog.Error("palette command failed", err, "input", raw)
		m.Status = StatusBar{Text: err.Error(), IsError: true}
	} else {
		m.Status = StatusBar{Text: res.Message}
	}

	m.Palette.Active = false
	m.Palette.Input = ""
	m.commandInput.SetValue("")
	return m
}

func (m Model) exportICS(path string) (int, error) {
	events := m.store.Between("", "")
	f, err := os.Create(expandHome(path))
	if err != nil {
		return 0, fmt.Errorf("export: %w", err)
	}
	if err := calendar.ExportICS(f, events, m.now()); err != nil {
		_ = f.Close()
		return 0, err
	}
	if err := f.Close(); err != nil {
		return 0, fmt.Errorf("export: %w", err)
	}
	return len(events), nil
}

func (m Model) importICS(path string) (int, int, error) {
	f, err := os.Open(expandHome(path))
	if err != nil {
		return 0, 0, fmt.Errorf("import: %w", err)
	}
	defer f.Close()

	result, err := calendar.ImportICS(f)
	if err != nil {
		return 0, 0, err
	}
	added, rejected, err := m.store.AddAll(m.ctx, result.Drafts)
	return added, result.Skipped + rejected, err
}

func (m Model) renderCommandPalette() string {
	return views.RenderCommandPalette(m.Palette.Active, m.Palette.Input)
}
