package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// maxDots is how many event dots fit in a day cell before "+" is shown.
const maxDots = 3

const dotGlyph = "●"

type DayCellData struct {
	Number   int
	Blank    bool
	Selected bool
	Today    bool
	Colors   []string
}

type MonthGridData struct {
	Title   string
	Headers []string
	Weeks   [][]DayCellData
}

type FormFieldData struct {
	Label   string
	View    string
	Focused bool
}

type EventFormData struct {
	Mode             string
	CategoryLabel    string
	CategoryColor    string
	Importance       string
	Fields           []FormFieldData
	Warning          string
	ConfirmingDelete bool
}

type DayEventsData struct {
	Date      string
	Count     int
	TableView string
}

type DiaryEntryData struct {
	Date    string
	Preview string
}

type DiaryPanelData struct {
	Entries          []DiaryEntryData
	Cursor           int
	Date             string
	Writing          bool
	EditorView       string
	Warning          string
	ConfirmingDelete bool
}

type HelpPanelData struct {
	CurrentView string
	Bindings    []string
	HelpView    string
}

var (
	selectedDayStyle = lipgloss.NewStyle().Reverse(true)
	todayStyle       = lipgloss.NewStyle().Bold(true).Underline(true)
	mutedStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	warningStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

// Dot renders one category-colored event marker.
func Dot(color string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(dotGlyph)
}

func RenderMonthGrid(data MonthGridData) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(data.Title) + "\n")
	for _, h := range data.Headers {
		b.WriteString(fmt.Sprintf("%-6s", h))
	}
	b.WriteString("\n")
	for _, week := range data.Weeks {
		cells := make([]string, 0, len(week))
		for _, cell := range week {
			cells = append(cells, renderDayCell(cell))
		}
		b.WriteString(strings.Join(cells, " ") + "\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func renderDayCell(cell DayCellData) string {
	if cell.Blank {
		return strings.Repeat(" ", 5)
	}
	num := fmt.Sprintf("%2d", cell.Number)
	switch {
	case cell.Selected:
		num = selectedDayStyle.Render(num)
	case cell.Today:
		num = todayStyle.Render(num)
	}

	colors := cell.Colors
	overflow := len(colors) > maxDots
	if overflow {
		colors = colors[:maxDots-1]
	}
	dots := ""
	for _, color := range colors {
		dots += Dot(color)
	}
	shown := len(colors)
	if overflow {
		dots += "+"
		shown++
	}
	return num + dots + strings.Repeat(" ", maxDots-shown)
}

func RenderEventForm(data EventFormData) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("event (%s):\n", data.Mode))
	b.WriteString(fmt.Sprintf("category: %s %s   importance: %s\n", Dot(data.CategoryColor), data.CategoryLabel, data.Importance))
	for _, f := range data.Fields {
		cursor := " "
		if f.Focused {
			cursor = ">"
		}
		b.WriteString(fmt.Sprintf("%s %-9s %s\n", cursor, f.Label+":", f.View))
	}
	if data.ConfirmingDelete {
		b.WriteString(warningStyle.Render("delete this event? [y] yes [n] no") + "\n")
	}
	if data.Warning != "" {
		b.WriteString(errorStyle.Render("! "+data.Warning) + "\n")
	}
	b.WriteString(mutedStyle.Render("[tab]field [enter]save [c]category [i]importance [x]delete [esc]reset"))
	return b.String()
}

func RenderDayEvents(data DayEventsData) string {
	if data.Count == 0 {
		return fmt.Sprintf("%s:\n(no events)", data.Date)
	}
	return fmt.Sprintf("%s: %d event(s) [J/K]select [e]edit\n%s", data.Date, data.Count, data.TableView)
}

func RenderDiaryPanel(data DiaryPanelData) string {
	var b strings.Builder
	b.WriteString("diary:\n")
	if len(data.Entries) == 0 {
		b.WriteString("  (no entries yet)\n")
	}
	for i, entry := range data.Entries {
		cursor := " "
		if i == data.Cursor {
			cursor = ">"
		}
		b.WriteString(fmt.Sprintf("%s %s %s\n", cursor, entry.Date, mutedStyle.Render(entry.Preview)))
	}
	b.WriteString("\n")
	state := "reading"
	if data.Writing {
		state = "writing"
	}
	b.WriteString(fmt.Sprintf("%s (%s)\n", data.Date, state))
	b.WriteString(data.EditorView + "\n")
	if data.ConfirmingDelete {
		b.WriteString(warningStyle.Render("delete this entry? [y] yes [n] no") + "\n")
	}
	if data.Warning != "" {
		b.WriteString(errorStyle.Render("! "+data.Warning) + "\n")
	}
	b.WriteString(mutedStyle.Render("[w]write [ctrl+s]save [h/l]day [j/k]entry [n]today [x]delete"))
	return b.String()
}

func RenderDiaryPreview(rendered string) string {
	if strings.TrimSpace(rendered) == "" {
		return "preview:\n(empty)"
	}
	return "preview:\n" + rendered
}

func RenderCommandPalette(active bool, input string) string {
	if !active {
		return ""
	}
	return fmt.Sprintf("command: /%s", input)
}

func RenderHelpPanel(data HelpPanelData) string {
	return fmt.Sprintf("help:\nglobal and %s view:\n%s\n%s",
		strings.ToLower(data.CurrentView),
		strings.Join(data.Bindings, "\n"),
		data.HelpView,
	)
}
