package views

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

type AppData struct {
	Header       string
	LeftPane     string
	RightPane    string
	StatusLine   string
	StatusError  bool
	Footer       string
	Legend       []LegendItem
	Compact      bool
}

// LegendItem is one category swatch under the panes.
type LegendItem struct {
	Label string
	Color string
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	panelStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// PanelWidth is the inner width of each pane for the given density.
func PanelWidth(compact bool) int {
	if compact {
		return 46
	}
	return 58
}

func RenderApp(data AppData) string {
	style := panelStyle
	if data.Compact {
		style = style.Padding(0)
	}
	width := PanelWidth(data.Compact)
	left := style.Width(width).Render(data.LeftPane)
	right := style.Width(width).Render(data.RightPane)
	row := lipgloss.JoinHorizontal(lipgloss.Top, left, right)

	status := statusStyle.Render(data.StatusLine)
	if data.StatusError {
		status = errorStyle.Render(data.StatusLine)
	}

	lines := []string{
		headerStyle.Render(data.Header),
		row,
		status,
	}
	if legend := renderLegend(data.Legend); legend != "" {
		lines = append(lines, legend)
	}
	if data.Footer != "" {
		lines = append(lines, footerStyle.Render(data.Footer))
	}
	return strings.Join(lines, "\n")
}

func renderLegend(items []LegendItem) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		parts = append(parts, Dot(item.Color)+" "+item.Label)
	}
	return footerStyle.Render(strings.Join(parts, "  "))
}

// RenderMarkdown renders diary text for a terminal, wrapped at width columns.
// A width of 0 leaves wrapping to glamour's default. On a render error the
// source is returned as is.
func RenderMarkdown(md string, width int) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	opts := []glamour.TermRendererOption{glamour.WithStandardStyle("dark")}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimSpace(out)
}
