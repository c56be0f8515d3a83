package summary

import (
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	progressdto "japa/internal/modules/progress/dto"
	"japa/internal/ui/report"
	"japa/internal/ui/theme"
)

// Model shows the glamour-rendered progress report in a scrollable viewport.
type Model struct {
	styles   theme.Styles
	viewport viewport.Model
	markdown string
	err      error
	width    int
	height   int
}

func New(styles theme.Styles) Model {
	return Model{styles: styles, viewport: viewport.New(0, 0)}
}

func (m *Model) SetStyles(s theme.Styles) {
	m.styles = s
	m.rerender()
}

// SetReport rebuilds the markdown from fresh numbers and renders it.
func (m *Model) SetReport(stats progressdto.StatsOutput, doc progressdto.DocumentOutput, now time.Time) {
	m.markdown = report.Build(stats, doc, now)
	m.rerender()
}

func (m *Model) rerender() {
	if m.markdown == "" {
		return
	}
	out, err := report.Render(m.markdown, m.styles.Name, m.width-4)
	m.err = err
	if err != nil {
		m.viewport.SetContent(m.styles.Bad.Render("report: " + err.Error()))
		return
	}
	m.viewport.SetContent(out)
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height - 2
		m.rerender()
		return m, nil
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return m.viewport.View()
}
