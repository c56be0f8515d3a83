package history

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	progressdto "japa/internal/modules/progress/dto"
	"japa/internal/ui/theme"
)

// Model lists every recorded day, newest first.
type Model struct {
	styles theme.Styles
	table  table.Model
	goal   int
	days   int
	width  int
	height int
}

func New(styles theme.Styles) Model {
	t := table.New(
		table.WithColumns(columns(40)),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	m := Model{table: t}
	m.SetStyles(styles)
	return m
}

func columns(barWidth int) []table.Column {
	return []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Rounds", Width: 7},
		{Title: "", Width: barWidth},
	}
}

func (m *Model) SetStyles(s theme.Styles) {
	m.styles = s
	ts := table.DefaultStyles()
	ts.Header = ts.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(s.Palette.Surface1).
		BorderBottom(true).
		Foreground(s.Palette.Sapphire).
		Bold(true)
	ts.Selected = ts.Selected.Foreground(s.Palette.Base).Background(s.Palette.Lavender)
	m.table.SetStyles(ts)
}

// SetStats replaces the rows. History arrives oldest first.
func (m *Model) SetStats(stats progressdto.StatsOutput) {
	m.goal = stats.Goal
	m.days = len(stats.History)
	peak := 1
	for _, d := range stats.History {
		if d.Rounds > peak {
			peak = d.Rounds
		}
	}
	barWidth := m.barWidth()
	rows := make([]table.Row, 0, len(stats.History))
	for i := len(stats.History) - 1; i >= 0; i-- {
		d := stats.History[i]
		n := d.Rounds * barWidth / peak
		bar := strings.Repeat("█", n)
		if stats.Goal > 0 && d.Rounds >= stats.Goal {
			bar += " ✓"
		}
		rows = append(rows, table.Row{d.Date, fmt.Sprintf("%d", d.Rounds), bar})
	}
	m.table.SetColumns(columns(barWidth + 2))
	m.table.SetRows(rows)
}

func (m Model) barWidth() int {
	w := m.width - 30
	if w > 48 {
		w = 48
	}
	if w < 8 {
		w = 8
	}
	return w
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = msg.Width
		m.height = msg.Height
		h := m.height - 6
		if h < 3 {
			h = 3
		}
		m.table.SetHeight(h)
		return m, nil
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	title := m.styles.Title.Render("History") + m.styles.Muted.Render(fmt.Sprintf("  %d days  goal %d", m.days, m.goal))
	if m.days == 0 {
		return m.styles.Pane.Render(title + "\n\n" + m.styles.Muted.Render("No rounds recorded yet."))
	}
	return m.styles.Pane.Render(title + "\n\n" + m.table.View())
}
