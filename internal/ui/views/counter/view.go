package counter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	progressdto "japa/internal/modules/progress/dto"
	"japa/internal/ui/theme"
)

const beadsPerRound = 108

// Model renders the mala counter and today's numbers. It holds no state of
// record; the root model pushes documents and bead counts into it.
type Model struct {
	styles     theme.Styles
	doc        progressdto.DocumentOutput
	beads      int
	completing bool
	celebrate  bool
	roundBar   progress.Model
	goalBar    progress.Model
	spinner    spinner.Model
	width      int
	height     int
}

func New(styles theme.Styles) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	m := Model{spinner: sp}
	m.SetStyles(styles)
	return m
}

func (m *Model) SetStyles(s theme.Styles) {
	m.styles = s
	m.roundBar = progress.New(progress.WithGradient(string(s.Palette.Lavender), string(s.Palette.Sapphire)), progress.WithoutPercentage())
	m.goalBar = progress.New(progress.WithGradient(string(s.Palette.Peach), string(s.Palette.Green)))
	m.spinner.Style = s.Good
	m.resize()
}

func (m *Model) SetDocument(doc progressdto.DocumentOutput) {
	m.doc = doc
	if doc.TodayCount < doc.DailyGoal {
		m.celebrate = false
	}
}

// SetBeads shows the transient count. completing marks a full round whose
// bookkeeping is still pending; entering it starts the spinner.
func (m *Model) SetBeads(beads int, completing bool) tea.Cmd {
	started := completing && !m.completing
	m.beads = beads
	m.completing = completing
	if started {
		return m.spinner.Tick
	}
	return nil
}

func (m *Model) Celebrate() { m.celebrate = true }

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
	case spinner.TickMsg:
		if !m.completing {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) resize() {
	w := m.width - 12
	if w > 60 {
		w = 60
	}
	if w < 10 {
		w = 10
	}
	m.roundBar.Width = w
	m.goalBar.Width = w
}

func (m Model) View() string {
	s := m.styles
	count := s.Title.Render(fmt.Sprintf("%d", m.beads)) + s.Muted.Render(fmt.Sprintf(" / %d", beadsPerRound))
	if m.completing {
		count += "  " + m.spinner.View() + s.Good.Render(" completing round")
	}

	counter := lipgloss.JoinVertical(lipgloss.Center,
		s.Muted.Render("Hare Krishna"),
		"",
		count,
		"",
		m.roundBar.ViewAs(float64(m.beads)/beadsPerRound),
	)

	goalLine := fmt.Sprintf("Today %d / %d rounds", m.doc.TodayCount, m.doc.DailyGoal)
	if m.celebrate || (m.doc.DailyGoal > 0 && m.doc.TodayCount >= m.doc.DailyGoal) {
		goalLine += "  " + s.Good.Render("goal achieved")
	}
	ratio := m.doc.Progress
	if ratio > 1 {
		ratio = 1
	}
	stats := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render("Daily goal"),
		goalLine,
		m.goalBar.ViewAs(ratio),
		"",
		fmt.Sprintf("%s %d days   %s %d rounds",
			s.Muted.Render("Streak"), m.doc.Streak,
			s.Muted.Render("Total"), m.doc.TotalRounds),
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		s.PaneActive.Width(m.paneWidth()).Align(lipgloss.Center).Render(counter),
		s.Pane.Width(m.paneWidth()).Render(stats),
		s.Pane.Width(m.paneWidth()).Render(m.renderActivity()),
	)
}

func (m Model) renderActivity() string {
	s := m.styles
	var sb strings.Builder
	sb.WriteString(s.Title.Render("Recent activity") + "\n")
	if len(m.doc.RecentActivity) == 0 {
		sb.WriteString(s.Muted.Render("No activity yet. Press space to chant."))
		return sb.String()
	}
	for _, a := range m.doc.RecentActivity {
		marker := "•"
		switch a.Kind {
		case "round":
			marker = s.Good.Render("●")
		case "goal":
			marker = s.Hot.Render("◆")
		case "reset":
			marker = s.Bad.Render("↺")
		}
		sb.WriteString(fmt.Sprintf("%s %s %s\n", marker, a.Message, s.Muted.Render(a.Date+" "+a.Time)))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (m Model) paneWidth() int {
	if m.width < 24 {
		return 60
	}
	return m.width - 4
}
