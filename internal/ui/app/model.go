package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	preferencesdto "japa/internal/modules/preferences/dto"
	progressdto "japa/internal/modules/progress/dto"
	sessiondto "japa/internal/modules/session/dto"
	sessionout "japa/internal/modules/session/port/out"
	"japa/internal/platform/clock"
	apperrors "japa/internal/platform/errors"
	"japa/internal/platform/logging"
	"japa/internal/ui/components"
	"japa/internal/ui/theme"
	counterview "japa/internal/ui/views/counter"
	historyview "japa/internal/ui/views/history"
	summaryview "japa/internal/ui/views/summary"
)

// ─── ports ───────────────────────────────────────────────────────────────────

type ProgressPort interface {
	Document(ctx context.Context) (progressdto.DocumentOutput, error)
	Stats(ctx context.Context) (progressdto.StatsOutput, error)
	SetGoal(ctx context.Context, raw string) (progressdto.MutationOutput, error)
	SetGoalPreset(ctx context.Context, index int) (progressdto.MutationOutput, error)
	ResetTodayRounds(ctx context.Context) (progressdto.MutationOutput, error)
	Export(ctx context.Context, dir string) (progressdto.ExportOutput, error)
	Import(ctx context.Context, path string) (progressdto.MutationOutput, error)
}

type PreferencesPort interface {
	Theme(ctx context.Context) (preferencesdto.ThemeOutput, error)
	ApplyTheme(ctx context.Context, arg string) (preferencesdto.ThemeOutput, error)
	Audio(ctx context.Context) (preferencesdto.AudioOutput, error)
	ToggleAudio(ctx context.Context, setting string) (preferencesdto.AudioOutput, error)
	SetVoice(ctx context.Context, key string) (preferencesdto.AudioOutput, error)
	SetPlaybackRate(ctx context.Context, raw string) (preferencesdto.AudioOutput, error)
}

type SessionPort interface {
	Start(ctx context.Context) (sessiondto.StateOutput, error)
	Chant(ctx context.Context) (sessiondto.ChantOutput, error)
	State(ctx context.Context) sessiondto.StateOutput
	ResetBeads(ctx context.Context) (sessiondto.ResetOutput, error)
	ResetCurrentProgress(ctx context.Context) (sessiondto.ResetOutput, error)
	ClearAll(ctx context.Context, everything bool) (sessiondto.ResetOutput, error)
	Close()
}

// SessionFactory builds the session controller on the model's scheduler.
type SessionFactory func(scheduler sessionout.Scheduler, listeners ...sessionout.Listener) SessionPort

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabCounter tabID = iota
	tabHistory
	tabReport
	tabCount
)

var tabLabels = [tabCount]string{"Counter", "History", "Report"}

// ─── confirm actions ─────────────────────────────────────────────────────────

const (
	actionResetBeads      = "reset-beads"
	actionResetRounds     = "reset-rounds"
	actionResetToday      = "reset-today"
	actionClearProgress   = "clear-progress"
	actionClearEverything = "clear-everything"
)

var actionPrompts = map[string]string{
	actionResetBeads:      components.PromptResetBeads,
	actionResetRounds:     components.PromptResetRounds,
	actionResetToday:      components.PromptResetToday,
	actionClearProgress:   components.PromptClearProgress,
	actionClearEverything: components.PromptClearEverything,
}

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Chant      key.Binding
	Tab        key.Binding
	Goal       key.Binding
	ResetBeads key.Binding
	ResetRound key.Binding
	ResetToday key.Binding
	Theme      key.Binding
	Sound      key.Binding
	Help       key.Binding
	Palette    key.Binding
	Quit       key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Chant:      key.NewBinding(key.WithKeys(" ", "enter", "j"), key.WithHelp("space", "chant")),
		Tab:        key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Goal:       key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "set goal")),
		ResetBeads: key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "clear beads")),
		ResetRound: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset rounds")),
		ResetToday: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "reset today")),
		Theme:      key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "toggle theme")),
		Sound:      key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "bead sound")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette:    key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:       key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Chant, k.Tab, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Chant, k.Goal, k.Tab},
		{k.ResetBeads, k.ResetRound, k.ResetToday},
		{k.Theme, k.Sound},
		{k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It owns the session controller, so
// every chant and every scheduled completion runs inside Update.
type Model struct {
	clock       clock.Clock
	progress    ProgressPort
	preferences PreferencesPort
	session     SessionPort
	scheduler   *teaScheduler
	signals     *signalQueue
	logger      *zap.Logger
	bell        io.Writer

	counterView counterview.Model
	historyView historyview.Model
	summaryView summaryview.Model

	styles    theme.Styles
	audio     preferencesdto.AudioOutput
	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	palette   components.Palette
	confirm   components.Confirm
	status    string
	width     int
	height    int
}

func NewModel(clk clock.Clock, progress ProgressPort, preferences PreferencesPort, newSession SessionFactory, logger *zap.Logger) Model {
	ctx := context.Background()
	scheduler := newTeaScheduler()
	signals := &signalQueue{}

	styles := theme.For("dark")
	if t, err := preferences.Theme(ctx); err == nil {
		styles = theme.For(t.Theme)
	}
	audio, _ := preferences.Audio(ctx)

	m := Model{
		clock:       clk,
		progress:    progress,
		preferences: preferences,
		session:     newSession(scheduler, signals),
		scheduler:   scheduler,
		signals:     signals,
		logger:      logging.OrNop(logger),
		bell:        os.Stderr,
		counterView: counterview.New(styles),
		historyView: historyview.New(styles),
		summaryView: summaryview.New(styles),
		styles:      styles,
		audio:       audio,
		activeTab:   tabCounter,
		keys:        defaultKeys(),
		help:        help.New(),
		palette:     components.NewPalette(styles),
		confirm:     components.NewConfirm(styles),
		status:      "ready",
	}
	state, err := m.session.Start(ctx)
	if err != nil {
		m.status = "resume failed: " + err.Error()
	}
	m.counterView.SetBeads(state.Beads, false)
	m.refresh()
	return m
}

func (m Model) Init() tea.Cmd { return nil }

// Close drops a completion that has not fired yet.
func (m Model) Close() {
	m.session.Close()
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.confirm.Visible() {
		var cmd tea.Cmd
		m.confirm, cmd = m.confirm.Update(msg)
		if _, isKey := msg.(tea.KeyMsg); isKey {
			return m, cmd
		}
	}
	if m.palette.Visible() {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		if _, isKey := msg.(tea.KeyMsg); isKey {
			return m, cmd
		}
	}

	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.confirm.SetWidth(min(m.width-4, 72))
		m.help.Width = m.width
		m.propagateSize()

	case taskDueMsg:
		m.scheduler.Fire(msg.id)
		return m, m.afterSession()

	case components.ConfirmResultMsg:
		if !msg.Accepted {
			m.status = "cancelled"
			return m, nil
		}
		return m.runAction(msg.Action)

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Tab):
			m.activeTab = (m.activeTab + 1) % tabCount
			m.refresh()
			return m, nil
		case msg.String() == "shift+tab":
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
			m.refresh()
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.showHelp = !m.showHelp
			return m, nil
		case key.Matches(msg, m.keys.Palette):
			return m, m.palette.Open("")
		case key.Matches(msg, m.keys.Goal):
			return m, m.palette.Open("goal ")
		case key.Matches(msg, m.keys.Chant) && m.activeTab == tabCounter:
			return m, m.chant()
		case key.Matches(msg, m.keys.ResetBeads):
			m.ask(actionResetBeads)
			return m, nil
		case key.Matches(msg, m.keys.ResetRound):
			m.ask(actionResetRounds)
			return m, nil
		case key.Matches(msg, m.keys.ResetToday):
			m.ask(actionResetToday)
			return m, nil
		case key.Matches(msg, m.keys.Theme):
			return m.applyTheme("toggle")
		case key.Matches(msg, m.keys.Sound):
			return m.toggleAudio("bead")
		}
	}

	var tabCmd tea.Cmd
	switch m.activeTab {
	case tabCounter:
		m.counterView, tabCmd = m.counterView.Update(msg)
	case tabHistory:
		m.historyView, tabCmd = m.historyView.Update(msg)
	case tabReport:
		m.summaryView, tabCmd = m.summaryView.Update(msg)
	}
	cmds = append(cmds, tabCmd)
	return m, tea.Batch(cmds...)
}

func (m *Model) chant() tea.Cmd {
	out, err := m.session.Chant(context.Background())
	if err != nil {
		m.status = "chant: " + err.Error()
		m.logger.Warn("chant failed", zap.Error(err))
	}
	if out.Outcome == "ignored" {
		return nil
	}
	return m.afterSession()
}

// afterSession reacts to the signals raised by the last session call and
// hands newly scheduled completions to the runtime.
func (m *Model) afterSession() tea.Cmd {
	cmds := m.scheduler.Drain()
	bells := 0
	for _, s := range m.signals.Drain() {
		switch s.Kind {
		case sessiondto.SignalBeadCounted:
			if m.audio.BeadSoundEnabled {
				bells = max(bells, 1)
			}
		case sessiondto.SignalRoundCompleted:
			m.notify("Round completed! 🙏")
			if !s.Persisted {
				m.status = "round counted but could not be saved"
			}
			if m.audio.RoundSoundEnabled {
				bells = max(bells, 2)
			}
		case sessiondto.SignalGoalAchieved:
			m.counterView.Celebrate()
			m.notify(fmt.Sprintf("🎉 Daily goal of %d rounds achieved!", s.Goal))
			if m.audio.RoundSoundEnabled {
				bells = 3
			}
		}
	}
	state := m.session.State(context.Background())
	cmds = append(cmds, m.counterView.SetBeads(state.Beads, state.Phase == "completing"))
	m.refresh()
	if bells > 0 {
		cmds = append(cmds, m.ring(bells))
	}
	return tea.Batch(cmds...)
}

func (m *Model) notify(text string) {
	if m.audio.NotificationsEnabled {
		m.status = text
	}
}

// ring is the terminal's only sound: the bell, n times.
func (m Model) ring(n int) tea.Cmd {
	out := m.bell
	return func() tea.Msg {
		_, _ = io.WriteString(out, strings.Repeat("\a", n))
		return nil
	}
}

func (m *Model) ask(action string) {
	m.confirm.Ask(action, actionPrompts[action])
}

func (m Model) runAction(action string) (tea.Model, tea.Cmd) {
	ctx := context.Background()
	var err error
	switch action {
	case actionResetBeads:
		_, err = m.session.ResetBeads(ctx)
		if errors.Is(err, apperrors.ErrCompletionPending) {
			m.status = "a round is being completed, try again in a moment"
			return m, nil
		}
		m.status = "Beads cleared!"
	case actionResetRounds:
		_, err = m.progress.ResetTodayRounds(ctx)
		m.status = "Rounds reset!"
	case actionResetToday:
		_, err = m.session.ResetCurrentProgress(ctx)
		m.status = "Current progress cleared! Streak & total preserved."
	case actionClearProgress:
		_, err = m.session.ClearAll(ctx, false)
		m.status = "Progress cleared!"
	case actionClearEverything:
		_, err = m.session.ClearAll(ctx, true)
		m.status = "Everything cleared! Theme preserved."
		if audio, aerr := m.preferences.Audio(ctx); aerr == nil {
			m.audio = audio
		}
	}
	if err != nil {
		m.status = action + ": " + err.Error()
	}
	state := m.session.State(ctx)
	m.counterView.SetBeads(state.Beads, state.Phase == "completing")
	m.refresh()
	return m, nil
}

func (m Model) applyTheme(arg string) (tea.Model, tea.Cmd) {
	out, err := m.preferences.ApplyTheme(context.Background(), arg)
	if err != nil {
		m.status = "theme: " + err.Error()
		return m, nil
	}
	m.setStyles(theme.For(out.Theme))
	m.status = "theme: " + out.Theme
	return m, nil
}

func (m Model) toggleAudio(setting string) (tea.Model, tea.Cmd) {
	out, err := m.preferences.ToggleAudio(context.Background(), setting)
	if err != nil {
		m.status = "audio: " + err.Error()
		return m, nil
	}
	m.audio = out
	m.status = fmt.Sprintf("%s %s", audioLabel(setting), enabledWord(audioFlag(out, setting)))
	return m, nil
}

func (m *Model) setStyles(s theme.Styles) {
	m.styles = s
	m.counterView.SetStyles(s)
	m.historyView.SetStyles(s)
	m.summaryView.SetStyles(s)
	m.palette.SetStyles(s)
	m.confirm.SetStyles(s)
}

// refresh pulls the document and statistics into the views.
func (m *Model) refresh() {
	ctx := context.Background()
	doc, err := m.progress.Document(ctx)
	if err != nil {
		m.status = "load: " + err.Error()
		return
	}
	m.counterView.SetDocument(doc)
	if m.activeTab == tabCounter {
		return
	}
	stats, err := m.progress.Stats(ctx)
	if err != nil {
		m.status = "stats: " + err.Error()
		return
	}
	m.historyView.SetStats(stats)
	m.summaryView.SetReport(stats, doc, m.clock.Now())
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	contentH := m.height - lipgloss.Height(tabBar) - lipgloss.Height(statusBar)
	if contentH < 1 {
		contentH = 1
	}

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).Render(m.help.View(m.keys))
	case m.confirm.Visible():
		content = lipgloss.Place(m.width, contentH, lipgloss.Center, lipgloss.Center, m.confirm.View())
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH, lipgloss.Center, lipgloss.Center, m.palette.View())
	default:
		content = m.activeView()
	}
	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) activeView() string {
	switch m.activeTab {
	case tabCounter:
		return m.counterView.View()
	case tabHistory:
		return m.historyView.View()
	case tabReport:
		return m.summaryView.View()
	}
	return ""
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		if i == m.activeTab {
			parts[i] = m.styles.Hot.Render(" " + tabLabels[i] + " ")
		} else {
			parts[i] = m.styles.Muted.Render(" " + tabLabels[i] + " ")
		}
	}
	bar := "japa  " + strings.Join(parts, m.styles.Muted.Render(" │ "))
	return m.styles.Bar.Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	right := m.styles.Muted.Render("space:chant  ?:help  :::palette  q:quit")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return "\n" + m.styles.Bar.Width(m.width).Render(left+strings.Repeat(" ", gap)+right)
}

// ─── palette execution ────────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	if strings.TrimSpace(input) == "" {
		return m, nil
	}
	ctx := context.Background()
	parts := strings.Fields(input)
	arg := strings.TrimSpace(strings.TrimPrefix(input, parts[0]))

	switch parts[0] {
	case "goal":
		out, err := m.progress.SetGoal(ctx, arg)
		if err != nil {
			m.status = "Please enter a goal between 1 and 64 rounds"
			return m, nil
		}
		m.status = fmt.Sprintf("Daily goal set to %d rounds", out.Document.DailyGoal)

	case "preset":
		i, err := strconv.Atoi(arg)
		if err == nil {
			var out progressdto.MutationOutput
			if out, err = m.progress.SetGoalPreset(ctx, i); err == nil {
				m.status = fmt.Sprintf("Daily goal set to %d rounds", out.Document.DailyGoal)
			}
		}
		if err != nil {
			m.status = "usage: preset <0-6>"
		}

	case "reset":
		switch arg {
		case "beads":
			m.ask(actionResetBeads)
		case "rounds":
			m.ask(actionResetRounds)
		case "today":
			m.ask(actionResetToday)
		default:
			m.status = "usage: reset beads|rounds|today"
		}
		return m, nil

	case "clear":
		if arg == "everything" {
			m.ask(actionClearEverything)
		} else {
			m.ask(actionClearProgress)
		}
		return m, nil

	case "export":
		out, err := m.progress.Export(ctx, arg)
		if err != nil {
			m.status = "export: " + err.Error()
			return m, nil
		}
		m.status = "exported to " + out.Path

	case "import":
		if arg == "" {
			m.status = "usage: import <file>"
			return m, nil
		}
		if _, err := m.progress.Import(ctx, arg); err != nil {
			m.status = "Error importing data. Please check the file format."
			m.logger.Warn("import failed", zap.String("path", arg), zap.Error(err))
			return m, nil
		}
		m.status = "Data imported successfully!"

	case "theme":
		if arg == "" {
			arg = "toggle"
		}
		return m.applyTheme(arg)

	case "toggle":
		return m.toggleAudio(arg)

	case "voice":
		out, err := m.preferences.SetVoice(ctx, arg)
		if err != nil {
			m.status = "voice: " + err.Error()
			return m, nil
		}
		m.audio = out
		for _, v := range out.Voices {
			if v.Selected {
				m.status = "Voice changed to " + v.Name
			}
		}

	case "speed":
		out, err := m.preferences.SetPlaybackRate(ctx, arg)
		if err != nil {
			m.status = "speed: " + err.Error()
			return m, nil
		}
		m.audio = out
		m.status = fmt.Sprintf("Speed changed to %g×", out.PlaybackRate)

	default:
		m.status = "unknown command: " + parts[0]
		return m, nil
	}
	m.refresh()
	return m, nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 3}
	m.counterView, _ = m.counterView.Update(sz)
	m.historyView, _ = m.historyView.Update(sz)
	m.summaryView, _ = m.summaryView.Update(sz)
}

func audioLabel(setting string) string {
	switch setting {
	case "bead":
		return "Bead sounds"
	case "round":
		return "Round sounds"
	case "notifications":
		return "Notifications"
	case "voice-chanting":
		return "Voice chanting"
	}
	return setting
}

func audioFlag(a preferencesdto.AudioOutput, setting string) bool {
	switch setting {
	case "bead":
		return a.BeadSoundEnabled
	case "round":
		return a.RoundSoundEnabled
	case "notifications":
		return a.NotificationsEnabled
	case "voice-chanting":
		return a.VoiceChantingEnabled
	}
	return false
}

func enabledWord(on bool) string {
	if on {
		return "enabled"
	}
	return "disabled"
}
