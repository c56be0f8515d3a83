package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"japa/internal/ui/theme"
)

// PaletteSubmitMsg is emitted when the user confirms a command.
type PaletteSubmitMsg struct{ Input string }

// PaletteCancelMsg is emitted when the user presses esc.
type PaletteCancelMsg struct{}

// hints must stay in sync with the switch in app/model.go executePalette.
var paletteHints = []string{
	"goal <1-64>",
	"preset <0-6>",
	"reset beads",
	"reset rounds",
	"reset today",
	"clear",
	"clear everything",
	"export [dir]",
	"import <file>",
	"theme [dark|light]",
	"toggle <bead|round|notifications|voice-chanting>",
	"voice <name>",
	"speed <rate>",
}

// Palette is a command-palette overlay backed by bubbles/textinput.
type Palette struct {
	input   textinput.Model
	styles  theme.Styles
	visible bool
	width   int
}

func NewPalette(styles theme.Styles) Palette {
	ti := textinput.New()
	ti.Placeholder = "type a command…"
	ti.CharLimit = 256
	return Palette{input: ti, styles: styles}
}

func (p Palette) Visible() bool { return p.visible }

// Open shows the palette with value prefilled and returns the focus command.
func (p *Palette) Open(value string) tea.Cmd {
	p.visible = true
	p.input.SetValue(value)
	p.input.CursorEnd()
	return p.input.Focus()
}

func (p *Palette) SetWidth(w int) { p.width = w }

func (p *Palette) SetStyles(s theme.Styles) { p.styles = s }

func (p Palette) Update(msg tea.Msg) (Palette, tea.Cmd) {
	if !p.visible {
		return p, nil
	}
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc":
			p.visible = false
			p.input.Blur()
			return p, func() tea.Msg { return PaletteCancelMsg{} }
		case "tab":
			if word := completion(p.input.Value()); word != "" {
				p.input.SetValue(word + " ")
				p.input.CursorEnd()
			}
			return p, nil
		case "enter":
			val := strings.TrimSpace(p.input.Value())
			p.visible = false
			p.input.Blur()
			return p, func() tea.Msg { return PaletteSubmitMsg{Input: val} }
		}
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

// matchingHints returns up to limit hints whose command word matches the
// first word typed so far.
func matchingHints(input string, limit int) []string {
	fields := strings.Fields(strings.ToLower(input))
	var out []string
	for _, h := range paletteHints {
		if len(fields) > 0 {
			word := strings.Fields(h)[0]
			if !strings.HasPrefix(word, fields[0]) || (len(fields) > 1 && word != fields[0]) {
				continue
			}
		}
		out = append(out, h)
		if len(out) == limit {
			break
		}
	}
	return out
}

// completion is the command word shared by every hint matching input, or ""
// when the match is ambiguous.
func completion(input string) string {
	word := ""
	for _, h := range matchingHints(input, len(paletteHints)) {
		w := strings.Fields(h)[0]
		if word != "" && w != word {
			return ""
		}
		word = w
	}
	return word
}

func (p Palette) View() string {
	if !p.visible {
		return ""
	}
	matching := matchingHints(p.input.Value(), 5)

	var sb strings.Builder
	sb.WriteString(p.styles.Title.Render("Command Palette") + "\n")
	sb.WriteString(": " + p.input.View() + "\n")
	if len(matching) > 0 {
		sb.WriteString("\n")
		for _, h := range matching {
			sb.WriteString(p.styles.Muted.Render("  "+h) + "\n")
		}
	}

	w := p.width
	if w < 20 {
		w = 64
	}
	return p.styles.Pane.BorderForeground(p.styles.Palette.Peach).Padding(0, 1).Width(w - 2).Render(sb.String())
}
