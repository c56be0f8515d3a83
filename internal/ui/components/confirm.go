package components

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"japa/internal/ui/theme"
)

// ConfirmResultMsg carries the user's answer for Action.
type ConfirmResultMsg struct {
	Action   string
	Accepted bool
}

// Confirm is a y/n overlay guarding destructive actions.
type Confirm struct {
	action  string
	prompt  string
	styles  theme.Styles
	visible bool
	width   int
}

func NewConfirm(styles theme.Styles) Confirm {
	return Confirm{styles: styles}
}

func (c Confirm) Visible() bool { return c.visible }

func (c *Confirm) Ask(action, prompt string) {
	c.action = action
	c.prompt = prompt
	c.visible = true
}

func (c *Confirm) SetWidth(w int) { c.width = w }

func (c *Confirm) SetStyles(s theme.Styles) { c.styles = s }

func (c Confirm) Update(msg tea.Msg) (Confirm, tea.Cmd) {
	if !c.visible {
		return c, nil
	}
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil
	}
	var accepted bool
	switch strings.ToLower(key.String()) {
	case "y", "enter":
		accepted = true
	case "n", "esc", "q":
	default:
		return c, nil
	}
	c.visible = false
	action := c.action
	return c, func() tea.Msg { return ConfirmResultMsg{Action: action, Accepted: accepted} }
}

func (c Confirm) View() string {
	if !c.visible {
		return ""
	}
	w := c.width
	if w < 20 {
		w = 56
	}
	body := c.styles.Hot.Render("Are you sure?") + "\n\n" + c.prompt + "\n\n" + c.styles.Muted.Render("y: confirm   n/esc: cancel")
	return c.styles.Pane.BorderForeground(c.styles.Palette.Red).Width(w - 2).Render(body)
}
