package components

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"

	"japa/internal/ui/theme"
)

func TestMatchingHintsFiltersOnCommandWord(t *testing.T) {
	t.Parallel()
	cases := map[string][]string{
		"res":     {"reset beads", "reset rounds", "reset today"},
		"reset r": {"reset beads", "reset rounds", "reset today"},
		"goal 12": {"goal <1-64>"},
		"zzz":     nil,
	}
	for input, want := range cases {
		if diff := cmp.Diff(want, matchingHints(input, 5)); diff != "" {
			t.Fatalf("matchingHints(%q) mismatch (-want +got):\n%s", input, diff)
		}
	}
	if got := len(matchingHints("", 5)); got != 5 {
		t.Fatalf("empty input should list 5 hints, got %d", got)
	}
}

func TestCompletion(t *testing.T) {
	t.Parallel()
	if got := completion("cl"); got != "clear" {
		t.Fatalf("completion(cl) = %q", got)
	}
	if got := completion("t"); got != "" {
		t.Fatalf("theme and toggle are ambiguous, got %q", got)
	}
}

func TestPaletteSubmitsTrimmedInput(t *testing.T) {
	t.Parallel()
	p := NewPalette(theme.For("dark"))
	p.Open("goal 12  ")
	p, cmd := p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if p.Visible() || cmd == nil {
		t.Fatalf("enter should close the palette and emit a command")
	}
	msg, ok := cmd().(PaletteSubmitMsg)
	if !ok || msg.Input != "goal 12" {
		t.Fatalf("unexpected submit message %#v", cmd())
	}
}

func TestConfirmAnswers(t *testing.T) {
	t.Parallel()
	for _, tc := range []struct {
		key  tea.KeyMsg
		want bool
	}{
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}}, true},
		{tea.KeyMsg{Type: tea.KeyEnter}, true},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}}, false},
		{tea.KeyMsg{Type: tea.KeyEsc}, false},
	} {
		c := NewConfirm(theme.For("light"))
		c.Ask("reset-beads", PromptResetBeads)
		c, cmd := c.Update(tc.key)
		if c.Visible() || cmd == nil {
			t.Fatalf("%s should close the dialog", tc.key)
		}
		res := cmd().(ConfirmResultMsg)
		if res.Action != "reset-beads" || res.Accepted != tc.want {
			t.Fatalf("%s: got %+v", tc.key, res)
		}
	}
}

func TestConfirmIgnoresOtherKeys(t *testing.T) {
	t.Parallel()
	c := NewConfirm(theme.For("dark"))
	c.Ask("clear-progress", PromptClearProgress)
	c, cmd := c.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	if !c.Visible() || cmd != nil {
		t.Fatalf("unrelated keys must keep the dialog open")
	}
}
