// Package report turns progress statistics into a markdown summary, renders
// it for the terminal and keeps it up to date inside a user's notes file.
package report

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"

	progressdto "japa/internal/modules/progress/dto"
	"japa/internal/platform/markdown"
)

const (
	blockStart = "<!-- japa:report:start -->"
	blockEnd   = "<!-- japa:report:end -->"

	// recentDays bounds the per-day table.
	recentDays = 14
)

// Build returns the markdown report for stats as of now.
func Build(stats progressdto.StatsOutput, doc progressdto.DocumentOutput, now time.Time) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Japa report, %s\n\n", now.Format("Monday 2 January 2006"))

	fmt.Fprintf(&sb, "| | |\n|---|---|\n")
	fmt.Fprintf(&sb, "| Today | %d of %d rounds (%.0f%%) |\n", stats.Today, stats.Goal, stats.Progress*100)
	fmt.Fprintf(&sb, "| Streak | %d %s |\n", stats.Streak, plural(stats.Streak, "day", "days"))
	fmt.Fprintf(&sb, "| Lifetime | %d %s |\n", stats.TotalRounds, plural(stats.TotalRounds, "round", "rounds"))
	fmt.Fprintf(&sb, "| Current round | %d / 108 beads |\n", stats.CurrentBeads)
	if doc.LastChantDate != "" {
		fmt.Fprintf(&sb, "| Last chanted | %s |\n", doc.LastChantDate)
	}
	sb.WriteString("\n")

	if stats.Goal > 0 && stats.Today >= stats.Goal {
		sb.WriteString("> Daily goal achieved. Hare Krishna!\n\n")
	}

	sb.WriteString("## Recent days\n\n")
	if len(stats.History) == 0 {
		sb.WriteString("_No rounds recorded yet._\n\n")
	} else {
		sb.WriteString("| Date | Rounds | Goal met |\n|---|---:|:---:|\n")
		start := len(stats.History) - recentDays
		if start < 0 {
			start = 0
		}
		met := 0
		for i := len(stats.History) - 1; i >= start; i-- {
			d := stats.History[i]
			mark := ""
			if stats.Goal > 0 && d.Rounds >= stats.Goal {
				mark = "✓"
				met++
			}
			fmt.Fprintf(&sb, "| %s | %d | %s |\n", d.Date, d.Rounds, mark)
		}
		fmt.Fprintf(&sb, "\nGoal met on %d of the last %d recorded days.\n\n", met, len(stats.History)-start)
	}

	if len(doc.RecentActivity) > 0 {
		sb.WriteString("## Recent activity\n\n")
		for _, a := range doc.RecentActivity {
			fmt.Fprintf(&sb, "- %s _(%s %s)_\n", a.Message, a.Date, a.Time)
		}
	}
	return sb.String()
}

// Render formats markdown for a terminal of the given width in the dark or
// light glamour style.
func Render(md, style string, width int) (string, error) {
	if style != "light" {
		style = "dark"
	}
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("new renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("render report: %w", err)
	}
	return out, nil
}

// WriteNote stores the report inside a managed block of the markdown file at
// path, leaving the rest of the note alone. Frontmatter gains japa_updated.
func WriteNote(path, md string, now time.Time) error {
	content := ""
	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		content = string(raw)
	case os.IsNotExist(err):
	default:
		return fmt.Errorf("read note: %w", err)
	}
	note, err := markdown.ParseNote(content)
	if err != nil {
		return err
	}
	note.Meta["japa_updated"] = now.Format(time.RFC3339)
	note.SetBlock(blockStart, blockEnd, strings.TrimRight(md, "\n"))
	out, err := note.String()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
		return fmt.Errorf("write note: %w", err)
	}
	return nil
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
