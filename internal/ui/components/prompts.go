package components

// Confirmation prompts shared by the terminal UI and the CLI.
const (
	PromptResetBeads = "Reset Current Bead Count?\n\nThis will clear your current bead progress (0-108) without affecting completed rounds or your overall statistics. Use this if you need to restart your current round."

	PromptResetRounds = "Reset Completed Rounds?\n\nThis will clear all rounds you've completed today while keeping your current bead progress intact. Your overall statistics and streak will remain unchanged."

	PromptResetToday = "Reset Today's Progress?\n\nThis will clear today's completed rounds and current bead count, giving you a fresh start for today. Your historical data, streak, and total lifetime rounds will be preserved."

	PromptClearProgress = "Clear Progress?\n\nThis will delete your chanting progress and start over from the defaults. Theme and audio settings are kept."

	PromptClearEverything = "Permanent Data Reset?\n\nThis will permanently delete ALL your chanting data including:\n• All completed rounds\n• Historical statistics\n• Activity history\n• Daily streaks\n\nOnly your theme preference will be preserved. This action cannot be undone."
)
