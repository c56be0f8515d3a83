package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"japa/internal/bootstrap"
	sessioninadapter "japa/internal/modules/session/adapter/in"
	sessionoutadapter "japa/internal/modules/session/adapter/out"
	sessiondto "japa/internal/modules/session/dto"
	sessionout "japa/internal/modules/session/port/out"
	"japa/internal/platform/config"
	"japa/internal/platform/dispatch"
	apperrors "japa/internal/platform/errors"
	"japa/internal/ui/components"
	"japa/internal/ui/report"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type rootOptions struct {
	home  string
	debug bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "japa",
		Short:         "Chanting round tracker",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.home, "home", config.DefaultHome(), "data directory")
	root.PersistentFlags().BoolVar(&opts.debug, "debug", false, "debug logging")

	root.AddCommand(newTUICmd(opts))
	root.AddCommand(newChantCmd(opts))
	root.AddCommand(newStatusCmd(opts))
	root.AddCommand(newGoalCmd(opts))
	root.AddCommand(newResetCmd(opts))
	root.AddCommand(newClearCmd(opts))
	root.AddCommand(newExportCmd(opts))
	root.AddCommand(newImportCmd(opts))
	root.AddCommand(newHistoryCmd(opts))
	root.AddCommand(newReportCmd(opts))
	root.AddCommand(newThemeCmd(opts))
	root.AddCommand(newAudioCmd(opts))
	return root
}

func loadApp(opts *rootOptions) (*bootstrap.App, error) {
	cfg, err := config.Load(opts.home)
	if err != nil {
		return nil, err
	}
	if err := config.WriteDefault(cfg); err != nil {
		return nil, err
	}
	return bootstrap.New(cfg, opts.debug)
}

// runApp loads the app, runs fn and closes the store afterwards.
func runApp(opts *rootOptions, fn func(app *bootstrap.App) error) error {
	app, err := loadApp(opts)
	if err != nil {
		return err
	}
	return errors.Join(fn(app), app.Close())
}

// withSession runs fn on a dispatch loop that owns a freshly started
// session. Every session call, including scheduled completions, happens on
// that loop.
func withSession(app *bootstrap.App, fn func(loop *dispatch.Loop, session sessioninadapter.CLIHandler) error, listeners ...sessionout.Listener) error {
	loop := dispatch.New()
	defer loop.Stop()
	session := app.NewLoopSession(loop, listeners...)

	var startErr error
	if err := loop.Do(func() { _, startErr = session.Start(context.Background()) }); err != nil {
		return err
	}
	if startErr != nil {
		return fmt.Errorf("resume session: %w", startErr)
	}
	err := fn(loop, session)
	_ = loop.Do(session.Close)
	return err
}

func newTUICmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the interactive counter",
		RunE: func(_ *cobra.Command, _ []string) error {
			app, err := loadApp(opts)
			if err != nil {
				return err
			}
			return bootstrap.RunTUI(app)
		},
	}
}

func newChantCmd(opts *rootOptions) *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:   "chant [-n N]",
		Short: "Count N beads, waiting out each round completion",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if count < 1 {
				return fmt.Errorf("%w: -n must be at least 1", apperrors.ErrInvalidInput)
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			out := cmd.OutOrStdout()

			return runApp(opts, func(app *bootstrap.App) error {
				completed := make(chan struct{}, 1)
				listener := sessionoutadapter.ListenerFunc(func(s sessiondto.Signal) {
					switch s.Kind {
					case sessiondto.SignalRoundCompleted:
						_, _ = fmt.Fprintf(out, "round completed: today=%d goal=%d\n", s.TodayCount, s.Goal)
						if !s.Persisted {
							_, _ = fmt.Fprintln(out, "warning: round counted but could not be saved")
						}
						completed <- struct{}{}
					case sessiondto.SignalGoalAchieved:
						_, _ = fmt.Fprintf(out, "daily goal of %d rounds achieved!\n", s.Goal)
					}
				})

				return withSession(app, func(loop *dispatch.Loop, session sessioninadapter.CLIHandler) error {
					for i := 0; i < count; i++ {
						var res sessiondto.ChantOutput
						var chantErr error
						if err := loop.Do(func() { res, chantErr = session.Chant(ctx) }); err != nil {
							return err
						}
						if chantErr != nil {
							return chantErr
						}
						if res.Outcome != "round_full" {
							continue
						}
						select {
						case <-completed:
						case <-time.After(app.Config.Session.CompletionDelay + 5*time.Second):
							return fmt.Errorf("round completion did not finish, see %s", app.Config.LogPath)
						case <-ctx.Done():
							return ctx.Err()
						}
					}
					var state sessiondto.StateOutput
					if err := loop.Do(func() { state = session.State(ctx) }); err != nil {
						return err
					}
					_, _ = fmt.Fprintf(out, "beads=%d/108\n", state.Beads)
					return nil
				}, listener)
			})
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 1, "number of beads to chant")
	return cmd
}

func newStatusCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show today's progress",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runApp(opts, func(app *bootstrap.App) error {
				stats, err := app.ProgressCLI.Stats(context.Background())
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "today=%d/%d (%.0f%%) streak=%d total=%d beads=%d/108\n",
					stats.Today, stats.Goal, min(stats.Progress, 1)*100, stats.Streak, stats.TotalRounds, stats.CurrentBeads)
				return nil
			})
		},
	}
}

func newGoalCmd(opts *rootOptions) *cobra.Command {
	preset := -1
	cmd := &cobra.Command{
		Use:   "goal <rounds> | --preset <index>",
		Short: "Set the daily round goal",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if preset < 0 && len(args) == 0 {
				return fmt.Errorf("a goal or --preset is required")
			}
			return runApp(opts, func(app *bootstrap.App) error {
				ctx := context.Background()
				var (
					goal      int
					persisted bool
				)
				if preset >= 0 {
					out, err := app.ProgressCLI.SetGoalPreset(ctx, preset)
					if err != nil {
						return err
					}
					goal, persisted = out.Document.DailyGoal, out.Persisted
				} else {
					out, err := app.ProgressCLI.SetGoal(ctx, args[0])
					if errors.Is(err, apperrors.ErrInvalidGoal) {
						return fmt.Errorf("please enter a goal between 1 and 64 rounds")
					}
					if err != nil {
						return err
					}
					goal, persisted = out.Document.DailyGoal, out.Persisted
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "daily goal set to %d rounds\n", goal)
				warnUnsaved(cmd.OutOrStdout(), persisted)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&preset, "preset", -1, "preset index (0: 1, 1: 4, 2: 8, 3: 16, 4: 32, 5: 48, 6: 64)")
	return cmd
}

func newResetCmd(opts *rootOptions) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:       "reset beads|rounds|today",
		Short:     "Reset bead count, today's rounds or today's progress",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"beads", "rounds", "today"},
		RunE: func(cmd *cobra.Command, args []string) error {
			prompts := map[string]string{
				"beads":  components.PromptResetBeads,
				"rounds": components.PromptResetRounds,
				"today":  components.PromptResetToday,
			}
			prompt, ok := prompts[args[0]]
			if !ok {
				return fmt.Errorf("%w: unknown reset target %q", apperrors.ErrInvalidInput, args[0])
			}
			if !yes && !confirm(cmd.InOrStdin(), cmd.OutOrStdout(), prompt) {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "cancelled")
				return nil
			}
			out := cmd.OutOrStdout()
			return runApp(opts, func(app *bootstrap.App) error {
				ctx := context.Background()
				if args[0] == "rounds" {
					res, err := app.ProgressCLI.ResetTodayRounds(ctx)
					if err != nil {
						return err
					}
					_, _ = fmt.Fprintln(out, "Rounds reset!")
					warnUnsaved(out, res.Persisted)
					return nil
				}
				return withSession(app, func(loop *dispatch.Loop, session sessioninadapter.CLIHandler) error {
					var res sessiondto.ResetOutput
					var resetErr error
					if err := loop.Do(func() {
						if args[0] == "beads" {
							res, resetErr = session.ResetBeads(ctx)
						} else {
							res, resetErr = session.ResetCurrentProgress(ctx)
						}
					}); err != nil {
						return err
					}
					if resetErr != nil {
						return resetErr
					}
					if args[0] == "beads" {
						_, _ = fmt.Fprintln(out, "Beads cleared!")
					} else {
						_, _ = fmt.Fprintln(out, "Current progress cleared! Streak & total preserved.")
					}
					warnUnsaved(out, res.Progress.Persisted)
					return nil
				})
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func newClearCmd(opts *rootOptions) *cobra.Command {
	var everything, yes bool
	cmd := &cobra.Command{
		Use:   "clear [--everything]",
		Short: "Delete progress, or all stored data except the theme",
		RunE: func(cmd *cobra.Command, _ []string) error {
			prompt := components.PromptClearProgress
			if everything {
				prompt = components.PromptClearEverything
			}
			if !yes && !confirm(cmd.InOrStdin(), cmd.OutOrStdout(), prompt) {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "cancelled")
				return nil
			}
			out := cmd.OutOrStdout()
			return runApp(opts, func(app *bootstrap.App) error {
				return withSession(app, func(loop *dispatch.Loop, session sessioninadapter.CLIHandler) error {
					var res sessiondto.ResetOutput
					var clearErr error
					if err := loop.Do(func() { res, clearErr = session.ClearAll(context.Background(), everything) }); err != nil {
						return err
					}
					if clearErr != nil {
						return clearErr
					}
					if everything {
						_, _ = fmt.Fprintln(out, "Everything cleared! Theme preserved.")
					} else {
						_, _ = fmt.Fprintln(out, "Progress cleared!")
					}
					warnUnsaved(out, res.Progress.Persisted)
					return nil
				})
			})
		},
	}
	cmd.Flags().BoolVar(&everything, "everything", false, "also drop audio settings")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func newExportCmd(opts *rootOptions) *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a JSON backup of the progress document",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runApp(opts, func(app *bootstrap.App) error {
				out, err := app.ProgressCLI.Export(context.Background(), dir)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "exported %s (%d bytes)\n", out.Path, out.Bytes)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&dir, "dir", ".", "target directory")
	return cmd
}

func newImportCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace progress with a JSON backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApp(opts, func(app *bootstrap.App) error {
				out, err := app.ProgressCLI.Import(context.Background(), args[0])
				if errors.Is(err, apperrors.ErrInvalidFormat) {
					return fmt.Errorf("error importing data, please check the file format: %w", err)
				}
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Data imported successfully! total=%d streak=%d goal=%d\n",
					out.Document.TotalRounds, out.Document.Streak, out.Document.DailyGoal)
				warnUnsaved(cmd.OutOrStdout(), out.Persisted)
				return nil
			})
		},
	}
}

func newHistoryCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List rounds per day",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runApp(opts, func(app *bootstrap.App) error {
				stats, err := app.ProgressCLI.Stats(context.Background())
				if err != nil {
					return err
				}
				if len(stats.History) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no history")
					return nil
				}
				for i := len(stats.History) - 1; i >= 0; i-- {
					day := stats.History[i]
					mark := ""
					if day.Rounds >= stats.Goal {
						mark = " ✓"
					}
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s  %3d%s\n", day.Date, day.Rounds, mark)
				}
				return nil
			})
		},
	}
}

func newReportCmd(opts *rootOptions) *cobra.Command {
	var notePath string
	var width int
	var raw bool
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render a markdown summary of the practice",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runApp(opts, func(app *bootstrap.App) error {
				ctx := context.Background()
				stats, err := app.ProgressCLI.Stats(ctx)
				if err != nil {
					return err
				}
				doc, err := app.ProgressCLI.Document(ctx)
				if err != nil {
					return err
				}
				now := time.Now()
				md := report.Build(stats, doc, now)
				if notePath != "" {
					if err := report.WriteNote(notePath, md, now); err != nil {
						return err
					}
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "report written to %s\n", notePath)
					return nil
				}
				if raw {
					_, _ = fmt.Fprint(cmd.OutOrStdout(), md)
					return nil
				}
				style := "dark"
				if t, err := app.PreferencesCLI.Theme(ctx); err == nil {
					style = t.Theme
				}
				rendered, err := report.Render(md, style, width)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprint(cmd.OutOrStdout(), rendered)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&notePath, "note", "", "update the report block of a markdown note instead of printing")
	cmd.Flags().IntVar(&width, "width", 80, "word wrap width")
	cmd.Flags().BoolVar(&raw, "raw", false, "print markdown without rendering")
	return cmd
}

func newThemeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:       "theme [toggle|dark|light]",
		Short:     "Show or change the color theme",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"toggle", "dark", "light"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApp(opts, func(app *bootstrap.App) error {
				ctx := context.Background()
				if len(args) == 0 {
					out, err := app.PreferencesCLI.Theme(ctx)
					if err != nil {
						return err
					}
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "theme=%s\n", out.Theme)
					return nil
				}
				out, err := app.PreferencesCLI.ApplyTheme(ctx, args[0])
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "theme=%s\n", out.Theme)
				warnUnsaved(cmd.OutOrStdout(), out.Persisted)
				return nil
			})
		},
	}
}

func newAudioCmd(opts *rootOptions) *cobra.Command {
	audio := &cobra.Command{Use: "audio", Short: "Audio feedback settings"}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show audio settings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runApp(opts, func(app *bootstrap.App) error {
				out, err := app.PreferencesCLI.Audio(context.Background())
				if err != nil {
					return err
				}
				printAudio(cmd.OutOrStdout(), out.BeadSoundEnabled, out.RoundSoundEnabled, out.NotificationsEnabled, out.VoiceChantingEnabled, out.SelectedVoice, out.PlaybackRate)
				for _, v := range out.Voices {
					mark := " "
					if v.Selected {
						mark = "*"
					}
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  %s %-8s %s\n", mark, v.Key, v.Name)
				}
				rates := make([]string, 0, len(out.PlaybackRates))
				for _, r := range out.PlaybackRates {
					rates = append(rates, strconv.FormatFloat(r, 'g', -1, 64))
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "speeds: %s\n", strings.Join(rates, ", "))
				return nil
			})
		},
	}

	toggle := &cobra.Command{
		Use:       "toggle bead|round|notifications|voice-chanting",
		Short:     "Flip an audio switch",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"bead", "round", "notifications", "voice-chanting"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApp(opts, func(app *bootstrap.App) error {
				out, err := app.PreferencesCLI.ToggleAudio(context.Background(), args[0])
				if err != nil {
					return err
				}
				printAudio(cmd.OutOrStdout(), out.BeadSoundEnabled, out.RoundSoundEnabled, out.NotificationsEnabled, out.VoiceChantingEnabled, out.SelectedVoice, out.PlaybackRate)
				warnUnsaved(cmd.OutOrStdout(), out.Persisted)
				return nil
			})
		},
	}

	voice := &cobra.Command{
		Use:   "voice <name>",
		Short: "Select the chanting voice",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApp(opts, func(app *bootstrap.App) error {
				out, err := app.PreferencesCLI.SetVoice(context.Background(), args[0])
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "voice=%s\n", out.SelectedVoice)
				warnUnsaved(cmd.OutOrStdout(), out.Persisted)
				return nil
			})
		},
	}

	speed := &cobra.Command{
		Use:   "speed <rate>",
		Short: "Set the voice playback rate",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApp(opts, func(app *bootstrap.App) error {
				out, err := app.PreferencesCLI.SetPlaybackRate(context.Background(), args[0])
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "speed=%g×\n", out.PlaybackRate)
				warnUnsaved(cmd.OutOrStdout(), out.Persisted)
				return nil
			})
		},
	}

	audio.AddCommand(show, toggle, voice, speed)
	return audio
}

func printAudio(w io.Writer, bead, round, notifications, voiceChanting bool, voice string, rate float64) {
	_, _ = fmt.Fprintf(w, "bead=%t round=%t notifications=%t voice-chanting=%t voice=%s speed=%g\n",
		bead, round, notifications, voiceChanting, voice, rate)
}

func warnUnsaved(w io.Writer, persisted bool) {
	if !persisted {
		_, _ = fmt.Fprintln(w, "warning: change applied but could not be saved")
	}
}

// confirm shows prompt and reads a y/yes answer from in.
func confirm(in io.Reader, out io.Writer, prompt string) bool {
	_, _ = fmt.Fprintf(out, "%s\n\nContinue? [y/N] ", prompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
