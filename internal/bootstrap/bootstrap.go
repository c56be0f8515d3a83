package bootstrap

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	preferencesinadapter "japa/internal/modules/preferences/adapter/in"
	preferencesoutadapter "japa/internal/modules/preferences/adapter/out"
	preferencesdomain "japa/internal/modules/preferences/domain"
	preferencesservice "japa/internal/modules/preferences/service"
	preferencesusecase "japa/internal/modules/preferences/usecase"
	progressinadapter "japa/internal/modules/progress/adapter/in"
	progressoutadapter "japa/internal/modules/progress/adapter/out"
	progressin "japa/internal/modules/progress/port/in"
	progressservice "japa/internal/modules/progress/service"
	progressusecase "japa/internal/modules/progress/usecase"
	sessioninadapter "japa/internal/modules/session/adapter/in"
	sessionoutadapter "japa/internal/modules/session/adapter/out"
	sessionout "japa/internal/modules/session/port/out"
	sessionservice "japa/internal/modules/session/service"
	sessionusecase "japa/internal/modules/session/usecase"
	"japa/internal/platform/clock"
	"japa/internal/platform/config"
	"japa/internal/platform/dispatch"
	"japa/internal/platform/kvstore"
	"japa/internal/platform/logging"
	uiapp "japa/internal/ui/app"
)

type App struct {
	Config         config.Config
	Logger         *zap.Logger
	ProgressCLI    progressinadapter.CLIHandler
	PreferencesCLI preferencesinadapter.CLIHandler

	clock    clock.Clock
	store    kvstore.Store
	progress progressin.Usecase
}

func New(cfg config.Config, debug bool) (*App, error) {
	logger, err := logging.New(cfg.LogPath, cfg.Log.Level, debug)
	if err != nil {
		return nil, fmt.Errorf("new logger: %w", err)
	}
	store, err := kvstore.Open(cfg.Storage.Backend, cfg.StorePath, cfg.DBPath)
	if err != nil {
		_ = logger.Sync()
		return nil, fmt.Errorf("open %s store: %w", cfg.Storage.Backend, err)
	}
	logger.Debug("store opened", zap.String("backend", cfg.Storage.Backend), zap.String("home", cfg.HomePath))

	clk := clock.SystemClock{}
	progressUC := progressusecase.NewInteractor(
		progressservice.NewProgressService(clk,
			progressoutadapter.NewKVDocumentStore(store, preferencesdomain.ThemeKey),
			logger.Named("progress"),
		),
		progressoutadapter.NewFileBackupStore(),
		clk,
	)
	preferencesUC := preferencesusecase.NewInteractor(preferencesservice.NewPreferencesService(
		preferencesoutadapter.NewKVValueStore(store),
		logger.Named("preferences"),
	))

	return &App{
		Config:         cfg,
		Logger:         logger,
		ProgressCLI:    progressinadapter.NewCLIHandler(progressUC),
		PreferencesCLI: preferencesinadapter.NewCLIHandler(preferencesUC),
		clock:          clk,
		store:          store,
		progress:       progressUC,
	}, nil
}

// NewSession builds a session controller whose completions run on scheduler.
// The scheduler decides which event loop owns the session.
func (a *App) NewSession(scheduler sessionout.Scheduler, listeners ...sessionout.Listener) sessioninadapter.CLIHandler {
	svc := sessionservice.NewSessionService(scheduler, a.Config.Session.CompletionDelay, a.Logger.Named("session"))
	return sessioninadapter.NewCLIHandler(sessionusecase.NewInteractor(svc, a.progress, a.Logger.Named("session"), listeners...))
}

// NewLoopSession is NewSession on a dispatch loop, for callers outside the
// terminal UI.
func (a *App) NewLoopSession(loop *dispatch.Loop, listeners ...sessionout.Listener) sessioninadapter.CLIHandler {
	return a.NewSession(sessionoutadapter.NewLoopScheduler(loop), listeners...)
}

func (a *App) Close() error {
	err := a.store.Close()
	_ = a.Logger.Sync()
	return err
}

func RunTUI(app *App) error {
	newSession := func(scheduler sessionout.Scheduler, listeners ...sessionout.Listener) uiapp.SessionPort {
		return app.NewSession(scheduler, listeners...)
	}
	model := uiapp.NewModel(app.clock, app.ProgressCLI, app.PreferencesCLI, newSession, app.Logger.Named("tui"))
	program := tea.NewProgram(model, tea.WithAltScreen())
	final, err := program.Run()
	if m, ok := final.(uiapp.Model); ok {
		m.Close()
	}
	return errors.Join(err, app.Close())
}
