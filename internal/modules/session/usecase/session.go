package usecase

import (
	"context"

	"go.uber.org/zap"

	progressdto "japa/internal/modules/progress/dto"
	progressin "japa/internal/modules/progress/port/in"
	"japa/internal/modules/session/domain"
	sessiondto "japa/internal/modules/session/dto"
	sessionin "japa/internal/modules/session/port/in"
	sessionout "japa/internal/modules/session/port/out"
	"japa/internal/modules/session/service"
	"japa/internal/platform/logging"
)

type Interactor struct {
	svc       *service.SessionService
	progress  progressin.Usecase
	listeners []sessionout.Listener
	logger    *zap.Logger
}

func NewInteractor(svc *service.SessionService, progress progressin.Usecase, logger *zap.Logger, listeners ...sessionout.Listener) sessionin.Usecase {
	return &Interactor{svc: svc, progress: progress, listeners: listeners, logger: logging.OrNop(logger)}
}

// Start resumes the bead count saved with the progress document.
func (i *Interactor) Start(ctx context.Context) (sessiondto.StateOutput, error) {
	doc, err := i.progress.Load(ctx)
	if err != nil {
		return sessiondto.StateOutput{}, err
	}
	if err := i.svc.Resume(doc.CurrentBeads); err != nil {
		return sessiondto.StateOutput{}, err
	}
	return i.State(ctx), nil
}

func (i *Interactor) Chant(ctx context.Context) (sessiondto.ChantOutput, error) {
	taskCtx := context.WithoutCancel(ctx)
	step := i.svc.Chant(func() { i.complete(taskCtx) })
	state := i.svc.State()
	out := sessiondto.ChantOutput{Outcome: step.String(), Beads: state.Beads, Phase: state.Phase.String()}
	switch step {
	case domain.StepIgnored:
		return out, nil
	case domain.StepCounted:
		if _, err := i.progress.SyncBeads(ctx, state.Beads); err != nil {
			return out, err
		}
	}
	i.notify(sessiondto.Signal{Kind: sessiondto.SignalBeadCounted, Beads: state.Beads})
	return out, nil
}

// complete runs as the scheduled task of a full round.
func (i *Interactor) complete(ctx context.Context) {
	round, err := i.progress.CompleteRound(ctx)
	i.svc.Settle()
	if err != nil {
		i.logger.Error("complete round failed", zap.Error(err))
		return
	}
	signal := sessiondto.Signal{
		Kind:       sessiondto.SignalRoundCompleted,
		TodayCount: round.TodayCount,
		Goal:       round.Document.DailyGoal,
		Persisted:  round.Persisted,
	}
	i.notify(signal)
	if round.GoalAchieved {
		signal.Kind = sessiondto.SignalGoalAchieved
		i.notify(signal)
	}
}

func (i *Interactor) State(context.Context) sessiondto.StateOutput {
	state := i.svc.State()
	return sessiondto.StateOutput{Beads: state.Beads, Phase: state.Phase.String()}
}

func (i *Interactor) ResetBeads(ctx context.Context) (sessiondto.ResetOutput, error) {
	if err := i.svc.ResetBeads(); err != nil {
		return sessiondto.ResetOutput{}, err
	}
	out, err := i.progress.ResetBeads(ctx)
	if err != nil {
		return sessiondto.ResetOutput{}, err
	}
	return sessiondto.ResetOutput{State: i.State(ctx), Progress: out}, nil
}

// ResetCurrentProgress restarts today from zero, transient beads included.
func (i *Interactor) ResetCurrentProgress(ctx context.Context) (sessiondto.ResetOutput, error) {
	if err := i.svc.ResetBeads(); err != nil {
		return sessiondto.ResetOutput{}, err
	}
	out, err := i.progress.ResetCurrentProgress(ctx)
	if err != nil {
		return sessiondto.ResetOutput{}, err
	}
	return sessiondto.ResetOutput{State: i.State(ctx), Progress: out}, nil
}

// ClearAll drops any pending completion before the store is wiped, so a stale
// round cannot land on the fresh document.
func (i *Interactor) ClearAll(ctx context.Context, scope progressdto.ClearScope) (sessiondto.ResetOutput, error) {
	i.svc.Abort()
	out, err := i.progress.ClearAll(ctx, scope)
	if err != nil {
		return sessiondto.ResetOutput{}, err
	}
	return sessiondto.ResetOutput{State: i.State(ctx), Progress: out}, nil
}

func (i *Interactor) Close() {
	i.svc.Abort()
}

func (i *Interactor) notify(signal sessiondto.Signal) {
	for _, l := range i.listeners {
		l.Notify(signal)
	}
}
