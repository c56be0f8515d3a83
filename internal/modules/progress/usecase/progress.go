package usecase

import (
	"context"
	"fmt"
	"strings"

	"japa/internal/modules/progress/domain"
	"japa/internal/modules/progress/dto"
	progressin "japa/internal/modules/progress/port/in"
	progressout "japa/internal/modules/progress/port/out"
	"japa/internal/modules/progress/service"
	"japa/internal/platform/clock"
	apperrors "japa/internal/platform/errors"
)

type Interactor struct {
	svc     *service.ProgressService
	backups progressout.BackupStore
	clock   clock.Clock
}

func NewInteractor(svc *service.ProgressService, backups progressout.BackupStore, clock clock.Clock) progressin.Usecase {
	return &Interactor{svc: svc, backups: backups, clock: clock}
}

func (i *Interactor) Load(ctx context.Context) (dto.DocumentOutput, error) {
	return i.toOutput(i.svc.Load(ctx)), nil
}

func (i *Interactor) Save(ctx context.Context) (dto.MutationOutput, error) {
	doc := i.svc.Document(ctx)
	return i.mutation(doc, i.svc.Save(ctx)), nil
}

func (i *Interactor) Document(ctx context.Context) (dto.DocumentOutput, error) {
	return i.toOutput(i.svc.Document(ctx)), nil
}

func (i *Interactor) CompleteRound(ctx context.Context) (dto.RoundOutput, error) {
	outcome, doc, persisted := i.svc.CompleteRound(ctx)
	return dto.RoundOutput{
		MutationOutput: i.mutation(doc, persisted),
		TodayCount:     outcome.TodayCount,
		GoalAchieved:   outcome.GoalAchieved,
	}, nil
}

func (i *Interactor) SyncBeads(ctx context.Context, beads int) (dto.MutationOutput, error) {
	doc, persisted, err := i.svc.SyncBeads(ctx, beads)
	if err != nil {
		return dto.MutationOutput{}, err
	}
	return i.mutation(doc, persisted), nil
}

func (i *Interactor) SetGoal(ctx context.Context, raw string) (dto.MutationOutput, error) {
	goal, err := domain.ParseGoal(raw)
	if err != nil {
		return dto.MutationOutput{}, err
	}
	doc, persisted, err := i.svc.SetGoal(ctx, goal)
	if err != nil {
		return dto.MutationOutput{}, err
	}
	return i.mutation(doc, persisted), nil
}

func (i *Interactor) SetGoalPreset(ctx context.Context, index int) (dto.MutationOutput, error) {
	goal, err := domain.GoalPreset(index)
	if err != nil {
		return dto.MutationOutput{}, err
	}
	doc, persisted, err := i.svc.SetGoal(ctx, goal)
	if err != nil {
		return dto.MutationOutput{}, err
	}
	return i.mutation(doc, persisted), nil
}

func (i *Interactor) ResetBeads(ctx context.Context) (dto.MutationOutput, error) {
	doc, persisted := i.svc.ResetBeads(ctx)
	return i.mutation(doc, persisted), nil
}

func (i *Interactor) ResetTodayRounds(ctx context.Context) (dto.MutationOutput, error) {
	doc, persisted := i.svc.ResetTodayRounds(ctx)
	return i.mutation(doc, persisted), nil
}

func (i *Interactor) ResetCurrentProgress(ctx context.Context) (dto.MutationOutput, error) {
	doc, persisted := i.svc.ResetCurrentProgress(ctx)
	return i.mutation(doc, persisted), nil
}

func (i *Interactor) ClearAll(ctx context.Context, scope dto.ClearScope) (dto.MutationOutput, error) {
	var everything bool
	switch scope {
	case dto.ClearProgress, "":
	case dto.ClearEverything:
		everything = true
	default:
		return dto.MutationOutput{}, fmt.Errorf("%w: unknown clear scope %q", apperrors.ErrInvalidInput, scope)
	}
	doc, persisted := i.svc.ClearAll(ctx, everything)
	return i.mutation(doc, persisted), nil
}

func (i *Interactor) Stats(ctx context.Context) (dto.StatsOutput, error) {
	stats := i.svc.Stats(ctx)
	history := make([]dto.DayCountOutput, 0, len(stats.History))
	for _, day := range stats.History {
		history = append(history, dto.DayCountOutput{Date: day.Date, Rounds: day.Rounds})
	}
	return dto.StatsOutput{
		Today:        stats.Today,
		Goal:         stats.Goal,
		Progress:     stats.Progress,
		Streak:       stats.Streak,
		TotalRounds:  stats.TotalRounds,
		CurrentBeads: stats.CurrentBeads,
		History:      history,
	}, nil
}

func (i *Interactor) Export(ctx context.Context, input dto.ExportInput) (dto.ExportOutput, error) {
	if i.backups == nil {
		return dto.ExportOutput{}, fmt.Errorf("backup store is not configured")
	}
	dir := strings.TrimSpace(input.Dir)
	if dir == "" {
		dir = "."
	}
	name, payload, err := i.svc.Backup(ctx)
	if err != nil {
		return dto.ExportOutput{}, err
	}
	path, err := i.backups.Write(ctx, dir, name, payload)
	if err != nil {
		return dto.ExportOutput{}, err
	}
	return dto.ExportOutput{Path: path, Bytes: len(payload)}, nil
}

func (i *Interactor) Import(ctx context.Context, input dto.ImportInput) (dto.MutationOutput, error) {
	payload := input.Data
	if payload == nil {
		if strings.TrimSpace(input.Path) == "" {
			return dto.MutationOutput{}, fmt.Errorf("%w: import path or data is required", apperrors.ErrInvalidInput)
		}
		if i.backups == nil {
			return dto.MutationOutput{}, fmt.Errorf("backup store is not configured")
		}
		raw, err := i.backups.Read(ctx, input.Path)
		if err != nil {
			return dto.MutationOutput{}, err
		}
		payload = raw
	}
	doc, persisted, err := i.svc.Import(ctx, payload)
	if err != nil {
		return dto.MutationOutput{}, err
	}
	return i.mutation(doc, persisted), nil
}

func (i *Interactor) mutation(doc domain.Document, persisted bool) dto.MutationOutput {
	return dto.MutationOutput{Document: i.toOutput(doc), Persisted: persisted}
}

func (i *Interactor) toOutput(doc domain.Document) dto.DocumentOutput {
	now := i.clock.Now()
	activity := make([]dto.ActivityOutput, 0, len(doc.RecentActivity))
	for _, a := range doc.RecentActivity {
		activity = append(activity, dto.ActivityOutput{
			Message:   a.Message,
			Kind:      string(a.Kind),
			Timestamp: a.Timestamp,
			Date:      a.Date,
			Time:      a.Time,
		})
	}
	last := ""
	if doc.LastChantDate != nil {
		last = *doc.LastChantDate
	}
	return dto.DocumentOutput{
		TotalRounds:    doc.TotalRounds,
		DailyGoal:      doc.DailyGoal,
		Streak:         doc.Streak,
		LastChantDate:  last,
		DailyHistory:   doc.DailyHistory,
		RecentActivity: activity,
		CurrentBeads:   doc.CurrentBeads,
		TodayCount:     doc.TodayCount(now),
		Progress:       doc.Progress(now),
	}
}
