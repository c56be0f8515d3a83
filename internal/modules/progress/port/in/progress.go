package in

import (
	"context"

	"japa/internal/modules/progress/dto"
)

type Usecase interface {
	Load(ctx context.Context) (dto.DocumentOutput, error)
	Save(ctx context.Context) (dto.MutationOutput, error)
	Document(ctx context.Context) (dto.DocumentOutput, error)
	CompleteRound(ctx context.Context) (dto.RoundOutput, error)
	SyncBeads(ctx context.Context, beads int) (dto.MutationOutput, error)
	SetGoal(ctx context.Context, raw string) (dto.MutationOutput, error)
	SetGoalPreset(ctx context.Context, index int) (dto.MutationOutput, error)
	ResetBeads(ctx context.Context) (dto.MutationOutput, error)
	ResetTodayRounds(ctx context.Context) (dto.MutationOutput, error)
	ResetCurrentProgress(ctx context.Context) (dto.MutationOutput, error)
	ClearAll(ctx context.Context, scope dto.ClearScope) (dto.MutationOutput, error)
	Stats(ctx context.Context) (dto.StatsOutput, error)
	Export(ctx context.Context, input dto.ExportInput) (dto.ExportOutput, error)
	Import(ctx context.Context, input dto.ImportInput) (dto.MutationOutput, error)
}
