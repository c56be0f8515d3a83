package in

import (
	"context"

	progressdto "japa/internal/modules/progress/dto"
	progressin "japa/internal/modules/progress/port/in"
)

type CLIHandler struct {
	usecase progressin.Usecase
}

func NewCLIHandler(usecase progressin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Document(ctx context.Context) (progressdto.DocumentOutput, error) {
	return h.usecase.Document(ctx)
}

func (h CLIHandler) Stats(ctx context.Context) (progressdto.StatsOutput, error) {
	return h.usecase.Stats(ctx)
}

func (h CLIHandler) SetGoal(ctx context.Context, raw string) (progressdto.MutationOutput, error) {
	return h.usecase.SetGoal(ctx, raw)
}

func (h CLIHandler) SetGoalPreset(ctx context.Context, index int) (progressdto.MutationOutput, error) {
	return h.usecase.SetGoalPreset(ctx, index)
}

func (h CLIHandler) ResetTodayRounds(ctx context.Context) (progressdto.MutationOutput, error) {
	return h.usecase.ResetTodayRounds(ctx)
}

func (h CLIHandler) ResetCurrentProgress(ctx context.Context) (progressdto.MutationOutput, error) {
	return h.usecase.ResetCurrentProgress(ctx)
}

func (h CLIHandler) Export(ctx context.Context, dir string) (progressdto.ExportOutput, error) {
	return h.usecase.Export(ctx, progressdto.ExportInput{Dir: dir})
}

func (h CLIHandler) Import(ctx context.Context, path string) (progressdto.MutationOutput, error) {
	return h.usecase.Import(ctx, progressdto.ImportInput{Path: path})
}
