package in

import (
	"context"

	progressdto "japa/internal/modules/progress/dto"
	sessiondto "japa/internal/modules/session/dto"
	sessionin "japa/internal/modules/session/port/in"
)

type CLIHandler struct {
	usecase sessionin.Usecase
}

func NewCLIHandler(usecase sessionin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Start(ctx context.Context) (sessiondto.StateOutput, error) {
	return h.usecase.Start(ctx)
}

func (h CLIHandler) Chant(ctx context.Context) (sessiondto.ChantOutput, error) {
	return h.usecase.Chant(ctx)
}

func (h CLIHandler) State(ctx context.Context) sessiondto.StateOutput {
	return h.usecase.State(ctx)
}

func (h CLIHandler) ResetBeads(ctx context.Context) (sessiondto.ResetOutput, error) {
	return h.usecase.ResetBeads(ctx)
}

func (h CLIHandler) ResetCurrentProgress(ctx context.Context) (sessiondto.ResetOutput, error) {
	return h.usecase.ResetCurrentProgress(ctx)
}

func (h CLIHandler) ClearAll(ctx context.Context, everything bool) (sessiondto.ResetOutput, error) {
	scope := progressdto.ClearProgress
	if everything {
		scope = progressdto.ClearEverything
	}
	return h.usecase.ClearAll(ctx, scope)
}

func (h CLIHandler) Close() {
	h.usecase.Close()
}
