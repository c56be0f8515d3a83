package in

import (
	"context"

	progressdto "japa/internal/modules/progress/dto"
	"japa/internal/modules/session/dto"
)

type Usecase interface {
	Start(ctx context.Context) (dto.StateOutput, error)
	Chant(ctx context.Context) (dto.ChantOutput, error)
	State(ctx context.Context) dto.StateOutput
	ResetBeads(ctx context.Context) (dto.ResetOutput, error)
	ResetCurrentProgress(ctx context.Context) (dto.ResetOutput, error)
	ClearAll(ctx context.Context, scope progressdto.ClearScope) (dto.ResetOutput, error)
	Close()
}
