package in

import (
	"context"

	"japa/internal/modules/preferences/dto"
)

type Usecase interface {
	Theme(ctx context.Context) (dto.ThemeOutput, error)
	SetTheme(ctx context.Context, raw string) (dto.ThemeOutput, error)
	ToggleTheme(ctx context.Context) (dto.ThemeOutput, error)
	Audio(ctx context.Context) (dto.AudioOutput, error)
	ToggleAudio(ctx context.Context, setting string) (dto.AudioOutput, error)
	SetVoice(ctx context.Context, key string) (dto.AudioOutput, error)
	SetPlaybackRate(ctx context.Context, raw string) (dto.AudioOutput, error)
}
