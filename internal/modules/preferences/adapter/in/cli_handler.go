package in

import (
	"context"

	preferencesdto "japa/internal/modules/preferences/dto"
	preferencesin "japa/internal/modules/preferences/port/in"
)

type CLIHandler struct {
	usecase preferencesin.Usecase
}

func NewCLIHandler(usecase preferencesin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Theme(ctx context.Context) (preferencesdto.ThemeOutput, error) {
	return h.usecase.Theme(ctx)
}

// ApplyTheme sets dark or light, or flips the current theme for "toggle".
func (h CLIHandler) ApplyTheme(ctx context.Context, arg string) (preferencesdto.ThemeOutput, error) {
	if arg == "toggle" {
		return h.usecase.ToggleTheme(ctx)
	}
	return h.usecase.SetTheme(ctx, arg)
}

func (h CLIHandler) Audio(ctx context.Context) (preferencesdto.AudioOutput, error) {
	return h.usecase.Audio(ctx)
}

func (h CLIHandler) ToggleAudio(ctx context.Context, setting string) (preferencesdto.AudioOutput, error) {
	return h.usecase.ToggleAudio(ctx, setting)
}

func (h CLIHandler) SetVoice(ctx context.Context, key string) (preferencesdto.AudioOutput, error) {
	return h.usecase.SetVoice(ctx, key)
}

func (h CLIHandler) SetPlaybackRate(ctx context.Context, raw string) (preferencesdto.AudioOutput, error) {
	return h.usecase.SetPlaybackRate(ctx, raw)
}
