package usecase

import (
	"context"

	"japa/internal/modules/preferences/domain"
	"japa/internal/modules/preferences/dto"
	preferencesin "japa/internal/modules/preferences/port/in"
	"japa/internal/modules/preferences/service"
)

type Interactor struct {
	svc *service.PreferencesService
}

func NewInteractor(svc *service.PreferencesService) preferencesin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Theme(ctx context.Context) (dto.ThemeOutput, error) {
	return dto.ThemeOutput{Theme: string(i.svc.Theme(ctx)), Persisted: true}, nil
}

func (i *Interactor) SetTheme(ctx context.Context, raw string) (dto.ThemeOutput, error) {
	theme, err := domain.ParseTheme(raw)
	if err != nil {
		return dto.ThemeOutput{}, err
	}
	return dto.ThemeOutput{Theme: string(theme), Persisted: i.svc.SetTheme(ctx, theme)}, nil
}

func (i *Interactor) ToggleTheme(ctx context.Context) (dto.ThemeOutput, error) {
	theme := i.svc.Theme(ctx).Toggle()
	return dto.ThemeOutput{Theme: string(theme), Persisted: i.svc.SetTheme(ctx, theme)}, nil
}

func (i *Interactor) Audio(ctx context.Context) (dto.AudioOutput, error) {
	return toAudioOutput(i.svc.Audio(ctx), true), nil
}

func (i *Interactor) ToggleAudio(ctx context.Context, setting string) (dto.AudioOutput, error) {
	return i.mutateAudio(ctx, func(s *domain.AudioSettings) error {
		_, err := s.Toggle(setting)
		return err
	})
}

func (i *Interactor) SetVoice(ctx context.Context, key string) (dto.AudioOutput, error) {
	return i.mutateAudio(ctx, func(s *domain.AudioSettings) error { return s.SetVoice(key) })
}

func (i *Interactor) SetPlaybackRate(ctx context.Context, raw string) (dto.AudioOutput, error) {
	return i.mutateAudio(ctx, func(s *domain.AudioSettings) error { return s.SetPlaybackRate(raw) })
}

func (i *Interactor) mutateAudio(ctx context.Context, apply func(*domain.AudioSettings) error) (dto.AudioOutput, error) {
	settings := i.svc.Audio(ctx)
	if err := apply(&settings); err != nil {
		return dto.AudioOutput{}, err
	}
	return toAudioOutput(settings, i.svc.SaveAudio(ctx, settings)), nil
}

func toAudioOutput(s domain.AudioSettings, persisted bool) dto.AudioOutput {
	voices := make([]dto.VoiceOutput, 0, len(domain.Voices))
	for _, v := range domain.Voices {
		voices = append(voices, dto.VoiceOutput{Key: v.Key, Name: v.Name, Selected: v.Key == s.SelectedVoice})
	}
	return dto.AudioOutput{
		BeadSoundEnabled:     s.BeadSoundEnabled,
		RoundSoundEnabled:    s.RoundSoundEnabled,
		SelectedVoice:        s.SelectedVoice,
		PlaybackRate:         s.PlaybackRate,
		NotificationsEnabled: s.NotificationsEnabled,
		VoiceChantingEnabled: s.VoiceChantingEnabled,
		Voices:               voices,
		PlaybackRates:        append([]float64(nil), domain.PlaybackRates...),
		Persisted:            persisted,
	}
}
