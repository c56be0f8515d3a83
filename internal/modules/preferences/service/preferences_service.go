package service

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"japa/internal/modules/preferences/domain"
	preferencesout "japa/internal/modules/preferences/port/out"
	apperrors "japa/internal/platform/errors"
	"japa/internal/platform/logging"
)

// PreferencesService reads and writes the theme and audio settings. Like the
// progress document, a failed write is logged and reported, never returned.
type PreferencesService struct {
	store  preferencesout.ValueStore
	logger *zap.Logger
}

func NewPreferencesService(store preferencesout.ValueStore, logger *zap.Logger) *PreferencesService {
	return &PreferencesService{store: store, logger: logging.OrNop(logger)}
}

func (s *PreferencesService) Theme(ctx context.Context) domain.Theme {
	raw, err := s.store.Get(ctx, domain.ThemeKey)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.logger.Warn("load theme failed", zap.Error(err))
		}
		return domain.DefaultTheme
	}
	return domain.DecodeTheme(raw)
}

func (s *PreferencesService) SetTheme(ctx context.Context, theme domain.Theme) bool {
	if err := s.store.Set(ctx, domain.ThemeKey, []byte(theme)); err != nil {
		s.logger.Error("persist theme failed", zap.String("theme", string(theme)), zap.Error(err))
		return false
	}
	return true
}

// Audio returns the stored settings merged over the defaults. Missing or
// unusable fields are repaired in the store.
func (s *PreferencesService) Audio(ctx context.Context) domain.AudioSettings {
	raw, err := s.store.Get(ctx, domain.AudioKey)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.logger.Warn("load audio settings failed", zap.Error(err))
		}
		settings := domain.DefaultAudioSettings()
		s.SaveAudio(ctx, settings)
		return settings
	}
	settings, complete := domain.DecodeAudioSettings(raw)
	if !complete {
		s.logger.Info("audio settings repaired with defaults")
		s.SaveAudio(ctx, settings)
	}
	return settings
}

func (s *PreferencesService) SaveAudio(ctx context.Context, settings domain.AudioSettings) bool {
	payload, err := json.Marshal(settings)
	if err == nil {
		err = s.store.Set(ctx, domain.AudioKey, payload)
	}
	if err != nil {
		s.logger.Error("persist audio settings failed", zap.Error(err))
		return false
	}
	return true
}
