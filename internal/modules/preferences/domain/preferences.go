package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	apperrors "japa/internal/platform/errors"
)

// Storage keys. The theme survives every clear.
const (
	ThemeKey = "theme"
	AudioKey = "audioSettings"
)

type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"

	DefaultTheme = ThemeDark
)

func ParseTheme(raw string) (Theme, error) {
	switch Theme(strings.ToLower(strings.TrimSpace(raw))) {
	case ThemeDark:
		return ThemeDark, nil
	case ThemeLight:
		return ThemeLight, nil
	default:
		return "", fmt.Errorf("%w: unknown theme %q", apperrors.ErrInvalidInput, raw)
	}
}

func (t Theme) Toggle() Theme {
	if t == ThemeLight {
		return ThemeDark
	}
	return ThemeLight
}

// DecodeTheme reads the stored value. Anything unrecognised is the default.
func DecodeTheme(data []byte) Theme {
	raw := strings.Trim(string(bytes.TrimSpace(data)), `"`)
	theme, err := ParseTheme(raw)
	if err != nil {
		return DefaultTheme
	}
	return theme
}

type Voice struct {
	Key  string
	Name string
}

var Voices = []Voice{
	{Key: "prabhupada", Name: "Prabhupada"},
	{Key: "girl", Name: "Girl Voice"},
	{Key: "classic", Name: "Classic Tone"},
	{Key: "gentle", Name: "Gentle Bell"},
	{Key: "deep", Name: "Deep Om"},
	{Key: "tibetan", Name: "Tibetan Bowl"},
	{Key: "crystal", Name: "Crystal Chime"},
}

var PlaybackRates = []float64{1, 1.25, 1.4, 1.5, 1.7}

func knownVoice(key string) bool {
	for _, v := range Voices {
		if v.Key == key {
			return true
		}
	}
	return false
}

func knownRate(rate float64) bool {
	for _, r := range PlaybackRates {
		if r == rate {
			return true
		}
	}
	return false
}

type AudioSettings struct {
	BeadSoundEnabled     bool    `json:"beadSoundEnabled"`
	RoundSoundEnabled    bool    `json:"roundSoundEnabled"`
	SelectedVoice        string  `json:"selectedVoice"`
	PlaybackRate         float64 `json:"playbackRate"`
	NotificationsEnabled bool    `json:"notificationsEnabled"`
	VoiceChantingEnabled bool    `json:"voiceChantingEnabled"`
}

func DefaultAudioSettings() AudioSettings {
	return AudioSettings{
		BeadSoundEnabled:     true,
		RoundSoundEnabled:    true,
		SelectedVoice:        "prabhupada",
		PlaybackRate:         1.4,
		NotificationsEnabled: true,
		VoiceChantingEnabled: true,
	}
}

// DecodeAudioSettings merges stored fields over the defaults. complete is
// false when any field was missing or unusable, so the caller can write the
// repaired settings back.
func DecodeAudioSettings(data []byte) (settings AudioSettings, complete bool) {
	settings = DefaultAudioSettings()
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
		return settings, false
	}
	complete = true
	flag := func(name string, dst *bool) {
		var v bool
		if raw, ok := fields[name]; ok && json.Unmarshal(raw, &v) == nil {
			*dst = v
			return
		}
		complete = false
	}
	flag("beadSoundEnabled", &settings.BeadSoundEnabled)
	flag("roundSoundEnabled", &settings.RoundSoundEnabled)
	flag("notificationsEnabled", &settings.NotificationsEnabled)
	flag("voiceChantingEnabled", &settings.VoiceChantingEnabled)

	var voice string
	if raw, ok := fields["selectedVoice"]; ok && json.Unmarshal(raw, &voice) == nil && knownVoice(voice) {
		settings.SelectedVoice = voice
	} else {
		complete = false
	}
	var rate float64
	if raw, ok := fields["playbackRate"]; ok && json.Unmarshal(raw, &rate) == nil && knownRate(rate) {
		settings.PlaybackRate = rate
	} else {
		complete = false
	}
	return settings, complete
}

// AudioToggles names the on/off settings accepted by Toggle.
var AudioToggles = []string{"bead", "round", "notifications", "voice-chanting"}

func (s *AudioSettings) Toggle(name string) (bool, error) {
	var target *bool
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "bead":
		target = &s.BeadSoundEnabled
	case "round":
		target = &s.RoundSoundEnabled
	case "notifications":
		target = &s.NotificationsEnabled
	case "voice-chanting":
		target = &s.VoiceChantingEnabled
	default:
		return false, fmt.Errorf("%w: unknown audio setting %q", apperrors.ErrInvalidInput, name)
	}
	*target = !*target
	return *target, nil
}

func (s *AudioSettings) SetVoice(key string) error {
	key = strings.ToLower(strings.TrimSpace(key))
	if !knownVoice(key) {
		return fmt.Errorf("%w: unknown voice %q", apperrors.ErrInvalidInput, key)
	}
	s.SelectedVoice = key
	return nil
}

func (s *AudioSettings) SetPlaybackRate(raw string) error {
	rate, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || !knownRate(rate) {
		return fmt.Errorf("%w: unsupported playback rate %q", apperrors.ErrInvalidInput, raw)
	}
	s.PlaybackRate = rate
	return nil
}
