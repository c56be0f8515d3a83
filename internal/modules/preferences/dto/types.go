package dto

type ThemeOutput struct {
	Theme     string
	Persisted bool
}

type VoiceOutput struct {
	Key      string
	Name     string
	Selected bool
}

type AudioOutput struct {
	BeadSoundEnabled     bool
	RoundSoundEnabled    bool
	SelectedVoice        string
	PlaybackRate         float64
	NotificationsEnabled bool
	VoiceChantingEnabled bool
	Voices               []VoiceOutput
	PlaybackRates        []float64
	Persisted            bool
}
