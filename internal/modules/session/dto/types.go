package dto

import progressdto "japa/internal/modules/progress/dto"

type ChantOutput struct {
	// Outcome is one of "counted", "round_full" or "ignored".
	Outcome string
	Beads   int
	Phase   string
}

type StateOutput struct {
	Beads int
	Phase string
}

type ResetOutput struct {
	State    StateOutput
	Progress progressdto.MutationOutput
}

type SignalKind string

const (
	SignalBeadCounted    SignalKind = "bead_counted"
	SignalRoundCompleted SignalKind = "round_completed"
	SignalGoalAchieved   SignalKind = "goal_achieved"
)

// Signal tells presentation and audio collaborators that something happened.
type Signal struct {
	Kind       SignalKind
	Beads      int
	TodayCount int
	Goal       int
	Persisted  bool
}
