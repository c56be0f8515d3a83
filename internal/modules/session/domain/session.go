package domain

import (
	"fmt"

	apperrors "japa/internal/platform/errors"
)

// BeadsPerRound is the length of one round on the mala.
const BeadsPerRound = 108

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseAccumulating
	// PhaseCompleting holds a full round whose bookkeeping is still scheduled.
	// Chants are ignored until it settles.
	PhaseCompleting
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseAccumulating:
		return "accumulating"
	case PhaseCompleting:
		return "completing"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

type Step int

const (
	StepIgnored Step = iota
	StepCounted
	StepRoundFull
)

func (s Step) String() string {
	switch s {
	case StepIgnored:
		return "ignored"
	case StepCounted:
		return "counted"
	case StepRoundFull:
		return "round_full"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

// State is the transient bead counter. The zero value is an idle session.
type State struct {
	Beads int
	Phase Phase
}

func (s *State) Chant() Step {
	if s.Phase == PhaseCompleting {
		return StepIgnored
	}
	s.Beads++
	if s.Beads >= BeadsPerRound {
		s.Beads = BeadsPerRound
		s.Phase = PhaseCompleting
		return StepRoundFull
	}
	s.Phase = PhaseAccumulating
	return StepCounted
}

// Resume restores a bead count saved by an earlier run.
func (s *State) Resume(beads int) error {
	if s.Phase == PhaseCompleting {
		return apperrors.ErrCompletionPending
	}
	if beads < 0 || beads >= BeadsPerRound {
		return fmt.Errorf("%w: bead count %d", apperrors.ErrInvalidInput, beads)
	}
	s.Beads = beads
	s.Phase = PhaseIdle
	if beads > 0 {
		s.Phase = PhaseAccumulating
	}
	return nil
}

// Settle ends a completion and starts the next round from zero.
func (s *State) Settle() {
	s.Beads = 0
	s.Phase = PhaseIdle
}

func (s *State) ResetBeads() error {
	if s.Phase == PhaseCompleting {
		return apperrors.ErrCompletionPending
	}
	s.Settle()
	return nil
}
