package service

import (
	"time"

	"go.uber.org/zap"

	"japa/internal/modules/session/domain"
	sessionout "japa/internal/modules/session/port/out"
	"japa/internal/platform/logging"
)

// DefaultCompletionDelay lets the bead-108 feedback finish before the round
// is booked.
const DefaultCompletionDelay = 500 * time.Millisecond

// SessionService owns the transient bead counter and the one pending
// completion. Not safe for concurrent use.
type SessionService struct {
	scheduler sessionout.Scheduler
	delay     time.Duration
	logger    *zap.Logger

	state   domain.State
	pending sessionout.Handle
	// epoch invalidates a completion whose timer already fired when Abort ran.
	epoch uint64
}

func NewSessionService(scheduler sessionout.Scheduler, delay time.Duration, logger *zap.Logger) *SessionService {
	if delay < 0 {
		delay = DefaultCompletionDelay
	}
	return &SessionService{scheduler: scheduler, delay: delay, logger: logging.OrNop(logger)}
}

func (s *SessionService) State() domain.State {
	return s.state
}

func (s *SessionService) Resume(beads int) error {
	return s.state.Resume(beads)
}

// Chant counts one bead. When it fills the round, complete is scheduled once
// and the session stays in PhaseCompleting until Settle.
func (s *SessionService) Chant(complete func()) domain.Step {
	step := s.state.Chant()
	switch step {
	case domain.StepIgnored:
		s.logger.Debug("chant ignored while completing")
	case domain.StepRoundFull:
		epoch := s.epoch
		s.pending = s.scheduler.Schedule(s.delay, func() {
			if s.epoch != epoch {
				s.logger.Debug("stale round completion dropped")
				return
			}
			complete()
		})
		s.logger.Debug("round completion scheduled", zap.Duration("delay", s.delay))
	}
	return step
}

// Settle is called by the scheduled completion once the round is booked.
func (s *SessionService) Settle() {
	s.pending = nil
	s.state.Settle()
}

func (s *SessionService) ResetBeads() error {
	return s.state.ResetBeads()
}

// Abort cancels a pending completion and zeroes the counter. It reports
// whether a completion was dropped.
func (s *SessionService) Abort() bool {
	s.epoch++
	dropped := false
	if s.pending != nil {
		dropped = s.pending.Cancel()
		s.pending = nil
		if dropped {
			s.logger.Info("pending round completion cancelled")
		}
	}
	s.state.Settle()
	return dropped
}
