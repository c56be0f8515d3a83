package service

import (
	"testing"
	"time"

	"japa/internal/modules/session/domain"
	sessionout "japa/internal/modules/session/port/out"
)

// firedHandle models a timer that already fired and queued its task.
type firedHandle struct{}

func (firedHandle) Cancel() bool { return false }

type queueScheduler struct {
	queued []func()
}

func (s *queueScheduler) Schedule(_ time.Duration, task func()) sessionout.Handle {
	s.queued = append(s.queued, task)
	return firedHandle{}
}

func fillRound(svc *SessionService, complete func()) {
	for i := 0; i < domain.BeadsPerRound; i++ {
		svc.Chant(complete)
	}
}

func TestAbortDropsQueuedCompletion(t *testing.T) {
	t.Parallel()
	sched := &queueScheduler{}
	svc := NewSessionService(sched, DefaultCompletionDelay, nil)
	completed := 0
	fillRound(svc, func() { completed++ })

	if svc.Abort() {
		t.Fatalf("abort cannot cancel a fired timer")
	}
	sched.queued[0]()
	if completed != 0 {
		t.Fatalf("stale completion ran")
	}
	if state := svc.State(); state.Phase != domain.PhaseIdle || state.Beads != 0 {
		t.Fatalf("unexpected state: %+v", state)
	}

	fillRound(svc, func() { completed++ })
	sched.queued[1]()
	if completed != 1 {
		t.Fatalf("fresh completion should run, got %d", completed)
	}
}

func TestNegativeDelayFallsBackToDefault(t *testing.T) {
	t.Parallel()
	svc := NewSessionService(&queueScheduler{}, -time.Second, nil)
	if svc.delay != DefaultCompletionDelay {
		t.Fatalf("expected default delay, got %s", svc.delay)
	}
}
