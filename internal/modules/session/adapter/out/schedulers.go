package out

import (
	"time"

	sessiondto "japa/internal/modules/session/dto"
	sessionout "japa/internal/modules/session/port/out"
	"japa/internal/platform/dispatch"
)

// LoopScheduler delivers completions on a dispatch loop.
type LoopScheduler struct {
	loop *dispatch.Loop
}

func NewLoopScheduler(loop *dispatch.Loop) LoopScheduler {
	return LoopScheduler{loop: loop}
}

func (s LoopScheduler) Schedule(delay time.Duration, task func()) sessionout.Handle {
	return s.loop.Schedule(delay, task)
}

type ListenerFunc func(signal sessiondto.Signal)

func (f ListenerFunc) Notify(signal sessiondto.Signal) {
	f(signal)
}
