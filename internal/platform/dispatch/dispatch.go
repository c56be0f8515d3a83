// Package dispatch runs tasks one at a time on a single goroutine. Delayed
// tasks are posted back into the same queue when their timer fires, so no two
// tasks ever interleave.
package dispatch

import (
	"errors"
	"sync"
	"time"
)

var ErrStopped = errors.New("dispatch loop stopped")

// Handle cancels a scheduled task that has not started yet.
type Handle interface {
	Cancel() bool
}

type Loop struct {
	tasks chan func()
	quit  chan struct{}
	done  chan struct{}

	mu      sync.Mutex
	stopped bool
	timers  map[*timerHandle]struct{}
}

func New() *Loop {
	l := &Loop{
		tasks:  make(chan func(), 64),
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
		timers: map[*timerHandle]struct{}{},
	}
	go l.run()
	return l
}

func (l *Loop) run() {
	defer close(l.done)
	for {
		select {
		case <-l.quit:
			return
		case task := <-l.tasks:
			task()
		}
	}
}

// Post queues task behind everything already queued.
func (l *Loop) Post(task func()) error {
	l.mu.Lock()
	stopped := l.stopped
	l.mu.Unlock()
	if stopped {
		return ErrStopped
	}
	select {
	case l.tasks <- task:
		return nil
	case <-l.quit:
		return ErrStopped
	}
}

// Do posts task and waits until it has run on the loop.
func (l *Loop) Do(task func()) error {
	finished := make(chan struct{})
	if err := l.Post(func() {
		defer close(finished)
		task()
	}); err != nil {
		return err
	}
	select {
	case <-finished:
		return nil
	case <-l.done:
		return ErrStopped
	}
}

// Schedule posts task into the loop after delay. The returned handle cancels
// it as long as the timer has not fired.
func (l *Loop) Schedule(delay time.Duration, task func()) Handle {
	h := &timerHandle{loop: l}
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return h
	}
	l.timers[h] = struct{}{}
	h.timer = time.AfterFunc(delay, func() {
		l.forget(h)
		_ = l.Post(task)
	})
	l.mu.Unlock()
	return h
}

func (l *Loop) forget(h *timerHandle) {
	l.mu.Lock()
	delete(l.timers, h)
	l.mu.Unlock()
}

// Stop cancels pending timers, drops queued tasks and waits for the loop
// goroutine to exit.
func (l *Loop) Stop() {
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		<-l.done
		return
	}
	l.stopped = true
	for h := range l.timers {
		if h.timer != nil {
			h.timer.Stop()
		}
	}
	l.timers = map[*timerHandle]struct{}{}
	l.mu.Unlock()
	close(l.quit)
	<-l.done
}

type timerHandle struct {
	loop  *Loop
	timer *time.Timer
}

func (h *timerHandle) Cancel() bool {
	if h.timer == nil {
		return false
	}
	stopped := h.timer.Stop()
	h.loop.forget(h)
	return stopped
}
