package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	sessiondto "japa/internal/modules/session/dto"
	sessionout "japa/internal/modules/session/port/out"
)

// taskDueMsg fires a task scheduled through teaScheduler.
type taskDueMsg struct{ id int }

// teaScheduler turns scheduled tasks into tea.Tick commands. Tasks run from
// Update when their tick arrives, so they share Bubble Tea's event loop with
// every other session call.
type teaScheduler struct {
	next    int
	tasks   map[int]func()
	pending []tea.Cmd
}

func newTeaScheduler() *teaScheduler {
	return &teaScheduler{tasks: map[int]func(){}}
}

func (s *teaScheduler) Schedule(delay time.Duration, task func()) sessionout.Handle {
	s.next++
	id := s.next
	s.tasks[id] = task
	s.pending = append(s.pending, tea.Tick(delay, func(time.Time) tea.Msg { return taskDueMsg{id: id} }))
	return teaHandle{s: s, id: id}
}

// Drain hands the ticks scheduled since the last call to the runtime.
func (s *teaScheduler) Drain() []tea.Cmd {
	cmds := s.pending
	s.pending = nil
	return cmds
}

// Fire runs the task once. Cancelled or already fired tasks are skipped.
func (s *teaScheduler) Fire(id int) bool {
	task, ok := s.tasks[id]
	if !ok {
		return false
	}
	delete(s.tasks, id)
	task()
	return true
}

type teaHandle struct {
	s  *teaScheduler
	id int
}

func (h teaHandle) Cancel() bool {
	if _, ok := h.s.tasks[h.id]; !ok {
		return false
	}
	delete(h.s.tasks, h.id)
	return true
}

// signalQueue collects session signals until Update handles them.
type signalQueue struct {
	signals []sessiondto.Signal
}

func (q *signalQueue) Notify(signal sessiondto.Signal) {
	q.signals = append(q.signals, signal)
}

func (q *signalQueue) Drain() []sessiondto.Signal {
	out := q.signals
	q.signals = nil
	return out
}
