// Package schedule runs one-shot delayed callbacks that can be cancelled
// individually or all at once when their owner goes away.
package schedule

import (
	"sync"
	"time"
)

// Task is a handle to one scheduled callback.
type Task struct {
	id    uint64
	timer *time.Timer
	owner *Scheduler
}

// Cancel stops the callback if it has not started yet. It reports whether
// the call prevented the callback from running. A nil Task is a no-op.
func (t *Task) Cancel() bool {
	if t == nil || t.timer == nil {
		return false
	}
	t.timer.Stop()
	return t.owner.take(t.id)
}

// Scheduler tracks pending tasks so they can be torn down together.
type Scheduler struct {
	mu     sync.Mutex
	nextID uint64
	tasks  map[uint64]*Task
	closed bool
}

func New() *Scheduler {
	return &Scheduler{tasks: make(map[uint64]*Task)}
}

// After runs fn once after d. On a closed scheduler nothing is scheduled and
// the returned task is inert.
func (s *Scheduler) After(d time.Duration, fn func()) *Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return &Task{owner: s}
	}

	s.nextID++
	t := &Task{id: s.nextID, owner: s}
	t.timer = time.AfterFunc(d, func() {
		if !s.take(t.id) {
			return
		}
		fn()
	})
	s.tasks[t.id] = t
	return t
}

// take removes a task from the pending set. Only the caller that gets true
// may run or drop it, so a cancel racing with a firing timer resolves once.
func (s *Scheduler) take(id uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[id]; !ok {
		return false
	}
	delete(s.tasks, id)
	return true
}

// Pending returns the number of tasks that have neither run nor been cancelled.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// Close cancels every pending task and refuses new ones.
func (s *Scheduler) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for id, t := range s.tasks {
		t.timer.Stop()
		delete(s.tasks, id)
	}
}

func (s *Scheduler) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
