package core

import (
	"time"

	"github.com/zyedidia/generic/heap"
)

// TaskID identifies a scheduled task.
type TaskID uint64

type task struct {
	id       TaskID
	due      time.Duration
	seq      uint64
	fn       func()
	canceled bool
}

// Scheduler is a virtual clock with a queue of deferred tasks.
// Everything runs on the caller's goroutine inside Advance; tasks due at the
// same instant run in scheduling order.
type Scheduler struct {
	now   time.Duration
	seq   uint64
	queue *heap.Heap[*task]
	byID  map[TaskID]*task
}

// NewScheduler creates an idle scheduler at time zero.
func NewScheduler() *Scheduler {
	s := &Scheduler{}
	s.Reset()
	return s
}

func lessTask(a, b *task) bool {
	if a.due != b.due {
		return a.due < b.due
	}
	return a.seq < b.seq
}

// Now returns the virtual time.
func (s *Scheduler) Now() time.Duration { return s.now }

// After schedules fn to run d after the current virtual time.
// Negative delays are treated as zero.
func (s *Scheduler) After(d time.Duration, fn func()) TaskID {
	if d < 0 {
		d = 0
	}
	s.seq++
	t := &task{id: TaskID(s.seq), due: s.now + d, seq: s.seq, fn: fn}
	s.queue.Push(t)
	s.byID[t.id] = t
	return t.id
}

// Cancel prevents a pending task from running.
func (s *Scheduler) Cancel(id TaskID) bool {
	t, ok := s.byID[id]
	if !ok {
		return false
	}
	t.canceled = true
	delete(s.byID, id)
	return true
}

// Pending returns the number of tasks still waiting to run.
func (s *Scheduler) Pending() int { return len(s.byID) }

// Advance moves the clock forward by d and runs every task that falls due,
// including tasks scheduled by those tasks. It returns the number of tasks
// run.
func (s *Scheduler) Advance(d time.Duration) int {
	if d < 0 {
		d = 0
	}
	target := s.now + d
	ran := 0
	for {
		t, ok := s.queue.Peek()
		if !ok || t.due > target {
			break
		}
		s.queue.Pop()
		if t.canceled {
			continue
		}
		delete(s.byID, t.id)
		if t.due > s.now {
			s.now = t.due
		}
		t.fn()
		ran++
	}
	s.now = target
	return ran
}

// Flush runs pending tasks in order, jumping the clock to each due time,
// until the queue is empty or limit tasks have run. It returns the number of
// tasks run.
func (s *Scheduler) Flush(limit int) int {
	ran := 0
	for ran < limit {
		t, ok := s.queue.Peek()
		if !ok {
			break
		}
		if t.canceled {
			s.queue.Pop()
			continue
		}
		ran += s.Advance(t.due - s.now)
	}
	return ran
}

// Reset drops every pending task. The clock keeps its current time.
func (s *Scheduler) Reset() {
	s.queue = heap.New[*task](lessTask)
	s.byID = make(map[TaskID]*task)
}

// once wraps fn so that only the first call runs it.
func once(fn func()) func() {
	done := false
	return func() {
		if done {
			return
		}
		done = true
		fn()
	}
}
