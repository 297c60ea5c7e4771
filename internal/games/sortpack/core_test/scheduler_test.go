package core_test

import (
	"testing"
	"time"

	"github.com/vovakirdan/sortpack/internal/games/sortpack/core"
)

func TestSchedulerRunsTasksInDueOrder(t *testing.T) {
	s := core.NewScheduler()
	var got []string
	s.After(300*time.Millisecond, func() { got = append(got, "c") })
	s.After(100*time.Millisecond, func() { got = append(got, "a") })
	s.After(100*time.Millisecond, func() { got = append(got, "b") })

	if n := s.Advance(200 * time.Millisecond); n != 2 {
		t.Errorf("Advance ran %d tasks, want 2", n)
	}
	if s.Now() != 200*time.Millisecond {
		t.Errorf("Now = %v, want 200ms", s.Now())
	}
	s.Advance(100 * time.Millisecond)

	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("task %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSchedulerRunsChainedTasksWithinAdvance(t *testing.T) {
	s := core.NewScheduler()
	var at []time.Duration
	s.After(100*time.Millisecond, func() {
		at = append(at, s.Now())
		s.After(50*time.Millisecond, func() { at = append(at, s.Now()) })
	})

	s.Advance(time.Second)

	if len(at) != 2 {
		t.Fatalf("ran %d tasks, want 2", len(at))
	}
	if at[1] != 150*time.Millisecond {
		t.Errorf("chained task ran at %v, want 150ms", at[1])
	}
}

func TestSchedulerCancelAndReset(t *testing.T) {
	s := core.NewScheduler()
	ran := 0
	id := s.After(time.Millisecond, func() { ran++ })
	s.After(time.Millisecond, func() { ran++ })

	if !s.Cancel(id) {
		t.Error("Cancel returned false for a pending task")
	}
	if s.Cancel(id) {
		t.Error("Cancel returned true twice")
	}
	if s.Pending() != 1 {
		t.Errorf("Pending = %d, want 1", s.Pending())
	}
	s.Flush(10)
	if ran != 1 {
		t.Errorf("ran = %d, want 1", ran)
	}

	s.After(time.Millisecond, func() { ran++ })
	s.Reset()
	s.Flush(10)
	if ran != 1 {
		t.Errorf("task survived Reset")
	}
}

func TestCountdownTimer(t *testing.T) {
	timer := core.NewCountdownTimer(3 * time.Second)
	timer.Advance(time.Second)
	if timer.Remaining() != 3*time.Second {
		t.Error("stopped timer should not count down")
	}

	timer.Start()
	timer.Advance(time.Second)
	timer.Pause()
	timer.Advance(time.Second)
	timer.Resume()
	timer.AddTime(time.Second)
	if got := timer.Remaining(); got != 3*time.Second {
		t.Errorf("Remaining = %v, want 3s", got)
	}

	timer.Advance(5 * time.Second)
	if !timer.Expired() || timer.Remaining() != 0 || timer.Running() {
		t.Errorf("timer should be expired at zero, got remaining %v", timer.Remaining())
	}
	timer.AddTime(time.Second)
	if timer.Remaining() != 0 {
		t.Error("expired timer should not accept more time")
	}
}
